// Package milky implements the Milky wire protocol: numeric identifiers,
// an /api/{method} HTTP surface, an /events WS endpoint and typed
// {event_type, data} event envelopes.
package milky

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/nidhogg/crossgate/internal/adapter"
	"github.com/nidhogg/crossgate/internal/engine"
	"github.com/nidhogg/crossgate/internal/ident"
	"github.com/nidhogg/crossgate/internal/model"
	"go.uber.org/zap"
)

const (
	retOK          = 0
	retBadParams   = -400
	retUnknown     = -404
	retUnsupported = -405
	retInternal    = -500
)

var errBadParams = errors.New("bad params")

type handler func(ctx context.Context, params json.RawMessage) (any, error)

// Codec is the Milky protocol codec for one account.
type Codec struct {
	api      adapter.API
	ids      *ident.Resolver
	platform string
	self     model.ID
	actions  map[string]handler
	logger   *zap.Logger
}

// New creates the codec and its dispatch table.
func New(api adapter.API, ids *ident.Resolver, platform string, self model.ID, logger *zap.Logger) *Codec {
	c := &Codec{
		api:      api,
		ids:      ids,
		platform: platform,
		self:     self,
		logger:   logger,
	}
	c.actions = c.buildActions()
	return c
}

func (c *Codec) Protocol() string { return "milky" }
func (c *Codec) Version() string  { return "v1" }

func (c *Codec) HelloFrames() [][]byte { return nil }

func (c *Codec) WebhookHeaders(h http.Header) {
	h.Set("X-Milky-Version", "1")
	h.Set("X-Self-ID", strconv.FormatInt(c.self.Num, 10))
}

type envelope struct {
	Status  string          `json:"status"`
	Retcode int             `json:"retcode"`
	Data    any             `json:"data,omitempty"`
	Message string          `json:"message,omitempty"`
	Echo    json.RawMessage `json:"echo,omitempty"`
}

func reply(status int, env envelope) engine.Result {
	body, err := json.Marshal(env)
	if err != nil {
		body = []byte(`{"status":"failed","retcode":-500}`)
	}
	return engine.Result{Status: status, Body: body}
}

// Apply implements engine.Codec.
func (c *Codec) Apply(ctx context.Context, action string, params, echo json.RawMessage) engine.Result {
	h, ok := c.actions[action]
	if !ok {
		return reply(http.StatusNotFound, envelope{
			Status: "failed", Retcode: retUnknown,
			Message: fmt.Sprintf("unknown api: %s", action),
			Echo:    echo,
		})
	}
	if len(params) == 0 {
		params = []byte("{}")
	}
	data, err := h(ctx, params)
	switch {
	case err == nil:
		return reply(http.StatusOK, envelope{Status: "ok", Retcode: retOK, Data: data, Echo: echo})
	case adapter.IsUnsupported(err):
		return reply(http.StatusOK, envelope{
			Status: "failed", Retcode: retUnsupported, Message: err.Error(), Echo: echo,
		})
	case errors.Is(err, errBadParams):
		return reply(http.StatusBadRequest, envelope{
			Status: "failed", Retcode: retBadParams, Message: err.Error(), Echo: echo,
		})
	default:
		c.logger.Warn("api failed", zap.String("api", action), zap.Error(err))
		return reply(http.StatusOK, envelope{
			Status: "failed", Retcode: retInternal, Message: err.Error(), Echo: echo,
		})
	}
}

func (c *Codec) resolveNum(ctx context.Context, n int64) (model.ID, error) {
	id, err := c.ids.ResolveNumber(ctx, c.platform, n)
	if err != nil {
		return model.ID{}, err
	}
	return id, nil
}

func decode[T any](params json.RawMessage) (T, error) {
	var v T
	if err := json.Unmarshal(params, &v); err != nil {
		var zero T
		return zero, fmt.Errorf("%w: %v", errBadParams, err)
	}
	return v, nil
}
