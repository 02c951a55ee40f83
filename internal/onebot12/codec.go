// Package onebot12 implements the OneBot v12 wire protocol: string
// identifiers, {type, detail_type} events with a self descriptor, and the
// same envelope family as v11 with the v12 retcode taxonomy.
package onebot12

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/nidhogg/crossgate/internal/adapter"
	"github.com/nidhogg/crossgate/internal/engine"
	"github.com/nidhogg/crossgate/internal/ident"
	"github.com/nidhogg/crossgate/internal/model"
	"go.uber.org/zap"
)

const (
	retOK          = 0
	retBadRequest  = 10001
	retUnknown     = 10002
	retBadParam    = 10003
	retUnsupported = 33000
	retInternal    = 20002
)

var errBadParam = errors.New("bad param")

type handler func(ctx context.Context, params json.RawMessage) (any, error)

// Codec is the OneBot v12 protocol codec for one account.
type Codec struct {
	api      adapter.API
	ids      *ident.Resolver
	platform string
	self     model.ID
	history  *engine.History
	actions  map[string]handler
	logger   *zap.Logger
}

// New creates the codec. history backs the get_latest_events poll action
// and may be nil when polling is disabled.
func New(api adapter.API, ids *ident.Resolver, platform string, self model.ID, history *engine.History, logger *zap.Logger) *Codec {
	c := &Codec{
		api:      api,
		ids:      ids,
		platform: platform,
		self:     self,
		history:  history,
		logger:   logger,
	}
	c.actions = c.buildActions()
	return c
}

func (c *Codec) Protocol() string { return "onebot" }
func (c *Codec) Version() string  { return "v12" }

// HelloFrames sends the meta connect event with version info.
func (c *Codec) HelloFrames() [][]byte {
	ev := model.Lifecycle(c.platform, c.self, "connect")
	payload, ok := c.EncodeEvent(ev, 0)
	if !ok {
		return nil
	}
	return [][]byte{payload}
}

func (c *Codec) WebhookHeaders(h http.Header) {
	h.Set("X-OneBot-Version", "12")
	h.Set("X-Impl", "crossgate")
	h.Set("X-Platform", c.platform)
	h.Set("X-Self-ID", c.self.Str)
}

type envelope struct {
	Status  string          `json:"status"`
	Retcode int             `json:"retcode"`
	Data    any             `json:"data"`
	Message string          `json:"message"`
	Echo    json.RawMessage `json:"echo,omitempty"`
}

func reply(status int, env envelope) engine.Result {
	body, err := json.Marshal(env)
	if err != nil {
		body = []byte(`{"status":"failed","retcode":20002,"data":null,"message":"encode failed"}`)
	}
	return engine.Result{Status: status, Body: body}
}

// Apply implements engine.Codec.
func (c *Codec) Apply(ctx context.Context, action string, params, echo json.RawMessage) engine.Result {
	h, ok := c.actions[action]
	if !ok {
		return reply(http.StatusNotFound, envelope{
			Status: "failed", Retcode: retUnknown,
			Message: fmt.Sprintf("unsupported action: %s", action),
			Echo:    echo,
		})
	}
	if len(params) == 0 {
		params = []byte("{}")
	}
	data, err := h(ctx, params)
	switch {
	case err == nil:
		if data == nil {
			data = struct{}{}
		}
		return reply(http.StatusOK, envelope{Status: "ok", Retcode: retOK, Data: data, Echo: echo})
	case adapter.IsUnsupported(err):
		return reply(http.StatusOK, envelope{
			Status: "failed", Retcode: retUnsupported, Message: err.Error(), Echo: echo,
		})
	case errors.Is(err, errBadParam):
		return reply(http.StatusBadRequest, envelope{
			Status: "failed", Retcode: retBadParam, Message: err.Error(), Echo: echo,
		})
	default:
		c.logger.Warn("action failed", zap.String("action", action), zap.Error(err))
		return reply(http.StatusOK, envelope{
			Status: "failed", Retcode: retInternal, Message: err.Error(), Echo: echo,
		})
	}
}

// resolve maps a wire-side string identifier to its canonical ID.
func (c *Codec) resolve(ctx context.Context, s string) (model.ID, error) {
	if s == "" {
		return model.ID{}, fmt.Errorf("%w: empty id", errBadParam)
	}
	id, err := c.ids.Resolve(ctx, c.platform, s)
	if err != nil {
		return model.ID{}, err
	}
	return id, nil
}

func decode[T any](params json.RawMessage) (T, error) {
	var v T
	if err := json.Unmarshal(params, &v); err != nil {
		var zero T
		return zero, fmt.Errorf("%w: %v", errBadParam, err)
	}
	return v, nil
}
