// Package onebot11 implements the OneBot v11 wire protocol: numeric
// identifiers, post_type events, array-form message segments and the
// {status, retcode, data} action envelope.
package onebot11

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

// Action retcodes. 0 is success; the 14xx range mirrors the protocol's
// client-error semantics, 1500 is an internal failure.
const (
	retOK          = 0
	retBadParams   = 1400
	retUnknown     = 1404
	retUnsupported = 1405
	retInternal    = 1500
)

var errBadParams = errors.New("bad params")

type handler func(ctx context.Context, params json.RawMessage) (any, error)

// Codec is the OneBot v11 protocol codec for one account.
type Codec struct {
	api      adapter.API
	ids      *ident.Resolver
	platform string
	self     model.ID
	actions  map[string]handler
	logger   *zap.Logger
}

// New creates the codec and builds its action dispatch table.
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

func (c *Codec) Protocol() string { return "onebot" }
func (c *Codec) Version() string  { return "v11" }

// HelloFrames sends the lifecycle connect meta event.
func (c *Codec) HelloFrames() [][]byte {
	payload, ok := c.EncodeEvent(model.Lifecycle(c.platform, c.self, "connect"), 0)
	if !ok {
		return nil
	}
	return [][]byte{payload}
}

func (c *Codec) WebhookHeaders(h http.Header) {
	h.Set("X-OneBot-Version", "11")
	h.Set("X-Self-ID", strconv.FormatInt(c.self.Num, 10))
}

type envelope struct {
	Status  string          `json:"status"`
	Retcode int             `json:"retcode"`
	Data    any             `json:"data"`
	Message string          `json:"message,omitempty"`
	Echo    json.RawMessage `json:"echo,omitempty"`
}

func reply(status int, env envelope) engine.Result {
	body, err := json.Marshal(env)
	if err != nil {
		body = []byte(`{"status":"failed","retcode":1500,"data":null}`)
	}
	return engine.Result{Status: status, Body: body}
}

// Apply implements engine.Codec. Every failure mode maps onto the
// protocol envelope; nothing escapes as a raw error.
func (c *Codec) Apply(ctx context.Context, action string, params, echo json.RawMessage) engine.Result {
	h, ok := c.actions[action]
	if !ok {
		return reply(http.StatusNotFound, envelope{
			Status: "failed", Retcode: retUnknown,
			Message: fmt.Sprintf("unknown action: %s", action),
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
	case errors.Is(err, errBadParams):
		return reply(http.StatusBadRequest, envelope{
			Status: "failed", Retcode: retBadParams, Message: err.Error(), Echo: echo,
		})
	default:
		c.logger.Warn("action failed", zap.String("action", action), zap.Error(err))
		return reply(http.StatusOK, envelope{
			Status: "failed", Retcode: retInternal, Message: err.Error(), Echo: echo,
		})
	}
}

// flexInt64 accepts a JSON number or a numeric string, the two forms v11
// clients send identifiers in.
type flexInt64 int64

func (f *flexInt64) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return err
		}
		*f = flexInt64(n)
		return nil
	}
	var n int64
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*f = flexInt64(n)
	return nil
}

// resolve maps a wire-side numeric identifier back to its canonical ID.
func (c *Codec) resolve(ctx context.Context, n flexInt64) (model.ID, error) {
	id, err := c.ids.ResolveNumber(ctx, c.platform, int64(n))
	if err != nil {
		return model.ID{}, fmt.Errorf("%w: %v", errBadParams, err)
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
