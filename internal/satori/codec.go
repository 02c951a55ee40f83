// Package satori implements the Satori wire protocol: string identifiers,
// resource-style method names (message.create, guild.member.kick), plain
// data responses, and an op-coded WebSocket signaling layer.
package satori

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

var errBadParams = errors.New("bad params")

type handler func(ctx context.Context, params json.RawMessage) (any, error)

// Codec is the Satori protocol codec for one account. token is checked
// against the IDENTIFY signal on the event WebSocket.
type Codec struct {
	api      adapter.API
	ids      *ident.Resolver
	platform string
	self     model.ID
	token    string
	actions  map[string]handler
	logger   *zap.Logger
}

// New creates the codec and its method table.
func New(api adapter.API, ids *ident.Resolver, platform string, self model.ID, token string, logger *zap.Logger) *Codec {
	c := &Codec{
		api:      api,
		ids:      ids,
		platform: platform,
		self:     self,
		token:    token,
		logger:   logger,
	}
	c.actions = c.buildActions()
	return c
}

func (c *Codec) Protocol() string { return "satori" }
func (c *Codec) Version() string  { return "v1" }

// HelloFrames is empty: Satori peers receive READY in response to their
// IDENTIFY signal, not unconditionally on connect.
func (c *Codec) HelloFrames() [][]byte { return nil }

func (c *Codec) WebhookHeaders(h http.Header) {
	h.Set("Satori-Opcode", "0")
	h.Set("Satori-Platform", c.platform)
	h.Set("Satori-Login-ID", c.self.Str)
}

func fail(status int, format string, args ...any) engine.Result {
	body, _ := json.Marshal(map[string]string{"message": fmt.Sprintf(format, args...)})
	return engine.Result{Status: status, Body: body}
}

// Apply implements engine.Codec. Success responses carry the method's
// data object directly; failures carry an HTTP error status and a
// {message} body.
func (c *Codec) Apply(ctx context.Context, action string, params, _ json.RawMessage) engine.Result {
	h, ok := c.actions[action]
	if !ok {
		return fail(http.StatusNotFound, "unknown method: %s", action)
	}
	if len(params) == 0 {
		params = []byte("{}")
	}
	data, err := h(ctx, params)
	switch {
	case err == nil:
		if data == nil {
			data = map[string]any{}
		}
		body, merr := json.Marshal(data)
		if merr != nil {
			return fail(http.StatusInternalServerError, "encode response: %v", merr)
		}
		return engine.Result{Status: http.StatusOK, Body: body}
	case adapter.IsUnsupported(err):
		return fail(http.StatusMethodNotAllowed, "%s", err.Error())
	case errors.Is(err, errBadParams):
		return fail(http.StatusBadRequest, "%s", err.Error())
	default:
		c.logger.Warn("method failed", zap.String("method", action), zap.Error(err))
		return fail(http.StatusInternalServerError, "%s", err.Error())
	}
}

func (c *Codec) resolve(ctx context.Context, source string) (model.ID, error) {
	return c.ids.Resolve(ctx, c.platform, source)
}

func decode[T any](params json.RawMessage) (T, error) {
	var v T
	if err := json.Unmarshal(params, &v); err != nil {
		var zero T
		return zero, fmt.Errorf("%w: %v", errBadParams, err)
	}
	return v, nil
}
