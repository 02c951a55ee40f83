package transport

import (
	"context"
	"encoding/json"
	"io"
	"mime"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/nidhogg/crossgate/internal/engine"
	"go.uber.org/zap"
)

// Applier is the engine-side surface the inbound transports call into.
type Applier interface {
	Apply(ctx context.Context, action string, params, echo json.RawMessage) engine.Result
	Codec() engine.Codec
}

// HTTPAction is the synchronous request/response action endpoint. It is
// not an event channel: it only carries wire actions inward.
type HTTPAction struct {
	applier Applier
	token   string
	prefix  string
	logger  *zap.Logger
}

// NewHTTPAction creates the endpoint. prefix is prepended to the action
// route ("" for /{action}, "/api" for /api/{action}).
func NewHTTPAction(applier Applier, token, prefix string, logger *zap.Logger) *HTTPAction {
	return &HTTPAction{applier: applier, token: token, prefix: prefix, logger: logger}
}

// Routes returns the chi subrouter for this endpoint.
func (h *HTTPAction) Routes() chi.Router {
	r := chi.NewRouter()
	h.Register(r)
	return r
}

// Register adds the action route to an existing router, so the endpoint
// can share a mount with the WS upgrade route.
func (h *HTTPAction) Register(r chi.Router) {
	r.Post(h.prefix+"/{action}", h.handleAction)
}

func (h *HTTPAction) handleAction(w http.ResponseWriter, r *http.Request) {
	if !authorize(r, h.token) {
		http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
		return
	}
	mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil || mt != "application/json" {
		http.Error(w, `{"error":"unsupported content type"}`, http.StatusUnsupportedMediaType)
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, 4<<20))
	if err != nil {
		http.Error(w, `{"error":"read body"}`, http.StatusBadRequest)
		return
	}
	if len(body) == 0 {
		body = []byte("{}")
	}

	action := chi.URLParam(r, "action")
	res := h.applier.Apply(r.Context(), action, body, nil)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(res.Status)
	w.Write(res.Body)
}
