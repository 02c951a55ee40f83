package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/nidhogg/crossgate/internal/engine"
	"github.com/nidhogg/crossgate/internal/model"
	"go.uber.org/zap"
)

// stubApplier records the last applied action and answers with a fixed
// envelope. Unknown actions come back 404 the way a real codec does.
type stubApplier struct {
	mu         sync.Mutex
	lastAction string
	lastParams []byte
}

func (s *stubApplier) Apply(_ context.Context, action string, params, _ json.RawMessage) engine.Result {
	s.mu.Lock()
	s.lastAction = action
	s.lastParams = append([]byte(nil), params...)
	s.mu.Unlock()
	if action == "" {
		return engine.Result{Status: http.StatusBadRequest, Body: []byte(`{"message":"unknown action: "}`)}
	}
	if action == "missing" {
		return engine.Result{Status: http.StatusNotFound, Body: []byte(`{"message":"unknown action: missing"}`)}
	}
	return engine.Result{Status: http.StatusOK, Body: []byte(`{"status":"ok"}`)}
}

func (s *stubApplier) Codec() engine.Codec { return stubCodec{} }

func (s *stubApplier) applied() (string, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastAction, string(s.lastParams)
}

type stubCodec struct{}

func (stubCodec) Protocol() string { return "stub" }
func (stubCodec) Version() string  { return "v0" }
func (stubCodec) EncodeEvent(*model.Event, int64) ([]byte, bool) {
	return []byte(`{"hello":true}`), true
}
func (stubCodec) Apply(context.Context, string, json.RawMessage, json.RawMessage) engine.Result {
	return engine.Result{Status: http.StatusOK, Body: []byte(`{}`)}
}
func (stubCodec) HelloFrames() [][]byte { return [][]byte{[]byte(`{"hello":true}`)} }
func (stubCodec) WebhookHeaders(h http.Header) {
	h.Set("X-Stub-Version", "0")
}

func newActionServer(t *testing.T, token string) (*stubApplier, *httptest.Server) {
	t.Helper()
	applier := &stubApplier{}
	h := NewHTTPAction(applier, token, "", zap.NewNop())
	ts := httptest.NewServer(h.Routes())
	t.Cleanup(ts.Close)
	return applier, ts
}

func TestActionEndpoint(t *testing.T) {
	applier, ts := newActionServer(t, "")

	resp, err := http.Post(ts.URL+"/send_msg", "application/json", bytes.NewReader([]byte(`{"x":1}`)))
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
	action, params := applier.applied()
	if action != "send_msg" {
		t.Errorf("applied action = %q", action)
	}
	if params != `{"x":1}` {
		t.Errorf("applied params = %s", params)
	}
}

func TestActionEndpointUnknownAction(t *testing.T) {
	_, ts := newActionServer(t, "")

	resp, err := http.Post(ts.URL+"/missing", "application/json", bytes.NewReader([]byte(`{}`)))
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}

func TestActionEndpointAuth(t *testing.T) {
	_, ts := newActionServer(t, "sekret")

	post := func(auth, query string) int {
		req, _ := http.NewRequest(http.MethodPost, ts.URL+"/ping"+query, bytes.NewReader([]byte(`{}`)))
		req.Header.Set("Content-Type", "application/json")
		if auth != "" {
			req.Header.Set("Authorization", auth)
		}
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			t.Fatalf("POST: %v", err)
		}
		resp.Body.Close()
		return resp.StatusCode
	}

	if got := post("", ""); got != http.StatusUnauthorized {
		t.Errorf("no credentials: status = %d, want 401", got)
	}
	if got := post("Bearer sekret", ""); got != http.StatusOK {
		t.Errorf("bearer token: status = %d, want 200", got)
	}
	if got := post("Bearer wrong", ""); got != http.StatusUnauthorized {
		t.Errorf("wrong bearer: status = %d, want 401", got)
	}
	if got := post("", "?access_token=sekret"); got != http.StatusOK {
		t.Errorf("query token: status = %d, want 200", got)
	}
	// Header takes precedence: a bad header loses even when the query
	// parameter carries the right token.
	if got := post("Bearer wrong", "?access_token=sekret"); got != http.StatusUnauthorized {
		t.Errorf("bad header + good query: status = %d, want 401", got)
	}
}

func TestActionEndpointContentType(t *testing.T) {
	_, ts := newActionServer(t, "")

	resp, err := http.Post(ts.URL+"/ping", "text/plain", bytes.NewReader([]byte(`{}`)))
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnsupportedMediaType {
		t.Errorf("status = %d, want 415", resp.StatusCode)
	}

	// No Content-Type at all is rejected the same way.
	req, err := http.NewRequest(http.MethodPost, ts.URL+"/ping", bytes.NewReader([]byte(`{}`)))
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	req.Header.Del("Content-Type")
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnsupportedMediaType {
		t.Errorf("missing content type: status = %d, want 415", resp.StatusCode)
	}

	// Charset parameters on the right media type are fine.
	resp, err = http.Post(ts.URL+"/ping", "application/json; charset=utf-8", bytes.NewReader([]byte(`{}`)))
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
}
