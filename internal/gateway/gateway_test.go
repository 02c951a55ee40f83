package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/nidhogg/crossgate/internal/bus"
	"github.com/nidhogg/crossgate/internal/config"
	"github.com/nidhogg/crossgate/internal/ident"
	"github.com/nidhogg/crossgate/internal/model"
	"github.com/nidhogg/crossgate/internal/registry"
	"go.uber.org/zap"
)

func newTestGateway(t *testing.T) *Gateway {
	t.Helper()
	ids := ident.NewResolver(ident.NewMemoryStore(), zap.NewNop())
	b := bus.New(zap.NewNop())
	t.Cleanup(b.Close)
	gw := NewGateway(registry.Default(), ids, b, zap.NewNop())
	t.Cleanup(gw.Close)
	return gw
}

func registerDemo(t *testing.T, gw *Gateway, protocols ...config.ProtocolConfig) *Account {
	t.Helper()
	acct, err := gw.Register(context.Background(), config.AccountConfig{
		Platform:  "demo",
		SelfID:    "10001",
		Protocols: protocols,
	}, NewDemo(model.NumericID(10001)))
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	return acct
}

func postJSON(t *testing.T, url, token, body string) (int, map[string]any) {
	t.Helper()
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader([]byte(body)))
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	defer resp.Body.Close()
	var out map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		out = nil
	}
	return resp.StatusCode, out
}

func TestAccountActionRouting(t *testing.T) {
	gw := newTestGateway(t)
	registerDemo(t, gw,
		config.ProtocolConfig{Protocol: "onebot11", HTTP: config.ToggleConfig{Enabled: true}},
		config.ProtocolConfig{Protocol: "milky", HTTP: config.ToggleConfig{Enabled: true}},
	)
	ts := httptest.NewServer(gw.Routes())
	defer ts.Close()

	status, env := postJSON(t, ts.URL+"/demo/10001/onebot/v11/send_private_msg", "",
		`{"user_id":42,"message":"hello"}`)
	if status != http.StatusOK {
		t.Fatalf("v11 status = %d, want 200", status)
	}
	if env["status"] != "ok" || env["retcode"] != float64(0) {
		t.Errorf("v11 envelope = %v", env)
	}

	// The milky surface of the same account hangs under /api.
	status, env = postJSON(t, ts.URL+"/demo/10001/milky/v1/api/get_login_info", "", `{}`)
	if status != http.StatusOK {
		t.Fatalf("milky status = %d, want 200", status)
	}
	data, _ := env["data"].(map[string]any)
	if data["uin"] != float64(10001) {
		t.Errorf("milky login info = %v", env)
	}

	status, _ = postJSON(t, ts.URL+"/demo/99999/onebot/v11/get_status", "", `{}`)
	if status != http.StatusNotFound {
		t.Errorf("unknown account status = %d, want 404", status)
	}
}

func TestAccessTokenGuardsActions(t *testing.T) {
	gw := newTestGateway(t)
	registerDemo(t, gw, config.ProtocolConfig{
		Protocol:    "onebot11",
		HTTP:        config.ToggleConfig{Enabled: true},
		AccessToken: "sekrit",
	})
	ts := httptest.NewServer(gw.Routes())
	defer ts.Close()

	status, _ := postJSON(t, ts.URL+"/demo/10001/onebot/v11/get_login_info", "", `{}`)
	if status != http.StatusUnauthorized {
		t.Errorf("missing token status = %d, want 401", status)
	}

	status, env := postJSON(t, ts.URL+"/demo/10001/onebot/v11/get_login_info", "sekrit", `{}`)
	if status != http.StatusOK {
		t.Fatalf("token status = %d, want 200", status)
	}
	if env["status"] != "ok" {
		t.Errorf("envelope = %v", env)
	}
}

func TestDuplicateAccountRejected(t *testing.T) {
	gw := newTestGateway(t)
	registerDemo(t, gw, config.ProtocolConfig{Protocol: "onebot11"})

	_, err := gw.Register(context.Background(), config.AccountConfig{
		Platform: "demo",
		SelfID:   "10001",
	}, NewDemo(model.NumericID(10001)))
	if err == nil {
		t.Fatal("second register succeeded")
	}
}

func TestUnknownProtocolRejected(t *testing.T) {
	gw := newTestGateway(t)

	_, err := gw.Register(context.Background(), config.AccountConfig{
		Platform:  "demo",
		SelfID:    "10001",
		Protocols: []config.ProtocolConfig{{Protocol: "irc"}},
	}, NewDemo(model.NumericID(10001)))
	if err == nil {
		t.Fatal("unknown protocol accepted")
	}
}

func TestEventFlowsToEngineHistory(t *testing.T) {
	gw := newTestGateway(t)
	acct := registerDemo(t, gw, config.ProtocolConfig{
		Protocol:    "onebot12",
		HTTP:        config.ToggleConfig{Enabled: true},
		HistorySize: 8,
	})
	if err := gw.StartAll(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}

	ev := &model.Event{
		Time:     time.Now(),
		Platform: "demo",
		SelfID:   model.NumericID(10001),
		Type:     model.EventMessage,
		Message: &model.MessageEvent{
			MessageID: model.NumericID(1),
			Scene:     model.SceneFriend,
			SceneID:   model.NumericID(42),
			Sender:    model.User{ID: model.NumericID(42)},
			Segments:  []model.Segment{model.Text("inbound")},
		},
	}
	if err := gw.HandleEvent(ev); err != nil {
		t.Fatalf("handle event: %v", err)
	}

	// Delivery crosses the bus goroutine; poll the polling endpoint.
	eng := acct.Engines()[0]
	deadline := time.Now().Add(2 * time.Second)
	for {
		res := eng.Apply(context.Background(), "get_latest_events", json.RawMessage(`{"limit":10}`), nil)
		var env struct {
			Data []map[string]any `json:"data"`
		}
		if err := json.Unmarshal(res.Body, &env); err != nil {
			t.Fatalf("unmarshal envelope: %v", err)
		}
		if len(env.Data) == 1 {
			if env.Data[0]["type"] != "message" || env.Data[0]["alt_message"] != "inbound" {
				t.Errorf("event = %v", env.Data[0])
			}
			return
		}
		if time.Now().After(deadline) {
			t.Fatal("event never reached the engine history")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestEventMissingPlatform(t *testing.T) {
	gw := newTestGateway(t)

	if err := gw.HandleEvent(&model.Event{SelfID: model.NumericID(1)}); err == nil {
		t.Error("event without platform accepted")
	}
}
