package satori

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/nidhogg/crossgate/internal/adapter"
	"github.com/nidhogg/crossgate/internal/ident"
	"github.com/nidhogg/crossgate/internal/model"
	"go.uber.org/zap"
)

type fakeAPI struct {
	adapter.Unsupported
	lastSend adapter.SendMessageParams
}

func (f *fakeAPI) SendMessage(_ context.Context, p adapter.SendMessageParams) (*adapter.SendMessageResult, error) {
	f.lastSend = p
	return &adapter.SendMessageResult{
		MessageID: model.ID{Source: "m-100", Str: "m-100"},
		Time:      time.Unix(1700000000, 0),
	}, nil
}

func newTestCodec(t *testing.T, token string) (*Codec, *fakeAPI) {
	t.Helper()
	api := &fakeAPI{Unsupported: adapter.Unsupported{Platform: "discord"}}
	ids := ident.NewResolver(ident.NewMemoryStore(), zap.NewNop())
	self := model.ID{Source: "bot-1", Str: "bot-1"}
	return New(api, ids, "discord", self, token, zap.NewNop()), api
}

func apply(t *testing.T, c *Codec, method, params string) (int, []byte) {
	t.Helper()
	res := c.Apply(context.Background(), method, json.RawMessage(params), nil)
	return res.Status, res.Body
}

func TestMessageCreateChannel(t *testing.T) {
	c, api := newTestCodec(t, "")

	status, body := apply(t, c, "message.create",
		`{"channel_id":"general","content":"hello &lt;world&gt;"}`)
	if status != http.StatusOK {
		t.Fatalf("status = %d, want 200", status)
	}
	var msgs []wireMessage
	if err := json.Unmarshal(body, &msgs); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if len(msgs) != 1 || msgs[0].ID != "m-100" {
		t.Errorf("response = %+v", msgs)
	}
	if api.lastSend.Scene != model.SceneChannel || api.lastSend.SceneID.Str != "general" {
		t.Errorf("scene = %v/%q", api.lastSend.Scene, api.lastSend.SceneID.Str)
	}
	if got := model.PlainText(api.lastSend.Segments); got != "hello <world>" {
		t.Errorf("text = %q, want unescaped form", got)
	}
}

func TestMessageCreateDirect(t *testing.T) {
	c, api := newTestCodec(t, "")

	status, _ := apply(t, c, "message.create",
		`{"channel_id":"private:u-9","content":"hi"}`)
	if status != http.StatusOK {
		t.Fatalf("status = %d, want 200", status)
	}
	if api.lastSend.Scene != model.SceneFriend || api.lastSend.SceneID.Str != "u-9" {
		t.Errorf("scene = %v/%q, want friend/u-9", api.lastSend.Scene, api.lastSend.SceneID.Str)
	}
}

func TestUnknownMethod(t *testing.T) {
	c, _ := newTestCodec(t, "")

	status, body := apply(t, c, "message.pin", `{}`)
	if status != http.StatusNotFound {
		t.Errorf("status = %d, want 404", status)
	}
	var out map[string]string
	if err := json.Unmarshal(body, &out); err != nil {
		t.Fatalf("unmarshal body: %v", err)
	}
	if out["message"] != "unknown method: message.pin" {
		t.Errorf("message = %q", out["message"])
	}
}

func TestUnsupportedMethod(t *testing.T) {
	c, _ := newTestCodec(t, "")

	status, body := apply(t, c, "guild.list", `{}`)
	if status != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", status)
	}
	var out map[string]string
	if err := json.Unmarshal(body, &out); err != nil {
		t.Fatalf("unmarshal body: %v", err)
	}
	if !strings.Contains(out["message"], "GetGuildList") {
		t.Errorf("message %q does not name the missing operation", out["message"])
	}
}

func TestBadParams(t *testing.T) {
	c, _ := newTestCodec(t, "")

	status, _ := apply(t, c, "message.create", `{"channel_id":42}`)
	if status != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", status)
	}
}

func signal(t *testing.T, c *Codec, raw string) (map[string]any, bool) {
	t.Helper()
	reply, handled := c.HandleSignal([]byte(raw))
	if reply == nil {
		return nil, handled
	}
	var out map[string]any
	if err := json.Unmarshal(reply, &out); err != nil {
		t.Fatalf("unmarshal signal reply: %v", err)
	}
	return out, handled
}

func TestPingPong(t *testing.T) {
	c, _ := newTestCodec(t, "")

	out, handled := signal(t, c, `{"op":1}`)
	if !handled {
		t.Fatal("PING not handled")
	}
	if out["op"] != float64(opPong) {
		t.Errorf("reply op = %v, want %d", out["op"], opPong)
	}
}

func TestIdentifyReady(t *testing.T) {
	c, _ := newTestCodec(t, "sekrit")

	out, handled := signal(t, c, `{"op":3,"body":{"token":"sekrit"}}`)
	if !handled {
		t.Fatal("IDENTIFY not handled")
	}
	if out["op"] != float64(opReady) {
		t.Fatalf("reply op = %v, want %d", out["op"], opReady)
	}
	body, _ := out["body"].(map[string]any)
	logins, _ := body["logins"].([]any)
	if len(logins) != 1 {
		t.Fatalf("logins = %d, want 1", len(logins))
	}
	login, _ := logins[0].(map[string]any)
	if login["self_id"] != "bot-1" || login["platform"] != "discord" || login["status"] != float64(1) {
		t.Errorf("login = %v", login)
	}
}

func TestIdentifyBadToken(t *testing.T) {
	c, _ := newTestCodec(t, "sekrit")

	reply, handled := c.HandleSignal([]byte(`{"op":3,"body":{"token":"wrong"}}`))
	if !handled {
		t.Error("IDENTIFY with bad token must still be consumed")
	}
	if reply != nil {
		t.Error("bad token must not produce READY")
	}
}

func TestNonSignalFrameFallsThrough(t *testing.T) {
	c, _ := newTestCodec(t, "")

	if _, handled := c.HandleSignal([]byte(`{"action":"message.create"}`)); handled {
		t.Error("frame without op treated as signal")
	}
}

func TestElementRoundTrip(t *testing.T) {
	c, _ := newTestCodec(t, "")

	segs := []model.Segment{
		model.Text(`a < b & "c"`),
		model.At(model.NumericID(42)),
		model.Image("https://cdn.example/x.png"),
	}
	content := encodeContent(segs)
	if !strings.Contains(content, `<at id="42"/>`) {
		t.Errorf("content = %q", content)
	}

	back, err := c.decodeContent(context.Background(), content)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(back) != 3 {
		t.Fatalf("segments = %d, want 3", len(back))
	}
	if back[0].Type != model.SegText || back[0].DataString("text") != `a < b & "c"` {
		t.Errorf("text segment = %+v", back[0])
	}
	if back[1].Type != model.SegAt {
		t.Errorf("at segment = %+v", back[1])
	}
	if back[2].Type != model.SegImage || back[2].DataString("url") != "https://cdn.example/x.png" {
		t.Errorf("image segment = %+v", back[2])
	}
}

func TestEncodeMessageCreatedEvent(t *testing.T) {
	c, _ := newTestCodec(t, "")

	ev := &model.Event{
		ID:       "evt-1",
		Time:     time.Unix(1700000000, 0),
		Platform: "discord",
		SelfID:   model.ID{Source: "bot-1", Str: "bot-1"},
		Type:     model.EventMessage,
		Message: &model.MessageEvent{
			MessageID: model.ID{Source: "m-1", Str: "m-1"},
			Scene:     model.SceneChannel,
			SceneID:   model.ID{Source: "general", Str: "general"},
			Sender:    model.User{ID: model.ID{Source: "u-5", Str: "u-5"}, Name: "alice"},
			Segments:  []model.Segment{model.Text("ping")},
		},
	}
	payload, ok := c.EncodeEvent(ev, 7)
	if !ok {
		t.Fatal("event not encodable")
	}
	var out struct {
		Op   int            `json:"op"`
		Body map[string]any `json:"body"`
	}
	if err := json.Unmarshal(payload, &out); err != nil {
		t.Fatalf("unmarshal event: %v", err)
	}
	if out.Op != opEvent {
		t.Errorf("op = %d, want %d", out.Op, opEvent)
	}
	if out.Body["id"] != float64(7) {
		t.Errorf("sequence id = %v, want 7", out.Body["id"])
	}
	if out.Body["type"] != "message-created" || out.Body["platform"] != "discord" {
		t.Errorf("body header = %v/%v", out.Body["type"], out.Body["platform"])
	}
	msg, _ := out.Body["message"].(map[string]any)
	if msg["id"] != "m-1" || msg["content"] != "ping" {
		t.Errorf("message = %v", msg)
	}
	ch, _ := out.Body["channel"].(map[string]any)
	if ch["id"] != "general" {
		t.Errorf("channel = %v", ch)
	}
}

func TestMetaEventsHaveNoWireForm(t *testing.T) {
	c, _ := newTestCodec(t, "")

	self := model.ID{Source: "bot-1", Str: "bot-1"}
	if _, ok := c.EncodeEvent(model.Heartbeat("discord", self, time.Second), 0); ok {
		t.Error("heartbeat should not encode; liveness is PING/PONG")
	}
	if _, ok := c.EncodeEvent(model.Lifecycle("discord", self, "connect"), 0); ok {
		t.Error("lifecycle should not encode")
	}
}
