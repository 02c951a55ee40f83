package milky

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
	lastTarget model.ID
	lastSegs   []model.Segment
}

func (f *fakeAPI) SendGroupMessage(_ context.Context, group model.ID, segs []model.Segment) (*adapter.SendMessageResult, error) {
	f.lastTarget = group
	f.lastSegs = segs
	return &adapter.SendMessageResult{
		MessageID: model.NumericID(4242),
		Time:      time.Unix(1700000000, 0),
	}, nil
}

func (f *fakeAPI) GetLoginInfo(context.Context) (*model.User, error) {
	return &model.User{ID: model.NumericID(10001), Name: "milkmaid"}, nil
}

func newTestCodec(t *testing.T) (*Codec, *fakeAPI) {
	t.Helper()
	api := &fakeAPI{Unsupported: adapter.Unsupported{Platform: "qq"}}
	ids := ident.NewResolver(ident.NewMemoryStore(), zap.NewNop())
	return New(api, ids, "qq", model.NumericID(10001), zap.NewNop()), api
}

func apply(t *testing.T, c *Codec, api, params string) (int, envelope) {
	t.Helper()
	res := c.Apply(context.Background(), api, json.RawMessage(params), nil)
	var env envelope
	if err := json.Unmarshal(res.Body, &env); err != nil {
		t.Fatalf("unmarshal envelope: %v", err)
	}
	return res.Status, env
}

func TestSendGroupMessage(t *testing.T) {
	c, api := newTestCodec(t)

	status, env := apply(t, c, "send_group_message",
		`{"group_id":1234,"message":[{"type":"text","data":{"text":"hello"}}]}`)
	if status != http.StatusOK {
		t.Fatalf("status = %d, want 200", status)
	}
	if env.Status != "ok" || env.Retcode != retOK {
		t.Errorf("envelope = %q/%d, want ok/0", env.Status, env.Retcode)
	}
	data, _ := env.Data.(map[string]any)
	if data["message_seq"] != float64(4242) {
		t.Errorf("message_seq = %v, want 4242", data["message_seq"])
	}
	if data["time"] != float64(1700000000) {
		t.Errorf("time = %v", data["time"])
	}
	if api.lastTarget.Num != 1234 {
		t.Errorf("group resolved to %d, want 1234", api.lastTarget.Num)
	}
	if got := model.PlainText(api.lastSegs); got != "hello" {
		t.Errorf("message text = %q", got)
	}
}

func TestGetLoginInfo(t *testing.T) {
	c, _ := newTestCodec(t)

	_, env := apply(t, c, "get_login_info", `{}`)
	data, _ := env.Data.(map[string]any)
	if data["uin"] != float64(10001) || data["nickname"] != "milkmaid" {
		t.Errorf("login info = %v", data)
	}
}

func TestUnknownAPI(t *testing.T) {
	c, _ := newTestCodec(t)

	status, env := apply(t, c, "launch_rocket", `{}`)
	if status != http.StatusNotFound {
		t.Errorf("status = %d, want 404", status)
	}
	if env.Retcode != retUnknown {
		t.Errorf("retcode = %d, want %d", env.Retcode, retUnknown)
	}
	if env.Message != "unknown api: launch_rocket" {
		t.Errorf("message = %q", env.Message)
	}
}

func TestUnsupportedAPI(t *testing.T) {
	c, _ := newTestCodec(t)

	status, env := apply(t, c, "get_friend_list", `{}`)
	if status != http.StatusOK {
		t.Errorf("status = %d, want 200", status)
	}
	if env.Status != "failed" || env.Retcode != retUnsupported {
		t.Errorf("envelope = %q/%d, want failed/%d", env.Status, env.Retcode, retUnsupported)
	}
	if !strings.Contains(env.Message, "GetFriendList") {
		t.Errorf("message %q does not name the missing operation", env.Message)
	}
}

func TestBadParams(t *testing.T) {
	c, _ := newTestCodec(t)

	status, env := apply(t, c, "send_group_message", `{"group_id":"not-a-number"}`)
	if status != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", status)
	}
	if env.Retcode != retBadParams {
		t.Errorf("retcode = %d, want %d", env.Retcode, retBadParams)
	}
}

func encode(t *testing.T, c *Codec, ev *model.Event) (string, map[string]any) {
	t.Helper()
	payload, ok := c.EncodeEvent(ev, 0)
	if !ok {
		t.Fatal("event not encodable")
	}
	var w struct {
		EventType string         `json:"event_type"`
		SelfID    int64          `json:"self_id"`
		Data      map[string]any `json:"data"`
	}
	if err := json.Unmarshal(payload, &w); err != nil {
		t.Fatalf("unmarshal event: %v", err)
	}
	if w.SelfID != 10001 {
		t.Errorf("self_id = %d, want 10001", w.SelfID)
	}
	return w.EventType, w.Data
}

func TestEncodeGroupMessage(t *testing.T) {
	c, _ := newTestCodec(t)

	ev := &model.Event{
		Time:     time.Unix(1700000000, 0),
		Platform: "qq",
		SelfID:   model.NumericID(10001),
		Type:     model.EventMessage,
		Message: &model.MessageEvent{
			MessageID: model.NumericID(555),
			Scene:     model.SceneGroup,
			SceneID:   model.NumericID(200),
			Sender:    model.User{ID: model.NumericID(300), Nickname: "alice"},
			Segments:  []model.Segment{model.Text("hi")},
		},
	}
	eventType, data := encode(t, c, ev)

	if eventType != "message_receive" {
		t.Errorf("event_type = %q, want message_receive", eventType)
	}
	if data["message_seq"] != float64(555) || data["sender_id"] != float64(300) {
		t.Errorf("ids = %v/%v", data["message_seq"], data["sender_id"])
	}
	if data["message_scene"] != "group" || data["peer_id"] != float64(200) {
		t.Errorf("scene = %v/%v", data["message_scene"], data["peer_id"])
	}
}

func TestEncodeFriendRequest(t *testing.T) {
	c, _ := newTestCodec(t)

	ev := &model.Event{
		Time:     time.Now(),
		Platform: "qq",
		SelfID:   model.NumericID(10001),
		Type:     model.EventRequest,
		Request: &model.RequestEvent{
			RequestType: "friend_request",
			UserID:      model.NumericID(300),
			Flag:        "req-7",
			Comment:     "add me",
		},
	}
	eventType, data := encode(t, c, ev)

	if eventType != "friend_request" {
		t.Errorf("event_type = %q", eventType)
	}
	if data["request_id"] != "req-7" || data["comment"] != "add me" {
		t.Errorf("request fields = %v/%v", data["request_id"], data["comment"])
	}
}

func TestLifecycleHasNoWireForm(t *testing.T) {
	c, _ := newTestCodec(t)

	if _, ok := c.EncodeEvent(model.Lifecycle("qq", model.NumericID(10001), "connect"), 0); ok {
		t.Error("lifecycle meta should not encode")
	}

	eventType, data := encode(t, c, model.Heartbeat("qq", model.NumericID(10001), 5*time.Second))
	if eventType != "heartbeat" {
		t.Errorf("event_type = %q, want heartbeat", eventType)
	}
	if data["interval"] != float64(5000) {
		t.Errorf("interval = %v, want 5000", data["interval"])
	}
}
