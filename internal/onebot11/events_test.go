package onebot11

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/nidhogg/crossgate/internal/adapter"
	"github.com/nidhogg/crossgate/internal/ident"
	"github.com/nidhogg/crossgate/internal/model"
	"go.uber.org/zap"
)

func encode(t *testing.T, c *Codec, ev *model.Event) map[string]any {
	t.Helper()
	payload, ok := c.EncodeEvent(ev, 0)
	if !ok {
		t.Fatal("event not encodable")
	}
	var out map[string]any
	if err := json.Unmarshal(payload, &out); err != nil {
		t.Fatalf("unmarshal event: %v", err)
	}
	return out
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
			Segments:  []model.Segment{model.Text("hi there")},
		},
	}
	out := encode(t, c, ev)

	if out["post_type"] != "message" || out["message_type"] != "group" {
		t.Errorf("post_type/message_type = %v/%v", out["post_type"], out["message_type"])
	}
	if out["time"] != float64(1700000000) {
		t.Errorf("time = %v", out["time"])
	}
	for key, want := range map[string]float64{
		"self_id": 10001, "message_id": 555, "group_id": 200, "user_id": 300,
	} {
		if out[key] != want {
			t.Errorf("%s = %v, want %v", key, out[key], want)
		}
	}
	if out["raw_message"] != "hi there" {
		t.Errorf("raw_message = %v", out["raw_message"])
	}
	sender, _ := out["sender"].(map[string]any)
	if sender["nickname"] != "alice" {
		t.Errorf("sender = %v", sender)
	}
}

func TestEncodeFriendMessage(t *testing.T) {
	c, _ := newTestCodec(t)

	ev := &model.Event{
		Time:     time.Now(),
		Platform: "qq",
		SelfID:   model.NumericID(10001),
		Type:     model.EventMessage,
		Message: &model.MessageEvent{
			MessageID: model.NumericID(556),
			Scene:     model.SceneFriend,
			SceneID:   model.NumericID(300),
			Sender:    model.User{ID: model.NumericID(300)},
			Segments:  []model.Segment{model.Text("yo")},
		},
	}
	out := encode(t, c, ev)

	if out["message_type"] != "private" || out["sub_type"] != "friend" {
		t.Errorf("message_type/sub_type = %v/%v", out["message_type"], out["sub_type"])
	}
	if _, ok := out["group_id"]; ok {
		t.Error("private message carries group_id")
	}
}

func TestEncodeStringNativesAsSurrogates(t *testing.T) {
	api := &fakeAPI{Unsupported: adapter.Unsupported{Platform: "demo"}}
	ids := ident.NewResolver(ident.NewMemoryStore(), zap.NewNop())
	c := New(api, ids, "demo", model.NumericID(1), zap.NewNop())

	ctx := context.Background()
	sender, err := ids.Resolve(ctx, "demo", "u1")
	if err != nil {
		t.Fatalf("resolve u1: %v", err)
	}
	group, err := ids.Resolve(ctx, "demo", "g1")
	if err != nil {
		t.Fatalf("resolve g1: %v", err)
	}

	ev := &model.Event{
		Time:     time.Now(),
		Platform: "demo",
		SelfID:   model.NumericID(1),
		Type:     model.EventMessage,
		Message: &model.MessageEvent{
			MessageID: model.NumericID(1),
			Scene:     model.SceneGroup,
			SceneID:   group,
			Sender:    model.User{ID: sender},
			Segments:  []model.Segment{model.Text("x")},
		},
	}
	out := encode(t, c, ev)

	// String natives must surface as their integer surrogates, both in
	// the allocation range and distinct from one another.
	userID, _ := out["user_id"].(float64)
	groupID, _ := out["group_id"].(float64)
	lo, hi := float64(int64(1)<<48), float64(int64(1)<<53)
	for name, v := range map[string]float64{"user_id": userID, "group_id": groupID} {
		if v < lo || v >= hi {
			t.Errorf("%s = %v, outside surrogate range", name, v)
		}
	}
	if userID == groupID {
		t.Error("distinct natives share a surrogate")
	}
}

func TestEncodeHeartbeat(t *testing.T) {
	c, _ := newTestCodec(t)

	out := encode(t, c, model.Heartbeat("qq", model.NumericID(10001), 5*time.Second))

	if out["post_type"] != "meta_event" || out["meta_event_type"] != "heartbeat" {
		t.Errorf("meta fields = %v/%v", out["post_type"], out["meta_event_type"])
	}
	if out["interval"] != float64(5000) {
		t.Errorf("interval = %v, want 5000", out["interval"])
	}
	status, _ := out["status"].(map[string]any)
	if status["online"] != true || status["good"] != true {
		t.Errorf("status = %v", status)
	}
}

func TestHelloFramesCarryLifecycle(t *testing.T) {
	c, _ := newTestCodec(t)

	frames := c.HelloFrames()
	if len(frames) != 1 {
		t.Fatalf("frames = %d, want 1", len(frames))
	}
	var out map[string]any
	if err := json.Unmarshal(frames[0], &out); err != nil {
		t.Fatalf("unmarshal frame: %v", err)
	}
	if out["meta_event_type"] != "lifecycle" || out["sub_type"] != "connect" {
		t.Errorf("frame = %v", out)
	}
}
