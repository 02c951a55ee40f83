package model

import (
	"testing"
	"time"
)

func TestAttrsMessageEvent(t *testing.T) {
	ev := &Event{
		Platform: "demo",
		SelfID:   NumericID(99),
		Type:     EventMessage,
		Message: &MessageEvent{
			MessageID: NumericID(1),
			Scene:     SceneGroup,
			SceneID:   ID{Source: "g1", Str: "g1", Num: 281474976710656},
			Sender:    User{ID: ID{Source: "u1", Str: "u1", Num: 281474976710657}},
		},
	}
	attrs := ev.Attrs()

	if attrs["type"] != "message" {
		t.Errorf("type = %v, want message", attrs["type"])
	}
	if attrs["platform"] != "demo" {
		t.Errorf("platform = %v, want demo", attrs["platform"])
	}
	if attrs["message_type"] != "group" {
		t.Errorf("message_type = %v, want group", attrs["message_type"])
	}
	if attrs["user_id"] != "u1" {
		t.Errorf("user_id = %v, want u1", attrs["user_id"])
	}
	if attrs["user_id_number"] != int64(281474976710657) {
		t.Errorf("user_id_number = %v", attrs["user_id_number"])
	}
	if attrs["group_id"] != "g1" {
		t.Errorf("group_id = %v, want g1", attrs["group_id"])
	}
}

func TestAttrsFriendSceneOmitsGroup(t *testing.T) {
	ev := &Event{
		Platform: "demo",
		Type:     EventMessage,
		Message: &MessageEvent{
			Scene:  SceneFriend,
			Sender: User{ID: NumericID(7)},
		},
	}
	if _, ok := ev.Attrs()["group_id"]; ok {
		t.Error("friend-scene message must not expose group_id")
	}
}

func TestHeartbeatEvent(t *testing.T) {
	ev := Heartbeat("demo", NumericID(9), 5*time.Second)
	if ev.Type != EventMeta {
		t.Fatalf("type = %s, want meta", ev.Type)
	}
	if ev.Meta.MetaType != MetaHeartbeat {
		t.Errorf("meta_type = %s", ev.Meta.MetaType)
	}
	if ev.Meta.Data["interval"] != int64(5000) {
		t.Errorf("interval = %v, want 5000", ev.Meta.Data["interval"])
	}
}

func TestPlainText(t *testing.T) {
	segs := []Segment{Text("hello "), At(NumericID(1)), Text("world")}
	if got := PlainText(segs); got != "hello world" {
		t.Errorf("PlainText = %q", got)
	}
}

func TestNumericID(t *testing.T) {
	id := NumericID(42)
	if id.Str != "42" || id.Num != 42 {
		t.Errorf("NumericID(42) = %+v", id)
	}
	if id.IsZero() {
		t.Error("NumericID(42).IsZero() = true")
	}
	if (ID{}).IsZero() != true {
		t.Error("zero ID must report IsZero")
	}
}
