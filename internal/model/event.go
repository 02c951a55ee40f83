package model

import "time"

// EventType discriminates the canonical event union.
type EventType string

const (
	EventMessage EventType = "message"
	EventNotice  EventType = "notice"
	EventRequest EventType = "request"
	EventMeta    EventType = "meta"
)

// SceneType distinguishes where a message lives.
type SceneType string

const (
	SceneFriend  SceneType = "friend"
	SceneGroup   SceneType = "group"
	SceneChannel SceneType = "channel"
)

// Event is the canonical event produced by platform adapters and consumed
// by every protocol engine attached to the same account. Exactly one of
// the payload pointers is non-nil, selected by Type. Events are immutable
// once constructed.
type Event struct {
	ID       string    `json:"id"`
	Time     time.Time `json:"time"`
	Platform string    `json:"platform"`
	SelfID   ID        `json:"self_id"`
	Type     EventType `json:"type"`

	Message *MessageEvent `json:"message,omitempty"`
	Notice  *NoticeEvent  `json:"notice,omitempty"`
	Request *RequestEvent `json:"request,omitempty"`
	Meta    *MetaEvent    `json:"meta,omitempty"`
}

// MessageEvent carries an inbound chat message.
type MessageEvent struct {
	MessageID ID        `json:"message_id"`
	Scene     SceneType `json:"scene"`
	SceneID   ID        `json:"scene_id"`
	GuildID   ID        `json:"guild_id,omitzero"`
	Sender    User      `json:"sender"`
	Segments  []Segment `json:"segments"`
}

// NoticeEvent carries a platform notification (member joined, message
// recalled, and so on). Extra holds notice-type specific fields.
type NoticeEvent struct {
	NoticeType string         `json:"notice_type"`
	UserID     ID             `json:"user_id,omitzero"`
	OperatorID ID             `json:"operator_id,omitzero"`
	GroupID    ID             `json:"group_id,omitzero"`
	MessageID  ID             `json:"message_id,omitzero"`
	Extra      map[string]any `json:"extra,omitempty"`
}

// RequestEvent carries an actionable request (friend add, group join).
// Flag is the opaque token the platform expects back when handling it.
type RequestEvent struct {
	RequestType string `json:"request_type"`
	UserID      ID     `json:"user_id"`
	GroupID     ID     `json:"group_id,omitzero"`
	Flag        string `json:"flag"`
	Comment     string `json:"comment,omitempty"`
}

// MetaEvent carries gateway lifecycle information.
type MetaEvent struct {
	MetaType string         `json:"meta_type"`
	SubType  string         `json:"sub_type,omitempty"`
	Data     map[string]any `json:"data,omitempty"`
}

const (
	MetaLifecycle = "lifecycle"
	MetaHeartbeat = "heartbeat"
)

// Heartbeat builds the synthetic meta event the heartbeat timer feeds into
// the normal dispatch path.
func Heartbeat(platform string, self ID, interval time.Duration) *Event {
	return &Event{
		Time:     time.Now(),
		Platform: platform,
		SelfID:   self,
		Type:     EventMeta,
		Meta: &MetaEvent{
			MetaType: MetaHeartbeat,
			Data:     map[string]any{"interval": interval.Milliseconds()},
		},
	}
}

// Lifecycle builds a lifecycle meta event (connect, enable, disable).
func Lifecycle(platform string, self ID, subType string) *Event {
	return &Event{
		Time:     time.Now(),
		Platform: platform,
		SelfID:   self,
		Type:     EventMeta,
		Meta:     &MetaEvent{MetaType: MetaLifecycle, SubType: subType},
	}
}

// Attrs flattens the event into the attribute view the event filter
// evaluates against. ID-valued fields appear in both string and numeric
// form so filters can be written against either.
func (e *Event) Attrs() map[string]any {
	m := map[string]any{
		"type":     string(e.Type),
		"platform": e.Platform,
		"self_id":  e.SelfID.Str,
	}
	switch {
	case e.Message != nil:
		m["message_type"] = string(e.Message.Scene)
		m["detail_type"] = string(e.Message.Scene)
		putID(m, "user_id", e.Message.Sender.ID)
		if e.Message.Scene != SceneFriend {
			putID(m, "group_id", e.Message.SceneID)
		}
		if !e.Message.GuildID.IsZero() {
			putID(m, "guild_id", e.Message.GuildID)
		}
	case e.Notice != nil:
		m["notice_type"] = e.Notice.NoticeType
		m["detail_type"] = e.Notice.NoticeType
		putID(m, "user_id", e.Notice.UserID)
		putID(m, "group_id", e.Notice.GroupID)
		putID(m, "operator_id", e.Notice.OperatorID)
	case e.Request != nil:
		m["request_type"] = e.Request.RequestType
		m["detail_type"] = e.Request.RequestType
		putID(m, "user_id", e.Request.UserID)
		putID(m, "group_id", e.Request.GroupID)
	case e.Meta != nil:
		m["meta_event_type"] = e.Meta.MetaType
		m["detail_type"] = e.Meta.MetaType
		if e.Meta.SubType != "" {
			m["sub_type"] = e.Meta.SubType
		}
	}
	return m
}

func putID(m map[string]any, key string, id ID) {
	if id.IsZero() {
		return
	}
	m[key] = id.Str
	m[key+"_number"] = id.Num
}
