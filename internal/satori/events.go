package satori

import (
	"encoding/json"

	"github.com/nidhogg/crossgate/internal/model"
)

// Wire shapes shared by events and method responses.

type wireUser struct {
	ID     string `json:"id"`
	Name   string `json:"name,omitempty"`
	Avatar string `json:"avatar,omitempty"`
	IsBot  bool   `json:"is_bot,omitempty"`
}

type wireChannel struct {
	ID       string `json:"id"`
	Type     int    `json:"type"`
	Name     string `json:"name,omitempty"`
	ParentID string `json:"parent_id,omitempty"`
}

type wireGuild struct {
	ID     string `json:"id"`
	Name   string `json:"name,omitempty"`
	Avatar string `json:"avatar,omitempty"`
}

type wireMember struct {
	User     *wireUser `json:"user,omitempty"`
	Nick     string    `json:"nick,omitempty"`
	JoinedAt int64     `json:"joined_at,omitempty"`
}

type wireMessage struct {
	ID      string `json:"id"`
	Content string `json:"content"`
}

type wireLogin struct {
	User     *wireUser `json:"user,omitempty"`
	SelfID   string    `json:"self_id"`
	Platform string    `json:"platform"`
	Status   int       `json:"status"`
}

// Channel type codes per the protocol: 0 text, 1 direct, 2 category,
// 3 voice.
const (
	channelText     = 0
	channelDirect   = 1
	channelCategory = 2
	channelVoice    = 3
)

type wireEvent struct {
	ID        int64        `json:"id"`
	Type      string       `json:"type"`
	Platform  string       `json:"platform"`
	SelfID    string       `json:"self_id"`
	Timestamp int64        `json:"timestamp"`
	User      *wireUser    `json:"user,omitempty"`
	Channel   *wireChannel `json:"channel,omitempty"`
	Guild     *wireGuild   `json:"guild,omitempty"`
	Member    *wireMember  `json:"member,omitempty"`
	Message   *wireMessage `json:"message,omitempty"`
}

type opFrame struct {
	Op   int             `json:"op"`
	Body json.RawMessage `json:"body,omitempty"`
}

func frame(op int, body any) []byte {
	raw, err := json.Marshal(body)
	if err != nil {
		raw = []byte("{}")
	}
	out, err := json.Marshal(opFrame{Op: op, Body: raw})
	if err != nil {
		return []byte(`{"op":2}`)
	}
	return out
}

// EncodeEvent implements engine.Codec. Events ride inside an op-0 frame;
// the sequence number doubles as the event id peers use to resume.
// Heartbeat and lifecycle meta events have no Satori representation
// (liveness is the PING/PONG signaling layer) and are skipped.
func (c *Codec) EncodeEvent(ev *model.Event, seq int64) ([]byte, bool) {
	w := wireEvent{
		ID:        seq,
		Platform:  ev.Platform,
		SelfID:    ev.SelfID.Str,
		Timestamp: ev.Time.UnixMilli(),
	}
	switch ev.Type {
	case model.EventMessage:
		if ev.Message == nil {
			return nil, false
		}
		m := ev.Message
		w.Type = "message-created"
		w.User = &wireUser{ID: m.Sender.ID.Str, Name: m.Sender.Name, Avatar: m.Sender.Avatar}
		w.Message = &wireMessage{ID: m.MessageID.Str, Content: encodeContent(m.Segments)}
		switch m.Scene {
		case model.SceneFriend:
			w.Channel = &wireChannel{ID: "private:" + m.Sender.ID.Str, Type: channelDirect}
		default:
			w.Channel = &wireChannel{ID: m.SceneID.Str, Type: channelText}
			if !m.GuildID.IsZero() {
				w.Guild = &wireGuild{ID: m.GuildID.Str}
			}
		}
	case model.EventNotice:
		if ev.Notice == nil {
			return nil, false
		}
		n := ev.Notice
		w.Type = n.NoticeType
		if !n.UserID.IsZero() {
			w.User = &wireUser{ID: n.UserID.Str}
		}
		if !n.GroupID.IsZero() {
			w.Guild = &wireGuild{ID: n.GroupID.Str}
		}
		if !n.MessageID.IsZero() {
			w.Message = &wireMessage{ID: n.MessageID.Str}
		}
	case model.EventRequest:
		if ev.Request == nil {
			return nil, false
		}
		r := ev.Request
		if r.GroupID.IsZero() {
			w.Type = "friend-request"
		} else {
			w.Type = "guild-member-request"
			w.Guild = &wireGuild{ID: r.GroupID.Str}
		}
		w.User = &wireUser{ID: r.UserID.Str}
		w.Message = &wireMessage{Content: r.Comment}
	default:
		return nil, false
	}
	return frame(opEvent, w), true
}

func user(u *model.User) *wireUser {
	return &wireUser{ID: u.ID.Str, Name: u.Name, Avatar: u.Avatar, IsBot: u.IsBot}
}

func channel(ch *model.ChannelInfo) *wireChannel {
	t := channelText
	switch ch.Type {
	case model.ChannelVoice:
		t = channelVoice
	case model.ChannelCategory:
		t = channelCategory
	}
	return &wireChannel{ID: ch.ID.Str, Type: t, Name: ch.Name, ParentID: ch.ParentID.Str}
}
