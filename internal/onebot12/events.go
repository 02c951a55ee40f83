package onebot12

import (
	"encoding/json"

	"github.com/google/uuid"
	"github.com/nidhogg/crossgate/internal/model"
)

// EncodeEvent renders a canonical event as a v12 event object. All
// identifiers go out in string form; the event gets a fresh UUID when the
// canonical event carries none.
func (c *Codec) EncodeEvent(ev *model.Event, _ int64) ([]byte, bool) {
	id := ev.ID
	if id == "" {
		id = uuid.New().String()
	}
	base := map[string]any{
		"id":   id,
		"time": float64(ev.Time.UnixMilli()) / 1000,
		"self": map[string]any{
			"platform": ev.Platform,
			"user_id":  ev.SelfID.Str,
		},
	}
	switch {
	case ev.Message != nil:
		m := ev.Message
		base["type"] = "message"
		base["message_id"] = m.MessageID.Str
		base["user_id"] = m.Sender.ID.Str
		base["message"] = c.encodeSegments(m.Segments)
		base["alt_message"] = model.PlainText(m.Segments)
		switch m.Scene {
		case model.SceneFriend:
			base["detail_type"] = "private"
		case model.SceneChannel:
			base["detail_type"] = "channel"
			base["channel_id"] = m.SceneID.Str
			base["guild_id"] = m.GuildID.Str
		default:
			base["detail_type"] = "group"
			base["group_id"] = m.SceneID.Str
		}
	case ev.Notice != nil:
		n := ev.Notice
		base["type"] = "notice"
		base["detail_type"] = n.NoticeType
		if !n.UserID.IsZero() {
			base["user_id"] = n.UserID.Str
		}
		if !n.GroupID.IsZero() {
			base["group_id"] = n.GroupID.Str
		}
		if !n.OperatorID.IsZero() {
			base["operator_id"] = n.OperatorID.Str
		}
		if !n.MessageID.IsZero() {
			base["message_id"] = n.MessageID.Str
		}
		for k, v := range n.Extra {
			base[k] = v
		}
	case ev.Request != nil:
		r := ev.Request
		base["type"] = "request"
		base["detail_type"] = r.RequestType
		base["user_id"] = r.UserID.Str
		if !r.GroupID.IsZero() {
			base["group_id"] = r.GroupID.Str
		}
		base["flag"] = r.Flag
		if r.Comment != "" {
			base["comment"] = r.Comment
		}
	case ev.Meta != nil:
		m := ev.Meta
		base["type"] = "meta"
		switch m.MetaType {
		case model.MetaLifecycle:
			base["detail_type"] = "connect"
			base["version"] = map[string]any{
				"impl": "crossgate", "version": "1.0.0", "onebot_version": "12",
			}
		case model.MetaHeartbeat:
			base["detail_type"] = "heartbeat"
			if iv, ok := m.Data["interval"]; ok {
				base["interval"] = iv
			}
		default:
			base["detail_type"] = m.MetaType
		}
		if m.SubType != "" {
			base["sub_type"] = m.SubType
		}
	default:
		return nil, false
	}

	payload, err := json.Marshal(base)
	if err != nil {
		return nil, false
	}
	return payload, true
}
