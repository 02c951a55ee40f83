package onebot11

import (
	"encoding/json"

	"github.com/nidhogg/crossgate/internal/model"
)

// EncodeEvent renders a canonical event as an OneBot v11 event object.
// All identifiers go out in their numeric surrogate form.
func (c *Codec) EncodeEvent(ev *model.Event, _ int64) ([]byte, bool) {
	base := map[string]any{
		"time":    ev.Time.Unix(),
		"self_id": ev.SelfID.Num,
	}
	switch {
	case ev.Message != nil:
		m := ev.Message
		base["post_type"] = "message"
		base["message_id"] = m.MessageID.Num
		base["user_id"] = m.Sender.ID.Num
		base["message"] = c.encodeSegments(m.Segments)
		base["raw_message"] = model.PlainText(m.Segments)
		base["font"] = 0
		base["sender"] = map[string]any{
			"user_id":  m.Sender.ID.Num,
			"nickname": m.Sender.Nickname,
		}
		switch m.Scene {
		case model.SceneFriend:
			base["message_type"] = "private"
			base["sub_type"] = "friend"
		default:
			// v11 has no channel scene; channel messages surface as group.
			base["message_type"] = "group"
			base["sub_type"] = "normal"
			base["group_id"] = m.SceneID.Num
		}
	case ev.Notice != nil:
		n := ev.Notice
		base["post_type"] = "notice"
		base["notice_type"] = n.NoticeType
		if !n.UserID.IsZero() {
			base["user_id"] = n.UserID.Num
		}
		if !n.GroupID.IsZero() {
			base["group_id"] = n.GroupID.Num
		}
		if !n.OperatorID.IsZero() {
			base["operator_id"] = n.OperatorID.Num
		}
		if !n.MessageID.IsZero() {
			base["message_id"] = n.MessageID.Num
		}
		for k, v := range n.Extra {
			base[k] = v
		}
	case ev.Request != nil:
		r := ev.Request
		base["post_type"] = "request"
		base["request_type"] = r.RequestType
		base["user_id"] = r.UserID.Num
		if !r.GroupID.IsZero() {
			base["group_id"] = r.GroupID.Num
		}
		base["flag"] = r.Flag
		if r.Comment != "" {
			base["comment"] = r.Comment
		}
	case ev.Meta != nil:
		m := ev.Meta
		base["post_type"] = "meta_event"
		base["meta_event_type"] = m.MetaType
		switch m.MetaType {
		case model.MetaLifecycle:
			base["sub_type"] = m.SubType
		case model.MetaHeartbeat:
			base["status"] = map[string]any{"online": true, "good": true}
			if iv, ok := m.Data["interval"]; ok {
				base["interval"] = iv
			}
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
