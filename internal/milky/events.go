package milky

import (
	"encoding/json"

	"github.com/nidhogg/crossgate/internal/model"
)

type wireEvent struct {
	EventType string `json:"event_type"`
	SelfID    int64  `json:"self_id"`
	Time      int64  `json:"time"`
	Data      any    `json:"data"`
}

// EncodeEvent implements engine.Codec. Milky carries every event as a
// typed envelope with the payload under data.
func (c *Codec) EncodeEvent(ev *model.Event, seq int64) ([]byte, bool) {
	w := wireEvent{
		SelfID: ev.SelfID.Num,
		Time:   ev.Time.Unix(),
	}
	switch ev.Type {
	case model.EventMessage:
		if ev.Message == nil {
			return nil, false
		}
		w.EventType = "message_receive"
		w.Data = c.encodeMessage(ev.Message)
	case model.EventNotice:
		if ev.Notice == nil {
			return nil, false
		}
		w.EventType = ev.Notice.NoticeType
		data := map[string]any{
			"user_id":  ev.Notice.UserID.Num,
			"group_id": ev.Notice.GroupID.Num,
		}
		for k, v := range ev.Notice.Extra {
			data[k] = v
		}
		w.Data = data
	case model.EventRequest:
		if ev.Request == nil {
			return nil, false
		}
		w.EventType = ev.Request.RequestType
		w.Data = map[string]any{
			"request_id": ev.Request.Flag,
			"user_id":    ev.Request.UserID.Num,
			"group_id":   ev.Request.GroupID.Num,
			"comment":    ev.Request.Comment,
		}
	case model.EventMeta:
		if ev.Meta == nil || ev.Meta.MetaType != model.MetaHeartbeat {
			// Milky has no lifecycle frame; connect state is implied
			// by the WS session itself.
			return nil, false
		}
		w.EventType = "heartbeat"
		w.Data = ev.Meta.Data
	default:
		return nil, false
	}
	body, err := json.Marshal(w)
	if err != nil {
		return nil, false
	}
	return body, true
}

func (c *Codec) encodeMessage(m *model.MessageEvent) map[string]any {
	data := map[string]any{
		"message_seq": m.MessageID.Num,
		"sender_id":   m.Sender.ID.Num,
		"segments":    encodeSegments(m.Segments),
	}
	switch m.Scene {
	case model.SceneGroup, model.SceneChannel:
		data["message_scene"] = "group"
		data["peer_id"] = m.SceneID.Num
		data["group"] = map[string]any{
			"group_id": m.SceneID.Num,
		}
	default:
		data["message_scene"] = "friend"
		data["peer_id"] = m.Sender.ID.Num
		data["friend"] = map[string]any{
			"user_id":  m.Sender.ID.Num,
			"nickname": m.Sender.Name,
		}
	}
	return data
}
