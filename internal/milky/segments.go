package milky

import (
	"context"
	"strconv"

	"github.com/nidhogg/crossgate/internal/model"
	"go.uber.org/zap"
)

type wireSegment struct {
	Type string         `json:"type"`
	Data map[string]any `json:"data"`
}

func encodeSegments(segs []model.Segment) []wireSegment {
	out := make([]wireSegment, 0, len(segs))
	for _, s := range segs {
		switch s.Type {
		case model.SegText:
			out = append(out, wireSegment{Type: "text", Data: map[string]any{
				"text": s.DataString("text"),
			}})
		case model.SegAt:
			if s.Data["all"] == true {
				out = append(out, wireSegment{Type: "mention_all", Data: map[string]any{}})
				break
			}
			id, _ := s.DataID("user_id")
			out = append(out, wireSegment{Type: "mention", Data: map[string]any{
				"user_id": id.Num,
			}})
		case model.SegReply:
			id, _ := s.DataID("message_id")
			out = append(out, wireSegment{Type: "reply", Data: map[string]any{
				"message_seq": id.Num,
			}})
		case model.SegImage:
			out = append(out, wireSegment{Type: "image", Data: map[string]any{
				"resource_id": s.DataString("file_id"),
				"temp_url":    s.DataString("url"),
			}})
		case model.SegRecord:
			out = append(out, wireSegment{Type: "record", Data: map[string]any{
				"resource_id": s.DataString("file_id"),
				"temp_url":    s.DataString("url"),
			}})
		case model.SegVideo:
			out = append(out, wireSegment{Type: "video", Data: map[string]any{
				"resource_id": s.DataString("file_id"),
				"temp_url":    s.DataString("url"),
			}})
		case model.SegFace:
			out = append(out, wireSegment{Type: "face", Data: map[string]any{
				"face_id": s.DataString("id"),
			}})
		default:
			out = append(out, wireSegment{Type: "text", Data: map[string]any{
				"text": "[" + s.Type + "]",
			}})
		}
	}
	return out
}

func (c *Codec) decodeSegments(ctx context.Context, segs []wireSegment) ([]model.Segment, error) {
	out := make([]model.Segment, 0, len(segs))
	for _, s := range segs {
		switch s.Type {
		case "text":
			out = append(out, model.Text(str(s.Data["text"])))
		case "mention":
			id, err := c.resolveNum(ctx, num(s.Data["user_id"]))
			if err != nil {
				return nil, err
			}
			out = append(out, model.At(id))
		case "mention_all":
			out = append(out, model.Segment{Type: model.SegAt, Data: map[string]any{"all": true}})
		case "reply":
			id, err := c.resolveNum(ctx, num(s.Data["message_seq"]))
			if err != nil {
				return nil, err
			}
			out = append(out, model.Reply(id))
		case "image":
			out = append(out, model.Segment{Type: model.SegImage, Data: map[string]any{
				"file_id": str(s.Data["resource_id"]),
				"url":     str(s.Data["temp_url"]),
			}})
		case "record":
			out = append(out, model.Segment{Type: model.SegRecord, Data: map[string]any{
				"file_id": str(s.Data["resource_id"]),
			}})
		case "video":
			out = append(out, model.Segment{Type: model.SegVideo, Data: map[string]any{
				"file_id": str(s.Data["resource_id"]),
			}})
		case "face":
			out = append(out, model.Segment{Type: model.SegFace, Data: map[string]any{
				"id": str(s.Data["face_id"]),
			}})
		default:
			c.logger.Debug("dropping segment", zap.String("type", s.Type))
		}
	}
	return out, nil
}

func str(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return ""
	}
}

func num(v any) int64 {
	switch t := v.(type) {
	case float64:
		return int64(t)
	case string:
		n, _ := strconv.ParseInt(t, 10, 64)
		return n
	default:
		return 0
	}
}
