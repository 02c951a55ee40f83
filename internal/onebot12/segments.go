package onebot12

import (
	"context"
	"fmt"

	"github.com/nidhogg/crossgate/internal/model"
)

type wireSegment struct {
	Type string         `json:"type"`
	Data map[string]any `json:"data"`
}

// encodeSegments maps canonical segments onto v12 elements. v12 segments
// are string-identified; media segments carry a file_id.
func (c *Codec) encodeSegments(segs []model.Segment) []wireSegment {
	out := make([]wireSegment, 0, len(segs))
	for _, s := range segs {
		switch s.Type {
		case model.SegText:
			out = append(out, wireSegment{Type: "text", Data: map[string]any{
				"text": s.DataString("text"),
			}})
		case model.SegAt:
			if all, ok := s.Data["all"].(bool); ok && all {
				out = append(out, wireSegment{Type: "mention_all", Data: map[string]any{}})
				continue
			}
			id, _ := s.DataID("user_id")
			out = append(out, wireSegment{Type: "mention", Data: map[string]any{
				"user_id": id.Str,
			}})
		case model.SegReply:
			id, _ := s.DataID("message_id")
			out = append(out, wireSegment{Type: "reply", Data: map[string]any{
				"message_id": id.Str,
			}})
		case model.SegImage, model.SegRecord, model.SegVideo, model.SegFile:
			typ := map[string]string{
				model.SegImage:  "image",
				model.SegRecord: "voice",
				model.SegVideo:  "video",
				model.SegFile:   "file",
			}[s.Type]
			out = append(out, wireSegment{Type: typ, Data: map[string]any{
				"file_id": s.DataString("url"),
			}})
		default:
			out = append(out, wireSegment{Type: "text", Data: map[string]any{
				"text": fmt.Sprintf("[%s]", s.Type),
			}})
		}
	}
	return out
}

// decodeSegments maps v12 elements back onto canonical segments.
func (c *Codec) decodeSegments(ctx context.Context, segs []wireSegment) ([]model.Segment, error) {
	out := make([]model.Segment, 0, len(segs))
	for _, s := range segs {
		str := func(key string) string {
			v, _ := s.Data[key].(string)
			return v
		}
		switch s.Type {
		case "text":
			out = append(out, model.Text(str("text")))
		case "mention":
			id, err := c.resolve(ctx, str("user_id"))
			if err != nil {
				return nil, err
			}
			out = append(out, model.At(id))
		case "mention_all":
			out = append(out, model.Segment{Type: model.SegAt, Data: map[string]any{"all": true}})
		case "reply":
			id, err := c.resolve(ctx, str("message_id"))
			if err != nil {
				return nil, err
			}
			out = append(out, model.Reply(id))
		case "image":
			out = append(out, model.Image(str("file_id")))
		case "voice":
			out = append(out, model.Segment{Type: model.SegRecord, Data: map[string]any{"url": str("file_id")}})
		case "video":
			out = append(out, model.Segment{Type: model.SegVideo, Data: map[string]any{"url": str("file_id")}})
		case "file":
			out = append(out, model.Segment{Type: model.SegFile, Data: map[string]any{"url": str("file_id")}})
		default:
			c.logger.Debug("dropping unsupported inbound segment")
		}
	}
	return out, nil
}
