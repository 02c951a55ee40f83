package onebot11

import (
	"context"
	"fmt"
	"strconv"

	"github.com/nidhogg/crossgate/internal/model"
)

// wireSegment is the v11 array-form message element.
type wireSegment struct {
	Type string         `json:"type"`
	Data map[string]any `json:"data"`
}

// encodeSegments maps canonical segments onto v11 elements. Segment types
// without a v11 equivalent fall back to an inline tagged text placeholder
// so content is never silently corrupted.
func (c *Codec) encodeSegments(segs []model.Segment) []wireSegment {
	out := make([]wireSegment, 0, len(segs))
	for _, s := range segs {
		switch s.Type {
		case model.SegText:
			out = append(out, wireSegment{Type: "text", Data: map[string]any{
				"text": s.DataString("text"),
			}})
		case model.SegAt:
			id, _ := s.DataID("user_id")
			out = append(out, wireSegment{Type: "at", Data: map[string]any{
				"qq": strconv.FormatInt(id.Num, 10),
			}})
		case model.SegImage:
			out = append(out, wireSegment{Type: "image", Data: map[string]any{
				"file": s.DataString("url"),
			}})
		case model.SegReply:
			id, _ := s.DataID("message_id")
			out = append(out, wireSegment{Type: "reply", Data: map[string]any{
				"id": strconv.FormatInt(id.Num, 10),
			}})
		case model.SegFace:
			out = append(out, wireSegment{Type: "face", Data: map[string]any{
				"id": s.DataString("id"),
			}})
		case model.SegRecord:
			out = append(out, wireSegment{Type: "record", Data: map[string]any{
				"file": s.DataString("url"),
			}})
		case model.SegVideo:
			out = append(out, wireSegment{Type: "video", Data: map[string]any{
				"file": s.DataString("url"),
			}})
		default:
			out = append(out, wireSegment{Type: "text", Data: map[string]any{
				"text": fmt.Sprintf("[%s]", s.Type),
			}})
		}
	}
	return out
}

// decodeSegments maps v11 elements back onto canonical segments,
// resolving numeric identifiers through the id table.
func (c *Codec) decodeSegments(ctx context.Context, segs []wireSegment) ([]model.Segment, error) {
	out := make([]model.Segment, 0, len(segs))
	for _, s := range segs {
		str := func(key string) string {
			switch v := s.Data[key].(type) {
			case string:
				return v
			case float64:
				return strconv.FormatInt(int64(v), 10)
			default:
				return ""
			}
		}
		switch s.Type {
		case "text":
			out = append(out, model.Text(str("text")))
		case "at":
			qq := str("qq")
			if qq == "all" {
				out = append(out, model.Segment{Type: model.SegAt, Data: map[string]any{"all": true}})
				continue
			}
			n, err := strconv.ParseInt(qq, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("%w: at.qq %q", errBadParams, qq)
			}
			id, err := c.ids.ResolveNumber(ctx, c.platform, n)
			if err != nil {
				return nil, err
			}
			out = append(out, model.At(id))
		case "image":
			out = append(out, model.Image(str("file")))
		case "reply":
			n, err := strconv.ParseInt(str("id"), 10, 64)
			if err != nil {
				return nil, fmt.Errorf("%w: reply.id", errBadParams)
			}
			id, err := c.ids.ResolveNumber(ctx, c.platform, n)
			if err != nil {
				return nil, err
			}
			out = append(out, model.Reply(id))
		case "face":
			out = append(out, model.Segment{Type: model.SegFace, Data: map[string]any{"id": str("id")}})
		case "record":
			out = append(out, model.Segment{Type: model.SegRecord, Data: map[string]any{"url": str("file")}})
		case "video":
			out = append(out, model.Segment{Type: model.SegVideo, Data: map[string]any{"url": str("file")}})
		default:
			// Unknown inbound types are dropped, noted at debug level.
			c.logger.Debug("dropping unsupported inbound segment")
		}
	}
	return out, nil
}
