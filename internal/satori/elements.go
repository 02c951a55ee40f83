package satori

import (
	"context"
	"strings"

	"github.com/nidhogg/crossgate/internal/model"
)

// Message content on the wire is an element string: plain text with
// inline self-closing tags like <at id="42"/> and <img src="..."/>.

var contentEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")

var contentUnescaper = strings.NewReplacer("&amp;", "&", "&lt;", "<", "&gt;", ">", "&quot;", `"`)

func encodeContent(segs []model.Segment) string {
	var b strings.Builder
	for _, s := range segs {
		switch s.Type {
		case model.SegText:
			b.WriteString(contentEscaper.Replace(s.DataString("text")))
		case model.SegAt:
			if s.Data["all"] == true {
				b.WriteString(`<at type="all"/>`)
				break
			}
			id, _ := s.DataID("user_id")
			b.WriteString(`<at id="` + contentEscaper.Replace(id.Str) + `"/>`)
		case model.SegReply:
			id, _ := s.DataID("message_id")
			b.WriteString(`<quote id="` + contentEscaper.Replace(id.Str) + `"/>`)
		case model.SegImage:
			b.WriteString(`<img src="` + contentEscaper.Replace(s.DataString("url")) + `"/>`)
		case model.SegRecord:
			b.WriteString(`<audio src="` + contentEscaper.Replace(s.DataString("url")) + `"/>`)
		case model.SegVideo:
			b.WriteString(`<video src="` + contentEscaper.Replace(s.DataString("url")) + `"/>`)
		case model.SegFile:
			b.WriteString(`<file src="` + contentEscaper.Replace(s.DataString("url")) + `"/>`)
		default:
			b.WriteString(contentEscaper.Replace("[" + s.Type + "]"))
		}
	}
	return b.String()
}

// decodeContent parses an element string back into canonical segments.
// Unrecognized tags are dropped; malformed tags are kept as literal text.
func (c *Codec) decodeContent(ctx context.Context, content string) ([]model.Segment, error) {
	var out []model.Segment
	text := func(s string) {
		if s == "" {
			return
		}
		out = append(out, model.Text(contentUnescaper.Replace(s)))
	}
	for len(content) > 0 {
		lt := strings.IndexByte(content, '<')
		if lt < 0 {
			text(content)
			break
		}
		text(content[:lt])
		content = content[lt:]
		gt := strings.IndexByte(content, '>')
		if gt < 0 {
			text(content)
			break
		}
		tag := content[1:gt]
		content = content[gt+1:]
		name, attrs := parseTag(tag)
		switch name {
		case "at":
			if attrs["type"] == "all" {
				out = append(out, model.Segment{Type: model.SegAt, Data: map[string]any{"all": true}})
				break
			}
			id, err := c.resolve(ctx, attrs["id"])
			if err != nil {
				return nil, err
			}
			out = append(out, model.At(id))
		case "quote":
			id, err := c.resolve(ctx, attrs["id"])
			if err != nil {
				return nil, err
			}
			out = append(out, model.Reply(id))
		case "img", "image":
			out = append(out, model.Image(attrs["src"]))
		case "audio":
			out = append(out, model.Segment{Type: model.SegRecord, Data: map[string]any{"url": attrs["src"]}})
		case "video":
			out = append(out, model.Segment{Type: model.SegVideo, Data: map[string]any{"url": attrs["src"]}})
		case "file":
			out = append(out, model.Segment{Type: model.SegFile, Data: map[string]any{"url": attrs["src"]}})
		}
	}
	return out, nil
}

// parseTag splits `at id="42" type="all"` (trailing "/" already allowed)
// into the tag name and its attribute map.
func parseTag(tag string) (string, map[string]string) {
	tag = strings.TrimSuffix(strings.TrimSpace(tag), "/")
	name, rest, _ := strings.Cut(tag, " ")
	attrs := map[string]string{}
	for rest != "" {
		rest = strings.TrimSpace(rest)
		eq := strings.IndexByte(rest, '=')
		if eq < 0 {
			break
		}
		key := strings.TrimSpace(rest[:eq])
		rest = rest[eq+1:]
		if len(rest) < 2 || rest[0] != '"' {
			break
		}
		end := strings.IndexByte(rest[1:], '"')
		if end < 0 {
			break
		}
		attrs[key] = contentUnescaper.Replace(rest[1 : 1+end])
		rest = rest[end+2:]
	}
	return name, attrs
}
