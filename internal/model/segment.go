package model

// Segment is a single typed chunk of message content. A message is an
// ordered sequence of segments; order is meaningful and preserved through
// every protocol translation.
type Segment struct {
	Type string         `json:"type"`
	Data map[string]any `json:"data"`
}

// Well-known segment types shared by the protocol codecs. Platforms may
// emit additional types; codecs fall back per their own rules.
const (
	SegText    = "text"
	SegImage   = "image"
	SegAt      = "at"
	SegReply   = "reply"
	SegFace    = "face"
	SegRecord  = "record"
	SegVideo   = "video"
	SegFile    = "file"
	SegUnknown = "unknown"
)

// Text builds a plain text segment.
func Text(s string) Segment {
	return Segment{Type: SegText, Data: map[string]any{"text": s}}
}

// At builds a mention segment targeting the given user.
func At(user ID) Segment {
	return Segment{Type: SegAt, Data: map[string]any{"user_id": user}}
}

// Image builds an image segment referencing a URL or platform file key.
func Image(url string) Segment {
	return Segment{Type: SegImage, Data: map[string]any{"url": url}}
}

// Reply builds a reply segment referencing an earlier message.
func Reply(message ID) Segment {
	return Segment{Type: SegReply, Data: map[string]any{"message_id": message}}
}

// PlainText concatenates the text content of all text segments. Used by
// codecs that need an alternative plain rendering of a message.
func PlainText(segs []Segment) string {
	var out string
	for _, s := range segs {
		if s.Type == SegText {
			if t, ok := s.Data["text"].(string); ok {
				out += t
			}
		}
	}
	return out
}

// DataID extracts an ID value from segment data, tolerating both ID values
// and raw strings (as produced by JSON round trips).
func (s Segment) DataID(key string) (ID, bool) {
	switch v := s.Data[key].(type) {
	case ID:
		return v, true
	case string:
		return ID{Source: v, Str: v}, v != ""
	default:
		return ID{}, false
	}
}

// DataString extracts a string value from segment data.
func (s Segment) DataString(key string) string {
	v, _ := s.Data[key].(string)
	return v
}
