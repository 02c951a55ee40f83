// Package engine hosts the protocol-engine core shared by every wire
// protocol: the transport fan-out, the event sequence counter, the bounded
// history ring and the start/stop lifecycle. Protocol specifics live
// behind the Codec interface.
package engine

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/nidhogg/crossgate/internal/model"
)

// Result is a protocol-level action response: the ready-to-send envelope
// body plus the HTTP status the action endpoint should answer with. WS
// transports ignore Status and send Body as a frame.
type Result struct {
	Status int
	Body   []byte
}

// Codec translates between the canonical model and one wire protocol.
// Implementations must be safe for concurrent use: Apply may run on many
// transport goroutines at once.
type Codec interface {
	// Protocol returns the protocol family name (e.g. "onebot").
	Protocol() string
	// Version returns the protocol version tag (e.g. "v11").
	Version() string
	// EncodeEvent renders a canonical event with the given engine-local
	// sequence number. ok is false when this protocol cannot represent
	// the event; the engine then skips delivery.
	EncodeEvent(ev *model.Event, seq int64) (payload []byte, ok bool)

	// Apply runs one wire action end to end: decode params, call the
	// adapter contract, envelope the outcome. It must never let an error
	// escape; every failure becomes a protocol failure envelope.
	Apply(ctx context.Context, action string, params, echo json.RawMessage) Result

	// HelloFrames are sent to a freshly connected WS peer, oldest first.
	HelloFrames() [][]byte

	// WebhookHeaders adds the protocol's mandated headers to a push.
	WebhookHeaders(h http.Header)
}
