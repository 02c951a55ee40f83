package satori

import (
	"crypto/subtle"
	"encoding/json"
)

// WebSocket signaling op codes.
const (
	opEvent    = 0
	opPing     = 1
	opPong     = 2
	opIdentify = 3
	opReady    = 4
)

type identifyBody struct {
	Token string `json:"token"`
	Sn    int64  `json:"sn"`
}

type readyBody struct {
	Logins []wireLogin `json:"logins"`
}

// HandleSignal implements the transport's optional signaling hook. Any
// frame carrying an op field belongs to the signaling layer and never
// reaches the method dispatcher; frames without one fall through.
func (c *Codec) HandleSignal(raw []byte) ([]byte, bool) {
	var f struct {
		Op   *int            `json:"op"`
		Body json.RawMessage `json:"body"`
	}
	if err := json.Unmarshal(raw, &f); err != nil || f.Op == nil {
		return nil, false
	}
	switch *f.Op {
	case opPing:
		return frame(opPong, struct{}{}), true
	case opIdentify:
		var id identifyBody
		if len(f.Body) > 0 {
			if err := json.Unmarshal(f.Body, &id); err != nil {
				c.logger.Debug("malformed identify body")
				return nil, true
			}
		}
		if c.token != "" && subtle.ConstantTimeCompare([]byte(id.Token), []byte(c.token)) != 1 {
			c.logger.Warn("identify rejected: bad token")
			return nil, true
		}
		return frame(opReady, readyBody{Logins: []wireLogin{{
			User:     &wireUser{ID: c.self.Str},
			SelfID:   c.self.Str,
			Platform: c.platform,
			Status:   1,
		}}}), true
	default:
		// Peer-originated EVENT/PONG/READY frames are meaningless to a
		// server; swallow them.
		return nil, true
	}
}
