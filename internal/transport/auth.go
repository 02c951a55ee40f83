// Package transport implements the delivery channels a protocol engine
// can own: the HTTP action endpoint, the WebSocket server, the outbound
// WebSocket-reverse client, the webhook push sink and the heartbeat timer.
package transport

import (
	"crypto/subtle"
	"net/http"
	"strings"
)

// authorize checks a request's access token against the configured secret.
// The Authorization bearer header takes precedence over the access_token
// query parameter. An empty configured token disables auth entirely.
func authorize(r *http.Request, token string) bool {
	if token == "" {
		return true
	}
	if h := r.Header.Get("Authorization"); h != "" {
		const prefix = "Bearer "
		if !strings.HasPrefix(h, prefix) {
			return false
		}
		return tokenEqual(strings.TrimPrefix(h, prefix), token)
	}
	if q := r.URL.Query().Get("access_token"); q != "" {
		return tokenEqual(q, token)
	}
	return false
}

func tokenEqual(got, want string) bool {
	return subtle.ConstantTimeCompare([]byte(got), []byte(want)) == 1
}
