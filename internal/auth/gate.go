// Package auth implements the shared-secret admin gate.
package auth

import "crypto/subtle"

// HeaderAdminKey carries the admin secret on protected requests.
const HeaderAdminKey = "x-admin-key"

// Gate compares presented tokens with the operator secret configured at
// startup. It holds no other state and is safe for concurrent use.
type Gate struct {
	secret []byte
}

func NewGate(secret string) *Gate {
	return &Gate{secret: []byte(secret)}
}

// Authorize reports whether token equals the configured secret exactly.
// An empty token, or a gate with no secret, never authorizes.
func (g *Gate) Authorize(token string) bool {
	if g == nil || len(g.secret) == 0 || token == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(token), g.secret) == 1
}
