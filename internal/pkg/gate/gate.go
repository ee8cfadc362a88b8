package gate

import "crypto/subtle"

// AccessGate decides whether a presented credential is allowed to act.
type AccessGate interface {
	// Authorize returns true when the presented token is accepted.
	// It must return false for empty input and never report why it denied.
	Authorize(token string) bool
}

// Static is an AccessGate backed by a single pre-shared permission token.
type Static struct {
	token string
}

// NewStatic builds a Static gate for the given permission token.
func NewStatic(token string) *Static {
	return &Static{token: token}
}

// Authorize compares the presented token against the configured one in
// constant time. An unconfigured gate denies everything.
func (g *Static) Authorize(token string) bool {
	if token == "" || g.token == "" {
		return false
	}

	return subtle.ConstantTimeCompare([]byte(g.token), []byte(token)) == 1
}
