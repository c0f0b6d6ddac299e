package auth

import (
	"fmt"
	"time"
)

// SessionObject is the credential pair handed back by the verify operations.
// The token is an opaque bearer value returned exactly once per issuance;
// there is no refresh endpoint.
type SessionObject struct {
	Token  string    `json:"session_token"`
	Expiry time.Time `json:"session_expiry"`
}

// Active reports whether the session is usable at the given instant. The
// boundary is strict: at now == expiry the session is still active.
func (s *SessionObject) Active(now time.Time) bool {
	return !now.After(s.Expiry)
}

// ExpiryString renders the expiry the way the wire format expects it:
// ISO-8601 in UTC.
func (s *SessionObject) ExpiryString() string {
	return s.Expiry.UTC().Format(time.RFC3339)
}

func (s *SessionObject) String() string {
	return fmt.Sprintf("session expiring %s", s.ExpiryString())
}
