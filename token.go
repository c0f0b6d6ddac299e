package auth

import (
	"crypto/rand"
	"encoding/base64"

	goerrors "github.com/goliatone/go-errors"
)

// SessionTokenBytes is the entropy of a session token before encoding.
const SessionTokenBytes = 32

// GenerateSessionToken returns an opaque URL-safe bearer token backed by 32
// bytes of cryptographic randomness. The token carries no embedded
// structure; it only means something to the store that issued it.
func GenerateSessionToken() (string, error) {
	buf := make([]byte, SessionTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", goerrors.Wrap(err, goerrors.CategoryInternal, "failed to generate session token")
	}

	return base64.RawURLEncoding.EncodeToString(buf), nil
}
