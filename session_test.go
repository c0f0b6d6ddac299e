package auth_test

import (
	"testing"
	"time"

	auth "github.com/goliatone/go-otp-auth"
	"github.com/stretchr/testify/assert"
)

func TestSessionObjectActive(t *testing.T) {
	expiry := time.Date(2025, 3, 14, 10, 20, 0, 0, time.UTC)
	session := &auth.SessionObject{Token: "tok", Expiry: expiry}

	assert.True(t, session.Active(expiry.Add(-time.Minute)))
	assert.True(t, session.Active(expiry), "the expiry instant itself is still valid")
	assert.False(t, session.Active(expiry.Add(time.Millisecond)))
}

func TestSessionObjectExpiryString(t *testing.T) {
	loc := time.FixedZone("CET", 3600)
	session := &auth.SessionObject{
		Token:  "tok",
		Expiry: time.Date(2025, 3, 14, 11, 20, 0, 0, loc),
	}

	assert.Equal(t, "2025-03-14T10:20:00Z", session.ExpiryString())
	assert.Contains(t, session.String(), "2025-03-14T10:20:00Z")
}
