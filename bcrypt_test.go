package auth_test

import (
	"testing"

	auth "github.com/goliatone/go-otp-auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword(t *testing.T) {
	hash, err := auth.HashPassword("secret-password")
	require.NoError(t, err)
	assert.NotEqual(t, "secret-password", hash)

	assert.NoError(t, auth.ComparePasswordAndHash("secret-password", hash))
	assert.Error(t, auth.ComparePasswordAndHash("wrong-password", hash))
}

func TestHashPasswordEmpty(t *testing.T) {
	_, err := auth.HashPassword("")
	assert.ErrorIs(t, err, auth.ErrNoEmptyString)
}

func TestComparePasswordAndHashMismatch(t *testing.T) {
	hash := quickHash("pw")
	err := auth.ComparePasswordAndHash("not-pw", hash)
	assertTextCode(t, err, auth.TextCodeInvalidCreds)
}
