package jsonstore_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	auth "github.com/goliatone/go-otp-auth"
	"github.com/goliatone/go-otp-auth/store/jsonstore"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) (*jsonstore.Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "users.json")
	return jsonstore.New(path), path
}

func fixture() *auth.User {
	otp := "123456"
	expiry := time.Date(2025, 3, 14, 10, 20, 0, 0, time.UTC)
	return &auth.User{
		ID:           uuid.New(),
		Name:         "Ann",
		Username:     "ann",
		Email:        "ann@x.com",
		PasswordHash: "$2a$04$fixture",
		OTP:          &otp,
		OTPExpiry:    &expiry,
	}
}

func TestLoadMissingFile(t *testing.T) {
	store, _ := newStore(t)

	users, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, users)
}

func TestSaveAllRoundTrip(t *testing.T) {
	store, path := newStore(t)
	seed := fixture()

	require.NoError(t, store.SaveAll(context.Background(), []*auth.User{seed}))

	users, err := store.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 1)

	got := users[0]
	assert.Equal(t, seed.ID, got.ID)
	assert.Equal(t, "ann", got.Username)
	assert.Equal(t, "ann@x.com", got.Email)
	require.NotNil(t, got.OTP)
	assert.Equal(t, "123456", *got.OTP)
	require.NotNil(t, got.OTPExpiry)
	assert.True(t, seed.OTPExpiry.Equal(*got.OTPExpiry))
	assert.Nil(t, got.SessionToken)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "  \"username\": \"ann\"")
}

func TestSaveAllReplacesCollection(t *testing.T) {
	store, _ := newStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveAll(ctx, []*auth.User{fixture()}))

	other := fixture()
	other.Username = "bea"
	other.Email = "bea@x.com"
	require.NoError(t, store.SaveAll(ctx, []*auth.User{other}))

	users, err := store.Load(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "bea", users[0].Username)
}

func TestLoadCorruptFile(t *testing.T) {
	store, path := newStore(t)
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := store.Load(context.Background())
	assert.Error(t, err)
}

func TestSaveAllHonorsCancelledContext(t *testing.T) {
	store, path := newStore(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := store.SaveAll(ctx, []*auth.User{fixture()})
	assert.Error(t, err)

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}
