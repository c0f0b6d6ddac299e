// Package jsonstore persists the user collection as a single flat JSON
// file. It keeps the original service's storage model: every save rewrites
// the whole file, a missing file reads as an empty collection.
package jsonstore

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	goerrors "github.com/goliatone/go-errors"
	auth "github.com/goliatone/go-otp-auth"
)

// Store is a file-backed auth.Store. Writes are serialized by a mutex and
// lands via temp-file rename, so a crashed save never leaves a torn file
// behind. Reads share the same lock because a read racing the rename could
// otherwise observe the old file being replaced.
type Store struct {
	path string
	mu   sync.Mutex
}

var _ auth.Store = (*Store)(nil)

// New returns a store over the given file path. The file is created on the
// first save.
func New(path string) *Store {
	return &Store{path: path}
}

// Load returns every record in the file, or an empty collection when the
// file does not exist yet.
func (s *Store) Load(ctx context.Context) ([]*auth.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []*auth.User{}, nil
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to read user store")
	}

	var users []*auth.User
	if err := json.Unmarshal(raw, &users); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to decode user store")
	}

	return users, nil
}

// SaveAll replaces the whole collection.
func (s *Store) SaveAll(ctx context.Context, users []*auth.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	raw, err := json.MarshalIndent(users, "", "  ")
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to encode user store")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".users-*.json")
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to create temp store file")
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to write user store")
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to flush user store")
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to replace user store")
	}

	return nil
}
