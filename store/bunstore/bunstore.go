// Package bunstore persists the user collection in SQLite through bun. It
// serves the same collection-oriented contract as the flat file store, but
// SaveAll runs inside a transaction so concurrent writers serialize on the
// database instead of a process-local lock.
package bunstore

import (
	"context"
	"database/sql"

	goerrors "github.com/goliatone/go-errors"
	auth "github.com/goliatone/go-otp-auth"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

// Store is a SQLite-backed auth.Store.
type Store struct {
	db *bun.DB
}

var _ auth.Store = (*Store)(nil)

// Open connects to the SQLite database at the given DSN and prepares the
// users table.
func Open(ctx context.Context, dsn string) (*Store, error) {
	sqldb, err := sql.Open(sqliteshim.ShimName, dsn)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to open sqlite store")
	}

	db := bun.NewDB(sqldb, sqlitedialect.New())

	store := &Store{db: db}
	if err := store.init(ctx); err != nil {
		db.Close()
		return nil, err
	}

	return store, nil
}

// New wraps an existing bun handle. The users table must already exist or be
// created via a migration the caller owns.
func New(db *bun.DB) *Store {
	return &Store{db: db}
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) init(ctx context.Context) error {
	_, err := s.db.NewCreateTable().
		Model((*auth.User)(nil)).
		IfNotExists().
		Exec(ctx)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to create users table")
	}
	return nil
}

// Load returns every record.
func (s *Store) Load(ctx context.Context) ([]*auth.User, error) {
	users := []*auth.User{}
	if err := s.db.NewSelect().Model(&users).Order("username ASC").Scan(ctx); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to load user records")
	}
	return users, nil
}

// SaveAll replaces the whole collection in one transaction.
func (s *Store) SaveAll(ctx context.Context, users []*auth.User) error {
	err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewDelete().Model((*auth.User)(nil)).Where("1 = 1").Exec(ctx); err != nil {
			return err
		}

		if len(users) == 0 {
			return nil
		}

		_, err := tx.NewInsert().Model(&users).Exec(ctx)
		return err
	})
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to persist user records")
	}
	return nil
}
