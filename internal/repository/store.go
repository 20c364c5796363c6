package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Store bundles the collection repositories around one shared connection pool. It is
// built once at startup and injected into the services.
type Store struct {
	db *sqlx.DB

	Users        *UserRepository
	Classes      *ClassRepository
	ClassUpdates *ClassUpdateRepository
	Selected     *SelectedRepository
	Payments     *PaymentRepository
}

// NewStore wires every repository to db.
func NewStore(db *sqlx.DB) *Store {
	return &Store{
		db:           db,
		Users:        NewUserRepository(db),
		Classes:      NewClassRepository(db),
		ClassUpdates: NewClassUpdateRepository(db),
		Selected:     NewSelectedRepository(db),
		Payments:     NewPaymentRepository(db),
	}
}

// Ping checks that the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// withTx runs fn inside a transaction, committing on success and rolling back on error.
func withTx(ctx context.Context, db *sqlx.DB, label string, fn func(tx *sqlx.Tx) error) (err error) {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin %s transaction: %w", label, err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = fn(tx); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit %s: %w", label, err)
	}
	return nil
}
