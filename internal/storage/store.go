// Package storage bundles all repositories behind one database handle.
package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/your-org/miniapp-backend/internal/features/user/repository"
	pgrepo "github.com/your-org/miniapp-backend/internal/features/user/repository/postgres"
)

// Store is the single entry point to the repositories. All of them share
// the same database handle, so inside WithTx they share one transaction.
// Add new repositories here as the template grows.
type Store struct {
	db *sql.DB

	Users repository.UserRepository
}

func New(db *sql.DB) *Store {
	return &Store{
		db:    db,
		Users: pgrepo.NewUserRepository(db),
	}
}

// WithTx runs fn against a Store whose repositories share one transaction.
// The transaction commits when fn returns nil and rolls back otherwise.
func (s *Store) WithTx(ctx context.Context, fn func(*Store) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	txStore := &Store{
		db:    s.db,
		Users: pgrepo.NewUserRepository(tx),
	}

	if err := fn(txStore); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("%w (rollback failed: %v)", err, rbErr)
		}
		return err
	}
	return tx.Commit()
}
