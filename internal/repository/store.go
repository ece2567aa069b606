package repository

import (
	"context"

	"gorm.io/gorm"
)

// Store wraps the database handle all repositories run on. A store
// obtained through Transaction is bound to that transaction, so the
// same methods serve transactional and plain callers.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Transaction executes fn against a transaction-bound store. Either
// every write inside fn commits, or none does.
func (s *Store) Transaction(ctx context.Context, fn func(tx *Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Store{db: tx})
	})
}
