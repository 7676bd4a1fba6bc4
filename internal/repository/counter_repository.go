package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Counter namespaces. Each document family draws from its own monotonic
// sequence; the sequence never resets.
const (
	CounterTKUMula  = "tku_mula"
	CounterTKUBantu = "tku_bantu"
	CounterTKUTata  = "tku_tata"
	CounterTKK      = "tkk"
)

// CounterRepository hands out gap-tolerant monotonic sequence numbers per
// namespace. The upsert makes concurrent callers serialize on the row, so
// two issuances can never observe the same value.
type CounterRepository struct {
	db *sqlx.DB
}

// NewCounterRepository constructs a CounterRepository.
func NewCounterRepository(db *sqlx.DB) *CounterRepository {
	return &CounterRepository{db: db}
}

// Next atomically increments the counter for the namespace and returns the
// new value. The first call for a namespace returns 1.
func (r *CounterRepository) Next(ctx context.Context, namespace string) (int64, error) {
	const query = `INSERT INTO counters (namespace, value) VALUES ($1, 1)
        ON CONFLICT (namespace) DO UPDATE SET value = counters.value + 1
        RETURNING value`
	var value int64
	if err := r.db.GetContext(ctx, &value, query, namespace); err != nil {
		return 0, fmt.Errorf("next counter %s: %w", namespace, err)
	}
	return value, nil
}
