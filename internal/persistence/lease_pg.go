package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// PostgresLeaseStore implements the sweep's mutual-exclusion lease on a
// shared table, giving at-most-one scan per lease window across independent
// daemons. The row is never deleted: an expired lease is simply overwritten
// by the next acquirer.
type PostgresLeaseStore struct {
	db *sql.DB
}

func NewPostgresLeaseStore(db *sql.DB) *PostgresLeaseStore {
	return &PostgresLeaseStore{db: db}
}

// Acquire takes the named lease until now+ttl. The conditional upsert makes
// the row a compare-and-swap: it only moves when the previous lease expired.
func (s *PostgresLeaseStore) Acquire(ctx context.Context, name string, now time.Time, ttl time.Duration) (bool, error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO sweep_lease (name, expires_at)
		VALUES ($1, $2)
		ON CONFLICT (name) DO UPDATE SET expires_at = EXCLUDED.expires_at
		WHERE sweep_lease.expires_at <= $3
	`, name, now.Add(ttl), now)
	if err != nil {
		return false, fmt.Errorf("acquire lease %s: %w", name, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("lease rows affected: %w", err)
	}
	return n > 0, nil
}
