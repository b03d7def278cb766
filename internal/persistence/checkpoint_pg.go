package persistence

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Setheum-Labs/Setheum-sub001/internal/auction"
	"github.com/Setheum-Labs/Setheum-sub001/internal/sweep"
)

// checkpointKey names the single sweep cursor row.
const checkpointKey = "stale-auction-sweep"

// PostgresCheckpointStore persists the sweep's (kind, cursor) resume point.
type PostgresCheckpointStore struct {
	db *sql.DB
}

func NewPostgresCheckpointStore(db *sql.DB) *PostgresCheckpointStore {
	return &PostgresCheckpointStore{db: db}
}

func (s *PostgresCheckpointStore) Load(ctx context.Context) (sweep.Checkpoint, bool, error) {
	var kind int32
	var cursor int64
	err := s.db.QueryRowContext(ctx, `
		SELECT kind, cursor FROM sweep_checkpoint WHERE name = $1
	`, checkpointKey).Scan(&kind, &cursor)
	if err == sql.ErrNoRows {
		return sweep.Checkpoint{}, false, nil
	}
	if err != nil {
		return sweep.Checkpoint{}, false, fmt.Errorf("load sweep checkpoint: %w", err)
	}
	return sweep.Checkpoint{Kind: auction.Kind(kind), Cursor: uint64(cursor)}, true, nil
}

func (s *PostgresCheckpointStore) Save(ctx context.Context, cp sweep.Checkpoint) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sweep_checkpoint (name, kind, cursor)
		VALUES ($1, $2, $3)
		ON CONFLICT (name) DO UPDATE SET kind = EXCLUDED.kind, cursor = EXCLUDED.cursor
	`, checkpointKey, int32(cp.Kind), int64(cp.Cursor))
	if err != nil {
		return fmt.Errorf("save sweep checkpoint: %w", err)
	}
	return nil
}

func (s *PostgresCheckpointStore) Clear(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM sweep_checkpoint WHERE name = $1`, checkpointKey)
	if err != nil {
		return fmt.Errorf("clear sweep checkpoint: %w", err)
	}
	return nil
}
