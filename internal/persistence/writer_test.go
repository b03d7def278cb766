package persistence_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/Setheum-Labs/Setheum-sub001/internal/auction"
	"github.com/Setheum-Labs/Setheum-sub001/internal/event"
	"github.com/Setheum-Labs/Setheum-sub001/internal/ledger"
	"github.com/Setheum-Labs/Setheum-sub001/internal/persistence"
	"github.com/Setheum-Labs/Setheum-sub001/internal/sweep"
	"github.com/Setheum-Labs/Setheum-sub001/internal/testutil"
)

func mustEnvelope(seq int64, id uint64) *event.Envelope {
	payload := &event.ReserveAuctionCreated{
		AuctionID:       id,
		RefundRecipient: uuid.New(),
		Currency:        ledger.CurrencyID(3),
		Amount:          100,
		Target:          5000,
	}
	return &event.Envelope{
		Sequence:  seq,
		EventType: payload.Type(),
		AuctionID: id,
		Timestamp: time.UnixMicro(1000000 + seq*1000),
		Payload:   payload,
	}
}

func TestEventLogRoundTrip(t *testing.T) {
	testutil.RequireIntegration(t)
	db, cleanup := testutil.SetupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	if err := persistence.NewMigrator(db, "../../migrations").Up(ctx); err != nil {
		t.Fatalf("migrate up: %v", err)
	}

	w := persistence.NewEventLogWriter(db)

	last, err := w.LastSequence(ctx)
	if err != nil {
		t.Fatalf("last sequence: %v", err)
	}
	if last != -1 {
		t.Fatalf("empty log last sequence = %d, want -1", last)
	}

	rows := make([]persistence.EventRow, 0, 3)
	for seq := int64(0); seq < 3; seq++ {
		row, err := persistence.RowFromEnvelope(mustEnvelope(seq, uint64(seq)+10))
		if err != nil {
			t.Fatalf("row from envelope: %v", err)
		}
		rows = append(rows, row)
	}

	tx, err := db.Begin()
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	if err := w.WriteEventBatch(ctx, tx, rows); err != nil {
		tx.Rollback()
		t.Fatalf("write batch: %v", err)
	}
	if err := tx.Commit(); err != nil {
		t.Fatalf("commit: %v", err)
	}

	last, err = w.LastSequence(ctx)
	if err != nil {
		t.Fatalf("last sequence after write: %v", err)
	}
	if last != 2 {
		t.Fatalf("last sequence = %d, want 2", last)
	}

	// Re-inserting the same sequences must be a no-op.
	tx, err = db.Begin()
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	if err := w.WriteEventBatch(ctx, tx, rows); err != nil {
		tx.Rollback()
		t.Fatalf("rewrite batch: %v", err)
	}
	if err := tx.Commit(); err != nil {
		t.Fatalf("commit: %v", err)
	}

	var count int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM auction_events`).Scan(&count); err != nil {
		t.Fatalf("count rows: %v", err)
	}
	if count != 3 {
		t.Fatalf("event rows = %d, want 3", count)
	}
}

func TestPostgresLeaseAcquire(t *testing.T) {
	testutil.RequireIntegration(t)
	db, cleanup := testutil.SetupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	if err := persistence.NewMigrator(db, "../../migrations").Up(ctx); err != nil {
		t.Fatalf("migrate up: %v", err)
	}

	store := persistence.NewPostgresLeaseStore(db)
	now := time.Now().UTC()

	ok, err := store.Acquire(ctx, "test-lease", now, time.Minute)
	if err != nil {
		t.Fatalf("first acquire: %v", err)
	}
	if !ok {
		t.Fatal("first acquire should succeed")
	}

	ok, err = store.Acquire(ctx, "test-lease", now.Add(30*time.Second), time.Minute)
	if err != nil {
		t.Fatalf("second acquire: %v", err)
	}
	if ok {
		t.Fatal("acquire during live lease should fail")
	}

	ok, err = store.Acquire(ctx, "test-lease", now.Add(2*time.Minute), time.Minute)
	if err != nil {
		t.Fatalf("third acquire: %v", err)
	}
	if !ok {
		t.Fatal("acquire after expiry should succeed")
	}
}

func TestPostgresCheckpointRoundTrip(t *testing.T) {
	testutil.RequireIntegration(t)
	db, cleanup := testutil.SetupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	if err := persistence.NewMigrator(db, "../../migrations").Up(ctx); err != nil {
		t.Fatalf("migrate up: %v", err)
	}

	store := persistence.NewPostgresCheckpointStore(db)

	_, found, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("load empty: %v", err)
	}
	if found {
		t.Fatal("empty store should have no checkpoint")
	}

	want := sweep.Checkpoint{Kind: auction.KindMint, Cursor: 42}
	if err := store.Save(ctx, want); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, found, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !found {
		t.Fatal("saved checkpoint not found")
	}
	if got != want {
		t.Fatalf("checkpoint = %+v, want %+v", got, want)
	}

	if err := store.Clear(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	_, found, err = store.Load(ctx)
	if err != nil {
		t.Fatalf("load after clear: %v", err)
	}
	if found {
		t.Fatal("checkpoint should be gone after clear")
	}
}
