package sweep

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/Setheum-Labs/Setheum-sub001/internal/auction"
	"github.com/Setheum-Labs/Setheum-sub001/internal/auctionhost"
)

type fakeSource struct {
	ids      map[auction.Kind][]uint64
	reserves map[uint64]auction.ReserveAuction
}

func (f *fakeSource) AuctionIDs(kind auction.Kind) []uint64 {
	return f.ids[kind]
}

func (f *fakeSource) ReserveAuction(id uint64) (auction.ReserveAuction, bool) {
	item, ok := f.reserves[id]
	return item, ok
}

type fakeHost struct {
	infos map[uint64]auctionhost.Info
}

func (f *fakeHost) NewAuction(start time.Time, end *time.Time) uint64 { return 0 }
func (f *fakeHost) RemoveAuction(id uint64)                           {}
func (f *fakeHost) AuctionInfo(id uint64) (auctionhost.Info, bool) {
	info, ok := f.infos[id]
	return info, ok
}

type recordingSubmitter struct {
	submitted []uint64
}

func (r *recordingSubmitter) SubmitCancel(ctx context.Context, id uint64) error {
	r.submitted = append(r.submitted, id)
	return nil
}

func newTestSweeper(cfg Config, source *fakeSource, host *fakeHost, sub *recordingSubmitter) (*Sweeper, *MemoryLeaseStore, *MemoryCheckpointStore) {
	leases := NewMemoryLeaseStore()
	checkpoints := NewMemoryCheckpointStore()
	s := NewSweeper(cfg, source, host, sub, leases, checkpoints, nil, zerolog.Nop())
	return s, leases, checkpoints
}

func TestSweepSkipsWhenLeaseHeld(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	source := &fakeSource{ids: map[auction.Kind][]uint64{auction.KindMint: {1, 2}}}
	sub := &recordingSubmitter{}
	s, leases, checkpoints := newTestSweeper(DefaultConfig(), source, &fakeHost{}, sub)

	if err := checkpoints.Save(context.Background(), Checkpoint{Kind: auction.KindMint}); err != nil {
		t.Fatal(err)
	}
	if ok, _ := leases.Acquire(context.Background(), leaseName, now, time.Minute); !ok {
		t.Fatal("seed lease acquisition failed")
	}

	if err := s.RunOnce(context.Background(), now.Add(10*time.Second)); err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(sub.submitted) != 0 {
		t.Fatalf("submitted %v while lease held", sub.submitted)
	}
}

func TestSweepSubmitsAndClearsCheckpoint(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	source := &fakeSource{ids: map[auction.Kind][]uint64{auction.KindMint: {3, 7, 9}}}
	sub := &recordingSubmitter{}
	s, _, checkpoints := newTestSweeper(DefaultConfig(), source, &fakeHost{}, sub)

	if err := checkpoints.Save(context.Background(), Checkpoint{Kind: auction.KindMint}); err != nil {
		t.Fatal(err)
	}
	if err := s.RunOnce(context.Background(), now); err != nil {
		t.Fatalf("run: %v", err)
	}

	if len(sub.submitted) != 3 {
		t.Fatalf("submitted = %v, want all three", sub.submitted)
	}
	if _, found, _ := checkpoints.Load(context.Background()); found {
		t.Fatal("checkpoint should be cleared after a full scan")
	}
}

func TestSweepBudgetPersistsCursor(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	cfg := DefaultConfig()
	cfg.MaxIterations = 2

	source := &fakeSource{ids: map[auction.Kind][]uint64{auction.KindSurplus: {1, 2, 3, 4}}}
	sub := &recordingSubmitter{}
	s, _, checkpoints := newTestSweeper(cfg, source, &fakeHost{}, sub)

	if err := checkpoints.Save(context.Background(), Checkpoint{Kind: auction.KindSurplus}); err != nil {
		t.Fatal(err)
	}
	if err := s.RunOnce(context.Background(), now); err != nil {
		t.Fatalf("first run: %v", err)
	}
	if len(sub.submitted) != 2 {
		t.Fatalf("first run submitted %v, want ids 1 2", sub.submitted)
	}

	cp, found, _ := checkpoints.Load(context.Background())
	if !found || cp.Kind != auction.KindSurplus || cp.Cursor != 3 {
		t.Fatalf("checkpoint = %+v found=%v, want surplus cursor 3", cp, found)
	}

	// Next window: the lease has expired and the scan resumes at the cursor.
	if err := s.RunOnce(context.Background(), now.Add(2*time.Minute)); err != nil {
		t.Fatalf("second run: %v", err)
	}
	if len(sub.submitted) != 4 || sub.submitted[2] != 3 || sub.submitted[3] != 4 {
		t.Fatalf("resumed submissions = %v, want 1 2 3 4", sub.submitted)
	}
	if _, found, _ := checkpoints.Load(context.Background()); found {
		t.Fatal("checkpoint should be cleared after resumption completes")
	}
}

func TestSweepSkipsReverseStageReserves(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	source := &fakeSource{
		ids: map[auction.Kind][]uint64{auction.KindReserve: {1, 2}},
		reserves: map[uint64]auction.ReserveAuction{
			1: {Amount: 100, Target: 1000},
			2: {Amount: 100, Target: 1000},
		},
	}
	host := &fakeHost{infos: map[uint64]auctionhost.Info{
		1: {LastBid: &auctionhost.Bid{Price: 1000}}, // reverse stage
		2: {LastBid: &auctionhost.Bid{Price: 400}},
	}}
	sub := &recordingSubmitter{}
	s, _, checkpoints := newTestSweeper(DefaultConfig(), source, host, sub)

	if err := checkpoints.Save(context.Background(), Checkpoint{Kind: auction.KindReserve}); err != nil {
		t.Fatal(err)
	}
	if err := s.RunOnce(context.Background(), now); err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(sub.submitted) != 1 || sub.submitted[0] != 2 {
		t.Fatalf("submitted = %v, want only auction 2", sub.submitted)
	}
}

func TestMemoryLeaseExpiry(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	leases := NewMemoryLeaseStore()

	if ok, _ := leases.Acquire(context.Background(), "x", now, time.Minute); !ok {
		t.Fatal("fresh lease should acquire")
	}
	if ok, _ := leases.Acquire(context.Background(), "x", now.Add(30*time.Second), time.Minute); ok {
		t.Fatal("held lease should not re-acquire")
	}
	if ok, _ := leases.Acquire(context.Background(), "x", now.Add(61*time.Second), time.Minute); !ok {
		t.Fatal("expired lease should acquire")
	}
}
