package sweep

import (
	"context"
	"math/rand"
	"time"

	"github.com/rs/zerolog"

	"github.com/Setheum-Labs/Setheum-sub001/internal/auction"
	"github.com/Setheum-Labs/Setheum-sub001/internal/auctionhost"
	"github.com/Setheum-Labs/Setheum-sub001/internal/observability"
)

// leaseName is shared by every execution competing for one sweep window.
const leaseName = "stale-auction-sweep"

// AuctionSource is the engine surface the sweep reads. It never mutates
// engine state directly; candidates go through the Submitter.
type AuctionSource interface {
	AuctionIDs(kind auction.Kind) []uint64
	ReserveAuction(id uint64) (auction.ReserveAuction, bool)
}

// Submitter carries a cancellation request toward the engine's serialized
// command loop. Fire and forget: a lost submission is retried by a later
// sweep finding the auction still open.
type Submitter interface {
	SubmitCancel(ctx context.Context, id uint64) error
}

// Config holds the sweep schedule and iteration budget.
type Config struct {
	Interval      time.Duration
	LeaseTTL      time.Duration
	MaxIterations int
}

func DefaultConfig() Config {
	return Config{
		Interval:      time.Minute,
		LeaseTTL:      time.Minute,
		MaxIterations: 1000,
	}
}

// Sweeper scans one auction kind per invocation for auctions unlikely to
// attract further bids and submits cancellation requests for them. Best
// effort and non-consensus: it may run concurrently across independent
// executions, bounded by the lease and the persisted cursor.
type Sweeper struct {
	cfg         Config
	source      AuctionSource
	host        auctionhost.Host
	submitter   Submitter
	leases      LeaseStore
	checkpoints CheckpointStore
	metrics     *observability.Metrics
	log         zerolog.Logger
}

func NewSweeper(
	cfg Config,
	source AuctionSource,
	host auctionhost.Host,
	submitter Submitter,
	leases LeaseStore,
	checkpoints CheckpointStore,
	metrics *observability.Metrics,
	log zerolog.Logger,
) *Sweeper {
	if cfg.MaxIterations <= 0 {
		cfg.MaxIterations = DefaultConfig().MaxIterations
	}
	return &Sweeper{
		cfg:         cfg,
		source:      source,
		host:        host,
		submitter:   submitter,
		leases:      leases,
		checkpoints: checkpoints,
		metrics:     metrics,
		log:         log,
	}
}

// Run invokes RunOnce on a ticker until the context ends.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if err := s.RunOnce(ctx, now); err != nil {
				s.log.Error().Err(err).Msg("sweep failed")
			}
		}
	}
}

// RunOnce performs one budgeted scan. The lease is acquired or the whole
// invocation is skipped; the lease is then left to expire on its own so no
// other execution repeats this window's work.
func (s *Sweeper) RunOnce(ctx context.Context, now time.Time) error {
	start := time.Now()

	acquired, err := s.leases.Acquire(ctx, leaseName, now, s.cfg.LeaseTTL)
	if err != nil {
		return err
	}
	if !acquired {
		s.countRun("lease_held")
		return nil
	}

	cp, found, err := s.checkpoints.Load(ctx)
	if err != nil {
		return err
	}
	if !found {
		cp = Checkpoint{Kind: auction.Kind(rand.Intn(3))}
	}

	ids := s.source.AuctionIDs(cp.Kind)
	examined := 0
	exhausted := false

	for _, id := range ids {
		if id < cp.Cursor {
			continue
		}
		if examined >= s.cfg.MaxIterations {
			// Budget spent; resume from this id next time.
			if err := s.checkpoints.Save(ctx, Checkpoint{Kind: cp.Kind, Cursor: id}); err != nil {
				return err
			}
			exhausted = true
			break
		}
		examined++
		if s.metrics != nil {
			s.metrics.SweepScanned.Inc()
		}

		if s.skip(cp.Kind, id) {
			continue
		}
		if err := s.submitter.SubmitCancel(ctx, id); err != nil {
			s.log.Warn().Err(err).Uint64("auction_id", id).Msg("cancel submission failed")
			continue
		}
		if s.metrics != nil {
			s.metrics.SweepSubmissions.Inc()
		}
	}

	if exhausted {
		s.countRun("resumed")
	} else {
		if err := s.checkpoints.Clear(ctx); err != nil {
			return err
		}
		s.countRun("completed")
	}

	if s.metrics != nil {
		s.metrics.SweepDuration.Observe(time.Since(start).Seconds())
	}
	s.log.Debug().
		Str("kind", cp.Kind.String()).
		Int("examined", examined).
		Bool("resumable", exhausted).
		Msg("sweep finished")
	return nil
}

// skip filters out auctions cancellation must not touch: a reserve auction
// already in its reverse stage has met its funding target.
func (s *Sweeper) skip(kind auction.Kind, id uint64) bool {
	if kind != auction.KindReserve {
		return false
	}
	item, ok := s.source.ReserveAuction(id)
	if !ok {
		return true
	}
	info, ok := s.host.AuctionInfo(id)
	if !ok {
		return true
	}
	return info.LastBid != nil && item.InReverseStage(info.LastBid.Price)
}

func (s *Sweeper) countRun(outcome string) {
	if s.metrics != nil {
		s.metrics.SweepRuns.WithLabelValues(outcome).Inc()
	}
}
