package engine

import (
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/Setheum-Labs/Setheum-sub001/internal/auction"
	"github.com/Setheum-Labs/Setheum-sub001/internal/auctionhost"
	"github.com/Setheum-Labs/Setheum-sub001/internal/event"
	"github.com/Setheum-Labs/Setheum-sub001/internal/ledger"
	"github.com/Setheum-Labs/Setheum-sub001/internal/market"
	"github.com/Setheum-Labs/Setheum-sub001/internal/observability"
	"github.com/Setheum-Labs/Setheum-sub001/internal/treasury"
)

// Config holds the auction timing and pricing parameters.
type Config struct {
	// IncrementRatePPM is the minimum bid increment as parts-per-million of
	// max(last price, reference price). Doubles past the soft cap.
	IncrementRatePPM int64

	// SoftCapDuration is how long after an auction starts before the
	// anti-stalling acceleration kicks in.
	SoftCapDuration time.Duration

	// CloseDuration is how long a new bid keeps the auction open. Halves
	// past the soft cap. Also the initial lifetime of a mint auction.
	CloseDuration time.Duration
}

// DefaultConfig mirrors the production runtime parameters.
func DefaultConfig() Config {
	return Config{
		IncrementRatePPM: 20_000, // 2%
		SoftCapDuration:  2 * time.Hour,
		CloseDuration:    15 * time.Minute,
	}
}

// Engine is the single-threaded auction settlement core. Every state-mutating
// operation (creation, bid acceptance, settlement, cancellation) runs as one
// serialized all-or-nothing transition: the ledger batch for the operation is
// checked in full before any balance, item, inventory, or obligation mutates.
type Engine struct {
	cfg Config

	host        auctionhost.Host
	ledger      *ledger.Ledger
	treasury    *treasury.Treasury
	market      market.Market
	prices      treasury.PriceSource
	inventory   *InventoryTracker
	obligations *ObligationCounter

	reserves  map[uint64]*auction.ReserveAuction
	mints     map[uint64]*auction.MintAuction
	surpluses map[uint64]*auction.SurplusAuction

	sequence int64

	persistChan chan<- *event.Envelope
	publishChan chan<- *event.Envelope

	metrics *observability.Metrics
	log     zerolog.Logger
}

// New builds an engine over its collaborators. persistChan and publishChan may
// be nil (tests); metrics may be nil.
func New(
	cfg Config,
	host auctionhost.Host,
	l *ledger.Ledger,
	t *treasury.Treasury,
	m market.Market,
	prices treasury.PriceSource,
	persistChan, publishChan chan<- *event.Envelope,
	metrics *observability.Metrics,
	log zerolog.Logger,
) *Engine {
	return &Engine{
		cfg:         cfg,
		host:        host,
		ledger:      l,
		treasury:    t,
		market:      m,
		prices:      prices,
		inventory:   NewInventoryTracker(metrics),
		obligations: NewObligationCounter(log),
		reserves:    make(map[uint64]*auction.ReserveAuction),
		mints:       make(map[uint64]*auction.MintAuction),
		surpluses:   make(map[uint64]*auction.SurplusAuction),
		persistChan: persistChan,
		publishChan: publishChan,
		metrics:     metrics,
		log:         log,
	}
}

// Inventory exposes the global auction aggregates for queries.
func (e *Engine) Inventory() *InventoryTracker {
	return e.inventory
}

// Obligations exposes the account pinning counter.
func (e *Engine) Obligations() *ObligationCounter {
	return e.obligations
}

// Sequence returns the next event sequence the engine will assign.
func (e *Engine) Sequence() int64 {
	return e.sequence
}

// ResumeSequence sets the next event sequence. Called once at startup to
// continue numbering after the persisted event log.
func (e *Engine) ResumeSequence(next int64) {
	e.sequence = next
}

// ReserveAuction returns a copy of one reserve auction item.
func (e *Engine) ReserveAuction(id uint64) (auction.ReserveAuction, bool) {
	item, ok := e.reserves[id]
	if !ok {
		return auction.ReserveAuction{}, false
	}
	return *item, true
}

// MintAuction returns a copy of one mint auction item.
func (e *Engine) MintAuction(id uint64) (auction.MintAuction, bool) {
	item, ok := e.mints[id]
	if !ok {
		return auction.MintAuction{}, false
	}
	return *item, true
}

// SurplusAuction returns a copy of one surplus auction item.
func (e *Engine) SurplusAuction(id uint64) (auction.SurplusAuction, bool) {
	item, ok := e.surpluses[id]
	if !ok {
		return auction.SurplusAuction{}, false
	}
	return *item, true
}

// AuctionKind reports which collection holds an id.
func (e *Engine) AuctionKind(id uint64) (auction.Kind, bool) {
	if _, ok := e.reserves[id]; ok {
		return auction.KindReserve, true
	}
	if _, ok := e.mints[id]; ok {
		return auction.KindMint, true
	}
	if _, ok := e.surpluses[id]; ok {
		return auction.KindSurplus, true
	}
	return 0, false
}

// AuctionIDs returns the ascending id list for one kind. The sweep iterates
// this with its resumable cursor.
func (e *Engine) AuctionIDs(kind auction.Kind) []uint64 {
	var ids []uint64
	switch kind {
	case auction.KindReserve:
		ids = make([]uint64, 0, len(e.reserves))
		for id := range e.reserves {
			ids = append(ids, id)
		}
	case auction.KindMint:
		ids = make([]uint64, 0, len(e.mints))
		for id := range e.mints {
			ids = append(ids, id)
		}
	case auction.KindSurplus:
		ids = make([]uint64, 0, len(e.surpluses))
		for id := range e.surpluses {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// incrementRatePPM doubles past the soft cap (anti-stalling acceleration).
func (e *Engine) incrementRatePPM(now, start time.Time) int64 {
	rate := e.cfg.IncrementRatePPM
	if !now.Before(start.Add(e.cfg.SoftCapDuration)) {
		rate *= 2
	}
	return rate
}

// closeDuration halves past the soft cap (faster closing under load).
func (e *Engine) closeDuration(now, start time.Time) time.Duration {
	d := e.cfg.CloseDuration
	if !now.Before(start.Add(e.cfg.SoftCapDuration)) {
		d /= 2
	}
	return d
}

// emit assigns the next sequence and hands the envelope to the persistence
// and publish channels. The persist send blocks (no event may be lost); the
// publish send drops on a full buffer, consumers catch up from the event log.
func (e *Engine) emit(timestamp time.Time, payload event.Event) {
	envelope := &event.Envelope{
		Sequence:  e.sequence,
		EventType: payload.Type(),
		AuctionID: payload.Auction(),
		Timestamp: timestamp,
		Payload:   payload,
	}
	e.sequence++

	if e.metrics != nil {
		e.metrics.EngineSequence.Set(float64(e.sequence))
	}

	if e.persistChan != nil {
		e.persistChan <- envelope
	}
	if e.publishChan != nil {
		select {
		case e.publishChan <- envelope:
		default:
		}
	}
}
