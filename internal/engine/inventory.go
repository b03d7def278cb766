package engine

import (
	"github.com/Setheum-Labs/Setheum-sub001/internal/auction"
	"github.com/Setheum-Labs/Setheum-sub001/internal/ledger"
	"github.com/Setheum-Labs/Setheum-sub001/internal/math"
	"github.com/Setheum-Labs/Setheum-sub001/internal/observability"
)

// InventoryTracker maintains the global auction aggregates: collateral locked
// in reserve auctions per asset, the sum of outstanding reserve targets, the
// sum of outstanding mint fixes, and the surplus on offer. Each accumulator
// equals the sum of the matching field over all active auctions of that kind;
// every mutation site updates it exactly once.
type InventoryTracker struct {
	reserveInAuction  map[ledger.CurrencyID]int64
	targetInAuction   int64
	standardInAuction int64
	surplusInAuction  int64

	metrics *observability.Metrics
}

func NewInventoryTracker(metrics *observability.Metrics) *InventoryTracker {
	return &InventoryTracker{
		reserveInAuction: make(map[ledger.CurrencyID]int64),
		metrics:          metrics,
	}
}

// AddReserve grows the locked-collateral accumulator for one asset. Fails on
// int64 overflow without mutating anything.
func (t *InventoryTracker) AddReserve(currency ledger.CurrencyID, amount int64) error {
	sum, ok := math.CheckedAdd(t.reserveInAuction[currency], amount)
	if !ok {
		return auction.ErrInvalidAmount
	}
	t.reserveInAuction[currency] = sum
	t.syncReserveGauge(currency)
	return nil
}

// SubReserve shrinks the locked-collateral accumulator. Called on reverse
// stage shrinks and on settlement/cancellation.
func (t *InventoryTracker) SubReserve(currency ledger.CurrencyID, amount int64) {
	t.reserveInAuction[currency] -= amount
	t.syncReserveGauge(currency)
}

func (t *InventoryTracker) AddTarget(amount int64) error {
	sum, ok := math.CheckedAdd(t.targetInAuction, amount)
	if !ok {
		return auction.ErrInvalidAmount
	}
	t.targetInAuction = sum
	t.syncScalarGauges()
	return nil
}

func (t *InventoryTracker) SubTarget(amount int64) {
	t.targetInAuction -= amount
	t.syncScalarGauges()
}

func (t *InventoryTracker) AddStandard(amount int64) error {
	sum, ok := math.CheckedAdd(t.standardInAuction, amount)
	if !ok {
		return auction.ErrInvalidAmount
	}
	t.standardInAuction = sum
	t.syncScalarGauges()
	return nil
}

func (t *InventoryTracker) SubStandard(amount int64) {
	t.standardInAuction -= amount
	t.syncScalarGauges()
}

func (t *InventoryTracker) AddSurplus(amount int64) error {
	sum, ok := math.CheckedAdd(t.surplusInAuction, amount)
	if !ok {
		return auction.ErrInvalidAmount
	}
	t.surplusInAuction = sum
	t.syncScalarGauges()
	return nil
}

func (t *InventoryTracker) SubSurplus(amount int64) {
	t.surplusInAuction -= amount
	t.syncScalarGauges()
}

// ReserveInAuction returns the collateral currently locked for one asset.
func (t *InventoryTracker) ReserveInAuction(currency ledger.CurrencyID) int64 {
	return t.reserveInAuction[currency]
}

// TargetInAuction returns the sum of outstanding reserve auction targets.
func (t *InventoryTracker) TargetInAuction() int64 {
	return t.targetInAuction
}

// StandardInAuction returns the sum of outstanding mint auction fixes.
func (t *InventoryTracker) StandardInAuction() int64 {
	return t.standardInAuction
}

// SurplusInAuction returns the surplus currently on offer.
func (t *InventoryTracker) SurplusInAuction() int64 {
	return t.surplusInAuction
}

func (t *InventoryTracker) syncReserveGauge(currency ledger.CurrencyID) {
	if t.metrics == nil {
		return
	}
	symbol, _ := ledger.GetCurrencySymbol(currency)
	t.metrics.ReserveInAuction.WithLabelValues(symbol).Set(float64(t.reserveInAuction[currency]))
}

func (t *InventoryTracker) syncScalarGauges() {
	if t.metrics == nil {
		return
	}
	t.metrics.TargetInAuction.Set(float64(t.targetInAuction))
	t.metrics.StandardInAuction.Set(float64(t.standardInAuction))
	t.metrics.SurplusInAuction.Set(float64(t.surplusInAuction))
}
