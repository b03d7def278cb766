package auction

import (
	"time"

	"github.com/google/uuid"

	"github.com/Setheum-Labs/Setheum-sub001/internal/ledger"
	"github.com/Setheum-Labs/Setheum-sub001/internal/math"
)

// Kind discriminates the three auction variants sharing one id space.
type Kind int32

const (
	KindReserve Kind = iota
	KindMint
	KindSurplus
)

func (k Kind) String() string {
	switch k {
	case KindReserve:
		return "reserve"
	case KindMint:
		return "mint"
	case KindSurplus:
		return "surplus"
	default:
		return "unknown"
	}
}

// ReserveAuction sells seized collateral for standard currency. Once bidding
// reaches Target the auction flips into the reverse stage, where further bids
// compete to take less collateral for the same recovered value.
type ReserveAuction struct {
	// RefundRecipient is entitled to unsold collateral and any value raised
	// beyond Target.
	RefundRecipient uuid.UUID
	Currency        ledger.CurrencyID
	InitialAmount   int64
	// Amount is the collateral currently for sale. Amount <= InitialAmount
	// always; it only shrinks.
	Amount int64
	// Target is the standard value the system needs to recover. Zero means
	// sell everything and never enter the reverse stage.
	Target    int64
	StartTime time.Time
}

// AlwaysForward reports whether the auction can never enter the reverse stage.
func (a *ReserveAuction) AlwaysForward() bool {
	return a.Target == 0
}

// InReverseStage reports whether a bid at price puts (or keeps) the auction
// in the reverse stage.
func (a *ReserveAuction) InReverseStage(price int64) bool {
	return !a.AlwaysForward() && price >= a.Target
}

// PaymentAmount is the standard value a bid at price actually pays: capped at
// Target once a target exists.
func (a *ReserveAuction) PaymentAmount(price int64) int64 {
	if a.AlwaysForward() {
		return price
	}
	return math.Min(a.Target, price)
}

// AmountForSale recomputes the collateral on offer after a reverse-stage bid:
// Amount * max(Target, lastPrice) / newPrice, never exceeding the current
// Amount.
func (a *ReserveAuction) AmountForSale(lastPrice, newPrice int64) int64 {
	if a.InReverseStage(newPrice) && newPrice > lastPrice {
		return math.MulDivOrFull(a.Amount, math.Max(a.Target, lastPrice), newPrice, a.Amount)
	}
	return a.Amount
}

// MintAuction raises a fixed standard value by selling newly minted native
// tokens. Bidders above Fix compete to accept fewer tokens.
type MintAuction struct {
	InitialAmount int64
	// Amount is the native-token amount on offer; shrinks once bidding
	// exceeds Fix.
	Amount int64
	// Fix is the standard value the auction must raise.
	Fix       int64
	StartTime time.Time
}

// AmountForSale recomputes the native amount on offer once the bid price
// clears Fix: Amount * max(Fix, lastPrice) / newPrice.
func (a *MintAuction) AmountForSale(lastPrice, newPrice int64) int64 {
	if newPrice > a.Fix && newPrice > lastPrice {
		return math.MulDivOrFull(a.Amount, math.Max(a.Fix, lastPrice), newPrice, a.Amount)
	}
	return a.Amount
}

// SurplusAuction sells a fixed standard-value surplus for native tokens,
// which are burned. Amount never mutates.
type SurplusAuction struct {
	Amount    int64
	StartTime time.Time
}
