package market

import (
	"fmt"

	"github.com/Setheum-Labs/Setheum-sub001/internal/ledger"
	"github.com/Setheum-Labs/Setheum-sub001/internal/math"
)

// Market is the constant-product venue the settlement path may prefer over
// delivering collateral to the winning bidder.
type Market interface {
	// SwapTargetAmount quotes the standard value a swap of supply units of
	// the reserve asset would return right now. ok is false when the pair
	// has no liquidity.
	SwapTargetAmount(currency ledger.CurrencyID, supply int64) (int64, bool)

	// SwapReserveToStandard executes the swap, moving supply from src into
	// the pool and the standard proceeds from the pool to dst. Fails without
	// moving anything when the proceeds fall below minTarget.
	SwapReserveToStandard(currency ledger.CurrencyID, supply, minTarget int64, src, dst ledger.AccountKey) (int64, error)
}

// poolAccount holds each pair's inventory on the shared ledger.
const poolAccount = "market_pool"

// ConstantProductMarket is an x*y=k venue over the shared ledger. Reserves
// live in ledger system accounts, so a swap is just another journal batch.
type ConstantProductMarket struct {
	ledger *ledger.Ledger
	feePPM int64
}

func NewConstantProductMarket(l *ledger.Ledger, feePPM int64) *ConstantProductMarket {
	return &ConstantProductMarket{ledger: l, feePPM: feePPM}
}

func (m *ConstantProductMarket) reserveAccount(currency ledger.CurrencyID) ledger.AccountKey {
	return ledger.NewSystemAccountKey(poolAccount, currency)
}

func (m *ConstantProductMarket) standardAccount() ledger.AccountKey {
	return ledger.NewSystemAccountKey(poolAccount, ledger.StandardCurrency)
}

// AddLiquidity seeds the pair from a funding account.
func (m *ConstantProductMarket) AddLiquidity(currency ledger.CurrencyID, from ledger.AccountKey, fromStandard ledger.AccountKey, reserveAmount, standardAmount int64) error {
	if err := m.ledger.Transfer(currency, from, m.reserveAccount(currency), reserveAmount); err != nil {
		return fmt.Errorf("add reserve side: %w", err)
	}
	if err := m.ledger.Transfer(ledger.StandardCurrency, fromStandard, m.standardAccount(), standardAmount); err != nil {
		return fmt.Errorf("add standard side: %w", err)
	}
	return nil
}

// SwapTargetAmount quotes out = y*dx' / (x+dx') with dx' = dx after fee.
func (m *ConstantProductMarket) SwapTargetAmount(currency ledger.CurrencyID, supply int64) (int64, bool) {
	if supply <= 0 {
		return 0, false
	}

	x := m.ledger.Balance(m.reserveAccount(currency))
	y := m.ledger.Balance(m.standardAccount())
	if x <= 0 || y <= 0 {
		return 0, false
	}

	effective := supply - math.MulRate(supply, m.feePPM)
	if effective <= 0 {
		return 0, false
	}

	out, ok := math.MulDiv(y, effective, x+effective)
	if !ok || out <= 0 || out >= y {
		return 0, false
	}
	return out, true
}

func (m *ConstantProductMarket) SwapReserveToStandard(currency ledger.CurrencyID, supply, minTarget int64, src, dst ledger.AccountKey) (int64, error) {
	out, ok := m.SwapTargetAmount(currency, supply)
	if !ok {
		return 0, fmt.Errorf("no liquidity for currency %d", currency)
	}
	if out < minTarget {
		return 0, fmt.Errorf("swap output %d below minimum %d", out, minTarget)
	}

	batch := ledger.NewBatch(fmt.Sprintf("swap:%d", currency))
	batch.Add(ledger.EntrySwap, m.reserveAccount(currency), src, currency, supply, 0)
	batch.Add(ledger.EntrySwap, dst, m.standardAccount(), ledger.StandardCurrency, out, 0)

	if err := m.ledger.ApplyBatch(batch); err != nil {
		return 0, fmt.Errorf("apply swap: %w", err)
	}
	return out, nil
}
