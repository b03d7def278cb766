package treasury

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Setheum-Labs/Setheum-sub001/internal/ledger"
)

// Account names for protocol-owned pools.
const (
	SurplusPoolAccount = "surplus_pool"
	ReservePoolAccount = "reserve_pool"
)

// PriceSource supplies relative prices for cancellation settle-price math.
// Prices are quoted as "units of quote per unit of base".
type PriceSource interface {
	GetRelativePrice(base, quote ledger.CurrencyID) (decimal.Decimal, bool)
}

// Treasury owns the protocol's standard surplus pool and the seized reserve
// holdings that back active auctions. It is a thin view over the ledger:
// engine operations that must be atomic reference its account keys inside
// their own journal batches.
type Treasury struct {
	ledger *ledger.Ledger
}

func New(l *ledger.Ledger) *Treasury {
	return &Treasury{ledger: l}
}

// SurplusAccount returns the standard-currency surplus pool account key.
func (t *Treasury) SurplusAccount() ledger.AccountKey {
	return ledger.NewSystemAccountKey(SurplusPoolAccount, ledger.StandardCurrency)
}

// ReserveAccount returns the holding account for a seized reserve asset.
func (t *Treasury) ReserveAccount(currency ledger.CurrencyID) ledger.AccountKey {
	return ledger.NewSystemAccountKey(ReservePoolAccount, currency)
}

// SurplusPool returns the standard value currently held as surplus.
func (t *Treasury) SurplusPool() int64 {
	return t.ledger.Balance(t.SurplusAccount())
}

// ReserveBalance returns the seized holdings of one reserve asset.
func (t *Treasury) ReserveBalance(currency ledger.CurrencyID) int64 {
	return t.ledger.Balance(t.ReserveAccount(currency))
}

// DepositReserve moves seized collateral from an account into the treasury.
// Called by the risk engine before it opens a reserve auction.
func (t *Treasury) DepositReserve(from uuid.UUID, currency ledger.CurrencyID, amount int64) error {
	return t.ledger.Transfer(currency, ledger.NewUserAccountKey(from, currency), t.ReserveAccount(currency), amount)
}

// WithdrawReserve delivers collateral from the treasury to an account.
func (t *Treasury) WithdrawReserve(to uuid.UUID, currency ledger.CurrencyID, amount int64) error {
	return t.ledger.Transfer(currency, t.ReserveAccount(currency), ledger.NewUserAccountKey(to, currency), amount)
}

// DepositSurplus collects standard value from an account into the surplus pool.
func (t *Treasury) DepositSurplus(from uuid.UUID, amount int64) error {
	return t.ledger.Transfer(ledger.StandardCurrency, ledger.NewUserAccountKey(from, ledger.StandardCurrency), t.SurplusAccount(), amount)
}

// IssueStandard mints standard value directly to an account. Used for bidder
// refunds during cancellation and for paying winners on the market-settlement
// route, where the recovered value already sits in the surplus pool.
func (t *Treasury) IssueStandard(to uuid.UUID, amount int64) error {
	return t.ledger.Deposit(ledger.StandardCurrency, ledger.NewUserAccountKey(to, ledger.StandardCurrency), amount)
}

// IssueNative mints native tokens to an account. Mint-auction settlement only.
func (t *Treasury) IssueNative(to uuid.UUID, amount int64) error {
	return t.ledger.Deposit(ledger.NativeCurrency, ledger.NewUserAccountKey(to, ledger.NativeCurrency), amount)
}

// PayoutSurplus pays standard value out of the surplus pool to an account.
func (t *Treasury) PayoutSurplus(to uuid.UUID, amount int64) error {
	return t.ledger.Transfer(ledger.StandardCurrency, t.SurplusAccount(), ledger.NewUserAccountKey(to, ledger.StandardCurrency), amount)
}

// FixedPriceSource is a map-backed PriceSource for wiring and tests.
type FixedPriceSource struct {
	prices map[[2]ledger.CurrencyID]decimal.Decimal
}

func NewFixedPriceSource() *FixedPriceSource {
	return &FixedPriceSource{
		prices: make(map[[2]ledger.CurrencyID]decimal.Decimal),
	}
}

// SetRelativePrice records "units of quote per unit of base".
func (f *FixedPriceSource) SetRelativePrice(base, quote ledger.CurrencyID, price decimal.Decimal) {
	f.prices[[2]ledger.CurrencyID{base, quote}] = price
}

func (f *FixedPriceSource) GetRelativePrice(base, quote ledger.CurrencyID) (decimal.Decimal, bool) {
	price, ok := f.prices[[2]ledger.CurrencyID{base, quote}]
	if !ok || !price.IsPositive() {
		return decimal.Zero, false
	}
	return price, true
}
