package ledger

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/Setheum-Labs/Setheum-sub001/internal/math"
)

// Ledger maintains in-memory account balances for every currency the engine
// touches. User and system accounts can never go negative; the external
// issuance account absorbs mints and burns, keeping the ledger zero-sum.
type Ledger struct {
	balances map[AccountKey]int64
}

func NewLedger() *Ledger {
	return &Ledger{
		balances: make(map[AccountKey]int64),
	}
}

// CheckBatch verifies the batch can apply in full against current balances:
// no non-external account goes negative at any point and no balance overflows.
func (l *Ledger) CheckBatch(batch *Batch) error {
	if err := batch.Validate(); err != nil {
		return fmt.Errorf("invalid batch: %w", err)
	}

	deltas := make(map[AccountKey]int64)
	for _, e := range batch.Entries {
		gain, ok := math.CheckedAdd(deltas[e.Debit], e.Amount)
		if !ok {
			return fmt.Errorf("entry %s overflows debit account %s", e.EntryID, e.Debit.AccountPath())
		}
		deltas[e.Debit] = gain
		deltas[e.Credit] -= e.Amount

		if e.Credit.Scope != AccountScopeExternal {
			if l.balances[e.Credit]+deltas[e.Credit] < 0 {
				return fmt.Errorf("insufficient balance on %s: have=%d, need=%d",
					e.Credit.AccountPath(), l.balances[e.Credit], -deltas[e.Credit])
			}
		}
	}

	for key, delta := range deltas {
		if _, ok := math.CheckedAdd(l.balances[key], delta); !ok {
			return fmt.Errorf("balance overflow on %s", key.AccountPath())
		}
	}

	return nil
}

// ApplyBatch commits the batch atomically. On any check failure no balance
// moves; after a successful check the application cannot fail.
func (l *Ledger) ApplyBatch(batch *Batch) error {
	if err := l.CheckBatch(batch); err != nil {
		return err
	}
	for _, e := range batch.Entries {
		l.balances[e.Debit] += e.Amount
		l.balances[e.Credit] -= e.Amount
	}
	return nil
}

// Transfer moves amount between two accounts as a single-entry batch.
func (l *Ledger) Transfer(currency CurrencyID, from, to AccountKey, amount int64) error {
	batch := NewBatch(fmt.Sprintf("transfer:%s", uuid.New()))
	batch.Add(EntryBidPayment, to, from, currency, amount, 0)
	return l.ApplyBatch(batch)
}

// Deposit mints amount into an account.
func (l *Ledger) Deposit(currency CurrencyID, to AccountKey, amount int64) error {
	batch := NewBatch(fmt.Sprintf("deposit:%s", uuid.New()))
	batch.Add(EntryIssue, to, IssuanceAccountKey(currency), currency, amount, 0)
	return l.ApplyBatch(batch)
}

// Withdraw burns amount from an account.
func (l *Ledger) Withdraw(currency CurrencyID, from AccountKey, amount int64) error {
	batch := NewBatch(fmt.Sprintf("withdraw:%s", uuid.New()))
	batch.Add(EntryBurn, IssuanceAccountKey(currency), from, currency, amount, 0)
	return l.ApplyBatch(batch)
}

// Balance returns the current balance for an account
func (l *Ledger) Balance(key AccountKey) int64 {
	return l.balances[key]
}

// TotalIssuance returns the circulating supply of a currency.
func (l *Ledger) TotalIssuance(currency CurrencyID) int64 {
	return -l.balances[IssuanceAccountKey(currency)]
}

// ComputeGlobalBalance sums all account balances per currency (zero for a
// consistent ledger, since every mutation is a balanced transfer).
func (l *Ledger) ComputeGlobalBalance() map[CurrencyID]int64 {
	totals := make(map[CurrencyID]int64)
	for key, balance := range l.balances {
		totals[key.Currency] += balance
	}
	return totals
}

// Snapshot returns a copy of all balances
func (l *Ledger) Snapshot() map[AccountKey]int64 {
	snapshot := make(map[AccountKey]int64, len(l.balances))
	for k, v := range l.balances {
		snapshot[k] = v
	}
	return snapshot
}
