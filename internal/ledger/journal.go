package ledger

import (
	"fmt"

	"github.com/google/uuid"
)

// EntryKind represents the purpose of a journal entry
type EntryKind int32

const (
	EntryBidPayment EntryKind = iota
	EntryBidRefund
	EntrySurplusDeposit
	EntryBurn
	EntryIssue
	EntryCollateralRefund
	EntryCollateralDelivery
	EntrySwap
	EntryPayout
)

// Entry represents a single double-entry journal entry. The debit account
// gains Amount, the credit account loses it.
type Entry struct {
	EntryID   uuid.UUID
	BatchID   uuid.UUID
	EventRef  string // engine event reference for audit
	Debit     AccountKey
	Credit    AccountKey
	Currency  CurrencyID
	Amount    int64 // always positive
	Kind      EntryKind
	Timestamp int64 // epoch microseconds, versioned input
}

// Batch represents the full set of transfers for one engine operation.
// A batch applies atomically: every entry commits or none does.
type Batch struct {
	BatchID  uuid.UUID
	EventRef string
	Entries  []Entry
}

// NewBatch creates an empty batch for one engine operation.
func NewBatch(eventRef string) *Batch {
	return &Batch{
		BatchID:  uuid.New(),
		EventRef: eventRef,
	}
}

// Add appends an entry, stamping it with the batch id. Zero-amount transfers
// are dropped here so handlers don't special-case "nothing to move".
func (b *Batch) Add(kind EntryKind, debit, credit AccountKey, currency CurrencyID, amount, timestamp int64) {
	if amount == 0 {
		return
	}
	b.Entries = append(b.Entries, Entry{
		EntryID:   uuid.New(),
		BatchID:   b.BatchID,
		EventRef:  b.EventRef,
		Debit:     debit,
		Credit:    credit,
		Currency:  currency,
		Amount:    amount,
		Kind:      kind,
		Timestamp: timestamp,
	})
}

// Validate ensures the batch is well-formed. Each entry is a balanced
// transfer by construction, so Σ debits == Σ credits holds per-entry.
func (b *Batch) Validate() error {
	for _, e := range b.Entries {
		if e.Amount <= 0 {
			return fmt.Errorf("entry %s has non-positive amount: %d", e.EntryID, e.Amount)
		}
		if e.BatchID != b.BatchID {
			return fmt.Errorf("entry %s has mismatched batch_id", e.EntryID)
		}
		if e.Debit == e.Credit {
			return fmt.Errorf("entry %s has same debit and credit account", e.EntryID)
		}
		if e.Debit.Currency != e.Currency || e.Credit.Currency != e.Currency {
			return fmt.Errorf("entry %s crosses currencies", e.EntryID)
		}
	}
	return nil
}
