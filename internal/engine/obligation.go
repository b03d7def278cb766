package engine

import (
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ObligationCounter pins accounts with outstanding auction obligations: active
// bidders and reserve-auction refund recipients. An account with a non-zero
// count must not be pruned by the host until every obligation resolves.
type ObligationCounter struct {
	counts map[uuid.UUID]uint32
	log    zerolog.Logger
}

func NewObligationCounter(log zerolog.Logger) *ObligationCounter {
	return &ObligationCounter{
		counts: make(map[uuid.UUID]uint32),
		log:    log,
	}
}

func (o *ObligationCounter) Inc(account uuid.UUID) {
	o.counts[account]++
}

// Dec releases one obligation. A decrement below zero marks a pairing bug in
// the caller; the count clamps and the drift is logged.
func (o *ObligationCounter) Dec(account uuid.UUID) {
	n := o.counts[account]
	if n == 0 {
		o.log.Warn().
			Str("account", account.String()).
			Msg("obligation count underflow")
		return
	}
	if n == 1 {
		delete(o.counts, account)
		return
	}
	o.counts[account] = n - 1
}

// Count returns the open obligation count for an account.
func (o *ObligationCounter) Count(account uuid.UUID) uint32 {
	return o.counts[account]
}

// IsPinned reports whether the account has any open obligation.
func (o *ObligationCounter) IsPinned(account uuid.UUID) bool {
	return o.counts[account] > 0
}
