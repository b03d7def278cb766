package auction

import "errors"

// Engine error taxonomy. All validation failures abort the triggering
// operation with no partial state mutation.
var (
	// ErrAuctionNotExists is returned for operations on an unknown or
	// already-settled auction id. A logic error in the caller, never retried.
	ErrAuctionNotExists = errors.New("auction does not exist")

	// ErrInReverseStage rejects cancellation of a reserve auction whose
	// funding target has been met: the obligation to deliver at least the
	// target value cannot be abandoned.
	ErrInReverseStage = errors.New("auction is in reverse stage")

	// ErrInvalidFeedPrice is returned when cancellation needs a settle price
	// and the oracle has none. The auction stays open for normal bidding.
	ErrInvalidFeedPrice = errors.New("invalid feed price")

	// ErrInvalidBidPrice rejects a bid violating the zero/increment/stage
	// rules. The caller may resubmit a higher bid.
	ErrInvalidBidPrice = errors.New("invalid bid price")

	// ErrInvalidAmount rejects zero or overflowing creation parameters.
	ErrInvalidAmount = errors.New("invalid amount")
)
