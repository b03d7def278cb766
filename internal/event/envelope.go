package event

import (
	"time"
)

// EventType discriminator for event payloads
type EventType int32

const (
	EventTypeUnknown EventType = iota
	EventTypeReserveAuctionCreated
	EventTypeMintAuctionCreated
	EventTypeSurplusAuctionCreated
	EventTypeAuctionCancelled
	EventTypeReserveAuctionDealt
	EventTypeMintAuctionDealt
	EventTypeSurplusAuctionDealt
	EventTypeMarketSettlement
)

// Envelope wraps every emitted event
type Envelope struct {
	// Monotonic sequence assigned by the engine
	Sequence int64

	EventType EventType

	// Auction the event belongs to
	AuctionID uint64

	// Versioned input timestamp (NOT wall-clock)
	Timestamp time.Time

	// Event-specific payload, JSON-encoded by the persistence layer
	Payload Event
}

// Event is the interface all event payloads implement
type Event interface {
	Type() EventType
	Auction() uint64
}

func (et EventType) String() string {
	switch et {
	case EventTypeReserveAuctionCreated:
		return "ReserveAuctionCreated"
	case EventTypeMintAuctionCreated:
		return "MintAuctionCreated"
	case EventTypeSurplusAuctionCreated:
		return "SurplusAuctionCreated"
	case EventTypeAuctionCancelled:
		return "AuctionCancelled"
	case EventTypeReserveAuctionDealt:
		return "ReserveAuctionDealt"
	case EventTypeMintAuctionDealt:
		return "MintAuctionDealt"
	case EventTypeSurplusAuctionDealt:
		return "SurplusAuctionDealt"
	case EventTypeMarketSettlement:
		return "MarketSettlement"
	default:
		return "Unknown"
	}
}
