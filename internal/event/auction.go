package event

import (
	"github.com/google/uuid"

	"github.com/Setheum-Labs/Setheum-sub001/internal/ledger"
)

// ReserveAuctionCreated records a new collateral liquidation auction.
type ReserveAuctionCreated struct {
	AuctionID       uint64            `json:"auction_id"`
	RefundRecipient uuid.UUID         `json:"refund_recipient"`
	Currency        ledger.CurrencyID `json:"currency"`
	Amount          int64             `json:"amount"`
	Target          int64             `json:"target"`
}

func (e *ReserveAuctionCreated) Type() EventType { return EventTypeReserveAuctionCreated }
func (e *ReserveAuctionCreated) Auction() uint64 { return e.AuctionID }

// MintAuctionCreated records a new native-token mint auction.
type MintAuctionCreated struct {
	AuctionID     uint64 `json:"auction_id"`
	InitialAmount int64  `json:"initial_amount"`
	Fix           int64  `json:"fix"`
}

func (e *MintAuctionCreated) Type() EventType { return EventTypeMintAuctionCreated }
func (e *MintAuctionCreated) Auction() uint64 { return e.AuctionID }

// SurplusAuctionCreated records a new surplus auction.
type SurplusAuctionCreated struct {
	AuctionID uint64 `json:"auction_id"`
	Amount    int64  `json:"amount"`
}

func (e *SurplusAuctionCreated) Type() EventType { return EventTypeSurplusAuctionCreated }
func (e *SurplusAuctionCreated) Auction() uint64 { return e.AuctionID }

// AuctionCancelled records governance-forced or no-winner removal.
type AuctionCancelled struct {
	AuctionID uint64 `json:"auction_id"`
	Kind      string `json:"kind"`
}

func (e *AuctionCancelled) Type() EventType { return EventTypeAuctionCancelled }
func (e *AuctionCancelled) Auction() uint64 { return e.AuctionID }

// ReserveAuctionDealt records collateral delivered to a winning bidder.
type ReserveAuctionDealt struct {
	AuctionID uint64            `json:"auction_id"`
	Winner    uuid.UUID         `json:"winner"`
	Currency  ledger.CurrencyID `json:"currency"`
	Amount    int64             `json:"amount"`
	Payment   int64             `json:"payment"`
}

func (e *ReserveAuctionDealt) Type() EventType { return EventTypeReserveAuctionDealt }
func (e *ReserveAuctionDealt) Auction() uint64 { return e.AuctionID }

// MintAuctionDealt records native tokens minted to a winning bidder.
type MintAuctionDealt struct {
	AuctionID uint64    `json:"auction_id"`
	Winner    uuid.UUID `json:"winner"`
	Amount    int64     `json:"amount"`
	Payment   int64     `json:"payment"`
}

func (e *MintAuctionDealt) Type() EventType { return EventTypeMintAuctionDealt }
func (e *MintAuctionDealt) Auction() uint64 { return e.AuctionID }

// SurplusAuctionDealt records surplus paid out to a winning bidder.
type SurplusAuctionDealt struct {
	AuctionID uint64    `json:"auction_id"`
	Winner    uuid.UUID `json:"winner"`
	Amount    int64     `json:"amount"`
	Payment   int64     `json:"payment"`
}

func (e *SurplusAuctionDealt) Type() EventType { return EventTypeSurplusAuctionDealt }
func (e *SurplusAuctionDealt) Auction() uint64 { return e.AuctionID }

// MarketSettlement records a reserve auction settled through the market
// instead of delivering collateral to the winner.
type MarketSettlement struct {
	AuctionID      uint64            `json:"auction_id"`
	Winner         uuid.UUID         `json:"winner"`
	Currency       ledger.CurrencyID `json:"currency"`
	SupplyAmount   int64             `json:"supply_amount"`
	TargetReceived int64             `json:"target_received"`
}

func (e *MarketSettlement) Type() EventType { return EventTypeMarketSettlement }
func (e *MarketSettlement) Auction() uint64 { return e.AuctionID }
