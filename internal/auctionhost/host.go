package auctionhost

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
)

// Bid is the last accepted bid on an auction.
type Bid struct {
	Bidder uuid.UUID
	Price  int64
}

// Info is the primitive's view of one open auction.
type Info struct {
	LastBid *Bid
	Start   time.Time
	// End is the current closing time; nil until a bid sets one.
	End *time.Time
}

// Host is the auction lifecycle primitive: it owns the id space, the last
// bid, and the closing time. The settlement engine owns everything economic.
type Host interface {
	NewAuction(start time.Time, end *time.Time) uint64
	AuctionInfo(id uint64) (Info, bool)
	RemoveAuction(id uint64)
}

// BidHandler is how the primitive hands decisions back to the engine. Bids
// on one auction arrive strictly in delivery order; OnAuctionEnded fires
// exactly once per auction.
type BidHandler interface {
	OnNewBid(now time.Time, id uint64, newBid Bid, lastBid *Bid) (time.Time, error)
	OnAuctionEnded(now time.Time, id uint64, winner *Bid)
}

// MemoryHost is the in-process primitive used by the daemon and the tests.
type MemoryHost struct {
	nextID   uint64
	auctions map[uint64]*Info
	handler  BidHandler
}

func NewMemoryHost() *MemoryHost {
	return &MemoryHost{
		auctions: make(map[uint64]*Info),
	}
}

// SetHandler wires the engine in after construction (the engine needs the
// host to create auctions, so the two are built host-first).
func (h *MemoryHost) SetHandler(handler BidHandler) {
	h.handler = handler
}

func (h *MemoryHost) NewAuction(start time.Time, end *time.Time) uint64 {
	id := h.nextID
	h.nextID++
	h.auctions[id] = &Info{Start: start, End: end}
	return id
}

func (h *MemoryHost) AuctionInfo(id uint64) (Info, bool) {
	info, ok := h.auctions[id]
	if !ok {
		return Info{}, false
	}
	return *info, true
}

func (h *MemoryHost) RemoveAuction(id uint64) {
	delete(h.auctions, id)
}

// PlaceBid routes a bid through the engine handler. The bid and the new
// closing time are recorded only when the handler accepts.
func (h *MemoryHost) PlaceBid(now time.Time, id uint64, bidder uuid.UUID, price int64) error {
	info, ok := h.auctions[id]
	if !ok {
		return fmt.Errorf("auction %d not open", id)
	}

	newEnd, err := h.handler.OnNewBid(now, id, Bid{Bidder: bidder, Price: price}, info.LastBid)
	if err != nil {
		return err
	}

	info.LastBid = &Bid{Bidder: bidder, Price: price}
	info.End = &newEnd
	return nil
}

// Tick closes every auction whose end time has passed, in id order, firing
// OnAuctionEnded exactly once each.
func (h *MemoryHost) Tick(now time.Time) {
	var expired []uint64
	for id, info := range h.auctions {
		if info.End != nil && !now.Before(*info.End) {
			expired = append(expired, id)
		}
	}
	sort.Slice(expired, func(i, j int) bool { return expired[i] < expired[j] })

	for _, id := range expired {
		info := h.auctions[id]
		delete(h.auctions, id)
		h.handler.OnAuctionEnded(now, id, info.LastBid)
	}
}

// OpenAuctions reports how many auctions the primitive currently tracks.
func (h *MemoryHost) OpenAuctions() int {
	return len(h.auctions)
}
