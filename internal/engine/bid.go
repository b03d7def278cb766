package engine

import (
	"fmt"
	"time"

	"github.com/Setheum-Labs/Setheum-sub001/internal/auction"
	"github.com/Setheum-Labs/Setheum-sub001/internal/auctionhost"
	"github.com/Setheum-Labs/Setheum-sub001/internal/ledger"
	"github.com/Setheum-Labs/Setheum-sub001/internal/math"
)

// OnNewBid is the bid acceptance protocol. The host delivers bids on one
// auction strictly in order; each accepted bid returns the new closing time.
// A rejected bid leaves the item, the inventory, and the ledger untouched.
func (e *Engine) OnNewBid(now time.Time, id uint64, newBid auctionhost.Bid, lastBid *auctionhost.Bid) (time.Time, error) {
	start := time.Now()

	kind, ok := e.AuctionKind(id)
	if !ok {
		e.countRejected("unknown", "not_exists")
		return time.Time{}, auction.ErrAuctionNotExists
	}

	var (
		end time.Time
		err error
	)
	switch kind {
	case auction.KindReserve:
		end, err = e.reserveBid(now, id, newBid, lastBid)
	case auction.KindMint:
		end, err = e.mintBid(now, id, newBid, lastBid)
	case auction.KindSurplus:
		end, err = e.surplusBid(now, id, newBid, lastBid)
	}

	if e.metrics != nil {
		if err != nil {
			e.countRejected(kind.String(), rejectionReason(err))
		} else {
			e.metrics.BidsAccepted.WithLabelValues(kind.String()).Inc()
			e.metrics.BidDuration.WithLabelValues(kind.String()).Observe(time.Since(start).Seconds())
		}
	}
	return end, err
}

// checkIncrement enforces the shared minimum-increment law:
// new − last ≥ max(last, reference) × rate(now), rate doubling past the
// soft cap. Prices must strictly increase once a bid exists.
func (e *Engine) checkIncrement(now, startTime time.Time, newPrice, lastPrice, reference int64) bool {
	if lastPrice > 0 && newPrice <= lastPrice {
		return false
	}
	minStep := math.MulRate(math.Max(lastPrice, reference), e.incrementRatePPM(now, startTime))
	return newPrice-lastPrice >= minStep
}

// reserveBid handles bids on collateral liquidation auctions. The new bidder
// refunds the previous bidder's payment and forwards only the marginal
// recovered value to the surplus pool. Once the price reaches the target the
// auction enters the reverse stage: the sale shrinks and freed collateral
// goes back to the refund recipient.
func (e *Engine) reserveBid(now time.Time, id uint64, newBid auctionhost.Bid, lastBid *auctionhost.Bid) (time.Time, error) {
	item := e.reserves[id]

	if newBid.Price <= 0 {
		return time.Time{}, auction.ErrInvalidBidPrice
	}
	var lastPrice int64
	if lastBid != nil {
		lastPrice = lastBid.Price
	}
	if !e.checkIncrement(now, item.StartTime, newBid.Price, lastPrice, item.Target) {
		return time.Time{}, auction.ErrInvalidBidPrice
	}

	payment := item.PaymentAmount(newBid.Price)
	var lastPayment int64
	if lastBid != nil {
		lastPayment = item.PaymentAmount(lastBid.Price)
	}

	ts := now.UnixMicro()
	newAccount := ledger.NewUserAccountKey(newBid.Bidder, ledger.StandardCurrency)
	batch := ledger.NewBatch(fmt.Sprintf("bid:%d", id))
	if lastBid != nil && lastBid.Bidder != newBid.Bidder {
		batch.Add(ledger.EntryBidRefund,
			ledger.NewUserAccountKey(lastBid.Bidder, ledger.StandardCurrency), newAccount,
			ledger.StandardCurrency, lastPayment, ts)
	}
	batch.Add(ledger.EntrySurplusDeposit,
		e.treasury.SurplusAccount(), newAccount,
		ledger.StandardCurrency, payment-lastPayment, ts)

	newAmount := item.AmountForSale(lastPrice, newBid.Price)
	freed := item.Amount - newAmount
	if freed > 0 {
		batch.Add(ledger.EntryCollateralRefund,
			ledger.NewUserAccountKey(item.RefundRecipient, item.Currency),
			e.treasury.ReserveAccount(item.Currency),
			item.Currency, freed, ts)
	}

	if err := e.ledger.ApplyBatch(batch); err != nil {
		return time.Time{}, fmt.Errorf("reserve bid on auction %d: %w", id, err)
	}

	if freed > 0 {
		item.Amount = newAmount
		e.inventory.SubReserve(item.Currency, freed)
	}
	e.obligations.Inc(newBid.Bidder)
	if lastBid != nil {
		e.obligations.Dec(lastBid.Bidder)
	}
	return now.Add(e.closeDuration(now, item.StartTime)), nil
}

// mintBid handles bids on mint auctions. Every bidder pays exactly the fixed
// raise; bids above it compete to accept fewer freshly minted tokens.
func (e *Engine) mintBid(now time.Time, id uint64, newBid auctionhost.Bid, lastBid *auctionhost.Bid) (time.Time, error) {
	item := e.mints[id]

	if newBid.Price < item.Fix {
		return time.Time{}, auction.ErrInvalidBidPrice
	}
	var lastPrice int64
	if lastBid != nil {
		lastPrice = lastBid.Price
	}
	if !e.checkIncrement(now, item.StartTime, newBid.Price, lastPrice, item.Fix) {
		return time.Time{}, auction.ErrInvalidBidPrice
	}

	ts := now.UnixMicro()
	newAccount := ledger.NewUserAccountKey(newBid.Bidder, ledger.StandardCurrency)
	batch := ledger.NewBatch(fmt.Sprintf("bid:%d", id))
	if lastBid != nil {
		// The raise was already collected from the previous bidder; the new
		// bidder buys them out. A bidder raising their own bid owes nothing.
		if lastBid.Bidder != newBid.Bidder {
			batch.Add(ledger.EntryBidRefund,
				ledger.NewUserAccountKey(lastBid.Bidder, ledger.StandardCurrency), newAccount,
				ledger.StandardCurrency, item.Fix, ts)
		}
	} else {
		batch.Add(ledger.EntrySurplusDeposit,
			e.treasury.SurplusAccount(), newAccount,
			ledger.StandardCurrency, item.Fix, ts)
	}

	if err := e.ledger.ApplyBatch(batch); err != nil {
		return time.Time{}, fmt.Errorf("mint bid on auction %d: %w", id, err)
	}

	item.Amount = item.AmountForSale(lastPrice, newBid.Price)
	e.obligations.Inc(newBid.Bidder)
	if lastBid != nil {
		e.obligations.Dec(lastBid.Bidder)
	}
	return now.Add(e.closeDuration(now, item.StartTime)), nil
}

// surplusBid handles bids on surplus auctions. The previous bidder gets their
// full native payment back from the new bidder; only the marginal raise is
// burned.
func (e *Engine) surplusBid(now time.Time, id uint64, newBid auctionhost.Bid, lastBid *auctionhost.Bid) (time.Time, error) {
	item := e.surpluses[id]

	if newBid.Price <= 0 {
		return time.Time{}, auction.ErrInvalidBidPrice
	}
	var lastPrice int64
	if lastBid != nil {
		lastPrice = lastBid.Price
	}
	if !e.checkIncrement(now, item.StartTime, newBid.Price, lastPrice, 0) {
		return time.Time{}, auction.ErrInvalidBidPrice
	}

	ts := now.UnixMicro()
	newAccount := ledger.NewUserAccountKey(newBid.Bidder, ledger.NativeCurrency)
	batch := ledger.NewBatch(fmt.Sprintf("bid:%d", id))
	if lastBid != nil && lastBid.Bidder != newBid.Bidder {
		batch.Add(ledger.EntryBidRefund,
			ledger.NewUserAccountKey(lastBid.Bidder, ledger.NativeCurrency), newAccount,
			ledger.NativeCurrency, lastPrice, ts)
	}
	batch.Add(ledger.EntryBurn,
		ledger.IssuanceAccountKey(ledger.NativeCurrency), newAccount,
		ledger.NativeCurrency, newBid.Price-lastPrice, ts)

	if err := e.ledger.ApplyBatch(batch); err != nil {
		return time.Time{}, fmt.Errorf("surplus bid on auction %d: %w", id, err)
	}

	e.obligations.Inc(newBid.Bidder)
	if lastBid != nil {
		e.obligations.Dec(lastBid.Bidder)
	}
	return now.Add(e.closeDuration(now, item.StartTime)), nil
}

func (e *Engine) countRejected(kind, reason string) {
	if e.metrics != nil {
		e.metrics.BidsRejected.WithLabelValues(kind, reason).Inc()
	}
}

func rejectionReason(err error) string {
	switch err {
	case auction.ErrInvalidBidPrice:
		return "invalid_price"
	case auction.ErrAuctionNotExists:
		return "not_exists"
	default:
		return "ledger"
	}
}
