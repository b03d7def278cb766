package engine

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Setheum-Labs/Setheum-sub001/internal/auction"
	"github.com/Setheum-Labs/Setheum-sub001/internal/auctionhost"
	"github.com/Setheum-Labs/Setheum-sub001/internal/event"
	"github.com/Setheum-Labs/Setheum-sub001/internal/ledger"
	"github.com/Setheum-Labs/Setheum-sub001/internal/math"
)

// CancelAuction is the governance-forced removal path, used for protocol
// shutdown and by the stale-auction sweep. It never applies to a normal
// winner. The current bidder is made whole; reserve auctions additionally
// split their collateral between confiscation and refund at the oracle
// settle price.
func (e *Engine) CancelAuction(now time.Time, id uint64) error {
	kind, ok := e.AuctionKind(id)
	if !ok {
		return auction.ErrAuctionNotExists
	}

	info, ok := e.host.AuctionInfo(id)
	if !ok {
		return auction.ErrAuctionNotExists
	}

	var err error
	switch kind {
	case auction.KindReserve:
		err = e.cancelReserve(now, id, info.LastBid)
	case auction.KindMint:
		err = e.cancelMint(now, id, info.LastBid)
	case auction.KindSurplus:
		err = e.cancelSurplus(now, id, info.LastBid)
	}
	if err != nil {
		return err
	}

	e.host.RemoveAuction(id)
	e.emit(now, &event.AuctionCancelled{AuctionID: id, Kind: kind.String()})
	if e.metrics != nil {
		e.metrics.AuctionsCancelled.WithLabelValues(kind.String()).Inc()
	}
	e.log.Info().Uint64("auction_id", id).Str("kind", kind.String()).Msg("auction cancelled")
	return nil
}

// cancelReserve unwinds a collateral auction that has not met its target.
// The settle price (collateral per unit of standard) decides how much of the
// remaining collateral is forfeited to cover the bidder's refund; the rest
// goes back to the refund recipient.
func (e *Engine) cancelReserve(now time.Time, id uint64, lastBid *auctionhost.Bid) error {
	item := e.reserves[id]

	if lastBid != nil && item.InReverseStage(lastBid.Price) {
		return auction.ErrInReverseStage
	}

	settlePrice, ok := e.prices.GetRelativePrice(ledger.StandardCurrency, item.Currency)
	if !ok {
		return auction.ErrInvalidFeedPrice
	}

	var payment int64
	if lastBid != nil {
		payment = item.PaymentAmount(lastBid.Price)
	}

	confiscate := math.Min(
		settlePrice.Mul(decimal.NewFromInt(payment)).Floor().IntPart(),
		item.Amount,
	)
	refund := item.Amount - confiscate

	ts := now.UnixMicro()
	batch := ledger.NewBatch(fmt.Sprintf("cancel:%d", id))
	if refund > 0 {
		batch.Add(ledger.EntryCollateralRefund,
			ledger.NewUserAccountKey(item.RefundRecipient, item.Currency),
			e.treasury.ReserveAccount(item.Currency),
			item.Currency, refund, ts)
	}
	if lastBid != nil && payment > 0 {
		// The bidder's standard was collected into the surplus pool bid by
		// bid; minting it back keeps the pool's recovered value intact.
		batch.Add(ledger.EntryIssue,
			ledger.NewUserAccountKey(lastBid.Bidder, ledger.StandardCurrency),
			ledger.IssuanceAccountKey(ledger.StandardCurrency),
			ledger.StandardCurrency, payment, ts)
	}
	if err := e.ledger.ApplyBatch(batch); err != nil {
		return fmt.Errorf("cancel reserve auction %d: %w", id, err)
	}

	e.inventory.SubReserve(item.Currency, item.Amount)
	e.inventory.SubTarget(item.Target)
	e.obligations.Dec(item.RefundRecipient)
	if lastBid != nil {
		e.obligations.Dec(lastBid.Bidder)
	}
	delete(e.reserves, id)
	return nil
}

func (e *Engine) cancelMint(now time.Time, id uint64, lastBid *auctionhost.Bid) error {
	item := e.mints[id]

	if lastBid != nil {
		batch := ledger.NewBatch(fmt.Sprintf("cancel:%d", id))
		batch.Add(ledger.EntryIssue,
			ledger.NewUserAccountKey(lastBid.Bidder, ledger.StandardCurrency),
			ledger.IssuanceAccountKey(ledger.StandardCurrency),
			ledger.StandardCurrency, item.Fix, now.UnixMicro())
		if err := e.ledger.ApplyBatch(batch); err != nil {
			return fmt.Errorf("cancel mint auction %d: %w", id, err)
		}
		e.obligations.Dec(lastBid.Bidder)
	}

	e.inventory.SubStandard(item.Fix)
	delete(e.mints, id)
	return nil
}

func (e *Engine) cancelSurplus(now time.Time, id uint64, lastBid *auctionhost.Bid) error {
	item := e.surpluses[id]

	if lastBid != nil {
		// The bidder's native payment was burned; re-issue it.
		batch := ledger.NewBatch(fmt.Sprintf("cancel:%d", id))
		batch.Add(ledger.EntryIssue,
			ledger.NewUserAccountKey(lastBid.Bidder, ledger.NativeCurrency),
			ledger.IssuanceAccountKey(ledger.NativeCurrency),
			ledger.NativeCurrency, lastBid.Price, now.UnixMicro())
		if err := e.ledger.ApplyBatch(batch); err != nil {
			return fmt.Errorf("cancel surplus auction %d: %w", id, err)
		}
		e.obligations.Dec(lastBid.Bidder)
	}

	e.inventory.SubSurplus(item.Amount)
	delete(e.surpluses, id)
	return nil
}
