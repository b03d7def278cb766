package engine

import (
	"time"

	"github.com/google/uuid"

	"github.com/Setheum-Labs/Setheum-sub001/internal/auction"
	"github.com/Setheum-Labs/Setheum-sub001/internal/event"
	"github.com/Setheum-Labs/Setheum-sub001/internal/ledger"
)

// NewReserveAuction opens a collateral liquidation auction. The collateral is
// expected to already sit in the treasury's reserve pool. The auction has no
// fixed end time; it closes only through bidding activity.
func (e *Engine) NewReserveAuction(
	now time.Time,
	refundRecipient uuid.UUID,
	currency ledger.CurrencyID,
	amount, target int64,
) (uint64, error) {
	if amount <= 0 || target < 0 {
		return 0, auction.ErrInvalidAmount
	}

	if err := e.inventory.AddReserve(currency, amount); err != nil {
		return 0, err
	}
	if err := e.inventory.AddTarget(target); err != nil {
		e.inventory.SubReserve(currency, amount)
		return 0, err
	}

	id := e.host.NewAuction(now, nil)
	e.reserves[id] = &auction.ReserveAuction{
		RefundRecipient: refundRecipient,
		Currency:        currency,
		InitialAmount:   amount,
		Amount:          amount,
		Target:          target,
		StartTime:       now,
	}
	e.obligations.Inc(refundRecipient)

	if e.metrics != nil {
		e.metrics.AuctionsCreated.WithLabelValues(auction.KindReserve.String()).Inc()
	}
	e.emit(now, &event.ReserveAuctionCreated{
		AuctionID:       id,
		RefundRecipient: refundRecipient,
		Currency:        currency,
		Amount:          amount,
		Target:          target,
	})

	e.log.Info().
		Uint64("auction_id", id).
		Str("kind", auction.KindReserve.String()).
		Int64("amount", amount).
		Int64("target", target).
		Msg("auction created")
	return id, nil
}

// NewMintAuction opens a native-token mint auction raising a fixed standard
// value. Unlike the other kinds it starts with a fixed end time, so an auction
// nobody bids on still expires.
func (e *Engine) NewMintAuction(now time.Time, initialAmount, fix int64) (uint64, error) {
	if initialAmount <= 0 || fix <= 0 {
		return 0, auction.ErrInvalidAmount
	}

	if err := e.inventory.AddStandard(fix); err != nil {
		return 0, err
	}

	end := now.Add(e.cfg.CloseDuration)
	id := e.host.NewAuction(now, &end)
	e.mints[id] = &auction.MintAuction{
		InitialAmount: initialAmount,
		Amount:        initialAmount,
		Fix:           fix,
		StartTime:     now,
	}

	if e.metrics != nil {
		e.metrics.AuctionsCreated.WithLabelValues(auction.KindMint.String()).Inc()
	}
	e.emit(now, &event.MintAuctionCreated{
		AuctionID:     id,
		InitialAmount: initialAmount,
		Fix:           fix,
	})

	e.log.Info().
		Uint64("auction_id", id).
		Str("kind", auction.KindMint.String()).
		Int64("initial_amount", initialAmount).
		Int64("fix", fix).
		Msg("auction created")
	return id, nil
}

// NewSurplusAuction opens a surplus auction selling a fixed standard value for
// native tokens.
func (e *Engine) NewSurplusAuction(now time.Time, amount int64) (uint64, error) {
	if amount <= 0 {
		return 0, auction.ErrInvalidAmount
	}

	if err := e.inventory.AddSurplus(amount); err != nil {
		return 0, err
	}

	id := e.host.NewAuction(now, nil)
	e.surpluses[id] = &auction.SurplusAuction{
		Amount:    amount,
		StartTime: now,
	}

	if e.metrics != nil {
		e.metrics.AuctionsCreated.WithLabelValues(auction.KindSurplus.String()).Inc()
	}
	e.emit(now, &event.SurplusAuctionCreated{
		AuctionID: id,
		Amount:    amount,
	})

	e.log.Info().
		Uint64("auction_id", id).
		Str("kind", auction.KindSurplus.String()).
		Int64("amount", amount).
		Msg("auction created")
	return id, nil
}
