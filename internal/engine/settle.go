package engine

import (
	"time"

	"github.com/Setheum-Labs/Setheum-sub001/internal/auction"
	"github.com/Setheum-Labs/Setheum-sub001/internal/auctionhost"
	"github.com/Setheum-Labs/Setheum-sub001/internal/event"
)

// OnAuctionEnded is the host expiry callback. Settlement failures on an
// already-concluded auction cannot abort it, so errors stop at the log here.
func (e *Engine) OnAuctionEnded(now time.Time, id uint64, winner *auctionhost.Bid) {
	if err := e.SettleAuction(now, id, winner); err != nil {
		e.log.Error().Err(err).Uint64("auction_id", id).Msg("settlement failed")
	}
}

// SettleAuction resolves a finished auction to its final distribution and
// removes the item. It runs exactly once per auction: a second call finds no
// item and fails with ErrAuctionNotExists, touching nothing.
func (e *Engine) SettleAuction(now time.Time, id uint64, winner *auctionhost.Bid) error {
	kind, ok := e.AuctionKind(id)
	if !ok {
		return auction.ErrAuctionNotExists
	}

	switch kind {
	case auction.KindReserve:
		e.settleReserve(now, id, winner)
	case auction.KindMint:
		e.settleMint(now, id, winner)
	case auction.KindSurplus:
		e.settleSurplus(now, id, winner)
	}
	return nil
}

// settleReserve settles a collateral auction. When the winning bid never
// reached the target and an instant swap of the remaining collateral would
// recover at least the bid, the market route is preferred over delivering
// collateral below the system's recovery need. Post-decision transfer
// failures are logged, never propagated: the auction has concluded and
// remediation is a governance action.
func (e *Engine) settleReserve(now time.Time, id uint64, winner *auctionhost.Bid) {
	item := e.reserves[id]

	if winner != nil {
		payment := item.PaymentAmount(winner.Price)
		route := "delivery"

		undershot := item.Target != 0 && winner.Price < item.Target
		if quote, ok := e.market.SwapTargetAmount(item.Currency, item.Amount); undershot && ok && quote >= winner.Price {
			received, err := e.market.SwapReserveToStandard(
				item.Currency, item.Amount, winner.Price,
				e.treasury.ReserveAccount(item.Currency), e.treasury.SurplusAccount())
			if err == nil {
				route = "market"
				if err := e.treasury.IssueStandard(winner.Bidder, winner.Price); err != nil {
					e.log.Error().Err(err).Uint64("auction_id", id).Msg("market route: winner refund failed")
				}
				if excess := received - item.Target; excess > 0 {
					if err := e.treasury.IssueStandard(item.RefundRecipient, excess); err != nil {
						e.log.Error().Err(err).Uint64("auction_id", id).Msg("market route: excess refund failed")
					}
				}
				e.emit(now, &event.MarketSettlement{
					AuctionID:      id,
					Winner:         winner.Bidder,
					Currency:       item.Currency,
					SupplyAmount:   item.Amount,
					TargetReceived: received,
				})
			} else {
				e.log.Warn().Err(err).Uint64("auction_id", id).Msg("market route unavailable, delivering collateral")
			}
		}

		if route == "delivery" {
			if err := e.treasury.WithdrawReserve(winner.Bidder, item.Currency, item.Amount); err != nil {
				e.log.Error().Err(err).Uint64("auction_id", id).Msg("collateral delivery failed")
			}
			e.emit(now, &event.ReserveAuctionDealt{
				AuctionID: id,
				Winner:    winner.Bidder,
				Currency:  item.Currency,
				Amount:    item.Amount,
				Payment:   payment,
			})
		}

		e.obligations.Dec(winner.Bidder)
		if e.metrics != nil {
			e.metrics.AuctionsDealt.WithLabelValues(auction.KindReserve.String(), route).Inc()
		}
	} else {
		e.emit(now, &event.AuctionCancelled{AuctionID: id, Kind: auction.KindReserve.String()})
		if e.metrics != nil {
			e.metrics.AuctionsCancelled.WithLabelValues(auction.KindReserve.String()).Inc()
		}
	}

	e.inventory.SubReserve(item.Currency, item.Amount)
	e.inventory.SubTarget(item.Target)
	e.obligations.Dec(item.RefundRecipient)
	delete(e.reserves, id)
}

func (e *Engine) settleMint(now time.Time, id uint64, winner *auctionhost.Bid) {
	item := e.mints[id]

	if winner != nil {
		if err := e.treasury.IssueNative(winner.Bidder, item.Amount); err != nil {
			e.log.Error().Err(err).Uint64("auction_id", id).Msg("native mint to winner failed")
		}
		e.emit(now, &event.MintAuctionDealt{
			AuctionID: id,
			Winner:    winner.Bidder,
			Amount:    item.Amount,
			Payment:   item.Fix,
		})
		e.obligations.Dec(winner.Bidder)
		if e.metrics != nil {
			e.metrics.AuctionsDealt.WithLabelValues(auction.KindMint.String(), "mint").Inc()
		}
	} else {
		e.emit(now, &event.AuctionCancelled{AuctionID: id, Kind: auction.KindMint.String()})
		if e.metrics != nil {
			e.metrics.AuctionsCancelled.WithLabelValues(auction.KindMint.String()).Inc()
		}
	}

	e.inventory.SubStandard(item.Fix)
	delete(e.mints, id)
}

func (e *Engine) settleSurplus(now time.Time, id uint64, winner *auctionhost.Bid) {
	item := e.surpluses[id]

	if winner != nil {
		if err := e.treasury.PayoutSurplus(winner.Bidder, item.Amount); err != nil {
			e.log.Error().Err(err).Uint64("auction_id", id).Msg("surplus payout failed")
		}
		e.emit(now, &event.SurplusAuctionDealt{
			AuctionID: id,
			Winner:    winner.Bidder,
			Amount:    item.Amount,
			Payment:   winner.Price,
		})
		e.obligations.Dec(winner.Bidder)
		if e.metrics != nil {
			e.metrics.AuctionsDealt.WithLabelValues(auction.KindSurplus.String(), "payout").Inc()
		}
	} else {
		e.emit(now, &event.AuctionCancelled{AuctionID: id, Kind: auction.KindSurplus.String()})
		if e.metrics != nil {
			e.metrics.AuctionsCancelled.WithLabelValues(auction.KindSurplus.String()).Inc()
		}
	}

	e.inventory.SubSurplus(item.Amount)
	delete(e.surpluses, id)
}
