package orderbookusecase

import (
	"github.com/osmosis-labs/osmosis/osmomath"

	"github.com/osmosis-labs/sumtree-orderbook/domain"
	"github.com/osmosis-labs/sumtree-orderbook/orderbook/sumtree"
	"github.com/osmosis-labs/sumtree-orderbook/orderbook/telemetry"
	"github.com/osmosis-labs/sumtree-orderbook/orderbook/tickmath"
	"github.com/osmosis-labs/sumtree-orderbook/orderbook/types"
	"github.com/osmosis-labs/sumtree-orderbook/storage"
)

// runMarketOrder fills a market order against resting liquidity on the
// opposite side of the book, walking stored ticks from the nearest
// liquidity pointer up to tickBound. The order's quantity is reduced by
// the consumed input in place, so a partially filled order comes back
// in a valid state for resting on the book.
//
// The walk carries only O(1) overhead per visited tick: cancellations
// are not realized here, they are folded in lazily by syncTick when an
// order on the tick is next cancelled or claimed.
func (o *OrderbookUseCaseImpl) runMarketOrder(tx storage.Tx, orderbook *domain.Orderbook, order *domain.MarketOrder, tickBound int64) (osmomath.Int, error) {
	if tickBound > tickmath.MaxTick || tickBound < tickmath.MinTick {
		return osmomath.Int{}, tickmath.TickOutOfBoundsError{TickID: tickBound}
	}

	// An ask consumes bids downward from the best bid, a bid consumes
	// asks upward from the best ask. The bound must lie beyond the
	// starting pointer in the walk direction.
	switch order.OrderDirection {
	case domain.ASK:
		if tickBound > orderbook.NextBidTick {
			return osmomath.Int{}, types.InvalidBoundTickError{BoundTick: tickBound, Direction: order.OrderDirection}
		}
	case domain.BID:
		if tickBound < orderbook.NextAskTick {
			return osmomath.Int{}, types.InvalidBoundTickError{BoundTick: tickBound, Direction: order.OrderDirection}
		}
	}

	opposite := order.OrderDirection.Opposite()

	type tickUpdate struct {
		tickID int64
		state  domain.TickState
	}

	totalOutput := osmomath.ZeroInt()
	totalFilled := osmomath.ZeroBigDec()
	var updates []tickUpdate

	visit := func(tickID int64, state domain.TickState) (bool, error) {
		// Track the nearest remaining liquidity as ticks are consumed.
		switch opposite {
		case domain.ASK:
			orderbook.NextAskTick = tickID
		case domain.BID:
			orderbook.NextBidTick = tickID
		}
		orderbook.CurrentTick = tickID

		if order.Quantity.IsZero() {
			return false, nil
		}

		price, err := o.tickPrice(tickID)
		if err != nil {
			return false, err
		}

		values := state.Values(opposite)

		outputQuantity, err := tickmath.AmountToValue(order.OrderDirection, order.Quantity, price, tickmath.RoundDown)
		if err != nil {
			return false, err
		}

		// Fill the whole order if the tick has enough liquidity,
		// otherwise drain the tick.
		fill := osmomath.BigDecFromSDKInt(outputQuantity)
		if fill.GT(values.TotalAmountOfLiquidity) {
			fill = values.TotalAmountOfLiquidity
		}
		if fill.IsZero() {
			return true, nil
		}

		values.TotalAmountOfLiquidity = values.TotalAmountOfLiquidity.Sub(fill)
		values.EffectiveTotalAmountSwapped = values.EffectiveTotalAmountSwapped.Add(fill)

		fillAmount := fill.Dec().TruncateInt()

		inputFilled, err := tickmath.AmountToValue(opposite, fillAmount, price, tickmath.RoundUp)
		if err != nil {
			return false, err
		}
		order.Quantity = order.Quantity.Sub(inputFilled)

		updates = append(updates, tickUpdate{tickID: tickID, state: state})
		totalOutput = totalOutput.Add(fillAmount)
		totalFilled = totalFilled.Add(fill)
		return true, nil
	}

	var err error
	switch order.OrderDirection {
	case domain.ASK:
		err = o.repository.DescendTicks(tx, orderbook.NextBidTick, func(tickID int64, state domain.TickState) (bool, error) {
			if tickID < tickBound {
				return false, nil
			}
			return visit(tickID, state)
		})
	case domain.BID:
		err = o.repository.AscendTicks(tx, orderbook.NextAskTick, func(tickID int64, state domain.TickState) (bool, error) {
			if tickID > tickBound {
				return false, nil
			}
			return visit(tickID, state)
		})
	}
	if err != nil {
		return osmomath.Int{}, err
	}

	// Tick writes are buffered so the walk never mutates the range it
	// is iterating.
	for _, update := range updates {
		if err := o.repository.SaveTickState(tx, update.tickID, update.state); err != nil {
			return osmomath.Int{}, err
		}
	}

	if totalFilled.IsPositive() {
		if err := o.addDirectionalLiquidity(tx, opposite, totalFilled.Neg()); err != nil {
			return osmomath.Int{}, err
		}
	}

	return totalOutput, nil
}

// syncTick folds realized cancellations into the tick's ETAS so that
// fill accounting reflects liquidity that has left the tick. The target
// of the sync is the tick's own current ETAS per direction; directions
// already synced to that point are skipped.
func (o *OrderbookUseCaseImpl) syncTick(tx storage.Tx, tickID int64, state *domain.TickState) error {
	synced := false
	for _, direction := range []domain.OrderDirection{domain.BID, domain.ASK} {
		values := state.Values(direction)
		target := values.EffectiveTotalAmountSwapped
		if values.LastTickSyncEtas.GTE(target) {
			continue
		}

		tree := sumtree.New(o.repository.TreeStore(tx, tickID, direction))
		realized, err := tree.GetPrefixSum(target)
		if err != nil {
			return err
		}

		realizedSinceLastSync := realized.Sub(values.CumulativeRealizedCancels)

		values.EffectiveTotalAmountSwapped = values.EffectiveTotalAmountSwapped.Add(realizedSinceLastSync)
		values.CumulativeRealizedCancels = realized
		values.LastTickSyncEtas = target

		if values.EffectiveTotalAmountSwapped.GT(values.CumulativeTotalValue) {
			return types.InvalidTickSyncError{
				TickID:    tickID,
				Direction: direction,
				Etas:      values.EffectiveTotalAmountSwapped,
				Ctt:       values.CumulativeTotalValue,
			}
		}
		synced = true
	}

	if !synced {
		return nil
	}

	telemetry.TickSyncCounter.Inc()
	return o.repository.SaveTickState(tx, tickID, *state)
}

// tickPrice returns the price at a tick, memoized. Prices are pure
// functions of the tick index.
func (o *OrderbookUseCaseImpl) tickPrice(tickID int64) (osmomath.BigDec, error) {
	if price, ok := o.priceCache.Get(tickID); ok {
		return price, nil
	}

	price, err := tickmath.TickToPrice(tickID)
	if err != nil {
		return osmomath.BigDec{}, err
	}
	o.priceCache.Add(tickID, price)
	return price, nil
}
