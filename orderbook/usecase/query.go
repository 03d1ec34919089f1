package orderbookusecase

import (
	"context"

	"github.com/osmosis-labs/osmosis/osmomath"

	"github.com/osmosis-labs/sumtree-orderbook/domain"
	"github.com/osmosis-labs/sumtree-orderbook/orderbook/sumtree"
	"github.com/osmosis-labs/sumtree-orderbook/orderbook/tickmath"
	"github.com/osmosis-labs/sumtree-orderbook/orderbook/types"
)

// GetOrderbook implements mvc.OrderbookUsecase.
func (o *OrderbookUseCaseImpl) GetOrderbook() (domain.Orderbook, error) {
	return o.repository.GetOrderbook(o.store)
}

// IsActive implements mvc.OrderbookUsecase.
func (o *OrderbookUseCaseImpl) IsActive() (bool, error) {
	if _, err := o.repository.GetOrderbook(o.store); err != nil {
		return false, err
	}
	return o.repository.IsActive(o.store)
}

// GetSpotPrice implements mvc.OrderbookUsecase. The returned price is
// the marginal price of the base asset denominated in the quote asset,
// taken from the nearest tick with liquidity facing the implied swap.
func (o *OrderbookUseCaseImpl) GetSpotPrice(quoteAssetDenom, baseAssetDenom string) (osmomath.BigDec, error) {
	if quoteAssetDenom == baseAssetDenom {
		return osmomath.BigDec{}, domain.DuplicateDenomError{Denom: quoteAssetDenom}
	}

	orderbook, err := o.repository.GetOrderbook(o.store)
	if err != nil {
		return osmomath.BigDec{}, err
	}

	// Swapping the base asset for the quote asset determines which side
	// of the book quotes the price.
	direction, err := orderbook.DirectionFromPair(baseAssetDenom, quoteAssetDenom)
	if err != nil {
		return osmomath.BigDec{}, err
	}

	nextTick := orderbook.NextAskTick
	if direction == domain.ASK {
		nextTick = orderbook.NextBidTick
	}

	price, err := o.tickPrice(nextTick)
	if err != nil {
		return osmomath.BigDec{}, err
	}

	if direction == domain.ASK {
		return osmomath.OneBigDec().Quo(price), nil
	}
	return price, nil
}

// CalcOutAmtGivenIn implements mvc.OrderbookUsecase. The estimate runs
// a market order against the current book state inside a transaction
// that is never committed.
func (o *OrderbookUseCaseImpl) CalcOutAmtGivenIn(ctx context.Context, tokenIn domain.Coin, tokenOutDenom string) (domain.Coin, error) {
	tx := o.store.NewTx()
	defer discard(tx)

	orderbook, err := o.repository.GetOrderbook(tx)
	if err != nil {
		return domain.Coin{}, err
	}

	direction, err := orderbook.DirectionFromPair(tokenIn.Denom, tokenOutDenom)
	if err != nil {
		return domain.Coin{}, err
	}

	tickBound := tickmath.MaxTick
	if direction == domain.ASK {
		tickBound = tickmath.MinTick
	}

	order := domain.MarketOrder{
		Quantity:       tokenIn.Amount,
		OrderDirection: direction,
	}
	output, err := o.runMarketOrder(tx, &orderbook, &order, tickBound)
	if err != nil {
		return domain.Coin{}, err
	}
	if order.Quantity.IsPositive() {
		return domain.Coin{}, types.InsufficientLiquidityError{Remaining: order.Quantity}
	}

	return domain.NewCoin(tokenOutDenom, output), nil
}

// GetTotalPoolLiquidity implements mvc.OrderbookUsecase.
func (o *OrderbookUseCaseImpl) GetTotalPoolLiquidity(ctx context.Context) ([]domain.Coin, error) {
	orderbook, err := o.repository.GetOrderbook(o.store)
	if err != nil {
		return nil, err
	}

	coins := make([]domain.Coin, 0, 2)
	for _, direction := range []domain.OrderDirection{domain.BID, domain.ASK} {
		liquidity, err := o.repository.GetDirectionalLiquidity(o.store, direction)
		if err != nil {
			return nil, err
		}
		coins = append(coins, domain.NewCoin(orderbook.InDenom(direction), liquidity.Dec().TruncateInt()))
	}
	return coins, nil
}

// GetOrder implements mvc.OrderbookUsecase.
func (o *OrderbookUseCaseImpl) GetOrder(tickID int64, orderID uint64) (domain.LimitOrder, error) {
	return o.repository.GetOrder(o.store, tickID, orderID)
}

// GetOrdersByOwner implements mvc.OrderbookUsecase.
func (o *OrderbookUseCaseImpl) GetOrdersByOwner(owner string, pageKey *types.OrderKey, limit uint64) (domain.Orders, *types.OrderKey, error) {
	limit, err := clampPageSize(limit)
	if err != nil {
		return nil, nil, err
	}
	return o.repository.GetOrdersByOwner(o.store, owner, pageKey, int(limit))
}

// GetOrdersByTick implements mvc.OrderbookUsecase.
func (o *OrderbookUseCaseImpl) GetOrdersByTick(tickID int64) (domain.Orders, error) {
	return o.repository.GetOrdersByTick(o.store, tickID)
}

// GetTicks implements mvc.OrderbookUsecase. Ticks that have never been
// written are omitted from the result.
func (o *OrderbookUseCaseImpl) GetTicks(tickIDs []int64) ([]domain.Tick, error) {
	ticks := make([]domain.Tick, 0, len(tickIDs))
	for _, tickID := range tickIDs {
		state, found, err := o.repository.GetTickState(o.store, tickID)
		if err != nil {
			return nil, err
		}
		if !found {
			continue
		}
		ticks = append(ticks, domain.Tick{TickID: tickID, TickState: state})
	}
	return ticks, nil
}

// GetAllTicks implements mvc.OrderbookUsecase.
func (o *OrderbookUseCaseImpl) GetAllTicks(startFrom *int64, limit uint64) ([]domain.Tick, error) {
	limit, err := clampPageSize(limit)
	if err != nil {
		return nil, err
	}

	start := tickmath.MinTick
	if startFrom != nil {
		start = *startFrom
	}

	var ticks []domain.Tick
	err = o.repository.AscendTicks(o.store, start, func(tickID int64, state domain.TickState) (bool, error) {
		ticks = append(ticks, domain.Tick{TickID: tickID, TickState: state})
		return uint64(len(ticks)) < limit, nil
	})
	if err != nil {
		return nil, err
	}
	return ticks, nil
}

// GetUnrealizedCancels implements mvc.OrderbookUsecase. For each tick,
// the unrealized amount is the cancellation prefix sum at the current
// ETAS minus the portion already folded in by past syncs.
func (o *OrderbookUseCaseImpl) GetUnrealizedCancels(tickIDs []int64) ([]types.UnrealizedCancels, error) {
	tx := o.store.NewTx()
	defer discard(tx)

	cancels := make([]types.UnrealizedCancels, 0, len(tickIDs))
	for _, tickID := range tickIDs {
		state, _, err := o.repository.GetTickState(tx, tickID)
		if err != nil {
			return nil, err
		}

		entry := types.UnrealizedCancels{TickID: tickID}
		for _, direction := range []domain.OrderDirection{domain.BID, domain.ASK} {
			values := state.Values(direction)
			tree := sumtree.New(o.repository.TreeStore(tx, tickID, direction))
			realized, err := tree.GetPrefixSum(values.EffectiveTotalAmountSwapped)
			if err != nil {
				return nil, err
			}
			unrealized := realized.Sub(values.CumulativeRealizedCancels)
			if direction == domain.BID {
				entry.BidUnrealizedCancels = unrealized
			} else {
				entry.AskUnrealizedCancels = unrealized
			}
		}
		cancels = append(cancels, entry)
	}
	return cancels, nil
}

// clampPageSize applies the default page size and rejects requests
// beyond the maximum.
func clampPageSize(limit uint64) (uint64, error) {
	if limit == 0 {
		return types.DefaultPageSize, nil
	}
	if limit > types.MaxPageSize {
		return 0, types.InvalidPageSizeError{Requested: limit}
	}
	return limit, nil
}
