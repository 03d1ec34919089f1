package mvc

import (
	"context"

	"github.com/osmosis-labs/osmosis/osmomath"

	"github.com/osmosis-labs/sumtree-orderbook/domain"
	orderbooktypes "github.com/osmosis-labs/sumtree-orderbook/orderbook/types"
)

// OrderbookUsecase is the matching engine surface exposed to delivery
// layers.
type OrderbookUsecase interface {
	// CreateMarket initializes the single order book for the given
	// denom pair with an optional maker fee.
	CreateMarket(ctx context.Context, req orderbooktypes.CreateMarketRequest) (domain.Orderbook, error)

	// PlaceLimit places a resting limit order and returns it. If the
	// order crosses the opposite side it is partially or fully filled
	// as a market order first.
	PlaceLimit(ctx context.Context, req orderbooktypes.PlaceLimitRequest) (orderbooktypes.PlaceLimitResult, error)

	// CancelLimit cancels an unfilled limit order and refunds the
	// remaining quantity to the owner.
	CancelLimit(ctx context.Context, req orderbooktypes.CancelLimitRequest) (orderbooktypes.CancelLimitResult, error)

	// PlaceMarket runs a market order against resting liquidity.
	PlaceMarket(ctx context.Context, req orderbooktypes.PlaceMarketRequest) (orderbooktypes.PlaceMarketResult, error)

	// ClaimLimit pays out the filled portion of an order. Anyone may
	// trigger a claim. A claim bounty, if set, goes to the sender.
	ClaimLimit(ctx context.Context, req orderbooktypes.ClaimLimitRequest) (orderbooktypes.ClaimLimitResult, error)

	// BatchClaim claims up to MaxBatchClaim orders in one call,
	// skipping individual failures.
	BatchClaim(ctx context.Context, req orderbooktypes.BatchClaimRequest) (orderbooktypes.BatchClaimResult, error)

	// SetActive toggles whether mutating operations are accepted.
	SetActive(ctx context.Context, active bool) error

	// GetOrderbook returns the market state.
	GetOrderbook() (domain.Orderbook, error)

	// IsActive reports whether the book accepts mutating operations.
	IsActive() (bool, error)

	// GetSpotPrice quotes the marginal price of baseAssetDenom
	// denominated in quoteAssetDenom.
	GetSpotPrice(quoteAssetDenom, baseAssetDenom string) (osmomath.BigDec, error)

	// CalcOutAmtGivenIn estimates the output of a market order without
	// mutating state.
	CalcOutAmtGivenIn(ctx context.Context, tokenIn domain.Coin, tokenOutDenom string) (domain.Coin, error)

	// GetTotalPoolLiquidity returns resting liquidity per denom.
	GetTotalPoolLiquidity(ctx context.Context) ([]domain.Coin, error)

	// GetOrder returns a single limit order.
	GetOrder(tickID int64, orderID uint64) (domain.LimitOrder, error)

	// GetOrdersByOwner returns the owner's orders, paginated by the
	// (tick, order id) key of the last order of the previous page.
	GetOrdersByOwner(owner string, pageKey *orderbooktypes.OrderKey, limit uint64) (domain.Orders, *orderbooktypes.OrderKey, error)

	// GetOrdersByTick returns all orders resting on one tick.
	GetOrdersByTick(tickID int64) (domain.Orders, error)

	// GetTicks returns the states of the requested tick IDs.
	GetTicks(tickIDs []int64) ([]domain.Tick, error)

	// GetAllTicks returns tick states in ascending tick order,
	// paginated by the last tick of the previous page.
	GetAllTicks(startFrom *int64, limit uint64) ([]domain.Tick, error)

	// GetUnrealizedCancels returns, per requested tick, the portion of
	// the cancellation prefix sum not yet folded into ETAS.
	GetUnrealizedCancels(tickIDs []int64) ([]orderbooktypes.UnrealizedCancels, error)
}
