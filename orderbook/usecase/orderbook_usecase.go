package orderbookusecase

import (
	"context"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/osmosis-labs/osmosis/osmomath"
	"go.uber.org/zap"

	"github.com/osmosis-labs/sumtree-orderbook/domain"
	"github.com/osmosis-labs/sumtree-orderbook/domain/mvc"
	"github.com/osmosis-labs/sumtree-orderbook/log"
	orderbookrepository "github.com/osmosis-labs/sumtree-orderbook/orderbook/repository"
	"github.com/osmosis-labs/sumtree-orderbook/orderbook/sumtree"
	"github.com/osmosis-labs/sumtree-orderbook/orderbook/telemetry"
	"github.com/osmosis-labs/sumtree-orderbook/orderbook/tickmath"
	"github.com/osmosis-labs/sumtree-orderbook/orderbook/types"
	"github.com/osmosis-labs/sumtree-orderbook/storage"
)

// OrderbookUseCaseImpl is the matching engine. Every mutating operation
// runs inside a single storage transaction and is serialized behind a
// mutex, so a failed operation leaves no partial state and concurrent
// callers observe operations in a total order. Queries read the last
// committed state directly.
type OrderbookUseCaseImpl struct {
	store      storage.KVStore
	repository *orderbookrepository.Repository
	sink       domain.PaymentSink
	priceCache *lru.Cache[int64, osmomath.BigDec]
	logger     log.Logger

	writeMx sync.Mutex
}

var _ mvc.OrderbookUsecase = &OrderbookUseCaseImpl{}

// Number of tick prices kept in the LRU cache. Tick prices are
// deterministic, so cached entries never go stale.
const priceCacheSize = 4096

// New creates a new orderbook use case.
func New(
	store storage.KVStore,
	repository *orderbookrepository.Repository,
	sink domain.PaymentSink,
	logger log.Logger,
) (*OrderbookUseCaseImpl, error) {
	priceCache, err := lru.New[int64, osmomath.BigDec](priceCacheSize)
	if err != nil {
		return nil, err
	}

	return &OrderbookUseCaseImpl{
		store:      store,
		repository: repository,
		sink:       sink,
		priceCache: priceCache,
		logger:     logger,
	}, nil
}

// CreateMarket implements mvc.OrderbookUsecase.
func (o *OrderbookUseCaseImpl) CreateMarket(ctx context.Context, req types.CreateMarketRequest) (domain.Orderbook, error) {
	o.writeMx.Lock()
	defer o.writeMx.Unlock()

	tx := o.store.NewTx()
	defer discard(tx)

	exists, err := o.repository.HasOrderbook(tx)
	if err != nil {
		return domain.Orderbook{}, err
	}
	if exists {
		return domain.Orderbook{}, types.OrderbookAlreadyExistsError{}
	}

	orderbook := domain.NewOrderbook(req.QuoteDenom, req.BaseDenom, tickmath.MinTick, tickmath.MaxTick)
	if err := o.repository.SaveOrderbook(tx, orderbook); err != nil {
		return domain.Orderbook{}, err
	}

	if req.MakerFee != nil {
		if err := o.repository.SetMakerFee(tx, *req.MakerFee); err != nil {
			return domain.Orderbook{}, err
		}
		if err := o.repository.SetMakerFeeRecipient(tx, req.MakerFeeRecipient); err != nil {
			return domain.Orderbook{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return domain.Orderbook{}, err
	}

	o.logger.Info("market created", zap.String("quote_denom", req.QuoteDenom), zap.String("base_denom", req.BaseDenom))

	return orderbook, nil
}

// PlaceLimit implements mvc.OrderbookUsecase.
func (o *OrderbookUseCaseImpl) PlaceLimit(ctx context.Context, req types.PlaceLimitRequest) (types.PlaceLimitResult, error) {
	o.writeMx.Lock()
	defer o.writeMx.Unlock()

	tx := o.store.NewTx()
	defer discard(tx)

	orderbook, err := o.activeOrderbook(tx)
	if err != nil {
		return types.PlaceLimitResult{}, err
	}

	if err := validateFunds(req.Funds, orderbook.InDenom(req.OrderDirection), req.Quantity); err != nil {
		return types.PlaceLimitResult{}, err
	}

	orderID, err := o.repository.NextOrderID(tx)
	if err != nil {
		return types.PlaceLimitResult{}, err
	}

	// Advance the nearest-liquidity pointer toward the new order before
	// deciding whether it crosses the opposite side.
	switch req.OrderDirection {
	case domain.BID:
		if req.TickID > orderbook.NextBidTick {
			orderbook.NextBidTick = req.TickID
		}
	case domain.ASK:
		if req.TickID < orderbook.NextAskTick {
			orderbook.NextAskTick = req.TickID
		}
	}

	tickState, _, err := o.repository.GetTickState(tx, req.TickID)
	if err != nil {
		return types.PlaceLimitResult{}, err
	}

	order := domain.LimitOrder{
		TickID:         req.TickID,
		OrderID:        orderID,
		OrderDirection: req.OrderDirection,
		Owner:          req.Owner,
		Quantity:       req.Quantity,
		PlacedQuantity: req.Quantity,
		// The order queues behind all liquidity ever placed on this
		// side of the tick.
		Etas:        tickState.Values(req.OrderDirection).CumulativeTotalValue,
		ClaimBounty: req.ClaimBounty,
		PlacedAt:    time.Now().UnixNano(),
	}

	shouldFill := false
	switch req.OrderDirection {
	case domain.ASK:
		shouldFill = req.TickID <= orderbook.NextBidTick
	case domain.BID:
		shouldFill = req.TickID >= orderbook.NextAskTick
	}

	var payments []domain.Payment
	if shouldFill {
		marketOrder := domain.MarketOrder{
			Quantity:       order.Quantity,
			OrderDirection: order.OrderDirection,
			Owner:          order.Owner,
		}
		tickBound := tickmath.MaxTick
		if req.OrderDirection == domain.ASK {
			tickBound = tickmath.MinTick
		}

		output, err := o.runMarketOrder(tx, &orderbook, &marketOrder, tickBound)
		if err != nil {
			telemetry.PlaceLimitErrorCounter.Inc()
			return types.PlaceLimitResult{}, err
		}
		order.Quantity = marketOrder.Quantity

		if output.IsPositive() {
			payments = append(payments, domain.Payment{
				Recipient: order.Owner,
				Coin:      domain.NewCoin(orderbook.OutDenom(order.OrderDirection), output),
				Reason:    domain.PaymentReasonMarketOut,
				OrderID:   orderID,
			})
		}

		// The walk may have touched the opposite side of this tick.
		tickState, _, err = o.repository.GetTickState(tx, req.TickID)
		if err != nil {
			return types.PlaceLimitResult{}, err
		}
	}

	quantityFilled := req.Quantity.Sub(order.Quantity)

	tickValues := tickState.Values(req.OrderDirection)
	if order.Quantity.IsPositive() {
		if err := o.repository.SaveOrder(tx, order); err != nil {
			return types.PlaceLimitResult{}, err
		}

		remainder := osmomath.BigDecFromSDKInt(order.Quantity)
		tickValues.TotalAmountOfLiquidity = tickValues.TotalAmountOfLiquidity.Add(remainder)
		if err := o.addDirectionalLiquidity(tx, req.OrderDirection, remainder); err != nil {
			return types.PlaceLimitResult{}, err
		}
	}
	tickValues.CumulativeTotalValue = tickValues.CumulativeTotalValue.Add(osmomath.BigDecFromSDKInt(req.Quantity))

	if err := o.repository.SaveTickState(tx, req.TickID, tickState); err != nil {
		return types.PlaceLimitResult{}, err
	}

	if err := o.repository.SaveOrderbook(tx, orderbook); err != nil {
		return types.PlaceLimitResult{}, err
	}

	if err := tx.Commit(); err != nil {
		telemetry.PlaceLimitErrorCounter.Inc()
		return types.PlaceLimitResult{}, err
	}

	o.emitPayments(ctx, payments)

	o.logger.Debug("limit order placed",
		zap.Int64("tick_id", order.TickID),
		zap.Uint64("order_id", order.OrderID),
		zap.String("direction", string(order.OrderDirection)),
		zap.String("quantity", req.Quantity.String()),
		zap.String("quantity_filled", quantityFilled.String()),
	)

	return types.PlaceLimitResult{
		Order:          order,
		QuantityFilled: quantityFilled,
		Payments:       payments,
	}, nil
}

// CancelLimit implements mvc.OrderbookUsecase.
func (o *OrderbookUseCaseImpl) CancelLimit(ctx context.Context, req types.CancelLimitRequest) (types.CancelLimitResult, error) {
	o.writeMx.Lock()
	defer o.writeMx.Unlock()

	tx := o.store.NewTx()
	defer discard(tx)

	orderbook, err := o.activeOrderbook(tx)
	if err != nil {
		return types.CancelLimitResult{}, err
	}

	order, err := o.repository.GetOrder(tx, req.TickID, req.OrderID)
	if err != nil {
		return types.CancelLimitResult{}, err
	}
	if order.Owner != req.Sender {
		return types.CancelLimitResult{}, types.UnauthorizedError{Owner: order.Owner, Sender: req.Sender}
	}

	tickState, _, err := o.repository.GetTickState(tx, req.TickID)
	if err != nil {
		return types.CancelLimitResult{}, err
	}
	if err := o.syncTick(tx, req.TickID, &tickState); err != nil {
		telemetry.CancelLimitErrorCounter.Inc()
		return types.CancelLimitResult{}, o.checkFatal("cancel_limit", err)
	}

	// An order whose watermark has been passed is (partially) filled
	// and must be claimed instead.
	tickValues := tickState.Values(order.OrderDirection)
	if tickValues.EffectiveTotalAmountSwapped.GT(order.Etas) {
		return types.CancelLimitResult{}, types.CancelFilledOrderError{TickID: req.TickID, OrderID: req.OrderID}
	}

	quantity := osmomath.BigDecFromSDKInt(order.Quantity)

	tree := sumtree.New(o.repository.TreeStore(tx, req.TickID, order.OrderDirection))
	if err := tree.Insert(order.Etas, quantity); err != nil {
		return types.CancelLimitResult{}, err
	}

	tickValues.TotalAmountOfLiquidity = tickValues.TotalAmountOfLiquidity.Sub(quantity)
	if err := o.repository.SaveTickState(tx, req.TickID, tickState); err != nil {
		return types.CancelLimitResult{}, err
	}
	if err := o.addDirectionalLiquidity(tx, order.OrderDirection, quantity.Neg()); err != nil {
		return types.CancelLimitResult{}, err
	}

	if err := o.repository.RemoveOrder(tx, order); err != nil {
		return types.CancelLimitResult{}, err
	}

	payments := []domain.Payment{{
		Recipient: order.Owner,
		Coin:      domain.NewCoin(orderbook.InDenom(order.OrderDirection), order.Quantity),
		Reason:    domain.PaymentReasonRefund,
		OrderID:   order.OrderID,
	}}

	if err := tx.Commit(); err != nil {
		telemetry.CancelLimitErrorCounter.Inc()
		return types.CancelLimitResult{}, err
	}

	o.emitPayments(ctx, payments)

	o.logger.Debug("limit order cancelled",
		zap.Int64("tick_id", order.TickID),
		zap.Uint64("order_id", order.OrderID),
		zap.String("refund", order.Quantity.String()),
	)

	return types.CancelLimitResult{Order: order, Payments: payments}, nil
}

// PlaceMarket implements mvc.OrderbookUsecase.
func (o *OrderbookUseCaseImpl) PlaceMarket(ctx context.Context, req types.PlaceMarketRequest) (types.PlaceMarketResult, error) {
	o.writeMx.Lock()
	defer o.writeMx.Unlock()

	tx := o.store.NewTx()
	defer discard(tx)

	orderbook, err := o.activeOrderbook(tx)
	if err != nil {
		return types.PlaceMarketResult{}, err
	}

	inDenom := orderbook.InDenom(req.OrderDirection)
	if err := validateFunds(req.Funds, inDenom, req.Quantity); err != nil {
		return types.PlaceMarketResult{}, err
	}

	order := domain.MarketOrder{
		Quantity:       req.Quantity,
		OrderDirection: req.OrderDirection,
		Owner:          req.Owner,
	}
	tickBound := tickmath.MaxTick
	if req.OrderDirection == domain.ASK {
		tickBound = tickmath.MinTick
	}

	output, err := o.runMarketOrder(tx, &orderbook, &order, tickBound)
	if err != nil {
		telemetry.PlaceMarketErrorCounter.Inc()
		return types.PlaceMarketResult{}, err
	}

	// Market orders on the external surface must fill entirely. A
	// partial fill would strand the remaining input.
	if order.Quantity.IsPositive() {
		return types.PlaceMarketResult{}, types.InsufficientLiquidityError{Remaining: order.Quantity}
	}

	if err := o.repository.SaveOrderbook(tx, orderbook); err != nil {
		return types.PlaceMarketResult{}, err
	}

	outDenom := orderbook.OutDenom(req.OrderDirection)
	payments := []domain.Payment{{
		Recipient: req.Owner,
		Coin:      domain.NewCoin(outDenom, output),
		Reason:    domain.PaymentReasonMarketOut,
	}}

	if err := tx.Commit(); err != nil {
		telemetry.PlaceMarketErrorCounter.Inc()
		return types.PlaceMarketResult{}, err
	}

	o.emitPayments(ctx, payments)

	o.logger.Debug("market order filled",
		zap.String("direction", string(req.OrderDirection)),
		zap.String("token_in", req.Quantity.String()+inDenom),
		zap.String("token_out", output.String()+outDenom),
	)

	return types.PlaceMarketResult{
		TokenIn:  domain.NewCoin(inDenom, req.Quantity),
		TokenOut: domain.NewCoin(outDenom, output),
		Payments: payments,
	}, nil
}

// ClaimLimit implements mvc.OrderbookUsecase.
func (o *OrderbookUseCaseImpl) ClaimLimit(ctx context.Context, req types.ClaimLimitRequest) (types.ClaimLimitResult, error) {
	o.writeMx.Lock()
	defer o.writeMx.Unlock()

	result, err := o.claimLimit(req)
	if err != nil {
		telemetry.ClaimLimitErrorCounter.Inc()
		return types.ClaimLimitResult{}, o.checkFatal("claim_limit", err)
	}

	o.emitPayments(ctx, result.Payments)

	return result, nil
}

// BatchClaim implements mvc.OrderbookUsecase.
func (o *OrderbookUseCaseImpl) BatchClaim(ctx context.Context, req types.BatchClaimRequest) (types.BatchClaimResult, error) {
	o.writeMx.Lock()
	defer o.writeMx.Unlock()

	var result types.BatchClaimResult
	for _, key := range req.Orders {
		claim, err := o.claimLimit(types.ClaimLimitRequest{
			Sender:  req.Sender,
			TickID:  key.TickID,
			OrderID: key.OrderID,
		})
		if err != nil {
			// Accounting breaches abort the whole batch, they are
			// never an individual order's problem.
			if domain.IsFatalError(err) {
				return types.BatchClaimResult{}, o.checkFatal("batch_claim", err)
			}

			telemetry.BatchClaimSkippedCounter.Inc()
			o.logger.Debug("batch claim order skipped",
				zap.Int64("tick_id", key.TickID),
				zap.Uint64("order_id", key.OrderID),
				zap.Error(err),
			)
			result.Skipped = append(result.Skipped, types.BatchClaimFailure{Order: key, Error: err.Error()})
			continue
		}

		o.emitPayments(ctx, claim.Payments)
		result.Claimed = append(result.Claimed, claim)
	}

	return result, nil
}

// claimLimit runs one claim in its own transaction. Callers hold the
// write mutex.
func (o *OrderbookUseCaseImpl) claimLimit(req types.ClaimLimitRequest) (types.ClaimLimitResult, error) {
	tx := o.store.NewTx()
	defer discard(tx)

	orderbook, err := o.activeOrderbook(tx)
	if err != nil {
		return types.ClaimLimitResult{}, err
	}

	order, err := o.repository.GetOrder(tx, req.TickID, req.OrderID)
	if err != nil {
		return types.ClaimLimitResult{}, err
	}

	tickState, _, err := o.repository.GetTickState(tx, req.TickID)
	if err != nil {
		return types.ClaimLimitResult{}, err
	}
	if err := o.syncTick(tx, req.TickID, &tickState); err != nil {
		return types.ClaimLimitResult{}, err
	}

	// The filled portion is how far the tick's ETAS has advanced past
	// the order's watermark, capped by what the order still holds.
	tickValues := tickState.Values(order.OrderDirection)
	filledDec := tickValues.EffectiveTotalAmountSwapped.Sub(order.Etas)
	if filledDec.GT(osmomath.BigDecFromSDKInt(order.Quantity)) {
		filledDec = osmomath.BigDecFromSDKInt(order.Quantity)
	}

	var filled osmomath.Int
	if filledDec.IsPositive() {
		filled = filledDec.Dec().TruncateInt()
	} else {
		filled = osmomath.ZeroInt()
	}
	if filled.IsZero() {
		return types.ClaimLimitResult{}, types.ZeroClaimError{TickID: req.TickID, OrderID: req.OrderID}
	}

	order.Quantity = order.Quantity.Sub(filled)
	order.Etas = order.Etas.Add(osmomath.BigDecFromSDKInt(filled))

	price, err := o.tickPrice(req.TickID)
	if err != nil {
		return types.ClaimLimitResult{}, err
	}
	payout, err := tickmath.AmountToValue(order.OrderDirection, filled, price, tickmath.RoundDown)
	if err != nil {
		return types.ClaimLimitResult{}, err
	}

	makerFee, err := o.repository.GetMakerFee(tx)
	if err != nil {
		return types.ClaimLimitResult{}, err
	}
	feeRecipient, err := o.repository.GetMakerFeeRecipient(tx)
	if err != nil {
		return types.ClaimLimitResult{}, err
	}

	fee := osmomath.ZeroInt()
	if makerFee.IsPositive() && feeRecipient != "" {
		fee = makerFee.MulInt(payout).TruncateInt()
	}

	bounty := osmomath.ZeroInt()
	if order.ClaimBounty != nil && order.ClaimBounty.IsPositive() {
		bounty = order.ClaimBounty.MulInt(payout.Sub(fee)).TruncateInt()
	}

	claimed := payout.Sub(fee).Sub(bounty)

	outDenom := orderbook.OutDenom(order.OrderDirection)
	var payments []domain.Payment
	if claimed.IsPositive() {
		payments = append(payments, domain.Payment{
			Recipient: order.Owner,
			Coin:      domain.NewCoin(outDenom, claimed),
			Reason:    domain.PaymentReasonClaim,
			OrderID:   order.OrderID,
		})
	}
	if bounty.IsPositive() {
		payments = append(payments, domain.Payment{
			Recipient: req.Sender,
			Coin:      domain.NewCoin(outDenom, bounty),
			Reason:    domain.PaymentReasonBounty,
			OrderID:   order.OrderID,
		})
	}
	if fee.IsPositive() {
		payments = append(payments, domain.Payment{
			Recipient: feeRecipient,
			Coin:      domain.NewCoin(outDenom, fee),
			Reason:    domain.PaymentReasonMakerFee,
			OrderID:   order.OrderID,
		})
	}

	if order.Quantity.IsZero() {
		if err := o.repository.RemoveOrder(tx, order); err != nil {
			return types.ClaimLimitResult{}, err
		}
	} else {
		if err := o.repository.SaveOrder(tx, order); err != nil {
			return types.ClaimLimitResult{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return types.ClaimLimitResult{}, err
	}

	o.logger.Debug("limit order claimed",
		zap.Int64("tick_id", order.TickID),
		zap.Uint64("order_id", order.OrderID),
		zap.String("claimed", claimed.String()),
		zap.String("bounty", bounty.String()),
		zap.String("maker_fee", fee.String()),
	)

	return types.ClaimLimitResult{
		Order:    order,
		Claimed:  claimed,
		Bounty:   bounty,
		MakerFee: fee,
		Payments: payments,
	}, nil
}

// SetActive implements mvc.OrderbookUsecase.
func (o *OrderbookUseCaseImpl) SetActive(ctx context.Context, active bool) error {
	o.writeMx.Lock()
	defer o.writeMx.Unlock()

	tx := o.store.NewTx()
	defer discard(tx)

	if _, err := o.repository.GetOrderbook(tx); err != nil {
		return err
	}
	if err := o.repository.SetActive(tx, active); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}

	o.logger.Info("orderbook activity changed", zap.Bool("active", active))
	return nil
}

// activeOrderbook loads the orderbook and rejects the operation if the
// book is inactive.
func (o *OrderbookUseCaseImpl) activeOrderbook(tx storage.Tx) (domain.Orderbook, error) {
	orderbook, err := o.repository.GetOrderbook(tx)
	if err != nil {
		return domain.Orderbook{}, err
	}

	active, err := o.repository.IsActive(tx)
	if err != nil {
		return domain.Orderbook{}, err
	}
	if !active {
		return domain.Orderbook{}, domain.OrderbookInactiveError{}
	}
	return orderbook, nil
}

// addDirectionalLiquidity adjusts the book-wide liquidity total for one
// direction by the given delta.
func (o *OrderbookUseCaseImpl) addDirectionalLiquidity(tx storage.Tx, direction domain.OrderDirection, delta osmomath.BigDec) error {
	liquidity, err := o.repository.GetDirectionalLiquidity(tx, direction)
	if err != nil {
		return err
	}
	return o.repository.SetDirectionalLiquidity(tx, direction, liquidity.Add(delta))
}

// validateFunds ensures the escrowed funds are exactly the order
// quantity in the expected denom.
func validateFunds(funds []domain.Coin, denom string, quantity osmomath.Int) error {
	sent := osmomath.ZeroInt()
	for _, coin := range funds {
		if coin.Denom == denom {
			sent = sent.Add(coin.Amount)
		}
	}
	if len(funds) != 1 || !sent.Equal(quantity) {
		return types.InsufficientFundsError{Denom: denom, Required: quantity, Sent: sent}
	}
	return nil
}

// emitPayments forwards payment instructions of a committed operation
// to the sink. Emission failures are surfaced through logs and metrics
// only: the state transition has already been committed.
func (o *OrderbookUseCaseImpl) emitPayments(ctx context.Context, payments []domain.Payment) {
	for _, payment := range payments {
		if err := o.sink.Send(ctx, payment); err != nil {
			telemetry.PaymentEmitErrorCounter.Inc()
			o.logger.Error("failed to emit payment",
				zap.String("recipient", payment.Recipient),
				zap.String("reason", string(payment.Reason)),
				zap.Error(err),
			)
		}
	}
}

// checkFatal logs fatal accounting errors. They indicate corrupted
// book state and need operator attention, not a request retry.
func (o *OrderbookUseCaseImpl) checkFatal(op string, err error) error {
	if domain.IsFatalError(err) {
		o.logger.Error("fatal orderbook accounting error",
			zap.String("op", op),
			zap.Error(err),
		)
	}
	return err
}

func discard(tx storage.Tx) {
	_ = tx.Discard()
}
