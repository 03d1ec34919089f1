package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/otel/trace"

	deliveryhttp "github.com/osmosis-labs/sumtree-orderbook/delivery/http"
	"github.com/osmosis-labs/sumtree-orderbook/domain"
	"github.com/osmosis-labs/sumtree-orderbook/domain/mvc"
	"github.com/osmosis-labs/sumtree-orderbook/log"
	"github.com/osmosis-labs/sumtree-orderbook/orderbook/types"
)

// OrderbookHandler represents the http handler for the orderbook
type OrderbookHandler struct {
	OUsecase mvc.OrderbookUsecase
	logger   log.Logger
}

const resourcePrefix = "/orderbook"

func formatOrderbookResource(resource string) string {
	return resourcePrefix + resource
}

// NewOrderbookHandler will initialize the /orderbook resources endpoint
func NewOrderbookHandler(e *echo.Echo, us mvc.OrderbookUsecase, logger log.Logger) {
	handler := &OrderbookHandler{
		OUsecase: us,
		logger:   logger,
	}

	e.POST(formatOrderbookResource("/market"), handler.CreateMarket)
	e.POST(formatOrderbookResource("/place-limit"), handler.PlaceLimit)
	e.POST(formatOrderbookResource("/cancel-limit"), handler.CancelLimit)
	e.POST(formatOrderbookResource("/place-market"), handler.PlaceMarket)
	e.POST(formatOrderbookResource("/claim-limit"), handler.ClaimLimit)
	e.POST(formatOrderbookResource("/batch-claim"), handler.BatchClaim)
	e.POST(formatOrderbookResource("/active"), handler.SetActive)

	e.GET(formatOrderbookResource(""), handler.GetOrderbook)
	e.GET(formatOrderbookResource("/active"), handler.IsActive)
	e.GET(formatOrderbookResource("/spot-price"), handler.GetSpotPrice)
	e.GET(formatOrderbookResource("/out-given-in"), handler.CalcOutAmtGivenIn)
	e.GET(formatOrderbookResource("/liquidity"), handler.GetTotalPoolLiquidity)
	e.GET(formatOrderbookResource("/order"), handler.GetOrder)
	e.GET(formatOrderbookResource("/orders"), handler.GetOrdersByOwner)
	e.GET(formatOrderbookResource("/tick-orders"), handler.GetOrdersByTick)
	e.GET(formatOrderbookResource("/ticks"), handler.GetTicks)
	e.GET(formatOrderbookResource("/all-ticks"), handler.GetAllTicks)
	e.GET(formatOrderbookResource("/unrealized-cancels"), handler.GetUnrealizedCancels)
}

// respondError records the error on the active span and writes the
// error response with the status code mapped from the domain error.
func respondError(c echo.Context, err error) error {
	span := trace.SpanFromContext(c.Request().Context())
	span.RecordError(err)
	return c.JSON(domain.GetStatusCode(err), domain.ResponseError{Message: err.Error()})
}

func (a *OrderbookHandler) CreateMarket(c echo.Context) error {
	var req types.CreateMarketRequest
	if err := deliveryhttp.ParseRequest(c, &req); err != nil {
		return c.JSON(http.StatusBadRequest, domain.ResponseError{Message: err.Error()})
	}

	orderbook, err := a.OUsecase.CreateMarket(c.Request().Context(), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, orderbook)
}

func (a *OrderbookHandler) PlaceLimit(c echo.Context) error {
	var req types.PlaceLimitRequest
	if err := deliveryhttp.ParseRequest(c, &req); err != nil {
		return c.JSON(http.StatusBadRequest, domain.ResponseError{Message: err.Error()})
	}

	result, err := a.OUsecase.PlaceLimit(c.Request().Context(), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, result)
}

func (a *OrderbookHandler) CancelLimit(c echo.Context) error {
	var req types.CancelLimitRequest
	if err := deliveryhttp.ParseRequest(c, &req); err != nil {
		return c.JSON(http.StatusBadRequest, domain.ResponseError{Message: err.Error()})
	}

	result, err := a.OUsecase.CancelLimit(c.Request().Context(), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, result)
}

func (a *OrderbookHandler) PlaceMarket(c echo.Context) error {
	var req types.PlaceMarketRequest
	if err := deliveryhttp.ParseRequest(c, &req); err != nil {
		return c.JSON(http.StatusBadRequest, domain.ResponseError{Message: err.Error()})
	}

	result, err := a.OUsecase.PlaceMarket(c.Request().Context(), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, result)
}

func (a *OrderbookHandler) ClaimLimit(c echo.Context) error {
	var req types.ClaimLimitRequest
	if err := deliveryhttp.ParseRequest(c, &req); err != nil {
		return c.JSON(http.StatusBadRequest, domain.ResponseError{Message: err.Error()})
	}

	result, err := a.OUsecase.ClaimLimit(c.Request().Context(), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, result)
}

func (a *OrderbookHandler) BatchClaim(c echo.Context) error {
	var req types.BatchClaimRequest
	if err := deliveryhttp.ParseRequest(c, &req); err != nil {
		return c.JSON(http.StatusBadRequest, domain.ResponseError{Message: err.Error()})
	}

	result, err := a.OUsecase.BatchClaim(c.Request().Context(), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, result)
}

func (a *OrderbookHandler) SetActive(c echo.Context) error {
	var req types.SetActiveRequest
	if err := deliveryhttp.ParseRequest(c, &req); err != nil {
		return c.JSON(http.StatusBadRequest, domain.ResponseError{Message: err.Error()})
	}

	if err := a.OUsecase.SetActive(c.Request().Context(), req.Active); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, req)
}

func (a *OrderbookHandler) GetOrderbook(c echo.Context) error {
	orderbook, err := a.OUsecase.GetOrderbook()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, orderbook)
}

func (a *OrderbookHandler) IsActive(c echo.Context) error {
	active, err := a.OUsecase.IsActive()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, types.SetActiveRequest{Active: active})
}

func (a *OrderbookHandler) GetSpotPrice(c echo.Context) error {
	var req types.SpotPriceRequest
	if err := deliveryhttp.ParseRequest(c, &req); err != nil {
		return c.JSON(http.StatusBadRequest, domain.ResponseError{Message: err.Error()})
	}

	price, err := a.OUsecase.GetSpotPrice(req.QuoteAssetDenom, req.BaseAssetDenom)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"spot_price": price.String()})
}

func (a *OrderbookHandler) CalcOutAmtGivenIn(c echo.Context) error {
	var req types.OutGivenInRequest
	if err := deliveryhttp.ParseRequest(c, &req); err != nil {
		return c.JSON(http.StatusBadRequest, domain.ResponseError{Message: err.Error()})
	}

	tokenIn := domain.NewCoin(req.TokenInDenom, req.TokenInAmount)
	tokenOut, err := a.OUsecase.CalcOutAmtGivenIn(c.Request().Context(), tokenIn, req.TokenOutDenom)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]domain.Coin{"token_out": tokenOut})
}

func (a *OrderbookHandler) GetTotalPoolLiquidity(c echo.Context) error {
	liquidity, err := a.OUsecase.GetTotalPoolLiquidity(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, liquidity)
}

func (a *OrderbookHandler) GetOrder(c echo.Context) error {
	var req types.GetOrderRequest
	if err := deliveryhttp.ParseRequest(c, &req); err != nil {
		return c.JSON(http.StatusBadRequest, domain.ResponseError{Message: err.Error()})
	}

	order, err := a.OUsecase.GetOrder(req.TickID, req.OrderID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, order)
}

// GetOrdersByOwnerResponse carries one page of a user's orders plus the
// key to resume from.
type GetOrdersByOwnerResponse struct {
	Orders domain.Orders   `json:"orders"`
	Next   *types.OrderKey `json:"next,omitempty"`
}

func (a *OrderbookHandler) GetOrdersByOwner(c echo.Context) error {
	var req types.GetOrdersRequest
	if err := deliveryhttp.ParseRequest(c, &req); err != nil {
		return c.JSON(http.StatusBadRequest, domain.ResponseError{Message: err.Error()})
	}

	orders, next, err := a.OUsecase.GetOrdersByOwner(req.Owner, req.Start, req.Limit)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, GetOrdersByOwnerResponse{Orders: orders, Next: next})
}

func (a *OrderbookHandler) GetOrdersByTick(c echo.Context) error {
	var req types.GetTickOrdersRequest
	if err := deliveryhttp.ParseRequest(c, &req); err != nil {
		return c.JSON(http.StatusBadRequest, domain.ResponseError{Message: err.Error()})
	}

	orders, err := a.OUsecase.GetOrdersByTick(req.TickID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, orders)
}

func (a *OrderbookHandler) GetTicks(c echo.Context) error {
	var req types.GetTicksRequest
	if err := deliveryhttp.ParseRequest(c, &req); err != nil {
		return c.JSON(http.StatusBadRequest, domain.ResponseError{Message: err.Error()})
	}

	ticks, err := a.OUsecase.GetTicks(req.TickIDs)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, ticks)
}

func (a *OrderbookHandler) GetAllTicks(c echo.Context) error {
	var req types.GetAllTicksRequest
	if err := deliveryhttp.ParseRequest(c, &req); err != nil {
		return c.JSON(http.StatusBadRequest, domain.ResponseError{Message: err.Error()})
	}

	ticks, err := a.OUsecase.GetAllTicks(req.StartFrom, req.Limit)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, ticks)
}

func (a *OrderbookHandler) GetUnrealizedCancels(c echo.Context) error {
	var req types.GetTicksRequest
	if err := deliveryhttp.ParseRequest(c, &req); err != nil {
		return c.JSON(http.StatusBadRequest, domain.ResponseError{Message: err.Error()})
	}

	cancels, err := a.OUsecase.GetUnrealizedCancels(req.TickIDs)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, cancels)
}
