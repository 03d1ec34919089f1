package types

import (
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/osmosis-labs/osmosis/osmomath"

	"github.com/osmosis-labs/sumtree-orderbook/domain"
	"github.com/osmosis-labs/sumtree-orderbook/orderbook/tickmath"
)

// CreateMarketRequest initializes the order book for a denom pair.
type CreateMarketRequest struct {
	QuoteDenom        string        `json:"quote_denom"`
	BaseDenom         string        `json:"base_denom"`
	MakerFee          *osmomath.Dec `json:"maker_fee,omitempty"`
	MakerFeeRecipient string        `json:"maker_fee_recipient,omitempty"`
}

// UnmarshalHTTPRequest unmarshals the HTTP request to CreateMarketRequest.
func (r *CreateMarketRequest) UnmarshalHTTPRequest(c echo.Context) error {
	return c.Bind(r)
}

// Validate validates the CreateMarketRequest.
func (r *CreateMarketRequest) Validate() error {
	if r.QuoteDenom == "" || r.BaseDenom == "" {
		return domain.ErrBadParamInput
	}
	if r.QuoteDenom == r.BaseDenom {
		return domain.DuplicateDenomError{Denom: r.QuoteDenom}
	}
	if r.MakerFee != nil {
		if r.MakerFee.IsNegative() || r.MakerFee.GT(MaxMakerFee) {
			return InvalidMakerFeeError{Fee: *r.MakerFee}
		}
		if r.MakerFee.IsPositive() && r.MakerFeeRecipient == "" {
			return domain.ErrBadParamInput
		}
	}
	return nil
}

// PlaceLimitRequest places a resting limit order.
type PlaceLimitRequest struct {
	Owner          string                `json:"owner"`
	TickID         int64                 `json:"tick_id"`
	OrderDirection domain.OrderDirection `json:"order_direction"`
	Quantity       osmomath.Int          `json:"quantity"`
	ClaimBounty    *osmomath.Dec         `json:"claim_bounty,omitempty"`
	// Funds is the coin escrowed with the order. It must exactly cover
	// the quantity in the direction's input denom.
	Funds []domain.Coin `json:"funds"`
}

// UnmarshalHTTPRequest unmarshals the HTTP request to PlaceLimitRequest.
func (r *PlaceLimitRequest) UnmarshalHTTPRequest(c echo.Context) error {
	return c.Bind(r)
}

// Validate validates the PlaceLimitRequest.
func (r *PlaceLimitRequest) Validate() error {
	if r.Owner == "" {
		return domain.ErrBadParamInput
	}
	if err := r.OrderDirection.Validate(); err != nil {
		return err
	}
	if r.TickID < tickmath.MinTick || r.TickID > tickmath.MaxTick {
		return tickmath.TickOutOfBoundsError{TickID: r.TickID}
	}
	if r.Quantity.IsNil() || !r.Quantity.IsPositive() {
		return InvalidQuantityError{Quantity: r.Quantity}
	}
	if r.ClaimBounty != nil {
		if r.ClaimBounty.IsNegative() || r.ClaimBounty.GT(MaxClaimBounty) {
			return InvalidClaimBountyError{Bounty: *r.ClaimBounty}
		}
	}
	return nil
}

// CancelLimitRequest cancels an unfilled limit order.
type CancelLimitRequest struct {
	Sender  string `json:"sender"`
	TickID  int64  `json:"tick_id"`
	OrderID uint64 `json:"order_id"`
}

// UnmarshalHTTPRequest unmarshals the HTTP request to CancelLimitRequest.
func (r *CancelLimitRequest) UnmarshalHTTPRequest(c echo.Context) error {
	return c.Bind(r)
}

// Validate validates the CancelLimitRequest.
func (r *CancelLimitRequest) Validate() error {
	if r.Sender == "" {
		return domain.ErrBadParamInput
	}
	return nil
}

// PlaceMarketRequest runs a market order against resting liquidity.
type PlaceMarketRequest struct {
	Owner          string                `json:"owner"`
	OrderDirection domain.OrderDirection `json:"order_direction"`
	Quantity       osmomath.Int          `json:"quantity"`
	Funds          []domain.Coin         `json:"funds"`
}

// UnmarshalHTTPRequest unmarshals the HTTP request to PlaceMarketRequest.
func (r *PlaceMarketRequest) UnmarshalHTTPRequest(c echo.Context) error {
	return c.Bind(r)
}

// Validate validates the PlaceMarketRequest.
func (r *PlaceMarketRequest) Validate() error {
	if r.Owner == "" {
		return domain.ErrBadParamInput
	}
	if err := r.OrderDirection.Validate(); err != nil {
		return err
	}
	if r.Quantity.IsNil() || !r.Quantity.IsPositive() {
		return InvalidQuantityError{Quantity: r.Quantity}
	}
	return nil
}

// ClaimLimitRequest pays out the filled portion of an order. The
// sender does not need to own the order.
type ClaimLimitRequest struct {
	Sender  string `json:"sender"`
	TickID  int64  `json:"tick_id"`
	OrderID uint64 `json:"order_id"`
}

// UnmarshalHTTPRequest unmarshals the HTTP request to ClaimLimitRequest.
func (r *ClaimLimitRequest) UnmarshalHTTPRequest(c echo.Context) error {
	return c.Bind(r)
}

// Validate validates the ClaimLimitRequest.
func (r *ClaimLimitRequest) Validate() error {
	if r.Sender == "" {
		return domain.ErrBadParamInput
	}
	return nil
}

// BatchClaimRequest claims multiple orders in one call.
type BatchClaimRequest struct {
	Sender string     `json:"sender"`
	Orders []OrderKey `json:"orders"`
}

// UnmarshalHTTPRequest unmarshals the HTTP request to BatchClaimRequest.
func (r *BatchClaimRequest) UnmarshalHTTPRequest(c echo.Context) error {
	return c.Bind(r)
}

// Validate validates the BatchClaimRequest.
func (r *BatchClaimRequest) Validate() error {
	if r.Sender == "" {
		return domain.ErrBadParamInput
	}
	if len(r.Orders) > MaxBatchClaim {
		return BatchClaimSizeError{Size: len(r.Orders)}
	}
	return nil
}

// GetOrdersRequest is the query for a user's orders, paginated by the
// key of the last order of the previous page.
type GetOrdersRequest struct {
	Owner string
	Limit uint64
	Start *OrderKey
}

// UnmarshalHTTPRequest unmarshals the HTTP request to GetOrdersRequest.
func (r *GetOrdersRequest) UnmarshalHTTPRequest(c echo.Context) error {
	r.Owner = c.QueryParam("owner")

	if limit := c.QueryParam("limit"); limit != "" {
		parsed, err := strconv.ParseUint(limit, 10, 64)
		if err != nil {
			return domain.ErrBadParamInput
		}
		r.Limit = parsed
	}

	startTick := c.QueryParam("startTick")
	startOrder := c.QueryParam("startOrder")
	if startTick != "" && startOrder != "" {
		tickID, err := strconv.ParseInt(startTick, 10, 64)
		if err != nil {
			return domain.ErrBadParamInput
		}
		orderID, err := strconv.ParseUint(startOrder, 10, 64)
		if err != nil {
			return domain.ErrBadParamInput
		}
		r.Start = &OrderKey{TickID: tickID, OrderID: orderID}
	}

	return nil
}

// Validate validates the GetOrdersRequest.
func (r *GetOrdersRequest) Validate() error {
	if r.Owner == "" {
		return domain.ErrBadParamInput
	}
	if r.Limit > MaxPageSize {
		return InvalidPageSizeError{Requested: r.Limit}
	}
	return nil
}

// SetActiveRequest toggles whether the book accepts mutating
// operations.
type SetActiveRequest struct {
	Active bool `json:"active"`
}

// UnmarshalHTTPRequest unmarshals the HTTP request to SetActiveRequest.
func (r *SetActiveRequest) UnmarshalHTTPRequest(c echo.Context) error {
	return c.Bind(r)
}

// GetOrderRequest is the query for a single order.
type GetOrderRequest struct {
	TickID  int64
	OrderID uint64
}

// UnmarshalHTTPRequest unmarshals the HTTP request to GetOrderRequest.
func (r *GetOrderRequest) UnmarshalHTTPRequest(c echo.Context) error {
	tickID, err := strconv.ParseInt(c.QueryParam("tickId"), 10, 64)
	if err != nil {
		return domain.ErrBadParamInput
	}
	orderID, err := strconv.ParseUint(c.QueryParam("orderId"), 10, 64)
	if err != nil {
		return domain.ErrBadParamInput
	}
	r.TickID = tickID
	r.OrderID = orderID
	return nil
}

// GetTickOrdersRequest is the query for all orders resting on one tick.
type GetTickOrdersRequest struct {
	TickID int64
}

// UnmarshalHTTPRequest unmarshals the HTTP request to GetTickOrdersRequest.
func (r *GetTickOrdersRequest) UnmarshalHTTPRequest(c echo.Context) error {
	tickID, err := strconv.ParseInt(c.QueryParam("tickId"), 10, 64)
	if err != nil {
		return domain.ErrBadParamInput
	}
	r.TickID = tickID
	return nil
}

// GetAllTicksRequest is the paginated query over all stored ticks.
type GetAllTicksRequest struct {
	StartFrom *int64
	Limit     uint64
}

// UnmarshalHTTPRequest unmarshals the HTTP request to GetAllTicksRequest.
func (r *GetAllTicksRequest) UnmarshalHTTPRequest(c echo.Context) error {
	if start := c.QueryParam("startFrom"); start != "" {
		parsed, err := strconv.ParseInt(start, 10, 64)
		if err != nil {
			return domain.ErrBadParamInput
		}
		r.StartFrom = &parsed
	}
	if limit := c.QueryParam("limit"); limit != "" {
		parsed, err := strconv.ParseUint(limit, 10, 64)
		if err != nil {
			return domain.ErrBadParamInput
		}
		r.Limit = parsed
	}
	return nil
}

// SpotPriceRequest is the query for the marginal price of the base
// asset denominated in the quote asset.
type SpotPriceRequest struct {
	QuoteAssetDenom string
	BaseAssetDenom  string
}

// UnmarshalHTTPRequest unmarshals the HTTP request to SpotPriceRequest.
func (r *SpotPriceRequest) UnmarshalHTTPRequest(c echo.Context) error {
	r.QuoteAssetDenom = c.QueryParam("quoteAssetDenom")
	r.BaseAssetDenom = c.QueryParam("baseAssetDenom")
	return nil
}

// Validate validates the SpotPriceRequest.
func (r *SpotPriceRequest) Validate() error {
	if r.QuoteAssetDenom == "" || r.BaseAssetDenom == "" {
		return domain.ErrBadParamInput
	}
	return nil
}

// OutGivenInRequest is the query estimating the output of a market
// order without mutating state.
type OutGivenInRequest struct {
	TokenInDenom  string
	TokenInAmount osmomath.Int
	TokenOutDenom string
}

// UnmarshalHTTPRequest unmarshals the HTTP request to OutGivenInRequest.
func (r *OutGivenInRequest) UnmarshalHTTPRequest(c echo.Context) error {
	r.TokenInDenom = c.QueryParam("tokenInDenom")
	r.TokenOutDenom = c.QueryParam("tokenOutDenom")

	amount, ok := osmomath.NewIntFromString(c.QueryParam("tokenInAmount"))
	if !ok {
		return domain.ErrBadParamInput
	}
	r.TokenInAmount = amount
	return nil
}

// Validate validates the OutGivenInRequest.
func (r *OutGivenInRequest) Validate() error {
	if r.TokenInDenom == "" || r.TokenOutDenom == "" {
		return domain.ErrBadParamInput
	}
	if !r.TokenInAmount.IsPositive() {
		return InvalidQuantityError{Quantity: r.TokenInAmount}
	}
	return nil
}

// GetTicksRequest is the query for the state of specific tick IDs.
type GetTicksRequest struct {
	TickIDs []int64
}

// UnmarshalHTTPRequest unmarshals the HTTP request to GetTicksRequest.
func (r *GetTicksRequest) UnmarshalHTTPRequest(c echo.Context) error {
	ids, err := domain.ParseNumbers(c.QueryParam("tickIds"))
	if err != nil {
		return domain.ErrBadParamInput
	}
	r.TickIDs = ids
	return nil
}

// Validate validates the GetTicksRequest.
func (r *GetTicksRequest) Validate() error {
	if len(r.TickIDs) == 0 {
		return domain.ErrBadParamInput
	}
	return nil
}
