package types

import (
	"fmt"
	"net/http"

	"github.com/osmosis-labs/osmosis/osmomath"

	"github.com/osmosis-labs/sumtree-orderbook/domain"
)

// OrderbookAlreadyExistsError represents an error when the book has
// already been created.
type OrderbookAlreadyExistsError struct{}

// Error implements the error interface.
func (e OrderbookAlreadyExistsError) Error() string {
	return "orderbook already exists"
}

// StatusCode implements domain.StatusCoder.
func (e OrderbookAlreadyExistsError) StatusCode() int {
	return http.StatusConflict
}

// InvalidQuantityError represents an error when an order quantity is
// zero or negative.
type InvalidQuantityError struct {
	Quantity osmomath.Int
}

// Error implements the error interface.
func (e InvalidQuantityError) Error() string {
	return fmt.Sprintf("invalid order quantity: %s", e.Quantity)
}

// StatusCode implements domain.StatusCoder.
func (e InvalidQuantityError) StatusCode() int {
	return http.StatusBadRequest
}

// InsufficientFundsError represents an error when the funds sent with
// an order do not cover its quantity.
type InsufficientFundsError struct {
	Denom    string
	Required osmomath.Int
	Sent     osmomath.Int
}

// Error implements the error interface.
func (e InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient funds: required %s%s, sent %s%s", e.Required, e.Denom, e.Sent, e.Denom)
}

// StatusCode implements domain.StatusCoder.
func (e InsufficientFundsError) StatusCode() int {
	return http.StatusBadRequest
}

// OrderNotFoundError represents an error when no order exists for the
// given tick and order id.
type OrderNotFoundError struct {
	TickID  int64
	OrderID uint64
}

// Error implements the error interface.
func (e OrderNotFoundError) Error() string {
	return fmt.Sprintf("order not found: tick %d, order %d", e.TickID, e.OrderID)
}

// StatusCode implements domain.StatusCoder.
func (e OrderNotFoundError) StatusCode() int {
	return http.StatusNotFound
}

// UnauthorizedError represents an error when the sender does not own
// the order being mutated.
type UnauthorizedError struct {
	Owner  string
	Sender string
}

// Error implements the error interface.
func (e UnauthorizedError) Error() string {
	return fmt.Sprintf("sender (%s) is not the order owner (%s)", e.Sender, e.Owner)
}

// StatusCode implements domain.StatusCoder.
func (e UnauthorizedError) StatusCode() int {
	return http.StatusForbidden
}

// CancelFilledOrderError represents an error when cancelling an order
// that has already been partially or fully filled.
type CancelFilledOrderError struct {
	TickID  int64
	OrderID uint64
}

// Error implements the error interface.
func (e CancelFilledOrderError) Error() string {
	return fmt.Sprintf("cannot cancel partially or fully filled order: tick %d, order %d", e.TickID, e.OrderID)
}

// StatusCode implements domain.StatusCoder.
func (e CancelFilledOrderError) StatusCode() int {
	return http.StatusConflict
}

// ZeroClaimError represents an error when claiming an order with no
// claimable fill.
type ZeroClaimError struct {
	TickID  int64
	OrderID uint64
}

// Error implements the error interface.
func (e ZeroClaimError) Error() string {
	return fmt.Sprintf("order has no filled amount to claim: tick %d, order %d", e.TickID, e.OrderID)
}

// StatusCode implements domain.StatusCoder.
func (e ZeroClaimError) StatusCode() int {
	return http.StatusConflict
}

// InvalidClaimBountyError represents an error when a claim bounty is
// negative or above MaxClaimBounty.
type InvalidClaimBountyError struct {
	Bounty osmomath.Dec
}

// Error implements the error interface.
func (e InvalidClaimBountyError) Error() string {
	return fmt.Sprintf("invalid claim bounty (%s): must be between 0 and %s", e.Bounty, MaxClaimBounty)
}

// StatusCode implements domain.StatusCoder.
func (e InvalidClaimBountyError) StatusCode() int {
	return http.StatusBadRequest
}

// InvalidMakerFeeError represents an error when the maker fee is
// negative or above MaxMakerFee.
type InvalidMakerFeeError struct {
	Fee osmomath.Dec
}

// Error implements the error interface.
func (e InvalidMakerFeeError) Error() string {
	return fmt.Sprintf("invalid maker fee (%s): must be between 0 and %s", e.Fee, MaxMakerFee)
}

// StatusCode implements domain.StatusCoder.
func (e InvalidMakerFeeError) StatusCode() int {
	return http.StatusBadRequest
}

// BatchClaimSizeError represents an error when a batch claim exceeds
// MaxBatchClaim orders.
type BatchClaimSizeError struct {
	Size int
}

// Error implements the error interface.
func (e BatchClaimSizeError) Error() string {
	return fmt.Sprintf("batch claim of %d orders exceeds the maximum of %d", e.Size, MaxBatchClaim)
}

// StatusCode implements domain.StatusCoder.
func (e BatchClaimSizeError) StatusCode() int {
	return http.StatusBadRequest
}

// InvalidTickSyncError is a fatal accounting error: folding realized
// cancellations into a tick pushed its ETAS past its cumulative total
// value.
type InvalidTickSyncError struct {
	TickID    int64
	Direction domain.OrderDirection
	Etas      osmomath.BigDec
	Ctt       osmomath.BigDec
}

// Error implements the error interface.
func (e InvalidTickSyncError) Error() string {
	return fmt.Sprintf("tick sync pushed ETAS (%s) past cumulative total value (%s): tick %d, direction %s", e.Etas, e.Ctt, e.TickID, e.Direction)
}

// IsFatal marks the error as a state corruption rather than bad input.
func (e InvalidTickSyncError) IsFatal() bool {
	return true
}

// InvalidBoundTickError represents an error when a market order's
// bound tick contradicts its direction.
type InvalidBoundTickError struct {
	BoundTick int64
	Direction domain.OrderDirection
}

// Error implements the error interface.
func (e InvalidBoundTickError) Error() string {
	return fmt.Sprintf("invalid bound tick (%d) for %s market order", e.BoundTick, e.Direction)
}

// StatusCode implements domain.StatusCoder.
func (e InvalidBoundTickError) StatusCode() int {
	return http.StatusBadRequest
}

// InsufficientLiquidityError represents an error when a market order
// exhausts the book before it is fully filled.
type InsufficientLiquidityError struct {
	Remaining osmomath.Int
}

// Error implements the error interface.
func (e InsufficientLiquidityError) Error() string {
	return fmt.Sprintf("insufficient liquidity: %s input left unfilled", e.Remaining)
}

// StatusCode implements domain.StatusCoder.
func (e InsufficientLiquidityError) StatusCode() int {
	return http.StatusConflict
}

// InvalidPageSizeError represents an error when a paginated query asks
// for more than MaxPageSize items.
type InvalidPageSizeError struct {
	Requested uint64
}

// Error implements the error interface.
func (e InvalidPageSizeError) Error() string {
	return fmt.Sprintf("page size (%d) exceeds the maximum of %d", e.Requested, MaxPageSize)
}

// StatusCode implements domain.StatusCoder.
func (e InvalidPageSizeError) StatusCode() int {
	return http.StatusBadRequest
}
