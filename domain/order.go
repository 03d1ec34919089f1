package domain

import (
	"fmt"

	"github.com/osmosis-labs/osmosis/osmomath"
)

// OrderDirection is the side of the book an order rests on.
type OrderDirection string

const (
	// BID orders buy the base denom with the quote denom.
	BID OrderDirection = "bid"
	// ASK orders sell the base denom for the quote denom.
	ASK OrderDirection = "ask"
)

// Opposite returns the other side of the book.
func (d OrderDirection) Opposite() OrderDirection {
	if d == BID {
		return ASK
	}
	return BID
}

// Validate returns an error if d is not a known direction.
func (d OrderDirection) Validate() error {
	if d != BID && d != ASK {
		return InvalidOrderDirectionError{Direction: string(d)}
	}
	return nil
}

// OrderStatus represents the lifecycle state of a limit order.
type OrderStatus string

const (
	StatusOpen            OrderStatus = "open"
	StatusPartiallyFilled OrderStatus = "partiallyFilled"
	StatusFilled          OrderStatus = "filled"
	StatusFullyClaimed    OrderStatus = "fullyClaimed"
	StatusCancelled       OrderStatus = "cancelled"
)

// LimitOrder is a resting limit order on a tick.
type LimitOrder struct {
	TickID         int64            `json:"tick_id"`
	OrderID        uint64           `json:"order_id"`
	OrderDirection OrderDirection   `json:"order_direction"`
	Owner          string           `json:"owner"`
	// Quantity is the remaining unfilled amount, denominated in the
	// input denom of the order's direction.
	Quantity osmomath.Int `json:"quantity"`
	// PlacedQuantity is the original amount at placement time.
	PlacedQuantity osmomath.Int `json:"placed_quantity"`
	// Etas is the cumulative total value watermark of the order's tick
	// at placement time. The order is filled once the tick's effective
	// total amount swapped passes Etas + PlacedQuantity.
	Etas osmomath.BigDec `json:"etas"`
	// ClaimBounty is an optional fraction of each claimed fill paid to
	// whoever triggers the claim. Nil means no bounty.
	ClaimBounty *osmomath.Dec `json:"claim_bounty,omitempty"`
	// PlacedAt is the unix nanosecond timestamp of placement.
	PlacedAt int64 `json:"placed_at"`
}

// Status derives the order status from the fraction of the placed
// quantity that has been filled so far.
func (o LimitOrder) Status(percentFilled osmomath.Dec) OrderStatus {
	if o.Quantity.IsZero() || percentFilled.Equal(osmomath.OneDec()) {
		return StatusFilled
	}
	if percentFilled.IsZero() {
		return StatusOpen
	}
	return StatusPartiallyFilled
}

// MarketOrder is a transient order that executes immediately against
// resting liquidity.
type MarketOrder struct {
	Quantity       osmomath.Int
	OrderDirection OrderDirection
	Owner          string
}

// Orders is a list of limit orders.
type Orders []LimitOrder

// TickIDs returns the tick of every order in the list.
func (o Orders) TickIDs() []int64 {
	tickIDs := make([]int64, 0, len(o))
	for _, order := range o {
		tickIDs = append(tickIDs, order.TickID)
	}
	return tickIDs
}

// String implements fmt.Stringer for log output.
func (o LimitOrder) String() string {
	return fmt.Sprintf("order{tick: %d, id: %d, direction: %s, quantity: %s}", o.TickID, o.OrderID, o.OrderDirection, o.Quantity)
}
