package tickmath

import (
	"fmt"

	"github.com/osmosis-labs/osmosis/osmomath"
)

// TickOutOfBoundsError represents an error when a tick falls outside
// [MinTick, MaxTick].
type TickOutOfBoundsError struct {
	TickID int64
}

// Error implements the error interface.
func (e TickOutOfBoundsError) Error() string {
	return fmt.Sprintf("tick id (%d) is out of range: min %d, max %d", e.TickID, MinTick, MaxTick)
}

// PriceBoundError represents an error when a computed price falls
// outside the supported spot price range.
type PriceBoundError struct {
	Price osmomath.BigDec
}

// Error implements the error interface.
func (e PriceBoundError) Error() string {
	return fmt.Sprintf("price (%s) is out of range: min %s, max %s", e.Price, MinSpotPrice, MaxSpotPrice)
}

// ZeroPriceError represents a division by a zero price.
type ZeroPriceError struct{}

// Error implements the error interface.
func (e ZeroPriceError) Error() string {
	return "price cannot be zero"
}
