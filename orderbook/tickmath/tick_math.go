// Package tickmath converts between price ticks and prices.
//
// The tick space is piecewise geometric: every 9,000,000 ticks the
// power of ten changes and within each segment prices grow by a fixed
// additive increment. Tick 0 is price 1.
package tickmath

import (
	"github.com/osmosis-labs/osmosis/osmomath"

	"github.com/osmosis-labs/sumtree-orderbook/domain"
)

const (
	// MinTick is the inclusive lower bound of the tick range,
	// corresponding to MinSpotPrice.
	MinTick int64 = -108000000

	// MaxTick is the inclusive upper bound of the tick range,
	// corresponding to MaxSpotPrice.
	MaxTick int64 = 182402823

	// ExponentAtPriceOne is the power of ten of the additive increment
	// at tick 0.
	ExponentAtPriceOne int64 = -6

	// GeometricExponentIncrementDistanceInTicks is the width of one
	// geometric segment of the tick space.
	GeometricExponentIncrementDistanceInTicks int64 = 9000000
)

var (
	// MaxSpotPrice is the price at MaxTick.
	MaxSpotPrice = osmomath.MustNewBigDecFromStr("340282300000000000000")

	// MinSpotPrice is the price at MinTick.
	MinSpotPrice = osmomath.MustNewBigDecFromStr("0.000000000001")

	oneBigDec = osmomath.OneBigDec()
	tenBigDec = osmomath.NewBigDec(10)
)

// RoundingDirection selects which way amount conversions round.
type RoundingDirection int

const (
	RoundUp RoundingDirection = iota
	RoundDown
)

// TickToPrice returns the price at the given tick.
func TickToPrice(tickIndex int64) (osmomath.BigDec, error) {
	if tickIndex == 0 {
		return osmomath.OneBigDec(), nil
	}
	if tickIndex < MinTick || tickIndex > MaxTick {
		return osmomath.BigDec{}, TickOutOfBoundsError{TickID: tickIndex}
	}

	// The geometric segment the tick falls in. Integer division
	// truncates toward zero, matching the additive tick count below.
	geometricExponentDelta := tickIndex / GeometricExponentIncrementDistanceInTicks

	exponentAtCurrentTick := ExponentAtPriceOne + geometricExponentDelta
	if tickIndex < 0 {
		// Negative ticks step through a smaller increment so that the
		// price at the segment boundary is exact.
		exponentAtCurrentTick--
	}

	currentAdditiveIncrementInTicks := powTen(exponentAtCurrentTick)

	numAdditiveTicks := tickIndex - geometricExponentDelta*GeometricExponentIncrementDistanceInTicks

	price := powTen(geometricExponentDelta)
	if numAdditiveTicks < 0 {
		price = price.Sub(osmomath.NewBigDec(-numAdditiveTicks).Mul(currentAdditiveIncrementInTicks))
	} else {
		price = price.Add(osmomath.NewBigDec(numAdditiveTicks).Mul(currentAdditiveIncrementInTicks))
	}

	if price.GT(MaxSpotPrice) || price.LT(MinSpotPrice) {
		return osmomath.BigDec{}, PriceBoundError{Price: price}
	}

	return price, nil
}

// powTen returns 10^exponent for any sign of exponent.
func powTen(exponent int64) osmomath.BigDec {
	if exponent >= 0 {
		return tenBigDec.PowerInteger(uint64(exponent))
	}
	return oneBigDec.Quo(tenBigDec.PowerInteger(uint64(-exponent)))
}

// MultiplyByPrice converts a base amount to its quote value.
func MultiplyByPrice(amount osmomath.Int, price osmomath.BigDec, rounding RoundingDirection) osmomath.Int {
	return roundBigDec(osmomath.BigDecFromSDKInt(amount).Mul(price), rounding)
}

// DivideByPrice converts a quote amount to its base value.
func DivideByPrice(amount osmomath.Int, price osmomath.BigDec, rounding RoundingDirection) (osmomath.Int, error) {
	if price.IsZero() {
		return osmomath.Int{}, ZeroPriceError{}
	}
	return roundBigDec(osmomath.BigDecFromSDKInt(amount).Quo(price), rounding), nil
}

// AmountToValue converts an input amount in the given order direction
// to the corresponding output amount at the given price. Bids convert
// quote to base value by multiplication, asks the other way around.
func AmountToValue(direction domain.OrderDirection, amount osmomath.Int, price osmomath.BigDec, rounding RoundingDirection) (osmomath.Int, error) {
	if amount.IsZero() {
		return osmomath.ZeroInt(), nil
	}
	if direction == domain.BID {
		return MultiplyByPrice(amount, price, rounding), nil
	}
	return DivideByPrice(amount, price, rounding)
}

// roundBigDec converts to an integer amount. Precision past 18
// decimals is truncated before rounding up, so a remainder smaller
// than that does not bump the result.
func roundBigDec(value osmomath.BigDec, rounding RoundingDirection) osmomath.Int {
	if rounding == RoundUp {
		return value.Dec().Ceil().TruncateInt()
	}
	return value.Dec().TruncateInt()
}
