package domain

// Orderbook is the top-level market state. A single book trades one
// quote/base denom pair over the full tick range.
type Orderbook struct {
	QuoteDenom string `json:"quote_denom"`
	BaseDenom  string `json:"base_denom"`
	// CurrentTick is the last tick a market order filled against.
	CurrentTick int64 `json:"current_tick"`
	// NextBidTick is the highest tick with bid liquidity at or below it.
	NextBidTick int64 `json:"next_bid_tick"`
	// NextAskTick is the lowest tick with ask liquidity at or above it.
	NextAskTick int64 `json:"next_ask_tick"`
}

// NewOrderbook returns a fresh book for the given denom pair with the
// bid and ask pointers at their extremes.
func NewOrderbook(quoteDenom, baseDenom string, minTick, maxTick int64) Orderbook {
	return Orderbook{
		QuoteDenom:  quoteDenom,
		BaseDenom:   baseDenom,
		CurrentTick: 0,
		NextBidTick: minTick,
		NextAskTick: maxTick,
	}
}

// DirectionFromPair derives the market order direction implied by
// swapping tokenInDenom for tokenOutDenom on this book.
func (o Orderbook) DirectionFromPair(tokenInDenom, tokenOutDenom string) (OrderDirection, error) {
	switch {
	case tokenInDenom == o.QuoteDenom && tokenOutDenom == o.BaseDenom:
		return BID, nil
	case tokenInDenom == o.BaseDenom && tokenOutDenom == o.QuoteDenom:
		return ASK, nil
	default:
		return "", InvalidDenomPairError{TokenInDenom: tokenInDenom, TokenOutDenom: tokenOutDenom}
	}
}

// InDenom returns the denom a given order direction pays in.
func (o Orderbook) InDenom(direction OrderDirection) string {
	if direction == BID {
		return o.QuoteDenom
	}
	return o.BaseDenom
}

// OutDenom returns the denom a given order direction receives.
func (o Orderbook) OutDenom(direction OrderDirection) string {
	if direction == BID {
		return o.BaseDenom
	}
	return o.QuoteDenom
}
