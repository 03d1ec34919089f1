package domain

import (
	"fmt"

	"github.com/osmosis-labs/osmosis/osmomath"
)

// Coin is an amount of a single denom.
type Coin struct {
	Denom  string       `json:"denom"`
	Amount osmomath.Int `json:"amount"`
}

// NewCoin constructs a coin.
func NewCoin(denom string, amount osmomath.Int) Coin {
	return Coin{Denom: denom, Amount: amount}
}

// IsPositive returns true if the amount is strictly greater than zero.
func (c Coin) IsPositive() bool {
	return !c.Amount.IsNil() && c.Amount.IsPositive()
}

func (c Coin) String() string {
	return fmt.Sprintf("%s%s", c.Amount, c.Denom)
}
