package types

import (
	"github.com/osmosis-labs/osmosis/osmomath"
)

// OrderKey identifies a limit order by its tick and order id, matching
// the storage ordering of orders. It doubles as a pagination cursor.
type OrderKey struct {
	TickID  int64  `json:"tick_id"`
	OrderID uint64 `json:"order_id"`
}

// UnrealizedCancels is the portion of a tick's cancellation prefix sum
// that has not yet been folded into its ETAS, per direction.
type UnrealizedCancels struct {
	TickID               int64           `json:"tick_id"`
	AskUnrealizedCancels osmomath.BigDec `json:"ask_unrealized_cancels"`
	BidUnrealizedCancels osmomath.BigDec `json:"bid_unrealized_cancels"`
}
