package domain

import "context"

// PaymentReason describes why a payment instruction was emitted.
type PaymentReason string

const (
	// PaymentReasonMarketOut is the proceeds of a market order.
	PaymentReasonMarketOut PaymentReason = "market_out"
	// PaymentReasonClaim is the claimed portion of a filled limit order.
	PaymentReasonClaim PaymentReason = "claim"
	// PaymentReasonBounty is the claim bounty paid to the claimer.
	PaymentReasonBounty PaymentReason = "bounty"
	// PaymentReasonMakerFee is the maker fee paid to the fee recipient.
	PaymentReasonMakerFee PaymentReason = "maker_fee"
	// PaymentReasonRefund is the refund of a cancelled limit order.
	PaymentReasonRefund PaymentReason = "refund"
)

// PaymentSink receives payment instructions emitted by committed
// operations.
type PaymentSink interface {
	Send(ctx context.Context, payment Payment) error
}

// Payment instructs the settlement layer to send a coin to a recipient.
// The matching engine never moves funds itself. Every operation that
// releases value emits payments which are forwarded to a sink.
type Payment struct {
	Recipient string        `json:"recipient"`
	Coin      Coin          `json:"coin"`
	Reason    PaymentReason `json:"reason"`
	// OrderID is set for payments tied to a specific limit order.
	OrderID uint64 `json:"order_id,omitempty"`
}
