package types

import (
	"github.com/osmosis-labs/osmosis/osmomath"

	"github.com/osmosis-labs/sumtree-orderbook/domain"
)

// PlaceLimitResult is the outcome of placing a limit order. If the
// order crossed the book, Payments carries the proceeds of the
// immediate fill and the stored order holds only the remainder.
type PlaceLimitResult struct {
	Order domain.LimitOrder `json:"order"`
	// QuantityFilled is the portion of the placed quantity that was
	// filled immediately against the opposite side.
	QuantityFilled osmomath.Int     `json:"quantity_filled"`
	Payments       []domain.Payment `json:"payments,omitempty"`
}

// CancelLimitResult is the outcome of cancelling a limit order.
type CancelLimitResult struct {
	Order    domain.LimitOrder `json:"order"`
	Payments []domain.Payment  `json:"payments"`
}

// PlaceMarketResult is the outcome of a market order.
type PlaceMarketResult struct {
	TokenIn  domain.Coin      `json:"token_in"`
	TokenOut domain.Coin      `json:"token_out"`
	Payments []domain.Payment `json:"payments"`
}

// ClaimLimitResult is the outcome of claiming the filled portion of an
// order. Claimed + Bounty + MakerFee always equals the raw fill amount.
type ClaimLimitResult struct {
	Order    domain.LimitOrder `json:"order"`
	Claimed  osmomath.Int      `json:"claimed"`
	Bounty   osmomath.Int      `json:"bounty"`
	MakerFee osmomath.Int      `json:"maker_fee"`
	Payments []domain.Payment  `json:"payments"`
}

// BatchClaimFailure records one skipped order of a batch claim.
type BatchClaimFailure struct {
	Order OrderKey `json:"order"`
	Error string   `json:"error"`
}

// BatchClaimResult is the outcome of a batch claim. Individual claim
// failures do not fail the batch.
type BatchClaimResult struct {
	Claimed []ClaimLimitResult  `json:"claimed"`
	Skipped []BatchClaimFailure `json:"skipped,omitempty"`
}
