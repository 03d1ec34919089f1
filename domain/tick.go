package domain

import (
	"github.com/osmosis-labs/osmosis/osmomath"
)

// TickValues is the liquidity accounting for one direction of a tick.
type TickValues struct {
	// TotalAmountOfLiquidity is the amount currently resting on the
	// tick and available to fill market orders.
	TotalAmountOfLiquidity osmomath.BigDec `json:"total_amount_of_liquidity"`
	// CumulativeTotalValue is the all-time sum of placed limit amounts.
	CumulativeTotalValue osmomath.BigDec `json:"cumulative_total_value"`
	// EffectiveTotalAmountSwapped (ETAS) advances as market orders fill
	// the tick and as cancellations are realized into it.
	EffectiveTotalAmountSwapped osmomath.BigDec `json:"effective_total_amount_swapped"`
	// CumulativeRealizedCancels is the portion of the cancellation
	// prefix sum that has already been folded into ETAS.
	CumulativeRealizedCancels osmomath.BigDec `json:"cumulative_realized_cancels"`
	// LastTickSyncEtas is the ETAS value at the time of the last sync.
	LastTickSyncEtas osmomath.BigDec `json:"last_tick_sync_etas"`
}

// NewTickValues returns zeroed tick values.
func NewTickValues() TickValues {
	return TickValues{
		TotalAmountOfLiquidity:      osmomath.ZeroBigDec(),
		CumulativeTotalValue:        osmomath.ZeroBigDec(),
		EffectiveTotalAmountSwapped: osmomath.ZeroBigDec(),
		CumulativeRealizedCancels:   osmomath.ZeroBigDec(),
		LastTickSyncEtas:            osmomath.ZeroBigDec(),
	}
}

// TickState holds both directions of a tick.
type TickState struct {
	AskValues TickValues `json:"ask_values"`
	BidValues TickValues `json:"bid_values"`
}

// NewTickState returns a tick state with zeroed values on both sides.
func NewTickState() TickState {
	return TickState{
		AskValues: NewTickValues(),
		BidValues: NewTickValues(),
	}
}

// Values returns the tick values for the given direction.
func (s *TickState) Values(direction OrderDirection) *TickValues {
	if direction == ASK {
		return &s.AskValues
	}
	return &s.BidValues
}

// Tick pairs a tick ID with its state, for query responses.
type Tick struct {
	TickID    int64     `json:"tick_id"`
	TickState TickState `json:"tick_state"`
}
