package types

import "github.com/osmosis-labs/osmosis/osmomath"

const (
	// MaxBatchClaim is the maximum number of orders a single batch
	// claim may target.
	MaxBatchClaim = 100

	// DefaultPageSize is the page size used by paginated queries when
	// the caller does not provide one.
	DefaultPageSize uint64 = 50

	// MaxPageSize caps the page size of paginated queries.
	MaxPageSize uint64 = 100
)

var (
	// MaxMakerFee is the inclusive upper bound on the maker fee (5%).
	MaxMakerFee = osmomath.MustNewDecFromStr("0.05")

	// MaxClaimBounty is the inclusive upper bound on an order's claim
	// bounty (1%).
	MaxClaimBounty = osmomath.MustNewDecFromStr("0.01")
)
