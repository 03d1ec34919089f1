package telemetry

import "github.com/prometheus/client_golang/prometheus"

var (
	// orderbook_usecase_place_limit_error_total
	//
	// counter that measures the number of errors that occur during placing a limit order
	PlaceLimitErrorMetricName = "orderbook_usecase_place_limit_error_total"

	// orderbook_usecase_cancel_limit_error_total
	//
	// counter that measures the number of errors that occur during cancelling a limit order
	CancelLimitErrorMetricName = "orderbook_usecase_cancel_limit_error_total"

	// orderbook_usecase_place_market_error_total
	//
	// counter that measures the number of errors that occur during running a market order
	PlaceMarketErrorMetricName = "orderbook_usecase_place_market_error_total"

	// orderbook_usecase_claim_limit_error_total
	//
	// counter that measures the number of errors that occur during claiming a limit order
	ClaimLimitErrorMetricName = "orderbook_usecase_claim_limit_error_total"

	// orderbook_usecase_batch_claim_skipped_total
	//
	// counter that measures the number of orders skipped within batch claims
	BatchClaimSkippedMetricName = "orderbook_usecase_batch_claim_skipped_total"

	// orderbook_usecase_tick_sync_total
	//
	// counter that measures the number of tick syncs that folded realized
	// cancellations into a tick's ETAS
	TickSyncMetricName = "orderbook_usecase_tick_sync_total"

	// orderbook_payment_emit_error_total
	//
	// counter that measures the number of payment instructions that failed to
	// reach the payment sink
	PaymentEmitErrorMetricName = "orderbook_payment_emit_error_total"

	PlaceLimitErrorCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: PlaceLimitErrorMetricName,
			Help: "counter that measures the number of errors that occur during placing a limit order",
		},
	)

	CancelLimitErrorCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: CancelLimitErrorMetricName,
			Help: "counter that measures the number of errors that occur during cancelling a limit order",
		},
	)

	PlaceMarketErrorCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: PlaceMarketErrorMetricName,
			Help: "counter that measures the number of errors that occur during running a market order",
		},
	)

	ClaimLimitErrorCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: ClaimLimitErrorMetricName,
			Help: "counter that measures the number of errors that occur during claiming a limit order",
		},
	)

	BatchClaimSkippedCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: BatchClaimSkippedMetricName,
			Help: "counter that measures the number of orders skipped within batch claims",
		},
	)

	TickSyncCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: TickSyncMetricName,
			Help: "counter that measures the number of tick syncs that folded realized cancellations into a tick's ETAS",
		},
	)

	PaymentEmitErrorCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: PaymentEmitErrorMetricName,
			Help: "counter that measures the number of payment instructions that failed to reach the payment sink",
		},
	)
)

func init() {
	prometheus.MustRegister(PlaceLimitErrorCounter)
	prometheus.MustRegister(CancelLimitErrorCounter)
	prometheus.MustRegister(PlaceMarketErrorCounter)
	prometheus.MustRegister(ClaimLimitErrorCounter)
	prometheus.MustRegister(BatchClaimSkippedCounter)
	prometheus.MustRegister(TickSyncCounter)
	prometheus.MustRegister(PaymentEmitErrorCounter)
}
