// Package payment provides sinks for the payment instructions the
// matching engine emits. The engine never moves funds itself; sinks
// forward instructions to whatever settles them.
package payment

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/osmosis-labs/sumtree-orderbook/domain"
	"github.com/osmosis-labs/sumtree-orderbook/log"
)

// LogSink writes every payment instruction to the logger. It is the
// default sink when no Kafka emitter is configured.
type LogSink struct {
	logger log.Logger
}

var _ domain.PaymentSink = &LogSink{}

// NewLogSink creates a sink that logs payment instructions.
func NewLogSink(logger log.Logger) *LogSink {
	return &LogSink{logger: logger}
}

// Send implements domain.PaymentSink.
func (s *LogSink) Send(ctx context.Context, payment domain.Payment) error {
	s.logger.Info("payment instruction",
		zap.String("recipient", payment.Recipient),
		zap.String("coin", payment.Coin.String()),
		zap.String("reason", string(payment.Reason)),
		zap.Uint64("order_id", payment.OrderID),
	)
	return nil
}

// Recorder collects payment instructions in memory, for tests.
type Recorder struct {
	mu       sync.Mutex
	payments []domain.Payment
}

var _ domain.PaymentSink = &Recorder{}

// NewRecorder creates an empty in-memory sink.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Send implements domain.PaymentSink.
func (r *Recorder) Send(ctx context.Context, payment domain.Payment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.payments = append(r.payments, payment)
	return nil
}

// Payments returns a copy of everything recorded so far.
func (r *Recorder) Payments() []domain.Payment {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Payment, len(r.payments))
	copy(out, r.payments)
	return out
}

// Reset drops all recorded payments.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.payments = nil
}
