// Package kafka publishes payment instructions to a Kafka topic so a
// downstream settlement service can execute them.
package kafka

import (
	"context"
	"encoding/json"

	"github.com/IBM/sarama"

	"github.com/osmosis-labs/sumtree-orderbook/domain"
)

// Emitter publishes payment instructions with a synchronous producer.
// Messages are keyed by recipient so per-recipient ordering survives
// partitioning.
type Emitter struct {
	producer sarama.SyncProducer
	topic    string
}

var _ domain.PaymentSink = &Emitter{}

// NewEmitter connects a producer to the given brokers.
func NewEmitter(brokers []string, topic string) (*Emitter, error) {
	cfg := sarama.NewConfig()
	cfg.Producer.Return.Successes = true
	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Producer.Retry.Max = 5

	producer, err := sarama.NewSyncProducer(brokers, cfg)
	if err != nil {
		return nil, err
	}

	return &Emitter{producer: producer, topic: topic}, nil
}

// Send implements domain.PaymentSink.
func (e *Emitter) Send(ctx context.Context, payment domain.Payment) error {
	payload, err := json.Marshal(payment)
	if err != nil {
		return err
	}

	msg := &sarama.ProducerMessage{
		Topic: e.topic,
		Key:   sarama.StringEncoder(payment.Recipient),
		Value: sarama.ByteEncoder(payload),
	}

	_, _, err = e.producer.SendMessage(msg)
	return err
}

// Close shuts the underlying producer down.
func (e *Emitter) Close() error {
	return e.producer.Close()
}
