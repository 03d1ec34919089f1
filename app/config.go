package main

import (
	"github.com/osmosis-labs/sumtree-orderbook/domain"
)

// DefaultConfig defines the default config for the orderbook server.
var DefaultConfig = domain.Config{
	StorageDataDir:  "orderbook_data",
	StorageInMemory: false,

	ServerAddress: ":9092",

	LoggerFilename:     "orderbook.log",
	LoggerIsProduction: true,
	LoggerLevel:        "info",

	CORS: &domain.CORSConfig{
		AllowedHeaders: "Origin, Accept, Content-Type, X-Requested-With, X-Server-Time",
		AllowedMethods: "HEAD, GET, POST",
		AllowedOrigin:  "*",
	},

	OTEL: &domain.OTELConfig{
		DSN:         "",
		SampleRate:  0.2,
		Environment: "production",
	},

	Payments: &domain.PaymentsConfig{
		KafkaEnabled: false,
		KafkaBrokers: []string{"localhost:9094"},
		KafkaTopic:   "orderbook.payments",
	},
}
