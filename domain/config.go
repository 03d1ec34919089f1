package domain

// Config defines the config for the orderbook service.
type Config struct {
	// Storage defines where the order book state is persisted. When
	// StorageInMemory is set the data dir is ignored and a transient
	// in-memory store is used instead.
	StorageDataDir  string `mapstructure:"db-data-dir"`
	StorageInMemory bool   `mapstructure:"db-in-memory"`

	// Defines the web server configuration.
	ServerAddress string `mapstructure:"server-address"`

	// Defines the logger configuration.
	LoggerFilename     string `mapstructure:"logger-filename"`
	LoggerIsProduction bool   `mapstructure:"logger-is-production"`
	LoggerLevel        string `mapstructure:"logger-level"`

	// Market, when set, creates the order book on startup if it does
	// not exist yet.
	Market *MarketConfig `mapstructure:"market"`

	// CORS configures the allowed origins, headers and methods.
	CORS *CORSConfig `mapstructure:"cors"`

	// OTEL configures open telemetry tracing.
	OTEL *OTELConfig `mapstructure:"otel"`

	// Payments configures the payment instruction sink.
	Payments *PaymentsConfig `mapstructure:"payments"`
}

// MarketConfig describes the denom pair and maker fee of the order
// book created on startup.
type MarketConfig struct {
	QuoteDenom        string `mapstructure:"quote-denom"`
	BaseDenom         string `mapstructure:"base-denom"`
	MakerFee          string `mapstructure:"maker-fee"`
	MakerFeeRecipient string `mapstructure:"maker-fee-recipient"`
}

// CORSConfig represents HTTP CORS headers configuration.
type CORSConfig struct {
	// Specifies Access-Control-Allow-Headers header value.
	AllowedHeaders string `mapstructure:"allowed-headers"`

	// Specifies Access-Control-Allow-Methods header value.
	AllowedMethods string `mapstructure:"allowed-methods"`

	// Specifies Access-Control-Allow-Origin header value.
	AllowedOrigin string `mapstructure:"allowed-origin"`
}

// OTELConfig represents OpenTelemetry configuration.
type OTELConfig struct {
	DSN         string `mapstructure:"dsn"`
	SampleRate  float64 `mapstructure:"sample-rate"`
	Environment string `mapstructure:"environment"`
}

// PaymentsConfig configures how payment instructions leave the service.
type PaymentsConfig struct {
	// KafkaEnabled emits payment instructions to a Kafka topic when set.
	// Otherwise payments are only logged.
	KafkaEnabled bool     `mapstructure:"kafka-enabled"`
	KafkaBrokers []string `mapstructure:"kafka-brokers"`
	KafkaTopic   string   `mapstructure:"kafka-topic"`
}
