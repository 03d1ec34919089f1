package main

import (
	"context"
	"errors"

	"github.com/labstack/echo/v4"
	"github.com/osmosis-labs/osmosis/osmomath"
	"go.uber.org/zap"

	"github.com/osmosis-labs/sumtree-orderbook/domain"
	"github.com/osmosis-labs/sumtree-orderbook/log"
	"github.com/osmosis-labs/sumtree-orderbook/middleware"
	orderbookhttpdelivery "github.com/osmosis-labs/sumtree-orderbook/orderbook/delivery/http"
	"github.com/osmosis-labs/sumtree-orderbook/orderbook/payment"
	"github.com/osmosis-labs/sumtree-orderbook/orderbook/payment/kafka"
	orderbookrepository "github.com/osmosis-labs/sumtree-orderbook/orderbook/repository"
	orderbooktypes "github.com/osmosis-labs/sumtree-orderbook/orderbook/types"
	orderbookusecase "github.com/osmosis-labs/sumtree-orderbook/orderbook/usecase"
	"github.com/osmosis-labs/sumtree-orderbook/storage"
	systemhttpdelivery "github.com/osmosis-labs/sumtree-orderbook/system/delivery/http"
)

// OrderbookServer defines an interface for the orderbook server.
// It encapsulates the storage, matching engine and the HTTP
// endpoints for placing, cancelling and claiming orders.
type OrderbookServer interface {
	GetStore() storage.KVStore
	GetOrderbookUsecase() *orderbookusecase.OrderbookUseCaseImpl
	GetLogger() log.Logger
	Shutdown(context.Context) error
	Start(context.Context) error
}

type orderbookServer struct {
	store            storage.KVStore
	orderbookUsecase *orderbookusecase.OrderbookUseCaseImpl
	e                *echo.Echo
	address          string
	logger           log.Logger
}

// GetStore implements OrderbookServer.
func (s *orderbookServer) GetStore() storage.KVStore {
	return s.store
}

// GetOrderbookUsecase implements OrderbookServer.
func (s *orderbookServer) GetOrderbookUsecase() *orderbookusecase.OrderbookUseCaseImpl {
	return s.orderbookUsecase
}

// GetLogger implements OrderbookServer.
func (s *orderbookServer) GetLogger() log.Logger {
	return s.logger
}

// Shutdown implements OrderbookServer.
func (s *orderbookServer) Shutdown(ctx context.Context) error {
	if err := s.e.Shutdown(ctx); err != nil {
		return err
	}

	return s.store.Close()
}

// Start implements OrderbookServer.
func (s *orderbookServer) Start(context.Context) error {
	s.logger.Info("Starting orderbook server", zap.String("address", s.address))
	err := s.e.Start(s.address)
	if err != nil {
		return err
	}

	return nil
}

// createMarketIfMissing creates the configured market on startup. A
// market that already exists is left untouched.
func createMarketIfMissing(market *domain.MarketConfig, usecase *orderbookusecase.OrderbookUseCaseImpl, logger log.Logger) error {
	req := orderbooktypes.CreateMarketRequest{
		QuoteDenom:        market.QuoteDenom,
		BaseDenom:         market.BaseDenom,
		MakerFeeRecipient: market.MakerFeeRecipient,
	}
	if market.MakerFee != "" {
		fee, err := osmomath.NewDecFromStr(market.MakerFee)
		if err != nil {
			return err
		}
		req.MakerFee = &fee
	}

	_, err := usecase.CreateMarket(context.Background(), req)
	if err != nil {
		var exists orderbooktypes.OrderbookAlreadyExistsError
		if errors.As(err, &exists) {
			logger.Info("market already created", zap.String("quote_denom", market.QuoteDenom), zap.String("base_denom", market.BaseDenom))
			return nil
		}
		return err
	}

	return nil
}

// NewOrderbookServer creates a new orderbook server.
func NewOrderbookServer(config domain.Config, logger log.Logger) (OrderbookServer, error) {
	// Setup echo server
	e := echo.New()
	middleware := middleware.InitMiddleware(config.CORS)
	e.Use(middleware.CORS)
	e.Use(middleware.InstrumentMiddleware)
	e.Use(middleware.TraceWithParamsMiddleware("orderbook"))

	// Open the backing store. The in-memory variant is used by
	// local development and tests only, it loses all data on restart.
	var (
		store storage.KVStore
		err   error
	)
	if config.StorageInMemory {
		logger.Info("Using in-memory storage")
		store, err = storage.NewInMemoryPebbleStore()
	} else {
		logger.Info("Opening storage", zap.String("data_dir", config.StorageDataDir))
		store, err = storage.NewPebbleStore(config.StorageDataDir)
	}
	if err != nil {
		return nil, err
	}

	repository := orderbookrepository.New()

	// Payment instructions are emitted to Kafka when configured.
	// Otherwise they are only logged.
	var sink domain.PaymentSink
	if config.Payments != nil && config.Payments.KafkaEnabled {
		logger.Info("Emitting payments to Kafka", zap.Strings("brokers", config.Payments.KafkaBrokers), zap.String("topic", config.Payments.KafkaTopic))
		sink, err = kafka.NewEmitter(config.Payments.KafkaBrokers, config.Payments.KafkaTopic)
		if err != nil {
			return nil, err
		}
	} else {
		sink = payment.NewLogSink(logger)
	}

	orderbookUsecase, err := orderbookusecase.New(store, repository, sink, logger)
	if err != nil {
		return nil, err
	}

	if config.Market != nil {
		if err := createMarketIfMissing(config.Market, orderbookUsecase, logger); err != nil {
			return nil, err
		}
	}

	// HTTP handlers
	orderbookhttpdelivery.NewOrderbookHandler(e, orderbookUsecase, logger)
	systemhttpdelivery.NewSystemHandler(e, config, logger, orderbookUsecase)

	return &orderbookServer{
		store:            store,
		orderbookUsecase: orderbookUsecase,
		logger:           logger,
		e:                e,
		address:          config.ServerAddress,
	}, nil
}
