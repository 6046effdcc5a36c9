//go:build wireinject
// +build wireinject

package di

import (
	"BaseballMVP/pkg/config"
	"BaseballMVP/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application with
// a cleanup that releases infrastructure clients in reverse order.
func InitializeApp(cfg *config.Config) (*server.App, func(), error) {
	wire.Build(
		ProvideLogger,
		ProvideMetrics,

		// Infrastructure clients
		ProvideKafkaProducer,
		ProvideClickHouseClient,
		ProvideCache,

		// Reference data and core services
		ProvideAggregateStore,
		ProvideResolver,
		ProvidePredictor,
		ProvidePredictionPublisher,

		// Use cases and transport
		ProvideMatchupPipeline,
		ProvideRateLimiter,
		ProvideHandler,
		ProvideHTTPServer,

		ProvideApp,
	)
	return &server.App{}, nil, nil
}
