//go:build wireinject
// +build wireinject

package di

import (
	"EventPulse/pkg/config"
	"EventPulse/pkg/server"

	"github.com/google/wire"
)

// InitializeApp builds the application with all its dependencies.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		ProvideLogger,
		ProvideClickHouseClient,
		ProvideBarStore,
		ProvideEventStore,
		ProvideMetrics,
		ProvideKafkaProducer,
		ProvideSummaryPublisher,
		ProvideKafkaConsumer,
		ProvideEventIngestHandler,
		ProvideEventSource,
		ProvideMarketStream,
		ProvideBarCollector,
		ProvideRedisCache,
		ProvideCacheService,
		ProvideStudyRunner,
		ProvideJobQueue,
		ProvideQueueService,
		ProvideRateLimiter,
		ProvideStudyHandler,
		ProvideApp,
	)
	return nil, nil
}
