package di

import (
	"context"
	"fmt"
	"time"

	"EventPulse/internal/domain/repository"
	"EventPulse/internal/handler/api"
	internalrepo "EventPulse/internal/repository"
	"EventPulse/internal/service/marketdata"
	"EventPulse/internal/service/ratelimit"
	"EventPulse/internal/usecase"
	"EventPulse/pkg/cache"
	pkgch "EventPulse/pkg/clickhouse"
	"EventPulse/pkg/config"
	xhttp "EventPulse/pkg/http"
	pkgkafka "EventPulse/pkg/kafka"
	applogger "EventPulse/pkg/logger"
	"EventPulse/pkg/metrics"
	pkgqueue "EventPulse/pkg/queue"
	"EventPulse/pkg/server"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	return applogger.New(&applogger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
}

// ProvideClickHouseClient creates a ClickHouse client and ensures the schema.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
		pkgch.WithAsyncInsert(cfg.ClickHouse.AsyncInsert, cfg.ClickHouse.WaitForAsync),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout, cfg.ClickHouse.WriteTimeout),
		pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}
	return client, nil
}

// ProvideBarStore creates the ClickHouse bar store and ensures its table.
func ProvideBarStore(chClient *pkgch.Client) (repository.BarStore, error) {
	store := internalrepo.NewClickHouseBarStore(chClient)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := store.Init(ctx); err != nil {
		return nil, fmt.Errorf("bar store init: %w", err)
	}
	return store, nil
}

// ProvideEventStore creates the ClickHouse event store and ensures its table.
func ProvideEventStore(chClient *pkgch.Client) (repository.EventStore, error) {
	store := internalrepo.NewClickHouseEventStore(chClient)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := store.Init(ctx); err != nil {
		return nil, fmt.Errorf("event store init: %w", err)
	}
	return store, nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideKafkaProducer creates a Kafka producer, or nil when Kafka is not
// configured.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	if len(cfg.Kafka.Brokers) == 0 {
		return nil, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithBatchSize(cfg.Kafka.Producer.BatchSize),
		pkgkafka.WithBatchBytes(cfg.Kafka.Producer.BatchBytes),
		pkgkafka.WithBatchTimeout(cfg.Kafka.Producer.Linger),
		pkgkafka.WithTimeouts(cfg.Kafka.Producer.WriteTimeout, cfg.Kafka.Producer.ReadTimeout),
		pkgkafka.WithMaxAttempts(cfg.Kafka.Producer.MaxAttempts),
		pkgkafka.WithAsync(cfg.Kafka.Producer.Async),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return producer, nil
}

// ProvideSummaryPublisher wraps the producer, or nil without Kafka.
func ProvideSummaryPublisher(producer *pkgkafka.Producer, cfg *config.Config) repository.SummaryPublisher {
	if producer == nil || cfg.Kafka.SummariesTopic == "" {
		return nil
	}
	return internalrepo.NewKafkaSummaryPublisher(producer, cfg.Kafka.SummariesTopic)
}

// ProvideKafkaConsumer creates a Kafka consumer, or nil when event ingest is
// not configured.
func ProvideKafkaConsumer(cfg *config.Config) (*pkgkafka.Consumer, error) {
	if len(cfg.Kafka.Brokers) == 0 || cfg.Kafka.EventsTopic == "" {
		return nil, nil
	}
	consumer, err := pkgkafka.NewConsumer(
		pkgkafka.WithConsumerBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithConsumerGroupID(cfg.Kafka.Consumer.GroupID),
		pkgkafka.WithConsumerWorkers(cfg.Kafka.Consumer.Workers),
		pkgkafka.WithConsumerBufferSize(cfg.Kafka.Consumer.BufferSize),
		pkgkafka.WithConsumerRetry(cfg.Kafka.Consumer.RetryMax, cfg.Kafka.Consumer.BackoffMin, cfg.Kafka.Consumer.BackoffMax),
		pkgkafka.WithConsumerDLQ(cfg.Kafka.Consumer.DLQTopic),
		pkgkafka.WithConsumerFetch(cfg.Kafka.Consumer.MinBytes, cfg.Kafka.Consumer.MaxBytes),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka consumer: %w", err)
	}
	return consumer, nil
}

// ProvideEventIngestHandler registers the handler for the events topic.
func ProvideEventIngestHandler(store repository.EventStore, m repository.Metrics, cfg *config.Config) pkgkafka.MessageHandler {
	if cfg.Kafka.EventsTopic == "" {
		return nil
	}
	return usecase.NewEventIngestHandler(cfg.Kafka.EventsTopic, store, m)
}

// ProvideEventSource creates the REST event feed, or nil when disabled.
func ProvideEventSource(cfg *config.Config) repository.EventSource {
	if !cfg.EventFeed.Enabled || cfg.EventFeed.BaseURL == "" {
		return nil
	}
	timeout := cfg.EventFeed.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return internalrepo.NewHTTPEventSource(cfg.EventFeed.BaseURL, cfg.EventFeed.APIKey, timeout)
}

// ProvideMarketStream creates the WebSocket trade stream, or nil when the
// stream is disabled.
func ProvideMarketStream(cfg *config.Config, lgr *applogger.Logger) repository.MarketStream {
	if !cfg.Stream.Enabled {
		return nil
	}
	return marketdata.New(
		cfg.Stream.APIKey,
		cfg.Stream.WebSocketURL,
		cfg.Stream.Symbols,
		cfg.Stream.ReconnectDelay,
		cfg.Stream.PingInterval,
		lgr,
	)
}

// ProvideBarCollector creates the bar collector use case, or nil without a
// stream.
func ProvideBarCollector(stream repository.MarketStream, store repository.BarStore, m repository.Metrics, lgr *applogger.Logger) *usecase.BarCollector {
	if stream == nil {
		return nil
	}
	return usecase.NewBarCollector(stream, store, m, lgr)
}

// ProvideRedisCache creates the Redis cache client, or nil when Redis is
// disabled.
func ProvideRedisCache(cfg *config.Config) (*cache.RedisCache, error) {
	if !cfg.Redis.Enabled {
		return nil, nil
	}
	rc, err := cache.NewRedisCache(
		cache.WithAddr(cfg.Redis.Host, cfg.Redis.Port),
		cache.WithAuth(cfg.Redis.Password, cfg.Redis.DB),
	)
	if err != nil {
		return nil, fmt.Errorf("redis cache: %w", err)
	}
	return rc, nil
}

// ProvideCacheService layers a local cache over Redis when available.
func ProvideCacheService(rc *cache.RedisCache) cache.Service {
	local := cache.NewMemoryCache()
	if rc == nil {
		return local
	}
	return cache.NewLayeredCache(local, rc)
}

// ProvideStudyRunner creates the study runner use case.
func ProvideStudyRunner(
	bars repository.BarStore,
	events repository.EventStore,
	pub repository.SummaryPublisher,
	m repository.Metrics,
	lgr *applogger.Logger,
) *usecase.StudyRunner {
	return usecase.NewStudyRunner(bars, events, pub, m, lgr)
}

// ProvideJobQueue creates the Redis-backed study job queue, or nil when the
// queue is disabled.
func ProvideJobQueue(cfg *config.Config, lgr *applogger.Logger, rc *cache.RedisCache, runner *usecase.StudyRunner) *pkgqueue.RedisQueue {
	if rc == nil || !cfg.Redis.Queue.Enabled {
		return nil
	}
	q := pkgqueue.NewRedisQueue(lgr, pkgqueue.Config{
		Workers:    cfg.Redis.Queue.Workers,
		RetryLimit: cfg.Redis.Queue.RetryLimit,
		RetryDelay: cfg.Redis.Queue.RetryDelay,
	}, rc.Client())
	q.RegisterJob(usecase.NewStudyJob(runner))
	return q
}

// ProvideQueueService exposes the queue as a publisher for the API layer.
func ProvideQueueService(q *pkgqueue.RedisQueue) pkgqueue.QueueService {
	if q == nil {
		return nil
	}
	return q
}

// ProvideRateLimiter creates the per-client token bucket.
func ProvideRateLimiter() *ratelimit.Limiter {
	return ratelimit.New()
}

// ProvideStudyHandler creates the Echo API handler.
func ProvideStudyHandler(
	lgr *applogger.Logger,
	runner *usecase.StudyRunner,
	bars repository.BarStore,
	events repository.EventStore,
	feed repository.EventSource,
	cacheSvc cache.Service,
	q pkgqueue.QueueService,
	limiter *ratelimit.Limiter,
	cfg *config.Config,
) xhttp.Handler {
	return api.NewStudyEchoHandler(lgr, runner, bars, events, feed, cacheSvc, q, limiter, cfg)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	lgr *applogger.Logger,
	collector *usecase.BarCollector,
	consumer *pkgkafka.Consumer,
	eventHandler pkgkafka.MessageHandler,
	jobQueue *pkgqueue.RedisQueue,
	chClient *pkgch.Client,
	publisher repository.SummaryPublisher,
	httpHandler xhttp.Handler,
) *server.App {
	return server.New(cfg, lgr, collector, consumer, eventHandler, jobQueue, chClient, publisher, httpHandler)
}
