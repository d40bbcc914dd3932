package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	drepo "EventPulse/internal/domain/repository"
	"EventPulse/internal/usecase"
	pkgch "EventPulse/pkg/clickhouse"
	"EventPulse/pkg/config"
	xhttp "EventPulse/pkg/http"
	pkgkafka "EventPulse/pkg/kafka"
	applogger "EventPulse/pkg/logger"
	pkgqueue "EventPulse/pkg/queue"
)

// App encapsulates the entire application lifecycle.
type App struct {
	cfg          *config.Config
	logger       *applogger.Logger
	collector    *usecase.BarCollector
	consumer     *pkgkafka.Consumer
	eventHandler pkgkafka.MessageHandler
	jobQueue     *pkgqueue.RedisQueue
	chClient     *pkgch.Client
	publisher    drepo.SummaryPublisher
	httpServer   *xhttp.Server
	httpHandler  xhttp.Handler
}

// New creates a new App instance with all dependencies.
func New(
	cfg *config.Config,
	lgr *applogger.Logger,
	collector *usecase.BarCollector,
	consumer *pkgkafka.Consumer,
	eventHandler pkgkafka.MessageHandler,
	jobQueue *pkgqueue.RedisQueue,
	chClient *pkgch.Client,
	publisher drepo.SummaryPublisher,
	httpHandler xhttp.Handler,
) *App {
	return &App{
		cfg:          cfg,
		logger:       lgr,
		collector:    collector,
		consumer:     consumer,
		eventHandler: eventHandler,
		jobQueue:     jobQueue,
		chClient:     chClient,
		publisher:    publisher,
		httpHandler:  httpHandler,
	}
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	l := a.logger

	a.httpServer = xhttp.NewServer(a.httpHandler,
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithServerTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
		xhttp.WithLogger(a.logger),
	)

	if a.collector != nil && a.cfg.Stream.Enabled {
		if err := a.collector.Start(ctx); err != nil {
			l.Error("bar collector start error", applogger.Error(err))
			return err
		}
		l.Info("bar collector started", applogger.Strings("symbols", a.cfg.Stream.Symbols))
	}

	if a.consumer != nil && a.eventHandler != nil {
		a.consumer.RegisterHandler(a.eventHandler)
		go func() {
			if err := a.consumer.Start(); err != nil {
				l.Error("kafka consumer error", applogger.Error(err))
			}
		}()
		l.Info("kafka consumer started", applogger.String("topic", a.eventHandler.Topic()))
	}

	if a.jobQueue != nil {
		if err := a.jobQueue.Start(); err != nil {
			l.Error("job queue start error", applogger.Error(err))
			return err
		}
	}

	if err := a.httpServer.Start(); err != nil {
		l.Error("http server start error", applogger.Error(err))
		return err
	}
	l.Info("http server started", applogger.Int("port", a.cfg.Server.Port))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	l.Info("shutdown signal received")
	return a.shutdown(ctx)
}

// shutdown gracefully stops all services.
func (a *App) shutdown(ctx context.Context) error {
	l := a.logger
	l.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(ctx, a.cfg.Server.ShutdownTimeout)
	defer cancel()

	if a.collector != nil {
		if err := a.collector.Shutdown(shutdownCtx); err != nil {
			l.Warn("bar collector stop error", applogger.Error(err))
		}
	}

	if err := a.httpServer.Stop(shutdownCtx); err != nil {
		l.Error("http shutdown error", applogger.Error(err))
	}

	if a.consumer != nil {
		if err := a.consumer.Stop(shutdownCtx); err != nil {
			l.Warn("kafka consumer stop error", applogger.Error(err))
		}
	}

	if a.jobQueue != nil {
		if err := a.jobQueue.Stop(shutdownCtx); err != nil {
			l.Warn("job queue stop error", applogger.Error(err))
		}
	}

	if a.publisher != nil {
		if err := a.publisher.Close(); err != nil {
			l.Warn("summary publisher close error", applogger.Error(err))
		}
	}

	if a.chClient != nil {
		if err := a.chClient.Close(); err != nil {
			l.Warn("clickhouse close error", applogger.Error(err))
		}
	}

	l.Info("shutdown complete")
	return nil
}
