package usecase

import (
	"context"
	"sync"
	"time"

	"EventPulse/internal/domain/models"
	drepo "EventPulse/internal/domain/repository"
	applogger "EventPulse/pkg/logger"
	"EventPulse/pkg/util"
)

// BarCollector consumes the live trade stream and folds trades into hourly
// OHLCV bars, flushing each bar to the store once its hour has closed.
type BarCollector struct {
	stream  drepo.MarketStream
	store   drepo.BarStore
	metrics drepo.Metrics
	logger  *applogger.Logger

	flushInterval time.Duration

	mu        sync.Mutex
	building  map[string]*models.Bar
	completed []models.Bar
}

// NewBarCollector creates a new BarCollector instance.
func NewBarCollector(stream drepo.MarketStream, store drepo.BarStore, metrics drepo.Metrics, lgr *applogger.Logger) *BarCollector {
	return &BarCollector{
		stream:        stream,
		store:         store,
		metrics:       metrics,
		logger:        lgr,
		flushInterval: 30 * time.Second,
		building:      make(map[string]*models.Bar),
	}
}

// IsConnected returns true if the market stream is connected.
func (c *BarCollector) IsConnected() bool {
	return c.stream.IsConnected()
}

func (c *BarCollector) Start(ctx context.Context) error {
	if err := c.stream.Connect(ctx); err != nil {
		return err
	}
	if err := c.stream.Subscribe(ctx); err != nil {
		return err
	}
	trCh, errCh := c.stream.Read(ctx)
	go c.consume(ctx, trCh, errCh)
	go c.flushLoop(ctx)
	return nil
}

func (c *BarCollector) consume(ctx context.Context, trCh <-chan *models.Trade, errCh <-chan error) {
	for {
		select {
		case <-ctx.Done():
			return
		case err := <-errCh:
			if err != nil {
				c.metrics.RecordError("stream")
				_ = c.stream.Reconnect(ctx)
			}
		case t := <-trCh:
			if t == nil {
				continue
			}
			c.Ingest(t)
			c.metrics.RecordLastPrice(t.Symbol, t.Price)
		}
	}
}

// Ingest folds one trade into the bar for its symbol and hour. A trade in a
// new hour seals the previous bar for flushing.
func (c *BarCollector) Ingest(t *models.Trade) {
	if t.Symbol == "" || t.Timestamp == 0 {
		return
	}
	bucket := util.HourBucket(t.Timestamp)

	c.mu.Lock()
	defer c.mu.Unlock()

	cur, ok := c.building[t.Symbol]
	if !ok || !cur.TS.Equal(bucket) {
		if ok {
			c.completed = append(c.completed, *cur)
		}
		c.building[t.Symbol] = &models.Bar{
			TS:     bucket,
			Symbol: t.Symbol,
			Open:   t.Price,
			High:   t.Price,
			Low:    t.Price,
			Close:  t.Price,
			Volume: t.Volume,
		}
		return
	}

	if t.Price > cur.High {
		cur.High = t.Price
	}
	if t.Price < cur.Low {
		cur.Low = t.Price
	}
	cur.Close = t.Price
	cur.Volume += t.Volume
}

func (c *BarCollector) flushLoop(ctx context.Context) {
	ticker := time.NewTicker(c.flushInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := c.Flush(ctx); err != nil {
				c.metrics.RecordError("bar_flush")
				c.logger.Error("bar flush failed", applogger.Error(err))
			}
		}
	}
}

// Flush writes sealed bars to the store. Bars are kept on failure and retried
// on the next tick.
func (c *BarCollector) Flush(ctx context.Context) error {
	c.mu.Lock()
	batch := c.completed
	c.completed = nil
	c.mu.Unlock()

	if len(batch) == 0 {
		return nil
	}

	start := time.Now()
	if err := c.store.StoreBars(ctx, batch); err != nil {
		c.mu.Lock()
		c.completed = append(batch, c.completed...)
		c.mu.Unlock()
		return err
	}
	c.metrics.RecordLatency("bar_store_seconds", time.Since(start).Seconds())
	return nil
}

// Shutdown seals in-progress bars, flushes everything, and closes the stream.
func (c *BarCollector) Shutdown(ctx context.Context) error {
	c.mu.Lock()
	for sym, bar := range c.building {
		c.completed = append(c.completed, *bar)
		delete(c.building, sym)
	}
	c.mu.Unlock()

	if err := c.Flush(ctx); err != nil {
		c.logger.Warn("final bar flush failed", applogger.Error(err))
	}
	return c.stream.Close()
}
