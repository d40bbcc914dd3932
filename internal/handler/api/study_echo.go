package api

import (
	"errors"
	"time"

	models "EventPulse/internal/domain/models"
	domrepo "EventPulse/internal/domain/repository"
	"EventPulse/internal/service/ratelimit"
	"EventPulse/internal/services/study"
	"EventPulse/internal/usecase"
	"EventPulse/pkg/cache"
	"EventPulse/pkg/config"
	xhttp "EventPulse/pkg/http"
	xlogger "EventPulse/pkg/logger"
	"EventPulse/pkg/queue"

	"github.com/labstack/echo/v4"
)

// StudyEchoHandler serves the event-study API.
type StudyEchoHandler struct {
	logger  *xlogger.Logger
	runner  *usecase.StudyRunner
	bars    domrepo.BarStore
	events  domrepo.EventStore
	feed    domrepo.EventSource
	cache   cache.Service
	queue   queue.QueueService
	limiter *ratelimit.Limiter
	cfg     *config.Config
}

func NewStudyEchoHandler(
	logger *xlogger.Logger,
	runner *usecase.StudyRunner,
	bars domrepo.BarStore,
	events domrepo.EventStore,
	feed domrepo.EventSource,
	cacheSvc cache.Service,
	q queue.QueueService,
	limiter *ratelimit.Limiter,
	cfg *config.Config,
) *StudyEchoHandler {
	return &StudyEchoHandler{
		logger:  logger,
		runner:  runner,
		bars:    bars,
		events:  events,
		feed:    feed,
		cache:   cacheSvc,
		queue:   q,
		limiter: limiter,
		cfg:     cfg,
	}
}

func (h *StudyEchoHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.POST("/study", h.Study)
	g.GET("/study", h.Study)
	g.GET("/events", h.Events)
	g.POST("/events/backfill", h.BackfillEvents)
	g.GET("/bars", h.Bars)
	g.GET("/health", h.Health)
}

// Study runs (or queues) an event study for one symbol.
func (h *StudyEchoHandler) Study(c echo.Context) error {
	if h.limiter != nil && h.cfg.RateLimit.Enabled {
		if !h.limiter.Allow(c.RealIP(), h.cfg.RateLimit.Capacity, h.cfg.RateLimit.RefillPerSec) {
			return xhttp.TooManyRequestsResponse(c, "study rate limit exceeded")
		}
	}

	req := &models.StudyRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	p := h.toParams(req)

	if req.Async && h.queue != nil {
		if err := h.queue.PublishMessage(c.Request().Context(), usecase.StudyJobType(), p); err != nil {
			h.logger.Error("study enqueue error", xlogger.Error(err))
			return xhttp.AppErrorResponse(c, err)
		}
		return xhttp.AcceptedResponse(c, &StudyQueuedResponse{Symbol: p.Symbol, Queued: true})
	}

	cacheKey := cache.GenerateKeyWithParams("study",
		p.Symbol, p.Benchmark,
		p.Windows.Estimation.Start, p.Windows.Estimation.End,
		p.Windows.Event.Start, p.Windows.Event.End,
		p.Bootstrap, p.NBoot, p.Seed,
		p.From.Unix(), p.To.Unix())
	if h.cache != nil {
		var cached StudyResponse
		if err := h.cache.Get(c.Request().Context(), cacheKey, &cached); err == nil {
			return xhttp.SuccessResponse(c, &cached)
		}
	}

	res, err := h.runner.Run(c.Request().Context(), p)
	if err != nil {
		if errors.Is(err, study.ErrNoEvents) {
			return xhttp.NotFoundResponse(c, err.Error())
		}
		h.logger.Error("study usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}

	resp := ToStudyResponse(res, p.Benchmark)
	if h.cache != nil {
		ttl := h.cfg.Redis.CacheTTL
		if ttl <= 0 {
			ttl = 5 * time.Minute
		}
		if err := h.cache.Set(c.Request().Context(), cacheKey, resp, ttl); err != nil {
			h.logger.Warn("study cache set failed", xlogger.Error(err))
		}
	}
	return xhttp.SuccessResponse(c, resp)
}

// Events lists stored calendar events.
func (h *StudyEchoHandler) Events(c echo.Context) error {
	req := &models.EventsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	from, to := h.timeRange(req.From, req.To)
	events, err := h.events.ListEvents(c.Request().Context(), req.Symbol, from, to, req.Limit)
	if err != nil {
		h.logger.Error("events list error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.ListResponse(c, toEventDTOs(events), int64(len(events)))
}

// BackfillEvents pulls events from the configured feed into the store.
func (h *StudyEchoHandler) BackfillEvents(c echo.Context) error {
	if h.feed == nil {
		return xhttp.NotFoundResponse(c, "event feed not configured")
	}

	req := &models.EventsBackfillRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	from, to := h.timeRange(req.From, req.To)
	events, err := h.feed.FetchEvents(c.Request().Context(), req.Symbol, from, to)
	if err != nil {
		h.logger.Error("event backfill fetch error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	if len(events) > 0 {
		if err := h.events.StoreEvents(c.Request().Context(), events); err != nil {
			h.logger.Error("event backfill store error", xlogger.Error(err))
			return xhttp.AppErrorResponse(c, err)
		}
	}
	h.logger.Info("event backfill completed",
		xlogger.String("symbol", req.Symbol), xlogger.Int("stored", len(events)))
	return xhttp.SuccessResponse(c, map[string]int{"stored": len(events)})
}

// Bars returns stored OHLCV bars at the requested interval.
func (h *StudyEchoHandler) Bars(c echo.Context) error {
	req := &models.BarsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	iv := domrepo.NormalizeInterval(req.Interval)
	from, to := h.timeRange(req.From, req.To)
	bars, err := h.bars.GetBars(c.Request().Context(), req.Symbol, from, to, iv)
	if err != nil {
		h.logger.Error("bars query error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	if req.Limit > 0 && len(bars) > req.Limit {
		bars = bars[len(bars)-req.Limit:]
	}
	return xhttp.ListResponse(c, toBarDTOs(bars), int64(len(bars)))
}

// Health checks storage connectivity.
func (h *StudyEchoHandler) Health(c echo.Context) error {
	if err := h.bars.Health(c.Request().Context()); err != nil {
		return xhttp.AppErrorResponse(c, xhttp.InternalErrorf("storage unavailable: %v", err))
	}
	return xhttp.SuccessResponse(c, map[string]string{"status": "ok"})
}

func (h *StudyEchoHandler) toParams(req *models.StudyRequest) usecase.StudyParams {
	from, to := h.timeRange(req.From, req.To)

	benchmark := req.Benchmark
	if benchmark == "" {
		benchmark = h.cfg.Study.Benchmark
	}

	bootstrap := h.cfg.Study.UseBootstrap
	if req.Bootstrap != nil {
		bootstrap = *req.Bootstrap
	}

	nBoot := req.NBoot
	if nBoot <= 0 {
		nBoot = h.cfg.Study.BootstrapIter
	}

	return usecase.StudyParams{
		Symbol:    req.Symbol,
		Benchmark: benchmark,
		From:      from,
		To:        to,
		Windows: models.Windows{
			Estimation: models.Window{Start: req.EstStart, End: req.EstEnd},
			Event:      models.Window{Start: req.EventStart, End: req.EventEnd},
		},
		Bootstrap: bootstrap,
		NBoot:     nBoot,
		Seed:      h.cfg.Study.Seed,
	}
}

func (h *StudyEchoHandler) timeRange(fromStr, toStr string) (time.Time, time.Time) {
	lookback := h.cfg.Study.Lookback
	if lookback <= 0 {
		lookback = 90 * 24 * time.Hour
	}
	to := xhttp.ParseTimeDefault(toStr, time.Now().UTC())
	from := xhttp.ParseTimeDefault(fromStr, to.Add(-lookback))
	return from.Truncate(time.Hour), to.Truncate(time.Hour)
}
