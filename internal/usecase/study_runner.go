package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"EventPulse/internal/domain/models"
	drepo "EventPulse/internal/domain/repository"
	"EventPulse/internal/services/study"
	applogger "EventPulse/pkg/logger"
	"EventPulse/pkg/queue"
)

// StudyParams names one study run: target symbol, optional benchmark, time
// range to pull data for, windows, and bootstrap settings.
type StudyParams struct {
	Symbol    string         `json:"symbol"`
	Benchmark string         `json:"benchmark,omitempty"`
	From      time.Time      `json:"from"`
	To        time.Time      `json:"to"`
	Windows   models.Windows `json:"windows"`
	Bootstrap bool           `json:"bootstrap"`
	NBoot     int            `json:"n_boot"`
	Seed      int64          `json:"seed"`
}

// StudyRunner loads bars and events, executes the event study, records
// metrics, and publishes a summary for downstream alerting. The publisher is
// optional; offline runs pass nil.
type StudyRunner struct {
	bars    drepo.BarStore
	events  drepo.EventStore
	pub     drepo.SummaryPublisher
	metrics drepo.Metrics
	logger  *applogger.Logger
}

// NewStudyRunner creates a new StudyRunner.
func NewStudyRunner(bars drepo.BarStore, events drepo.EventStore, pub drepo.SummaryPublisher, metrics drepo.Metrics, lgr *applogger.Logger) *StudyRunner {
	return &StudyRunner{bars: bars, events: events, pub: pub, metrics: metrics, logger: lgr}
}

// Run executes one study end to end.
func (r *StudyRunner) Run(ctx context.Context, p StudyParams) (*models.AggregateResult, error) {
	start := time.Now()
	r.metrics.RecordStudyRun(p.Symbol)

	bars, err := r.bars.GetBars(ctx, p.Symbol, p.From, p.To, drepo.DefaultInterval())
	if err != nil {
		r.metrics.RecordError("bars_load")
		return nil, fmt.Errorf("load bars %s: %w", p.Symbol, err)
	}

	var benchBars []models.Bar
	if p.Benchmark != "" && p.Benchmark != p.Symbol {
		benchBars, err = r.bars.GetBars(ctx, p.Benchmark, p.From, p.To, drepo.DefaultInterval())
		if err != nil {
			r.metrics.RecordError("bars_load")
			return nil, fmt.Errorf("load benchmark bars %s: %w", p.Benchmark, err)
		}
	}

	events, err := r.events.ListEvents(ctx, p.Symbol, p.From, p.To, 0)
	if err != nil {
		r.metrics.RecordError("events_load")
		return nil, fmt.Errorf("load events %s: %w", p.Symbol, err)
	}

	cfg := study.Config{
		Benchmark:     p.Benchmark,
		UseBootstrap:  p.Bootstrap,
		BootstrapIter: p.NBoot,
		Seed:          p.Seed,
	}

	res, err := study.Run(bars, events, p.Symbol, benchBars, cfg, p.Windows)
	if err != nil {
		r.metrics.RecordError("study_run")
		return nil, err
	}

	r.metrics.RecordEventsStudied(p.Symbol, len(res.PerEvent))
	r.metrics.RecordLatency("study_run_seconds", time.Since(start).Seconds())
	if v, ok := res.MeanCAR.LastDefined(); ok {
		r.metrics.RecordTerminalCAR(p.Symbol, v)
	}

	r.logger.Info("study completed",
		applogger.String("symbol", p.Symbol),
		applogger.String("benchmark", p.Benchmark),
		applogger.Int("events", len(res.PerEvent)),
		applogger.Bool("ci_valid", res.CARCI.Valid),
		applogger.Duration("elapsed", time.Since(start)))

	if r.pub != nil {
		if err := r.pub.Publish(ctx, Summarize(res, p.Benchmark)); err != nil {
			r.metrics.RecordError("summary_publish")
			r.logger.Warn("summary publish failed",
				applogger.String("symbol", p.Symbol), applogger.Error(err))
		}
	}

	return res, nil
}

// Summarize reduces a study result to the compact summary payload. NaN values
// become nil pointers so the summary stays JSON-encodable.
func Summarize(res *models.AggregateResult, benchmark string) *models.StudySummary {
	s := &models.StudySummary{
		Symbol:      res.Symbol,
		Benchmark:   benchmark,
		GeneratedAt: time.Now().UTC(),
		Events:      len(res.PerEvent),
	}
	if v, ok := res.MeanCAR.LastDefined(); ok {
		s.TerminalCAR = &v
	}
	if res.CARCI.Valid {
		low, high := res.CARCI.Low, res.CARCI.High
		s.CARLow = &low
		s.CARHigh = &high
	}
	return s
}

// studyJobType is the queue message type for asynchronous study runs.
const studyJobType = "study.run"

// StudyJob runs queued studies on the Redis queue workers.
type StudyJob struct {
	runner *StudyRunner
}

// NewStudyJob creates a queue job wrapping the runner.
func NewStudyJob(runner *StudyRunner) *StudyJob {
	return &StudyJob{runner: runner}
}

func (j *StudyJob) Name() string { return "study-runner" }

func (j *StudyJob) Type() string { return studyJobType }

func (j *StudyJob) Handle(ctx context.Context, payload json.RawMessage) error {
	var p StudyParams
	if err := json.Unmarshal(payload, &p); err != nil {
		return fmt.Errorf("study job payload: %w", err)
	}
	_, err := j.runner.Run(ctx, p)
	return err
}

// StudyJobType exposes the queue message type for publishers.
func StudyJobType() string { return studyJobType }

var _ queue.Job = (*StudyJob)(nil)
