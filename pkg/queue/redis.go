package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"EventPulse/pkg/logger"

	"github.com/redis/go-redis/v9"
)

const (
	popTimeout = 1 * time.Second
	sweepEvery = 5 * time.Second
	keyPrefix  = "eventpulse:jobs"
)

// RedisQueue runs registered jobs off a Redis list. Study runs are the only
// workload: the API enqueues StudyParams, workers BRPOP and execute. Failed
// jobs are parked in a sorted set scored by their retry deadline and swept
// back onto the list; jobs that exhaust their retries land on a dead-letter
// list for inspection.
type RedisQueue struct {
	logger *logger.Logger
	cfg    Config
	client *redis.Client
	jobs   map[string]Job

	mu      sync.Mutex
	running bool
	wg      sync.WaitGroup
	ctx     context.Context
	cancel  context.CancelFunc
}

func NewRedisQueue(lgr *logger.Logger, cfg Config, client *redis.Client) *RedisQueue {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = 10 * time.Second
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &RedisQueue{
		logger: lgr,
		cfg:    cfg,
		client: client,
		jobs:   make(map[string]Job),
		ctx:    ctx,
		cancel: cancel,
	}
}

// RegisterJob routes envelopes of job.Type() to job.
func (q *RedisQueue) RegisterJob(job Job) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if _, exists := q.jobs[job.Type()]; exists {
		q.logger.Warn("job already registered", logger.String("job", job.Name()))
		return
	}
	q.jobs[job.Type()] = job
	q.logger.Info("job registered",
		logger.String("job", job.Name()),
		logger.String("type", job.Type()))
}

// Start pings Redis and spawns the worker pool and the retry sweeper.
func (q *RedisQueue) Start() error {
	q.mu.Lock()
	if q.running {
		q.mu.Unlock()
		return fmt.Errorf("queue already running")
	}
	q.running = true
	q.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := q.client.Ping(ctx).Err(); err != nil {
		q.mu.Lock()
		q.running = false
		q.mu.Unlock()
		return fmt.Errorf("redis ping: %w", err)
	}

	for i := 0; i < q.cfg.Workers; i++ {
		q.wg.Add(1)
		go q.worker(i)
	}
	q.wg.Add(1)
	go q.retrySweeper()

	q.logger.Info("job queue started",
		logger.Int("workers", q.cfg.Workers),
		logger.String("addr", q.client.Options().Addr))
	return nil
}

// Stop cancels the workers and waits for them, bounded by ctx.
func (q *RedisQueue) Stop(ctx context.Context) error {
	q.mu.Lock()
	if !q.running {
		q.mu.Unlock()
		return nil
	}
	q.running = false
	q.mu.Unlock()

	q.cancel()

	done := make(chan struct{})
	go func() {
		q.wg.Wait()
		close(done)
	}()

	select {
	case <-ctx.Done():
		q.logger.Warn("timeout waiting for queue workers", logger.Error(ctx.Err()))
		return fmt.Errorf("queue stop: %w", ctx.Err())
	case <-done:
		q.logger.Info("job queue stopped")
		return nil
	}
}

// PublishMessage marshals payload and pushes one envelope onto the list.
// Implements QueueService.
func (q *RedisQueue) PublishMessage(ctx context.Context, jobType string, payload interface{}) error {
	q.mu.Lock()
	running := q.running
	_, known := q.jobs[jobType]
	q.mu.Unlock()

	if !running {
		return fmt.Errorf("queue not running")
	}
	if !known {
		return fmt.Errorf("no job registered for type %q", jobType)
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	env := envelope{
		ID:         strconv.FormatInt(time.Now().UnixNano(), 10),
		Type:       jobType,
		Payload:    raw,
		EnqueuedAt: time.Now().UTC(),
	}
	data, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("marshal envelope: %w", err)
	}

	if err := q.client.LPush(ctx, q.listKey(), data).Err(); err != nil {
		return fmt.Errorf("enqueue %s: %w", jobType, err)
	}
	return nil
}

func (q *RedisQueue) worker(id int) {
	defer q.wg.Done()
	q.logger.Info("queue worker started", logger.Int("worker_id", id))

	for {
		select {
		case <-q.ctx.Done():
			q.logger.Info("queue worker stopping", logger.Int("worker_id", id))
			return
		default:
		}

		env, ok := q.pop()
		if !ok {
			continue
		}
		q.dispatch(env)
	}
}

// pop blocks on the list for up to popTimeout; (zero, false) on idle or error.
func (q *RedisQueue) pop() (envelope, bool) {
	res, err := q.client.BRPop(q.ctx, popTimeout, q.listKey()).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return envelope{}, false
		}
		q.logger.Error("brpop error", logger.Error(err))
		time.Sleep(popTimeout)
		return envelope{}, false
	}
	if len(res) < 2 {
		return envelope{}, false
	}

	var env envelope
	if err := json.Unmarshal([]byte(res[1]), &env); err != nil {
		q.logger.Error("bad envelope dropped", logger.Error(err))
		return envelope{}, false
	}
	return env, true
}

func (q *RedisQueue) dispatch(env envelope) {
	q.mu.Lock()
	job, exists := q.jobs[env.Type]
	q.mu.Unlock()
	if !exists {
		q.logger.Error("no job for envelope",
			logger.String("type", env.Type), logger.String("id", env.ID))
		return
	}

	start := time.Now()
	err := job.Handle(q.ctx, env.Payload)
	if err == nil {
		return
	}
	if errors.Is(err, context.Canceled) {
		q.logger.Warn("job cancelled",
			logger.String("id", env.ID),
			logger.String("job", job.Name()),
			logger.Duration("elapsed", time.Since(start)))
		return
	}
	q.fail(env, job, err)
}

func (q *RedisQueue) fail(env envelope, job Job, cause error) {
	q.logger.Error("job failed",
		logger.String("id", env.ID),
		logger.String("job", job.Name()),
		logger.Int("attempt", env.Attempts+1),
		logger.Error(cause))

	if env.Attempts >= q.cfg.RetryLimit {
		q.logger.Error("retries exhausted, dead-lettering",
			logger.String("id", env.ID), logger.String("job", job.Name()))
		if data, err := json.Marshal(env); err == nil {
			if err := q.client.LPush(context.Background(), q.deadKey(), data).Err(); err != nil {
				q.logger.Error("dead-letter push", logger.Error(err))
			}
		}
		return
	}

	env.Attempts++
	due := time.Now().Add(q.cfg.RetryDelay)
	data, err := json.Marshal(env)
	if err != nil {
		q.logger.Error("marshal retry envelope", logger.Error(err))
		return
	}
	err = q.client.ZAdd(context.Background(), q.retryKey(), redis.Z{
		Score:  float64(due.Unix()),
		Member: data,
	}).Err()
	if err != nil {
		q.logger.Error("schedule retry", logger.Error(err))
		return
	}
	q.logger.Info("retry scheduled",
		logger.String("id", env.ID),
		logger.Int("attempt", env.Attempts),
		logger.String("due", due.Format(time.RFC3339)))
}

// retrySweeper periodically moves due retries back onto the list.
func (q *RedisQueue) retrySweeper() {
	defer q.wg.Done()

	ticker := time.NewTicker(sweepEvery)
	defer ticker.Stop()

	for {
		select {
		case <-q.ctx.Done():
			return
		case <-ticker.C:
			q.requeueDue()
		}
	}
}

func (q *RedisQueue) requeueDue() {
	now := strconv.FormatInt(time.Now().Unix(), 10)
	due, err := q.client.ZRangeByScore(q.ctx, q.retryKey(), &redis.ZRangeBy{
		Min: "0",
		Max: now,
	}).Result()
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			q.logger.Error("fetch due retries", logger.Error(err))
		}
		return
	}

	for _, member := range due {
		pipe := q.client.TxPipeline()
		pipe.ZRem(q.ctx, q.retryKey(), member)
		pipe.LPush(q.ctx, q.listKey(), member)
		if _, err := pipe.Exec(q.ctx); err != nil {
			if !errors.Is(err, context.Canceled) {
				q.logger.Error("requeue retry", logger.Error(err))
			}
			return
		}
	}
}

func (q *RedisQueue) listKey() string  { return keyPrefix + ":pending" }
func (q *RedisQueue) retryKey() string { return keyPrefix + ":retry" }
func (q *RedisQueue) deadKey() string  { return keyPrefix + ":dead" }
