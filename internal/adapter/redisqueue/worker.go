package redisqueue

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/user/feed-ingest/internal/entity"
	"github.com/user/feed-ingest/pkg/metrics"
)

// Handler executes one firing of a scrape job.
type Handler func(ctx context.Context, data entity.ScrapeJobData) error

// promoteSchedulersScript atomically moves due recurring schedules onto the
// pending list and re-arms their timers. A timer whose spec was removed in
// the meantime is dropped.
var promoteSchedulersScript = redis.NewScript(`
local due = redis.call('ZRANGEBYSCORE', KEYS[1], '-inf', ARGV[1], 'LIMIT', 0, ARGV[2])
for _, key in ipairs(due) do
	local raw = redis.call('HGET', KEYS[2], key)
	if raw then
		local spec = cjson.decode(raw)
		redis.call('ZADD', KEYS[1], ARGV[1] + spec.everyMs, key)
		local fired = cjson.encode({id = key .. ':' .. ARGV[1], data = spec.payload, attempt = 0})
		redis.call('LPUSH', KEYS[3], fired)
	else
		redis.call('ZREM', KEYS[1], key)
	end
end
return #due
`)

// promoteDelayedScript atomically moves due delayed jobs onto the pending list.
var promoteDelayedScript = redis.NewScript(`
local due = redis.call('ZRANGEBYSCORE', KEYS[1], '-inf', ARGV[1], 'LIMIT', 0, ARGV[2])
for _, raw in ipairs(due) do
	redis.call('ZREM', KEYS[1], raw)
	redis.call('LPUSH', KEYS[2], raw)
end
return #due
`)

// Worker drives the queue: it promotes due schedules and due retries, pops
// pending jobs and executes them. Failed firings are retried with exponential
// backoff and dead-lettered after maxAttempts; the recurring schedule that
// produced the firing is never touched by execution failures.
type Worker struct {
	queue        *Queue
	handler      Handler
	poll         time.Duration
	maxAttempts  int
	initialDelay time.Duration
}

// NewWorker creates a worker with the service-wide retry policy.
func NewWorker(queue *Queue, handler Handler, poll time.Duration, maxAttempts int, initialDelay time.Duration) *Worker {
	return &Worker{
		queue:        queue,
		handler:      handler,
		poll:         poll,
		maxAttempts:  maxAttempts,
		initialDelay: initialDelay,
	}
}

// Run processes the queue until ctx is cancelled.
func (w *Worker) Run(ctx context.Context) {
	slog.Info("Queue worker started", "poll", w.poll, "max_attempts", w.maxAttempts)
	w.reclaim(ctx)

	ticker := time.NewTicker(w.poll)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("Queue worker shutting down")
			return
		case <-ticker.C:
			w.tick(ctx)
		}
	}
}

func (w *Worker) tick(ctx context.Context) {
	now := time.Now().UnixMilli()

	if err := promoteSchedulersScript.Run(ctx, w.queue.client,
		[]string{timersKey, schedulersKey, pendingKey}, now, 100).Err(); err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("Failed to promote due schedules", "error", err)
	}

	if err := promoteDelayedScript.Run(ctx, w.queue.client,
		[]string{delayedKey, pendingKey}, now, 100).Err(); err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("Failed to promote delayed jobs", "error", err)
	}

	if depth, err := w.queue.client.LLen(ctx, pendingKey).Result(); err == nil {
		metrics.JobsInQueue.Set(float64(depth))
	}

	for ctx.Err() == nil {
		raw, err := w.queue.client.LMove(ctx, pendingKey, activeKey, "RIGHT", "LEFT").Result()
		if errors.Is(err, redis.Nil) {
			return
		}
		if err != nil {
			slog.Error("Failed to pop pending job", "error", err)
			return
		}
		w.execute(ctx, raw)
		if err := w.queue.client.LRem(ctx, activeKey, 1, raw).Err(); err != nil {
			slog.Error("Failed to clear active job", "error", err)
		}
	}
}

// reclaim pushes jobs left on the active list by a crashed run back onto
// pending, so every popped firing is eventually executed. The service runs a
// single worker per queue, so nothing can still be working on these.
func (w *Worker) reclaim(ctx context.Context) {
	requeued := 0
	for {
		_, err := w.queue.client.LMove(ctx, activeKey, pendingKey, "RIGHT", "LEFT").Result()
		if errors.Is(err, redis.Nil) {
			break
		}
		if err != nil {
			slog.Error("Failed to reclaim active job", "error", err)
			return
		}
		requeued++
	}
	if requeued > 0 {
		slog.Warn("Requeued jobs left active by a previous run", "count", requeued)
	}
}

func (w *Worker) execute(ctx context.Context, raw string) {
	var j job
	if err := json.Unmarshal([]byte(raw), &j); err != nil {
		slog.Error("Dropping unparseable job", "raw", raw, "error", err)
		return
	}

	err := w.handler(ctx, j.Data)
	if err == nil {
		metrics.JobExecutionsTotal.WithLabelValues("success").Inc()
		return
	}

	j.Attempt++
	slog.Warn("Job execution failed", "job_id", j.ID, "attempt", j.Attempt, "error", err)

	updated, marshalErr := json.Marshal(j)
	if marshalErr != nil {
		slog.Error("Failed to marshal failed job", "job_id", j.ID, "error", marshalErr)
		return
	}

	if j.Attempt >= w.maxAttempts {
		metrics.JobExecutionsTotal.WithLabelValues("dead_letter").Inc()
		slog.Error("Job exhausted its attempts, dead-lettering", "job_id", j.ID, "attempts", j.Attempt)
		if pushErr := w.queue.client.LPush(ctx, deadLetterKey, string(updated)).Err(); pushErr != nil {
			slog.Error("Failed to dead-letter job", "job_id", j.ID, "error", pushErr)
		}
		return
	}

	metrics.JobExecutionsTotal.WithLabelValues("retry").Inc()
	delay := backoff(w.initialDelay, j.Attempt)
	due := float64(time.Now().Add(delay).UnixMilli())
	if zErr := w.queue.client.ZAdd(ctx, delayedKey, redis.Z{Score: due, Member: string(updated)}).Err(); zErr != nil {
		slog.Error("Failed to schedule retry", "job_id", j.ID, "error", zErr)
	}
}

// backoff returns the delay before retry number attempt (1-based): the
// initial delay grows by a factor of three per attempt, with up to 50%
// jitter on top, giving roughly 5m, 15m and 45-70m for the default policy.
func backoff(initial time.Duration, attempt int) time.Duration {
	base := initial
	for i := 1; i < attempt; i++ {
		base *= 3
	}
	jitter := time.Duration(rand.Int63n(int64(base)/2 + 1))
	return base + jitter
}
