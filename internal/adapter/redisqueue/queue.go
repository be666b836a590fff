// Package redisqueue is the durable queue collaborator: recurring schedules,
// delayed retries and dead-lettering on top of Redis. The atomicity that the
// scheduler component delegates to this queue is implemented with Lua
// scripts, so concurrent upserts of the same key always leave exactly one
// active schedule.
package redisqueue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/user/feed-ingest/internal/entity"
	"github.com/user/feed-ingest/internal/repository"
)

const (
	schedulersKey = "queue:scrapper:schedulers"
	timersKey     = "queue:scrapper:scheduler_timers"
	pendingKey    = "queue:scrapper:pending"
	activeKey     = "queue:scrapper:active"
	delayedKey    = "queue:scrapper:delayed"
	deadLetterKey = "queue:scrapper:dead"
	dedupPrefix   = "queue:scrapper:dedup:"

	dedupTTL = time.Hour
)

// storedSpec is the hash representation of a recurring schedule. Intervals
// are kept as milliseconds so the Lua scripts can do arithmetic on them.
type storedSpec struct {
	Key     string               `json:"key"`
	EveryMS int64                `json:"everyMs"`
	Payload entity.ScrapeJobData `json:"payload"`
}

// job is one firing travelling through pending/delayed/dead-letter.
type job struct {
	ID      string               `json:"id"`
	Data    entity.ScrapeJobData `json:"data"`
	Attempt int                  `json:"attempt"`
}

// upsertScript compares the stored interval and only rewrites the spec and
// its timer when the schedule is new or the interval changed. An equivalent
// re-upsert leaves the existing timer untouched.
var upsertScript = redis.NewScript(`
local existing = redis.call('HGET', KEYS[1], ARGV[1])
if existing then
	local spec = cjson.decode(existing)
	if tostring(spec.everyMs) == ARGV[3] then
		return 0
	end
end
redis.call('HSET', KEYS[1], ARGV[1], ARGV[2])
redis.call('ZADD', KEYS[2], ARGV[4] + ARGV[3], ARGV[1])
return 1
`)

// enqueueScript submits one job: it honors the dedup key, pushes onto the
// delayed set or the pending list, and only then marks the dedup key. Running
// as a single script means a failed submission never leaves a dedup key
// behind to suppress its own retry.
var enqueueScript = redis.NewScript(`
if ARGV[1] ~= '' and redis.call('EXISTS', KEYS[1]) == 1 then
	return 0
end
if tonumber(ARGV[3]) > 0 then
	redis.call('ZADD', KEYS[2], ARGV[3], ARGV[2])
else
	redis.call('LPUSH', KEYS[3], ARGV[2])
end
if ARGV[1] ~= '' then
	redis.call('SET', KEYS[1], '1', 'PX', ARGV[4])
end
return 1
`)

// Queue implements repository.SchedulerQueue on Redis.
type Queue struct {
	client *redis.Client
}

// New creates a new Queue.
func New(client *redis.Client) *Queue {
	return &Queue{client: client}
}

var _ repository.SchedulerQueue = (*Queue)(nil)

// UpsertRecurring creates or replaces the recurring schedule for key.
func (q *Queue) UpsertRecurring(ctx context.Context, key string, every time.Duration, payload entity.ScrapeJobData) error {
	raw, err := json.Marshal(storedSpec{Key: key, EveryMS: every.Milliseconds(), Payload: payload})
	if err != nil {
		return fmt.Errorf("failed to marshal schedule spec: %w", err)
	}

	now := time.Now().UnixMilli()
	if err := upsertScript.Run(ctx, q.client,
		[]string{schedulersKey, timersKey},
		key, string(raw), every.Milliseconds(), now,
	).Err(); err != nil {
		return fmt.Errorf("failed to upsert schedule %s: %w", key, err)
	}
	return nil
}

// GetScheduled returns the active schedule for key, or nil when absent.
func (q *Queue) GetScheduled(ctx context.Context, key string) (*entity.RecurringJobSpec, error) {
	raw, err := q.client.HGet(ctx, schedulersKey, key).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read schedule %s: %w", key, err)
	}

	var stored storedSpec
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		return nil, fmt.Errorf("corrupt schedule spec for %s: %w", key, err)
	}

	spec := &entity.RecurringJobSpec{
		Key:     stored.Key,
		Every:   time.Duration(stored.EveryMS) * time.Millisecond,
		Payload: stored.Payload,
	}
	if score, err := q.client.ZScore(ctx, timersKey, key).Result(); err == nil {
		spec.NextFireAt = time.UnixMilli(int64(score))
	}
	return spec, nil
}

// RemoveScheduled drops the schedule and its timer.
func (q *Queue) RemoveScheduled(ctx context.Context, key string) error {
	pipe := q.client.TxPipeline()
	pipe.HDel(ctx, schedulersKey, key)
	pipe.ZRem(ctx, timersKey, key)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to remove schedule %s: %w", key, err)
	}
	return nil
}

// Enqueue submits a one-off job, honoring delay and deduplication. The dedup
// key is only marked once the job is durably pushed, so a failed call can be
// retried without the retry being silently dropped.
func (q *Queue) Enqueue(ctx context.Context, payload entity.ScrapeJobData, opts repository.EnqueueOptions) error {
	j := job{ID: jobID(opts.DedupID, payload), Data: payload}
	raw, err := json.Marshal(j)
	if err != nil {
		return fmt.Errorf("failed to marshal job: %w", err)
	}

	var due int64
	if opts.Delay > 0 {
		due = time.Now().Add(opts.Delay).UnixMilli()
	}

	if err := enqueueScript.Run(ctx, q.client,
		[]string{dedupPrefix + opts.DedupID, delayedKey, pendingKey},
		opts.DedupID, string(raw), due, dedupTTL.Milliseconds(),
	).Err(); err != nil {
		return fmt.Errorf("failed to enqueue job: %w", err)
	}
	return nil
}

func jobID(dedupID string, payload entity.ScrapeJobData) string {
	if dedupID != "" {
		return dedupID
	}
	return fmt.Sprintf("scrape-%s-%d", payload.SubscriberID, time.Now().UnixNano())
}
