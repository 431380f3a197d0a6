package worker

// retry_cron.go
// Background goroutine that periodically pulls failed jobs out of the DLQ and
// puts them back on their queue. A job is re-driven at most MaxRedrives times;
// after that it is parked in dlq:{queue}:agotados for manual inspection.

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	retryTickInterval = 5 * time.Minute
	retryBatchSize    = 10
	defaultRedrives   = 3
	exhaustedSuffix   = ":agotados"
)

// RetryCronConfig holds all dependencies for the retry goroutine.
type RetryCronConfig struct {
	RDB         *redis.Client
	Queue       string
	MaxRedrives int
	Interval    time.Duration
}

// StartRetryCron launches a goroutine that re-drives DLQ entries every
// Interval. It respects the context for graceful shutdown.
func StartRetryCron(ctx context.Context, cfg RetryCronConfig) {
	if cfg.Interval <= 0 {
		cfg.Interval = retryTickInterval
	}
	if cfg.MaxRedrives <= 0 {
		cfg.MaxRedrives = defaultRedrives
	}
	go func() {
		ticker := time.NewTicker(cfg.Interval)
		defer ticker.Stop()

		log.Info().Str("queue", cfg.Queue).Msg("retry_cron: started")

		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("retry_cron: shutting down")
				return
			case <-ticker.C:
				if _, err := RedriveDLQ(ctx, cfg.RDB, cfg.Queue, cfg.MaxRedrives, retryBatchSize); err != nil {
					log.Error().Err(err).Msg("retry_cron: redrive failed")
				}
			}
		}
	}()
}

// RedriveDLQ moves up to batch entries from the DLQ of queue back onto the
// queue, oldest first. It returns how many were re-enqueued.
func RedriveDLQ(ctx context.Context, rdb *redis.Client, queue string, maxRedrives, batch int) (int, error) {
	dlqKey := DLQPrefix + queue
	requeued := 0
	for i := 0; i < batch; i++ {
		raw, err := rdb.RPop(ctx, dlqKey).Result()
		if errors.Is(err, redis.Nil) {
			break
		}
		if err != nil {
			return requeued, err
		}

		var entry DLQEntry
		if err := json.Unmarshal([]byte(raw), &entry); err != nil {
			log.Error().Err(err).Str("dlq_key", dlqKey).Msg("retry_cron: dropping unreadable DLQ entry")
			continue
		}

		if entry.Redrives >= maxRedrives {
			if err := rdb.LPush(ctx, dlqKey+exhaustedSuffix, raw).Err(); err != nil {
				return requeued, err
			}
			log.Error().
				Str("job_type", entry.JobType).
				Int("redrives", entry.Redrives).
				Msg("retry_cron: max redrives exceeded, parked for manual inspection")
			continue
		}

		job := Job{Type: entry.JobType, Payload: entry.Payload, Redrives: entry.Redrives + 1}
		if err := pushJob(ctx, rdb, queue, job); err != nil {
			// put it back so the next tick can try again
			_ = rdb.RPush(ctx, dlqKey, raw).Err()
			return requeued, err
		}
		requeued++
	}

	if requeued > 0 {
		log.Info().Int("count", requeued).Str("queue", queue).Msg("retry_cron: jobs re-enqueued from DLQ")
	}
	return requeued, nil
}
