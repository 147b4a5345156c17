package worker

// Jobs that exhaust their retries are parked in a per-queue Redis dead letter
// list (key dlq:{queue}) so an operator can inspect or replay them.

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const DLQPrefix = "dlq:"

// DeadLetter is a failed job plus the context needed to diagnose it.
type DeadLetter struct {
	Queue    string    `json:"queue"`
	Job      Job       `json:"job"`
	Reason   string    `json:"reason"`
	Attempts int       `json:"attempts"`
	FailedAt time.Time `json:"failed_at"`
}

// ParkFailedJob moves a job that exhausted its retries into the dead letter
// list. Parking is best effort; a Redis failure here is only logged since the
// job has already failed.
func ParkFailedJob(ctx context.Context, rdb *redis.Client, queue string, job Job, reason string, attempts int) {
	dl := DeadLetter{
		Queue:    queue,
		Job:      job,
		Reason:   reason,
		Attempts: attempts,
		FailedAt: time.Now().UTC(),
	}

	data, err := json.Marshal(dl)
	if err != nil {
		log.Error().Err(err).Str("queue", queue).Msg("dlq: marshal failed")
		return
	}
	if err := rdb.LPush(ctx, DLQPrefix+queue, data).Err(); err != nil {
		log.Error().Err(err).Str("queue", queue).Msg("dlq: push failed")
		return
	}

	log.Warn().
		Str("queue", queue).
		Str("job_type", job.Type).
		Str("reason", reason).
		Int("attempts", attempts).
		Msg("dlq: job parked")
}

// ReplayDLQ moves up to max parked jobs back onto their source queue.
// Returns the number of jobs replayed.
func ReplayDLQ(ctx context.Context, rdb *redis.Client, queue string, max int) (int, error) {
	replayed := 0
	for replayed < max {
		raw, err := rdb.RPop(ctx, DLQPrefix+queue).Result()
		if err == redis.Nil {
			break
		}
		if err != nil {
			return replayed, err
		}

		var dl DeadLetter
		if err := json.Unmarshal([]byte(raw), &dl); err != nil {
			log.Error().Err(err).Str("queue", queue).Msg("dlq: skipping unreadable entry")
			continue
		}
		encoded, err := json.Marshal(dl.Job)
		if err != nil {
			continue
		}
		if err := rdb.LPush(ctx, queue, encoded).Err(); err != nil {
			return replayed, err
		}
		replayed++
	}
	return replayed, nil
}

// DLQLength reports how many jobs are parked for a queue.
func DLQLength(ctx context.Context, rdb *redis.Client, queue string) (int64, error) {
	return rdb.LLen(ctx, DLQPrefix+queue).Result()
}
