// Package usage records per-user API call counters that feed the AIMEX
// usage aggregation job.
package usage

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// Counters only need to survive until the nightly aggregation run.
const keyTTL = 48 * time.Hour

type Recorder struct {
	client *redis.Client
}

func NewRecorder(client *redis.Client) *Recorder {
	return &Recorder{client: client}
}

// Record increments the daily counter for a user/endpoint pair. Recording
// is best-effort: a missing redis client or a write failure never affects
// the request being counted.
func (r *Recorder) Record(ctx context.Context, userUUID, endpoint string) {
	if r == nil || r.client == nil || userUUID == "" {
		return
	}

	key := counterKey(userUUID, time.Now().UTC(), endpoint)
	pipe := r.client.TxPipeline()
	pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, keyTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		log.Printf("usage: failed to record %s: %v", key, err)
	}
}

// Count returns the recorded calls for a user/endpoint pair on a given day.
func (r *Recorder) Count(ctx context.Context, userUUID string, day time.Time, endpoint string) (int64, error) {
	if r == nil || r.client == nil {
		return 0, nil
	}
	return r.client.Get(ctx, counterKey(userUUID, day, endpoint)).Int64()
}

func counterKey(userUUID string, day time.Time, endpoint string) string {
	return fmt.Sprintf("usage:%s:%s:%s", userUUID, day.Format("2006-01-02"), endpoint)
}
