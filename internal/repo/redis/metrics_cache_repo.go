package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/ideaSquared/adopt-dont-shop-moderation/internal/domain/model"
)

const metricsSnapshotKey = "moderation:metrics:snapshot"

// MetricsCacheRepo holds the assembled moderation metrics under a single
// short-TTL key. A missing or unreadable snapshot is a miss, never an error
// surfaced to the read path.
type MetricsCacheRepo struct {
	client *goredis.Client
}

func NewMetricsCacheRepo(client *goredis.Client) *MetricsCacheRepo {
	return &MetricsCacheRepo{client: client}
}

func (r *MetricsCacheRepo) Get(ctx context.Context) (model.ModerationMetrics, bool, error) {
	if r.client == nil {
		return model.ModerationMetrics{}, false, fmt.Errorf("redis client is nil")
	}

	payload, err := r.client.Get(ctx, metricsSnapshotKey).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return model.ModerationMetrics{}, false, nil
		}
		return model.ModerationMetrics{}, false, fmt.Errorf("get metrics snapshot: %w", err)
	}

	var metrics model.ModerationMetrics
	if err := json.Unmarshal(payload, &metrics); err != nil {
		// A stale or corrupt snapshot is treated as a miss.
		return model.ModerationMetrics{}, false, nil
	}

	return metrics, true, nil
}

func (r *MetricsCacheRepo) Set(ctx context.Context, metrics model.ModerationMetrics, ttl time.Duration) error {
	if r.client == nil {
		return fmt.Errorf("redis client is nil")
	}
	if ttl <= 0 {
		ttl = time.Minute
	}

	payload, err := json.Marshal(metrics)
	if err != nil {
		return fmt.Errorf("marshal metrics snapshot: %w", err)
	}

	if err := r.client.Set(ctx, metricsSnapshotKey, payload, ttl).Err(); err != nil {
		return fmt.Errorf("set metrics snapshot: %w", err)
	}

	return nil
}
