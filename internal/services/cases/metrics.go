package cases

import (
	"context"
	"time"

	"github.com/ideaSquared/adopt-dont-shop-moderation/internal/domain/model"
)

// ReportTotals are the per-status and per-severity report counts.
type ReportTotals struct {
	Total       int
	Pending     int
	UnderReview int
	Resolved    int
	Dismissed   int
	Escalated   int
	Critical    int
}

// Windows are the cut-off instants for the recency counters.
type Windows struct {
	Today time.Time
	Week  time.Time
	Month time.Time
}

// WindowCounts are reports created at or after each cut-off.
type WindowCounts struct {
	Today int
	Week  int
	Month int
}

// MetricsStore runs the aggregation queries behind the metrics endpoint.
type MetricsStore interface {
	ReportTotals(ctx context.Context) (ReportTotals, error)
	ReportWindowCounts(ctx context.Context, windows Windows) (WindowCounts, error)
	AverageResolutionHours(ctx context.Context) (float64, error)
	CategoryCounts(ctx context.Context) ([]model.CategoryCount, error)
	ModeratorActivity(ctx context.Context) ([]model.ModeratorActivity, error)
}

// MetricsCache holds a short-lived snapshot of the assembled metrics.
type MetricsCache interface {
	Get(ctx context.Context) (model.ModerationMetrics, bool, error)
	Set(ctx context.Context, metrics model.ModerationMetrics, ttl time.Duration) error
}
