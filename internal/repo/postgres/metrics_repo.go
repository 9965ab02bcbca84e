package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ideaSquared/adopt-dont-shop-moderation/internal/domain/model"
	"github.com/ideaSquared/adopt-dont-shop-moderation/internal/services/cases"
)

// MetricsRepo runs the read-only aggregation queries behind the metrics
// endpoint. All counts reflect committed rows at query time.
type MetricsRepo struct {
	pool *pgxpool.Pool
}

func NewMetricsRepo(pool *pgxpool.Pool) *MetricsRepo {
	return &MetricsRepo{pool: pool}
}

func (r *MetricsRepo) ReportTotals(ctx context.Context) (cases.ReportTotals, error) {
	if r.pool == nil {
		return cases.ReportTotals{}, fmt.Errorf("postgres pool is nil")
	}

	var totals cases.ReportTotals
	if err := r.pool.QueryRow(ctx, `
SELECT
	COUNT(*),
	COUNT(*) FILTER (WHERE status = 'pending'),
	COUNT(*) FILTER (WHERE status = 'under_review'),
	COUNT(*) FILTER (WHERE status = 'resolved'),
	COUNT(*) FILTER (WHERE status = 'dismissed'),
	COUNT(*) FILTER (WHERE status = 'escalated'),
	COUNT(*) FILTER (WHERE severity = 'critical')
FROM moderation_reports
`).Scan(
		&totals.Total, &totals.Pending, &totals.UnderReview,
		&totals.Resolved, &totals.Dismissed, &totals.Escalated, &totals.Critical,
	); err != nil {
		return cases.ReportTotals{}, fmt.Errorf("report totals: %w", err)
	}

	return totals, nil
}

func (r *MetricsRepo) ReportWindowCounts(ctx context.Context, windows cases.Windows) (cases.WindowCounts, error) {
	if r.pool == nil {
		return cases.WindowCounts{}, fmt.Errorf("postgres pool is nil")
	}

	var counts cases.WindowCounts
	if err := r.pool.QueryRow(ctx, `
SELECT
	COUNT(*) FILTER (WHERE created_at >= $1),
	COUNT(*) FILTER (WHERE created_at >= $2),
	COUNT(*) FILTER (WHERE created_at >= $3)
FROM moderation_reports
`, windows.Today, windows.Week, windows.Month).Scan(
		&counts.Today, &counts.Week, &counts.Month,
	); err != nil {
		return cases.WindowCounts{}, fmt.Errorf("report window counts: %w", err)
	}

	return counts, nil
}

func (r *MetricsRepo) AverageResolutionHours(ctx context.Context) (float64, error) {
	if r.pool == nil {
		return 0, fmt.Errorf("postgres pool is nil")
	}

	var hours float64
	if err := r.pool.QueryRow(ctx, `
SELECT COALESCE(AVG(EXTRACT(EPOCH FROM (resolved_at - created_at)) / 3600.0), 0)
FROM moderation_reports
WHERE status = 'resolved'
  AND resolved_at IS NOT NULL
`).Scan(&hours); err != nil {
		return 0, fmt.Errorf("average resolution time: %w", err)
	}

	return hours, nil
}

func (r *MetricsRepo) CategoryCounts(ctx context.Context) ([]model.CategoryCount, error) {
	if r.pool == nil {
		return nil, fmt.Errorf("postgres pool is nil")
	}

	rows, err := r.pool.Query(ctx, `
SELECT category, COUNT(*)
FROM moderation_reports
GROUP BY category
ORDER BY COUNT(*) DESC, category
`)
	if err != nil {
		return nil, fmt.Errorf("category counts: %w", err)
	}
	defer rows.Close()

	var counts []model.CategoryCount
	for rows.Next() {
		var count model.CategoryCount
		if err := rows.Scan(&count.Category, &count.Count); err != nil {
			return nil, fmt.Errorf("scan category count: %w", err)
		}
		counts = append(counts, count)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate category counts: %w", err)
	}

	return counts, nil
}

func (r *MetricsRepo) ModeratorActivity(ctx context.Context) ([]model.ModeratorActivity, error) {
	if r.pool == nil {
		return nil, fmt.Errorf("postgres pool is nil")
	}

	rows, err := r.pool.Query(ctx, `
SELECT
	COALESCE(a.moderator_id, res.resolved_by) AS moderator_id,
	COALESCE(a.actions_count, 0),
	COALESCE(res.resolved_count, 0)
FROM (
	SELECT moderator_id, COUNT(*) AS actions_count
	FROM moderator_actions
	GROUP BY moderator_id
) a
FULL OUTER JOIN (
	SELECT resolved_by, COUNT(*) AS resolved_count
	FROM moderation_reports
	WHERE status = 'resolved' AND resolved_by IS NOT NULL
	GROUP BY resolved_by
) res ON res.resolved_by = a.moderator_id
ORDER BY 2 DESC, 1
`)
	if err != nil {
		return nil, fmt.Errorf("moderator activity: %w", err)
	}
	defer rows.Close()

	var activity []model.ModeratorActivity
	for rows.Next() {
		var item model.ModeratorActivity
		if err := rows.Scan(&item.ModeratorID, &item.ActionsCount, &item.ResolvedCount); err != nil {
			return nil, fmt.Errorf("scan moderator activity: %w", err)
		}
		activity = append(activity, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate moderator activity: %w", err)
	}

	return activity, nil
}
