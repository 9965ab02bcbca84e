package model

import "github.com/ideaSquared/adopt-dont-shop-moderation/internal/domain/enums"

// CategoryCount is one entry of the top-categories breakdown.
type CategoryCount struct {
	Category enums.ReportCategory `json:"category"`
	Count    int                  `json:"count"`
}

// ModeratorActivity summarises one moderator's workload: actions recorded and
// reports resolved.
type ModeratorActivity struct {
	ModeratorID   string `json:"moderatorId"`
	ActionsCount  int    `json:"actionsCount"`
	ResolvedCount int    `json:"resolvedCount"`
}

// ModerationMetrics is the read-only aggregation over persisted reports and
// actions returned by the metrics endpoint.
type ModerationMetrics struct {
	TotalReports       int `json:"totalReports"`
	PendingReports     int `json:"pendingReports"`
	UnderReviewReports int `json:"underReviewReports"`
	ResolvedReports    int `json:"resolvedReports"`
	DismissedReports   int `json:"dismissedReports"`
	EscalatedReports   int `json:"escalatedReports"`
	CriticalReports    int `json:"criticalReports"`

	// AverageResolutionTimeHours is the mean of resolvedAt - createdAt over
	// resolved reports, in hours.
	AverageResolutionTimeHours float64 `json:"averageResolutionTimeHours"`

	ReportsToday     int `json:"reportsToday"`
	ReportsThisWeek  int `json:"reportsThisWeek"`
	ReportsThisMonth int `json:"reportsThisMonth"`

	TopCategories     []CategoryCount     `json:"topCategories"`
	ModeratorActivity []ModeratorActivity `json:"moderatorActivity"`
}
