package cases

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/ideaSquared/adopt-dont-shop-moderation/internal/domain/enums"
	"github.com/ideaSquared/adopt-dont-shop-moderation/internal/domain/errs"
	"github.com/ideaSquared/adopt-dont-shop-moderation/internal/domain/model"
	"github.com/ideaSquared/adopt-dont-shop-moderation/internal/services/actions"
	"github.com/ideaSquared/adopt-dont-shop-moderation/internal/services/audit"
	"github.com/ideaSquared/adopt-dont-shop-moderation/internal/services/reports"
)

const (
	DefaultMaxBulkSize     = 100
	defaultMetricsCacheTTL = time.Minute
)

type Config struct {
	MaxBulkSize     int
	MetricsCacheTTL time.Duration
}

// Service is the case orchestrator: it composes the report lifecycle manager
// and the action ledger for multi-entity operations. No atomic multi-entity
// transaction is assumed at the storage boundary, so compound operations
// define explicit ordering and partial-failure behavior.
type Service struct {
	reports *reports.Service
	actions *actions.Service
	audit   *audit.Recorder
	metrics MetricsStore
	cache   MetricsCache
	cfg     Config
	logger  *zap.Logger
	now     func() time.Time
}

func NewService(reportSvc *reports.Service, actionSvc *actions.Service, recorder *audit.Recorder, cfg Config, logger *zap.Logger) *Service {
	if cfg.MaxBulkSize <= 0 {
		cfg.MaxBulkSize = DefaultMaxBulkSize
	}
	if cfg.MetricsCacheTTL <= 0 {
		cfg.MetricsCacheTTL = defaultMetricsCacheTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		reports: reportSvc,
		actions: actionSvc,
		audit:   recorder,
		cfg:     cfg,
		logger:  logger,
		now:     time.Now,
	}
}

// AttachMetrics wires the aggregation store and an optional cache.
func (s *Service) AttachMetrics(store MetricsStore, cache MetricsCache) {
	s.metrics = store
	s.cache = cache
}

func (s *Service) SubmitReport(ctx context.Context, reporterID string, sub reports.Submission) (model.Report, error) {
	report, err := s.reports.Submit(ctx, reporterID, sub)
	if err != nil {
		return model.Report{}, err
	}
	s.audit.Record(ctx, reporterID, "report_submitted", "report", report.ReportID, model.Metadata{
		"category": string(report.Category),
		"severity": string(report.Severity),
	})
	return report, nil
}

func (s *Service) GetReport(ctx context.Context, reportID string) (model.Report, error) {
	return s.reports.Get(ctx, reportID)
}

func (s *Service) ListReports(ctx context.Context, filters reports.Filters) ([]model.Report, model.Pagination, error) {
	return s.reports.List(ctx, filters)
}

func (s *Service) UpdateReportStatus(ctx context.Context, reportID string, change reports.StatusChange) (model.Report, error) {
	report, err := s.reports.UpdateStatus(ctx, reportID, change)
	if err != nil {
		return model.Report{}, err
	}
	details := model.Metadata{"status": string(report.Status)}
	if change.Notes != nil {
		details["notes"] = *change.Notes
	}
	s.audit.Record(ctx, change.ActorID, "report_status_updated", "report", reportID, details)
	return report, nil
}

func (s *Service) AssignReport(ctx context.Context, reportID, moderatorID string) (model.Report, error) {
	report, err := s.reports.Assign(ctx, reportID, moderatorID)
	if err != nil {
		return model.Report{}, err
	}
	s.audit.Record(ctx, moderatorID, "report_assigned", "report", reportID, nil)
	return report, nil
}

func (s *Service) EscalateReport(ctx context.Context, reportID, escalatedTo, reason string) (model.Report, error) {
	report, err := s.reports.Escalate(ctx, reportID, escalatedTo, reason)
	if err != nil {
		return model.Report{}, err
	}
	s.audit.Record(ctx, escalatedTo, "report_escalated", "report", reportID, model.Metadata{
		"reason": reason,
	})
	return report, nil
}

// ResolveReport marks the report resolved, then records the accompanying
// action if one is supplied. The terminal state is the primary effect: if
// action creation fails afterwards the report stays resolved, the failure is
// logged, and the caller may retry the action independently. The resolution
// value is derived from the action type when an action is supplied.
func (s *Service) ResolveReport(ctx context.Context, reportID, actorID string, notes *string, draft *actions.Draft) (model.Report, *model.ModeratorAction, error) {
	resolution := enums.ResolutionNoAction
	if draft != nil {
		resolution = enums.ResolutionForAction(draft.ActionType)
	}

	report, err := s.reports.UpdateStatus(ctx, reportID, reports.StatusChange{
		Status:     enums.ReportStatusResolved,
		ActorID:    actorID,
		Notes:      notes,
		Resolution: &resolution,
	})
	if err != nil {
		return model.Report{}, nil, err
	}
	s.audit.Record(ctx, actorID, "report_resolved", "report", reportID, model.Metadata{
		"resolution": string(resolution),
	})

	if draft == nil {
		return report, nil, nil
	}

	linked := *draft
	linked.ReportID = &reportID
	// Caller-supplied metadata keys win over the orchestrator context.
	linked.Metadata = linked.Metadata.Merge(model.Metadata{
		"report_id":  reportID,
		"resolution": string(resolution),
	})
	action, err := s.actions.Create(ctx, actorID, linked)
	if err != nil {
		s.logger.Warn("resolution action not recorded",
			zap.String("report_id", reportID),
			zap.Error(err),
		)
		return report, nil, nil
	}
	return report, &action, nil
}

func (s *Service) DismissReport(ctx context.Context, reportID, actorID string, notes *string) (model.Report, error) {
	return s.UpdateReportStatus(ctx, reportID, reports.StatusChange{
		Status:  enums.ReportStatusDismissed,
		ActorID: actorID,
		Notes:   notes,
	})
}

// TakeAction records a moderator action against the report's target and, iff
// the report is still exactly pending, promotes it to under_review. Any other
// current status is left untouched, so repeated calls keep recording actions
// without erroring.
func (s *Service) TakeAction(ctx context.Context, reportID, moderatorID string, draft actions.Draft, resolutionNotes *string) (model.Report, model.ModeratorAction, error) {
	report, err := s.reports.Get(ctx, reportID)
	if err != nil {
		return model.Report{}, model.ModeratorAction{}, err
	}

	draft.ReportID = &reportID
	draft.Metadata = draft.Metadata.Merge(model.Metadata{"report_id": reportID})
	action, err := s.actions.Create(ctx, moderatorID, draft)
	if err != nil {
		return model.Report{}, model.ModeratorAction{}, err
	}
	s.audit.Record(ctx, moderatorID, "action_created", "action", action.ActionID, model.Metadata{
		"report_id":   reportID,
		"action_type": string(action.ActionType),
	})

	if report.Status == enums.ReportStatusPending {
		details := model.Metadata{"action_id": action.ActionID}
		if resolutionNotes != nil {
			details["notes"] = *resolutionNotes
		}
		promoted, err := s.reports.UpdateStatus(ctx, reportID, reports.StatusChange{
			Status:  enums.ReportStatusUnderReview,
			ActorID: moderatorID,
		})
		if err != nil {
			var transitionErr *errs.InvalidTransitionError
			if !errors.As(err, &transitionErr) {
				return model.Report{}, model.ModeratorAction{}, err
			}
			// Lost the race to another transition; the action stands.
			s.logger.Debug("promotion skipped", zap.String("report_id", reportID), zap.Error(err))
		} else {
			report = promoted
			s.audit.Record(ctx, moderatorID, "report_status_updated", "report", reportID, details)
		}
	}
	return report, action, nil
}

// PresentEvidence signs private evidence keys for client delivery.
func (s *Service) PresentEvidence(ctx context.Context, items []model.EvidenceItem) ([]model.EvidenceItem, error) {
	return s.reports.PresentEvidence(ctx, items)
}

func (s *Service) CreateAction(ctx context.Context, moderatorID string, draft actions.Draft) (model.ModeratorAction, error) {
	action, err := s.actions.Create(ctx, moderatorID, draft)
	if err != nil {
		return model.ModeratorAction{}, err
	}
	s.audit.Record(ctx, moderatorID, "action_created", "action", action.ActionID, model.Metadata{
		"action_type": string(action.ActionType),
	})
	return action, nil
}

func (s *Service) GetAction(ctx context.Context, actionID string) (model.ModeratorAction, error) {
	return s.actions.Get(ctx, actionID)
}

func (s *Service) ListActions(ctx context.Context, filters actions.Filters) ([]model.ModeratorAction, model.Pagination, error) {
	return s.actions.List(ctx, filters)
}

func (s *Service) ListActiveActions(ctx context.Context, userID string) ([]model.ModeratorAction, error) {
	return s.actions.ListActiveForUser(ctx, userID)
}

func (s *Service) ReverseAction(ctx context.Context, actionID, reversedBy, reason string) (model.ModeratorAction, error) {
	action, err := s.actions.Reverse(ctx, actionID, reversedBy, reason)
	if err != nil {
		return model.ModeratorAction{}, err
	}
	s.audit.Record(ctx, reversedBy, "action_reversed", "action", actionID, model.Metadata{
		"reason": reason,
	})
	return action, nil
}

// ExpireActions sweeps naturally-lapsed actions, flipping their stored active
// flag. Reads are already correct without it.
func (s *Service) ExpireActions(ctx context.Context, actorID string) (int, error) {
	expired, err := s.actions.ExpireDue(ctx)
	if err != nil {
		return 0, err
	}
	if expired > 0 {
		s.audit.Record(ctx, actorID, "actions_expired", "action", "", model.Metadata{
			"count": expired,
		})
	}
	return expired, nil
}

// BulkRequest applies one operation across many reports.
type BulkRequest struct {
	ReportIDs   []string
	Action      enums.BulkAction
	ModeratorID *string
	EscalatedTo *string
	Notes       *string
}

// BulkResult reports only the aggregate outcome. Per-item failures are
// visible in logs and the audit trail, not in the response.
type BulkResult struct {
	Success bool `json:"success"`
	Updated int  `json:"updated"`
}

// BulkUpdate applies the requested operation to each report in turn,
// continuing past individual failures. Success reflects that the batch as a
// whole executed, not that every item succeeded.
func (s *Service) BulkUpdate(ctx context.Context, actorID string, req BulkRequest) (BulkResult, error) {
	if !req.Action.Valid() {
		return BulkResult{}, errs.Validationf("action", "unknown bulk action %q", req.Action)
	}
	if len(req.ReportIDs) == 0 {
		return BulkResult{}, errs.Validation("reportIds", "must not be empty")
	}
	if len(req.ReportIDs) > s.cfg.MaxBulkSize {
		return BulkResult{}, errs.Validationf("reportIds", "at most %d reports per batch, got %d", s.cfg.MaxBulkSize, len(req.ReportIDs))
	}
	switch req.Action {
	case enums.BulkAssign:
		if req.ModeratorID == nil {
			return BulkResult{}, errs.Validation("moderatorId", "is required for bulk assign")
		}
	case enums.BulkEscalate:
		if req.EscalatedTo == nil {
			return BulkResult{}, errs.Validation("escalatedTo", "is required for bulk escalate")
		}
	}

	updated := 0
	for _, reportID := range req.ReportIDs {
		var err error
		switch req.Action {
		case enums.BulkResolve:
			resolution := enums.ResolutionNoAction
			_, err = s.reports.UpdateStatus(ctx, reportID, reports.StatusChange{
				Status:     enums.ReportStatusResolved,
				ActorID:    actorID,
				Notes:      req.Notes,
				Resolution: &resolution,
			})
		case enums.BulkDismiss:
			_, err = s.reports.UpdateStatus(ctx, reportID, reports.StatusChange{
				Status:  enums.ReportStatusDismissed,
				ActorID: actorID,
				Notes:   req.Notes,
			})
		case enums.BulkAssign:
			_, err = s.reports.Assign(ctx, reportID, *req.ModeratorID)
		case enums.BulkEscalate:
			reason := "bulk escalation"
			if req.Notes != nil {
				reason = *req.Notes
			}
			_, err = s.reports.Escalate(ctx, reportID, *req.EscalatedTo, reason)
		}
		if err != nil {
			s.logger.Warn("bulk item skipped",
				zap.String("report_id", reportID),
				zap.String("action", string(req.Action)),
				zap.Error(err),
			)
			continue
		}
		updated++
	}

	s.audit.Record(ctx, actorID, "reports_bulk_updated", "report", "", model.Metadata{
		"action":    string(req.Action),
		"requested": len(req.ReportIDs),
		"updated":   updated,
	})
	return BulkResult{Success: true, Updated: updated}, nil
}

// Metrics assembles the read-only aggregation, serving a cached snapshot when
// one is fresh.
func (s *Service) Metrics(ctx context.Context) (model.ModerationMetrics, error) {
	if s.metrics == nil {
		return model.ModerationMetrics{}, fmt.Errorf("metrics store is not configured")
	}

	if s.cache != nil {
		snapshot, ok, err := s.cache.Get(ctx)
		if err != nil {
			s.logger.Warn("metrics cache read failed", zap.Error(err))
		} else if ok {
			return snapshot, nil
		}
	}

	now := s.now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	windows := Windows{
		Today: today,
		Week:  now.Add(-7 * 24 * time.Hour),
		Month: now.Add(-30 * 24 * time.Hour),
	}

	totals, err := s.metrics.ReportTotals(ctx)
	if err != nil {
		return model.ModerationMetrics{}, fmt.Errorf("report totals: %w", err)
	}
	counts, err := s.metrics.ReportWindowCounts(ctx, windows)
	if err != nil {
		return model.ModerationMetrics{}, fmt.Errorf("report window counts: %w", err)
	}
	avgHours, err := s.metrics.AverageResolutionHours(ctx)
	if err != nil {
		return model.ModerationMetrics{}, fmt.Errorf("average resolution time: %w", err)
	}
	categories, err := s.metrics.CategoryCounts(ctx)
	if err != nil {
		return model.ModerationMetrics{}, fmt.Errorf("category counts: %w", err)
	}
	activity, err := s.metrics.ModeratorActivity(ctx)
	if err != nil {
		return model.ModerationMetrics{}, fmt.Errorf("moderator activity: %w", err)
	}

	sort.SliceStable(categories, func(i, j int) bool {
		if categories[i].Count != categories[j].Count {
			return categories[i].Count > categories[j].Count
		}
		return categories[i].Category < categories[j].Category
	})

	metrics := model.ModerationMetrics{
		TotalReports:               totals.Total,
		PendingReports:             totals.Pending,
		UnderReviewReports:         totals.UnderReview,
		ResolvedReports:            totals.Resolved,
		DismissedReports:           totals.Dismissed,
		EscalatedReports:           totals.Escalated,
		CriticalReports:            totals.Critical,
		AverageResolutionTimeHours: avgHours,
		ReportsToday:               counts.Today,
		ReportsThisWeek:            counts.Week,
		ReportsThisMonth:           counts.Month,
		TopCategories:              categories,
		ModeratorActivity:          activity,
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, metrics, s.cfg.MetricsCacheTTL); err != nil {
			s.logger.Warn("metrics cache write failed", zap.Error(err))
		}
	}
	return metrics, nil
}
