package reports

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ideaSquared/adopt-dont-shop-moderation/internal/domain/enums"
	"github.com/ideaSquared/adopt-dont-shop-moderation/internal/domain/errs"
	"github.com/ideaSquared/adopt-dont-shop-moderation/internal/domain/model"
)

const defaultOverdueAfter = 24 * time.Hour

// Store is the persistence collaborator for reports. Read-modify-write on a
// single record is assumed atomic at the storage boundary.
type Store interface {
	Create(ctx context.Context, report model.Report) error
	Get(ctx context.Context, reportID string) (model.Report, error)
	Update(ctx context.Context, report model.Report) error
	List(ctx context.Context, filters Filters) ([]model.Report, model.Pagination, error)
	HasOpenReport(ctx context.Context, reporterID string, entityType enums.EntityType, entityID string) (bool, error)
}

// URLSigner turns a private evidence object key into a short-lived GET URL.
type URLSigner interface {
	PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error)
}

type Config struct {
	DefaultSeverity enums.Severity
	OverdueAfter    time.Duration
	EvidenceURLTTL  time.Duration
}

// Submission is the typed create-report input, already shape-checked by the
// transport layer but re-validated here before any mutation.
type Submission struct {
	ReportedEntityType enums.EntityType
	ReportedEntityID   string
	ReportedUserID     *string
	Category           enums.ReportCategory
	Severity           *enums.Severity
	Title              string
	Description        string
	Evidence           []model.EvidenceItem
	Metadata           model.Metadata
}

// StatusChange describes one transition request. Notes land on the report's
// resolutionNotes only for terminal states; for intermediate transitions the
// caller records them in the audit trail instead, so the resolution
// invariant holds.
type StatusChange struct {
	Status           enums.ReportStatus
	ActorID          string
	Notes            *string
	Resolution       *enums.ResolutionType
	EscalatedTo      *string
	EscalationReason *string
}

type Service struct {
	store  Store
	signer URLSigner
	cfg    Config
	logger *zap.Logger
	now    func() time.Time
}

func NewService(store Store, cfg Config, logger *zap.Logger) *Service {
	if cfg.DefaultSeverity == "" {
		cfg.DefaultSeverity = enums.SeverityMedium
	}
	if cfg.OverdueAfter <= 0 {
		cfg.OverdueAfter = defaultOverdueAfter
	}
	if cfg.EvidenceURLTTL <= 0 {
		cfg.EvidenceURLTTL = 5 * time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		store:  store,
		cfg:    cfg,
		logger: logger,
		now:    time.Now,
	}
}

// AttachSigner enables evidence URL presigning on the read path.
func (s *Service) AttachSigner(signer URLSigner) {
	s.signer = signer
}

// Submit validates and persists a new report in the pending state. A
// reporter may not hold more than one open report for the same entity.
func (s *Service) Submit(ctx context.Context, reporterID string, sub Submission) (model.Report, error) {
	if s.store == nil {
		return model.Report{}, fmt.Errorf("report store is not configured")
	}
	if strings.TrimSpace(reporterID) == "" {
		return model.Report{}, errs.Validation("reporterId", "is required")
	}

	severity := s.cfg.DefaultSeverity
	if sub.Severity != nil {
		severity = *sub.Severity
	}

	now := s.now().UTC()
	report := model.Report{
		ReportID:           model.NewReportID(),
		ReporterID:         reporterID,
		ReportedEntityType: sub.ReportedEntityType,
		ReportedEntityID:   sub.ReportedEntityID,
		ReportedUserID:     sub.ReportedUserID,
		Category:           sub.Category,
		Severity:           severity,
		Status:             enums.ReportStatusPending,
		Title:              sub.Title,
		Description:        sub.Description,
		Evidence:           append([]model.EvidenceItem(nil), sub.Evidence...),
		Metadata:           sub.Metadata.Clone(),
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if err := report.Validate(); err != nil {
		return model.Report{}, err
	}

	open, err := s.store.HasOpenReport(ctx, reporterID, sub.ReportedEntityType, sub.ReportedEntityID)
	if err != nil {
		return model.Report{}, fmt.Errorf("check open reports: %w", err)
	}
	if open {
		return model.Report{}, errs.ErrDuplicateReport
	}

	if err := s.store.Create(ctx, report); err != nil {
		return model.Report{}, fmt.Errorf("create report: %w", err)
	}

	s.logger.Info("report submitted",
		zap.String("report_id", report.ReportID),
		zap.String("category", string(report.Category)),
		zap.String("severity", string(report.Severity)),
	)
	return report, nil
}

// Get loads one report and re-validates it against the schema; a stored
// record that no longer passes is surfaced as a DataIntegrityError.
func (s *Service) Get(ctx context.Context, reportID string) (model.Report, error) {
	if s.store == nil {
		return model.Report{}, fmt.Errorf("report store is not configured")
	}

	report, err := s.store.Get(ctx, reportID)
	if err != nil {
		return model.Report{}, err
	}
	if err := report.Validate(); err != nil {
		return model.Report{}, errs.Integrity("report", reportID, err)
	}
	return report, nil
}

// UpdateStatus applies one state-machine transition. Any pair not in the
// transition table is rejected and the stored record is left untouched.
func (s *Service) UpdateStatus(ctx context.Context, reportID string, change StatusChange) (model.Report, error) {
	if s.store == nil {
		return model.Report{}, fmt.Errorf("report store is not configured")
	}
	if !change.Status.Valid() {
		return model.Report{}, errs.Validationf("status", "unknown status %q", change.Status)
	}

	report, err := s.Get(ctx, reportID)
	if err != nil {
		return model.Report{}, err
	}

	if !CanTransition(report.Status, change.Status) {
		return model.Report{}, &errs.InvalidTransitionError{From: report.Status, To: change.Status}
	}

	now := s.now().UTC()
	switch change.Status {
	case enums.ReportStatusResolved:
		if change.Resolution == nil {
			return model.Report{}, errs.Validation("resolution", "is required to resolve a report")
		}
		if strings.TrimSpace(change.ActorID) == "" {
			return model.Report{}, errs.Validation("resolvedBy", "is required to resolve a report")
		}
		actor := change.ActorID
		resolution := *change.Resolution
		resolvedAt := now
		report.ResolvedBy = &actor
		report.ResolvedAt = &resolvedAt
		report.Resolution = &resolution
		report.ResolutionNotes = change.Notes

	case enums.ReportStatusDismissed:
		report.ResolutionNotes = change.Notes

	case enums.ReportStatusEscalated:
		if change.EscalatedTo == nil || strings.TrimSpace(*change.EscalatedTo) == "" {
			return model.Report{}, errs.Validation("escalatedTo", "is required to escalate a report")
		}
		if change.EscalationReason == nil || strings.TrimSpace(*change.EscalationReason) == "" {
			return model.Report{}, errs.Validation("escalationReason", "is required to escalate a report")
		}
		escalatedAt := now
		report.EscalatedTo = change.EscalatedTo
		report.EscalatedAt = &escalatedAt
		report.EscalationReason = change.EscalationReason
	}

	report.Status = change.Status
	report.UpdatedAt = now

	if err := report.Validate(); err != nil {
		return model.Report{}, err
	}
	if err := s.store.Update(ctx, report); err != nil {
		return model.Report{}, fmt.Errorf("update report status: %w", err)
	}

	s.logger.Info("report status updated",
		zap.String("report_id", report.ReportID),
		zap.String("status", string(report.Status)),
	)
	return report, nil
}

// Assign sets the assigned moderator. Assignment and status are orthogonal:
// assigning never changes the report's status.
func (s *Service) Assign(ctx context.Context, reportID, moderatorID string) (model.Report, error) {
	if s.store == nil {
		return model.Report{}, fmt.Errorf("report store is not configured")
	}
	if strings.TrimSpace(moderatorID) == "" {
		return model.Report{}, errs.Validation("moderatorId", "is required")
	}

	report, err := s.Get(ctx, reportID)
	if err != nil {
		return model.Report{}, err
	}

	now := s.now().UTC()
	report.AssignedModerator = &moderatorID
	report.AssignedAt = &now
	report.UpdatedAt = now

	if err := s.store.Update(ctx, report); err != nil {
		return model.Report{}, fmt.Errorf("assign report: %w", err)
	}
	return report, nil
}

// Escalate hands the report to a higher-authority moderator. Only pending and
// under_review reports can be escalated; a report cannot be re-escalated.
func (s *Service) Escalate(ctx context.Context, reportID, escalatedTo, reason string) (model.Report, error) {
	return s.UpdateStatus(ctx, reportID, StatusChange{
		Status:           enums.ReportStatusEscalated,
		EscalatedTo:      &escalatedTo,
		EscalationReason: &reason,
	})
}

// List runs the canonical filter descriptor against the store and
// re-validates every row on the way out.
func (s *Service) List(ctx context.Context, filters Filters) ([]model.Report, model.Pagination, error) {
	if s.store == nil {
		return nil, model.Pagination{}, fmt.Errorf("report store is not configured")
	}

	normalized, err := filters.Normalize()
	if err != nil {
		return nil, model.Pagination{}, err
	}

	items, page, err := s.store.List(ctx, normalized)
	if err != nil {
		return nil, model.Pagination{}, fmt.Errorf("list reports: %w", err)
	}
	for _, item := range items {
		if err := item.Validate(); err != nil {
			return nil, model.Pagination{}, errs.Integrity("report", item.ReportID, err)
		}
	}
	return items, page, nil
}

// Overdue applies the configured threshold to a single report.
func (s *Service) Overdue(report model.Report) bool {
	return report.Overdue(s.now().UTC(), s.cfg.OverdueAfter)
}

// PresentEvidence returns a copy of the evidence list with private object
// keys replaced by presigned URLs. Without an attached signer the list is
// returned untouched.
func (s *Service) PresentEvidence(ctx context.Context, items []model.EvidenceItem) ([]model.EvidenceItem, error) {
	if s.signer == nil || len(items) == 0 {
		return items, nil
	}

	out := make([]model.EvidenceItem, len(items))
	copy(out, items)
	for i, item := range out {
		if !item.Type.Signable() || strings.Contains(item.Content, "://") {
			continue
		}
		url, err := s.signer.PresignGet(ctx, item.Content, s.cfg.EvidenceURLTTL)
		if err != nil {
			return nil, fmt.Errorf("sign evidence key: %w", err)
		}
		out[i].Content = url
	}
	return out, nil
}
