package reports

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ideaSquared/adopt-dont-shop-moderation/internal/domain/enums"
	"github.com/ideaSquared/adopt-dont-shop-moderation/internal/domain/errs"
	"github.com/ideaSquared/adopt-dont-shop-moderation/internal/domain/model"
)

type memoryReportStore struct {
	reports map[string]model.Report
	order   []string
}

func newMemoryReportStore() *memoryReportStore {
	return &memoryReportStore{reports: make(map[string]model.Report)}
}

func (s *memoryReportStore) Create(_ context.Context, report model.Report) error {
	s.reports[report.ReportID] = report
	s.order = append(s.order, report.ReportID)
	return nil
}

func (s *memoryReportStore) Get(_ context.Context, reportID string) (model.Report, error) {
	report, ok := s.reports[reportID]
	if !ok {
		return model.Report{}, errs.NotFound("report", reportID)
	}
	return report, nil
}

func (s *memoryReportStore) Update(_ context.Context, report model.Report) error {
	if _, ok := s.reports[report.ReportID]; !ok {
		return errs.NotFound("report", report.ReportID)
	}
	s.reports[report.ReportID] = report
	return nil
}

func (s *memoryReportStore) List(_ context.Context, filters Filters) ([]model.Report, model.Pagination, error) {
	var items []model.Report
	for _, id := range s.order {
		report := s.reports[id]
		if filters.Status != nil && report.Status != *filters.Status {
			continue
		}
		if filters.Category != nil && report.Category != *filters.Category {
			continue
		}
		items = append(items, report)
	}
	return items, model.NewPagination(filters.Page, filters.Limit, len(items)), nil
}

func (s *memoryReportStore) HasOpenReport(_ context.Context, reporterID string, entityType enums.EntityType, entityID string) (bool, error) {
	for _, report := range s.reports {
		if report.ReporterID != reporterID || report.ReportedEntityType != entityType || report.ReportedEntityID != entityID {
			continue
		}
		if !report.Status.Terminal() {
			return true, nil
		}
	}
	return false, nil
}

func validSubmission() Submission {
	return Submission{
		ReportedEntityType: enums.EntityUser,
		ReportedEntityID:   "user-42",
		Category:           enums.CategorySpam,
		Title:              "Repeated spam listings",
		Description:        "The same fake listing was posted five times today.",
	}
}

func newTestService(store Store) *Service {
	svc := NewService(store, Config{OverdueAfter: 24 * time.Hour}, nil)
	svc.now = func() time.Time {
		return time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	}
	return svc
}

func TestSubmitDefaultsSeverityAndStatus(t *testing.T) {
	store := newMemoryReportStore()
	svc := newTestService(store)

	report, err := svc.Submit(context.Background(), "reporter-1", validSubmission())
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if report.Severity != enums.SeverityMedium {
		t.Fatalf("unexpected default severity: got %s want %s", report.Severity, enums.SeverityMedium)
	}
	if report.Status != enums.ReportStatusPending {
		t.Fatalf("unexpected status: got %s want %s", report.Status, enums.ReportStatusPending)
	}
	if report.CreatedAt.Location() != time.UTC {
		t.Fatalf("createdAt not UTC: %v", report.CreatedAt)
	}
}

func TestSubmitRejectsDuplicateOpenReport(t *testing.T) {
	store := newMemoryReportStore()
	svc := newTestService(store)
	ctx := context.Background()

	first, err := svc.Submit(ctx, "reporter-1", validSubmission())
	if err != nil {
		t.Fatalf("first submit: %v", err)
	}

	if _, err := svc.Submit(ctx, "reporter-1", validSubmission()); !errors.Is(err, errs.ErrDuplicateReport) {
		t.Fatalf("expected ErrDuplicateReport, got %v", err)
	}

	// A different reporter against the same entity is allowed.
	if _, err := svc.Submit(ctx, "reporter-2", validSubmission()); err != nil {
		t.Fatalf("submit by second reporter: %v", err)
	}

	// Once the first report closes, the same reporter can file again.
	if _, err := svc.UpdateStatus(ctx, first.ReportID, StatusChange{Status: enums.ReportStatusDismissed}); err != nil {
		t.Fatalf("dismiss first report: %v", err)
	}
	if _, err := svc.Submit(ctx, "reporter-1", validSubmission()); err != nil {
		t.Fatalf("resubmit after dismissal: %v", err)
	}
}

func TestSubmitValidation(t *testing.T) {
	store := newMemoryReportStore()
	svc := newTestService(store)

	sub := validSubmission()
	sub.Title = "ab"
	if _, err := svc.Submit(context.Background(), "reporter-1", sub); !errs.IsValidation(err) {
		t.Fatalf("expected validation error for short title, got %v", err)
	}

	sub = validSubmission()
	sub.Description = "too short"
	if _, err := svc.Submit(context.Background(), "reporter-1", sub); !errs.IsValidation(err) {
		t.Fatalf("expected validation error for short description, got %v", err)
	}
}

func TestUpdateStatusResolvedSetsResolutionFields(t *testing.T) {
	store := newMemoryReportStore()
	svc := newTestService(store)
	ctx := context.Background()

	report, err := svc.Submit(ctx, "reporter-1", validSubmission())
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	resolution := enums.ResolutionWarningIssued
	notes := "first offense"
	updated, err := svc.UpdateStatus(ctx, report.ReportID, StatusChange{
		Status:     enums.ReportStatusResolved,
		ActorID:    "mod-7",
		Resolution: &resolution,
		Notes:      &notes,
	})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if updated.ResolvedBy == nil || *updated.ResolvedBy != "mod-7" {
		t.Fatalf("resolvedBy not set: %+v", updated.ResolvedBy)
	}
	if updated.ResolvedAt == nil || updated.Resolution == nil {
		t.Fatalf("resolution fields incomplete: %+v", updated)
	}
	if *updated.Resolution != enums.ResolutionWarningIssued {
		t.Fatalf("unexpected resolution: %s", *updated.Resolution)
	}
}

func TestUpdateStatusResolvedRequiresResolution(t *testing.T) {
	store := newMemoryReportStore()
	svc := newTestService(store)
	ctx := context.Background()

	report, err := svc.Submit(ctx, "reporter-1", validSubmission())
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	_, err = svc.UpdateStatus(ctx, report.ReportID, StatusChange{
		Status:  enums.ReportStatusResolved,
		ActorID: "mod-7",
	})
	if !errs.IsValidation(err) {
		t.Fatalf("expected validation error without resolution, got %v", err)
	}
}

func TestUpdateStatusDismissedLeavesResolutionEmpty(t *testing.T) {
	store := newMemoryReportStore()
	svc := newTestService(store)
	ctx := context.Background()

	report, err := svc.Submit(ctx, "reporter-1", validSubmission())
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	notes := "not actionable"
	updated, err := svc.UpdateStatus(ctx, report.ReportID, StatusChange{
		Status: enums.ReportStatusDismissed,
		Notes:  &notes,
	})
	if err != nil {
		t.Fatalf("dismiss: %v", err)
	}
	if updated.ResolvedBy != nil || updated.ResolvedAt != nil || updated.Resolution != nil {
		t.Fatalf("dismissal must not set resolution fields: %+v", updated)
	}
	if updated.ResolutionNotes == nil || *updated.ResolutionNotes != notes {
		t.Fatalf("dismissal notes lost: %+v", updated.ResolutionNotes)
	}
}

func TestUpdateStatusRejectsInvalidTransitions(t *testing.T) {
	store := newMemoryReportStore()
	svc := newTestService(store)
	ctx := context.Background()

	report, err := svc.Submit(ctx, "reporter-1", validSubmission())
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if _, err := svc.UpdateStatus(ctx, report.ReportID, StatusChange{Status: enums.ReportStatusDismissed}); err != nil {
		t.Fatalf("dismiss: %v", err)
	}

	_, err = svc.UpdateStatus(ctx, report.ReportID, StatusChange{Status: enums.ReportStatusUnderReview})
	var transitionErr *errs.InvalidTransitionError
	if !errors.As(err, &transitionErr) {
		t.Fatalf("expected InvalidTransitionError, got %v", err)
	}
	if transitionErr.From != enums.ReportStatusDismissed || transitionErr.To != enums.ReportStatusUnderReview {
		t.Fatalf("unexpected transition pair: %s -> %s", transitionErr.From, transitionErr.To)
	}

	// The stored record must be untouched after a rejected transition.
	stored, err := svc.Get(ctx, report.ReportID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if stored.Status != enums.ReportStatusDismissed {
		t.Fatalf("stored status mutated: %s", stored.Status)
	}
}

func TestAssignDoesNotChangeStatus(t *testing.T) {
	store := newMemoryReportStore()
	svc := newTestService(store)
	ctx := context.Background()

	report, err := svc.Submit(ctx, "reporter-1", validSubmission())
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	assigned, err := svc.Assign(ctx, report.ReportID, "mod-3")
	if err != nil {
		t.Fatalf("assign: %v", err)
	}
	if assigned.Status != enums.ReportStatusPending {
		t.Fatalf("assignment changed status: %s", assigned.Status)
	}
	if assigned.AssignedModerator == nil || *assigned.AssignedModerator != "mod-3" {
		t.Fatalf("assignedModerator not set: %+v", assigned.AssignedModerator)
	}
	if assigned.AssignedAt == nil {
		t.Fatal("assignedAt not set")
	}

	// Reassignment replaces the moderator without any other side effects.
	reassigned, err := svc.Assign(ctx, report.ReportID, "mod-9")
	if err != nil {
		t.Fatalf("reassign: %v", err)
	}
	if *reassigned.AssignedModerator != "mod-9" {
		t.Fatalf("reassignment lost: %s", *reassigned.AssignedModerator)
	}
}

func TestEscalateRequiresTargetAndReason(t *testing.T) {
	store := newMemoryReportStore()
	svc := newTestService(store)
	ctx := context.Background()

	report, err := svc.Submit(ctx, "reporter-1", validSubmission())
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	if _, err := svc.Escalate(ctx, report.ReportID, "", "needs senior review"); !errs.IsValidation(err) {
		t.Fatalf("expected validation error without target, got %v", err)
	}
	if _, err := svc.Escalate(ctx, report.ReportID, "senior-mod", ""); !errs.IsValidation(err) {
		t.Fatalf("expected validation error without reason, got %v", err)
	}

	escalated, err := svc.Escalate(ctx, report.ReportID, "senior-mod", "needs senior review")
	if err != nil {
		t.Fatalf("escalate: %v", err)
	}
	if escalated.Status != enums.ReportStatusEscalated {
		t.Fatalf("unexpected status: %s", escalated.Status)
	}
	if escalated.EscalatedAt == nil {
		t.Fatal("escalatedAt not set")
	}

	// Escalated reports cannot be re-escalated.
	_, err = svc.Escalate(ctx, report.ReportID, "another-mod", "again")
	var transitionErr *errs.InvalidTransitionError
	if !errors.As(err, &transitionErr) {
		t.Fatalf("expected InvalidTransitionError on re-escalation, got %v", err)
	}
}

func TestGetNotFound(t *testing.T) {
	store := newMemoryReportStore()
	svc := newTestService(store)

	_, err := svc.Get(context.Background(), "report-missing")
	if !errs.IsNotFound(err) {
		t.Fatalf("expected not-found error, got %v", err)
	}
}

func TestGetFlagsCorruptRecord(t *testing.T) {
	store := newMemoryReportStore()
	svc := newTestService(store)
	ctx := context.Background()

	report, err := svc.Submit(ctx, "reporter-1", validSubmission())
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	// Simulate storage drift: resolution fields without resolved status.
	corrupt := store.reports[report.ReportID]
	by := "mod-1"
	corrupt.ResolvedBy = &by
	store.reports[report.ReportID] = corrupt

	_, err = svc.Get(ctx, report.ReportID)
	var integrityErr *errs.DataIntegrityError
	if !errors.As(err, &integrityErr) {
		t.Fatalf("expected DataIntegrityError, got %v", err)
	}
}

func TestOverdue(t *testing.T) {
	store := newMemoryReportStore()
	svc := newTestService(store)
	base := svc.now()

	report := model.Report{Status: enums.ReportStatusPending, CreatedAt: base.Add(-25 * time.Hour)}
	if !svc.Overdue(report) {
		t.Fatal("expected pending report past threshold to be overdue")
	}

	report.CreatedAt = base.Add(-23 * time.Hour)
	if svc.Overdue(report) {
		t.Fatal("report under the threshold must not be overdue")
	}

	report.CreatedAt = base.Add(-25 * time.Hour)
	report.Status = enums.ReportStatusResolved
	if svc.Overdue(report) {
		t.Fatal("terminal report must not be overdue")
	}
}

type fakeSigner struct {
	calls int
}

func (s *fakeSigner) PresignGet(_ context.Context, key string, _ time.Duration) (string, error) {
	s.calls++
	return "https://cdn.example.com/" + key + "?sig=abc", nil
}

func TestPresentEvidenceSignsPrivateKeysOnly(t *testing.T) {
	store := newMemoryReportStore()
	svc := newTestService(store)
	signer := &fakeSigner{}
	svc.AttachSigner(signer)

	items := []model.EvidenceItem{
		{Type: enums.EvidenceScreenshot, Content: "evidence/abc.png"},
		{Type: enums.EvidenceScreenshot, Content: "https://imgur.com/x.png"},
		{Type: enums.EvidenceURL, Content: "https://example.com/post/1"},
		{Type: enums.EvidenceText, Content: "copied message text"},
	}

	out, err := svc.PresentEvidence(context.Background(), items)
	if err != nil {
		t.Fatalf("present evidence: %v", err)
	}
	if signer.calls != 1 {
		t.Fatalf("unexpected signer calls: got %d want 1", signer.calls)
	}
	if out[0].Content != "https://cdn.example.com/evidence/abc.png?sig=abc" {
		t.Fatalf("private key not signed: %s", out[0].Content)
	}
	if out[1].Content != items[1].Content || out[3].Content != items[3].Content {
		t.Fatal("non-signable items must pass through untouched")
	}
	// Input slice must not be mutated.
	if items[0].Content != "evidence/abc.png" {
		t.Fatalf("input mutated: %s", items[0].Content)
	}
}
