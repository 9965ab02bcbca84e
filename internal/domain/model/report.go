package model

import (
	"time"
	"unicode/utf8"

	"github.com/ideaSquared/adopt-dont-shop-moderation/internal/domain/enums"
	"github.com/ideaSquared/adopt-dont-shop-moderation/internal/domain/errs"
	"github.com/ideaSquared/adopt-dont-shop-moderation/internal/pkg/validate"
)

const (
	TitleMinLen       = 3
	TitleMaxLen       = 255
	DescriptionMinLen = 10
	DescriptionMaxLen = 5000
)

// Report is a user-filed complaint about a platform entity, tracked through
// the fixed status lifecycle. Records are append-only history: reports are
// never physically deleted.
type Report struct {
	ReportID           string               `json:"reportId"`
	ReporterID         string               `json:"reporterId"`
	ReportedEntityType enums.EntityType     `json:"reportedEntityType"`
	ReportedEntityID   string               `json:"reportedEntityId"`
	ReportedUserID     *string              `json:"reportedUserId,omitempty"`
	Category           enums.ReportCategory `json:"category"`
	Severity           enums.Severity       `json:"severity"`
	Status             enums.ReportStatus   `json:"status"`
	Title              string               `json:"title"`
	Description        string               `json:"description"`
	Evidence           []EvidenceItem       `json:"evidence"`
	Metadata           Metadata             `json:"metadata"`

	AssignedModerator *string    `json:"assignedModerator,omitempty"`
	AssignedAt        *time.Time `json:"assignedAt,omitempty"`

	ResolvedBy      *string               `json:"resolvedBy,omitempty"`
	ResolvedAt      *time.Time            `json:"resolvedAt,omitempty"`
	Resolution      *enums.ResolutionType `json:"resolution,omitempty"`
	ResolutionNotes *string               `json:"resolutionNotes,omitempty"`

	EscalatedTo      *string    `json:"escalatedTo,omitempty"`
	EscalatedAt      *time.Time `json:"escalatedAt,omitempty"`
	EscalationReason *string    `json:"escalationReason,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Validate enforces field bounds, enum membership, and the resolution
// invariant. It is applied to untrusted input on the way in and re-applied to
// records read back from storage (a failure there is a DataIntegrityError at
// the caller).
func (r Report) Validate() error {
	if !validate.Required(r.ReportID) {
		return errs.Validation("reportId", "is required")
	}
	if !validate.Required(r.ReporterID) {
		return errs.Validation("reporterId", "is required")
	}
	if !r.ReportedEntityType.Valid() {
		return errs.Validationf("reportedEntityType", "unknown entity type %q", r.ReportedEntityType)
	}
	if !validate.Required(r.ReportedEntityID) {
		return errs.Validation("reportedEntityId", "is required")
	}
	if !r.Category.Valid() {
		return errs.Validationf("category", "unknown category %q", r.Category)
	}
	if !r.Severity.Valid() {
		return errs.Validationf("severity", "unknown severity %q", r.Severity)
	}
	if !r.Status.Valid() {
		return errs.Validationf("status", "unknown status %q", r.Status)
	}
	if !validate.LengthBetween(r.Title, TitleMinLen, TitleMaxLen) {
		return errs.Validationf("title", "must be %d-%d characters, got %d", TitleMinLen, TitleMaxLen, utf8.RuneCountInString(r.Title))
	}
	if !validate.LengthBetween(r.Description, DescriptionMinLen, DescriptionMaxLen) {
		return errs.Validationf("description", "must be %d-%d characters, got %d", DescriptionMinLen, DescriptionMaxLen, utf8.RuneCountInString(r.Description))
	}
	if err := ValidateEvidence("evidence", r.Evidence); err != nil {
		return err
	}
	if r.Resolution != nil && !r.Resolution.Valid() {
		return errs.Validationf("resolution", "unknown resolution %q", *r.Resolution)
	}

	resolved := r.Status == enums.ReportStatusResolved
	hasResolution := r.Resolution != nil && r.ResolvedBy != nil && r.ResolvedAt != nil
	if resolved && !hasResolution {
		return errs.Validation("resolution", "resolved report is missing resolution fields")
	}
	if !resolved && (r.Resolution != nil || r.ResolvedBy != nil || r.ResolvedAt != nil) {
		return errs.Validation("resolution", "resolution fields set on a non-resolved report")
	}
	return nil
}

// Overdue reports whether the report has sat unreviewed for longer than the
// given threshold. Derived at query time, never stored.
func (r Report) Overdue(now time.Time, threshold time.Duration) bool {
	return r.Status == enums.ReportStatusPending && now.Sub(r.CreatedAt) > threshold
}
