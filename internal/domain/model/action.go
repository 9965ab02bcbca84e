package model

import (
	"time"
	"unicode/utf8"

	"github.com/ideaSquared/adopt-dont-shop-moderation/internal/domain/enums"
	"github.com/ideaSquared/adopt-dont-shop-moderation/internal/domain/errs"
	"github.com/ideaSquared/adopt-dont-shop-moderation/internal/pkg/validate"
)

const (
	ReasonMinLen     = 3
	ReasonMaxLen     = 500
	DurationMinHours = 1
	DurationMaxHours = 8760 // one year
)

// ModeratorAction is a disciplinary or corrective action recorded against a
// platform entity, optionally time-bounded and reversible. Once reversed it
// can never be reactivated.
type ModeratorAction struct {
	ActionID         string           `json:"actionId"`
	ModeratorID      string           `json:"moderatorId"`
	ReportID         *string          `json:"reportId,omitempty"`
	TargetEntityType enums.EntityType `json:"targetEntityType"`
	TargetEntityID   string           `json:"targetEntityId"`
	TargetUserID     *string          `json:"targetUserId,omitempty"`
	ActionType       enums.ActionType `json:"actionType"`
	Severity         enums.Severity   `json:"severity"`
	Reason           string           `json:"reason"`
	Description      *string          `json:"description,omitempty"`
	Metadata         Metadata         `json:"metadata"`

	// Duration is in hours; ExpiresAt is derived as CreatedAt + Duration and
	// is present iff Duration is.
	Duration  *int       `json:"duration,omitempty"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`

	IsActive       bool       `json:"isActive"`
	ReversedBy     *string    `json:"reversedBy,omitempty"`
	ReversedAt     *time.Time `json:"reversedAt,omitempty"`
	ReversalReason *string    `json:"reversalReason,omitempty"`

	Evidence         []EvidenceItem `json:"evidence"`
	NotificationSent bool           `json:"notificationSent"`
	InternalNotes    *string        `json:"internalNotes,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Validate enforces field bounds, enum membership, the expiry derivation
// invariant, and the all-or-nothing reversal invariant.
func (a ModeratorAction) Validate() error {
	if !validate.Required(a.ActionID) {
		return errs.Validation("actionId", "is required")
	}
	if !validate.Required(a.ModeratorID) {
		return errs.Validation("moderatorId", "is required")
	}
	if !a.TargetEntityType.Valid() {
		return errs.Validationf("targetEntityType", "unknown entity type %q", a.TargetEntityType)
	}
	if !validate.Required(a.TargetEntityID) {
		return errs.Validation("targetEntityId", "is required")
	}
	if !a.ActionType.Valid() {
		return errs.Validationf("actionType", "unknown action type %q", a.ActionType)
	}
	if !a.Severity.Valid() {
		return errs.Validationf("severity", "unknown severity %q", a.Severity)
	}
	if !validate.LengthBetween(a.Reason, ReasonMinLen, ReasonMaxLen) {
		return errs.Validationf("reason", "must be %d-%d characters, got %d", ReasonMinLen, ReasonMaxLen, utf8.RuneCountInString(a.Reason))
	}
	if a.Duration != nil {
		if !validate.IntBetween(*a.Duration, DurationMinHours, DurationMaxHours) {
			return errs.Validationf("duration", "must be %d-%d hours, got %d", DurationMinHours, DurationMaxHours, *a.Duration)
		}
		if a.ExpiresAt == nil {
			return errs.Validation("expiresAt", "missing for a time-bounded action")
		}
		want := a.CreatedAt.Add(time.Duration(*a.Duration) * time.Hour)
		if !a.ExpiresAt.Equal(want) {
			return errs.Validation("expiresAt", "does not equal createdAt + duration")
		}
	} else if a.ExpiresAt != nil {
		return errs.Validation("expiresAt", "set without a duration")
	}
	if err := ValidateEvidence("evidence", a.Evidence); err != nil {
		return err
	}

	reversalFields := 0
	if a.ReversedBy != nil {
		reversalFields++
	}
	if a.ReversedAt != nil {
		reversalFields++
	}
	if a.ReversalReason != nil {
		reversalFields++
	}
	if reversalFields != 0 && reversalFields != 3 {
		return errs.Validation("reversedAt", "reversal fields must be set together")
	}
	if reversalFields == 3 && a.IsActive {
		return errs.Validation("isActive", "reversed action cannot be active")
	}
	return nil
}

// Expired reports whether a time-bounded action has passed its expiry at the
// given instant. Pure derivation; it never touches IsActive.
func (a ModeratorAction) Expired(now time.Time) bool {
	return a.Duration != nil && a.ExpiresAt != nil && now.After(*a.ExpiresAt)
}

// EffectiveActive combines the stored active flag with the lazy expiry check.
// There is no background sweep by default, so this is the read-time truth.
func (a ModeratorAction) EffectiveActive(now time.Time) bool {
	return a.IsActive && !a.Expired(now)
}
