package actions

import (
	"github.com/ideaSquared/adopt-dont-shop-moderation/internal/domain/enums"
	"github.com/ideaSquared/adopt-dont-shop-moderation/internal/domain/errs"
)

const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100
)

// Filters is the query descriptor for the actions ledger. Nil means
// "not filtered on".
type Filters struct {
	ActionType   *enums.ActionType
	Severity     *enums.Severity
	IsActive     *bool
	ModeratorID  *string
	TargetUserID *string
	ReportID     *string

	Page  int
	Limit int
}

// Normalize validates enum-valued fields and applies paging defaults.
func (f Filters) Normalize() (Filters, error) {
	if f.ActionType != nil && !f.ActionType.Valid() {
		return Filters{}, errs.Validationf("actionType", "unknown action type %q", *f.ActionType)
	}
	if f.Severity != nil && !f.Severity.Valid() {
		return Filters{}, errs.Validationf("severity", "unknown severity %q", *f.Severity)
	}

	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = DefaultPageLimit
	}
	if f.Limit > MaxPageLimit {
		f.Limit = MaxPageLimit
	}
	return f, nil
}
