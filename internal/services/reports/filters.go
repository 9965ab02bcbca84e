package reports

import (
	"github.com/ideaSquared/adopt-dont-shop-moderation/internal/domain/enums"
	"github.com/ideaSquared/adopt-dont-shop-moderation/internal/domain/errs"
)

const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100
)

type SortField string

const (
	SortByCreatedAt SortField = "createdAt"
	SortByUpdatedAt SortField = "updatedAt"
	SortBySeverity  SortField = "severity"
)

type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// Filters is the canonical query descriptor handed to the report store.
// Unset optional fields are nil and must be omitted by the store, never
// translated into wildcards.
type Filters struct {
	Status             *enums.ReportStatus
	Category           *enums.ReportCategory
	Severity           *enums.Severity
	ReportedEntityType *enums.EntityType
	AssignedModerator  *string
	Search             *string

	Page      int
	Limit     int
	SortBy    SortField
	SortOrder SortOrder
}

// Normalize applies paging defaults and caps and validates every enum-valued
// field. Out-of-range page and limit are clamped rather than rejected; an
// unknown enum value is a ValidationError.
func (f Filters) Normalize() (Filters, error) {
	if f.Status != nil && !f.Status.Valid() {
		return Filters{}, errs.Validationf("status", "unknown status %q", *f.Status)
	}
	if f.Category != nil && !f.Category.Valid() {
		return Filters{}, errs.Validationf("category", "unknown category %q", *f.Category)
	}
	if f.Severity != nil && !f.Severity.Valid() {
		return Filters{}, errs.Validationf("severity", "unknown severity %q", *f.Severity)
	}
	if f.ReportedEntityType != nil && !f.ReportedEntityType.Valid() {
		return Filters{}, errs.Validationf("reportedEntityType", "unknown entity type %q", *f.ReportedEntityType)
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

	switch f.SortBy {
	case "":
		f.SortBy = SortByCreatedAt
	case SortByCreatedAt, SortByUpdatedAt, SortBySeverity:
	default:
		return Filters{}, errs.Validationf("sortBy", "unknown sort field %q", f.SortBy)
	}

	switch f.SortOrder {
	case "":
		f.SortOrder = SortDesc
	case SortAsc, SortDesc:
	default:
		return Filters{}, errs.Validationf("sortOrder", "unknown sort order %q", f.SortOrder)
	}

	return f, nil
}
