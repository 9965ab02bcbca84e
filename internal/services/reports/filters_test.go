package reports

import (
	"testing"

	"github.com/ideaSquared/adopt-dont-shop-moderation/internal/domain/enums"
	"github.com/ideaSquared/adopt-dont-shop-moderation/internal/domain/errs"
)

func TestNormalizeDefaults(t *testing.T) {
	got, err := Filters{}.Normalize()
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if got.Page != 1 || got.Limit != DefaultPageLimit {
		t.Fatalf("unexpected paging defaults: page=%d limit=%d", got.Page, got.Limit)
	}
	if got.SortBy != SortByCreatedAt || got.SortOrder != SortDesc {
		t.Fatalf("unexpected sort defaults: %s %s", got.SortBy, got.SortOrder)
	}
}

func TestNormalizeClampsPaging(t *testing.T) {
	got, err := Filters{Page: -3, Limit: 5000}.Normalize()
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if got.Page != 1 {
		t.Fatalf("page not clamped: %d", got.Page)
	}
	if got.Limit != MaxPageLimit {
		t.Fatalf("limit not capped: %d", got.Limit)
	}
}

func TestNormalizeRejectsUnknownEnums(t *testing.T) {
	badStatus := enums.ReportStatus("archived")
	if _, err := (Filters{Status: &badStatus}).Normalize(); !errs.IsValidation(err) {
		t.Fatalf("expected validation error for status, got %v", err)
	}

	badSeverity := enums.Severity("extreme")
	if _, err := (Filters{Severity: &badSeverity}).Normalize(); !errs.IsValidation(err) {
		t.Fatalf("expected validation error for severity, got %v", err)
	}

	if _, err := (Filters{SortBy: "priority"}).Normalize(); !errs.IsValidation(err) {
		t.Fatalf("expected validation error for sortBy, got %v", err)
	}
	if _, err := (Filters{SortOrder: "up"}).Normalize(); !errs.IsValidation(err) {
		t.Fatalf("expected validation error for sortOrder, got %v", err)
	}
}

func TestNormalizeKeepsExplicitValues(t *testing.T) {
	status := enums.ReportStatusUnderReview
	got, err := Filters{
		Status:    &status,
		Page:      3,
		Limit:     50,
		SortBy:    SortBySeverity,
		SortOrder: SortAsc,
	}.Normalize()
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if got.Page != 3 || got.Limit != 50 {
		t.Fatalf("paging mutated: page=%d limit=%d", got.Page, got.Limit)
	}
	if got.SortBy != SortBySeverity || got.SortOrder != SortAsc {
		t.Fatalf("sort mutated: %s %s", got.SortBy, got.SortOrder)
	}
	if got.Status == nil || *got.Status != status {
		t.Fatalf("status filter lost: %+v", got.Status)
	}
}
