package model

import (
	"fmt"
	"time"

	"github.com/ideaSquared/adopt-dont-shop-moderation/internal/domain/enums"
	"github.com/ideaSquared/adopt-dont-shop-moderation/internal/domain/errs"
	"github.com/ideaSquared/adopt-dont-shop-moderation/internal/pkg/validate"
)

// EvidenceItem is an immutable attachment supporting a report or action.
// Evidence lists are append-only; the core never mutates an existing item.
type EvidenceItem struct {
	Type        enums.EvidenceType `json:"type"`
	Content     string             `json:"content"`
	Description *string            `json:"description,omitempty"`
	UploadedAt  *time.Time         `json:"uploadedAt,omitempty"`
}

// ValidateEvidence checks every item in the list, reporting the first failure
// with an indexed field path under the given prefix ("evidence").
func ValidateEvidence(prefix string, items []EvidenceItem) error {
	for i, item := range items {
		if !item.Type.Valid() {
			return errs.Validationf(fmt.Sprintf("%s[%d].type", prefix, i), "unknown evidence type %q", item.Type)
		}
		if !validate.Required(item.Content) {
			return errs.Validation(fmt.Sprintf("%s[%d].content", prefix, i), "content is required")
		}
	}
	return nil
}
