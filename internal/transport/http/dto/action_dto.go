package dto

import (
	"time"

	"github.com/ideaSquared/adopt-dont-shop-moderation/internal/domain/model"
	"github.com/ideaSquared/adopt-dont-shop-moderation/internal/services/actions"
)

type CreateActionRequest struct {
	ReportID         *string               `json:"reportId,omitempty"`
	TargetEntityType string                `json:"targetEntityType"`
	TargetEntityID   string                `json:"targetEntityId"`
	TargetUserID     *string               `json:"targetUserId,omitempty"`
	ActionType       string                `json:"actionType"`
	Severity         string                `json:"severity"`
	Reason           string                `json:"reason"`
	Description      *string               `json:"description,omitempty"`
	Duration         *int                  `json:"duration,omitempty"`
	Evidence         []EvidenceItemRequest `json:"evidence,omitempty"`
	InternalNotes    *string               `json:"internalNotes,omitempty"`
	Metadata         map[string]any        `json:"metadata,omitempty"`
}

func (r CreateActionRequest) Draft(now time.Time) actions.Draft {
	draft := actionDraft(r)
	draft.Evidence = evidenceItems(r.Evidence, now)
	return draft
}

type ReverseActionRequest struct {
	ReversedBy string `json:"reversedBy"`
	Reason     string `json:"reason"`
}

type ActionsResponse struct {
	Actions    []model.ModeratorAction `json:"actions"`
	Pagination model.Pagination        `json:"pagination"`
}

type ActiveActionsResponse struct {
	Actions []model.ModeratorAction `json:"actions"`
}

type ExpireActionsResponse struct {
	Expired int `json:"expired"`
}
