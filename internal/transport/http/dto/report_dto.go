package dto

import (
	"time"

	"github.com/ideaSquared/adopt-dont-shop-moderation/internal/domain/enums"
	"github.com/ideaSquared/adopt-dont-shop-moderation/internal/domain/model"
	"github.com/ideaSquared/adopt-dont-shop-moderation/internal/services/actions"
	"github.com/ideaSquared/adopt-dont-shop-moderation/internal/services/reports"
)

type EvidenceItemRequest struct {
	Type        string  `json:"type"`
	Content     string  `json:"content"`
	Description *string `json:"description,omitempty"`
}

type CreateReportRequest struct {
	ReporterID         string                `json:"reporterId"`
	ReportedEntityType string                `json:"reportedEntityType"`
	ReportedEntityID   string                `json:"reportedEntityId"`
	ReportedUserID     *string               `json:"reportedUserId,omitempty"`
	Category           string                `json:"category"`
	Severity           *string               `json:"severity,omitempty"`
	Title              string                `json:"title"`
	Description        string                `json:"description"`
	Evidence           []EvidenceItemRequest `json:"evidence,omitempty"`
	Metadata           map[string]any        `json:"metadata,omitempty"`
}

func (r CreateReportRequest) Submission(now time.Time) reports.Submission {
	sub := reports.Submission{
		ReportedEntityType: enums.EntityType(r.ReportedEntityType),
		ReportedEntityID:   r.ReportedEntityID,
		ReportedUserID:     r.ReportedUserID,
		Category:           enums.ReportCategory(r.Category),
		Title:              r.Title,
		Description:        r.Description,
		Evidence:           evidenceItems(r.Evidence, now),
		Metadata:           model.Metadata(r.Metadata),
	}
	if r.Severity != nil {
		severity := enums.Severity(*r.Severity)
		sub.Severity = &severity
	}
	return sub
}

type UpdateReportStatusRequest struct {
	Status           string  `json:"status"`
	ActorID          string  `json:"actorId"`
	Notes            *string `json:"notes,omitempty"`
	Resolution       *string `json:"resolution,omitempty"`
	EscalatedTo      *string `json:"escalatedTo,omitempty"`
	EscalationReason *string `json:"escalationReason,omitempty"`
}

func (r UpdateReportStatusRequest) StatusChange() reports.StatusChange {
	change := reports.StatusChange{
		Status:           enums.ReportStatus(r.Status),
		ActorID:          r.ActorID,
		Notes:            r.Notes,
		EscalatedTo:      r.EscalatedTo,
		EscalationReason: r.EscalationReason,
	}
	if r.Resolution != nil {
		resolution := enums.ResolutionType(*r.Resolution)
		change.Resolution = &resolution
	}
	return change
}

type AssignReportRequest struct {
	ModeratorID string `json:"moderatorId"`
}

type EscalateReportRequest struct {
	EscalatedTo string `json:"escalatedTo"`
	Reason      string `json:"reason"`
}

type ResolveReportRequest struct {
	ActorID string               `json:"actorId"`
	Notes   *string              `json:"notes,omitempty"`
	Action  *CreateActionRequest `json:"action,omitempty"`
}

type DismissReportRequest struct {
	ActorID string  `json:"actorId"`
	Notes   *string `json:"notes,omitempty"`
}

type TakeActionRequest struct {
	ModeratorID     string              `json:"moderatorId"`
	Action          CreateActionRequest `json:"action"`
	ResolutionNotes *string             `json:"resolutionNotes,omitempty"`
}

type BulkUpdateReportsRequest struct {
	ReportIDs   []string `json:"reportIds"`
	Action      string   `json:"action"`
	ModeratorID *string  `json:"moderatorId,omitempty"`
	EscalatedTo *string  `json:"escalatedTo,omitempty"`
	Notes       *string  `json:"notes,omitempty"`
}

type ReportsResponse struct {
	Reports    []model.Report   `json:"reports"`
	Pagination model.Pagination `json:"pagination"`
}

type ReportWithActionResponse struct {
	Report model.Report           `json:"report"`
	Action *model.ModeratorAction `json:"action,omitempty"`
}

func evidenceItems(items []EvidenceItemRequest, now time.Time) []model.EvidenceItem {
	if len(items) == 0 {
		return nil
	}
	out := make([]model.EvidenceItem, 0, len(items))
	uploadedAt := now
	for _, item := range items {
		out = append(out, model.EvidenceItem{
			Type:        enums.EvidenceType(item.Type),
			Content:     item.Content,
			Description: item.Description,
			UploadedAt:  &uploadedAt,
		})
	}
	return out
}

func actionDraft(r CreateActionRequest) actions.Draft {
	draft := actions.Draft{
		ReportID:         r.ReportID,
		TargetEntityType: enums.EntityType(r.TargetEntityType),
		TargetEntityID:   r.TargetEntityID,
		TargetUserID:     r.TargetUserID,
		ActionType:       enums.ActionType(r.ActionType),
		Severity:         enums.Severity(r.Severity),
		Reason:           r.Reason,
		Description:      r.Description,
		DurationHours:    r.Duration,
		InternalNotes:    r.InternalNotes,
		Metadata:         model.Metadata(r.Metadata),
	}
	return draft
}
