package actions

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

// Store is the persistence collaborator for the actions ledger.
type Store interface {
	Create(ctx context.Context, action model.ModeratorAction) error
	Get(ctx context.Context, actionID string) (model.ModeratorAction, error)
	Update(ctx context.Context, action model.ModeratorAction) error
	List(ctx context.Context, filters Filters) ([]model.ModeratorAction, model.Pagination, error)
	ListActiveForUser(ctx context.Context, userID string) ([]model.ModeratorAction, error)
	ListExpiredActive(ctx context.Context, now time.Time) ([]model.ModeratorAction, error)
}

// Notifier delivers the notification owed to a user whose account an action
// targets. Delivery is best effort and never blocks the action itself.
type Notifier interface {
	NotifyActionTaken(ctx context.Context, action model.ModeratorAction) error
}

// Draft is the typed create-action input.
type Draft struct {
	ReportID         *string
	TargetEntityType enums.EntityType
	TargetEntityID   string
	TargetUserID     *string
	ActionType       enums.ActionType
	Severity         enums.Severity
	Reason           string
	Description      *string
	DurationHours    *int
	Evidence         []model.EvidenceItem
	InternalNotes    *string
	Metadata         model.Metadata
}

type Service struct {
	store    Store
	notifier Notifier
	logger   *zap.Logger
	now      func() time.Time
}

func NewService(store Store, notifier Notifier, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		store:    store,
		notifier: notifier,
		logger:   logger,
		now:      time.Now,
	}
}

// Create validates and records a new action. Time-bounded actions get their
// expiry derived from the creation instant. If the action targets a user and
// a notifier is attached, the user is notified after the record is durable;
// a notification failure is logged, not returned.
func (s *Service) Create(ctx context.Context, moderatorID string, draft Draft) (model.ModeratorAction, error) {
	if s.store == nil {
		return model.ModeratorAction{}, fmt.Errorf("action store is not configured")
	}
	if strings.TrimSpace(moderatorID) == "" {
		return model.ModeratorAction{}, errs.Validation("moderatorId", "is required")
	}

	now := s.now().UTC()
	action := model.ModeratorAction{
		ActionID:         model.NewActionID(),
		ModeratorID:      moderatorID,
		ReportID:         draft.ReportID,
		TargetEntityType: draft.TargetEntityType,
		TargetEntityID:   draft.TargetEntityID,
		TargetUserID:     draft.TargetUserID,
		ActionType:       draft.ActionType,
		Severity:         draft.Severity,
		Reason:           draft.Reason,
		Description:      draft.Description,
		Metadata:         draft.Metadata.Clone(),
		Duration:         draft.DurationHours,
		IsActive:         true,
		Evidence:         append([]model.EvidenceItem(nil), draft.Evidence...),
		InternalNotes:    draft.InternalNotes,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if draft.DurationHours != nil {
		expiresAt := now.Add(time.Duration(*draft.DurationHours) * time.Hour)
		action.ExpiresAt = &expiresAt
	}
	if err := action.Validate(); err != nil {
		return model.ModeratorAction{}, err
	}

	if err := s.store.Create(ctx, action); err != nil {
		return model.ModeratorAction{}, fmt.Errorf("create action: %w", err)
	}

	s.logger.Info("moderator action recorded",
		zap.String("action_id", action.ActionID),
		zap.String("action_type", string(action.ActionType)),
		zap.String("moderator_id", action.ModeratorID),
	)

	if s.notifier != nil && action.TargetUserID != nil {
		if err := s.notifier.NotifyActionTaken(ctx, action); err != nil {
			s.logger.Warn("action notification failed",
				zap.String("action_id", action.ActionID),
				zap.Error(err),
			)
		} else {
			action.NotificationSent = true
			action.UpdatedAt = s.now().UTC()
			if err := s.store.Update(ctx, action); err != nil {
				s.logger.Warn("mark notification sent failed",
					zap.String("action_id", action.ActionID),
					zap.Error(err),
				)
			}
		}
	}
	return action, nil
}

// Get loads one action, re-validated against the schema.
func (s *Service) Get(ctx context.Context, actionID string) (model.ModeratorAction, error) {
	if s.store == nil {
		return model.ModeratorAction{}, fmt.Errorf("action store is not configured")
	}

	action, err := s.store.Get(ctx, actionID)
	if err != nil {
		return model.ModeratorAction{}, err
	}
	if err := action.Validate(); err != nil {
		return model.ModeratorAction{}, errs.Integrity("action", actionID, err)
	}
	return action, nil
}

// Reverse undoes an action exactly once. A second reversal attempt fails with
// AlreadyReversedError no matter who attempts it.
func (s *Service) Reverse(ctx context.Context, actionID, reversedBy, reason string) (model.ModeratorAction, error) {
	if s.store == nil {
		return model.ModeratorAction{}, fmt.Errorf("action store is not configured")
	}
	if strings.TrimSpace(reversedBy) == "" {
		return model.ModeratorAction{}, errs.Validation("reversedBy", "is required")
	}
	if strings.TrimSpace(reason) == "" {
		return model.ModeratorAction{}, errs.Validation("reversalReason", "is required")
	}

	action, err := s.Get(ctx, actionID)
	if err != nil {
		return model.ModeratorAction{}, err
	}
	if action.ReversedAt != nil {
		return model.ModeratorAction{}, &errs.AlreadyReversedError{ActionID: actionID}
	}

	now := s.now().UTC()
	action.ReversedBy = &reversedBy
	action.ReversedAt = &now
	action.ReversalReason = &reason
	action.IsActive = false
	action.UpdatedAt = now

	if err := s.store.Update(ctx, action); err != nil {
		return model.ModeratorAction{}, fmt.Errorf("reverse action: %w", err)
	}

	s.logger.Info("moderator action reversed",
		zap.String("action_id", action.ActionID),
		zap.String("reversed_by", reversedBy),
	)
	return action, nil
}

// List pages through the ledger.
func (s *Service) List(ctx context.Context, filters Filters) ([]model.ModeratorAction, model.Pagination, error) {
	if s.store == nil {
		return nil, model.Pagination{}, fmt.Errorf("action store is not configured")
	}

	normalized, err := filters.Normalize()
	if err != nil {
		return nil, model.Pagination{}, err
	}

	items, page, err := s.store.List(ctx, normalized)
	if err != nil {
		return nil, model.Pagination{}, fmt.Errorf("list actions: %w", err)
	}
	return items, page, nil
}

// ListActiveForUser returns the actions currently in force against a user.
// Expiry is applied lazily at read time, so a stored record whose expiry has
// passed is filtered out even before any sweep marks it inactive.
func (s *Service) ListActiveForUser(ctx context.Context, userID string) ([]model.ModeratorAction, error) {
	if s.store == nil {
		return nil, fmt.Errorf("action store is not configured")
	}
	if strings.TrimSpace(userID) == "" {
		return nil, errs.Validation("userId", "is required")
	}

	items, err := s.store.ListActiveForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list active actions: %w", err)
	}

	now := s.now().UTC()
	active := make([]model.ModeratorAction, 0, len(items))
	for _, action := range items {
		if action.EffectiveActive(now) {
			active = append(active, action)
		}
	}
	return active, nil
}

// ExpireDue marks every active action whose expiry has passed as inactive and
// returns how many records changed. Reads stay correct without it; the sweep
// only reconciles the stored flags with what EffectiveActive already reports.
func (s *Service) ExpireDue(ctx context.Context) (int, error) {
	if s.store == nil {
		return 0, fmt.Errorf("action store is not configured")
	}

	now := s.now().UTC()
	due, err := s.store.ListExpiredActive(ctx, now)
	if err != nil {
		return 0, fmt.Errorf("list expired actions: %w", err)
	}

	expired := 0
	for _, action := range due {
		if !action.Expired(now) {
			continue
		}
		action.IsActive = false
		action.UpdatedAt = now
		if err := s.store.Update(ctx, action); err != nil {
			s.logger.Warn("expire action failed",
				zap.String("action_id", action.ActionID),
				zap.Error(err),
			)
			continue
		}
		expired++
	}

	if expired > 0 {
		s.logger.Info("expired actions swept", zap.Int("count", expired))
	}
	return expired, nil
}
