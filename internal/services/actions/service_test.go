package actions

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ideaSquared/adopt-dont-shop-moderation/internal/domain/enums"
	"github.com/ideaSquared/adopt-dont-shop-moderation/internal/domain/errs"
	"github.com/ideaSquared/adopt-dont-shop-moderation/internal/domain/model"
)

type memoryActionStore struct {
	actions map[string]model.ModeratorAction
	order   []string
}

func newMemoryActionStore() *memoryActionStore {
	return &memoryActionStore{actions: make(map[string]model.ModeratorAction)}
}

func (s *memoryActionStore) Create(_ context.Context, action model.ModeratorAction) error {
	s.actions[action.ActionID] = action
	s.order = append(s.order, action.ActionID)
	return nil
}

func (s *memoryActionStore) Get(_ context.Context, actionID string) (model.ModeratorAction, error) {
	action, ok := s.actions[actionID]
	if !ok {
		return model.ModeratorAction{}, errs.NotFound("action", actionID)
	}
	return action, nil
}

func (s *memoryActionStore) Update(_ context.Context, action model.ModeratorAction) error {
	if _, ok := s.actions[action.ActionID]; !ok {
		return errs.NotFound("action", action.ActionID)
	}
	s.actions[action.ActionID] = action
	return nil
}

func (s *memoryActionStore) List(_ context.Context, filters Filters) ([]model.ModeratorAction, model.Pagination, error) {
	var items []model.ModeratorAction
	for _, id := range s.order {
		action := s.actions[id]
		if filters.ActionType != nil && action.ActionType != *filters.ActionType {
			continue
		}
		if filters.ModeratorID != nil && action.ModeratorID != *filters.ModeratorID {
			continue
		}
		items = append(items, action)
	}
	return items, model.NewPagination(filters.Page, filters.Limit, len(items)), nil
}

func (s *memoryActionStore) ListActiveForUser(_ context.Context, userID string) ([]model.ModeratorAction, error) {
	var items []model.ModeratorAction
	for _, id := range s.order {
		action := s.actions[id]
		if action.TargetUserID == nil || *action.TargetUserID != userID || !action.IsActive {
			continue
		}
		items = append(items, action)
	}
	return items, nil
}

func (s *memoryActionStore) ListExpiredActive(_ context.Context, now time.Time) ([]model.ModeratorAction, error) {
	var items []model.ModeratorAction
	for _, id := range s.order {
		action := s.actions[id]
		if action.IsActive && action.Expired(now) {
			items = append(items, action)
		}
	}
	return items, nil
}

type recordingNotifier struct {
	calls int
	err   error
}

func (n *recordingNotifier) NotifyActionTaken(_ context.Context, _ model.ModeratorAction) error {
	n.calls++
	return n.err
}

func validDraft() Draft {
	userID := "user-42"
	return Draft{
		TargetEntityType: enums.EntityUser,
		TargetEntityID:   "user-42",
		TargetUserID:     &userID,
		ActionType:       enums.ActionWarningIssued,
		Severity:         enums.SeverityMedium,
		Reason:           "repeated spam in listings",
	}
}

func newTestService(store Store, notifier Notifier) *Service {
	svc := NewService(store, notifier, nil)
	svc.now = func() time.Time {
		return time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	}
	return svc
}

func TestCreateDerivesExpiry(t *testing.T) {
	store := newMemoryActionStore()
	svc := newTestService(store, nil)

	hours := 48
	draft := validDraft()
	draft.ActionType = enums.ActionUserSuspended
	draft.DurationHours = &hours

	action, err := svc.Create(context.Background(), "mod-1", draft)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if action.ExpiresAt == nil {
		t.Fatal("expiresAt not derived")
	}
	want := action.CreatedAt.Add(48 * time.Hour)
	if !action.ExpiresAt.Equal(want) {
		t.Fatalf("unexpected expiresAt: got %v want %v", action.ExpiresAt, want)
	}
	if !action.IsActive {
		t.Fatal("new action must be active")
	}
}

func TestCreatePermanentActionHasNoExpiry(t *testing.T) {
	store := newMemoryActionStore()
	svc := newTestService(store, nil)

	action, err := svc.Create(context.Background(), "mod-1", validDraft())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if action.Duration != nil || action.ExpiresAt != nil {
		t.Fatalf("permanent action must not expire: %+v", action)
	}
}

func TestCreateValidatesDurationBounds(t *testing.T) {
	store := newMemoryActionStore()
	svc := newTestService(store, nil)

	for _, hours := range []int{0, -5, 9000} {
		draft := validDraft()
		draft.DurationHours = &hours
		if _, err := svc.Create(context.Background(), "mod-1", draft); !errs.IsValidation(err) {
			t.Fatalf("expected validation error for duration=%d, got %v", hours, err)
		}
	}
}

func TestCreateNotifiesTargetUser(t *testing.T) {
	store := newMemoryActionStore()
	notifier := &recordingNotifier{}
	svc := newTestService(store, notifier)

	action, err := svc.Create(context.Background(), "mod-1", validDraft())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if notifier.calls != 1 {
		t.Fatalf("unexpected notifier calls: %d", notifier.calls)
	}
	if !action.NotificationSent {
		t.Fatal("notificationSent not recorded")
	}

	stored := store.actions[action.ActionID]
	if !stored.NotificationSent {
		t.Fatal("notificationSent not persisted")
	}
}

func TestCreateSurvivesNotifierFailure(t *testing.T) {
	store := newMemoryActionStore()
	notifier := &recordingNotifier{err: errors.New("smtp down")}
	svc := newTestService(store, notifier)

	action, err := svc.Create(context.Background(), "mod-1", validDraft())
	if err != nil {
		t.Fatalf("create must not fail on notification error: %v", err)
	}
	if action.NotificationSent {
		t.Fatal("notificationSent must stay false after delivery failure")
	}
	if _, ok := store.actions[action.ActionID]; !ok {
		t.Fatal("action not persisted")
	}
}

func TestReverseIsOneShot(t *testing.T) {
	store := newMemoryActionStore()
	svc := newTestService(store, nil)
	ctx := context.Background()

	action, err := svc.Create(ctx, "mod-1", validDraft())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	reversed, err := svc.Reverse(ctx, action.ActionID, "mod-2", "issued in error")
	if err != nil {
		t.Fatalf("reverse: %v", err)
	}
	if reversed.IsActive {
		t.Fatal("reversed action must be inactive")
	}
	if reversed.ReversedBy == nil || reversed.ReversedAt == nil || reversed.ReversalReason == nil {
		t.Fatalf("reversal fields incomplete: %+v", reversed)
	}

	_, err = svc.Reverse(ctx, action.ActionID, "mod-3", "try again")
	var reversedErr *errs.AlreadyReversedError
	if !errors.As(err, &reversedErr) {
		t.Fatalf("expected AlreadyReversedError, got %v", err)
	}
}

func TestReverseRequiresReason(t *testing.T) {
	store := newMemoryActionStore()
	svc := newTestService(store, nil)
	ctx := context.Background()

	action, err := svc.Create(ctx, "mod-1", validDraft())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.Reverse(ctx, action.ActionID, "mod-2", ""); !errs.IsValidation(err) {
		t.Fatalf("expected validation error without reason, got %v", err)
	}
}

func TestListActiveForUserAppliesLazyExpiry(t *testing.T) {
	store := newMemoryActionStore()
	svc := newTestService(store, nil)
	ctx := context.Background()

	// Permanent action: always active until reversed.
	if _, err := svc.Create(ctx, "mod-1", validDraft()); err != nil {
		t.Fatalf("create permanent: %v", err)
	}

	// Time-bounded action that will lapse before the read.
	hours := 2
	bounded := validDraft()
	bounded.ActionType = enums.ActionAccountRestricted
	bounded.DurationHours = &hours
	if _, err := svc.Create(ctx, "mod-1", bounded); err != nil {
		t.Fatalf("create bounded: %v", err)
	}

	svc.now = func() time.Time {
		return time.Date(2026, 3, 15, 15, 0, 0, 0, time.UTC) // 3h later
	}

	active, err := svc.ListActiveForUser(ctx, "user-42")
	if err != nil {
		t.Fatalf("list active: %v", err)
	}
	if len(active) != 1 {
		t.Fatalf("unexpected active count: got %d want 1", len(active))
	}
	if active[0].ActionType != enums.ActionWarningIssued {
		t.Fatalf("wrong survivor: %s", active[0].ActionType)
	}
}

func TestExpireDueReconcilesStoredFlags(t *testing.T) {
	store := newMemoryActionStore()
	svc := newTestService(store, nil)
	ctx := context.Background()

	hours := 2
	draft := validDraft()
	draft.ActionType = enums.ActionUserSuspended
	draft.DurationHours = &hours
	created, err := svc.Create(ctx, "mod-1", draft)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.Create(ctx, "mod-1", validDraft()); err != nil {
		t.Fatalf("create permanent: %v", err)
	}

	svc.now = func() time.Time {
		return time.Date(2026, 3, 15, 15, 0, 0, 0, time.UTC)
	}

	expired, err := svc.ExpireDue(ctx)
	if err != nil {
		t.Fatalf("expire due: %v", err)
	}
	if expired != 1 {
		t.Fatalf("unexpected expired count: got %d want 1", expired)
	}
	if store.actions[created.ActionID].IsActive {
		t.Fatal("expired action still marked active")
	}

	// Idempotent: a second sweep finds nothing.
	expired, err = svc.ExpireDue(ctx)
	if err != nil {
		t.Fatalf("second sweep: %v", err)
	}
	if expired != 0 {
		t.Fatalf("second sweep expired %d actions", expired)
	}
}
