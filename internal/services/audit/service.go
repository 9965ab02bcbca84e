package audit

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/ideaSquared/adopt-dont-shop-moderation/internal/domain/model"
)

// Entry is one row of the moderation audit trail.
type Entry struct {
	ActorID   string         `json:"actorId"`
	Action    string         `json:"action"`
	Entity    string         `json:"entity"`
	EntityID  string         `json:"entityId"`
	Details   model.Metadata `json:"details,omitempty"`
	CreatedAt time.Time      `json:"createdAt"`
}

type Store interface {
	Append(ctx context.Context, entry Entry) error
}

// Recorder writes audit entries best effort: a storage failure is logged and
// swallowed so auditing can never fail the operation being audited.
type Recorder struct {
	store  Store
	logger *zap.Logger
	now    func() time.Time
}

func NewRecorder(store Store, logger *zap.Logger) *Recorder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Recorder{
		store:  store,
		logger: logger,
		now:    time.Now,
	}
}

func (r *Recorder) Record(ctx context.Context, actorID, action, entity, entityID string, details model.Metadata) {
	if r == nil || r.store == nil {
		return
	}
	entry := Entry{
		ActorID:   actorID,
		Action:    action,
		Entity:    entity,
		EntityID:  entityID,
		Details:   details.Clone(),
		CreatedAt: r.now().UTC(),
	}
	if err := r.store.Append(ctx, entry); err != nil {
		r.logger.Warn("audit append failed",
			zap.String("action", action),
			zap.String("entity_id", entityID),
			zap.Error(err),
		)
	}
}
