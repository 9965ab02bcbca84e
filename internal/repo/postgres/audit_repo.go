package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ideaSquared/adopt-dont-shop-moderation/internal/services/audit"
)

type AuditRepo struct {
	pool *pgxpool.Pool
}

func NewAuditRepo(pool *pgxpool.Pool) *AuditRepo {
	return &AuditRepo{pool: pool}
}

func (r *AuditRepo) Append(ctx context.Context, entry audit.Entry) error {
	if r.pool == nil {
		return fmt.Errorf("postgres pool is nil")
	}

	details, err := json.Marshal(entry.Details)
	if err != nil {
		return fmt.Errorf("marshal audit details: %w", err)
	}

	if _, err := r.pool.Exec(ctx, `
INSERT INTO moderation_audit_log (
	actor_id,
	action,
	entity,
	entity_id,
	details,
	created_at
) VALUES ($1, $2, $3, $4, $5, $6)
`, entry.ActorID, entry.Action, entry.Entity, entry.EntityID, details, entry.CreatedAt); err != nil {
		return fmt.Errorf("append audit entry: %w", err)
	}

	return nil
}
