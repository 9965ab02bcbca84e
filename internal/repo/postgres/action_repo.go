package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ideaSquared/adopt-dont-shop-moderation/internal/domain/errs"
	"github.com/ideaSquared/adopt-dont-shop-moderation/internal/domain/model"
	"github.com/ideaSquared/adopt-dont-shop-moderation/internal/services/actions"
)

const actionColumns = `
action_id, moderator_id, report_id, target_entity_type, target_entity_id, target_user_id,
action_type, severity, reason, description, metadata,
duration_hours, expires_at,
is_active, reversed_by, reversed_at, reversal_reason,
evidence, notification_sent, internal_notes,
created_at, updated_at`

type ActionRepo struct {
	pool *pgxpool.Pool
}

func NewActionRepo(pool *pgxpool.Pool) *ActionRepo {
	return &ActionRepo{pool: pool}
}

func (r *ActionRepo) Create(ctx context.Context, action model.ModeratorAction) error {
	if r.pool == nil {
		return fmt.Errorf("postgres pool is nil")
	}

	evidence, metadata, err := marshalActionJSON(action)
	if err != nil {
		return err
	}

	if _, err := r.pool.Exec(ctx, `
INSERT INTO moderator_actions (`+actionColumns+`)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11,
	$12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22)
`,
		action.ActionID, action.ModeratorID, action.ReportID, action.TargetEntityType, action.TargetEntityID, action.TargetUserID,
		action.ActionType, action.Severity, action.Reason, action.Description, metadata,
		action.Duration, action.ExpiresAt,
		action.IsActive, action.ReversedBy, action.ReversedAt, action.ReversalReason,
		evidence, action.NotificationSent, action.InternalNotes,
		action.CreatedAt, action.UpdatedAt,
	); err != nil {
		return fmt.Errorf("create action: %w", err)
	}

	return nil
}

func (r *ActionRepo) Get(ctx context.Context, actionID string) (model.ModeratorAction, error) {
	if r.pool == nil {
		return model.ModeratorAction{}, fmt.Errorf("postgres pool is nil")
	}

	row := r.pool.QueryRow(ctx, `
SELECT `+actionColumns+`
FROM moderator_actions
WHERE action_id = $1
`, actionID)

	action, err := scanAction(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.ModeratorAction{}, errs.NotFound("action", actionID)
		}
		return model.ModeratorAction{}, fmt.Errorf("get action: %w", err)
	}

	return action, nil
}

func (r *ActionRepo) Update(ctx context.Context, action model.ModeratorAction) error {
	if r.pool == nil {
		return fmt.Errorf("postgres pool is nil")
	}

	tag, err := r.pool.Exec(ctx, `
UPDATE moderator_actions SET
	is_active = $2,
	reversed_by = $3,
	reversed_at = $4,
	reversal_reason = $5,
	notification_sent = $6,
	internal_notes = $7,
	updated_at = $8
WHERE action_id = $1
`,
		action.ActionID,
		action.IsActive, action.ReversedBy, action.ReversedAt, action.ReversalReason,
		action.NotificationSent, action.InternalNotes, action.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update action: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return errs.NotFound("action", action.ActionID)
	}

	return nil
}

func (r *ActionRepo) List(ctx context.Context, filters actions.Filters) ([]model.ModeratorAction, model.Pagination, error) {
	if r.pool == nil {
		return nil, model.Pagination{}, fmt.Errorf("postgres pool is nil")
	}

	where, args := buildActionWhere(filters)

	var total int
	if err := r.pool.QueryRow(ctx, `
SELECT COUNT(*)
FROM moderator_actions
`+where, args...).Scan(&total); err != nil {
		return nil, model.Pagination{}, fmt.Errorf("count actions: %w", err)
	}

	query := `
SELECT ` + actionColumns + `
FROM moderator_actions
` + where + `
ORDER BY created_at DESC, action_id DESC
LIMIT ` + fmt.Sprintf("$%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, filters.Limit, (filters.Page-1)*filters.Limit)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, model.Pagination{}, fmt.Errorf("list actions: %w", err)
	}
	defer rows.Close()

	items, err := collectActions(rows)
	if err != nil {
		return nil, model.Pagination{}, err
	}

	return items, model.NewPagination(filters.Page, filters.Limit, total), nil
}

func (r *ActionRepo) ListActiveForUser(ctx context.Context, userID string) ([]model.ModeratorAction, error) {
	if r.pool == nil {
		return nil, fmt.Errorf("postgres pool is nil")
	}

	rows, err := r.pool.Query(ctx, `
SELECT `+actionColumns+`
FROM moderator_actions
WHERE target_user_id = $1
  AND is_active = TRUE
ORDER BY created_at DESC
`, userID)
	if err != nil {
		return nil, fmt.Errorf("list active actions: %w", err)
	}
	defer rows.Close()

	return collectActions(rows)
}

func (r *ActionRepo) ListExpiredActive(ctx context.Context, now time.Time) ([]model.ModeratorAction, error) {
	if r.pool == nil {
		return nil, fmt.Errorf("postgres pool is nil")
	}

	rows, err := r.pool.Query(ctx, `
SELECT `+actionColumns+`
FROM moderator_actions
WHERE is_active = TRUE
  AND expires_at IS NOT NULL
  AND expires_at < $1
ORDER BY expires_at
`, now)
	if err != nil {
		return nil, fmt.Errorf("list expired actions: %w", err)
	}
	defer rows.Close()

	return collectActions(rows)
}

func buildActionWhere(filters actions.Filters) (string, []any) {
	var clauses []string
	var args []any

	add := func(clause string, value any) {
		args = append(args, value)
		clauses = append(clauses, fmt.Sprintf(clause, len(args)))
	}

	if filters.ActionType != nil {
		add("action_type = $%d", *filters.ActionType)
	}
	if filters.Severity != nil {
		add("severity = $%d", *filters.Severity)
	}
	if filters.IsActive != nil {
		add("is_active = $%d", *filters.IsActive)
	}
	if filters.ModeratorID != nil {
		add("moderator_id = $%d", *filters.ModeratorID)
	}
	if filters.TargetUserID != nil {
		add("target_user_id = $%d", *filters.TargetUserID)
	}
	if filters.ReportID != nil {
		add("report_id = $%d", *filters.ReportID)
	}

	if len(clauses) == 0 {
		return "", nil
	}
	return "WHERE " + strings.Join(clauses, " AND "), args
}

func marshalActionJSON(action model.ModeratorAction) ([]byte, []byte, error) {
	evidence, err := json.Marshal(action.Evidence)
	if err != nil {
		return nil, nil, fmt.Errorf("marshal action evidence: %w", err)
	}
	metadata, err := json.Marshal(action.Metadata)
	if err != nil {
		return nil, nil, fmt.Errorf("marshal action metadata: %w", err)
	}
	return evidence, metadata, nil
}

func collectActions(rows pgx.Rows) ([]model.ModeratorAction, error) {
	var items []model.ModeratorAction
	for rows.Next() {
		action, err := scanAction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan action: %w", err)
		}
		items = append(items, action)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate actions: %w", err)
	}
	return items, nil
}

func scanAction(row pgx.Row) (model.ModeratorAction, error) {
	var action model.ModeratorAction
	var evidence, metadata []byte

	if err := row.Scan(
		&action.ActionID, &action.ModeratorID, &action.ReportID, &action.TargetEntityType, &action.TargetEntityID, &action.TargetUserID,
		&action.ActionType, &action.Severity, &action.Reason, &action.Description, &metadata,
		&action.Duration, &action.ExpiresAt,
		&action.IsActive, &action.ReversedBy, &action.ReversedAt, &action.ReversalReason,
		&evidence, &action.NotificationSent, &action.InternalNotes,
		&action.CreatedAt, &action.UpdatedAt,
	); err != nil {
		return model.ModeratorAction{}, err
	}

	if len(evidence) > 0 {
		if err := json.Unmarshal(evidence, &action.Evidence); err != nil {
			return model.ModeratorAction{}, fmt.Errorf("unmarshal action evidence: %w", err)
		}
	}
	if len(metadata) > 0 {
		if err := json.Unmarshal(metadata, &action.Metadata); err != nil {
			return model.ModeratorAction{}, fmt.Errorf("unmarshal action metadata: %w", err)
		}
	}

	return action, nil
}
