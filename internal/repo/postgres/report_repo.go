package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ideaSquared/adopt-dont-shop-moderation/internal/domain/enums"
	"github.com/ideaSquared/adopt-dont-shop-moderation/internal/domain/errs"
	"github.com/ideaSquared/adopt-dont-shop-moderation/internal/domain/model"
	"github.com/ideaSquared/adopt-dont-shop-moderation/internal/services/reports"
)

const reportColumns = `
report_id, reporter_id, reported_entity_type, reported_entity_id, reported_user_id,
category, severity, status, title, description, evidence, metadata,
assigned_moderator, assigned_at,
resolved_by, resolved_at, resolution, resolution_notes,
escalated_to, escalated_at, escalation_reason,
created_at, updated_at`

type ReportRepo struct {
	pool *pgxpool.Pool
}

func NewReportRepo(pool *pgxpool.Pool) *ReportRepo {
	return &ReportRepo{pool: pool}
}

func (r *ReportRepo) Create(ctx context.Context, report model.Report) error {
	if r.pool == nil {
		return fmt.Errorf("postgres pool is nil")
	}

	evidence, metadata, err := marshalReportJSON(report)
	if err != nil {
		return err
	}

	if _, err := r.pool.Exec(ctx, `
INSERT INTO moderation_reports (`+reportColumns+`)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12,
	$13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23)
`,
		report.ReportID, report.ReporterID, report.ReportedEntityType, report.ReportedEntityID, report.ReportedUserID,
		report.Category, report.Severity, report.Status, report.Title, report.Description, evidence, metadata,
		report.AssignedModerator, report.AssignedAt,
		report.ResolvedBy, report.ResolvedAt, report.Resolution, report.ResolutionNotes,
		report.EscalatedTo, report.EscalatedAt, report.EscalationReason,
		report.CreatedAt, report.UpdatedAt,
	); err != nil {
		return fmt.Errorf("create report: %w", err)
	}

	return nil
}

func (r *ReportRepo) Get(ctx context.Context, reportID string) (model.Report, error) {
	if r.pool == nil {
		return model.Report{}, fmt.Errorf("postgres pool is nil")
	}

	row := r.pool.QueryRow(ctx, `
SELECT `+reportColumns+`
FROM moderation_reports
WHERE report_id = $1
`, reportID)

	report, err := scanReport(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Report{}, errs.NotFound("report", reportID)
		}
		return model.Report{}, fmt.Errorf("get report: %w", err)
	}

	return report, nil
}

func (r *ReportRepo) Update(ctx context.Context, report model.Report) error {
	if r.pool == nil {
		return fmt.Errorf("postgres pool is nil")
	}

	evidence, metadata, err := marshalReportJSON(report)
	if err != nil {
		return err
	}

	tag, err := r.pool.Exec(ctx, `
UPDATE moderation_reports SET
	severity = $2,
	status = $3,
	evidence = $4,
	metadata = $5,
	assigned_moderator = $6,
	assigned_at = $7,
	resolved_by = $8,
	resolved_at = $9,
	resolution = $10,
	resolution_notes = $11,
	escalated_to = $12,
	escalated_at = $13,
	escalation_reason = $14,
	updated_at = $15
WHERE report_id = $1
`,
		report.ReportID,
		report.Severity, report.Status, evidence, metadata,
		report.AssignedModerator, report.AssignedAt,
		report.ResolvedBy, report.ResolvedAt, report.Resolution, report.ResolutionNotes,
		report.EscalatedTo, report.EscalatedAt, report.EscalationReason,
		report.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update report: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return errs.NotFound("report", report.ReportID)
	}

	return nil
}

func (r *ReportRepo) List(ctx context.Context, filters reports.Filters) ([]model.Report, model.Pagination, error) {
	if r.pool == nil {
		return nil, model.Pagination{}, fmt.Errorf("postgres pool is nil")
	}

	where, args := buildReportWhere(filters)

	var total int
	if err := r.pool.QueryRow(ctx, `
SELECT COUNT(*)
FROM moderation_reports
`+where, args...).Scan(&total); err != nil {
		return nil, model.Pagination{}, fmt.Errorf("count reports: %w", err)
	}

	query := `
SELECT ` + reportColumns + `
FROM moderation_reports
` + where + `
ORDER BY ` + reportOrderClause(filters) + `
LIMIT ` + fmt.Sprintf("$%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, filters.Limit, (filters.Page-1)*filters.Limit)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, model.Pagination{}, fmt.Errorf("list reports: %w", err)
	}
	defer rows.Close()

	var items []model.Report
	for rows.Next() {
		report, err := scanReport(rows)
		if err != nil {
			return nil, model.Pagination{}, fmt.Errorf("scan report: %w", err)
		}
		items = append(items, report)
	}
	if err := rows.Err(); err != nil {
		return nil, model.Pagination{}, fmt.Errorf("iterate reports: %w", err)
	}

	return items, model.NewPagination(filters.Page, filters.Limit, total), nil
}

func (r *ReportRepo) HasOpenReport(ctx context.Context, reporterID string, entityType enums.EntityType, entityID string) (bool, error) {
	if r.pool == nil {
		return false, fmt.Errorf("postgres pool is nil")
	}

	var exists bool
	if err := r.pool.QueryRow(ctx, `
SELECT EXISTS (
	SELECT 1
	FROM moderation_reports
	WHERE reporter_id = $1
	  AND reported_entity_type = $2
	  AND reported_entity_id = $3
	  AND status NOT IN ('resolved', 'dismissed')
)
`, reporterID, entityType, entityID).Scan(&exists); err != nil {
		return false, fmt.Errorf("check open reports: %w", err)
	}

	return exists, nil
}

func buildReportWhere(filters reports.Filters) (string, []any) {
	var clauses []string
	var args []any

	add := func(clause string, value any) {
		args = append(args, value)
		clauses = append(clauses, fmt.Sprintf(clause, len(args)))
	}

	if filters.Status != nil {
		add("status = $%d", *filters.Status)
	}
	if filters.Category != nil {
		add("category = $%d", *filters.Category)
	}
	if filters.Severity != nil {
		add("severity = $%d", *filters.Severity)
	}
	if filters.ReportedEntityType != nil {
		add("reported_entity_type = $%d", *filters.ReportedEntityType)
	}
	if filters.AssignedModerator != nil {
		add("assigned_moderator = $%d", *filters.AssignedModerator)
	}
	if filters.Search != nil {
		args = append(args, "%"+escapeLike(*filters.Search)+"%")
		clauses = append(clauses, fmt.Sprintf("(title ILIKE $%d OR description ILIKE $%d)", len(args), len(args)))
	}

	if len(clauses) == 0 {
		return "", nil
	}
	return "WHERE " + strings.Join(clauses, " AND "), args
}

// escapeLike neutralizes LIKE metacharacters in a free-text search term so
// the term matches literally inside the %...% pattern.
func escapeLike(term string) string {
	return likeEscaper.Replace(term)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// reportOrderClause maps the canonical sort descriptor onto whitelisted
// columns; nothing from the request reaches the SQL text directly.
func reportOrderClause(filters reports.Filters) string {
	column := "created_at"
	switch filters.SortBy {
	case reports.SortByUpdatedAt:
		column = "updated_at"
	case reports.SortBySeverity:
		column = `CASE severity
	WHEN 'low' THEN 1
	WHEN 'medium' THEN 2
	WHEN 'high' THEN 3
	WHEN 'critical' THEN 4
	ELSE 0 END`
	}

	direction := "DESC"
	if filters.SortOrder == reports.SortAsc {
		direction = "ASC"
	}
	return column + " " + direction + ", report_id " + direction
}

func marshalReportJSON(report model.Report) ([]byte, []byte, error) {
	evidence, err := json.Marshal(report.Evidence)
	if err != nil {
		return nil, nil, fmt.Errorf("marshal report evidence: %w", err)
	}
	metadata, err := json.Marshal(report.Metadata)
	if err != nil {
		return nil, nil, fmt.Errorf("marshal report metadata: %w", err)
	}
	return evidence, metadata, nil
}

func scanReport(row pgx.Row) (model.Report, error) {
	var report model.Report
	var evidence, metadata []byte

	if err := row.Scan(
		&report.ReportID, &report.ReporterID, &report.ReportedEntityType, &report.ReportedEntityID, &report.ReportedUserID,
		&report.Category, &report.Severity, &report.Status, &report.Title, &report.Description, &evidence, &metadata,
		&report.AssignedModerator, &report.AssignedAt,
		&report.ResolvedBy, &report.ResolvedAt, &report.Resolution, &report.ResolutionNotes,
		&report.EscalatedTo, &report.EscalatedAt, &report.EscalationReason,
		&report.CreatedAt, &report.UpdatedAt,
	); err != nil {
		return model.Report{}, err
	}

	if len(evidence) > 0 {
		if err := json.Unmarshal(evidence, &report.Evidence); err != nil {
			return model.Report{}, fmt.Errorf("unmarshal report evidence: %w", err)
		}
	}
	if len(metadata) > 0 {
		if err := json.Unmarshal(metadata, &report.Metadata); err != nil {
			return model.Report{}, fmt.Errorf("unmarshal report metadata: %w", err)
		}
	}

	return report, nil
}
