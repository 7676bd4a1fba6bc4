package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/pramuka-adm-api/internal/models"
)

// GarudaRepository manages top-honor award records.
type GarudaRepository struct {
	db *sqlx.DB
}

// NewGarudaRepository constructs a GarudaRepository.
func NewGarudaRepository(db *sqlx.DB) *GarudaRepository {
	return &GarudaRepository{db: db}
}

// List returns awards matching the filter, joined with member and
// institution names.
func (r *GarudaRepository) List(ctx context.Context, scope models.AccessScope, filter models.GarudaFilter) ([]models.GarudaDetail, int, error) {
	base := `FROM garuda_awards g
        JOIN members m ON m.id = g.member_id AND m.deleted = false
        LEFT JOIN institutions i ON i.id = m.institution_id`
	args := []interface{}{}
	conditions := []string{"g.deleted = false"}

	if scope.Restricted() {
		conditions = append(conditions, fmt.Sprintf("m.institution_id = $%d", len(args)+1))
		args = append(args, scope.InstitutionID)
	}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(LOWER(m.name) LIKE $%d OR m.phone LIKE $%d)", len(args)+1, len(args)+1))
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
	}

	base = fmt.Sprintf("%s WHERE %s", base, strings.Join(conditions, " AND "))

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	query := fmt.Sprintf(`SELECT g.id, g.member_id, g.tier_label, g.total_badges, g.status,
        g.approved_by, g.created_at, g.updated_at,
        m.name AS member_name, i.name AS institution_name
        %s ORDER BY g.created_at DESC LIMIT %d OFFSET %d`, base, size, offset)

	var awards []models.GarudaDetail
	if err := r.db.SelectContext(ctx, &awards, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list garuda awards: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(g.id) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count garuda awards: %w", err)
	}
	return awards, total, nil
}

// FindByID fetches an award by ID.
func (r *GarudaRepository) FindByID(ctx context.Context, id string) (*models.Garuda, error) {
	const query = `SELECT id, member_id, tier_label, total_badges, status, approved_by, created_at, updated_at
        FROM garuda_awards WHERE id = $1 AND deleted = false`
	var award models.Garuda
	if err := r.db.GetContext(ctx, &award, query, id); err != nil {
		return nil, err
	}
	return &award, nil
}

// ExistsForMember reports whether any award row exists for the member,
// including soft-deleted ones. The one-per-member rule counts deleted rows.
func (r *GarudaRepository) ExistsForMember(ctx context.Context, memberID string) (bool, error) {
	const query = `SELECT COUNT(id) FROM garuda_awards WHERE member_id = $1`
	var count int
	if err := r.db.GetContext(ctx, &count, query, memberID); err != nil {
		return false, fmt.Errorf("check garuda award: %w", err)
	}
	return count > 0, nil
}

// Create inserts a pending award. The unique constraint on member_id rejects
// a concurrent duplicate request.
func (r *GarudaRepository) Create(ctx context.Context, award *models.Garuda) error {
	if award.ID == "" {
		award.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if award.CreatedAt.IsZero() {
		award.CreatedAt = now
	}
	award.UpdatedAt = now
	const query = `INSERT INTO garuda_awards (id, member_id, tier_label, total_badges, status, approved_by, deleted, created_at, updated_at)
        VALUES (:id, :member_id, :tier_label, :total_badges, :status, :approved_by, :deleted, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, award); err != nil {
		return fmt.Errorf("create garuda award: %w", err)
	}
	return nil
}

// Approve marks an award approved and records who approved it.
func (r *GarudaRepository) Approve(ctx context.Context, id, approverID string) error {
	const query = `UPDATE garuda_awards SET status = $2, approved_by = $3, updated_at = $4 WHERE id = $1 AND deleted = false`
	if _, err := r.db.ExecContext(ctx, query, id, models.GarudaStatusApproved, approverID, time.Now().UTC()); err != nil {
		return fmt.Errorf("approve garuda award: %w", err)
	}
	return nil
}

// SoftDelete marks a pending award as removed.
func (r *GarudaRepository) SoftDelete(ctx context.Context, id string) error {
	const query = `UPDATE garuda_awards SET deleted = true, updated_at = $2 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, time.Now().UTC()); err != nil {
		return fmt.Errorf("delete garuda award: %w", err)
	}
	return nil
}

// Summary aggregates award counts across the scope.
func (r *GarudaRepository) Summary(ctx context.Context, scope models.AccessScope) (*models.GarudaSummary, error) {
	base := `FROM garuda_awards g
        JOIN members m ON m.id = g.member_id AND m.deleted = false
        WHERE g.deleted = false`
	args := []interface{}{}
	if scope.Restricted() {
		base += " AND m.institution_id = $1"
		args = append(args, scope.InstitutionID)
	}

	var row struct {
		Total    int `db:"total"`
		Approved int `db:"approved"`
	}
	totalQuery := fmt.Sprintf(`SELECT COUNT(g.id) AS total,
        COUNT(g.id) FILTER (WHERE g.status = %d) AS approved %s`, models.GarudaStatusApproved, base)
	if err := r.db.GetContext(ctx, &row, totalQuery, args...); err != nil {
		return nil, fmt.Errorf("garuda summary: %w", err)
	}

	tierQuery := fmt.Sprintf("SELECT g.tier_label, COUNT(g.id) AS count %s GROUP BY g.tier_label", base)
	var byTier []models.GarudaTierCount
	if err := r.db.SelectContext(ctx, &byTier, tierQuery, args...); err != nil {
		return nil, fmt.Errorf("garuda summary by tier: %w", err)
	}

	return &models.GarudaSummary{
		Total:    row.Total,
		Approved: row.Approved,
		Pending:  row.Total - row.Approved,
		ByTier:   byTier,
	}, nil
}
