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

// BadgeRepository manages proficiency badge award records.
type BadgeRepository struct {
	db *sqlx.DB
}

// NewBadgeRepository constructs a BadgeRepository.
func NewBadgeRepository(db *sqlx.DB) *BadgeRepository {
	return &BadgeRepository{db: db}
}

// List returns badge awards matching the filter, joined with member,
// institution and catalog names.
func (r *BadgeRepository) List(ctx context.Context, scope models.AccessScope, filter models.BadgeFilter) ([]models.BadgeAwardDetail, int, error) {
	base := `FROM badge_awards b
        JOIN members m ON m.id = b.member_id AND m.deleted = false
        JOIN badge_types t ON t.id = b.badge_type_id
        LEFT JOIN institutions i ON i.id = m.institution_id`
	args := []interface{}{}
	conditions := []string{"b.deleted = false"}

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

	query := fmt.Sprintf(`SELECT b.id, b.member_id, b.badge_type_id, b.sk, b.date,
        b.examiner_name, b.examiner_position, b.examiner_address, b.created_at, b.updated_at,
        m.name AS member_name, t.name AS badge_name, t.sector, i.name AS institution_name
        %s ORDER BY b.created_at DESC LIMIT %d OFFSET %d`, base, size, offset)

	var awards []models.BadgeAwardDetail
	if err := r.db.SelectContext(ctx, &awards, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list badge awards: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(b.id) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count badge awards: %w", err)
	}
	return awards, total, nil
}

// FindByID fetches an award by ID.
func (r *BadgeRepository) FindByID(ctx context.Context, id string) (*models.BadgeAward, error) {
	const query = `SELECT id, member_id, badge_type_id, sk, date, examiner_name, examiner_position,
        examiner_address, created_at, updated_at
        FROM badge_awards WHERE id = $1 AND deleted = false`
	var award models.BadgeAward
	if err := r.db.GetContext(ctx, &award, query, id); err != nil {
		return nil, err
	}
	return &award, nil
}

// Create inserts a new award record. Members may hold several awards of the
// same catalog entry; repeat passes each get their own row.
func (r *BadgeRepository) Create(ctx context.Context, award *models.BadgeAward) error {
	if award.ID == "" {
		award.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if award.CreatedAt.IsZero() {
		award.CreatedAt = now
	}
	award.UpdatedAt = now
	const query = `INSERT INTO badge_awards (id, member_id, badge_type_id, sk, date,
        examiner_name, examiner_position, examiner_address, deleted, created_at, updated_at)
        VALUES (:id, :member_id, :badge_type_id, :sk, :date,
        :examiner_name, :examiner_position, :examiner_address, :deleted, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, award); err != nil {
		return fmt.Errorf("create badge award: %w", err)
	}
	return nil
}

// Revoke clears the document number and date of an award and retires the
// row. It survives as a soft-deleted record so the numbering history stays
// auditable.
func (r *BadgeRepository) Revoke(ctx context.Context, id string) error {
	const query = `UPDATE badge_awards SET sk = '', date = NULL, deleted = true, updated_at = $2 WHERE id = $1 AND deleted = false`
	if _, err := r.db.ExecContext(ctx, query, id, time.Now().UTC()); err != nil {
		return fmt.Errorf("revoke badge award: %w", err)
	}
	return nil
}

// CountBySector groups a member's active awards by catalog sector.
func (r *BadgeRepository) CountBySector(ctx context.Context, memberID string) ([]models.SectorCount, error) {
	const query = `SELECT t.sector, COUNT(b.id) AS count
        FROM badge_awards b
        JOIN badge_types t ON t.id = b.badge_type_id
        WHERE b.member_id = $1 AND b.deleted = false AND b.sk <> ''
        GROUP BY t.sector`
	var counts []models.SectorCount
	if err := r.db.SelectContext(ctx, &counts, query, memberID); err != nil {
		return nil, fmt.Errorf("count badges by sector: %w", err)
	}
	return counts, nil
}

// CountForMember returns the number of active awards a member holds.
func (r *BadgeRepository) CountForMember(ctx context.Context, memberID string) (int, error) {
	const query = `SELECT COUNT(id) FROM badge_awards WHERE member_id = $1 AND deleted = false AND sk <> ''`
	var count int
	if err := r.db.GetContext(ctx, &count, query, memberID); err != nil {
		return 0, fmt.Errorf("count member badges: %w", err)
	}
	return count, nil
}

// Count returns the number of active awards within the scope.
func (r *BadgeRepository) Count(ctx context.Context, scope models.AccessScope) (int, error) {
	query := `SELECT COUNT(b.id) FROM badge_awards b
        JOIN members m ON m.id = b.member_id AND m.deleted = false
        WHERE b.deleted = false AND b.sk <> ''`
	args := []interface{}{}
	if scope.Restricted() {
		query += " AND m.institution_id = $1"
		args = append(args, scope.InstitutionID)
	}
	var total int
	if err := r.db.GetContext(ctx, &total, query, args...); err != nil {
		return 0, fmt.Errorf("count badge awards: %w", err)
	}
	return total, nil
}
