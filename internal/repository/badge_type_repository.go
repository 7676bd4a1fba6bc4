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

// BadgeTypeRepository manages the proficiency badge catalog.
type BadgeTypeRepository struct {
	db *sqlx.DB
}

// NewBadgeTypeRepository constructs a BadgeTypeRepository.
func NewBadgeTypeRepository(db *sqlx.DB) *BadgeTypeRepository {
	return &BadgeTypeRepository{db: db}
}

// List returns catalog entries matching the filter.
func (r *BadgeTypeRepository) List(ctx context.Context, filter models.BadgeFilter) ([]models.BadgeType, int, error) {
	base := "FROM badge_types"
	args := []interface{}{}
	conditions := []string{"deleted = false"}

	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(LOWER(name) LIKE $%d OR LOWER(sector) LIKE $%d)", len(args)+1, len(args)+1))
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
	}

	base = fmt.Sprintf("%s WHERE %s", base, strings.Join(conditions, " AND "))

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 50
	}
	offset := (page - 1) * size

	query := fmt.Sprintf(`SELECT id, name, sector, color, created_at, updated_at %s ORDER BY sector ASC, name ASC LIMIT %d OFFSET %d`, base, size, offset)

	var types []models.BadgeType
	if err := r.db.SelectContext(ctx, &types, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list badge types: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(id) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count badge types: %w", err)
	}
	return types, total, nil
}

// FindByID fetches a catalog entry by ID.
func (r *BadgeTypeRepository) FindByID(ctx context.Context, id string) (*models.BadgeType, error) {
	const query = `SELECT id, name, sector, color, created_at, updated_at FROM badge_types WHERE id = $1 AND deleted = false`
	var badgeType models.BadgeType
	if err := r.db.GetContext(ctx, &badgeType, query, id); err != nil {
		return nil, err
	}
	return &badgeType, nil
}

// Create inserts a new catalog entry.
func (r *BadgeTypeRepository) Create(ctx context.Context, badgeType *models.BadgeType) error {
	if badgeType.ID == "" {
		badgeType.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if badgeType.CreatedAt.IsZero() {
		badgeType.CreatedAt = now
	}
	badgeType.UpdatedAt = now
	const query = `INSERT INTO badge_types (id, name, sector, color, deleted, created_at, updated_at)
        VALUES (:id, :name, :sector, :color, :deleted, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, badgeType); err != nil {
		return fmt.Errorf("create badge type: %w", err)
	}
	return nil
}

// Update modifies a catalog entry.
func (r *BadgeTypeRepository) Update(ctx context.Context, badgeType *models.BadgeType) error {
	badgeType.UpdatedAt = time.Now().UTC()
	const query = `UPDATE badge_types SET name = :name, sector = :sector, color = :color, updated_at = :updated_at
        WHERE id = :id AND deleted = false`
	if _, err := r.db.NamedExecContext(ctx, query, badgeType); err != nil {
		return fmt.Errorf("update badge type: %w", err)
	}
	return nil
}

// SoftDelete marks a catalog entry as removed.
func (r *BadgeTypeRepository) SoftDelete(ctx context.Context, id string) error {
	const query = `UPDATE badge_types SET deleted = true, updated_at = $2 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, time.Now().UTC()); err != nil {
		return fmt.Errorf("delete badge type: %w", err)
	}
	return nil
}

// HasAwards reports whether any active award references the catalog entry.
func (r *BadgeTypeRepository) HasAwards(ctx context.Context, id string) (bool, error) {
	const query = `SELECT COUNT(id) FROM badge_awards WHERE badge_type_id = $1 AND deleted = false`
	var count int
	if err := r.db.GetContext(ctx, &count, query, id); err != nil {
		return false, fmt.Errorf("count badge type awards: %w", err)
	}
	return count > 0, nil
}
