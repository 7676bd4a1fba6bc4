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

// InstitutionRepository manages persistence for institution records.
type InstitutionRepository struct {
	db *sqlx.DB
}

// NewInstitutionRepository constructs an InstitutionRepository.
func NewInstitutionRepository(db *sqlx.DB) *InstitutionRepository {
	return &InstitutionRepository{db: db}
}

// List returns institutions matching the filter along with active member
// counts. A restricted scope only sees its own institution.
func (r *InstitutionRepository) List(ctx context.Context, scope models.AccessScope, filter models.InstitutionFilter) ([]models.InstitutionDetail, int, error) {
	base := "FROM institutions i"
	args := []interface{}{}
	conditions := []string{"i.deleted = false"}

	if scope.Restricted() {
		conditions = append(conditions, fmt.Sprintf("i.id = $%d", len(args)+1))
		args = append(args, scope.InstitutionID)
	}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("LOWER(i.name) LIKE $%d", len(args)+1))
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

	query := fmt.Sprintf(`SELECT i.id, i.name, i.sub_district, i.address, i.troop_male, i.troop_female,
        i.troop_leader_male, i.troop_leader_female, i.leader_number_male, i.leader_number_female,
        i.headmaster_name, i.headmaster_number, i.created_at, i.updated_at,
        (SELECT COUNT(m.id) FROM members m WHERE m.institution_id = i.id AND m.deleted = false) AS member_count
        %s ORDER BY i.name ASC LIMIT %d OFFSET %d`, base, size, offset)

	var institutions []models.InstitutionDetail
	if err := r.db.SelectContext(ctx, &institutions, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list institutions: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(i.id) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count institutions: %w", err)
	}
	return institutions, total, nil
}

// FindByID fetches an institution by ID.
func (r *InstitutionRepository) FindByID(ctx context.Context, id string) (*models.Institution, error) {
	const query = `SELECT id, name, sub_district, address, troop_male, troop_female,
        troop_leader_male, troop_leader_female, leader_number_male, leader_number_female,
        headmaster_name, headmaster_number, created_at, updated_at
        FROM institutions WHERE id = $1 AND deleted = false`
	var institution models.Institution
	if err := r.db.GetContext(ctx, &institution, query, id); err != nil {
		return nil, err
	}
	return &institution, nil
}

// Create inserts a new institution record.
func (r *InstitutionRepository) Create(ctx context.Context, institution *models.Institution) error {
	if institution.ID == "" {
		institution.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if institution.CreatedAt.IsZero() {
		institution.CreatedAt = now
	}
	institution.UpdatedAt = now
	const query = `INSERT INTO institutions (id, name, sub_district, address, troop_male, troop_female,
        troop_leader_male, troop_leader_female, leader_number_male, leader_number_female,
        headmaster_name, headmaster_number, deleted, created_at, updated_at)
        VALUES (:id, :name, :sub_district, :address, :troop_male, :troop_female,
        :troop_leader_male, :troop_leader_female, :leader_number_male, :leader_number_female,
        :headmaster_name, :headmaster_number, :deleted, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, institution); err != nil {
		return fmt.Errorf("create institution: %w", err)
	}
	return nil
}

// Update modifies an existing institution.
func (r *InstitutionRepository) Update(ctx context.Context, institution *models.Institution) error {
	institution.UpdatedAt = time.Now().UTC()
	const query = `UPDATE institutions SET name = :name, sub_district = :sub_district, address = :address,
        troop_male = :troop_male, troop_female = :troop_female,
        troop_leader_male = :troop_leader_male, troop_leader_female = :troop_leader_female,
        leader_number_male = :leader_number_male, leader_number_female = :leader_number_female,
        headmaster_name = :headmaster_name, headmaster_number = :headmaster_number,
        updated_at = :updated_at
        WHERE id = :id AND deleted = false`
	if _, err := r.db.NamedExecContext(ctx, query, institution); err != nil {
		return fmt.Errorf("update institution: %w", err)
	}
	return nil
}

// SoftDelete marks an institution as removed.
func (r *InstitutionRepository) SoftDelete(ctx context.Context, id string) error {
	const query = `UPDATE institutions SET deleted = true, updated_at = $2 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, time.Now().UTC()); err != nil {
		return fmt.Errorf("delete institution: %w", err)
	}
	return nil
}

// Count returns the number of active institutions within the scope.
func (r *InstitutionRepository) Count(ctx context.Context, scope models.AccessScope) (int, error) {
	query := "SELECT COUNT(id) FROM institutions WHERE deleted = false"
	args := []interface{}{}
	if scope.Restricted() {
		query += " AND id = $1"
		args = append(args, scope.InstitutionID)
	}
	var total int
	if err := r.db.GetContext(ctx, &total, query, args...); err != nil {
		return 0, fmt.Errorf("count institutions: %w", err)
	}
	return total, nil
}

// HasActiveMembers reports whether any non-deleted member still references
// the institution. Deletion is refused while members remain attached.
func (r *InstitutionRepository) HasActiveMembers(ctx context.Context, id string) (bool, error) {
	const query = `SELECT COUNT(id) FROM members WHERE institution_id = $1 AND deleted = false`
	var count int
	if err := r.db.GetContext(ctx, &count, query, id); err != nil {
		return false, fmt.Errorf("count institution members: %w", err)
	}
	return count > 0, nil
}
