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

// MemberRepository manages persistence for member records.
type MemberRepository struct {
	db *sqlx.DB
}

// NewMemberRepository constructs a MemberRepository.
func NewMemberRepository(db *sqlx.DB) *MemberRepository {
	return &MemberRepository{db: db}
}

// List returns members matching the filter, restricted to the scope's
// institution when the scope is not organisation-wide.
func (r *MemberRepository) List(ctx context.Context, scope models.AccessScope, filter models.MemberFilter) ([]models.MemberDetail, int, error) {
	base := "FROM members m LEFT JOIN institutions i ON i.id = m.institution_id"
	args := []interface{}{}
	conditions := []string{"m.deleted = false"}

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

	query := fmt.Sprintf(`SELECT m.id, m.name, m.phone, m.institution_id, m.member_number, m.parent_number, m.gender,
        m.birth_place, m.birth_date, m.village, m.sub_district, m.district, m.province,
        m.parent_name, m.parent_phone, m.entry_date, m.created_at, m.updated_at,
        i.name AS institution_name
        %s ORDER BY m.created_at DESC LIMIT %d OFFSET %d`, base, size, offset)

	var members []models.MemberDetail
	if err := r.db.SelectContext(ctx, &members, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list members: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(m.id) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count members: %w", err)
	}
	return members, total, nil
}

// FindByID fetches a member with its institution name attached.
func (r *MemberRepository) FindByID(ctx context.Context, id string) (*models.MemberDetail, error) {
	const query = `SELECT m.id, m.name, m.phone, m.institution_id, m.member_number, m.parent_number, m.gender,
        m.birth_place, m.birth_date, m.village, m.sub_district, m.district, m.province,
        m.parent_name, m.parent_phone, m.entry_date, m.created_at, m.updated_at,
        i.name AS institution_name
        FROM members m
        LEFT JOIN institutions i ON i.id = m.institution_id
        WHERE m.id = $1 AND m.deleted = false`
	var detail models.MemberDetail
	if err := r.db.GetContext(ctx, &detail, query, id); err != nil {
		return nil, err
	}
	return &detail, nil
}

// Create inserts a new member record.
func (r *MemberRepository) Create(ctx context.Context, member *models.Member) error {
	if member.ID == "" {
		member.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if member.CreatedAt.IsZero() {
		member.CreatedAt = now
	}
	member.UpdatedAt = now
	const query = `INSERT INTO members (id, name, phone, institution_id, member_number, parent_number, gender,
        birth_place, birth_date, village, sub_district, district, province, parent_name, parent_phone,
        entry_date, deleted, created_at, updated_at)
        VALUES (:id, :name, :phone, :institution_id, :member_number, :parent_number, :gender,
        :birth_place, :birth_date, :village, :sub_district, :district, :province, :parent_name, :parent_phone,
        :entry_date, :deleted, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, member); err != nil {
		return fmt.Errorf("create member: %w", err)
	}
	return nil
}

// Update modifies an existing member.
func (r *MemberRepository) Update(ctx context.Context, member *models.Member) error {
	member.UpdatedAt = time.Now().UTC()
	const query = `UPDATE members SET name = :name, phone = :phone, institution_id = :institution_id,
        member_number = :member_number, parent_number = :parent_number, gender = :gender,
        birth_place = :birth_place, birth_date = :birth_date, village = :village,
        sub_district = :sub_district, district = :district, province = :province,
        parent_name = :parent_name, parent_phone = :parent_phone, entry_date = :entry_date,
        updated_at = :updated_at
        WHERE id = :id AND deleted = false`
	if _, err := r.db.NamedExecContext(ctx, query, member); err != nil {
		return fmt.Errorf("update member: %w", err)
	}
	return nil
}

// SoftDelete marks a member as removed without dropping the row.
func (r *MemberRepository) SoftDelete(ctx context.Context, id string) error {
	const query = `UPDATE members SET deleted = true, updated_at = $2 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, time.Now().UTC()); err != nil {
		return fmt.Errorf("delete member: %w", err)
	}
	return nil
}

// Count returns the number of active members within the scope.
func (r *MemberRepository) Count(ctx context.Context, scope models.AccessScope) (int, error) {
	query := "SELECT COUNT(id) FROM members WHERE deleted = false"
	args := []interface{}{}
	if scope.Restricted() {
		query += " AND institution_id = $1"
		args = append(args, scope.InstitutionID)
	}
	var total int
	if err := r.db.GetContext(ctx, &total, query, args...); err != nil {
		return 0, fmt.Errorf("count members: %w", err)
	}
	return total, nil
}
