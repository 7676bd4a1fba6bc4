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

// ProgressionRepository manages per-member rank milestone rows.
type ProgressionRepository struct {
	db *sqlx.DB
}

// NewProgressionRepository constructs a ProgressionRepository.
func NewProgressionRepository(db *sqlx.DB) *ProgressionRepository {
	return &ProgressionRepository{db: db}
}

// List returns milestone rows matching the filter, joined with member and
// institution names. Tier narrows to rows with that milestone completed.
func (r *ProgressionRepository) List(ctx context.Context, scope models.AccessScope, filter models.ProgressionFilter) ([]models.ProgressionDetail, int, error) {
	base := `FROM progressions p
        JOIN members m ON m.id = p.member_id AND m.deleted = false
        LEFT JOIN institutions i ON i.id = m.institution_id`
	args := []interface{}{}
	conditions := []string{"p.deleted = false"}

	if scope.Restricted() {
		conditions = append(conditions, fmt.Sprintf("m.institution_id = $%d", len(args)+1))
		args = append(args, scope.InstitutionID)
	}
	switch filter.Tier {
	case models.TierMula:
		conditions = append(conditions, "p.mula = true")
	case models.TierBantu:
		conditions = append(conditions, "p.bantu = true")
	case models.TierTata:
		conditions = append(conditions, "p.tata = true")
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

	query := fmt.Sprintf(`SELECT p.id, p.member_id, p.mula, p.bantu, p.tata,
        p.sk_mula, p.sk_bantu, p.sk_tata, p.date_mula, p.date_bantu, p.date_tata,
        p.created_at, p.updated_at,
        m.name AS member_name, i.name AS institution_name
        %s ORDER BY p.updated_at DESC LIMIT %d OFFSET %d`, base, size, offset)

	var rows []models.ProgressionDetail
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list progressions: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(p.id) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count progressions: %w", err)
	}
	return rows, total, nil
}

// FindByMember fetches the active milestone row for a member. sql.ErrNoRows
// means the member has not started progression.
func (r *ProgressionRepository) FindByMember(ctx context.Context, memberID string) (*models.Progression, error) {
	const query = `SELECT id, member_id, mula, bantu, tata, sk_mula, sk_bantu, sk_tata,
        date_mula, date_bantu, date_tata, created_at, updated_at
        FROM progressions WHERE member_id = $1 AND deleted = false`
	var progression models.Progression
	if err := r.db.GetContext(ctx, &progression, query, memberID); err != nil {
		return nil, err
	}
	return &progression, nil
}

// Create inserts a milestone row. The partial unique index on member_id
// rejects a second active row per member.
func (r *ProgressionRepository) Create(ctx context.Context, progression *models.Progression) error {
	if progression.ID == "" {
		progression.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if progression.CreatedAt.IsZero() {
		progression.CreatedAt = now
	}
	progression.UpdatedAt = now
	const query = `INSERT INTO progressions (id, member_id, mula, bantu, tata, sk_mula, sk_bantu, sk_tata,
        date_mula, date_bantu, date_tata, deleted, created_at, updated_at)
        VALUES (:id, :member_id, :mula, :bantu, :tata, :sk_mula, :sk_bantu, :sk_tata,
        :date_mula, :date_bantu, :date_tata, :deleted, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, progression); err != nil {
		return fmt.Errorf("create progression: %w", err)
	}
	return nil
}

// Update rewrites the milestone flags, document numbers and dates of a row.
func (r *ProgressionRepository) Update(ctx context.Context, progression *models.Progression) error {
	progression.UpdatedAt = time.Now().UTC()
	const query = `UPDATE progressions SET mula = :mula, bantu = :bantu, tata = :tata,
        sk_mula = :sk_mula, sk_bantu = :sk_bantu, sk_tata = :sk_tata,
        date_mula = :date_mula, date_bantu = :date_bantu, date_tata = :date_tata,
        updated_at = :updated_at
        WHERE id = :id AND deleted = false`
	if _, err := r.db.NamedExecContext(ctx, query, progression); err != nil {
		return fmt.Errorf("update progression: %w", err)
	}
	return nil
}

// Summary aggregates milestone completion across the scope.
func (r *ProgressionRepository) Summary(ctx context.Context, scope models.AccessScope) (*models.ProgressionSummary, error) {
	query := `SELECT
        COUNT(p.id) FILTER (WHERE p.mula) AS total_mula,
        COUNT(p.id) FILTER (WHERE p.bantu) AS total_bantu,
        COUNT(p.id) FILTER (WHERE p.tata) AS total_tata,
        COUNT(m.id) AS total_members
        FROM members m
        LEFT JOIN progressions p ON p.member_id = m.id AND p.deleted = false
        WHERE m.deleted = false`
	args := []interface{}{}
	if scope.Restricted() {
		query += " AND m.institution_id = $1"
		args = append(args, scope.InstitutionID)
	}

	var row struct {
		TotalMula    int `db:"total_mula"`
		TotalBantu   int `db:"total_bantu"`
		TotalTata    int `db:"total_tata"`
		TotalMembers int `db:"total_members"`
	}
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		return nil, fmt.Errorf("progression summary: %w", err)
	}

	return &models.ProgressionSummary{
		TotalMula:    row.TotalMula,
		TotalBantu:   row.TotalBantu,
		TotalTata:    row.TotalTata,
		TotalMembers: row.TotalMembers,
		Completed:    row.TotalTata,
		InProgress:   row.TotalMula - row.TotalTata,
		NotStarted:   row.TotalMembers - row.TotalMula,
	}, nil
}
