package models

import "time"

// BadgeType is a catalog entry for a proficiency badge (TKK). Sector is the
// subject category badges are grouped by for top-honor eligibility.
type BadgeType struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Sector    string    `db:"sector" json:"sector"`
	Color     string    `db:"color" json:"color"`
	Deleted   bool      `db:"deleted" json:"-"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// BadgeAward records one proficiency badge earned by a member. Revoking an
// award clears the document number and date but keeps the row so numbering
// history stays auditable.
type BadgeAward struct {
	ID               string     `db:"id" json:"id"`
	MemberID         string     `db:"member_id" json:"member_id"`
	BadgeTypeID      string     `db:"badge_type_id" json:"badge_type_id"`
	SK               string     `db:"sk" json:"sk"`
	Date             *time.Time `db:"date" json:"date,omitempty"`
	ExaminerName     string     `db:"examiner_name" json:"examiner_name"`
	ExaminerPosition string     `db:"examiner_position" json:"examiner_position"`
	ExaminerAddress  string     `db:"examiner_address" json:"examiner_address"`
	Deleted          bool       `db:"deleted" json:"-"`
	CreatedAt        time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time  `db:"updated_at" json:"updated_at"`
}

// BadgeAwardDetail is an award row joined with member, institution and
// catalog names for listings.
type BadgeAwardDetail struct {
	BadgeAward
	MemberName      string  `db:"member_name" json:"member_name"`
	BadgeName       string  `db:"badge_name" json:"badge_name"`
	Sector          string  `db:"sector" json:"sector"`
	InstitutionName *string `db:"institution_name" json:"institution_name,omitempty"`
}

// BadgeFilter captures search and pagination criteria for badge listings.
type BadgeFilter struct {
	Search   string
	Page     int
	PageSize int
}

// SectorCount is the number of non-revoked badges a member holds in one
// badge-type sector.
type SectorCount struct {
	Sector string `db:"sector" json:"sector"`
	Count  int    `db:"count" json:"count"`
}
