package models

import "time"

// Garuda award status lifecycle. The transition is one-way: once approved a
// row is immutable and can no longer be deleted.
const (
	GarudaStatusPending  = 0
	GarudaStatusApproved = 1
)

// MinBadgesPerSector is the minimum badge count every sector a member holds
// badges in must reach before the top honor can be requested.
const MinBadgesPerSector = 4

// Garuda is the top-honor award. At most one row exists per member,
// regardless of deletion state.
type Garuda struct {
	ID          string    `db:"id" json:"id"`
	MemberID    string    `db:"member_id" json:"member_id"`
	TierLabel   string    `db:"tier_label" json:"tier_label"`
	TotalBadges int       `db:"total_badges" json:"total_badges"`
	Status      int       `db:"status" json:"status"`
	ApprovedBy  *string   `db:"approved_by" json:"approved_by,omitempty"`
	Deleted     bool      `db:"deleted" json:"-"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// GarudaDetail is an award row joined with member and institution names.
type GarudaDetail struct {
	Garuda
	MemberName      string  `db:"member_name" json:"member_name"`
	InstitutionName *string `db:"institution_name" json:"institution_name,omitempty"`
}

// GarudaFilter captures search and pagination criteria for award listings.
type GarudaFilter struct {
	Search   string
	Page     int
	PageSize int
}

// GarudaTierCount groups awards by the tier label captured at award time.
type GarudaTierCount struct {
	TierLabel string `db:"tier_label" json:"tier_label"`
	Count     int    `db:"count" json:"count"`
}

// GarudaSummary aggregates award counts across a scope.
type GarudaSummary struct {
	Total    int               `json:"total"`
	Approved int               `json:"approved"`
	Pending  int               `json:"pending"`
	ByTier   []GarudaTierCount `json:"by_tier"`
}
