package models

import "time"

// Tier identifies one of the three sequential rank milestones (TKU). The
// order is fixed: Mula, then Bantu, then Tata. No skipping, no cycles.
type Tier string

const (
	TierMula  Tier = "mula"
	TierBantu Tier = "bantu"
	TierTata  Tier = "tata"
)

// Valid reports whether the tier is one of the three known milestones.
func (t Tier) Valid() bool {
	return t == TierMula || t == TierBantu || t == TierTata
}

// Progression tracks the TKU milestones for exactly one member. There is at
// most one non-deleted row per member, created as a side effect of the first
// Mula award. Flags are monotonic: Tata implies Bantu implies Mula; only the
// highest set tier can be walked back, one step at a time.
type Progression struct {
	ID        string     `db:"id" json:"id"`
	MemberID  string     `db:"member_id" json:"member_id"`
	Mula      bool       `db:"mula" json:"mula"`
	Bantu     bool       `db:"bantu" json:"bantu"`
	Tata      bool       `db:"tata" json:"tata"`
	SKMula    string     `db:"sk_mula" json:"sk_mula"`
	SKBantu   string     `db:"sk_bantu" json:"sk_bantu"`
	SKTata    string     `db:"sk_tata" json:"sk_tata"`
	DateMula  *time.Time `db:"date_mula" json:"date_mula,omitempty"`
	DateBantu *time.Time `db:"date_bantu" json:"date_bantu,omitempty"`
	DateTata  *time.Time `db:"date_tata" json:"date_tata,omitempty"`
	Deleted   bool       `db:"deleted" json:"-"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt time.Time  `db:"updated_at" json:"updated_at"`
}

// HighestTier returns the highest completed tier, or "" when none is set.
func (p *Progression) HighestTier() Tier {
	switch {
	case p.Tata:
		return TierTata
	case p.Bantu:
		return TierBantu
	case p.Mula:
		return TierMula
	default:
		return ""
	}
}

// TierSet reports whether the given tier flag is set.
func (p *Progression) TierSet(tier Tier) bool {
	switch tier {
	case TierMula:
		return p.Mula
	case TierBantu:
		return p.Bantu
	case TierTata:
		return p.Tata
	default:
		return false
	}
}

// ProgressionDetail is a milestone row joined with member and institution
// names for listings.
type ProgressionDetail struct {
	Progression
	MemberName      string  `db:"member_name" json:"member_name"`
	InstitutionName *string `db:"institution_name" json:"institution_name,omitempty"`
}

// ProgressionFilter captures criteria for tier listings. Tier narrows the
// listing to rows with that milestone completed.
type ProgressionFilter struct {
	Tier     Tier
	Search   string
	Page     int
	PageSize int
}

// ProgressionSummary aggregates milestone completion across a scope.
type ProgressionSummary struct {
	TotalMula    int `json:"total_mula"`
	TotalBantu   int `json:"total_bantu"`
	TotalTata    int `json:"total_tata"`
	TotalMembers int `json:"total_members"`
	Completed    int `json:"completed"`
	InProgress   int `json:"in_progress"`
	NotStarted   int `json:"not_started"`
}
