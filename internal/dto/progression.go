package dto

// IssueTierRequest is the payload for awarding a rank milestone to a member.
// The award date printed on the document is the server's current date.
type IssueTierRequest struct {
	MemberID string `json:"member_id" validate:"required"`
}

// RevertTierRequest walks back a member's highest completed milestone.
type RevertTierRequest struct {
	MemberID string `json:"member_id" validate:"required"`
	Tier     string `json:"tier" validate:"required,oneof=mula bantu tata"`
}

// ProgressionListItem is one row of the tier listing, joined with member and
// institution names.
type ProgressionListItem struct {
	ID              string `json:"id"`
	MemberID        string `json:"member_id"`
	MemberName      string `json:"member_name"`
	InstitutionName string `json:"institution_name"`
	Mula            bool   `json:"mula"`
	Bantu           bool   `json:"bantu"`
	Tata            bool   `json:"tata"`
	SKMula          string `json:"sk_mula,omitempty"`
	SKBantu         string `json:"sk_bantu,omitempty"`
	SKTata          string `json:"sk_tata,omitempty"`
	DateMula        string `json:"date_mula,omitempty"`
	DateBantu       string `json:"date_bantu,omitempty"`
	DateTata        string `json:"date_tata,omitempty"`
}
