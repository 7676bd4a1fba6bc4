package dto

// RequestGarudaRequest opens a pending top-honor award for a member.
type RequestGarudaRequest struct {
	MemberID string `json:"member_id" validate:"required"`
}

// GarudaListItem is one row of the top-honor listing.
type GarudaListItem struct {
	ID              string  `json:"id"`
	MemberID        string  `json:"member_id"`
	MemberName      string  `json:"member_name"`
	InstitutionName string  `json:"institution_name"`
	TierLabel       string  `json:"tier_label"`
	TotalBadges     int     `json:"total_badges"`
	Status          int     `json:"status"`
	ApprovedBy      *string `json:"approved_by,omitempty"`
	CreatedAt       string  `json:"created_at"`
}
