package dto

// CreateBadgeTypeRequest adds an entry to the proficiency badge catalog.
type CreateBadgeTypeRequest struct {
	Name   string `json:"name" validate:"required"`
	Sector string `json:"sector" validate:"required"`
	Color  string `json:"color"`
}

// UpdateBadgeTypeRequest modifies a catalog entry; nil fields are kept.
type UpdateBadgeTypeRequest struct {
	Name   *string `json:"name"`
	Sector *string `json:"sector"`
	Color  *string `json:"color"`
}

// AwardBadgeRequest is the payload for awarding a proficiency badge. The
// award date is the server's current date.
type AwardBadgeRequest struct {
	MemberID         string `json:"member_id" validate:"required"`
	BadgeTypeID      string `json:"badge_type_id" validate:"required"`
	ExaminerName     string `json:"examiner_name"`
	ExaminerPosition string `json:"examiner_position"`
	ExaminerAddress  string `json:"examiner_address"`
}

// BadgeListItem is one row of the badge award listing.
type BadgeListItem struct {
	ID              string `json:"id"`
	MemberID        string `json:"member_id"`
	MemberName      string `json:"member_name"`
	InstitutionName string `json:"institution_name"`
	BadgeName       string `json:"badge_name"`
	Sector          string `json:"sector"`
	SK              string `json:"sk,omitempty"`
	Date            string `json:"date,omitempty"`
	ExaminerName    string `json:"examiner_name,omitempty"`
}
