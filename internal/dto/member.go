package dto

// CreateMemberRequest is the payload for registering a new member.
type CreateMemberRequest struct {
	Name          string `json:"name" validate:"required"`
	Phone         string `json:"phone"`
	InstitutionID string `json:"institution_id" validate:"required"`
	MemberNumber  string `json:"member_number"`
	ParentNumber  string `json:"parent_number"`
	Gender        string `json:"gender" validate:"required,oneof=male female other"`
	BirthPlace    string `json:"birth_place"`
	BirthDate     string `json:"birth_date" validate:"omitempty,datetime=2006-01-02"`
	Village       string `json:"village"`
	SubDistrict   string `json:"sub_district"`
	District      string `json:"district"`
	Province      string `json:"province"`
	ParentName    string `json:"parent_name"`
	ParentPhone   string `json:"parent_phone"`
	EntryDate     string `json:"entry_date" validate:"omitempty,datetime=2006-01-02"`
}

// UpdateMemberRequest is the payload for modifying an existing member. All
// fields are optional; absent fields keep their stored value.
type UpdateMemberRequest struct {
	Name          *string `json:"name"`
	Phone         *string `json:"phone"`
	InstitutionID *string `json:"institution_id"`
	MemberNumber  *string `json:"member_number"`
	ParentNumber  *string `json:"parent_number"`
	Gender        *string `json:"gender" validate:"omitempty,oneof=male female other"`
	BirthPlace    *string `json:"birth_place"`
	BirthDate     *string `json:"birth_date" validate:"omitempty,datetime=2006-01-02"`
	Village       *string `json:"village"`
	SubDistrict   *string `json:"sub_district"`
	District      *string `json:"district"`
	Province      *string `json:"province"`
	ParentName    *string `json:"parent_name"`
	ParentPhone   *string `json:"parent_phone"`
	EntryDate     *string `json:"entry_date" validate:"omitempty,datetime=2006-01-02"`
}

// MemberListItem is one row of the member listing, joined with the
// institution name so clients need no second lookup.
type MemberListItem struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Phone           string `json:"phone"`
	Gender          string `json:"gender"`
	MemberNumber    string `json:"member_number"`
	InstitutionID   string `json:"institution_id"`
	InstitutionName string `json:"institution_name"`
	EntryDate       string `json:"entry_date,omitempty"`
}
