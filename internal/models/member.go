package models

import "time"

// Gender enumerates the registered gender of a member. It selects which of
// the institution's troop numbers is embedded in issued document numbers.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

// Member is a scout whose progression and badge records this system tracks.
// Members are soft-deleted and referenced, never owned, by award records.
type Member struct {
	ID            string     `db:"id" json:"id"`
	Name          string     `db:"name" json:"name"`
	Phone         string     `db:"phone" json:"phone"`
	InstitutionID *string    `db:"institution_id" json:"institution_id,omitempty"`
	MemberNumber  string     `db:"member_number" json:"member_number"`
	ParentNumber  string     `db:"parent_number" json:"parent_number"`
	Gender        Gender     `db:"gender" json:"gender"`
	BirthPlace    string     `db:"birth_place" json:"birth_place"`
	BirthDate     *time.Time `db:"birth_date" json:"birth_date,omitempty"`
	Village       string     `db:"village" json:"village"`
	SubDistrict   string     `db:"sub_district" json:"sub_district"`
	District      string     `db:"district" json:"district"`
	Province      string     `db:"province" json:"province"`
	ParentName    string     `db:"parent_name" json:"parent_name"`
	ParentPhone   string     `db:"parent_phone" json:"parent_phone"`
	EntryDate     *time.Time `db:"entry_date" json:"entry_date,omitempty"`
	Deleted       bool       `db:"deleted" json:"-"`
	CreatedAt     time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time  `db:"updated_at" json:"updated_at"`
}

// MemberDetail is a member row joined with its institution name.
type MemberDetail struct {
	Member
	InstitutionName *string `db:"institution_name" json:"institution_name,omitempty"`
}

// MemberFilter captures search and pagination criteria for member listings.
type MemberFilter struct {
	Search   string
	Page     int
	PageSize int
}
