package models

import "time"

// Institution is the organisational unit a member belongs to. The gendered
// troop numbers feed the unit token of issued document numbers.
type Institution struct {
	ID               string    `db:"id" json:"id"`
	Name             string    `db:"name" json:"name"`
	SubDistrict      string    `db:"sub_district" json:"sub_district"`
	Address          string    `db:"address" json:"address"`
	TroopMale        string    `db:"troop_male" json:"troop_male"`
	TroopFemale      string    `db:"troop_female" json:"troop_female"`
	TroopLeaderMale  string    `db:"troop_leader_male" json:"troop_leader_male"`
	TroopLeaderFem   string    `db:"troop_leader_female" json:"troop_leader_female"`
	LeaderNumberMale string    `db:"leader_number_male" json:"leader_number_male"`
	LeaderNumberFem  string    `db:"leader_number_female" json:"leader_number_female"`
	HeadmasterName   string    `db:"headmaster_name" json:"headmaster_name"`
	HeadmasterNumber string    `db:"headmaster_number" json:"headmaster_number"`
	Deleted          bool      `db:"deleted" json:"-"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time `db:"updated_at" json:"updated_at"`
}

// InstitutionDetail is an institution row with its active member count.
type InstitutionDetail struct {
	Institution
	MemberCount int `db:"member_count" json:"member_count"`
}

// InstitutionFilter captures search and pagination criteria for listings.
type InstitutionFilter struct {
	Search   string
	Page     int
	PageSize int
}

// TroopNumber returns the troop identifier matching the member's gender.
// Anything other than female falls back to the male troop, matching the
// numbering convention used on paper documents.
func (i *Institution) TroopNumber(gender Gender) string {
	if gender == GenderFemale {
		return i.TroopFemale
	}
	return i.TroopMale
}
