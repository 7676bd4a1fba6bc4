package dto

// CreateInstitutionRequest is the payload for registering an institution.
type CreateInstitutionRequest struct {
	Name             string `json:"name" validate:"required"`
	SubDistrict      string `json:"sub_district"`
	Address          string `json:"address"`
	TroopMale        string `json:"troop_male"`
	TroopFemale      string `json:"troop_female"`
	TroopLeaderMale  string `json:"troop_leader_male"`
	TroopLeaderFem   string `json:"troop_leader_female"`
	LeaderNumberMale string `json:"leader_number_male"`
	LeaderNumberFem  string `json:"leader_number_female"`
	HeadmasterName   string `json:"headmaster_name"`
	HeadmasterNumber string `json:"headmaster_number"`
}

// UpdateInstitutionRequest modifies an institution; nil fields are kept.
type UpdateInstitutionRequest struct {
	Name             *string `json:"name"`
	SubDistrict      *string `json:"sub_district"`
	Address          *string `json:"address"`
	TroopMale        *string `json:"troop_male"`
	TroopFemale      *string `json:"troop_female"`
	TroopLeaderMale  *string `json:"troop_leader_male"`
	TroopLeaderFem   *string `json:"troop_leader_female"`
	LeaderNumberMale *string `json:"leader_number_male"`
	LeaderNumberFem  *string `json:"leader_number_female"`
	HeadmasterName   *string `json:"headmaster_name"`
	HeadmasterNumber *string `json:"headmaster_number"`
}

// InstitutionListItem is one row of the institution listing with the count of
// active members attached.
type InstitutionListItem struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	SubDistrict string `json:"sub_district"`
	TroopMale   string `json:"troop_male"`
	TroopFemale string `json:"troop_female"`
	MemberCount int    `json:"member_count"`
}
