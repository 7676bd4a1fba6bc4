package dto

// UserListItem is one row of the account listing.
type UserListItem struct {
	ID              string `json:"id"`
	Email           string `json:"email"`
	FullName        string `json:"full_name"`
	Role            string `json:"role"`
	InstitutionID   string `json:"institution_id,omitempty"`
	InstitutionName string `json:"institution_name,omitempty"`
	Active          bool   `json:"active"`
	LastLogin       string `json:"last_login,omitempty"`
}

// ToggleUserStatusRequest flips an account between active and suspended.
type ToggleUserStatusRequest struct {
	Active bool `json:"active"`
}
