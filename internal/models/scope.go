package models

// AccessScope restricts queries to the records a caller may see. A zero-value
// scope is fully restricted; use Unscoped for admin visibility. Repositories
// must apply the scope before any search or pagination predicate.
type AccessScope struct {
	InstitutionID string
	All           bool
}

// Unscoped grants cross-institution visibility.
func Unscoped() AccessScope {
	return AccessScope{All: true}
}

// ForInstitution limits visibility to one institution's members.
func ForInstitution(institutionID string) AccessScope {
	return AccessScope{InstitutionID: institutionID}
}

// Restricted reports whether the scope pins queries to an institution.
func (s AccessScope) Restricted() bool {
	return !s.All
}
