package dto

import "github.com/noah-isme/pramuka-adm-api/internal/models"

// DashboardResponse is the aggregated landing payload. Scoped to the
// caller's institution for the user role, organisation-wide otherwise.
type DashboardResponse struct {
	TotalMembers      int                       `json:"total_members"`
	TotalInstitutions int                       `json:"total_institutions"`
	TotalBadges       int                       `json:"total_badges"`
	Progression       models.ProgressionSummary `json:"progression"`
	Garuda            models.GarudaSummary      `json:"garuda"`
	RecentActivity    []models.AuditLog         `json:"recent_activity"`
}
