package service

import (
	"github.com/noah-isme/pramuka-adm-api/internal/models"
	appErrors "github.com/noah-isme/pramuka-adm-api/pkg/errors"
)

// ResolveScope derives the data visibility for the caller. Admins and super
// admins see the whole organisation; regular users are pinned to their
// institution. A regular user without an institution binding is rejected
// rather than silently widened.
func ResolveScope(claims *models.JWTClaims) (models.AccessScope, error) {
	if claims == nil {
		return models.AccessScope{}, appErrors.ErrUnauthorized
	}
	switch claims.Role {
	case models.RoleAdmin, models.RoleSuperAdmin:
		return models.Unscoped(), nil
	case models.RoleUser:
		if claims.InstitutionID == "" {
			return models.AccessScope{}, appErrors.Clone(appErrors.ErrForbidden, "account is not bound to an institution")
		}
		return models.ForInstitution(claims.InstitutionID), nil
	default:
		return models.AccessScope{}, appErrors.ErrForbidden
	}
}
