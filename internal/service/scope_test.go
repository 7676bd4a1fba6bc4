package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/pramuka-adm-api/internal/models"
)

func TestResolveScopeAdminUnscoped(t *testing.T) {
	scope, err := ResolveScope(adminClaims())
	require.NoError(t, err)
	assert.False(t, scope.Restricted())

	scope, err = ResolveScope(superAdminClaims())
	require.NoError(t, err)
	assert.False(t, scope.Restricted())
}

func TestResolveScopeUserPinnedToInstitution(t *testing.T) {
	scope, err := ResolveScope(userClaims("inst-1"))
	require.NoError(t, err)
	assert.True(t, scope.Restricted())
	assert.Equal(t, "inst-1", scope.InstitutionID)
}

func TestResolveScopeUserWithoutInstitution(t *testing.T) {
	_, err := ResolveScope(userClaims(""))
	require.Error(t, err)
}

func TestResolveScopeNilClaims(t *testing.T) {
	_, err := ResolveScope(nil)
	require.Error(t, err)
}

func TestResolveScopeUnknownRole(t *testing.T) {
	_, err := ResolveScope(&models.JWTClaims{UserID: "x", Role: models.UserRole("guest")})
	require.Error(t, err)
}
