package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/pramuka-adm-api/internal/models"
	appErrors "github.com/noah-isme/pramuka-adm-api/pkg/errors"
)

type userRepoStub struct {
	byEmail        map[string]*models.User
	byID           map[string]*models.User
	institutionHas bool
	created        []*models.User
	activeSets     map[string]bool
	deleted        []string
}

func (s *userRepoStub) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if user, ok := s.byEmail[email]; ok {
		return user, nil
	}
	return nil, sql.ErrNoRows
}

func (s *userRepoStub) FindByID(ctx context.Context, id string) (*models.User, error) {
	if user, ok := s.byID[id]; ok {
		return user, nil
	}
	return nil, sql.ErrNoRows
}

func (s *userRepoStub) ExistsForInstitution(ctx context.Context, institutionID string) (bool, error) {
	return s.institutionHas, nil
}

func (s *userRepoStub) List(ctx context.Context, filter models.UserFilter) ([]models.UserDetail, int, error) {
	return nil, 0, nil
}

func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	s.created = append(s.created, user)
	return nil
}

func (s *userRepoStub) SetActive(ctx context.Context, id string, active bool) error {
	if s.activeSets == nil {
		s.activeSets = map[string]bool{}
	}
	s.activeSets[id] = active
	return nil
}

func (s *userRepoStub) SoftDelete(ctx context.Context, id string) error {
	s.deleted = append(s.deleted, id)
	return nil
}

func newUserService(repo *userRepoStub) *UserService {
	institutions := institutionReaderStub{institutions: map[string]*models.Institution{
		"inst-1": institutionFixture("inst-1"),
	}}
	return NewUserService(repo, institutions, &auditRecorderStub{}, nil, nil)
}

func TestUserRegisterStartsInactive(t *testing.T) {
	repo := &userRepoStub{}
	svc := newUserService(repo)

	user, err := svc.Register(context.Background(), models.RegisterRequest{
		Email:         "baru@example.com",
		Password:      "rahasia1",
		FullName:      "Akun Baru",
		InstitutionID: strPtr("inst-1"),
	})
	require.NoError(t, err)
	assert.False(t, user.Active)
	assert.Equal(t, models.RoleUser, user.Role)
	assert.NotEqual(t, "rahasia1", user.PasswordHash)
	require.Len(t, repo.created, 1)
}

func TestUserRegisterOnePerInstitution(t *testing.T) {
	repo := &userRepoStub{institutionHas: true}
	svc := newUserService(repo)

	_, err := svc.Register(context.Background(), models.RegisterRequest{
		Email:         "kedua@example.com",
		Password:      "rahasia1",
		FullName:      "Akun Kedua",
		InstitutionID: strPtr("inst-1"),
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestUserRegisterDuplicateEmail(t *testing.T) {
	repo := &userRepoStub{byEmail: map[string]*models.User{
		"ada@example.com": {ID: "u-1", Email: "ada@example.com"},
	}}
	svc := newUserService(repo)

	_, err := svc.Register(context.Background(), models.RegisterRequest{
		Email:         "ada@example.com",
		Password:      "rahasia1",
		FullName:      "Dobel",
		InstitutionID: strPtr("inst-1"),
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestUserRegisterUnknownInstitution(t *testing.T) {
	svc := newUserService(&userRepoStub{})

	_, err := svc.Register(context.Background(), models.RegisterRequest{
		Email:         "baru@example.com",
		Password:      "rahasia1",
		FullName:      "Akun",
		InstitutionID: strPtr("inst-404"),
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestUserToggleStatus(t *testing.T) {
	repo := &userRepoStub{byID: map[string]*models.User{
		"u-2": {ID: "u-2", Email: "user@example.com", Role: models.RoleUser, Active: false},
	}}
	svc := newUserService(repo)

	user, err := svc.ToggleStatus(context.Background(), "u-2", true, adminClaims())
	require.NoError(t, err)
	assert.True(t, user.Active)
	assert.True(t, repo.activeSets["u-2"])
}

func TestUserToggleStatusSelfRejected(t *testing.T) {
	claims := adminClaims()
	repo := &userRepoStub{byID: map[string]*models.User{
		claims.UserID: {ID: claims.UserID, Role: models.RoleAdmin, Active: true},
	}}
	svc := newUserService(repo)

	_, err := svc.ToggleStatus(context.Background(), claims.UserID, false, claims)
	require.Error(t, err)
}

func TestUserToggleStatusRequiresAdmin(t *testing.T) {
	svc := newUserService(&userRepoStub{})
	_, err := svc.ToggleStatus(context.Background(), "u-2", true, userClaims("inst-1"))
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}

func TestUserDeleteSuperAdminOnly(t *testing.T) {
	repo := &userRepoStub{byID: map[string]*models.User{
		"u-2": {ID: "u-2", Role: models.RoleUser},
	}}
	svc := newUserService(repo)

	err := svc.Delete(context.Background(), "u-2", adminClaims())
	require.Error(t, err)

	require.NoError(t, svc.Delete(context.Background(), "u-2", superAdminClaims()))
	assert.Equal(t, []string{"u-2"}, repo.deleted)
}
