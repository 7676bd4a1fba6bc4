package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/pramuka-adm-api/internal/dto"
	"github.com/noah-isme/pramuka-adm-api/internal/models"
	appErrors "github.com/noah-isme/pramuka-adm-api/pkg/errors"
)

type badgeRepoStub struct {
	awards  map[string]*models.BadgeAward
	created []*models.BadgeAward
	revoked []string
}

func (s *badgeRepoStub) List(ctx context.Context, scope models.AccessScope, filter models.BadgeFilter) ([]models.BadgeAwardDetail, int, error) {
	return nil, 0, nil
}

func (s *badgeRepoStub) FindByID(ctx context.Context, id string) (*models.BadgeAward, error) {
	if award, ok := s.awards[id]; ok {
		return award, nil
	}
	return nil, sql.ErrNoRows
}

func (s *badgeRepoStub) Create(ctx context.Context, award *models.BadgeAward) error {
	s.created = append(s.created, award)
	return nil
}

func (s *badgeRepoStub) Revoke(ctx context.Context, id string) error {
	s.revoked = append(s.revoked, id)
	return nil
}

type badgeTypeReaderStub struct {
	types map[string]*models.BadgeType
}

func (s badgeTypeReaderStub) FindByID(ctx context.Context, id string) (*models.BadgeType, error) {
	if badgeType, ok := s.types[id]; ok {
		return badgeType, nil
	}
	return nil, sql.ErrNoRows
}

type badgeDocStub struct {
	sk  string
	err error
}

func (s badgeDocStub) IssueBadge(ctx context.Context, troop string) (string, error) {
	return s.sk, s.err
}

func newBadgeService(repo *badgeRepoStub, progressions progressionReaderStub) *BadgeService {
	types := badgeTypeReaderStub{types: map[string]*models.BadgeType{
		"t-1": {ID: "t-1", Name: "Berkemah", Sector: "keterampilan"},
	}}
	members := memberReaderStub{members: map[string]*models.MemberDetail{
		"m-1": memberFixture("m-1", "inst-1", models.GenderFemale),
	}}
	institutions := institutionReaderStub{institutions: map[string]*models.Institution{
		"inst-1": institutionFixture("inst-1"),
	}}
	svc := NewBadgeService(repo, types, members, institutions, progressions, badgeDocStub{sk: "00007/TKK-SIAGA/13-A/2026"}, &auditRecorderStub{}, nil, nil)
	svc.now = func() time.Time { return time.Date(2026, time.May, 1, 14, 0, 0, 0, time.UTC) }
	return svc
}

func bantuProgression() progressionReaderStub {
	return progressionReaderStub{progressions: map[string]*models.Progression{
		"m-1": {MemberID: "m-1", Mula: true, Bantu: true},
	}}
}

func TestBadgeAwardSuccess(t *testing.T) {
	repo := &badgeRepoStub{}
	svc := newBadgeService(repo, bantuProgression())

	award, err := svc.Award(context.Background(), dto.AwardBadgeRequest{
		MemberID:     "m-1",
		BadgeTypeID:  "t-1",
		ExaminerName: "Pak Budi",
	}, adminClaims())
	require.NoError(t, err)
	assert.Equal(t, "00007/TKK-SIAGA/13-A/2026", award.SK)
	assert.Equal(t, "Pak Budi", award.ExaminerName)
	require.NotNil(t, award.Date)
	assert.Equal(t, time.Date(2026, time.May, 1, 0, 0, 0, 0, time.UTC), *award.Date)
	require.Len(t, repo.created, 1)
}

func TestBadgeAwardRequiresMulaAndBantu(t *testing.T) {
	repo := &badgeRepoStub{}
	progressions := progressionReaderStub{progressions: map[string]*models.Progression{
		"m-1": {MemberID: "m-1", Mula: true},
	}}
	svc := newBadgeService(repo, progressions)

	_, err := svc.Award(context.Background(), dto.AwardBadgeRequest{MemberID: "m-1", BadgeTypeID: "t-1"}, adminClaims())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
	assert.Empty(t, repo.created)
}

func TestBadgeAwardRepeatSameTypeAllowed(t *testing.T) {
	// Members re-earn the same badge type; every pass gets a fresh decree.
	repo := &badgeRepoStub{}
	svc := newBadgeService(repo, bantuProgression())

	req := dto.AwardBadgeRequest{MemberID: "m-1", BadgeTypeID: "t-1"}
	_, err := svc.Award(context.Background(), req, adminClaims())
	require.NoError(t, err)
	_, err = svc.Award(context.Background(), req, adminClaims())
	require.NoError(t, err)
	assert.Len(t, repo.created, 2)
}

func TestBadgeAwardUnknownType(t *testing.T) {
	repo := &badgeRepoStub{}
	svc := newBadgeService(repo, bantuProgression())

	_, err := svc.Award(context.Background(), dto.AwardBadgeRequest{MemberID: "m-1", BadgeTypeID: "t-404"}, adminClaims())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestBadgeAwardProgressionLookupFailure(t *testing.T) {
	repo := &badgeRepoStub{}
	progressions := progressionReaderStub{err: errors.New("connection reset")}
	svc := newBadgeService(repo, progressions)

	_, err := svc.Award(context.Background(), dto.AwardBadgeRequest{MemberID: "m-1", BadgeTypeID: "t-1"}, adminClaims())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInternal.Code, appErrors.FromError(err).Code)
	assert.Empty(t, repo.created)
}

func TestBadgeRevoke(t *testing.T) {
	repo := &badgeRepoStub{awards: map[string]*models.BadgeAward{
		"b-1": {ID: "b-1", MemberID: "m-1", SK: "00007/TKK-SIAGA/13-A/2026"},
	}}
	svc := newBadgeService(repo, bantuProgression())

	require.NoError(t, svc.Revoke(context.Background(), "b-1", adminClaims()))
	assert.Equal(t, []string{"b-1"}, repo.revoked)
}

func TestBadgeRevokeAlreadyRevoked(t *testing.T) {
	repo := &badgeRepoStub{awards: map[string]*models.BadgeAward{
		"b-1": {ID: "b-1", MemberID: "m-1", SK: ""},
	}}
	svc := newBadgeService(repo, bantuProgression())

	err := svc.Revoke(context.Background(), "b-1", adminClaims())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}
