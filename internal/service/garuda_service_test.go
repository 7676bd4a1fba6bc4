package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/pramuka-adm-api/internal/dto"
	"github.com/noah-isme/pramuka-adm-api/internal/models"
	appErrors "github.com/noah-isme/pramuka-adm-api/pkg/errors"
)

type garudaRepoStub struct {
	awards    map[string]*models.Garuda
	exists    bool
	existsErr error
	created   []*models.Garuda
	approved  []string
	deleted   []string
	createErr error
	summary   *models.GarudaSummary
}

func (s *garudaRepoStub) List(ctx context.Context, scope models.AccessScope, filter models.GarudaFilter) ([]models.GarudaDetail, int, error) {
	return nil, 0, nil
}

func (s *garudaRepoStub) FindByID(ctx context.Context, id string) (*models.Garuda, error) {
	if award, ok := s.awards[id]; ok {
		return award, nil
	}
	return nil, appErrors.ErrNotFound
}

func (s *garudaRepoStub) ExistsForMember(ctx context.Context, memberID string) (bool, error) {
	return s.exists, s.existsErr
}

func (s *garudaRepoStub) Create(ctx context.Context, award *models.Garuda) error {
	if s.createErr != nil {
		return s.createErr
	}
	s.created = append(s.created, award)
	return nil
}

func (s *garudaRepoStub) Approve(ctx context.Context, id, approverID string) error {
	s.approved = append(s.approved, id)
	return nil
}

func (s *garudaRepoStub) SoftDelete(ctx context.Context, id string) error {
	s.deleted = append(s.deleted, id)
	return nil
}

func (s *garudaRepoStub) Summary(ctx context.Context, scope models.AccessScope) (*models.GarudaSummary, error) {
	if s.summary != nil {
		return s.summary, nil
	}
	return &models.GarudaSummary{}, nil
}

type sectorCounterStub struct {
	counts []models.SectorCount
	err    error
}

func (s sectorCounterStub) CountBySector(ctx context.Context, memberID string) ([]models.SectorCount, error) {
	return s.counts, s.err
}

func newGarudaService(repo *garudaRepoStub, badges sectorCounterStub, progressions progressionReaderStub) *GarudaService {
	members := memberReaderStub{members: map[string]*models.MemberDetail{
		"m-1": memberFixture("m-1", "inst-1", models.GenderMale),
	}}
	return NewGarudaService(repo, members, progressions, badges, &auditRecorderStub{}, nil, nil)
}

func tataProgression() progressionReaderStub {
	return progressionReaderStub{progressions: map[string]*models.Progression{
		"m-1": {MemberID: "m-1", Mula: true, Bantu: true, Tata: true},
	}}
}

func TestGarudaRequestSuccess(t *testing.T) {
	repo := &garudaRepoStub{}
	badges := sectorCounterStub{counts: []models.SectorCount{
		{Sector: "agama", Count: 5},
		{Sector: "keterampilan", Count: 4},
	}}
	svc := newGarudaService(repo, badges, tataProgression())

	award, err := svc.Request(context.Background(), dto.RequestGarudaRequest{MemberID: "m-1"}, adminClaims())
	require.NoError(t, err)
	assert.Equal(t, "TATA", award.TierLabel)
	assert.Equal(t, 9, award.TotalBadges)
	assert.Equal(t, models.GarudaStatusPending, award.Status)
	require.Len(t, repo.created, 1)
}

func TestGarudaRequestRequiresTata(t *testing.T) {
	repo := &garudaRepoStub{}
	badges := sectorCounterStub{counts: []models.SectorCount{{Sector: "agama", Count: 5}}}
	progressions := progressionReaderStub{progressions: map[string]*models.Progression{
		"m-1": {MemberID: "m-1", Mula: true, Bantu: true},
	}}
	svc := newGarudaService(repo, badges, progressions)

	_, err := svc.Request(context.Background(), dto.RequestGarudaRequest{MemberID: "m-1"}, adminClaims())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestGarudaRequestEverySectorNeedsFourBadges(t *testing.T) {
	repo := &garudaRepoStub{}
	badges := sectorCounterStub{counts: []models.SectorCount{
		{Sector: "agama", Count: 6},
		{Sector: "patriotisme", Count: 3},
	}}
	svc := newGarudaService(repo, badges, tataProgression())

	_, err := svc.Request(context.Background(), dto.RequestGarudaRequest{MemberID: "m-1"}, adminClaims())
	require.Error(t, err)
	assert.Empty(t, repo.created)
}

func TestGarudaRequestNeedsAtLeastOneSector(t *testing.T) {
	repo := &garudaRepoStub{}
	svc := newGarudaService(repo, sectorCounterStub{}, tataProgression())

	_, err := svc.Request(context.Background(), dto.RequestGarudaRequest{MemberID: "m-1"}, adminClaims())
	require.Error(t, err)
}

func TestGarudaRequestBlockedByAnyExistingRecord(t *testing.T) {
	// A previously deleted award still blocks; the repository counts deleted
	// rows in ExistsForMember.
	repo := &garudaRepoStub{exists: true}
	badges := sectorCounterStub{counts: []models.SectorCount{{Sector: "agama", Count: 4}}}
	svc := newGarudaService(repo, badges, tataProgression())

	_, err := svc.Request(context.Background(), dto.RequestGarudaRequest{MemberID: "m-1"}, adminClaims())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestGarudaApproveSuperAdminOnly(t *testing.T) {
	repo := &garudaRepoStub{awards: map[string]*models.Garuda{
		"g-1": {ID: "g-1", MemberID: "m-1", Status: models.GarudaStatusPending},
	}}
	svc := newGarudaService(repo, sectorCounterStub{}, tataProgression())

	_, err := svc.Approve(context.Background(), "g-1", adminClaims())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)

	award, err := svc.Approve(context.Background(), "g-1", superAdminClaims())
	require.NoError(t, err)
	assert.Equal(t, models.GarudaStatusApproved, award.Status)
	require.NotNil(t, award.ApprovedBy)
	assert.Equal(t, "super-1", *award.ApprovedBy)
	assert.Equal(t, []string{"g-1"}, repo.approved)
}

func TestGarudaApproveTwiceConflicts(t *testing.T) {
	repo := &garudaRepoStub{awards: map[string]*models.Garuda{
		"g-1": {ID: "g-1", Status: models.GarudaStatusApproved},
	}}
	svc := newGarudaService(repo, sectorCounterStub{}, tataProgression())

	_, err := svc.Approve(context.Background(), "g-1", superAdminClaims())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestGarudaDeleteApprovedConflicts(t *testing.T) {
	repo := &garudaRepoStub{awards: map[string]*models.Garuda{
		"g-1": {ID: "g-1", Status: models.GarudaStatusApproved},
		"g-2": {ID: "g-2", Status: models.GarudaStatusPending},
	}}
	svc := newGarudaService(repo, sectorCounterStub{}, tataProgression())

	err := svc.Delete(context.Background(), "g-1", superAdminClaims())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
	assert.Empty(t, repo.deleted)

	require.NoError(t, svc.Delete(context.Background(), "g-2", superAdminClaims()))
	assert.Equal(t, []string{"g-2"}, repo.deleted)
}

func TestGarudaRequestProgressionLookupFailure(t *testing.T) {
	repo := &garudaRepoStub{}
	badges := sectorCounterStub{counts: []models.SectorCount{{Sector: "agama", Count: 4}}}
	progressions := progressionReaderStub{err: errors.New("connection reset")}
	svc := newGarudaService(repo, badges, progressions)

	_, err := svc.Request(context.Background(), dto.RequestGarudaRequest{MemberID: "m-1"}, adminClaims())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInternal.Code, appErrors.FromError(err).Code)
	assert.Empty(t, repo.created)
}
