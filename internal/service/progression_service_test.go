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

type progressionRepoStub struct {
	byMember  map[string]*models.Progression
	findErr   error
	created   []*models.Progression
	updated   []*models.Progression
	createErr error
	updateErr error
	summary   *models.ProgressionSummary
}

func (s *progressionRepoStub) List(ctx context.Context, scope models.AccessScope, filter models.ProgressionFilter) ([]models.ProgressionDetail, int, error) {
	return nil, 0, nil
}

func (s *progressionRepoStub) FindByMember(ctx context.Context, memberID string) (*models.Progression, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	if progression, ok := s.byMember[memberID]; ok {
		return progression, nil
	}
	return nil, sql.ErrNoRows
}

func (s *progressionRepoStub) Create(ctx context.Context, progression *models.Progression) error {
	if s.createErr != nil {
		return s.createErr
	}
	s.created = append(s.created, progression)
	return nil
}

func (s *progressionRepoStub) Update(ctx context.Context, progression *models.Progression) error {
	if s.updateErr != nil {
		return s.updateErr
	}
	s.updated = append(s.updated, progression)
	return nil
}

func (s *progressionRepoStub) Summary(ctx context.Context, scope models.AccessScope) (*models.ProgressionSummary, error) {
	if s.summary != nil {
		return s.summary, nil
	}
	return &models.ProgressionSummary{}, nil
}

type tierDocStub struct {
	sk     string
	err    error
	issued []models.Tier
}

func (s *tierDocStub) IssueTier(ctx context.Context, tier models.Tier, troop string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	s.issued = append(s.issued, tier)
	return s.sk, nil
}

func newProgressionService(repo *progressionRepoStub, docs *tierDocStub, members memberReaderStub, today time.Time) *ProgressionService {
	institutions := institutionReaderStub{institutions: map[string]*models.Institution{
		"inst-1": institutionFixture("inst-1"),
	}}
	svc := NewProgressionService(repo, members, institutions, docs, &auditRecorderStub{}, nil, nil)
	svc.now = func() time.Time { return today }
	return svc
}

func TestIssueMulaCreatesProgression(t *testing.T) {
	today := time.Date(2026, time.January, 10, 9, 30, 0, 0, time.UTC)
	repo := &progressionRepoStub{byMember: map[string]*models.Progression{}}
	docs := &tierDocStub{sk: "00001/TKU-BANTU/12-A/2026"}
	members := memberReaderStub{members: map[string]*models.MemberDetail{
		"m-1": memberFixture("m-1", "inst-1", models.GenderMale),
	}}
	svc := newProgressionService(repo, docs, members, today)

	progression, err := svc.IssueMula(context.Background(), dto.IssueTierRequest{MemberID: "m-1"}, adminClaims())
	require.NoError(t, err)
	assert.True(t, progression.Mula)
	assert.Equal(t, "00001/TKU-BANTU/12-A/2026", progression.SKMula)
	require.NotNil(t, progression.DateMula)
	assert.Equal(t, time.Date(2026, time.January, 10, 0, 0, 0, 0, time.UTC), *progression.DateMula)
	require.Len(t, repo.created, 1)
	assert.Equal(t, []models.Tier{models.TierMula}, docs.issued)
}

func TestIssueMulaAlreadyAwarded(t *testing.T) {
	repo := &progressionRepoStub{byMember: map[string]*models.Progression{
		"m-1": {MemberID: "m-1", Mula: true},
	}}
	docs := &tierDocStub{sk: "x"}
	members := memberReaderStub{members: map[string]*models.MemberDetail{
		"m-1": memberFixture("m-1", "inst-1", models.GenderMale),
	}}
	svc := newProgressionService(repo, docs, members, time.Now())

	_, err := svc.IssueMula(context.Background(), dto.IssueTierRequest{MemberID: "m-1"}, adminClaims())
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErr.Code)
	assert.Empty(t, docs.issued)
}

func TestIssueBantuWaitingPeriod(t *testing.T) {
	mulaDate := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	members := memberReaderStub{members: map[string]*models.MemberDetail{
		"m-1": memberFixture("m-1", "inst-1", models.GenderFemale),
	}}

	cases := []struct {
		name    string
		today   time.Time
		wantErr bool
	}{
		{name: "day 99 rejected", today: time.Date(2026, time.April, 10, 12, 0, 0, 0, time.UTC), wantErr: true},
		{name: "day 100 accepted", today: time.Date(2026, time.April, 11, 12, 0, 0, 0, time.UTC), wantErr: false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := &progressionRepoStub{byMember: map[string]*models.Progression{
				"m-1": {MemberID: "m-1", Mula: true, DateMula: &mulaDate},
			}}
			docs := &tierDocStub{sk: "00002/TKU-BANTU/13-A/2026"}
			svc := newProgressionService(repo, docs, members, tc.today)

			_, err := svc.IssueBantu(context.Background(), dto.IssueTierRequest{MemberID: "m-1"}, adminClaims())
			if tc.wantErr {
				require.Error(t, err)
				appErr := appErrors.FromError(err)
				assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
			} else {
				require.NoError(t, err)
				require.Len(t, repo.updated, 1)
				assert.True(t, repo.updated[0].Bantu)
			}
		})
	}
}

func TestIssueBantuGateMeasuredFromServerClock(t *testing.T) {
	// The gate counts elapsed days on the server clock; nothing a caller
	// sends can move the measurement forward.
	today := time.Date(2026, time.March, 1, 8, 0, 0, 0, time.UTC)
	mulaDate := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	repo := &progressionRepoStub{byMember: map[string]*models.Progression{
		"m-1": {MemberID: "m-1", Mula: true, DateMula: &mulaDate},
	}}
	members := memberReaderStub{members: map[string]*models.MemberDetail{
		"m-1": memberFixture("m-1", "inst-1", models.GenderMale),
	}}
	svc := newProgressionService(repo, &tierDocStub{sk: "x"}, members, today)

	_, err := svc.IssueBantu(context.Background(), dto.IssueTierRequest{MemberID: "m-1"}, adminClaims())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
	assert.Empty(t, repo.updated)
}

func TestIssueBantuRequiresMula(t *testing.T) {
	repo := &progressionRepoStub{byMember: map[string]*models.Progression{
		"m-1": {MemberID: "m-1"},
	}}
	members := memberReaderStub{members: map[string]*models.MemberDetail{
		"m-1": memberFixture("m-1", "inst-1", models.GenderMale),
	}}
	svc := newProgressionService(repo, &tierDocStub{sk: "x"}, members, time.Now())

	_, err := svc.IssueBantu(context.Background(), dto.IssueTierRequest{MemberID: "m-1"}, adminClaims())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestIssueTataHasNoWaitingPeriod(t *testing.T) {
	bantuDate := time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC)
	repo := &progressionRepoStub{byMember: map[string]*models.Progression{
		"m-1": {MemberID: "m-1", Mula: true, Bantu: true, DateBantu: &bantuDate},
	}}
	docs := &tierDocStub{sk: "00001/TKU-TATA/12-A/2026"}
	members := memberReaderStub{members: map[string]*models.MemberDetail{
		"m-1": memberFixture("m-1", "inst-1", models.GenderMale),
	}}
	// Same day as the bantu award is fine.
	svc := newProgressionService(repo, docs, members, bantuDate)

	progression, err := svc.IssueTata(context.Background(), dto.IssueTierRequest{MemberID: "m-1"}, adminClaims())
	require.NoError(t, err)
	assert.True(t, progression.Tata)
	assert.Equal(t, "00001/TKU-TATA/12-A/2026", progression.SKTata)
}

func TestIssueTataRequiresBantu(t *testing.T) {
	repo := &progressionRepoStub{byMember: map[string]*models.Progression{
		"m-1": {MemberID: "m-1", Mula: true},
	}}
	members := memberReaderStub{members: map[string]*models.MemberDetail{
		"m-1": memberFixture("m-1", "inst-1", models.GenderMale),
	}}
	svc := newProgressionService(repo, &tierDocStub{sk: "x"}, members, time.Now())

	_, err := svc.IssueTata(context.Background(), dto.IssueTierRequest{MemberID: "m-1"}, adminClaims())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestRevertOnlyHighestTier(t *testing.T) {
	repo := &progressionRepoStub{byMember: map[string]*models.Progression{
		"m-1": {MemberID: "m-1", Mula: true, Bantu: true, SKMula: "a", SKBantu: "b"},
	}}
	members := memberReaderStub{members: map[string]*models.MemberDetail{
		"m-1": memberFixture("m-1", "inst-1", models.GenderMale),
	}}
	svc := newProgressionService(repo, &tierDocStub{}, members, time.Now())

	_, err := svc.Revert(context.Background(), dto.RevertTierRequest{MemberID: "m-1", Tier: "mula"}, adminClaims())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)

	progression, err := svc.Revert(context.Background(), dto.RevertTierRequest{MemberID: "m-1", Tier: "bantu"}, adminClaims())
	require.NoError(t, err)
	assert.False(t, progression.Bantu)
	assert.Empty(t, progression.SKBantu)
	assert.True(t, progression.Mula)
}

func TestIssueMulaScopedUserForbidden(t *testing.T) {
	repo := &progressionRepoStub{byMember: map[string]*models.Progression{}}
	members := memberReaderStub{members: map[string]*models.MemberDetail{
		"m-1": memberFixture("m-1", "inst-2", models.GenderMale),
	}}
	svc := newProgressionService(repo, &tierDocStub{sk: "x"}, members, time.Now())

	_, err := svc.IssueMula(context.Background(), dto.IssueTierRequest{MemberID: "m-1"}, userClaims("inst-1"))
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErr.Code)
}

func TestIssueBantuProgressionLookupFailure(t *testing.T) {
	repo := &progressionRepoStub{findErr: errors.New("connection reset")}
	members := memberReaderStub{members: map[string]*models.MemberDetail{
		"m-1": memberFixture("m-1", "inst-1", models.GenderMale),
	}}
	svc := newProgressionService(repo, &tierDocStub{sk: "x"}, members, time.Now())

	_, err := svc.IssueBantu(context.Background(), dto.IssueTierRequest{MemberID: "m-1"}, adminClaims())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInternal.Code, appErrors.FromError(err).Code)
}
