package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/pramuka-adm-api/internal/models"
)

func fixedClock() func() time.Time {
	return func() time.Time {
		return time.Date(2026, time.March, 14, 10, 0, 0, 0, time.UTC)
	}
}

func TestDocNumberIssuerFormat(t *testing.T) {
	counters := &counterStub{}
	issuer := NewDocNumberIssuer(counters, nil, nil)
	issuer.now = fixedClock()

	sk, err := issuer.IssueTier(context.Background(), models.TierMula, "12")
	require.NoError(t, err)
	assert.Equal(t, "00001/TKU-BANTU/12-A/2026", sk)

	sk, err = issuer.IssueTier(context.Background(), models.TierMula, "12")
	require.NoError(t, err)
	assert.Equal(t, "00002/TKU-BANTU/12-A/2026", sk)
}

func TestDocNumberIssuerTagsPerTier(t *testing.T) {
	counters := &counterStub{}
	issuer := NewDocNumberIssuer(counters, nil, nil)
	issuer.now = fixedClock()

	bantu, err := issuer.IssueTier(context.Background(), models.TierBantu, "13")
	require.NoError(t, err)
	assert.Equal(t, "00001/TKU-BANTU/13-A/2026", bantu)

	tata, err := issuer.IssueTier(context.Background(), models.TierTata, "13")
	require.NoError(t, err)
	assert.Equal(t, "00001/TKU-TATA/13-A/2026", tata)

	badge, err := issuer.IssueBadge(context.Background(), "13")
	require.NoError(t, err)
	assert.Equal(t, "00001/TKK-SIAGA/13-A/2026", badge)
}

func TestDocNumberIssuerIndependentSequences(t *testing.T) {
	counters := &counterStub{}
	issuer := NewDocNumberIssuer(counters, nil, nil)
	issuer.now = fixedClock()

	_, err := issuer.IssueTier(context.Background(), models.TierMula, "12")
	require.NoError(t, err)
	_, err = issuer.IssueTier(context.Background(), models.TierMula, "12")
	require.NoError(t, err)

	// The bantu family still starts at 1 even though mula is at 2.
	bantu, err := issuer.IssueTier(context.Background(), models.TierBantu, "12")
	require.NoError(t, err)
	assert.Equal(t, "00001/TKU-BANTU/12-A/2026", bantu)
}

func TestDocNumberIssuerOverflowFails(t *testing.T) {
	counters := &counterStub{values: map[string]int64{"tku_tata": maxDocSequence}}
	issuer := NewDocNumberIssuer(counters, nil, nil)
	issuer.now = fixedClock()

	_, err := issuer.IssueTier(context.Background(), models.TierTata, "12")
	require.Error(t, err)
}

func TestDocNumberIssuerUnknownTier(t *testing.T) {
	issuer := NewDocNumberIssuer(&counterStub{}, nil, nil)
	_, err := issuer.IssueTier(context.Background(), models.Tier("siaga"), "12")
	require.Error(t, err)
}
