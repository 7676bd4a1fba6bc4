package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/pramuka-adm-api/internal/models"
)

func newProgressionMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestProgressionRepositoryFindByMember(t *testing.T) {
	db, mock, cleanup := newProgressionMock(t)
	defer cleanup()
	repo := NewProgressionRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "member_id", "mula", "bantu", "tata", "sk_mula", "sk_bantu", "sk_tata", "created_at", "updated_at"}).
		AddRow("p-1", "m-1", true, false, false, "00001/TKU-BANTU/12-A/2026", "", "", now, now)
	mock.ExpectQuery("SELECT id, member_id, mula, bantu, tata").
		WithArgs("m-1").
		WillReturnRows(rows)

	progression, err := repo.FindByMember(context.Background(), "m-1")
	require.NoError(t, err)
	assert.True(t, progression.Mula)
	assert.False(t, progression.Bantu)
	assert.Equal(t, models.TierMula, progression.HighestTier())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProgressionRepositoryFindByMemberMissing(t *testing.T) {
	db, mock, cleanup := newProgressionMock(t)
	defer cleanup()
	repo := NewProgressionRepository(db)

	mock.ExpectQuery("SELECT id, member_id, mula, bantu, tata").
		WithArgs("m-2").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByMember(context.Background(), "m-2")
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProgressionRepositoryListByTier(t *testing.T) {
	db, mock, cleanup := newProgressionMock(t)
	defer cleanup()
	repo := NewProgressionRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "member_id", "mula", "bantu", "tata", "created_at", "updated_at", "member_name", "institution_name"}).
		AddRow("p-1", "m-1", true, true, false, now, now, "Adi", "SDN 1")
	mock.ExpectQuery("SELECT p.id, p.member_id, p.mula").
		WillReturnRows(rows)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(p.id)")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	list, total, err := repo.List(context.Background(), models.Unscoped(), models.ProgressionFilter{Tier: models.TierBantu})
	require.NoError(t, err)
	assert.Len(t, list, 1)
	assert.Equal(t, 1, total)
	assert.Equal(t, "Adi", list[0].MemberName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProgressionRepositorySummary(t *testing.T) {
	db, mock, cleanup := newProgressionMock(t)
	defer cleanup()
	repo := NewProgressionRepository(db)

	rows := sqlmock.NewRows([]string{"total_mula", "total_bantu", "total_tata", "total_members"}).
		AddRow(10, 6, 2, 15)
	mock.ExpectQuery("SELECT").WillReturnRows(rows)

	summary, err := repo.Summary(context.Background(), models.Unscoped())
	require.NoError(t, err)
	assert.Equal(t, 10, summary.TotalMula)
	assert.Equal(t, 2, summary.Completed)
	assert.Equal(t, 8, summary.InProgress)
	assert.Equal(t, 5, summary.NotStarted)
	assert.NoError(t, mock.ExpectationsWereMet())
}
