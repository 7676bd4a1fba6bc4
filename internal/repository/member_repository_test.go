package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/pramuka-adm-api/internal/models"
)

func newMemberMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestMemberRepositoryListScoped(t *testing.T) {
	db, mock, cleanup := newMemberMock(t)
	defer cleanup()
	repo := NewMemberRepository(db)

	instID := "inst-1"
	rows := sqlmock.NewRows([]string{"id", "name", "phone", "institution_id", "member_number", "gender", "created_at", "updated_at", "institution_name"}).
		AddRow("m-1", "Adi", "0812", instID, "001", "male", time.Now(), time.Now(), "SDN 1")
	mock.ExpectQuery("SELECT m.id, m.name, m.phone").
		WithArgs(instID).
		WillReturnRows(rows)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(m.id)")).
		WithArgs(instID).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	members, total, err := repo.List(context.Background(), models.ForInstitution(instID), models.MemberFilter{})
	require.NoError(t, err)
	assert.Len(t, members, 1)
	assert.Equal(t, 1, total)
	assert.Equal(t, "Adi", members[0].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMemberRepositoryListSearch(t *testing.T) {
	db, mock, cleanup := newMemberMock(t)
	defer cleanup()
	repo := NewMemberRepository(db)

	rows := sqlmock.NewRows([]string{"id", "name", "phone", "gender", "created_at", "updated_at"}).
		AddRow("m-1", "Budi", "0813", "male", time.Now(), time.Now())
	mock.ExpectQuery("SELECT m.id, m.name, m.phone").
		WithArgs("%budi%").
		WillReturnRows(rows)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(m.id)")).
		WithArgs("%budi%").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	members, total, err := repo.List(context.Background(), models.Unscoped(), models.MemberFilter{Search: "Budi"})
	require.NoError(t, err)
	assert.Len(t, members, 1)
	assert.Equal(t, 1, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMemberRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newMemberMock(t)
	defer cleanup()
	repo := NewMemberRepository(db)

	mock.ExpectExec("INSERT INTO members").
		WillReturnResult(sqlmock.NewResult(1, 1))

	instID := "inst-1"
	member := &models.Member{Name: "Adi", InstitutionID: &instID, Gender: models.GenderMale}
	err := repo.Create(context.Background(), member)
	require.NoError(t, err)
	assert.NotEmpty(t, member.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMemberRepositorySoftDelete(t *testing.T) {
	db, mock, cleanup := newMemberMock(t)
	defer cleanup()
	repo := NewMemberRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE members SET deleted = true")).
		WithArgs("m-1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.SoftDelete(context.Background(), "m-1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
