package service

import (
	"context"
	"database/sql"

	"github.com/noah-isme/pramuka-adm-api/internal/models"
)

type memberReaderStub struct {
	members map[string]*models.MemberDetail
	err     error
}

func (s memberReaderStub) FindByID(ctx context.Context, id string) (*models.MemberDetail, error) {
	if s.err != nil {
		return nil, s.err
	}
	if member, ok := s.members[id]; ok {
		return member, nil
	}
	return nil, sql.ErrNoRows
}

type institutionReaderStub struct {
	institutions map[string]*models.Institution
	err          error
}

func (s institutionReaderStub) FindByID(ctx context.Context, id string) (*models.Institution, error) {
	if s.err != nil {
		return nil, s.err
	}
	if institution, ok := s.institutions[id]; ok {
		return institution, nil
	}
	return nil, sql.ErrNoRows
}

type progressionReaderStub struct {
	progressions map[string]*models.Progression
	err          error
}

func (s progressionReaderStub) FindByMember(ctx context.Context, memberID string) (*models.Progression, error) {
	if s.err != nil {
		return nil, s.err
	}
	if progression, ok := s.progressions[memberID]; ok {
		return progression, nil
	}
	return nil, sql.ErrNoRows
}

type auditRecorderStub struct {
	logs []*models.AuditLog
	err  error
}

func (s *auditRecorderStub) Create(ctx context.Context, log *models.AuditLog) error {
	if s.err != nil {
		return s.err
	}
	s.logs = append(s.logs, log)
	return nil
}

type counterStub struct {
	values map[string]int64
	err    error
}

func (s *counterStub) Next(ctx context.Context, namespace string) (int64, error) {
	if s.err != nil {
		return 0, s.err
	}
	if s.values == nil {
		s.values = map[string]int64{}
	}
	s.values[namespace]++
	return s.values[namespace], nil
}

func adminClaims() *models.JWTClaims {
	return &models.JWTClaims{UserID: "admin-1", Role: models.RoleAdmin, Email: "admin@example.com"}
}

func superAdminClaims() *models.JWTClaims {
	return &models.JWTClaims{UserID: "super-1", Role: models.RoleSuperAdmin, Email: "super@example.com"}
}

func userClaims(institutionID string) *models.JWTClaims {
	return &models.JWTClaims{UserID: "user-1", Role: models.RoleUser, Email: "user@example.com", InstitutionID: institutionID}
}

func strPtr(v string) *string {
	return &v
}

func memberFixture(id, institutionID string, gender models.Gender) *models.MemberDetail {
	return &models.MemberDetail{Member: models.Member{
		ID:            id,
		Name:          "Member " + id,
		InstitutionID: &institutionID,
		Gender:        gender,
	}}
}

func institutionFixture(id string) *models.Institution {
	return &models.Institution{ID: id, Name: "Institution " + id, TroopMale: "12", TroopFemale: "13"}
}
