package service

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/pramuka-adm-api/internal/dto"
	"github.com/noah-isme/pramuka-adm-api/internal/models"
	appErrors "github.com/noah-isme/pramuka-adm-api/pkg/errors"
)

const institutionModule = "institution"

type institutionStore interface {
	List(ctx context.Context, scope models.AccessScope, filter models.InstitutionFilter) ([]models.InstitutionDetail, int, error)
	FindByID(ctx context.Context, id string) (*models.Institution, error)
	Create(ctx context.Context, institution *models.Institution) error
	Update(ctx context.Context, institution *models.Institution) error
	SoftDelete(ctx context.Context, id string) error
	HasActiveMembers(ctx context.Context, id string) (bool, error)
}

// InstitutionService orchestrates institution maintenance.
type InstitutionService struct {
	repo      institutionStore
	audit     auditLogger
	validator *validator.Validate
	logger    *zap.Logger
}

// NewInstitutionService builds an InstitutionService with sane defaults.
func NewInstitutionService(repo institutionStore, audit auditLogger, validate *validator.Validate, logger *zap.Logger) *InstitutionService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InstitutionService{repo: repo, audit: audit, validator: validate, logger: logger}
}

// List returns institutions visible to the caller.
func (s *InstitutionService) List(ctx context.Context, filter models.InstitutionFilter, claims *models.JWTClaims) ([]models.InstitutionDetail, int, error) {
	scope, err := ResolveScope(claims)
	if err != nil {
		return nil, 0, err
	}
	institutions, total, err := s.repo.List(ctx, scope, filter)
	if err != nil {
		return nil, 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list institutions")
	}
	return institutions, total, nil
}

// Get returns one institution within the caller's scope.
func (s *InstitutionService) Get(ctx context.Context, id string, claims *models.JWTClaims) (*models.Institution, error) {
	scope, err := ResolveScope(claims)
	if err != nil {
		return nil, err
	}
	if scope.Restricted() && id != scope.InstitutionID {
		return nil, appErrors.ErrForbidden
	}
	institution, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "institution not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load institution")
	}
	return institution, nil
}

// Create registers an institution.
func (s *InstitutionService) Create(ctx context.Context, req dto.CreateInstitutionRequest, claims *models.JWTClaims) (*models.Institution, error) {
	if claims == nil {
		return nil, appErrors.ErrUnauthorized
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid institution payload")
	}

	institution := &models.Institution{
		Name:             req.Name,
		SubDistrict:      req.SubDistrict,
		Address:          req.Address,
		TroopMale:        req.TroopMale,
		TroopFemale:      req.TroopFemale,
		TroopLeaderMale:  req.TroopLeaderMale,
		TroopLeaderFem:   req.TroopLeaderFem,
		LeaderNumberMale: req.LeaderNumberMale,
		LeaderNumberFem:  req.LeaderNumberFem,
		HeadmasterName:   req.HeadmasterName,
		HeadmasterNumber: req.HeadmasterNumber,
	}
	if err := s.repo.Create(ctx, institution); err != nil {
		if isUniqueViolation(err) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "institution name is already registered")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create institution")
	}

	recordAudit(ctx, s.audit, s.logger, claims, models.AuditActionCreate, institutionModule,
		fmt.Sprintf("registered institution %s", institution.Name))
	return institution, nil
}

// Update modifies an institution. Nil request fields keep their stored value.
func (s *InstitutionService) Update(ctx context.Context, id string, req dto.UpdateInstitutionRequest, claims *models.JWTClaims) (*models.Institution, error) {
	institution, err := s.Get(ctx, id, claims)
	if err != nil {
		return nil, err
	}

	applyString(&institution.Name, req.Name)
	applyString(&institution.SubDistrict, req.SubDistrict)
	applyString(&institution.Address, req.Address)
	applyString(&institution.TroopMale, req.TroopMale)
	applyString(&institution.TroopFemale, req.TroopFemale)
	applyString(&institution.TroopLeaderMale, req.TroopLeaderMale)
	applyString(&institution.TroopLeaderFem, req.TroopLeaderFem)
	applyString(&institution.LeaderNumberMale, req.LeaderNumberMale)
	applyString(&institution.LeaderNumberFem, req.LeaderNumberFem)
	applyString(&institution.HeadmasterName, req.HeadmasterName)
	applyString(&institution.HeadmasterNumber, req.HeadmasterNumber)

	if err := s.repo.Update(ctx, institution); err != nil {
		if isUniqueViolation(err) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "institution name is already registered")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update institution")
	}

	recordAudit(ctx, s.audit, s.logger, claims, models.AuditActionUpdate, institutionModule,
		fmt.Sprintf("updated institution %s", institution.Name))
	return institution, nil
}

// Delete soft-removes an institution. Institutions with active members
// cannot be removed.
func (s *InstitutionService) Delete(ctx context.Context, id string, claims *models.JWTClaims) error {
	institution, err := s.Get(ctx, id, claims)
	if err != nil {
		return err
	}
	hasMembers, err := s.repo.HasActiveMembers(ctx, institution.ID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check institution members")
	}
	if hasMembers {
		return appErrors.Clone(appErrors.ErrConflict, "institution still has active members")
	}
	if err := s.repo.SoftDelete(ctx, institution.ID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete institution")
	}
	recordAudit(ctx, s.audit, s.logger, claims, models.AuditActionDelete, institutionModule,
		fmt.Sprintf("deleted institution %s", institution.Name))
	return nil
}
