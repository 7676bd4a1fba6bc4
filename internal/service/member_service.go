package service

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/pramuka-adm-api/internal/dto"
	"github.com/noah-isme/pramuka-adm-api/internal/models"
	appErrors "github.com/noah-isme/pramuka-adm-api/pkg/errors"
)

const memberModule = "member"

type memberStore interface {
	List(ctx context.Context, scope models.AccessScope, filter models.MemberFilter) ([]models.MemberDetail, int, error)
	FindByID(ctx context.Context, id string) (*models.MemberDetail, error)
	Create(ctx context.Context, member *models.Member) error
	Update(ctx context.Context, member *models.Member) error
	SoftDelete(ctx context.Context, id string) error
}

// MemberService orchestrates member registration and maintenance.
type MemberService struct {
	repo         memberStore
	institutions institutionReader
	audit        auditLogger
	validator    *validator.Validate
	logger       *zap.Logger
}

// NewMemberService builds a MemberService with sane defaults.
func NewMemberService(
	repo memberStore,
	institutions institutionReader,
	audit auditLogger,
	validate *validator.Validate,
	logger *zap.Logger,
) *MemberService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MemberService{
		repo:         repo,
		institutions: institutions,
		audit:        audit,
		validator:    validate,
		logger:       logger,
	}
}

// List returns members visible to the caller.
func (s *MemberService) List(ctx context.Context, filter models.MemberFilter, claims *models.JWTClaims) ([]models.MemberDetail, int, error) {
	scope, err := ResolveScope(claims)
	if err != nil {
		return nil, 0, err
	}
	members, total, err := s.repo.List(ctx, scope, filter)
	if err != nil {
		return nil, 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list members")
	}
	return members, total, nil
}

// Get returns one member within the caller's scope.
func (s *MemberService) Get(ctx context.Context, id string, claims *models.JWTClaims) (*models.MemberDetail, error) {
	scope, err := ResolveScope(claims)
	if err != nil {
		return nil, err
	}
	member, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "member not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load member")
	}
	if scope.Restricted() {
		if member.InstitutionID == nil || *member.InstitutionID != scope.InstitutionID {
			return nil, appErrors.ErrForbidden
		}
	}
	return member, nil
}

// Create registers a member. Regular users can only register members into
// their own institution.
func (s *MemberService) Create(ctx context.Context, req dto.CreateMemberRequest, claims *models.JWTClaims) (*models.Member, error) {
	scope, err := ResolveScope(claims)
	if err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid member payload")
	}
	if scope.Restricted() && req.InstitutionID != scope.InstitutionID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "cannot register members into another institution")
	}
	if _, err := s.institutions.FindByID(ctx, req.InstitutionID); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "institution not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load institution")
	}

	member := &models.Member{
		Name:          req.Name,
		Phone:         req.Phone,
		InstitutionID: &req.InstitutionID,
		MemberNumber:  req.MemberNumber,
		ParentNumber:  req.ParentNumber,
		Gender:        models.Gender(req.Gender),
		BirthPlace:    req.BirthPlace,
		Village:       req.Village,
		SubDistrict:   req.SubDistrict,
		District:      req.District,
		Province:      req.Province,
		ParentName:    req.ParentName,
		ParentPhone:   req.ParentPhone,
	}
	if req.BirthDate != "" {
		birthDate, err := time.Parse("2006-01-02", req.BirthDate)
		if err != nil {
			return nil, appErrors.Clone(appErrors.ErrValidation, "birth_date must be formatted as YYYY-MM-DD")
		}
		member.BirthDate = &birthDate
	}
	if req.EntryDate != "" {
		entryDate, err := time.Parse("2006-01-02", req.EntryDate)
		if err != nil {
			return nil, appErrors.Clone(appErrors.ErrValidation, "entry_date must be formatted as YYYY-MM-DD")
		}
		member.EntryDate = &entryDate
	}

	if err := s.repo.Create(ctx, member); err != nil {
		if isUniqueViolation(err) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "a member with the same name or phone already exists")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create member")
	}

	recordAudit(ctx, s.audit, s.logger, claims, models.AuditActionCreate, memberModule,
		fmt.Sprintf("registered member %s", member.Name))
	return member, nil
}

// Update modifies a member. Nil request fields keep their stored value.
func (s *MemberService) Update(ctx context.Context, id string, req dto.UpdateMemberRequest, claims *models.JWTClaims) (*models.Member, error) {
	existing, err := s.Get(ctx, id, claims)
	if err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid member payload")
	}

	member := existing.Member
	applyString(&member.Name, req.Name)
	applyString(&member.Phone, req.Phone)
	applyString(&member.MemberNumber, req.MemberNumber)
	applyString(&member.ParentNumber, req.ParentNumber)
	applyString(&member.BirthPlace, req.BirthPlace)
	applyString(&member.Village, req.Village)
	applyString(&member.SubDistrict, req.SubDistrict)
	applyString(&member.District, req.District)
	applyString(&member.Province, req.Province)
	applyString(&member.ParentName, req.ParentName)
	applyString(&member.ParentPhone, req.ParentPhone)
	if req.Gender != nil {
		member.Gender = models.Gender(*req.Gender)
	}
	if req.InstitutionID != nil {
		scope, err := ResolveScope(claims)
		if err != nil {
			return nil, err
		}
		if scope.Restricted() && *req.InstitutionID != scope.InstitutionID {
			return nil, appErrors.Clone(appErrors.ErrForbidden, "cannot move members into another institution")
		}
		if _, err := s.institutions.FindByID(ctx, *req.InstitutionID); err != nil {
			if err == sql.ErrNoRows {
				return nil, appErrors.Clone(appErrors.ErrNotFound, "institution not found")
			}
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load institution")
		}
		member.InstitutionID = req.InstitutionID
	}
	if req.BirthDate != nil {
		birthDate, err := time.Parse("2006-01-02", *req.BirthDate)
		if err != nil {
			return nil, appErrors.Clone(appErrors.ErrValidation, "birth_date must be formatted as YYYY-MM-DD")
		}
		member.BirthDate = &birthDate
	}
	if req.EntryDate != nil {
		entryDate, err := time.Parse("2006-01-02", *req.EntryDate)
		if err != nil {
			return nil, appErrors.Clone(appErrors.ErrValidation, "entry_date must be formatted as YYYY-MM-DD")
		}
		member.EntryDate = &entryDate
	}

	if err := s.repo.Update(ctx, &member); err != nil {
		if isUniqueViolation(err) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "a member with the same name or phone already exists")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update member")
	}

	recordAudit(ctx, s.audit, s.logger, claims, models.AuditActionUpdate, memberModule,
		fmt.Sprintf("updated member %s", member.Name))
	return &member, nil
}

// Delete soft-removes a member. Award rows referencing the member survive.
func (s *MemberService) Delete(ctx context.Context, id string, claims *models.JWTClaims) error {
	member, err := s.Get(ctx, id, claims)
	if err != nil {
		return err
	}
	if err := s.repo.SoftDelete(ctx, member.ID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete member")
	}
	recordAudit(ctx, s.audit, s.logger, claims, models.AuditActionDelete, memberModule,
		fmt.Sprintf("deleted member %s", member.Name))
	return nil
}

func applyString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}
