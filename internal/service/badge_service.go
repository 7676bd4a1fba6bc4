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

const badgeModule = "badge"

type badgeStore interface {
	List(ctx context.Context, scope models.AccessScope, filter models.BadgeFilter) ([]models.BadgeAwardDetail, int, error)
	FindByID(ctx context.Context, id string) (*models.BadgeAward, error)
	Create(ctx context.Context, award *models.BadgeAward) error
	Revoke(ctx context.Context, id string) error
}

type badgeTypeReader interface {
	FindByID(ctx context.Context, id string) (*models.BadgeType, error)
}

type badgeDocIssuer interface {
	IssueBadge(ctx context.Context, troop string) (string, error)
}

// BadgeService orchestrates proficiency badge awards and revocations. Award
// dates come from the service clock, never from the caller.
type BadgeService struct {
	repo         badgeStore
	types        badgeTypeReader
	members      memberReader
	institutions institutionReader
	progressions garudaProgressionReader
	docs         badgeDocIssuer
	audit        auditLogger
	validator    *validator.Validate
	logger       *zap.Logger
	now          func() time.Time
}

// NewBadgeService builds a BadgeService with sane defaults.
func NewBadgeService(
	repo badgeStore,
	types badgeTypeReader,
	members memberReader,
	institutions institutionReader,
	progressions garudaProgressionReader,
	docs badgeDocIssuer,
	audit auditLogger,
	validate *validator.Validate,
	logger *zap.Logger,
) *BadgeService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BadgeService{
		repo:         repo,
		types:        types,
		members:      members,
		institutions: institutions,
		progressions: progressions,
		docs:         docs,
		audit:        audit,
		validator:    validate,
		logger:       logger,
		now:          time.Now,
	}
}

// Award grants a proficiency badge. The member must hold both the Mula and
// Bantu milestones before any badge can be awarded. Members routinely earn
// the same badge type more than once; each pass gets its own decree.
func (s *BadgeService) Award(ctx context.Context, req dto.AwardBadgeRequest, claims *models.JWTClaims) (*models.BadgeAward, error) {
	if claims == nil {
		return nil, appErrors.ErrUnauthorized
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid badge payload")
	}
	date := dateOnly(s.now())

	member, err := s.loadScopedMember(ctx, req.MemberID, claims)
	if err != nil {
		return nil, err
	}
	if member.InstitutionID == nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "member is not attached to an institution")
	}

	badgeType, err := s.types.FindByID(ctx, req.BadgeTypeID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "badge type not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load badge type")
	}

	progression, err := s.progressions.FindByMember(ctx, member.ID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrValidation, "member must hold the mula and bantu milestones")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load progression")
	}
	if !progression.Mula || !progression.Bantu {
		return nil, appErrors.Clone(appErrors.ErrValidation, "member must hold the mula and bantu milestones")
	}

	institution, err := s.institutions.FindByID(ctx, *member.InstitutionID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "institution not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load institution")
	}

	sk, err := s.docs.IssueBadge(ctx, institution.TroopNumber(member.Gender))
	if err != nil {
		return nil, err
	}

	award := &models.BadgeAward{
		MemberID:         member.ID,
		BadgeTypeID:      badgeType.ID,
		SK:               sk,
		Date:             &date,
		ExaminerName:     req.ExaminerName,
		ExaminerPosition: req.ExaminerPosition,
		ExaminerAddress:  req.ExaminerAddress,
	}
	if err := s.repo.Create(ctx, award); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create badge award")
	}

	recordAudit(ctx, s.audit, s.logger, claims, models.AuditActionDocumentIssued, badgeModule,
		fmt.Sprintf("issued badge decree %s (%s) for member %s", sk, badgeType.Name, member.Name))
	return award, nil
}

// Revoke clears the decree number and date of an award. The row stays so
// previously issued numbers remain traceable.
func (s *BadgeService) Revoke(ctx context.Context, id string, claims *models.JWTClaims) error {
	if claims == nil {
		return appErrors.ErrUnauthorized
	}
	if id == "" {
		return appErrors.Clone(appErrors.ErrValidation, "award id is required")
	}

	award, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return appErrors.Clone(appErrors.ErrNotFound, "badge award not found")
	}
	if award.SK == "" {
		return appErrors.Clone(appErrors.ErrConflict, "badge award is already revoked")
	}
	if _, err := s.loadScopedMember(ctx, award.MemberID, claims); err != nil {
		return err
	}

	if err := s.repo.Revoke(ctx, award.ID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to revoke badge award")
	}

	recordAudit(ctx, s.audit, s.logger, claims, models.AuditActionDelete, badgeModule,
		fmt.Sprintf("revoked badge award %s", award.ID))
	return nil
}

// List returns badge awards visible to the caller.
func (s *BadgeService) List(ctx context.Context, filter models.BadgeFilter, claims *models.JWTClaims) ([]models.BadgeAwardDetail, int, error) {
	scope, err := ResolveScope(claims)
	if err != nil {
		return nil, 0, err
	}
	awards, total, err := s.repo.List(ctx, scope, filter)
	if err != nil {
		return nil, 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list badge awards")
	}
	return awards, total, nil
}

func (s *BadgeService) loadScopedMember(ctx context.Context, memberID string, claims *models.JWTClaims) (*models.MemberDetail, error) {
	scope, err := ResolveScope(claims)
	if err != nil {
		return nil, err
	}
	member, err := s.members.FindByID(ctx, memberID)
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
