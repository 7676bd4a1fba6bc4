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

const badgeTypeModule = "badge_type"

type badgeTypeStore interface {
	List(ctx context.Context, filter models.BadgeFilter) ([]models.BadgeType, int, error)
	FindByID(ctx context.Context, id string) (*models.BadgeType, error)
	Create(ctx context.Context, badgeType *models.BadgeType) error
	Update(ctx context.Context, badgeType *models.BadgeType) error
	SoftDelete(ctx context.Context, id string) error
	HasAwards(ctx context.Context, id string) (bool, error)
}

// BadgeTypeService maintains the proficiency badge catalog.
type BadgeTypeService struct {
	repo      badgeTypeStore
	audit     auditLogger
	validator *validator.Validate
	logger    *zap.Logger
}

// NewBadgeTypeService builds a BadgeTypeService with sane defaults.
func NewBadgeTypeService(repo badgeTypeStore, audit auditLogger, validate *validator.Validate, logger *zap.Logger) *BadgeTypeService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BadgeTypeService{repo: repo, audit: audit, validator: validate, logger: logger}
}

// List returns catalog entries. The catalog is shared across institutions.
func (s *BadgeTypeService) List(ctx context.Context, filter models.BadgeFilter, claims *models.JWTClaims) ([]models.BadgeType, int, error) {
	if claims == nil {
		return nil, 0, appErrors.ErrUnauthorized
	}
	types, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list badge types")
	}
	return types, total, nil
}

// Get returns one catalog entry.
func (s *BadgeTypeService) Get(ctx context.Context, id string, claims *models.JWTClaims) (*models.BadgeType, error) {
	if claims == nil {
		return nil, appErrors.ErrUnauthorized
	}
	badgeType, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "badge type not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load badge type")
	}
	return badgeType, nil
}

// Create adds a catalog entry.
func (s *BadgeTypeService) Create(ctx context.Context, req dto.CreateBadgeTypeRequest, claims *models.JWTClaims) (*models.BadgeType, error) {
	if claims == nil {
		return nil, appErrors.ErrUnauthorized
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid badge type payload")
	}
	badgeType := &models.BadgeType{Name: req.Name, Sector: req.Sector, Color: req.Color}
	if err := s.repo.Create(ctx, badgeType); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create badge type")
	}
	recordAudit(ctx, s.audit, s.logger, claims, models.AuditActionCreate, badgeTypeModule,
		fmt.Sprintf("added badge type %s", badgeType.Name))
	return badgeType, nil
}

// Update modifies a catalog entry. Nil request fields keep their stored
// value.
func (s *BadgeTypeService) Update(ctx context.Context, id string, req dto.UpdateBadgeTypeRequest, claims *models.JWTClaims) (*models.BadgeType, error) {
	badgeType, err := s.Get(ctx, id, claims)
	if err != nil {
		return nil, err
	}
	applyString(&badgeType.Name, req.Name)
	applyString(&badgeType.Sector, req.Sector)
	applyString(&badgeType.Color, req.Color)
	if err := s.repo.Update(ctx, badgeType); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update badge type")
	}
	recordAudit(ctx, s.audit, s.logger, claims, models.AuditActionUpdate, badgeTypeModule,
		fmt.Sprintf("updated badge type %s", badgeType.Name))
	return badgeType, nil
}

// Delete soft-removes a catalog entry that has no active awards.
func (s *BadgeTypeService) Delete(ctx context.Context, id string, claims *models.JWTClaims) error {
	badgeType, err := s.Get(ctx, id, claims)
	if err != nil {
		return err
	}
	hasAwards, err := s.repo.HasAwards(ctx, badgeType.ID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check badge type awards")
	}
	if hasAwards {
		return appErrors.Clone(appErrors.ErrConflict, "badge type still has active awards")
	}
	if err := s.repo.SoftDelete(ctx, badgeType.ID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete badge type")
	}
	recordAudit(ctx, s.audit, s.logger, claims, models.AuditActionDelete, badgeTypeModule,
		fmt.Sprintf("removed badge type %s", badgeType.Name))
	return nil
}
