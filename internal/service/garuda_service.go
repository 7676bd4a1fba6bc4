package service

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/pramuka-adm-api/internal/dto"
	"github.com/noah-isme/pramuka-adm-api/internal/models"
	appErrors "github.com/noah-isme/pramuka-adm-api/pkg/errors"
)

const garudaModule = "garuda"

type garudaStore interface {
	List(ctx context.Context, scope models.AccessScope, filter models.GarudaFilter) ([]models.GarudaDetail, int, error)
	FindByID(ctx context.Context, id string) (*models.Garuda, error)
	ExistsForMember(ctx context.Context, memberID string) (bool, error)
	Create(ctx context.Context, award *models.Garuda) error
	Approve(ctx context.Context, id, approverID string) error
	SoftDelete(ctx context.Context, id string) error
	Summary(ctx context.Context, scope models.AccessScope) (*models.GarudaSummary, error)
}

type garudaProgressionReader interface {
	FindByMember(ctx context.Context, memberID string) (*models.Progression, error)
}

type sectorCounter interface {
	CountBySector(ctx context.Context, memberID string) ([]models.SectorCount, error)
}

// GarudaService orchestrates the top-honor award workflow: eligibility
// check, pending request, single approval and guarded deletion.
type GarudaService struct {
	repo         garudaStore
	members      memberReader
	progressions garudaProgressionReader
	badges       sectorCounter
	audit        auditLogger
	validator    *validator.Validate
	logger       *zap.Logger
}

// NewGarudaService builds a GarudaService with sane defaults.
func NewGarudaService(
	repo garudaStore,
	members memberReader,
	progressions garudaProgressionReader,
	badges sectorCounter,
	audit auditLogger,
	validate *validator.Validate,
	logger *zap.Logger,
) *GarudaService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GarudaService{
		repo:         repo,
		members:      members,
		progressions: progressions,
		badges:       badges,
		audit:        audit,
		validator:    validate,
		logger:       logger,
	}
}

// Request opens a pending award. The member must hold the Tata milestone and
// at least four badges in every sector they hold badges in, with at least
// one sector. A member can only ever have one award row; a previously
// deleted request still blocks a new one.
func (s *GarudaService) Request(ctx context.Context, req dto.RequestGarudaRequest, claims *models.JWTClaims) (*models.Garuda, error) {
	if claims == nil {
		return nil, appErrors.ErrUnauthorized
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid garuda payload")
	}

	member, err := s.loadScopedMember(ctx, req.MemberID, claims)
	if err != nil {
		return nil, err
	}

	progression, err := s.progressions.FindByMember(ctx, member.ID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrValidation, "member has not completed the tata milestone")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load progression")
	}
	if !progression.Tata {
		return nil, appErrors.Clone(appErrors.ErrValidation, "member has not completed the tata milestone")
	}

	counts, err := s.badges.CountBySector(ctx, member.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count badges")
	}
	if len(counts) == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "member holds no proficiency badges")
	}
	total := 0
	for _, c := range counts {
		if c.Count < models.MinBadgesPerSector {
			return nil, appErrors.Clone(appErrors.ErrValidation,
				fmt.Sprintf("sector %s has %d badges, at least %d are required", c.Sector, c.Count, models.MinBadgesPerSector))
		}
		total += c.Count
	}

	exists, err := s.repo.ExistsForMember(ctx, member.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check existing award")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "member already has a garuda award record")
	}

	// The printed certificate carries the tier label in capitals.
	award := &models.Garuda{
		MemberID:    member.ID,
		TierLabel:   strings.ToUpper(string(progression.HighestTier())),
		TotalBadges: total,
		Status:      models.GarudaStatusPending,
	}
	if err := s.repo.Create(ctx, award); err != nil {
		if isUniqueViolation(err) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "member already has a garuda award record")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create garuda award")
	}

	recordAudit(ctx, s.audit, s.logger, claims, models.AuditActionCreate, garudaModule,
		fmt.Sprintf("requested garuda award for member %s", member.Name))
	return award, nil
}

// Approve marks a pending award approved. Only super admins may approve, and
// approval is final.
func (s *GarudaService) Approve(ctx context.Context, id string, claims *models.JWTClaims) (*models.Garuda, error) {
	if claims == nil {
		return nil, appErrors.ErrUnauthorized
	}
	if claims.Role != models.RoleSuperAdmin {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only super admins can approve garuda awards")
	}

	award, err := s.loadAward(ctx, id)
	if err != nil {
		return nil, err
	}
	if award.Status == models.GarudaStatusApproved {
		return nil, appErrors.Clone(appErrors.ErrConflict, "award is already approved")
	}

	if err := s.repo.Approve(ctx, award.ID, claims.UserID); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to approve garuda award")
	}
	award.Status = models.GarudaStatusApproved
	award.ApprovedBy = &claims.UserID

	recordAudit(ctx, s.audit, s.logger, claims, models.AuditActionApprove, garudaModule,
		fmt.Sprintf("approved garuda award %s", award.ID))
	return award, nil
}

// Delete soft-removes a pending award. Approved awards are permanent and
// cannot be deleted.
func (s *GarudaService) Delete(ctx context.Context, id string, claims *models.JWTClaims) error {
	if claims == nil {
		return appErrors.ErrUnauthorized
	}

	award, err := s.loadAward(ctx, id)
	if err != nil {
		return err
	}
	if award.Status == models.GarudaStatusApproved {
		return appErrors.Clone(appErrors.ErrConflict, "cannot delete approved award")
	}

	if err := s.repo.SoftDelete(ctx, award.ID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete garuda award")
	}

	recordAudit(ctx, s.audit, s.logger, claims, models.AuditActionDelete, garudaModule,
		fmt.Sprintf("deleted garuda award %s", award.ID))
	return nil
}

// List returns awards visible to the caller.
func (s *GarudaService) List(ctx context.Context, filter models.GarudaFilter, claims *models.JWTClaims) ([]models.GarudaDetail, int, error) {
	scope, err := ResolveScope(claims)
	if err != nil {
		return nil, 0, err
	}
	awards, total, err := s.repo.List(ctx, scope, filter)
	if err != nil {
		return nil, 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list garuda awards")
	}
	return awards, total, nil
}

// Summary aggregates award counts for the caller's scope.
func (s *GarudaService) Summary(ctx context.Context, claims *models.JWTClaims) (*models.GarudaSummary, error) {
	scope, err := ResolveScope(claims)
	if err != nil {
		return nil, err
	}
	summary, err := s.repo.Summary(ctx, scope)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to build garuda summary")
	}
	return summary, nil
}

func (s *GarudaService) loadScopedMember(ctx context.Context, memberID string, claims *models.JWTClaims) (*models.MemberDetail, error) {
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

func (s *GarudaService) loadAward(ctx context.Context, id string) (*models.Garuda, error) {
	if id == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "award id is required")
	}
	award, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "garuda award not found")
	}
	return award, nil
}
