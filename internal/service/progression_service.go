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

const progressionModule = "progression"

// minBantuGapDays is the minimum number of days between the Mula award date
// and a Bantu issuance. Day 99 fails, day 100 passes.
const minBantuGapDays = 100

type progressionStore interface {
	List(ctx context.Context, scope models.AccessScope, filter models.ProgressionFilter) ([]models.ProgressionDetail, int, error)
	FindByMember(ctx context.Context, memberID string) (*models.Progression, error)
	Create(ctx context.Context, progression *models.Progression) error
	Update(ctx context.Context, progression *models.Progression) error
	Summary(ctx context.Context, scope models.AccessScope) (*models.ProgressionSummary, error)
}

type memberReader interface {
	FindByID(ctx context.Context, id string) (*models.MemberDetail, error)
}

type institutionReader interface {
	FindByID(ctx context.Context, id string) (*models.Institution, error)
}

type tierDocIssuer interface {
	IssueTier(ctx context.Context, tier models.Tier, troop string) (string, error)
}

// ProgressionService orchestrates rank milestone issuance and reversal.
// Award dates are taken from the service clock, never from the caller.
type ProgressionService struct {
	repo         progressionStore
	members      memberReader
	institutions institutionReader
	docs         tierDocIssuer
	audit        auditLogger
	validator    *validator.Validate
	logger       *zap.Logger
	now          func() time.Time
}

// NewProgressionService builds a ProgressionService with sane defaults.
func NewProgressionService(
	repo progressionStore,
	members memberReader,
	institutions institutionReader,
	docs tierDocIssuer,
	audit auditLogger,
	validate *validator.Validate,
	logger *zap.Logger,
) *ProgressionService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProgressionService{
		repo:         repo,
		members:      members,
		institutions: institutions,
		docs:         docs,
		audit:        audit,
		validator:    validate,
		logger:       logger,
		now:          time.Now,
	}
}

// IssueMula awards the first milestone and creates the member's progression
// row as a side effect.
func (s *ProgressionService) IssueMula(ctx context.Context, req dto.IssueTierRequest, claims *models.JWTClaims) (*models.Progression, error) {
	member, troop, err := s.prepareIssuance(ctx, req, claims)
	if err != nil {
		return nil, err
	}
	date := dateOnly(s.now())

	progression, err := s.repo.FindByMember(ctx, member.ID)
	if err != nil && err != sql.ErrNoRows {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load progression")
	}
	if progression != nil && progression.Mula {
		return nil, appErrors.Clone(appErrors.ErrConflict, "mula milestone already awarded")
	}

	sk, err := s.docs.IssueTier(ctx, models.TierMula, troop)
	if err != nil {
		return nil, err
	}

	if progression == nil {
		progression = &models.Progression{MemberID: member.ID}
		progression.Mula = true
		progression.SKMula = sk
		progression.DateMula = &date
		if err := s.repo.Create(ctx, progression); err != nil {
			if isUniqueViolation(err) {
				return nil, appErrors.Clone(appErrors.ErrConflict, "mula milestone already awarded")
			}
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create progression")
		}
	} else {
		progression.Mula = true
		progression.SKMula = sk
		progression.DateMula = &date
		if err := s.repo.Update(ctx, progression); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update progression")
		}
	}

	recordAudit(ctx, s.audit, s.logger, claims, models.AuditActionDocumentIssued, progressionModule,
		fmt.Sprintf("issued mula decree %s for member %s", sk, member.Name))
	return progression, nil
}

// IssueBantu awards the second milestone. It requires a completed Mula and
// at least 100 days elapsed since the Mula award date.
func (s *ProgressionService) IssueBantu(ctx context.Context, req dto.IssueTierRequest, claims *models.JWTClaims) (*models.Progression, error) {
	member, troop, err := s.prepareIssuance(ctx, req, claims)
	if err != nil {
		return nil, err
	}
	date := dateOnly(s.now())

	progression, err := s.loadProgression(ctx, member.ID)
	if err != nil {
		return nil, err
	}
	if !progression.Mula {
		return nil, appErrors.Clone(appErrors.ErrConflict, "mula milestone must be completed first")
	}
	if progression.Bantu {
		return nil, appErrors.Clone(appErrors.ErrConflict, "bantu milestone already awarded")
	}
	if progression.DateMula == nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "mula award date is missing")
	}
	if days := daysBetween(*progression.DateMula, date); days < minBantuGapDays {
		return nil, appErrors.Clone(appErrors.ErrValidation,
			fmt.Sprintf("bantu requires %d days after mula, only %d have passed", minBantuGapDays, days))
	}

	sk, err := s.docs.IssueTier(ctx, models.TierBantu, troop)
	if err != nil {
		return nil, err
	}

	progression.Bantu = true
	progression.SKBantu = sk
	progression.DateBantu = &date
	if err := s.repo.Update(ctx, progression); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update progression")
	}

	recordAudit(ctx, s.audit, s.logger, claims, models.AuditActionDocumentIssued, progressionModule,
		fmt.Sprintf("issued bantu decree %s for member %s", sk, member.Name))
	return progression, nil
}

// IssueTata awards the final milestone. It requires a completed Bantu; there
// is no waiting period for Tata.
func (s *ProgressionService) IssueTata(ctx context.Context, req dto.IssueTierRequest, claims *models.JWTClaims) (*models.Progression, error) {
	member, troop, err := s.prepareIssuance(ctx, req, claims)
	if err != nil {
		return nil, err
	}
	date := dateOnly(s.now())

	progression, err := s.loadProgression(ctx, member.ID)
	if err != nil {
		return nil, err
	}
	if !progression.Bantu {
		return nil, appErrors.Clone(appErrors.ErrConflict, "bantu milestone must be completed first")
	}
	if progression.Tata {
		return nil, appErrors.Clone(appErrors.ErrConflict, "tata milestone already awarded")
	}

	sk, err := s.docs.IssueTier(ctx, models.TierTata, troop)
	if err != nil {
		return nil, err
	}

	progression.Tata = true
	progression.SKTata = sk
	progression.DateTata = &date
	if err := s.repo.Update(ctx, progression); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update progression")
	}

	recordAudit(ctx, s.audit, s.logger, claims, models.AuditActionDocumentIssued, progressionModule,
		fmt.Sprintf("issued tata decree %s for member %s", sk, member.Name))
	return progression, nil
}

// Revert walks back one milestone. Only the highest completed tier can be
// reverted, so the flags never end up with gaps.
func (s *ProgressionService) Revert(ctx context.Context, req dto.RevertTierRequest, claims *models.JWTClaims) (*models.Progression, error) {
	if claims == nil {
		return nil, appErrors.ErrUnauthorized
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid revert payload")
	}
	tier := models.Tier(req.Tier)
	if !tier.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown tier")
	}

	member, err := s.loadMember(ctx, req.MemberID, claims)
	if err != nil {
		return nil, err
	}

	progression, err := s.loadProgression(ctx, member.ID)
	if err != nil {
		return nil, err
	}
	if !progression.TierSet(tier) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "milestone is not awarded")
	}
	if progression.HighestTier() != tier {
		return nil, appErrors.Clone(appErrors.ErrConflict, "only the highest milestone can be reverted")
	}

	switch tier {
	case models.TierMula:
		progression.Mula = false
		progression.SKMula = ""
		progression.DateMula = nil
	case models.TierBantu:
		progression.Bantu = false
		progression.SKBantu = ""
		progression.DateBantu = nil
	case models.TierTata:
		progression.Tata = false
		progression.SKTata = ""
		progression.DateTata = nil
	}
	if err := s.repo.Update(ctx, progression); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update progression")
	}

	recordAudit(ctx, s.audit, s.logger, claims, models.AuditActionUpdate, progressionModule,
		fmt.Sprintf("reverted %s milestone for member %s", tier, member.Name))
	return progression, nil
}

// List returns milestone rows visible to the caller.
func (s *ProgressionService) List(ctx context.Context, filter models.ProgressionFilter, claims *models.JWTClaims) ([]models.ProgressionDetail, int, error) {
	scope, err := ResolveScope(claims)
	if err != nil {
		return nil, 0, err
	}
	rows, total, err := s.repo.List(ctx, scope, filter)
	if err != nil {
		return nil, 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list progressions")
	}
	return rows, total, nil
}

// GetByMember returns the progression row for one member.
func (s *ProgressionService) GetByMember(ctx context.Context, memberID string, claims *models.JWTClaims) (*models.Progression, error) {
	if claims == nil {
		return nil, appErrors.ErrUnauthorized
	}
	if _, err := s.loadMember(ctx, memberID, claims); err != nil {
		return nil, err
	}
	return s.loadProgression(ctx, memberID)
}

// Summary aggregates milestone completion for the caller's scope.
func (s *ProgressionService) Summary(ctx context.Context, claims *models.JWTClaims) (*models.ProgressionSummary, error) {
	scope, err := ResolveScope(claims)
	if err != nil {
		return nil, err
	}
	summary, err := s.repo.Summary(ctx, scope)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to build progression summary")
	}
	return summary, nil
}

// prepareIssuance validates the request, loads the member within the
// caller's scope and resolves the troop token.
func (s *ProgressionService) prepareIssuance(ctx context.Context, req dto.IssueTierRequest, claims *models.JWTClaims) (*models.MemberDetail, string, error) {
	if claims == nil {
		return nil, "", appErrors.ErrUnauthorized
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid issuance payload")
	}

	member, err := s.loadMember(ctx, req.MemberID, claims)
	if err != nil {
		return nil, "", err
	}
	if member.InstitutionID == nil {
		return nil, "", appErrors.Clone(appErrors.ErrValidation, "member is not attached to an institution")
	}

	institution, err := s.institutions.FindByID(ctx, *member.InstitutionID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, "", appErrors.Clone(appErrors.ErrNotFound, "institution not found")
		}
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load institution")
	}

	return member, institution.TroopNumber(member.Gender), nil
}

func (s *ProgressionService) loadMember(ctx context.Context, memberID string, claims *models.JWTClaims) (*models.MemberDetail, error) {
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

func (s *ProgressionService) loadProgression(ctx context.Context, memberID string) (*models.Progression, error) {
	progression, err := s.repo.FindByMember(ctx, memberID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "member has no progression record")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load progression")
	}
	return progression, nil
}

// daysBetween counts whole calendar days from a to b, ignoring the time of
// day on either side.
func daysBetween(a, b time.Time) int {
	a = time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	b = time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(b.Sub(a).Hours() / 24)
}

// dateOnly truncates a timestamp to the UTC calendar date.
func dateOnly(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
