package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/noah-isme/pramuka-adm-api/internal/dto"
	"github.com/noah-isme/pramuka-adm-api/internal/models"
	appErrors "github.com/noah-isme/pramuka-adm-api/pkg/errors"
)

const dashboardCachePrefix = "dashboard"

type scopedCounter interface {
	Count(ctx context.Context, scope models.AccessScope) (int, error)
}

type progressionSummarizer interface {
	Summary(ctx context.Context, scope models.AccessScope) (*models.ProgressionSummary, error)
}

type garudaSummarizer interface {
	Summary(ctx context.Context, scope models.AccessScope) (*models.GarudaSummary, error)
}

type auditReader interface {
	Recent(ctx context.Context, limit int) ([]models.AuditLog, error)
}

// DashboardService aggregates the landing page payload, cached per scope.
type DashboardService struct {
	members      scopedCounter
	institutions scopedCounter
	badges       scopedCounter
	progressions progressionSummarizer
	garuda       garudaSummarizer
	audit        auditReader
	cache        *CacheService
	logger       *zap.Logger
}

// NewDashboardService builds a DashboardService.
func NewDashboardService(
	members scopedCounter,
	institutions scopedCounter,
	badges scopedCounter,
	progressions progressionSummarizer,
	garuda garudaSummarizer,
	audit auditReader,
	cache *CacheService,
	logger *zap.Logger,
) *DashboardService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardService{
		members:      members,
		institutions: institutions,
		badges:       badges,
		progressions: progressions,
		garuda:       garuda,
		audit:        audit,
		cache:        cache,
		logger:       logger,
	}
}

// Overview assembles the dashboard for the caller's scope. Results are
// served from cache when available; mutations invalidate via TTL only.
func (s *DashboardService) Overview(ctx context.Context, claims *models.JWTClaims) (*dto.DashboardResponse, error) {
	scope, err := ResolveScope(claims)
	if err != nil {
		return nil, err
	}

	cacheKey := s.cacheKey(scope)
	var cached dto.DashboardResponse
	if hit, err := s.cache.Get(ctx, cacheKey, &cached); err == nil && hit {
		return &cached, nil
	}

	totalMembers, err := s.members.Count(ctx, scope)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count members")
	}
	totalInstitutions, err := s.institutions.Count(ctx, scope)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count institutions")
	}
	totalBadges, err := s.badges.Count(ctx, scope)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count badges")
	}
	progressionSummary, err := s.progressions.Summary(ctx, scope)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to build progression summary")
	}
	garudaSummary, err := s.garuda.Summary(ctx, scope)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to build garuda summary")
	}

	var recent []models.AuditLog
	if s.audit != nil {
		recent, err = s.audit.Recent(ctx, 10)
		if err != nil {
			s.logger.Warn("failed to load recent activity", zap.Error(err))
			recent = nil
		}
	}

	response := &dto.DashboardResponse{
		TotalMembers:      totalMembers,
		TotalInstitutions: totalInstitutions,
		TotalBadges:       totalBadges,
		Progression:       *progressionSummary,
		Garuda:            *garudaSummary,
		RecentActivity:    recent,
	}

	if err := s.cache.Set(ctx, cacheKey, response, 0); err != nil {
		s.logger.Warn("failed to cache dashboard", zap.Error(err))
	}
	return response, nil
}

func (s *DashboardService) cacheKey(scope models.AccessScope) string {
	if scope.Restricted() {
		return fmt.Sprintf("%s:institution:%s", dashboardCachePrefix, scope.InstitutionID)
	}
	return dashboardCachePrefix + ":all"
}
