package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/pramuka-adm-api/internal/dto"
	"github.com/noah-isme/pramuka-adm-api/internal/models"
	appErrors "github.com/noah-isme/pramuka-adm-api/pkg/errors"
	"github.com/noah-isme/pramuka-adm-api/pkg/response"
)

type progressionService interface {
	IssueMula(ctx context.Context, req dto.IssueTierRequest, claims *models.JWTClaims) (*models.Progression, error)
	IssueBantu(ctx context.Context, req dto.IssueTierRequest, claims *models.JWTClaims) (*models.Progression, error)
	IssueTata(ctx context.Context, req dto.IssueTierRequest, claims *models.JWTClaims) (*models.Progression, error)
	Revert(ctx context.Context, req dto.RevertTierRequest, claims *models.JWTClaims) (*models.Progression, error)
	List(ctx context.Context, filter models.ProgressionFilter, claims *models.JWTClaims) ([]models.ProgressionDetail, int, error)
	GetByMember(ctx context.Context, memberID string, claims *models.JWTClaims) (*models.Progression, error)
	Summary(ctx context.Context, claims *models.JWTClaims) (*models.ProgressionSummary, error)
}

// ProgressionHandler exposes rank progression endpoints.
type ProgressionHandler struct {
	service progressionService
}

// NewProgressionHandler builds a new handler.
func NewProgressionHandler(service progressionService) *ProgressionHandler {
	return &ProgressionHandler{service: service}
}

// IssueMula godoc
// @Summary Issue the Mula milestone
// @Tags Progression
// @Accept json
// @Produce json
// @Param payload body dto.IssueTierRequest true "Issuance payload"
// @Success 201 {object} response.Envelope
// @Router /progressions/mula [post]
func (h *ProgressionHandler) IssueMula(c *gin.Context) {
	h.issue(c, h.service.IssueMula)
}

// IssueBantu godoc
// @Summary Issue the Bantu milestone
// @Tags Progression
// @Accept json
// @Produce json
// @Param payload body dto.IssueTierRequest true "Issuance payload"
// @Success 201 {object} response.Envelope
// @Router /progressions/bantu [post]
func (h *ProgressionHandler) IssueBantu(c *gin.Context) {
	h.issue(c, h.service.IssueBantu)
}

// IssueTata godoc
// @Summary Issue the Tata milestone
// @Tags Progression
// @Accept json
// @Produce json
// @Param payload body dto.IssueTierRequest true "Issuance payload"
// @Success 201 {object} response.Envelope
// @Router /progressions/tata [post]
func (h *ProgressionHandler) IssueTata(c *gin.Context) {
	h.issue(c, h.service.IssueTata)
}

func (h *ProgressionHandler) issue(c *gin.Context, op func(context.Context, dto.IssueTierRequest, *models.JWTClaims) (*models.Progression, error)) {
	var req dto.IssueTierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid issuance payload"))
		return
	}
	progression, err := op(c.Request.Context(), req, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, progression)
}

// Revert godoc
// @Summary Revert the highest awarded milestone
// @Tags Progression
// @Accept json
// @Produce json
// @Param payload body dto.RevertTierRequest true "Revert payload"
// @Success 200 {object} response.Envelope
// @Router /progressions/revert [post]
func (h *ProgressionHandler) Revert(c *gin.Context) {
	var req dto.RevertTierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid revert payload"))
		return
	}
	progression, err := h.service.Revert(c.Request.Context(), req, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, progression, nil)
}

// List godoc
// @Summary List progression records
// @Tags Progression
// @Produce json
// @Param tier query string false "Filter by reached milestone (mula, bantu, tata)"
// @Param search query string false "Search by member name"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /progressions [get]
func (h *ProgressionHandler) List(c *gin.Context) {
	var filter models.ProgressionFilter
	filter.Tier = models.Tier(strings.TrimSpace(c.Query("tier")))
	filter.Search = strings.TrimSpace(c.Query("search"))
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		filter.Page = page
	}
	if size, err := strconv.Atoi(c.DefaultQuery("limit", "20")); err == nil {
		filter.PageSize = size
	}

	items, total, err := h.service.List(c.Request.Context(), filter, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, pagination(filter.Page, filter.PageSize, total))
}

// GetByMember godoc
// @Summary Get one member's progression record
// @Tags Progression
// @Produce json
// @Param memberId path string true "Member ID"
// @Success 200 {object} response.Envelope
// @Router /progressions/member/{memberId} [get]
func (h *ProgressionHandler) GetByMember(c *gin.Context) {
	progression, err := h.service.GetByMember(c.Request.Context(), c.Param("memberId"), claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, progression, nil)
}

// Summary godoc
// @Summary Progression summary counters
// @Tags Progression
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /progressions/summary [get]
func (h *ProgressionHandler) Summary(c *gin.Context) {
	summary, err := h.service.Summary(c.Request.Context(), claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, summary, nil)
}
