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

type garudaService interface {
	Request(ctx context.Context, req dto.RequestGarudaRequest, claims *models.JWTClaims) (*models.Garuda, error)
	Approve(ctx context.Context, id string, claims *models.JWTClaims) (*models.Garuda, error)
	Delete(ctx context.Context, id string, claims *models.JWTClaims) error
	List(ctx context.Context, filter models.GarudaFilter, claims *models.JWTClaims) ([]models.GarudaDetail, int, error)
	Summary(ctx context.Context, claims *models.JWTClaims) (*models.GarudaSummary, error)
}

// GarudaHandler exposes top-honor award endpoints.
type GarudaHandler struct {
	service garudaService
}

// NewGarudaHandler builds a new handler.
func NewGarudaHandler(service garudaService) *GarudaHandler {
	return &GarudaHandler{service: service}
}

// Request godoc
// @Summary Request a Garuda award for a member
// @Tags Garuda
// @Accept json
// @Produce json
// @Param payload body dto.RequestGarudaRequest true "Request payload"
// @Success 201 {object} response.Envelope
// @Router /garuda [post]
func (h *GarudaHandler) Request(c *gin.Context) {
	var req dto.RequestGarudaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid request payload"))
		return
	}
	award, err := h.service.Request(c.Request.Context(), req, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, award)
}

// Approve godoc
// @Summary Approve a pending Garuda award
// @Tags Garuda
// @Produce json
// @Param id path string true "Award ID"
// @Success 200 {object} response.Envelope
// @Router /garuda/{id}/approve [post]
func (h *GarudaHandler) Approve(c *gin.Context) {
	award, err := h.service.Approve(c.Request.Context(), c.Param("id"), claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, award, nil)
}

// Delete godoc
// @Summary Delete a pending Garuda award
// @Tags Garuda
// @Produce json
// @Param id path string true "Award ID"
// @Success 204
// @Router /garuda/{id} [delete]
func (h *GarudaHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id"), claimsFromContext(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// List godoc
// @Summary List Garuda awards
// @Tags Garuda
// @Produce json
// @Param search query string false "Search by member name"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /garuda [get]
func (h *GarudaHandler) List(c *gin.Context) {
	var filter models.GarudaFilter
	filter.Search = strings.TrimSpace(c.Query("search"))
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		filter.Page = page
	}
	if size, err := strconv.Atoi(c.DefaultQuery("limit", "20")); err == nil {
		filter.PageSize = size
	}

	awards, total, err := h.service.List(c.Request.Context(), filter, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, awards, pagination(filter.Page, filter.PageSize, total))
}

// Summary godoc
// @Summary Garuda award summary counters
// @Tags Garuda
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /garuda/summary [get]
func (h *GarudaHandler) Summary(c *gin.Context) {
	summary, err := h.service.Summary(c.Request.Context(), claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, summary, nil)
}
