package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/pramuka-adm-api/internal/dto"
	"github.com/noah-isme/pramuka-adm-api/internal/models"
	"github.com/noah-isme/pramuka-adm-api/internal/service"
	appErrors "github.com/noah-isme/pramuka-adm-api/pkg/errors"
	"github.com/noah-isme/pramuka-adm-api/pkg/response"
)

// BadgeHandler exposes proficiency badge award endpoints.
type BadgeHandler struct {
	badges *service.BadgeService
}

// NewBadgeHandler constructs BadgeHandler.
func NewBadgeHandler(badges *service.BadgeService) *BadgeHandler {
	return &BadgeHandler{badges: badges}
}

// Award godoc
// @Summary Award a proficiency badge
// @Tags Badges
// @Accept json
// @Produce json
// @Param payload body dto.AwardBadgeRequest true "Award payload"
// @Success 201 {object} response.Envelope
// @Router /badges [post]
func (h *BadgeHandler) Award(c *gin.Context) {
	var req dto.AwardBadgeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid award payload"))
		return
	}
	award, err := h.badges.Award(c.Request.Context(), req, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, award)
}

// Revoke godoc
// @Summary Revoke an awarded badge
// @Tags Badges
// @Produce json
// @Param id path string true "Award ID"
// @Success 204
// @Router /badges/{id} [delete]
func (h *BadgeHandler) Revoke(c *gin.Context) {
	if err := h.badges.Revoke(c.Request.Context(), c.Param("id"), claimsFromContext(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// List godoc
// @Summary List badge awards
// @Tags Badges
// @Produce json
// @Param search query string false "Search by member or badge name"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /badges [get]
func (h *BadgeHandler) List(c *gin.Context) {
	var filter models.BadgeFilter
	filter.Search = strings.TrimSpace(c.Query("search"))
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		filter.Page = page
	}
	if size, err := strconv.Atoi(c.DefaultQuery("limit", "20")); err == nil {
		filter.PageSize = size
	}

	awards, total, err := h.badges.List(c.Request.Context(), filter, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, awards, pagination(filter.Page, filter.PageSize, total))
}
