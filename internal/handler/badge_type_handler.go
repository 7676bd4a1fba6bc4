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

// BadgeTypeHandler exposes badge catalog endpoints.
type BadgeTypeHandler struct {
	types *service.BadgeTypeService
}

// NewBadgeTypeHandler constructs BadgeTypeHandler.
func NewBadgeTypeHandler(types *service.BadgeTypeService) *BadgeTypeHandler {
	return &BadgeTypeHandler{types: types}
}

// List godoc
// @Summary List badge types
// @Tags BadgeTypes
// @Produce json
// @Param search query string false "Search by name or sector"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /badge-types [get]
func (h *BadgeTypeHandler) List(c *gin.Context) {
	var filter models.BadgeFilter
	filter.Search = strings.TrimSpace(c.Query("search"))
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		filter.Page = page
	}
	if size, err := strconv.Atoi(c.DefaultQuery("limit", "20")); err == nil {
		filter.PageSize = size
	}

	types, total, err := h.types.List(c.Request.Context(), filter, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, types, pagination(filter.Page, filter.PageSize, total))
}

// Get godoc
// @Summary Get badge type detail
// @Tags BadgeTypes
// @Produce json
// @Param id path string true "Badge type ID"
// @Success 200 {object} response.Envelope
// @Router /badge-types/{id} [get]
func (h *BadgeTypeHandler) Get(c *gin.Context) {
	badgeType, err := h.types.Get(c.Request.Context(), c.Param("id"), claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, badgeType, nil)
}

// Create godoc
// @Summary Create badge type
// @Tags BadgeTypes
// @Accept json
// @Produce json
// @Param payload body dto.CreateBadgeTypeRequest true "Badge type payload"
// @Success 201 {object} response.Envelope
// @Router /badge-types [post]
func (h *BadgeTypeHandler) Create(c *gin.Context) {
	var req dto.CreateBadgeTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	badgeType, err := h.types.Create(c.Request.Context(), req, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, badgeType)
}

// Update godoc
// @Summary Update badge type
// @Tags BadgeTypes
// @Accept json
// @Produce json
// @Param id path string true "Badge type ID"
// @Param payload body dto.UpdateBadgeTypeRequest true "Badge type payload"
// @Success 200 {object} response.Envelope
// @Router /badge-types/{id} [put]
func (h *BadgeTypeHandler) Update(c *gin.Context) {
	var req dto.UpdateBadgeTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	badgeType, err := h.types.Update(c.Request.Context(), c.Param("id"), req, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, badgeType, nil)
}

// Delete godoc
// @Summary Delete badge type
// @Tags BadgeTypes
// @Produce json
// @Param id path string true "Badge type ID"
// @Success 204
// @Router /badge-types/{id} [delete]
func (h *BadgeTypeHandler) Delete(c *gin.Context) {
	if err := h.types.Delete(c.Request.Context(), c.Param("id"), claimsFromContext(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
