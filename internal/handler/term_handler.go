package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/nipitpongpan/Jenzabar/internal/models"
	"github.com/nipitpongpan/Jenzabar/pkg/response"
)

type termService interface {
	List(ctx context.Context, filter models.TermFilter) ([]models.Term, *models.Pagination, error)
	Get(ctx context.Context, yearCode, termCode string) (*models.Term, error)
}

// TermHandler exposes read-only calendar endpoints.
type TermHandler struct {
	service termService
}

// NewTermHandler constructs a term handler.
func NewTermHandler(svc termService) *TermHandler {
	return &TermHandler{service: svc}
}

// List godoc
// @Summary List calendar terms
// @Tags Terms
// @Produce json
// @Param year query string false "Filter by academic year code"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Param order query string false "Sort order by begin date"
// @Success 200 {object} response.Envelope
// @Router /terms [get]
func (h *TermHandler) List(c *gin.Context) {
	var filter models.TermFilter
	filter.YearCode = c.Query("year")
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		filter.Page = page
	}
	if size, err := strconv.Atoi(c.DefaultQuery("limit", "20")); err == nil {
		filter.PageSize = size
	}
	filter.SortOrder = c.Query("order")

	terms, pagination, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, terms, pagination)
}

// Get godoc
// @Summary Get one calendar term
// @Tags Terms
// @Produce json
// @Param year path string true "Academic year code"
// @Param term path string true "Term code"
// @Success 200 {object} response.Envelope
// @Router /terms/{year}/{term} [get]
func (h *TermHandler) Get(c *gin.Context) {
	term, err := h.service.Get(c.Request.Context(), c.Param("year"), c.Param("term"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, term, nil)
}
