package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/nipitpongpan/Jenzabar/internal/models"
	"github.com/nipitpongpan/Jenzabar/internal/service"
	appErrors "github.com/nipitpongpan/Jenzabar/pkg/errors"
	"github.com/nipitpongpan/Jenzabar/pkg/response"
)

type classifier interface {
	Classify(ctx context.Context, req service.ClassifyRequest) (*models.EnrollmentStatus, error)
}

// ClassificationHandler exposes the enrollment-status endpoint.
type ClassificationHandler struct {
	service classifier
}

// NewClassificationHandler constructs a classification handler.
func NewClassificationHandler(svc classifier) *ClassificationHandler {
	return &ClassificationHandler{service: svc}
}

// Get godoc
// @Summary Classify a student's enrollment history for a term
// @Description Returns N (new), C (continue) or R (return) for the queried term
// @Tags Enrollment Status
// @Produce json
// @Param studentId path int true "Student ID"
// @Param year query string true "4-character academic year code"
// @Param term query string true "2-character term code"
// @Success 200 {object} response.Envelope
// @Router /students/{studentId}/enrollment-status [get]
func (h *ClassificationHandler) Get(c *gin.Context) {
	studentID, err := strconv.ParseInt(c.Param("studentId"), 10, 64)
	if err != nil || studentID <= 0 {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "student id must be a positive integer"))
		return
	}

	req := service.ClassifyRequest{
		YearCode:  c.Query("year"),
		TermCode:  c.Query("term"),
		StudentID: studentID,
	}

	status, err := h.service.Classify(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, status, nil)
}
