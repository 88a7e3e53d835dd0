package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/slotforge/timetable-api/internal/dto"
	"github.com/slotforge/timetable-api/internal/models"
	"github.com/slotforge/timetable-api/internal/service"
	appErrors "github.com/slotforge/timetable-api/pkg/errors"
	"github.com/slotforge/timetable-api/pkg/response"
)

type timetableGenerator interface {
	Generate(ctx context.Context, req dto.GenerateTimetableRequest) (*dto.TimetableSummary, error)
	Regenerate(ctx context.Context, id string, req dto.RegenerateTimetableRequest) (*dto.TimetableSummary, error)
	Get(ctx context.Context, id string, option int, view models.ViewMode) (*dto.OptionView, error)
	Tables(ctx context.Context, id string, option int, view models.ViewMode) (*dto.TablesView, error)
}

// TimetableHandler exposes timetable generation endpoints.
type TimetableHandler struct {
	service timetableGenerator
}

// NewTimetableHandler constructs the handler.
func NewTimetableHandler(svc *service.TimetableService) *TimetableHandler {
	return &TimetableHandler{service: svc}
}

// Generate godoc
// @Summary Generate timetable options from a configuration
// @Description Runs the allocation engine and stores the resulting option set under a short-lived ID.
// @Tags Timetables
// @Accept json
// @Produce json
// @Param payload body dto.GenerateTimetableRequest true "Generation configuration"
// @Success 201 {object} response.Envelope
// @Router /timetables [post]
func (h *TimetableHandler) Generate(c *gin.Context) {
	var req dto.GenerateTimetableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid generation payload"))
		return
	}
	summary, err := h.service.Generate(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, summary)
}

// Regenerate godoc
// @Summary Reshuffle a stored timetable under a fresh seed
// @Tags Timetables
// @Accept json
// @Produce json
// @Param id path string true "Timetable ID"
// @Param payload body dto.RegenerateTimetableRequest false "Regeneration overrides"
// @Success 200 {object} response.Envelope
// @Router /timetables/{id}/regenerate [post]
func (h *TimetableHandler) Regenerate(c *gin.Context) {
	var req dto.RegenerateTimetableRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid regenerate payload"))
			return
		}
	}
	summary, err := h.service.Regenerate(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, summary)
}

// Get godoc
// @Summary Fetch one option of a stored timetable
// @Tags Timetables
// @Produce json
// @Param id path string true "Timetable ID"
// @Param option query int false "Option number (1-based, default 1)"
// @Param view query string false "View mode: student or faculty"
// @Success 200 {object} response.Envelope
// @Router /timetables/{id} [get]
func (h *TimetableHandler) Get(c *gin.Context) {
	option, view, err := optionAndView(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	result, err := h.service.Get(c.Request.Context(), c.Param("id"), option, view)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result)
}

// Tables godoc
// @Summary Fetch display tables for one option of a stored timetable
// @Tags Timetables
// @Produce json
// @Param id path string true "Timetable ID"
// @Param option query int false "Option number (1-based, default 1)"
// @Param view query string false "View mode: student or faculty"
// @Success 200 {object} response.Envelope
// @Router /timetables/{id}/tables [get]
func (h *TimetableHandler) Tables(c *gin.Context) {
	option, view, err := optionAndView(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	result, err := h.service.Tables(c.Request.Context(), c.Param("id"), option, view)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result)
}

func optionAndView(c *gin.Context) (int, models.ViewMode, error) {
	option := 1
	if raw := c.Query("option"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			return 0, "", appErrors.Clone(appErrors.ErrValidation, "option must be a positive integer")
		}
		option = parsed
	}
	view := models.ViewStudent
	if raw := c.Query("view"); raw != "" {
		view = models.ViewMode(raw)
		if !view.Valid() {
			return 0, "", appErrors.Clone(appErrors.ErrValidation, "view must be student or faculty")
		}
	}
	return option, view, nil
}
