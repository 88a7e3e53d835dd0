package handler

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/slotforge/timetable-api/internal/dto"
	"github.com/slotforge/timetable-api/internal/models"
	"github.com/slotforge/timetable-api/internal/service"
	appErrors "github.com/slotforge/timetable-api/pkg/errors"
	"github.com/slotforge/timetable-api/pkg/jobs"
	"github.com/slotforge/timetable-api/pkg/response"
)

type exportManager interface {
	Create(ctx context.Context, timetableID string, req dto.CreateExportRequest) (models.ExportJob, error)
	Get(id string) (models.ExportJob, bool)
	DownloadURL(job models.ExportJob) string
	ResolveToken(token string) (models.ExportJob, string, error)
	Open(relPath string) (*os.File, error)
}

type jobEnqueuer interface {
	Enqueue(job jobs.Job) error
}

// ExportHandler exposes export job endpoints.
type ExportHandler struct {
	service exportManager
	queue   jobEnqueuer
	logger  *zap.Logger
}

// NewExportHandler constructs the handler.
func NewExportHandler(svc *service.ExportService, queue *jobs.Queue, logger *zap.Logger) *ExportHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportHandler{service: svc, queue: queue, logger: logger}
}

// Create godoc
// @Summary Queue an export of one timetable option
// @Tags Exports
// @Accept json
// @Produce json
// @Param id path string true "Timetable ID"
// @Param payload body dto.CreateExportRequest true "Export parameters"
// @Success 202 {object} response.Envelope
// @Router /timetables/{id}/exports [post]
func (h *ExportHandler) Create(c *gin.Context) {
	var req dto.CreateExportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid export payload"))
		return
	}
	job, err := h.service.Create(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.queue.Enqueue(jobs.Job{ID: job.ID, Type: "export"}); err != nil {
		if h.logger != nil {
			h.logger.Error("failed to enqueue export job", zap.String("job", job.ID), zap.Error(err))
		}
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to queue export"))
		return
	}
	response.Accepted(c, dto.FromExportJob(job, ""))
}

// Get godoc
// @Summary Fetch the state of an export job
// @Tags Exports
// @Produce json
// @Param jobId path string true "Export job ID"
// @Success 200 {object} response.Envelope
// @Router /exports/{jobId} [get]
func (h *ExportHandler) Get(c *gin.Context) {
	job, ok := h.service.Get(c.Param("jobId"))
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "export job not found"))
		return
	}
	response.JSON(c, http.StatusOK, dto.FromExportJob(job, h.service.DownloadURL(job)))
}

// Download godoc
// @Summary Download a finished export via signed token
// @Tags Exports
// @Produce octet-stream
// @Param token query string true "Signed download token"
// @Success 200 {file} binary
// @Router /exports/download [get]
func (h *ExportHandler) Download(c *gin.Context) {
	token := strings.TrimSpace(c.Query("token"))
	if token == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "token is required"))
		return
	}
	job, relPath, err := h.service.ResolveToken(token)
	if err != nil {
		response.Error(c, err)
		return
	}
	file, err := h.service.Open(relPath)
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrNotFound.Code, appErrors.ErrNotFound.Status, "export file missing"))
		return
	}
	defer file.Close() //nolint:errcheck

	info, err := file.Stat()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to stat export file"))
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", job.Filename))
	c.Header("Cache-Control", "no-store")
	c.DataFromReader(http.StatusOK, info.Size(), job.Format.MimeType(), file, nil)
}
