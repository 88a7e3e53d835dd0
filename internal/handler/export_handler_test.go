package handler

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/slotforge/timetable-api/internal/dto"
	"github.com/slotforge/timetable-api/internal/models"
	appErrors "github.com/slotforge/timetable-api/pkg/errors"
	"github.com/slotforge/timetable-api/pkg/jobs"
)

type exportManagerMock struct {
	created  models.ExportJob
	job      models.ExportJob
	found    bool
	resolved string
	err      error
	filePath string
}

func (m *exportManagerMock) Create(ctx context.Context, timetableID string, req dto.CreateExportRequest) (models.ExportJob, error) {
	if m.err != nil {
		return models.ExportJob{}, m.err
	}
	m.created = models.ExportJob{ID: "job-1", TimetableID: timetableID, View: models.ViewMode(req.View), Format: models.ExportFormat(req.Format), Status: models.ExportStatusQueued}
	return m.created, nil
}

func (m *exportManagerMock) Get(id string) (models.ExportJob, bool) {
	return m.job, m.found
}

func (m *exportManagerMock) DownloadURL(job models.ExportJob) string {
	if job.Token == "" {
		return ""
	}
	return "/api/v1/exports/download?token=" + job.Token
}

func (m *exportManagerMock) ResolveToken(token string) (models.ExportJob, string, error) {
	if m.err != nil {
		return models.ExportJob{}, "", m.err
	}
	return m.job, m.resolved, nil
}

func (m *exportManagerMock) Open(relPath string) (*os.File, error) {
	return os.Open(m.filePath)
}

type enqueuerMock struct {
	jobs []jobs.Job
	err  error
}

func (m *enqueuerMock) Enqueue(job jobs.Job) error {
	if m.err != nil {
		return m.err
	}
	m.jobs = append(m.jobs, job)
	return nil
}

func TestExportCreateQueuesJob(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &exportManagerMock{}
	queue := &enqueuerMock{}
	handler := &ExportHandler{service: mockSvc, queue: queue}
	router := gin.New()
	router.POST("/timetables/:id/exports", handler.Create)

	payload := []byte(`{"option":1,"view":"student","format":"xlsx"}`)
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/timetables/tt-1/exports", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusAccepted, w.Code)
	require.Len(t, queue.jobs, 1)
	require.Equal(t, "job-1", queue.jobs[0].ID)
	require.Equal(t, "tt-1", mockSvc.created.TimetableID)
}

func TestExportCreateMalformedPayload(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := &ExportHandler{service: &exportManagerMock{}, queue: &enqueuerMock{}}
	router := gin.New()
	router.POST("/timetables/:id/exports", handler.Create)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/timetables/tt-1/exports", bytes.NewReader([]byte(`{"format":`)))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestExportCreateQueueFailure(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := &ExportHandler{service: &exportManagerMock{}, queue: &enqueuerMock{err: fmt.Errorf("queue closed")}}
	router := gin.New()
	router.POST("/timetables/:id/exports", handler.Create)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/timetables/tt-1/exports", bytes.NewReader([]byte(`{"option":1,"view":"student","format":"csv"}`)))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestExportGetNotFound(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := &ExportHandler{service: &exportManagerMock{found: false}, queue: &enqueuerMock{}}
	router := gin.New()
	router.GET("/exports/:jobId", handler.Get)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/exports/missing", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestExportGetIncludesDownloadURL(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &exportManagerMock{
		found: true,
		job:   models.ExportJob{ID: "job-1", Status: models.ExportStatusDone, Token: "tok"},
	}
	handler := &ExportHandler{service: mockSvc, queue: &enqueuerMock{}}
	router := gin.New()
	router.GET("/exports/:jobId", handler.Get)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/exports/job-1", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "/api/v1/exports/download?token=tok")
}

func TestExportDownloadRequiresToken(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := &ExportHandler{service: &exportManagerMock{}, queue: &enqueuerMock{}}
	router := gin.New()
	router.GET("/exports/download", handler.Download)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/exports/download", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestExportDownloadStreamsFile(t *testing.T) {
	gin.SetMode(gin.TestMode)
	dir := t.TempDir()
	filePath := filepath.Join(dir, "job-1_timetable_student.csv")
	require.NoError(t, os.WriteFile(filePath, []byte("Day,09:00 AM - 10:00 AM\n"), 0o644))

	mockSvc := &exportManagerMock{
		job:      models.ExportJob{ID: "job-1", Status: models.ExportStatusDone, Format: models.ExportFormatCSV, Filename: "timetable_student.csv"},
		resolved: "job-1_timetable_student.csv",
		filePath: filePath,
	}
	handler := &ExportHandler{service: mockSvc, queue: &enqueuerMock{}}
	router := gin.New()
	router.GET("/exports/download", handler.Download)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/exports/download?token=tok", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Header().Get("Content-Disposition"), "timetable_student.csv")
	require.Equal(t, "text/csv", w.Header().Get("Content-Type"))
	require.Contains(t, w.Body.String(), "09:00 AM")
}

func TestExportDownloadInvalidToken(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &exportManagerMock{err: appErrors.Clone(appErrors.ErrValidation, "invalid download token")}
	handler := &ExportHandler{service: mockSvc, queue: &enqueuerMock{}}
	router := gin.New()
	router.GET("/exports/download", handler.Download)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/exports/download?token=bad", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
}
