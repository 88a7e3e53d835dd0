package service

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/slotforge/timetable-api/internal/dto"
	"github.com/slotforge/timetable-api/internal/models"
	appErrors "github.com/slotforge/timetable-api/pkg/errors"
	"github.com/slotforge/timetable-api/pkg/export"
	"github.com/slotforge/timetable-api/pkg/jobs"
	"github.com/slotforge/timetable-api/pkg/storage"
)

type timetableReader interface {
	Summary(id string) (*dto.TimetableSummary, error)
	Tables(ctx context.Context, id string, option int, view models.ViewMode) (*dto.TablesView, error)
}

type fileStorage interface {
	Save(filename string, data []byte) (string, error)
	Open(filename string) (*os.File, error)
	Delete(filename string) error
	CleanupOlderThan(ttl time.Duration) ([]string, error)
}

type workbookRenderer interface {
	Render(wb export.Workbook) ([]byte, error)
}

// ExportConfig tunes export behaviour.
type ExportConfig struct {
	APIPrefix string
	ResultTTL time.Duration
}

// ExportService renders timetable views into downloadable files through a
// background job queue and serves signed download links.
type ExportService struct {
	timetables timetableReader
	storage    fileStorage
	signer     *storage.SignedURLSigner
	metrics    *MetricsService
	validator  *validator.Validate
	logger     *zap.Logger
	cfg        ExportConfig

	renderers map[models.ExportFormat]workbookRenderer

	mu   sync.RWMutex
	jobs map[string]models.ExportJob
}

// NewExportService constructs an ExportService.
func NewExportService(timetables timetableReader, store fileStorage, signer *storage.SignedURLSigner, metrics *MetricsService, validate *validator.Validate, cfg ExportConfig, logger *zap.Logger) *ExportService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.ResultTTL <= 0 {
		cfg.ResultTTL = 24 * time.Hour
	}
	return &ExportService{
		timetables: timetables,
		storage:    store,
		signer:     signer,
		metrics:    metrics,
		validator:  validate,
		logger:     logger,
		cfg:        cfg,
		renderers: map[models.ExportFormat]workbookRenderer{
			models.ExportFormatXLSX: export.NewXLSXExporter(),
			models.ExportFormatCSV:  export.NewCSVExporter(),
			models.ExportFormatPDF:  export.NewPDFExporter(),
		},
		jobs: make(map[string]models.ExportJob),
	}
}

// Create registers an export job for a stored timetable and returns the
// queued record. The actual rendering happens in Process.
func (s *ExportService) Create(ctx context.Context, timetableID string, req dto.CreateExportRequest) (models.ExportJob, error) {
	if err := s.validator.Struct(req); err != nil {
		return models.ExportJob{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid export payload")
	}
	if _, err := s.timetables.Summary(timetableID); err != nil {
		return models.ExportJob{}, err
	}

	view := models.ViewMode(req.View)
	format := models.ExportFormat(req.Format)
	option := req.Option
	if option <= 0 {
		option = 1
	}

	job := models.ExportJob{
		ID:          uuid.NewString(),
		TimetableID: timetableID,
		Option:      option,
		View:        view,
		Format:      format,
		Status:      models.ExportStatusQueued,
		CreatedAt:   time.Now().UTC(),
	}
	s.saveJob(job)
	return job, nil
}

// Process is the queue handler: it renders the job's workbook, stores the
// file and attaches a signed download token.
func (s *ExportService) Process(ctx context.Context, queued jobs.Job) error {
	job, ok := s.Get(queued.ID)
	if !ok {
		return fmt.Errorf("export job %s unknown", queued.ID)
	}

	job.Status = models.ExportStatusActive
	job.Progress = 10
	job.ErrorMessage = ""
	s.saveJob(job)

	if err := s.render(ctx, &job); err != nil {
		now := time.Now().UTC()
		job.Status = models.ExportStatusFailed
		job.ErrorMessage = err.Error()
		job.FinishedAt = &now
		s.saveJob(job)
		if s.metrics != nil {
			s.metrics.RecordExportJob(job.Format, models.ExportStatusFailed)
		}
		return err
	}

	now := time.Now().UTC()
	job.Status = models.ExportStatusDone
	job.Progress = 100
	job.FinishedAt = &now
	s.saveJob(job)
	if s.metrics != nil {
		s.metrics.RecordExportJob(job.Format, models.ExportStatusDone)
	}
	s.logger.Info("export rendered",
		zap.String("job", job.ID),
		zap.String("timetable", job.TimetableID),
		zap.String("format", string(job.Format)),
	)
	return nil
}

func (s *ExportService) render(ctx context.Context, job *models.ExportJob) error {
	tables, err := s.timetables.Tables(ctx, job.TimetableID, job.Option, job.View)
	if err != nil {
		return err
	}
	job.Progress = 40
	s.saveJob(*job)

	renderer, ok := s.renderers[job.Format]
	if !ok {
		return fmt.Errorf("unsupported export format %s", job.Format)
	}
	payload, err := renderer.Render(buildWorkbook(tables.Tables))
	if err != nil {
		return fmt.Errorf("render %s: %w", job.Format, err)
	}
	job.Progress = 70
	s.saveJob(*job)

	job.Filename = exportFilename(job.View, job.Format)
	stored := fmt.Sprintf("%s_%s", job.ID, job.Filename)
	relPath, err := s.storage.Save(stored, payload)
	if err != nil {
		return fmt.Errorf("store export: %w", err)
	}

	token, expiresAt, err := s.signer.Generate(job.ID, relPath)
	if err != nil {
		return fmt.Errorf("sign download token: %w", err)
	}
	job.Token = token
	job.ExpiresAt = &expiresAt
	return nil
}

// Get returns a job record by ID.
func (s *ExportService) Get(id string) (models.ExportJob, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	job, ok := s.jobs[id]
	return job, ok
}

// DownloadURL builds the public download location for a finished job.
func (s *ExportService) DownloadURL(job models.ExportJob) string {
	if job.Token == "" {
		return ""
	}
	prefix := strings.TrimRight(s.cfg.APIPrefix, "/")
	if prefix == "" {
		prefix = "/api/v1"
	}
	return fmt.Sprintf("%s/exports/download?token=%s", prefix, job.Token)
}

// ResolveToken validates a download token and returns the matching job and
// the stored file path.
func (s *ExportService) ResolveToken(token string) (models.ExportJob, string, error) {
	jobID, relPath, _, err := s.signer.Parse(token)
	if err != nil {
		return models.ExportJob{}, "", appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid download token")
	}
	job, ok := s.Get(jobID)
	if !ok {
		return models.ExportJob{}, "", appErrors.Clone(appErrors.ErrNotFound, "export job not found")
	}
	if job.Status != models.ExportStatusDone {
		return models.ExportJob{}, "", appErrors.Clone(appErrors.ErrConflict, "export is not ready for download")
	}
	return job, relPath, nil
}

// Open returns a handle to the stored file.
func (s *ExportService) Open(relPath string) (*os.File, error) {
	return s.storage.Open(relPath)
}

// Cleanup removes files older than ttl (defaults to configured ResultTTL when ttl <= 0).
func (s *ExportService) Cleanup(ttl time.Duration) ([]string, error) {
	if ttl <= 0 {
		ttl = s.cfg.ResultTTL
	}
	return s.storage.CleanupOlderThan(ttl)
}

// StartCleanup runs periodic storage cleanup until the context is cancelled.
func (s *ExportService) StartCleanup(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Hour
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				removed, err := s.Cleanup(0)
				if err != nil {
					s.logger.Warn("export cleanup failed", zap.Error(err))
					continue
				}
				if len(removed) > 0 {
					s.logger.Info("export cleanup removed files", zap.Int("count", len(removed)))
				}
			}
		}
	}()
}

func (s *ExportService) saveJob(job models.ExportJob) {
	s.mu.Lock()
	s.jobs[job.ID] = job
	s.mu.Unlock()
}

func buildWorkbook(tables []models.Table) export.Workbook {
	wb := export.Workbook{Sheets: make([]export.Sheet, 0, len(tables))}
	for _, table := range tables {
		wb.Sheets = append(wb.Sheets, export.Sheet{
			Name:   table.Title,
			Header: table.Header,
			Rows:   table.Rows,
		})
	}
	return wb
}

func exportFilename(view models.ViewMode, format models.ExportFormat) string {
	name := "timetable_student"
	if view == models.ViewFaculty {
		name = "timetable_faculty"
	}
	return name + format.Extension()
}
