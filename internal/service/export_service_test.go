package service

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slotforge/timetable-api/internal/dto"
	"github.com/slotforge/timetable-api/internal/models"
	appErrors "github.com/slotforge/timetable-api/pkg/errors"
	"github.com/slotforge/timetable-api/pkg/jobs"
	"github.com/slotforge/timetable-api/pkg/storage"
)

type stubTimetableReader struct {
	summaryErr error
	tablesErr  error
	tables     []models.Table
}

func (s *stubTimetableReader) Summary(id string) (*dto.TimetableSummary, error) {
	if s.summaryErr != nil {
		return nil, s.summaryErr
	}
	return &dto.TimetableSummary{ID: id, OptionCount: 1}, nil
}

func (s *stubTimetableReader) Tables(ctx context.Context, id string, option int, view models.ViewMode) (*dto.TablesView, error) {
	if s.tablesErr != nil {
		return nil, s.tablesErr
	}
	return &dto.TablesView{ID: id, Option: option, View: view, Tables: s.tables}, nil
}

func newExportServiceFixture(t *testing.T, reader *stubTimetableReader) *ExportService {
	t.Helper()
	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	signer := storage.NewSignedURLSigner("test-secret", time.Hour)
	return NewExportService(reader, store, signer, nil, nil, ExportConfig{APIPrefix: "/api/v1"}, nil)
}

func exportTablesFixture() []models.Table {
	return []models.Table{
		{
			Title:  "B1",
			Header: []string{"Day", "09:00 AM - 10:00 AM"},
			Rows:   [][]string{{"Monday", "Math (R1) - Dr. A"}},
		},
	}
}

func TestExportServiceCreateRejectsBadFormat(t *testing.T) {
	service := newExportServiceFixture(t, &stubTimetableReader{tables: exportTablesFixture()})

	_, err := service.Create(context.Background(), "tt-1", dto.CreateExportRequest{View: "student", Format: "docx"})
	require.Error(t, err)
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestExportServiceCreateUnknownTimetable(t *testing.T) {
	service := newExportServiceFixture(t, &stubTimetableReader{
		summaryErr: appErrors.Clone(appErrors.ErrNotFound, "timetable not found or expired"),
	})

	_, err := service.Create(context.Background(), "missing", dto.CreateExportRequest{View: "student", Format: "xlsx"})
	require.Error(t, err)
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}

func TestExportServiceProcessLifecycle(t *testing.T) {
	service := newExportServiceFixture(t, &stubTimetableReader{tables: exportTablesFixture()})

	job, err := service.Create(context.Background(), "tt-1", dto.CreateExportRequest{View: "student", Format: "xlsx"})
	require.NoError(t, err)
	assert.Equal(t, models.ExportStatusQueued, job.Status)
	assert.Equal(t, 1, job.Option)

	require.NoError(t, service.Process(context.Background(), jobs.Job{ID: job.ID}))

	done, ok := service.Get(job.ID)
	require.True(t, ok)
	assert.Equal(t, models.ExportStatusDone, done.Status)
	assert.Equal(t, 100, done.Progress)
	assert.Equal(t, "timetable_student.xlsx", done.Filename)
	assert.NotEmpty(t, done.Token)
	require.NotNil(t, done.FinishedAt)

	resolved, relPath, err := service.ResolveToken(done.Token)
	require.NoError(t, err)
	assert.Equal(t, done.ID, resolved.ID)

	file, err := service.Open(relPath)
	require.NoError(t, err)
	defer file.Close()
	payload, err := io.ReadAll(file)
	require.NoError(t, err)
	assert.NotEmpty(t, payload)
}

func TestExportServiceFacultyFilename(t *testing.T) {
	service := newExportServiceFixture(t, &stubTimetableReader{tables: exportTablesFixture()})

	job, err := service.Create(context.Background(), "tt-1", dto.CreateExportRequest{View: "faculty", Format: "csv"})
	require.NoError(t, err)
	require.NoError(t, service.Process(context.Background(), jobs.Job{ID: job.ID}))

	done, ok := service.Get(job.ID)
	require.True(t, ok)
	assert.Equal(t, "timetable_faculty.csv", done.Filename)
}

func TestExportServiceProcessMarksFailure(t *testing.T) {
	reader := &stubTimetableReader{tables: exportTablesFixture()}
	service := newExportServiceFixture(t, reader)

	job, err := service.Create(context.Background(), "tt-1", dto.CreateExportRequest{View: "student", Format: "pdf"})
	require.NoError(t, err)

	reader.tablesErr = appErrors.Clone(appErrors.ErrNotFound, "timetable not found or expired")
	require.Error(t, service.Process(context.Background(), jobs.Job{ID: job.ID}))

	failed, ok := service.Get(job.ID)
	require.True(t, ok)
	assert.Equal(t, models.ExportStatusFailed, failed.Status)
	assert.NotEmpty(t, failed.ErrorMessage)
}

func TestExportServiceResolveTokenRejectsTampered(t *testing.T) {
	service := newExportServiceFixture(t, &stubTimetableReader{tables: exportTablesFixture()})

	job, err := service.Create(context.Background(), "tt-1", dto.CreateExportRequest{View: "student", Format: "xlsx"})
	require.NoError(t, err)
	require.NoError(t, service.Process(context.Background(), jobs.Job{ID: job.ID}))

	done, _ := service.Get(job.ID)
	_, _, err = service.ResolveToken(done.Token + "x")
	require.Error(t, err)
}

func TestExportServiceDownloadURL(t *testing.T) {
	service := newExportServiceFixture(t, &stubTimetableReader{tables: exportTablesFixture()})

	assert.Empty(t, service.DownloadURL(models.ExportJob{}))

	url := service.DownloadURL(models.ExportJob{Token: "abc"})
	assert.Equal(t, "/api/v1/exports/download?token=abc", url)
}
