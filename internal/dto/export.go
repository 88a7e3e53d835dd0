package dto

import (
	"time"

	"github.com/slotforge/timetable-api/internal/models"
)

// CreateExportRequest asks for one option to be rendered in a file format.
type CreateExportRequest struct {
	Option int    `json:"option" validate:"min=0"`
	View   string `json:"view" validate:"required,oneof=student faculty"`
	Format string `json:"format" validate:"required,oneof=xlsx csv pdf"`
}

// ExportJobResponse reports the state of an export job. DownloadURL is
// only populated once the job has finished successfully.
type ExportJobResponse struct {
	ID          string              `json:"id"`
	TimetableID string              `json:"timetableId"`
	Option      int                 `json:"option"`
	View        models.ViewMode     `json:"view"`
	Format      models.ExportFormat `json:"format"`
	Status      models.ExportStatus `json:"status"`
	Progress    int                 `json:"progress"`
	Filename    string              `json:"filename,omitempty"`
	DownloadURL string              `json:"downloadUrl,omitempty"`
	Error       string              `json:"error,omitempty"`
	CreatedAt   time.Time           `json:"createdAt"`
	FinishedAt  *time.Time          `json:"finishedAt,omitempty"`
}

// FromExportJob maps a job record onto the response payload.
func FromExportJob(job models.ExportJob, downloadURL string) ExportJobResponse {
	resp := ExportJobResponse{
		ID:          job.ID,
		TimetableID: job.TimetableID,
		Option:      job.Option,
		View:        job.View,
		Format:      job.Format,
		Status:      job.Status,
		Progress:    job.Progress,
		Filename:    job.Filename,
		Error:       job.ErrorMessage,
		CreatedAt:   job.CreatedAt,
		FinishedAt:  job.FinishedAt,
	}
	if job.Status == models.ExportStatusDone {
		resp.DownloadURL = downloadURL
	}
	return resp
}
