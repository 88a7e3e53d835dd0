package models

import "time"

// ExportFormat enumerates supported export encodings.
type ExportFormat string

const (
	ExportFormatXLSX ExportFormat = "xlsx"
	ExportFormatCSV  ExportFormat = "csv"
	ExportFormatPDF  ExportFormat = "pdf"
)

// Valid reports whether the format is supported.
func (f ExportFormat) Valid() bool {
	switch f {
	case ExportFormatXLSX, ExportFormatCSV, ExportFormatPDF:
		return true
	}
	return false
}

// Extension returns the file extension including the dot.
func (f ExportFormat) Extension() string {
	switch f {
	case ExportFormatXLSX:
		return ".xlsx"
	case ExportFormatCSV:
		return ".csv"
	case ExportFormatPDF:
		return ".pdf"
	}
	return ".bin"
}

// MimeType returns the content type served on download.
func (f ExportFormat) MimeType() string {
	switch f {
	case ExportFormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case ExportFormatCSV:
		return "text/csv"
	case ExportFormatPDF:
		return "application/pdf"
	}
	return "application/octet-stream"
}

// ExportStatus tracks export job lifecycle.
type ExportStatus string

const (
	ExportStatusQueued ExportStatus = "QUEUED"
	ExportStatusActive ExportStatus = "ACTIVE"
	ExportStatusDone   ExportStatus = "DONE"
	ExportStatusFailed ExportStatus = "FAILED"
)

// ExportJob describes one asynchronous export of a stored timetable option.
type ExportJob struct {
	ID           string       `json:"id"`
	TimetableID  string       `json:"timetableId"`
	Option       int          `json:"option"`
	View         ViewMode     `json:"view"`
	Format       ExportFormat `json:"format"`
	Status       ExportStatus `json:"status"`
	Progress     int          `json:"progress"`
	Filename     string       `json:"filename,omitempty"`
	Token        string       `json:"-"`
	ErrorMessage string       `json:"error,omitempty"`
	CreatedAt    time.Time    `json:"createdAt"`
	FinishedAt   *time.Time   `json:"finishedAt,omitempty"`
	ExpiresAt    *time.Time   `json:"expiresAt,omitempty"`
}
