package dto

import (
	"time"

	"github.com/slotforge/timetable-api/internal/models"
)

// defaultMaxClassesPerDay applies when the payload omits the cap entirely.
// An explicit 0 is honoured and leaves every teaching slot free.
const defaultMaxClassesPerDay = 6

// IntervalPayload is a raw start/end pair in "HH:MM" notation.
type IntervalPayload struct {
	Start string `json:"start" validate:"required"`
	End   string `json:"end" validate:"required"`
}

// SubjectPayload declares a subject and its weekly quota.
type SubjectPayload struct {
	Name           string `json:"name" validate:"required"`
	ClassesPerWeek int    `json:"classesPerWeek" validate:"min=0"`
}

// FacultyPayload declares a teacher, their subject and blocked days.
type FacultyPayload struct {
	Name            string   `json:"name" validate:"required"`
	Subject         string   `json:"subject" validate:"required"`
	UnavailableDays []string `json:"unavailableDays" validate:"omitempty,dive,required"`
}

// RoomPayload names one room of the pool.
type RoomPayload struct {
	Name string `json:"name" validate:"required"`
}

// BatchPayload names one student cohort.
type BatchPayload struct {
	Name string `json:"name" validate:"required"`
}

// SpecialClassPayload pins a subject to a fixed batch/day/time.
type SpecialClassPayload struct {
	Subject string `json:"subject" validate:"required"`
	Day     string `json:"day" validate:"required"`
	Start   string `json:"start" validate:"required"`
	End     string `json:"end" validate:"required"`
	Batch   string `json:"batch" validate:"required"`
}

// GenerateTimetableRequest carries the full generation configuration.
// Collections may be empty: the engine degrades to free schedules rather
// than rejecting incomplete configurations.
type GenerateTimetableRequest struct {
	Days             []string                   `json:"days" validate:"omitempty,dive,required"`
	Periods          map[string]IntervalPayload `json:"periods" validate:"omitempty,dive"`
	Breaks           []IntervalPayload          `json:"breaks" validate:"omitempty,dive"`
	Subjects         []SubjectPayload           `json:"subjects" validate:"omitempty,dive"`
	Faculties        []FacultyPayload           `json:"faculties" validate:"omitempty,dive"`
	Rooms            []RoomPayload              `json:"rooms" validate:"omitempty,dive"`
	Batches          []BatchPayload             `json:"batches" validate:"omitempty,dive"`
	SpecialClasses   []SpecialClassPayload      `json:"specialClasses" validate:"omitempty,dive"`
	MaxClassesPerDay *int                       `json:"maxClassesPerDay" validate:"omitempty,min=0"`
	Options          int                        `json:"options" validate:"omitempty,min=1"`
	Seed             *int64                     `json:"seed"`
}

// ToConfig converts the payload into the engine's immutable configuration.
func (r GenerateTimetableRequest) ToConfig() models.Config {
	cfg := models.Config{
		Days:             append([]string(nil), r.Days...),
		MaxClassesPerDay: defaultMaxClassesPerDay,
	}
	if r.MaxClassesPerDay != nil {
		cfg.MaxClassesPerDay = *r.MaxClassesPerDay
	}

	if len(r.Periods) > 0 {
		cfg.Periods = make(map[string]models.Interval, len(r.Periods))
		for idx, p := range r.Periods {
			cfg.Periods[idx] = models.Interval{Start: p.Start, End: p.End}
		}
	}
	for _, b := range r.Breaks {
		cfg.Breaks = append(cfg.Breaks, models.Interval{Start: b.Start, End: b.End})
	}
	for _, s := range r.Subjects {
		cfg.Subjects = append(cfg.Subjects, models.Subject{Name: s.Name, ClassesPerWeek: s.ClassesPerWeek})
	}
	for _, f := range r.Faculties {
		cfg.Faculties = append(cfg.Faculties, models.Faculty{
			Name:            f.Name,
			Subject:         f.Subject,
			UnavailableDays: append([]string(nil), f.UnavailableDays...),
		})
	}
	for _, room := range r.Rooms {
		cfg.Rooms = append(cfg.Rooms, models.Room{Name: room.Name})
	}
	for _, b := range r.Batches {
		cfg.Batches = append(cfg.Batches, models.Batch{Name: b.Name})
	}
	for _, sc := range r.SpecialClasses {
		cfg.SpecialClasses = append(cfg.SpecialClasses, models.SpecialClass{
			Subject: sc.Subject,
			Day:     sc.Day,
			Start:   sc.Start,
			End:     sc.End,
			Batch:   sc.Batch,
		})
	}
	return cfg
}

// RegenerateTimetableRequest reshuffles a stored configuration. Both
// fields are optional: omitted values fall back to the stored set's count
// and a fresh seed.
type RegenerateTimetableRequest struct {
	Options int    `json:"options" validate:"omitempty,min=1"`
	Seed    *int64 `json:"seed"`
}

// TimetableSummary describes a stored option set.
type TimetableSummary struct {
	ID          string    `json:"id"`
	OptionCount int       `json:"optionCount"`
	Seed        int64     `json:"seed"`
	CreatedAt   time.Time `json:"createdAt"`
	ExpiresAt   time.Time `json:"expiresAt"`
}

// OptionView is one candidate in the requested view mode.
type OptionView struct {
	ID        string                 `json:"id"`
	Option    int                    `json:"option"`
	View      models.ViewMode        `json:"view"`
	Grid      []models.TimeSlot      `json:"grid"`
	Batches   models.BatchSchedule   `json:"batches,omitempty"`
	Faculties models.FacultySchedule `json:"faculties,omitempty"`
}

// TablesView carries formatted tables for one option and view mode.
type TablesView struct {
	ID     string          `json:"id"`
	Option int             `json:"option"`
	View   models.ViewMode `json:"view"`
	Tables []models.Table  `json:"tables"`
}
