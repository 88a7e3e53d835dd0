package models

// SlotKind distinguishes teaching periods from breaks inside the grid.
type SlotKind string

const (
	SlotKindPeriod SlotKind = "PERIOD"
	SlotKindBreak  SlotKind = "BREAK"
)

// Interval is a raw start/end pair in 24-hour "HH:MM" notation.
type Interval struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// TimeSlot is one indexed entry of the merged time grid. Index is stable
// within a grid: the caller's key for periods, "B1".."Bn" for breaks.
type TimeSlot struct {
	Kind  SlotKind `json:"kind"`
	Index string   `json:"index"`
	Start string   `json:"start"`
	End   string   `json:"end"`
}

// Subject is a catalogue entry with its weekly quota.
type Subject struct {
	Name           string `json:"name"`
	ClassesPerWeek int    `json:"classesPerWeek"`
}

// Faculty teaches exactly one subject and may be unavailable on whole days.
type Faculty struct {
	Name            string   `json:"name"`
	Subject         string   `json:"subject"`
	UnavailableDays []string `json:"unavailableDays,omitempty"`
}

// Unavailable reports whether the faculty cannot teach on the given day.
func (f Faculty) Unavailable(day string) bool {
	for _, d := range f.UnavailableDays {
		if d == day {
			return true
		}
	}
	return false
}

// Room is a plain room label; capacity is not tracked.
type Room struct {
	Name string `json:"name"`
}

// Batch is one student cohort sharing a timetable.
type Batch struct {
	Name string `json:"name"`
}

// SpecialClass pins a subject to a fixed batch/day/time before greedy filling.
type SpecialClass struct {
	Subject string `json:"subject"`
	Day     string `json:"day"`
	Start   string `json:"start"`
	End     string `json:"end"`
	Batch   string `json:"batch"`
}

// Config is the immutable input of one generation run. The engine treats it
// as read-only and keeps no state between calls.
type Config struct {
	Days             []string            `json:"days"`
	Periods          map[string]Interval `json:"periods"`
	Breaks           []Interval          `json:"breaks"`
	Subjects         []Subject           `json:"subjects"`
	Faculties        []Faculty           `json:"faculties"`
	Rooms            []Room              `json:"rooms"`
	Batches          []Batch             `json:"batches"`
	SpecialClasses   []SpecialClass      `json:"specialClasses,omitempty"`
	MaxClassesPerDay int                 `json:"maxClassesPerDay"`
}
