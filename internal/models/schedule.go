package models

// CellKind tags the state of one (day, slot) cell.
type CellKind string

const (
	CellFree     CellKind = "FREE"
	CellBreak    CellKind = "BREAK"
	CellAssigned CellKind = "ASSIGNED"
)

// CellValue is the structured content of a timetable cell. Faculty may be
// empty for pinned specials with no matching teacher; Batch is filled only
// in the faculty-oriented view, Room only in the batch-oriented view.
type CellValue struct {
	Kind    CellKind `json:"kind"`
	Subject string   `json:"subject,omitempty"`
	Room    string   `json:"room,omitempty"`
	Faculty string   `json:"faculty,omitempty"`
	Batch   string   `json:"batch,omitempty"`
}

// FreeCell returns the cell every slot starts from.
func FreeCell() CellValue { return CellValue{Kind: CellFree} }

// BreakCell marks a slot as a break.
func BreakCell() CellValue { return CellValue{Kind: CellBreak} }

// DaySchedule maps slot index -> cell.
type DaySchedule map[string]CellValue

// BatchSchedule maps batch name -> day -> slot index -> cell.
type BatchSchedule map[string]map[string]DaySchedule

// FacultySchedule maps faculty name -> day -> slot index -> cell.
type FacultySchedule map[string]map[string]DaySchedule

// ViewMode selects between the batch-oriented and faculty-oriented views.
type ViewMode string

const (
	ViewStudent ViewMode = "student"
	ViewFaculty ViewMode = "faculty"
)

// Valid reports whether the mode is one of the supported views.
func (m ViewMode) Valid() bool {
	return m == ViewStudent || m == ViewFaculty
}

// TimetableOption is one independently generated candidate plus its
// derived faculty projection.
type TimetableOption struct {
	Index     int             `json:"index"`
	Batches   BatchSchedule   `json:"batches"`
	Faculties FacultySchedule `json:"faculties"`
}

// Table is a rendered day-by-slot view: a header of time ranges and one
// row per selected day, first column the day name.
type Table struct {
	Title  string     `json:"title"`
	Header []string   `json:"header"`
	Rows   [][]string `json:"rows"`
}
