// Package export renders timetable sheets into downloadable documents.
package export

// Sheet is one labeled table: a header row plus data rows.
type Sheet struct {
	Name   string
	Header []string
	Rows   [][]string
}

// Workbook is an ordered collection of sheets, one per batch or faculty.
type Workbook struct {
	Sheets []Sheet
}
