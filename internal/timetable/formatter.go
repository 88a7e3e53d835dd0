package timetable

import (
	"fmt"

	"github.com/slotforge/timetable-api/internal/models"
)

// FormatBatchTables renders one table per batch: a header of 12-hour time
// ranges and one row per selected day. Break columns always read "BREAK"
// whatever the cell holds; empty cells read "FREE".
func FormatBatchTables(schedule models.BatchSchedule, cfg models.Config, grid []models.TimeSlot) []models.Table {
	tables := make([]models.Table, 0, len(cfg.Batches))
	for _, batch := range cfg.Batches {
		tables = append(tables, formatTable(batch.Name, schedule[batch.Name], cfg.Days, grid, batchCellText))
	}
	return tables
}

// FormatFacultyTables renders one table per faculty in the same layout,
// with the batch as the contextual detail instead of the room.
func FormatFacultyTables(projection models.FacultySchedule, cfg models.Config, grid []models.TimeSlot) []models.Table {
	tables := make([]models.Table, 0, len(cfg.Faculties))
	for _, f := range cfg.Faculties {
		tables = append(tables, formatTable(f.Name, projection[f.Name], cfg.Days, grid, facultyCellText))
	}
	return tables
}

func formatTable(title string, days map[string]models.DaySchedule, selectedDays []string, grid []models.TimeSlot, cellText func(models.CellValue) string) models.Table {
	header := make([]string, 0, len(grid)+1)
	header = append(header, "Day")
	for _, slot := range grid {
		header = append(header, FormatTimeRange(slot))
	}

	rows := make([][]string, 0, len(selectedDays))
	for _, day := range selectedDays {
		row := make([]string, 0, len(grid)+1)
		row = append(row, day)
		for _, slot := range grid {
			if slot.Kind == models.SlotKindBreak {
				row = append(row, "BREAK")
				continue
			}
			var cell models.CellValue
			if days != nil {
				cell = days[day][slot.Index]
			}
			row = append(row, cellText(cell))
		}
		rows = append(rows, row)
	}

	return models.Table{Title: title, Header: header, Rows: rows}
}

func batchCellText(cell models.CellValue) string {
	switch cell.Kind {
	case models.CellBreak:
		return "BREAK"
	case models.CellAssigned:
		if cell.Faculty == "" {
			return fmt.Sprintf("%s (%s)", cell.Subject, cell.Room)
		}
		return fmt.Sprintf("%s (%s) - %s", cell.Subject, cell.Room, cell.Faculty)
	default:
		return "FREE"
	}
}

func facultyCellText(cell models.CellValue) string {
	switch cell.Kind {
	case models.CellBreak:
		return "BREAK"
	case models.CellAssigned:
		return fmt.Sprintf("%s - %s", cell.Subject, cell.Batch)
	default:
		return "FREE"
	}
}
