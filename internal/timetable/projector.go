package timetable

import "github.com/slotforge/timetable-api/internal/models"

// ProjectFaculty derives the per-faculty view from a batch schedule.
// Breaks are global: every faculty sees a break wherever the grid has one.
// Assigned cells carry over as {subject, batch}; the room is dropped.
// Cells whose faculty is absent or unknown update nobody. The projection
// is deterministic given its input.
func ProjectFaculty(schedule models.BatchSchedule, cfg models.Config, grid []models.TimeSlot) models.FacultySchedule {
	projection := make(models.FacultySchedule, len(cfg.Faculties))
	for _, f := range cfg.Faculties {
		days := make(map[string]models.DaySchedule, len(cfg.Days))
		for _, day := range cfg.Days {
			cells := make(models.DaySchedule, len(grid))
			for _, slot := range grid {
				if slot.Kind == models.SlotKindBreak {
					cells[slot.Index] = models.BreakCell()
				} else {
					cells[slot.Index] = models.FreeCell()
				}
			}
			days[day] = cells
		}
		projection[f.Name] = days
	}

	for batchName, days := range schedule {
		for day, cells := range days {
			for index, cell := range cells {
				if cell.Kind != models.CellAssigned || cell.Faculty == "" {
					continue
				}
				facultyDays, ok := projection[cell.Faculty]
				if !ok {
					continue
				}
				facultyDays[day][index] = models.CellValue{
					Kind:    models.CellAssigned,
					Subject: cell.Subject,
					Batch:   batchName,
				}
			}
		}
	}
	return projection
}
