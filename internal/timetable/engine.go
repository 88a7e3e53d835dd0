package timetable

import (
	"context"
	"math/rand"
	"sync"

	"github.com/slotforge/timetable-api/internal/models"
)

// FallbackRoom is assigned when the room pool is empty.
const FallbackRoom = "N/A"

// Generate fills every (batch, day, slot) cell of one candidate schedule.
// Special classes are pinned first, then each batch is filled greedily in
// day and slot order. Infeasible cells are left Free; generation never
// fails. All random draws come from rng, so a fixed seed reproduces the
// same schedule for the same config.
func Generate(cfg models.Config, rng *rand.Rand) models.BatchSchedule {
	grid := BuildGrid(cfg.Periods, cfg.Breaks)
	schedule := newBatchSchedule(cfg, grid)

	placeSpecials(schedule, cfg, grid, rng)

	for _, batch := range cfg.Batches {
		fillBatch(schedule[batch.Name], cfg, grid, rng)
	}
	return schedule
}

// GenerateOptions builds n independent candidates concurrently. Each
// candidate draws from its own generator derived from seed, so candidates
// never share RNG state and the whole set is reproducible from one seed.
// On context cancellation it returns nil rather than a partial set.
func GenerateOptions(ctx context.Context, cfg models.Config, n int, seed int64) []models.BatchSchedule {
	if n <= 0 {
		return nil
	}

	options := make([]models.BatchSchedule, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(seed + int64(i)))
			options[i] = Generate(cfg, rng)
		}(i)
	}
	wg.Wait()

	if ctx.Err() != nil {
		return nil
	}
	return options
}

func newBatchSchedule(cfg models.Config, grid []models.TimeSlot) models.BatchSchedule {
	schedule := make(models.BatchSchedule, len(cfg.Batches))
	for _, batch := range cfg.Batches {
		days := make(map[string]models.DaySchedule, len(cfg.Days))
		for _, day := range cfg.Days {
			cells := make(models.DaySchedule, len(grid))
			for _, slot := range grid {
				cells[slot.Index] = models.FreeCell()
			}
			days[day] = cells
		}
		schedule[batch.Name] = days
	}
	return schedule
}

// placeSpecials pins fixed classes into the slot whose interval matches
// exactly. Specials with missing fields or without a matching slot, batch,
// or day are skipped silently. The faculty is the first declared teacher of
// the subject free on that day; specials keep their cell even when no
// faculty matches.
func placeSpecials(schedule models.BatchSchedule, cfg models.Config, grid []models.TimeSlot, rng *rand.Rand) {
	for _, special := range cfg.SpecialClasses {
		if special.Subject == "" || special.Day == "" || special.Start == "" || special.End == "" || special.Batch == "" {
			continue
		}
		slot, ok := findSlot(grid, special.Start, special.End)
		if !ok {
			continue
		}
		days, ok := schedule[special.Batch]
		if !ok {
			continue
		}
		cells, ok := days[special.Day]
		if !ok {
			continue
		}

		cell := models.CellValue{
			Kind:    models.CellAssigned,
			Subject: special.Subject,
			Room:    pickRoom(cfg.Rooms, rng),
		}
		for _, f := range cfg.Faculties {
			if f.Subject == special.Subject && !f.Unavailable(special.Day) {
				cell.Faculty = f.Name
				break
			}
		}
		cells[slot.Index] = cell
	}
}

// fillBatch runs the greedy pass for one batch. The per-subject weekly
// counter spans the whole week; the assigned-count cap applies per day and
// does not include pinned cells.
func fillBatch(days map[string]models.DaySchedule, cfg models.Config, grid []models.TimeSlot, rng *rand.Rand) {
	counts := make(map[string]int, len(cfg.Subjects))

	for _, day := range cfg.Days {
		cells := days[day]
		assignedToday := 0

		for _, slot := range grid {
			if slot.Kind == models.SlotKindBreak {
				cells[slot.Index] = models.BreakCell()
				continue
			}
			if assignedToday >= cfg.MaxClassesPerDay {
				continue
			}
			if cells[slot.Index].Kind != models.CellFree {
				continue
			}

			subject, ok := pickSubject(cfg.Subjects, counts, rng)
			if !ok {
				continue
			}
			faculty, ok := pickFaculty(cfg.Faculties, subject.Name, day, rng)
			if !ok {
				// Slot stays open; the subject counter is untouched so the
				// quota can still be met elsewhere.
				continue
			}

			cells[slot.Index] = models.CellValue{
				Kind:    models.CellAssigned,
				Subject: subject.Name,
				Room:    pickRoom(cfg.Rooms, rng),
				Faculty: faculty.Name,
			}
			counts[subject.Name]++
			assignedToday++
		}
	}
}

func findSlot(grid []models.TimeSlot, start, end string) (models.TimeSlot, bool) {
	for _, slot := range grid {
		if slot.Start == start && slot.End == end {
			return slot, true
		}
	}
	return models.TimeSlot{}, false
}

func pickSubject(subjects []models.Subject, counts map[string]int, rng *rand.Rand) (models.Subject, bool) {
	open := make([]models.Subject, 0, len(subjects))
	for _, s := range subjects {
		if counts[s.Name] < s.ClassesPerWeek {
			open = append(open, s)
		}
	}
	if len(open) == 0 {
		return models.Subject{}, false
	}
	return open[rng.Intn(len(open))], true
}

func pickFaculty(faculties []models.Faculty, subject, day string, rng *rand.Rand) (models.Faculty, bool) {
	available := make([]models.Faculty, 0, len(faculties))
	for _, f := range faculties {
		if f.Subject == subject && !f.Unavailable(day) {
			available = append(available, f)
		}
	}
	if len(available) == 0 {
		return models.Faculty{}, false
	}
	return available[rng.Intn(len(available))], true
}

func pickRoom(rooms []models.Room, rng *rand.Rand) string {
	if len(rooms) == 0 {
		return FallbackRoom
	}
	return rooms[rng.Intn(len(rooms))].Name
}
