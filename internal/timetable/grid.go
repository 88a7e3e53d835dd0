// Package timetable implements the allocation core: time-grid construction,
// greedy randomized slot filling, the faculty projection of a batch
// schedule, and table formatting for display and export.
package timetable

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/slotforge/timetable-api/internal/models"
)

// BuildGrid merges period and break definitions into one chronologically
// ordered slot sequence. Periods keep their caller-supplied index; breaks
// are labelled B1..Bn in input order. Sorting is stable on start time in
// minutes since midnight, with unparseable starts treated as minute 0.
func BuildGrid(periods map[string]models.Interval, breaks []models.Interval) []models.TimeSlot {
	grid := make([]models.TimeSlot, 0, len(periods)+len(breaks))

	indices := make([]string, 0, len(periods))
	for idx := range periods {
		indices = append(indices, idx)
	}
	sortPeriodIndices(indices)
	for _, idx := range indices {
		p := periods[idx]
		grid = append(grid, models.TimeSlot{
			Kind:  models.SlotKindPeriod,
			Index: idx,
			Start: p.Start,
			End:   p.End,
		})
	}

	for i, b := range breaks {
		grid = append(grid, models.TimeSlot{
			Kind:  models.SlotKindBreak,
			Index: fmt.Sprintf("B%d", i+1),
			Start: b.Start,
			End:   b.End,
		})
	}

	sort.SliceStable(grid, func(i, j int) bool {
		return startMinutes(grid[i].Start) < startMinutes(grid[j].Start)
	})
	return grid
}

// ParseMinutes converts "HH:MM" into minutes since midnight.
func ParseMinutes(t string) (int, bool) {
	parts := strings.SplitN(t, ":", 2)
	if len(parts) != 2 {
		return 0, false
	}
	h, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, false
	}
	m, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, false
	}
	return h*60 + m, true
}

// FormatTime12 renders "HH:MM" in 12-hour notation, e.g. "9:05 AM".
func FormatTime12(t string) string {
	mins, ok := ParseMinutes(t)
	if !ok {
		return ""
	}
	h := mins / 60 % 24
	m := mins % 60
	suffix := "AM"
	if h >= 12 {
		suffix = "PM"
	}
	h = h % 12
	if h == 0 {
		h = 12
	}
	return fmt.Sprintf("%d:%02d %s", h, m, suffix)
}

// FormatTimeRange renders a slot's interval for table headers,
// e.g. "9:00 AM - 10:00 AM".
func FormatTimeRange(slot models.TimeSlot) string {
	return FormatTime12(slot.Start) + " - " + FormatTime12(slot.End)
}

func startMinutes(t string) int {
	mins, ok := ParseMinutes(t)
	if !ok {
		return 0
	}
	return mins
}

// sortPeriodIndices keeps period insertion order deterministic across runs:
// numeric labels sort numerically, the rest lexically after them.
func sortPeriodIndices(indices []string) {
	sort.SliceStable(indices, func(i, j int) bool {
		a, aerr := strconv.Atoi(indices[i])
		b, berr := strconv.Atoi(indices[j])
		switch {
		case aerr == nil && berr == nil:
			return a < b
		case aerr == nil:
			return true
		case berr == nil:
			return false
		default:
			return indices[i] < indices[j]
		}
	})
}
