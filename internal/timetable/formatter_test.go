package timetable

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slotforge/timetable-api/internal/models"
)

func TestFormatBatchTablesLayout(t *testing.T) {
	cfg := baseConfig()
	grid := BuildGrid(cfg.Periods, cfg.Breaks)
	schedule := Generate(cfg, rand.New(rand.NewSource(12)))

	tables := FormatBatchTables(schedule, cfg, grid)
	require.Len(t, tables, len(cfg.Batches))

	for i, table := range tables {
		assert.Equal(t, cfg.Batches[i].Name, table.Title)
		require.Len(t, table.Header, len(grid)+1)
		assert.Equal(t, "Day", table.Header[0])
		assert.Equal(t, "9:00 AM - 10:00 AM", table.Header[1])

		require.Len(t, table.Rows, len(cfg.Days))
		for j, row := range table.Rows {
			assert.Equal(t, cfg.Days[j], row[0])
			require.Len(t, row, len(grid)+1)
		}
	}
}

func TestFormatBatchTablesBreakColumnConstant(t *testing.T) {
	cfg := baseConfig()
	grid := BuildGrid(cfg.Periods, cfg.Breaks)
	schedule := Generate(cfg, rand.New(rand.NewSource(12)))

	breakCol := -1
	for i, slot := range grid {
		if slot.Kind == models.SlotKindBreak {
			breakCol = i + 1
		}
	}
	require.Positive(t, breakCol)

	for _, table := range FormatBatchTables(schedule, cfg, grid) {
		for _, row := range table.Rows {
			assert.Equal(t, "BREAK", row[breakCol])
		}
	}
}

func TestFormatBatchCellText(t *testing.T) {
	assert.Equal(t, "FREE", batchCellText(models.FreeCell()))
	assert.Equal(t, "BREAK", batchCellText(models.BreakCell()))
	assert.Equal(t, "Math (R1) - Dr. A", batchCellText(models.CellValue{
		Kind: models.CellAssigned, Subject: "Math", Room: "R1", Faculty: "Dr. A",
	}))
	assert.Equal(t, "Math (R1)", batchCellText(models.CellValue{
		Kind: models.CellAssigned, Subject: "Math", Room: "R1",
	}))
}

func TestFormatFacultyTables(t *testing.T) {
	cfg := baseConfig()
	grid := BuildGrid(cfg.Periods, cfg.Breaks)
	schedule := Generate(cfg, rand.New(rand.NewSource(12)))
	projection := ProjectFaculty(schedule, cfg, grid)

	tables := FormatFacultyTables(projection, cfg, grid)
	require.Len(t, tables, len(cfg.Faculties))
	for i, table := range tables {
		assert.Equal(t, cfg.Faculties[i].Name, table.Title)
	}

	assert.Equal(t, "Math - B1", facultyCellText(models.CellValue{
		Kind: models.CellAssigned, Subject: "Math", Batch: "B1",
	}))
	assert.Equal(t, "FREE", facultyCellText(models.CellValue{}))
}

func TestFormatTablesWithMissingScheduleData(t *testing.T) {
	cfg := baseConfig()
	grid := BuildGrid(cfg.Periods, cfg.Breaks)

	// A batch with no schedule entry still renders a full grid of FREE cells.
	tables := FormatBatchTables(models.BatchSchedule{}, cfg, grid)
	require.Len(t, tables, len(cfg.Batches))
	for _, table := range tables {
		for _, row := range table.Rows {
			for i, slot := range grid {
				want := "FREE"
				if slot.Kind == models.SlotKindBreak {
					want = "BREAK"
				}
				assert.Equal(t, want, row[i+1])
			}
		}
	}
}
