package export

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func workbookFixture() Workbook {
	return Workbook{
		Sheets: []Sheet{
			{
				Name:   "B1",
				Header: []string{"Day", "09:00 AM - 10:00 AM", "10:00 AM - 11:00 AM"},
				Rows: [][]string{
					{"Monday", "Math (R1) - Dr. A", "FREE"},
					{"Tuesday", "BREAK", "Physics (R2) - Dr. B"},
				},
			},
			{
				Name:   "B2",
				Header: []string{"Day", "09:00 AM - 10:00 AM", "10:00 AM - 11:00 AM"},
				Rows: [][]string{
					{"Monday", "FREE", "Math (R1) - Dr. A"},
				},
			},
		},
	}
}

func TestCSVExporterRendersSheetsInSequence(t *testing.T) {
	payload, err := NewCSVExporter().Render(workbookFixture())
	require.NoError(t, err)

	content := string(payload)
	assert.Contains(t, content, "B1\n")
	assert.Contains(t, content, "B2\n")
	assert.Contains(t, content, "Monday,Math (R1) - Dr. A,FREE")
	assert.Less(t, strings.Index(content, "B1"), strings.Index(content, "B2"))
}

func TestCSVExporterRejectsEmptyWorkbook(t *testing.T) {
	_, err := NewCSVExporter().Render(Workbook{})
	require.Error(t, err)
}

func TestXLSXExporterOneWorksheetPerSheet(t *testing.T) {
	payload, err := NewXLSXExporter().Render(workbookFixture())
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(payload))
	require.NoError(t, err)
	defer f.Close() //nolint:errcheck

	assert.Equal(t, []string{"B1", "B2"}, f.GetSheetList())

	value, err := f.GetCellValue("B1", "A1")
	require.NoError(t, err)
	assert.Equal(t, "Day", value)

	value, err = f.GetCellValue("B1", "B2")
	require.NoError(t, err)
	assert.Equal(t, "Math (R1) - Dr. A", value)
}

func TestXLSXExporterKeepsSheetNamedLikeDefault(t *testing.T) {
	wb := Workbook{
		Sheets: []Sheet{
			{
				Name:   "Sheet1",
				Header: []string{"Day", "09:00 AM - 10:00 AM"},
				Rows:   [][]string{{"Monday", "Math (R1) - Dr. A"}},
			},
			{
				Name:   "B2",
				Header: []string{"Day", "09:00 AM - 10:00 AM"},
				Rows:   [][]string{{"Monday", "FREE"}},
			},
		},
	}

	payload, err := NewXLSXExporter().Render(wb)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(payload))
	require.NoError(t, err)
	defer f.Close() //nolint:errcheck

	require.Equal(t, []string{"Sheet1", "B2"}, f.GetSheetList())

	value, err := f.GetCellValue("Sheet1", "A2")
	require.NoError(t, err)
	assert.Equal(t, "Monday", value)
}

func TestXLSXExporterRejectsEmptyWorkbook(t *testing.T) {
	_, err := NewXLSXExporter().Render(Workbook{})
	require.Error(t, err)
}

func TestPDFExporterProducesDocument(t *testing.T) {
	payload, err := NewPDFExporter().Render(workbookFixture())
	require.NoError(t, err)
	require.NotEmpty(t, payload)
	assert.True(t, bytes.HasPrefix(payload, []byte("%PDF")))
}

func TestSheetNameSanitisation(t *testing.T) {
	assert.Equal(t, "B1", sheetName("B1", 0))
	assert.Equal(t, "Batch A B", sheetName("Batch A/B", 0))
	assert.Equal(t, "Sheet3", sheetName("", 2))

	long := strings.Repeat("x", 40)
	assert.Len(t, sheetName(long, 0), 31)
}
