package compare

import (
	"path/filepath"
	"strings"
	"testing"

	"sheetDiff/internal/excel"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

type sheetFixture struct {
	name string
	rows [][]any
}

// writeWorkbook saves the given sheets, in order, into a fresh temp dir and
// returns the file path. nil cells are left unset.
func writeWorkbook(t *testing.T, sheets ...sheetFixture) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	for i, s := range sheets {
		if i == 0 {
			require.NoError(t, f.SetSheetName("Sheet1", s.name))
		} else {
			_, err := f.NewSheet(s.name)
			require.NoError(t, err)
		}
		for r, row := range s.rows {
			for c, v := range row {
				if v == nil {
					continue
				}
				cell, err := excelize.CoordinatesToCellName(c+1, r+1)
				require.NoError(t, err)
				require.NoError(t, f.SetCellValue(s.name, cell, v))
			}
		}
	}

	path := filepath.Join(t.TempDir(), "book.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func openEditor(t *testing.T, path string) *excel.Editor {
	t.Helper()
	e, err := excel.OpenFile(path)
	require.NoError(t, err)
	t.Cleanup(func() { e.Close() })
	return e
}

func valueAt(t *testing.T, e *excel.Editor, sheet string, row, col int) excel.Value {
	t.Helper()
	v, err := e.GetValue(sheet, row, col)
	require.NoError(t, err)
	return v
}

func isHighlighted(t *testing.T, e *excel.Editor, sheet string, row, col int) bool {
	t.Helper()
	s, err := e.CellStyle(excel.NewCellRef(sheet, row, col))
	require.NoError(t, err)
	if s.Fill.Pattern != 1 || len(s.Fill.Color) == 0 {
		return false
	}
	return strings.HasSuffix(strings.ToUpper(s.Fill.Color[0]), DefaultHighlightColor)
}

func sheetRows(t *testing.T, path, sheet string) [][]string {
	t.Helper()
	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows(sheet)
	require.NoError(t, err)
	return rows
}
