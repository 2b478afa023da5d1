package excel

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

type sheetFixture struct {
	name string
	rows [][]any
}

// writeWorkbook saves the given sheets, in order, to dir/name and returns the path.
// A nil entry in a row leaves that cell untouched.
func writeWorkbook(t *testing.T, dir, name string, sheets ...sheetFixture) string {
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

	path := filepath.Join(dir, name)
	require.NoError(t, f.SaveAs(path))
	return path
}

// openWorkbook opens path and closes it when the test ends.
func openWorkbook(t *testing.T, path string) *Editor {
	t.Helper()
	e, err := OpenFile(path)
	require.NoError(t, err)
	t.Cleanup(func() { e.Close() })
	return e
}
