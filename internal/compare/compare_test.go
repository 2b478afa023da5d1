package compare

import (
	"path/filepath"
	"testing"

	"sheetDiff/internal/excel"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestCompareFile_TwoSheetsOneMismatch(t *testing.T) {
	path := writeWorkbook(t,
		sheetFixture{name: "Sheet1", rows: [][]any{{"Name", "Age"}, {"Alice", 30}}},
		sheetFixture{name: "Sheet2", rows: [][]any{{"Name", "Age"}, {"Alice", 31}}},
	)

	report, err := CompareFile(path, DefaultOptions())
	require.NoError(t, err)

	assert.True(t, report.CreatedSheet)
	assert.Equal(t, []string{"Sheet1", "Sheet2"}, report.DataSheets)
	require.Len(t, report.Differences, 2)

	// Sheet1 against Sheet2 first, then the mirrored pair.
	first, second := report.Differences[0], report.Differences[1]
	assert.Equal(t, "Sheet1", first.Sheet)
	assert.Equal(t, "Sheet2", first.Other)
	assert.Equal(t, "B2", first.Cell())
	assert.True(t, excel.Number(30).Equal(first.Value))
	assert.True(t, excel.Number(31).Equal(first.OtherValue))
	assert.Equal(t, "Sheet2", second.Sheet)
	assert.True(t, excel.Number(31).Equal(second.Value))
	assert.True(t, excel.Number(30).Equal(second.OtherValue))

	e := openEditor(t, path)
	assert.Equal(t, []string{"Sheet1", "Sheet2", "Differences"}, e.GetSheetNames())

	assert.True(t, excel.String("Name").Equal(valueAt(t, e, "Differences", 1, 1)))
	assert.True(t, excel.String("Age").Equal(valueAt(t, e, "Differences", 1, 2)))
	assert.True(t, isHighlighted(t, e, "Differences", 1, 1))
	assert.True(t, isHighlighted(t, e, "Differences", 1, 2))

	// The (Sheet2, Sheet1) pass overwrote the (Sheet1, Sheet2) pass.
	assert.True(t, excel.Number(31).Equal(valueAt(t, e, "Differences", 2, 2)))
	assert.True(t, excel.Number(30).Equal(valueAt(t, e, "Differences", 2, 3)))
	assert.True(t, isHighlighted(t, e, "Differences", 2, 2))
	assert.True(t, isHighlighted(t, e, "Differences", 2, 3))

	assert.True(t, valueAt(t, e, "Differences", 2, 1).IsEmpty(), "equal values are not written")
}

func TestCompareFile_IdenticalSheetsOnlyCopyHeader(t *testing.T) {
	rows := [][]any{{"Name", "Age", "City"}, {"Alice", 30, "Oslo"}, {"Bob", 41, "Rome"}}
	path := writeWorkbook(t,
		sheetFixture{name: "A", rows: rows},
		sheetFixture{name: "B", rows: rows},
		sheetFixture{name: "C", rows: rows},
	)

	report, err := CompareFile(path, DefaultOptions())
	require.NoError(t, err)
	assert.Empty(t, report.Differences)
	assert.Len(t, report.Headers, 3)

	assert.Equal(t, [][]string{{"Name", "Age", "City"}}, sheetRows(t, path, "Differences"))

	e := openEditor(t, path)
	for col := 1; col <= 3; col++ {
		assert.True(t, isHighlighted(t, e, "Differences", 1, col), "header column %d", col)
	}
}

func TestCompareFile_OutOfExtentIsSkipped(t *testing.T) {
	path := writeWorkbook(t,
		sheetFixture{name: "Wide", rows: [][]any{{"A", "B", "C"}, {1, 2, 3}, {4, 5, 6}}},
		sheetFixture{name: "Narrow", rows: [][]any{{"A", "B"}, {1, 2}}},
	)

	report, err := CompareFile(path, DefaultOptions())
	require.NoError(t, err)
	assert.Empty(t, report.Differences, "column C and row 3 lie outside Narrow's extent")

	assert.Equal(t, [][]string{{"A", "B", "C"}}, sheetRows(t, path, "Differences"))
}

func TestCompareFile_MissingCellInsideExtent(t *testing.T) {
	path := writeWorkbook(t,
		sheetFixture{name: "Full", rows: [][]any{{"H1", "H2"}, {"x", "y"}}},
		sheetFixture{name: "Gappy", rows: [][]any{{"H1", "H2"}, {"x"}}},
	)

	report, err := CompareFile(path, DefaultOptions())
	require.NoError(t, err)
	require.Len(t, report.Differences, 2)
	assert.True(t, excel.String("y").Equal(report.Differences[0].Value))
	assert.True(t, report.Differences[0].OtherValue.IsEmpty())

	// the blank side of each pair is never written, so both cells keep "y"
	e := openEditor(t, path)
	assert.True(t, excel.String("y").Equal(valueAt(t, e, "Differences", 2, 2)))
	assert.True(t, excel.String("y").Equal(valueAt(t, e, "Differences", 2, 3)))
	assert.True(t, isHighlighted(t, e, "Differences", 2, 2))
	assert.True(t, isHighlighted(t, e, "Differences", 2, 3))
}

func TestCompareFile_BlankSideKeepsStaleContent(t *testing.T) {
	path := writeWorkbook(t,
		sheetFixture{name: "Gappy", rows: [][]any{{"H1", nil}, {"x"}, {"p", "q"}}},
		sheetFixture{name: "Full", rows: [][]any{{"H1", "H2"}, {"x", "y"}, {"p", "q"}}},
		sheetFixture{name: "Differences", rows: [][]any{{nil, "old header"}, {nil, "stale", "stale"}}},
	)

	_, err := CompareFile(path, DefaultOptions())
	require.NoError(t, err)

	e := openEditor(t, path)
	assert.True(t, excel.String("H1").Equal(valueAt(t, e, "Differences", 1, 1)))
	assert.True(t, excel.String("old header").Equal(valueAt(t, e, "Differences", 1, 2)), "blank header cell is not copied")
	assert.True(t, excel.String("y").Equal(valueAt(t, e, "Differences", 2, 2)))
	assert.True(t, excel.String("y").Equal(valueAt(t, e, "Differences", 2, 3)))
}

func TestCompareFile_StaleDifferencesAreKept(t *testing.T) {
	rows := [][]any{{"Name", "Age"}, {"Alice", 30}}
	path := writeWorkbook(t,
		sheetFixture{name: "Sheet1", rows: rows},
		sheetFixture{name: "Sheet2", rows: rows},
		sheetFixture{name: "Differences", rows: [][]any{nil, {nil, "old", "older"}, nil, {nil, nil, nil, "stale"}}},
	)

	report, err := CompareFile(path, DefaultOptions())
	require.NoError(t, err)
	assert.False(t, report.CreatedSheet)
	assert.Empty(t, report.Differences)

	e := openEditor(t, path)
	assert.Equal(t, []string{"Sheet1", "Sheet2", "Differences"}, e.GetSheetNames())
	assert.True(t, excel.String("old").Equal(valueAt(t, e, "Differences", 2, 2)))
	assert.True(t, excel.String("older").Equal(valueAt(t, e, "Differences", 2, 3)))
	assert.True(t, excel.String("stale").Equal(valueAt(t, e, "Differences", 4, 4)))
	assert.True(t, excel.String("Name").Equal(valueAt(t, e, "Differences", 1, 1)))
}

func TestCompareFile_DifferencesSheetIsNeverAnInput(t *testing.T) {
	rows := [][]any{{"Name", "Age"}, {"Alice", 30}, {"Bob", 41}}
	path := writeWorkbook(t,
		sheetFixture{name: "Differences", rows: [][]any{{"junk", "junk", "junk"}, {"x", "y", "z"}, {1, 2, 3}, {4, 5, 6}}},
		sheetFixture{name: "Sheet1", rows: rows},
		sheetFixture{name: "Sheet2", rows: rows},
	)

	for run := 0; run < 2; run++ {
		report, err := CompareFile(path, DefaultOptions())
		require.NoError(t, err)
		assert.Equal(t, []string{"Sheet1", "Sheet2"}, report.DataSheets)
		assert.Empty(t, report.Differences, "run %d", run)
		for _, d := range report.Differences {
			assert.NotEqual(t, "Differences", d.Sheet)
			assert.NotEqual(t, "Differences", d.Other)
		}
	}

	e := openEditor(t, path)
	assert.True(t, excel.String("Name").Equal(valueAt(t, e, "Differences", 1, 1)), "headers come from the first data sheet")
	assert.True(t, excel.String("Age").Equal(valueAt(t, e, "Differences", 1, 2)))
	assert.True(t, excel.String("junk").Equal(valueAt(t, e, "Differences", 1, 3)), "untouched cells keep their content")
}

func TestCompareFile_HeaderCopyIsIdempotent(t *testing.T) {
	path := writeWorkbook(t,
		sheetFixture{name: "Sheet1", rows: [][]any{{"Name", "Age"}, {"Alice", 30}}},
		sheetFixture{name: "Sheet2", rows: [][]any{{"Name", "Age"}, {"Alice", 31}}},
	)

	_, err := CompareFile(path, DefaultOptions())
	require.NoError(t, err)
	firstRun := sheetRows(t, path, "Differences")[0]

	_, err = CompareFile(path, DefaultOptions())
	require.NoError(t, err)
	secondRun := sheetRows(t, path, "Differences")[0]

	assert.Equal(t, firstRun, secondRun)
	assert.Equal(t, []string{"Name", "Age"}, secondRun[:2])

	e := openEditor(t, path)
	assert.True(t, isHighlighted(t, e, "Differences", 1, 1))
	assert.True(t, isHighlighted(t, e, "Differences", 1, 2))
}

func TestCompareFile_ThreeWayDisagreementCollides(t *testing.T) {
	path := writeWorkbook(t,
		sheetFixture{name: "S1", rows: [][]any{{"K", "V"}, {"k", 1}}},
		sheetFixture{name: "S2", rows: [][]any{{"K", "V"}, {"k", 2}}},
		sheetFixture{name: "S3", rows: [][]any{{"K", "V"}, {"k", 3}}},
	)

	report, err := CompareFile(path, DefaultOptions())
	require.NoError(t, err)
	assert.Len(t, report.Differences, 6, "every ordered pair of sheets writes once")

	e := openEditor(t, path)
	assert.True(t, excel.Number(3).Equal(valueAt(t, e, "Differences", 2, 2)))
	assert.True(t, excel.Number(2).Equal(valueAt(t, e, "Differences", 2, 3)))

	final := report.Final()
	require.Len(t, final, 4)
	assert.Equal(t, WrittenCell{Row: 2, Col: 2, Value: excel.Number(3), Source: "S3"}, final[2])
	assert.Equal(t, WrittenCell{Row: 2, Col: 3, Value: excel.Number(2), Source: "S2"}, final[3])
}

func TestCompareFile_CopiesSourceFormat(t *testing.T) {
	f := excelize.NewFile()
	require.NoError(t, f.SetSheetName("Sheet1", "Old"))
	_, err := f.NewSheet("New")
	require.NoError(t, err)
	for _, s := range []string{"Old", "New"} {
		require.NoError(t, f.SetSheetRow(s, "A1", &[]any{"Item", "Price"}))
	}
	require.NoError(t, f.SetCellValue("Old", "B2", 9.5))
	require.NoError(t, f.SetCellValue("New", "B2", 10.25))
	money, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}, NumFmt: 4})
	require.NoError(t, err)
	require.NoError(t, f.SetCellStyle("Old", "B2", "B2", money))
	path := filepath.Join(t.TempDir(), "prices.xlsx")
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	_, err = CompareFile(path, DefaultOptions())
	require.NoError(t, err)

	e := openEditor(t, path)
	// Last pass is (New, Old): C2 holds Old's value with Old's formatting.
	assert.True(t, excel.Number(9.5).Equal(valueAt(t, e, "Differences", 2, 3)))
	style, err := e.CellStyle(excel.NewCellRef("Differences", 2, 3))
	require.NoError(t, err)
	require.NotNil(t, style.Font)
	assert.True(t, style.Font.Bold)
	assert.Equal(t, 4, style.NumFmt)
	assert.True(t, isHighlighted(t, e, "Differences", 2, 3))
}

func TestRun_OnlyDifferencesSheet(t *testing.T) {
	path := writeWorkbook(t, sheetFixture{name: "Differences", rows: [][]any{{"x"}}})
	e := openEditor(t, path)

	report, err := Run(e, DefaultOptions())
	require.NoError(t, err)
	assert.Empty(t, report.DataSheets)
	assert.Empty(t, report.Headers)
	assert.Empty(t, report.Differences)
}

func TestRun_CustomSheetNameAndColor(t *testing.T) {
	path := writeWorkbook(t,
		sheetFixture{name: "A", rows: [][]any{{"h"}, {1}}},
		sheetFixture{name: "B", rows: [][]any{{"h"}, {2}}},
	)
	e := openEditor(t, path)

	report, err := Run(e, Options{DifferencesSheet: "Delta", HighlightColor: "FFFF00"})
	require.NoError(t, err)
	assert.Equal(t, "Delta", report.DifferencesSheet)
	assert.Len(t, report.Differences, 2)
	assert.Contains(t, e.GetSheetNames(), "Delta")

	style, err := e.CellStyle(excel.NewCellRef("Delta", 2, 1))
	require.NoError(t, err)
	require.NotEmpty(t, style.Fill.Color)
	assert.Contains(t, style.Fill.Color[0], "FFFF00")
}

func TestCompareFile_MissingFile(t *testing.T) {
	_, err := CompareFile(filepath.Join(t.TempDir(), "nope.xlsx"), DefaultOptions())
	assert.Error(t, err)
}

func TestCompareSheets(t *testing.T) {
	path := writeWorkbook(t,
		sheetFixture{name: "Sheet1", rows: [][]any{{"Name"}, {"a"}}},
		sheetFixture{name: "Sheet2", rows: [][]any{{"Name"}, {"b"}}},
	)
	require.NoError(t, CompareSheets(path))
	assert.Equal(t, [][]string{{"Name"}, {"b", "a"}}, sheetRows(t, path, "Differences"))
}
