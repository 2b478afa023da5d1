// Package compare diffs the sheets of a workbook against each other and
// writes the mismatches into a highlighted differences sheet.
package compare

import (
	"fmt"
	"sheetDiff/internal/excel"
	"sheetDiff/internal/logger"
	"time"
)

const (
	DefaultDifferencesSheet = "Differences"
	DefaultHighlightColor   = "FFA500"
)

type Options struct {
	DifferencesSheet string
	HighlightColor   string
	SheetFilter      string
}

func DefaultOptions() Options {
	return Options{
		DifferencesSheet: DefaultDifferencesSheet,
		HighlightColor:   DefaultHighlightColor,
	}
}

func (o Options) withDefaults() Options {
	if o.DifferencesSheet == "" {
		o.DifferencesSheet = DefaultDifferencesSheet
	}
	if o.HighlightColor == "" {
		o.HighlightColor = DefaultHighlightColor
	}
	return o
}

// CompareSheets compares every sheet of the workbook at path, saves the
// result over the same file and prints a confirmation line.
func CompareSheets(path string) error {
	if _, err := CompareFile(path, DefaultOptions()); err != nil {
		return err
	}
	fmt.Printf("Differences highlighted in orange and saved in %s\n", path)
	return nil
}

// CompareFile opens the workbook, runs the comparison and saves it in place.
func CompareFile(path string, opts Options) (*Report, error) {
	editor, err := excel.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer editor.Close()

	report, err := Run(editor, opts)
	if err != nil {
		return nil, err
	}

	if err := editor.Save(); err != nil {
		logger.Error("Failed to save workbook", "file", path, "error", err)
		return nil, fmt.Errorf("failed to save workbook: %w", err)
	}
	logger.Info("Saved workbook", "file", path)
	return report, nil
}

// Run compares the data sheets of an open workbook and writes the
// differences sheet in memory. Saving is left to the caller.
//
// Every data sheet is compared against every other one, so a mismatch
// between A and B is written once for (A, B) and again for (B, A); the
// later write wins. The second value of a pair always lands one column to
// the right of the first, whichever sheet it came from.
func Run(e *excel.Editor, opts Options) (*Report, error) {
	opts = opts.withDefaults()
	start := time.Now()

	filter, err := NewSheetFilter(opts.SheetFilter)
	if err != nil {
		return nil, err
	}

	var sheets []*excel.Sheet
	for _, name := range e.GetSheetNames() {
		if name == opts.DifferencesSheet {
			continue
		}
		sheet, err := e.ReadSheet(name)
		if err != nil {
			return nil, err
		}
		matched, err := filter.Match(sheet)
		if err != nil {
			return nil, err
		}
		if !matched {
			logger.Debug("Sheet excluded by filter", "sheet", name)
			continue
		}
		sheets = append(sheets, sheet)
	}

	created, err := e.EnsureSheet(opts.DifferencesSheet)
	if err != nil {
		return nil, err
	}

	report := &Report{
		File:             e.Path(),
		DifferencesSheet: opts.DifferencesSheet,
		CreatedSheet:     created,
	}
	for _, s := range sheets {
		report.DataSheets = append(report.DataSheets, s.Name)
	}

	logger.Info("Starting comparison",
		"file", e.Path(),
		"data_sheets", len(sheets),
		"differences_sheet", opts.DifferencesSheet,
		"created_sheet", created)

	if len(sheets) == 0 {
		logger.Warn("No data sheets to compare", "file", e.Path())
		return report, nil
	}

	c := &comparator{
		editor: e,
		sheet:  opts.DifferencesSheet,
		color:  opts.HighlightColor,
		report: report,
	}

	if err := c.copyHeaders(sheets[0]); err != nil {
		return nil, err
	}

	for _, s := range sheets {
		for row := 2; row <= s.MaxRow(); row++ {
			for col := 1; col <= s.MaxColumn(); col++ {
				v := s.Value(row, col)

				for _, t := range sheets {
					if t == s || !t.Contains(row, col) {
						continue
					}
					w := t.Value(row, col)
					if v.Equal(w) {
						continue
					}
					if err := c.record(s, t, row, col, v, w); err != nil {
						return nil, err
					}
				}
			}
		}
	}

	logger.Info("Comparison completed",
		"file", e.Path(),
		"header_cells", len(report.Headers),
		"differences", len(report.Differences),
		"duration", time.Since(start))
	return report, nil
}

type comparator struct {
	editor *excel.Editor
	sheet  string
	color  string
	report *Report
}

// copyHeaders writes row 1 of the first data sheet into the differences sheet.
func (c *comparator) copyHeaders(first *excel.Sheet) error {
	for col := 1; col <= first.MaxColumn(); col++ {
		v := first.Value(1, col)
		if err := c.write(excel.NewCellRef(first.Name, 1, col), 1, col, v); err != nil {
			return fmt.Errorf("failed to copy header %d: %w", col, err)
		}
		c.report.Headers = append(c.report.Headers, v)
	}
	return nil
}

func (c *comparator) record(s, t *excel.Sheet, row, col int, v, w excel.Value) error {
	if err := c.write(excel.NewCellRef(s.Name, row, col), row, col, v); err != nil {
		return err
	}
	if err := c.write(excel.NewCellRef(t.Name, row, col), row, col+1, w); err != nil {
		return err
	}

	d := Difference{Sheet: s.Name, Other: t.Name, Row: row, Col: col, Value: v, OtherValue: w}
	c.report.Differences = append(c.report.Differences, d)

	logger.Debug("Difference found",
		"cell", d.Cell(),
		"sheet", s.Name,
		"other", t.Name,
		"value", v.String(),
		"other_value", w.String())
	return nil
}

// write stores v at (row, col) of the differences sheet, formatted like src.
// An empty v leaves whatever the cell already holds and only restyles it.
func (c *comparator) write(src excel.CellRef, row, col int, v excel.Value) error {
	if !v.IsEmpty() {
		if err := c.editor.SetValue(c.sheet, row, col, v); err != nil {
			return fmt.Errorf("failed to write %s row %d column %d: %w", c.sheet, row, col, err)
		}
	}
	if err := c.editor.ReplicateFormat(src, excel.NewCellRef(c.sheet, row, col), c.color); err != nil {
		return fmt.Errorf("failed to format %s row %d column %d: %w", c.sheet, row, col, err)
	}
	return nil
}
