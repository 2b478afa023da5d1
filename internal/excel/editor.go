package excel

import (
	"errors"
	"fmt"

	"github.com/xuri/excelize/v2"
)

var ErrNoFilePath = errors.New("no filepath specified, use SaveAs instead")

type Editor struct {
	file       *excelize.File
	filepath   string
	styleCache map[string]int // "<base style>|<color>" → highlighted style ID
}

// OpenFile opens an existing Excel file
func OpenFile(filepath string) (*Editor, error) {
	file, err := excelize.OpenFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	return NewEditor(file, filepath), nil
}

// NewEditor wraps an already opened workbook. filepath may be empty.
func NewEditor(file *excelize.File, filepath string) *Editor {
	return &Editor{
		file:       file,
		filepath:   filepath,
		styleCache: make(map[string]int),
	}
}

func (e *Editor) Path() string {
	return e.filepath
}

// GetSheetNames returns all sheet names in workbook order
func (e *Editor) GetSheetNames() []string {
	return e.file.GetSheetList()
}

func (e *Editor) HasSheet(name string) bool {
	index, err := e.file.GetSheetIndex(name)
	return err == nil && index >= 0
}

// EnsureSheet returns without changes when the sheet exists and appends a
// new empty sheet otherwise.
func (e *Editor) EnsureSheet(name string) (bool, error) {
	if e.HasSheet(name) {
		return false, nil
	}
	if _, err := e.file.NewSheet(name); err != nil {
		return false, fmt.Errorf("failed to create sheet %q: %w", name, err)
	}
	return true, nil
}

// ReadSheet loads every stored value of a sheet into memory.
func (e *Editor) ReadSheet(name string) (*Sheet, error) {
	index, err := e.file.GetSheetIndex(name)
	if err != nil {
		return nil, fmt.Errorf("failed to find sheet %q: %w", name, err)
	}

	rows, err := e.file.GetRows(name, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to get rows of sheet %q: %w", name, err)
	}

	values := make([][]Value, len(rows))
	for r, row := range rows {
		values[r] = make([]Value, len(row))
		for c, raw := range row {
			v, err := e.readValue(name, r+1, c+1, raw)
			if err != nil {
				return nil, err
			}
			values[r][c] = v
		}
	}
	return NewSheet(name, index, values), nil
}

// GetValue reads a single typed value.
func (e *Editor) GetValue(sheet string, row, col int) (Value, error) {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return Value{}, err
	}
	raw, err := e.file.GetCellValue(sheet, cell, excelize.Options{RawCellValue: true})
	if err != nil {
		return Value{}, fmt.Errorf("failed to get value of %s!%s: %w", sheet, cell, err)
	}
	return e.readValue(sheet, row, col, raw)
}

func (e *Editor) readValue(sheet string, row, col int, raw string) (Value, error) {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return Value{}, err
	}

	formula, err := e.file.GetCellFormula(sheet, cell)
	if err != nil {
		return Value{}, fmt.Errorf("failed to get formula of %s!%s: %w", sheet, cell, err)
	}

	cellType := excelize.CellTypeUnset
	if raw != "" {
		cellType, err = e.file.GetCellType(sheet, cell)
		if err != nil {
			return Value{}, fmt.Errorf("failed to get type of %s!%s: %w", sheet, cell, err)
		}
	}
	return decodeValue(cellType, raw, formula), nil
}

// SetValue writes a typed value; formulas are written back as formulas.
func (e *Editor) SetValue(sheet string, row, col int, v Value) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	if v.Kind == KindFormula {
		return e.file.SetCellFormula(sheet, cell, v.Str)
	}
	return e.file.SetCellValue(sheet, cell, v.Native())
}

// Save saves the Excel file to the original filepath
func (e *Editor) Save() error {
	if e.filepath == "" {
		return ErrNoFilePath
	}
	return e.file.SaveAs(e.filepath)
}

// SaveAs saves the Excel file with a new name
func (e *Editor) SaveAs(filepath string) error {
	e.filepath = filepath
	return e.file.SaveAs(filepath)
}

// Close closes the Excel file
func (e *Editor) Close() error {
	return e.file.Close()
}
