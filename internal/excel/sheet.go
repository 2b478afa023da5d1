package excel

import "github.com/xuri/excelize/v2"

// CellRef addresses a cell by sheet name and 1-based row and column.
type CellRef struct {
	Sheet string
	Row   int
	Col   int
}

func NewCellRef(sheet string, row, col int) CellRef {
	return CellRef{Sheet: sheet, Row: row, Col: col}
}

// Name returns the A1-style cell name, e.g. "C2".
func (r CellRef) Name() (string, error) {
	return excelize.CoordinatesToCellName(r.Col, r.Row)
}

// Sheet is an in-memory grid of a worksheet's stored values.
type Sheet struct {
	Name  string
	Index int
	Rows  [][]Value

	maxColumn int
}

func NewSheet(name string, index int, rows [][]Value) *Sheet {
	s := &Sheet{Name: name, Index: index, Rows: rows}
	for _, row := range rows {
		if len(row) > s.maxColumn {
			s.maxColumn = len(row)
		}
	}
	return s
}

// MaxRow is the last populated row, 0 for an empty sheet.
func (s *Sheet) MaxRow() int {
	return len(s.Rows)
}

// MaxColumn is the widest populated row's length.
func (s *Sheet) MaxColumn() int {
	return s.maxColumn
}

// Contains reports whether (row, col) lies inside the populated extent.
func (s *Sheet) Contains(row, col int) bool {
	return row >= 1 && col >= 1 && row <= s.MaxRow() && col <= s.MaxColumn()
}

// Value returns the value at (row, col); cells past the end of a short row are empty.
func (s *Sheet) Value(row, col int) Value {
	if row < 1 || row > len(s.Rows) {
		return Empty()
	}
	cells := s.Rows[row-1]
	if col < 1 || col > len(cells) {
		return Empty()
	}
	return cells[col-1]
}
