package compare

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sheetDiff/internal/excel"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Difference is one mismatching pair written into the differences sheet:
// Value from Sheet at (Row, Col) and OtherValue from Other at (Row, Col+1).
type Difference struct {
	Sheet      string
	Other      string
	Row        int
	Col        int
	Value      excel.Value
	OtherValue excel.Value
}

// Cell is the A1 name of the compared coordinate.
func (d Difference) Cell() string {
	name, _ := excel.NewCellRef(d.Sheet, d.Row, d.Col).Name()
	return name
}

// Report describes what a comparison run wrote, in write order.
type Report struct {
	File             string
	DifferencesSheet string
	CreatedSheet     bool
	DataSheets       []string
	Headers          []excel.Value
	Differences      []Difference
}

// WrittenCell is the content a run left at one differences sheet coordinate.
type WrittenCell struct {
	Row    int
	Col    int
	Value  excel.Value
	Source string
}

// Final replays the run's writes and returns the surviving value of every
// coordinate it set, ordered by row then column. Empty values never
// overwrite, so they only appear as cells the run did not set.
func (r *Report) Final() []WrittenCell {
	type key struct{ row, col int }
	cells := make(map[key]WrittenCell)
	set := func(row, col int, v excel.Value, source string) {
		if v.IsEmpty() {
			return
		}
		cells[key{row, col}] = WrittenCell{Row: row, Col: col, Value: v, Source: source}
	}

	if len(r.DataSheets) > 0 {
		for i, v := range r.Headers {
			set(1, i+1, v, r.DataSheets[0])
		}
	}
	for _, d := range r.Differences {
		set(d.Row, d.Col, d.Value, d.Sheet)
		set(d.Row, d.Col+1, d.OtherValue, d.Other)
	}

	out := make([]WrittenCell, 0, len(cells))
	for _, c := range cells {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Row != out[j].Row {
			return out[i].Row < out[j].Row
		}
		return out[i].Col < out[j].Col
	})
	return out
}

// Export is the serialized form of a Report.
type Export struct {
	File             string               `json:"file" yaml:"file"`
	DifferencesSheet string               `json:"differences_sheet" yaml:"differences_sheet"`
	CreatedSheet     bool                 `json:"created_sheet" yaml:"created_sheet"`
	DataSheets       []string             `json:"data_sheets" yaml:"data_sheets"`
	Headers          []string             `json:"headers" yaml:"headers"`
	Differences      []ExportedDifference `json:"differences" yaml:"differences"`
}

type ExportedDifference struct {
	Cell       string `json:"cell" yaml:"cell"`
	Row        int    `json:"row" yaml:"row"`
	Col        int    `json:"col" yaml:"col"`
	Sheet      string `json:"sheet" yaml:"sheet"`
	Other      string `json:"other" yaml:"other"`
	Value      string `json:"value" yaml:"value"`
	ValueKind  string `json:"value_kind" yaml:"value_kind"`
	OtherValue string `json:"other_value" yaml:"other_value"`
	OtherKind  string `json:"other_kind" yaml:"other_kind"`
}

func (r *Report) Export() *Export {
	out := &Export{
		File:             r.File,
		DifferencesSheet: r.DifferencesSheet,
		CreatedSheet:     r.CreatedSheet,
		DataSheets:       append([]string{}, r.DataSheets...),
		Headers:          make([]string, 0, len(r.Headers)),
		Differences:      make([]ExportedDifference, 0, len(r.Differences)),
	}
	for _, h := range r.Headers {
		out.Headers = append(out.Headers, h.String())
	}
	for _, d := range r.Differences {
		out.Differences = append(out.Differences, ExportedDifference{
			Cell:       d.Cell(),
			Row:        d.Row,
			Col:        d.Col,
			Sheet:      d.Sheet,
			Other:      d.Other,
			Value:      d.Value.String(),
			ValueKind:  d.Value.Kind.String(),
			OtherValue: d.OtherValue.String(),
			OtherKind:  d.OtherValue.Kind.String(),
		})
	}
	return out
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

// SaveToFile writes the report as YAML when path ends in .yaml or .yml and
// as indented JSON otherwise.
func (r *Report) SaveToFile(path string) error {
	var (
		data []byte
		err  error
	)
	if isYAML(path) {
		data, err = yaml.Marshal(r.Export())
	} else {
		data, err = json.MarshalIndent(r.Export(), "", "  ")
	}
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create report directory: %w", err)
		}
	}
	return os.WriteFile(path, data, 0644)
}

// LoadReport reads a report written by SaveToFile.
func LoadReport(path string) (*Export, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var export Export
	if isYAML(path) {
		err = yaml.Unmarshal(data, &export)
	} else {
		err = json.Unmarshal(data, &export)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decode report %s: %w", path, err)
	}
	return &export, nil
}
