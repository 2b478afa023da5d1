package compare

import (
	"fmt"
	"sheetDiff/internal/excel"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// SheetEnv is what a sheet filter expression can refer to.
type SheetEnv struct {
	Name    string
	Index   int
	Rows    int
	Columns int
}

// SheetFilter decides which sheets take part in a comparison, e.g.
// `Name != "Summary" && Rows > 1`. An empty filter selects every sheet.
type SheetFilter struct {
	source  string
	program *vm.Program
}

func NewSheetFilter(source string) (*SheetFilter, error) {
	source = strings.TrimSpace(source)
	if source == "" {
		return &SheetFilter{}, nil
	}

	program, err := expr.Compile(source, expr.Env(SheetEnv{}), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("invalid sheet filter %q: %w", source, err)
	}
	return &SheetFilter{source: source, program: program}, nil
}

func (f *SheetFilter) Match(sheet *excel.Sheet) (bool, error) {
	if f.program == nil {
		return true, nil
	}

	out, err := expr.Run(f.program, SheetEnv{
		Name:    sheet.Name,
		Index:   sheet.Index,
		Rows:    sheet.MaxRow(),
		Columns: sheet.MaxColumn(),
	})
	if err != nil {
		return false, fmt.Errorf("sheet filter %q failed on sheet %q: %w", f.source, sheet.Name, err)
	}

	matched, ok := out.(bool)
	if !ok {
		return false, fmt.Errorf("sheet filter %q returned %T, want bool", f.source, out)
	}
	return matched, nil
}
