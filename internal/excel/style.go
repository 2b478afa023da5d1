package excel

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// Side is one edge of a cell border.
type Side struct {
	Style int
	Color string
}

func (s Side) isSet() bool {
	return s.Style != 0 || s.Color != ""
}

// Border holds every side of a cell border. The diagonal side is drawn in
// the directions flagged by DiagonalUp and DiagonalDown.
type Border struct {
	Left         Side
	Right        Side
	Top          Side
	Bottom       Side
	Diagonal     Side
	DiagonalUp   bool
	DiagonalDown bool
}

// Style is the formatting of a cell apart from its value.
type Style struct {
	Font          *excelize.Font
	Border        Border
	Fill          excelize.Fill
	Alignment     *excelize.Alignment
	Protection    *excelize.Protection
	NumFmt        int
	DecimalPlaces *int
	CustomNumFmt  *string
	NegRed        bool
}

// FromExcelize converts an excelize style definition into a Style.
func FromExcelize(s *excelize.Style) Style {
	if s == nil {
		return Style{}
	}

	out := Style{
		Fill:   s.Fill,
		NumFmt: s.NumFmt,
		NegRed: s.NegRed,
	}
	if s.Font != nil {
		font := *s.Font
		out.Font = &font
	}
	if s.Alignment != nil {
		alignment := *s.Alignment
		out.Alignment = &alignment
	}
	if s.Protection != nil {
		protection := *s.Protection
		out.Protection = &protection
	}
	if s.DecimalPlaces != nil {
		places := *s.DecimalPlaces
		out.DecimalPlaces = &places
	}
	if s.CustomNumFmt != nil {
		numFmt := *s.CustomNumFmt
		out.CustomNumFmt = &numFmt
	}

	for _, b := range s.Border {
		side := Side{Style: b.Style, Color: b.Color}
		switch b.Type {
		case "left":
			out.Border.Left = side
		case "right":
			out.Border.Right = side
		case "top":
			out.Border.Top = side
		case "bottom":
			out.Border.Bottom = side
		case "diagonalUp":
			out.Border.Diagonal = side
			out.Border.DiagonalUp = true
		case "diagonalDown":
			out.Border.Diagonal = side
			out.Border.DiagonalDown = true
		}
	}
	return out
}

// Excelize converts the Style back into an excelize style definition.
func (s Style) Excelize() *excelize.Style {
	c := s.Clone()
	out := &excelize.Style{
		Font:          c.Font,
		Fill:          c.Fill,
		Alignment:     c.Alignment,
		Protection:    c.Protection,
		NumFmt:        c.NumFmt,
		DecimalPlaces: c.DecimalPlaces,
		CustomNumFmt:  c.CustomNumFmt,
		NegRed:        c.NegRed,
	}

	sides := []struct {
		kind string
		side Side
		on   bool
	}{
		{"left", c.Border.Left, true},
		{"right", c.Border.Right, true},
		{"top", c.Border.Top, true},
		{"bottom", c.Border.Bottom, true},
		{"diagonalUp", c.Border.Diagonal, c.Border.DiagonalUp},
		{"diagonalDown", c.Border.Diagonal, c.Border.DiagonalDown},
	}
	for _, b := range sides {
		if b.on && b.side.isSet() {
			out.Border = append(out.Border, excelize.Border{Type: b.kind, Color: b.side.Color, Style: b.side.Style})
		}
	}
	return out
}

// Clone returns a copy that shares no pointers or slices with s.
func (s Style) Clone() Style {
	out := s
	if s.Font != nil {
		font := *s.Font
		out.Font = &font
	}
	if s.Alignment != nil {
		alignment := *s.Alignment
		out.Alignment = &alignment
	}
	if s.Protection != nil {
		protection := *s.Protection
		out.Protection = &protection
	}
	if s.DecimalPlaces != nil {
		places := *s.DecimalPlaces
		out.DecimalPlaces = &places
	}
	if s.CustomNumFmt != nil {
		numFmt := *s.CustomNumFmt
		out.CustomNumFmt = &numFmt
	}
	if s.Fill.Color != nil {
		out.Fill.Color = append([]string(nil), s.Fill.Color...)
	}
	return out
}

// HighlightFill is a solid pattern fill of the given RGB color.
func HighlightFill(color string) excelize.Fill {
	return excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{color}}
}

// Highlighted copies src and replaces its fill with a solid fill of color.
func Highlighted(src Style, color string) Style {
	out := src.Clone()
	out.Fill = HighlightFill(color)
	return out
}

// ReplicateFormat copies the style of src onto dst and fills dst with color.
// When src carries no style of its own, dst keeps its current formatting and
// only the fill changes.
func (e *Editor) ReplicateFormat(src, dst CellRef, color string) error {
	srcName, err := src.Name()
	if err != nil {
		return err
	}
	dstName, err := dst.Name()
	if err != nil {
		return err
	}

	baseID, err := e.file.GetCellStyle(src.Sheet, srcName)
	if err != nil {
		return fmt.Errorf("failed to get style of %s!%s: %w", src.Sheet, srcName, err)
	}
	if baseID == 0 {
		baseID, err = e.file.GetCellStyle(dst.Sheet, dstName)
		if err != nil {
			return fmt.Errorf("failed to get style of %s!%s: %w", dst.Sheet, dstName, err)
		}
	}

	styleID, err := e.highlightedStyle(baseID, color)
	if err != nil {
		return err
	}
	return e.file.SetCellStyle(dst.Sheet, dstName, dstName, styleID)
}

// CellStyle returns the Style currently applied to a cell.
func (e *Editor) CellStyle(ref CellRef) (Style, error) {
	name, err := ref.Name()
	if err != nil {
		return Style{}, err
	}
	id, err := e.file.GetCellStyle(ref.Sheet, name)
	if err != nil {
		return Style{}, fmt.Errorf("failed to get style of %s!%s: %w", ref.Sheet, name, err)
	}
	s, err := e.file.GetStyle(id)
	if err != nil {
		return Style{}, fmt.Errorf("failed to read style %d: %w", id, err)
	}
	return FromExcelize(s), nil
}

func (e *Editor) highlightedStyle(baseID int, color string) (int, error) {
	key := fmt.Sprintf("%d|%s", baseID, color)
	if id, ok := e.styleCache[key]; ok {
		return id, nil
	}

	base := Style{}
	if baseID != 0 {
		s, err := e.file.GetStyle(baseID)
		if err != nil {
			return 0, fmt.Errorf("failed to read style %d: %w", baseID, err)
		}
		base = FromExcelize(s)
	}

	id, err := e.file.NewStyle(Highlighted(base, color).Excelize())
	if err != nil {
		return 0, fmt.Errorf("failed to create highlight style: %w", err)
	}
	e.styleCache[key] = id
	return id, nil
}
