// Package style holds the append-only font, fill, border and cell-format
// tables of a workbook and deduplicates override requests against them.
package style

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidColor indicates a color that is not 3, 6 or 8 hex digits.
var ErrInvalidColor = errors.New("invalid color")

// ErrUnknownFormat indicates a cell-format id outside the table.
var ErrUnknownFormat = errors.New("unknown cell format")

// ErrInvalidNumFmt indicates a number-format code that does not parse.
var ErrInvalidNumFmt = errors.New("invalid number format")

// Font is a font record.
type Font struct {
	Name      string  `json:"name"`
	Size      float64 `json:"size"`
	Bold      bool    `json:"bold,omitempty"`
	Italic    bool    `json:"italic,omitempty"`
	Underline bool    `json:"underline,omitempty"`
	// Color is upper-case RRGGBB, or empty for the theme default.
	Color string `json:"color,omitempty"`
}

// Pattern names understood by Fill.
const (
	PatternNone    = "none"
	PatternGray125 = "gray125"
	PatternSolid   = "solid"
)

// Fill is a pattern fill record.
type Fill struct {
	Pattern string `json:"pattern"`
	// Color is the foreground color, upper-case RRGGBB.
	Color string `json:"color,omitempty"`
}

// LineStyle is a border line style name as written to the stylesheet.
type LineStyle string

// Line styles.
const (
	LineNone   LineStyle = ""
	LineThin   LineStyle = "thin"
	LineMedium LineStyle = "medium"
	LineThick  LineStyle = "thick"
	LineDashed LineStyle = "dashed"
	LineDotted LineStyle = "dotted"
	LineDouble LineStyle = "double"
	LineHair   LineStyle = "hair"
)

// Edge is one side of a border.
type Edge struct {
	Style LineStyle `json:"style,omitempty"`
	Color string    `json:"color,omitempty"`
}

// Border is a border record.
type Border struct {
	Left   Edge `json:"left"`
	Right  Edge `json:"right"`
	Top    Edge `json:"top"`
	Bottom Edge `json:"bottom"`
}

// Alignment describes cell text alignment.
type Alignment struct {
	Horizontal string `json:"horizontal,omitempty"`
	Vertical   string `json:"vertical,omitempty"`
	WrapText   bool   `json:"wrap_text,omitempty"`
}

// CellFormat is a composite cell-format record referencing the
// sub-component tables by id.
type CellFormat struct {
	FontID   int `json:"font_id"`
	FillID   int `json:"fill_id"`
	BorderID int `json:"border_id"`
	// NumFmt is a built-in number format id. NumFmtCode, when set, takes
	// precedence and is written as a custom format.
	NumFmt     int        `json:"num_fmt"`
	NumFmtCode string     `json:"num_fmt_code,omitempty"`
	Alignment  *Alignment `json:"alignment,omitempty"`

	ApplyFont         bool `json:"apply_font,omitempty"`
	ApplyFill         bool `json:"apply_fill,omitempty"`
	ApplyBorder       bool `json:"apply_border,omitempty"`
	ApplyAlignment    bool `json:"apply_alignment,omitempty"`
	ApplyNumberFormat bool `json:"apply_number_format,omitempty"`
}

// Overrides lists the attributes a caller wants changed. Nil fields leave
// the base format's attribute untouched.
type Overrides struct {
	Font      *Font
	Fill      *Fill
	Border    *Border
	Alignment *Alignment
	NumFmt    *string
}

// Empty reports whether no attribute is requested.
func (o Overrides) Empty() bool {
	return o.Font == nil && o.Fill == nil && o.Border == nil && o.Alignment == nil && o.NumFmt == nil
}

// SolidFill returns a solid pattern fill of the given color.
func SolidFill(color string) (Fill, error) {
	c, err := ParseColor(color)
	if err != nil {
		return Fill{}, err
	}
	return Fill{Pattern: PatternSolid, Color: c}, nil
}

// ParseColor normalizes "#RGB", "RRGGBB", "#RRGGBB" and "AARRGGBB" to
// upper-case RRGGBB. An empty string stays empty.
func ParseColor(s string) (string, error) {
	c := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if c == "" {
		return "", nil
	}
	for i := 0; i < len(c); i++ {
		if !isHex(c[i]) {
			return "", fmt.Errorf("%w: %q", ErrInvalidColor, s)
		}
	}
	switch len(c) {
	case 3:
		c = string([]byte{c[0], c[0], c[1], c[1], c[2], c[2]})
	case 6:
	case 8:
		c = c[2:]
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}
	return strings.ToUpper(c), nil
}

func isHex(b byte) bool {
	return (b >= '0' && b <= '9') || (b >= 'a' && b <= 'f') || (b >= 'A' && b <= 'F')
}

func (f Font) normalize() (Font, error) {
	c, err := ParseColor(f.Color)
	if err != nil {
		return Font{}, err
	}
	f.Color = c
	return f, nil
}

func (f Fill) normalize() (Fill, error) {
	c, err := ParseColor(f.Color)
	if err != nil {
		return Fill{}, err
	}
	f.Color = c
	if f.Pattern == "" {
		f.Pattern = PatternNone
		if c != "" {
			f.Pattern = PatternSolid
		}
	}
	return f, nil
}

func (b Border) normalize() (Border, error) {
	for _, e := range []*Edge{&b.Left, &b.Right, &b.Top, &b.Bottom} {
		c, err := ParseColor(e.Color)
		if err != nil {
			return Border{}, err
		}
		e.Color = c
	}
	return b, nil
}
