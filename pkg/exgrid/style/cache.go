package style

import (
	"fmt"
	"slices"
	"strings"

	"github.com/tiendc/go-deepcopy"
	"github.com/xuri/nfp"
)

// DefaultFont is the font every new workbook starts with.
var DefaultFont = Font{Name: "Calibri", Size: 11}

// overrideKey identifies one Resolve request. Sub-components are keyed by
// their resolved ids, which are themselves deduplicated by value.
type overrideKey struct {
	base               int
	font, fill, border int
	hasAlign           bool
	align              Alignment
	hasNumFmt          bool
	numFmt             string
}

// Stats reports memo effectiveness.
type Stats struct {
	Hits   uint64
	Misses uint64
}

// Cache owns the style tables. Ids are indexes into append-only slices and
// are never reused. Not safe for concurrent use.
type Cache struct {
	fonts   []Font
	fills   []Fill
	borders []Border
	formats []CellFormat

	fontIDs   map[Font]int
	fillIDs   map[Fill]int
	borderIDs map[Border]int
	memo      map[overrideKey]int

	stats Stats
}

// NewCache returns a cache seeded with the records a fresh workbook has:
// one font, the "none" and "gray125" fills, an empty border and format 0.
func NewCache() *Cache {
	c := &Cache{
		fontIDs:   make(map[Font]int),
		fillIDs:   make(map[Fill]int),
		borderIDs: make(map[Border]int),
		memo:      make(map[overrideKey]int),
	}
	c.ImportFont(DefaultFont)
	c.ImportFill(Fill{Pattern: PatternNone})
	c.ImportFill(Fill{Pattern: PatternGray125})
	c.ImportBorder(Border{})
	c.ImportFormat(CellFormat{})
	return c
}

// NewEmptyCache returns a cache with no records, for loading a stylesheet
// whose tables should keep their file order.
func NewEmptyCache() *Cache {
	return &Cache{
		fontIDs:   make(map[Font]int),
		fillIDs:   make(map[Fill]int),
		borderIDs: make(map[Border]int),
		memo:      make(map[overrideKey]int),
	}
}

// FontID returns the id of f, appending it on first use.
func (c *Cache) FontID(f Font) (int, error) {
	f, err := f.normalize()
	if err != nil {
		return 0, err
	}
	if id, ok := c.fontIDs[f]; ok {
		return id, nil
	}
	return c.ImportFont(f), nil
}

// FillID returns the id of f, appending it on first use.
func (c *Cache) FillID(f Fill) (int, error) {
	f, err := f.normalize()
	if err != nil {
		return 0, err
	}
	if id, ok := c.fillIDs[f]; ok {
		return id, nil
	}
	return c.ImportFill(f), nil
}

// BorderID returns the id of b, appending it on first use.
func (c *Cache) BorderID(b Border) (int, error) {
	b, err := b.normalize()
	if err != nil {
		return 0, err
	}
	if id, ok := c.borderIDs[b]; ok {
		return id, nil
	}
	return c.ImportBorder(b), nil
}

// ImportFont appends f unconditionally and returns its id. The first record
// with a given value stays the canonical one for later lookups.
func (c *Cache) ImportFont(f Font) int {
	id := len(c.fonts)
	c.fonts = append(c.fonts, f)
	if _, ok := c.fontIDs[f]; !ok {
		c.fontIDs[f] = id
	}
	return id
}

// ImportFill appends f unconditionally and returns its id.
func (c *Cache) ImportFill(f Fill) int {
	id := len(c.fills)
	c.fills = append(c.fills, f)
	if _, ok := c.fillIDs[f]; !ok {
		c.fillIDs[f] = id
	}
	return id
}

// ImportBorder appends b unconditionally and returns its id.
func (c *Cache) ImportBorder(b Border) int {
	id := len(c.borders)
	c.borders = append(c.borders, b)
	if _, ok := c.borderIDs[b]; !ok {
		c.borderIDs[b] = id
	}
	return id
}

// ImportFormat appends f unconditionally and returns its id.
func (c *Cache) ImportFormat(f CellFormat) int {
	c.formats = append(c.formats, f)
	return len(c.formats) - 1
}

// Resolve returns the id of the format obtained by applying o on top of
// base. Identical requests return the same id without appending.
func (c *Cache) Resolve(base int, o Overrides) (int, error) {
	if base < 0 || base >= len(c.formats) {
		return 0, fmt.Errorf("%w: %d", ErrUnknownFormat, base)
	}
	if o.Empty() {
		return base, nil
	}

	key := overrideKey{base: base, font: -1, fill: -1, border: -1}
	var err error
	if o.Font != nil {
		if key.font, err = c.FontID(*o.Font); err != nil {
			return 0, err
		}
	}
	if o.Fill != nil {
		if key.fill, err = c.FillID(*o.Fill); err != nil {
			return 0, err
		}
	}
	if o.Border != nil {
		if key.border, err = c.BorderID(*o.Border); err != nil {
			return 0, err
		}
	}
	if o.Alignment != nil {
		key.hasAlign, key.align = true, *o.Alignment
	}
	if o.NumFmt != nil {
		if err := ValidateNumFmt(*o.NumFmt); err != nil {
			return 0, err
		}
		key.hasNumFmt, key.numFmt = true, *o.NumFmt
	}

	if id, ok := c.memo[key]; ok {
		c.stats.Hits++
		return id, nil
	}
	c.stats.Misses++

	var f CellFormat
	if err := deepcopy.Copy(&f, &c.formats[base]); err != nil {
		return 0, fmt.Errorf("clone format %d: %w", base, err)
	}
	if key.font >= 0 {
		f.FontID, f.ApplyFont = key.font, true
	}
	if key.fill >= 0 {
		f.FillID, f.ApplyFill = key.fill, true
	}
	if key.border >= 0 {
		f.BorderID, f.ApplyBorder = key.border, true
	}
	if key.hasAlign {
		a := key.align
		f.Alignment, f.ApplyAlignment = &a, true
	}
	if key.hasNumFmt {
		f.NumFmt, f.NumFmtCode, f.ApplyNumberFormat = 0, key.numFmt, true
	}

	id := c.ImportFormat(f)
	c.memo[key] = id
	return id, nil
}

// ValidateNumFmt checks that code parses as a number format with at most
// four sections.
func ValidateNumFmt(code string) error {
	if strings.TrimSpace(code) == "" {
		return fmt.Errorf("%w: empty code", ErrInvalidNumFmt)
	}
	ps := nfp.NumberFormatParser()
	sections := ps.Parse(code)
	if len(sections) == 0 || len(sections) > 4 {
		return fmt.Errorf("%w: %q", ErrInvalidNumFmt, code)
	}
	return nil
}

// BaseFormat picks the format a cell inherits from: its own, else the
// column's, else the row's, else the default format 0.
func BaseFormat(cell, column, row *int) int {
	switch {
	case cell != nil:
		return *cell
	case column != nil:
		return *column
	case row != nil:
		return *row
	}
	return 0
}

// Format returns a copy of the format record id.
func (c *Cache) Format(id int) (CellFormat, bool) {
	if id < 0 || id >= len(c.formats) {
		return CellFormat{}, false
	}
	f := c.formats[id]
	if f.Alignment != nil {
		a := *f.Alignment
		f.Alignment = &a
	}
	return f, true
}

// Font returns the font record id, or DefaultFont if out of range.
func (c *Cache) Font(id int) Font {
	if id < 0 || id >= len(c.fonts) {
		return DefaultFont
	}
	return c.fonts[id]
}

// Fill returns the fill record id.
func (c *Cache) Fill(id int) Fill {
	if id < 0 || id >= len(c.fills) {
		return Fill{Pattern: PatternNone}
	}
	return c.fills[id]
}

// Border returns the border record id.
func (c *Cache) Border(id int) Border {
	if id < 0 || id >= len(c.borders) {
		return Border{}
	}
	return c.borders[id]
}

// Formats returns a copy of the cell-format table.
func (c *Cache) Formats() []CellFormat { return slices.Clone(c.formats) }

// Fonts returns a copy of the font table.
func (c *Cache) Fonts() []Font { return slices.Clone(c.fonts) }

// Fills returns a copy of the fill table.
func (c *Cache) Fills() []Fill { return slices.Clone(c.fills) }

// Borders returns a copy of the border table.
func (c *Cache) Borders() []Border { return slices.Clone(c.borders) }

// Len returns the number of cell formats.
func (c *Cache) Len() int { return len(c.formats) }

// Stats returns Resolve hit and miss counts.
func (c *Cache) Stats() Stats { return c.stats }
