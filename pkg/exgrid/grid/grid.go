// Package grid implements a sparse, ordered sheet of cells. Rows are kept
// sorted by index and cells sorted by column so the sheet can be written
// back in the order spreadsheet readers require.
package grid

import (
	"cmp"
	"errors"
	"fmt"
	"iter"
	"slices"

	"github.com/ukaji3/exgrid-go/pkg/exgrid/address"
	"github.com/ukaji3/exgrid-go/pkg/exgrid/style"
)

// ErrInvalidArgument indicates an out-of-domain numeric argument.
var ErrInvalidArgument = errors.New("invalid argument")

// ErrMergeOverlap indicates a merge region overlapping a different one.
var ErrMergeOverlap = errors.New("merge region overlaps an existing region")

// CellType tags how a cell's raw text is interpreted.
type CellType uint8

const (
	// TypeNumber is an untagged cell: raw holds a number, or nothing.
	TypeNumber CellType = iota
	// TypeString cells hold a shared-string index.
	TypeString
	// TypeBool cells hold "0" or "1".
	TypeBool
	// TypeInlineString cells hold their text directly (formula string
	// results and inline strings read from files).
	TypeInlineString
	// TypeError cells hold an error literal such as #DIV/0!.
	TypeError
)

// Cell is a materialized cell.
type Cell struct {
	Col int
	// Ref is the A1 text of the cell, kept in sync with its row index.
	Ref      string
	Type     CellType
	Raw      string
	Style    int
	HasStyle bool
	Formula  *Formula
}

// Empty reports whether the cell holds no value.
func (c *Cell) Empty() bool {
	return c.Type == TypeNumber && c.Raw == ""
}

// Row is a materialized row. Cells are sorted by column.
type Row struct {
	Index    int
	Cells    []Cell
	Style    int
	HasStyle bool
}

// ColumnStyle assigns a format to the columns Min..Max. When spans
// overlap, the one defined last wins.
type ColumnStyle struct {
	Min   int
	Max   int
	Style int
}

// Config controls value typing and style inheritance.
type Config struct {
	Dates DateSystem
	// NoInherit disables copying column/row formats onto new cells.
	NoInherit bool
}

// Grid is one sheet's cells. It is not safe for concurrent use.
type Grid struct {
	rows     []*Row
	cols     []ColumnStyle
	merges   []address.Range
	mergeSet map[address.Range]struct{}

	strings *SharedStrings
	calc    *Calc
	cfg     Config

	nextShared int
	written    uint64
}

// New returns an empty grid backed by the workbook's shared strings and
// calculation properties.
func New(sst *SharedStrings, calc *Calc, cfg Config) *Grid {
	if sst == nil {
		sst = NewSharedStrings()
	}
	if calc == nil {
		calc = NewCalc()
	}
	return &Grid{
		strings:  sst,
		calc:     calc,
		cfg:      cfg,
		mergeSet: make(map[address.Range]struct{}),
	}
}

// Strings returns the shared-string table the grid writes into.
func (g *Grid) Strings() *SharedStrings { return g.strings }

// Calc returns the calculation properties.
func (g *Grid) Calc() *Calc { return g.calc }

// Written returns how many cell writes the grid has performed.
func (g *Grid) Written() uint64 { return g.written }

func (g *Grid) rowPos(index int) (int, bool) {
	return slices.BinarySearchFunc(g.rows, index, func(r *Row, i int) int {
		return cmp.Compare(r.Index, i)
	})
}

func cellPos(r *Row, col int) (int, bool) {
	return slices.BinarySearchFunc(r.Cells, col, func(c Cell, i int) int {
		return cmp.Compare(c.Col, i)
	})
}

// Row returns the materialized row index, if any.
func (g *Grid) Row(index int) (*Row, bool) {
	i, ok := g.rowPos(index)
	if !ok {
		return nil, false
	}
	return g.rows[i], true
}

func (g *Grid) touchRow(index int) *Row {
	i, ok := g.rowPos(index)
	if ok {
		return g.rows[i]
	}
	r := &Row{Index: index}
	g.rows = slices.Insert(g.rows, i, r)
	return r
}

// touch finds or creates the cell at a, returning whether it was created.
func (g *Grid) touch(a address.Address) (*Cell, bool) {
	r := g.touchRow(a.Row)
	i, ok := cellPos(r, a.Col)
	if ok {
		return &r.Cells[i], false
	}
	r.Cells = slices.Insert(r.Cells, i, Cell{Col: a.Col, Ref: a.String()})
	c := &r.Cells[i]
	if !g.cfg.NoInherit {
		if id := g.inherited(r, a.Col); id != 0 {
			c.Style, c.HasStyle = id, true
		}
	}
	return c, true
}

// Cell returns the materialized cell at a. The pointer is invalidated by
// the next write to the same row.
func (g *Grid) Cell(a address.Address) (*Cell, bool) {
	r, ok := g.Row(a.Row)
	if !ok {
		return nil, false
	}
	i, ok := cellPos(r, a.Col)
	if !ok {
		return nil, false
	}
	return &r.Cells[i], true
}

// Touch materializes the cell at a without writing a value.
func (g *Grid) Touch(a address.Address) error {
	if !a.Valid() {
		return fmt.Errorf("%w: (%d,%d)", address.ErrInvalidAddress, a.Col, a.Row)
	}
	g.touch(a)
	return nil
}

// Get returns the typed value at a: nil, string, float64 or bool. The
// second result is false when the cell was never materialized.
func (g *Grid) Get(a address.Address) (any, bool) {
	c, ok := g.Cell(a)
	if !ok {
		return nil, false
	}
	return g.value(c), true
}

// SetRange writes v into every cell of rng. When asText is set the value
// is stored as a shared string whatever its Go type.
func (g *Grid) SetRange(rng address.Range, v any, asText bool) error {
	if !rng.Start.Valid() || !rng.End.Valid() {
		return fmt.Errorf("%w: %+v", address.ErrInvalidRange, rng)
	}
	enc, err := g.encode(v, asText)
	if err != nil {
		return err
	}
	for a := range rng.Each() {
		c, _ := g.touch(a)
		c.Type, c.Raw = enc.typ, enc.raw
		g.written++
	}
	return nil
}

// Set writes v into the single cell at a.
func (g *Grid) Set(a address.Address, v any) error {
	return g.SetRange(address.Single(a), v, false)
}

// SetRaw stores an already-encoded value without typing or inheritance.
// Used when loading cells from a file.
func (g *Grid) SetRaw(a address.Address, typ CellType, raw string) error {
	if !a.Valid() {
		return fmt.Errorf("%w: (%d,%d)", address.ErrInvalidAddress, a.Col, a.Row)
	}
	r := g.touchRow(a.Row)
	i, ok := cellPos(r, a.Col)
	if !ok {
		r.Cells = slices.Insert(r.Cells, i, Cell{Col: a.Col, Ref: a.String()})
	}
	r.Cells[i].Type, r.Cells[i].Raw = typ, raw
	return nil
}

// ApplyStyle stamps id onto every cell of rng, materializing as needed.
// Values are not changed.
func (g *Grid) ApplyStyle(rng address.Range, id int) error {
	if id < 0 {
		return fmt.Errorf("%w: style %d", ErrInvalidArgument, id)
	}
	if !rng.Start.Valid() || !rng.End.Valid() {
		return fmt.Errorf("%w: %+v", address.ErrInvalidRange, rng)
	}
	for a := range rng.Each() {
		c, _ := g.touch(a)
		c.Style, c.HasStyle = id, true
	}
	return nil
}

// SetRowStyle sets the row-level format used as an inheritance fallback.
func (g *Grid) SetRowStyle(row, id int) error {
	if row <= 0 || id < 0 {
		return fmt.Errorf("%w: row %d style %d", ErrInvalidArgument, row, id)
	}
	r := g.touchRow(row)
	r.Style, r.HasStyle = id, true
	return nil
}

// SetColumnStyle defines a column span format. Later spans take
// precedence over earlier overlapping ones.
func (g *Grid) SetColumnStyle(minCol, maxCol, id int) error {
	if minCol <= 0 || maxCol < minCol || id < 0 {
		return fmt.Errorf("%w: columns %d-%d style %d", ErrInvalidArgument, minCol, maxCol, id)
	}
	g.cols = append(g.cols, ColumnStyle{Min: minCol, Max: maxCol, Style: id})
	return nil
}

// ColumnStyles returns the column spans in definition order.
func (g *Grid) ColumnStyles() []ColumnStyle { return slices.Clone(g.cols) }

func (g *Grid) columnStyle(col int) (int, bool) {
	for i := len(g.cols) - 1; i >= 0; i-- {
		if cs := g.cols[i]; col >= cs.Min && col <= cs.Max {
			return cs.Style, true
		}
	}
	return 0, false
}

func (g *Grid) inherited(r *Row, col int) int {
	var colID, rowID *int
	if id, ok := g.columnStyle(col); ok {
		colID = &id
	}
	if r != nil && r.HasStyle {
		rowID = &r.Style
	}
	return style.BaseFormat(nil, colID, rowID)
}

// BaseFormat returns the format a at would be cloned from: the cell's own
// format, else its column's, else its row's, else 0.
func (g *Grid) BaseFormat(a address.Address) int {
	r, _ := g.Row(a.Row)
	if c, ok := g.Cell(a); ok && c.HasStyle {
		return c.Style
	}
	return g.inherited(r, a.Col)
}

// Rows yields materialized rows in ascending order. Callers must not
// modify them.
func (g *Grid) Rows() iter.Seq[*Row] {
	return func(yield func(*Row) bool) {
		for _, r := range g.rows {
			if !yield(r) {
				return
			}
		}
	}
}

// Cells yields every materialized cell ordered by row then column.
func (g *Grid) Cells() iter.Seq2[int, *Cell] {
	return func(yield func(int, *Cell) bool) {
		for _, r := range g.rows {
			for i := range r.Cells {
				if !yield(r.Index, &r.Cells[i]) {
					return
				}
			}
		}
	}
}

// RowCount returns the number of materialized rows.
func (g *Grid) RowCount() int { return len(g.rows) }

// Bounds returns the smallest range covering every materialized cell.
func (g *Grid) Bounds() (address.Range, bool) {
	var rng address.Range
	found := false
	for _, r := range g.rows {
		if len(r.Cells) == 0 {
			continue
		}
		first, last := r.Cells[0].Col, r.Cells[len(r.Cells)-1].Col
		if !found {
			rng = address.Range{
				Start: address.Address{Col: first, Row: r.Index},
				End:   address.Address{Col: last, Row: r.Index},
			}
			found = true
			continue
		}
		rng.Start.Col = min(rng.Start.Col, first)
		rng.End.Col = max(rng.End.Col, last)
		rng.End.Row = r.Index
	}
	return rng, found
}
