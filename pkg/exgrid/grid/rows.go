package grid

import (
	"fmt"
	"math"
	"slices"

	"github.com/ukaji3/exgrid-go/pkg/exgrid/address"
)

// DeleteRows removes count rows starting at the 0-based row start. Rows
// below move up, cell references are rewritten, shared formulas in the
// sheet are unshared and the workbook is flagged for recalculation.
// Deleting from a sheet without rows is a no-op.
func (g *Grid) DeleteRows(start, count int) error {
	if start < 0 || count <= 0 {
		return fmt.Errorf("%w: start %d count %d", ErrInvalidArgument, start, count)
	}
	if len(g.rows) == 0 {
		return nil
	}
	first := start + 1
	last := math.MaxInt
	if count <= math.MaxInt-start {
		last = start + count
	}

	g.unshare()

	lo, _ := g.rowPos(first)
	hi := lo
	for hi < len(g.rows) && g.rows[hi].Index <= last {
		hi++
	}
	g.rows = slices.Delete(g.rows, lo, hi)

	for _, r := range g.rows[lo:] {
		r.Index -= count
		for i := range r.Cells {
			c := &r.Cells[i]
			c.Ref = address.Address{Col: c.Col, Row: r.Index}.String()
		}
	}

	g.shiftMerges(first, last, count)
	g.calc.RequestRecalc()
	return nil
}

// shiftMerges moves merge regions after rows first..last were removed.
// Regions that lose every row, or shrink to one cell, are dropped.
func (g *Grid) shiftMerges(first, last, count int) {
	kept := g.merges[:0]
	clear(g.mergeSet)
	for _, m := range g.merges {
		switch {
		case m.End.Row < first:
		case m.Start.Row > last:
			m.Start.Row -= count
			m.End.Row -= count
		default:
			if m.Start.Row > first {
				m.Start.Row = first
			}
			if m.End.Row > last {
				m.End.Row -= count
			} else {
				m.End.Row = first - 1
			}
			if m.End.Row < m.Start.Row || m.Single() {
				continue
			}
		}
		if _, dup := g.mergeSet[m]; dup {
			continue
		}
		kept = append(kept, m)
		g.mergeSet[m] = struct{}{}
	}
	g.merges = kept
}

// Merge registers rng as a merged region. Single cells and exact repeats
// are no-ops; a region overlapping a different one is rejected.
func (g *Grid) Merge(rng address.Range) error {
	if !rng.Start.Valid() || !rng.End.Valid() {
		return fmt.Errorf("%w: %+v", address.ErrInvalidRange, rng)
	}
	if rng.Single() {
		return nil
	}
	if _, ok := g.mergeSet[rng]; ok {
		return nil
	}
	for _, m := range g.merges {
		if m.Overlaps(rng) {
			return fmt.Errorf("%w: %s and %s", ErrMergeOverlap, rng, m)
		}
	}
	g.merges = append(g.merges, rng)
	g.mergeSet[rng] = struct{}{}
	return nil
}

// Merges returns merge regions in registration order.
func (g *Grid) Merges() []address.Range { return slices.Clone(g.merges) }

// Snapshot is a captured cell value and format.
type Snapshot struct {
	Type  CellType
	Raw   string
	Style int
}

// Capture reads the value and format of the cell at a. An absent cell
// yields an empty snapshot with format 0.
func (g *Grid) Capture(a address.Address) Snapshot {
	c, ok := g.Cell(a)
	if !ok {
		return Snapshot{}
	}
	s := Snapshot{Type: c.Type, Raw: c.Raw}
	if c.HasStyle {
		s.Style = c.Style
	}
	return s
}

// SnapshotValue decodes s the way Get decodes a cell.
func (g *Grid) SnapshotValue(s Snapshot) any {
	return g.value(&Cell{Type: s.Type, Raw: s.Raw})
}

// Apply writes s over every cell of rng with the type it was captured
// with, then stamps its format when non-zero.
func (g *Grid) Apply(rng address.Range, s Snapshot) error {
	if !rng.Start.Valid() || !rng.End.Valid() {
		return fmt.Errorf("%w: %+v", address.ErrInvalidRange, rng)
	}
	for a := range rng.Each() {
		c, _ := g.touch(a)
		c.Type, c.Raw = s.Type, s.Raw
		if s.Style != 0 {
			c.Style, c.HasStyle = s.Style, true
		}
		g.written++
	}
	return nil
}
