package grid

import (
	"fmt"

	"github.com/ukaji3/exgrid-go/pkg/exgrid/address"
)

// FormulaKind distinguishes how a formula is stored.
type FormulaKind uint8

// Formula kinds.
const (
	FormulaNormal FormulaKind = iota
	FormulaShared
	FormulaArray
)

// Formula is the formula metadata of a cell. Followers of a shared
// formula have empty Text and point to the anchor through SharedIndex.
type Formula struct {
	Text        string
	Kind        FormulaKind
	SharedIndex int
	// Ref is the range covered by a shared or array formula anchor.
	Ref string
}

// Shared reports whether the formula participates in a shared group.
func (f *Formula) Shared() bool {
	return f != nil && f.Kind == FormulaShared
}

// SetFormula attaches f to the cell at a, materializing it.
func (g *Grid) SetFormula(a address.Address, f Formula) error {
	if !a.Valid() {
		return fmt.Errorf("%w: (%d,%d)", address.ErrInvalidAddress, a.Col, a.Row)
	}
	if f.Kind == FormulaShared && f.SharedIndex < 0 {
		return fmt.Errorf("%w: shared index %d", ErrInvalidArgument, f.SharedIndex)
	}
	c, _ := g.touch(a)
	c.Formula = &f
	if f.Kind == FormulaShared && f.SharedIndex >= g.nextShared {
		g.nextShared = f.SharedIndex + 1
	}
	return nil
}

// SetSharedFormula stores text once at the top-left cell of rng and links
// every other cell of rng to it. It returns the new share id.
func (g *Grid) SetSharedFormula(rng address.Range, text string) (int, error) {
	if !rng.Start.Valid() || !rng.End.Valid() {
		return 0, fmt.Errorf("%w: %+v", address.ErrInvalidRange, rng)
	}
	if text == "" {
		return 0, fmt.Errorf("%w: empty formula", ErrInvalidArgument)
	}
	si := g.nextShared
	g.nextShared++
	for a := range rng.Each() {
		f := Formula{Kind: FormulaShared, SharedIndex: si}
		if a == rng.Start {
			f.Text, f.Ref = text, rng.String()
		}
		c, _ := g.touch(a)
		c.Formula = &f
	}
	return si, nil
}

// Formula returns a copy of the formula at a.
func (g *Grid) Formula(a address.Address) (Formula, bool) {
	c, ok := g.Cell(a)
	if !ok || c.Formula == nil {
		return Formula{}, false
	}
	return *c.Formula, true
}

// ClearFormula removes the formula at a, keeping the cached value.
func (g *Grid) ClearFormula(a address.Address) {
	if c, ok := g.Cell(a); ok {
		c.Formula = nil
	}
}

// unshare drops shared-formula linkage everywhere in the sheet. Anchors
// keep their text as a plain formula; followers have nothing left to
// evaluate and lose the formula entirely.
func (g *Grid) unshare() {
	for _, c := range g.Cells() {
		if !c.Formula.Shared() {
			continue
		}
		if c.Formula.Text == "" {
			c.Formula = nil
			continue
		}
		c.Formula.Kind = FormulaNormal
		c.Formula.SharedIndex = 0
		c.Formula.Ref = ""
	}
}
