// Package sheets tracks a workbook's sheets in declaration order and the
// active selection.
package sheets

import (
	"errors"
	"fmt"
	"iter"

	"github.com/ukaji3/exgrid-go/pkg/exgrid/grid"
)

// ErrSheetNotFound indicates a bad sheet index or name.
var ErrSheetNotFound = errors.New("sheet not found")

// ErrDuplicateSheet indicates a second sheet with an existing name.
var ErrDuplicateSheet = errors.New("duplicate sheet name")

// Sheet is a named grid.
type Sheet struct {
	Name string
	Grid *grid.Grid
}

// Directory resolves sheet names and indexes to grids.
type Directory struct {
	sheets  []Sheet
	current int
}

// Add appends a sheet. The first sheet added becomes the selection.
func (d *Directory) Add(name string, g *grid.Grid) error {
	if name == "" {
		return errors.New("sheet name must not be empty")
	}
	for _, s := range d.sheets {
		if s.Name == name {
			return fmt.Errorf("%w: %q", ErrDuplicateSheet, name)
		}
	}
	d.sheets = append(d.sheets, Sheet{Name: name, Grid: g})
	return nil
}

// Select activates the sheet at the 0-based index i.
func (d *Directory) Select(i int) error {
	if i < 0 || i >= len(d.sheets) {
		return fmt.Errorf("%w: index %d of %d", ErrSheetNotFound, i, len(d.sheets))
	}
	d.current = i
	return nil
}

// SelectName activates the sheet whose name matches exactly.
func (d *Directory) SelectName(name string) error {
	i, ok := d.Index(name)
	if !ok {
		return fmt.Errorf("%w: %q", ErrSheetNotFound, name)
	}
	d.current = i
	return nil
}

// Index returns the position of the sheet named name.
func (d *Directory) Index(name string) (int, bool) {
	for i, s := range d.sheets {
		if s.Name == name {
			return i, true
		}
	}
	return 0, false
}

// Names returns sheet names in declaration order.
func (d *Directory) Names() []string {
	names := make([]string, len(d.sheets))
	for i, s := range d.sheets {
		names[i] = s.Name
	}
	return names
}

// Current returns the active sheet.
func (d *Directory) Current() (Sheet, error) {
	if len(d.sheets) == 0 {
		return Sheet{}, fmt.Errorf("%w: workbook has no sheets", ErrSheetNotFound)
	}
	return d.sheets[d.current], nil
}

// CurrentLocalID returns the 0-based position of the active sheet, the id
// sheet-scoped defined names refer to.
func (d *Directory) CurrentLocalID() int { return d.current }

// Len returns the number of sheets.
func (d *Directory) Len() int { return len(d.sheets) }

// Each yields sheets in declaration order with their local ids.
func (d *Directory) Each() iter.Seq2[int, Sheet] {
	return func(yield func(int, Sheet) bool) {
		for i, s := range d.sheets {
			if !yield(i, s) {
				return
			}
		}
	}
}
