package exgrid

import (
	"strings"

	"github.com/ukaji3/exgrid-go/pkg/exgrid/address"
	"github.com/ukaji3/exgrid-go/pkg/exgrid/models"
	"github.com/ukaji3/exgrid-go/pkg/exgrid/parser"
)

// SetPrintArea replaces the active sheet's print area with rng. Print
// areas of other sheets are kept.
func (d *Document) SetPrintArea(rng address.Range) error {
	s, err := d.current()
	if err != nil {
		return err
	}
	if !rng.Start.Valid() || !rng.End.Valid() {
		return NewOperationError(s.Name, "print_area", ErrInvalidRange)
	}
	local := d.dir.CurrentLocalID()
	kept := d.regions[:0]
	for _, r := range d.regions {
		if r.Name == models.PrintAreaName && r.ScopedTo(local) {
			continue
		}
		kept = append(kept, r)
	}
	d.regions = append(kept, models.Region{
		Name:         models.PrintAreaName,
		LocalSheetID: &local,
		RefersTo:     printAreaText(s.Name, rng),
	})
	return nil
}

// SetPrintAreaText parses text such as "A1:D20" and sets it as the
// active sheet's print area.
func (d *Document) SetPrintAreaText(text string) error {
	if err := d.check(); err != nil {
		return err
	}
	rng, err := address.DecodeRange(text)
	if err != nil {
		return err
	}
	return d.SetPrintArea(rng)
}

// PrintAreas returns the parsed print-area bounds of every sheet that has
// one, keyed by sheet name.
func (d *Document) PrintAreas() (map[string][]models.PrintArea, error) {
	if err := d.check(); err != nil {
		return nil, err
	}
	return parser.PrintAreas(d.regions, d.dir.Names()), nil
}

// Regions returns a copy of the workbook's defined names.
func (d *Document) Regions() ([]Region, error) {
	if err := d.check(); err != nil {
		return nil, err
	}
	out := make([]Region, len(d.regions))
	copy(out, d.regions)
	return out, nil
}

// printAreaText renders 'Sheet'!$A$1:$D$20, doubling quotes in the name.
func printAreaText(sheet string, rng address.Range) string {
	return "'" + strings.ReplaceAll(sheet, "'", "''") + "'!" + rng.Absolute()
}
