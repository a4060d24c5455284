// Package formula exports shared-formula metadata and keeps a derived
// cell dependency cache. It never evaluates formulas.
package formula

import (
	"iter"

	"github.com/ukaji3/exgrid-go/pkg/exgrid/models"
	"github.com/ukaji3/exgrid-go/pkg/exgrid/sheets"
)

// Export yields every cell whose formula belongs to a shared group, in
// sheet order then row/column order. The sequence can be ranged over any
// number of times and reflects the grids at iteration time.
func Export(dir *sheets.Directory) iter.Seq[models.SharedFormula] {
	return func(yield func(models.SharedFormula) bool) {
		for _, s := range dir.Each() {
			for row, c := range s.Grid.Cells() {
				if !c.Formula.Shared() {
					continue
				}
				rec := models.SharedFormula{
					SheetName:   s.Name,
					Cell:        c.Ref,
					Row:         row,
					Col:         c.Col,
					SharedIndex: c.Formula.SharedIndex,
					Formula:     c.Formula.Text,
					Reference:   c.Formula.Ref,
				}
				if !yield(rec) {
					return
				}
			}
		}
	}
}
