package exgrid

import (
	"context"
	"io"
	"iter"

	"github.com/ukaji3/exgrid-go/pkg/exgrid/formula"
	"github.com/ukaji3/exgrid-go/pkg/exgrid/models"
)

// ExportSharedFormulas returns a sequence over every shared-formula cell
// in sheet order then row/column order. The sequence reads the live
// document and may be ranged over more than once.
func (d *Document) ExportSharedFormulas() (iter.Seq[models.SharedFormula], error) {
	if err := d.check(); err != nil {
		return nil, err
	}
	return formula.Export(d.dir), nil
}

// ExportSharedFormulasCSV writes the export as CSV with a header row and
// returns the number of records written.
func (d *Document) ExportSharedFormulasCSV(w io.Writer) (int, error) {
	if err := d.check(); err != nil {
		return 0, err
	}
	return formula.WriteCSV(w, formula.Export(d.dir))
}

// ExportSharedFormulasFile writes the CSV export to path.
func (d *Document) ExportSharedFormulasFile(path string) (int, error) {
	if err := d.check(); err != nil {
		return 0, err
	}
	return formula.WriteCSVFile(path, formula.Export(d.dir))
}

// ExportSharedFormulasSQLite replaces the shared_formulas table of the
// SQLite database at path with the export.
func (d *Document) ExportSharedFormulasSQLite(ctx context.Context, path string) (int, error) {
	if err := d.check(); err != nil {
		return 0, err
	}
	db, err := formula.OpenSQLite(path)
	if err != nil {
		return 0, err
	}
	defer db.Close()
	return formula.WriteSQLite(ctx, db, formula.Export(d.dir))
}
