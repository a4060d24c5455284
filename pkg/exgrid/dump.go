package exgrid

import (
	"path"
	"strconv"

	"github.com/ukaji3/exgrid-go/pkg/exgrid/address"
	"github.com/ukaji3/exgrid-go/pkg/exgrid/grid"
	"github.com/ukaji3/exgrid-go/pkg/exgrid/models"
)

// DumpOptions configures Dump.
type DumpOptions struct {
	// IncludeStyles specifies whether cell and row format ids are included.
	// If nil, defaults to true.
	IncludeStyles *bool
	// IncludeFormulas specifies whether formula text is included.
	// If nil, defaults to true.
	IncludeFormulas *bool
	// IncludePrintAreas specifies whether print areas are included.
	// If nil, defaults to true.
	IncludePrintAreas *bool
}

// ShouldIncludeStyles returns whether to include format ids.
func (o DumpOptions) ShouldIncludeStyles() bool {
	return o.IncludeStyles == nil || *o.IncludeStyles
}

// ShouldIncludeFormulas returns whether to include formula text.
func (o DumpOptions) ShouldIncludeFormulas() bool {
	return o.IncludeFormulas == nil || *o.IncludeFormulas
}

// ShouldIncludePrintAreas returns whether to include print areas.
func (o DumpOptions) ShouldIncludePrintAreas() bool {
	return o.IncludePrintAreas == nil || *o.IncludePrintAreas
}

// Dump materializes the document into its JSON model.
func (d *Document) Dump(opts DumpOptions) (*models.WorkbookData, error) {
	if err := d.check(); err != nil {
		return nil, err
	}

	names := d.dir.Names()
	sheets := make(map[string]models.SheetData, len(names))
	for i, s := range d.dir.Each() {
		sheets[s.Name] = dumpSheet(i, s.Grid, opts)
	}

	if opts.ShouldIncludePrintAreas() {
		for sheetName, areas := range d.parsedPrintAreas() {
			if sheet, ok := sheets[sheetName]; ok {
				sheet.PrintAreas = areas
				sheets[sheetName] = sheet
			}
		}
	}

	return &models.WorkbookData{
		BookName:      path.Base(d.key),
		SheetNames:    names,
		Sheets:        sheets,
		CellFormats:   d.styles.Len(),
		SharedStrings: d.strings.Len(),
		Calc: models.CalcProps{
			Mode:           string(d.calc.Mode),
			FullCalcOnLoad: d.calc.FullCalcOnLoad,
		},
		Regions: d.regions,
	}, nil
}

func (d *Document) parsedPrintAreas() map[string][]models.PrintArea {
	areas, _ := d.PrintAreas()
	return areas
}

func dumpSheet(index int, g *grid.Grid, opts DumpOptions) models.SheetData {
	sheet := models.SheetData{Index: index}
	for r := range g.Rows() {
		row := models.CellRow{R: r.Index, C: make(map[string]interface{}, len(r.Cells))}
		if opts.ShouldIncludeStyles() && r.HasStyle {
			id := r.Style
			row.Style = &id
		}
		for _, c := range r.Cells {
			key := strconv.Itoa(c.Col)
			if v, ok := g.Get(address.Address{Col: c.Col, Row: r.Index}); ok && v != nil {
				row.C[key] = v
			}
			if opts.ShouldIncludeStyles() && c.HasStyle {
				if row.S == nil {
					row.S = make(map[string]int)
				}
				row.S[key] = c.Style
			}
			if opts.ShouldIncludeFormulas() && c.Formula != nil && c.Formula.Text != "" {
				if row.F == nil {
					row.F = make(map[string]string)
				}
				row.F[key] = c.Formula.Text
			}
		}
		sheet.Rows = append(sheet.Rows, row)
	}
	for _, m := range g.Merges() {
		sheet.Merges = append(sheet.Merges, m.String())
	}
	for _, cs := range g.ColumnStyles() {
		sheet.Columns = append(sheet.Columns, models.ColumnStyle{Min: cs.Min, Max: cs.Max, Style: cs.Style})
	}
	return sheet
}
