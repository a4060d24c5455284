package parser

import (
	"fmt"

	"github.com/ukaji3/exgrid-go/pkg/exgrid/address"
	"github.com/ukaji3/exgrid-go/pkg/exgrid/grid"
)

// loadCells copies a worksheet's column spans, row formats and cells into
// g. Cells keep the raw text and type of the file; no inheritance is
// applied.
func loadCells(g *grid.Grid, ws *worksheetXML) error {
	if ws.Cols != nil {
		for _, col := range ws.Cols.Col {
			if col.Style == 0 || col.Min <= 0 || col.Max < col.Min {
				continue
			}
			if err := g.SetColumnStyle(col.Min, col.Max, col.Style); err != nil {
				return err
			}
		}
	}

	rowIndex := 0
	for _, row := range ws.SheetData.Row {
		// r is optional; rows without it follow the previous one.
		if row.R > 0 {
			rowIndex = row.R
		} else {
			rowIndex++
		}
		if row.CustomFormat {
			if err := g.SetRowStyle(rowIndex, row.S); err != nil {
				return err
			}
		}

		col := 0
		for _, c := range row.C {
			a, err := cellAddress(c.R, rowIndex, col)
			if err != nil {
				return err
			}
			col = a.Col

			typ, raw := parseValue(c)
			if err := g.SetRaw(a, typ, raw); err != nil {
				return err
			}
			if c.S != 0 {
				if err := g.ApplyStyle(address.Single(a), c.S); err != nil {
					return err
				}
			}
			if f, ok := parseFormula(c.F); ok {
				if err := g.SetFormula(a, f); err != nil {
					return fmt.Errorf("%s: %w", a, err)
				}
			}
		}
	}
	return nil
}

func cellAddress(ref string, row, prevCol int) (address.Address, error) {
	if ref == "" {
		return address.Address{Col: prevCol + 1, Row: row}, nil
	}
	return address.Decode(ref)
}

// parseValue maps the cell's t attribute onto a grid cell type. Shared
// string cells keep their index since the table is loaded in file order.
func parseValue(c cellXML) (grid.CellType, string) {
	switch c.T {
	case "s":
		return grid.TypeString, c.V
	case "b":
		return grid.TypeBool, c.V
	case "e":
		return grid.TypeError, c.V
	case "inlineStr":
		return grid.TypeInlineString, c.IS.text()
	case "str", "d":
		return grid.TypeInlineString, c.V
	}
	return grid.TypeNumber, c.V
}

func parseFormula(f *formulaXML) (grid.Formula, bool) {
	if f == nil {
		return grid.Formula{}, false
	}
	switch f.T {
	case "shared":
		if f.Si == nil {
			return grid.Formula{}, false
		}
		return grid.Formula{Kind: grid.FormulaShared, SharedIndex: *f.Si, Text: f.Content, Ref: f.Ref}, true
	case "array":
		return grid.Formula{Kind: grid.FormulaArray, Text: f.Content, Ref: f.Ref}, true
	}
	if f.Content == "" {
		return grid.Formula{}, false
	}
	return grid.Formula{Kind: grid.FormulaNormal, Text: f.Content}, true
}
