// Package writer renders grids, style tables and defined names into an
// xlsx package through excelize.
package writer

import (
	"bytes"
	"fmt"

	"github.com/ukaji3/exgrid-go/pkg/exgrid/address"
	"github.com/ukaji3/exgrid-go/pkg/exgrid/grid"
	"github.com/ukaji3/exgrid-go/pkg/exgrid/models"
	"github.com/ukaji3/exgrid-go/pkg/exgrid/style"
	"github.com/xuri/excelize/v2"
)

// Sheet is one worksheet to write.
type Sheet struct {
	Name string
	Grid *grid.Grid
}

// Workbook is the in-memory state to serialize.
type Workbook struct {
	Sheets  []Sheet
	Styles  *style.Cache
	Calc    *grid.Calc
	Regions []models.Region
	Dates   grid.DateSystem
}

// Write serializes wb. Parts exgrid does not model (drawings, comments,
// the calculation chain) are not carried over.
func Write(wb *Workbook) ([]byte, error) {
	if len(wb.Sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	f := excelize.NewFile()
	defer f.Close()

	w := &bookWriter{f: f, styles: wb.Styles, ids: make(map[int]int)}
	if isDefaultFormat(wb.Styles) {
		w.ids[0] = 0
	} else {
		w.customDefault = true
	}
	if err := w.createSheets(wb.Sheets); err != nil {
		return nil, err
	}
	for _, s := range wb.Sheets {
		if err := w.writeSheet(s); err != nil {
			return nil, fmt.Errorf("sheet %q: %w", s.Name, err)
		}
	}
	if err := w.writeRegions(wb.Sheets, wb.Regions); err != nil {
		return nil, err
	}
	if err := w.writeProps(wb); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

type bookWriter struct {
	f      *excelize.File
	styles *style.Cache
	// ids maps cell-format ids to excelize style ids.
	ids map[int]int
	// customDefault is set when format 0 differs from excelize's default
	// style, so unstyled cells must be stamped too.
	customDefault bool
}

func (w *bookWriter) createSheets(sheets []Sheet) error {
	first := w.f.GetSheetName(0)
	for i, s := range sheets {
		if i == 0 {
			if s.Name != first {
				if err := w.f.SetSheetName(first, s.Name); err != nil {
					return err
				}
			}
			continue
		}
		if _, err := w.f.NewSheet(s.Name); err != nil {
			return err
		}
	}
	return nil
}

func (w *bookWriter) writeSheet(s Sheet) error {
	g := s.Grid
	lineStyled := false

	for _, cs := range g.ColumnStyles() {
		id, err := w.styleID(cs.Style)
		if err != nil {
			return err
		}
		first, err := address.ColumnName(cs.Min)
		if err != nil {
			return err
		}
		last, err := address.ColumnName(cs.Max)
		if err != nil {
			return err
		}
		if err := w.f.SetColStyle(s.Name, first+":"+last, id); err != nil {
			return err
		}
		lineStyled = true
	}
	for r := range g.Rows() {
		if !r.HasStyle {
			continue
		}
		id, err := w.styleID(r.Style)
		if err != nil {
			return err
		}
		if err := w.f.SetRowStyle(s.Name, r.Index, r.Index, id); err != nil {
			return err
		}
		lineStyled = true
	}

	// Values go first: formulas are attached afterwards so shared groups
	// are laid over cells that already exist.
	var formulas []formulaCell
	for row, c := range g.Cells() {
		if err := w.writeValue(s.Name, g, row, c); err != nil {
			return fmt.Errorf("%s: %w", c.Ref, err)
		}
		id := 0
		if c.HasStyle {
			id = c.Style
		}
		if id != 0 || lineStyled || w.customDefault {
			xid, err := w.styleID(id)
			if err != nil {
				return err
			}
			if err := w.f.SetCellStyle(s.Name, c.Ref, c.Ref, xid); err != nil {
				return err
			}
		}
		if c.Formula != nil {
			formulas = append(formulas, formulaCell{row: row, ref: c.Ref, f: *c.Formula})
		}
	}
	if err := w.writeFormulas(s.Name, formulas); err != nil {
		return err
	}

	for _, m := range g.Merges() {
		if err := w.f.MergeCell(s.Name, m.Start.String(), m.End.String()); err != nil {
			return err
		}
	}
	return nil
}

func (w *bookWriter) writeValue(sheet string, g *grid.Grid, row int, c *grid.Cell) error {
	switch c.Type {
	case grid.TypeString:
		v, _ := g.Get(address.Address{Col: c.Col, Row: row})
		s, _ := v.(string)
		return w.f.SetCellStr(sheet, c.Ref, s)
	case grid.TypeBool:
		return w.f.SetCellBool(sheet, c.Ref, c.Raw == "1" || c.Raw == "true")
	case grid.TypeInlineString, grid.TypeError:
		return w.f.SetCellStr(sheet, c.Ref, c.Raw)
	}
	if c.Raw == "" {
		return nil
	}
	return w.f.SetCellDefault(sheet, c.Ref, c.Raw)
}

type formulaCell struct {
	row int
	ref string
	f   grid.Formula
}

func (w *bookWriter) writeFormulas(sheet string, cells []formulaCell) error {
	for _, fc := range cells {
		switch fc.f.Kind {
		case grid.FormulaShared:
			// Followers are linked by excelize when the anchor is written.
			if fc.f.Text == "" || fc.f.Ref == "" {
				continue
			}
			typ, ref := excelize.STCellFormulaTypeShared, fc.f.Ref
			if err := w.f.SetCellFormula(sheet, fc.ref, fc.f.Text, excelize.FormulaOpts{Type: &typ, Ref: &ref}); err != nil {
				return err
			}
		case grid.FormulaArray:
			typ, ref := excelize.STCellFormulaTypeArray, fc.f.Ref
			if ref == "" {
				ref = fc.ref
			}
			if err := w.f.SetCellFormula(sheet, fc.ref, fc.f.Text, excelize.FormulaOpts{Type: &typ, Ref: &ref}); err != nil {
				return err
			}
		default:
			if err := w.f.SetCellFormula(sheet, fc.ref, fc.f.Text); err != nil {
				return err
			}
		}
	}
	return nil
}

func (w *bookWriter) writeRegions(sheets []Sheet, regions []models.Region) error {
	for _, r := range regions {
		dn := &excelize.DefinedName{Name: r.Name, RefersTo: r.RefersTo, Scope: "Workbook"}
		if r.LocalSheetID != nil {
			if *r.LocalSheetID < 0 || *r.LocalSheetID >= len(sheets) {
				return fmt.Errorf("defined name %q: local sheet id %d out of range", r.Name, *r.LocalSheetID)
			}
			dn.Scope = sheets[*r.LocalSheetID].Name
		}
		if err := w.f.SetDefinedName(dn); err != nil {
			return fmt.Errorf("defined name %q: %w", r.Name, err)
		}
	}
	return nil
}

func (w *bookWriter) writeProps(wb *Workbook) error {
	if wb.Calc != nil {
		mode := string(wb.Calc.Mode)
		full := wb.Calc.FullCalcOnLoad
		if err := w.f.SetCalcProps(&excelize.CalcPropsOptions{CalcMode: &mode, FullCalcOnLoad: &full}); err != nil {
			return err
		}
	}
	if wb.Dates == grid.Date1904 {
		date1904 := true
		if err := w.f.SetWorkbookProps(&excelize.WorkbookPropsOptions{Date1904: &date1904}); err != nil {
			return err
		}
	}
	return nil
}
