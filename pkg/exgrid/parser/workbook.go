// Package parser reads xlsx packages into grids, style tables and defined
// names.
package parser

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/ukaji3/exgrid-go/pkg/exgrid/address"
	"github.com/ukaji3/exgrid-go/pkg/exgrid/diag"
	"github.com/ukaji3/exgrid-go/pkg/exgrid/grid"
	"github.com/ukaji3/exgrid-go/pkg/exgrid/models"
	"github.com/ukaji3/exgrid-go/pkg/exgrid/style"
	"github.com/xuri/excelize/v2"
)

// Sheet is one loaded worksheet.
type Sheet struct {
	Name string
	Grid *grid.Grid
}

// Workbook is everything Load reads from a package.
type Workbook struct {
	Sheets  []Sheet
	Styles  *style.Cache
	Strings *grid.SharedStrings
	Calc    *grid.Calc
	Regions []models.Region
	Dates   grid.DateSystem
}

// Load parses an xlsx package. cfg is applied to every grid; the file's
// date1904 flag overrides cfg.Dates.
func Load(ctx context.Context, data []byte, cfg grid.Config) (*Workbook, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, err
	}

	if props, err := f.GetWorkbookProps(); err == nil && props.Date1904 != nil && *props.Date1904 {
		cfg.Dates = grid.Date1904
	}
	wb := &Workbook{
		Strings: grid.NewSharedStrings(),
		Calc:    grid.NewCalc(),
		Dates:   cfg.Dates,
	}

	sst, err := readSharedStrings(zr)
	if err != nil {
		return nil, fmt.Errorf("shared strings: %w", err)
	}
	for _, s := range sst {
		wb.Strings.Add(s)
	}

	if wb.Styles, err = ImportStyles(ctx, f); err != nil {
		return nil, err
	}

	paths, err := worksheetPaths(zr)
	if err != nil {
		return nil, fmt.Errorf("workbook relationships: %w", err)
	}
	sheetNames := f.GetSheetList()
	for _, name := range sheetNames {
		g := grid.New(wb.Strings, wb.Calc, cfg)
		if path, ok := paths[name]; ok {
			ws, err := readWorksheet(zr, path)
			if err != nil {
				return nil, fmt.Errorf("sheet %q: %w", name, err)
			}
			if err := loadCells(g, ws); err != nil {
				return nil, fmt.Errorf("sheet %q: %w", name, err)
			}
		} else {
			diag.Warnf(ctx, "sheet %q has no worksheet part; loading it empty", name)
		}
		loadMerges(ctx, f, name, g)
		wb.Sheets = append(wb.Sheets, Sheet{Name: name, Grid: g})
	}

	wb.Regions = loadRegions(f, sheetNames)
	loadCalc(ctx, f, wb.Calc)
	return wb, nil
}

func loadMerges(ctx context.Context, f *excelize.File, sheet string, g *grid.Grid) {
	merges, err := f.GetMergeCells(sheet)
	if err != nil {
		diag.Warnf(ctx, "sheet %q: reading merged cells: %v", sheet, err)
		return
	}
	for _, mc := range merges {
		rng, err := address.DecodeRange(mc.GetStartAxis() + ":" + mc.GetEndAxis())
		if err == nil {
			err = g.Merge(rng)
		}
		if err != nil {
			diag.Warnf(ctx, "sheet %q: skipping merge %s:%s: %v", sheet, mc.GetStartAxis(), mc.GetEndAxis(), err)
		}
	}
}

func loadRegions(f *excelize.File, sheetNames []string) []models.Region {
	var regions []models.Region
	for _, dn := range f.GetDefinedName() {
		r := models.Region{
			Name:     dn.Name,
			RefersTo: strings.TrimPrefix(dn.RefersTo, "="),
		}
		if dn.Scope != "" && dn.Scope != "Workbook" {
			if i := slices.Index(sheetNames, dn.Scope); i >= 0 {
				r.LocalSheetID = &i
			}
		}
		regions = append(regions, r)
	}
	return regions
}

func loadCalc(ctx context.Context, f *excelize.File, calc *grid.Calc) {
	props, err := f.GetCalcProps()
	if err != nil {
		diag.Warnf(ctx, "reading calculation properties: %v", err)
		return
	}
	if props.CalcMode != nil && *props.CalcMode == string(grid.CalcManual) {
		calc.Mode = grid.CalcManual
	}
	if props.FullCalcOnLoad != nil {
		calc.FullCalcOnLoad = *props.FullCalcOnLoad
	}
}
