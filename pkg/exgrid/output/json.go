// Package output renders workbook dumps as JSON.
package output

import (
	"bytes"
	"encoding/json"

	"github.com/ukaji3/exgrid-go/pkg/exgrid/models"
)

// ToJSON serializes a workbook dump.
func ToJSON(wb *models.WorkbookData, pretty bool) ([]byte, error) {
	return marshal(wb, pretty)
}

// SheetToJSON serializes a single sheet.
func SheetToJSON(sheet *models.SheetData, pretty bool) ([]byte, error) {
	return marshal(sheet, pretty)
}

// PrintAreaViewToJSON serializes a print-area view.
func PrintAreaViewToJSON(view *models.PrintAreaView, pretty bool) ([]byte, error) {
	return marshal(view, pretty)
}

// SharedFormulasToJSON serializes shared-formula export records.
func SharedFormulasToJSON(records []models.SharedFormula, pretty bool) ([]byte, error) {
	if records == nil {
		records = []models.SharedFormula{}
	}
	return marshal(records, pretty)
}

// marshal encodes v without HTML escaping so formulas such as A1<B1 stay
// readable.
func marshal(v any, pretty bool) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// PrintAreaView restricts a sheet dump to area: rows inside the area's row
// span with only the columns inside it, and merges intersecting it.
func PrintAreaView(bookName, sheetName string, sheet models.SheetData, area models.PrintArea) models.PrintAreaView {
	view := models.PrintAreaView{
		BookName:  bookName,
		SheetName: sheetName,
		Area:      area,
	}
	for _, row := range sheet.Rows {
		if row.R < area.R1 || row.R > area.R2 {
			continue
		}
		if clipped, ok := clipRow(row, area); ok {
			view.Rows = append(view.Rows, clipped)
		}
	}
	for _, m := range sheet.Merges {
		if mergeIntersects(m, area) {
			view.Merges = append(view.Merges, m)
		}
	}
	return view
}
