package models

// ColumnStyle is a column span carrying a default format.
type ColumnStyle struct {
	Min   int `json:"min"`
	Max   int `json:"max"`
	Style int `json:"style"`
}

// SheetData represents structured data for a single sheet.
type SheetData struct {
	// Index is the 0-based sheet position.
	Index int `json:"index"`
	// Rows contains materialized rows in ascending order.
	Rows []CellRow `json:"rows,omitempty"`
	// Merges contains merged ranges in A1:B2 form.
	Merges []string `json:"merges,omitempty"`
	// Columns contains column format spans in definition order.
	Columns []ColumnStyle `json:"columns,omitempty"`
	// PrintAreas contains the sheet's print areas.
	PrintAreas []PrintArea `json:"print_areas,omitempty"`
}
