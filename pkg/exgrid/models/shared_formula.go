package models

// SharedFormula is one cell participating in a shared formula group.
type SharedFormula struct {
	// SheetName is the owning sheet.
	SheetName string `json:"sheet_name"`
	// Cell is the A1 reference of the cell.
	Cell string `json:"cell"`
	// Row is the 1-based row index.
	Row int `json:"row"`
	// Col is the 1-based column index.
	Col int `json:"col"`
	// SharedIndex is the group id.
	SharedIndex int `json:"shared_index"`
	// Formula is the formula text; empty for group followers.
	Formula string `json:"formula"`
	// Reference is the range the group covers; set on the anchor only.
	Reference string `json:"reference"`
}
