package models

// WorkbookData represents workbook-level container with per-sheet data.
type WorkbookData struct {
	// BookName is the workbook file name (no path).
	BookName string `json:"book_name"`
	// SheetNames lists sheets in declaration order.
	SheetNames []string `json:"sheet_names"`
	// Sheets maps sheet name to SheetData.
	Sheets map[string]SheetData `json:"sheets"`
	// CellFormats is the number of cell-format records.
	CellFormats int `json:"cell_formats"`
	// SharedStrings is the number of shared-string entries.
	SharedStrings int `json:"shared_strings"`
	// Calc holds the workbook calculation properties.
	Calc CalcProps `json:"calc"`
	// Regions lists defined names in workbook order.
	Regions []Region `json:"regions,omitempty"`
}

// CalcProps mirrors the workbook calculation properties.
type CalcProps struct {
	Mode           string `json:"mode"`
	FullCalcOnLoad bool   `json:"full_calc_on_load"`
}
