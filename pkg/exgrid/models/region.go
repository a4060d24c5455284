package models

// PrintAreaName is the reserved defined name holding a sheet's print area.
const PrintAreaName = "_xlnm.Print_Area"

// Region is a workbook defined name.
type Region struct {
	Name string `json:"name"`
	// LocalSheetID scopes the name to one sheet (0-based position); nil
	// means workbook scope.
	LocalSheetID *int `json:"local_sheet_id,omitempty"`
	// RefersTo is the reference text without a leading '='.
	RefersTo string `json:"refers_to"`
}

// ScopedTo reports whether r is local to the sheet at index.
func (r Region) ScopedTo(index int) bool {
	return r.LocalSheetID != nil && *r.LocalSheetID == index
}
