// Package models defines the JSON shapes of workbook dumps and exports.
package models

// CellRow represents a single materialized row.
type CellRow struct {
	// R is the row index (1-based).
	R int `json:"r"`
	// C maps column index (string) to cell value.
	C map[string]interface{} `json:"c"`
	// S maps column index to cell format id for cells that carry one.
	S map[string]int `json:"s,omitempty"`
	// F maps column index to formula text.
	F map[string]string `json:"f,omitempty"`
	// Style is the row-level format id, if any.
	Style *int `json:"style,omitempty"`
}
