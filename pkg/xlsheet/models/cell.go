// Package models defines the cell value types and the snapshot structures
// produced when a workbook is extracted.
package models

// CellRow represents a single non-empty row of a sheet snapshot.
type CellRow struct {
	// R is the row index (0-based).
	R int `json:"r"`
	// C maps column index (string) to the dispatched cell value.
	C map[string]interface{} `json:"c"`
	// Types maps column index to the cell type name (optional).
	Types map[string]string `json:"types,omitempty"`
}
