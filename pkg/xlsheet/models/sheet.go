package models

// SheetData represents the snapshot of a single sheet.
type SheetData struct {
	// Index is the sheet position in the container.
	Index int `json:"index"`
	// Rows contains rows holding at least one value.
	Rows []CellRow `json:"rows,omitempty"`
	// UsedRange is the bounding range of non-empty cells (e.g. "A1:D10").
	UsedRange string `json:"used_range,omitempty"`
	// TableCandidates contains cell ranges likely representing tables.
	TableCandidates []string `json:"table_candidates,omitempty"`
}
