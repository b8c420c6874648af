// Package output serializes workbook snapshots.
package output

import (
	jsoniter "github.com/json-iterator/go"

	"github.com/ukaji3/xlsheet-go/pkg/xlsheet/models"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ToJSON serializes a workbook snapshot.
func ToJSON(wb *models.WorkbookData, pretty bool) ([]byte, error) {
	return marshal(wb, pretty)
}

// SheetToJSON serializes a single sheet snapshot.
func SheetToJSON(sheet *models.SheetData, pretty bool) ([]byte, error) {
	return marshal(sheet, pretty)
}

func marshal(v interface{}, pretty bool) ([]byte, error) {
	if pretty {
		return json.MarshalIndent(v, "", "  ")
	}
	return json.Marshal(v)
}
