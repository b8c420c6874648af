package xlsheet

import (
	"fmt"
	"strconv"

	"github.com/ukaji3/xlsheet-go/pkg/xlsheet/models"
)

// toCellValue maps a Go scalar to a cell value. Integers are checked
// against MaxNumericInt whatever the platform int width.
func toCellValue(value any) (models.CellValue, error) {
	switch v := value.(type) {
	case nil:
		return models.Blank(), nil
	case models.CellValue:
		if v.Type == models.CellTypeUnset {
			return models.CellValue{}, fmt.Errorf("%w: cell value without type", ErrUnsupportedValue)
		}
		return v, nil
	case bool:
		return models.Bool(v), nil
	case string:
		return models.Text(v), nil
	case models.ErrorCode:
		return models.Error(v), nil
	case float64:
		return models.Number(v), nil
	case float32:
		return models.Number(float64(v)), nil
	case int:
		return fromInt(int64(v)), nil
	case int8:
		return fromInt(int64(v)), nil
	case int16:
		return fromInt(int64(v)), nil
	case int32:
		return fromInt(int64(v)), nil
	case int64:
		return fromInt(v), nil
	case uint:
		return fromUint(uint64(v)), nil
	case uint8:
		return fromUint(uint64(v)), nil
	case uint16:
		return fromUint(uint64(v)), nil
	case uint32:
		return fromUint(uint64(v)), nil
	case uint64:
		return fromUint(v), nil
	default:
		return models.CellValue{}, fmt.Errorf("%w: %T", ErrUnsupportedValue, value)
	}
}

func toCellValues(values []any) ([]models.CellValue, error) {
	cells := make([]models.CellValue, len(values))
	for i, value := range values {
		v, err := toCellValue(value)
		if err != nil {
			return nil, err
		}
		cells[i] = v
	}
	return cells, nil
}

func fromInt(i int64) models.CellValue {
	if i > MaxNumericInt {
		return models.Text(strconv.FormatInt(i, 10))
	}
	return models.Number(float64(i))
}

func fromUint(u uint64) models.CellValue {
	if u > MaxNumericInt {
		return models.Text(strconv.FormatUint(u, 10))
	}
	return models.Number(float64(u))
}
