package models

import (
	"strconv"
)

// CellType is the type tag stored with a cell.
//
// The zero value is not a valid tag. Codecs leave it unset for cells whose
// stored type has no counterpart in this package.
type CellType uint8

const (
	CellTypeUnset CellType = iota
	CellTypeBoolean
	CellTypeNumeric
	CellTypeText
	CellTypeBlank
	CellTypeError
	CellTypeFormulaNumeric
)

var cellTypeNames = [...]string{
	CellTypeUnset:          "unset",
	CellTypeBoolean:        "boolean",
	CellTypeNumeric:        "numeric",
	CellTypeText:           "text",
	CellTypeBlank:          "blank",
	CellTypeError:          "error",
	CellTypeFormulaNumeric: "formula",
}

func (t CellType) String() string {
	if int(t) < len(cellTypeNames) {
		return cellTypeNames[t]
	}
	return "CellType(" + strconv.Itoa(int(t)) + ")"
}

// ErrorCode is the payload of an error cell, e.g. "#DIV/0!".
type ErrorCode string

func (e ErrorCode) String() string { return string(e) }

// CellValue is one cell's content and its type tag. Only the field matching
// Type is meaningful.
type CellValue struct {
	Type    CellType
	Bool    bool
	Number  float64
	Text    string
	Formula string
}

// Bool returns a boolean cell value.
func Bool(b bool) CellValue { return CellValue{Type: CellTypeBoolean, Bool: b} }

// Number returns a numeric cell value.
func Number(f float64) CellValue { return CellValue{Type: CellTypeNumeric, Number: f} }

// Text returns a text cell value.
func Text(s string) CellValue { return CellValue{Type: CellTypeText, Text: s} }

// Blank returns a blank cell value.
func Blank() CellValue { return CellValue{Type: CellTypeBlank} }

// Error returns an error cell value carrying code.
func Error(code ErrorCode) CellValue { return CellValue{Type: CellTypeError, Text: string(code)} }

// Formula returns a formula cell whose cached numeric result is cached.
func Formula(expr string, cached float64) CellValue {
	return CellValue{Type: CellTypeFormulaNumeric, Formula: expr, Number: cached}
}
