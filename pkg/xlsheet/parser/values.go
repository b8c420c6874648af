// Package parser converts CLI text to cell values and derives range
// summaries from sheet snapshots.
package parser

import (
	"math"
	"strconv"
	"strings"
)

// ParseValue converts command-line text to the scalar it denotes.
// Returns nil for an empty string, int64 for integers, float64 for decimals,
// bool for true/false (any case), or the original string.
func ParseValue(s string) interface{} {
	if s == "" {
		return nil
	}
	// Try integer first
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	// Try float
	if f, err := strconv.ParseFloat(s, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
		return f
	}
	switch strings.ToLower(s) {
	case "true":
		return true
	case "false":
		return false
	}
	// Return as string
	return s
}
