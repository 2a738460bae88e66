package core

// convert.go turns raw cell text into typed values.
//
// Tabular files arrive as text (CSV) or as formatted cell strings (Excel).
// These functions decide what kind of data a column holds and coerce each
// cell to the matching Go value:
//   - Integers and floats (plain and scientific notation)
//   - Dates and timestamps in common US, EU and ISO layouts
//   - Booleans written as true/false
//   - Missing markers (empty cell, NA, NaN, None, ...)
//
// Coercion never fails a whole column: a cell that cannot be converted
// becomes nil (missing).

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// numericRegex validates that a string is a plain numeric literal.
// Matches integers, decimals, and scientific notation.
var numericRegex = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?$`)

// TwoDigitYearPivot defines how 2-digit years are interpreted.
// Years that would result in dates more than this many years in the future
// are assumed to be in the previous century.
var TwoDigitYearPivot = 20

// missingMarkers are cell values read as "no value".
var missingMarkers = map[string]struct{}{
	"":     {},
	"NA":   {},
	"N/A":  {},
	"n/a":  {},
	"NaN":  {},
	"nan":  {},
	"null": {},
	"NULL": {},
	"None": {},
	"#N/A": {},
}

var (
	twoDigitYearLayouts = []string{
		"1/2/06", "01/02/06", "1-2-06", "1.2.06", "01.02.06",
	}
	fourDigitYearLayouts = []string{
		time.RFC3339Nano, time.RFC3339,
		"2006-01-02T15:04:05", "2006-01-02 15:04:05", "2006-01-02 15:04:05.999999999",
		"2006-01-02 15:04", "2006/01/02 15:04:05", "1/2/2006 15:04:05", "1/2/2006 15:04",
		"1/2/2006", "01/02/2006", "1-2-2006", "01-02-2006", "1.2.2006", "01.02.2006",
		"2006-01-02", "2006/01/02", "2006.01.02",
		"Jan 2, 2006", "2 Jan 2006", "02-Jan-2006",
	}
)

// IsMissing reports whether a raw cell is a missing-value marker.
func IsMissing(s string) bool {
	_, ok := missingMarkers[strings.TrimSpace(s)]
	return ok
}

// ParseInt parses a whole number that fits in int64.
func ParseInt(s string) (int64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	i, err := strconv.ParseInt(strings.TrimPrefix(s, "+"), 10, 64)
	if err != nil {
		return 0, false
	}
	return i, true
}

// ParseFloat parses any numeric literal accepted by numericRegex.
func ParseFloat(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if !numericRegex.MatchString(s) {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// ParseTimestamp parses a date or date-time in one of the supported layouts.
// 2-digit years are resolved against TwoDigitYearPivot.
func ParseTimestamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}

	for _, layout := range fourDigitYearLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}

	pivotYear := time.Now().Year() + TwoDigitYearPivot
	for _, layout := range twoDigitYearLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			if t.Year() > pivotYear {
				t = t.AddDate(-100, 0, 0)
			}
			return t, true
		}
	}

	return time.Time{}, false
}

// ParseBool accepts only the words true and false, in any case.
// Numeric flags such as 1/0 stay numeric.
func ParseBool(s string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true":
		return true, true
	case "false":
		return false, true
	default:
		return false, false
	}
}

// DetectKind classifies a column from its raw cells. Missing cells are
// ignored; the first rule every remaining cell satisfies wins:
// integer, float, timestamp, boolean, and text otherwise.
func DetectKind(cells []string) Kind {
	allInt, allFloat, allTime, allBool := true, true, true, true
	seen := 0

	for _, c := range cells {
		if IsMissing(c) {
			continue
		}
		seen++

		if allInt {
			if _, ok := ParseInt(c); !ok {
				allInt = false
			}
		}
		if allFloat {
			if _, ok := ParseFloat(c); !ok {
				allFloat = false
			}
		}
		if allTime {
			if _, ok := ParseTimestamp(c); !ok {
				allTime = false
			}
		}
		if allBool {
			if _, ok := ParseBool(c); !ok {
				allBool = false
			}
		}
		if !allInt && !allFloat && !allTime && !allBool {
			return KindText
		}
	}

	switch {
	case seen == 0:
		return KindMissing
	case allInt:
		return KindInteger
	case allFloat:
		return KindFloat
	case allTime:
		return KindTimestamp
	case allBool:
		return KindBoolean
	default:
		return KindText
	}
}

// CoerceCell converts one raw cell to the Go value for kind.
// Missing markers and cells that fail conversion yield nil.
func CoerceCell(kind Kind, s string) any {
	if IsMissing(s) {
		return nil
	}

	switch kind {
	case KindInteger:
		if i, ok := ParseInt(s); ok {
			return i
		}
		if f, ok := ParseFloat(s); ok && f == math.Trunc(f) && math.Abs(f) < 1<<63 {
			return int64(f)
		}
		return nil
	case KindFloat:
		if f, ok := ParseFloat(s); ok {
			return f
		}
		return nil
	case KindTimestamp:
		if t, ok := ParseTimestamp(s); ok {
			return t
		}
		return nil
	case KindBoolean:
		if b, ok := ParseBool(s); ok {
			return b
		}
		return nil
	case KindMissing:
		return nil
	default:
		return s
	}
}

// CoerceColumn detects the kind of cells and builds a typed Column.
func CoerceColumn(name string, cells []string) Column {
	kind := DetectKind(cells)
	values := make([]any, len(cells))
	for i, c := range cells {
		values[i] = CoerceCell(kind, c)
	}
	return Column{Name: name, Kind: kind, Values: values}
}
