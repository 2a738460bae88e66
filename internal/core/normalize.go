package core

import (
	"math"
)

// NormalizeCell prepares a single value for insertion.
//
// nil, NaN, the empty string and the literal "None" become NULL (nil).
// Numbers are narrowed: whole values become int64, the rest float64.
// All other values pass through unchanged.
func NormalizeCell(v any) any {
	switch x := v.(type) {
	case nil:
		return nil
	case string:
		if x == "" || x == "None" {
			return nil
		}
		return x
	case float64:
		return narrowFloat(x)
	case float32:
		return narrowFloat(float64(x))
	case int:
		return int64(x)
	case int8:
		return int64(x)
	case int16:
		return int64(x)
	case int32:
		return int64(x)
	case int64:
		return x
	case uint:
		return narrowUint(uint64(x))
	case uint8:
		return int64(x)
	case uint16:
		return int64(x)
	case uint32:
		return int64(x)
	case uint64:
		return narrowUint(x)
	default:
		return v
	}
}

func narrowFloat(f float64) any {
	if math.IsNaN(f) {
		return nil
	}
	if f == math.Trunc(f) && f >= math.MinInt64 && f < math.MaxInt64 {
		return int64(f)
	}
	return f
}

func narrowUint(u uint64) any {
	if u > math.MaxInt64 {
		return float64(u)
	}
	return int64(u)
}

// normalizeRows builds the normalized row tuples of cols.
func normalizeRows(cols []Column) [][]any {
	if len(cols) == 0 {
		return nil
	}
	n := len(cols[0].Values)
	rows := make([][]any, n)
	for i := 0; i < n; i++ {
		row := make([]any, len(cols))
		for j, c := range cols {
			row[j] = NormalizeCell(c.Values[i])
		}
		rows[i] = row
	}
	return rows
}
