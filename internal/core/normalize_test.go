package core

import (
	"math"
	"testing"
	"time"
)

func TestNormalizeCell(t *testing.T) {
	ts := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		in   any
		want any
	}{
		{"nil", nil, nil},
		{"empty string", "", nil},
		{"None literal", "None", nil},
		{"NaN", math.NaN(), nil},
		{"float32 NaN", float32(math.NaN()), nil},
		{"whole float", 30.0, int64(30)},
		{"negative whole float", -2.0, int64(-2)},
		{"fractional float", 2.5, 2.5},
		{"huge float stays float", 1e300, 1e300},
		{"int", 7, int64(7)},
		{"int32", int32(-4), int64(-4)},
		{"uint8", uint8(200), int64(200)},
		{"uint64 overflow", uint64(math.MaxUint64), float64(math.MaxUint64)},
		{"text", "hello", "hello"},
		{"whitespace kept", " ", " "},
		{"bool", true, true},
		{"time", ts, ts},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeCell(tt.in); got != tt.want {
				t.Errorf("NormalizeCell(%#v) = %#v (%T), want %#v (%T)", tt.in, got, got, tt.want, tt.want)
			}
		})
	}
}

func TestNormalizeRows(t *testing.T) {
	cols := []Column{
		{Name: "a", Values: []any{1.0, nil}},
		{Name: "b", Values: []any{"x", "None"}},
	}

	rows := normalizeRows(cols)
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
	if rows[0][0] != int64(1) || rows[0][1] != "x" {
		t.Errorf("row 0 = %#v", rows[0])
	}
	if rows[1][0] != nil || rows[1][1] != nil {
		t.Errorf("row 1 = %#v", rows[1])
	}

	if normalizeRows(nil) != nil {
		t.Error("normalizeRows(nil) should be nil")
	}
}
