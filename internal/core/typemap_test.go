package core

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestInferSQLType(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{KindInteger, "BIGINT"},
		{KindFloat, "DOUBLE PRECISION"},
		{KindTimestamp, "TIMESTAMP"},
		{KindBoolean, "BOOLEAN"},
		{KindText, "TEXT"},
		{KindMissing, "TEXT"},
		{Kind(99), "TEXT"},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			if got := InferSQLType(Column{Kind: tt.kind}).String(); got != tt.want {
				t.Errorf("InferSQLType(%v) = %s, want %s", tt.kind, got, tt.want)
			}
		})
	}
}

func TestPlanTable(t *testing.T) {
	ds := textDataset(
		[]string{"First Name", "2024 Total", "Joined"},
		[]string{"Ann", "1.5", "2024-01-01"},
	)

	table, cols, err := PlanTable(ds, "Q1 Report", nil)
	if err != nil {
		t.Fatalf("PlanTable: %v", err)
	}
	if table.Name != "q1report" {
		t.Errorf("table name = %q, want q1report", table.Name)
	}

	want := []ColumnSpec{
		{Name: "firstname", Type: SQLText},
		{Name: "col_2024total", Type: SQLDoublePrecision},
		{Name: "joined", Type: SQLTimestamp},
	}
	if len(table.Columns) != len(want) {
		t.Fatalf("got %d columns, want %d", len(table.Columns), len(want))
	}
	for i, w := range want {
		if table.Columns[i] != w {
			t.Errorf("column %d = %+v, want %+v", i, table.Columns[i], w)
		}
	}
	if len(cols) != len(want) {
		t.Errorf("got %d data columns, want %d", len(cols), len(want))
	}
}

func TestPlanTable_CollisionKeepsLast(t *testing.T) {
	ds := textDataset(
		[]string{"Amount", "id2", "AMOUNT!"},
		[]string{"x", "1", "2.5"},
	)

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	table, cols, err := PlanTable(ds, "t", logger)
	if err != nil {
		t.Fatalf("PlanTable: %v", err)
	}

	if got := strings.Join(table.ColumnNames(), ","); got != "amount,id2" {
		t.Errorf("columns = %s, want amount,id2", got)
	}
	if table.Columns[0].Type != SQLDoublePrecision {
		t.Errorf("amount type = %v, want DOUBLE PRECISION", table.Columns[0].Type)
	}
	if cols[0].Values[0] != 2.5 {
		t.Errorf("amount value = %#v, want 2.5", cols[0].Values[0])
	}
	if !strings.Contains(buf.String(), "column name collision") {
		t.Errorf("expected collision warning, got log %q", buf.String())
	}
}

func TestPlanTable_EmptyIdentifiers(t *testing.T) {
	ds := textDataset([]string{"a"}, []string{"1"})
	if _, _, err := PlanTable(ds, "---", nil); err == nil {
		t.Error("expected error for empty table name")
	}

	ds = textDataset([]string{"a", "()"}, []string{"1", "2"})
	if _, _, err := PlanTable(ds, "t", nil); err == nil {
		t.Error("expected error for empty column name")
	}
}
