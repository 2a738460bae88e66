package core

import (
	"strconv"
	"testing"
)

// ============================================================================
// Conversion Benchmarks
// ============================================================================

// BenchmarkDetectKind benchmarks type detection over a mixed column.
// Every column of every upload goes through it.
func BenchmarkDetectKind(b *testing.B) {
	columns := map[string][]string{
		"integers":   {"1", "22", "-333", "", "4444"},
		"floats":     {"1.5", "2", "-3.25", "None", "1e3"},
		"timestamps": {"2024-01-15", "2024-02-01 10:30:00", "01/15/2024", ""},
		"text":       {"Alice", "30", "2024-01-15", "true"},
	}

	for name, cells := range columns {
		b.Run(name, func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				DetectKind(cells)
			}
		})
	}
}

// BenchmarkParseTimestamp benchmarks the layout search for dates.
func BenchmarkParseTimestamp(b *testing.B) {
	inputs := []string{
		"2024-01-15",
		"2024-01-15T10:30:00Z",
		"01/15/2024",
		"1/5/24",
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		for _, s := range inputs {
			ParseTimestamp(s)
		}
	}
}

// ============================================================================
// Load Path Benchmarks
// ============================================================================

func benchDataset(rows int) *Dataset {
	records := make([][]string, rows)
	for i := range records {
		n := strconv.Itoa(i)
		records[i] = []string{n, "customer " + n, "12." + n, "2024-01-15"}
	}
	return textDataset([]string{"ID", "Customer Name", "Amount", "Signed On"}, records...)
}

// BenchmarkPlanAndBuild benchmarks everything between a parsed file and
// the statements sent to the database.
func BenchmarkPlanAndBuild(b *testing.B) {
	for _, rows := range []int{100, 10000} {
		ds := benchDataset(rows)
		b.Run(strconv.Itoa(rows), func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				table, cols, err := PlanTable(ds, "customers", quietLogger())
				if err != nil {
					b.Fatal(err)
				}
				buildInserts(table, normalizeRows(cols))
			}
		})
	}
}

// BenchmarkInsertSQL benchmarks statement text generation at the
// bind-parameter ceiling.
func BenchmarkInsertSQL(b *testing.B) {
	columns := []string{"id", "customer_name", "amount", "signed_on"}
	rows := RowsPerStatement(len(columns))

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		InsertSQL("customers", columns, rows)
	}
}
