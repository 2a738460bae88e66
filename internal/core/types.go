package core

import (
	"fmt"
	"time"
)

// Kind is the inferred kind of the values in a dataset column.
type Kind int

const (
	KindMissing Kind = iota // no non-missing values at all
	KindInteger
	KindFloat
	KindTimestamp
	KindBoolean
	KindText
)

// String returns the lowercase name of the kind.
func (k Kind) String() string {
	switch k {
	case KindMissing:
		return "missing"
	case KindInteger:
		return "integer"
	case KindFloat:
		return "float"
	case KindTimestamp:
		return "timestamp"
	case KindBoolean:
		return "boolean"
	case KindText:
		return "text"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// SQLType is the PostgreSQL column type chosen for a dataset column.
type SQLType int

const (
	SQLText SQLType = iota
	SQLBigInt
	SQLDoublePrecision
	SQLTimestamp
	SQLBoolean
)

// String returns the type as it appears in DDL.
func (t SQLType) String() string {
	switch t {
	case SQLBigInt:
		return "BIGINT"
	case SQLDoublePrecision:
		return "DOUBLE PRECISION"
	case SQLTimestamp:
		return "TIMESTAMP"
	case SQLBoolean:
		return "BOOLEAN"
	default:
		return "TEXT"
	}
}

// Column is one named column of a Dataset.
//
// Values holds nil for missing cells and otherwise one of int64, float64,
// time.Time, bool or string, consistent with Kind.
type Column struct {
	Name   string
	Kind   Kind
	Values []any
}

// Dataset is an in-memory table: an ordered set of equal-length columns.
// Rows are implicit and aligned by position.
type Dataset struct {
	Columns []Column
}

// Rows returns the number of rows in the dataset.
func (d *Dataset) Rows() int {
	if d == nil || len(d.Columns) == 0 {
		return 0
	}
	return len(d.Columns[0].Values)
}

// Empty reports whether the dataset has no rows.
func (d *Dataset) Empty() bool {
	return d.Rows() == 0
}

// Validate checks that all columns have the same length.
func (d *Dataset) Validate() error {
	if d == nil {
		return nil
	}
	n := d.Rows()
	for _, c := range d.Columns {
		if len(c.Values) != n {
			return fmt.Errorf("column %q has %d values, expected %d", c.Name, len(c.Values), n)
		}
	}
	return nil
}

// Row returns the values of row i in column order.
func (d *Dataset) Row(i int) []any {
	row := make([]any, len(d.Columns))
	for j, c := range d.Columns {
		row[j] = c.Values[i]
	}
	return row
}

// ColumnSpec is the cleaned name and SQL type of one target column.
type ColumnSpec struct {
	Name string
	Type SQLType
}

// TargetTable describes the table a dataset is loaded into. The surrogate id
// and upload_timestamp columns are implicit and generated by the server.
type TargetTable struct {
	Name    string
	Columns []ColumnSpec
}

// ColumnNames returns the cleaned column names in order.
func (t TargetTable) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}

// FileOutcome is the result of processing one uploaded file.
type FileOutcome struct {
	FileName string
	Table    string
	Rows     int
	Err      error
	Duration time.Duration
}

// OK reports whether the file was loaded.
func (o FileOutcome) OK() bool {
	return o.Err == nil
}

// Line renders the outcome as a single human-readable line.
func (o FileOutcome) Line() string {
	if o.Err == nil {
		return fmt.Sprintf("✅ %s: %d records uploaded to table %q", o.FileName, o.Rows, o.Table)
	}
	return fmt.Sprintf("❌ %s: %s", o.FileName, OutcomeMessage(o.Err))
}
