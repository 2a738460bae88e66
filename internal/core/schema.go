package core

import (
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
)

// MaxBindParams is PostgreSQL's limit on bind parameters per statement.
const MaxBindParams = 65535

// Implicit columns added to every target table.
const (
	IDColumn         = "id"
	UploadTimeColumn = "upload_timestamp"
)

// quoteIdent quotes a single identifier for use in SQL text.
func quoteIdent(name string) string {
	return pgx.Identifier{name}.Sanitize()
}

// CreateTableSQL returns the CREATE TABLE IF NOT EXISTS statement for t.
func CreateTableSQL(t TargetTable) string {
	var b strings.Builder
	b.WriteString("CREATE TABLE IF NOT EXISTS ")
	b.WriteString(quoteIdent(t.Name))
	b.WriteString(" (\n    ")
	b.WriteString(IDColumn)
	b.WriteString(" SERIAL PRIMARY KEY")
	for _, c := range t.Columns {
		b.WriteString(",\n    ")
		b.WriteString(quoteIdent(c.Name))
		b.WriteByte(' ')
		b.WriteString(c.Type.String())
	}
	b.WriteString(",\n    ")
	b.WriteString(UploadTimeColumn)
	b.WriteString(" TIMESTAMP DEFAULT CURRENT_TIMESTAMP\n)")
	return b.String()
}

// InsertSQL returns a multi-row INSERT for rows rows into the given columns,
// numbering placeholders from $1.
func InsertSQL(table string, columns []string, rows int) string {
	var b strings.Builder
	b.WriteString("INSERT INTO ")
	b.WriteString(quoteIdent(table))
	b.WriteString(" (")
	for i, c := range columns {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(quoteIdent(c))
	}
	b.WriteString(") VALUES ")

	n := 1
	for r := 0; r < rows; r++ {
		if r > 0 {
			b.WriteString(", ")
		}
		b.WriteByte('(')
		for c := range columns {
			if c > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(&b, "$%d", n)
			n++
		}
		b.WriteByte(')')
	}
	return b.String()
}

// RowsPerStatement returns how many rows of width columns fit in one
// statement without exceeding MaxBindParams.
func RowsPerStatement(columns int) int {
	if columns <= 0 {
		return 0
	}
	return MaxBindParams / columns
}

// insertStatement is one queued INSERT and its flattened arguments.
type insertStatement struct {
	sql  string
	args []any
	rows int
}

// buildInserts splits rows into as few multi-row INSERT statements as the
// bind parameter limit allows.
func buildInserts(t TargetTable, rows [][]any) []insertStatement {
	columns := t.ColumnNames()
	per := RowsPerStatement(len(columns))
	if per == 0 || len(rows) == 0 {
		return nil
	}

	var stmts []insertStatement
	for start := 0; start < len(rows); start += per {
		end := min(start+per, len(rows))
		chunk := rows[start:end]

		args := make([]any, 0, len(chunk)*len(columns))
		for _, row := range chunk {
			args = append(args, row...)
		}

		stmts = append(stmts, insertStatement{
			sql:  InsertSQL(t.Name, columns, len(chunk)),
			args: args,
			rows: len(chunk),
		})
	}
	return stmts
}
