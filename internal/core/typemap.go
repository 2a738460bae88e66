package core

import "log/slog"

// InferSQLType maps a column's kind to its PostgreSQL type.
// Text, missing-only and unrecognized kinds fall back to TEXT.
func InferSQLType(col Column) SQLType {
	switch col.Kind {
	case KindInteger:
		return SQLBigInt
	case KindFloat:
		return SQLDoublePrecision
	case KindTimestamp:
		return SQLTimestamp
	case KindBoolean:
		return SQLBoolean
	default:
		return SQLText
	}
}

// PlanTable sanitizes the table and column names of ds and derives the
// target schema. It returns the table together with the columns that will be
// loaded, aligned with table.Columns.
//
// When two columns clean to the same name, the later column's data replaces
// the earlier one at the earlier column's position.
func PlanTable(ds *Dataset, rawTable string, logger *slog.Logger) (TargetTable, []Column, error) {
	name, err := CleanTableName(rawTable)
	if err != nil {
		return TargetTable{}, nil, err
	}

	table := TargetTable{Name: name}
	var cols []Column
	pos := make(map[string]int, len(ds.Columns))

	for _, col := range ds.Columns {
		clean, err := CleanColumnName(col.Name)
		if err != nil {
			return TargetTable{}, nil, err
		}

		spec := ColumnSpec{Name: clean, Type: InferSQLType(col)}

		if i, dup := pos[clean]; dup {
			if logger != nil {
				logger.Warn("column name collision, keeping last",
					"table", name,
					"column", clean,
					"raw", col.Name,
					"replaced", cols[i].Name,
				)
			}
			table.Columns[i] = spec
			cols[i] = col
			continue
		}

		pos[clean] = len(cols)
		table.Columns = append(table.Columns, spec)
		cols = append(cols, col)
	}

	return table, cols, nil
}
