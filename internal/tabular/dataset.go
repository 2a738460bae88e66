package tabular

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/JonMunkholm/sqluploader/internal/core"
)

// buildDataset types the records under header into a Dataset.
func buildDataset(header []string, records [][]string) (*core.Dataset, error) {
	names := headerNames(header)

	for i, rec := range records {
		if len(rec) > len(names) {
			return nil, fmt.Errorf("parse error on record %d: expected %d fields, saw %d", i+1, len(names), len(rec))
		}
	}

	ds := &core.Dataset{Columns: make([]core.Column, len(names))}
	cells := make([]string, len(records))
	for j, name := range names {
		for i, rec := range records {
			if j < len(rec) {
				cells[i] = rec[j]
			} else {
				cells[i] = ""
			}
		}
		ds.Columns[j] = core.CoerceColumn(name, cells)
	}
	return ds, nil
}

// headerNames fills blank header cells with "Unnamed: <index>" and suffixes
// repeated names with ".1", ".2", ... so every column has a distinct label.
func headerNames(header []string) []string {
	names := make([]string, len(header))
	seen := make(map[string]int, len(header))

	for i, h := range header {
		name := strings.TrimSpace(h)
		if name == "" {
			name = "Unnamed: " + strconv.Itoa(i)
		}

		if seen[name] > 0 {
			base := name
			for k := seen[base]; ; k++ {
				candidate := base + "." + strconv.Itoa(k)
				if seen[candidate] == 0 {
					name = candidate
					seen[base] = k + 1
					break
				}
			}
		}
		seen[name]++
		names[i] = name
	}
	return names
}

// splitHeader separates the first non-blank row from the records that follow,
// dropping blank records.
func splitHeader(rows [][]string) (header []string, records [][]string) {
	i := 0
	for i < len(rows) && blank(rows[i]) {
		i++
	}
	if i == len(rows) {
		return nil, nil
	}

	header = rows[i]
	for _, r := range rows[i+1:] {
		if !blank(r) {
			records = append(records, r)
		}
	}
	return header, records
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
