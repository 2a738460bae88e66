package core

import (
	"errors"
	"fmt"
	"strings"
)

// Prefixes prepended to cleaned identifiers that would start with a digit.
const (
	ColumnPrefix = "col_"
	TablePrefix  = "tbl_"
)

// ErrEmptyIdentifier is returned when nothing is left of a name after cleaning.
var ErrEmptyIdentifier = errors.New("identifier is empty after cleaning")

// CleanIdentifier reduces raw to lowercase ASCII letters, digits and
// underscores. Every other character is dropped, not replaced, so distinct
// names can collide ("Col A" and "Col-A" both become "cola").
// If the result starts with a digit, prefix is prepended.
func CleanIdentifier(raw, prefix string) (string, error) {
	var b strings.Builder
	b.Grow(len(raw))

	for _, r := range raw {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_':
			b.WriteRune(r)
		case r >= 'A' && r <= 'Z':
			b.WriteRune(r + ('a' - 'A'))
		}
	}

	clean := b.String()
	if clean == "" {
		return "", fmt.Errorf("%w: %q", ErrEmptyIdentifier, raw)
	}
	if clean[0] >= '0' && clean[0] <= '9' {
		clean = prefix + clean
	}
	return clean, nil
}

// CleanColumnName cleans a column header using the "col_" prefix.
func CleanColumnName(raw string) (string, error) {
	return CleanIdentifier(raw, ColumnPrefix)
}

// CleanTableName cleans a table name using the "tbl_" prefix.
func CleanTableName(raw string) (string, error) {
	return CleanIdentifier(raw, TablePrefix)
}
