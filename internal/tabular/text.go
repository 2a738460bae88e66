package tabular

import (
	"bufio"
	"bytes"
	"io"
	"strings"
	"unicode/utf8"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// skipBOM returns a reader positioned after a leading UTF-8 byte order mark,
// if there is one. Spreadsheet programs on Windows add it to CSV exports.
func skipBOM(r io.Reader) io.Reader {
	br := bufio.NewReader(r)
	if head, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(head, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}
	return br
}

// cleanCell replaces invalid UTF-8 with U+FFFD so cells are valid PostgreSQL
// text.
func cleanCell(s string) string {
	if utf8.ValidString(s) {
		return s
	}
	return strings.ToValidUTF8(s, "\uFFFD")
}

func cleanRecord(rec []string) []string {
	for i, c := range rec {
		rec[i] = cleanCell(c)
	}
	return rec
}
