// Package tabular reads CSV and Excel workbooks into core.Dataset values.
//
// The first row of a file (or of the first worksheet) is the header. Every
// following row is a record; short records are padded with empty cells and
// fully blank records are skipped. Cell text is then typed column by column
// with core.CoerceColumn.
package tabular
