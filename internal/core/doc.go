// Package core provides the schema-inference-and-load logic of the uploader.
//
// This package knows nothing about HTTP or file formats. Callers parse an
// uploaded file into a [Dataset] first; the core then derives a relational
// schema from it and loads it into PostgreSQL.
//
// # Load Flow
//
// [Loader.Upload] runs the whole load for one dataset:
//
//  1. The table name and every column name are sanitized with [CleanIdentifier]
//  2. Each column is mapped to a [SQLType] via [InferSQLType]
//  3. A single connection is opened and a transaction begun
//  4. CREATE TABLE IF NOT EXISTS is executed (no-op when the table exists)
//  5. Every cell is passed through [NormalizeCell] (NULL handling, numeric narrowing)
//  6. All rows are inserted with multi-row INSERT statements sent as one batch
//  7. The transaction is committed, or rolled back on any failure
//
// The connection is closed on every exit path. Nothing is retried.
//
// # Batches
//
// [BatchProcessor] turns a set of uploaded files into one outcome line per
// file. It owns the extension allow-list, the temporary file lifecycle and the
// empty-file check, and delegates parsing to a [DatasetReader].
//
// # Error Handling
//
// Load failures are returned as [*LoadError] carrying an [ErrorKind]:
//
//   - ErrorConnection: credentials rejected or host unreachable at connect time
//   - ErrorEmptyInput: the dataset has no rows
//   - ErrorDatabase: connection, SQL or constraint failure during the load
//   - ErrorUnexpected: anything else (bad identifiers, malformed content)
//
// Technical errors are also mapped to user-facing hints using [MapError].
package core
