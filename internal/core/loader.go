package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
)

// Loader creates target tables and bulk-loads datasets into them.
// Every call opens and closes its own connection; nothing is pooled.
type Loader struct {
	connect ConnectFunc
	logger  *slog.Logger
}

// NewLoader creates a Loader. A nil connect uses Connect; a nil logger uses
// slog.Default().
func NewLoader(connect ConnectFunc, logger *slog.Logger) *Loader {
	if connect == nil {
		connect = Connect
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{connect: connect, logger: logger}
}

// Upload loads ds into the table named by rawTable (after cleaning) and
// returns the number of rows inserted.
//
// The table is created if it does not exist. Creation and insertion run in
// one transaction that is rolled back on any failure, so a failed upload
// leaves no rows behind. Errors are always *LoadError.
func (l *Loader) Upload(ctx context.Context, cfg ConnectionConfig, ds *Dataset, rawTable string) (n int, err error) {
	defer func() {
		if r := recover(); r != nil {
			n, err = 0, newLoadError(ErrorUnexpected, fmt.Errorf("panic during load: %v", r))
		}
	}()

	if ds.Empty() {
		return 0, newLoadError(ErrorEmptyInput, ErrEmptyDataset)
	}
	if err := ds.Validate(); err != nil {
		return 0, newLoadError(ErrorUnexpected, err)
	}

	table, cols, err := PlanTable(ds, rawTable, l.logger)
	if err != nil {
		return 0, newLoadError(ErrorUnexpected, err)
	}
	rows := normalizeRows(cols)

	logger := l.logger.With("table", table.Name, "target", cfg.String())
	start := time.Now()

	conn, err := l.connect(ctx, cfg)
	if err != nil {
		return 0, databaseError("connect", err)
	}
	defer func() {
		if cerr := conn.Close(ctx); cerr != nil {
			logger.Warn("close connection", "error", cerr)
		}
	}()

	tx, err := conn.Begin(ctx)
	if err != nil {
		return 0, databaseError("begin transaction", err)
	}
	// Rollback is a no-op once the transaction has committed, and also runs
	// while a panic unwinds.
	defer func() {
		if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			logger.Warn("rollback failed", "error", rbErr)
		}
	}()

	inserted, err := l.load(ctx, tx, table, rows)
	if err != nil {
		logger.Error("load failed, rolling back", "error", err)
		return 0, err
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, databaseError("commit", err)
	}

	logger.Info("load committed",
		"rows", inserted,
		"columns", len(table.Columns),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return inserted, nil
}

// load runs the CREATE TABLE and the batched INSERTs inside tx.
func (l *Loader) load(ctx context.Context, tx pgx.Tx, table TargetTable, rows [][]any) (int, error) {
	if _, err := tx.Exec(ctx, CreateTableSQL(table)); err != nil {
		return 0, databaseError("create table", err)
	}

	stmts := buildInserts(table, rows)
	if len(stmts) == 0 {
		return 0, nil
	}

	batch := &pgx.Batch{}
	for _, s := range stmts {
		batch.Queue(s.sql, s.args...)
	}

	br := tx.SendBatch(ctx, batch)
	inserted := 0
	for range stmts {
		tag, err := br.Exec()
		if err != nil {
			_ = br.Close()
			return 0, databaseError("insert", err)
		}
		inserted += int(tag.RowsAffected())
	}
	if err := br.Close(); err != nil {
		return 0, databaseError("insert", err)
	}

	return inserted, nil
}
