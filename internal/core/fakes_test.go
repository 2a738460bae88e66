package core

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// fakeDB stands in for a PostgreSQL server. It records the statements a
// Loader sends and can be told to fail at a given step.
type fakeDB struct {
	mu sync.Mutex

	connectErr  error
	beginErr    error
	createErr   error
	insertErr   error
	insertAt    int // index of the INSERT statement that fails
	commitErr   error
	panicBatch  bool
	connects    int
	execs       []string
	queued      []*pgx.QueuedQuery
	committed   bool
	rolledBack  bool
	closedConns int
}

func newFakeDB() *fakeDB {
	return &fakeDB{insertAt: -1}
}

func (db *fakeDB) connect(ctx context.Context, cfg ConnectionConfig) (Conn, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.connects++
	if db.connectErr != nil {
		return nil, db.connectErr
	}
	return &fakeConn{db: db}, nil
}

type fakeConn struct {
	db *fakeDB
}

func (c *fakeConn) Begin(ctx context.Context) (pgx.Tx, error) {
	if c.db.beginErr != nil {
		return nil, c.db.beginErr
	}
	return &fakeTx{db: c.db}, nil
}

func (c *fakeConn) Close(ctx context.Context) error {
	c.db.mu.Lock()
	defer c.db.mu.Unlock()
	c.db.closedConns++
	return nil
}

// fakeTx implements the pgx.Tx methods the loader calls. Any other method
// panics through the nil embedded interface.
type fakeTx struct {
	pgx.Tx
	db *fakeDB
}

func (tx *fakeTx) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	tx.db.mu.Lock()
	defer tx.db.mu.Unlock()
	tx.db.execs = append(tx.db.execs, sql)
	if strings.HasPrefix(sql, "CREATE TABLE") && tx.db.createErr != nil {
		return pgconn.CommandTag{}, tx.db.createErr
	}
	return pgconn.NewCommandTag("CREATE TABLE"), nil
}

func (tx *fakeTx) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults {
	tx.db.mu.Lock()
	defer tx.db.mu.Unlock()
	tx.db.queued = append(tx.db.queued, b.QueuedQueries...)
	if tx.db.panicBatch {
		panic("batch exploded")
	}
	return &fakeBatchResults{db: tx.db, queries: b.QueuedQueries}
}

func (tx *fakeTx) Commit(ctx context.Context) error {
	if tx.db.commitErr != nil {
		return tx.db.commitErr
	}
	tx.db.committed = true
	return nil
}

func (tx *fakeTx) Rollback(ctx context.Context) error {
	if !tx.db.committed {
		tx.db.rolledBack = true
	}
	return nil
}

type fakeBatchResults struct {
	db      *fakeDB
	queries []*pgx.QueuedQuery
	next    int
}

func (r *fakeBatchResults) Exec() (pgconn.CommandTag, error) {
	if r.next >= len(r.queries) {
		return pgconn.CommandTag{}, errors.New("no more results")
	}
	q := r.queries[r.next]
	i := r.next
	r.next++
	if i == r.db.insertAt {
		return pgconn.CommandTag{}, r.db.insertErr
	}
	rows := strings.Count(q.SQL, "), (") + 1
	return pgconn.NewCommandTag("INSERT 0 " + strconv.Itoa(rows)), nil
}

func (r *fakeBatchResults) Query() (pgx.Rows, error) {
	return nil, errors.New("not implemented")
}

func (r *fakeBatchResults) QueryRow() pgx.Row {
	return nil
}

func (r *fakeBatchResults) Close() error {
	return nil
}

// textDataset builds a Dataset from a header and string rows the way the
// tabular readers do.
func textDataset(header []string, rows ...[]string) *Dataset {
	ds := &Dataset{}
	for j, name := range header {
		cells := make([]string, len(rows))
		for i, r := range rows {
			if j < len(r) {
				cells[i] = r[j]
			}
		}
		ds.Columns = append(ds.Columns, CoerceColumn(name, cells))
	}
	return ds
}
