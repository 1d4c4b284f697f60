package trace

import (
	"database/sql"
	"fmt"
	"os"
	"sync"
	"time"

	// Need to use SQLite connections.
	_ "github.com/mattn/go-sqlite3"

	"github.com/rs/xid"
	"github.com/tebeka/atexit"
)

// DefaultBatchSize is the number of cycles buffered before a flush.
const DefaultBatchSize = 4096

// SQLiteWriter buffers cycles and writes them to a SQLite database in
// batches. Buffered cycles are also flushed at process exit through
// atexit.Exit.
type SQLiteWriter struct {
	mu        sync.Mutex
	db        *sql.DB
	statement *sql.Stmt
	path      string
	pending   []Cycle
	batchSize int
}

// NewSQLiteWriter creates the database at path, which must not exist. An
// empty path picks a unique name in the working directory. batchSize <= 0
// means DefaultBatchSize.
func NewSQLiteWriter(path string, batchSize int) (*SQLiteWriter, error) {
	if path == "" {
		path = "lcdterm_trace_" + xid.New().String() + ".sqlite3"
	}
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	if _, err := os.Stat(path); err == nil {
		return nil, fmt.Errorf("trace: file %s already exists", path)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("trace: open %s: %w", path, err)
	}
	w := &SQLiteWriter{db: db, path: path, batchSize: batchSize}
	if err := w.createTable(); err != nil {
		db.Close()
		return nil, err
	}
	stmt, err := db.Prepare(`INSERT INTO cycle (session, seq, op, value, err, at) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("trace: prepare insert: %w", err)
	}
	w.statement = stmt

	atexit.Register(func() { w.Flush() })
	return w, nil
}

// Path returns the database file name.
func (w *SQLiteWriter) Path() string { return w.path }

// Write buffers c, flushing when the batch is full.
func (w *SQLiteWriter) Write(c Cycle) error {
	w.mu.Lock()
	w.pending = append(w.pending, c)
	full := len(w.pending) >= w.batchSize
	w.mu.Unlock()
	if full {
		return w.Flush()
	}
	return nil
}

// Flush writes all buffered cycles in one transaction.
func (w *SQLiteWriter) Flush() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if len(w.pending) == 0 {
		return nil
	}

	tx, err := w.db.Begin()
	if err != nil {
		return fmt.Errorf("trace: begin: %w", err)
	}
	stmt := tx.Stmt(w.statement)
	for _, c := range w.pending {
		_, err := stmt.Exec(c.Session, c.Seq, string(c.Op), c.Value, c.Err, c.At.UnixNano())
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("trace: insert cycle %d: %w", c.Seq, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("trace: commit: %w", err)
	}
	w.pending = w.pending[:0]
	return nil
}

// Close flushes and closes the database.
func (w *SQLiteWriter) Close() error {
	if err := w.Flush(); err != nil {
		return err
	}
	return w.db.Close()
}

func (w *SQLiteWriter) createTable() error {
	for _, q := range []string{
		`CREATE TABLE cycle
		(
			session VARCHAR(20) NOT NULL,
			seq     INTEGER     NOT NULL,
			op      VARCHAR(20) NOT NULL,
			value   INTEGER     NOT NULL,
			err     TEXT        NOT NULL DEFAULT '',
			at      INTEGER     NOT NULL
		);`,
		`CREATE INDEX cycle_session_seq_index ON cycle (session, seq);`,
		`CREATE INDEX cycle_op_index ON cycle (op);`,
	} {
		if _, err := w.db.Exec(q); err != nil {
			return fmt.Errorf("trace: create table: %w", err)
		}
	}
	return nil
}

// SQLiteReader reads cycles written by a SQLiteWriter.
type SQLiteReader struct {
	db *sql.DB
}

// OpenSQLiteReader opens the database at path.
func OpenSQLiteReader(path string) (*SQLiteReader, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("trace: %w", err)
	}
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("trace: open %s: %w", path, err)
	}
	return &SQLiteReader{db: db}, nil
}

// Close closes the database.
func (r *SQLiteReader) Close() error { return r.db.Close() }

// ListSessions returns the recorded session IDs in order of appearance.
func (r *SQLiteReader) ListSessions() ([]string, error) {
	rows, err := r.db.Query(`SELECT session FROM cycle GROUP BY session ORDER BY MIN(rowid)`)
	if err != nil {
		return nil, fmt.Errorf("trace: list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}

// CycleQuery selects cycles. Empty fields match everything.
type CycleQuery struct {
	Session string
	Op      Op
}

// ListCycles returns the cycles matching q ordered by session and sequence.
func (r *SQLiteReader) ListCycles(q CycleQuery) ([]Cycle, error) {
	rows, err := r.db.Query(`
		SELECT session, seq, op, value, err, at
		FROM cycle
		WHERE (? = '' OR session = ?) AND (? = '' OR op = ?)
		ORDER BY session, seq`,
		q.Session, q.Session, string(q.Op), string(q.Op))
	if err != nil {
		return nil, fmt.Errorf("trace: list cycles: %w", err)
	}
	defer rows.Close()

	var cycles []Cycle
	for rows.Next() {
		var (
			c  Cycle
			op string
			at int64
		)
		if err := rows.Scan(&c.Session, &c.Seq, &op, &c.Value, &c.Err, &at); err != nil {
			return nil, err
		}
		c.Op = Op(op)
		c.At = time.Unix(0, at)
		cycles = append(cycles, c)
	}
	return cycles, rows.Err()
}
