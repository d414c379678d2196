package store

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"
	"k8s.io/klog/v2"

	_ "modernc.org/sqlite"
)

// SQLite sink, backed by a database file.
type SQLite struct {
	db *sql.DB
}

var _ Sink = (*SQLite)(nil)

const schema = `
CREATE TABLE IF NOT EXISTS vertices (
	container TEXT NOT NULL,
	seq INTEGER NOT NULL,
	domain INTEGER NOT NULL,
	x REAL NOT NULL,
	y REAL NOT NULL,
	f REAL NOT NULL,
	first REAL NOT NULL,
	second REAL NOT NULL,
	PRIMARY KEY (container, seq)
);
`

// NewSQLite opens (or creates) the SQLite database at path. Use ":memory:" for a transient
// database.
func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open database %q", path)
	}
	// A single connection: SQLite serializes writers anyway, and each connection to ":memory:"
	// would be a different database.
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, errors.Wrapf(err, "failed to connect to database %q", path)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, errors.Wrapf(err, "failed to create schema in database %q", path)
	}
	return &SQLite{db: db}, nil
}

// Save implements Sink.
func (s *SQLite) Save(ctx context.Context, container string, records []Record) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "failed to start transaction")
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()
	if _, err = tx.ExecContext(ctx, `DELETE FROM vertices WHERE container = ?`, container); err != nil {
		return errors.Wrapf(err, "failed to clear container %q", container)
	}
	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO vertices (container, seq, domain, x, y, f, first, second) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return errors.Wrap(err, "failed to prepare insert")
	}
	defer func() { _ = stmt.Close() }()
	for seq, r := range records {
		if _, err = stmt.ExecContext(ctx, container, int64(seq), int64(r.Domain),
			float64(r.X), float64(r.Y), float64(r.F), float64(r.First), float64(r.Second)); err != nil {
			return errors.Wrapf(err, "failed to save record #%d of container %q", seq, container)
		}
	}
	if err = tx.Commit(); err != nil {
		return errors.Wrapf(err, "failed to commit container %q", container)
	}
	klog.V(1).Infof("saved %d vertices to container %q", len(records), container)
	return nil
}

// Load the records saved under the container, in the order they were saved.
// An unknown container has no records.
func (s *SQLite) Load(ctx context.Context, container string) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT domain, x, y, f, first, second FROM vertices WHERE container = ? ORDER BY seq`, container)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to query container %q", container)
	}
	defer func() { _ = rows.Close() }()
	var records []Record
	for rows.Next() {
		var r Record
		if err := rows.Scan(&r.Domain, &r.X, &r.Y, &r.F, &r.First, &r.Second); err != nil {
			return nil, errors.Wrapf(err, "failed to read container %q", container)
		}
		records = append(records, r)
	}
	return records, errors.Wrapf(rows.Err(), "failed to read container %q", container)
}

// Containers lists the saved containers, sorted.
func (s *SQLite) Containers(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT DISTINCT container FROM vertices ORDER BY container`)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list containers")
	}
	defer func() { _ = rows.Close() }()
	var containers []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, errors.Wrap(err, "failed to list containers")
		}
		containers = append(containers, name)
	}
	return containers, errors.Wrap(rows.Err(), "failed to list containers")
}

// Close implements Sink.
func (s *SQLite) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}
