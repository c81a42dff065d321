// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package sqlitesource

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"

	"github.com/bureau-foundation/dbdigest/lib/canonical"
	"github.com/bureau-foundation/dbdigest/lib/dbdigest"
)

// Config holds the parameters for opening a SQLite digest source.
// Path is required.
type Config struct {
	// Path is the filesystem path to the SQLite database file. The
	// file must exist — digesting a database that is silently created
	// empty would report a misleading baseline digest.
	Path string

	// Logger receives operational messages (open/close). If nil, a
	// no-op logger is used.
	Logger *slog.Logger
}

// Source reads one SQLite database for digest computation. It
// implements dbdigest.Source. A Source owns a single connection and
// must not be shared between concurrent digest computations.
type Source struct {
	conn   *sqlite.Conn
	logger *slog.Logger
	path   string
}

var _ dbdigest.Source = (*Source)(nil)

// Open opens the database read-only. The caller must call Close when
// done.
func Open(cfg Config) (*Source, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("sqlitesource: Path is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	conn, err := sqlite.OpenConn(cfg.Path, sqlite.OpenReadOnly)
	if err != nil {
		return nil, fmt.Errorf("sqlitesource: opening %s: %w", cfg.Path, err)
	}

	// The connection is already read-only; query_only additionally
	// rejects any statement that would write, and busy_timeout rides
	// out writers holding the database locked.
	pragmas := []string{
		"PRAGMA query_only=ON",
		"PRAGMA busy_timeout=5000",
	}
	for _, pragma := range pragmas {
		if err := sqlitex.ExecuteTransient(conn, pragma, nil); err != nil {
			conn.Close()
			return nil, fmt.Errorf("sqlitesource: %s: %w", pragma, err)
		}
	}

	logger.Info("digest source opened", "path", cfg.Path)

	return &Source{
		conn:   conn,
		logger: logger,
		path:   cfg.Path,
	}, nil
}

// Close closes the underlying connection.
func (s *Source) Close() error {
	if err := s.conn.Close(); err != nil {
		s.logger.Error("digest source close error", "path", s.path, "error", err)
		return fmt.Errorf("sqlitesource: closing %s: %w", s.path, err)
	}
	s.logger.Info("digest source closed", "path", s.path)
	return nil
}

// Snapshot opens a deferred read transaction. Every catalog and table
// read until release sees the same database snapshot; a schema change
// by another connection mid-scan surfaces as an error from the
// enumeration methods instead of inconsistent data. Statement
// execution is interrupted if ctx is cancelled before release.
func (s *Source) Snapshot(ctx context.Context) (func() error, error) {
	previous := s.conn.SetInterrupt(ctx.Done())

	if err := sqlitex.ExecuteTransient(s.conn, "BEGIN DEFERRED", nil); err != nil {
		s.conn.SetInterrupt(previous)
		return nil, fmt.Errorf("sqlitesource: begin snapshot: %w", err)
	}

	release := func() error {
		defer s.conn.SetInterrupt(previous)
		if err := sqlitex.ExecuteTransient(s.conn, "COMMIT", nil); err != nil {
			return fmt.Errorf("sqlitesource: end snapshot: %w", err)
		}
		return nil
	}
	return release, nil
}

// SchemaObjects enumerates sqlite_schema in rowid order, which is the
// catalog's insertion order. Reserved sqlite_* objects are excluded.
func (s *Source) SchemaObjects(ctx context.Context, fn func(dbdigest.SchemaObject) error) error {
	query := `SELECT type, name, tbl_name, sql, rowid FROM sqlite_schema
	           WHERE name NOT LIKE 'sqlite\_%' ESCAPE '\'
	           ORDER BY rowid`
	err := sqlitex.ExecuteTransient(s.conn, query, &sqlitex.ExecOptions{
		ResultFunc: func(stmt *sqlite.Stmt) error {
			object := dbdigest.SchemaObject{
				Type:          dbdigest.ObjectType(stmt.ColumnText(0)),
				Name:          stmt.ColumnText(1),
				TableName:     stmt.ColumnText(2),
				CreationOrder: stmt.ColumnInt64(4),
			}
			if stmt.ColumnType(3) != sqlite.TypeNull {
				object.SQL = stmt.ColumnText(3)
				object.HasSQL = true
			}
			return fn(object)
		},
	})
	if err != nil {
		return fmt.Errorf("sqlitesource: reading catalog: %w", err)
	}
	return nil
}

// Tables returns descriptors for every ordinary table: reserved
// sqlite_* tables and virtual tables excluded.
func (s *Source) Tables(ctx context.Context) ([]dbdigest.TableDescriptor, error) {
	type tableRow struct {
		name string
		sql  string
	}

	var rows []tableRow
	query := `SELECT name, sql FROM sqlite_schema
	           WHERE type = 'table'
	             AND name NOT LIKE 'sqlite\_%' ESCAPE '\'
	             AND sql NOT LIKE 'CREATE VIRTUAL%'`
	err := sqlitex.ExecuteTransient(s.conn, query, &sqlitex.ExecOptions{
		ResultFunc: func(stmt *sqlite.Stmt) error {
			rows = append(rows, tableRow{
				name: stmt.ColumnText(0),
				sql:  stmt.ColumnText(1),
			})
			return nil
		},
	})
	if err != nil {
		return nil, fmt.Errorf("sqlitesource: listing tables: %w", err)
	}

	tables := make([]dbdigest.TableDescriptor, 0, len(rows))
	for _, row := range rows {
		descriptor, err := s.describeTable(row.name, row.sql)
		if err != nil {
			return nil, err
		}
		tables = append(tables, descriptor)
	}
	return tables, nil
}

// describeTable reads the declared column list and, for WITHOUT ROWID
// tables, the primary-key columns in seniority order.
func (s *Source) describeTable(name, definitionSQL string) (dbdigest.TableDescriptor, error) {
	descriptor := dbdigest.TableDescriptor{Name: name}

	// pk is the 1-based position of the column within the primary
	// key, or 0 when the column is not part of it.
	type keyColumn struct {
		name string
		pk   int64
	}
	var keyColumns []keyColumn

	query := "PRAGMA table_info(" + quoteIdentifier(name) + ")"
	err := sqlitex.ExecuteTransient(s.conn, query, &sqlitex.ExecOptions{
		ResultFunc: func(stmt *sqlite.Stmt) error {
			descriptor.Columns = append(descriptor.Columns, dbdigest.Column{
				Name:         stmt.ColumnText(1),
				DeclaredType: stmt.ColumnText(2),
			})
			if pk := stmt.ColumnInt64(5); pk > 0 {
				keyColumns = append(keyColumns, keyColumn{name: stmt.ColumnText(1), pk: pk})
			}
			return nil
		},
	})
	if err != nil {
		return descriptor, fmt.Errorf("sqlitesource: describing %q: %w", name, err)
	}

	// Rowid tables always order by rowid, even when they declare a
	// primary key — the key is just a unique index there, and the
	// implicit rowid remains the storage-independent row identity.
	if isWithoutRowid(definitionSQL) {
		for want := int64(1); want <= int64(len(keyColumns)); want++ {
			for _, column := range keyColumns {
				if column.pk == want {
					descriptor.KeyColumns = append(descriptor.KeyColumns, column.name)
				}
			}
		}
	}
	return descriptor, nil
}

// Rows iterates the table's rows in canonical order, dispatching each
// cell on its storage class. The cell slice is reused between rows.
func (s *Source) Rows(ctx context.Context, table dbdigest.TableDescriptor, fn func([]canonical.Value) error) error {
	if len(table.Columns) == 0 {
		return fmt.Errorf("sqlitesource: table %q has no columns", table.Name)
	}

	columns := make([]string, len(table.Columns))
	for i, column := range table.Columns {
		columns[i] = quoteIdentifier(column.Name)
	}

	var order string
	if len(table.KeyColumns) == 0 {
		order = "rowid"
	} else {
		keys := make([]string, len(table.KeyColumns))
		for i, key := range table.KeyColumns {
			keys[i] = quoteIdentifier(key)
		}
		order = strings.Join(keys, ", ")
	}

	query := fmt.Sprintf("SELECT %s FROM %s ORDER BY %s",
		strings.Join(columns, ", "), quoteIdentifier(table.Name), order)

	cells := make([]canonical.Value, len(table.Columns))
	err := sqlitex.ExecuteTransient(s.conn, query, &sqlitex.ExecOptions{
		ResultFunc: func(stmt *sqlite.Stmt) error {
			for i := range cells {
				cells[i] = columnValue(stmt, i)
			}
			return fn(cells)
		},
	})
	if err != nil {
		return fmt.Errorf("sqlitesource: reading %q: %w", table.Name, err)
	}
	return nil
}

// columnValue converts one result column to its tagged cell value.
func columnValue(stmt *sqlite.Stmt, column int) canonical.Value {
	switch stmt.ColumnType(column) {
	case sqlite.TypeInteger:
		return canonical.Integer(stmt.ColumnInt64(column))
	case sqlite.TypeFloat:
		return canonical.Real(stmt.ColumnFloat(column))
	case sqlite.TypeText:
		return canonical.Text(stmt.ColumnText(column))
	case sqlite.TypeBlob:
		blob := make([]byte, stmt.ColumnLen(column))
		stmt.ColumnBytes(column, blob)
		return canonical.Blob(blob)
	default:
		return canonical.Null()
	}
}

// quoteIdentifier wraps an identifier in double quotes, doubling any
// embedded quote, so table and column names chosen by the database
// author cannot alter the query shape.
func quoteIdentifier(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// isWithoutRowid reports whether a CREATE TABLE statement declares a
// WITHOUT ROWID table. The clause can only appear after the closing
// parenthesis of the column list, so only that tail is inspected.
func isWithoutRowid(definitionSQL string) bool {
	tail := definitionSQL
	if i := strings.LastIndexByte(definitionSQL, ')'); i >= 0 {
		tail = definitionSQL[i+1:]
	}
	fields := strings.Fields(strings.ToUpper(tail))
	for i := 0; i+1 < len(fields); i++ {
		if fields[i] == "WITHOUT" && strings.TrimSuffix(fields[i+1], ",") == "ROWID" {
			return true
		}
	}
	return false
}
