/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"

	applog "gosalesdesk/internal/log"

	// Pure-Go SQLite driver (CGO-free)
	_ "modernc.org/sqlite"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Options selects and configures the backing database.
type Options struct {
	Driver   string // DriverSQLite (default) or DriverPostgres
	Path     string // sqlite database file
	DSN      string // postgres connection string
	User     string // optional postgres user overriding the DSN
	Password string // optional postgres password overriding the DSN
}

// DB is an open, migrated store.
type DB struct {
	sql     *sql.DB
	conn    querier // sql, or the transaction of a WithTx scope
	dialect dialect
	log     *slog.Logger
}

// querier is what the data access objects run statements against.
type querier interface {
	QueryContext(ctx context.Context, q string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, q string, args ...any) *sql.Row
	ExecContext(ctx context.Context, q string, args ...any) (sql.Result, error)
}

// Open connects to the configured database, applies pending migrations and
// returns a ready store. Callers must Close it.
func Open(ctx context.Context, opts Options) (*DB, error) {
	driver := strings.ToLower(strings.TrimSpace(opts.Driver))
	if driver == "" {
		driver = DriverSQLite
	}
	l := applog.WithOperation(applog.WithComponent("storage"), "open").With(slog.String("driver", driver))

	var (
		db  *sql.DB
		d   dialect
		err error
	)
	switch driver {
	case DriverSQLite:
		db, err = openSQLite(ctx, opts.Path)
		d = sqliteDialect
	case DriverPostgres:
		db, err = openPostgres(ctx, opts)
		d = postgresDialect
	default:
		return nil, fmt.Errorf("unsupported database driver %q", opts.Driver)
	}
	if err != nil {
		l.Error("open failed", slog.Any("err", err))
		return nil, err
	}

	s := &DB{sql: db, conn: db, dialect: d, log: applog.WithComponent("storage")}
	if err := s.migrate(ctx); err != nil {
		_ = db.Close()
		l.Error("migrate failed", slog.Any("err", err))
		return nil, err
	}
	l.Info("store ready")
	return s, nil
}

func openSQLite(ctx context.Context, path string) (*sql.DB, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("sqlite path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create database dir: %w", err)
	}
	// foreign_keys is a per-connection pragma, so it goes into the DSN.
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)", filepath.ToSlash(path))
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL;"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("enable WAL: %w", err)
	}
	return db, nil
}

func openPostgres(ctx context.Context, opts Options) (*sql.DB, error) {
	if strings.TrimSpace(opts.DSN) == "" {
		return nil, errors.New("postgres DSN is required")
	}
	cc, err := pgx.ParseConfig(opts.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse postgres DSN: %w", err)
	}
	if opts.User != "" {
		cc.User = opts.User
	}
	if opts.Password != "" {
		cc.Password = opts.Password
	}
	db := stdlib.OpenDB(*cc)
	db.SetMaxOpenConns(4)
	db.SetConnMaxLifetime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return db, nil
}

// Close releases the underlying connection pool.
func (s *DB) Close() error { return s.sql.Close() }

// Driver returns the dialect name in use.
func (s *DB) Driver() string { return s.dialect.name }

// Departments returns the department data access object.
func (s *DB) Departments() *DepartmentDAO { return &DepartmentDAO{db: s} }

// Sellers returns the seller data access object.
func (s *DB) Sellers() *SellerDAO { return &SellerDAO{db: s} }

// WithTx runs fn with data access objects bound to one transaction. It commits
// when fn returns nil and rolls back otherwise, so either every write of fn is
// kept or none is.
func (s *DB) WithTx(ctx context.Context, fn func(deps *DepartmentDAO, sellers *SellerDAO) error) error {
	if _, nested := s.conn.(*sql.Tx); nested {
		return &DBError{Op: "begin transaction", Err: errors.New("already inside a transaction")}
	}
	tx, err := s.sql.BeginTx(ctx, nil)
	if err != nil {
		return classify("begin transaction", err)
	}
	scoped := &DB{sql: s.sql, conn: tx, dialect: s.dialect, log: s.log.With(slog.Bool("tx", true))}
	if err := fn(scoped.Departments(), scoped.Sellers()); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			s.log.Error("rollback failed", slog.Any("err", rbErr))
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return classify("commit transaction", err)
	}
	return nil
}

// dialect captures the few SQL differences between the supported drivers.
type dialect struct {
	name       string
	numbered   bool // $1, $2 ... instead of ?
	migrations string
}

var (
	sqliteDialect   = dialect{name: DriverSQLite, migrations: "migrations/sqlite"}
	postgresDialect = dialect{name: DriverPostgres, numbered: true, migrations: "migrations/postgres"}
)

// rebind rewrites ? placeholders for dialects with numbered parameters.
func (d dialect) rebind(q string) string {
	if !d.numbered {
		return q
	}
	var b strings.Builder
	b.Grow(len(q) + 8)
	n := 0
	for i := 0; i < len(q); i++ {
		if q[i] == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteByte(q[i])
	}
	return b.String()
}

// dateArg converts a calendar date into the driver's preferred argument form.
func (d dialect) dateArg(t *time.Time) any {
	if t == nil {
		return nil
	}
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	if d.name == DriverSQLite {
		return day.Format(dateLayout)
	}
	return day
}

const dateLayout = "2006-01-02"

// scanDate turns a DATE column value into a UTC calendar date.
// SQLite hands back text or time.Time depending on the declared type; pgx hands back time.Time.
func scanDate(v any) (*time.Time, error) {
	var t time.Time
	switch x := v.(type) {
	case nil:
		return nil, nil
	case time.Time:
		t = x
	case string:
		return parseDateText(x)
	case []byte:
		return parseDateText(string(x))
	default:
		return nil, fmt.Errorf("unsupported date value %T", v)
	}
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return &day, nil
}

func parseDateText(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if len(s) > len(dateLayout) {
		s = s[:len(dateLayout)]
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return nil, fmt.Errorf("parse date %q: %w", s, err)
	}
	return &t, nil
}

func (s *DB) query(ctx context.Context, q string, args ...any) (*sql.Rows, error) {
	return s.conn.QueryContext(ctx, s.dialect.rebind(q), args...)
}

func (s *DB) queryRow(ctx context.Context, q string, args ...any) *sql.Row {
	return s.conn.QueryRowContext(ctx, s.dialect.rebind(q), args...)
}

func (s *DB) exec(ctx context.Context, q string, args ...any) (sql.Result, error) {
	return s.conn.ExecContext(ctx, s.dialect.rebind(q), args...)
}
