package datastore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/papercomputeco/ragsql/pkg/logger"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	DefaultTimeout = 120 * time.Second
)

// Config configures Open.
type Config struct {
	// Driver is "postgres" (pgx) or "sqlite" (modernc, pure Go).
	Driver string
	DSN    string

	// Timeout bounds each Execute call. Defaults to DefaultTimeout.
	Timeout time.Duration
}

// SQLExecutor runs queries over database/sql.
type SQLExecutor struct {
	db      *sql.DB
	driver  string
	timeout time.Duration
	logger  *slog.Logger
}

// Open connects to the configured database and verifies the connection.
func Open(ctx context.Context, cfg Config, log *slog.Logger) (*SQLExecutor, error) {
	var driverName string
	switch cfg.Driver {
	case DriverPostgres:
		driverName = "pgx"
	case DriverSQLite:
		driverName = "sqlite"
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedDriver, cfg.Driver)
	}

	if cfg.DSN == "" {
		return nil, fmt.Errorf("datastore dsn is required for driver %s", cfg.Driver)
	}

	db, err := sql.Open(driverName, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("opening %s datastore: %w", cfg.Driver, err)
	}

	// In-memory sqlite databases are per connection.
	if cfg.Driver == DriverSQLite {
		db.SetMaxOpenConns(1)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("connecting to %s datastore: %w", cfg.Driver, err)
	}

	return New(db, cfg.Driver, cfg.Timeout, log), nil
}

// New wraps an existing connection pool.
func New(db *sql.DB, driver string, timeout time.Duration, log *slog.Logger) *SQLExecutor {
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	if log == nil {
		log = logger.Nop()
	}
	return &SQLExecutor{
		db:      db,
		driver:  driver,
		timeout: timeout,
		logger:  log,
	}
}

// DB returns the underlying pool.
func (e *SQLExecutor) DB() *sql.DB {
	return e.db
}

// Execute runs query under the configured timeout and materializes every row.
func (e *SQLExecutor) Execute(ctx context.Context, query string) (*Table, error) {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	start := time.Now()
	rows, err := e.db.QueryContext(ctx, query)
	if err != nil {
		return nil, e.fail(ctx, query, err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, e.fail(ctx, query, err)
	}

	table := &Table{Columns: columns, Rows: [][]any{}}
	for rows.Next() {
		values := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, e.fail(ctx, query, err)
		}
		for i, v := range values {
			if b, ok := v.([]byte); ok {
				values[i] = string(b)
			}
		}
		table.Rows = append(table.Rows, values)
	}
	if err := rows.Err(); err != nil {
		return nil, e.fail(ctx, query, err)
	}

	e.logger.Debug("query executed",
		"driver", e.driver,
		"rows", len(table.Rows),
		"columns", len(columns),
		"duration", time.Since(start),
	)

	return table, nil
}

// Close closes the connection pool.
func (e *SQLExecutor) Close() error {
	return e.db.Close()
}

func (e *SQLExecutor) fail(ctx context.Context, query string, err error) *ExecutionError {
	execErr := &ExecutionError{
		Query:   query,
		Message: err.Error(),
		Class:   classify(ctx, err),
		Err:     err,
	}
	e.logger.Warn("query failed",
		"driver", e.driver,
		"class", string(execErr.Class),
		logger.Err(err),
	)
	return execErr
}

func classify(ctx context.Context, err error) Class {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return ClassTimeout
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return classifyPostgres(pgErr.Code)
	}

	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) {
		return ClassConnection
	}

	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		return classifySQLite(sqliteErr.Code())
	}

	var netErr net.Error
	if errors.As(err, &netErr) || errors.Is(err, sql.ErrConnDone) {
		return ClassConnection
	}

	return ClassUnknown
}

// classifyPostgres maps SQLSTATE codes.
func classifyPostgres(code string) Class {
	switch {
	case code == "42501" || strings.HasPrefix(code, "28"):
		return ClassPermission
	case strings.HasPrefix(code, "42"):
		return ClassSyntax
	case code == "57014":
		return ClassTimeout
	case strings.HasPrefix(code, "08"):
		return ClassConnection
	default:
		return ClassUnknown
	}
}

// classifySQLite maps primary result codes; extended codes carry the primary
// code in their low byte.
func classifySQLite(code int) Class {
	switch code & 0xff {
	case sqlite3.SQLITE_ERROR:
		return ClassSyntax
	case sqlite3.SQLITE_PERM, sqlite3.SQLITE_AUTH, sqlite3.SQLITE_READONLY:
		return ClassPermission
	case sqlite3.SQLITE_INTERRUPT, sqlite3.SQLITE_BUSY:
		return ClassTimeout
	case sqlite3.SQLITE_CANTOPEN, sqlite3.SQLITE_NOTADB:
		return ClassConnection
	default:
		return ClassUnknown
	}
}

var _ Executor = (*SQLExecutor)(nil)
