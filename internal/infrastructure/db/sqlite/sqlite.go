package sqlite

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/text/cases"
	sqlitedriver "modernc.org/sqlite"

	"github.com/rolemanagement/usermanager/internal/infrastructure/db/sqlite/migrations"
)

// foldFunc is the SQL name of the Unicode case-folding scalar. SQLite's own
// LIKE and lower() only fold ASCII letters.
const foldFunc = "casefold"

func init() {
	if err := sqlitedriver.RegisterDeterministicScalarFunction(foldFunc, 1, casefold); err != nil {
		panic(fmt.Sprintf("register %s: %v", foldFunc, err))
	}
}

func casefold(_ *sqlitedriver.FunctionContext, args []driver.Value) (driver.Value, error) {
	switch v := args[0].(type) {
	case nil:
		return nil, nil
	case string:
		return foldString(v), nil
	case []byte:
		return foldString(string(v)), nil
	default:
		return v, nil
	}
}

func foldString(s string) string {
	return cases.Fold().String(s)
}

// DB wraps the SQLite handle shared by the user repository and file store.
type DB struct {
	SQL *sql.DB
}

// Open opens (or creates) the database at path with WAL mode and foreign keys
// enabled. SQLite allows a single writer, so the pool is capped at one
// connection; the email UNIQUE constraint is the final arbiter between
// concurrent creates.
func Open(ctx context.Context, path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	for _, pragma := range []string{"PRAGMA journal_mode=WAL", "PRAGMA foreign_keys=ON", "PRAGMA busy_timeout=5000"} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("%s: %w", pragma, err)
		}
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &DB{SQL: db}, nil
}

// Migrate applies pending schema migrations.
func (d *DB) Migrate(ctx context.Context, log zerolog.Logger) error {
	return migrations.Run(ctx, d.SQL, log)
}

func (d *DB) Ping(ctx context.Context) error {
	return d.SQL.PingContext(ctx)
}

func (d *DB) Close() error {
	return d.SQL.Close()
}
