// Package sqldb persists form records through database/sql. Postgres is the
// deployment target; the pure-Go sqlite driver backs local runs and keeps the
// default setup free of external services.
package sqldb

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

type Dialect string

const (
	DialectPostgres Dialect = "postgres"
	DialectSQLite   Dialect = "sqlite"
)

// OpenDB picks the driver from the DSN scheme: postgres:// URLs go to pgx,
// anything else is treated as a sqlite file path or URI.
func OpenDB(dsn string) (*sql.DB, Dialect, error) {
	dialect := DialectSQLite
	driver := "sqlite"
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		dialect = DialectPostgres
		driver = "pgx"
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, dialect, fmt.Errorf("sql open: %w", err)
	}
	if dialect == DialectPostgres {
		db.SetMaxOpenConns(10)
		db.SetMaxIdleConns(10)
		db.SetConnMaxLifetime(30 * time.Minute)
	} else {
		// modernc sqlite serializes writes; a single connection avoids
		// SQLITE_BUSY under concurrent mutations.
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, dialect, fmt.Errorf("db ping: %w", err)
	}
	return db, dialect, nil
}
