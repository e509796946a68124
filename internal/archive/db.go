package archive

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
)

// Driver names accepted by OpenDB.
const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"
)

// OpenDB opens the archive database for the given driver and DSN. SQLite is
// the default backend; Postgres is supported for shared archives.
func OpenDB(driver, dsn string) (*bun.DB, error) {
	switch driver {
	case DriverSQLite:
		sqlDB, err := sql.Open("sqlite3", dsn)
		if err != nil {
			return nil, fmt.Errorf("open sqlite archive: %w", err)
		}
		db := bun.NewDB(sqlDB, sqlitedialect.New())
		if isMemoryDSN(dsn) {
			db.SetMaxOpenConns(1)
		}
		return db, nil
	case DriverPostgres:
		sqlDB, err := sql.Open("postgres", dsn)
		if err != nil {
			return nil, fmt.Errorf("open postgres archive: %w", err)
		}
		return bun.NewDB(sqlDB, pgdialect.New()), nil
	default:
		return nil, fmt.Errorf("unsupported archive driver %q", driver)
	}
}

func isMemoryDSN(dsn string) bool {
	return dsn == ":memory:" || dsn == "file::memory:?cache=shared"
}
