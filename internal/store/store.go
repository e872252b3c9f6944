// Package store persists run history: one Run row per invocation and
// one FindingRecord row per emitted finding, so a CI pipeline can query
// "when did this lint first fire" later (SPEC_FULL.md's run-history
// supplemented feature). Connect dispatches on the DSN the way the
// teacher's db.Connect does, merged into a single multi-backend entry
// point instead of one file per backend, since the teacher's sqlite.go
// and postgres.go both declare Connect/Migrate in the same package and
// would collide if compiled together.
package store

import (
	"database/sql"
	"database/sql/driver"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	libsql "github.com/tursodatabase/libsql-client-go/libsql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Connect opens a GORM connection to dsn, picking the dialect from its
// scheme (postgres://, libsql://, https://, or a plain sqlite file
// path), and runs migrations.
func Connect(dsn string, debug bool) (*gorm.DB, error) {
	cfg := &gorm.Config{}
	if debug {
		cfg.Logger = logger.Default.LogMode(logger.Info)
	}

	dialector, conn, err := dialectorFor(dsn)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, cfg)
	if err != nil {
		if conn != nil {
			conn.Close()
		}
		return nil, fmt.Errorf("failed to connect: %w", err)
	}

	if err := Migrate(db); err != nil {
		return nil, fmt.Errorf("migration failed: %w", err)
	}
	return db, nil
}

func dialectorFor(dsn string) (gorm.Dialector, *sql.DB, error) {
	switch {
	case strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://"):
		return postgres.Open(dsn), nil, nil

	case strings.HasPrefix(dsn, "libsql://") || strings.HasPrefix(dsn, "https://") || strings.HasPrefix(dsn, "http://"):
		token := os.Getenv("SEMVERLINT_LIBSQL_AUTH_TOKEN")
		var (
			connector driver.Connector
			err       error
		)
		if token != "" {
			connector, err = libsql.NewConnector(dsn, libsql.WithAuthToken(token))
		} else {
			connector, err = libsql.NewConnector(dsn)
		}
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create libsql connector: %w", err)
		}
		conn := sql.OpenDB(connector)
		return sqlite.New(sqlite.Config{DriverName: "libsql", Conn: conn, DSN: dsn}), conn, nil

	default:
		if dir := filepath.Dir(dsn); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, nil, fmt.Errorf("failed to create database directory: %w", err)
			}
		}
		return sqlite.Open(dsn), nil, nil
	}
}

// Migrate creates or updates the run-history schema.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&Run{}, &FindingRecord{})
}
