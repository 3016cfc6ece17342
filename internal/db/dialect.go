package db

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"
	"strconv"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/marcboeker/go-duckdb"
	_ "modernc.org/sqlite"
)

// dialect captures what differs between the supported SQL backends.
type dialect struct {
	name   string
	schema []string
	// dollar placeholders ($1, $2) instead of ?
	dollar bool
	open   func(dsn string) (*sql.DB, error)
}

var dialects = map[string]dialect{
	"sqlite": {
		name: "sqlite",
		schema: []string{`
			CREATE TABLE IF NOT EXISTS files (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				filename TEXT NOT NULL,
				original_filename TEXT NOT NULL,
				status TEXT NOT NULL,
				"timestamp" TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
				size INTEGER,
				error_msg TEXT
			)`,
		},
		open: openSQLite,
	},
	"duckdb": {
		name: "duckdb",
		schema: []string{
			`CREATE SEQUENCE IF NOT EXISTS files_id_seq START 1`,
			`CREATE TABLE IF NOT EXISTS files (
				id BIGINT PRIMARY KEY DEFAULT nextval('files_id_seq'),
				filename VARCHAR NOT NULL,
				original_filename VARCHAR NOT NULL,
				status VARCHAR NOT NULL,
				"timestamp" TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
				size BIGINT,
				error_msg VARCHAR
			)`,
		},
		open: openDuckDB,
	},
	"postgres": {
		name: "postgres",
		schema: []string{`
			CREATE TABLE IF NOT EXISTS files (
				id BIGSERIAL PRIMARY KEY,
				filename TEXT NOT NULL,
				original_filename TEXT NOT NULL,
				status TEXT NOT NULL,
				"timestamp" TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
				size BIGINT,
				error_msg TEXT
			)`,
		},
		dollar: true,
		open: func(dsn string) (*sql.DB, error) {
			return sql.Open("pgx", dsn)
		},
	},
}

// rebind rewrites ? placeholders for dialects that number them.
func (d dialect) rebind(query string) string {
	if !d.dollar {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func openSQLite(dsn string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	// One writer; concurrent handlers queue on the pool instead of SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA busy_timeout = 10000",
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("%s: %w", pragma, err)
		}
	}
	return db, nil
}

func openDuckDB(dsn string) (*sql.DB, error) {
	connector, err := duckdb.NewConnector(dsn, func(execer driver.ExecerContext) error {
		pragmas := []string{
			"PRAGMA threads=2",
			"PRAGMA enable_progress_bar=false",
		}
		for _, pragma := range pragmas {
			if _, err := execer.ExecContext(context.Background(), pragma, nil); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create DuckDB connector: %w", err)
	}
	return sql.OpenDB(connector), nil
}
