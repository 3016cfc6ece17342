// Package db persists upload records in the files table.
package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/docqa/backend/internal/models"
)

// Store is the files table behind database/sql.
type Store struct {
	db      *sql.DB
	dialect dialect
}

// Open connects to the configured backend and creates the files table if
// it does not exist yet.
func Open(ctx context.Context, driver, dsn string) (*Store, error) {
	d, ok := dialects[driver]
	if !ok {
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := d.open(dsn)
	if err != nil {
		return nil, fmt.Errorf("opening %s database: %w", d.name, err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("connecting to %s database: %w", d.name, err)
	}

	for _, stmt := range d.schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("creating schema: %w", err)
		}
	}

	return &Store{db: db, dialect: d}, nil
}

// Driver returns the backend name.
func (s *Store) Driver() string {
	return s.dialect.name
}

// Close releases the connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}

// Insert records a stored upload and returns its generated id. The
// timestamp column is left to the database default.
func (s *Store) Insert(ctx context.Context, filename, originalFilename, status string, size int64) (int64, error) {
	query := s.dialect.rebind(`INSERT INTO files (filename, original_filename, status, size) VALUES (?, ?, ?, ?) RETURNING id`)

	var id int64
	if err := s.db.QueryRowContext(ctx, query, filename, originalFilename, status, size).Scan(&id); err != nil {
		return 0, fmt.Errorf("inserting file record: %w", err)
	}
	return id, nil
}

// List returns all records, newest first.
func (s *Store) List(ctx context.Context) ([]models.FileInfo, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, filename, original_filename, status, "timestamp", size, error_msg FROM files ORDER BY "timestamp" DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("listing files: %w", err)
	}
	defer rows.Close()

	files := []models.FileInfo{}
	for rows.Next() {
		var (
			f        models.FileInfo
			ts       any
			size     sql.NullInt64
			errorMsg sql.NullString
		)
		if err := rows.Scan(&f.ID, &f.Filename, &f.OriginalFilename, &f.Status, &ts, &size, &errorMsg); err != nil {
			return nil, fmt.Errorf("scanning file record: %w", err)
		}
		f.Timestamp = formatTimestamp(ts)
		if size.Valid {
			v := size.Int64
			f.Size = &v
		}
		if errorMsg.Valid {
			v := errorMsg.String
			f.ErrorMsg = &v
		}
		files = append(files, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing files: %w", err)
	}
	return files, nil
}

// Count returns the number of records.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM files`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting files: %w", err)
	}
	return n, nil
}

// DeleteAll removes every record.
func (s *Store) DeleteAll(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM files`); err != nil {
		return fmt.Errorf("deleting file records: %w", err)
	}
	return nil
}

// formatTimestamp renders whatever the driver returned for the timestamp
// column in SQLite's CURRENT_TIMESTAMP form.
func formatTimestamp(v any) string {
	switch t := v.(type) {
	case time.Time:
		return t.UTC().Format(models.TimestampLayout)
	case string:
		return t
	case []byte:
		return string(t)
	case nil:
		return ""
	default:
		return fmt.Sprint(t)
	}
}
