package database

import (
	"context"
	"database/sql"
	"errors"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteStorage persists items in a single-table SQLite file.
type SQLiteStorage struct {
	db *sql.DB
}

func NewSQLiteStorage(path string) (*SQLiteStorage, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	// one writer at a time; sqlite serializes anyway
	db.SetMaxOpenConns(1)

	s, err := NewSQLiteStorageFromDB(db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// NewSQLiteStorageFromDB uses an already opened database and creates the
// table if it is missing.
func NewSQLiteStorageFromDB(db *sql.DB) (*SQLiteStorage, error) {
	s := &SQLiteStorage{db: db}
	if err := s.initSchema(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *SQLiteStorage) initSchema() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS local_storage (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
	);`)
	return err
}

func (s *SQLiteStorage) GetItem(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM local_storage WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

func (s *SQLiteStorage) SetItem(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO local_storage (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value)
	return err
}

func (s *SQLiteStorage) RemoveItem(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM local_storage WHERE key = ?`, key)
	return err
}

func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}
