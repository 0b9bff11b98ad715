package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS entries (
    key TEXT PRIMARY KEY,
    value BLOB NOT NULL
);
`

// sqliteBackend keeps one table per database file, <dir>/<name>.db.
type sqliteBackend struct {
	db       *sql.DB
	readOnly bool
}

func openSQLite(dir string, name string, mode Mode) (*sqliteBackend, error) {
	path := filepath.Join(dir, name+".db")
	dsn := "file:" + path
	if mode == ModeCreate {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	} else {
		if _, err := os.Stat(path); err != nil {
			return nil, err
		}
		dsn += "?mode=ro"
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if mode == ModeCreate {
		db.SetMaxOpenConns(1)
		if _, err := db.Exec(sqliteSchema); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to create schema: %w", err)
		}
	}
	return &sqliteBackend{db: db, readOnly: mode != ModeCreate}, nil
}

func (s *sqliteBackend) Get(key string) ([]byte, bool, error) {
	var value []byte
	err := s.db.QueryRow(`SELECT value FROM entries WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return value, true, nil
}

func (s *sqliteBackend) Has(key string) (bool, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(1) FROM entries WHERE key = ?`, key).Scan(&n)
	return n > 0, err
}

func (s *sqliteBackend) Put(entries map[string][]byte) (err error) {
	if s.readOnly {
		return ErrReadOnly
	}
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	stmt, err := tx.Prepare(`INSERT OR REPLACE INTO entries (key, value) VALUES (?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for key, value := range entries {
		if _, err = stmt.Exec(key, value); err != nil {
			return fmt.Errorf("insert %q: %w", key, err)
		}
	}
	return tx.Commit()
}

func (s *sqliteBackend) Keys() ([]string, error) {
	rows, err := s.db.Query(`SELECT key FROM entries ORDER BY key`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, err
		}
		keys = append(keys, key)
	}
	return keys, rows.Err()
}

func (s *sqliteBackend) Clear() error {
	if s.readOnly {
		return ErrReadOnly
	}
	_, err := s.db.Exec(`DELETE FROM entries`)
	return err
}

func (s *sqliteBackend) Close() error {
	return s.db.Close()
}
