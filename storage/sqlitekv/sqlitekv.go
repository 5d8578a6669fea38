// Package sqlitekv stores key-value pairs in a local SQLite file.
//
// A single table holds both scopes; the session scope is cleared every
// time the database is opened, giving session-scoped keys a lifetime of
// one application run.
package sqlitekv

import (
	"database/sql"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	_ "modernc.org/sqlite" // pure-Go driver, registers as "sqlite"

	"github.com/virtualpet/storefront/storage"
)

const (
	scopeDurable = "durable"
	scopeSession = "session"
)

const schema = `
CREATE TABLE IF NOT EXISTS kv (
	scope TEXT NOT NULL,
	key   TEXT NOT NULL,
	value TEXT NOT NULL,
	PRIMARY KEY (scope, key)
);`

// DB wraps the SQLite connection and exposes one storage.KV per scope.
type DB struct {
	conn *sql.DB
}

// Open opens (creating if needed) the store at path, applies the schema
// and wipes all session-scoped keys.
func Open(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, errors.Wrap(err, "[sqlitekv.Open] create data folder")
	}

	conn, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, errors.Wrap(err, "[sqlitekv.Open] open database")
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, errors.Wrap(err, "[sqlitekv.Open] ping database")
	}
	if _, err := conn.Exec(schema); err != nil {
		conn.Close()
		return nil, errors.Wrap(err, "[sqlitekv.Open] apply schema")
	}

	// Session-scoped keys live for one application run only.
	if _, err := conn.Exec(`DELETE FROM kv WHERE scope = ?`, scopeSession); err != nil {
		conn.Close()
		return nil, errors.Wrap(err, "[sqlitekv.Open] clear session scope")
	}

	return &DB{conn: conn}, nil
}

// Close closes the underlying connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Durable returns the store whose keys survive restarts.
func (db *DB) Durable() storage.KV {
	return scopedKV{conn: db.conn, scope: scopeDurable}
}

// Session returns the store whose keys are wiped on every Open.
func (db *DB) Session() storage.KV {
	return scopedKV{conn: db.conn, scope: scopeSession}
}

type scopedKV struct {
	conn  *sql.DB
	scope string
}

var _ storage.KV = scopedKV{}

func (s scopedKV) Get(key string) (string, bool, error) {
	var value string
	err := s.conn.QueryRow(`SELECT value FROM kv WHERE scope = ? AND key = ?`, s.scope, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, errors.Wrapf(err, "[sqlitekv.Get] key %q", key)
	}
	return value, true, nil
}

func (s scopedKV) Set(key, value string) error {
	_, err := s.conn.Exec(
		`INSERT INTO kv (scope, key, value) VALUES (?, ?, ?)
		 ON CONFLICT (scope, key) DO UPDATE SET value = excluded.value`,
		s.scope, key, value,
	)
	return errors.Wrapf(err, "[sqlitekv.Set] key %q", key)
}

func (s scopedKV) Delete(key string) error {
	_, err := s.conn.Exec(`DELETE FROM kv WHERE scope = ? AND key = ?`, s.scope, key)
	return errors.Wrapf(err, "[sqlitekv.Delete] key %q", key)
}
