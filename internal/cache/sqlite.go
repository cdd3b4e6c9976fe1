package cache

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

const sqliteSchema = `CREATE TABLE IF NOT EXISTS cache_entries (
	key        TEXT PRIMARY KEY,
	data       BLOB NOT NULL,
	expires_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_cache_entries_expires_at ON cache_entries(expires_at);`

// SQLiteCache persists entries in a SQLite database so cached verdicts
// survive restarts
type SQLiteCache struct {
	db  *sql.DB
	ttl time.Duration
	now func() time.Time
}

// OpenSQLiteCache opens or creates the cache database at path. Use
// ":memory:" for a throwaway database.
func OpenSQLiteCache(path string, ttl time.Duration) (*SQLiteCache, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create cache dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// A single connection keeps ":memory:" databases shared and serializes writers
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create cache schema: %w", err)
	}

	return &SQLiteCache{db: db, ttl: ttl, now: time.Now}, nil
}

// Get retrieves a value, deleting it if it has expired
func (c *SQLiteCache) Get(key string) ([]byte, bool) {
	data, _, found := c.GetWithExpiry(key)
	return data, found
}

// GetWithExpiry retrieves a value along with its expiry time
func (c *SQLiteCache) GetWithExpiry(key string) ([]byte, time.Time, bool) {
	var data []byte
	var expiresAt int64
	err := c.db.QueryRow(
		"SELECT data, expires_at FROM cache_entries WHERE key = ?", key,
	).Scan(&data, &expiresAt)
	if err != nil {
		return nil, time.Time{}, false
	}

	if c.now().UnixNano() >= expiresAt {
		_, _ = c.db.Exec("DELETE FROM cache_entries WHERE key = ?", key)
		return nil, time.Time{}, false
	}

	return data, time.Unix(0, expiresAt), true
}

// Set stores a value; zero ttl uses the cache default
func (c *SQLiteCache) Set(key string, value []byte, ttl time.Duration) error {
	if ttl == 0 {
		ttl = c.ttl
	}

	_, err := c.db.Exec(
		`INSERT INTO cache_entries (key, data, expires_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET data = excluded.data, expires_at = excluded.expires_at`,
		key, value, c.now().Add(ttl).UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("write cache entry: %w", err)
	}
	return nil
}

// Delete removes a value
func (c *SQLiteCache) Delete(key string) error {
	if _, err := c.db.Exec("DELETE FROM cache_entries WHERE key = ?", key); err != nil {
		return fmt.Errorf("delete cache entry: %w", err)
	}
	return nil
}

// Clear removes every entry
func (c *SQLiteCache) Clear() error {
	if _, err := c.db.Exec("DELETE FROM cache_entries"); err != nil {
		return fmt.Errorf("clear cache: %w", err)
	}
	return nil
}

// Len returns the number of unexpired entries
func (c *SQLiteCache) Len() int {
	var n int
	err := c.db.QueryRow(
		"SELECT COUNT(*) FROM cache_entries WHERE expires_at > ?", c.now().UnixNano(),
	).Scan(&n)
	if err != nil {
		return 0
	}
	return n
}

// Sweep deletes expired entries and returns how many were removed
func (c *SQLiteCache) Sweep() (int64, error) {
	result, err := c.db.Exec("DELETE FROM cache_entries WHERE expires_at <= ?", c.now().UnixNano())
	if err != nil {
		return 0, fmt.Errorf("sweep cache: %w", err)
	}
	return result.RowsAffected()
}

// Close closes the database
func (c *SQLiteCache) Close() error {
	return c.db.Close()
}
