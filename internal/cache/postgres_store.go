package cache

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq" // also registers the postgres driver
)

// PostgresStore persists cache blobs in PostgreSQL, for deployments where
// several game servers share one durable cache.
type PostgresStore struct {
	db *sql.DB
}

// OpenPostgres connects to PostgreSQL and ensures the cache schema exists.
func OpenPostgres(connectionString string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	s := &PostgresStore{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return s, nil
}

func (s *PostgresStore) initSchema() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS room_cache (
		key TEXT PRIMARY KEY,
		value BYTEA NOT NULL,
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	)`)
	return err
}

// Get returns the blob stored under key, or ErrNotFound.
func (s *PostgresStore) Get(key string) ([]byte, error) {
	var value []byte
	err := s.db.QueryRow("SELECT value FROM room_cache WHERE key = $1", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read cache key %s: %w", key, err)
	}
	return value, nil
}

// Set upserts the blob under key. Disk-full errors surface as
// ErrQuotaExceeded so the cache's quota recovery applies.
func (s *PostgresStore) Set(key string, value []byte) error {
	_, err := s.db.Exec(`INSERT INTO room_cache (key, value, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (key) DO UPDATE SET value = $2, updated_at = NOW()`,
		key, value)
	if err != nil {
		if isPostgresFull(err) {
			return fmt.Errorf("%w: %v", ErrQuotaExceeded, err)
		}
		return fmt.Errorf("failed to write cache key %s: %w", key, err)
	}
	return nil
}

// Remove deletes key. Removing a missing key is not an error.
func (s *PostgresStore) Remove(key string) error {
	if _, err := s.db.Exec("DELETE FROM room_cache WHERE key = $1", key); err != nil {
		return fmt.Errorf("failed to remove cache key %s: %w", key, err)
	}
	return nil
}

// Close closes the database connection.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

// isPostgresFull matches SQLSTATE 53100 (disk_full) and 53400
// (configuration_limit_exceeded).
func isPostgresFull(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "53100" || pqErr.Code == "53400"
	}
	return false
}
