// Package cache persists reference resolutions (team keys, user names,
// labels) to SQLite so repeated commands skip the lookup round-trips.
package cache

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// DefaultTTL is how long a cached resolution stays valid. Team keys and
// user names change rarely, so a day is a safe window.
const DefaultTTL = 24 * time.Hour

// FileName is the cache database file inside the dot directory.
const FileName = "cache.db"

// Resolution kinds stored in the cache.
const (
	KindTeam          = "team"
	KindUser          = "user"
	KindLabel         = "label"
	KindState         = "state"
	KindProject       = "project"
	KindProjectStatus = "project_status"
)

const schema = `
CREATE TABLE IF NOT EXISTS resolutions (
	kind       TEXT NOT NULL,
	key        TEXT NOT NULL COLLATE NOCASE,
	id         TEXT NOT NULL,
	created_at INTEGER NOT NULL,
	PRIMARY KEY (kind, key)
);
`

// Cache is a SQLite-backed resolution cache.
type Cache struct {
	db  *sql.DB
	ttl time.Duration
}

// Open opens (or creates) the cache database at path. The path can be
// ":memory:" for tests. A non-positive ttl falls back to DefaultTTL.
func Open(path string, ttl time.Duration) (*Cache, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("opening cache database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting journal mode: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating cache schema: %w", err)
	}

	if ttl <= 0 {
		ttl = DefaultTTL
	}

	return &Cache{db: db, ttl: ttl}, nil
}

// Get returns the cached UUID for a kind/key pair. Keys match
// case-insensitively. Expired entries read as misses.
func (c *Cache) Get(ctx context.Context, kind, key string) (string, bool) {
	cutoff := time.Now().Add(-c.ttl).Unix()

	var id string
	err := c.db.QueryRowContext(ctx,
		`SELECT id FROM resolutions WHERE kind = ? AND key = ? AND created_at > ?`,
		kind, key, cutoff,
	).Scan(&id)
	if err != nil {
		return "", false
	}
	return id, true
}

// Put stores a resolution, replacing any previous entry for the pair.
func (c *Cache) Put(ctx context.Context, kind, key, id string) error {
	_, err := c.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO resolutions (kind, key, id, created_at) VALUES (?, ?, ?, ?)`,
		kind, key, id, time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("storing resolution: %w", err)
	}
	return nil
}

// Clear removes every cached resolution.
func (c *Cache) Clear(ctx context.Context) error {
	if _, err := c.db.ExecContext(ctx, `DELETE FROM resolutions`); err != nil {
		return fmt.Errorf("clearing cache: %w", err)
	}
	return nil
}

// Prune removes entries older than the TTL and returns how many were
// dropped.
func (c *Cache) Prune(ctx context.Context) (int64, error) {
	cutoff := time.Now().Add(-c.ttl).Unix()
	result, err := c.db.ExecContext(ctx, `DELETE FROM resolutions WHERE created_at <= ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("pruning cache: %w", err)
	}
	dropped, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("counting pruned rows: %w", err)
	}
	return dropped, nil
}

// Stats summarizes the cache contents for the status command.
type Stats struct {
	Entries int
	ByKind  map[string]int
}

// Stats counts live (unexpired) entries per kind.
func (c *Cache) Stats(ctx context.Context) (Stats, error) {
	cutoff := time.Now().Add(-c.ttl).Unix()

	rows, err := c.db.QueryContext(ctx,
		`SELECT kind, COUNT(*) FROM resolutions WHERE created_at > ? GROUP BY kind`, cutoff)
	if err != nil {
		return Stats{}, fmt.Errorf("reading cache stats: %w", err)
	}
	defer rows.Close()

	stats := Stats{ByKind: map[string]int{}}
	for rows.Next() {
		var kind string
		var count int
		if err := rows.Scan(&kind, &count); err != nil {
			return Stats{}, fmt.Errorf("scanning cache stats: %w", err)
		}
		stats.ByKind[strings.ToLower(kind)] = count
		stats.Entries += count
	}
	if err := rows.Err(); err != nil {
		return Stats{}, fmt.Errorf("reading cache stats: %w", err)
	}
	return stats, nil
}

// Close closes the underlying database.
func (c *Cache) Close() error {
	return c.db.Close()
}
