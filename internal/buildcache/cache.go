// Package buildcache records manual builds in SQLite: one row per build and
// one per rendered page, so later builds can tell which pages changed.
package buildcache

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// Cache wraps a sql.DB holding the build history.
type Cache struct {
	*sql.DB
	path string
}

// Open creates or opens a SQLite database at the given path.
func Open(path string) (*Cache, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}

	sqlDB, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("opening cache: %w", err)
	}

	if err := sqlDB.Ping(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("pinging cache: %w", err)
	}

	c := &Cache{DB: sqlDB, path: path}
	if err := c.migrate(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return c, nil
}

// OpenMemory creates an in-memory cache (useful for testing).
func OpenMemory() (*Cache, error) {
	sqlDB, err := sql.Open("sqlite", ":memory:?_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("opening in-memory cache: %w", err)
	}
	// Every connection to :memory: is a separate database.
	sqlDB.SetMaxOpenConns(1)

	c := &Cache{DB: sqlDB, path: ":memory:"}
	if err := c.migrate(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return c, nil
}

// Path returns the database location.
func (c *Cache) Path() string { return c.path }

// migrate runs all schema migrations.
func (c *Cache) migrate() error {
	_, err := c.Exec(schema)
	return err
}

const schema = `
CREATE TABLE IF NOT EXISTS builds (
    id TEXT PRIMARY KEY,
    signature TEXT NOT NULL,
    started_at TEXT NOT NULL,
    finished_at TEXT,
    page_count INTEGER NOT NULL DEFAULT 0,
    status TEXT NOT NULL DEFAULT 'running' CHECK(status IN ('running','succeeded','failed'))
);

CREATE INDEX IF NOT EXISTS idx_builds_started ON builds(started_at);

CREATE TABLE IF NOT EXISTS pages (
    build_id TEXT NOT NULL REFERENCES builds(id) ON DELETE CASCADE,
    page_id TEXT NOT NULL,
    source_hash TEXT NOT NULL,
    output_path TEXT NOT NULL,
    unchanged INTEGER NOT NULL DEFAULT 0,
    PRIMARY KEY(build_id, page_id)
);

CREATE INDEX IF NOT EXISTS idx_pages_page ON pages(page_id);
`
