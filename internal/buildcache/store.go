package buildcache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Status is the outcome of a build.
type Status string

const (
	StatusRunning   Status = "running"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

// Build is one recorded run of the generator.
type Build struct {
	ID         string
	Signature  string
	StartedAt  time.Time
	FinishedAt time.Time
	PageCount  int
	Status     Status
}

// PageRecord is one page written by a build.
type PageRecord struct {
	PageID     string
	SourceHash string
	OutputPath string
	Unchanged  bool
}

// timeLayout is fixed width so stored timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// BeginBuild inserts a running build and returns it.
func (c *Cache) BeginBuild(ctx context.Context, signature string) (*Build, error) {
	b := &Build{
		ID:        uuid.New().String(),
		Signature: signature,
		StartedAt: time.Now().UTC(),
		Status:    StatusRunning,
	}
	_, err := c.ExecContext(ctx,
		`INSERT INTO builds (id, signature, started_at, status) VALUES (?, ?, ?, ?)`,
		b.ID, b.Signature, b.StartedAt.Format(timeLayout), string(b.Status))
	if err != nil {
		return nil, fmt.Errorf("inserting build: %w", err)
	}
	return b, nil
}

// RecordPage stores a page written by the build.
func (c *Cache) RecordPage(ctx context.Context, buildID string, p PageRecord) error {
	unchanged := 0
	if p.Unchanged {
		unchanged = 1
	}
	_, err := c.ExecContext(ctx,
		`INSERT OR REPLACE INTO pages (build_id, page_id, source_hash, output_path, unchanged) VALUES (?, ?, ?, ?, ?)`,
		buildID, p.PageID, p.SourceHash, p.OutputPath, unchanged)
	if err != nil {
		return fmt.Errorf("recording page %s: %w", p.PageID, err)
	}
	return nil
}

// FinishBuild marks the build done with the given outcome and page count.
func (c *Cache) FinishBuild(ctx context.Context, buildID string, status Status, pageCount int) error {
	res, err := c.ExecContext(ctx,
		`UPDATE builds SET finished_at = ?, status = ?, page_count = ? WHERE id = ?`,
		time.Now().UTC().Format(timeLayout), string(status), pageCount, buildID)
	if err != nil {
		return fmt.Errorf("finishing build: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("finishing build %s: %w", buildID, sql.ErrNoRows)
	}
	return nil
}

// LastHash returns the source hash recorded for pageID by the most recent
// successful build with the same signature. ok is false when there is none.
func (c *Cache) LastHash(ctx context.Context, pageID, signature string) (hash string, ok bool, err error) {
	row := c.QueryRowContext(ctx, `
SELECT p.source_hash
FROM pages p JOIN builds b ON b.id = p.build_id
WHERE p.page_id = ? AND b.signature = ? AND b.status = 'succeeded'
ORDER BY b.started_at DESC, b.rowid DESC
LIMIT 1`, pageID, signature)
	if err := row.Scan(&hash); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("looking up page %s: %w", pageID, err)
	}
	return hash, true, nil
}

// RecentBuilds returns up to limit builds, newest first.
func (c *Cache) RecentBuilds(ctx context.Context, limit int) ([]Build, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := c.QueryContext(ctx, `
SELECT id, signature, started_at, COALESCE(finished_at, ''), page_count, status
FROM builds ORDER BY started_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing builds: %w", err)
	}
	defer rows.Close()

	var builds []Build
	for rows.Next() {
		var (
			b                 Build
			started, finished string
			status            string
		)
		if err := rows.Scan(&b.ID, &b.Signature, &started, &finished, &b.PageCount, &status); err != nil {
			return nil, fmt.Errorf("scanning build: %w", err)
		}
		b.Status = Status(status)
		b.StartedAt, _ = time.Parse(timeLayout, started)
		if finished != "" {
			b.FinishedAt, _ = time.Parse(timeLayout, finished)
		}
		builds = append(builds, b)
	}
	return builds, rows.Err()
}

// BuildPages returns the pages recorded for a build, ordered by page id.
func (c *Cache) BuildPages(ctx context.Context, buildID string) ([]PageRecord, error) {
	rows, err := c.QueryContext(ctx, `
SELECT page_id, source_hash, output_path, unchanged
FROM pages WHERE build_id = ? ORDER BY page_id`, buildID)
	if err != nil {
		return nil, fmt.Errorf("listing pages: %w", err)
	}
	defer rows.Close()

	var pages []PageRecord
	for rows.Next() {
		var (
			p         PageRecord
			unchanged int
		)
		if err := rows.Scan(&p.PageID, &p.SourceHash, &p.OutputPath, &unchanged); err != nil {
			return nil, fmt.Errorf("scanning page: %w", err)
		}
		p.Unchanged = unchanged != 0
		pages = append(pages, p)
	}
	return pages, rows.Err()
}
