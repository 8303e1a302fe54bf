package buildcache

import (
	"context"
	"path/filepath"
	"testing"
)

func TestOpenMemory(t *testing.T) {
	c, err := OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory() error: %v", err)
	}
	defer c.Close()

	for _, table := range []string{"builds", "pages"} {
		var count int
		if err := c.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&count); err != nil {
			t.Errorf("table %s: %v", table, err)
		}
	}
}

func TestMigrateIdempotent(t *testing.T) {
	c, err := OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory() error: %v", err)
	}
	defer c.Close()

	if err := c.migrate(); err != nil {
		t.Fatalf("second migrate() error: %v", err)
	}
}

func TestOpenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "cache.db")
	c, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	defer c.Close()
	if c.Path() != path {
		t.Errorf("Path() = %q, want %q", c.Path(), path)
	}
}

func TestBuildLifecycle(t *testing.T) {
	ctx := context.Background()
	c, err := OpenMemory()
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	first, err := c.BeginBuild(ctx, "sig-a")
	if err != nil {
		t.Fatalf("BeginBuild: %v", err)
	}
	if first.ID == "" || first.Status != StatusRunning {
		t.Fatalf("unexpected build %+v", first)
	}

	// Pages of a running build are not trusted yet.
	if err := c.RecordPage(ctx, first.ID, PageRecord{PageID: "guide", SourceHash: "h1", OutputPath: "guide.html"}); err != nil {
		t.Fatalf("RecordPage: %v", err)
	}
	if _, ok, _ := c.LastHash(ctx, "guide", "sig-a"); ok {
		t.Error("LastHash should ignore running builds")
	}

	if err := c.FinishBuild(ctx, first.ID, StatusSucceeded, 1); err != nil {
		t.Fatalf("FinishBuild: %v", err)
	}

	hash, ok, err := c.LastHash(ctx, "guide", "sig-a")
	if err != nil || !ok || hash != "h1" {
		t.Errorf("LastHash = %q %v %v, want h1", hash, ok, err)
	}
	if _, ok, _ := c.LastHash(ctx, "guide", "sig-b"); ok {
		t.Error("LastHash should not match a different signature")
	}

	second, err := c.BeginBuild(ctx, "sig-a")
	if err != nil {
		t.Fatal(err)
	}
	if err := c.RecordPage(ctx, second.ID, PageRecord{PageID: "guide", SourceHash: "h2", OutputPath: "guide.html"}); err != nil {
		t.Fatal(err)
	}
	if err := c.FinishBuild(ctx, second.ID, StatusSucceeded, 1); err != nil {
		t.Fatal(err)
	}
	if hash, _, _ := c.LastHash(ctx, "guide", "sig-a"); hash != "h2" {
		t.Errorf("LastHash after second build = %q, want h2", hash)
	}

	builds, err := c.RecentBuilds(ctx, 5)
	if err != nil {
		t.Fatalf("RecentBuilds: %v", err)
	}
	if len(builds) != 2 || builds[0].ID != second.ID {
		t.Fatalf("RecentBuilds = %+v, want newest first", builds)
	}
	if builds[0].Status != StatusSucceeded || builds[0].PageCount != 1 || builds[0].FinishedAt.IsZero() {
		t.Errorf("unexpected build row %+v", builds[0])
	}

	pages, err := c.BuildPages(ctx, first.ID)
	if err != nil {
		t.Fatalf("BuildPages: %v", err)
	}
	if len(pages) != 1 || pages[0].PageID != "guide" || pages[0].OutputPath != "guide.html" {
		t.Errorf("BuildPages = %+v", pages)
	}
}

func TestFinishUnknownBuild(t *testing.T) {
	c, err := OpenMemory()
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	if err := c.FinishBuild(context.Background(), "missing", StatusFailed, 0); err == nil {
		t.Error("expected error for unknown build")
	}
}
