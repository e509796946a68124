package relnotes_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	relnotes "github.com/goliatone/go-relnotes"
	"github.com/goliatone/go-relnotes/internal/di"
	"github.com/goliatone/go-relnotes/pkg/interfaces"
	"github.com/goliatone/go-relnotes/pkg/testsupport"
	urlkit "github.com/goliatone/go-urlkit"
	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
)

func newArchiveDB(t *testing.T) *bun.DB {
	t.Helper()

	sqlDB, err := testsupport.NewSQLiteMemoryDB()
	if err != nil {
		t.Fatalf("new sqlite db: %v", err)
	}
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	bunDB := bun.NewDB(sqlDB, sqlitedialect.New())
	bunDB.SetMaxOpenConns(1)
	return bunDB
}

func TestModule_FragmentToArchivedReleaseRoundTrip(t *testing.T) {
	ctx := context.Background()
	corpus := t.TempDir()

	cfg := relnotes.DefaultConfig()
	cfg.Fragments.Dir = corpus
	cfg.Archive.Enabled = true
	cfg.Features.Archive = true
	cfg.Cache.Enabled = true
	cfg.Cache.DefaultTTL = 50 * time.Millisecond
	cfg.Links.Group = "tracker"
	cfg.Links.RouteConfig = &urlkit.Config{
		Groups: []urlkit.GroupConfig{
			{
				Name:    "tracker",
				BaseURL: "https://github.com/apache/airflow",
				Paths: map[string]string{
					"issue": "/issues/:id",
					"pr":    "/pull/:id",
				},
			},
		},
	}

	module, err := relnotes.New(cfg, di.WithBunDB(newArchiveDB(t)))
	if err != nil {
		t.Fatalf("new relnotes module: %v", err)
	}
	t.Cleanup(func() {
		_ = module.Close()
	})

	significantBody := "Removed deprecated ``SubDagOperator``\n\nUse TaskGroups to group tasks inside a single DAG instead.\n"
	if _, err := module.CreateFragment(ctx, interfaces.CreateFragmentRequest{
		Issue:    41390,
		Category: relnotes.CategorySignificant,
		Body:     significantBody,
	}); err != nil {
		t.Fatalf("create significant fragment: %v", err)
	}
	if _, err := module.CreateFragment(ctx, interfaces.CreateFragmentRequest{
		Issue:    41600,
		Category: relnotes.CategoryBugfix,
		Body:     "Fixed a race in the scheduler heartbeat.",
		Meta: interfaces.FragmentMeta{
			Author: "jsmith",
			PRs:    []int64{41601},
		},
	}); err != nil {
		t.Fatalf("create bugfix fragment: %v", err)
	}

	report, err := module.Lint(ctx, ".")
	if err != nil {
		t.Fatalf("lint corpus: %v", err)
	}
	if !report.OK() || report.Checked != 2 {
		t.Fatalf("expected clean corpus of 2 fragments, got %+v", report)
	}

	notes, err := module.Build(ctx, ".", interfaces.BuildOptions{
		Version: "3.0.0",
		Date:    time.Date(2026, 8, 25, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("build notes: %v", err)
	}
	if len(notes.Sections) != 2 || notes.Sections[0].Category != relnotes.CategorySignificant {
		t.Fatalf("unexpected sections: %+v", notes.Sections)
	}

	entry, ok := notes.Entry(41600, relnotes.CategoryBugfix)
	if !ok || len(entry.PRURLs) != 1 || !strings.Contains(entry.PRURLs[0], "/pull/41601") {
		t.Fatalf("expected resolved PR link, got %+v", entry)
	}

	rendered, err := module.Render(ctx, notes, relnotes.FormatRST)
	if err != nil {
		t.Fatalf("render notes: %v", err)
	}
	if !strings.HasPrefix(string(rendered), "3.0.0 (2026-08-25)\n==================\n") {
		t.Fatalf("unexpected document head: %q", rendered[:40])
	}
	if !strings.Contains(string(rendered), "Removed deprecated ``SubDagOperator``") {
		t.Fatal("expected fragment body in rendered notes")
	}

	loaded, err := module.Fragments().LoadDirectory(ctx, ".", interfaces.LoadOptions{})
	if err != nil {
		t.Fatalf("load fragments: %v", err)
	}
	if _, err := module.Archive().ArchiveRelease(ctx, notes, loaded); err != nil {
		t.Fatalf("archive release: %v", err)
	}

	archived, err := module.LookupFragment(ctx, 41390, relnotes.CategorySignificant)
	if err != nil {
		t.Fatalf("lookup archived fragment: %v", err)
	}
	if string(archived.Body) != significantBody {
		t.Fatalf("archived body must round trip verbatim, got %q", archived.Body)
	}
	if archived.Release != "3.0.0" {
		t.Fatalf("unexpected release reference: %s", archived.Release)
	}
}

func TestModule_LookupWithoutArchiveFeature(t *testing.T) {
	cfg := relnotes.DefaultConfig()
	cfg.Fragments.Dir = t.TempDir()

	module, err := relnotes.New(cfg)
	if err != nil {
		t.Fatalf("new relnotes module: %v", err)
	}
	t.Cleanup(func() {
		_ = module.Close()
	})

	if module.Archive() != nil {
		t.Fatal("expected nil archive service when archive disabled")
	}
	if _, err := module.LookupFragment(context.Background(), 41390, relnotes.CategorySignificant); !errors.Is(err, relnotes.ErrArchiveFeatureRequired) {
		t.Fatalf("expected ErrArchiveFeatureRequired, got %v", err)
	}
}
