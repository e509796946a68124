package changelog

import (
	"context"
	"strings"
	"testing"
	"time"

	urlkit "github.com/goliatone/go-urlkit"

	"github.com/goliatone/go-relnotes/pkg/interfaces"
)

func testFragments() []*interfaces.Fragment {
	return []*interfaces.Fragment{
		{
			Ref:  interfaces.Ref{Issue: 41500, Category: interfaces.CategoryFeature, Ext: "rst"},
			Body: []byte("Added a ``--fail-fast`` flag to the backfill command.\n"),
		},
		{
			Ref:  interfaces.Ref{Issue: 41390, Category: interfaces.CategorySignificant, Ext: "rst"},
			Body: []byte("Removed deprecated ``SubDagOperator``\n\nUse TaskGroups instead.\n"),
		},
		{
			Ref:  interfaces.Ref{Issue: 41600, Category: interfaces.CategoryBugfix, Ext: "rst"},
			Body: []byte("Fixed a race in the scheduler heartbeat.\n"),
			Meta: interfaces.FragmentMeta{PRs: []int64{41601}},
		},
		{
			Ref:  interfaces.Ref{Issue: 41300, Category: interfaces.CategoryBugfix, Ext: "rst"},
			Body: []byte("Fixed retry backoff overflow.\n"),
		},
	}
}

func testRouteManager(t *testing.T) *urlkit.RouteManager {
	t.Helper()
	return urlkit.NewRouteManager(&urlkit.Config{
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
	})
}

func TestBuildOrdersSectionsAndEntries(t *testing.T) {
	svc := NewService(Config{}, nil, nil, nil)

	notes, err := svc.Build(context.Background(), testFragments(), interfaces.BuildOptions{
		Version: "3.0.0",
		Date:    time.Date(2026, 8, 25, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}

	if notes.Version != "3.0.0" {
		t.Fatalf("unexpected version: %s", notes.Version)
	}
	if notes.Slug == "" {
		t.Fatal("expected slug to be populated")
	}
	if len(notes.Sections) != 3 {
		t.Fatalf("expected 3 sections, got %d", len(notes.Sections))
	}

	if notes.Sections[0].Category != interfaces.CategorySignificant {
		t.Fatalf("significant changes must lead, got %s", notes.Sections[0].Category)
	}
	if !notes.Sections[0].Breaking {
		t.Fatal("significant section must be marked breaking")
	}
	if notes.Sections[0].Heading != "Significant Changes" {
		t.Fatalf("unexpected heading: %s", notes.Sections[0].Heading)
	}

	bugfixes := notes.Sections[2]
	if bugfixes.Category != interfaces.CategoryBugfix {
		t.Fatalf("expected bugfix section third, got %s", bugfixes.Category)
	}
	if len(bugfixes.Entries) != 2 || bugfixes.Entries[0].Issue != 41300 {
		t.Fatalf("bugfix entries must ascend by issue: %+v", bugfixes.Entries)
	}
}

func TestBuildRequiresVersion(t *testing.T) {
	svc := NewService(Config{}, nil, nil, nil)

	if _, err := svc.Build(context.Background(), testFragments(), interfaces.BuildOptions{}); err == nil {
		t.Fatal("expected error when version is missing")
	}
}

func TestBuildIsDeterministic(t *testing.T) {
	svc := NewService(Config{}, nil, nil, nil)
	opts := interfaces.BuildOptions{
		Version: "3.0.0",
		Date:    time.Date(2026, 8, 25, 0, 0, 0, 0, time.UTC),
	}

	first, err := svc.Build(context.Background(), testFragments(), opts)
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}
	second, err := svc.Build(context.Background(), testFragments(), opts)
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}

	firstDoc, err := svc.Render(context.Background(), first, interfaces.RenderOptions{Format: interfaces.FormatRST})
	if err != nil {
		t.Fatalf("Render returned error: %v", err)
	}
	secondDoc, err := svc.Render(context.Background(), second, interfaces.RenderOptions{Format: interfaces.FormatRST})
	if err != nil {
		t.Fatalf("Render returned error: %v", err)
	}
	if string(firstDoc) != string(secondDoc) {
		t.Fatal("identical inputs must render identical documents")
	}
}

func TestRenderRSTCarriesBodiesVerbatim(t *testing.T) {
	svc := NewService(Config{}, nil, nil, nil)

	notes, err := svc.Build(context.Background(), testFragments(), interfaces.BuildOptions{
		Version: "3.0.0",
		Date:    time.Date(2026, 8, 25, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}

	doc, err := svc.Render(context.Background(), notes, interfaces.RenderOptions{Format: interfaces.FormatRST})
	if err != nil {
		t.Fatalf("Render returned error: %v", err)
	}
	text := string(doc)

	if !strings.HasPrefix(text, "3.0.0 (2026-08-25)\n==================\n") {
		t.Fatalf("unexpected document head: %q", text[:40])
	}
	if !strings.Contains(text, "Significant Changes\n-------------------\n") {
		t.Fatal("expected underlined section heading")
	}
	if !strings.Contains(text, "Removed deprecated ``SubDagOperator``\n\nUse TaskGroups instead.") {
		t.Fatal("expected verbatim multi-paragraph body")
	}
}

func TestRenderMarkdown(t *testing.T) {
	svc := NewService(Config{}, nil, nil, nil)

	notes, err := svc.Build(context.Background(), testFragments(), interfaces.BuildOptions{
		Version: "3.0.0",
		Date:    time.Date(2026, 8, 25, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}

	doc, err := svc.Render(context.Background(), notes, interfaces.RenderOptions{Format: interfaces.FormatMarkdown})
	if err != nil {
		t.Fatalf("Render returned error: %v", err)
	}
	text := string(doc)

	if !strings.HasPrefix(text, "## 3.0.0 (2026-08-25)\n") {
		t.Fatalf("unexpected document head: %q", text[:30])
	}
	if !strings.Contains(text, "### Bug Fixes\n") {
		t.Fatal("expected markdown section heading")
	}
}

func TestRenderRejectsUnknownFormat(t *testing.T) {
	svc := NewService(Config{}, nil, nil, nil)

	notes := &interfaces.ReleaseNotes{Version: "1.0.0"}
	if _, err := svc.Render(context.Background(), notes, interfaces.RenderOptions{Format: "pdf"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestBuildResolvesIssueAndPRLinks(t *testing.T) {
	links := NewLinkResolver(LinkResolverOptions{
		Manager: testRouteManager(t),
		Group:   "tracker",
	})
	svc := NewService(Config{}, links, nil, nil)

	notes, err := svc.Build(context.Background(), testFragments(), interfaces.BuildOptions{
		Version: "3.0.0",
		Date:    time.Date(2026, 8, 25, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}

	entry, ok := notes.Entry(41390, interfaces.CategorySignificant)
	if !ok {
		t.Fatal("expected entry for issue 41390")
	}
	if !strings.Contains(entry.IssueURL, "/issues/41390") {
		t.Fatalf("unexpected issue URL: %s", entry.IssueURL)
	}

	bugfix, ok := notes.Entry(41600, interfaces.CategoryBugfix)
	if !ok {
		t.Fatal("expected entry for issue 41600")
	}
	if len(bugfix.PRURLs) != 1 || !strings.Contains(bugfix.PRURLs[0], "/pull/41601") {
		t.Fatalf("unexpected PR URLs: %v", bugfix.PRURLs)
	}

	doc, err := svc.Render(context.Background(), notes, interfaces.RenderOptions{Format: interfaces.FormatRST})
	if err != nil {
		t.Fatalf("Render returned error: %v", err)
	}
	if !strings.Contains(string(doc), "`#41390 <") {
		t.Fatal("expected RST issue reference in rendered document")
	}
}

func TestPreviewProducesHTML(t *testing.T) {
	svc := NewService(Config{}, nil, nil, nil)

	notes, err := svc.Build(context.Background(), testFragments(), interfaces.BuildOptions{
		Version: "3.0.0",
		Date:    time.Date(2026, 8, 25, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}

	html, err := svc.Preview(context.Background(), notes, interfaces.ParseOptions{})
	if err != nil {
		t.Fatalf("Preview returned error: %v", err)
	}
	if !strings.Contains(string(html), "<h2") {
		t.Fatalf("expected HTML heading in preview, got %q", html)
	}
}
