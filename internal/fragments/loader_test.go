package fragments

import (
	"context"
	"os"
	"strings"
	"testing"

	"github.com/goliatone/go-relnotes/pkg/interfaces"
)

func newCorpusLoader(t *testing.T, dir string) *Loader {
	t.Helper()
	return NewLoader(os.DirFS(dir), LoaderConfig{BasePath: dir})
}

func TestLoaderLoadFile(t *testing.T) {
	loader := newCorpusLoader(t, "testdata/corpus")

	fragment, err := loader.LoadFile(context.Background(), "41390.significant.rst", interfaces.LoadOptions{})
	if err != nil {
		t.Fatalf("LoadFile returned error: %v", err)
	}

	if fragment.Ref.Issue != 41390 || fragment.Ref.Category != interfaces.CategorySignificant {
		t.Fatalf("unexpected ref: %+v", fragment.Ref)
	}
	if !strings.Contains(string(fragment.Body), "SubDagOperator") {
		t.Fatalf("expected verbatim body, got %q", fragment.Body)
	}
	if len(fragment.Checksum) == 0 {
		t.Fatal("expected checksum to be populated")
	}
	if fragment.LastModified.IsZero() {
		t.Fatal("expected modification time to be populated")
	}
}

func TestLoaderLoadFileParsesFrontMatter(t *testing.T) {
	loader := newCorpusLoader(t, "testdata/corpus")

	fragment, err := loader.LoadFile(context.Background(), "41600.bugfix.rst", interfaces.LoadOptions{})
	if err != nil {
		t.Fatalf("LoadFile returned error: %v", err)
	}

	if fragment.Meta.Author != "jsmith" {
		t.Fatalf("expected author jsmith, got %q", fragment.Meta.Author)
	}
	if len(fragment.Meta.PRs) != 2 || fragment.Meta.PRs[0] != 41601 {
		t.Fatalf("unexpected prs: %v", fragment.Meta.PRs)
	}
	if len(fragment.Meta.Tags) != 1 || fragment.Meta.Tags[0] != "scheduler" {
		t.Fatalf("unexpected tags: %v", fragment.Meta.Tags)
	}
	if strings.Contains(string(fragment.Body), "---") {
		t.Fatalf("body should exclude front matter delimiters: %q", fragment.Body)
	}
	if !strings.Contains(string(fragment.Body), "scheduler heartbeat") {
		t.Fatalf("unexpected body: %q", fragment.Body)
	}
}

func TestLoaderLoadDirectoryOrdersByIssue(t *testing.T) {
	loader := newCorpusLoader(t, "testdata/corpus")

	fragments, err := loader.LoadDirectory(context.Background(), ".", interfaces.LoadOptions{})
	if err != nil {
		t.Fatalf("LoadDirectory returned error: %v", err)
	}
	if len(fragments) != 3 {
		t.Fatalf("expected 3 fragments, got %d", len(fragments))
	}

	var previous int64
	for _, fragment := range fragments {
		if fragment.Ref.Issue < previous {
			t.Fatalf("fragments out of order: %d before %d", previous, fragment.Ref.Issue)
		}
		previous = fragment.Ref.Issue
	}
}

func TestLoaderLoadDirectoryPatternOverride(t *testing.T) {
	loader := newCorpusLoader(t, "testdata/corpus")

	fragments, err := loader.LoadDirectory(context.Background(), ".", interfaces.LoadOptions{Pattern: "41390.*.rst"})
	if err != nil {
		t.Fatalf("LoadDirectory returned error: %v", err)
	}
	if len(fragments) != 1 || fragments[0].Ref.Issue != 41390 {
		t.Fatalf("expected only issue 41390, got %d fragments", len(fragments))
	}
}

func TestLoaderLoadFileCancelledContext(t *testing.T) {
	loader := newCorpusLoader(t, "testdata/corpus")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := loader.LoadFile(ctx, "41390.significant.rst", interfaces.LoadOptions{}); err == nil {
		t.Fatal("expected error from cancelled context")
	}
}
