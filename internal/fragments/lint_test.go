package fragments

import (
	"context"
	"os"
	"testing"

	"github.com/goliatone/go-relnotes/internal/logging"
	"github.com/goliatone/go-relnotes/internal/validation"
	"github.com/goliatone/go-relnotes/pkg/interfaces"
)

func newTestLinter(t *testing.T, dir string) *Linter {
	t.Helper()
	loader := NewLoader(os.DirFS(dir), LoaderConfig{BasePath: dir})
	return NewLinter(loader, logging.NoOp(), validation.MetaJSONSchema)
}

func TestLintCleanCorpus(t *testing.T) {
	linter := newTestLinter(t, "testdata/corpus")

	report, err := linter.Lint(context.Background(), ".", interfaces.LoadOptions{})
	if err != nil {
		t.Fatalf("Lint returned error: %v", err)
	}
	if report.Checked != 3 {
		t.Fatalf("expected 3 checked files, got %d", report.Checked)
	}
	if !report.OK() {
		t.Fatalf("expected clean report, got findings: %v", report.Findings)
	}
}

func TestLintCollectsAllFindings(t *testing.T) {
	linter := newTestLinter(t, "testdata/badcorpus")

	report, err := linter.Lint(context.Background(), ".", interfaces.LoadOptions{})
	if err != nil {
		t.Fatalf("Lint returned error: %v", err)
	}
	if report.Checked != 6 {
		t.Fatalf("expected 6 checked files, got %d", report.Checked)
	}
	if report.OK() {
		t.Fatal("expected findings for bad corpus")
	}

	byCode := map[string][]string{}
	for _, finding := range report.Findings {
		byCode[finding.Code] = append(byCode[finding.Code], finding.Path)
	}

	if paths := byCode[CodeNameInvalid]; len(paths) != 1 || paths[0] != "notes.txt" {
		t.Fatalf("expected notes.txt flagged as name invalid, got %v", paths)
	}
	if paths := byCode[CodeCategoryUnknown]; len(paths) != 1 || paths[0] != "123.wibble.rst" {
		t.Fatalf("expected 123.wibble.rst flagged for unknown category, got %v", paths)
	}
	if paths := byCode[CodeBodyEmpty]; len(paths) != 1 || paths[0] != "200.doc.rst" {
		t.Fatalf("expected 200.doc.rst flagged for empty body, got %v", paths)
	}
	if paths := byCode[CodeDuplicate]; len(paths) != 1 {
		t.Fatalf("expected one duplicate finding, got %v", paths)
	}
	if paths := byCode[CodeExtUnsupported]; len(paths) != 1 || paths[0] != "300.misc.md" {
		t.Fatalf("expected 300.misc.md flagged for unsupported extension, got %v", paths)
	}
	if paths := byCode[CodeMetaInvalid]; len(paths) != 1 || paths[0] != "400.feature.rst" {
		t.Fatalf("expected 400.feature.rst flagged for invalid meta, got %v", paths)
	}
}

func TestLintWithoutSchemaSkipsMetaChecks(t *testing.T) {
	loader := NewLoader(os.DirFS("testdata/badcorpus"), LoaderConfig{BasePath: "testdata/badcorpus"})
	linter := NewLinter(loader, logging.NoOp(), "")

	report, err := linter.Lint(context.Background(), ".", interfaces.LoadOptions{})
	if err != nil {
		t.Fatalf("Lint returned error: %v", err)
	}
	for _, finding := range report.Findings {
		if finding.Code == CodeMetaInvalid {
			t.Fatalf("expected no meta findings without a schema, got %v", finding)
		}
	}
}

func TestLintExtensionFollowsPattern(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(dir+"/100.feature.md", []byte("Added a thing.\n"), 0o644); err != nil {
		t.Fatalf("write fragment: %v", err)
	}
	linter := newTestLinter(t, dir)

	report, err := linter.Lint(context.Background(), ".", interfaces.LoadOptions{})
	if err != nil {
		t.Fatalf("Lint returned error: %v", err)
	}
	if len(report.Findings) != 1 || report.Findings[0].Code != CodeExtUnsupported {
		t.Fatalf("expected unsupported extension finding under the default pattern, got %v", report.Findings)
	}

	report, err = linter.Lint(context.Background(), ".", interfaces.LoadOptions{Pattern: "*.md"})
	if err != nil {
		t.Fatalf("Lint returned error: %v", err)
	}
	if !report.OK() {
		t.Fatalf("expected .md accepted when the pattern names it, got %v", report.Findings)
	}
}

func TestLintCancelledContext(t *testing.T) {
	linter := newTestLinter(t, "testdata/corpus")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := linter.Lint(ctx, ".", interfaces.LoadOptions{}); err == nil {
		t.Fatal("expected error from cancelled context")
	}
}
