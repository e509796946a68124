package fragments

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-relnotes/internal/validation"
	"github.com/goliatone/go-relnotes/pkg/interfaces"
)

// Linter runs the structural checks that gate a corpus before a build:
// every filename parses, every category is recognised, the extension matches
// the corpus convention, every body is non-empty, frontmatter matches the
// metadata schema, and no issue+category pair appears twice.
type Linter struct {
	loader     *Loader
	logger     interfaces.Logger
	metaSchema string
}

// NewLinter constructs a Linter sharing the supplied loader's filesystem.
// An empty metaSchema disables frontmatter validation.
func NewLinter(loader *Loader, logger interfaces.Logger, metaSchema string) *Linter {
	return &Linter{
		loader:     loader,
		logger:     logger,
		metaSchema: metaSchema,
	}
}

// Lint inspects every visible file under dir. Unlike LoadDirectory, a lint
// run never aborts on the first bad file; all findings are collected so a
// contributor can fix the corpus in one pass.
func (l *Linter) Lint(ctx context.Context, dir string, opts interfaces.LoadOptions) (*interfaces.LintReport, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	root, err := l.loader.makeRelative(dir)
	if err != nil {
		return nil, err
	}
	root = filepath.Clean(root)

	report := &interfaces.LintReport{}
	seen := map[string]string{}
	acceptedExt := l.loader.acceptedExt(opts.Pattern)

	walkErr := fs.WalkDir(l.loader.fs, root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}

		name := filepath.Base(path)
		if d.IsDir() {
			if strings.HasPrefix(name, ".") && filepath.Clean(path) != root {
				return fs.SkipDir
			}
			if !l.loader.shouldRecurse(root, path, opts.Recursive) {
				return fs.SkipDir
			}
			return nil
		}

		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if strings.HasPrefix(name, ".") {
			return nil
		}

		report.Checked++
		rel := filepath.ToSlash(path)

		ref, err := ParseRef(rel)
		if err != nil {
			report.Findings = append(report.Findings, interfaces.LintFinding{
				Path: rel,
				Code: findingCode(err),
				Err:  err,
			})
			return nil
		}

		if ref.Ext != acceptedExt {
			report.Findings = append(report.Findings, interfaces.LintFinding{
				Path: rel,
				Code: CodeExtUnsupported,
				Err:  extUnsupported(rel, ref.Ext, acceptedExt),
			})
		}

		data, err := fs.ReadFile(l.loader.fs, rel)
		if err != nil {
			return fmt.Errorf("lint read %s: %w", rel, err)
		}

		meta, body, err := ParseFrontMatter(data)
		if err != nil {
			report.Findings = append(report.Findings, interfaces.LintFinding{
				Path: rel,
				Code: CodeNameInvalid,
				Err:  err,
			})
			return nil
		}

		if len(meta.Raw) > 0 {
			if err := validation.ValidateMeta(l.metaSchema, meta.Raw); err != nil {
				report.Findings = append(report.Findings, interfaces.LintFinding{
					Path: rel,
					Code: CodeMetaInvalid,
					Err:  err,
				})
			}
		}

		if len(strings.TrimSpace(string(body))) == 0 {
			report.Findings = append(report.Findings, interfaces.LintFinding{
				Path: rel,
				Code: CodeBodyEmpty,
				Err:  bodyEmpty(rel),
			})
		}

		if prev, dup := seen[ref.Key()]; dup {
			report.Findings = append(report.Findings, interfaces.LintFinding{
				Path: rel,
				Code: CodeDuplicate,
				Err:  duplicate(rel, prev),
			})
		} else {
			seen[ref.Key()] = rel
		}
		return nil
	})

	if walkErr != nil {
		return nil, walkErr
	}

	if l.logger != nil {
		l.logger.Info("fragments.lint.completed",
			"checked", report.Checked,
			"findings", len(report.Findings),
		)
	}
	return report, nil
}

func bodyEmpty(path string) error {
	err := errors.New("body must not be empty")
	return goerrors.Wrap(err, goerrors.CategoryValidation,
		fmt.Sprintf("fragment %s has an empty body", path)).
		WithTextCode(CodeBodyEmpty)
}

func extUnsupported(path, ext, accepted string) error {
	err := fmt.Errorf("extension %q is not accepted; the corpus uses %q", ext, accepted)
	return goerrors.Wrap(err, goerrors.CategoryValidation,
		fmt.Sprintf("fragment %s uses an unsupported extension", path)).
		WithTextCode(CodeExtUnsupported)
}

func duplicate(path, previous string) error {
	err := fmt.Errorf("already defined by %s", previous)
	return goerrors.Wrap(err, goerrors.CategoryValidation,
		fmt.Sprintf("fragment %s duplicates an existing issue and category", path)).
		WithTextCode(CodeDuplicate)
}

// findingCode distinguishes the two filename failure modes without forcing
// callers to unwrap the error chain.
func findingCode(err error) string {
	var wrapped *goerrors.Error
	if errors.As(err, &wrapped) && wrapped.TextCode == CodeCategoryUnknown {
		return CodeCategoryUnknown
	}
	return CodeNameInvalid
}
