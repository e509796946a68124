package fragments

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	goerrors "github.com/goliatone/go-errors"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-relnotes/internal/logging"
	"github.com/goliatone/go-relnotes/pkg/interfaces"
)

// Config controls how the fragment service discovers and parses files.
type Config struct {
	BasePath  string
	Pattern   string
	Recursive bool
	// MetaSchema is the JSON schema applied to fragment frontmatter during
	// lint runs. Empty disables metadata validation.
	MetaSchema string
}

// Service implements interfaces.FragmentService for filesystem-backed corpora.
type Service struct {
	cfg    Config
	loader *Loader
	linter *Linter
	logger interfaces.Logger
}

var _ interfaces.FragmentService = (*Service)(nil)

// NewService constructs a fragment service rooted at the configured corpus
// directory.
func NewService(cfg Config, logger interfaces.Logger) (*Service, error) {
	filesystem, err := prepareFilesystem(cfg.BasePath)
	if err != nil {
		return nil, err
	}

	if logger == nil {
		logger = logging.NoOp()
	}

	loader := NewLoader(filesystem, LoaderConfig{
		BasePath:  cfg.BasePath,
		Pattern:   cfg.Pattern,
		Recursive: cfg.Recursive,
	})

	return &Service{
		cfg:    cfg,
		loader: loader,
		linter: NewLinter(loader, logger, cfg.MetaSchema),
		logger: logger,
	}, nil
}

// Load reads a single fragment relative to the configured base path.
func (s *Service) Load(ctx context.Context, path string, opts interfaces.LoadOptions) (*interfaces.Fragment, error) {
	return s.loader.LoadFile(ctx, s.normalisePath(path), opts)
}

// LoadDirectory reads every fragment within the supplied directory.
func (s *Service) LoadDirectory(ctx context.Context, dir string, opts interfaces.LoadOptions) ([]*interfaces.Fragment, error) {
	return s.loader.LoadDirectory(ctx, s.normalisePath(dir), opts)
}

// Lint runs the structural corpus checks without aborting on the first finding.
func (s *Service) Lint(ctx context.Context, dir string, opts interfaces.LoadOptions) (*interfaces.LintReport, error) {
	return s.linter.Lint(ctx, s.normalisePath(dir), opts)
}

// Create writes a new fragment file into the corpus. Existing fragments are
// never overwritten; contributors amend them directly instead.
func (s *Service) Create(ctx context.Context, req interfaces.CreateFragmentRequest) (*interfaces.Fragment, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	if err := validateCreateRequest(req); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryValidation, "create fragment: invalid request")
	}

	ref := interfaces.Ref{
		Issue:    req.Issue,
		Category: req.Category,
		Ext:      DefaultExt,
	}

	target := filepath.Join(s.cfg.BasePath, ref.FileName())
	if _, err := os.Stat(target); err == nil {
		return nil, fmt.Errorf("create fragment: %s already exists", ref.FileName())
	} else if !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("create fragment: stat %s: %w", target, err)
	}

	content, err := renderFragmentFile(req)
	if err != nil {
		return nil, err
	}

	if err := os.WriteFile(target, content, 0o644); err != nil {
		return nil, fmt.Errorf("create fragment: write %s: %w", target, err)
	}

	logging.WithFragmentContext(s.logger, ref.FileName(), string(ref.Category), "").
		Info("fragments.create.completed")

	return s.loader.LoadFile(ctx, ref.FileName(), interfaces.LoadOptions{})
}

func validateCreateRequest(req interfaces.CreateFragmentRequest) error {
	return validation.ValidateStruct(&req,
		validation.Field(&req.Issue, validation.Required, validation.Min(int64(1))),
		validation.Field(&req.Category, validation.By(func(value any) error {
			category, _ := value.(interfaces.Category)
			if !category.Valid() {
				return validation.NewError("relnotes.fragments.category_unknown",
					fmt.Sprintf("category %q is not recognised", category))
			}
			return nil
		})),
		validation.Field(&req.Body, validation.Required, validation.By(func(value any) error {
			if strings.TrimSpace(value.(string)) == "" {
				return validation.NewError("relnotes.fragments.body_required", "body is required")
			}
			return nil
		})),
	)
}

func renderFragmentFile(req interfaces.CreateFragmentRequest) ([]byte, error) {
	var buf bytes.Buffer

	if hasMeta(req.Meta) {
		front := map[string]any{}
		if req.Meta.Author != "" {
			front["author"] = req.Meta.Author
		}
		if len(req.Meta.PRs) > 0 {
			front["prs"] = req.Meta.PRs
		}
		if len(req.Meta.Tags) > 0 {
			front["tags"] = req.Meta.Tags
		}
		for key, value := range req.Meta.Custom {
			front[key] = value
		}

		encoded, err := yaml.Marshal(front)
		if err != nil {
			return nil, fmt.Errorf("create fragment: encode frontmatter: %w", err)
		}
		buf.WriteString("---\n")
		buf.Write(encoded)
		buf.WriteString("---\n")
	}

	buf.WriteString(strings.TrimRight(req.Body, "\n"))
	buf.WriteString("\n")
	return buf.Bytes(), nil
}

func hasMeta(meta interfaces.FragmentMeta) bool {
	return meta.Author != "" || len(meta.PRs) > 0 || len(meta.Tags) > 0 || len(meta.Custom) > 0
}

func (s *Service) normalisePath(path string) string {
	if strings.TrimSpace(path) == "" {
		return "."
	}
	clean := filepath.Clean(path)
	if filepath.IsAbs(clean) && strings.TrimSpace(s.cfg.BasePath) != "" {
		if rel, err := filepath.Rel(s.cfg.BasePath, clean); err == nil {
			return filepath.ToSlash(rel)
		}
	}
	return filepath.ToSlash(clean)
}

func prepareFilesystem(basePath string) (fs.FS, error) {
	if strings.TrimSpace(basePath) == "" {
		basePath = "."
	}
	if _, err := os.Stat(basePath); err != nil {
		return nil, fmt.Errorf("fragment service: stat base path %s: %w", basePath, err)
	}
	return os.DirFS(basePath), nil
}
