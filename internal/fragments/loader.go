package fragments

import (
	"context"
	"crypto/sha256"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/goliatone/go-relnotes/pkg/interfaces"
)

// LoaderConfig configures how fragment files are discovered within a corpus directory.
type LoaderConfig struct {
	// BasePath is the root directory where fragments live.
	BasePath string
	// Pattern limits discovered files to those matching the supplied glob (defaults to "*.rst").
	Pattern string
	// Recursive controls whether sub-directories are traversed.
	Recursive bool
}

// Loader turns filesystem paths into parsed fragments with metadata.
type Loader struct {
	fs        fs.FS
	basePath  string
	pattern   string
	recursive bool
}

// NewLoader constructs a Loader using the provided filesystem and configuration.
func NewLoader(filesystem fs.FS, cfg LoaderConfig) *Loader {
	pattern := cfg.Pattern
	if strings.TrimSpace(pattern) == "" {
		pattern = "*." + DefaultExt
	}

	return &Loader{
		fs:        filesystem,
		basePath:  filepath.Clean(cfg.BasePath),
		pattern:   pattern,
		recursive: cfg.Recursive,
	}
}

// LoadFile reads and parses a single fragment file. The filename must satisfy
// the <issue>.<category>.<ext> convention.
func (l *Loader) LoadFile(ctx context.Context, path string, opts interfaces.LoadOptions) (*interfaces.Fragment, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	rel, err := l.makeRelative(path)
	if err != nil {
		return nil, err
	}
	rel = filepath.ToSlash(rel)

	ref, err := ParseRef(rel)
	if err != nil {
		return nil, err
	}

	data, err := fs.ReadFile(l.fs, rel)
	if err != nil {
		return nil, fmt.Errorf("fragment loader read %s: %w", rel, err)
	}

	info, err := fs.Stat(l.fs, rel)
	if err != nil {
		return nil, fmt.Errorf("fragment loader stat %s: %w", rel, err)
	}

	fragment, err := BuildFragment(ref, rel, data, info.ModTime())
	if err != nil {
		return nil, err
	}
	sum := sha256.Sum256(data)
	fragment.Checksum = sum[:]

	return fragment, nil
}

// LoadDirectory discovers fragment files under dir and returns them parsed,
// ordered by issue number then category for deterministic builds.
func (l *Loader) LoadDirectory(ctx context.Context, dir string, opts interfaces.LoadOptions) ([]*interfaces.Fragment, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	root, err := l.makeRelative(dir)
	if err != nil {
		return nil, err
	}
	root = filepath.Clean(root)

	var results []*interfaces.Fragment

	walkErr := fs.WalkDir(l.fs, root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}

		if d.IsDir() {
			if !l.shouldRecurse(root, path, opts.Recursive) {
				return fs.SkipDir
			}
			return nil
		}

		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		rel := filepath.ToSlash(path)
		if !l.matchesPattern(rel, opts.Pattern) {
			return nil
		}

		fragment, err := l.LoadFile(ctx, rel, opts)
		if err != nil {
			return err
		}
		results = append(results, fragment)
		return nil
	})

	if walkErr != nil {
		return nil, walkErr
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Ref.Issue != results[j].Ref.Issue {
			return results[i].Ref.Issue < results[j].Ref.Issue
		}
		return results[i].Ref.Category < results[j].Ref.Category
	})

	return results, nil
}

// BuildFragment assembles a fragment from the supplied reference, path, raw
// content, and modification time.
func BuildFragment(ref interfaces.Ref, path string, source []byte, modified time.Time) (*interfaces.Fragment, error) {
	meta, body, err := ParseFrontMatter(source)
	if err != nil {
		return nil, err
	}

	return &interfaces.Fragment{
		Ref:          ref,
		Path:         path,
		Body:         body,
		Meta:         meta,
		LastModified: modified,
	}, nil
}

func (l *Loader) shouldRecurse(root, current string, override *bool) bool {
	recursive := l.recursive
	if override != nil {
		recursive = *override
	}
	if recursive {
		return true
	}
	// If recursion is disabled, only walk the root directory.
	cleanRoot := filepath.Clean(root)
	cleanCurrent := filepath.Clean(current)
	return cleanRoot == cleanCurrent
}

func (l *Loader) matchesPattern(path string, override string) bool {
	pattern := override
	if strings.TrimSpace(pattern) == "" {
		pattern = l.pattern
	}
	// Normalise to slash as fs.WalkDir returns slash-separated paths for DirFS.
	pattern = filepath.ToSlash(pattern)
	if strings.Contains(pattern, "**") {
		pattern = strings.ReplaceAll(pattern, "**/", "")
	}
	var target string
	if strings.Contains(pattern, "/") {
		target = path
	} else {
		target = filepath.Base(path)
	}
	match, err := filepath.Match(pattern, target)
	if err != nil {
		return false
	}
	return match
}

// acceptedExt reports the fragment extension implied by the effective
// discovery pattern, falling back to DefaultExt when the pattern carries no
// literal extension suffix.
func (l *Loader) acceptedExt(override string) string {
	pattern := strings.TrimSpace(override)
	if pattern == "" {
		pattern = l.pattern
	}
	if idx := strings.LastIndex(pattern, "."); idx >= 0 {
		ext := strings.ToLower(pattern[idx+1:])
		if ext != "" && !strings.ContainsAny(ext, "*?[") {
			return ext
		}
	}
	return DefaultExt
}

func (l *Loader) makeRelative(path string) (string, error) {
	clean := filepath.Clean(path)
	if !filepath.IsAbs(clean) {
		return clean, nil
	}
	if l.basePath == "" {
		return "", fmt.Errorf("fragment loader: absolute path %s provided without base path", path)
	}
	rel, err := filepath.Rel(l.basePath, clean)
	if err != nil {
		return "", fmt.Errorf("fragment loader: make relative %s: %w", path, err)
	}
	return rel, nil
}
