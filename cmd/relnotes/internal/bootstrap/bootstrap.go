package bootstrap

import (
	"fmt"
	"strings"

	relnotes "github.com/goliatone/go-relnotes"
	"github.com/goliatone/go-relnotes/internal/di"
	"github.com/goliatone/go-relnotes/internal/logging"
	"github.com/goliatone/go-relnotes/pkg/interfaces"
	urlkit "github.com/goliatone/go-urlkit"
)

// Options captures configuration for relnotes CLI bootstraps.
type Options struct {
	FragmentsDir   string
	Pattern        string
	Recursive      bool
	Format         string
	TrackerBaseURL string
	ArchiveDriver  string
	ArchiveDSN     string
	ArchiveEnabled bool
	LogLevel       string
	LoggerProvider interfaces.LoggerProvider
}

// Module wraps the relnotes module and the loggers CLI entrypoints use.
type Module struct {
	Module *relnotes.Module
	Logger interfaces.Logger
}

// BuildModule constructs a relnotes module configured for CLI operations.
func BuildModule(opts Options) (*Module, error) {
	cfg := relnotes.DefaultConfig()
	cfg.Features.Logger = true
	cfg.Logging.Provider = "console"
	if level := strings.TrimSpace(opts.LogLevel); level != "" {
		cfg.Logging.Level = level
	}

	if dir := strings.TrimSpace(opts.FragmentsDir); dir != "" {
		cfg.Fragments.Dir = dir
	}
	if pattern := strings.TrimSpace(opts.Pattern); pattern != "" {
		cfg.Fragments.Pattern = pattern
	}
	cfg.Fragments.Recursive = opts.Recursive

	if format := strings.TrimSpace(opts.Format); format != "" {
		cfg.Changelog.Format = format
	}

	if base := strings.TrimSpace(opts.TrackerBaseURL); base != "" {
		cfg.Links.Group = "tracker"
		cfg.Links.RouteConfig = TrackerRoutes(base)
	}

	if opts.ArchiveEnabled {
		cfg.Features.Archive = true
		cfg.Archive.Enabled = true
		if driver := strings.TrimSpace(opts.ArchiveDriver); driver != "" {
			cfg.Archive.Driver = driver
		}
		if dsn := strings.TrimSpace(opts.ArchiveDSN); dsn != "" {
			cfg.Archive.DSN = dsn
		}
	}

	diOpts := []di.Option{}
	if opts.LoggerProvider != nil {
		diOpts = append(diOpts, di.WithLoggerProvider(opts.LoggerProvider))
	}

	module, err := relnotes.New(cfg, diOpts...)
	if err != nil {
		return nil, fmt.Errorf("initialise relnotes module: %w", err)
	}

	logger := logging.ModuleLogger(module.Container().LoggerProvider(), "relnotes.cli")

	return &Module{
		Module: module,
		Logger: logger,
	}, nil
}

// TrackerRoutes builds the urlkit route group for issue and PR links against
// a GitHub-style tracker base URL.
func TrackerRoutes(baseURL string) *urlkit.Config {
	return &urlkit.Config{
		Groups: []urlkit.GroupConfig{
			{
				Name:    "tracker",
				BaseURL: strings.TrimRight(baseURL, "/"),
				Paths: map[string]string{
					"issue": "/issues/:id",
					"pr":    "/pull/:id",
				},
			},
		},
	}
}

// SplitList parses a comma separated list into a trimmed slice.
func SplitList(value string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
