package runtimeconfig

import (
	"errors"
	"fmt"
	"strings"
	"time"

	urlkit "github.com/goliatone/go-urlkit"
)

// ErrFragmentsDirRequired indicates the fragment corpus directory is missing.
var ErrFragmentsDirRequired = errors.New("relnotes config: fragments directory is required")

// ErrArchiveFeatureRequired indicates inconsistent archive configuration.
var ErrArchiveFeatureRequired = errors.New("relnotes config: archive feature must be enabled to configure the archive")

// ErrArchiveDSNRequired indicates the archive database DSN is missing.
var ErrArchiveDSNRequired = errors.New("relnotes config: archive DSN is required when archive is enabled")

// ErrArchiveDriverUnknown indicates an unsupported archive database driver.
var ErrArchiveDriverUnknown = errors.New("relnotes config: archive driver is invalid")

// ErrPruneRequiresArchive ensures fragment pruning only runs against an archive.
var ErrPruneRequiresArchive = errors.New("relnotes config: prune requires the archive feature to be enabled")

var ErrChangelogFormatInvalid = errors.New("relnotes config: changelog format is invalid")
var ErrLoggingProviderRequired = errors.New("relnotes config: logging provider is required when logging feature is enabled")
var ErrLoggingProviderUnknown = errors.New("relnotes config: logging provider is invalid")
var ErrLoggingLevelInvalid = errors.New("relnotes config: logging level is invalid")
var ErrLoggingFormatInvalid = errors.New("relnotes config: logging format is invalid")

// Config aggregates feature flags and adapter bindings for the release-notes module.
// Fields intentionally use simple types so host applications can extend them later.
type Config struct {
	Enabled   bool
	Fragments FragmentsConfig
	Changelog ChangelogConfig
	Links     LinksConfig
	Archive   ArchiveConfig
	Cache     CacheConfig
	Logging   LoggingConfig
	Commands  CommandsConfig
	Features  Features
}

// FragmentsConfig captures filesystem behaviour for fragment discovery.
type FragmentsConfig struct {
	Dir       string
	Pattern   string
	Recursive bool
	// MetaSchema overrides the built-in frontmatter schema used during lint runs.
	MetaSchema string
}

// ChangelogConfig captures output behaviour for release-notes builds.
type ChangelogConfig struct {
	Format string
	Parser ParserConfig
}

// ParserConfig mirrors interfaces.ParseOptions for runtime configuration.
type ParserConfig struct {
	Extensions []string
	Sanitize   bool
	HardWraps  bool
	SafeMode   bool
}

// LinksConfig captures routing configuration for issue and PR references.
type LinksConfig struct {
	RouteConfig *urlkit.Config
	Group       string
	IssueRoute  string
	PRRoute     string
	Param       string
}

// ArchiveConfig captures database bindings for the release archive.
type ArchiveConfig struct {
	Enabled bool
	Driver  string
	DSN     string
}

// CacheConfig captures read-cache behaviour for archive repositories.
type CacheConfig struct {
	Enabled    bool
	DefaultTTL time.Duration
}

// LoggingConfig captures provider-specific options for runtime logging.
type LoggingConfig struct {
	Provider  string
	Level     string
	Format    string
	AddSource bool
	Focus     []string
}

// CommandsConfig captures optional command-layer behaviour.
type CommandsConfig struct {
	Enabled          bool
	AutoRegisterCron bool
	LintCron         string
}

// Features toggles module functionality.
type Features struct {
	Fragments bool
	Changelog bool
	Archive   bool
	Prune     bool
	Logger    bool
}

// DefaultConfig returns opinionated defaults for a newsfragment corpus kept
// beside the repository root.
func DefaultConfig() Config {
	return Config{
		Enabled: true,
		Fragments: FragmentsConfig{
			Dir:       "newsfragments",
			Pattern:   "*.rst",
			Recursive: false,
		},
		Changelog: ChangelogConfig{
			Format: "rst",
		},
		Links: LinksConfig{
			IssueRoute: "issue",
			PRRoute:    "pr",
			Param:      "id",
		},
		Archive: ArchiveConfig{
			Driver: "sqlite3",
			DSN:    "file:relnotes.db",
		},
		Cache: CacheConfig{
			Enabled:    true,
			DefaultTTL: time.Minute,
		},
		Logging: LoggingConfig{
			Provider: "console",
			Level:    "info",
			Format:   "",
		},
		Commands: CommandsConfig{},
		Features: Features{
			Fragments: true,
			Changelog: true,
		},
	}
}

// Validate performs high-level consistency checks.
func (cfg Config) Validate() error {
	if strings.TrimSpace(cfg.Fragments.Dir) == "" {
		return ErrFragmentsDirRequired
	}
	if format := strings.TrimSpace(cfg.Changelog.Format); format != "" && !isSupportedChangelogFormat(format) {
		return fmt.Errorf("%w: %s", ErrChangelogFormatInvalid, format)
	}
	if cfg.Archive.Enabled {
		if !cfg.Features.Archive {
			return ErrArchiveFeatureRequired
		}
		if strings.TrimSpace(cfg.Archive.DSN) == "" {
			return ErrArchiveDSNRequired
		}
		if driver := normalizeDriver(cfg.Archive.Driver); !isSupportedDriver(driver) {
			return fmt.Errorf("%w: %s", ErrArchiveDriverUnknown, driver)
		}
	}
	if cfg.Features.Prune && !cfg.Features.Archive {
		return ErrPruneRequiresArchive
	}
	if cfg.Features.Logger {
		provider := normalizeProvider(cfg.Logging.Provider)
		if provider == "" {
			return ErrLoggingProviderRequired
		}
		if !isSupportedProvider(provider) {
			return fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, provider)
		}
		if level := strings.TrimSpace(cfg.Logging.Level); level != "" && !isSupportedLevel(level) {
			return fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, level)
		}
		if provider == "gologger" {
			if format := strings.TrimSpace(cfg.Logging.Format); format != "" && !isSupportedFormat(format) {
				return fmt.Errorf("%w: %s", ErrLoggingFormatInvalid, format)
			}
		}
	}
	return nil
}

func normalizeProvider(provider string) string {
	return strings.ToLower(strings.TrimSpace(provider))
}

func normalizeDriver(driver string) string {
	return strings.ToLower(strings.TrimSpace(driver))
}

func isSupportedDriver(driver string) bool {
	switch driver {
	case "sqlite3", "postgres":
		return true
	default:
		return false
	}
}

func isSupportedChangelogFormat(format string) bool {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "rst", "markdown":
		return true
	default:
		return false
	}
}

func isSupportedProvider(provider string) bool {
	switch provider {
	case "console", "gologger":
		return true
	default:
		return false
	}
}

func isSupportedLevel(level string) bool {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal":
		return true
	default:
		return false
	}
}

func isSupportedFormat(format string) bool {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json", "console", "pretty":
		return true
	default:
		return false
	}
}
