package logging

import (
	"context"
	"strings"

	"github.com/goliatone/go-relnotes/pkg/interfaces"
)

const (
	rootModule      = "relnotes"
	fragmentsModule = "relnotes.fragments"
	changelogModule = "relnotes.changelog"
	archiveModule   = "relnotes.archive"
)

const (
	fieldFragmentPath     = "fragment_path"
	fieldFragmentCategory = "category"
	fieldReleaseVersion   = "version"
)

// ModuleLogger returns a module-scoped logger, defaulting to a no-op
// implementation when no provider is supplied. The returned logger attaches
// the module identifier as structured context so downstream entries can be
// filtered predictably.
func ModuleLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	if module == "" {
		module = rootModule
	}

	logger := NoOp()
	if provider != nil {
		if provided := provider.GetLogger(module); provided != nil {
			logger = provided
		}
	}

	if fieldsLogger, ok := logger.(interfaces.FieldsLogger); ok {
		return fieldsLogger.WithFields(map[string]any{
			"module": module,
		})
	}

	return WithFields(logger, map[string]any{
		"module": module,
	})
}

// FragmentsLogger returns the logger namespace reserved for fragment loading and linting.
func FragmentsLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, fragmentsModule)
}

// ChangelogLogger returns the logger namespace reserved for release-notes builds.
func ChangelogLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, changelogModule)
}

// ArchiveLogger returns the logger namespace reserved for the release archive.
func ArchiveLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, archiveModule)
}

// WithFragmentContext enriches the provided logger with common fragment fields
// such as file path, category, and release version. Empty values are ignored.
func WithFragmentContext(logger interfaces.Logger, path, category, version string) interfaces.Logger {
	fields := map[string]any{}
	if trimmed := strings.TrimSpace(path); trimmed != "" {
		fields[fieldFragmentPath] = trimmed
	}
	if trimmed := strings.TrimSpace(category); trimmed != "" {
		fields[fieldFragmentCategory] = trimmed
	}
	if trimmed := strings.TrimSpace(version); trimmed != "" {
		fields[fieldReleaseVersion] = trimmed
	}
	return WithFields(logger, fields)
}

// NoOp returns a logger that drops every log entry. It satisfies the Logger
// contract so services can safely operate when logging is disabled.
func NoOp() interfaces.Logger {
	return noopLogger{}
}

type noopLogger struct{}

var _ interfaces.Logger = noopLogger{}

func (noopLogger) Trace(string, ...any) {}
func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
func (noopLogger) Fatal(string, ...any) {}

func (n noopLogger) WithFields(map[string]any) interfaces.Logger {
	return n
}

func (n noopLogger) WithContext(context.Context) interfaces.Logger {
	return n
}
