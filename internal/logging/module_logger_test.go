package logging

import (
	"context"
	"testing"

	"github.com/goliatone/go-relnotes/pkg/interfaces"
)

type recordingLogger struct {
	fields   []map[string]any
	contexts []context.Context
}

func (r *recordingLogger) Trace(string, ...any) {}
func (r *recordingLogger) Debug(string, ...any) {}
func (r *recordingLogger) Info(string, ...any)  {}
func (r *recordingLogger) Warn(string, ...any)  {}
func (r *recordingLogger) Error(string, ...any) {}
func (r *recordingLogger) Fatal(string, ...any) {}

func (r *recordingLogger) WithFields(fields map[string]any) interfaces.Logger {
	if fields == nil {
		fields = map[string]any{}
	}
	copied := make(map[string]any, len(fields))
	for k, v := range fields {
		copied[k] = v
	}
	r.fields = append(r.fields, copied)
	return r
}

func (r *recordingLogger) WithContext(ctx context.Context) interfaces.Logger {
	r.contexts = append(r.contexts, ctx)
	return r
}

type stubProvider struct {
	requested []string
	logger    interfaces.Logger
}

func (s *stubProvider) GetLogger(name string) interfaces.Logger {
	s.requested = append(s.requested, name)
	return s.logger
}

func TestModuleLoggerFallsBackToNoOp(t *testing.T) {
	logger := ModuleLogger(nil, "relnotes.test")
	if _, ok := logger.(noopLogger); !ok {
		t.Fatalf("expected noopLogger fallback, got %T", logger)
	}
	// Ensure WithContext does not panic on the fallback.
	logger = logger.WithContext(context.Background())
	logger.Debug("noop")
}

func TestModuleLoggerUsesProviderAndAnnotatesFields(t *testing.T) {
	rec := &recordingLogger{}
	provider := &stubProvider{logger: rec}

	logger := ModuleLogger(provider, fragmentsModule)

	if len(provider.requested) != 1 || provider.requested[0] != fragmentsModule {
		t.Fatalf("expected module %s, got %v", fragmentsModule, provider.requested)
	}
	if len(rec.fields) != 1 {
		t.Fatalf("expected module fields to be applied once, got %d", len(rec.fields))
	}
	if got, ok := rec.fields[0]["module"]; !ok || got != fragmentsModule {
		t.Fatalf("expected module field %s, got %v", fragmentsModule, rec.fields[0]["module"])
	}

	logger.Info("with provider")
}

func TestModuleLoggerDefaultsToRootModule(t *testing.T) {
	rec := &recordingLogger{}
	provider := &stubProvider{logger: rec}

	_ = ModuleLogger(provider, "")

	if len(provider.requested) != 1 || provider.requested[0] != rootModule {
		t.Fatalf("expected default module %s, got %v", rootModule, provider.requested)
	}
	if rec.fields[0]["module"] != rootModule {
		t.Fatalf("expected module field %s, got %v", rootModule, rec.fields[0]["module"])
	}
}

func TestDomainLoggersRequestTheirModules(t *testing.T) {
	cases := []struct {
		name   string
		invoke func(interfaces.LoggerProvider) interfaces.Logger
		module string
	}{
		{"fragments", FragmentsLogger, fragmentsModule},
		{"changelog", ChangelogLogger, changelogModule},
		{"archive", ArchiveLogger, archiveModule},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			provider := &stubProvider{logger: &recordingLogger{}}
			_ = tc.invoke(provider)
			if len(provider.requested) == 0 || provider.requested[0] != tc.module {
				t.Fatalf("expected %s module request, got %v", tc.module, provider.requested)
			}
		})
	}
}

func TestWithFragmentContextSkipsEmptyValues(t *testing.T) {
	rec := &recordingLogger{}

	_ = WithFragmentContext(rec, "41390.significant.rst", "", "3.0.0")

	if len(rec.fields) != 1 {
		t.Fatalf("expected one fields application, got %d", len(rec.fields))
	}
	fields := rec.fields[0]
	if fields[fieldFragmentPath] != "41390.significant.rst" {
		t.Fatalf("expected fragment path field, got %v", fields)
	}
	if _, ok := fields[fieldFragmentCategory]; ok {
		t.Fatalf("blank category must be skipped, got %v", fields)
	}
	if fields[fieldReleaseVersion] != "3.0.0" {
		t.Fatalf("expected version field, got %v", fields)
	}
}
