package changelogadapter

import (
	"context"
	"testing"

	intcommands "github.com/goliatone/go-relnotes/internal/commands"
	changelogcmd "github.com/goliatone/go-relnotes/internal/commands/changelog"
	"github.com/goliatone/go-relnotes/pkg/interfaces"
	command "github.com/goliatone/go-command"
)

func TestRegisterChangelogCommandsRegistersHandler(t *testing.T) {
	reg := &recordingRegistry{}

	set, err := RegisterChangelogCommands(reg, &stubFragmentService{}, &stubChangelogService{}, nil, "newsfragments", nil, changelogcmd.FeatureGates{})
	if err != nil {
		t.Fatalf("register changelog commands: %v", err)
	}
	if set == nil || set.Build == nil {
		t.Fatalf("expected build handler, got %#v", set)
	}
	if len(reg.handlers) != 1 {
		t.Fatalf("expected one handler registered, got %d", len(reg.handlers))
	}
	if reg.handlers[0] != set.Build {
		t.Fatalf("expected build handler registered, got %#v", reg.handlers[0])
	}
}

func TestRegisterChangelogCommandsHandlerOptionsApplied(t *testing.T) {
	applied := false

	_, err := RegisterChangelogCommands(nil, &stubFragmentService{}, &stubChangelogService{}, nil, "newsfragments", nil, changelogcmd.FeatureGates{},
		WithBuildHandlerOptions(func(h *intcommands.Handler[changelogcmd.BuildReleaseCommand]) {
			applied = true
		}),
	)
	if err != nil {
		t.Fatalf("register changelog commands: %v", err)
	}
	if !applied {
		t.Fatal("expected build handler options applied")
	}
}

func TestRegisterChangelogCommandsNilServicesError(t *testing.T) {
	if _, err := RegisterChangelogCommands(nil, nil, &stubChangelogService{}, nil, "", nil, changelogcmd.FeatureGates{}); err == nil {
		t.Fatal("expected error when fragment service nil")
	}
	if _, err := RegisterChangelogCommands(nil, &stubFragmentService{}, nil, nil, "", nil, changelogcmd.FeatureGates{}); err == nil {
		t.Fatal("expected error when changelog service nil")
	}
}

func TestRegisterChangelogCommandsSinkReceivesResult(t *testing.T) {
	var notes *interfaces.ReleaseNotes
	var rendered []byte

	set, err := RegisterChangelogCommands(nil, &stubFragmentService{}, &stubChangelogService{}, nil, "newsfragments", nil, changelogcmd.FeatureGates{},
		WithBuildResultSink(func(n *interfaces.ReleaseNotes, doc []byte) {
			notes = n
			rendered = doc
		}),
	)
	if err != nil {
		t.Fatalf("register changelog commands: %v", err)
	}

	msg := changelogcmd.BuildReleaseCommand{Version: "3.0.0", Directory: ".", DryRun: true}
	if err := set.Build.Execute(context.Background(), msg); err != nil {
		t.Fatalf("build execute: %v", err)
	}
	if notes == nil || notes.Version != "3.0.0" {
		t.Fatalf("expected notes via sink, got %+v", notes)
	}
	if string(rendered) != "rendered" {
		t.Fatalf("expected rendered document via sink, got %q", rendered)
	}
}

func TestRegisterBuildCronRegistersHandler(t *testing.T) {
	changelogSvc := &stubChangelogService{}
	set, err := RegisterChangelogCommands(nil, &stubFragmentService{}, changelogSvc, nil, "newsfragments", nil, changelogcmd.FeatureGates{})
	if err != nil {
		t.Fatalf("register changelog commands: %v", err)
	}

	recorder := &recordingCron{}
	cfg := command.HandlerConfig{Expression: "@weekly"}
	msg := changelogcmd.BuildReleaseCommand{Version: "3.0.0", Directory: ".", DryRun: true}

	if err := RegisterBuildCron(recorder.register, set.Build, cfg, msg); err != nil {
		t.Fatalf("register build cron: %v", err)
	}
	if len(recorder.registrations) != 1 {
		t.Fatalf("expected one cron registration, got %d", len(recorder.registrations))
	}

	reg := recorder.registrations[0]
	if reg.config.Expression != cfg.Expression {
		t.Fatalf("expected cron expression %q, got %q", cfg.Expression, reg.config.Expression)
	}
	if err := reg.handler(); err != nil {
		t.Fatalf("executing cron handler: %v", err)
	}
	if changelogSvc.buildCalls != 1 {
		t.Fatalf("expected one build call, got %d", changelogSvc.buildCalls)
	}
}

func TestRegisterBuildCronNoOpWhenHandlerNil(t *testing.T) {
	recorder := &recordingCron{}
	if err := RegisterBuildCron(recorder.register, nil, command.HandlerConfig{}, changelogcmd.BuildReleaseCommand{}); err != nil {
		t.Fatalf("expected nil error when handler nil, got %v", err)
	}
	if len(recorder.registrations) != 0 {
		t.Fatalf("expected no registrations when handler nil, got %d", len(recorder.registrations))
	}
}

type recordingRegistry struct {
	handlers []any
}

func (r *recordingRegistry) RegisterCommand(handler any) error {
	r.handlers = append(r.handlers, handler)
	return nil
}

type cronRegistration struct {
	config  command.HandlerConfig
	handler func() error
}

type recordingCron struct {
	registrations []cronRegistration
}

func (r *recordingCron) register(cfg command.HandlerConfig, handler any) error {
	var fn func() error
	if h, ok := handler.(func() error); ok {
		fn = h
	}
	r.registrations = append(r.registrations, cronRegistration{
		config:  cfg,
		handler: fn,
	})
	return nil
}

type stubFragmentService struct{}

func (s *stubFragmentService) Load(context.Context, string, interfaces.LoadOptions) (*interfaces.Fragment, error) {
	return nil, nil
}

func (s *stubFragmentService) LoadDirectory(context.Context, string, interfaces.LoadOptions) ([]*interfaces.Fragment, error) {
	return []*interfaces.Fragment{
		{
			Ref:  interfaces.Ref{Issue: 41390, Category: interfaces.CategorySignificant, Ext: "rst"},
			Body: []byte("Removed deprecated operator.\n"),
		},
	}, nil
}

func (s *stubFragmentService) Lint(context.Context, string, interfaces.LoadOptions) (*interfaces.LintReport, error) {
	return &interfaces.LintReport{}, nil
}

func (s *stubFragmentService) Create(context.Context, interfaces.CreateFragmentRequest) (*interfaces.Fragment, error) {
	return nil, nil
}

type stubChangelogService struct {
	buildCalls int
}

func (s *stubChangelogService) Build(ctx context.Context, fragments []*interfaces.Fragment, opts interfaces.BuildOptions) (*interfaces.ReleaseNotes, error) {
	s.buildCalls++
	return &interfaces.ReleaseNotes{Version: opts.Version}, nil
}

func (s *stubChangelogService) Render(context.Context, *interfaces.ReleaseNotes, interfaces.RenderOptions) ([]byte, error) {
	return []byte("rendered"), nil
}

func (s *stubChangelogService) Preview(context.Context, *interfaces.ReleaseNotes, interfaces.ParseOptions) ([]byte, error) {
	return []byte("<h2>preview</h2>"), nil
}
