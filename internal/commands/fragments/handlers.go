package fragmentscmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/goliatone/go-relnotes/internal/commands"
	"github.com/goliatone/go-relnotes/internal/logging"
	"github.com/goliatone/go-relnotes/pkg/interfaces"
	command "github.com/goliatone/go-command"
)

const (
	lintOperation   = "fragments.lint_directory"
	createOperation = "fragments.create_fragment"
)

var (
	// ErrFragmentsFeatureDisabled is returned when the fragments feature flag is disabled at runtime.
	ErrFragmentsFeatureDisabled = errors.New("fragments command: feature disabled")
)

var (
	_ command.Commander[LintDirectoryCommand]  = (*LintDirectoryHandler)(nil)
	_ command.Commander[CreateFragmentCommand] = (*CreateFragmentHandler)(nil)
)

// LintReportSink receives the report produced by a lint run so hosts can
// surface findings without re-running the walk.
type LintReportSink func(*interfaces.LintReport)

// LintDirectoryHandler runs corpus lints via the shared command handler foundation.
type LintDirectoryHandler struct {
	inner *commands.Handler[LintDirectoryCommand]
}

// NewLintDirectoryHandler creates a handler bound to the supplied fragment service.
func NewLintDirectoryHandler(service interfaces.FragmentService, logger interfaces.Logger, gates FeatureGates, sink LintReportSink, opts ...commands.HandlerOption[LintDirectoryCommand]) *LintDirectoryHandler {
	baseLogger := logger
	if baseLogger == nil {
		baseLogger = logging.NoOp()
	}

	exec := func(ctx context.Context, msg LintDirectoryCommand) error {
		if !gates.fragmentsEnabled() {
			return ErrFragmentsFeatureDisabled
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		report, err := service.Lint(ctx, msg.Directory, interfaces.LoadOptions{
			Pattern:   msg.Pattern,
			Recursive: msg.Recursive,
		})
		if err != nil {
			return err
		}
		if sink != nil {
			sink(report)
		}

		logging.WithFields(baseLogger, map[string]any{
			"checked":  report.Checked,
			"findings": len(report.Findings),
		}).Info("fragments.command.lint_directory.completed")

		if msg.Strict && !report.OK() {
			return fmt.Errorf("lint: %d finding(s) in %d file(s)", len(report.Findings), report.Checked)
		}
		return nil
	}

	handlerOpts := []commands.HandlerOption[LintDirectoryCommand]{
		commands.WithLogger[LintDirectoryCommand](baseLogger),
		commands.WithOperation[LintDirectoryCommand](lintOperation),
		commands.WithMessageFields(func(msg LintDirectoryCommand) map[string]any {
			fields := map[string]any{
				"directory": msg.Directory,
			}
			if msg.Pattern != "" {
				fields["pattern"] = msg.Pattern
			}
			if msg.Strict {
				fields["strict"] = true
			}
			return fields
		}),
		commands.WithTelemetry(commands.DefaultTelemetry[LintDirectoryCommand](baseLogger)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &LintDirectoryHandler{
		inner: commands.NewHandler(exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[LintDirectoryCommand].
func (h *LintDirectoryHandler) Execute(ctx context.Context, msg LintDirectoryCommand) error {
	return h.inner.Execute(ctx, msg)
}

// CreateFragmentHandler scaffolds fragment files via the shared command handler foundation.
type CreateFragmentHandler struct {
	inner *commands.Handler[CreateFragmentCommand]
}

// NewCreateFragmentHandler creates a handler bound to the supplied fragment service.
func NewCreateFragmentHandler(service interfaces.FragmentService, logger interfaces.Logger, gates FeatureGates, opts ...commands.HandlerOption[CreateFragmentCommand]) *CreateFragmentHandler {
	baseLogger := logger
	if baseLogger == nil {
		baseLogger = logging.NoOp()
	}

	exec := func(ctx context.Context, msg CreateFragmentCommand) error {
		if !gates.fragmentsEnabled() {
			return ErrFragmentsFeatureDisabled
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		fragment, err := service.Create(ctx, interfaces.CreateFragmentRequest{
			Issue:    msg.Issue,
			Category: msg.Category,
			Body:     msg.Body,
			Meta: interfaces.FragmentMeta{
				Author: msg.Author,
				PRs:    msg.PRs,
				Tags:   msg.Tags,
			},
		})
		if err != nil {
			return err
		}

		logging.WithFields(baseLogger, map[string]any{
			"path": fragment.Path,
			"key":  fragment.Ref.Key(),
		}).Info("fragments.command.create_fragment.completed")
		return nil
	}

	handlerOpts := []commands.HandlerOption[CreateFragmentCommand]{
		commands.WithLogger[CreateFragmentCommand](baseLogger),
		commands.WithOperation[CreateFragmentCommand](createOperation),
		commands.WithMessageFields(func(msg CreateFragmentCommand) map[string]any {
			return map[string]any{
				"issue":    msg.Issue,
				"category": string(msg.Category),
			}
		}),
		commands.WithTelemetry(commands.DefaultTelemetry[CreateFragmentCommand](baseLogger)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &CreateFragmentHandler{
		inner: commands.NewHandler(exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[CreateFragmentCommand].
func (h *CreateFragmentHandler) Execute(ctx context.Context, msg CreateFragmentCommand) error {
	return h.inner.Execute(ctx, msg)
}
