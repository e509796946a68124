package fragmentsadapter

import (
	"context"
	"errors"

	intcommands "github.com/goliatone/go-relnotes/internal/commands"
	fragmentscmd "github.com/goliatone/go-relnotes/internal/commands/fragments"
	"github.com/goliatone/go-relnotes/internal/logging"
	"github.com/goliatone/go-relnotes/pkg/interfaces"
	command "github.com/goliatone/go-command"
)

// CommandRegistry is the minimal registration contract expected when wiring command handlers.
type CommandRegistry interface {
	RegisterCommand(handler any) error
}

// CronRegistrar matches the function signature used by go-command registries.
type CronRegistrar func(command.HandlerConfig, any) error

// HandlerSet groups the fragment command handlers produced by RegisterFragmentCommands.
type HandlerSet struct {
	Lint   *fragmentscmd.LintDirectoryHandler
	Create *fragmentscmd.CreateFragmentHandler
}

// Option customises handler wiring during registration.
type Option func(*options)

type options struct {
	lintHandlerOpts   []intcommands.HandlerOption[fragmentscmd.LintDirectoryCommand]
	createHandlerOpts []intcommands.HandlerOption[fragmentscmd.CreateFragmentCommand]
	lintSink          fragmentscmd.LintReportSink
}

// WithLintHandlerOptions forwards options to the LintDirectoryHandler constructor.
func WithLintHandlerOptions(opts ...intcommands.HandlerOption[fragmentscmd.LintDirectoryCommand]) Option {
	return func(cfg *options) {
		cfg.lintHandlerOpts = append(cfg.lintHandlerOpts, opts...)
	}
}

// WithCreateHandlerOptions forwards options to the CreateFragmentHandler constructor.
func WithCreateHandlerOptions(opts ...intcommands.HandlerOption[fragmentscmd.CreateFragmentCommand]) Option {
	return func(cfg *options) {
		cfg.createHandlerOpts = append(cfg.createHandlerOpts, opts...)
	}
}

// WithLintReportSink routes lint reports back to the host after each run.
func WithLintReportSink(sink fragmentscmd.LintReportSink) Option {
	return func(cfg *options) {
		cfg.lintSink = sink
	}
}

// RegisterFragmentCommands builds fragment command handlers and registers them with the
// provided registry. A HandlerSet containing the constructed handlers is returned so callers
// can wire additional integrations (dispatcher, cron) as needed.
func RegisterFragmentCommands(reg CommandRegistry, service interfaces.FragmentService, provider interfaces.LoggerProvider, gates fragmentscmd.FeatureGates, opts ...Option) (*HandlerSet, error) {
	if service == nil {
		return nil, errors.New("fragment command registration: service is nil")
	}

	cfg := options{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	logger := logging.ModuleLogger(provider, "relnotes.commands.fragments")
	logger = logging.WithFields(logger, map[string]any{
		"component":      "command",
		"command_module": "fragments",
	})

	lintHandler := fragmentscmd.NewLintDirectoryHandler(service, logger, gates, cfg.lintSink, cfg.lintHandlerOpts...)
	createHandler := fragmentscmd.NewCreateFragmentHandler(service, logger, gates, cfg.createHandlerOpts...)

	if reg != nil {
		if err := reg.RegisterCommand(lintHandler); err != nil {
			return nil, err
		}
		if err := reg.RegisterCommand(createHandler); err != nil {
			return nil, err
		}
	}

	return &HandlerSet{
		Lint:   lintHandler,
		Create: createHandler,
	}, nil
}

// RegisterLintCron wires the provided lint handler into a cron registrar using the supplied
// command configuration and message payload. The handler is executed with a background context.
func RegisterLintCron(reg CronRegistrar, handler *fragmentscmd.LintDirectoryHandler, cfg command.HandlerConfig, msg fragmentscmd.LintDirectoryCommand) error {
	if reg == nil || handler == nil {
		return nil
	}
	return reg(cfg, func() error {
		return handler.Execute(context.Background(), msg)
	})
}
