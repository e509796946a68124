package changelogadapter

import (
	"context"
	"errors"

	intcommands "github.com/goliatone/go-relnotes/internal/commands"
	changelogcmd "github.com/goliatone/go-relnotes/internal/commands/changelog"
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

// HandlerSet groups the changelog command handlers produced by RegisterChangelogCommands.
type HandlerSet struct {
	Build *changelogcmd.BuildReleaseHandler
}

// Option customises handler wiring during registration.
type Option func(*options)

type options struct {
	buildHandlerOpts []intcommands.HandlerOption[changelogcmd.BuildReleaseCommand]
	buildSink        changelogcmd.BuildResultSink
}

// WithBuildHandlerOptions forwards options to the BuildReleaseHandler constructor.
func WithBuildHandlerOptions(opts ...intcommands.HandlerOption[changelogcmd.BuildReleaseCommand]) Option {
	return func(cfg *options) {
		cfg.buildHandlerOpts = append(cfg.buildHandlerOpts, opts...)
	}
}

// WithBuildResultSink routes built notes and rendered output back to the host.
func WithBuildResultSink(sink changelogcmd.BuildResultSink) Option {
	return func(cfg *options) {
		cfg.buildSink = sink
	}
}

// RegisterChangelogCommands builds the release-notes command handlers and registers them with
// the provided registry. The archive service may be nil when archiving is not configured.
func RegisterChangelogCommands(
	reg CommandRegistry,
	fragments interfaces.FragmentService,
	changelog interfaces.ChangelogService,
	archive interfaces.ArchiveService,
	corpusPath string,
	provider interfaces.LoggerProvider,
	gates changelogcmd.FeatureGates,
	opts ...Option,
) (*HandlerSet, error) {
	if fragments == nil {
		return nil, errors.New("changelog command registration: fragment service is nil")
	}
	if changelog == nil {
		return nil, errors.New("changelog command registration: changelog service is nil")
	}

	cfg := options{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	logger := logging.ModuleLogger(provider, "relnotes.commands.changelog")
	logger = logging.WithFields(logger, map[string]any{
		"component":      "command",
		"command_module": "changelog",
	})

	buildHandler := changelogcmd.NewBuildReleaseHandler(fragments, changelog, archive, corpusPath, logger, gates, cfg.buildSink, cfg.buildHandlerOpts...)

	if reg != nil {
		if err := reg.RegisterCommand(buildHandler); err != nil {
			return nil, err
		}
	}

	return &HandlerSet{Build: buildHandler}, nil
}

// RegisterBuildCron wires the provided build handler into a cron registrar using the supplied
// command configuration and message payload. The handler is executed with a background context.
func RegisterBuildCron(reg CronRegistrar, handler *changelogcmd.BuildReleaseHandler, cfg command.HandlerConfig, msg changelogcmd.BuildReleaseCommand) error {
	if reg == nil || handler == nil {
		return nil
	}
	return reg(cfg, func() error {
		return handler.Execute(context.Background(), msg)
	})
}
