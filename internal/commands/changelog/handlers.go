package changelogcmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/goliatone/go-relnotes/internal/commands"
	"github.com/goliatone/go-relnotes/internal/logging"
	"github.com/goliatone/go-relnotes/pkg/interfaces"
	command "github.com/goliatone/go-command"
)

const buildOperation = "changelog.build_release"

var (
	// ErrChangelogFeatureDisabled is returned when the changelog feature flag is disabled at runtime.
	ErrChangelogFeatureDisabled = errors.New("changelog command: feature disabled")
	// ErrArchiveUnavailable is returned when archiving was requested but no archive service is wired.
	ErrArchiveUnavailable = errors.New("changelog command: archive service unavailable")
)

var _ command.Commander[BuildReleaseCommand] = (*BuildReleaseHandler)(nil)

// BuildResultSink receives the built notes and rendered document so hosts can
// surface them without re-running the build.
type BuildResultSink func(*interfaces.ReleaseNotes, []byte)

// BuildReleaseHandler orchestrates the full build pipeline: load, assemble,
// render, write, archive, prune.
type BuildReleaseHandler struct {
	inner *commands.Handler[BuildReleaseCommand]
}

// NewBuildReleaseHandler creates a handler bound to the supplied services. The
// archive service may be nil when archiving is not configured. corpusPath is
// the fragment corpus root; fragment paths are resolved against it when
// pruning.
func NewBuildReleaseHandler(
	fragments interfaces.FragmentService,
	changelog interfaces.ChangelogService,
	archive interfaces.ArchiveService,
	corpusPath string,
	logger interfaces.Logger,
	gates FeatureGates,
	sink BuildResultSink,
	opts ...commands.HandlerOption[BuildReleaseCommand],
) *BuildReleaseHandler {
	baseLogger := logger
	if baseLogger == nil {
		baseLogger = logging.NoOp()
	}

	exec := func(ctx context.Context, msg BuildReleaseCommand) error {
		if !gates.changelogEnabled() {
			return ErrChangelogFeatureDisabled
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		loaded, err := fragments.LoadDirectory(ctx, msg.Directory, interfaces.LoadOptions{})
		if err != nil {
			return err
		}

		notes, err := changelog.Build(ctx, loaded, interfaces.BuildOptions{
			Version: msg.Version,
			Date:    msg.Date,
		})
		if err != nil {
			return err
		}

		rendered, err := changelog.Render(ctx, notes, interfaces.RenderOptions{Format: msg.Format})
		if err != nil {
			return err
		}

		if sink != nil {
			sink(notes, rendered)
		}

		buildLogger := logging.WithFields(baseLogger, map[string]any{
			"version":   notes.Version,
			"fragments": len(loaded),
			"sections":  len(notes.Sections),
			"dry_run":   msg.DryRun,
		})

		if msg.DryRun {
			buildLogger.Info("changelog.command.build_release.dry_run")
			return nil
		}

		if msg.Output != "" {
			if err := os.WriteFile(msg.Output, rendered, 0o644); err != nil {
				return fmt.Errorf("write notes to %s: %w", msg.Output, err)
			}
		}

		if msg.Archive {
			if archive == nil || !gates.archiveEnabled() {
				return ErrArchiveUnavailable
			}
			if _, err := archive.ArchiveRelease(ctx, notes, loaded); err != nil {
				return err
			}
			if msg.Prune {
				if err := pruneFragments(corpusPath, loaded); err != nil {
					return err
				}
			}
		}

		buildLogger.Info("changelog.command.build_release.completed")
		return nil
	}

	handlerOpts := []commands.HandlerOption[BuildReleaseCommand]{
		commands.WithLogger[BuildReleaseCommand](baseLogger),
		commands.WithOperation[BuildReleaseCommand](buildOperation),
		commands.WithMessageFields(func(msg BuildReleaseCommand) map[string]any {
			fields := map[string]any{
				"version":   msg.Version,
				"directory": msg.Directory,
			}
			if msg.Format != "" {
				fields["format"] = string(msg.Format)
			}
			if msg.Archive {
				fields["archive"] = true
			}
			if msg.Prune {
				fields["prune"] = true
			}
			return fields
		}),
		commands.WithTelemetry(commands.DefaultTelemetry[BuildReleaseCommand](baseLogger)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &BuildReleaseHandler{
		inner: commands.NewHandler(exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[BuildReleaseCommand].
func (h *BuildReleaseHandler) Execute(ctx context.Context, msg BuildReleaseCommand) error {
	return h.inner.Execute(ctx, msg)
}

// pruneFragments removes consumed fragment files from the corpus. Callers
// must have archived the fragments first; prune never runs on a dry run.
// Fragment paths are corpus relative.
func pruneFragments(corpusPath string, fragments []*interfaces.Fragment) error {
	for _, fragment := range fragments {
		if fragment == nil || fragment.Path == "" {
			continue
		}
		target := fragment.Path
		if !filepath.IsAbs(target) {
			target = filepath.Join(corpusPath, target)
		}
		if err := os.Remove(target); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("prune fragment %s: %w", filepath.Base(target), err)
		}
	}
	return nil
}
