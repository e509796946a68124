package changelogcmd

import (
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/goliatone/go-relnotes/pkg/interfaces"
)

const buildReleaseMessageType = "relnotes.changelog.build_release"

// BuildReleaseCommand assembles every fragment under Directory into release
// notes for Version, renders them, and optionally archives the consumed
// fragments so their bodies survive a later prune.
type BuildReleaseCommand struct {
	// Version labels the release the notes describe.
	Version string `json:"version"`
	// Directory selects the fragment corpus to consume, relative to the corpus root.
	Directory string `json:"directory"`
	// Format selects the output flavour; defaults to the service format when empty.
	Format interfaces.Format `json:"format,omitempty"`
	// Date overrides the release date stamped on the notes.
	Date time.Time `json:"date,omitempty"`
	// Output is the file path the rendered notes are written to; empty skips the write.
	Output string `json:"output,omitempty"`
	// DryRun renders without writing, archiving, or pruning.
	DryRun bool `json:"dry_run,omitempty"`
	// Archive stores the release and its fragments in the archive database.
	Archive bool `json:"archive,omitempty"`
	// Prune deletes consumed fragment files after a successful archive.
	Prune bool `json:"prune,omitempty"`
}

// Type implements command.Message.
func (BuildReleaseCommand) Type() string { return buildReleaseMessageType }

// Validate ensures the release identity and corpus input are present, and
// that pruning is never requested without archiving first.
func (cmd BuildReleaseCommand) Validate() error {
	err := validation.ValidateStruct(&cmd,
		validation.Field(&cmd.Version, validation.Required, validation.By(func(value any) error {
			if strings.TrimSpace(value.(string)) == "" {
				return validation.NewError("relnotes.changelog.build_release.version_required", "version is required")
			}
			return nil
		})),
		validation.Field(&cmd.Directory, validation.Required, validation.By(func(value any) error {
			if strings.TrimSpace(value.(string)) == "" {
				return validation.NewError("relnotes.changelog.build_release.directory_required", "directory is required")
			}
			return nil
		})),
		validation.Field(&cmd.Format, validation.By(func(value any) error {
			format, _ := value.(interfaces.Format)
			switch format {
			case "", interfaces.FormatRST, interfaces.FormatMarkdown:
				return nil
			}
			return validation.NewError("relnotes.changelog.build_release.format_unknown", "format is not recognised")
		})),
	)
	if err != nil {
		return err
	}
	if cmd.Prune && !cmd.Archive {
		return validation.NewError("relnotes.changelog.build_release.prune_requires_archive", "prune requires archive")
	}
	return nil
}
