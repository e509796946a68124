package fragmentscmd

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/goliatone/go-relnotes/pkg/interfaces"
)

const (
	lintDirectoryMessageType  = "relnotes.fragments.lint_directory"
	createFragmentMessageType = "relnotes.fragments.create_fragment"
)

// LintDirectoryCommand validates every fragment file under the provided
// Directory. The command mirrors fragments.Service Lint semantics: all
// findings are collected in a single pass rather than aborting on the first
// malformed file.
type LintDirectoryCommand struct {
	// Directory selects the fragment corpus to lint, relative or absolute.
	Directory string `json:"directory"`
	// Pattern optionally narrows the walk to matching file names.
	Pattern string `json:"pattern,omitempty"`
	// Recursive toggles descent into subdirectories; nil keeps the service default.
	Recursive *bool `json:"recursive,omitempty"`
	// Strict treats any finding as a command failure when true.
	Strict bool `json:"strict,omitempty"`
}

// Type implements command.Message.
func (LintDirectoryCommand) Type() string { return lintDirectoryMessageType }

// Validate ensures directory input is present before handlers execute.
func (cmd LintDirectoryCommand) Validate() error {
	err := validation.ValidateStruct(&cmd,
		validation.Field(&cmd.Directory, validation.Required, validation.By(func(value any) error {
			if strings.TrimSpace(value.(string)) == "" {
				return validation.NewError("relnotes.fragments.lint_directory.directory_required", "directory is required")
			}
			return nil
		})),
	)
	if err != nil {
		return err
	}
	return nil
}

// CreateFragmentCommand scaffolds a new fragment file named
// {issue}.{category}.rst inside the service's corpus directory.
type CreateFragmentCommand struct {
	// Issue is the tracker reference encoded in the file name.
	Issue int64 `json:"issue"`
	// Category selects the release-notes section the fragment belongs to.
	Category interfaces.Category `json:"category"`
	// Body holds the note text written below the optional front matter.
	Body string `json:"body"`
	// Author is recorded in the fragment front matter when set.
	Author string `json:"author,omitempty"`
	// PRs lists related pull request numbers recorded in the front matter.
	PRs []int64 `json:"prs,omitempty"`
	// Tags are free-form labels recorded in the front matter.
	Tags []string `json:"tags,omitempty"`
}

// Type implements command.Message.
func (CreateFragmentCommand) Type() string { return createFragmentMessageType }

// Validate ensures the fragment reference and body are well formed before
// handlers touch the filesystem.
func (cmd CreateFragmentCommand) Validate() error {
	err := validation.ValidateStruct(&cmd,
		validation.Field(&cmd.Issue, validation.Required, validation.Min(int64(1))),
		validation.Field(&cmd.Category, validation.Required, validation.By(func(value any) error {
			category, _ := value.(interfaces.Category)
			if !category.Valid() {
				return validation.NewError("relnotes.fragments.create_fragment.category_unknown", "category is not recognised")
			}
			return nil
		})),
		validation.Field(&cmd.Body, validation.Required, validation.By(func(value any) error {
			if strings.TrimSpace(value.(string)) == "" {
				return validation.NewError("relnotes.fragments.create_fragment.body_required", "body is required")
			}
			return nil
		})),
	)
	if err != nil {
		return err
	}
	return nil
}
