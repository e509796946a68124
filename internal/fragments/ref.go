package fragments

import (
	"errors"
	"fmt"
	"path"
	"strconv"
	"strings"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-relnotes/pkg/interfaces"
)

const (
	// CodeNameInvalid flags filenames that do not match <issue>.<category>.<ext>.
	CodeNameInvalid = "FRAGMENT_NAME_INVALID"
	// CodeCategoryUnknown flags filenames whose category token is not recognised.
	CodeCategoryUnknown = "FRAGMENT_CATEGORY_UNKNOWN"
	// CodeBodyEmpty flags fragments whose body is empty or whitespace only.
	CodeBodyEmpty = "FRAGMENT_BODY_EMPTY"
	// CodeDuplicate flags corpora containing two fragments for the same issue and category.
	CodeDuplicate = "FRAGMENT_DUPLICATE"
	// CodeExtUnsupported flags fragments whose extension does not match the corpus convention.
	CodeExtUnsupported = "FRAGMENT_EXT_UNSUPPORTED"
	// CodeMetaInvalid flags frontmatter that fails the metadata schema.
	CodeMetaInvalid = "FRAGMENT_META_INVALID"
)

// DefaultExt is the extension used when creating fragments.
const DefaultExt = "rst"

// ParseRef parses a fragment filename of the form <issue>.<category>.<ext>.
// The path may include directories; only the base name is inspected. Errors
// carry the validation category plus a machine-readable text code.
func ParseRef(name string) (interfaces.Ref, error) {
	base := path.Base(strings.TrimSpace(strings.ReplaceAll(name, "\\", "/")))
	if base == "." || base == "/" || base == "" {
		return interfaces.Ref{}, nameInvalid(base, "empty filename")
	}

	parts := strings.Split(base, ".")
	if len(parts) != 3 {
		return interfaces.Ref{}, nameInvalid(base, "expected <issue>.<category>.<ext>")
	}

	issue, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil || issue <= 0 {
		return interfaces.Ref{}, nameInvalid(base, "issue identifier must be a positive integer")
	}

	category := interfaces.Category(strings.ToLower(parts[1]))
	if !category.Valid() {
		return interfaces.Ref{}, categoryUnknown(base, parts[1])
	}

	ext := strings.ToLower(parts[2])
	if ext == "" {
		return interfaces.Ref{}, nameInvalid(base, "missing extension")
	}

	return interfaces.Ref{
		Issue:    issue,
		Category: category,
		Ext:      ext,
	}, nil
}

func nameInvalid(name, reason string) error {
	err := errors.New(reason)
	return goerrors.Wrap(err, goerrors.CategoryValidation,
		fmt.Sprintf("fragment name %q is invalid", name)).
		WithTextCode(CodeNameInvalid)
}

func categoryUnknown(name, category string) error {
	err := fmt.Errorf("category %q is not recognised", category)
	return goerrors.Wrap(err, goerrors.CategoryValidation,
		fmt.Sprintf("fragment name %q uses an unknown category", name)).
		WithTextCode(CodeCategoryUnknown)
}
