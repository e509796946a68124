// Package fragments implements discovery, parsing and linting of release-note
// fragment files. A fragment is a single-purpose text file named
// <issue>.<category>.<ext> whose body documents one user-facing change; the
// changelog builder consumes fragments exactly once per release.
package fragments
