package changelog

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/goliatone/go-relnotes/pkg/interfaces"
)

// renderRST writes the notes as a reStructuredText document. Entry bodies are
// emitted byte-for-byte; only headings and link references are synthesised.
func renderRST(notes *interfaces.ReleaseNotes) []byte {
	var b strings.Builder

	title := releaseTitle(notes)
	b.WriteString(title)
	b.WriteString("\n")
	b.WriteString(underline(title, '='))
	b.WriteString("\n")

	for _, section := range notes.Sections {
		b.WriteString("\n")
		b.WriteString(section.Heading)
		b.WriteString("\n")
		b.WriteString(underline(section.Heading, '-'))
		b.WriteString("\n")

		for _, entry := range section.Entries {
			b.WriteString("\n")
			b.WriteString(entry.Body)
			b.WriteString("\n")
			if refs := rstReferences(entry); refs != "" {
				b.WriteString("\n")
				b.WriteString(refs)
				b.WriteString("\n")
			}
		}
	}

	return []byte(b.String())
}

func rstReferences(entry interfaces.ReleaseEntry) string {
	parts := []string{}
	if entry.IssueURL != "" {
		parts = append(parts, fmt.Sprintf("`#%d <%s>`__", entry.Issue, entry.IssueURL))
	}
	for _, pr := range entry.PRURLs {
		parts = append(parts, fmt.Sprintf("`%s <%s>`__", prLabel(pr), pr))
	}
	if len(parts) == 0 {
		return ""
	}
	return strings.Join(parts, ", ")
}

func releaseTitle(notes *interfaces.ReleaseNotes) string {
	if notes.Date.IsZero() {
		return notes.Version
	}
	return fmt.Sprintf("%s (%s)", notes.Version, notes.Date.Format("2006-01-02"))
}

func underline(text string, char byte) string {
	return strings.Repeat(string(char), utf8.RuneCountInString(text))
}

// prLabel derives a short label from a PR URL so references stay readable
// when only the URL is known.
func prLabel(url string) string {
	trimmed := strings.TrimRight(url, "/")
	if idx := strings.LastIndex(trimmed, "/"); idx >= 0 && idx+1 < len(trimmed) {
		return "PR #" + trimmed[idx+1:]
	}
	return trimmed
}
