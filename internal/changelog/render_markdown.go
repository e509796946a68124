package changelog

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-relnotes/pkg/interfaces"
)

// renderMarkdown writes the notes as a Markdown document mirroring the RST
// layout: release heading, category sections, verbatim bodies.
func renderMarkdown(notes *interfaces.ReleaseNotes) []byte {
	var b strings.Builder

	b.WriteString("## ")
	b.WriteString(releaseTitle(notes))
	b.WriteString("\n")

	for _, section := range notes.Sections {
		b.WriteString("\n### ")
		b.WriteString(section.Heading)
		b.WriteString("\n")

		for _, entry := range section.Entries {
			b.WriteString("\n")
			b.WriteString(entry.Body)
			b.WriteString("\n")
			if refs := markdownReferences(entry); refs != "" {
				b.WriteString("\n")
				b.WriteString(refs)
				b.WriteString("\n")
			}
		}
	}

	return []byte(b.String())
}

func markdownReferences(entry interfaces.ReleaseEntry) string {
	parts := []string{}
	if entry.IssueURL != "" {
		parts = append(parts, fmt.Sprintf("[#%d](%s)", entry.Issue, entry.IssueURL))
	}
	for _, pr := range entry.PRURLs {
		parts = append(parts, fmt.Sprintf("[%s](%s)", prLabel(pr), pr))
	}
	if len(parts) == 0 {
		return ""
	}
	return strings.Join(parts, ", ")
}
