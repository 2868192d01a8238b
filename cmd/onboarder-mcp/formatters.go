package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ternarybob/onboarder/internal/models"
)

const previewChars = 300

// formatFetchResult formats a repository listing as markdown
func formatFetchResult(result *models.FetchResult, includeContent bool) string {
	var sb strings.Builder
	repo := result.Repository
	sb.WriteString(fmt.Sprintf("## %s (branch: %s)\n\n", repo.FullName(), repo.Branch))
	sb.WriteString(fmt.Sprintf("**Markdown files:** %d\n", len(result.MarkdownFiles)))
	sb.WriteString(fmt.Sprintf("**Images:** %d\n\n", len(result.ImageFiles)))

	paths := make([]string, 0, len(result.MarkdownFiles))
	for p := range result.MarkdownFiles {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	if len(paths) > 0 {
		sb.WriteString("### Documentation\n")
	}
	for _, p := range paths {
		content := result.MarkdownFiles[p]
		sb.WriteString(fmt.Sprintf("- %s (%d chars)\n", p, len(content)))
		if includeContent {
			preview := []rune(content)
			if len(preview) > previewChars {
				preview = append(preview[:previewChars], []rune("...")...)
			}
			sb.WriteString("\n```markdown\n")
			sb.WriteString(string(preview))
			sb.WriteString("\n```\n\n")
		}
	}

	if len(result.ImageFiles) > 0 {
		sb.WriteString("\n### Images\n")
		for _, img := range result.ImageFiles {
			sb.WriteString(fmt.Sprintf("- %s\n", img))
		}
	}

	return sb.String()
}

// formatGenerateResult summarizes a generation run as markdown
func formatGenerateResult(session *models.Session, written []string) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("## Onboarding pack for %s\n\n", session.Repository.FullName()))
	sb.WriteString(fmt.Sprintf("**Sections:** %d\n", len(session.Summaries)))
	sb.WriteString(fmt.Sprintf("**Images:** %d\n", len(session.ImageFiles)))
	if session.PDFPages > 0 {
		sb.WriteString(fmt.Sprintf("**PDF pages:** %d\n", session.PDFPages))
	}
	if session.PDFError != "" {
		sb.WriteString(fmt.Sprintf("**PDF error:** %s\n", session.PDFError))
	}

	sb.WriteString("\n### Files\n")
	for _, p := range written {
		sb.WriteString(fmt.Sprintf("- %s\n", p))
	}
	return sb.String()
}
