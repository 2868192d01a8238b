package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/ternarybob/onboarder/internal/models"
)

func TestFormatFetchResult(t *testing.T) {
	result := &models.FetchResult{
		Repository: models.RepositoryRef{Owner: "acme", Name: "widgets", Branch: "main"},
		MarkdownFiles: map[string]string{
			"docs/guide.md": "# Guide",
			"README.md":     strings.Repeat("a", 400),
		},
		ImageFiles: []string{"img/logo.png"},
	}

	out := formatFetchResult(result, false)
	assert.Contains(t, out, "## acme/widgets (branch: main)")
	assert.Contains(t, out, "**Markdown files:** 2")
	assert.Contains(t, out, "- img/logo.png")
	assert.Less(t, strings.Index(out, "README.md"), strings.Index(out, "docs/guide.md"))
	assert.NotContains(t, out, "```markdown")

	withContent := formatFetchResult(result, true)
	assert.Contains(t, withContent, strings.Repeat("a", previewChars)+"...")
	assert.NotContains(t, withContent, strings.Repeat("a", previewChars+1))
}

func TestFormatGenerateResult(t *testing.T) {
	session := &models.Session{
		Repository: &models.RepositoryRef{Owner: "acme", Name: "widgets", Branch: "main"},
		Summaries:  map[string]string{"README.md": "x"},
		ImageFiles: []string{"img/logo.png"},
		PDFError:   "Cannot connect to the PDF service. Make sure it is running.",
	}

	out := formatGenerateResult(session, []string{"output/widgets_onboarding.html"})
	assert.Contains(t, out, "**Sections:** 1")
	assert.Contains(t, out, "**PDF error:** Cannot connect")
	assert.Contains(t, out, "- output/widgets_onboarding.html")
}

func TestWriteOutputs(t *testing.T) {
	dir := t.TempDir()
	session := &models.Session{
		Repository:   &models.RepositoryRef{Owner: "acme", Name: "widgets", Branch: "main"},
		HTML:         "<html></html>",
		HTMLFileName: "widgets_onboarding.html",
		PDF:          []byte("%PDF-1.4"),
		PDFFileName:  "widgets_onboarding.pdf",
	}

	written, err := writeOutputs(session, dir)
	assert.NoError(t, err)
	assert.Len(t, written, 2)
	assert.True(t, strings.HasSuffix(written[0], "widgets_onboarding.html"))
	assert.True(t, strings.HasSuffix(written[1], "widgets_onboarding.pdf"))
}
