package pdf

import (
	"context"
	"strings"
	"testing"

	"github.com/go-pdf/fpdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
)

func TestConvertMarkdownToPDF(t *testing.T) {
	renderer := NewBasicRenderer(arbor.NewLogger())

	tests := []struct {
		name     string
		markdown string
		title    string
	}{
		{
			name:     "Basic Markdown",
			markdown: "# Title\n\nSome paragraph text.\n\n- Item 1\n- Item 2",
			title:    "Test Document",
		},
		{
			name:     "Empty Markdown",
			markdown: "",
			title:    "Empty Doc",
		},
		{
			name: "Code, table and links",
			markdown: `# Header 1

Some text with a [link](https://github.com/acme/widgets).

| Col 1 | Col 2 |
|-------|-------|
| Val 1 | Val 2 |

` + "```go\nfunc main() {}\n```",
			title: "Complex Doc",
		},
		{
			name:     "Ordered and nested lists with a quote",
			markdown: "3. three\n4. four\n   - nested\n\n> quoted text\n\n---\n\n<https://example.com>",
			title:    "Lists",
		},
		{
			name:     "Non-latin punctuation",
			markdown: "Quotes “like this” and an em dash — here.",
			title:    "Unicode",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pdfBytes, err := renderer.ConvertMarkdownToPDF(tt.markdown, tt.title)
			require.NoError(t, err)
			require.NotEmpty(t, pdfBytes)
			assert.Equal(t, "%PDF", string(pdfBytes[:4]))
		})
	}
}

func TestBasicRenderer_RenderPDF(t *testing.T) {
	renderer := NewBasicRenderer(arbor.NewLogger())
	html := `<html><body><h1>Onboarding Guide: widgets</h1>
<p>Prepared by <strong>Riddhi Shah</strong></p>
<ul><li>README.md</li><li>docs/guide.md</li></ul>
<img src="https://raw.githubusercontent.com/acme/widgets/main/img/logo.png" alt="logo.png">
</body></html>`

	data, err := renderer.RenderPDF(context.Background(), html, "widgets_onboarding.pdf")
	require.NoError(t, err)
	assert.True(t, IsPDF(data))
	assert.Equal(t, ModeBasic, renderer.Mode())

	pages, err := PageCount(data)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, pages, 1)
}

func TestBasicRenderer_CancelledContext(t *testing.T) {
	renderer := NewBasicRenderer(arbor.NewLogger())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := renderer.RenderPDF(ctx, "<p>hi</p>", "x.pdf")
	require.Error(t, err)
}

func TestWrapWords(t *testing.T) {
	doc := fpdf.New("P", "mm", "A4", "")
	doc.AddPage()
	r := newPDFRenderer(doc, nil, func(s string) string { return s }, arbor.NewLogger())
	doc.SetFont("Arial", "", tableFontSize)

	assert.Equal(t, []string{""}, r.wrapWords("   ", 50))
	assert.Equal(t, []string{"alpha beta"}, r.wrapWords("alpha  beta", 100))

	lines := r.wrapWords("alpha beta gamma delta epsilon", doc.GetStringWidth("gamma delta")+0.1)
	assert.Equal(t, []string{"alpha beta", "gamma delta", "epsilon"}, lines)
}

func TestColumnWidthsFitContent(t *testing.T) {
	doc := fpdf.New("P", "mm", "A4", "")
	doc.AddPage()
	r := newPDFRenderer(doc, nil, func(s string) string { return s }, arbor.NewLogger())

	rows := [][]string{
		{"Name", "Description", "Notes", "Owner", "Status"},
		{"a", strings.Repeat("long ", 80), strings.Repeat("x", 60), "b", "ok"},
	}
	widths := r.columnWidths(rows, 5)

	total := 0.0
	for _, w := range widths {
		assert.GreaterOrEqual(t, w, tableMinCol*0.8)
		total += w
	}
	assert.LessOrEqual(t, total, defaultPageStyle.contentWidth+0.01)
}
