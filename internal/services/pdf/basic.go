package pdf

import (
	"bytes"
	"context"
	"fmt"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/go-pdf/fpdf"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/onboarder/internal/interfaces"
	"github.com/ternarybob/onboarder/internal/models"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

// BasicRenderer produces a text-only PDF in-process. The HTML pack is
// converted back to markdown and laid out with fpdf, so styling and
// images are not preserved.
type BasicRenderer struct {
	logger arbor.ILogger
}

var _ interfaces.PDFRenderer = (*BasicRenderer)(nil)

// NewBasicRenderer creates an in-process renderer
func NewBasicRenderer(logger arbor.ILogger) *BasicRenderer {
	return &BasicRenderer{logger: logger}
}

// Mode implements interfaces.PDFRenderer
func (b *BasicRenderer) Mode() string {
	return ModeBasic
}

// RenderPDF implements interfaces.PDFRenderer
func (b *BasicRenderer) RenderPDF(ctx context.Context, html, fileName string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, &models.RenderError{Kind: models.RenderErrorFailed, Err: err}
	}

	converter := md.NewConverter("", true, nil)
	markdown, err := converter.ConvertString(html)
	if err != nil {
		return nil, &models.RenderError{Kind: models.RenderErrorFailed, Err: fmt.Errorf("failed to convert HTML to markdown: %w", err)}
	}

	data, err := b.ConvertMarkdownToPDF(markdown, fileName)
	if err != nil {
		return nil, &models.RenderError{Kind: models.RenderErrorFailed, Err: err}
	}
	return data, nil
}

// ConvertMarkdownToPDF lays out markdown content as an A4 PDF
func (b *BasicRenderer) ConvertMarkdownToPDF(markdown, title string) ([]byte, error) {
	b.logger.Debug().
		Int("markdown_len", len(markdown)).
		Str("title", title).
		Msg("Converting markdown to PDF")

	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetTitle(title, true)
	doc.SetMargins(defaultPageStyle.marginLeft, 15, defaultPageStyle.marginLeft)
	doc.SetAutoPageBreak(true, 15)
	doc.AddPage()

	gm := goldmark.New(
		goldmark.WithExtensions(extension.Table, extension.Strikethrough, extension.Linkify),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
	)

	source := []byte(markdown)
	root := gm.Parser().Parse(text.NewReader(source))

	renderer := newPDFRenderer(doc, source, doc.UnicodeTranslatorFromDescriptor(""), b.logger)

	if err := renderer.render(root); err != nil {
		b.logger.Error().Err(err).Msg("Failed to generate PDF")
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		b.logger.Error().Err(err).Msg("Failed to write PDF output")
		return nil, fmt.Errorf("failed to write PDF output: %w", err)
	}

	b.logger.Debug().Int("pdf_size", buf.Len()).Msg("PDF generated")
	return buf.Bytes(), nil
}
