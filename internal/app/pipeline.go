package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/onboarder/internal/interfaces"
	"github.com/ternarybob/onboarder/internal/models"
)

// Pipeline runs the onboarding steps against a session. Every step records
// its failure in the session's error slot and also returns it.
type Pipeline struct {
	fetcher    interfaces.RepositoryFetcher
	generator  interfaces.TextGenerator
	summarizer interfaces.SummaryService
	renderer   interfaces.DocumentRenderer
	pdf        interfaces.PDFService
	logger     arbor.ILogger
}

// NewPipeline wires the step services. pdf may be nil when PDF output is disabled.
func NewPipeline(
	fetcher interfaces.RepositoryFetcher,
	generator interfaces.TextGenerator,
	summarizer interfaces.SummaryService,
	renderer interfaces.DocumentRenderer,
	pdf interfaces.PDFService,
	logger arbor.ILogger,
) *Pipeline {
	return &Pipeline{
		fetcher:    fetcher,
		generator:  generator,
		summarizer: summarizer,
		renderer:   renderer,
		pdf:        pdf,
		logger:     logger,
	}
}

// LLMReady reports whether the provider serving the summary model has credentials
func (p *Pipeline) LLMReady() bool {
	return p.generator != nil && p.generator.AvailableFor(p.summarizer.Model())
}

// PDFMode returns the PDF backend name, or "disabled"
func (p *Pipeline) PDFMode() string {
	if p.pdf == nil {
		return "disabled"
	}
	return p.pdf.Mode()
}

// Fetch downloads the repository documentation into the session
func (p *Pipeline) Fetch(ctx context.Context, s *models.Session) error {
	if s.RepoURL == "" {
		s.FetchError = "Please enter a GitHub repository URL."
		return fmt.Errorf("%w: repository url", models.ErrMissingInput)
	}

	result, err := p.fetcher.Fetch(ctx, s.RepoURL)
	if err != nil {
		s.ClearFetched()
		s.FetchError = fetchMessage(err)
		p.logger.Warn().Str("session_id", s.ID).Str("repo_url", s.RepoURL).Err(err).Msg("Fetch failed")
		return err
	}

	s.ResetFetch()
	repo := result.Repository
	s.Repository = &repo
	s.MarkdownFiles = result.MarkdownFiles
	s.ImageFiles = result.ImageFiles
	s.FetchError = ""

	p.logger.Info().
		Str("session_id", s.ID).
		Str("repo", repo.FullName()).
		Int("markdown_files", len(s.MarkdownFiles)).
		Int("image_files", len(s.ImageFiles)).
		Msg("Documentation fetched")
	return nil
}

// Summarize generates one summary per fetched markdown file
func (p *Pipeline) Summarize(ctx context.Context, s *models.Session) error {
	if !s.HasFetched() {
		s.SummaryError = "Fetch the repository documentation first."
		if s.Repository != nil {
			s.SummaryError = "No markdown files were found in the repository."
		}
		return fmt.Errorf("%w: no markdown files fetched", models.ErrPreconditionFailed)
	}
	if !p.LLMReady() {
		s.SummaryError = "No text generation API key is configured."
		return models.ErrLLMNotConfigured
	}

	start := time.Now()
	summaries := p.summarizer.Summarize(ctx, s.MarkdownFiles, s.ImageFiles)
	if err := ctx.Err(); err != nil {
		s.SummaryError = "Summarization was cancelled."
		return err
	}

	s.ResetSummaries()
	s.Summaries = summaries

	p.logger.Info().
		Str("session_id", s.ID).
		Int("summaries", len(summaries)).
		Dur("duration", time.Since(start)).
		Msg("Summaries generated")
	return nil
}

// Generate renders the HTML pack and, when withPDF is set and a PDF backend
// is configured, the PDF. A PDF failure keeps the HTML.
func (p *Pipeline) Generate(ctx context.Context, s *models.Session, withPDF bool) error {
	if !s.HasSummaries() {
		s.HTMLError = "Generate summaries first."
		return fmt.Errorf("%w: no summaries", models.ErrPreconditionFailed)
	}

	s.ResetOutputs()

	doc, err := p.renderer.Render(interfaces.RenderInput{
		Summaries: s.Summaries,
		Meta: models.DocumentMeta{
			Repository: *s.Repository,
			Author:     s.Author,
			Company:    s.Company,
		},
		MarkdownFiles: s.MarkdownFiles,
		ImageFiles:    s.ImageFiles,
	})
	if err != nil {
		s.HTMLError = fmt.Sprintf("Error generating document: %v", err)
		return err
	}
	s.HTML = doc.HTML
	s.HTMLFileName = doc.FileName

	if !withPDF || p.pdf == nil {
		return nil
	}

	pdfDoc, err := p.pdf.Generate(ctx, doc.HTML, models.PDFFileName(s.Repository.Name))
	if err != nil {
		var renderErr *models.RenderError
		if errors.As(err, &renderErr) {
			s.PDFError = renderErr.UserMessage()
		} else {
			s.PDFError = fmt.Sprintf("Error generating PDF: %v", err)
		}
		p.logger.Warn().Str("session_id", s.ID).Err(err).Msg("PDF generation failed, HTML kept")
		return err
	}

	s.PDF = pdfDoc.Data
	s.PDFFileName = pdfDoc.FileName
	s.PDFPages = pdfDoc.Pages
	return nil
}

// Run executes fetch, summarize and generate, stopping at the first failure
func (p *Pipeline) Run(ctx context.Context, s *models.Session, withPDF bool) error {
	if err := p.Fetch(ctx, s); err != nil {
		return err
	}
	if err := p.Summarize(ctx, s); err != nil {
		return err
	}
	return p.Generate(ctx, s, withPDF)
}

func fetchMessage(err error) string {
	switch {
	case errors.Is(err, models.ErrInvalidReference):
		return "Invalid GitHub URL. Use the form https://github.com/owner/repo."
	case errors.Is(err, models.ErrUpstreamUnavailable):
		return fmt.Sprintf("Could not read the repository from GitHub: %v", err)
	default:
		return fmt.Sprintf("Error fetching documentation: %v", err)
	}
}
