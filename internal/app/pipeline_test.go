package app

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/onboarder/internal/interfaces"
	"github.com/ternarybob/onboarder/internal/models"
)

type fakeFetcher struct {
	result *models.FetchResult
	err    error
	calls  int
}

func (f *fakeFetcher) Fetch(ctx context.Context, repoURL string) (*models.FetchResult, error) {
	f.calls++
	return f.result, f.err
}

type fakeGenerator struct {
	available bool
	model     string
}

func (g *fakeGenerator) GenerateContent(ctx context.Context, req *interfaces.ContentRequest) (*interfaces.ContentResponse, error) {
	return &interfaces.ContentResponse{Text: "summary"}, nil
}

func (g *fakeGenerator) AvailableFor(model string) bool {
	g.model = model
	return g.available
}

type fakeSummarizer struct {
	calls int
	model string
}

func (s *fakeSummarizer) Model() string { return s.model }

func (s *fakeSummarizer) Summarize(ctx context.Context, markdownFiles map[string]string, imageFiles []string) map[string]string {
	s.calls++
	out := make(map[string]string, len(markdownFiles))
	for p := range markdownFiles {
		out[p] = "Summary of " + p
	}
	return out
}

type fakeRenderer struct {
	input interfaces.RenderInput
	err   error
}

func (r *fakeRenderer) Render(input interfaces.RenderInput) (*models.OnboardingDocument, error) {
	r.input = input
	if r.err != nil {
		return nil, r.err
	}
	return &models.OnboardingDocument{
		HTML:         fmt.Sprintf("<html>%d sections</html>", len(input.Summaries)),
		FileName:     models.HTMLFileName(input.Meta.Repository.Name),
		SectionCount: len(input.Summaries),
	}, nil
}

type fakePDF struct {
	err      error
	fileName string
}

func (p *fakePDF) Generate(ctx context.Context, html, fileName string) (*models.PDFDocument, error) {
	p.fileName = fileName
	if p.err != nil {
		return nil, p.err
	}
	return &models.PDFDocument{Data: []byte("%PDF-1.4"), FileName: fileName, Pages: 3, Mode: "fake"}, nil
}

func (p *fakePDF) Mode() string { return "fake" }

func widgetsResult() *models.FetchResult {
	return &models.FetchResult{
		Repository: models.RepositoryRef{Owner: "acme", Name: "widgets", Branch: "main"},
		MarkdownFiles: map[string]string{
			"README.md":     "# Widgets",
			"docs/guide.md": "# Guide",
		},
		ImageFiles: []string{"img/logo.png"},
	}
}

type pipelineFixture struct {
	fetcher    *fakeFetcher
	generator  *fakeGenerator
	summarizer *fakeSummarizer
	renderer   *fakeRenderer
	pdf        *fakePDF
	pipeline   *Pipeline
}

func newFixture(withPDF bool) *pipelineFixture {
	f := &pipelineFixture{
		fetcher:    &fakeFetcher{result: widgetsResult()},
		generator:  &fakeGenerator{available: true},
		summarizer: &fakeSummarizer{},
		renderer:   &fakeRenderer{},
	}
	var pdfService interfaces.PDFService
	if withPDF {
		f.pdf = &fakePDF{}
		pdfService = f.pdf
	}
	f.pipeline = NewPipeline(f.fetcher, f.generator, f.summarizer, f.renderer, pdfService, arbor.NewLogger())
	return f
}

func TestPipeline_Run(t *testing.T) {
	f := newFixture(true)
	s := &models.Session{ID: "ses_1", RepoURL: "https://github.com/acme/widgets", Author: "Riddhi Shah", Company: "Bazel Inc."}

	require.NoError(t, f.pipeline.Run(context.Background(), s, true))

	assert.Equal(t, "widgets", s.Repository.Name)
	assert.Len(t, s.MarkdownFiles, 2)
	assert.Equal(t, []string{"img/logo.png"}, s.ImageFiles)
	assert.Len(t, s.Summaries, 2)
	assert.Equal(t, "<html>2 sections</html>", s.HTML)
	assert.Equal(t, []byte("%PDF-1.4"), s.PDF)
	assert.Equal(t, 3, s.PDFPages)
	assert.Equal(t, "widgets_onboarding.pdf", f.pdf.fileName)

	assert.Equal(t, "Riddhi Shah", f.renderer.input.Meta.Author)
	assert.Equal(t, "Bazel Inc.", f.renderer.input.Meta.Company)
	assert.Equal(t, s.MarkdownFiles, f.renderer.input.MarkdownFiles)
}

func TestPipeline_FetchRequiresURL(t *testing.T) {
	f := newFixture(false)
	s := &models.Session{ID: "ses_1"}

	err := f.pipeline.Fetch(context.Background(), s)
	assert.True(t, errors.Is(err, models.ErrMissingInput))
	assert.NotEmpty(t, s.FetchError)
	assert.Equal(t, 0, f.fetcher.calls)
}

func TestPipeline_FetchFailureClearsOnlyFetchedState(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{name: "invalid reference", err: fmt.Errorf("%w: bad", models.ErrInvalidReference)},
		{name: "upstream", err: fmt.Errorf("%w: 404", models.ErrUpstreamUnavailable)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(true)
			s := &models.Session{ID: "ses_1", RepoURL: "https://github.com/acme/widgets"}
			require.NoError(t, f.pipeline.Run(context.Background(), s, true))

			f.fetcher.err = tt.err
			f.fetcher.result = nil
			err := f.pipeline.Fetch(context.Background(), s)

			assert.True(t, errors.Is(err, tt.err))
			assert.NotEmpty(t, s.FetchError)
			assert.Nil(t, s.Repository)
			assert.Empty(t, s.MarkdownFiles)
			assert.Empty(t, s.ImageFiles)

			assert.Len(t, s.Summaries, 2)
			assert.Equal(t, "<html>2 sections</html>", s.HTML)
			assert.Equal(t, "widgets_onboarding.html", s.HTMLFileName)
			assert.Equal(t, []byte("%PDF-1.4"), s.PDF)
			assert.Equal(t, "widgets_onboarding.pdf", s.PDFFileName)
			assert.Equal(t, 3, s.PDFPages)
		})
	}
}

func TestPipeline_RefetchReplacesDerivedState(t *testing.T) {
	f := newFixture(true)
	s := &models.Session{ID: "ses_1", RepoURL: "https://github.com/acme/widgets"}
	require.NoError(t, f.pipeline.Run(context.Background(), s, true))

	require.NoError(t, f.pipeline.Fetch(context.Background(), s))
	assert.Len(t, s.MarkdownFiles, 2)
	assert.Empty(t, s.Summaries)
	assert.Empty(t, s.HTML)
	assert.Empty(t, s.HTMLFileName)
	assert.Nil(t, s.PDF)
}

func TestPipeline_SummarizePreconditions(t *testing.T) {
	t.Run("requires fetched files", func(t *testing.T) {
		f := newFixture(false)
		s := &models.Session{ID: "ses_1"}
		err := f.pipeline.Summarize(context.Background(), s)
		assert.True(t, errors.Is(err, models.ErrPreconditionFailed))
		assert.NotEmpty(t, s.SummaryError)
		assert.Equal(t, 0, f.summarizer.calls)
	})

	t.Run("repository without markdown", func(t *testing.T) {
		f := newFixture(false)
		f.fetcher.result = &models.FetchResult{
			Repository: models.RepositoryRef{Owner: "acme", Name: "widgets", Branch: "main"},
			ImageFiles: []string{"img/logo.png"},
		}
		s := &models.Session{ID: "ses_1", RepoURL: "https://github.com/acme/widgets"}
		require.NoError(t, f.pipeline.Fetch(context.Background(), s))

		err := f.pipeline.Summarize(context.Background(), s)
		assert.True(t, errors.Is(err, models.ErrPreconditionFailed))
		assert.Equal(t, "No markdown files were found in the repository.", s.SummaryError)
	})

	t.Run("readiness checks the summary model", func(t *testing.T) {
		f := newFixture(false)
		f.summarizer.model = "gemini-2.5-flash"
		assert.True(t, f.pipeline.LLMReady())
		assert.Equal(t, "gemini-2.5-flash", f.generator.model)
	})

	t.Run("requires api key", func(t *testing.T) {
		f := newFixture(false)
		f.generator.available = false
		s := &models.Session{ID: "ses_1", RepoURL: "https://github.com/acme/widgets"}
		require.NoError(t, f.pipeline.Fetch(context.Background(), s))

		err := f.pipeline.Summarize(context.Background(), s)
		assert.True(t, errors.Is(err, models.ErrLLMNotConfigured))
		assert.NotEmpty(t, s.SummaryError)
		assert.False(t, f.pipeline.LLMReady())
	})

	t.Run("success clears previous error", func(t *testing.T) {
		f := newFixture(false)
		s := &models.Session{ID: "ses_1", RepoURL: "https://github.com/acme/widgets", SummaryError: "old"}
		require.NoError(t, f.pipeline.Fetch(context.Background(), s))
		require.NoError(t, f.pipeline.Summarize(context.Background(), s))
		assert.Empty(t, s.SummaryError)
	})
}

func TestPipeline_Generate(t *testing.T) {
	t.Run("requires summaries", func(t *testing.T) {
		f := newFixture(true)
		s := &models.Session{ID: "ses_1"}
		err := f.pipeline.Generate(context.Background(), s, true)
		assert.True(t, errors.Is(err, models.ErrPreconditionFailed))
		assert.NotEmpty(t, s.HTMLError)
	})

	t.Run("pdf failure keeps html", func(t *testing.T) {
		f := newFixture(true)
		f.pdf.err = &models.RenderError{Kind: models.RenderErrorConnectionRefused}
		s := &models.Session{ID: "ses_1", RepoURL: "https://github.com/acme/widgets"}
		require.NoError(t, f.pipeline.Fetch(context.Background(), s))
		require.NoError(t, f.pipeline.Summarize(context.Background(), s))

		err := f.pipeline.Generate(context.Background(), s, true)
		var renderErr *models.RenderError
		require.True(t, errors.As(err, &renderErr))
		assert.NotEmpty(t, s.HTML)
		assert.Nil(t, s.PDF)
		assert.Equal(t, renderErr.UserMessage(), s.PDFError)
	})

	t.Run("html only", func(t *testing.T) {
		f := newFixture(true)
		s := &models.Session{ID: "ses_1", RepoURL: "https://github.com/acme/widgets"}
		require.NoError(t, f.pipeline.Run(context.Background(), s, false))
		assert.NotEmpty(t, s.HTML)
		assert.Nil(t, s.PDF)
		assert.Empty(t, f.pdf.fileName)
	})

	t.Run("pdf disabled", func(t *testing.T) {
		f := newFixture(false)
		s := &models.Session{ID: "ses_1", RepoURL: "https://github.com/acme/widgets"}
		require.NoError(t, f.pipeline.Run(context.Background(), s, true))
		assert.NotEmpty(t, s.HTML)
		assert.Nil(t, s.PDF)
		assert.Equal(t, "disabled", f.pipeline.PDFMode())
	})

	t.Run("render error sets html slot", func(t *testing.T) {
		f := newFixture(false)
		s := &models.Session{ID: "ses_1", RepoURL: "https://github.com/acme/widgets"}
		require.NoError(t, f.pipeline.Fetch(context.Background(), s))
		require.NoError(t, f.pipeline.Summarize(context.Background(), s))
		f.renderer.err = errors.New("template broke")

		require.Error(t, f.pipeline.Generate(context.Background(), s, false))
		assert.Contains(t, s.HTMLError, "template broke")
		assert.Empty(t, s.HTML)
	})
}

func TestPipeline_RunStopsAtFirstFailure(t *testing.T) {
	f := newFixture(true)
	f.generator.available = false
	s := &models.Session{ID: "ses_1", RepoURL: "https://github.com/acme/widgets"}

	err := f.pipeline.Run(context.Background(), s, true)
	assert.True(t, errors.Is(err, models.ErrLLMNotConfigured))
	assert.Equal(t, 0, f.summarizer.calls)
	assert.Empty(t, s.HTML)
}
