package onboarding

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"path"
	"strings"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/onboarder/internal/common"
	"github.com/ternarybob/onboarder/internal/interfaces"
	"github.com/ternarybob/onboarder/internal/models"
)

//go:embed assets/onboarding.html.tmpl assets/onboarding.css
var assets embed.FS

// DateLayout formats the cover page generation date, e.g. "March 07, 2026"
const DateLayout = "January 02, 2006"

// Renderer assembles onboarding packs from summaries with html/template.
// Output is a pure function of the input and the clock.
type Renderer struct {
	config     common.DocumentConfig
	webBaseURL string
	rawBaseURL string
	now        func() time.Time
	tmpl       *template.Template
	css        template.CSS
	logger     arbor.ILogger
}

// RendererOption configures a Renderer
type RendererOption func(*Renderer)

// WithClock replaces time.Now for the generation date
func WithClock(now func() time.Time) RendererOption {
	return func(r *Renderer) {
		r.now = now
	}
}

// NewRenderer parses the embedded page template and stylesheet
func NewRenderer(config common.DocumentConfig, github common.GitHubConfig, logger arbor.ILogger, opts ...RendererOption) (*Renderer, error) {
	tmpl, err := template.ParseFS(assets, "assets/onboarding.html.tmpl")
	if err != nil {
		return nil, fmt.Errorf("failed to parse onboarding template: %w", err)
	}

	css, err := assets.ReadFile("assets/onboarding.css")
	if err != nil {
		return nil, fmt.Errorf("failed to read onboarding stylesheet: %w", err)
	}

	r := &Renderer{
		config:     config,
		webBaseURL: github.WebBaseURL,
		rawBaseURL: github.RawBaseURL,
		now:        time.Now,
		tmpl:       tmpl,
		css:        template.CSS(css),
		logger:     logger,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

type tocEntry struct {
	IsCategory bool
	Label      string
	Count      int
	Anchor     string
}

type section struct {
	ID     string
	Title  string
	Path   string
	URL    string
	Blocks []Block
}

type pageContext struct {
	CSS           template.CSS
	Company       string
	Author        string
	RepoName      string
	RepoURL       string
	Branch        string
	GeneratedDate string
	SectionCount  int
	TOC           []tocEntry
	Sections      []section
	Gallery       []GalleryBucket
}

// Render produces the onboarding pack: cover, table of contents, one section
// per file, image gallery (when there are images) and footer.
func (r *Renderer) Render(input interfaces.RenderInput) (*models.OnboardingDocument, error) {
	repo := input.Meta.Repository
	links := LinkBuilder{WebBaseURL: r.webBaseURL, RawBaseURL: r.rawBaseURL, Repository: repo}
	generatedAt := r.now()

	ctx := pageContext{
		CSS:           r.css,
		Company:       input.Meta.Company,
		Author:        input.Meta.Author,
		RepoName:      repo.Name,
		RepoURL:       links.RepoURL(),
		Branch:        repo.Branch,
		GeneratedDate: generatedAt.Format(DateLayout),
		SectionCount:  len(input.Summaries),
		Gallery:       BuildGallery(input.ImageFiles, r.config, links),
	}

	counter := 1
	for _, category := range Organize(input.Summaries, input.MarkdownFiles, r.config) {
		if category.ShowHeader {
			ctx.TOC = append(ctx.TOC, tocEntry{IsCategory: true, Label: category.Name, Count: len(category.Paths)})
		}

		for _, p := range category.Paths {
			id := fmt.Sprintf("section-%d", counter)
			counter++

			ctx.TOC = append(ctx.TOC, tocEntry{Label: path.Base(p), Anchor: id})
			ctx.Sections = append(ctx.Sections, section{
				ID:     id,
				Title:  DisplayName(p),
				Path:   p,
				URL:    links.BlobURL(p),
				Blocks: FormatSummary(input.Summaries[p], links),
			})
		}
	}

	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, "onboarding.html.tmpl", ctx); err != nil {
		return nil, fmt.Errorf("failed to render onboarding document: %w", err)
	}

	r.logger.Info().
		Str("repo", repo.FullName()).
		Int("sections", len(ctx.Sections)).
		Int("images", len(input.ImageFiles)).
		Int("bytes", buf.Len()).
		Msg("Onboarding document rendered")

	return &models.OnboardingDocument{
		HTML:         buf.String(),
		FileName:     models.HTMLFileName(repo.Name),
		SectionCount: len(ctx.Sections),
		ImageCount:   len(input.ImageFiles),
		GeneratedAt:  generatedAt,
	}, nil
}

// DisplayName turns a path into a section title: "docs/getting_started-guide.md"
// becomes "docs / getting started guide.md"
func DisplayName(filePath string) string {
	return strings.NewReplacer("/", " / ", "_", " ", "-", " ").Replace(filePath)
}

// Ensure interface compliance
var _ interfaces.DocumentRenderer = (*Renderer)(nil)
