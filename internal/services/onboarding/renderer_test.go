package onboarding

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/onboarder/internal/common"
	"github.com/ternarybob/onboarder/internal/interfaces"
	"github.com/ternarybob/onboarder/internal/models"
)

var fixedNow = time.Date(2026, time.March, 7, 10, 30, 0, 0, time.UTC)

func newTestRenderer(t *testing.T, mutate func(*common.Config)) *Renderer {
	t.Helper()
	cfg := common.NewDefaultConfig()
	if mutate != nil {
		mutate(cfg)
	}
	r, err := NewRenderer(cfg.Document, cfg.GitHub, arbor.NewLogger(), WithClock(func() time.Time { return fixedNow }))
	require.NoError(t, err)
	return r
}

func testMeta() models.DocumentMeta {
	return models.DocumentMeta{
		Repository: models.RepositoryRef{Owner: "acme", Name: "widgets", Branch: "develop"},
		Author:     "Riddhi Shah",
		Company:    "Bazel Inc.",
	}
}

func parse(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

func TestRender_ZeroSummaries(t *testing.T) {
	r := newTestRenderer(t, nil)

	out, err := r.Render(interfaces.RenderInput{Meta: testMeta()})
	require.NoError(t, err)

	doc := parse(t, out.HTML)
	assert.Equal(t, 1, doc.Find(".cover-page").Length())
	assert.Equal(t, 1, doc.Find(".document-footer").Length())
	assert.Equal(t, 0, doc.Find(".section").Length())
	assert.Equal(t, 0, doc.Find(".image-gallery-section").Length())
	assert.Contains(t, doc.Find(".toc-summary").Text(), "contains 0 sections")
	assert.Equal(t, "widgets_onboarding.html", out.FileName)
}

func TestRender_Deterministic(t *testing.T) {
	r := newTestRenderer(t, nil)
	input := interfaces.RenderInput{
		Summaries: map[string]string{
			"README.md":     "Intro.\n\nFor full details, refer to: [README.md](README.md)",
			"docs/guide.md": "Guide.",
			"api/ref.md":    "Ref.",
		},
		Meta:       testMeta(),
		ImageFiles: []string{"docs/architecture.png"},
	}

	first, err := r.Render(input)
	require.NoError(t, err)
	second, err := r.Render(input)
	require.NoError(t, err)

	assert.Equal(t, first.HTML, second.HTML)
}

func TestRender_CoverAndOrdering(t *testing.T) {
	r := newTestRenderer(t, nil)
	out, err := r.Render(interfaces.RenderInput{
		Summaries: map[string]string{
			"docs/guide.md": "Guide.",
			"README.md":     "Intro.",
		},
		Meta:       testMeta(),
		ImageFiles: []string{"img/logo.png"},
	})
	require.NoError(t, err)

	doc := parse(t, out.HTML)
	assert.Equal(t, "Bazel Inc.", doc.Find(".company-name").Text())
	assert.Equal(t, "widgets", doc.Find(".project-title").Text())
	assert.Contains(t, doc.Find(".project-info").Text(), "March 07, 2026")
	assert.Contains(t, doc.Find(".project-info").Text(), "develop")
	href, _ := doc.Find(".repo-link").Attr("href")
	assert.Equal(t, "https://github.com/acme/widgets", href)

	// Order: cover, toc, sections, gallery, footer
	cover := strings.Index(out.HTML, `class="cover-page"`)
	toc := strings.Index(out.HTML, `class="toc-page"`)
	sections := strings.Index(out.HTML, `class="content-pages"`)
	gallery := strings.Index(out.HTML, `class="image-gallery-section"`)
	footer := strings.Index(out.HTML, `class="document-footer"`)
	assert.True(t, cover < toc && toc < sections && sections < gallery && gallery < footer)

	// Sections sorted by path with sequential ids
	ids := doc.Find(".section").Map(func(i int, s *goquery.Selection) string {
		id, _ := s.Attr("id")
		return id + "=" + s.Find(".section-title").Text()
	})
	assert.Equal(t, []string{"section-1=README.md", "section-2=docs / guide.md"}, ids)

	link, _ := doc.Find("#section-2 .section-path a").Attr("href")
	assert.Equal(t, "https://github.com/acme/widgets/blob/develop/docs/guide.md", link)

	tocLinks := doc.Find(".toc-list a").Map(func(i int, s *goquery.Selection) string {
		href, _ := s.Attr("href")
		return href + " " + s.Text()
	})
	assert.Equal(t, []string{"#section-1 README.md", "#section-2 guide.md"}, tocLinks)
	assert.Equal(t, 0, doc.Find(".toc-category").Length())
}

func TestRender_GroupsAboveThreshold(t *testing.T) {
	r := newTestRenderer(t, func(c *common.Config) { c.Document.CategoryThreshold = 3 })

	markdown := map[string]string{
		"README.md":                "",
		"docs/setup.md":            "",
		"tutorials/first-steps.md": "",
		"api/endpoints.md":         "",
		"misc/notes.md":            "",
	}
	summaries := map[string]string{}
	for p := range markdown {
		if p != "misc/notes.md" {
			summaries[p] = "Summary of " + p
		}
	}

	out, err := r.Render(interfaces.RenderInput{
		Summaries:     summaries,
		MarkdownFiles: markdown,
		Meta:          testMeta(),
	})
	require.NoError(t, err)

	doc := parse(t, out.HTML)
	categories := doc.Find(".toc-category").Map(func(i int, s *goquery.Selection) string { return s.Text() })
	assert.Equal(t, []string{
		"README and Main Docs (1 files)",
		"Documentation (1 files)",
		"Guides and Tutorials (1 files)",
		"API Reference (1 files)",
		"Other Files (1 files)",
	}, categories)

	// A markdown file without a summary still gets a section with an empty body
	assert.Equal(t, 5, doc.Find(".section").Length())
	assert.Equal(t, "", strings.TrimSpace(doc.Find("#section-5 .section-content").Text()))
	assert.Contains(t, doc.Find(".toc-summary").Text(), "contains 4 sections")
}

func TestRender_NoGroupingWithoutMarkdownMap(t *testing.T) {
	r := newTestRenderer(t, func(c *common.Config) { c.Document.CategoryThreshold = 1 })

	out, err := r.Render(interfaces.RenderInput{
		Summaries: map[string]string{"a.md": "A", "docs/b.md": "B", "api/c.md": "C"},
		Meta:      testMeta(),
	})
	require.NoError(t, err)

	doc := parse(t, out.HTML)
	assert.Equal(t, 0, doc.Find(".toc-category").Length())
	assert.Equal(t, 3, doc.Find(".section").Length())
}

func TestRender_SummaryFormatting(t *testing.T) {
	r := newTestRenderer(t, nil)
	summary := "First paragraph with <script>alert(1)</script>.\n\n" +
		"For full details, refer to: [guide.md](docs/guide.md)\n\n" +
		"Note: This section includes images/diagrams for improved understanding."

	out, err := r.Render(interfaces.RenderInput{
		Summaries: map[string]string{"docs/guide.md": summary},
		Meta:      testMeta(),
	})
	require.NoError(t, err)

	doc := parse(t, out.HTML)
	content := doc.Find("#section-1 .section-content")
	assert.Equal(t, "First paragraph with <script>alert(1)</script>.", content.Find("p").Text())
	assert.Equal(t, 0, content.Find("script").Length())
	assert.NotContains(t, out.HTML, "<script>alert(1)</script>")

	ref := content.Find(".reference a")
	href, _ := ref.Attr("href")
	assert.Equal(t, "guide.md", ref.Text())
	assert.Equal(t, "https://github.com/acme/widgets/blob/develop/docs/guide.md", href)
	assert.Equal(t, "Note: This section includes images/diagrams for improved understanding.", content.Find(".note").Text())
}

func TestRender_Gallery(t *testing.T) {
	r := newTestRenderer(t, nil)
	out, err := r.Render(interfaces.RenderInput{
		Summaries: map[string]string{"README.md": "x"},
		Meta:      testMeta(),
		ImageFiles: []string{
			"docs/System-Architecture.png",
			"assets/screenshot-home.jpg",
			"img/logo.svg",
			"docs/data_flow.gif",
		},
	})
	require.NoError(t, err)

	doc := parse(t, out.HTML)
	buckets := doc.Find(".gallery-category").Map(func(i int, s *goquery.Selection) string {
		return fmt.Sprintf("%s:%d", s.Text(), s.Next().Find(".gallery-item").Length())
	})
	assert.Equal(t, []string{"Architecture & Diagrams:2", "Screenshots & Demos:1", "Other Images:1"}, buckets)

	src, _ := doc.Find(".gallery-image").First().Attr("src")
	assert.Equal(t, "https://raw.githubusercontent.com/acme/widgets/develop/docs/System-Architecture.png", src)
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "docs / getting started guide.md", DisplayName("docs/getting_started-guide.md"))
	assert.Equal(t, "README.md", DisplayName("README.md"))
}
