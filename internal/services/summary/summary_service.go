package summary

import (
	"context"
	"fmt"
	"path"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/onboarder/internal/common"
	"github.com/ternarybob/onboarder/internal/interfaces"
	"github.com/ternarybob/onboarder/internal/services/llm"
	"github.com/ternarybob/onboarder/internal/templates"
)

const (
	// ImageNote is appended to successful summaries of files with related images
	ImageNote = "Note: This section includes images/diagrams for improved understanding."

	// ImageMatchSegment matches images inside the file's directory subtree on a path-segment boundary
	ImageMatchSegment = "segment"
	// ImageMatchPrefix matches images whose path starts with the directory string
	ImageMatchPrefix = "prefix"
)

// Service summarizes markdown files one at a time through a TextGenerator.
// A file whose summary cannot be generated gets a deterministic fallback.
type Service struct {
	generator interfaces.TextGenerator
	template  *templates.Template
	retry     *llm.RetryPolicy
	config    common.SummarizerConfig
	logger    arbor.ILogger
}

// NewService creates a summary service. The prompt template is resolved from
// config.TemplatesDir first, then from the embedded defaults.
func NewService(
	generator interfaces.TextGenerator,
	retry *llm.RetryPolicy,
	config common.SummarizerConfig,
	logger arbor.ILogger,
) (*Service, error) {
	tmpl, err := templates.GetTemplate(config.PromptTemplate, config.TemplatesDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load prompt template: %w", err)
	}

	if retry == nil {
		retry = llm.NewRetryPolicyFromConfig(config)
	}

	return &Service{
		generator: generator,
		template:  tmpl,
		retry:     retry,
		config:    config,
		logger:    logger,
	}, nil
}

// promptData is the context passed to the prompt template
type promptData struct {
	Path          string
	Dir           string
	BaseName      string
	RelatedImages string
	Content       string
}

// Model returns the configured summary model
func (s *Service) Model() string {
	return s.config.Model
}

// Summarize returns one summary per markdown file. Output keys always equal
// input keys; failures are logged and replaced by FallbackSummary.
func (s *Service) Summarize(ctx context.Context, markdownFiles map[string]string, imageFiles []string) map[string]string {
	paths := make([]string, 0, len(markdownFiles))
	for p := range markdownFiles {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	startTime := time.Now()
	summaries := make(map[string]string, len(paths))
	fallbacks := 0

	for i, p := range paths {
		related := RelatedImages(p, imageFiles, s.config.ImageMatch)

		summary, err := s.summarizeFile(ctx, p, markdownFiles[p], related)
		if err != nil {
			fallbacks++
			s.logger.Warn().
				Err(err).
				Str("path", p).
				Msg("Summarization failed, using fallback summary")
			summaries[p] = FallbackSummary(p)
			continue
		}

		if len(related) > 0 {
			summary += "\n\n" + ImageNote
		}
		summaries[p] = summary

		s.logger.Debug().
			Str("path", p).
			Int("index", i+1).
			Int("total", len(paths)).
			Int("related_images", len(related)).
			Msg("File summarized")
	}

	s.logger.Info().
		Int("files", len(paths)).
		Int("fallbacks", fallbacks).
		Dur("duration", time.Since(startTime)).
		Msg("Summarization complete")

	return summaries
}

// summarizeFile builds the prompt and calls the generator under the retry policy
func (s *Service) summarizeFile(ctx context.Context, filePath, content string, related []string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	relatedText := "none"
	if len(related) > 0 {
		relatedText = strings.Join(related, ", ")
	}

	prompt, err := s.template.Execute(promptData{
		Path:          filePath,
		Dir:           fileDir(filePath),
		BaseName:      path.Base(filePath),
		RelatedImages: relatedText,
		Content:       TruncateContent(content, s.config.MaxContentChars, s.config.TruncationMarker),
	})
	if err != nil {
		return "", err
	}

	request := &interfaces.ContentRequest{
		Messages: []interfaces.Message{
			{Role: "system", Content: s.template.System},
			{Role: "user", Content: prompt},
		},
		Model:       s.config.Model,
		Temperature: s.config.Temperature,
		MaxTokens:   s.config.MaxTokens,
	}

	var summary string
	err = s.retry.Do(ctx, func(ctx context.Context) error {
		resp, err := s.generator.GenerateContent(ctx, request)
		if err != nil {
			return err
		}
		text := strings.TrimSpace(resp.Text)
		if text == "" {
			return fmt.Errorf("empty summary returned")
		}
		summary = text
		return nil
	}, func(attempt int, backoff time.Duration, err error) {
		s.logger.Warn().
			Err(err).
			Str("path", filePath).
			Int("attempt", attempt).
			Dur("backoff", backoff).
			Msg("Retrying summary generation")
	})
	if err != nil {
		return "", err
	}

	return summary, nil
}

// TruncateContent cuts content longer than budget characters to exactly budget
// characters and appends marker. Content at or below the budget is returned unchanged.
func TruncateContent(content string, budget int, marker string) string {
	if budget <= 0 || utf8.RuneCountInString(content) <= budget {
		return content
	}

	count := 0
	for i := range content {
		if count == budget {
			return content[:i] + marker
		}
		count++
	}
	return content
}

// FallbackSummary is the deterministic text used when summarization fails
func FallbackSummary(filePath string) string {
	base := path.Base(filePath)
	return fmt.Sprintf("Documentation file: %s. For full details, refer to: [%s](%s)", base, base, filePath)
}

// RelatedImages returns the images associated with a markdown file's directory,
// in input order. A file at the repository root relates to every image.
func RelatedImages(filePath string, imageFiles []string, mode string) []string {
	dir := fileDir(filePath)

	related := []string{}
	for _, img := range imageFiles {
		if imageInDir(img, dir, mode) {
			related = append(related, img)
		}
	}
	return related
}

func imageInDir(img, dir, mode string) bool {
	if dir == "" {
		return true
	}
	if mode == ImageMatchPrefix {
		return strings.HasPrefix(img, dir)
	}
	return strings.HasPrefix(img, dir+"/")
}

// fileDir returns the directory of a repo-relative path, "" for root files
func fileDir(filePath string) string {
	dir := path.Dir(filePath)
	if dir == "." || dir == "/" {
		return ""
	}
	return dir
}

// Ensure interface compliance
var _ interfaces.SummaryService = (*Service)(nil)
