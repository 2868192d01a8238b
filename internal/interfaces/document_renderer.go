package interfaces

import (
	"github.com/ternarybob/onboarder/internal/models"
)

// RenderInput is everything needed to assemble an onboarding pack.
// MarkdownFiles is optional and only used for category grouping.
type RenderInput struct {
	Summaries     map[string]string
	Meta          models.DocumentMeta
	MarkdownFiles map[string]string
	ImageFiles    []string
}

// DocumentRenderer assembles the onboarding pack HTML
type DocumentRenderer interface {
	Render(input RenderInput) (*models.OnboardingDocument, error)
}
