package interfaces

import (
	"context"
)

// SummaryService turns markdown files into short summaries.
// The returned map always has exactly the keys of markdownFiles.
type SummaryService interface {
	Summarize(ctx context.Context, markdownFiles map[string]string, imageFiles []string) map[string]string

	// Model is the model name sent with each request; empty selects the default provider's model
	Model() string
}
