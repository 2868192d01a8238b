package handlers

import (
	"context"

	"github.com/ternarybob/onboarder/internal/models"
)

// SessionService loads and updates sessions under a per-session lock
type SessionService interface {
	Create(ctx context.Context, repoURL, author, company string) (*models.Session, error)
	Get(ctx context.Context, id string) (*models.Session, error)
	List(ctx context.Context, limit int) ([]*models.Session, error)
	Delete(ctx context.Context, id string) error
	Update(ctx context.Context, id string, step func(*models.Session) error) (*models.Session, error)
}

// PipelineRunner runs the onboarding steps on a session
type PipelineRunner interface {
	Fetch(ctx context.Context, s *models.Session) error
	Summarize(ctx context.Context, s *models.Session) error
	Generate(ctx context.Context, s *models.Session, withPDF bool) error
	LLMReady() bool
	PDFMode() string
}
