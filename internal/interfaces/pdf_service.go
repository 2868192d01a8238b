package interfaces

import (
	"context"

	"github.com/ternarybob/onboarder/internal/models"
)

// PDFRenderer converts a rendered HTML pack into PDF bytes.
// Failures are returned as *models.RenderError.
type PDFRenderer interface {
	RenderPDF(ctx context.Context, html, fileName string) ([]byte, error)

	// Mode names the rendering backend ("remote", "chrome", "basic")
	Mode() string
}

// PDFService renders and validates PDF packs
type PDFService interface {
	Generate(ctx context.Context, html, fileName string) (*models.PDFDocument, error)
	Mode() string
}
