package pdf

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/onboarder/internal/common"
	"github.com/ternarybob/onboarder/internal/interfaces"
	"github.com/ternarybob/onboarder/internal/models"
)

// Rendering modes
const (
	ModeRemote   = "remote"
	ModeChrome   = "chrome"
	ModeBasic    = "basic"
	ModeDisabled = "disabled"
)

// Service renders HTML packs through a backend and validates the output
type Service struct {
	renderer interfaces.PDFRenderer
	validate bool
	logger   arbor.ILogger
}

var _ interfaces.PDFService = (*Service)(nil)

// NewService wraps a backend renderer
func NewService(renderer interfaces.PDFRenderer, validate bool, logger arbor.ILogger) *Service {
	return &Service{
		renderer: renderer,
		validate: validate,
		logger:   logger,
	}
}

// NewServiceFromConfig builds the backend named by cfg.Mode.
// Returns nil when PDF rendering is disabled.
func NewServiceFromConfig(cfg common.PDFConfig, logger arbor.ILogger) (interfaces.PDFService, error) {
	timeout := common.ParseDurationOr(cfg.Timeout, 120*time.Second)

	var renderer interfaces.PDFRenderer
	switch cfg.Mode {
	case ModeRemote, "":
		renderer = NewRemoteRenderer(cfg.ServiceURL, cfg.Endpoint, timeout, logger)
	case ModeChrome:
		renderer = NewChromeRenderer(cfg.ChromePath, timeout, logger)
	case ModeBasic:
		renderer = NewBasicRenderer(logger)
	case ModeDisabled:
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown pdf mode %q", cfg.Mode)
	}

	logger.Info().Str("mode", renderer.Mode()).Bool("validate", cfg.Validate).Msg("PDF service initialized")
	return NewService(renderer, cfg.Validate, logger), nil
}

// Mode implements interfaces.PDFService
func (s *Service) Mode() string {
	return s.renderer.Mode()
}

// Generate implements interfaces.PDFService
func (s *Service) Generate(ctx context.Context, html, fileName string) (*models.PDFDocument, error) {
	data, err := s.renderer.RenderPDF(ctx, html, fileName)
	if err != nil {
		return nil, err
	}

	doc := &models.PDFDocument{
		Data:     data,
		FileName: fileName,
		Mode:     s.renderer.Mode(),
	}

	if s.validate {
		pages, err := PageCount(data)
		if err != nil {
			s.logger.Warn().Str("file", fileName).Err(err).Msg("Rendered PDF failed validation")
			return nil, &models.RenderError{Kind: models.RenderErrorInvalidPDF, Err: err}
		}
		doc.Pages = pages
	}

	s.logger.Info().
		Str("file", fileName).
		Str("mode", doc.Mode).
		Int("pages", doc.Pages).
		Int("bytes", len(data)).
		Msg("PDF generated")

	return doc, nil
}

// PageCount parses a PDF and returns its page count
func PageCount(data []byte) (int, error) {
	if !IsPDF(data) {
		return 0, fmt.Errorf("missing PDF header")
	}
	pdfCtx, err := api.ReadContext(bytes.NewReader(data), model.NewDefaultConfiguration())
	if err != nil {
		return 0, fmt.Errorf("failed to read PDF: %w", err)
	}
	if err := api.ValidateContext(pdfCtx); err != nil {
		return 0, fmt.Errorf("invalid PDF: %w", err)
	}
	return pdfCtx.PageCount, nil
}
