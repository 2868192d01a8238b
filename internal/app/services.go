package app

import (
	"fmt"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/onboarder/internal/common"
	"github.com/ternarybob/onboarder/internal/connectors/github"
	"github.com/ternarybob/onboarder/internal/interfaces"
	"github.com/ternarybob/onboarder/internal/services/llm"
	"github.com/ternarybob/onboarder/internal/services/onboarding"
	"github.com/ternarybob/onboarder/internal/services/pdf"
	"github.com/ternarybob/onboarder/internal/services/summary"
)

// Services are the pipeline dependencies built from configuration. They are
// shared by the HTTP server, the generate command and the MCP server.
type Services struct {
	GitHub   *github.Connector
	LLM      *llm.ProviderFactory
	Summary  *summary.Service
	Renderer *onboarding.Renderer
	PDF      interfaces.PDFService // nil when pdf.mode is "disabled"
	Pipeline *Pipeline
}

// NewServices builds every pipeline service in dependency order
func NewServices(cfg *common.Config, logger arbor.ILogger) (*Services, error) {
	s := &Services{}
	var err error

	s.GitHub, err = github.NewConnectorFromConfig(cfg.GitHub, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize github connector: %w", err)
	}

	s.LLM = llm.NewProviderFactory(&cfg.Gemini, &cfg.Claude, &cfg.LLM, logger)
	if !s.LLM.AvailableFor(cfg.Summarizer.Model) {
		logger.Warn().
			Str("provider", string(s.LLM.DetectProvider(cfg.Summarizer.Model))).
			Str("model", cfg.Summarizer.Model).
			Msg("No API key configured for the summary model, summarization is disabled")
	}

	s.Summary, err = summary.NewService(s.LLM, llm.NewRetryPolicyFromConfig(cfg.Summarizer), cfg.Summarizer, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize summary service: %w", err)
	}

	s.Renderer, err = onboarding.NewRenderer(cfg.Document, cfg.GitHub, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize document renderer: %w", err)
	}

	s.PDF, err = pdf.NewServiceFromConfig(cfg.PDF, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize pdf service: %w", err)
	}

	s.Pipeline = NewPipeline(s.GitHub, s.LLM, s.Summary, s.Renderer, s.PDF, logger)

	logger.Debug().
		Bool("llm_ready", s.Pipeline.LLMReady()).
		Str("pdf_mode", s.Pipeline.PDFMode()).
		Msg("Pipeline services initialized")

	return s, nil
}

// SummaryModel returns the model summaries are generated with: the override
// when set, otherwise the default provider's model
func (s *Services) SummaryModel(override string) string {
	if override != "" {
		return s.LLM.NormalizeModel(override)
	}
	return s.LLM.GetDefaultModel(s.LLM.DetectProvider(""))
}

// Close releases provider clients
func (s *Services) Close() error {
	if s.LLM != nil {
		return s.LLM.Close()
	}
	return nil
}
