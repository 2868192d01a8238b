package handlers

import (
	"net/http"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/onboarder/internal/common"
)

// StatusResponse reports whether each pipeline step can run
type StatusResponse struct {
	Version     string `json:"version"`
	LLMReady    bool   `json:"llm_ready"`
	LLMProvider string `json:"llm_provider"`
	LLMModel    string `json:"llm_model"`
	LLMMessage  string `json:"llm_message"`
	PDFMode     string `json:"pdf_mode"`
}

// StatusHandler handles HTTP requests for application status
type StatusHandler struct {
	pipeline PipelineRunner
	provider string
	model    string
	logger   arbor.ILogger
}

// NewStatusHandler creates a new StatusHandler
func NewStatusHandler(pipeline PipelineRunner, provider, model string, logger arbor.ILogger) *StatusHandler {
	return &StatusHandler{
		pipeline: pipeline,
		provider: provider,
		model:    model,
		logger:   logger,
	}
}

// GetStatusHandler handles GET /api/status
func (h *StatusHandler) GetStatusHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	status := StatusResponse{
		Version:     common.GetVersion(),
		LLMReady:    h.pipeline.LLMReady(),
		LLMProvider: h.provider,
		LLMModel:    h.model,
		PDFMode:     h.pipeline.PDFMode(),
	}
	if status.LLMReady {
		status.LLMMessage = "API key loaded"
	} else {
		status.LLMMessage = "API key missing: summarization is unavailable"
	}

	WriteJSON(w, http.StatusOK, status)
}
