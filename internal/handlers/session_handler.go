package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/onboarder/internal/models"
)

// CreateSessionRequest is the body of POST /api/sessions
type CreateSessionRequest struct {
	RepoURL string `json:"repo_url" validate:"required,url"`
	Author  string `json:"author" validate:"max=200"`
	Company string `json:"company" validate:"max=200"`
}

// GenerateRequest is the optional body of POST /api/sessions/{id}/generate
type GenerateRequest struct {
	PDF *bool `json:"pdf"`
}

// FileView describes one fetched markdown file
type FileView struct {
	Path  string `json:"path"`
	Size  int    `json:"size"`
	Title string `json:"title"`
}

// SessionView is the JSON shape of a session
type SessionView struct {
	ID            string                `json:"id"`
	RepoURL       string                `json:"repo_url"`
	Author        string                `json:"author"`
	Company       string                `json:"company"`
	Repository    *models.RepositoryRef `json:"repository,omitempty"`
	MarkdownFiles []FileView            `json:"markdown_files"`
	ImageFiles    []string              `json:"image_files"`
	Summaries     map[string]string     `json:"summaries,omitempty"`
	HTMLReady     bool                  `json:"html_ready"`
	HTMLFileName  string                `json:"html_file_name,omitempty"`
	PDFReady      bool                  `json:"pdf_ready"`
	PDFFileName   string                `json:"pdf_file_name,omitempty"`
	PDFPages      int                   `json:"pdf_pages,omitempty"`
	PDFSize       int                   `json:"pdf_size,omitempty"`
	FetchError    string                `json:"fetch_error,omitempty"`
	SummaryError  string                `json:"summary_error,omitempty"`
	HTMLError     string                `json:"html_error,omitempty"`
	PDFError      string                `json:"pdf_error,omitempty"`
}

// NewSessionView builds the JSON view of s
func NewSessionView(s *models.Session) SessionView {
	view := SessionView{
		ID:            s.ID,
		RepoURL:       s.RepoURL,
		Author:        s.Author,
		Company:       s.Company,
		Repository:    s.Repository,
		MarkdownFiles: make([]FileView, 0, len(s.MarkdownFiles)),
		ImageFiles:    s.ImageFiles,
		Summaries:     s.Summaries,
		HTMLReady:     s.HTML != "",
		PDFReady:      len(s.PDF) > 0,
		PDFPages:      s.PDFPages,
		PDFSize:       len(s.PDF),
		FetchError:    s.FetchError,
		SummaryError:  s.SummaryError,
		HTMLError:     s.HTMLError,
		PDFError:      s.PDFError,
	}
	if view.ImageFiles == nil {
		view.ImageFiles = []string{}
	}

	for p, content := range s.MarkdownFiles {
		view.MarkdownFiles = append(view.MarkdownFiles, FileView{Path: p, Size: len(content), Title: firstHeading(content)})
	}
	sort.Slice(view.MarkdownFiles, func(i, j int) bool {
		return view.MarkdownFiles[i].Path < view.MarkdownFiles[j].Path
	})

	if view.HTMLReady {
		view.HTMLFileName = s.HTMLFileName
	}
	if view.PDFReady {
		view.PDFFileName = s.PDFFileName
	}
	return view
}

// firstHeading returns the text of the first markdown heading, if any
func firstHeading(content string) string {
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "#") {
			return strings.TrimSpace(strings.TrimLeft(line, "#"))
		}
	}
	return ""
}

// SessionHandler serves the session API
type SessionHandler struct {
	sessions SessionService
	pipeline PipelineRunner
	validate *validator.Validate
	logger   arbor.ILogger
}

// NewSessionHandler creates a new SessionHandler
func NewSessionHandler(sessions SessionService, pipeline PipelineRunner, logger arbor.ILogger) *SessionHandler {
	return &SessionHandler{
		sessions: sessions,
		pipeline: pipeline,
		validate: validator.New(),
		logger:   logger,
	}
}

// ListSessionsHandler handles GET /api/sessions
func (h *SessionHandler) ListSessionsHandler(w http.ResponseWriter, r *http.Request) {
	sessions, err := h.sessions.List(r.Context(), 50)
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to list sessions")
		WriteError(w, http.StatusInternalServerError, "Failed to list sessions")
		return
	}

	views := make([]SessionView, 0, len(sessions))
	for _, s := range sessions {
		views = append(views, NewSessionView(s))
	}
	WriteJSON(w, http.StatusOK, views)
}

// CreateSessionHandler handles POST /api/sessions
func (h *SessionHandler) CreateSessionHandler(w http.ResponseWriter, r *http.Request) {
	var req CreateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	req.RepoURL = strings.TrimSpace(req.RepoURL)

	if err := h.validate.Struct(req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	session, err := h.sessions.Create(r.Context(), req.RepoURL, req.Author, req.Company)
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to create session")
		WriteError(w, StatusForError(err), err.Error())
		return
	}

	WriteJSON(w, http.StatusCreated, NewSessionView(session))
}

// GetSessionHandler handles GET /api/sessions/{id}
func (h *SessionHandler) GetSessionHandler(w http.ResponseWriter, r *http.Request, id string) {
	session, err := h.sessions.Get(r.Context(), id)
	if err != nil {
		WriteError(w, StatusForError(err), err.Error())
		return
	}
	WriteJSON(w, http.StatusOK, NewSessionView(session))
}

// DeleteSessionHandler handles DELETE /api/sessions/{id}
func (h *SessionHandler) DeleteSessionHandler(w http.ResponseWriter, r *http.Request, id string) {
	if err := h.sessions.Delete(r.Context(), id); err != nil {
		WriteError(w, StatusForError(err), err.Error())
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted", "id": id})
}

// FetchHandler handles POST /api/sessions/{id}/fetch
func (h *SessionHandler) FetchHandler(w http.ResponseWriter, r *http.Request, id string) {
	h.runStep(w, r, id, func(s *models.Session) error {
		return h.pipeline.Fetch(r.Context(), s)
	})
}

// SummarizeHandler handles POST /api/sessions/{id}/summarize
func (h *SessionHandler) SummarizeHandler(w http.ResponseWriter, r *http.Request, id string) {
	h.runStep(w, r, id, func(s *models.Session) error {
		return h.pipeline.Summarize(r.Context(), s)
	})
}

// GenerateHandler handles POST /api/sessions/{id}/generate. PDF output is
// requested by default; send {"pdf": false} for HTML only.
func (h *SessionHandler) GenerateHandler(w http.ResponseWriter, r *http.Request, id string) {
	withPDF := true
	if r.ContentLength != 0 {
		var req GenerateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err == nil && req.PDF != nil {
			withPDF = *req.PDF
		}
	}

	h.runStep(w, r, id, func(s *models.Session) error {
		return h.pipeline.Generate(r.Context(), s, withPDF)
	})
}

// runStep applies a pipeline step and reports the saved session. PDF
// rendering failures are reported through the session's pdf_error slot.
func (h *SessionHandler) runStep(w http.ResponseWriter, r *http.Request, id string, step func(*models.Session) error) {
	session, err := h.sessions.Update(r.Context(), id, step)
	if session == nil {
		WriteError(w, StatusForError(err), err.Error())
		return
	}

	var renderErr *models.RenderError
	if err != nil && !errors.As(err, &renderErr) {
		WriteJSON(w, StatusForError(err), map[string]interface{}{
			"status":  "error",
			"error":   err.Error(),
			"session": NewSessionView(session),
		})
		return
	}

	WriteJSON(w, http.StatusOK, NewSessionView(session))
}

// DownloadHTMLHandler handles GET /api/sessions/{id}/document.html
func (h *SessionHandler) DownloadHTMLHandler(w http.ResponseWriter, r *http.Request, id string) {
	session, err := h.sessions.Get(r.Context(), id)
	if err != nil {
		WriteError(w, StatusForError(err), err.Error())
		return
	}
	if session.HTML == "" || session.HTMLFileName == "" {
		WriteError(w, http.StatusNotFound, "No document has been generated for this session")
		return
	}
	writeDownload(w, "text/html; charset=utf-8", session.HTMLFileName, []byte(session.HTML))
}

// DownloadPDFHandler handles GET /api/sessions/{id}/document.pdf
func (h *SessionHandler) DownloadPDFHandler(w http.ResponseWriter, r *http.Request, id string) {
	session, err := h.sessions.Get(r.Context(), id)
	if err != nil {
		WriteError(w, StatusForError(err), err.Error())
		return
	}
	if len(session.PDF) == 0 || session.PDFFileName == "" {
		WriteError(w, http.StatusNotFound, "No PDF has been generated for this session")
		return
	}
	writeDownload(w, "application/pdf", session.PDFFileName, session.PDF)
}
