package models

import "time"

// Session holds the state of one onboarding run across its fetch, summarize
// and generate steps. Each step writes its output or its error slot; an
// error slot is cleared when the step next succeeds.
type Session struct {
	ID      string `json:"id" badgerhold:"key"`
	RepoURL string `json:"repo_url"`
	Author  string `json:"author"`
	Company string `json:"company"`

	Repository    *RepositoryRef    `json:"repository,omitempty"`
	MarkdownFiles map[string]string `json:"markdown_files,omitempty"`
	ImageFiles    []string          `json:"image_files,omitempty"`
	Summaries     map[string]string `json:"summaries,omitempty"`
	HTML          string            `json:"-"`
	HTMLFileName  string            `json:"html_file_name,omitempty"`
	PDF           []byte            `json:"-"`
	PDFFileName   string            `json:"pdf_file_name,omitempty"`
	PDFPages      int               `json:"pdf_pages,omitempty"`

	FetchError   string `json:"fetch_error,omitempty"`
	SummaryError string `json:"summary_error,omitempty"`
	HTMLError    string `json:"html_error,omitempty"`
	PDFError     string `json:"pdf_error,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// HasFetched reports whether markdown content is available for summarization
func (s *Session) HasFetched() bool {
	return s.Repository != nil && len(s.MarkdownFiles) > 0
}

// HasSummaries reports whether summaries are available for rendering
func (s *Session) HasSummaries() bool {
	return s.Repository != nil && len(s.Summaries) > 0
}

// ClearFetched drops the fetched repository, files and images only
func (s *Session) ClearFetched() {
	s.Repository = nil
	s.MarkdownFiles = nil
	s.ImageFiles = nil
}

// ResetFetch clears fetched content and everything derived from it
func (s *Session) ResetFetch() {
	s.ClearFetched()
	s.ResetSummaries()
}

// ResetSummaries clears summaries and the rendered outputs
func (s *Session) ResetSummaries() {
	s.Summaries = nil
	s.SummaryError = ""
	s.ResetOutputs()
}

// ResetOutputs clears rendered HTML and PDF
func (s *Session) ResetOutputs() {
	s.HTML = ""
	s.HTMLFileName = ""
	s.PDF = nil
	s.PDFFileName = ""
	s.PDFPages = 0
	s.HTMLError = ""
	s.PDFError = ""
}
