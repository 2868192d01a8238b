package models

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidReference is returned when a repository URL cannot be parsed into owner and name
	ErrInvalidReference = errors.New("invalid repository reference")
	// ErrUpstreamUnavailable is returned when repository metadata or the file tree cannot be read
	ErrUpstreamUnavailable = errors.New("upstream repository service unavailable")
	// ErrMissingInput is returned when a required user input is empty
	ErrMissingInput = errors.New("missing required input")
	// ErrPreconditionFailed is returned when a step runs before the step it depends on
	ErrPreconditionFailed = errors.New("precondition failed")
	// ErrLLMNotConfigured is returned when no text generation API key is available
	ErrLLMNotConfigured = errors.New("text generation API key not configured")
	// ErrSessionNotFound is returned when a session ID is unknown
	ErrSessionNotFound = errors.New("session not found")
)

// RenderErrorKind classifies PDF rendering failures
type RenderErrorKind string

const (
	RenderErrorTimeout           RenderErrorKind = "timeout"
	RenderErrorConnectionRefused RenderErrorKind = "connection_refused"
	RenderErrorBadStatus         RenderErrorKind = "bad_status"
	RenderErrorInvalidPDF        RenderErrorKind = "invalid_pdf"
	RenderErrorFailed            RenderErrorKind = "failed"
)

// RenderError is returned by PDF renderers
type RenderError struct {
	Kind       RenderErrorKind
	StatusCode int
	Body       string
	Err        error
}

func (e *RenderError) Error() string {
	switch e.Kind {
	case RenderErrorBadStatus:
		return fmt.Sprintf("pdf rendering failed with status %d: %s", e.StatusCode, e.Body)
	default:
		if e.Err != nil {
			return fmt.Sprintf("pdf rendering %s: %v", e.Kind, e.Err)
		}
		return fmt.Sprintf("pdf rendering %s", e.Kind)
	}
}

func (e *RenderError) Unwrap() error {
	return e.Err
}

// UserMessage returns the message shown to the user for this failure kind
func (e *RenderError) UserMessage() string {
	switch e.Kind {
	case RenderErrorTimeout:
		return "PDF generation timed out. The document may be too large or the PDF service is busy."
	case RenderErrorConnectionRefused:
		return "Cannot connect to the PDF service. Make sure it is running."
	case RenderErrorBadStatus:
		return fmt.Sprintf("PDF service returned error %d: %s", e.StatusCode, e.Body)
	case RenderErrorInvalidPDF:
		return "PDF service returned a document that is not a valid PDF."
	default:
		return fmt.Sprintf("Error generating PDF: %v", e.Err)
	}
}
