package models

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderError_UserMessageDistinctPerKind(t *testing.T) {
	kinds := []*RenderError{
		{Kind: RenderErrorTimeout, Err: errors.New("deadline")},
		{Kind: RenderErrorConnectionRefused, Err: errors.New("refused")},
		{Kind: RenderErrorBadStatus, StatusCode: 500, Body: "boom"},
		{Kind: RenderErrorInvalidPDF},
		{Kind: RenderErrorFailed, Err: errors.New("other")},
	}

	seen := map[string]bool{}
	for _, e := range kinds {
		msg := e.UserMessage()
		assert.NotEmpty(t, msg)
		assert.False(t, seen[msg], "duplicate message for %s", e.Kind)
		seen[msg] = true
	}

	assert.Contains(t, kinds[2].UserMessage(), "500")
	assert.Contains(t, kinds[2].Error(), "boom")
}

func TestRenderError_Unwrap(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	wrapped := fmt.Errorf("generate: %w", &RenderError{Kind: RenderErrorConnectionRefused, Err: cause})

	var renderErr *RenderError
	assert.True(t, errors.As(wrapped, &renderErr))
	assert.Equal(t, RenderErrorConnectionRefused, renderErr.Kind)
	assert.True(t, errors.Is(wrapped, cause))
}

func TestSessionResets(t *testing.T) {
	s := &Session{
		Repository:    &RepositoryRef{Owner: "o", Name: "r", Branch: "main"},
		MarkdownFiles: map[string]string{"README.md": "# hi"},
		Summaries:     map[string]string{"README.md": "sum"},
		HTML:          "<html>",
		PDF:           []byte("%PDF"),
		PDFError:      "bad",
	}
	assert.True(t, s.HasFetched())
	assert.True(t, s.HasSummaries())

	s.ResetOutputs()
	assert.Empty(t, s.HTML)
	assert.Nil(t, s.PDF)
	assert.Empty(t, s.PDFError)
	assert.True(t, s.HasSummaries())

	s.ResetFetch()
	assert.False(t, s.HasFetched())
	assert.False(t, s.HasSummaries())
}

func TestSession_ClearFetchedKeepsOutputs(t *testing.T) {
	s := &Session{
		Repository:    &RepositoryRef{Owner: "acme", Name: "widgets", Branch: "main"},
		MarkdownFiles: map[string]string{"README.md": "# hi"},
		ImageFiles:    []string{"img/logo.png"},
		Summaries:     map[string]string{"README.md": "sum"},
		HTML:          "<html>",
		HTMLFileName:  "widgets_onboarding.html",
		PDF:           []byte("%PDF"),
		PDFFileName:   "widgets_onboarding.pdf",
	}

	s.ClearFetched()
	assert.Nil(t, s.Repository)
	assert.Nil(t, s.MarkdownFiles)
	assert.Nil(t, s.ImageFiles)
	assert.Equal(t, map[string]string{"README.md": "sum"}, s.Summaries)
	assert.Equal(t, "<html>", s.HTML)
	assert.Equal(t, "widgets_onboarding.html", s.HTMLFileName)
	assert.Equal(t, "widgets_onboarding.pdf", s.PDFFileName)

	s.ResetOutputs()
	assert.Empty(t, s.HTMLFileName)
	assert.Empty(t, s.PDFFileName)
}
