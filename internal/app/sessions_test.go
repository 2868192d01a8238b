package app

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/onboarder/internal/common"
	"github.com/ternarybob/onboarder/internal/models"
	"github.com/ternarybob/onboarder/internal/services/llm"
	"github.com/ternarybob/onboarder/internal/services/onboarding"
	"github.com/ternarybob/onboarder/internal/services/summary"
	"github.com/ternarybob/onboarder/internal/storage/badger"
)

func newTestSessions(t *testing.T) *SessionManager {
	t.Helper()
	manager, err := badger.NewManager(arbor.NewLogger(), &common.BadgerConfig{Path: t.TempDir()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = manager.Close() })
	return NewSessionManager(manager.SessionStorage(), common.NewDefaultConfig().Document, arbor.NewLogger())
}

func TestSessionManager_CreateAppliesDefaults(t *testing.T) {
	sessions := newTestSessions(t)

	s, err := sessions.Create(context.Background(), " https://github.com/acme/widgets ", "", "  ")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(s.ID, "ses_"))
	assert.Equal(t, "https://github.com/acme/widgets", s.RepoURL)
	assert.Equal(t, "Riddhi Shah", s.Author)
	assert.Equal(t, "Bazel Inc.", s.Company)

	got, err := sessions.Get(context.Background(), s.ID)
	require.NoError(t, err)
	assert.Equal(t, s.RepoURL, got.RepoURL)
}

func TestSessionManager_UpdatePersistsErrorSlots(t *testing.T) {
	sessions := newTestSessions(t)
	ctx := context.Background()
	s, err := sessions.Create(ctx, "https://github.com/acme/widgets", "Ada", "Acme")
	require.NoError(t, err)

	stepErr := errors.New("boom")
	updated, err := sessions.Update(ctx, s.ID, func(s *models.Session) error {
		s.FetchError = "failed"
		return stepErr
	})
	assert.Same(t, stepErr, err)
	require.NotNil(t, updated)

	got, err := sessions.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, "failed", got.FetchError)
}

func TestSessionManager_UpdateUnknownSession(t *testing.T) {
	sessions := newTestSessions(t)

	s, err := sessions.Update(context.Background(), "ses_nope", func(*models.Session) error { return nil })
	assert.Nil(t, s)
	assert.True(t, errors.Is(err, models.ErrSessionNotFound))
}

func TestSessionManager_UpdatesAreSerialised(t *testing.T) {
	sessions := newTestSessions(t)
	ctx := context.Background()
	s, err := sessions.Create(ctx, "https://github.com/acme/widgets", "", "")
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := sessions.Update(ctx, s.ID, func(s *models.Session) error {
				s.PDFPages++
				return nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	got, err := sessions.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, got.PDFPages)
}

func TestSessionManager_Delete(t *testing.T) {
	sessions := newTestSessions(t)
	ctx := context.Background()
	s, err := sessions.Create(ctx, "https://github.com/acme/widgets", "", "")
	require.NoError(t, err)

	require.NoError(t, sessions.Delete(ctx, s.ID))
	_, err = sessions.Get(ctx, s.ID)
	assert.True(t, errors.Is(err, models.ErrSessionNotFound))
}

func TestPipeline_EndToEndWithRealServices(t *testing.T) {
	cfg := common.NewDefaultConfig()
	logger := arbor.NewLogger()

	summarySvc, err := summary.NewService(&fakeGenerator{available: true}, &llm.RetryPolicy{MaxAttempts: 1}, cfg.Summarizer, logger)
	require.NoError(t, err)
	renderer, err := onboarding.NewRenderer(cfg.Document, cfg.GitHub, logger)
	require.NoError(t, err)

	pipeline := NewPipeline(&fakeFetcher{result: widgetsResult()}, &fakeGenerator{available: true}, summarySvc, renderer, nil, logger)

	s := &models.Session{ID: "ses_e2e", RepoURL: "https://github.com/acme/widgets", Author: "Riddhi Shah", Company: "Bazel Inc."}
	require.NoError(t, pipeline.Run(context.Background(), s, true))

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s.HTML))
	require.NoError(t, err)
	assert.Equal(t, 2, doc.Find(".section").Length())
	assert.Contains(t, doc.Find(".cover-page").Text(), "widgets")
	assert.Contains(t, doc.Find(".cover-page").Text(), "Riddhi Shah")
}

func TestPipeline_LLMReadyFollowsSummaryModel(t *testing.T) {
	tests := []struct {
		name      string
		model     string
		claudeKey string
		geminiKey string
		ready     bool
	}{
		{name: "default provider with key", claudeKey: "ck", ready: true},
		{name: "gemini model with only claude key", model: "gemini-2.5-flash", claudeKey: "ck", ready: false},
		{name: "gemini model with gemini key", model: "gemini/gemini-2.5-flash", geminiKey: "gk", ready: true},
		{name: "default provider without its key", geminiKey: "gk", ready: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := common.NewDefaultConfig()
			cfg.LLM.DefaultProvider = common.LLMProviderClaude
			cfg.Claude.APIKey = tt.claudeKey
			cfg.Gemini.APIKey = tt.geminiKey
			cfg.Summarizer.Model = tt.model
			logger := arbor.NewLogger()

			factory := llm.NewProviderFactory(&cfg.Gemini, &cfg.Claude, &cfg.LLM, logger)
			summarySvc, err := summary.NewService(factory, &llm.RetryPolicy{MaxAttempts: 1}, cfg.Summarizer, logger)
			require.NoError(t, err)
			renderer, err := onboarding.NewRenderer(cfg.Document, cfg.GitHub, logger)
			require.NoError(t, err)

			pipeline := NewPipeline(&fakeFetcher{result: widgetsResult()}, factory, summarySvc, renderer, nil, logger)
			assert.Equal(t, tt.ready, pipeline.LLMReady())

			if !tt.ready {
				s := &models.Session{ID: "ses_llm", RepoURL: "https://github.com/acme/widgets"}
				require.NoError(t, pipeline.Fetch(context.Background(), s))
				err := pipeline.Summarize(context.Background(), s)
				assert.True(t, errors.Is(err, models.ErrLLMNotConfigured))
				assert.NotEmpty(t, s.SummaryError)
				assert.Empty(t, s.Summaries)
			}
		})
	}
}
