package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/onboarder/internal/common"
	"github.com/ternarybob/onboarder/internal/interfaces"
	"github.com/ternarybob/onboarder/internal/models"
)

func newTestFactory(cfg *common.Config) *ProviderFactory {
	return NewProviderFactory(&cfg.Gemini, &cfg.Claude, &cfg.LLM, arbor.NewLogger())
}

func TestDetectProvider(t *testing.T) {
	cfg := common.NewDefaultConfig()
	f := newTestFactory(cfg)

	tests := []struct {
		model string
		want  ProviderType
	}{
		{"", ProviderClaude},
		{"claude-haiku-4-5", ProviderClaude},
		{"anthropic/claude-sonnet-4-5", ProviderClaude},
		{"gemini-2.5-flash", ProviderGemini},
		{"google/gemini-2.5-pro", ProviderGemini},
		{"something-else", ProviderClaude},
	}

	for _, tt := range tests {
		t.Run(tt.model, func(t *testing.T) {
			assert.Equal(t, tt.want, f.DetectProvider(tt.model))
		})
	}

	cfg.LLM.DefaultProvider = common.LLMProviderGemini
	assert.Equal(t, ProviderGemini, f.DetectProvider(""))
}

func TestNormalizeModel(t *testing.T) {
	f := newTestFactory(common.NewDefaultConfig())
	assert.Equal(t, "claude-haiku-4-5", f.NormalizeModel("claude/claude-haiku-4-5"))
	assert.Equal(t, "gemini-2.5-flash", f.NormalizeModel("Google/gemini-2.5-flash"))
	assert.Equal(t, "plain", f.NormalizeModel("plain"))
}

func TestAvailableFor(t *testing.T) {
	cfg := common.NewDefaultConfig()
	f := newTestFactory(cfg)
	assert.False(t, f.AvailableFor(""))

	cfg.Claude.APIKey = "key"
	assert.True(t, f.AvailableFor(""))
	assert.True(t, f.AvailableFor("claude-sonnet-4-5"))
	assert.False(t, f.AvailableFor("gemini-2.5-flash"))

	cfg.LLM.DefaultProvider = common.LLMProviderGemini
	assert.False(t, f.AvailableFor(""))
	assert.True(t, f.AvailableFor("anthropic/claude-haiku-4-5"))

	cfg.Gemini.APIKey = "gkey"
	assert.True(t, f.AvailableFor("google/gemini-2.5-pro"))
}

func TestGenerateContent_NoKeyIsNotConfigured(t *testing.T) {
	f := newTestFactory(common.NewDefaultConfig())

	_, err := f.GenerateContent(context.Background(), &interfaces.ContentRequest{
		Messages: []interfaces.Message{{Role: "user", Content: "hi"}},
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrLLMNotConfigured))
}

func TestConvertMessages(t *testing.T) {
	messages := []interfaces.Message{
		{Role: "system", Content: "You are an expert technical writer."},
		{Role: "user", Content: "Summarize"},
	}

	claudeMessages, system, err := convertMessagesToClaude(messages)
	require.NoError(t, err)
	assert.Len(t, claudeMessages, 1)
	assert.Equal(t, "You are an expert technical writer.", system)

	contents, system, err := convertMessagesToGemini(messages)
	require.NoError(t, err)
	assert.Len(t, contents, 1)
	assert.Equal(t, "user", contents[0].Role)
	assert.Equal(t, "You are an expert technical writer.", system)

	_, _, err = convertMessagesToClaude([]interfaces.Message{{Role: "system", Content: "only"}})
	assert.Error(t, err)
	_, _, err = convertMessagesToGemini(nil)
	assert.Error(t, err)
}
