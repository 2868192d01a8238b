package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/onboarder/internal/common"
	"github.com/ternarybob/onboarder/internal/models"
)

func TestNewStorageManager_ResetOnStartup(t *testing.T) {
	tests := []struct {
		name        string
		environment string
		wantKept    bool
	}{
		{name: "development resets", environment: "development", wantKept: false},
		{name: "production keeps data", environment: "production", wantKept: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := common.NewDefaultConfig()
			cfg.Environment = tt.environment
			cfg.Storage.Badger.Path = t.TempDir()
			logger := arbor.NewLogger()
			ctx := context.Background()

			first, err := NewStorageManager(logger, cfg)
			require.NoError(t, err)
			require.NoError(t, first.SessionStorage().SaveSession(ctx, &models.Session{ID: "ses_1"}))
			require.NoError(t, first.Close())

			cfg.Storage.Badger.ResetOnStartup = true
			second, err := NewStorageManager(logger, cfg)
			require.NoError(t, err)
			defer second.Close()

			_, err = second.SessionStorage().GetSession(ctx, "ses_1")
			if tt.wantKept {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, models.ErrSessionNotFound)
			}
		})
	}
}
