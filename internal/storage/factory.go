package storage

import (
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/onboarder/internal/common"
	"github.com/ternarybob/onboarder/internal/interfaces"
	"github.com/ternarybob/onboarder/internal/storage/badger"
)

// NewStorageManager opens the Badger storage manager. reset_on_startup is
// ignored in production.
func NewStorageManager(logger arbor.ILogger, config *common.Config) (interfaces.StorageManager, error) {
	badgerConfig := config.Storage.Badger
	if badgerConfig.ResetOnStartup && config.IsProduction() {
		logger.Warn().Str("path", badgerConfig.Path).Msg("Ignoring reset_on_startup in production")
		badgerConfig.ResetOnStartup = false
	}

	manager, err := badger.NewManager(logger, &badgerConfig)
	if err != nil {
		return nil, err
	}
	return manager, nil
}
