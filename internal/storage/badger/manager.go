package badger

import (
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/onboarder/internal/common"
	"github.com/ternarybob/onboarder/internal/interfaces"
)

// Manager implements the StorageManager interface for Badger
type Manager struct {
	db      *BadgerDB
	session *SessionStorage
	logger  arbor.ILogger
}

var _ interfaces.StorageManager = (*Manager)(nil)

// NewManager opens the Badger database and its stores
func NewManager(logger arbor.ILogger, config *common.BadgerConfig) (*Manager, error) {
	db, err := NewBadgerDB(logger, config)
	if err != nil {
		return nil, err
	}

	manager := &Manager{
		db:      db,
		session: NewSessionStorage(db, logger),
		logger:  logger,
	}

	logger.Info().Str("path", config.Path).Msg("Badger storage manager initialized")

	return manager, nil
}

// SessionStorage returns the session store
func (m *Manager) SessionStorage() interfaces.SessionStorage {
	return m.session
}

// Close closes the database
func (m *Manager) Close() error {
	return m.db.Close()
}
