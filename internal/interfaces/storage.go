package interfaces

import (
	"context"

	"github.com/ternarybob/onboarder/internal/models"
)

// SessionStorage persists onboarding sessions between requests
type SessionStorage interface {
	SaveSession(ctx context.Context, session *models.Session) error
	GetSession(ctx context.Context, id string) (*models.Session, error)
	ListSessions(ctx context.Context, limit int) ([]*models.Session, error)
	DeleteSession(ctx context.Context, id string) error
}

// StorageManager owns the storage backend and its stores
type StorageManager interface {
	SessionStorage() SessionStorage
	Close() error
}
