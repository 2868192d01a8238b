package badger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/onboarder/internal/interfaces"
	"github.com/ternarybob/onboarder/internal/models"
	"github.com/timshannon/badgerhold/v4"
)

// SessionStorage persists onboarding sessions in Badger
type SessionStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

var _ interfaces.SessionStorage = (*SessionStorage)(nil)

// NewSessionStorage creates a new SessionStorage instance
func NewSessionStorage(db *BadgerDB, logger arbor.ILogger) *SessionStorage {
	return &SessionStorage{
		db:     db,
		logger: logger,
	}
}

// SaveSession upserts a session and stamps UpdatedAt
func (s *SessionStorage) SaveSession(ctx context.Context, session *models.Session) error {
	if session.ID == "" {
		return fmt.Errorf("session ID is required")
	}

	now := time.Now()
	if session.CreatedAt.IsZero() {
		session.CreatedAt = now
	}
	session.UpdatedAt = now

	if err := s.db.Store().Upsert(session.ID, session); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// GetSession returns models.ErrSessionNotFound for unknown IDs
func (s *SessionStorage) GetSession(ctx context.Context, id string) (*models.Session, error) {
	var session models.Session
	if err := s.db.Store().Get(id, &session); err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", models.ErrSessionNotFound, id)
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return &session, nil
}

// ListSessions returns the most recently updated sessions first.
// A limit of zero or less returns all sessions.
func (s *SessionStorage) ListSessions(ctx context.Context, limit int) ([]*models.Session, error) {
	query := badgerhold.Where("ID").Ne("").SortBy("UpdatedAt").Reverse()
	if limit > 0 {
		query = query.Limit(limit)
	}

	var sessions []models.Session
	if err := s.db.Store().Find(&sessions, query); err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}

	result := make([]*models.Session, len(sessions))
	for i := range sessions {
		result[i] = &sessions[i]
	}
	return result, nil
}

// DeleteSession removes a session. Deleting an unknown ID is not an error.
func (s *SessionStorage) DeleteSession(ctx context.Context, id string) error {
	if err := s.db.Store().Delete(id, &models.Session{}); err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("failed to delete session: %w", err)
	}
	s.logger.Debug().Str("session_id", id).Msg("Session deleted")
	return nil
}
