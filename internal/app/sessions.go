package app

import (
	"context"
	"strings"
	"sync"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/onboarder/internal/common"
	"github.com/ternarybob/onboarder/internal/interfaces"
	"github.com/ternarybob/onboarder/internal/models"
)

// SessionManager loads, locks and saves sessions around pipeline steps.
// Steps on one session run one at a time; different sessions run concurrently.
type SessionManager struct {
	store    interfaces.SessionStorage
	defaults common.DocumentConfig
	logger   arbor.ILogger

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewSessionManager creates a session manager over store
func NewSessionManager(store interfaces.SessionStorage, defaults common.DocumentConfig, logger arbor.ILogger) *SessionManager {
	return &SessionManager{
		store:    store,
		defaults: defaults,
		logger:   logger,
		locks:    make(map[string]*sync.Mutex),
	}
}

// Create starts a session. Empty author or company fall back to the
// configured defaults.
func (m *SessionManager) Create(ctx context.Context, repoURL, author, company string) (*models.Session, error) {
	author = strings.TrimSpace(author)
	if author == "" {
		author = m.defaults.DefaultAuthor
	}
	company = strings.TrimSpace(company)
	if company == "" {
		company = m.defaults.DefaultCompany
	}

	session := &models.Session{
		ID:      common.NewSessionID(),
		RepoURL: strings.TrimSpace(repoURL),
		Author:  author,
		Company: company,
	}
	if err := m.store.SaveSession(ctx, session); err != nil {
		return nil, err
	}

	m.logger.Debug().Str("session_id", session.ID).Str("repo_url", session.RepoURL).Msg("Session created")
	return session, nil
}

// Get loads a session without locking it
func (m *SessionManager) Get(ctx context.Context, id string) (*models.Session, error) {
	return m.store.GetSession(ctx, id)
}

// List returns recent sessions, newest first
func (m *SessionManager) List(ctx context.Context, limit int) ([]*models.Session, error) {
	return m.store.ListSessions(ctx, limit)
}

// Delete removes a session
func (m *SessionManager) Delete(ctx context.Context, id string) error {
	lock := m.lockFor(id)
	lock.Lock()
	defer lock.Unlock()

	err := m.store.DeleteSession(ctx, id)

	m.mu.Lock()
	delete(m.locks, id)
	m.mu.Unlock()

	return err
}

// Update runs step on the stored session under its lock and saves the result,
// including any error slot the step wrote. The step's error is returned
// alongside the saved session.
func (m *SessionManager) Update(ctx context.Context, id string, step func(*models.Session) error) (*models.Session, error) {
	lock := m.lockFor(id)
	lock.Lock()
	defer lock.Unlock()

	session, err := m.store.GetSession(ctx, id)
	if err != nil {
		return nil, err
	}

	stepErr := step(session)

	// Persist with a fresh context so a cancelled request still records its outcome
	if err := m.store.SaveSession(context.WithoutCancel(ctx), session); err != nil {
		m.logger.Error().Str("session_id", id).Err(err).Msg("Failed to save session")
		if stepErr == nil {
			stepErr = err
		}
	}

	return session, stepErr
}

func (m *SessionManager) lockFor(id string) *sync.Mutex {
	m.mu.Lock()
	defer m.mu.Unlock()

	lock, ok := m.locks[id]
	if !ok {
		lock = &sync.Mutex{}
		m.locks[id] = lock
	}
	return lock
}
