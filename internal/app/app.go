package app

import (
	"fmt"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/onboarder/internal/common"
	"github.com/ternarybob/onboarder/internal/handlers"
	"github.com/ternarybob/onboarder/internal/interfaces"
	"github.com/ternarybob/onboarder/internal/storage"
)

// App holds all application components and dependencies
type App struct {
	Config         *common.Config
	Logger         arbor.ILogger
	StorageManager interfaces.StorageManager

	Services *Services
	Sessions *SessionManager

	// HTTP handlers
	APIHandler     *handlers.APIHandler
	StatusHandler  *handlers.StatusHandler
	SessionHandler *handlers.SessionHandler
	PageHandler    *handlers.PageHandler
}

// New initializes the application with all dependencies
func New(cfg *common.Config, logger arbor.ILogger) (*App, error) {
	app := &App{
		Config: cfg,
		Logger: logger,
	}

	if err := app.initDatabase(); err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	if err := app.initServices(); err != nil {
		_ = app.StorageManager.Close()
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	app.initHandlers()

	logger.Info().
		Bool("llm_ready", app.Services.Pipeline.LLMReady()).
		Str("pdf_mode", app.Services.Pipeline.PDFMode()).
		Msg("Application initialization complete")

	return app, nil
}

// initDatabase initializes the storage layer (Badger)
func (a *App) initDatabase() error {
	storageManager, err := storage.NewStorageManager(a.Logger, a.Config)
	if err != nil {
		return fmt.Errorf("failed to create storage manager: %w", err)
	}

	a.StorageManager = storageManager
	a.Logger.Debug().
		Str("storage", "badger").
		Str("path", a.Config.Storage.Badger.Path).
		Msg("Storage layer initialized")

	return nil
}

// initServices builds the pipeline and the session manager
func (a *App) initServices() error {
	services, err := NewServices(a.Config, a.Logger)
	if err != nil {
		return err
	}
	a.Services = services
	a.Sessions = NewSessionManager(a.StorageManager.SessionStorage(), a.Config.Document, a.Logger)
	return nil
}

// initHandlers creates the HTTP handlers
func (a *App) initHandlers() {
	a.APIHandler = handlers.NewAPIHandler(a.Logger)
	a.StatusHandler = handlers.NewStatusHandler(a.Services.Pipeline, string(a.Services.LLM.DetectProvider(a.Config.Summarizer.Model)), a.Services.SummaryModel(a.Config.Summarizer.Model), a.Logger)
	a.SessionHandler = handlers.NewSessionHandler(a.Sessions, a.Services.Pipeline, a.Logger)
	a.PageHandler = handlers.NewPageHandler(a.Logger, a.Config.Document)
}

// Close releases services and closes storage
func (a *App) Close() error {
	if a.Services != nil {
		if err := a.Services.Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("Failed to close LLM service")
		}
	}

	if a.StorageManager != nil {
		if err := a.StorageManager.Close(); err != nil {
			return fmt.Errorf("failed to close storage: %w", err)
		}
		a.Logger.Info().Msg("Storage closed")
	}

	return nil
}
