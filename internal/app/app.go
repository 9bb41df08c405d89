// Package app wires configuration, storage, services and handlers together.
package app

import (
	"context"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/prospecto/internal/common"
	"github.com/ternarybob/prospecto/internal/handlers"
	"github.com/ternarybob/prospecto/internal/interfaces"
	"github.com/ternarybob/prospecto/internal/services/chat"
	"github.com/ternarybob/prospecto/internal/services/research"
	"github.com/ternarybob/prospecto/internal/services/scheduler"
	"github.com/ternarybob/prospecto/internal/storage/badger"
)

// App holds all application components and dependencies
type App struct {
	Config *common.Config
	Logger arbor.ILogger

	DB        *badger.BadgerDB
	KVStorage interfaces.KeyValueStorage

	ResearchService interfaces.ResearchService
	ChatService     *chat.Service
	Scheduler       *scheduler.Service

	ResearchHandler *handlers.ResearchHandler
	ChatHandler     *handlers.ChatHandler
	StatusHandler   *handlers.StatusHandler
	WSHandler       *handlers.WebSocketHandler
}

// New builds the application graph. The returned App owns the database
// handle; callers must Close it.
func New(config *common.Config, logger arbor.ILogger) (*App, error) {
	a := &App{
		Config: config,
		Logger: logger,
	}

	common.SetDefaultExchange(config.Research.DefaultExchange)

	db, err := badger.NewBadgerDB(logger, &config.Storage.Badger)
	if err != nil {
		return nil, err
	}
	a.DB = db
	a.KVStorage = badger.NewKVStorage(db, logger)

	// API keys can live in the environment, the KV store, or the config
	// file; resolve them now so a missing credential is a request-time
	// error, not a startup failure.
	ctx := context.Background()
	if key, err := common.ResolveAPIKey(ctx, a.KVStorage, "gemini_api_key", config.Gemini.APIKey); err == nil {
		config.Gemini.APIKey = key
	}
	if key, err := common.ResolveAPIKey(ctx, a.KVStorage, "anthropic_api_key", config.Claude.APIKey); err == nil {
		config.Claude.APIKey = key
	}

	researchService := research.NewService(config, a.KVStorage, logger)
	a.ResearchService = researchService
	a.ChatService = chat.NewService(config, logger)
	a.Scheduler = scheduler.NewService(config.Refresh, researchService, logger)

	a.WSHandler = handlers.NewWebSocketHandler(logger)
	a.ChatService.AddListener(a.WSHandler)

	a.ResearchHandler = handlers.NewResearchHandler(a.ResearchService, logger)
	a.ChatHandler = handlers.NewChatHandler(a.ChatService, logger)
	a.StatusHandler = handlers.NewStatusHandler(config, a.Scheduler, logger)

	logger.Info().
		Str("environment", config.Environment).
		Bool("gemini_key", config.Gemini.APIKey != "").
		Bool("claude_key", config.Claude.APIKey != "").
		Msg("Application initialized")

	return a, nil
}

// Start launches background tasks.
func (a *App) Start() error {
	return a.Scheduler.Start()
}

// Close shuts down background tasks and releases the database.
func (a *App) Close() {
	a.Scheduler.Stop()
	a.ChatService.Close()
	a.WSHandler.Close()

	if a.DB != nil {
		if err := a.DB.Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("Failed to close database")
		}
	}
}
