// -----------------------------------------------------------------------
// Application wiring - explicit dependency construction
// -----------------------------------------------------------------------

package app

import (
	"context"
	"fmt"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/lectio/internal/common"
	"github.com/ternarybob/lectio/internal/handlers"
	"github.com/ternarybob/lectio/internal/interfaces"
	"github.com/ternarybob/lectio/internal/services/answers"
	"github.com/ternarybob/lectio/internal/services/chunker"
	"github.com/ternarybob/lectio/internal/services/documents"
	"github.com/ternarybob/lectio/internal/services/embeddings"
	"github.com/ternarybob/lectio/internal/services/index"
	"github.com/ternarybob/lectio/internal/services/pdf"
	"github.com/ternarybob/lectio/internal/services/query"
	"github.com/ternarybob/lectio/internal/services/retrieval"
	badgerstore "github.com/ternarybob/lectio/internal/storage/badger"
	"github.com/ternarybob/lectio/internal/storage/files"
)

// App holds all application components and dependencies
type App struct {
	Config         *common.Config
	Logger         arbor.ILogger
	StorageManager interfaces.StorageManager

	// Pipeline services
	FileStorage      interfaces.FileStorage
	PDFExtractor     interfaces.PDFExtractor
	EmbeddingService interfaces.EmbeddingService
	VectorIndex      interfaces.VectorIndex
	Retriever        interfaces.Retriever
	AnswerService    interfaces.AnswerService
	DocumentService  interfaces.DocumentService
	QueryService     interfaces.QueryService

	// HTTP handlers
	APIHandler      *handlers.APIHandler
	DocumentHandler *handlers.DocumentHandler
	QueryHandler    *handlers.QueryHandler
	SettingsHandler *handlers.SettingsHandler
}

// New initializes the application with all dependencies
func New(cfg *common.Config, logger arbor.ILogger) (*App, error) {
	app := &App{
		Config: cfg,
		Logger: logger,
	}

	if err := app.initStorage(); err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}
	if err := app.initServices(); err != nil {
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}
	app.initHandlers()

	logger.Info().
		Str("embedding_model", app.EmbeddingService.ModelName()).
		Str("claude_model", cfg.Claude.Model).
		Msg("Application initialization complete")

	return app, nil
}

// initStorage initializes the storage layer (Badger plus document files)
func (a *App) initStorage() error {
	storageManager, err := badgerstore.NewManager(a.Logger, &a.Config.Storage.Badger)
	if err != nil {
		return err
	}
	a.StorageManager = storageManager

	fileStorage, err := files.NewFileStorage(a.Config.Storage.Filesystem.Documents, a.Logger)
	if err != nil {
		storageManager.Close()
		return err
	}
	a.FileStorage = fileStorage

	a.Logger.Debug().
		Str("storage", "badger").
		Str("path", a.Config.Storage.Badger.Path).
		Str("documents", a.Config.Storage.Filesystem.Documents).
		Msg("Storage layer initialized")
	return nil
}

// initServices builds the document and query pipelines
func (a *App) initServices() error {
	a.PDFExtractor = pdf.NewExtractor(a.Logger)

	embedder, err := embeddings.NewGeminiService(&a.Config.Embedding, a.Logger)
	if err != nil {
		return err
	}
	a.EmbeddingService = embedder

	a.VectorIndex = index.NewService(a.StorageManager.ChunkStorage(), a.EmbeddingService, a.Logger)
	a.Retriever = retrieval.NewRetriever(a.VectorIndex, a.Logger)

	// A key stored through the settings API wins over config and env
	claudeConfig := a.Config.Claude
	if key, err := a.StorageManager.KeyValueStorage().Get(context.Background(), handlers.ClaudeKeySettingKey); err == nil && key != "" {
		claudeConfig.APIKey = key
	}
	generator, err := answers.NewClaudeService(&claudeConfig, a.Logger)
	if err != nil {
		return err
	}
	a.AnswerService = generator

	a.DocumentService = documents.NewService(
		a.StorageManager.DocumentStorage(),
		a.FileStorage,
		a.PDFExtractor,
		chunker.New(a.Config.Chunking),
		a.VectorIndex,
		a.Logger,
	)

	a.QueryService = query.NewService(
		a.Retriever,
		a.AnswerService,
		a.StorageManager.DocumentStorage(),
		a.StorageManager.KeyValueStorage(),
		&a.Config.Retrieval,
		a.Logger,
	)
	return nil
}

// initHandlers builds the HTTP handlers
func (a *App) initHandlers() {
	a.APIHandler = handlers.NewAPIHandler()
	a.DocumentHandler = handlers.NewDocumentHandler(a.DocumentService, a.Logger)
	a.QueryHandler = handlers.NewQueryHandler(a.QueryService, a.Logger)
	a.SettingsHandler = handlers.NewSettingsHandler(a.StorageManager.KeyValueStorage(), a.Config, a.Logger)
}

// Close releases application resources
func (a *App) Close() error {
	if a.StorageManager != nil {
		if err := a.StorageManager.Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("Failed to close storage manager")
			return err
		}
	}
	a.Logger.Debug().Msg("Application closed")
	return nil
}
