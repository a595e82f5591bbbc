package app

import (
	"fmt"
	"log/slog"

	"github.com/shhac/schemadesk/internal/mirror"
	"github.com/shhac/schemadesk/internal/orchestrator"
	"github.com/shhac/schemadesk/internal/remote"
	"github.com/shhac/schemadesk/internal/storage"
	"github.com/shhac/schemadesk/internal/tree"
)

const appName = "schemadesk"

// App is the main application coordinator, responsible for wiring
// together all components. It knows nothing about the user interface; a
// host is bound once the window or terminal exists.
type App struct {
	config *Config
	logger *slog.Logger

	backend *storage.JSONBackend
	store   *storage.Store
	client  *remote.Client
	mirror  *mirror.Mirror
	tree    *tree.HierarchyProvider
	actions tree.ActionProvider
}

// New creates a new App instance with the given configuration.
// This performs all dependency injection and wiring.
func New(cfg *Config, logger *slog.Logger) (*App, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	storagePath := cfg.StoragePath
	if storagePath == "" {
		var err error
		storagePath, err = storage.DefaultStoragePath()
		if err != nil {
			return nil, fmt.Errorf("failed to determine storage path: %w", err)
		}
	}
	mirrorRoot := cfg.MirrorRoot
	if mirrorRoot == "" {
		mirrorRoot = storage.DefaultMirrorRoot()
	}

	logger.Info("initializing schemadesk",
		slog.Bool("debug", cfg.Debug),
		slog.String("storage_path", storagePath),
		slog.String("mirror_root", mirrorRoot),
		slog.String("api_base_url", cfg.APIBaseURL))

	backend := storage.NewJSONBackend(storagePath, logger)
	store := storage.NewStore(backend, logger)

	return &App{
		config:  cfg,
		logger:  logger,
		backend: backend,
		store:   store,
		client:  remote.NewClient(cfg.APIBaseURL, logger, remote.WithTimeout(cfg.RequestTimeout())),
		mirror:  mirror.NewOS(mirrorRoot, logger),
		tree:    tree.NewHierarchyProvider(store, logger),
	}, nil
}

// Orchestrator builds the flow runner for a host
func (a *App) Orchestrator(host orchestrator.Host) *orchestrator.Orchestrator {
	return orchestrator.New(a.client, a.store, a.mirror, a.tree, host, a.logger, orchestrator.Config{
		FanoutLimit:           a.config.FanoutLimit,
		ValidateBeforePublish: a.config.ValidateBeforePublish,
	})
}

// Config returns the loaded configuration
func (a *App) Config() *Config {
	return a.config
}

// Logger returns the application logger.
func (a *App) Logger() *slog.Logger {
	return a.logger
}

// Store returns the keyed list cache
func (a *App) Store() *storage.Store {
	return a.store
}

// StatePath returns the location of the state file
func (a *App) StatePath() string {
	return a.backend.Path()
}

// Mirror returns the schema file mirror
func (a *App) Mirror() *mirror.Mirror {
	return a.mirror
}

// Tree returns the hierarchy provider backing the API tree
func (a *App) Tree() *tree.HierarchyProvider {
	return a.tree
}

// Actions returns the provider backing the action pane
func (a *App) Actions() tree.ActionProvider {
	return a.actions
}
