package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/at-ishikawa/alg/internal/assets"
	"github.com/at-ishikawa/alg/internal/bootstrap"
	"github.com/at-ishikawa/alg/internal/config"
	"github.com/at-ishikawa/alg/internal/database"
	"github.com/at-ishikawa/alg/internal/learning"
	"github.com/at-ishikawa/alg/internal/settings"
	"github.com/at-ishikawa/alg/internal/vocabulary"
)

func loadConfig() (*config.Config, error) {
	loader, err := config.NewConfigLoader(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to create config loader: %w", err)
	}
	cfg, err := loader.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}

func loadCatalog(cfg *config.Config) (*vocabulary.Catalog, error) {
	catalog, err := vocabulary.NewReader().ReadCatalog(cfg.Catalog.WordsFile)
	if err != nil {
		return nil, fmt.Errorf("vocabulary.ReadCatalog() > %w", err)
	}
	return catalog, nil
}

// openDatabase opens the configured database. The SQLite directory is created when missing.
func openDatabase(cfg config.DatabaseConfig) (*sqlx.DB, error) {
	if cfg.Driver == "sqlite3" {
		if err := os.MkdirAll(filepath.Dir(cfg.Path), 0755); err != nil {
			return nil, fmt.Errorf("os.MkdirAll > %w", err)
		}
	}
	db, err := database.Open(cfg)
	if err != nil {
		return nil, fmt.Errorf("database.Open() > %w", err)
	}
	return db, nil
}

// openLearningState loads the known, ignored and favorite words from the configured backend.
// A database connection is closed by a shutdown hook of app.
func openLearningState(ctx context.Context, cfg *config.Config, app *bootstrap.App) (*learning.State, error) {
	var repository learning.StateRepository
	switch cfg.Learning.Backend {
	case "database":
		db, err := openDatabase(cfg.Database)
		if err != nil {
			return nil, err
		}
		app.AddShutdownHook("database", func(ctx context.Context) error {
			return db.Close()
		})
		if _, err := database.Migrate(ctx, db, slog.Default()); err != nil {
			return nil, fmt.Errorf("database.Migrate() > %w", err)
		}
		repository = learning.NewDBStateRepository(db)
	default:
		repository = learning.NewYAMLStateRepository(cfg.Learning.StateFile)
	}

	state, err := learning.NewState(ctx, repository)
	if err != nil {
		return nil, fmt.Errorf("learning.NewState() > %w", err)
	}
	return state, nil
}

func openSettings(cfg *config.Config) (*settings.ViperStore, *settings.Settings, error) {
	store, err := settings.NewViperStore(cfg.Settings.File, slog.Default())
	if err != nil {
		return nil, nil, fmt.Errorf("settings.NewViperStore() > %w", err)
	}
	values, err := settings.New(store)
	if err != nil {
		return nil, nil, fmt.Errorf("settings.New() > %w", err)
	}
	return store, values, nil
}

// newAssetService wires the audio cache to the asset host.
// Without a player binary the audio is only downloaded.
// The service and its HTTP client are closed by shutdown hooks of app.
func newAssetService(cfg *config.Config, catalog *vocabulary.Catalog, withPlayer bool, app *bootstrap.App) *assets.Service {
	logger := slog.Default()
	fetcher := assets.NewHTTPFetcher(assets.HTTPFetcherOptions{
		BaseURL:       cfg.Assets.BaseURL,
		Timeout:       time.Duration(cfg.Assets.TimeoutSeconds) * time.Second,
		RetryAttempts: cfg.Assets.RetryAttempts,
		Logger:        logger,
	})
	app.AddShutdownHook("asset host client", func(ctx context.Context) error {
		return fetcher.Close()
	})

	var player assets.Player
	if withPlayer {
		commandPlayer, err := assets.NewCommandPlayer(cfg.Assets.Player)
		if err != nil {
			logger.Warn("audio playback is disabled", "player", cfg.Assets.Player, "error", err)
		} else {
			logger.Debug("audio player", "command", commandPlayer.Command())
			player = commandPlayer
		}
	}

	service := assets.NewService(catalog, assets.NewFileCache(cfg.Assets.CacheDirectory), fetcher, player, logger)
	app.AddShutdownHook("audio", func(ctx context.Context) error {
		return service.Close()
	})
	return service
}
