package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aretw0/stepwise/internal/config"
	"github.com/aretw0/stepwise/pkg/adapters/file"
	"github.com/aretw0/stepwise/pkg/adapters/memory"
	"github.com/aretw0/stepwise/pkg/adapters/redis"
	"github.com/aretw0/stepwise/pkg/catalog"
	"github.com/aretw0/stepwise/pkg/domain"
	"github.com/aretw0/stepwise/pkg/driver"
	"github.com/aretw0/stepwise/pkg/playback"
	"github.com/aretw0/stepwise/pkg/ports"
	"github.com/aretw0/stepwise/pkg/progress"
)

// App bundles the components shared by every command.
type App struct {
	Config  config.Config
	Logger  *slog.Logger
	Catalog *catalog.Catalog
	Tracker *progress.Tracker

	closers []func() error
}

// NewApp loads the catalog and opens the configured progress store.
func NewApp(cfg config.Config, logger *slog.Logger) (*App, error) {
	cat, err := catalog.Default()
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}

	store, trackerOpts, closeStore, err := OpenStore(cfg.Store)
	if err != nil {
		return nil, err
	}
	trackerOpts = append(trackerOpts, progress.WithLogger(logger))

	app := &App{
		Config:  cfg,
		Logger:  logger,
		Catalog: cat,
		Tracker: progress.NewTracker(store, trackerOpts...),
	}
	if closeStore != nil {
		app.closers = append(app.closers, closeStore)
	}
	return app, nil
}

// OpenStore builds the progress store selected by cfg. The redis backend also
// returns a distributed lock so several processes can share one profile.
func OpenStore(cfg config.StoreConfig) (ports.ProgressStore, []progress.Option, func() error, error) {
	switch cfg.Backend {
	case config.BackendMemory:
		return memory.NewStore(), nil, nil, nil
	case config.BackendFile, "":
		return file.New(cfg.Path), nil, nil, nil
	case config.BackendRedis:
		opts := []redis.Option{redis.WithTTL(cfg.Redis.TTL)}
		if cfg.Redis.Prefix != "" {
			opts = append(opts, redis.WithPrefix(cfg.Redis.Prefix))
		}
		store := redis.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, opts...)
		locker := redis.NewLocker(store.Client(), store.Prefix())
		return store, []progress.Option{progress.WithLocker(locker)}, store.Close, nil
	}
	return nil, nil, nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
}

// DriverOptions returns the session options implied by the configuration,
// followed by extra.
func (a *App) DriverOptions(extra ...driver.Option) []driver.Option {
	opts := []driver.Option{
		driver.WithLogger(a.Logger),
		driver.WithSpeed(a.Config.Playback.DefaultSpeed),
		driver.WithEngineOptions(playback.WithBaseInterval(a.Config.Playback.BaseInterval)),
	}
	return append(opts, extra...)
}

// ProblemID resolves a slug or numeric key to the catalog ID progress is kept under.
func (a *App) ProblemID(key string) (int, error) {
	p, err := a.Catalog.Get(key)
	if err != nil {
		return 0, err
	}
	return p.ID, nil
}

// Close releases the store connection, if any.
func (a *App) Close() error {
	var errs []error
	for _, c := range a.closers {
		if err := c(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// settingsOrDefault loads the profile settings, falling back to the defaults
// when the store cannot be read.
func (a *App) settingsOrDefault(ctx context.Context, profile string) domain.Settings {
	p, err := a.Tracker.Load(ctx, profile)
	if err != nil {
		a.Logger.Warn("Failed to load progress settings", "profile", profile, "error", err)
		return domain.DefaultSettings()
	}
	return p.Settings
}
