package app

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"hedgerisk/internal/config"
	"hedgerisk/internal/service"
	"hedgerisk/internal/storage"
)

// App aggregates configuration and shared dependencies for the CLI commands.
type App struct {
	Config *config.Config
	Logger zerolog.Logger
	// Out receives the printed tables.
	Out io.Writer
}

// NewApp constructs a new application handle.
func NewApp(cfg *config.Config, logger zerolog.Logger) *App {
	return &App{Config: cfg, Logger: logger.With().Str("component", "app").Logger(), Out: os.Stdout}
}

// Overrides carry command-line values that take precedence over the
// configuration. Zero values leave the configuration untouched.
type Overrides struct {
	Seed    *uint64
	Paths   int
	Workers int
	Method  string
	OutDir  string
	PNG     bool
}

func (a *App) apply(o Overrides) error {
	if o.Seed != nil {
		a.Config.Simulation.Seed = *o.Seed
		a.Config.Risk.Seed = *o.Seed
	}
	if o.Paths > 0 {
		a.Config.Risk.Paths = o.Paths
	}
	if o.Workers > 0 {
		a.Config.Risk.Workers = o.Workers
	}
	if o.Method != "" {
		a.Config.Swap.Method = o.Method
	}
	if o.OutDir != "" {
		a.Config.Export.Dir = o.OutDir
	}
	if o.PNG {
		a.Config.Export.PNG = true
	}
	return a.Config.Validate()
}

func (a *App) openStore(ctx context.Context) (*storage.Store, func(), error) {
	if a.Config.Risk.HistorySource != "database" || a.Config.Database.DSN == "" {
		return nil, nil, nil
	}

	pool, err := storage.NewPool(ctx, a.Config.Database)
	if err != nil {
		return nil, nil, err
	}

	store := storage.NewStore(pool, a.Config.Database.HistoryTable)
	closer := func() {
		store.Close()
	}
	return store, closer, nil
}

// pipeline builds the orchestrator after applying o. The returned closer is
// never nil.
func (a *App) pipeline(ctx context.Context, o Overrides) (*service.Pipeline, func(), error) {
	if err := a.apply(o); err != nil {
		return nil, func() {}, err
	}

	store, closeStore, err := a.openStore(ctx)
	if err != nil {
		return nil, func() {}, err
	}
	if closeStore == nil {
		closeStore = func() {}
	}

	var history storage.HistorySource
	if store != nil {
		history = store
	}

	p, err := service.New(a.Config, history, a.Logger)
	if err != nil {
		closeStore()
		return nil, func() {}, err
	}
	return p, closeStore, nil
}

// withSignals cancels ctx on SIGINT or SIGTERM.
func withSignals(ctx context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
}
