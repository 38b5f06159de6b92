// Package cli provides common CLI initialization utilities shared by the
// budget subcommands: environment loading, logging, configuration and
// opening the ledger on the configured backend.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"budget/internal/aggregate"
	"budget/internal/backend"
	"budget/internal/cache"
	"budget/internal/config"
	"budget/internal/core"
	"budget/internal/ledger"
	"budget/internal/log"
	"budget/internal/storage"
)

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as this is optional.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// SetupLogger builds the process logger and installs it as the slog default.
func SetupLogger(level string, out io.Writer) *log.Logger {
	if out == nil {
		out = os.Stderr
	}
	logger := log.New(log.Config{
		Level:     log.ParseLevel(level),
		Component: log.ComponentApp,
		Output:    out,
	})
	log.SetDefault(logger)
	return logger
}

// Overrides are command-line values that win over file and environment.
type Overrides struct {
	Backend  string
	DataDir  string
	LogLevel string
}

// LoadAndValidateConfig loads configuration from path (or the default
// location when empty), applies overrides and validates the result.
func LoadAndValidateConfig(path string, o Overrides) (*config.Config, error) {
	if path == "" {
		path = config.FilePath()
	}
	cfg, err := config.LoadFrom(path)
	if err != nil {
		return nil, err
	}

	if o.Backend != "" {
		cfg.DataBackend = o.Backend
	}
	if o.DataDir != "" {
		cfg.DataDir = o.DataDir
	}
	if o.LogLevel != "" {
		cfg.LogLevel = o.LogLevel
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Session is an opened ledger plus everything that must be released with it.
type Session struct {
	Store    *ledger.Store
	Config   *config.Config
	Caches   *cache.Manager
	Currency string
	cleanup  backend.CleanupFunc
}

// OpenStore creates the configured KV backend and loads the ledger from it.
func OpenStore(ctx context.Context, cfg *config.Config, logger *log.Logger) (*Session, error) {
	bcfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return nil, err
	}

	res, err := backend.NewFactory(logger).CreateBackend(ctx, bcfg)
	if err != nil {
		return nil, err
	}

	caches := cache.NewManager(logger)
	var summarizer aggregate.Summarizer = aggregate.Pure{}
	if cfg.SummaryCacheSize > 0 {
		lru := cache.NewLRUCache[core.Summary](cfg.SummaryCacheSize, cfg.SummaryCacheTTL)
		caches.Register(lru)
		summarizer = aggregate.NewCached(lru, logger)
	}

	store := ledger.Open(ctx, storage.NewAdapter(res.KV, logger),
		ledger.WithSummarizer(summarizer),
		ledger.WithLogger(logger))

	return &Session{
		Store:    store,
		Config:   cfg,
		Caches:   caches,
		Currency: cfg.Currency,
		cleanup:  res.Cleanup,
	}, nil
}

// Close stops cache maintenance and releases the backend.
func (s *Session) Close() error {
	s.Caches.Stop()
	if s.cleanup != nil {
		if err := s.cleanup(); err != nil {
			return fmt.Errorf("close backend: %w", err)
		}
	}
	return nil
}

// SignalContext returns a context cancelled on SIGINT or SIGTERM.
func SignalContext(parent context.Context, logger *log.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(sigChan)

		select {
		case sig := <-sigChan:
			logger.Info("Shutdown signal received", "signal", sig.String())
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, cancel
}

// ShutdownTimeout bounds graceful shutdown of long-running commands.
const ShutdownTimeout = 30 * time.Second
