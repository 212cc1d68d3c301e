package revq

import (
	"log/slog"
	"time"

	"github.com/mgreten/revq/internal/platform"
	"github.com/mgreten/revq/pkg/core"
	"github.com/mgreten/revq/pkg/engine"
	"github.com/mgreten/revq/pkg/ledger"
)

// --- Types ---

// Config is a public alias for the file configuration.
type Config = platform.Config

// Summary is a public alias for the run report.
type Summary = engine.Summary

// --- Configuration ---

// Option defines a functional option for configuring the engine build.
type Option = platform.Option

// WithLogger sets the logger for every component.
func WithLogger(logger *slog.Logger) Option {
	return platform.WithLogger(logger)
}

// WithSource replaces the gh-backed item source.
func WithSource(src core.Source) Option {
	return platform.WithSource(src)
}

// WithNotifier replaces the ntfy-backed push client.
func WithNotifier(n core.Notifier) Option {
	return platform.WithNotifier(n)
}

// WithEnricher replaces the subprocess enrichment runner.
func WithEnricher(e core.Enricher) Option {
	return platform.WithEnricher(e)
}

// WithLedgerStore replaces the file-backed notification ledger store.
func WithLedgerStore(s ledger.Store) Option {
	return platform.WithLedgerStore(s)
}

// WithNow fixes the clock.
func WithNow(now func() time.Time) Option {
	return platform.WithNow(now)
}

// --- Factory ---

// New builds a ready-to-run Engine from configuration.
func New(cfg *Config, opts ...Option) (*engine.Engine, error) {
	return platform.New(cfg, opts...)
}

// LoadConfig reads and validates a config file.
func LoadConfig(path string) (*Config, error) {
	return platform.Load(path)
}

// DefaultConfigPath resolves the per-user config location.
func DefaultConfigPath() string {
	return platform.DefaultConfigPath()
}
