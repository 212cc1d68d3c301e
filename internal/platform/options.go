package platform

import (
	"log/slog"
	"time"

	"github.com/mgreten/revq/pkg/core"
	"github.com/mgreten/revq/pkg/ledger"
)

// options holds the internal configuration for the factory.
type options struct {
	logger      *slog.Logger
	source      core.Source
	notifier    core.Notifier
	enricher    core.Enricher
	ledgerStore ledger.Store
	now         func() time.Time
}

// Option defines a functional option for configuring the engine build.
type Option func(*options)

func defaultOptions() *options {
	return &options{}
}

// WithLogger sets the logger for every component.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithSource replaces the gh-backed item source (useful for testing).
func WithSource(src core.Source) Option {
	return func(o *options) {
		o.source = src
	}
}

// WithNotifier replaces the ntfy-backed push client.
func WithNotifier(n core.Notifier) Option {
	return func(o *options) {
		o.notifier = n
	}
}

// WithEnricher replaces the subprocess enrichment runner.
func WithEnricher(e core.Enricher) Option {
	return func(o *options) {
		o.enricher = e
	}
}

// WithLedgerStore replaces the file-backed notification ledger store.
func WithLedgerStore(s ledger.Store) Option {
	return func(o *options) {
		o.ledgerStore = s
	}
}

// WithNow fixes the clock (useful for testing day boundaries).
func WithNow(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}
