package vault

import (
	"github.com/aretw0/introspection"
)

// UpdaterState exposes internal state for observability.
type UpdaterState struct {
	Path          string `json:"path"`
	Marker        string `json:"marker"`
	SettleDelayMS int64  `json:"settle_delay_ms"`
	MaxAttempts   int    `json:"max_attempts"`
}

// State implements introspection.Introspectable.
func (u *Updater) State() any {
	return UpdaterState{
		Path:          u.Path,
		Marker:        u.marker(),
		SettleDelayMS: u.SettleDelay.Milliseconds(),
		MaxAttempts:   u.Backoff.MaxAttempts,
	}
}

// ComponentType implements introspection.Component.
func (u *Updater) ComponentType() string {
	return "updater"
}

var _ introspection.Introspectable = (*Updater)(nil)
var _ introspection.Component = (*Updater)(nil)
