package engine

import (
	"github.com/aretw0/introspection"
)

// EngineState exposes internal state for observability.
type EngineState struct {
	Operator     string `json:"operator"`
	DryRun       bool   `json:"dry_run"`
	PriorityOnly bool   `json:"priority_only"`
	Notify       bool   `json:"notify"`
	GeneralCap   int    `json:"general_cap"`
	Updater      any    `json:"updater,omitempty"`
}

// State implements introspection.Introspectable.
func (e *Engine) State() any {
	state := EngineState{
		Operator:     e.Operator,
		DryRun:       e.DryRun,
		PriorityOnly: e.PriorityOnly,
		Notify:       e.Notify,
		GeneralCap:   e.GeneralCap,
	}
	if e.Updater != nil {
		state.Updater = e.Updater.State()
	}
	return state
}

// ComponentType implements introspection.Component.
func (e *Engine) ComponentType() string {
	return "engine"
}

var _ introspection.Introspectable = (*Engine)(nil)
var _ introspection.Component = (*Engine)(nil)
