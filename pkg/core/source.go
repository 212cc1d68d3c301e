package core

import "context"

// Query narrows a source item listing. The repository and the open-state
// filter are fixed by the source configuration; Author and Search are
// optional refinements.
type Query struct {
	Author string // only items authored by this login
	Search string // free-form source search expression
}

// Source is the contract for the external system the engine reconciles
// against. Implementations must degrade gracefully: an absent or
// unparseable response is an empty result, not an error that aborts a run.
type Source interface {
	// OpenItems lists the currently open items matching the query.
	OpenItems(ctx context.Context, q Query) ([]Item, error)

	// Mentions lists personal mentions of the operator.
	Mentions(ctx context.Context) ([]Mention, error)

	// ItemState reports the current lifecycle state of the item at url.
	ItemState(ctx context.Context, url string) (ItemState, error)
}

// Enricher produces a richer per-item artifact and returns a link to it.
// Failure modes are signalled with the sentinel errors in errors.go; the
// caller degrades to a link-less entry on any of them.
type Enricher interface {
	Enrich(ctx context.Context, item Item) (link string, err error)
}

// Notification is a fire-and-forget push message.
type Notification struct {
	Title    string
	Body     string
	Priority int
	Tags     []string
}

// Notifier pushes notifications to a configured endpoint. Push failures
// are logged by the caller and never retried.
type Notifier interface {
	Push(ctx context.Context, n Notification) error
}
