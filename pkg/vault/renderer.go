package vault

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/mgreten/revq/pkg/core"
)

// DefaultTitleWidth is the display width titles are truncated to.
const DefaultTitleWidth = 48

// Renderer turns a classified item into a task entry, consulting the
// enrichment collaborator for a richer artifact link.
type Renderer struct {
	Enricher   core.Enricher // nil disables enrichment
	TitleWidth int           // 0 means DefaultTitleWidth
	Logger     *slog.Logger
}

// Render builds the entry for an item under the given category, stamped
// with the given day. Enrichment is best effort: any failure degrades
// the entry to its link-less form and never blocks task creation.
func (r *Renderer) Render(ctx context.Context, item core.Item, cat core.Category, day time.Time) core.TaskEntry {
	width := r.TitleWidth
	if width <= 0 {
		width = DefaultTitleWidth
	}

	entry := core.TaskEntry{
		State:     core.EntryOpen,
		Category:  cat,
		Label:     TruncateTitle(item.Title, width) + " — " + item.Author,
		URL:       item.URL,
		Additions: item.Additions,
		Deletions: item.Deletions,
		Date:      day,
	}

	if r.Enricher == nil {
		return entry
	}

	link, err := r.Enricher.Enrich(ctx, item)
	switch {
	case err == nil:
		entry.EnrichmentLink = link
	case errors.Is(err, core.ErrEnrichSkipped):
		// Below the size policy; nothing to log.
	case errors.Is(err, core.ErrEnrichUnavailable):
		if r.Logger != nil {
			r.Logger.Debug("enrichment unavailable", "item", item.ID)
		}
	default:
		if r.Logger != nil {
			r.Logger.Warn("enrichment failed", "item", item.ID, "error", err)
		}
	}

	return entry
}
