package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/mgreten/revq/pkg/core"
	"github.com/mgreten/revq/pkg/ledger"
)

// notifyAll pushes the three alert kinds, each gated by the day-scoped
// ledger. Transport failures are logged and never retried.
func (e *Engine) notifyAll(ctx context.Context, log *slog.Logger, day time.Time, priority []priorityItem, sum *Summary) {
	if !e.Notify || e.Notifier == nil {
		return
	}

	for _, pi := range priority {
		e.push(ctx, log, day, sum, ledger.PriorityKey(pi.item.ID), core.Notification{
			Title:    fmt.Sprintf("%s PR needs review", pi.category),
			Body:     fmt.Sprintf("%s by %s\n%s", pi.item.Title, pi.item.Author, pi.item.URL),
			Priority: 4,
			Tags:     []string{pi.category.String(), "code-review"},
		})
	}

	if !e.PriorityOnly {
		e.notifyMentions(ctx, log, day, sum)
		e.notifyOwnActivity(ctx, log, day, sum)
	}
}

func (e *Engine) notifyMentions(ctx context.Context, log *slog.Logger, day time.Time, sum *Summary) {
	mentions, err := e.Source.Mentions(ctx)
	if err != nil {
		log.Warn("mention fetch failed", "error", err)
		return
	}

	for _, m := range mentions {
		e.push(ctx, log, day, sum, ledger.MentionKey(m.ID), core.Notification{
			Title:    "You were mentioned",
			Body:     fmt.Sprintf("%s\n%s", m.Title, m.URL),
			Priority: 3,
			Tags:     []string{"mention"},
		})
	}
}

// notifyOwnActivity alerts on comments and reviews landing on the
// operator's own items. The ledger key carries the latest activity
// timestamp, so new activity re-fires while quiet repeats stay silent.
func (e *Engine) notifyOwnActivity(ctx context.Context, log *slog.Logger, day time.Time, sum *Summary) {
	own, err := e.Source.OpenItems(ctx, core.Query{Author: e.Operator})
	if err != nil {
		log.Warn("own-item fetch failed", "error", err)
		return
	}

	for _, item := range own {
		if len(item.Comments) == 0 && len(item.Reviews) == 0 {
			continue
		}
		e.push(ctx, log, day, sum, ledger.OwnItemKey(item.ID, item.LatestActivity()), core.Notification{
			Title:    "Activity on your PR",
			Body:     fmt.Sprintf("%s\n%s", item.Title, item.URL),
			Priority: 3,
			Tags:     []string{"my-pr"},
		})
	}
}

// push sends one ledger-gated notification and records it on success.
func (e *Engine) push(ctx context.Context, log *slog.Logger, day time.Time, sum *Summary, key string, n core.Notification) {
	if !e.Ledger.ShouldNotify(key, day) {
		log.Debug("notification already sent today", "key", key)
		return
	}

	if e.DryRun {
		log.Info("dry-run: would notify", "key", key, "title", n.Title)
		return
	}

	if err := e.Notifier.Push(ctx, n); err != nil {
		log.Error("notification push failed", "key", key, "error", err)
		return
	}
	if err := e.Ledger.Record(key, day); err != nil {
		log.Warn("ledger record failed", "key", key, "error", err)
	}
	sum.Notified++
}
