// Package engine runs one reconciliation pass: fetch, classify, cancel,
// render, merge, notify.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/mgreten/revq/pkg/classify"
	"github.com/mgreten/revq/pkg/core"
	"github.com/mgreten/revq/pkg/git"
	"github.com/mgreten/revq/pkg/ledger"
	"github.com/mgreten/revq/pkg/vault"
)

// Engine wires the collaborators of one invocation. One Engine serves
// one run at a time; the pipeline is single-threaded and cooperative.
type Engine struct {
	Operator string
	Source   core.Source
	Notifier core.Notifier // nil disables pushes entirely
	Ledger   *ledger.Ledger
	Updater  *vault.Updater
	Renderer *vault.Renderer
	Git      *git.Client // nil disables vault versioning

	// Rules builds the ranked rule sets for a run. The mention urls come
	// from the per-run mentions-of-operator search.
	Rules func(mentionURLs map[string]struct{}) []classify.RuleSet

	GeneralCap    int
	DryRun        bool
	PriorityOnly  bool // reduced-scope mode: the two priority categories only
	Notify        bool // push alerts in addition to computing tasks
	ForceRollover bool

	Logger *slog.Logger
	Now    func() time.Time // nil means time.Now
}

func (e *Engine) now() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now()
}

func (e *Engine) logger() *slog.Logger {
	if e.Logger != nil {
		return e.Logger
	}
	return slog.Default()
}

// Run executes one reconciliation pass. Component-local failures are
// reported in the summary and never unwind the pipeline; only the
// advisory lock refusal surfaces as an error.
func (e *Engine) Run(ctx context.Context) (*Summary, error) {
	runID := uuid.NewString()
	log := e.logger().With("run", runID[:8])
	day := e.now()

	sum := &Summary{RunID: runID, Day: day, PerCategory: make(map[core.Category]int)}

	if !e.DryRun {
		unlock, err := vault.AcquireLock(e.Updater.Path, log)
		if err != nil {
			return sum, err
		}
		defer unlock()
	}

	// Fetch. A source degradation yields empty sets, never a dead run.
	items, err := e.Source.OpenItems(ctx, core.Query{})
	if err != nil {
		log.Warn("item fetch failed, continuing with empty set", "error", err)
	}
	log.Info("fetched open items", "count", len(items))

	mentionURLs := e.fetchMentionURLs(ctx, log, &items)

	// Cancellation must complete before dedup so freshly-cancelled urls
	// do not block re-creation under a different category.
	if cancelled, err := e.Updater.CancelStale(ctx, e.Source.ItemState); err != nil {
		log.Error("cancellation pass failed", "error", err)
		sum.Degraded = append(sum.Degraded, "cancel: "+err.Error())
	} else {
		sum.Cancelled = cancelled
	}

	content, err := e.Updater.Read()
	if err != nil {
		// Without the document there is no dedup index; the merge side
		// of the run is abandoned, notifications still proceed.
		log.Error("document unreadable, skipping merge pass", "error", err)
		sum.Degraded = append(sum.Degraded, "merge: "+err.Error())
	}

	resolver := &classify.Resolver{
		Operator:   e.Operator,
		Rules:      e.activeRules(mentionURLs),
		GeneralCap: e.GeneralCap,
		Logger:     log,
	}
	isNew := func(url string) bool { return !vault.ContainsURL(content, url) }
	partition := resolver.Partition(items, isNew)

	// Priority gating needs no document, so priority alerts survive an
	// unreadable store; only rendering, merge and rollover are abandoned.
	priorityItems := e.gatePriority(log, partition)

	if err == nil {
		entries := e.render(ctx, log, partition, isNew, day, sum, priorityItems)

		if mergeErr := e.Updater.Merge(ctx, entries); mergeErr != nil {
			log.Error("merge pass failed", "error", mergeErr)
			sum.Degraded = append(sum.Degraded, "merge: "+mergeErr.Error())
		} else {
			sum.NewEntries = len(entries)
		}

		if len(entries) > 0 || e.ForceRollover {
			if rolled, rollErr := e.Updater.Rollover(ctx, day); rollErr != nil {
				log.Error("rollover pass failed", "error", rollErr)
				sum.Degraded = append(sum.Degraded, "rollover: "+rollErr.Error())
			} else {
				sum.Rolled = rolled
			}
		}
	}

	e.commitDocument(ctx, log, day, sum)

	e.notifyAll(ctx, log, day, priorityItems, sum)

	log.Info("run complete",
		"new", sum.NewEntries,
		"cancelled", sum.Cancelled,
		"rolled", sum.Rolled,
		"notified", sum.Notified,
		"degraded", len(sum.Degraded))
	return sum, nil
}

// commitDocument snapshots a mutated document in the vault's history.
// Vaults without a git repository are left alone.
func (e *Engine) commitDocument(ctx context.Context, log *slog.Logger, day time.Time, sum *Summary) {
	if e.Git == nil || e.DryRun {
		return
	}
	if sum.NewEntries+sum.Cancelled+sum.Rolled == 0 {
		return
	}
	if !e.Git.IsRepo(ctx) {
		return
	}

	rel, err := filepath.Rel(e.Git.WorkDir, e.Updater.Path)
	if err != nil {
		rel = e.Updater.Path
	}
	msg := fmt.Sprintf("revq: %d new, %d cancelled (%s)",
		sum.NewEntries, sum.Cancelled, day.Format("2006-01-02"))
	if err := e.Git.CommitDocument(ctx, rel, msg); err != nil {
		log.Warn("vault commit failed", "error", err)
	}
}

// fetchMentionURLs runs the mentions-of-operator search and folds any
// items it surfaced into the run's item set.
func (e *Engine) fetchMentionURLs(ctx context.Context, log *slog.Logger, items *[]core.Item) map[string]struct{} {
	urls := make(map[string]struct{})
	if e.PriorityOnly {
		return urls
	}

	found, err := e.Source.OpenItems(ctx, core.Query{Search: "mentions:" + e.Operator})
	if err != nil {
		log.Warn("mention search failed, continuing without", "error", err)
		return urls
	}

	seen := make(map[string]struct{}, len(*items))
	for _, it := range *items {
		seen[it.URL] = struct{}{}
	}
	for _, it := range found {
		if it.Author == e.Operator {
			continue
		}
		urls[it.URL] = struct{}{}
		if _, ok := seen[it.URL]; !ok {
			*items = append(*items, it)
		}
	}
	return urls
}

// activeRules narrows the rule sets in reduced-scope mode.
func (e *Engine) activeRules(mentionURLs map[string]struct{}) []classify.RuleSet {
	rules := e.Rules(mentionURLs)
	if !e.PriorityOnly {
		return rules
	}
	var narrowed []classify.RuleSet
	for _, r := range rules {
		if r.Category.NeedsReviewGate() {
			narrowed = append(narrowed, r)
		}
	}
	return narrowed
}

type priorityItem struct {
	item     core.Item
	category core.Category
}

// gatePriority runs the review-need evaluator over the two priority
// categories and keeps the items still awaiting the operator.
func (e *Engine) gatePriority(log *slog.Logger, p classify.Partition) []priorityItem {
	var priority []priorityItem
	for _, cat := range core.Categories() {
		if !cat.NeedsReviewGate() {
			continue
		}
		for _, item := range p.Items[cat] {
			if classify.ReviewNeed(item, e.Operator) != classify.NeedsReview {
				log.Debug("review satisfied, skipping", "url", item.URL)
				continue
			}
			priority = append(priority, priorityItem{item: item, category: cat})
		}
	}
	return priority
}

// render builds entries for every newly-seen classified item. The two
// priority categories render only the items that passed the review-need
// gate; FollowUp and General render regardless.
func (e *Engine) render(ctx context.Context, log *slog.Logger, p classify.Partition, isNew func(string) bool, day time.Time, sum *Summary, priority []priorityItem) []core.TaskEntry {
	gated := make(map[string]struct{}, len(priority))
	for _, pi := range priority {
		gated[pi.item.URL] = struct{}{}
	}

	var entries []core.TaskEntry
	for _, cat := range core.Categories() {
		for _, item := range p.Items[cat] {
			if cat.NeedsReviewGate() {
				if _, ok := gated[item.URL]; !ok {
					continue
				}
			}

			if !isNew(item.URL) {
				log.Debug("entry exists, deduplicated", "url", item.URL)
				continue
			}

			entry := e.Renderer.Render(ctx, item, cat, day)
			entries = append(entries, entry)
			sum.PerCategory[cat]++

			if e.DryRun {
				log.Info("dry-run: would add entry", "category", cat.String(), "url", item.URL)
			}
		}
	}

	return entries
}
