package vault

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aretw0/lifecycle"
	"github.com/fsnotify/fsnotify"

	"github.com/mgreten/revq/pkg/backoff"
	"github.com/mgreten/revq/pkg/core"
)

// DefaultMarker is the Active-section marker line new entries are
// inserted beneath.
const DefaultMarker = "## Active"

// DefaultSettleDelay is waited out before touching the document, to
// reduce contention with a concurrent editor.
const DefaultSettleDelay = 2 * time.Second

// Updater merges rendered entries into the task document, cancels stale
// entries and re-stamps dates. The document may be a symbolic reference;
// every write rewrites the referenced content in place and never
// replaces the reference itself.
type Updater struct {
	Path        string
	Marker      string        // empty means DefaultMarker
	SettleDelay time.Duration // zero disables the settle window
	Backoff     backoff.Policy
	Logger      *slog.Logger
	DryRun      bool // log would-be writes instead of applying them
}

// NewUpdater creates an updater for the document at path.
func NewUpdater(path string, logger *slog.Logger) *Updater {
	return &Updater{
		Path:        path,
		Marker:      DefaultMarker,
		SettleDelay: DefaultSettleDelay,
		Backoff:     backoff.Default(),
		Logger:      logger,
	}
}

func (u *Updater) marker() string {
	if u.Marker == "" {
		return DefaultMarker
	}
	return u.Marker
}

// Read polls the document for readability under the retry budget and
// returns its content. Exhausting the budget yields ErrStoreUnreadable.
func (u *Updater) Read() (string, error) {
	var content []byte
	err := u.Backoff.Retry(func() error {
		b, err := os.ReadFile(u.Path)
		if err != nil {
			return err
		}
		content = b
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", core.ErrStoreUnreadable, u.Path, err)
	}
	return string(content), nil
}

// settle waits out the contention window. A write to the document during
// the wait indicates an active editor and extends the window once.
func (u *Updater) settle(ctx context.Context) {
	if u.SettleDelay <= 0 {
		return
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		time.Sleep(u.SettleDelay)
		return
	}
	defer watcher.Close()

	// Watch the directory: editors often replace the file object, which
	// a watch on the file itself would lose.
	if err := watcher.Add(filepath.Dir(u.Path)); err != nil {
		time.Sleep(u.SettleDelay)
		return
	}

	activity := make(chan struct{}, 1)
	probeCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	lifecycle.Go(probeCtx, func(ctx context.Context) error {
		for {
			select {
			case <-ctx.Done():
				return nil
			case event, ok := <-watcher.Events:
				if !ok {
					return nil
				}
				if event.Name != u.Path {
					continue
				}
				if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
					select {
					case activity <- struct{}{}:
					default:
					}
				}
			case _, ok := <-watcher.Errors:
				if !ok {
					return nil
				}
			}
		}
	}, lifecycle.WithErrorHandler(func(err error) {
		if u.Logger != nil {
			u.Logger.Debug("settle probe error", "error", err)
		}
	}))

	time.Sleep(u.SettleDelay)
	select {
	case <-activity:
		if u.Logger != nil {
			u.Logger.Debug("editor activity during settle window, extending wait")
		}
		time.Sleep(u.SettleDelay)
	default:
	}
}

// insertAfterMarker builds the merged content in a scratch buffer,
// placing the new lines directly beneath the marker line and leaving
// every other line byte-identical.
func (u *Updater) insertAfterMarker(content string, lines []string) (string, error) {
	docLines := strings.Split(content, "\n")
	at := -1
	for i, line := range docLines {
		if strings.TrimSpace(line) == u.marker() {
			at = i
			break
		}
	}
	if at < 0 {
		return "", fmt.Errorf("marker line %q not found in %s", u.marker(), u.Path)
	}

	merged := make([]string, 0, len(docLines)+len(lines))
	merged = append(merged, docLines[:at+1]...)
	merged = append(merged, lines...)
	merged = append(merged, docLines[at+1:]...)
	return strings.Join(merged, "\n"), nil
}

// applyInPlace rewrites the content of the existing document object:
// open, truncate, write, sync. No rename, so a symbolic reference to the
// path keeps pointing at the same file.
func (u *Updater) applyInPlace(content string) error {
	if u.DryRun {
		if u.Logger != nil {
			u.Logger.Info("dry-run: would rewrite document", "path", u.Path, "bytes", len(content))
		}
		return nil
	}

	f, err := os.OpenFile(u.Path, os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("open document for write: %w", err)
	}

	if _, err := f.WriteString(content); err != nil {
		f.Close()
		return fmt.Errorf("write document: %w", err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return fmt.Errorf("sync document: %w", err)
	}
	return f.Close()
}

// Merge inserts the rendered entries beneath the Active marker. An empty
// batch short-circuits without touching the document.
func (u *Updater) Merge(ctx context.Context, entries []core.TaskEntry) error {
	if len(entries) == 0 {
		return nil
	}

	u.settle(ctx)

	content, err := u.Read()
	if err != nil {
		return err
	}

	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		lines = append(lines, FormatEntry(e))
	}

	merged, err := u.insertAfterMarker(content, lines)
	if err != nil {
		return err
	}

	if u.Logger != nil {
		u.Logger.Info("merging entries into document", "count", len(entries), "path", u.Path)
	}
	return u.applyInPlace(merged)
}

// Rollover re-stamps the trailing date on every still-open entry to the
// given day, under the same read-retry discipline as Merge. It returns
// the number of lines rewritten.
func (u *Updater) Rollover(ctx context.Context, day time.Time) (int, error) {
	content, err := u.Read()
	if err != nil {
		return 0, err
	}

	docLines := strings.Split(content, "\n")
	changed := 0
	for i, line := range docLines {
		parsed, ok := ParseLine(line)
		if !ok || parsed.State != core.EntryOpen {
			continue
		}
		stamped := restamp(line, day)
		if stamped != line {
			docLines[i] = stamped
			changed++
		}
	}

	if changed == 0 {
		return 0, nil
	}
	if u.Logger != nil {
		u.Logger.Info("rolling over entry dates", "count", changed, "day", day.Format(DateFormat))
	}
	return changed, u.applyInPlace(strings.Join(docLines, "\n"))
}

// CancelStale flips open entries whose item has merged or closed to the
// cancelled state, leaving them visible in history. Entries whose state
// cannot be verified are left alone. It returns the number of entries
// cancelled.
func (u *Updater) CancelStale(ctx context.Context, stateOf func(ctx context.Context, url string) (core.ItemState, error)) (int, error) {
	content, err := u.Read()
	if err != nil {
		return 0, err
	}

	docLines := strings.Split(content, "\n")
	cancelled := 0
	for i, line := range docLines {
		parsed, ok := ParseLine(line)
		if !ok || parsed.State != core.EntryOpen {
			continue
		}

		state, err := stateOf(ctx, parsed.URL)
		if err != nil {
			if u.Logger != nil {
				u.Logger.Warn("state lookup failed, leaving entry open", "url", parsed.URL, "error", err)
			}
			continue
		}
		if state != core.StateMerged && state != core.StateClosed {
			continue
		}

		docLines[i] = setState(line, core.EntryCancelled)
		cancelled++
		if u.Logger != nil {
			u.Logger.Info("cancelling stale entry", "url", parsed.URL, "state", string(state))
		}
	}

	if cancelled == 0 {
		return 0, nil
	}
	return cancelled, u.applyInPlace(strings.Join(docLines, "\n"))
}
