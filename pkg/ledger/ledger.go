// Package ledger implements the day-scoped idempotency log that keeps
// repeated runs from re-sending notifications.
package ledger

import (
	"fmt"
	"log/slog"
	"time"
)

// DayFormat is the canonical day stamp used in ledger entries.
const DayFormat = "2006-01-02"

// Entry is one recorded notification: a scope key on a given day.
type Entry struct {
	Key string `json:"key"`
	Day string `json:"day"`
}

// Store persists ledger entries. Implementations: FileStore, MemStore.
type Store interface {
	Load() ([]Entry, error)
	Save(entries []Entry) error
}

// Ledger gates notifications on exact (scope key, day) pairs. The ledger
// is pruned to the current day on every write, so it stays small.
type Ledger struct {
	store   Store
	logger  *slog.Logger
	entries []Entry
	loaded  bool
}

// New creates a ledger over the given store.
func New(store Store, logger *slog.Logger) *Ledger {
	return &Ledger{store: store, logger: logger}
}

func (l *Ledger) load() {
	if l.loaded {
		return
	}
	entries, err := l.store.Load()
	if err != nil {
		if l.logger != nil {
			l.logger.Warn("ledger load failed, starting empty", "error", err)
		}
		entries = nil
	}
	l.entries = entries
	l.loaded = true
}

// ShouldNotify reports whether no entry with this exact key and day exists.
func (l *Ledger) ShouldNotify(key string, day time.Time) bool {
	l.load()
	stamp := day.Format(DayFormat)
	for _, e := range l.entries {
		if e.Key == key && e.Day == stamp {
			return false
		}
	}
	return true
}

// Record appends the (key, day) entry and prunes every entry from other
// days before persisting.
func (l *Ledger) Record(key string, day time.Time) error {
	l.load()
	stamp := day.Format(DayFormat)

	kept := l.entries[:0]
	for _, e := range l.entries {
		if e.Day == stamp {
			kept = append(kept, e)
		}
	}
	l.entries = append(kept, Entry{Key: key, Day: stamp})

	if err := l.store.Save(l.entries); err != nil {
		return fmt.Errorf("ledger save: %w", err)
	}
	return nil
}

// Scope key schemes, one per notification kind.

// PriorityKey scopes priority-category alerts to the item.
func PriorityKey(itemID string) string {
	return "prio:" + itemID
}

// MentionKey scopes personal-mention alerts to the mention identifier.
func MentionKey(mentionID string) string {
	return "mention:" + mentionID
}

// OwnItemKey scopes own-item activity alerts to the item plus its latest
// activity fingerprint, so new activity re-fires while quiet days stay
// silent.
func OwnItemKey(itemID string, latestActivity time.Time) string {
	return fmt.Sprintf("mypr:%s:%d", itemID, latestActivity.Unix())
}
