package core

import "time"

// EntryState is the checkbox state of a persisted task line.
type EntryState string

const (
	EntryOpen      EntryState = " "
	EntryDone      EntryState = "x"
	EntryCancelled EntryState = "-"
)

// TaskEntry is a single rendered line representing an item's outstanding
// review obligation. Once merged into the document it is owned by the
// document; the engine only flips its state or re-stamps its date.
type TaskEntry struct {
	State          EntryState
	Category       Category
	Label          string
	URL            string
	Additions      int
	Deletions      int
	EnrichmentLink string // wikilink target, empty when enrichment was skipped
	Date           time.Time
}
