// Package vault renders task entries and merges them into the
// human-edited task document inside the Obsidian vault.
package vault

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/mgreten/revq/pkg/core"
)

// DateMarker precedes the date stamp on every task line.
const DateMarker = "📅"

// DateFormat is the trailing date stamp format.
const DateFormat = "2006-01-02"

// taskLineRe recognizes lines owned by this engine. The tag pair is the
// ownership marker; human-written lines without it are never touched.
var taskLineRe = regexp.MustCompile(`^- \[( |x|-)\] #task #code-review `)

var dateStampRe = regexp.MustCompile(regexp.QuoteMeta(DateMarker) + ` \d{4}-\d{2}-\d{2}`)

// FormatEntry renders one task line:
//
//	- [ ] #task #code-review #integration #urgent-important [INT-5 fix — alice](url) (+120|-30) [[PR-100-review]] 📅 2026-08-31
func FormatEntry(e core.TaskEntry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "- [%s] #task #code-review %s %s [%s](%s) (+%d|-%d)",
		e.State, e.Category.Tag(), e.Category.Urgency(), e.Label, e.URL, e.Additions, e.Deletions)
	if e.EnrichmentLink != "" {
		fmt.Fprintf(&b, " [[%s]]", e.EnrichmentLink)
	}
	fmt.Fprintf(&b, " %s %s", DateMarker, e.Date.Format(DateFormat))
	return b.String()
}

// Line is the minimal parse of a persisted task line: enough to dedup,
// cancel and re-stamp without disturbing anything else on the line.
type Line struct {
	State core.EntryState
	URL   string
	Date  time.Time
}

// ParseLine extracts the state, url and date stamp from an engine-owned
// task line. Lines not owned by the engine return ok=false.
func ParseLine(line string) (Line, bool) {
	m := taskLineRe.FindStringSubmatch(line)
	if m == nil {
		return Line{}, false
	}

	parsed := Line{State: core.EntryState(m[1])}

	// The label link is the first [..](..) pair; wikilinks carry no parens.
	if open := strings.Index(line, "]("); open >= 0 {
		rest := line[open+2:]
		if close := strings.Index(rest, ")"); close >= 0 {
			parsed.URL = rest[:close]
		}
	}
	if parsed.URL == "" {
		return Line{}, false
	}

	if stamp := dateStampRe.FindString(line); stamp != "" {
		if d, err := time.Parse(DateFormat, strings.TrimPrefix(stamp, DateMarker+" ")); err == nil {
			parsed.Date = d
		}
	}

	return parsed, true
}

// restamp rewrites the trailing date stamp on a task line.
func restamp(line string, day time.Time) string {
	return dateStampRe.ReplaceAllString(line, DateMarker+" "+day.Format(DateFormat))
}

// setState rewrites the checkbox state of a task line.
func setState(line string, state core.EntryState) string {
	if !taskLineRe.MatchString(line) {
		return line
	}
	return "- [" + string(state) + "]" + line[len("- [ ]"):]
}

// ContainsURL reports whether the url appears anywhere in the document
// content. Existing lines act as the dedup index via substring scan.
func ContainsURL(content, url string) bool {
	return url != "" && strings.Contains(content, url)
}

// TruncateTitle shortens a title to width runes, appending an ellipsis
// when anything was cut.
func TruncateTitle(title string, width int) string {
	runes := []rune(title)
	if len(runes) <= width {
		return title
	}
	return string(runes[:width]) + "…"
}
