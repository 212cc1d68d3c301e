package engine

import (
	"fmt"
	"strings"
	"time"

	"github.com/mgreten/revq/pkg/core"
)

// Summary is the terminal report of one run.
type Summary struct {
	RunID       string
	Day         time.Time
	PerCategory map[core.Category]int // new entries rendered per category
	NewEntries  int
	Cancelled   int
	Rolled      int
	Notified    int
	Degraded    []string // sub-steps that aborted after exhausting retries
}

// String renders the one-line terminal summary.
func (s *Summary) String() string {
	var parts []string
	for _, cat := range core.Categories() {
		if n := s.PerCategory[cat]; n > 0 {
			parts = append(parts, fmt.Sprintf("%s=%d", cat, n))
		}
	}
	perCat := "none"
	if len(parts) > 0 {
		perCat = strings.Join(parts, " ")
	}

	line := fmt.Sprintf("%d new (%s), %d cancelled, %d re-stamped, %d notified",
		s.NewEntries, perCat, s.Cancelled, s.Rolled, s.Notified)
	if len(s.Degraded) > 0 {
		line += fmt.Sprintf(", %d degraded", len(s.Degraded))
	}
	return line
}
