package engine_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mgreten/revq/pkg/backoff"
	"github.com/mgreten/revq/pkg/classify"
	"github.com/mgreten/revq/pkg/core"
	"github.com/mgreten/revq/pkg/engine"
	"github.com/mgreten/revq/pkg/ledger"
	"github.com/mgreten/revq/pkg/vault"
)

type fakeSource struct {
	open         []core.Item
	mentionItems []core.Item
	own          []core.Item
	mentions     []core.Mention
	states       map[string]core.ItemState
}

func (f *fakeSource) OpenItems(_ context.Context, q core.Query) ([]core.Item, error) {
	switch {
	case q.Search != "":
		return f.mentionItems, nil
	case q.Author != "":
		return f.own, nil
	}
	return f.open, nil
}

func (f *fakeSource) Mentions(context.Context) ([]core.Mention, error) {
	return f.mentions, nil
}

func (f *fakeSource) ItemState(_ context.Context, url string) (core.ItemState, error) {
	if s, ok := f.states[url]; ok {
		return s, nil
	}
	return core.StateOpen, nil
}

type fakeNotifier struct {
	pushed []core.Notification
}

func (f *fakeNotifier) Push(_ context.Context, n core.Notification) error {
	f.pushed = append(f.pushed, n)
	return nil
}

func rules(mentionURLs map[string]struct{}) []classify.RuleSet {
	return []classify.RuleSet{
		{
			Category: core.CategoryIntegration,
			Any: []classify.Matcher{
				classify.TeamRequested{Slug: "acme/integrations-engineers"},
				classify.TitleToken{Tokens: []string{"INT-"}},
				classify.AuthorIn{Members: []string{"alice"}},
			},
		},
		{
			Category: core.CategoryPlatform,
			Any:      []classify.Matcher{classify.TeamRequested{Slug: "acme/platform"}},
		},
		{
			Category: core.CategoryFollowUp,
			Any:      []classify.Matcher{classify.URLIn{URLs: mentionURLs}},
		},
		{
			Category: core.CategoryGeneral,
			Any: []classify.Matcher{
				classify.TeamRequested{Slug: "acme/backend"},
				classify.ReviewerNamed{Login: "mat"},
			},
		},
	}
}

const baseDoc = `# PR Review Todos

## Active

## Completed
`

var day = time.Date(2026, 8, 31, 9, 0, 0, 0, time.UTC)

func testEngine(t *testing.T, doc string, src *fakeSource) (*engine.Engine, *fakeNotifier, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "todos.md")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0644))

	updater := vault.NewUpdater(path, nil)
	updater.SettleDelay = 0
	updater.Backoff = backoff.Policy{MaxAttempts: 2, Sleep: func(time.Duration) {}}

	notifier := &fakeNotifier{}
	eng := &engine.Engine{
		Operator: "mat",
		Source:   src,
		Notifier: notifier,
		Ledger:   ledger.New(&ledger.MemStore{}, nil),
		Updater:  updater,
		Renderer: &vault.Renderer{},
		Rules:    rules,
		Notify:   true,
		Now:      func() time.Time { return day },
	}
	return eng, notifier, path
}

func intItem(id, url string) core.Item {
	return core.Item{
		ID: id, Title: "INT-5 fix", Author: "alice", URL: url,
		UpdatedAt: day.Add(-time.Hour), Additions: 12, Deletions: 3,
	}
}

func readDoc(t *testing.T, path string) string {
	t.Helper()
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(b)
}

func TestRunRendersClassifiesAndNotifies(t *testing.T) {
	src := &fakeSource{open: []core.Item{intItem("100", "https://github.com/acme/api/pull/100")}}
	eng, notifier, path := testEngine(t, baseDoc, src)

	sum, err := eng.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, sum.NewEntries)
	assert.Equal(t, 1, sum.PerCategory[core.CategoryIntegration])

	content := readDoc(t, path)
	assert.Contains(t, content, "#integration")
	assert.Contains(t, content, "pull/100")
	assert.NotContains(t, content, "#review #normal [INT-5")

	require.Len(t, notifier.pushed, 1)
	assert.Contains(t, notifier.pushed[0].Title, "integration")
}

func TestRunIsIdempotent(t *testing.T) {
	src := &fakeSource{open: []core.Item{intItem("100", "https://github.com/acme/api/pull/100")}}
	eng, notifier, path := testEngine(t, baseDoc, src)

	_, err := eng.Run(context.Background())
	require.NoError(t, err)
	afterFirst := readDoc(t, path)

	sum, err := eng.Run(context.Background())
	require.NoError(t, err)

	assert.Zero(t, sum.NewEntries)
	assert.Equal(t, afterFirst, readDoc(t, path))
	// A second pass on the same day stays silent.
	assert.Len(t, notifier.pushed, 1)
}

func TestRunCancelsClosedEntries(t *testing.T) {
	doc := `# PR Review Todos

## Active
- [ ] #task #code-review #review #normal [old — bob](https://github.com/acme/api/pull/9) (+5|-1) 📅 2026-08-29

## Completed
`
	src := &fakeSource{
		states: map[string]core.ItemState{"https://github.com/acme/api/pull/9": core.StateClosed},
	}
	eng, _, path := testEngine(t, doc, src)

	sum, err := eng.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, sum.Cancelled)
	assert.Contains(t, readDoc(t, path), "- [-] #task #code-review #review #normal [old — bob]")
}

func TestRunDedupsExistingDoneEntry(t *testing.T) {
	// Item 200 already has a done line; no new entry, no reclassification.
	doc := `# PR Review Todos

## Active

## Completed
- [x] #task #code-review #integration #urgent-important [done — alice](https://github.com/acme/api/pull/200) (+1|-1) 📅 2026-08-20
`
	src := &fakeSource{open: []core.Item{intItem("200", "https://github.com/acme/api/pull/200")}}
	eng, _, path := testEngine(t, doc, src)

	sum, err := eng.Run(context.Background())
	require.NoError(t, err)

	assert.Zero(t, sum.NewEntries)
	assert.Equal(t, doc, readDoc(t, path))
}

func TestRunDryRunTouchesNothing(t *testing.T) {
	src := &fakeSource{open: []core.Item{intItem("100", "https://github.com/acme/api/pull/100")}}
	eng, notifier, path := testEngine(t, baseDoc, src)
	eng.DryRun = true
	eng.Updater.DryRun = true

	sum, err := eng.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, baseDoc, readDoc(t, path))
	assert.Empty(t, notifier.pushed)
	assert.Equal(t, 1, sum.PerCategory[core.CategoryIntegration])
}

func TestRunPriorityOnlySkipsLowerTiers(t *testing.T) {
	general := core.Item{
		ID: "300", Title: "tweak config", Author: "carol",
		URL: "https://github.com/acme/api/pull/300",
		ReviewRequests: []core.ReviewRequest{
			{Kind: core.RequestTeam, ID: "acme/backend"},
		},
	}
	src := &fakeSource{open: []core.Item{general}}
	eng, _, path := testEngine(t, baseDoc, src)
	eng.PriorityOnly = true

	sum, err := eng.Run(context.Background())
	require.NoError(t, err)

	assert.Zero(t, sum.NewEntries)
	assert.Equal(t, baseDoc, readDoc(t, path))
}

func TestRunSatisfiedPriorityItemNotRendered(t *testing.T) {
	item := intItem("100", "https://github.com/acme/api/pull/100")
	item.Reviews = []core.Review{{Author: "mat", SubmittedAt: day}} // after UpdatedAt
	src := &fakeSource{open: []core.Item{item}}
	eng, notifier, path := testEngine(t, baseDoc, src)

	sum, err := eng.Run(context.Background())
	require.NoError(t, err)

	assert.Zero(t, sum.NewEntries)
	assert.Equal(t, baseDoc, readDoc(t, path))
	assert.Empty(t, notifier.pushed)
}

func TestRunMentionAndOwnActivityAlerts(t *testing.T) {
	own := core.Item{
		ID: "42", Title: "my feature", Author: "mat",
		URL:       "https://github.com/acme/api/pull/42",
		UpdatedAt: day.Add(-2 * time.Hour),
		Comments:  []core.Comment{{Author: "bob", Body: "nice", CreatedAt: day.Add(-time.Hour)}},
	}
	src := &fakeSource{
		mentions: []core.Mention{{ID: "n1", Title: "PR A", URL: "u1"}},
		own:      []core.Item{own},
	}
	eng, notifier, _ := testEngine(t, baseDoc, src)

	_, err := eng.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, notifier.pushed, 2)

	// Same day, no new activity: silent.
	_, err = eng.Run(context.Background())
	require.NoError(t, err)
	assert.Len(t, notifier.pushed, 2)

	// A fresh comment re-fires the own-activity alert only.
	src.own[0].Comments = append(src.own[0].Comments, core.Comment{
		Author: "bob", Body: "one more thing", CreatedAt: day.Add(-30 * time.Minute),
	})
	_, err = eng.Run(context.Background())
	require.NoError(t, err)
	assert.Len(t, notifier.pushed, 3)
}

func TestRunUnreadableDocumentStillAlertsPriority(t *testing.T) {
	src := &fakeSource{open: []core.Item{intItem("100", "https://github.com/acme/api/pull/100")}}
	eng, notifier, path := testEngine(t, baseDoc, src)
	require.NoError(t, os.Remove(path))

	sum, err := eng.Run(context.Background())
	require.NoError(t, err)

	// The merge side is abandoned, the priority alert still fires.
	assert.Len(t, sum.Degraded, 2) // cancel pass and merge pass
	assert.Zero(t, sum.NewEntries)
	require.Len(t, notifier.pushed, 1)
	assert.Contains(t, notifier.pushed[0].Title, "integration")
}

func TestRunForceRollover(t *testing.T) {
	doc := `# PR Review Todos

## Active
- [ ] #task #code-review #review #normal [old — bob](https://github.com/acme/api/pull/9) (+5|-1) 📅 2026-08-29

## Completed
`
	src := &fakeSource{}
	eng, _, path := testEngine(t, doc, src)
	eng.ForceRollover = true

	sum, err := eng.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, sum.Rolled)
	assert.Contains(t, readDoc(t, path), "📅 2026-08-31")
}

func TestRunFollowUpFromMentionSearch(t *testing.T) {
	mentioned := core.Item{
		ID: "77", Title: "webhook refactor", Author: "dave",
		URL: "https://github.com/acme/api/pull/77",
	}
	src := &fakeSource{mentionItems: []core.Item{mentioned}}
	eng, _, path := testEngine(t, baseDoc, src)

	sum, err := eng.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, sum.PerCategory[core.CategoryFollowUp])
	assert.Contains(t, readDoc(t, path), "#follow-up")
}
