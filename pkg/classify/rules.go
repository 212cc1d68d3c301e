// Package classify partitions items into the fixed priority categories
// and decides whether an item still needs the operator's attention.
package classify

import (
	"regexp"
	"strings"

	"github.com/mgreten/revq/pkg/core"
)

// Matcher is a single typed predicate over an item. A category matches
// when any of its matchers does.
type Matcher interface {
	Match(item core.Item) bool
}

// TeamRequested matches items with a pending review request for a team slug.
type TeamRequested struct {
	Slug string
}

func (m TeamRequested) Match(item core.Item) bool {
	return m.Slug != "" && item.RequestsReviewFrom(core.RequestTeam, m.Slug)
}

// ReviewerNamed matches items that explicitly name a login as reviewer.
type ReviewerNamed struct {
	Login string
}

func (m ReviewerNamed) Match(item core.Item) bool {
	return m.Login != "" && item.RequestsReviewFrom(core.RequestUser, m.Login)
}

// TitleToken matches items whose title contains any of the tokens,
// case-insensitively.
type TitleToken struct {
	Tokens []string
}

func (m TitleToken) Match(item core.Item) bool {
	title := strings.ToLower(item.Title)
	for _, tok := range m.Tokens {
		if tok == "" {
			continue
		}
		if strings.Contains(title, strings.ToLower(tok)) {
			return true
		}
	}
	return false
}

// TitlePattern matches items whose title matches a compiled expression.
type TitlePattern struct {
	Pattern *regexp.Regexp
}

func (m TitlePattern) Match(item core.Item) bool {
	return m.Pattern != nil && m.Pattern.MatchString(item.Title)
}

// AuthorIn matches items authored by a configured member set.
type AuthorIn struct {
	Members []string
}

func (m AuthorIn) Match(item core.Item) bool {
	for _, member := range m.Members {
		if item.Author == member {
			return true
		}
	}
	return false
}

// URLIn matches items whose url was produced by a separate search
// (e.g. mentions of the operator).
type URLIn struct {
	URLs map[string]struct{}
}

func (m URLIn) Match(item core.Item) bool {
	_, ok := m.URLs[item.URL]
	return ok
}

// RuleSet is the declarative predicate for one category: a disjunction
// of typed matchers, evaluated once per item.
type RuleSet struct {
	Category core.Category
	Any      []Matcher
}

// Matches reports whether any matcher in the set matches the item.
func (r RuleSet) Matches(item core.Item) bool {
	for _, m := range r.Any {
		if m.Match(item) {
			return true
		}
	}
	return false
}
