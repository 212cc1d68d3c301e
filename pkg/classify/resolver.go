package classify

import (
	"log/slog"

	"github.com/mgreten/revq/pkg/core"
)

// DefaultGeneralCap bounds how many new General entries one run may render.
const DefaultGeneralCap = 10

// Partition is the result of classifying one run's item set.
// Every url appears in exactly one category.
type Partition struct {
	ByURL map[string]core.Category
	Items map[core.Category][]core.Item // input order preserved
}

// Resolver enforces category exclusivity across the ranked rule sets:
// each item goes to the first category whose predicate matches and is
// absent from every lower-priority partition.
type Resolver struct {
	Operator   string
	Rules      []RuleSet // ranked, highest priority first
	GeneralCap int       // 0 means DefaultGeneralCap
	Logger     *slog.Logger
}

// Partition classifies the item set. Items authored by the operator and
// draft items are excluded before classification begins. isNew reports
// whether an entry for the url would be newly rendered this run; only
// new General items count against the cap, and items beyond it are left
// unclassified (deferred to a future run, in input order).
func (r *Resolver) Partition(items []core.Item, isNew func(url string) bool) Partition {
	p := Partition{
		ByURL: make(map[string]core.Category),
		Items: make(map[core.Category][]core.Item),
	}

	limit := r.GeneralCap
	if limit <= 0 {
		limit = DefaultGeneralCap
	}
	if isNew == nil {
		isNew = func(string) bool { return true }
	}

	admittedGeneral := 0
	for _, item := range items {
		if item.Author == r.Operator || item.IsDraft {
			continue
		}
		if _, seen := p.ByURL[item.URL]; seen {
			continue
		}

		for _, rule := range r.Rules {
			if !rule.Matches(item) {
				continue
			}

			if rule.Category == core.CategoryGeneral && isNew(item.URL) {
				if admittedGeneral >= limit {
					if r.Logger != nil {
						r.Logger.Debug("general cap reached, deferring item", "url", item.URL)
					}
					break
				}
				admittedGeneral++
			}

			p.ByURL[item.URL] = rule.Category
			p.Items[rule.Category] = append(p.Items[rule.Category], item)
			break
		}
	}

	return p
}
