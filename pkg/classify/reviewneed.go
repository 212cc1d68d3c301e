package classify

import (
	"strings"
	"time"

	"github.com/mgreten/revq/pkg/core"
)

// NeedState is the outcome of the review-need evaluation.
type NeedState int

const (
	NeedsReview NeedState = iota
	Satisfied
)

func (s NeedState) String() string {
	if s == NeedsReview {
		return "needs-review"
	}
	return "satisfied"
}

// ReviewNeed decides whether an item still needs the operator's attention.
// It is stateless across calls and recomputed every run.
//
// Precedence:
//  1. Operator explicitly named in review requests wins outright.
//  2. With a prior review by the operator, the item needs attention only
//     if it was updated after the latest such review.
//  3. A comment mentioning @operator needs attention.
//  4. Zero prior reviews by the operator needs attention.
func ReviewNeed(item core.Item, operator string) NeedState {
	if item.RequestsReviewFrom(core.RequestUser, operator) {
		return NeedsReview
	}

	var reviewed bool
	var latest time.Time
	for _, rev := range item.Reviews {
		if rev.Author != operator {
			continue
		}
		if rev.SubmittedAt.After(latest) {
			latest = rev.SubmittedAt
		}
		reviewed = true
	}
	if reviewed {
		if item.UpdatedAt.After(latest) {
			return NeedsReview
		}
		return Satisfied
	}

	mention := "@" + operator
	for _, c := range item.Comments {
		if strings.Contains(c.Body, mention) {
			return NeedsReview
		}
	}

	// No prior review by the operator.
	return NeedsReview
}
