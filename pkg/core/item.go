package core

import "time"

// ReviewRequestKind distinguishes user and team review requests.
type ReviewRequestKind string

const (
	RequestUser ReviewRequestKind = "user"
	RequestTeam ReviewRequestKind = "team"
)

// ReviewRequest is a pending request for review on an item.
type ReviewRequest struct {
	Kind ReviewRequestKind
	ID   string // login for users, slug for teams
}

// Comment is a single comment on an item.
type Comment struct {
	Author    string
	Body      string
	CreatedAt time.Time
}

// Review is a submitted review on an item.
type Review struct {
	Author      string
	SubmittedAt time.Time
}

// Item is a unit of external work requiring attention (a pull request).
// It is produced fresh by the source on every run and never mutated locally.
type Item struct {
	ID             string
	Title          string
	Author         string
	URL            string // globally unique key
	UpdatedAt      time.Time
	IsDraft        bool
	ReviewRequests []ReviewRequest
	Comments       []Comment
	Reviews        []Review
	Additions      int
	Deletions      int
}

// SizeMetric is the total changed-line magnitude of the item.
func (i Item) SizeMetric() int {
	return i.Additions + i.Deletions
}

// LatestActivity returns the timestamp of the most recent comment or review,
// falling back to UpdatedAt. Used as the activity fingerprint for
// own-item notifications.
func (i Item) LatestActivity() time.Time {
	latest := i.UpdatedAt
	for _, c := range i.Comments {
		if c.CreatedAt.After(latest) {
			latest = c.CreatedAt
		}
	}
	for _, r := range i.Reviews {
		if r.SubmittedAt.After(latest) {
			latest = r.SubmittedAt
		}
	}
	return latest
}

// RequestsReviewFrom reports whether the item has a pending review request
// matching the given kind and identifier.
func (i Item) RequestsReviewFrom(kind ReviewRequestKind, id string) bool {
	for _, rr := range i.ReviewRequests {
		if rr.Kind == kind && rr.ID == id {
			return true
		}
	}
	return false
}

// Mention is a personal mention of the operator, surfaced by the source.
// Mention IDs are assumed globally unique.
type Mention struct {
	ID     string
	Title  string
	URL    string
	Author string
}

// ItemState is the lifecycle state of an item as reported by the source.
type ItemState string

const (
	StateOpen   ItemState = "open"
	StateMerged ItemState = "merged"
	StateClosed ItemState = "closed"
)
