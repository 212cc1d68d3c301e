// Package gh implements the source-system client on top of the GitHub CLI.
package gh

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/mgreten/revq/pkg/core"
)

// prFields is the field list requested from `gh pr list`.
const prFields = "number,title,author,url,updatedAt,isDraft,reviewRequests,comments,reviews,additions,deletions"

// Client queries GitHub through the `gh` CLI. Absent or unparseable
// responses degrade to empty sequences with a warning; a missing binary
// never aborts a run.
type Client struct {
	Repo   string
	Logger *slog.Logger

	// run is swappable for tests.
	run func(ctx context.Context, args ...string) ([]byte, error)
}

// NewClient creates a client for the given repository ("owner/name").
func NewClient(repo string, logger *slog.Logger) *Client {
	c := &Client{Repo: repo, Logger: logger}
	c.run = c.execGH
	return c
}

func (c *Client) execGH(ctx context.Context, args ...string) ([]byte, error) {
	if c.Logger != nil {
		c.Logger.Debug("executing gh", "args", args)
	}

	cmd := exec.CommandContext(ctx, "gh", args...)
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("gh %s failed: %w", args[0], err)
	}
	return out, nil
}

// Wire shapes of the gh JSON output.

type actorRecord struct {
	Login string `json:"login"`
}

type reviewRequestRecord struct {
	TypeName string `json:"__typename"`
	Login    string `json:"login"`
	Slug     string `json:"slug"`
}

type commentRecord struct {
	Author    actorRecord `json:"author"`
	Body      string      `json:"body"`
	CreatedAt time.Time   `json:"createdAt"`
}

type reviewRecord struct {
	Author      actorRecord `json:"author"`
	SubmittedAt time.Time   `json:"submittedAt"`
}

type prRecord struct {
	Number         int                   `json:"number"`
	Title          string                `json:"title"`
	Author         actorRecord           `json:"author"`
	URL            string                `json:"url"`
	UpdatedAt      time.Time             `json:"updatedAt"`
	IsDraft        bool                  `json:"isDraft"`
	ReviewRequests []reviewRequestRecord `json:"reviewRequests"`
	Comments       []commentRecord       `json:"comments"`
	Reviews        []reviewRecord        `json:"reviews"`
	Additions      int                   `json:"additions"`
	Deletions      int                   `json:"deletions"`
}

// toItem converts a wire record into the strict domain type. Records
// without a url are rejected as malformed.
func (r prRecord) toItem() (core.Item, bool) {
	if r.URL == "" {
		return core.Item{}, false
	}

	item := core.Item{
		ID:        strconv.Itoa(r.Number),
		Title:     r.Title,
		Author:    r.Author.Login,
		URL:       r.URL,
		UpdatedAt: r.UpdatedAt,
		IsDraft:   r.IsDraft,
		Additions: r.Additions,
		Deletions: r.Deletions,
	}

	for _, rr := range r.ReviewRequests {
		kind := core.RequestUser
		id := rr.Login
		if rr.TypeName == "Team" {
			kind = core.RequestTeam
			id = rr.Slug
		}
		if id == "" {
			continue
		}
		item.ReviewRequests = append(item.ReviewRequests, core.ReviewRequest{Kind: kind, ID: id})
	}
	for _, cm := range r.Comments {
		item.Comments = append(item.Comments, core.Comment{
			Author:    cm.Author.Login,
			Body:      cm.Body,
			CreatedAt: cm.CreatedAt,
		})
	}
	for _, rv := range r.Reviews {
		item.Reviews = append(item.Reviews, core.Review{
			Author:      rv.Author.Login,
			SubmittedAt: rv.SubmittedAt,
		})
	}

	return item, true
}

// OpenItems lists open pull requests matching the query.
func (c *Client) OpenItems(ctx context.Context, q core.Query) ([]core.Item, error) {
	args := []string{"pr", "list", "--repo", c.Repo, "--state", "open", "--limit", "100", "--json", prFields}
	if q.Author != "" {
		args = append(args, "--author", q.Author)
	}
	if q.Search != "" {
		args = append(args, "--search", q.Search)
	}

	out, err := c.run(ctx, args...)
	if err != nil {
		c.warn("pr list failed, treating as empty", err)
		return nil, nil
	}

	var records []prRecord
	if err := json.Unmarshal(out, &records); err != nil {
		c.warn("pr list output unparseable, treating as empty", err)
		return nil, nil
	}

	items := make([]core.Item, 0, len(records))
	for _, rec := range records {
		item, ok := rec.toItem()
		if !ok {
			c.warn("skipping malformed pr record", fmt.Errorf("number %d has no url", rec.Number))
			continue
		}
		items = append(items, item)
	}
	return items, nil
}

type notificationRecord struct {
	ID      string `json:"id"`
	Reason  string `json:"reason"`
	Subject struct {
		Title string `json:"title"`
		URL   string `json:"url"`
	} `json:"subject"`
	Repository struct {
		FullName string `json:"full_name"`
	} `json:"repository"`
}

// Mentions lists unread mention notifications for the operator in the
// configured repository.
func (c *Client) Mentions(ctx context.Context) ([]core.Mention, error) {
	out, err := c.run(ctx, "api", "notifications")
	if err != nil {
		c.warn("notifications fetch failed, treating as empty", err)
		return nil, nil
	}

	var records []notificationRecord
	if err := json.Unmarshal(out, &records); err != nil {
		c.warn("notifications output unparseable, treating as empty", err)
		return nil, nil
	}

	var mentions []core.Mention
	for _, rec := range records {
		if rec.Reason != "mention" || rec.ID == "" {
			continue
		}
		if rec.Repository.FullName != "" && !strings.EqualFold(rec.Repository.FullName, c.Repo) {
			continue
		}
		mentions = append(mentions, core.Mention{
			ID:    rec.ID,
			Title: rec.Subject.Title,
			URL:   rec.Subject.URL,
		})
	}
	return mentions, nil
}

// ItemState reports the lifecycle state of the pull request at url.
// Unlike the listing calls this surfaces errors: the caller must not
// cancel an entry it could not verify.
func (c *Client) ItemState(ctx context.Context, url string) (core.ItemState, error) {
	out, err := c.run(ctx, "pr", "view", url, "--repo", c.Repo, "--json", "state")
	if err != nil {
		return "", fmt.Errorf("state lookup for %s: %w", url, err)
	}

	var record struct {
		State string `json:"state"`
	}
	if err := json.Unmarshal(out, &record); err != nil {
		return "", fmt.Errorf("state for %s unparseable: %w", url, err)
	}

	switch strings.ToUpper(record.State) {
	case "OPEN":
		return core.StateOpen, nil
	case "MERGED":
		return core.StateMerged, nil
	case "CLOSED":
		return core.StateClosed, nil
	}
	return "", fmt.Errorf("unknown state %q for %s", record.State, url)
}

func (c *Client) warn(msg string, err error) {
	if c.Logger != nil {
		c.Logger.Warn(msg, "error", err)
	}
}

var _ core.Source = (*Client)(nil)
