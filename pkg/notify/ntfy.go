// Package notify pushes fire-and-forget alerts to an ntfy topic.
package notify

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/mgreten/revq/pkg/core"
)

// DefaultServer is the public ntfy instance.
const DefaultServer = "https://ntfy.sh"

// Client posts notifications to a configured ntfy server and topic.
// Delivery is best effort: the engine logs push failures and moves on.
type Client struct {
	Server string // empty means DefaultServer
	Topic  string
	Logger *slog.Logger

	HTTP *http.Client // nil means a client with a modest timeout
}

// NewClient creates a notifier for the given topic.
func NewClient(server, topic string, logger *slog.Logger) *Client {
	return &Client{Server: server, Topic: topic, Logger: logger}
}

func (c *Client) httpClient() *http.Client {
	if c.HTTP != nil {
		return c.HTTP
	}
	return &http.Client{Timeout: 10 * time.Second}
}

func (c *Client) endpoint() string {
	server := c.Server
	if server == "" {
		server = DefaultServer
	}
	return strings.TrimRight(server, "/") + "/" + c.Topic
}

// Push sends one notification. The message body travels in the request
// body; title, priority and tags ride in ntfy headers.
func (c *Client) Push(ctx context.Context, n core.Notification) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(), strings.NewReader(n.Body))
	if err != nil {
		return fmt.Errorf("build ntfy request: %w", err)
	}
	req.Header.Set("Title", n.Title)
	if n.Priority > 0 {
		req.Header.Set("Priority", strconv.Itoa(n.Priority))
	}
	if len(n.Tags) > 0 {
		req.Header.Set("Tags", strings.Join(n.Tags, ","))
	}

	if c.Logger != nil {
		c.Logger.Debug("pushing notification", "title", n.Title, "topic", c.Topic)
	}

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return fmt.Errorf("ntfy push: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("ntfy push: unexpected status %s", resp.Status)
	}
	return nil
}

var _ core.Notifier = (*Client)(nil)
