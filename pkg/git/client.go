// Package git records task-document changes in the vault's history.
// Versioning is best-effort: a vault without a repository is normal and
// every operation degrades to a no-op there.
package git

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
)

// Client wraps git command execution scoped to the vault directory.
type Client struct {
	WorkDir string
	Logger  *slog.Logger

	run func(ctx context.Context, args ...string) (string, error)
}

// NewClient creates a new git client for the given vault directory.
func NewClient(workDir string, logger *slog.Logger) *Client {
	c := &Client{WorkDir: workDir, Logger: logger}
	c.run = c.execGit
	return c
}

func (c *Client) execGit(ctx context.Context, args ...string) (string, error) {
	if c.Logger != nil {
		c.Logger.Debug("executing git", "args", args, "dir", c.WorkDir)
	}

	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = c.WorkDir

	out, err := cmd.CombinedOutput()
	output := string(out)
	if err != nil {
		return output, fmt.Errorf("git %s failed: %w\nOutput: %s", args[0], err, output)
	}
	return strings.TrimSpace(output), nil
}

// IsRepo reports whether the vault directory sits inside a git work tree.
func (c *Client) IsRepo(ctx context.Context) bool {
	out, err := c.run(ctx, "rev-parse", "--is-inside-work-tree")
	return err == nil && out == "true"
}

// CommitDocument stages and commits one file. A clean file commits
// nothing and returns nil.
func (c *Client) CommitDocument(ctx context.Context, relPath, msg string) error {
	if _, err := c.run(ctx, "add", "--", relPath); err != nil {
		return err
	}

	status, err := c.run(ctx, "status", "--porcelain", "--", relPath)
	if err != nil {
		return err
	}
	if status == "" {
		if c.Logger != nil {
			c.Logger.Debug("document unchanged, skipping commit", "path", relPath)
		}
		return nil
	}

	_, err = c.run(ctx, "commit", "-m", msg, "--", relPath)
	return err
}
