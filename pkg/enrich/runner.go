// Package enrich invokes the enrichment sub-process that produces a
// richer per-item review artifact in the vault.
package enrich

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/mgreten/revq/pkg/core"
)

// Exit status taxonomy of the enrichment command.
const (
	exitUnavailable = 2
	exitSkipped     = 3
)

// DefaultThreshold is the changed-line count below which enrichment is
// not attempted.
const DefaultThreshold = 10

// Runner shells out to the configured enrichment command with the item
// identifier. The produced artifact is a markdown note in ReviewDir.
type Runner struct {
	Command   string // e.g. "claude-pr-review"
	ReviewDir string // directory the command writes artifacts into
	Threshold int    // 0 means DefaultThreshold
	Logger    *slog.Logger

	// run is swappable for tests.
	run func(ctx context.Context, id string) error
}

// NewRunner creates a runner for the given command and artifact directory.
func NewRunner(command, reviewDir string, logger *slog.Logger) *Runner {
	r := &Runner{Command: command, ReviewDir: reviewDir, Logger: logger}
	r.run = r.execCommand
	return r
}

func (r *Runner) execCommand(ctx context.Context, id string) error {
	if _, err := exec.LookPath(r.Command); err != nil {
		return core.ErrEnrichUnavailable
	}

	cmd := exec.CommandContext(ctx, r.Command, id)
	err := cmd.Run()
	if err == nil {
		return nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		switch exitErr.ExitCode() {
		case exitUnavailable:
			return core.ErrEnrichUnavailable
		case exitSkipped:
			return core.ErrEnrichSkipped
		}
	}
	return fmt.Errorf("enrichment command failed: %w", err)
}

// artifactName is the note name the enrichment command writes for an item.
func artifactName(id string) string {
	return "PR-" + id + "-review"
}

// existingArtifact looks for an already-generated artifact anywhere under
// the review directory.
func (r *Runner) existingArtifact(id string) bool {
	if r.ReviewDir == "" {
		return false
	}
	pattern := filepath.Join(r.ReviewDir, "**", artifactName(id)+".md")
	matches, err := doublestar.FilepathGlob(pattern)
	if err != nil {
		return false
	}
	return len(matches) > 0
}

// Enrich produces (or reuses) the review artifact for the item and
// returns the wikilink target for it. Size policy and tool availability
// are reported through the sentinel errors in core.
func (r *Runner) Enrich(ctx context.Context, item core.Item) (string, error) {
	threshold := r.Threshold
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	if item.SizeMetric() < threshold {
		return "", core.ErrEnrichSkipped
	}

	if r.existingArtifact(item.ID) {
		if r.Logger != nil {
			r.Logger.Debug("reusing existing review artifact", "item", item.ID)
		}
		return artifactName(item.ID), nil
	}

	if r.Command == "" {
		return "", core.ErrEnrichUnavailable
	}

	if err := r.run(ctx, item.ID); err != nil {
		return "", err
	}
	return artifactName(item.ID), nil
}

var _ core.Enricher = (*Runner)(nil)
