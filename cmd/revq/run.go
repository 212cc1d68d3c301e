package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/mgreten/revq"
	"github.com/mgreten/revq/pkg/core"
)

var (
	dryRun        bool
	priorityOnly  bool
	notifyFlag    bool
	forceRollover bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one reconciliation pass",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()

		eng, err := revq.New(cfg, revq.WithLogger(slog.Default()))
		if err != nil {
			fatal("Error building engine", err)
		}
		eng.DryRun = dryRun
		eng.Updater.DryRun = dryRun
		eng.PriorityOnly = priorityOnly
		eng.Notify = notifyFlag
		eng.ForceRollover = forceRollover

		summary, err := eng.Run(context.Background())
		if err != nil {
			if errors.Is(err, core.ErrLocked) {
				fmt.Fprintln(os.Stderr, "Another run is in progress, try again later.")
				os.Exit(1)
			}
			fatal("Error running reconciliation", err)
		}

		fmt.Println(summary)
		if len(summary.Degraded) > 0 {
			for _, d := range summary.Degraded {
				fmt.Fprintf(os.Stderr, "degraded: %s\n", d)
			}
			os.Exit(2)
		}
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Compute everything, write and push nothing")
	runCmd.Flags().BoolVar(&priorityOnly, "priority-only", false, "Reduced scope: the two priority categories only")
	runCmd.Flags().BoolVar(&notifyFlag, "notify", false, "Push alerts in addition to updating the document")
	runCmd.Flags().BoolVar(&forceRollover, "force-rollover", false, "Re-stamp open entries even when no new entries landed")
}
