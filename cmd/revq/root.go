package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/mgreten/revq"
)

var (
	verbose    bool
	configPath string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "revq",
	Short: "Reconcile a Markdown review-todo document with open pull requests",
	Long: `Revq watches the open pull requests of one repository, classifies them
into ranked review categories, and keeps a human-edited Markdown task
document in sync: new entries are appended below a marker heading,
entries for closed pull requests are cancelled, and priority reviews
trigger day-deduplicated push alerts.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}

		opts := &slog.HandlerOptions{
			Level: level,
		}
		logger := slog.New(slog.NewTextHandler(os.Stderr, opts))
		slog.SetDefault(logger)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func loadConfig() *revq.Config {
	cfg, err := revq.LoadConfig(configPath)
	if err != nil {
		fatal("Error loading config", err)
	}
	return cfg
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", revq.DefaultConfigPath(), "Path to the config file")
}
