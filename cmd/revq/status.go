package main

import (
	"encoding/json"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/mgreten/revq"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Print the resolved engine configuration as JSON",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()

		eng, err := revq.New(cfg, revq.WithLogger(slog.Default()))
		if err != nil {
			fatal("Error building engine", err)
		}

		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(eng.State()); err != nil {
			fatal("Error encoding state", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
