package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mgreten/revq"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of revq",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("revq version %s\n", strings.TrimSpace(revq.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
