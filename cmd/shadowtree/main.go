package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "shadowtree",
		Short: "Batched shadow-tree reconciliation for HTML documents",
		Long: `shadowtree maintains writable shadow copies of live HTML trees and
reconciles mutations back onto them in frame-aligned batches.

The CLI loads a document, tracks part of it, and serves a live view:

  shadowtree serve -f page.html
  shadowtree render -f page.html --selector "#app"`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		serveCmd(),
		renderCmd(),
		versionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("shadowtree %s (commit %s, built %s)\n", version, commit, date)
		},
	}
}
