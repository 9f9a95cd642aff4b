package cmd

import (
	"fmt"
	"os"

	"mediascope/server"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "mediascope",
	Short: "MediaScope extracts technical metadata from media files.",
	Run: func(cmd *cobra.Command, args []string) {
		// Running the bare binary starts the HTTP server.
		server.Start()
	},
}

// Execute executes the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
