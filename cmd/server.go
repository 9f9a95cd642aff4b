package cmd

import (
	"mediascope/server"

	"github.com/spf13/cobra"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the MediaScope HTTP server",
	Long:  `Start the HTTP server exposing the extraction API, inspection history and report downloads.`,
	Run: func(cmd *cobra.Command, args []string) {
		server.Start()
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)
}
