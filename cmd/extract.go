package cmd

import (
	"fmt"
	"log"

	"mediascope/config"
	"mediascope/core/inspect"
	"mediascope/logger"
	"mediascope/model"

	"github.com/spf13/cobra"
)

var (
	extractInput  string
	extractFormat string
	extractFull   bool
	extractOutput string
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Extract metadata for a single media file",
	Long: `Run one extraction against the configured engine. Without --output the raw
report is printed to stdout; with --output it is written to <stem>.<ext>.
An empty --output stem generates a random report name.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := config.Load()
		logger.InitLogger(logger.Config{Level: logger.LogLevel(cfg.LogLevel)})

		engine, err := model.ParseEngine(cfg.Engine)
		if err != nil {
			log.Fatalf("Invalid engine: %v", err)
		}
		format, err := model.ParseInfoFormat(extractFormat)
		if err != nil {
			log.Fatalf("Invalid format: %v", err)
		}

		svc, err := inspect.NewService(engine, cfg.MediaInfoPath)
		if err != nil {
			log.Fatalf("Could not create extraction service: %v", err)
		}

		req := &model.InfoRequest{Input: extractInput, Format: format}
		if !extractFull {
			full := false
			req.Full = &full
		}
		if cmd.Flags().Changed("output") {
			req.OutputFile = &extractOutput
		}

		resp, err := svc.GetInfo(req)
		if err != nil {
			log.Fatalf("Extraction failed: %v", err)
		}

		if resp.Output.File != nil {
			fmt.Printf("Report written to %s\n", *resp.Output.File)
		}
	},
}

func init() {
	extractCmd.Flags().StringVarP(&extractInput, "input", "i", "", "path of the media file to analyze")
	extractCmd.Flags().StringVarP(&extractFormat, "format", "f", "json", "report format: json, html or xml")
	extractCmd.Flags().BoolVar(&extractFull, "full", true, "request the complete metadata report")
	extractCmd.Flags().StringVarP(&extractOutput, "output", "o", "", "report file stem; empty stem generates a random name")
	extractCmd.MarkFlagRequired("input")

	rootCmd.AddCommand(extractCmd)
}
