package cmd

import (
	"context"
	"errors"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"mediascope/config"
	"mediascope/core/inspect"
	"mediascope/core/watch"
	"mediascope/db"
	"mediascope/logger"
	"mediascope/model"
	"mediascope/repository"

	"github.com/spf13/cobra"
)

var (
	watchDir    string
	watchFormat string
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch a directory and extract metadata for new media files",
	Long: `Observe an ingest directory and write a report into the report directory
for every media file created in it. Runs until interrupted.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := config.Load()
		logger.InitLogger(logger.Config{
			Level:      logger.LogLevel(cfg.LogLevel),
			OutputPath: cfg.LogFile,
			MaxSize:    100,
			MaxBackups: 3,
			MaxAge:     28,
			Compress:   true,
		})

		if cmd.Flags().Changed("dir") {
			cfg.WatchDir = watchDir
		}
		format, err := model.ParseInfoFormat(watchFormat)
		if err != nil {
			log.Fatalf("Invalid format: %v", err)
		}

		mgr, err := inspect.NewCommandManager(cfg.MediaInfoPath, []string{"--version"})
		if err != nil {
			log.Fatalf("Extraction tool unavailable: %v", err)
		}

		for _, dir := range []string{cfg.WatchDir, cfg.ReportDir} {
			if err := os.MkdirAll(dir, 0755); err != nil {
				log.Fatalf("Failed to create directory %s: %v", dir, err)
			}
		}

		var repo repository.InspectionRepository
		if err := db.ConnectGormDB(cfg); err != nil {
			logger.Warn("running without inspection history", logger.ErrorField(err))
		} else {
			defer db.CloseGormDB()
			if err := db.AutoMigrateModels(&model.InspectionRecord{}); err != nil {
				log.Fatalf("Failed to migrate database: %v", err)
			}
			repo = repository.NewInspectionRepository()
		}

		svc := inspect.NewServiceFromManager(mgr, io.Discard, cfg.ReportDir)
		watcher := watch.NewWatcher(cfg.WatchDir, format, svc, repo)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if err := watcher.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Fatalf("Watcher stopped: %v", err)
		}
	},
}

func init() {
	watchCmd.Flags().StringVarP(&watchDir, "dir", "d", "", "directory to watch (defaults to WATCH_DIR)")
	watchCmd.Flags().StringVarP(&watchFormat, "format", "f", "json", "report format: json, html or xml")

	rootCmd.AddCommand(watchCmd)
}
