package cmd

import (
	"context"
	"fmt"
	"log"
	"time"

	"mediascope/cache"
	"mediascope/config"
	"mediascope/core/inspect"
	"mediascope/db"
	"mediascope/logger"
	"mediascope/storage"

	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check connectivity to the extraction tool and collaborators",
	Long:  `Probe the extraction tool, Redis, MySQL and MinIO and report which are reachable.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := config.Load()
		logger.InitLogger(logger.Config{Level: logger.ErrorLevel})

		fmt.Printf("Probing %s...\n", cfg.MediaInfoPath)
		if _, err := inspect.NewCommandManager(cfg.MediaInfoPath, []string{"--version"}); err != nil {
			log.Fatalf("Extraction tool check failed: %v", err)
		}
		fmt.Println("Extraction tool OK")

		fmt.Printf("Connecting to Redis at %s:%s...\n", cfg.RedisHost, cfg.RedisPort)
		if err := cache.ConnectRedis(cfg); err != nil {
			fmt.Printf("Redis unavailable: %v\n", err)
		} else {
			fmt.Println("Redis OK")
			cache.CloseRedis()
		}

		fmt.Printf("Connecting to MySQL at %s:%s...\n", cfg.DBHost, cfg.DBPort)
		if err := db.ConnectGormDB(cfg); err != nil {
			fmt.Printf("MySQL unavailable: %v\n", err)
		} else {
			fmt.Println("MySQL OK")
			db.CloseGormDB()
		}

		fmt.Printf("Connecting to MinIO at %s...\n", cfg.MinioEndpoint)
		if err := storage.InitMinio(cfg); err != nil {
			fmt.Printf("MinIO unavailable: %v\n", err)
		} else {
			client := storage.GetMinioClient()
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if _, err := client.BucketExists(ctx, cfg.MinioBucket); err != nil {
				fmt.Printf("MinIO bucket check failed: %v\n", err)
			} else {
				fmt.Println("MinIO OK")
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
}
