package server

import (
	"context"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mediascope/cache"
	"mediascope/config"
	"mediascope/core/inspect"
	"mediascope/db"
	"mediascope/logger"
	"mediascope/model"
	"mediascope/repository"
	"mediascope/storage"

	"github.com/gorilla/mux"
)

// Start initializes and starts the HTTP server.
func Start() {
	cfg := config.Load()

	logger.InitLogger(logger.Config{
		Level:      logger.LogLevel(cfg.LogLevel),
		OutputPath: cfg.LogFile,
		MaxSize:    100,
		MaxBackups: 3,
		MaxAge:     28,
		Compress:   true,
	})

	if _, err := model.ParseEngine(cfg.Engine); err != nil {
		logger.Fatal("invalid extraction engine", logger.ErrorField(err))
	}

	// The tool probe is deliberately eager: a missing mediainfo binary must
	// stop the server from coming up, not fail the first request.
	cmdMgr, err := inspect.NewCommandManager(cfg.MediaInfoPath, []string{"--version"})
	if err != nil {
		logger.Fatal("extraction tool unavailable", logger.ErrorField(err))
	}
	logger.Info("extraction tool verified", logger.String("binary", cfg.MediaInfoPath))

	// History and cache are best effort: the extraction API stays usable
	// without them.
	var repo repository.InspectionRepository
	if err := db.ConnectGormDB(cfg); err != nil {
		logger.Warn("running without inspection history", logger.ErrorField(err))
	} else {
		defer db.CloseGormDB()
		if err := db.AutoMigrateModels(&model.InspectionRecord{}); err != nil {
			logger.Fatal("failed to migrate database", logger.ErrorField(err))
		}
		repo = repository.NewInspectionRepository()
	}

	if !cfg.CacheDisabled {
		if err := cache.ConnectRedis(cfg); err != nil {
			logger.Warn("running without report cache", logger.ErrorField(err))
		} else {
			defer cache.CloseRedis()
		}
	}

	if cfg.ArchiveReports {
		if err := storage.InitMinio(cfg); err != nil {
			logger.Fatal("report archiving enabled but MinIO unavailable", logger.ErrorField(err))
		}
	}

	ensureDirExists(cfg.ReportDir)

	factory := func(out io.Writer) inspect.Service {
		return inspect.NewServiceFromManager(cmdMgr, out, cfg.ReportDir)
	}
	apiHandler := NewAPIHandler(factory, repo, cfg)

	router := mux.NewRouter()
	router.Use(corsMiddleware)

	router.HandleFunc("/api/inspect", apiHandler.InspectHandler).Methods(http.MethodPost)
	router.HandleFunc("/api/inspections", apiHandler.ListInspectionsHandler).Methods(http.MethodGet)
	router.HandleFunc("/api/inspections/{id}", apiHandler.GetInspectionHandler).Methods(http.MethodGet)
	router.HandleFunc("/api/health", apiHandler.HealthHandler).Methods(http.MethodGet)

	// Written reports are served straight from the report directory.
	reportServer := http.FileServer(http.Dir(cfg.ReportDir))
	router.PathPrefix("/reports/").Handler(http.StripPrefix("/reports/", reportServer))

	server := &http.Server{
		Addr:         cfg.ServerAddr,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 5 * time.Minute, // extraction blocks for the subprocess duration
		IdleTimeout:  120 * time.Second,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("server starting", logger.String("addr", cfg.ServerAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("failed to start server", logger.ErrorField(err))
		}
	}()

	<-stop
	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal("server forced to shutdown", logger.ErrorField(err))
	}

	logger.Info("server stopped")
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func ensureDirExists(path string) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		logger.Info("creating directory", logger.String("path", path))
		if err := os.MkdirAll(path, 0755); err != nil {
			logger.Fatal("failed to create directory", logger.String("path", path), logger.ErrorField(err))
		}
	} else if err != nil {
		logger.Fatal("failed to check directory", logger.String("path", path), logger.ErrorField(err))
	}
}
