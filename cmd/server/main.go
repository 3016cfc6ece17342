package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/docqa/backend/internal/api"
	"github.com/docqa/backend/internal/config"
	"github.com/docqa/backend/internal/db"
	"github.com/docqa/backend/internal/extract"
	"github.com/docqa/backend/internal/logging"
	"github.com/docqa/backend/internal/qa"
	"github.com/docqa/backend/internal/storage"
)

// Version info (set during build)
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the YAML configuration file")
	flag.Parse()

	// .env is optional; real environment variables win.
	_ = godotenv.Load()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.New(cfg.Logging)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync() //nolint:errcheck

	if err := run(cfg, *configPath, logger); err != nil {
		logger.Error("Server stopped with error", zap.Error(err))
		os.Exit(1)
	}
}

func run(cfg *config.AppConfig, configPath string, logger *zap.Logger) error {
	if err := cfg.EnsureDirectories(); err != nil {
		return fmt.Errorf("create directories: %w", err)
	}

	fileStore, err := storage.NewLocalStore(cfg.GetUploadDir())
	if err != nil {
		return fmt.Errorf("initialize storage: %w", err)
	}
	logInventory(fileStore, logger)

	ctx := context.Background()
	records, err := db.Open(ctx, cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer records.Close()
	if n, err := records.Count(ctx); err == nil {
		logger.Info("Database ready", zap.String("driver", records.Driver()), zap.Int("records", n))
	}

	// The model is optional; canned and keyword answers keep working without it.
	model, err := qa.Load(ctx, cfg.Model, logger)
	if err != nil {
		logger.Warn("Continuing without QA model", zap.Error(err))
		model = nil
	}
	answerer := qa.NewAnswerer(model, cfg.QA.MinAnswerChars, logger)
	service := qa.NewService(cfg.QA, fileStore, extract.New(logger), answerer, logger)

	e, err := api.NewServer(&api.Dependencies{
		Config:  cfg,
		Store:   fileStore,
		Records: records,
		QA:      service,
		Logger:  logger,
		Version: Version,
	})
	if err != nil {
		return fmt.Errorf("build server: %w", err)
	}

	s := &http.Server{
		Addr:         cfg.GetServerAddr(),
		Handler:      e,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	printBanner(cfg, configPath, answerer)

	errCh := make(chan error, 1)
	go func() {
		if err := s.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		logger.Info("Shutting down", zap.String("signal", sig.String()))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.Shutdown(shutdownCtx)
}

// logInventory reports what is already in the upload directory.
func logInventory(store *storage.LocalStore, logger *zap.Logger) {
	names, err := store.List()
	if err != nil {
		logger.Warn("Could not list upload directory", zap.String("dir", store.Dir()), zap.Error(err))
		return
	}
	logger.Info("Upload directory", zap.String("dir", store.Dir()), zap.Int("files", len(names)))
	for _, name := range names {
		logger.Debug("Stored file", zap.String("name", name))
	}
}

func printBanner(cfg *config.AppConfig, configPath string, answerer *qa.Answerer) {
	model := "unavailable"
	if answerer.Available() {
		model = answerer.ModelName()
	}

	fmt.Printf("\n")
	fmt.Printf("╔═══════════════════════════════════════════════════════════╗\n")
	fmt.Printf("║           Document QA Server                              ║\n")
	fmt.Printf("╠═══════════════════════════════════════════════════════════╣\n")
	fmt.Printf("║  Version:    %-45s║\n", Version)
	fmt.Printf("║  Build Time: %-45s║\n", BuildTime)
	fmt.Printf("║  Model:      %-45s║\n", model)
	fmt.Printf("╠═══════════════════════════════════════════════════════════╣\n")
	fmt.Printf("║  Config:    %-46s║\n", configPath)
	fmt.Printf("║  Listen:    http://%-38s║\n", cfg.GetServerAddr())
	fmt.Printf("║  Uploads:   %-46s║\n", cfg.GetUploadDir())
	fmt.Printf("║  Database:  %-46s║\n", cfg.Database.Driver)
	fmt.Printf("╚═══════════════════════════════════════════════════════════╝\n")
	fmt.Printf("\n")
	fmt.Printf("Open http://localhost:%d in your browser\n\n", cfg.Server.Port)
}
