package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/subosito/gotenv"
	"go.uber.org/zap"

	"github.com/chaitanyajadhav1/freightdocbot/internal/config"
	"github.com/chaitanyajadhav1/freightdocbot/internal/crossverify"
	"github.com/chaitanyajadhav1/freightdocbot/internal/export"
	"github.com/chaitanyajadhav1/freightdocbot/internal/extractor"
	httpserver "github.com/chaitanyajadhav1/freightdocbot/internal/interfaces/http"
	"github.com/chaitanyajadhav1/freightdocbot/internal/repository"
	"github.com/chaitanyajadhav1/freightdocbot/internal/storage"
	"github.com/chaitanyajadhav1/freightdocbot/internal/worker"
	"github.com/chaitanyajadhav1/freightdocbot/pkg/database"
	"github.com/chaitanyajadhav1/freightdocbot/pkg/utils"
)

func main() {
	// Load .env if present; real environments set variables directly.
	gotenv.Load()

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := utils.NewLogger(utils.LoggerConfig{
		Level:      cfg.Logger.Level,
		OutputPath: cfg.Logger.OutputPath,
		Format:     cfg.Logger.Format,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting freight document intake service",
		zap.String("version", "1.0.0"),
		zap.Int("port", cfg.Server.Port))

	db, err := database.New(database.Config{
		Path:            cfg.Database.Path,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer db.Close()

	migrator := database.NewMigrator(db, logger)
	if err := migrator.RunMigrations(cfg.Database.MigrationsDir); err != nil {
		logger.Fatal("Failed to run database migrations", zap.Error(err))
	}

	invoiceRepo := repository.NewInvoiceRepository(db.DB, logger)
	documentRepo := repository.NewDocumentRepository(db, logger)
	reportRepo := repository.NewReportRepository(db.DB, logger)

	uploadStore, err := storage.NewUploadStore(cfg.Storage.UploadDir, logger)
	if err != nil {
		logger.Fatal("Failed to initialize upload storage", zap.Error(err))
	}

	pdfReader := extractor.NewPDFReader(cfg.Extractor.MinTextLength, logger)
	fieldExtractor := extractor.New(cfg.OpenAI.APIKey, extractor.Config{
		Model:       cfg.OpenAI.Model,
		Temperature: cfg.OpenAI.Temperature,
		MaxTokens:   cfg.OpenAI.MaxTokens,
	}, logger)

	engine := crossverify.NewEngine(logger)
	exporter := export.NewExcelExporter(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	manager := worker.NewManager(logger)
	for i := 0; i < cfg.Extractor.Workers; i++ {
		manager.Register(worker.NewDocumentProcessor(worker.Config{
			PollInterval:   cfg.Extractor.PollInterval,
			BatchSize:      cfg.Extractor.BatchSize,
			ProcessTimeout: cfg.Extractor.ProcessTimeout,
		}, documentRepo, pdfReader, fieldExtractor, logger))
	}
	if err := manager.StartAll(ctx); err != nil {
		logger.Fatal("Failed to start extraction workers", zap.Error(err))
	}
	defer manager.StopAll()

	handlers := httpserver.NewHandlers(
		invoiceRepo,
		documentRepo,
		reportRepo,
		uploadStore,
		pdfReader,
		fieldExtractor,
		engine,
		exporter,
		logger,
	)
	server := httpserver.NewServer(httpserver.ServerConfig{
		Host:         cfg.Server.Host,
		Port:         cfg.Server.Port,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}, handlers, logger)

	if err := server.Start(ctx); err != nil {
		logger.Fatal("HTTP server failed", zap.Error(err))
	}

	logger.Info("Server exited successfully")
}
