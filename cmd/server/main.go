package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/subosito/gotenv"
	"go.uber.org/zap"

	"github.com/firdaushadi/borang-server/internal/api"
	"github.com/firdaushadi/borang-server/internal/audit"
	"github.com/firdaushadi/borang-server/internal/auth"
	"github.com/firdaushadi/borang-server/internal/config"
	"github.com/firdaushadi/borang-server/internal/extract"
	"github.com/firdaushadi/borang-server/internal/ledger"
	"github.com/firdaushadi/borang-server/internal/pricing"
	"github.com/firdaushadi/borang-server/internal/roster"
	"github.com/firdaushadi/borang-server/internal/service"
	"github.com/firdaushadi/borang-server/internal/storage"
	"github.com/firdaushadi/borang-server/pkg/database"
	"github.com/firdaushadi/borang-server/pkg/utils"
)

func main() {
	// Load .env for local development; environment wins in deployment
	_ = gotenv.Load()

	cfg, err := config.Load("configs/config.yaml")
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

	logger.Info("Starting payment intake server",
		zap.String("event", cfg.Event.Title),
		zap.Int("port", cfg.Server.Port))

	// Audit trail database
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

	// Backing services
	rosterClient := roster.NewClient(cfg.Roster.CSVURL, cfg.Roster.Timeout, logger)
	ledgerClient := ledger.NewClient(cfg.Ledger.Endpoint, cfg.Ledger.Timeout, logger)

	receiptStore, err := storage.NewLocalReceiptStore(cfg.Receipts.Dir, logger)
	if err != nil {
		logger.Fatal("Failed to initialize receipt store", zap.Error(err))
	}

	extractor, err := newExtractor(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize receipt extractor", zap.Error(err))
	}
	verifier := extract.NewVerifier(extractor, logger)

	auditRepo := audit.NewRepository(db.DB, logger)
	prices := pricing.PriceTable{Adult: cfg.Pricing.Adult, Child: cfg.Pricing.Child}

	submissions := service.NewSubmissionService(rosterClient, ledgerClient, verifier, receiptStore, prices, logger)
	reviews := service.NewReviewService(ledgerClient, auditRepo, logger)
	reports := service.NewReportService(rosterClient, ledgerClient, logger)

	handler := api.NewHandler(
		submissions,
		reviews,
		reports,
		receiptStore,
		cfg.Event,
		cfg.Bank,
		cfg.Admin.WhatsAppNumber,
		logger,
	)

	if cfg.Logger.Level == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	verifierToken := auth.NewStaticTokenVerifier(cfg.Admin.Token, cfg.Admin.Operator)
	router := api.NewRouter(handler, verifierToken, logger)

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start HTTP server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server stopped")
}

// newExtractor picks the configured AI backend for receipt amount extraction.
func newExtractor(cfg *config.Config, logger *zap.Logger) (extract.Extractor, error) {
	switch cfg.Extraction.Provider {
	case "gemini":
		return extract.NewGeminiExtractor(
			context.Background(),
			cfg.Extraction.Gemini.APIKey,
			cfg.Extraction.Gemini.Model,
			logger,
		)
	case "openai":
		return extract.NewOpenAIExtractor(
			cfg.Extraction.OpenAI.APIKey,
			cfg.Extraction.OpenAI.Model,
			cfg.Extraction.OpenAI.Temperature,
			logger,
		), nil
	default:
		return nil, fmt.Errorf("unknown extraction provider %q", cfg.Extraction.Provider)
	}
}
