package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tradewinds/config"
	"tradewinds/cron"
	"tradewinds/database"
	catalogRepo "tradewinds/database/repository/catalog"
	"tradewinds/handlers"
	"tradewinds/middleware"
	"tradewinds/routes"
	"tradewinds/services/concierge"
	"tradewinds/services/inquiry"
	"tradewinds/services/tasks"
	"tradewinds/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"github.com/spf13/cobra"
	"github.com/stripe/stripe-go/v76"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve()
		},
	}
}

func loadCatalog() (catalogRepo.CatalogRepository, *mongo.Client, error) {
	switch config.AppConfig.CatalogSource {
	case "file":
		repo, err := catalogRepo.NewFileCatalogRepo(config.AppConfig.CatalogFile)
		return repo, nil, err
	case "mongo", "":
		database.InitDB()
		return catalogRepo.NewMongoCatalogRepo(), database.MongoClient, nil
	}
	return nil, nil, fmt.Errorf("unknown CATALOG_SOURCE %q", config.AppConfig.CatalogSource)
}

func serve() error {
	logger := utils.GetLogger()
	cfg := config.AppConfig

	utils.InitRedis()
	catalog, mongoClient, err := loadCatalog()
	if err != nil {
		return err
	}

	ctx, stop := context.WithCancel(context.Background())
	defer stop()
	utils.StartHealthMonitor(ctx, 30*time.Second,
		[]*redis.Client{utils.GetInquiryCacheClient(), utils.GetConciergeCacheClient()}, mongoClient)

	// Inquiry wizard.
	queue := asynq.NewClient(cron.RedisQueueOpt())
	defer queue.Close()
	wizard := inquiry.NewWizard(catalog, cfg.MatchPickBonus)
	inquirySvc := inquiry.NewInquiryService(
		wizard,
		inquiry.NewRedisSessionStore(utils.GetInquiryCacheClient(), cfg.InquirySessionTTL),
		&tasks.QueueSink{Client: queue},
		logger.Named("inquiry"),
	)

	// Concierge.
	validator := &concierge.GeminiCredentialValidator{Model: cfg.ConciergeModel}
	if cfg.BillingProvider == "stripe" {
		stripe.Key = cfg.StripeKey
		validator.Billing = concierge.StripeBillingChecker{}
	}
	sealer, err := concierge.NewSealer(cfg.CredentialSealKey)
	if err != nil {
		return err
	}
	if cfg.CredentialSealKey == "" {
		logger.Warn("CREDENTIAL_SEAL_KEY not set; stored concierge credentials will not survive a restart")
	}
	conciergeSvc := concierge.NewConciergeService(
		concierge.SessionDeps{
			Validator: validator,
			Gateways: concierge.NewGeminiFactory(concierge.GeminiConfig{
				Model:        cfg.ConciergeModel,
				SystemPrompt: cfg.ConciergePrompt,
				Timeout:      cfg.ProviderTimeout,
			}),
			Welcome: cfg.ConciergeWelcome,
		},
		concierge.NewRedisSnapshotStore(utils.GetConciergeCacheClient(), cfg.ConciergeSessionTTL),
		sealer,
		logger.Named("concierge"),
	)
	go conciergeSvc.RunJanitor(ctx, time.Minute, 15*time.Minute)

	handlerBundle := &handlers.HandlerBundle{
		Inquiry:   handlers.NewInquiryHandler(inquirySvc, cfg.InquirySessionTTL, logger),
		Concierge: handlers.NewConciergeHandler(conciergeSvc, cfg.ConciergeSessionTTL, logger),
		Catalog:   handlers.NewCatalogHandler(catalog, logger),
	}

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(middleware.RequestLogger(logger))
	router.Use(utils.ErrorHandler())
	router.Use(middleware.RateLimitMiddleware(cfg.MaxRequestsPerMin))
	routes.RegisterRoutes(router, handlerBundle)

	port := cfg.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("serve: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("serve: server is shutting down...")
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("serve: server forced to shutdown", zap.Error(err))
	}
	if err := database.CloseDB(shutdownCtx); err != nil {
		logger.Warn("serve: failed to close MongoDB", zap.Error(err))
	}

	logger.Sugar().Info("serve: server stopped gracefully")
	return nil
}
