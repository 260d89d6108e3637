// File: fixmate/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fixmate/config"
	"fixmate/cron"
	"fixmate/database"
	contractorRepo "fixmate/database/repository/contractor"
	"fixmate/handlers"
	"fixmate/middleware"
	"fixmate/routes"
	"fixmate/services/dispatch"
	"fixmate/services/geo"
	"fixmate/services/ledger"
	"fixmate/services/matching"
	"fixmate/services/notification"
	"fixmate/services/pricing"
	"fixmate/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitRedis()

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())

	// repositories.
	contrRepo := contractorRepo.NewMongoContractorRepo()

	// core dispatch components.
	assignmentLedger := ledger.NewAssignmentLedger(logger)
	geoScorer := geo.NewScorer(config.AppConfig.BaseEtaMinutes, config.AppConfig.EtaMinutesPerKm)
	ranker := matching.NewRanker(geoScorer, assignmentLedger, logger)
	calculator := pricing.NewCalculator(config.AppConfig.PremiumMultiplier, config.AppConfig.PriorityFee)

	// Event delivery: FCM-backed queue when credentials are configured,
	// structured log otherwise.
	var notifier notification.EventNotifier = notification.NewLogNotifier(logger)
	if config.AppConfig.FirebaseCredentialsFile != "" {
		utils.FirebaseInit()
		asynqClient := asynq.NewClient(asynq.RedisClientOpt{
			Addr:     config.AppConfig.RedisAddr,
			Password: config.AppConfig.RedisPassword,
			DB:       config.AppConfig.RedisNotifyQueue,
		})
		defer asynqClient.Close()

		queueNotifier, err := notification.NewQueueNotifier(asynqClient, logger)
		if err != nil {
			logger.Sugar().Fatalf("main: failed to initialize queue notifier: %v", err)
		}
		notifier = queueNotifier
		cron.InitNotifyWorker()
	}

	// The response source is a simulation until the contractor app round-trip
	// ships; the engine is identical either way.
	responseSource := dispatch.NewSimulatedResponseSource(
		time.Now().UnixNano(), 0.6, 2*time.Second, 15*time.Second)

	archive := dispatch.NewArchive(utils.GetDispatchArchiveClient(), 24*time.Hour)

	engine := dispatch.NewEngine(
		dispatch.Config{
			OfferWindow:   time.Duration(config.AppConfig.OfferWindowSeconds) * time.Second,
			SettleDelay:   time.Duration(config.AppConfig.SettleDelaySeconds) * time.Second,
			MaxCandidates: config.AppConfig.MaxCandidates,
		},
		assignmentLedger,
		ranker,
		calculator,
		responseSource,
		notifier,
		dispatch.RealClock(),
		archive,
		logger,
	)

	// handlers.
	dispatchHandler := handlers.NewDispatchHandler(engine, contrRepo, logger)
	contractorHandler := handlers.NewContractorHandler(contrRepo, logger)
	servicesHandler := handlers.NewServicesHandler(calculator)

	handlerBundle := &routes.HandlerBundle{
		Dispatch:   dispatchHandler,
		Contractor: contractorHandler,
		Services:   servicesHandler,
	}
	routes.RegisterRoutes(router, handlerBundle)

	utils.StartHealthMonitor(
		[]*redis.Client{utils.GetCacheClient(), utils.GetDispatchArchiveClient()},
		database.MongoClient,
	)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
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
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
