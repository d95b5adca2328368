package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/domusvita/careflow/backend/internal/adapters/cache"
	"github.com/domusvita/careflow/backend/internal/adapters/database"
	"github.com/domusvita/careflow/backend/internal/api/handlers"
	"github.com/domusvita/careflow/backend/internal/api/routes"
	"github.com/domusvita/careflow/backend/internal/application/services"
	"github.com/domusvita/careflow/backend/internal/domain/providers"
	"github.com/domusvita/careflow/backend/internal/domain/repositories"
	"github.com/domusvita/careflow/backend/internal/infrastructure/blob"
	"github.com/domusvita/careflow/backend/internal/infrastructure/clients/postgres"
	"github.com/domusvita/careflow/backend/internal/infrastructure/clients/redis"
	"github.com/domusvita/careflow/backend/internal/infrastructure/notifications"
	"github.com/domusvita/careflow/backend/internal/infrastructure/observability"
	"github.com/domusvita/careflow/backend/pkg/config"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	observability.InitLogger(cfg.OTEL.ServiceName, cfg.Server.Env)

	// Set up context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize OpenTelemetry if enabled
	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err := observability.Setup(
			ctx,
			cfg.OTEL.ServiceName,
			cfg.OTEL.ServiceVersion,
			cfg.OTEL.Endpoint,
		)
		if err != nil {
			log.Printf("Warning: Failed to set up OpenTelemetry: %v", err)
		} else {
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdown(ctx); err != nil {
					log.Printf("Error shutting down OpenTelemetry: %v", err)
				}
			}()
			log.Println("OpenTelemetry initialized successfully")
		}
	}

	// Initialize metrics
	metrics, err := observability.InitMetrics()
	if err != nil {
		log.Fatalf("Failed to initialize metrics: %v", err)
	}

	// Initialize database client
	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to initialize PostgreSQL client: %v", err)
	}
	defer pgClient.Close()
	log.Println("PostgreSQL client initialized successfully")

	// Initialize Redis client; the application works without caching
	var cacheProvider providers.CacheProvider
	redisClient, err := redis.NewClient(&cfg.Redis)
	if err != nil {
		log.Printf("Warning: Failed to initialize Redis client: %v", err)
	} else {
		defer redisClient.Close()
		cacheProvider = cache.NewRedisAdapter(redisClient)
		log.Println("Redis client initialized successfully")
	}

	// Initialize adapters
	baseFacilityAdapter := database.NewFacilityAdapter(pgClient)
	var facilityAdapter repositories.FacilityRepository
	if cacheProvider != nil {
		facilityAdapter = database.NewCachedFacilityAdapter(baseFacilityAdapter, cacheProvider)
		log.Println("Facility adapter wrapped with caching layer")
	} else {
		facilityAdapter = baseFacilityAdapter
		log.Println("Facility adapter running without cache (Redis unavailable)")
	}

	roomAdapter := database.NewRoomAdapter(pgClient)
	residentAdapter := database.NewResidentAdapter(pgClient)
	activityAdapter := database.NewActivityAdapter(pgClient)
	communicationAdapter := database.NewCommunicationAdapter(pgClient)
	documentAdapter := database.NewDocumentAdapter(pgClient)

	// Outbound providers: the email sender only logs, and the blob store
	// hands out references without durable storage
	emailSender := notifications.NewMockEmailSender()
	blobStore := blob.NewLocalStore(fmt.Sprintf("http://%s:%d", cfg.Server.Host, cfg.Server.Port))

	// Initialize services
	allocationService := services.NewAllocationService(residentAdapter, roomAdapter, activityAdapter)
	residentService := services.NewResidentService(
		residentAdapter,
		roomAdapter,
		facilityAdapter,
		activityAdapter,
		communicationAdapter,
		documentAdapter,
		allocationService,
		cfg.Pipeline.StrictTransitions,
	)
	facilityService := services.NewFacilityService(facilityAdapter, roomAdapter, residentAdapter)
	costService := services.NewCostService(facilityAdapter, roomAdapter, cfg.Costs)
	communicationService := services.NewCommunicationService(
		residentAdapter,
		communicationAdapter,
		activityAdapter,
		documentAdapter,
		emailSender,
		blobStore,
	)
	dashboardService := services.NewDashboardService(residentAdapter, roomAdapter, facilityAdapter)

	// Initialize handlers
	facilityHandler := handlers.NewFacilityHandler(facilityService, costService)
	residentHandler := handlers.NewResidentHandler(residentService, allocationService, dashboardService)
	communicationHandler := handlers.NewCommunicationHandler(communicationService)

	// Setup router
	router := routes.NewRouter(
		facilityHandler,
		residentHandler,
		communicationHandler,
		metrics,
	)
	handler := router.SetupRoutes()

	// Create HTTP server
	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Server starting on %s", serverAddr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Server shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Error during server shutdown: %v", err)
	}

	log.Println("Server stopped")
}
