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

	"github.com/medscribe/clinic-backend/internal/adapters/cache"
	"github.com/medscribe/clinic-backend/internal/adapters/database"
	"github.com/medscribe/clinic-backend/internal/adapters/search"
	"github.com/medscribe/clinic-backend/internal/adapters/terminology"
	"github.com/medscribe/clinic-backend/internal/api/handlers"
	"github.com/medscribe/clinic-backend/internal/api/routes"
	"github.com/medscribe/clinic-backend/internal/application/services"
	"github.com/medscribe/clinic-backend/internal/domain/providers"
	"github.com/medscribe/clinic-backend/internal/domain/repositories"
	"github.com/medscribe/clinic-backend/internal/infrastructure/clients/postgres"
	"github.com/medscribe/clinic-backend/internal/infrastructure/clients/redis"
	terminologyclient "github.com/medscribe/clinic-backend/internal/infrastructure/clients/terminology"
	"github.com/medscribe/clinic-backend/internal/infrastructure/clients/typesense"
	"github.com/medscribe/clinic-backend/internal/infrastructure/observability"
	"github.com/medscribe/clinic-backend/pkg/config"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	observability.InitLogger(cfg.OTEL.ServiceName, os.Getenv("APP_ENV"))

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

	// Initialize database client. Postgres is the only hard dependency.
	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to initialize PostgreSQL client: %v", err)
	}
	defer pgClient.Close()
	log.Println("PostgreSQL client initialized successfully")

	// Initialize Redis client
	var cacheProvider providers.CacheProvider
	redisClient, err := redis.NewClient(&cfg.Redis)
	if err != nil {
		log.Printf("Warning: Failed to initialize Redis client: %v", err)
		// Continue without Redis - the application can work without caching
	} else {
		defer redisClient.Close()
		cacheProvider = cache.NewRedisAdapter(redisClient)
		log.Println("Redis client initialized successfully")
	}

	// Initialize Typesense client
	typesenseClient, err := typesense.NewClient(&cfg.Typesense)
	if err != nil {
		log.Printf("Warning: Failed to initialize Typesense client: %v", err)
		typesenseClient = nil
	} else {
		if err := typesenseClient.InitSchema(ctx); err != nil {
			log.Printf("Warning: Failed to initialize Typesense schema: %v", err)
		}
		log.Println("Typesense client initialized successfully")
	}

	// Initialize adapters
	catalogAdapter := database.NewTermCatalogAdapter(pgClient)
	overrideAdapter := database.NewDoctorOverrideAdapter(pgClient)
	crossRefAdapter := database.NewCrossReferenceAdapter(pgClient)

	baseDoseRefAdapter := database.NewDoseReferenceAdapter(pgClient)
	var doseRefAdapter repositories.DoseReferenceRepository
	if cacheProvider != nil {
		doseRefAdapter = database.NewCachedDoseReferenceAdapter(baseDoseRefAdapter, cacheProvider)
		log.Println("Dose reference adapter wrapped with caching layer")
	} else {
		doseRefAdapter = baseDoseRefAdapter
		log.Println("Dose reference adapter running without cache (Redis unavailable)")
	}

	var indexRepo repositories.TermIndexRepository
	if typesenseClient != nil {
		indexRepo = search.NewTermIndexAdapter(typesenseClient)
	}

	var codeRepo repositories.CodeSearchRepository
	if cfg.Terminology.BaseURL != "" {
		client := terminologyclient.NewClient(cfg.Terminology.BaseURL, cfg.Terminology.APIKey, cfg.Terminology.Timeout)
		codeRepo = terminology.NewSnomedAdapter(client)
		log.Println("Terminology adapter initialized")
	} else {
		log.Println("Terminology service not configured; coding system suggestions disabled")
	}

	// Initialize services
	suggestionService := services.NewSuggestionService(
		catalogAdapter,
		indexRepo,
		doseRefAdapter,
		codeRepo,
		metrics,
		cfg.Suggest,
	)
	crossRefService := services.NewCrossReferenceService(crossRefAdapter)
	doseService := services.NewDoseService(overrideAdapter, doseRefAdapter)

	// Initialize handlers
	suggestionHandler := handlers.NewSuggestionHandler(suggestionService, crossRefService)
	doseHandler := handlers.NewDoseHandler(doseService)
	termHandler := handlers.NewTermHandler(suggestionService)

	// Initialize router
	router := routes.NewRouter(
		suggestionHandler,
		doseHandler,
		termHandler,
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
