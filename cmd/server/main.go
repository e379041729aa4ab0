// @title KVAL Assessment API
// @version 1.0
// @description Knowledge valorisation self-assessment backend - scores survey sessions across six transfer channels and generates maturity reports

// @contact.name KVAL Tools Support
// @contact.email support@kval.tools

// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Enter your session token in the format: Bearer {token}

// Package main is the entry point for the KVAL Assessment API server.
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kval-tools/assessment_backend/internal/auth"
	"github.com/kval-tools/assessment_backend/internal/config"
	"github.com/kval-tools/assessment_backend/internal/database"
	"github.com/kval-tools/assessment_backend/internal/handlers"
	"github.com/kval-tools/assessment_backend/internal/insight"
	"github.com/kval-tools/assessment_backend/internal/middleware"
	"github.com/kval-tools/assessment_backend/internal/repository"
	"github.com/kval-tools/assessment_backend/internal/services"

	// Swagger docs
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/kval-tools/assessment_backend/docs"
)

// Build-time variables (set via ldflags)
var (
	Version   = "0.1.0-dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Set Gin mode based on environment
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize database connection
	ctx := context.Background()
	dbCfg := database.DefaultConfig()
	dbCfg.URI = cfg.DatabaseURI
	dbCfg.Database = cfg.DatabaseName

	dbClient, err := database.NewClient(dbCfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Initialize the token service before registering the close defer so a
	// config failure here still closes the connection exactly once
	tokenService, err := auth.NewTokenService(auth.TokenConfig{
		Secret: cfg.SessionTokenSecret,
		Expiry: cfg.SessionTokenExpiry,
		Issuer: "kval-assessment",
	})
	if err != nil {
		if closeErr := dbClient.Close(ctx); closeErr != nil {
			log.Printf("Error closing database connection: %v", closeErr)
		}
		log.Fatalf("Failed to initialize token service: %v", err)
	}

	defer func() {
		if closeErr := dbClient.Close(ctx); closeErr != nil {
			log.Printf("Error closing database connection: %v", closeErr)
		}
	}()

	// Ensure indexes
	if indexErr := database.NewIndexManager(dbClient.Database()).CreateAllIndexes(ctx); indexErr != nil {
		log.Printf("Warning: Failed to create indexes: %v", indexErr)
	}

	// Seed the built-in catalog when no catalog was imported
	if seedErr := dbClient.SeedData(ctx); seedErr != nil {
		log.Printf("Warning: Failed to seed data: %v", seedErr)
	}

	// Initialize repositories
	questionRepo := repository.NewMongoQuestionRepository(dbClient.Database())
	sessionRepo := repository.NewMongoSessionRepository(dbClient.Database())

	// Initialize services
	catalogService := services.NewCatalogService(questionRepo)
	sessionService := services.NewSessionService(sessionRepo, catalogService, tokenService)

	// Initialize narrative backend
	// #IMPLEMENTATION_DECISION: A missing API key selects the deterministic
	// template backend instead of failing the boot
	var textBackend insight.TextBackend
	if cfg.AIEnabled() {
		textBackend = insight.NewGeminiBackend(insight.GeminiConfig{
			APIKey:  cfg.GeminiAPIKey,
			BaseURL: cfg.GeminiBaseURL,
			Model:   cfg.GeminiModel,
			Timeout: cfg.GeminiTimeout,
		})
		log.Printf("[AI] Narrative backend: %s (%s)", textBackend.Name(), cfg.GeminiModel)
	} else {
		log.Println("[AI] No API key configured, using template narrative backend")
	}

	reportService := services.NewReportService(sessionService, catalogService, textBackend)

	// Warm the catalog cache so a broken catalog fails the boot, not a request
	if _, catErr := catalogService.Catalog(ctx); catErr != nil {
		log.Fatalf("Question catalog is unusable: %v", catErr)
	}

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(dbClient, reportService.NarrativeBackend(), Version)
	catalogHandler := handlers.NewCatalogHandler(catalogService)
	sessionHandler := handlers.NewSessionHandler(sessionService)
	reportHandler := handlers.NewReportHandler(reportService)

	// Create Gin router
	router := gin.New()

	// Apply global middleware
	router.Use(middleware.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger())
	router.Use(middleware.CORS(cfg.AllowedOrigins))
	router.Use(middleware.SecureHeaders())

	// Register health routes (not under /api/v1)
	healthHandler.RegisterRoutes(router)

	// Register Swagger documentation route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Create API v1 group with rate limiting on the public surface
	apiV1 := router.Group("/api/v1")
	apiV1.Use(middleware.NewRateLimiter(120, time.Minute).RateLimit())

	sessionAuth := middleware.SessionAuth(tokenService)

	catalogHandler.RegisterRoutes(apiV1)
	sessionHandler.RegisterRoutes(apiV1, sessionAuth)
	reportHandler.RegisterRoutes(apiV1, sessionAuth)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Printf("Starting KVAL Assessment API server v%s on port %s", Version, cfg.ServerPort)
		log.Printf("Build: %s | Commit: %s", BuildTime, GitCommit)
		log.Printf("Environment: %s", cfg.Environment)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	log.Println("Server shutdown complete")
}
