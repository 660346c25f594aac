package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/darshan-ceo/beacon-search/internal/api/handlers"
	"github.com/darshan-ceo/beacon-search/internal/config"
	"github.com/darshan-ceo/beacon-search/internal/database"
	"github.com/darshan-ceo/beacon-search/internal/health"
	"github.com/darshan-ceo/beacon-search/internal/middleware"
	"github.com/darshan-ceo/beacon-search/internal/remote"
	"github.com/darshan-ceo/beacon-search/internal/repository"
	"github.com/darshan-ceo/beacon-search/internal/search"
	"github.com/darshan-ceo/beacon-search/internal/store"
	"github.com/darshan-ceo/beacon-search/pkg/utils"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found: %v", err)
	}

	logger := utils.GetLogger()
	logger.Info("Starting GST CRM search service...")

	cfg, err := config.Load()
	if err != nil {
		logger.WithError(err).Fatal("Failed to load configuration")
	}

	dbManager, err := database.NewManager(&database.Config{
		DatabaseURL: cfg.Database.URL,
		RedisURL:    cfg.Redis.URL,
		LogLevel:    os.Getenv("LOG_LEVEL"),
	}, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize database manager")
	}
	defer dbManager.Close()

	if err := dbManager.Migrate(); err != nil {
		logger.WithError(err).Fatal("Database migration failed")
	}

	repoManager := repository.NewRepositoryManager(dbManager.DB)

	richStore := store.NewGormStore(repoManager.EntityRecord, logger)
	flatStore := store.NewRedisStore(dbManager.Redis, logger)
	sessions := store.NewRedisSessionStore(dbManager.Redis, cfg.Search.SessionTTL)

	var remoteClient *remote.Client
	if cfg.HasSearchAPI() {
		if err := cfg.ValidateSearchAPI(); err != nil {
			logger.WithError(err).Fatal("Search API configuration validation failed")
		}
		remoteClient = remote.NewClient(cfg.SearchAPI.BaseURL, cfg.SearchAPI.APIKey, logger)
	} else {
		logger.Info("No search API configured, demo mode only")
	}

	searchService := search.NewService(
		richStore,
		flatStore,
		sessions,
		remoteClient,
		repoManager.PopularQuery,
		logger,
		search.Options{
			SessionID:       utils.GenerateSessionID("beacon-search-server"),
			CacheTTL:        cfg.Search.CacheTTL,
			ProbeTimeout:    cfg.SearchAPI.ProbeTimeout,
			SimulateLatency: cfg.Search.SimulateLatency,
		},
	)

	searchHandler := handlers.NewSearchHandler(searchService, repoManager, logger)
	healthChecker := health.NewHealthChecker(dbManager, repoManager.SystemHealth, logger, cfg.SearchAPI.BaseURL)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go healthChecker.PeriodicHealthCheck(ctx, time.Minute)

	if os.Getenv("LOG_LEVEL") != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.RequestID())

	rateLimiter := middleware.NewRateLimiter(120)
	router.Use(rateLimiter.RateLimit())

	api := router.Group("/api")
	{
		api.GET("/search", searchHandler.HandleSearch)
		api.GET("/search/suggest", searchHandler.HandleSuggest)
		api.GET("/search/provider", searchHandler.HandleProvider)
		api.GET("/search/stats", searchHandler.HandleIndexStats)
		api.GET("/search/history", searchHandler.HandleQueryHistory)
		api.GET("/search/recent", searchHandler.HandleRecentSearches)
		api.POST("/search/index/rebuild", searchHandler.HandleRebuildIndex)
		api.POST("/search/index/doc/:id", searchHandler.HandleReindexDocument)
		api.DELETE("/search/index/doc/:id", searchHandler.HandleRemoveFromIndex)
		api.DELETE("/search/cache", searchHandler.HandleClearCache)
		api.POST("/search/refresh", searchHandler.HandleRefresh)
	}

	router.GET("/health", func(c *gin.Context) {
		if cached, err := healthChecker.CheckCached(c.Request.Context()); err == nil {
			c.JSON(http.StatusOK, cached)
			return
		}
		c.JSON(http.StatusOK, healthChecker.CheckAll())
	})

	server := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	go func() {
		logger.WithField("port", cfg.Server.Port).Info("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Fatal("HTTP server failed")
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("Graceful shutdown failed")
	}

	logger.Info("Server stopped")
}
