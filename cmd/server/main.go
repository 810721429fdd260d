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
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/Scardubu/FootballForecast-sub006/internal/api/handlers"
	"github.com/Scardubu/FootballForecast-sub006/internal/config"
	"github.com/Scardubu/FootballForecast-sub006/internal/engine"
	"github.com/Scardubu/FootballForecast-sub006/internal/services"
	"github.com/Scardubu/FootballForecast-sub006/internal/storage"
	"github.com/Scardubu/FootballForecast-sub006/pkg/logger"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger.InitLogger(cfg.LogLevel, cfg.IsDevelopment())
	log := logger.GetLogger()
	log.WithFields(logrus.Fields{
		"service": "feature-engine",
		"env":     cfg.Env,
		"port":    cfg.Port,
	}).Info("Starting feature engine service")

	db, err := storage.NewConnection(cfg.DatabaseURL, cfg.IsDevelopment())
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to database")
	}
	defer db.Close()

	store := storage.NewStore(db, log)
	if err := store.AutoMigrate(); err != nil {
		log.WithError(err).Fatal("Failed to migrate database schema")
	}

	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		log.WithError(err).Fatal("Invalid redis URL")
	}
	redisClient := redis.NewClient(redisOpts)
	defer redisClient.Close()

	var cache *services.FeatureCache
	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		log.WithError(err).Warn("Redis unreachable, running without feature cache")
	} else {
		cache = services.NewFeatureCache(redisClient, cfg.FeatureCacheTTL, log)
	}

	signals := services.NewGuardedSignalStore(store, cfg.CircuitBreakerThreshold, cfg.ExternalAPITimeout, log)

	var extractorOpts []engine.Option
	if cfg.LeagueFilter != "" {
		extractorOpts = append(extractorOpts, engine.WithLeagueFilter(cfg.LeagueFilter))
	}
	extractor := engine.NewExtractor(store, signals, log, extractorOpts...)

	var refresher *services.FeatureRefresher
	if cfg.EnableRefresher {
		lookahead := time.Duration(cfg.RefreshLookaheadHours) * time.Hour
		refresher = services.NewFeatureRefresher(extractor, store, cache, cfg.RefreshSchedule, lookahead, log)
		if err := refresher.Start(); err != nil {
			log.WithError(err).Fatal("Failed to start feature refresher")
		}
		defer refresher.Stop()
	}

	router := setupRouter(cfg, log, db, extractor, cache, signals, refresher)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.WithField("addr", srv.Addr).Info("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("HTTP server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.WithError(err).Error("Forced server shutdown")
	}
	log.Info("Server stopped")
}

func setupRouter(
	cfg *config.Config,
	log *logrus.Logger,
	db *storage.DB,
	extractor *engine.Extractor,
	cache *services.FeatureCache,
	signals *services.GuardedSignalStore,
	refresher *services.FeatureRefresher,
) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestLogger(log))

	healthHandler := handlers.NewHealthHandler(db, signals, refresher, log)
	router.GET("/health", healthHandler.GetHealth)
	router.HEAD("/health", healthHandler.GetHealth)
	router.GET("/ready", healthHandler.GetReady)

	featureHandler := handlers.NewFeatureHandler(extractor, cache, log)
	v1 := router.Group("/api/v1")
	{
		v1.GET("/fixtures/:id/features", featureHandler.GetMatchFeatures)
		v1.GET("/fixtures/:id/prediction", featureHandler.GetMatchPrediction)
	}

	return router
}

func requestLogger(log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.WithFields(logrus.Fields{
			"method":      c.Request.Method,
			"path":        c.Request.URL.Path,
			"status":      c.Writer.Status(),
			"duration_ms": time.Since(start).Milliseconds(),
		}).Info("Request handled")
	}
}
