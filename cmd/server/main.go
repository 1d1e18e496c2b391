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

	"uberfriends/internal/config"
	"uberfriends/internal/handlers"
	"uberfriends/internal/middleware"
	"uberfriends/internal/repositories/mongodb"
	"uberfriends/internal/services"
	"uberfriends/internal/utils"
	"uberfriends/pkg/cache"
	"uberfriends/pkg/database"
	"uberfriends/pkg/logger"
	"uberfriends/pkg/realtime"
	"uberfriends/routes"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.NewLogger(&logger.Config{
		Level:  logger.LogLevel(cfg.App.LogLevel),
		Format: cfg.App.LogFormat,
		Output: "stdout",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	db, err := database.NewMongoDB(&database.DatabaseConfig{
		URI:            cfg.Database.URI,
		Database:       cfg.Database.Database,
		MaxPoolSize:    cfg.Database.MaxPoolSize,
		MinPoolSize:    cfg.Database.MinPoolSize,
		ConnectTimeout: cfg.Database.ConnectTimeout,
		SocketTimeout:  cfg.Database.SocketTimeout,
	})
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to MongoDB")
	}
	defer db.Close()

	indexCtx, cancelIndex := context.WithTimeout(context.Background(), 30*time.Second)
	if err := db.EnsureIndexes(indexCtx); err != nil {
		cancelIndex()
		log.WithError(err).Fatal("Failed to ensure database indexes")
	}
	cancelIndex()

	// Redis is an optimization; the service runs without it.
	var cacheService services.CacheService
	redisCache, err := cache.NewRedisCache(&cache.RedisConfig{
		Host:         cfg.Redis.Host,
		Port:         cfg.Redis.Port,
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
		DialTimeout:  cfg.Redis.DialTimeout,
		ReadTimeout:  cfg.Redis.ReadTimeout,
		WriteTimeout: cfg.Redis.WriteTimeout,
	})
	if err != nil {
		log.WithError(err).Warn("Redis unavailable, caching disabled")
	} else {
		cacheService = services.NewCacheService(redisCache)
		defer redisCache.Close()
	}

	registry := realtime.NewRegistry(log)
	wsHandler := realtime.NewHandler(registry, &realtime.Options{
		ReadBufferSize:  cfg.WebSocket.ReadBufferSize,
		WriteBufferSize: cfg.WebSocket.WriteBufferSize,
		SendQueueSize:   cfg.WebSocket.SendQueueSize,
		WriteWait:       cfg.WebSocket.WriteWait,
		PongWait:        cfg.WebSocket.PongWait,
		MaxMessageSize:  cfg.WebSocket.MaxMessageSize,
	}, log)

	userRepo := mongodb.NewUserRepository(db.Database, cacheService, cfg.Dispatch.DriverCacheTTL)
	driverRepo := mongodb.NewDriverRepository(db.Database, cacheService, cfg.Dispatch.DriverCacheTTL)
	rideRepo := mongodb.NewRideRepository(db.Database)
	meetupRepo := mongodb.NewMeetupRepository(db)

	matcher := services.NewMatchingService(services.AbsoluteDistance)
	dispatchService := services.NewDispatchService(driverRepo, rideRepo, userRepo, matcher, registry, cfg.Dispatch.MaxAssignAttempts, log)
	meetupService := services.NewMeetupService(meetupRepo, userRepo, dispatchService, registry, cfg.Dispatch.MeetupAutoClose, log)
	driverService := services.NewDriverService(driverRepo, log)
	authService := services.NewAuthService(userRepo, cfg.Security.JWTSecret, cfg.Security.BcryptCost, log)

	authHandler := handlers.NewAuthHandler(authService, log)
	rideHandler := handlers.NewRideHandler(dispatchService, log)
	driverHandler := handlers.NewDriverHandler(driverService, log)
	meetupHandler := handlers.NewMeetupHandler(meetupService, log)

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.CORSMiddleware(cfg.Security.CORSAllowedOrigins))
	router.Use(middleware.RequestLogger(log))

	router.GET("/health", func(c *gin.Context) {
		utils.SuccessResponse(c, "ok", gin.H{
			"service": cfg.App.Name,
			"version": cfg.App.Version,
		})
	})
	router.GET("/ws", wsHandler.HandleWebSocket)

	v1 := router.Group("/api/v1")
	routes.SetupAuthRoutes(v1, authHandler)
	routes.SetupRideRoutes(v1, rideHandler, driverHandler, cfg.Security.JWTSecret)
	routes.SetupMeetupRoutes(v1, meetupHandler, cfg.Security.JWTSecret)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.App.Host, cfg.App.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.WithField("addr", server.Addr).Info("Server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("Server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	registry.Close()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("Forced shutdown")
	}

	log.Info("Server stopped")
}
