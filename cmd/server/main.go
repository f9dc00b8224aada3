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

	"fleettrack/internal/config"
	"fleettrack/internal/handlers"
	"fleettrack/internal/middleware"
	"fleettrack/internal/repositories/mongodb"
	"fleettrack/internal/services"
	"fleettrack/pkg/cache"
	"fleettrack/pkg/database"
	"fleettrack/pkg/logger"
	"fleettrack/pkg/maps"
	"fleettrack/pkg/messaging"
	"fleettrack/pkg/push"
	"fleettrack/pkg/websocket"
	"fleettrack/routes"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
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

	if err := db.EnsureIndexes(context.Background()); err != nil {
		log.WithError(err).Fatal("Failed to ensure MongoDB indexes")
	}

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
		log.WithError(err).Fatal("Failed to connect to Redis")
	}
	defer redisCache.Close()

	// Repositories
	deviceRepo := mongodb.NewDeviceRepository(db.Database)
	customerRepo := mongodb.NewCustomerRepository(db.Database)
	positionRepo := mongodb.NewPositionRepository(db.Database)
	geofenceRepo := mongodb.NewGeofenceRepository(db.Database)
	containmentRepo := mongodb.NewContainmentRepository(db.Database)
	notificationRepo := mongodb.NewNotificationRepository(db.Database, redisCache)

	// Outbound providers are optional: a missing credential disables the
	// channel instead of blocking startup.
	pushProvider := buildPushProvider(cfg.Push, log)
	msgProvider := buildMessagingProvider(cfg.Messaging, log)
	geocoder := buildGeocoder(cfg.Maps, log)

	hub := websocket.NewHub()
	go hub.Run()

	// Services
	evaluationService := services.NewEvaluationService(geofenceRepo, containmentRepo, log)
	alertService := services.NewAlertService(
		notificationRepo, customerRepo,
		pushProvider, msgProvider, geocoder, hub, log,
		services.AlertServiceOptions{
			QueueSize:       cfg.Alerts.QueueSize,
			Workers:         cfg.Alerts.Workers,
			DeliveryTimeout: cfg.Alerts.DeliveryTimeout,
		},
	)
	alertService.Start()

	geofenceService := services.NewGeofenceService(geofenceRepo, containmentRepo, deviceRepo, log)
	notificationService := services.NewNotificationService(notificationRepo, log)
	trackingService := services.NewTrackingService(
		deviceRepo, positionRepo, evaluationService, alertService, redisCache, hub, log,
	)

	// HTTP layer
	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.RequestLoggingMiddleware(log))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "version": cfg.App.Version})
	})

	api := router.Group("/api/v1")
	routes.SetupTrackingRoutes(api, handlers.NewTrackingHandler(trackingService))
	routes.SetupGeofenceRoutes(api, handlers.NewGeofenceHandler(geofenceService))
	routes.SetupNotificationRoutes(api, handlers.NewNotificationHandler(notificationService))
	routes.SetupWebhookRoutes(api, handlers.NewWebhookHandler(alertService))
	routes.SetupWebSocketRoutes(router, hub)

	server := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.App.Host, cfg.App.Port),
		Handler: router,
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

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.WithError(err).Error("Server shutdown failed")
	}

	// Drain queued alerts before the process exits.
	alertService.Stop()
	log.Info("Shutdown complete")
}

func buildPushProvider(cfg *config.PushConfig, log *logger.Logger) push.Provider {
	switch cfg.Provider {
	case "apns":
		if cfg.APNS.KeyFile == "" {
			log.Warn("APNS key file not configured, push disabled")
			return nil
		}
		provider, err := push.NewAPNSProvider(cfg.APNS.KeyFile, cfg.APNS.KeyID, cfg.APNS.TeamID, cfg.APNS.BundleID, cfg.APNS.Production)
		if err != nil {
			log.WithError(err).Warn("Failed to initialize APNS, push disabled")
			return nil
		}
		return provider

	default:
		if cfg.FCM.Credentials == "" {
			log.Warn("FCM credentials not configured, push disabled")
			return nil
		}
		provider, err := push.NewFCMProvider(cfg.FCM.Credentials)
		if err != nil {
			log.WithError(err).Warn("Failed to initialize FCM, push disabled")
			return nil
		}
		return provider
	}
}

func buildMessagingProvider(cfg *config.MessagingConfig, log *logger.Logger) messaging.Provider {
	switch cfg.Provider {
	case "sns":
		provider, err := messaging.NewAWSSNSProvider(cfg.AWS.Region)
		if err != nil {
			log.WithError(err).Warn("Failed to initialize AWS SNS, contact paging disabled")
			return nil
		}
		return provider

	default:
		if cfg.Twilio.AccountSID == "" {
			log.Warn("Twilio not configured, contact paging disabled")
			return nil
		}
		return messaging.NewTwilioProvider(cfg.Twilio.AccountSID, cfg.Twilio.AuthToken, cfg.Twilio.FromNumber, cfg.Twilio.FromWhatsApp)
	}
}

func buildGeocoder(cfg *config.MapsConfig, log *logger.Logger) maps.Geocoder {
	if cfg.GoogleMaps.APIKey == "" {
		return nil
	}
	geocoder, err := maps.NewGoogleGeocoder(cfg.GoogleMaps.APIKey)
	if err != nil {
		log.WithError(err).Warn("Failed to initialize geocoder, address enrichment disabled")
		return nil
	}
	return geocoder
}
