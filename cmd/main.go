package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/defesacivil/citizen_incident_system/internal/config"
	v1 "github.com/defesacivil/citizen_incident_system/internal/handler/http/v1"
	"github.com/defesacivil/citizen_incident_system/internal/live"
	"github.com/defesacivil/citizen_incident_system/internal/metrics"
	"github.com/defesacivil/citizen_incident_system/internal/repository"
	"github.com/defesacivil/citizen_incident_system/internal/service"
	"github.com/defesacivil/citizen_incident_system/internal/webhook"
	"github.com/defesacivil/citizen_incident_system/pkg/logger"
	"github.com/defesacivil/citizen_incident_system/pkg/postgres"
	redisclient "github.com/defesacivil/citizen_incident_system/pkg/redis"

	_ "github.com/defesacivil/citizen_incident_system/docs"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title Citizen Incident System API
// @version 1.0
// @description Citizen incident reporting: proximity-clustered reports, operator lifecycle, risk-zone safety tracking and a live view feed.
// @host localhost:8080
// @BasePath /api/v1
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key
func runMigrations(cfg *config.Config, log *logrus.Logger) error {
	log.Info("Running database migrations...")

	migrationURL := cfg.DatabaseURL
	if !strings.HasPrefix(migrationURL, "pgx5://") {
		migrationURL = strings.Replace(migrationURL, "postgres://", "pgx5://", 1)
	}

	m, err := migrate.New(
		"file://migrations",
		migrationURL,
	)
	if err != nil {
		return fmt.Errorf("could not create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Info("Database migrations applied successfully")
	return nil
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	log := logger.New(cfg.LogLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := runMigrations(cfg, log); err != nil {
		log.Fatalf("Failed to run database migrations: %v", err)
	}

	dbpool, err := postgres.NewPostgresDB(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to connect to PostgreSQL: %v", err)
	}
	defer dbpool.Close()
	log.Info("Successfully connected to PostgreSQL")

	redisClient, err := redisclient.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()
	log.Info("Successfully connected to Redis")

	// Metrics registry with the standard process/go collectors
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(registry)

	// Operator alert queue and its delivery worker
	alertPublisher := webhook.NewRedisAlertPublisher(redisClient)
	alertWorker := webhook.NewAlertWorker(redisClient, log, cfg)
	alertWorker.Start(ctx)

	// Repositories
	incidentRepo := repository.NewIncidentRepository(dbpool, redisClient)
	safetyRepo := repository.NewSafetyRepository(dbpool)
	zoneRepo := repository.NewRiskZoneRepository(dbpool)
	sessionStore := repository.NewPromptSessionStore(redisClient, cfg.SafetySessionTTL)

	// Live feed: services publish through Redis, the hub fans out to websockets
	feedPublisher := live.NewRedisPublisher(redisClient)
	snapshot := service.NewFeedSnapshot(incidentRepo, safetyRepo, zoneRepo)
	hub := live.NewHub(log, snapshot, redisClient)
	go func() {
		if err := hub.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.WithError(err).Error("Live hub stopped")
		}
	}()

	// Services
	clock := clockwork.NewRealClock()
	incidentService := service.NewIncidentService(incidentRepo, feedPublisher, m, clock, log, cfg)
	safetyService := service.NewSafetyService(safetyRepo, zoneRepo, sessionStore, feedPublisher, alertPublisher, m, clock, log)

	// HTTP wiring
	handler := v1.NewHandler(incidentService, safetyService, log, cfg)

	router := gin.Default()
	auth := v1.APIKeyAuthMiddleware(cfg, log)
	api := router.Group("/api/v1")
	handler.RegisterRoutes(api, auth)
	v1.RegisterLive(api.Group("", auth), hub)

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	serverAddr := fmt.Sprintf(":%s", cfg.HTTPPort)

	srv := &http.Server{
		Addr:    serverAddr,
		Handler: router,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Error starting HTTP server: %v", err)
		}
	}()
	log.Infof("HTTP server started on port %s", cfg.HTTPPort)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Received shutdown signal, shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Info("Server gracefully stopped")
}
