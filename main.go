package main

import (
	"context"
	"crypto/tls"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/NomadCrew/nomad-diary-backend/config"
	"github.com/NomadCrew/nomad-diary-backend/db"
	"github.com/NomadCrew/nomad-diary-backend/handlers"
	"github.com/NomadCrew/nomad-diary-backend/internal/handoff"
	"github.com/NomadCrew/nomad-diary-backend/internal/metrics"
	"github.com/NomadCrew/nomad-diary-backend/internal/retry"
	"github.com/NomadCrew/nomad-diary-backend/internal/store/postgres"
	"github.com/NomadCrew/nomad-diary-backend/logger"
	"github.com/NomadCrew/nomad-diary-backend/middleware"
	contactservice "github.com/NomadCrew/nomad-diary-backend/models/contacts/service"
	"github.com/NomadCrew/nomad-diary-backend/models/destination"
	diaryservice "github.com/NomadCrew/nomad-diary-backend/models/diary/service"
	"github.com/NomadCrew/nomad-diary-backend/models/itinerary"
	tripservice "github.com/NomadCrew/nomad-diary-backend/models/trip/service"
	"github.com/NomadCrew/nomad-diary-backend/models/wizard"
	"github.com/NomadCrew/nomad-diary-backend/pkg/geoapify"
	"github.com/NomadCrew/nomad-diary-backend/pkg/llm"
	"github.com/NomadCrew/nomad-diary-backend/pkg/storage"
	"github.com/NomadCrew/nomad-diary-backend/router"
	"github.com/NomadCrew/nomad-diary-backend/services"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
)

// @title Nomad Diary API
// @version 1.0
// @description Trip planning, AI itineraries and the trip diary.
// @BasePath /v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	logger.InitLogger()
	log := logger.GetLogger()
	defer logger.Close()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	log.Infow("Configuration loaded", "config", cfg.Redacted())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Database
	poolConfig, err := pgxpool.ParseConfig(cfg.Database.URL())
	if err != nil {
		log.Fatalf("Failed to parse database config: %v", err)
	}
	if cfg.Database.MaxConnections > 0 {
		poolConfig.MaxConns = int32(cfg.Database.MaxConnections)
	}
	if life, err := time.ParseDuration(cfg.Database.ConnMaxLife); err == nil && life > 0 {
		poolConfig.MaxConnLifetime = life
	}
	if cfg.IsProduction() {
		poolConfig.ConnConfig.TLSConfig = &tls.Config{
			ServerName: cfg.Database.Host,
			MinVersion: tls.VersionTLS12,
		}
	}
	dbClient, err := db.NewDatabaseClient(ctx, poolConfig)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer dbClient.Close()
	pool := dbClient.GetPool()

	if err := db.RunMigrations(cfg.Database.URL()); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Redis
	redisOptions := &redis.Options{
		Addr:         cfg.Redis.Address,
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
	}
	if cfg.Redis.UseTLS {
		redisOptions.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	redisClient := redis.NewClient(redisOptions)
	defer redisClient.Close()

	appMetrics := metrics.New(prometheus.DefaultRegisterer)

	var cache handoff.Store
	switch cfg.Planner.HandoffBackend {
	case "memory":
		cache = handoff.NewMemoryStore(cfg.Planner.HandoffTTL())
	default:
		cache = handoff.NewRedisStore(redisClient)
	}

	completer, err := llm.New(ctx, cfg.AI)
	if err != nil {
		log.Fatalf("Failed to initialize AI provider: %v", err)
	}

	geo := geoapify.NewClient(
		cfg.ExternalServices.GeoapifyKey,
		cfg.ExternalServices.GeoapifyBaseURL,
		geoapify.WithRateLimit(cfg.ExternalServices.GeoapifyRatePerSec, 1),
		geoapify.WithMetrics(appMetrics),
	)

	// Stores
	tripStore := postgres.NewTripStore(pool)
	itineraryStore := postgres.NewItineraryStore(pool)
	diaryStore := postgres.NewDiaryStore(pool)
	contactStore := postgres.NewContactStore(pool)
	companionStore := postgres.NewCompanionStore(pool)

	// Services
	rateLimitService := services.NewRateLimitService(redisClient)

	profiles, err := services.NewProfileService(
		cfg.ExternalServices.SupabaseURL,
		cfg.ExternalServices.SupabaseServiceKey,
		cfg.ExternalServices.SupabaseProfileTable,
	)
	if err != nil {
		log.Warnw("Profile lookup disabled, home country will not be used", "error", err)
		profiles = nil
	}
	var homeCountry itinerary.HomeCountryLookup
	if profiles != nil {
		homeCountry = profiles
	}

	tripService := tripservice.NewTripService(
		tripStore,
		itineraryStore,
		cache,
		cfg.Planner.HandoffTTL(),
		retry.Policy{
			MaxAttempts: cfg.Planner.FetchMaxAttempts,
			BaseDelay:   cfg.Planner.FetchBaseDelay(),
			MaxDelay:    cfg.Planner.FetchMaxDelay(),
		},
		appMetrics,
	)

	var photos diaryservice.PhotoStorage
	if cfg.Storage.Enabled {
		s3Storage, err := storage.NewS3Storage(ctx, cfg.Storage)
		if err != nil {
			log.Fatalf("Failed to initialize photo storage: %v", err)
		}
		photos = s3Storage
	}

	diaryService := diaryservice.NewDiaryService(
		diaryStore,
		itineraryStore,
		contactStore,
		companionStore,
		tripService,
		photos,
		diaryservice.NewShareSigner(cfg.Share.Secret, cfg.Share.TTL(), cfg.Server.FrontendURL),
		diaryservice.Options{MaxUploadBytes: cfg.Storage.MaxUploadBytes},
	)
	if cfg.Email.Enabled {
		diaryService.SetMailer(services.NewEmailService(&cfg.Email))
	}

	generator := itinerary.NewGenerator(completer, appMetrics, cfg.Planner.DefaultDurationDays)
	planner := itinerary.NewPlanner(
		generator,
		tripService,
		tripService,
		homeCountry,
		cache,
		cfg.Planner.HandoffTTL(),
		cfg.Planner.FinalRedirectDelay(),
	)
	wizardService := wizard.NewService(cache, tripService, diaryService, cfg.Planner.HandoffTTL())
	contactService := contactservice.NewContactService(
		contactStore,
		companionStore,
		tripService,
		completer,
		homeCountry,
		appMetrics,
	)
	searchService := destination.NewService(geo, destination.SearchConfig{
		MinQueryLength: cfg.Planner.SearchMinQueryLength,
		Limit:          cfg.Planner.SearchResultLimit,
	})

	healthService := services.NewHealthService(pool, redisClient, cfg.Server.Version)
	healthService.SetPoolStats(func() (int32, int32) {
		stat := pool.Stat()
		return stat.AcquiredConns(), stat.MaxConns()
	})

	jwtValidator, err := middleware.NewJWTValidator(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize JWT validator: %v", err)
	}

	deps := router.Dependencies{
		Config:       cfg,
		JWTValidator: jwtValidator,
		RateLimiter:  rateLimitService,
		TripHandler:  handlers.NewTripHandler(tripService),
		AIHandler:    handlers.NewAIHandler(generator),
		DestinationHandler: handlers.NewDestinationHandler(
			searchService,
			geo,
			destination.SessionConfig{
				Debounce:       cfg.Planner.SearchDebounce(),
				MinQueryLength: cfg.Planner.SearchMinQueryLength,
				Limit:          cfg.Planner.SearchResultLimit,
			},
			appMetrics,
			&cfg.Server,
		),
		WizardHandler:  handlers.NewWizardHandler(wizardService),
		PlannerHandler: handlers.NewPlannerHandler(planner),
		ContactHandler: handlers.NewContactHandler(contactService),
		DiaryHandler:   handlers.NewDiaryHandler(diaryService, cfg.Storage.MaxUploadBytes),
		HealthHandler:  handlers.NewHealthHandler(healthService),
		Logger:         log,
	}
	r := router.SetupRouter(deps)

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Infow("Starting server", "port", cfg.Server.Port, "environment", cfg.Server.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Errorw("Server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorw("Graceful shutdown failed", "error", err)
		os.Exit(1)
	}
	log.Info("Server stopped")
}
