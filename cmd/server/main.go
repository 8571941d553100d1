// Command server runs the Explore API.
//
// @title                       Explore API
// @version                     1.0
// @description                 Tourism listings with moderation, reservations and reviews.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	goredis "github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	_ "github.com/explore-taroudant/explore-api/docs"
	"github.com/explore-taroudant/explore-api/internal/api"
	"github.com/explore-taroudant/explore-api/internal/api/handler"
	"github.com/explore-taroudant/explore-api/internal/core/ports"
	"github.com/explore-taroudant/explore-api/internal/core/service"
	"github.com/explore-taroudant/explore-api/internal/infrastructure/db/mongo"
	"github.com/explore-taroudant/explore-api/internal/infrastructure/db/redis"
	"github.com/explore-taroudant/explore-api/internal/infrastructure/queue"
	"github.com/explore-taroudant/explore-api/internal/observability/tracing"
	"github.com/explore-taroudant/explore-api/internal/pkg/config"
	"github.com/explore-taroudant/explore-api/pkg/logger"
)

func main() {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: cfg.Tracing.ServiceName,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := tracing.Init(ctx, log, cfg.Tracing.Endpoint, cfg.Tracing.ServiceName, cfg.Env)
	if err != nil {
		log.Fatal().Err(err).Msg("tracing init failed")
	}

	client, db, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connection failed")
	}
	if err := mongo.EnsureIndexes(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("mongo index creation failed")
	}
	log.Info().Str("database", cfg.Mongo.Database).Msg("mongo connected")

	probes := map[string]handler.Pinger{"mongodb": mongo.Pinger{Client: client}}

	var (
		rdb  *goredis.Client
		idem ports.IdempotencyStore
	)
	if cfg.Redis.Addr != "" {
		rdb, err = redis.Connect(ctx, redis.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
		if err != nil {
			log.Warn().Err(err).Msg("redis unavailable, idempotency keys disabled")
		} else {
			idem = redis.NewIdempotencyStore(rdb)
			probes["redis"] = redis.Pinger{Client: rdb}
			log.Info().Str("addr", cfg.Redis.Addr).Msg("redis connected")
		}
	}

	// --- Repositories ---
	users := mongo.NewUserRepository(db)
	guides := mongo.NewGuideProfileRepository(db)
	audit := queue.NewAuditDispatcher(0, mongo.NewAuditRepository(db), logger.Component("audit"))
	audit.Start()
	placeRepo := mongo.NewPlaceRepository(db)
	activityRepo := mongo.NewActivityRepository(db)
	circuitRepo := mongo.NewCircuitRepository(db)
	eventRepo := mongo.NewEventRepository(db)
	artisanRepo := mongo.NewArtisanRepository(db)

	// --- Services ---
	authService := service.NewAuthService(users, guides, cfg.JWTSecret, cfg.TokenTTL, logger.Component("auth"))
	if err := authService.EnsureAdmin(ctx, cfg.Admin.FullName, cfg.Admin.Email, cfg.Admin.Password); err != nil {
		log.Fatal().Err(err).Msg("admin bootstrap failed")
	}

	router := api.NewRouter(api.Deps{
		JWTSecret: cfg.JWTSecret,
		Logger:    logger.Component("http"),
		Users:     users,

		Auth:     authService,
		Guides:   service.NewGuideService(guides, logger.Component("guides")),
		Accounts: service.NewAccountService(users, guides, logger.Component("accounts")),

		Places:     service.NewPlaceService(placeRepo, audit, logger.Component("places")),
		Activities: service.NewActivityService(activityRepo, placeRepo, guides, audit, logger.Component("activities")),
		Circuits:   service.NewCircuitService(circuitRepo, guides, audit, logger.Component("circuits")),
		Events:     service.NewEventService(eventRepo, audit, logger.Component("events")),
		Artisans:   service.NewArtisanService(artisanRepo, guides, audit, logger.Component("artisans")),

		Reservations: service.NewReservationService(
			mongo.NewReservationRepository(db), users, activityRepo, circuitRepo, guides, idem,
			logger.Component("reservations"),
		),
		Reports: service.NewReportService(mongo.NewReportRepository(db), logger.Component("reports")),
		Reviews: service.NewReviewService(mongo.NewReviewRepository(db), placeRepo, logger.Component("reviews")),

		Probes: probes,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           otelhttp.NewHandler(router, cfg.Tracing.ServiceName),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown failed")
	}
	audit.Close()
	if rdb != nil {
		_ = rdb.Close()
	}
	if err := client.Disconnect(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("mongo disconnect failed")
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("tracing shutdown failed")
	}
}
