package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/flexbnb/flexbnb-backend/api/routes"
	"github.com/flexbnb/flexbnb-backend/internal/bookings"
	"github.com/flexbnb/flexbnb-backend/internal/pools"
	"github.com/flexbnb/flexbnb-backend/internal/recommendations"
	"github.com/flexbnb/flexbnb-backend/internal/roommates"
	"github.com/flexbnb/flexbnb-backend/internal/users"
	"github.com/flexbnb/flexbnb-backend/pkg/config"
	"github.com/flexbnb/flexbnb-backend/pkg/db"
	"github.com/flexbnb/flexbnb-backend/pkg/logger"
	"github.com/flexbnb/flexbnb-backend/pkg/metrics"
	"github.com/flexbnb/flexbnb-backend/pkg/migrate"
	"github.com/flexbnb/flexbnb-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	gormDB := dbClient.DB()
	roommateRepo := roommates.NewRepository(gormDB)
	roommateScorer := roommates.NewScorer()

	usersService, err := users.NewService(users.ServiceParams{
		Repo: users.NewRepository(gormDB),
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create users service", err)
		os.Exit(1)
	}

	roommatesService, err := roommates.NewService(roommates.ServiceParams{
		ProfileRepo: roommateRepo,
		Scorer:      roommateScorer,
		Pooling:     cfg.Pooling,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create roommates service", err)
		os.Exit(1)
	}

	poolsService, err := pools.NewService(pools.ServiceParams{
		Repo:        pools.NewRepository(gormDB),
		Tx:          dbClient,
		ProfileRepo: roommateRepo,
		Scorer:      roommateScorer,
		Pooling:     cfg.Pooling,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create pools service", err)
		os.Exit(1)
	}

	bookingsService, err := bookings.NewService(bookings.ServiceParams{
		Repo:    bookings.NewRepository(gormDB),
		Tx:      dbClient,
		Booking: cfg.Booking,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create bookings service", err)
		os.Exit(1)
	}

	recsService, err := recommendations.NewService(recommendations.ServiceParams{
		Repo:   recommendations.NewRepository(gormDB),
		Tx:     dbClient,
		Scorer: recommendations.NewScorer(),
		Cache:  redisClient,
		Log:    logg,
		Recs:   cfg.Recommendations,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create recommendations service", err)
		os.Exit(1)
	}

	httpMetrics := metrics.NewHTTPMetrics(prometheus.DefaultRegisterer)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(cfg, logg, dbClient, redisClient, httpMetrics, routes.Services{
			Users:           usersService,
			Pools:           poolsService,
			Roommates:       roommatesService,
			Bookings:        bookingsService,
			Recommendations: recsService,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
