package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/joho/godotenv"

	"ledger/src/api"
	"ledger/src/api/handlers"
	"ledger/src/config"
	"ledger/src/database"
	"ledger/src/repositories"
	"ledger/src/scheduler"
	"ledger/src/services"
	"ledger/src/utils"
	redis_utils "ledger/src/utils/redis"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.LoadConfig("./settings")
	if err != nil {
		log.Println(err, "Error while loading config")
		return
	}
	errC, err := run(cfg)
	if err != nil {
		log.Println(err, "Couldn't run")
		return
	}

	if err := <-errC; err != nil {
		log.Println(err, "Error while running")
	}
}

func run(cfg *config.Config) (<-chan error, error) {
	errC := make(chan error, 1)

	logger := utils.NewLogger(cfg.Logging.Level)

	db, err := database.SetupDB(cfg)
	if err != nil {
		return nil, err
	}

	var cache *services.AnalyticsCache
	if cfg.Databases.Redis.Enabled {
		redisHandler, err := redis_utils.NewRedisHandler(cfg)
		if err != nil {
			return nil, err
		}
		cache = services.NewAnalyticsCache(redisHandler, time.Duration(cfg.Databases.Redis.TTLSeconds)*time.Second)
	}

	txm := repositories.NewTxManager(db)
	users := repositories.NewUserRepository(db)
	investments := repositories.NewInvestmentRepository(db)
	batches := repositories.NewDivestmentBatchRepository(db)
	divestments := repositories.NewDivestmentRepository(db)

	userService := services.NewUserService(txm, users)
	investmentService := services.NewInvestmentService(txm, users, investments, batches, divestments, cache)
	divestmentService := services.NewDivestmentService(txm, users, investments, batches, divestments, cache)
	analyticsService := services.NewAnalyticsService(txm, users, investments, divestments, cache)
	integrityService := services.NewIntegrityService(txm, users, investments, batches, divestments)

	if cfg.Scheduler.Enabled {
		task, err := scheduler.NewScheduledTask(cfg.Scheduler.IntegrityCron, logger, func(ctx context.Context) error {
			ctx, cancel := context.WithTimeout(ctx, 5*time.Minute)
			defer cancel()
			return integrityService.CheckAll(ctx)
		})
		if err != nil {
			return nil, err
		}
		logger.WithField("cron", cfg.Scheduler.IntegrityCron).Info("integrity check scheduled")
		_ = task
	}

	handler := handlers.NewHandler(logger, userService, investmentService, divestmentService, analyticsService)
	server := api.NewServer(handler)
	httpServer := api.NewHTTPServer(server, cfg.Service.Port)

	go func() {
		logger.WithField("port", cfg.Service.Port).Info("Starting server")

		// "ListenAndServe always returns a non-nil error. After Shutdown or Close, the returned error is
		// ErrServerClosed."
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Error("An error raised while setting up server")
			errC <- err
		}
	}()
	return errC, nil
}
