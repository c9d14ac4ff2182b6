package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/redis/rueidis"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	config "priority-tasks.com/priority-tasks/internal/configs"
	httpapi "priority-tasks.com/priority-tasks/internal/http"
	"priority-tasks.com/priority-tasks/internal/limiter"
	repository "priority-tasks.com/priority-tasks/internal/repositories"
	"priority-tasks.com/priority-tasks/internal/services"
	"priority-tasks.com/priority-tasks/internal/view"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the task list web server",
	Long:  "Serves the priority task list page and its JSON API",
	RunE: func(cmd *cobra.Command, args []string) error {
		envErr := godotenv.Load()

		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("config: %w", err)
		}

		logger, err := config.NewLogger(cfg)
		if err != nil {
			return err
		}
		if envErr != nil {
			logger.Debug(".env file not found, using environment variables")
		}

		location, err := cfg.Location()
		if err != nil {
			return err
		}

		factory, db, err := newRepositoryFactory(cfg)
		if err != nil {
			return err
		}

		rateLimiter, redisClient, err := newLimiter(cfg)
		if err != nil {
			return err
		}

		registry := services.NewViewRegistry(factory, cfg.ViewIdleTimeout(), cfg.ViewSweepInterval(), logger)

		renderer, err := view.NewRenderer()
		if err != nil {
			return err
		}

		handler := httpapi.NewHandler(registry, location, logger)
		e := httpapi.NewServer(handler, renderer, rateLimiter, logger)

		logger.WithFields(log.Fields{
			"addr":       cfg.AppURL,
			"store":      cfg.StoreDriver,
			"rate_limit": cfg.RateLimitBackend,
		}).Info("HTTP server listening")

		exitCode, err := serveUntilShutdown(e, cfg.AppURL, cfg.ShutdownTimeout(),
			sequentialShutdown(logger, teardownSteps(e, registry, db, redisClient)), logger)
		if err != nil {
			return err
		}
		if exitCode != 0 {
			os.Exit(exitCode)
		}
		return nil
	},
}

func newRepositoryFactory(cfg config.Config) (repository.Factory, *gorm.DB, error) {
	if cfg.StoreDriver != config.StoreDriverSQLite {
		return repository.MemoryFactory(), nil, nil
	}

	db, err := config.NewDatabaseClient(cfg.DatabaseDSN)
	if err != nil {
		return nil, nil, err
	}
	return repository.GormFactory(db), db, nil
}

func newLimiter(cfg config.Config) (limiter.Limiter, rueidis.Client, error) {
	window := config.RateLimitWindow
	if cfg.RateLimitBackend != config.RateLimitBackendRedis {
		return limiter.NewMemoryLimiter(cfg.RateLimit, window), nil, nil
	}

	client, err := config.NewRedisClient(cfg.RedisAddr)
	if err != nil {
		return nil, nil, err
	}
	return limiter.NewRedisLimiter(client, cfg.RedisKeyPrefix, cfg.RateLimit, window), client, nil
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
