package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/labstack/echo/v4"
	"github.com/redis/rueidis"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"priority-tasks.com/priority-tasks/internal/services"
)

type teardownStep struct {
	name string
	run  func(ctx context.Context) error
}

// teardownSteps lists the shutdown work in dependency order: the server stops
// accepting and drains requests before the views, their database and the
// limiter's redis client go away.
func teardownSteps(e *echo.Echo, registry *services.ViewRegistry, db *gorm.DB, redisClient rueidis.Client) []teardownStep {
	steps := []teardownStep{
		{name: "http-server", run: e.Shutdown},
		{name: "views", run: registry.Shutdown},
	}
	if db != nil {
		steps = append(steps, teardownStep{name: "database", run: func(context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		}})
	}
	if redisClient != nil {
		steps = append(steps, teardownStep{name: "redis", run: func(context.Context) error {
			redisClient.Close()
			return nil
		}})
	}
	return steps
}

// sequentialShutdown runs steps one after another. A failing step is logged
// and does not keep the later ones from running.
func sequentialShutdown(logger *log.Logger, steps []teardownStep) gfshutdown.Operation {
	return func(ctx context.Context) error {
		var errs []error
		for _, step := range steps {
			if err := step.run(ctx); err != nil {
				logger.WithError(err).WithField("step", step.name).Warn("shutdown step failed")
				errs = append(errs, fmt.Errorf("%s: %w", step.name, err))
				continue
			}
			logger.WithField("step", step.name).Debug("shutdown step done")
		}
		return errors.Join(errs...)
	}
}

// serveUntilShutdown starts e on addr and blocks until a signal arrives or
// the listener fails, then runs teardown. A listener failure is returned
// after teardown has finished.
func serveUntilShutdown(e *echo.Echo, addr string, timeout time.Duration, teardown gfshutdown.Operation, logger *log.Logger) (int, error) {
	trigger, stop := context.WithCancel(context.Background())
	defer stop()
	startErr := make(chan error, 1)

	go func() {
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Error("server stopped")
			startErr <- err
			stop()
		}
	}()

	exitCode := <-gfshutdown.GracefulShutdown(trigger, timeout, map[string]gfshutdown.Operation{
		"server": teardown,
	})
	logger.WithField("exit_code", exitCode).Info("HTTP server and views shut down")

	select {
	case err := <-startErr:
		return exitCode, fmt.Errorf("start server: %w", err)
	default:
		return exitCode, nil
	}
}
