package cmd

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	config "priority-tasks.com/priority-tasks/internal/configs"
	repository "priority-tasks.com/priority-tasks/internal/repositories"
	"priority-tasks.com/priority-tasks/internal/services"
)

func stepNames(steps []teardownStep) []string {
	names := make([]string, 0, len(steps))
	for _, s := range steps {
		names = append(names, s.name)
	}
	return names
}

func TestSequentialShutdown_RunsStepsInOrder(t *testing.T) {
	logger, hook := test.NewNullLogger()

	var ran []string
	record := func(name string, err error) teardownStep {
		return teardownStep{name: name, run: func(context.Context) error {
			ran = append(ran, name)
			return err
		}}
	}

	op := sequentialShutdown(logger, []teardownStep{
		record("http-server", nil),
		record("views", errors.New("drop failed")),
		record("database", nil),
		record("redis", nil),
	})

	err := op(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "views: drop failed")
	assert.Equal(t, []string{"http-server", "views", "database", "redis"}, ran)

	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, "views", hook.LastEntry().Data["step"])
}

func TestTeardownSteps_ServerDrainsBeforeStorage(t *testing.T) {
	logger, _ := test.NewNullLogger()

	db, err := config.NewDatabaseClient("file:shutdown-test?mode=memory&cache=shared")
	require.NoError(t, err)

	mr := miniredis.RunT(t)
	redisClient, err := config.NewRedisClient(mr.Addr())
	require.NoError(t, err)

	registry := services.NewViewRegistry(repository.GormFactory(db), time.Hour, time.Minute, logger)
	store, _ := registry.Open("")
	_, added, err := store.Submit(context.Background(), "left over", "high")
	require.NoError(t, err)
	require.True(t, added)

	steps := teardownSteps(echo.New(), registry, db, redisClient)
	assert.Equal(t, []string{"http-server", "views", "database", "redis"}, stepNames(steps))

	require.NoError(t, sequentialShutdown(logger, steps)(context.Background()))
	assert.Zero(t, registry.Len())

	sqlDB, err := db.DB()
	require.NoError(t, err)
	assert.Error(t, sqlDB.Ping())

	assert.Error(t, redisClient.Do(context.Background(), redisClient.B().Ping().Build()).Error())
}

func TestTeardownSteps_SkipsAbsentBackends(t *testing.T) {
	logger, _ := test.NewNullLogger()
	registry := services.NewViewRegistry(repository.MemoryFactory(), time.Hour, 0, logger)

	steps := teardownSteps(echo.New(), registry, nil, nil)
	assert.Equal(t, []string{"http-server", "views"}, stepNames(steps))
	assert.NoError(t, sequentialShutdown(logger, steps)(context.Background()))
}

func TestServeUntilShutdown_ListenFailureTearsDownAndReturns(t *testing.T) {
	logger, _ := test.NewNullLogger()

	tornDown := false
	teardown := func(context.Context) error {
		tornDown = true
		return nil
	}

	done := make(chan struct{})
	var err error
	go func() {
		defer close(done)
		_, err = serveUntilShutdown(echo.New(), "127.0.0.1:-1", time.Second, teardown, logger)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("serve did not return after the listener failed")
	}

	require.Error(t, err)
	assert.Contains(t, err.Error(), "start server")
	assert.True(t, tornDown)
}
