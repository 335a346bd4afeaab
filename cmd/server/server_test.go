package main

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/phrazzld/task-api/internal/platform/logger"
	"github.com/phrazzld/task-api/internal/platform/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStartHTTPServer_GracefulShutdown(t *testing.T) {
	cfg := testConfig()
	cfg.Server.Port = 0

	_, log := logger.SetupTestLogger(t)
	app, err := assembleApplication(cfg, log, memory.NewTaskStore(nil), newFakeCache())
	require.NoError(t, err)
	t.Cleanup(app.cleanup)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- app.startHTTPServer(ctx, http.NotFoundHandler())
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(shutdownTimeout + time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestStartHTTPServer_ListenFailure(t *testing.T) {
	cfg := testConfig()
	cfg.Server.Host = "256.0.0.1"

	_, log := logger.SetupTestLogger(t)
	app, err := assembleApplication(cfg, log, memory.NewTaskStore(nil), newFakeCache())
	require.NoError(t, err)
	t.Cleanup(app.cleanup)

	err = app.startHTTPServer(context.Background(), http.NotFoundHandler())
	assert.Error(t, err)
}

func TestAssembleApplication_NilStore(t *testing.T) {
	_, log := logger.SetupTestLogger(t)
	_, err := assembleApplication(testConfig(), log, nil, newFakeCache())
	assert.Error(t, err)
}
