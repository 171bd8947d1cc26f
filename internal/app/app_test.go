package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riskibarqy/fpl-league-analyzer/internal/config"
	"github.com/riskibarqy/fpl-league-analyzer/internal/platform/cache"
	"github.com/riskibarqy/fpl-league-analyzer/internal/platform/logging"
)

func testConfig() config.Config {
	return config.Config{
		ServiceName:     "fpl-league-analyzer",
		ServiceVersion:  "test",
		HTTPAddr:        ":0",
		ReadTimeout:     time.Second,
		WriteTimeout:    time.Second,
		FPLBaseURL:      "http://127.0.0.1:1",
		FPLTimeout:      time.Second,
		FetchMaxWorkers: 2,
		FetchTimeout:    time.Second,
		DefaultLeagueID: 42,
		DefaultPhase:    1,
		Cache:           cache.DefaultConfig(),
	}
}

func serve(t *testing.T, rt *Runtime, method, path string) int {
	t.Helper()
	rec := httptest.NewRecorder()
	rt.Server.Handler.ServeHTTP(rec, httptest.NewRequest(method, path, nil))
	return rec.Code
}

func TestNew_RequiresAddr(t *testing.T) {
	cfg := testConfig()
	cfg.HTTPAddr = ""

	_, err := New(cfg, logging.NewNop())
	require.Error(t, err)
}

func TestNew_MinimalRuntime(t *testing.T) {
	rt, err := New(testConfig(), logging.NewNop())
	require.NoError(t, err)

	assert.Nil(t, rt.Warmer)
	assert.Nil(t, rt.db)
	assert.Equal(t, http.StatusOK, serve(t, rt, http.MethodGet, "/healthz"))
	assert.Equal(t, http.StatusNotFound, serve(t, rt, http.MethodGet, "/metrics"))
	assert.Equal(t, http.StatusNotFound, serve(t, rt, http.MethodPost, "/mcp"))

	require.NoError(t, rt.Start())
	require.NoError(t, rt.Shutdown(context.Background()))
}

func TestNew_MetricsAndArchiveFallback(t *testing.T) {
	cfg := testConfig()
	cfg.MetricsEnabled = true
	cfg.ArchiveEnabled = true

	rt, err := New(cfg, logging.NewNop())
	require.NoError(t, err)

	assert.Nil(t, rt.db, "no DB_URL keeps the archive in memory")
	assert.Equal(t, http.StatusOK, serve(t, rt, http.MethodGet, "/metrics"))
}

func TestNew_WarmerRequiresInterval(t *testing.T) {
	cfg := testConfig()
	cfg.WarmupEnabled = true

	_, err := New(cfg, logging.NewNop())
	require.Error(t, err)

	cfg.WarmupInterval = time.Minute
	rt, err := New(cfg, logging.NewNop())
	require.NoError(t, err)
	assert.NotNil(t, rt.Warmer)
}
