package config

import (
	"testing"
	"time"

	"github.com/riskibarqy/fpl-league-analyzer/internal/platform/logging"
)

func TestLoad_AppEnvValidation(t *testing.T) {
	t.Setenv("APP_ENV", "invalid")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid APP_ENV")
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.HTTPAddr != ":8080" {
		t.Fatalf("unexpected HTTPAddr: %q", cfg.HTTPAddr)
	}
	if cfg.FPLBaseURL != "https://fantasy.premierleague.com/api" {
		t.Fatalf("unexpected FPLBaseURL: %q", cfg.FPLBaseURL)
	}
	if cfg.FPLMaxRetries != 3 || cfg.FPLPageDelay != 300*time.Millisecond {
		t.Fatalf("unexpected FPL retry settings: retries=%d delay=%s", cfg.FPLMaxRetries, cfg.FPLPageDelay)
	}
	if cfg.FetchMaxWorkers != 6 || cfg.FetchTimeout != 15*time.Second {
		t.Fatalf("unexpected fetch settings: workers=%d timeout=%s", cfg.FetchMaxWorkers, cfg.FetchTimeout)
	}
	if cfg.DefaultLeagueID != 1042917 || cfg.DefaultPhase != 1 {
		t.Fatalf("unexpected league defaults: %d/%d", cfg.DefaultLeagueID, cfg.DefaultPhase)
	}
	if cfg.MonthMapping.Len() != 10 {
		t.Fatalf("expected 10 default months, got %d", cfg.MonthMapping.Len())
	}
	if !cfg.Cache.Enabled || cfg.Cache.Size != 512 || cfg.Cache.LiveTTL != 5*time.Minute {
		t.Fatalf("unexpected cache defaults: %+v", cfg.Cache)
	}
	if !cfg.FPLCircuit.Enabled || cfg.FPLCircuit.FailureThreshold != 5 {
		t.Fatalf("unexpected circuit defaults: %+v", cfg.FPLCircuit)
	}
	if cfg.ArchiveEnabled || cfg.WarmupEnabled {
		t.Fatalf("archive and warmup should default to disabled")
	}
	if !cfg.MCPEnabled || !cfg.MetricsEnabled {
		t.Fatalf("mcp and metrics should default to enabled")
	}
	if cfg.LogLevel != logging.LevelInfo {
		t.Fatalf("unexpected log level: %v", cfg.LogLevel)
	}
	if cfg.Prizes.Weekly.IntPart() != 300000 || cfg.Prizes.Monthly.IntPart() != 500000 {
		t.Fatalf("unexpected prizes: %s/%s", cfg.Prizes.Weekly, cfg.Prizes.Monthly)
	}
}

func TestLoad_InvalidMonthMapping(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("MONTH_MAPPING", "1-5,4-8")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for overlapping MONTH_MAPPING")
	}
}

func TestLoad_PositiveValidation(t *testing.T) {
	cases := map[string]string{
		"FETCH_MAX_WORKERS":         "0",
		"FETCH_TIMEOUT":             "-1s",
		"CACHE_SIZE":                "-3",
		"CACHE_TTL_LIVE":            "0s",
		"FPL_CIRCUIT_FAILURE_COUNT": "0",
		"DEFAULT_LEAGUE_ID":         "0",
		"FPL_MAX_RETRIES":           "-1",
		"PRIZE_WEEKLY":              "-10",
	}
	for key, value := range cases {
		t.Run(key, func(t *testing.T) {
			t.Setenv("APP_ENV", EnvDev)
			t.Setenv(key, value)
			if _, err := Load(); err == nil {
				t.Fatalf("expected error for %s=%s", key, value)
			}
		})
	}
}

func TestLoad_UptraceRequiresDSNWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("UPTRACE_DSN", "")
	t.Setenv("OTEL_EXPORTER_OTLP_HEADERS", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when UPTRACE_ENABLED=true without UPTRACE_DSN")
	}
}

func TestLoad_UptraceDSNFromOTLPHeaders(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("UPTRACE_DSN", "")
	t.Setenv("OTEL_EXPORTER_OTLP_HEADERS", `foo=bar, uptrace-dsn="https://token@api.uptrace.dev/1"`)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.UptraceDSN != "https://token@api.uptrace.dev/1" {
		t.Fatalf("unexpected UptraceDSN: %q", cfg.UptraceDSN)
	}
}

func TestLoad_PyroscopeAppNameDefaultsToServiceName(t *testing.T) {
	t.Setenv("APP_ENV", EnvProd)
	t.Setenv("SERVICE_NAME", "fpl-analyzer-prod")
	t.Setenv("PYROSCOPE_ENABLED", "true")
	t.Setenv("PYROSCOPE_SERVER_ADDRESS", "http://pyroscope:4040")
	t.Setenv("PYROSCOPE_APP_NAME", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.PyroscopeAppName != "fpl-analyzer-prod" {
		t.Fatalf("unexpected PyroscopeAppName: %q", cfg.PyroscopeAppName)
	}
	if cfg.IsDev() {
		t.Fatalf("prod config should not be dev")
	}
}

func TestLoad_PyroscopeRequiresServerAddressWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("PYROSCOPE_ENABLED", "true")
	t.Setenv("PYROSCOPE_SERVER_ADDRESS", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when PYROSCOPE_ENABLED=true without PYROSCOPE_SERVER_ADDRESS")
	}
}

func TestLoad_CORSOriginsParsing(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("CORS_ALLOWED_ORIGINS", " https://a.example , ,https://b.example")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if len(cfg.CORSAllowedOrigins) != 2 || cfg.CORSAllowedOrigins[1] != "https://b.example" {
		t.Fatalf("unexpected CORS origins: %v", cfg.CORSAllowedOrigins)
	}
}

func TestLoad_CacheAndWarmupParsing(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("CACHE_ENABLED", "false")
	t.Setenv("CACHE_TTL_HISTORY", "2m")
	t.Setenv("WARMUP_ENABLED", "true")
	t.Setenv("WARMUP_INTERVAL", "90s")
	t.Setenv("OPERATOR_TOKEN", " secret ")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Cache.Enabled {
		t.Fatalf("expected cache disabled")
	}
	if cfg.Cache.HistoryTTL != 2*time.Minute {
		t.Fatalf("unexpected HistoryTTL: %s", cfg.Cache.HistoryTTL)
	}
	if !cfg.WarmupEnabled || cfg.WarmupInterval != 90*time.Second {
		t.Fatalf("unexpected warmup config: %v %s", cfg.WarmupEnabled, cfg.WarmupInterval)
	}
	if cfg.OperatorToken != "secret" {
		t.Fatalf("unexpected OperatorToken: %q", cfg.OperatorToken)
	}
}
