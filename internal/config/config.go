package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/riskibarqy/fpl-league-analyzer/internal/domain/awards"
	"github.com/riskibarqy/fpl-league-analyzer/internal/domain/month"
	"github.com/riskibarqy/fpl-league-analyzer/internal/platform/cache"
	"github.com/riskibarqy/fpl-league-analyzer/internal/platform/logging"
	"github.com/riskibarqy/fpl-league-analyzer/internal/platform/resilience"
)

// Config stores runtime configuration for the service.
type Config struct {
	AppEnv             string
	ServiceName        string
	ServiceVersion     string
	HTTPAddr           string
	ReadTimeout        time.Duration
	WriteTimeout       time.Duration
	CORSAllowedOrigins []string
	LogLevel           logging.Level

	FPLBaseURL    string
	FPLTimeout    time.Duration
	FPLMaxRetries int
	FPLPageDelay  time.Duration
	FPLUserAgent  string
	FPLCircuit    resilience.CircuitBreakerConfig

	FetchMaxWorkers int
	FetchTimeout    time.Duration
	DefaultLeagueID int64
	DefaultPhase    int
	MonthMapping    month.Definition
	Prizes          awards.Prizes

	Cache cache.Config

	OperatorToken  string
	DBURL          string
	ArchiveEnabled bool
	WarmupEnabled  bool
	WarmupInterval time.Duration
	MCPEnabled     bool
	MetricsEnabled bool

	UptraceEnabled             bool
	UptraceDSN                 string
	PyroscopeEnabled           bool
	PyroscopeServerAddress     string
	PyroscopeAppName           string
	PyroscopeAuthToken         string
	PyroscopeBasicAuthUser     string
	PyroscopeBasicAuthPassword string
	PyroscopeUploadRate        time.Duration
	PprofEnabled               bool
	PprofAddr                  string
}

// IsDev reports whether logs should use the console encoder.
func (c Config) IsDev() bool {
	return c.AppEnv == EnvDev
}

func Load() (Config, error) {
	cfg := Config{}

	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}
	cfg.AppEnv = appEnv
	cfg.ServiceName = getEnv("SERVICE_NAME", "fpl-league-analyzer")
	cfg.ServiceVersion = getEnv("SERVICE_VERSION", "dev")
	cfg.HTTPAddr = getEnv("APP_HTTP_ADDR", ":8080")
	cfg.CORSAllowedOrigins = splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*"))
	cfg.LogLevel = logging.ParseLevel(getEnv("LOG_LEVEL", "info"))

	if cfg.ReadTimeout, err = positiveDuration("APP_READ_TIMEOUT", "10s"); err != nil {
		return Config{}, err
	}
	if cfg.WriteTimeout, err = positiveDuration("APP_WRITE_TIMEOUT", "60s"); err != nil {
		return Config{}, err
	}

	cfg.FPLBaseURL = strings.TrimRight(getEnv("FPL_BASE_URL", "https://fantasy.premierleague.com/api"), "/")
	cfg.FPLUserAgent = getEnv("FPL_USER_AGENT", "fpl-league-analyzer/1.0")
	if cfg.FPLTimeout, err = positiveDuration("FPL_TIMEOUT", "10s"); err != nil {
		return Config{}, err
	}
	if cfg.FPLMaxRetries, err = getEnvAsInt("FPL_MAX_RETRIES", 3); err != nil {
		return Config{}, fmt.Errorf("parse FPL_MAX_RETRIES: %w", err)
	}
	if cfg.FPLMaxRetries < 0 {
		return Config{}, fmt.Errorf("FPL_MAX_RETRIES must be >= 0")
	}
	if cfg.FPLPageDelay, err = time.ParseDuration(getEnv("FPL_PAGE_DELAY", "300ms")); err != nil {
		return Config{}, fmt.Errorf("parse FPL_PAGE_DELAY: %w", err)
	}
	if cfg.FPLPageDelay < 0 {
		return Config{}, fmt.Errorf("FPL_PAGE_DELAY must be >= 0")
	}
	if cfg.FPLCircuit, err = loadCircuit("FPL"); err != nil {
		return Config{}, err
	}

	if cfg.FetchMaxWorkers, err = positiveInt("FETCH_MAX_WORKERS", 6); err != nil {
		return Config{}, err
	}
	if cfg.FetchTimeout, err = positiveDuration("FETCH_TIMEOUT", "15s"); err != nil {
		return Config{}, err
	}
	leagueID, err := strconv.ParseInt(getEnv("DEFAULT_LEAGUE_ID", "1042917"), 10, 64)
	if err != nil {
		return Config{}, fmt.Errorf("parse DEFAULT_LEAGUE_ID: %w", err)
	}
	if leagueID <= 0 {
		return Config{}, fmt.Errorf("DEFAULT_LEAGUE_ID must be > 0")
	}
	cfg.DefaultLeagueID = leagueID
	if cfg.DefaultPhase, err = positiveInt("DEFAULT_PHASE", 1); err != nil {
		return Config{}, err
	}
	if cfg.MonthMapping, err = month.ParseMapping(getEnv("MONTH_MAPPING", month.DefaultMapping)); err != nil {
		return Config{}, fmt.Errorf("parse MONTH_MAPPING: %w", err)
	}

	prizes := awards.DefaultPrizes()
	if prizes.Weekly, err = parseDecimal("PRIZE_WEEKLY", prizes.Weekly); err != nil {
		return Config{}, err
	}
	if prizes.Monthly, err = parseDecimal("PRIZE_MONTHLY", prizes.Monthly); err != nil {
		return Config{}, err
	}
	cfg.Prizes = prizes

	if cfg.Cache, err = loadCache(); err != nil {
		return Config{}, err
	}

	cfg.OperatorToken = strings.TrimSpace(getEnv("OPERATOR_TOKEN", ""))
	cfg.DBURL = strings.TrimSpace(getEnv("DB_URL", ""))
	if cfg.ArchiveEnabled, err = parseBool("ARCHIVE_ENABLED", "false"); err != nil {
		return Config{}, err
	}
	if cfg.WarmupEnabled, err = parseBool("WARMUP_ENABLED", "false"); err != nil {
		return Config{}, err
	}
	if cfg.WarmupInterval, err = positiveDuration("WARMUP_INTERVAL", "15m"); err != nil {
		return Config{}, err
	}
	if cfg.MCPEnabled, err = parseBool("MCP_ENABLED", "true"); err != nil {
		return Config{}, err
	}
	if cfg.MetricsEnabled, err = parseBool("METRICS_ENABLED", "true"); err != nil {
		return Config{}, err
	}

	if cfg.UptraceEnabled, err = parseBool("UPTRACE_ENABLED", "false"); err != nil {
		return Config{}, err
	}
	cfg.UptraceDSN = strings.TrimSpace(getEnv("UPTRACE_DSN", ""))
	if cfg.UptraceDSN == "" {
		cfg.UptraceDSN = parseUptraceDSNFromOTLPHeaders(getEnv("OTEL_EXPORTER_OTLP_HEADERS", ""))
	}
	if cfg.UptraceEnabled && cfg.UptraceDSN == "" {
		return Config{}, fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	}

	if cfg.PyroscopeEnabled, err = parseBool("PYROSCOPE_ENABLED", "false"); err != nil {
		return Config{}, err
	}
	cfg.PyroscopeServerAddress = strings.TrimSpace(getEnv("PYROSCOPE_SERVER_ADDRESS", ""))
	if cfg.PyroscopeEnabled && cfg.PyroscopeServerAddress == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_SERVER_ADDRESS is required when PYROSCOPE_ENABLED=true")
	}
	cfg.PyroscopeAppName = getEnv("PYROSCOPE_APP_NAME", cfg.ServiceName)
	cfg.PyroscopeAuthToken = getEnv("PYROSCOPE_AUTH_TOKEN", "")
	cfg.PyroscopeBasicAuthUser = getEnv("PYROSCOPE_BASIC_AUTH_USER", "")
	cfg.PyroscopeBasicAuthPassword = getEnv("PYROSCOPE_BASIC_AUTH_PASSWORD", "")
	if cfg.PyroscopeUploadRate, err = positiveDuration("PYROSCOPE_UPLOAD_RATE", "15s"); err != nil {
		return Config{}, err
	}

	if cfg.PprofEnabled, err = parseBool("PPROF_ENABLED", "false"); err != nil {
		return Config{}, err
	}
	cfg.PprofAddr = getEnv("PPROF_ADDR", ":6060")

	return cfg, nil
}

func loadCircuit(prefix string) (resilience.CircuitBreakerConfig, error) {
	out := resilience.DefaultCircuitBreakerConfig()
	var err error
	if out.Enabled, err = parseBool(prefix+"_CIRCUIT_ENABLED", "true"); err != nil {
		return out, err
	}
	if out.FailureThreshold, err = positiveInt(prefix+"_CIRCUIT_FAILURE_COUNT", 5); err != nil {
		return out, err
	}
	if out.OpenTimeout, err = positiveDuration(prefix+"_CIRCUIT_OPEN_TIMEOUT", "15s"); err != nil {
		return out, err
	}
	if out.HalfOpenMaxReq, err = positiveInt(prefix+"_CIRCUIT_HALF_OPEN_MAX_REQ", 2); err != nil {
		return out, err
	}
	return out, nil
}

func loadCache() (cache.Config, error) {
	out := cache.DefaultConfig()
	var err error
	if out.Enabled, err = parseBool("CACHE_ENABLED", "true"); err != nil {
		return out, err
	}
	if out.Size, err = positiveInt("CACHE_SIZE", out.Size); err != nil {
		return out, err
	}
	if out.StaticTTL, err = positiveDuration("CACHE_TTL_STATIC", out.StaticTTL.String()); err != nil {
		return out, err
	}
	if out.LeagueTTL, err = positiveDuration("CACHE_TTL_LEAGUE", out.LeagueTTL.String()); err != nil {
		return out, err
	}
	if out.HistoryTTL, err = positiveDuration("CACHE_TTL_HISTORY", out.HistoryTTL.String()); err != nil {
		return out, err
	}
	if out.LiveTTL, err = positiveDuration("CACHE_TTL_LIVE", out.LiveTTL.String()); err != nil {
		return out, err
	}
	return out, nil
}

func parseBool(key, fallback string) (bool, error) {
	out, err := strconv.ParseBool(getEnv(key, fallback))
	if err != nil {
		return false, fmt.Errorf("parse %s: %w", key, err)
	}
	return out, nil
}

func positiveInt(key string, fallback int) (int, error) {
	out, err := getEnvAsInt(key, fallback)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	if out <= 0 {
		return 0, fmt.Errorf("%s must be > 0", key)
	}
	return out, nil
}

func positiveDuration(key, fallback string) (time.Duration, error) {
	out, err := time.ParseDuration(getEnv(key, fallback))
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	if out <= 0 {
		return 0, fmt.Errorf("%s must be > 0", key)
	}
	return out, nil
}

func parseDecimal(key string, fallback decimal.Decimal) (decimal.Decimal, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	out, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parse %s: %w", key, err)
	}
	if out.IsNegative() {
		return decimal.Zero, fmt.Errorf("%s must be >= 0", key)
	}
	return out, nil
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return fallback
	}

	return value
}

func getEnvAsInt(key string, fallback int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}

	return out, nil
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		item := strings.TrimSpace(part)
		if item == "" {
			continue
		}
		out = append(out, item)
	}

	return out
}

func parseUptraceDSNFromOTLPHeaders(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}

	for _, item := range strings.Split(raw, ",") {
		parts := strings.SplitN(strings.TrimSpace(item), "=", 2)
		if len(parts) != 2 {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(parts[0]), "uptrace-dsn") {
			return strings.Trim(strings.TrimSpace(parts[1]), "\"'")
		}
	}

	return ""
}

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

func parseAppEnv(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case EnvDev, EnvStage, EnvProd:
		return value, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
}
