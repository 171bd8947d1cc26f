package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/riskibarqy/fpl-league-analyzer/external/fpl"
	"github.com/riskibarqy/fpl-league-analyzer/internal/config"
	"github.com/riskibarqy/fpl-league-analyzer/internal/domain/historyarchive"
	"github.com/riskibarqy/fpl-league-analyzer/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/fpl-league-analyzer/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/fpl-league-analyzer/internal/interfaces/httpapi"
	"github.com/riskibarqy/fpl-league-analyzer/internal/interfaces/mcptools"
	"github.com/riskibarqy/fpl-league-analyzer/internal/jobs"
	"github.com/riskibarqy/fpl-league-analyzer/internal/platform/cache"
	"github.com/riskibarqy/fpl-league-analyzer/internal/platform/logging"
	"github.com/riskibarqy/fpl-league-analyzer/internal/usecase"
)

// Runtime is the assembled service: the HTTP server plus the background
// pieces that share its lifetime.
type Runtime struct {
	Server    *http.Server
	Analytics *usecase.AnalyticsService
	Warmer    *jobs.Warmer

	db     *sqlx.DB
	logger *logging.Logger
}

func New(cfg config.Config, logger *logging.Logger) (*Runtime, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.HTTPAddr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	rt := &Runtime{logger: logger}

	archive, err := rt.openArchive(cfg)
	if err != nil {
		return nil, err
	}

	client := fpl.NewClient(fpl.ClientConfig{
		HTTPClient: &http.Client{
			Timeout:   cfg.FPLTimeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		BaseURL:        cfg.FPLBaseURL,
		Timeout:        cfg.FPLTimeout,
		MaxRetries:     cfg.FPLMaxRetries,
		PageDelay:      cfg.FPLPageDelay,
		UserAgent:      cfg.FPLUserAgent,
		Logger:         logger,
		CircuitBreaker: cfg.FPLCircuit,
	})

	rt.Analytics = usecase.NewAnalyticsService(usecase.AnalyticsDeps{
		History:   client,
		Directory: client,
		Status:    client,
		Cache:     cache.NewStore(cfg.Cache),
		Archive:   archive,
		Logger:    logger,
	}, usecase.AnalyticsConfig{
		MaxWorkers:     cfg.FetchMaxWorkers,
		FetchTimeout:   cfg.FetchTimeout,
		DefaultMapping: cfg.MonthMapping,
		Prizes:         cfg.Prizes,
	})

	routerCfg := httpapi.RouterConfig{
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		OperatorToken:      cfg.OperatorToken,
	}
	if cfg.MetricsEnabled {
		routerCfg.Metrics = promhttp.Handler()
	}
	if cfg.MCPEnabled {
		mcpServer := mcptools.NewServer(rt.Analytics, mcptools.Config{
			Name:            cfg.ServiceName,
			Version:         cfg.ServiceVersion,
			DefaultLeagueID: cfg.DefaultLeagueID,
			DefaultPhase:    cfg.DefaultPhase,
		}, logger)
		routerCfg.MCP = mcptools.NewHTTPHandler(mcpServer)
	}

	handler := httpapi.NewHandler(rt.Analytics, logger)
	rt.Server = &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      httpapi.NewRouter(handler, logger, routerCfg),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	if cfg.WarmupEnabled {
		rt.Warmer, err = jobs.NewWarmer(rt.Analytics, jobs.WarmerConfig{
			Interval: cfg.WarmupInterval,
			League: usecase.LeagueQuery{
				LeagueID: cfg.DefaultLeagueID,
				Phase:    cfg.DefaultPhase,
			},
		}, logger)
		if err != nil {
			rt.closeDB()
			return nil, fmt.Errorf("build warmer: %w", err)
		}
	}

	return rt, nil
}

// openArchive picks the history archive backend. Postgres when a database
// url is configured, in-process otherwise, nil when archiving is off.
func (rt *Runtime) openArchive(cfg config.Config) (historyarchive.Repository, error) {
	if !cfg.ArchiveEnabled {
		return nil, nil
	}
	if cfg.DBURL == "" {
		rt.logger.Warn("history archive enabled without DB_URL, keeping snapshots in memory")
		return memory.NewHistoryArchiveRepository(), nil
	}

	db, err := otelsqlx.Open("postgres", cfg.DBURL,
		otelsql.WithDBSystem("postgresql"),
		otelsql.WithDBName(dbNameFromURL(cfg.DBURL)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return nil, fmt.Errorf("open archive database: %w", err)
	}
	db.SetMaxOpenConns(4)
	db.SetConnMaxIdleTime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping archive database: %w", err)
	}

	rt.db = db
	rt.logger.Info("history archive connected", "db_name", dbNameFromURL(cfg.DBURL))
	return postgres.NewHistoryArchiveRepository(db), nil
}

// Start launches the background jobs. The HTTP server is started by the caller.
func (rt *Runtime) Start() error {
	if rt.Warmer == nil {
		return nil
	}
	return rt.Warmer.Start()
}

// Shutdown drains the HTTP server first, then stops background work and
// closes the database.
func (rt *Runtime) Shutdown(ctx context.Context) error {
	var firstErr error
	if rt.Server != nil {
		if err := rt.Server.Shutdown(ctx); err != nil {
			firstErr = err
		}
	}
	if rt.Warmer != nil {
		if err := rt.Warmer.Stop(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if err := rt.closeDB(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}

func (rt *Runtime) closeDB() error {
	if rt.db == nil {
		return nil
	}
	err := rt.db.Close()
	rt.db = nil
	return err
}
