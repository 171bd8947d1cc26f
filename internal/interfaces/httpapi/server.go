package httpapi

import (
	"net/http"

	"github.com/riskibarqy/fpl-league-analyzer/internal/platform/logging"
)

type RouterConfig struct {
	CORSAllowedOrigins []string
	OperatorToken      string
	// Metrics and MCP are mounted only when non-nil.
	Metrics http.Handler
	MCP     http.Handler
}

func NewRouter(handler *Handler, logger *logging.Logger, cfg RouterConfig) http.Handler {
	if logger == nil {
		logger = logging.Default()
	}

	mux := http.NewServeMux()
	registerSystemRoutes(mux, handler, cfg)
	registerLeagueRoutes(mux, handler)
	registerCacheRoutes(mux, handler, cfg.OperatorToken)

	return RequestTracing(
		RequestID(
			RequestLogging(logger,
				CORS(cfg.CORSAllowedOrigins,
					RequestMetrics(
						recoverPanic(logger, mux))))))
}
