package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler, cfg RouterConfig) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
	if cfg.Metrics != nil {
		mux.Handle("GET /metrics", cfg.Metrics)
	}
	if cfg.MCP != nil {
		mux.Handle("/mcp", cfg.MCP)
	}
}

func registerLeagueRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/gameweeks/current", handler.CurrentGameweek)
	mux.HandleFunc("GET /v1/leagues/{leagueID}/entries", handler.ListLeagueEntries)
	mux.HandleFunc("GET /v1/leagues/{leagueID}/gameweek-points", handler.GameweekPoints)
	mux.HandleFunc("GET /v1/leagues/{leagueID}/month-points", handler.MonthPoints)
	mux.HandleFunc("GET /v1/leagues/{leagueID}/weekly-ranking", handler.WeeklyRanking)
	mux.HandleFunc("GET /v1/leagues/{leagueID}/monthly-ranking", handler.MonthlyRanking)
	mux.HandleFunc("GET /v1/leagues/{leagueID}/awards", handler.Awards)
	mux.HandleFunc("GET /v1/leagues/{leagueID}/awards/summary", handler.AwardsSummary)
	mux.HandleFunc("GET /v1/leagues/{leagueID}/awards/leaderboard", handler.AwardsLeaderboard)
}

func registerCacheRoutes(mux *http.ServeMux, handler *Handler, operatorToken string) {
	mux.HandleFunc("GET /v1/cache/stats", handler.CacheStats)
	mux.Handle("POST /v1/cache/clear", RequireOperatorToken(operatorToken, http.HandlerFunc(handler.ClearCache)))
}
