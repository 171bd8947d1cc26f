package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/riskibarqy/fpl-league-analyzer/internal/domain/gameweek"
	"github.com/riskibarqy/fpl-league-analyzer/internal/platform/logging"
	"github.com/riskibarqy/fpl-league-analyzer/internal/usecase"
)

type Handler struct {
	analytics *usecase.AnalyticsService
	logger    *logging.Logger
	validator *validator.Validate
}

func NewHandler(analytics *usecase.AnalyticsService, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		analytics: analytics,
		logger:    logger,
		validator: validator.New(),
	}
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}
	return nil
}

// analyticsRequest is the union of every route's parameters. Gameweek
// bounds are left to the domain range check so out-of-season values surface
// as invalid ranges rather than generic validation errors.
type analyticsRequest struct {
	LeagueID  int64 `validate:"gte=1"`
	Phase     int   `validate:"gte=1,lte=11"`
	GWStart   int
	GWEnd     int
	Gameweek  int
	Month     int    `validate:"gte=0,lte=38"`
	CurrentGW int    `validate:"gte=0,lte=38"`
	Mapping   string `validate:"max=256"`
	Search    string `validate:"max=100"`
}

func (r analyticsRequest) query() usecase.LeagueQuery {
	return usecase.LeagueQuery{LeagueID: r.LeagueID, Phase: r.Phase}
}

// parseRequest reads the league path value and the given optional integer
// query parameters. gw_start and gw_end default to the whole season.
func parseRequest(r *http.Request) (analyticsRequest, error) {
	leagueID, err := strconv.ParseInt(strings.TrimSpace(r.PathValue("leagueID")), 10, 64)
	if err != nil {
		return analyticsRequest{}, fmt.Errorf("%w: league id must be an integer", usecase.ErrInvalidInput)
	}
	req := analyticsRequest{
		LeagueID: leagueID,
		Mapping:  strings.TrimSpace(r.URL.Query().Get("mapping")),
		Search:   strings.TrimSpace(r.URL.Query().Get("q")),
	}

	ints := []struct {
		key      string
		fallback int
		dst      *int
	}{
		{"phase", 1, &req.Phase},
		{"gw_start", gameweek.MinGameweek, &req.GWStart},
		{"gw_end", gameweek.MaxGameweek, &req.GWEnd},
		{"gw", 0, &req.Gameweek},
		{"month", 0, &req.Month},
		{"current_gw", 0, &req.CurrentGW},
	}
	for _, p := range ints {
		if *p.dst, err = queryInt(r, p.key, p.fallback); err != nil {
			return analyticsRequest{}, err
		}
	}
	return req, nil
}

func queryInt(r *http.Request, key string, fallback int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer", usecase.ErrInvalidInput, key)
	}
	return v, nil
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	writeSuccess(r.Context(), w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) CurrentGameweek(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CurrentGameweek")
	defer span.End()

	gw, err := h.analytics.CurrentGameweek(ctx)
	if err != nil {
		h.fail(ctx, w, "resolve current gameweek failed", err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, map[string]int{"gameweek": gw})
}

func (h *Handler) ListLeagueEntries(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListLeagueEntries")
	defer span.End()

	req, ok := h.request(ctx, w, r)
	if !ok {
		return
	}

	entries, err := h.analytics.LeagueEntries(ctx, req.query(), req.Search)
	if err != nil {
		h.fail(ctx, w, "list league entries failed", err, "league_id", req.LeagueID)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, usecase.NewLeagueEntryViews(entries))
}

func (h *Handler) GameweekPoints(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GameweekPoints")
	defer span.End()

	req, ok := h.request(ctx, w, r)
	if !ok {
		return
	}
	table, entries, err := h.analytics.GameweekPoints(ctx, req.query(), req.GWStart, req.GWEnd)
	if err != nil {
		h.fail(ctx, w, "gameweek points failed", err, "league_id", req.LeagueID)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, usecase.NewGameweekTableView(table, entries))
}

func (h *Handler) MonthPoints(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.MonthPoints")
	defer span.End()

	req, ok := h.request(ctx, w, r)
	if !ok {
		return
	}
	table, entries, err := h.analytics.MonthPoints(ctx, req.query(), req.GWStart, req.GWEnd, req.Mapping)
	if err != nil {
		h.fail(ctx, w, "month points failed", err, "league_id", req.LeagueID)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, usecase.NewMonthTableView(table, entries))
}

func (h *Handler) Awards(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Awards")
	defer span.End()

	req, ok := h.request(ctx, w, r)
	if !ok {
		return
	}
	table, entries, err := h.analytics.Awards(ctx, req.query(), req.GWStart, req.GWEnd, req.Mapping)
	if err != nil {
		h.fail(ctx, w, "awards failed", err, "league_id", req.LeagueID)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, usecase.NewAwardsTableView(table, entries))
}

func (h *Handler) WeeklyRanking(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.WeeklyRanking")
	defer span.End()

	req, ok := h.request(ctx, w, r)
	if !ok {
		return
	}

	report, err := h.analytics.WeeklyRanking(ctx, req.query(), req.Gameweek)
	if err != nil {
		h.fail(ctx, w, "weekly ranking failed", err, "league_id", req.LeagueID, "gameweek", req.Gameweek)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, report)
}

func (h *Handler) MonthlyRanking(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.MonthlyRanking")
	defer span.End()

	req, ok := h.request(ctx, w, r)
	if !ok {
		return
	}

	report, err := h.analytics.MonthlyRanking(ctx, req.query(), req.Month, req.Mapping, req.GWStart, req.GWEnd)
	if err != nil {
		h.fail(ctx, w, "monthly ranking failed", err, "league_id", req.LeagueID, "month", req.Month)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, report)
}

func (h *Handler) AwardsSummary(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.AwardsSummary")
	defer span.End()

	req, ok := h.request(ctx, w, r)
	if !ok {
		return
	}
	report, err := h.analytics.AwardsSummary(ctx, req.query(), req.GWStart, req.GWEnd, req.Mapping)
	if err != nil {
		h.fail(ctx, w, "awards summary failed", err, "league_id", req.LeagueID)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, report)
}

func (h *Handler) AwardsLeaderboard(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.AwardsLeaderboard")
	defer span.End()

	req, ok := h.request(ctx, w, r)
	if !ok {
		return
	}

	report, err := h.analytics.AwardsLeaderboard(ctx, req.query(), req.GWStart, req.GWEnd, req.Mapping, req.CurrentGW)
	if err != nil {
		h.fail(ctx, w, "awards leaderboard failed", err, "league_id", req.LeagueID)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, report)
}

func (h *Handler) CacheStats(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CacheStats")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, h.analytics.CacheStats())
}

func (h *Handler) ClearCache(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ClearCache")
	defer span.End()

	removed := h.analytics.ClearCache(ctx)
	writeSuccess(ctx, w, http.StatusOK, map[string]int{"removed": removed})
}

func (h *Handler) request(ctx context.Context, w http.ResponseWriter, r *http.Request) (analyticsRequest, bool) {
	req, err := parseRequest(r)
	if err == nil {
		err = h.validateRequest(ctx, req)
	}
	if err != nil {
		writeError(ctx, w, err)
		return analyticsRequest{}, false
	}
	return req, true
}

// fail logs server-side failures at error and caller mistakes at warn.
func (h *Handler) fail(ctx context.Context, w http.ResponseWriter, msg string, err error, args ...any) {
	args = append(args, "error", err)
	if mapError(err).HTTPStatus >= http.StatusInternalServerError {
		h.logger.ErrorContext(ctx, msg, args...)
	} else {
		h.logger.WarnContext(ctx, msg, args...)
	}
	writeError(ctx, w, err)
}
