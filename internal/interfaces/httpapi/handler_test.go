package httpapi

import (
	"net/http"
	"net/http/httptest"
	"testing"

	sonic "github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/riskibarqy/fpl-league-analyzer/internal/domain/gameweek"
	"github.com/riskibarqy/fpl-league-analyzer/internal/domain/league"
	usecasemock "github.com/riskibarqy/fpl-league-analyzer/internal/mocks/usecase"
	"github.com/riskibarqy/fpl-league-analyzer/internal/platform/cache"
	"github.com/riskibarqy/fpl-league-analyzer/internal/platform/logging"
	"github.com/riskibarqy/fpl-league-analyzer/internal/usecase"
)

const operatorToken = "s3cret"

type routerDeps struct {
	history   *usecasemock.HistoryFetcher
	directory *usecasemock.LeagueDirectory
	status    *usecasemock.GameweekStatus
}

func newTestRouter(t *testing.T) (http.Handler, routerDeps) {
	t.Helper()

	deps := routerDeps{
		history:   usecasemock.NewHistoryFetcher(t),
		directory: usecasemock.NewLeagueDirectory(t),
		status:    usecasemock.NewGameweekStatus(t),
	}
	svc := usecase.NewAnalyticsService(usecase.AnalyticsDeps{
		History:   deps.history,
		Directory: deps.directory,
		Status:    deps.status,
		Cache:     cache.NewStore(cache.DefaultConfig()),
		Logger:    logging.NewNop(),
	}, usecase.AnalyticsConfig{})

	router := NewRouter(NewHandler(svc, logging.NewNop()), logging.NewNop(), RouterConfig{
		CORSAllowedOrigins: []string{"*"},
		OperatorToken:      operatorToken,
	})
	return router, deps
}

func (d routerDeps) expectLeague(leagueID int64) {
	d.directory.On("FetchLeagueEntries", mock.Anything, leagueID, 1).Return([]league.Entry{
		{EntryID: 1, ManagerName: "An", TeamName: "Team A"},
		{EntryID: 2, ManagerName: "Binh", TeamName: "Team B"},
	}, nil).Once()
	d.history.On("FetchHistory", mock.Anything, int64(1)).Return(usecase.EntryHistory{EntryID: 1, Events: []gameweek.RawEvent{
		{Event: 1, Points: 50},
		{Event: 2, Points: 64, EventTransfers: 2, EventTransfersCost: 4},
	}}, nil).Once()
	d.history.On("FetchHistory", mock.Anything, int64(2)).Return(usecase.EntryHistory{EntryID: 2, Events: []gameweek.RawEvent{
		{Event: 1, Points: 55},
		{Event: 2, Points: 60},
	}}, nil).Once()
}

func serve(router http.Handler, method, target string, header map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

type envelope[T any] struct {
	APIVersion string           `json:"apiVersion"`
	Data       T                `json:"data"`
	Error      *googleErrorBody `json:"error"`
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) envelope[T] {
	t.Helper()

	var out envelope[T]
	require.NoError(t, sonic.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func TestRouter_Healthz(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := serve(router, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(requestIDHeader))
}

func TestRouter_RequestIDIsEchoed(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := serve(router, http.MethodGet, "/healthz", map[string]string{requestIDHeader: "abc-123"})
	assert.Equal(t, "abc-123", rec.Header().Get(requestIDHeader))
}

func TestRouter_WeeklyRanking(t *testing.T) {
	router, deps := newTestRouter(t)
	deps.expectLeague(7)

	rec := serve(router, http.MethodGet, "/v1/leagues/7/weekly-ranking?gw=2", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	body := decode[usecase.RankingReport](t, rec)
	require.Len(t, body.Data.Rows, 2)
	assert.Equal(t, int64(1), body.Data.Rows[0].EntryID)
	assert.Equal(t, 60, body.Data.Rows[0].NetPoints)
	assert.Equal(t, 1, body.Data.Rows[1].Rank, "60 net ties 60 net")
	assert.Equal(t, "2(-4)", body.Data.Rows[0].Transfers)
	assert.Empty(t, body.Data.Unavailable)
}

func TestRouter_GameweekPoints(t *testing.T) {
	router, deps := newTestRouter(t)
	deps.expectLeague(7)

	rec := serve(router, http.MethodGet, "/v1/leagues/7/gameweek-points?gw_start=1&gw_end=1", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	body := decode[usecase.GameweekTableView](t, rec)
	require.Len(t, body.Data.Rows, 2)
	assert.Equal(t, "An", body.Data.Rows[0].ManagerName)
	assert.Equal(t, 55, body.Data.Rows[1].NetPoints)
	assert.False(t, body.Data.Partial)
}

func TestRouter_InvalidRangeIsRejectedBeforeFetching(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := serve(router, http.MethodGet, "/v1/leagues/7/gameweek-points?gw_start=5&gw_end=2", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	body := decode[any](t, rec)
	require.NotNil(t, body.Error)
	assert.Equal(t, "INVALID_ARGUMENT", body.Error.Status)
	assert.Equal(t, "invalidRange", body.Error.Errors[0].Reason)
}

func TestRouter_InvalidMapping(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := serve(router, http.MethodGet, "/v1/leagues/7/month-points?mapping=1-5,3-8", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalidMapping", decode[any](t, rec).Error.Errors[0].Reason)
}

func TestRouter_BadParameters(t *testing.T) {
	router, _ := newTestRouter(t)

	for _, target := range []string{
		"/v1/leagues/abc/awards",
		"/v1/leagues/0/awards",
		"/v1/leagues/7/awards?phase=x",
		"/v1/leagues/7/awards/leaderboard?current_gw=39",
	} {
		rec := serve(router, http.MethodGet, target, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code, target)
	}
}

func TestRouter_LeagueNotFound(t *testing.T) {
	router, deps := newTestRouter(t)
	deps.directory.On("FetchLeagueEntries", mock.Anything, int64(9), 1).Return(nil, usecase.ErrNotFound).Once()

	rec := serve(router, http.MethodGet, "/v1/leagues/9/entries", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouter_CacheClearRequiresOperatorToken(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := serve(router, http.MethodPost, "/v1/cache/clear", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = serve(router, http.MethodPost, "/v1/cache/clear", map[string]string{operatorTokenHeader: "wrong"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = serve(router, http.MethodPost, "/v1/cache/clear", map[string]string{operatorTokenHeader: operatorToken})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 0, decode[map[string]int](t, rec).Data["removed"])
}

func TestRequireOperatorToken_DisabledWhenEmpty(t *testing.T) {
	called := false
	handler := RequireOperatorToken("", http.HandlerFunc(func(http.ResponseWriter, *http.Request) { called = true }))

	rec := serve(handler, http.MethodPost, "/v1/cache/clear", map[string]string{operatorTokenHeader: "anything"})
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.False(t, called)
}

func TestRecoverPanic(t *testing.T) {
	handler := recoverPanic(logging.NewNop(), http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := serve(handler, http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestRouter_CacheStats(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := serve(router, http.MethodGet, "/v1/cache/stats", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	stats := decode[cache.Stats](t, rec).Data
	assert.True(t, stats.Enabled)
	assert.Len(t, stats.Tiers, len(cache.Tiers()))
}
