package mcptools

import (
	"context"
	"strings"
	"testing"

	sonic "github.com/bytedance/sonic"
	"github.com/modelcontextprotocol/go-sdk/mcp"
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

const defaultLeague = int64(1042917)

type deps struct {
	history   *usecasemock.HistoryFetcher
	directory *usecasemock.LeagueDirectory
	status    *usecasemock.GameweekStatus
}

func connect(t *testing.T) (*mcp.ClientSession, deps) {
	t.Helper()

	d := deps{
		history:   usecasemock.NewHistoryFetcher(t),
		directory: usecasemock.NewLeagueDirectory(t),
		status:    usecasemock.NewGameweekStatus(t),
	}
	svc := usecase.NewAnalyticsService(usecase.AnalyticsDeps{
		History:   d.history,
		Directory: d.directory,
		Status:    d.status,
		Cache:     cache.NewStore(cache.Config{Enabled: false}),
		Logger:    logging.NewNop(),
	}, usecase.AnalyticsConfig{})
	server := NewServer(svc, Config{Version: "test", DefaultLeagueID: defaultLeague}, logging.NewNop())

	ctx := context.Background()
	clientTransport, serverTransport := mcp.NewInMemoryTransports()
	serverSession, err := server.Connect(ctx, serverTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = serverSession.Close() })

	client := mcp.NewClient(&mcp.Implementation{Name: "test-client", Version: "test"}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = session.Close() })
	return session, d
}

func text(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()

	require.NotEmpty(t, res.Content)
	tc, ok := res.Content[0].(*mcp.TextContent)
	require.True(t, ok, "expected text content")
	return tc.Text
}

func TestServer_ListsReportTools(t *testing.T) {
	session, _ := connect(t)

	res, err := session.ListTools(context.Background(), nil)
	require.NoError(t, err)

	names := make([]string, 0, len(res.Tools))
	for _, tool := range res.Tools {
		names = append(names, tool.Name)
	}
	assert.ElementsMatch(t, []string{
		"current_gameweek", "gameweek_table", "month_table", "weekly_ranking",
		"monthly_ranking", "awards_summary", "awards_leaderboard",
	}, names)
}

func TestServer_WeeklyRankingUsesDefaultLeague(t *testing.T) {
	session, d := connect(t)
	d.directory.On("FetchLeagueEntries", mock.Anything, defaultLeague, 1).
		Return([]league.Entry{{EntryID: 5, ManagerName: "Dao"}}, nil).Once()
	d.history.On("FetchHistory", mock.Anything, int64(5)).
		Return(usecase.EntryHistory{EntryID: 5, Events: []gameweek.RawEvent{{Event: 4, Points: 71}}}, nil).Once()

	res, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      "weekly_ranking",
		Arguments: map[string]any{"gw": 4},
	})
	require.NoError(t, err)
	require.False(t, res.IsError, text(t, res))

	var report usecase.RankingReport
	require.NoError(t, sonic.UnmarshalString(text(t, res), &report))
	require.Len(t, report.Rows, 1)
	assert.Equal(t, "Dao", report.Rows[0].ManagerName)
	assert.Equal(t, 71, report.Rows[0].NetPoints)
}

func TestServer_InvalidRangeIsToolError(t *testing.T) {
	session, _ := connect(t)

	res, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      "gameweek_table",
		Arguments: map[string]any{"gw_start": 9, "gw_end": 3},
	})
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.True(t, strings.Contains(text(t, res), "invalid gameweek range"))
}
