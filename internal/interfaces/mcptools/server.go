// Package mcptools exposes the league reports as Model Context Protocol tools
// so agents can query them over streamable HTTP.
package mcptools

import (
	"context"
	"fmt"
	"net/http"

	sonic "github.com/bytedance/sonic"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/riskibarqy/fpl-league-analyzer/internal/domain/gameweek"
	"github.com/riskibarqy/fpl-league-analyzer/internal/platform/logging"
	"github.com/riskibarqy/fpl-league-analyzer/internal/usecase"
)

type Config struct {
	Name            string
	Version         string
	DefaultLeagueID int64
	DefaultPhase    int
}

// Argument structs are flat because the schema is inferred from their json
// fields.
type RangeArgs struct {
	LeagueID int64  `json:"league_id,omitempty" jsonschema:"Classic league id (0 = configured default)"`
	Phase    int    `json:"phase,omitempty" jsonschema:"League phase (default 1)"`
	GWStart  int    `json:"gw_start,omitempty" jsonschema:"First gameweek, 1..38 (default 1)"`
	GWEnd    int    `json:"gw_end,omitempty" jsonschema:"Last gameweek, 1..38 (default 38)"`
	Mapping  string `json:"mapping,omitempty" jsonschema:"Month mapping such as 1-4,5-8 (empty = configured default)"`
}

type WeeklyRankingArgs struct {
	LeagueID int64 `json:"league_id,omitempty" jsonschema:"Classic league id (0 = configured default)"`
	Phase    int   `json:"phase,omitempty" jsonschema:"League phase (default 1)"`
	Gameweek int   `json:"gw" jsonschema:"Gameweek to rank, 1..38"`
}

type MonthlyRankingArgs struct {
	LeagueID int64  `json:"league_id,omitempty" jsonschema:"Classic league id (0 = configured default)"`
	Phase    int    `json:"phase,omitempty" jsonschema:"League phase (default 1)"`
	Month    int    `json:"month" jsonschema:"1-based month number within the mapping"`
	Mapping  string `json:"mapping,omitempty" jsonschema:"Month mapping such as 1-4,5-8 (empty = configured default)"`
	GWStart  int    `json:"gw_start,omitempty" jsonschema:"Lower gameweek bound (default 1)"`
	GWEnd    int    `json:"gw_end,omitempty" jsonschema:"Upper gameweek bound (default 38)"`
}

type LeaderboardArgs struct {
	LeagueID  int64  `json:"league_id,omitempty" jsonschema:"Classic league id (0 = configured default)"`
	Phase     int    `json:"phase,omitempty" jsonschema:"League phase (default 1)"`
	GWStart   int    `json:"gw_start,omitempty" jsonschema:"First gameweek, 1..38 (default 1)"`
	GWEnd     int    `json:"gw_end,omitempty" jsonschema:"Last gameweek, 1..38 (default 38)"`
	Mapping   string `json:"mapping,omitempty" jsonschema:"Month mapping such as 1-4,5-8 (empty = configured default)"`
	CurrentGW int    `json:"current_gw,omitempty" jsonschema:"Award cutoff gameweek (0 = resolve the current gameweek)"`
}

type CurrentGameweekArgs struct{}

type tools struct {
	analytics *usecase.AnalyticsService
	cfg       Config
	logger    *logging.Logger
}

// NewServer registers every report tool. Cache administration is
// deliberately absent.
func NewServer(analytics *usecase.AnalyticsService, cfg Config, logger *logging.Logger) *mcp.Server {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.Name == "" {
		cfg.Name = "fpl-league-analyzer"
	}
	if cfg.DefaultPhase <= 0 {
		cfg.DefaultPhase = 1
	}
	t := &tools{analytics: analytics, cfg: cfg, logger: logger.Named("mcp")}

	server := mcp.NewServer(&mcp.Implementation{Name: cfg.Name, Version: cfg.Version}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "current_gameweek",
		Description: "Resolve the gameweek currently in play",
	}, t.currentGameweek)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "gameweek_table",
		Description: "Per entry, per gameweek points, transfer cost and net points for a league",
	}, t.gameweekTable)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "month_table",
		Description: "Per entry monthly totals (points, transfer cost, net) for a league",
	}, t.monthTable)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "weekly_ranking",
		Description: "Rank the entries that played one gameweek by net points",
	}, t.weeklyRanking)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "monthly_ranking",
		Description: "Rank entries by net points for one month of the mapping",
	}, t.monthlyRanking)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "awards_summary",
		Description: "Weekly and monthly winners for every gameweek with data",
	}, t.awardsSummary)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "awards_leaderboard",
		Description: "Award counts and prize money per entry up to the current gameweek",
	}, t.awardsLeaderboard)

	return server
}

// NewHTTPHandler serves the tools over streamable HTTP with plain JSON
// responses.
func NewHTTPHandler(server *mcp.Server) http.Handler {
	return mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return server
	}, &mcp.StreamableHTTPOptions{JSONResponse: true})
}

func (t *tools) query(leagueID int64, phase int) usecase.LeagueQuery {
	q := usecase.LeagueQuery{LeagueID: leagueID, Phase: phase}
	if q.LeagueID == 0 {
		q.LeagueID = t.cfg.DefaultLeagueID
	}
	if q.Phase == 0 {
		q.Phase = t.cfg.DefaultPhase
	}
	return q
}

func bounds(start, end int) (int, int) {
	if start == 0 {
		start = gameweek.MinGameweek
	}
	if end == 0 {
		end = gameweek.MaxGameweek
	}
	return start, end
}

func (t *tools) currentGameweek(ctx context.Context, _ *mcp.CallToolRequest, _ CurrentGameweekArgs) (*mcp.CallToolResult, any, error) {
	gw, err := t.analytics.CurrentGameweek(ctx)
	return t.result(ctx, "current_gameweek", map[string]int{"gameweek": gw}, err)
}

func (t *tools) gameweekTable(ctx context.Context, _ *mcp.CallToolRequest, args RangeArgs) (*mcp.CallToolResult, any, error) {
	start, end := bounds(args.GWStart, args.GWEnd)
	table, entries, err := t.analytics.GameweekPoints(ctx, t.query(args.LeagueID, args.Phase), start, end)
	if err != nil {
		return t.result(ctx, "gameweek_table", nil, err)
	}
	return t.result(ctx, "gameweek_table", usecase.NewGameweekTableView(table, entries), nil)
}

func (t *tools) monthTable(ctx context.Context, _ *mcp.CallToolRequest, args RangeArgs) (*mcp.CallToolResult, any, error) {
	start, end := bounds(args.GWStart, args.GWEnd)
	table, entries, err := t.analytics.MonthPoints(ctx, t.query(args.LeagueID, args.Phase), start, end, args.Mapping)
	if err != nil {
		return t.result(ctx, "month_table", nil, err)
	}
	return t.result(ctx, "month_table", usecase.NewMonthTableView(table, entries), nil)
}

func (t *tools) weeklyRanking(ctx context.Context, _ *mcp.CallToolRequest, args WeeklyRankingArgs) (*mcp.CallToolResult, any, error) {
	report, err := t.analytics.WeeklyRanking(ctx, t.query(args.LeagueID, args.Phase), args.Gameweek)
	return t.result(ctx, "weekly_ranking", report, err)
}

func (t *tools) monthlyRanking(ctx context.Context, _ *mcp.CallToolRequest, args MonthlyRankingArgs) (*mcp.CallToolResult, any, error) {
	start, end := bounds(args.GWStart, args.GWEnd)
	report, err := t.analytics.MonthlyRanking(ctx, t.query(args.LeagueID, args.Phase), args.Month, args.Mapping, start, end)
	return t.result(ctx, "monthly_ranking", report, err)
}

func (t *tools) awardsSummary(ctx context.Context, _ *mcp.CallToolRequest, args RangeArgs) (*mcp.CallToolResult, any, error) {
	start, end := bounds(args.GWStart, args.GWEnd)
	report, err := t.analytics.AwardsSummary(ctx, t.query(args.LeagueID, args.Phase), start, end, args.Mapping)
	return t.result(ctx, "awards_summary", report, err)
}

func (t *tools) awardsLeaderboard(ctx context.Context, _ *mcp.CallToolRequest, args LeaderboardArgs) (*mcp.CallToolResult, any, error) {
	start, end := bounds(args.GWStart, args.GWEnd)
	report, err := t.analytics.AwardsLeaderboard(ctx, t.query(args.LeagueID, args.Phase), start, end, args.Mapping, args.CurrentGW)
	return t.result(ctx, "awards_leaderboard", report, err)
}

// result reports usecase failures as tool errors so the calling agent can
// read them; only encoding problems become protocol errors.
func (t *tools) result(ctx context.Context, tool string, payload any, err error) (*mcp.CallToolResult, any, error) {
	if err != nil {
		t.logger.WarnContext(ctx, "mcp tool failed", "tool", tool, "error", err)
		return &mcp.CallToolResult{
			IsError: true,
			Content: []mcp.Content{&mcp.TextContent{Text: fmt.Sprintf("error: %v", err)}},
		}, nil, nil
	}

	body, err := sonic.ConfigDefault.MarshalIndent(payload, "", "  ")
	if err != nil {
		return nil, nil, fmt.Errorf("encode %s result: %w", tool, err)
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(body)}},
	}, nil, nil
}
