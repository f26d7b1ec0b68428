package main

import (
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/verte-zerg/taboo/internal/gamefile"
	"github.com/verte-zerg/taboo/internal/model"
	"github.com/verte-zerg/taboo/internal/result"
	"github.com/verte-zerg/taboo/internal/server"
	"github.com/verte-zerg/taboo/internal/stats"
	"github.com/verte-zerg/taboo/internal/statsui"
	"github.com/verte-zerg/taboo/internal/tui"
)

const (
	defaultTrendWindow = 5
	defaultTop         = 10
)

var (
	importDryRun bool

	resultPlayer string
	resultPlain  bool
	resultShare  bool

	boardLevel  string
	boardPlayer string
	boardSince  string
	boardLast   int
	boardTop    int
	boardWindow int
	boardPlain  bool

	serveAddr string
)

func newImportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <glob>...",
		Short: "Import finished games from YAML or JSON files (supports **)",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runImportCmd,
	}
	cmd.Flags().BoolVar(&importDryRun, "dry-run", false, "validate and score files without saving")
	addJudgeFlags(cmd)
	return cmd
}

func runImportCmd(cmd *cobra.Command, args []string) error {
	paths, err := gamefile.Expand(args)
	if err != nil {
		return err
	}
	games := make([]model.Game, 0, len(paths))
	for _, path := range paths {
		game, err := gamefile.Load(path)
		if err != nil {
			return err
		}
		games = append(games, game)
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)

	ctx := cmd.Context()
	calc := calculator()
	out := cmd.OutOrStdout()
	for i, game := range games {
		if !importDryRun {
			rounds, err := judgeIfConfigured(ctx, cmd, game.Rounds)
			if err != nil {
				return err
			}
			game.Rounds = rounds
		}
		total := calc.Total(game.Rounds)
		if importDryRun {
			if _, err := fmt.Fprintf(out, "%s: %d rounds, score %s\n", paths[i], len(game.Rounds), result.FormatNumber(total.Score)); err != nil {
				return err
			}
			continue
		}
		id, err := st.InsertGame(ctx, game, total)
		if err != nil {
			return fmt.Errorf("failed to import %s: %w", paths[i], err)
		}
		appLog.Debug("game imported", "path", paths[i], "id", id)
		if _, err := fmt.Fprintf(out, "%s -> %s (score %s)\n", paths[i], id, result.FormatNumber(total.Score)); err != nil {
			return err
		}
	}
	return nil
}

func newResultCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "result [id]",
		Short: "Show a saved game (latest by default)",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runResultCmd,
	}
	cmd.Flags().StringVar(&resultPlayer, "player", "", "latest game of this player")
	cmd.Flags().BoolVar(&resultPlain, "plain", false, "print text instead of the interactive viewer")
	cmd.Flags().BoolVar(&resultShare, "share", false, "print only the share text")
	return cmd
}

func runResultCmd(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)

	ctx := cmd.Context()
	id := ""
	if len(args) == 1 {
		id = args[0]
	} else {
		latest, err := st.ListGames(ctx, model.GameFilter{Player: resultPlayer, Limit: 1})
		if err != nil {
			return fmt.Errorf("failed to list games: %w", err)
		}
		if len(latest) == 0 {
			return fmt.Errorf("no saved games")
		}
		id = latest[0].ID
	}
	game, err := st.GetGame(ctx, id)
	if err != nil {
		return err
	}

	calc := calculator()
	total := calc.Total(game.Rounds)
	out := cmd.OutOrStdout()
	if resultShare {
		_, err := fmt.Fprintln(out, result.ShareText(game.Level, game.Difficulty, total.Score))
		return err
	}
	color := result.ShouldUseColor(os.Stdout, false)
	if resultPlain || !isTerminal() {
		return result.Render(out, game, calc, result.Options{Width: result.TerminalWidth(), Color: color})
	}
	program := tea.NewProgram(tui.NewModel(game, calc, color), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

func newDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a saved game",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore()
			if err != nil {
				return err
			}
			defer closeStore(st)
			if err := st.DeleteGame(cmd.Context(), args[0]); err != nil {
				return fmt.Errorf("failed to delete game: %w", err)
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
			return err
		},
	}
}

func newLeaderboardCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "leaderboard",
		Short: "Show best games and score trends",
		Args:  cobra.NoArgs,
		RunE:  runLeaderboardCmd,
	}
	cmd.Flags().StringVar(&boardLevel, "level", "", "level filter")
	cmd.Flags().StringVar(&boardPlayer, "player", "", "player filter")
	cmd.Flags().StringVar(&boardSince, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&boardLast, "last", 0, "limit to last N games")
	cmd.Flags().IntVar(&boardTop, "top", defaultTop, "number of best games to show")
	cmd.Flags().IntVar(&boardWindow, "trend-window", defaultTrendWindow, "moving average window for the trend")
	cmd.Flags().BoolVar(&boardPlain, "plain", false, "print text instead of the interactive viewer")
	return cmd
}

func runLeaderboardCmd(cmd *cobra.Command, _ []string) error {
	if boardLast < 0 || boardTop <= 0 || boardWindow <= 0 {
		return fmt.Errorf("--last must be >= 0, --top and --trend-window must be > 0")
	}
	filter := model.GameFilter{Level: boardLevel, Player: boardPlayer}
	if boardSince != "" {
		parsed, err := time.ParseInLocation("2006-01-02", boardSince, time.Local)
		if err != nil {
			return fmt.Errorf("invalid --since value: %w", err)
		}
		filter.Since = &parsed
	}
	cfg := stats.ReportConfig{Filter: filter, Last: boardLast, Top: boardTop}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)

	if !boardPlain && isTerminal() {
		program := tea.NewProgram(statsui.NewModel(st, cfg), tea.WithAltScreen())
		if _, err := program.Run(); err != nil {
			return fmt.Errorf("failed to run leaderboard TUI: %w", err)
		}
		return nil
	}

	report, err := stats.BuildReport(cmd.Context(), st, cfg)
	if err != nil {
		return fmt.Errorf("failed to build report: %w", err)
	}
	out := cmd.OutOrStdout()
	if err := stats.RenderSummary(out, report.Games, boardWindow); err != nil {
		return err
	}
	if err := stats.RenderLeaderboard(out, "Best games", report.Best); err != nil {
		return err
	}
	return stats.RenderLevels(out, report.Levels)
}

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API",
		Args:  cobra.NoArgs,
		RunE:  runServeCmd,
	}
	cmd.Flags().StringVar(&serveAddr, "addr", defaultServerAddr, "listen address")
	return cmd
}

func runServeCmd(cmd *cobra.Command, _ []string) error {
	applyStringConfig(cmd, "addr", &serveAddr, fileCfg.Server.Addr)
	if logMode != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)

	h := server.NewHandler(appLog, st, calculator())
	return server.Serve(cmd.Context(), serveAddr, server.NewRouter(appLog, h), appLog)
}

func isTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}
