package main

import (
	"context"
	"fmt"
	"os"
	"os/user"
	"strings"

	"github.com/spf13/cobra"

	"github.com/verte-zerg/taboo/internal/cache"
	"github.com/verte-zerg/taboo/internal/generator"
	"github.com/verte-zerg/taboo/internal/judge"
	"github.com/verte-zerg/taboo/internal/level"
	"github.com/verte-zerg/taboo/internal/model"
	"github.com/verte-zerg/taboo/internal/result"
	"github.com/verte-zerg/taboo/internal/store"
)

var (
	gamePlayer string
	gameRounds int
	gameFresh  bool
	gameForce  bool

	roundQuestion   string
	roundResponse   string
	roundSeconds    float64
	roundHighlights []string

	judgeModel    string
	judgeAttempts int
	noJudge       bool
	judgeWarned   bool
)

func newGameCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "game",
		Short: "Play a game round by round",
	}

	start := &cobra.Command{
		Use:   "start <level>",
		Short: "Start a game on a level",
		Args:  cobra.ExactArgs(1),
		RunE:  runGameStartCmd,
	}
	start.Flags().StringVar(&gamePlayer, "player", "", "player name (default: config or $USER)")
	start.Flags().IntVar(&gameRounds, "rounds", defaultRounds, "targets per game")
	start.Flags().BoolVar(&gameFresh, "fresh", true, "prefer targets the player has not played yet")
	start.Flags().BoolVar(&gameForce, "force", false, "discard a game already in progress")

	round := &cobra.Command{
		Use:   "round",
		Short: "Record the next round",
		Args:  cobra.NoArgs,
		RunE:  runGameRoundCmd,
	}
	round.Flags().StringVar(&roundQuestion, "question", "", "clue given by the player")
	round.Flags().StringVar(&roundResponse, "response", "", "answer given by the guesser")
	round.Flags().Float64Var(&roundSeconds, "seconds", 0, "seconds taken to guess the target")
	round.Flags().StringArrayVar(&roundHighlights, "highlight", nil, "highlight range start:end in the response (repeatable)")

	status := &cobra.Command{
		Use:   "status",
		Short: "Show the game in progress",
		Args:  cobra.NoArgs,
		RunE:  runGameStatusCmd,
	}

	finish := &cobra.Command{
		Use:   "finish",
		Short: "Judge, save and show the game in progress",
		Args:  cobra.NoArgs,
		RunE:  runGameFinishCmd,
	}
	addJudgeFlags(finish)

	reset := &cobra.Command{
		Use:   "reset",
		Short: "Discard the game in progress",
		Args:  cobra.NoArgs,
		RunE:  runGameResetCmd,
	}

	cmd.AddCommand(start, round, status, finish, reset)
	return cmd
}

func addJudgeFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&judgeModel, "model", "", "OpenRouter model used to judge clues")
	cmd.Flags().IntVar(&judgeAttempts, "attempts", judge.DefaultOptions().Attempts, "evaluations per round, best one wins")
	cmd.Flags().BoolVar(&noJudge, "no-judge", false, "skip AI judging")
}

// session bundles what the game commands need.
type session struct {
	store *store.Store
	cache *cache.GameCache
	close func()
}

func openSession(ctx context.Context) (*session, error) {
	st, err := openStore()
	if err != nil {
		return nil, err
	}
	gc, closeCache, err := openGameCache(ctx, st)
	if err != nil {
		closeStore(st)
		return nil, err
	}
	return &session{
		store: st,
		cache: gc,
		close: func() {
			closeCache()
			closeStore(st)
		},
	}, nil
}

func openGameCache(ctx context.Context, st *store.Store) (*cache.GameCache, func(), error) {
	switch strings.ToLower(cacheBackend) {
	case "memory":
		appLog.Warn("memory cache does not persist between commands")
		return cache.NewGameCache(cache.NewMemory()), func() {}, nil
	case "redis":
		opts, err := redisOptions()
		if err != nil {
			return nil, nil, err
		}
		r, err := cache.NewRedis(ctx, opts)
		if err != nil {
			return nil, nil, err
		}
		return cache.NewGameCache(r), func() {
			if cerr := r.Close(); cerr != nil {
				logErrf("failed to close redis: %v\n", cerr)
			}
		}, nil
	default:
		return cache.NewGameCache(st), func() {}, nil
	}
}

func redisOptions() (cache.RedisOptions, error) {
	c := fileCfg.Cache
	db, err := envInt("TABOO_REDIS_DB", intValue(c.RedisDB, 0))
	if err != nil {
		return cache.RedisOptions{}, err
	}
	return cache.RedisOptions{
		Addr:     envString("TABOO_REDIS_ADDR", stringValue(c.RedisAddr, "localhost:6379")),
		Password: envString("TABOO_REDIS_PASSWORD", stringValue(c.RedisPassword, "")),
		DB:       db,
		Prefix:   envString("TABOO_REDIS_PREFIX", stringValue(c.RedisPrefix, "")),
	}, nil
}

func defaultPlayer() string {
	if u, err := user.Current(); err == nil && u.Username != "" {
		return u.Username
	}
	if v := os.Getenv("USER"); v != "" {
		return v
	}
	return "player"
}

func runGameStartCmd(cmd *cobra.Command, args []string) error {
	applyStringConfig(cmd, "player", &gamePlayer, fileCfg.Game.Player)
	applyIntConfig(cmd, "rounds", &gameRounds, fileCfg.Game.Rounds)
	applyBoolConfig(cmd, "fresh", &gameFresh, fileCfg.Game.Fresh)
	if gameRounds <= 0 {
		return fmt.Errorf("--rounds must be > 0")
	}
	if strings.TrimSpace(gamePlayer) == "" {
		gamePlayer = defaultPlayer()
	}

	lvl, err := level.Find(levelsDir, args[0])
	if err != nil {
		return fmt.Errorf("failed to load level: %w", err)
	}

	ctx := cmd.Context()
	sess, err := openSession(ctx)
	if err != nil {
		return err
	}
	defer sess.close()

	if current, ok, err := sess.cache.Level(ctx); err != nil {
		return err
	} else if ok && !gameForce {
		return fmt.Errorf("a game on %q is in progress; finish it or use --force", current.Name)
	}

	var played map[string]int
	if gameFresh {
		played, err = sess.store.PlayedTargets(ctx, gamePlayer)
		if err != nil {
			return fmt.Errorf("failed to load played targets: %w", err)
		}
	}
	targets := generator.New().PickFresh(lvl.Words, gameRounds, played, defaultFreshFactor)
	game := model.Level{Name: lvl.Name, Difficulty: lvl.Difficulty, Words: targets}

	if err := sess.cache.ClearAll(ctx); err != nil {
		return fmt.Errorf("failed to reset game cache: %w", err)
	}
	if err := sess.cache.SetUser(ctx, model.User{Nickname: gamePlayer}); err != nil {
		return err
	}
	if err := sess.cache.CacheLevel(ctx, game); err != nil {
		return err
	}
	appLog.Debug("game started", "level", lvl.Name, "player", gamePlayer, "targets", len(targets))

	out := cmd.OutOrStdout()
	if _, err := fmt.Fprintf(out, "%s (%s), %d rounds for %s\n", level.DisplayName(lvl.Name), lvl.Difficulty, len(targets), gamePlayer); err != nil {
		return err
	}
	_, err = fmt.Fprintf(out, "Round 1 target: %s\n", targets[0])
	return err
}

// loadGame rebuilds the game in progress from the cache.
func loadGame(ctx context.Context, gc *cache.GameCache) (model.Level, model.Game, error) {
	lvl, ok, err := gc.Level(ctx)
	if err != nil {
		return model.Level{}, model.Game{}, err
	}
	if !ok {
		return model.Level{}, model.Game{}, fmt.Errorf("no game in progress; run: taboo game start <level>")
	}
	player, _, err := gc.User(ctx)
	if err != nil {
		return model.Level{}, model.Game{}, err
	}
	rounds, err := gc.Rounds(ctx)
	if err != nil {
		return model.Level{}, model.Game{}, err
	}
	game := model.Game{
		Player:     player.Nickname,
		Level:      lvl.Name,
		Difficulty: lvl.Difficulty,
		Rounds:     rounds,
	}
	return lvl, game, nil
}

func runGameRoundCmd(cmd *cobra.Command, _ []string) error {
	if roundSeconds < 0 {
		return fmt.Errorf("--seconds must be >= 0")
	}
	highlights, err := parseRanges(roundHighlights)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	sess, err := openSession(ctx)
	if err != nil {
		return err
	}
	defer sess.close()

	lvl, game, err := loadGame(ctx, sess.cache)
	if err != nil {
		return err
	}
	index := len(game.Rounds)
	if index >= len(lvl.Words) {
		return fmt.Errorf("all %d rounds are played; run: taboo game finish", len(lvl.Words))
	}
	round := model.Round{
		Index:             index,
		Target:            lvl.Words[index],
		Question:          roundQuestion,
		Response:          roundResponse,
		CompletionSeconds: roundSeconds,
		Difficulty:        lvl.Difficulty,
		Highlights:        highlights,
	}
	if err := sess.cache.CacheRound(ctx, round); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if _, err := fmt.Fprintf(out, "Round %d (%s): %s\n", index+1, round.Target, result.FormatNumber(calculator().RoundScore(round))); err != nil {
		return err
	}
	if index+1 < len(lvl.Words) {
		_, err = fmt.Fprintf(out, "Round %d target: %s\n", index+2, lvl.Words[index+1])
	} else {
		_, err = fmt.Fprintln(out, "All rounds played. Run: taboo game finish")
	}
	return err
}

func runGameStatusCmd(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	sess, err := openSession(ctx)
	if err != nil {
		return err
	}
	defer sess.close()

	lvl, game, err := loadGame(ctx, sess.cache)
	if err != nil {
		return err
	}
	total := calculator().Total(game.Rounds)
	lines := []string{
		fmt.Sprintf("Topic: %s", level.DisplayName(lvl.Name)),
		fmt.Sprintf("Difficulty: %s", lvl.Difficulty.Label(true)),
		fmt.Sprintf("Player: %s", game.Player),
		fmt.Sprintf("Rounds: %d/%d", len(game.Rounds), len(lvl.Words)),
		fmt.Sprintf("Score so far: %s in %ss", result.FormatNumber(total.Score), result.FormatNumber(total.Seconds)),
	}
	if next := len(game.Rounds); next < len(lvl.Words) {
		lines = append(lines, fmt.Sprintf("Next target: %s", lvl.Words[next]))
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), strings.Join(lines, "\n"))
	return err
}

func runGameFinishCmd(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	sess, err := openSession(ctx)
	if err != nil {
		return err
	}
	defer sess.close()

	_, game, err := loadGame(ctx, sess.cache)
	if err != nil {
		return err
	}
	if len(game.Rounds) == 0 {
		return fmt.Errorf("no rounds played yet")
	}

	rounds, err := judgeIfConfigured(ctx, cmd, game.Rounds)
	if err != nil {
		return err
	}
	game.Rounds = rounds
	if err := sess.cache.ReplaceRounds(ctx, rounds); err != nil {
		return err
	}

	calc := calculator()
	total := calc.Total(game.Rounds)
	id, err := sess.store.InsertGame(ctx, game, total)
	if err != nil {
		return fmt.Errorf("failed to save game: %w", err)
	}
	if err := sess.cache.ClearAll(ctx); err != nil {
		return fmt.Errorf("failed to clear game cache: %w", err)
	}
	appLog.Debug("game saved", "id", id, "score", total.Score)

	out := cmd.OutOrStdout()
	opts := result.Options{Width: result.TerminalWidth(), Color: result.ShouldUseColor(os.Stdout, false)}
	if err := result.Render(out, game, calc, opts); err != nil {
		return err
	}
	_, err = fmt.Fprintf(out, "\nSaved as %s\n%s\n", id, result.ShareText(game.Level, game.Difficulty, total.Score))
	return err
}

// judgeIfConfigured fills missing AI scores when an API key is available.
// Without one the rounds keep the default clue score.
func judgeIfConfigured(ctx context.Context, cmd *cobra.Command, rounds []model.Round) ([]model.Round, error) {
	if noJudge {
		return rounds, nil
	}
	key := strings.TrimSpace(os.Getenv("OPENROUTER_API_KEY"))
	if key == "" {
		if !judgeWarned {
			logErrf("OPENROUTER_API_KEY is not set; rounds keep the default clue score\n")
			judgeWarned = true
		}
		return rounds, nil
	}
	jc := fileCfg.Judge
	applyStringConfig(cmd, "model", &judgeModel, jc.Model)
	if !cmd.Flags().Changed("model") {
		judgeModel = envString("OPENROUTER_MODEL", judgeModel)
	}
	applyIntConfig(cmd, "attempts", &judgeAttempts, jc.Attempts)

	opts := judge.DefaultOptions()
	opts.Attempts = judgeAttempts
	opts.Retries = intValue(jc.Retries, opts.Retries)
	opts.Concurrency = intValue(jc.Concurrency, opts.Concurrency)
	opts.Logger = appLog

	baseURL := envString("OPENROUTER_BASE_URL", stringValue(jc.BaseURL, ""))
	j := judge.NewOpenRouter(key, judgeModel, baseURL)
	logErrf("Judging %d rounds...\n", len(rounds))
	return judge.JudgeRounds(ctx, j, rounds, opts)
}

func runGameResetCmd(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	sess, err := openSession(ctx)
	if err != nil {
		return err
	}
	defer sess.close()

	if err := sess.cache.ClearAll(ctx); err != nil {
		return fmt.Errorf("failed to clear game cache: %w", err)
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), "Game discarded.")
	return err
}
