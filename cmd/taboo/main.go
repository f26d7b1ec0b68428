// Package main provides the CLI entrypoint for taboo.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/taboo/internal/config"
	"github.com/verte-zerg/taboo/internal/logger"
	"github.com/verte-zerg/taboo/internal/scoring"
	"github.com/verte-zerg/taboo/internal/store"
)

const (
	defaultLogMode     = "prod"
	defaultCache       = "sqlite"
	defaultRounds      = 5
	defaultFreshFactor = 1.0
	defaultServerAddr  = ":8080"
)

var (
	logMode      string
	dbPath       string
	levelsDir    string
	cacheBackend string
	clueDefault  float64

	fileCfg config.FileConfig
	appLog  = logger.Nop()
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	rootCmd := newRootCmd()
	err := rootCmd.ExecuteContext(ctx)
	stop()
	appLog.Sync()
	if err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:               "taboo",
		Short:             "Taboo word game: play, score and review games",
		SilenceUsage:      true,
		SilenceErrors:     false,
		PersistentPreRunE: setup,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&logMode, "log-mode", defaultLogMode, "log mode: dev or prod")
	flags.StringVar(&dbPath, "db", config.DefaultDBPath(), "SQLite database path")
	flags.StringVar(&levelsDir, "levels-dir", config.DefaultLevelsDir(), "directory with level files")
	flags.StringVar(&cacheBackend, "cache", defaultCache, "game in progress backend: sqlite, redis or memory")
	flags.Float64Var(&clueDefault, "clue-default", scoring.DefaultClueScore, "clue score used for rounds the AI did not judge")

	rootCmd.AddCommand(newScoreCmd())
	rootCmd.AddCommand(newHighlightCmd())
	rootCmd.AddCommand(newWordsCmd())
	rootCmd.AddCommand(newLevelsCmd())
	rootCmd.AddCommand(newGameCmd())
	rootCmd.AddCommand(newImportCmd())
	rootCmd.AddCommand(newResultCmd())
	rootCmd.AddCommand(newDeleteCmd())
	rootCmd.AddCommand(newLeaderboardCmd())
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

func setup(cmd *cobra.Command, _ []string) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logErrf("failed to load .env: %v\n", err)
	}

	cfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	fileCfg = cfg
	applyStringConfig(cmd, "log-mode", &logMode, cfg.Log.Mode)
	applyStringConfig(cmd, "levels-dir", &levelsDir, cfg.Game.LevelsDir)
	applyStringConfig(cmd, "cache", &cacheBackend, cfg.Cache.Backend)
	applyFloatConfig(cmd, "clue-default", &clueDefault, cfg.Scoring.DefaultClueScore)

	if err := validateSettings(); err != nil {
		return err
	}

	log, err := logger.New(logMode)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	appLog = log
	return nil
}

func validateSettings() error {
	if clueDefault < 0 || clueDefault > 100 {
		return fmt.Errorf("--clue-default must be between 0 and 100")
	}
	switch strings.ToLower(cacheBackend) {
	case "sqlite", "redis", "memory":
	default:
		return fmt.Errorf("--cache must be sqlite, redis or memory")
	}
	return nil
}

func calculator() scoring.Calculator {
	return scoring.Calculator{DefaultClueScore: clueDefault}
}

func openStore() (*store.Store, error) {
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}
	return st, nil
}

func closeStore(st *store.Store) {
	if cerr := st.Close(); cerr != nil {
		logErrf("failed to close db: %v\n", cerr)
	}
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# taboo configuration
# Uncomment a value to enable it. CLI flags override config values.
# OPENROUTER_API_KEY and TABOO_REDIS_* are read from the environment or .env.

[game]
# player = "me"           # Player name stored with games
# rounds = %d              # Targets per game
# levels-dir = %q
# fresh = true            # Prefer targets you have not played yet

[scoring]
# default-clue-score = %.0f # Clue score for rounds the AI did not judge

[cache]
# backend = %q        # sqlite, redis or memory
# redis-addr = "localhost:6379"
# redis-password = ""
# redis-db = 0
# redis-prefix = "taboo:"

[judge]
# model = "openai/gpt-4o-mini"
# base-url = "https://openrouter.ai"
# attempts = 3            # Evaluations per round, best one wins
# retries = 5             # Retries per failed evaluation
# concurrency = 4         # Rounds judged at once

[server]
# addr = %q

[log]
# mode = %q            # dev or prod
`,
		defaultRounds,
		config.DefaultLevelsDir(),
		scoring.DefaultClueScore,
		defaultCache,
		defaultServerAddr,
		defaultLogMode,
	)
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyFloatConfig(cmd *cobra.Command, name string, target, value *float64) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

// envString returns the environment value for key, or fallback when unset.
func envString(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) (int, error) {
	v, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(v) == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func stringValue(p *string, fallback string) string {
	if p == nil {
		return fallback
	}
	return *p
}

func intValue(p *int, fallback int) int {
	if p == nil {
		return fallback
	}
	return *p
}

func readInput(cmd *cobra.Command, args []string) (string, error) {
	if len(args) > 0 && args[0] != "-" {
		return strings.Join(args, " "), nil
	}
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", fmt.Errorf("failed to read stdin: %w", err)
	}
	return string(data), nil
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
