package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/verte-zerg/taboo/internal/gamefile"
	"github.com/verte-zerg/taboo/internal/level"
	"github.com/verte-zerg/taboo/internal/model"
	"github.com/verte-zerg/taboo/internal/result"
	"github.com/verte-zerg/taboo/internal/scoring"
	"github.com/verte-zerg/taboo/internal/wordparse"
)

var (
	scoreDifficulty int
	scoreSeconds    float64
	scoreAI         float64
	scoreJSON       bool

	highlightRanges []string
	highlightColor  bool

	wordsTarget string
)

func newScoreCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "score [game-file]",
		Short: "Score a single round, or every round of a game file",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runScoreCmd,
	}
	cmd.Flags().IntVar(&scoreDifficulty, "difficulty", int(model.Easy), "difficulty tier (1-3)")
	cmd.Flags().Float64Var(&scoreSeconds, "seconds", 0, "seconds taken to guess the target")
	cmd.Flags().Float64Var(&scoreAI, "ai", 0, "AI clue score (0-100); unset uses --clue-default")
	cmd.Flags().BoolVar(&scoreJSON, "json", false, "print the breakdown as JSON")
	return cmd
}

func runScoreCmd(cmd *cobra.Command, args []string) error {
	calc := calculator()
	if len(args) == 1 {
		game, err := gamefile.Load(args[0])
		if err != nil {
			return err
		}
		if scoreJSON {
			return writeJSON(cmd, scoreReport(calc, game.Rounds))
		}
		return result.Render(cmd.OutOrStdout(), game, calc, result.Options{Width: result.TerminalWidth()})
	}

	if scoreDifficulty < int(model.Easy) || scoreDifficulty > int(model.Hard) {
		return fmt.Errorf("--difficulty must be between 1 and 3")
	}
	round := model.Round{Difficulty: model.Difficulty(scoreDifficulty), CompletionSeconds: scoreSeconds}
	if cmd.Flags().Changed("ai") {
		if scoreAI < 0 || scoreAI > 100 {
			return fmt.Errorf("--ai must be between 0 and 100")
		}
		round.AIScore = model.Float(scoreAI)
	}
	b := calc.Breakdown(round)
	if scoreJSON {
		return writeJSON(cmd, b)
	}
	lines := []string{
		fmt.Sprintf("Difficulty: %s", b.Difficulty.Label(true)),
		fmt.Sprintf("Time score: %s x %s = %s", result.FormatNumber(b.TimeScore), result.FormatNumber(b.Multipliers.Time), result.FormatNumber(b.TimeWeighted)),
		fmt.Sprintf("Clue score: %s x %s = %s", result.FormatNumber(b.ClueScore), result.FormatNumber(b.Multipliers.Clue), result.FormatNumber(b.ClueWeighted)),
		fmt.Sprintf("Round score: %s", result.FormatNumber(b.Total)),
	}
	if !b.Judged {
		lines[2] += " (not judged)"
	}
	_, err := fmt.Fprintln(cmd.OutOrStdout(), strings.Join(lines, "\n"))
	return err
}

type scoreOutput struct {
	Rounds []scoring.Breakdown `json:"rounds"`
	Total  scoring.GameTotal   `json:"total"`
}

func scoreReport(calc scoring.Calculator, rounds []model.Round) scoreOutput {
	out := scoreOutput{Rounds: make([]scoring.Breakdown, len(rounds))}
	for i, r := range rounds {
		out.Rounds[i] = calc.Breakdown(r)
	}
	out.Total = calc.Total(rounds)
	return out
}

func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func newHighlightCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "highlight [text]",
		Short: "Mark highlight ranges in a text (reads stdin without text)",
		RunE:  runHighlightCmd,
	}
	cmd.Flags().StringArrayVar(&highlightRanges, "range", nil, "highlight range start:end in characters (repeatable)")
	cmd.Flags().BoolVar(&highlightColor, "color", false, "force colour output")
	return cmd
}

func runHighlightCmd(cmd *cobra.Command, args []string) error {
	text, err := readInput(cmd, args)
	if err != nil {
		return err
	}
	text = strings.TrimRight(text, "\n")
	ranges, err := parseRanges(highlightRanges)
	if err != nil {
		return err
	}
	styles := result.Styles{}
	if result.ShouldUseColor(os.Stdout, highlightColor) {
		styles = result.ColorStyles()
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), result.HighlightText(text, ranges, result.TerminalWidth(), styles))
	return err
}

func parseRanges(values []string) ([]model.Highlight, error) {
	ranges := make([]model.Highlight, 0, len(values))
	for _, v := range values {
		startStr, endStr, ok := strings.Cut(v, ":")
		if !ok {
			return nil, fmt.Errorf("invalid range %q (want start:end)", v)
		}
		start, err := strconv.Atoi(strings.TrimSpace(startStr))
		if err != nil {
			return nil, fmt.Errorf("invalid range start %q: %w", v, err)
		}
		end, err := strconv.Atoi(strings.TrimSpace(endStr))
		if err != nil {
			return nil, fmt.Errorf("invalid range end %q: %w", v, err)
		}
		ranges = append(ranges, model.Highlight{Start: start, End: end})
	}
	return ranges, nil
}

func newWordsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "words [text]",
		Short: "Extract a word list from AI output (reads stdin without text)",
		RunE:  runWordsCmd,
	}
	cmd.Flags().StringVar(&wordsTarget, "target", "", "word that must be part of the list")
	return cmd
}

func runWordsCmd(cmd *cobra.Command, args []string) error {
	text, err := readInput(cmd, args)
	if err != nil {
		return err
	}
	for _, w := range wordparse.Parse(text, wordsTarget) {
		if _, err := fmt.Fprintln(cmd.OutOrStdout(), w); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func newLevelsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "levels",
		Short: "List available levels",
		Args:  cobra.NoArgs,
		RunE:  runLevelsCmd,
	}
}

func runLevelsCmd(cmd *cobra.Command, _ []string) error {
	levels, err := level.List(levelsDir)
	if err != nil {
		return fmt.Errorf("failed to read levels: %w", err)
	}
	if len(levels) == 0 {
		logErrf("No levels found. Add .yaml or .txt files to %s\n", levelsDir)
		return fmt.Errorf("no levels found")
	}
	for _, lvl := range levels {
		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%-20s %-8s %d words\n", lvl.Name, lvl.Difficulty, len(lvl.Words)); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}
