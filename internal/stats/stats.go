// Package stats contains leaderboard calculations and reporting.
package stats

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/verte-zerg/taboo/internal/level"
	"github.com/verte-zerg/taboo/internal/model"
	"github.com/verte-zerg/taboo/internal/scoring"
)

const sparkChars = " .:-=+*#%@"

// Summary aggregates a set of games.
type Summary struct {
	Games         int
	Rounds        int
	AvgScore      float64
	BestScore     float64
	AvgRoundScore float64
	AvgSeconds    float64
}

// Summarize computes averages over games. Averages are rounded to one decimal.
func Summarize(games []model.GameAggregate) Summary {
	if len(games) == 0 {
		return Summary{}
	}
	var sum Summary
	var totalScore, totalSeconds float64
	for i, g := range games {
		totalScore += g.TotalScore
		totalSeconds += g.TotalSeconds
		sum.Rounds += g.RoundCount
		if i == 0 || g.TotalScore > sum.BestScore {
			sum.BestScore = g.TotalScore
		}
	}
	sum.Games = len(games)
	sum.AvgScore = scoring.Round(totalScore/float64(len(games)), 1)
	if sum.Rounds > 0 {
		sum.AvgRoundScore = scoring.Round(totalScore/float64(sum.Rounds), 1)
		sum.AvgSeconds = scoring.Round(totalSeconds/float64(sum.Rounds), 1)
	}
	return sum
}

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	if window <= 1 || len(values) == 0 {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, len(values))
	var sum float64
	for i := 0; i < len(values); i++ {
		sum += values[i]
		if i >= window {
			sum -= values[i-window]
		}
		den := float64(i + 1)
		if i >= window {
			den = float64(window)
		}
		out[i] = sum / den
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal := values[0]
	maxVal := values[0]
	for _, v := range values[1:] {
		minVal = math.Min(minVal, v)
		maxVal = math.Max(maxVal, v)
	}
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// RenderSummary prints totals for games and a trend line of their scores.
// games must be in chronological order.
func RenderSummary(w io.Writer, games []model.GameAggregate, window int) error {
	if len(games) == 0 {
		_, err := fmt.Fprintln(w, "No games found.")
		return err
	}
	s := Summarize(games)
	lines := []string{
		"Summary",
		fmt.Sprintf("Games: %d", s.Games),
		fmt.Sprintf("Rounds: %d", s.Rounds),
		fmt.Sprintf("Avg score: %.1f", s.AvgScore),
		fmt.Sprintf("Best score: %.1f", s.BestScore),
		fmt.Sprintf("Avg round score: %.1f", s.AvgRoundScore),
		fmt.Sprintf("Avg seconds per round: %.1f", s.AvgSeconds),
	}
	if len(games) > 1 {
		scores := make([]float64, len(games))
		for i, g := range games {
			scores[i] = g.TotalScore
		}
		lines = append(lines, "Trend: "+Sparkline(MovingAverage(scores, window)))
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// LeaderboardRows formats games as ranked table rows.
func LeaderboardRows(games []model.GameAggregate) [][]string {
	rows := make([][]string, 0, len(games))
	for i, g := range games {
		rows = append(rows, []string{
			fmt.Sprintf("%d", i+1),
			g.Player,
			level.DisplayName(g.Level),
			g.Difficulty.String(),
			fmt.Sprintf("%.1f", g.TotalScore),
			fmt.Sprintf("%.0fs", g.TotalSeconds),
			g.CreatedAt.Local().Format("2006-01-02"),
		})
	}
	return rows
}

// LeaderboardHeaders are the column titles of LeaderboardRows.
var LeaderboardHeaders = []string{"#", "Player", "Topic", "Difficulty", "Score", "Time", "Date"}

// RenderLeaderboard prints games ranked in the given order.
func RenderLeaderboard(w io.Writer, title string, games []model.GameAggregate) error {
	if len(games) == 0 {
		_, err := fmt.Fprintln(w, "No games found.")
		return err
	}
	if _, err := fmt.Fprintln(w, title); err != nil {
		return err
	}
	rightAlign := map[int]bool{0: true, 4: true, 5: true}
	for _, line := range formatTable(LeaderboardHeaders, LeaderboardRows(games), rightAlign) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// RenderLevels prints play counts per level.
func RenderLevels(w io.Writer, counts []LevelCount) error {
	if len(counts) == 0 {
		return nil
	}
	if _, err := fmt.Fprintln(w, "Topics"); err != nil {
		return err
	}
	rows := make([][]string, 0, len(counts))
	for _, c := range counts {
		rows = append(rows, []string{level.DisplayName(c.Level), fmt.Sprintf("%d", c.Plays), fmt.Sprintf("%.1f", c.Best)})
	}
	for _, line := range formatTable([]string{"Topic", "Plays", "Best"}, rows, map[int]bool{1: true, 2: true}) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}
