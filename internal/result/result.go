// Package result renders finished games as text.
package result

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/taboo/internal/highlight"
	"github.com/verte-zerg/taboo/internal/level"
	"github.com/verte-zerg/taboo/internal/model"
	"github.com/verte-zerg/taboo/internal/scoring"
)

// Styles used for response text. Nil styles render plain text.
type Styles struct {
	Normal    *lipgloss.Style
	Highlight *lipgloss.Style
	Title     *lipgloss.Style
}

var (
	highlightStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFD166")).Bold(true)
	titleStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
)

// ColorStyles highlights with lipgloss.
func ColorStyles() Styles {
	return Styles{Highlight: &highlightStyle, Title: &titleStyle}
}

// Options controls rendering.
type Options struct {
	// Width wraps response text; 0 disables wrapping.
	Width int
	Color bool
}

// Render writes the game header, every round and the total.
func Render(w io.Writer, game model.Game, calc scoring.Calculator, opts Options) error {
	styles := Styles{}
	if opts.Color {
		styles = ColorStyles()
	}
	var b strings.Builder
	b.WriteString(renderTitle(styles, fmt.Sprintf("Topic: %s", level.DisplayName(game.Level))))
	b.WriteString("\n")
	fmt.Fprintf(&b, "Difficulty: %s\n", game.Difficulty.Label(true))
	if game.Player != "" {
		fmt.Fprintf(&b, "Player: %s\n", game.Player)
	}
	for _, r := range game.Rounds {
		b.WriteString("\n")
		b.WriteString(RenderRound(r, calc, opts.Width, styles))
	}
	total := calc.Total(game.Rounds)
	b.WriteString("\n")
	fmt.Fprintf(&b, "Total score: %s  Total time: %ss\n", FormatNumber(total.Score), FormatNumber(total.Seconds))
	_, err := io.WriteString(w, b.String())
	return err
}

// RenderRound formats a single round with its score breakdown.
func RenderRound(r model.Round, calc scoring.Calculator, width int, styles Styles) string {
	bd := calc.Breakdown(r)
	var b strings.Builder
	b.WriteString(renderTitle(styles, fmt.Sprintf("Round %d: %s", r.Index+1, r.Target)))
	b.WriteString("\n")
	if r.Question != "" {
		fmt.Fprintf(&b, "Your clue: %s\n", r.Question)
	}
	if r.Response != "" {
		b.WriteString("AI response: ")
		b.WriteString(HighlightText(r.Response, r.Highlights, width, styles))
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "Time taken: %ss\n", FormatNumber(bd.EffectiveSeconds))
	fmt.Fprintf(&b, "Time score (%s%%): %s x %s = %s\n",
		percent(bd.Multipliers.Time), FormatNumber(bd.TimeScore), FormatNumber(bd.Multipliers.Time), FormatNumber(bd.TimeWeighted))
	judged := ""
	if !bd.Judged {
		judged = " (not judged)"
	}
	fmt.Fprintf(&b, "Clue score (%s%%): %s x %s = %s%s\n",
		percent(bd.Multipliers.Clue), FormatNumber(bd.ClueScore), FormatNumber(bd.Multipliers.Clue), FormatNumber(bd.ClueWeighted), judged)
	if r.AIExplanation != "" {
		fmt.Fprintf(&b, "AI explanation: %s\n", r.AIExplanation)
	}
	fmt.Fprintf(&b, "Round score: %s\n", FormatNumber(bd.Total))
	return b.String()
}

// HighlightText renders text with highlight ranges. Without a highlight style
// the highlighted parts are wrapped in brackets.
func HighlightText(text string, ranges []model.Highlight, width int, styles Styles) string {
	var segments []highlight.Segment
	if styles.Highlight != nil {
		segments = highlight.Segments(text, ranges)
	} else {
		segments = highlight.Apply(text, ranges,
			func(s string) highlight.Segment { return highlight.Segment{Text: s} },
			func(s string) highlight.Segment { return highlight.Segment{Text: "[" + s + "]"} },
		)
	}
	return wrapStyledRunes(buildStyledRunes(segments, styles), width)
}

func renderTitle(styles Styles, s string) string {
	if styles.Title == nil {
		return s
	}
	return styles.Title.Render(s)
}

// ShareText returns a short message to share a finished game.
func ShareText(topic string, difficulty model.Difficulty, total float64) string {
	var parts []string
	if total > 0 {
		parts = append(parts, fmt.Sprintf("I scored a total of %s in Taboo AI!", FormatNumber(total)))
	}
	if topic != "" {
		parts = append(parts, fmt.Sprintf("The topic of this game is: %s.", level.DisplayName(topic)))
	}
	if difficulty > 0 {
		parts = append(parts, fmt.Sprintf("The difficulty level of this game is: %s.", difficulty.Label(true)))
	}
	if len(parts) == 0 {
		return "I completed a game of Taboo AI! Join me to explore different topics and play Taboo against AI!"
	}
	parts = append(parts, "Join me to explore different topics and play Taboo against AI!")
	return strings.Join(parts, " ")
}

// FormatNumber prints the shortest decimal form, e.g. 27 or 87.5.
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func percent(weight float64) string {
	return FormatNumber(scoring.Round(weight*100, 0))
}
