package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/taboo/internal/model"
	"github.com/verte-zerg/taboo/internal/scoring"
)

func testGame() model.Game {
	return model.Game{
		Level:      "fruits",
		Difficulty: model.Medium,
		Rounds: []model.Round{
			{Index: 0, Target: "apple", CompletionSeconds: 10, Difficulty: model.Medium, AIScore: model.Float(66)},
			{Index: 1, Target: "pear", CompletionSeconds: 20, Difficulty: model.Medium, AIScore: model.Float(36)},
		},
	}
}

func TestRenderFooterFormats(t *testing.T) {
	m := NewModel(testGame(), scoring.New(), false)
	out := m.renderFooter()
	if !containsAll(out, []string{"Round 1/2", "Score 73.2", "Total 122.4 in 30s"}) {
		t.Fatalf("footer missing expected segments: %s", out)
	}
}

func TestPagingClampsToRounds(t *testing.T) {
	m := NewModel(testGame(), scoring.New(), false)
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	m.Update(tea.KeyMsg{Type: tea.KeyRight})
	m.Update(tea.KeyMsg{Type: tea.KeyRight})
	if m.page != 1 {
		t.Fatalf("expected last page, got %d", m.page)
	}
	if !strings.Contains(m.renderFooter(), "Round 2/2") {
		t.Fatalf("unexpected footer %q", m.renderFooter())
	}
	if !strings.Contains(m.viewport.View(), "pear") {
		t.Fatalf("expected second round in viewport")
	}
	m.Update(tea.KeyMsg{Type: tea.KeyLeft})
	m.Update(tea.KeyMsg{Type: tea.KeyLeft})
	if m.page != 0 {
		t.Fatalf("expected first page, got %d", m.page)
	}
}

func TestQuitKey(t *testing.T) {
	m := NewModel(testGame(), scoring.New(), false)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatalf("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("expected tea.QuitMsg")
	}
}

func containsAll(haystack string, needles []string) bool {
	for _, needle := range needles {
		if !strings.Contains(haystack, needle) {
			return false
		}
	}
	return true
}
