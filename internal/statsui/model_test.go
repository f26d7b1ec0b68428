package statsui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/taboo/internal/model"
	"github.com/verte-zerg/taboo/internal/stats"
)

type fakeSource struct {
	games   []model.GameAggregate
	err     error
	filters []model.GameFilter
}

func (f *fakeSource) ListGames(_ context.Context, filter model.GameFilter) ([]model.GameAggregate, error) {
	f.filters = append(f.filters, filter)
	return f.games, f.err
}

func (f *fakeSource) BestGames(_ context.Context, filter model.GameFilter) ([]model.GameAggregate, error) {
	return f.games, f.err
}

func sampleGames() []model.GameAggregate {
	now := time.Now()
	return []model.GameAggregate{
		{ID: "b", Player: "trinity", Level: "fruits", Difficulty: model.Medium, TotalScore: 120, RoundCount: 3, CreatedAt: now},
		{ID: "a", Player: "neo", Level: "fruits", Difficulty: model.Medium, TotalScore: 90, RoundCount: 3, CreatedAt: now.Add(-time.Hour)},
	}
}

func TestOverviewShowsSummary(t *testing.T) {
	m := NewModel(&fakeSource{games: sampleGames()}, stats.ReportConfig{})
	m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	view := m.View()
	for _, want := range []string{"Overview", "Best Games", "Games", "105.0", "Fruits"} {
		if !strings.Contains(view, want) {
			t.Fatalf("expected %q in view:\n%s", want, view)
		}
	}
}

func TestTabsRenderTables(t *testing.T) {
	m := NewModel(&fakeSource{games: sampleGames()}, stats.ReportConfig{})
	m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	m.Update(tea.KeyMsg{Type: tea.KeyRight})
	if m.activeTab != tabBest {
		t.Fatalf("expected best tab, got %d", m.activeTab)
	}
	if !strings.Contains(m.View(), "trinity") {
		t.Fatalf("expected best games table in view")
	}
	m.Update(tea.KeyMsg{Type: tea.KeyLeft})
	m.Update(tea.KeyMsg{Type: tea.KeyLeft})
	if m.activeTab != tabRecent {
		t.Fatalf("expected wrap to last tab, got %d", m.activeTab)
	}
}

func TestFilterAppliesToReport(t *testing.T) {
	src := &fakeSource{games: sampleGames()}
	m := NewModel(src, stats.ReportConfig{})
	m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("/")})
	if !m.filterMode {
		t.Fatalf("expected filter mode")
	}
	m.filterInputs[1].SetValue("neo")
	m.filterInputs[2].SetValue("5")
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if m.filterMode {
		t.Fatalf("expected filter mode to close")
	}
	last := src.filters[len(src.filters)-1]
	if last.Player != "neo" || last.Limit != 5 {
		t.Fatalf("unexpected filter %+v", last)
	}

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("/")})
	m.filterInputs[2].SetValue("x")
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if !m.filterMode || m.filterError == "" {
		t.Fatalf("expected validation error")
	}
}

func TestReportErrorShown(t *testing.T) {
	m := NewModel(&fakeSource{err: errors.New("db down")}, stats.ReportConfig{})
	m.Update(tea.WindowSizeMsg{Width: 80, Height: 20})
	if !strings.Contains(m.View(), "db down") {
		t.Fatalf("expected error in footer")
	}
}
