// Package tui provides the Bubble Tea result viewer.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/taboo/internal/level"
	"github.com/verte-zerg/taboo/internal/model"
	"github.com/verte-zerg/taboo/internal/result"
	"github.com/verte-zerg/taboo/internal/scoring"
)

var (
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	footerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
)

// Model shows a finished game one round per page.
type Model struct {
	game   model.Game
	calc   scoring.Calculator
	styles result.Styles
	total  scoring.GameTotal
	page   int

	width    int
	height   int
	viewport viewport.Model
	ready    bool
}

// NewModel constructs a result viewer for game.
func NewModel(game model.Game, calc scoring.Calculator, color bool) *Model {
	styles := result.Styles{}
	if color {
		styles = result.ColorStyles()
	}
	return &Model{
		game:   game,
		calc:   calc,
		styles: styles,
		total:  calc.Total(game.Rounds),
	}
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			return m, tea.Quit
		case "left", "h", "shift+tab":
			m.setPage(m.page - 1)
			return m, nil
		case "right", "l", "tab":
			m.setPage(m.page + 1)
			return m, nil
		}
	}
	if !m.ready {
		return m, nil
	}
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View implements tea.Model.
func (m *Model) View() string {
	if !m.ready {
		return m.pageContent(0)
	}
	header := headerStyle.Render(fmt.Sprintf("%s · %s", level.DisplayName(m.game.Level), m.game.Difficulty.Label(false)))
	footer := footerStyle.Render(m.renderFooter())
	body := lipgloss.Place(m.width, m.viewport.Height, lipgloss.Center, lipgloss.Top, m.viewport.View())
	return lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, header) + "\n" +
		body + "\n" +
		lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, footer)
}

func (m *Model) contentWidth() int {
	w := int(float64(m.width) * 0.70)
	if w < 1 {
		w = 1
	}
	return w
}

func (m *Model) resize() {
	bodyHeight := m.height - 2
	if bodyHeight < 1 {
		bodyHeight = 1
	}
	if !m.ready {
		m.viewport = viewport.New(m.contentWidth(), bodyHeight)
		m.ready = true
	} else {
		m.viewport.Width = m.contentWidth()
		m.viewport.Height = bodyHeight
	}
	m.viewport.SetContent(m.pageContent(m.contentWidth()))
}

func (m *Model) setPage(page int) {
	if len(m.game.Rounds) == 0 {
		return
	}
	if page < 0 {
		page = 0
	}
	if page >= len(m.game.Rounds) {
		page = len(m.game.Rounds) - 1
	}
	if page == m.page {
		return
	}
	m.page = page
	if m.ready {
		m.viewport.SetContent(m.pageContent(m.contentWidth()))
		m.viewport.GotoTop()
	}
}

func (m *Model) pageContent(width int) string {
	if len(m.game.Rounds) == 0 {
		return "No rounds played."
	}
	return result.RenderRound(m.game.Rounds[m.page], m.calc, width, m.styles)
}

func (m *Model) renderFooter() string {
	segments := []string{}
	if n := len(m.game.Rounds); n > 0 {
		round := m.game.Rounds[m.page]
		segments = append(segments,
			fmt.Sprintf("Round %d/%d", m.page+1, n),
			fmt.Sprintf("Score %s", result.FormatNumber(m.calc.RoundScore(round))),
		)
	}
	segments = append(segments,
		fmt.Sprintf("Total %s in %ss", result.FormatNumber(m.total.Score), result.FormatNumber(m.total.Seconds)),
		"←/→ rounds · q quit",
	)
	return strings.Join(segments, "  ")
}
