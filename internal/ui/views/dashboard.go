package views

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"taskdeck/internal/models"
	"taskdeck/internal/session"
	"taskdeck/internal/tasks"
	"taskdeck/internal/ui/keys"
	"taskdeck/internal/ui/styles"
)

type statsSyncedMsg struct {
	err error
}

// DashboardView shows per-status counts for the user's own tasks
type DashboardView struct {
	store   *tasks.Store
	session *session.Manager
	styles  *styles.Styles
	keys    keys.KeyMap

	width  int
	height int
	loaded bool
}

// NewDashboardView creates the stats view over the personal task store
func NewDashboardView(store *tasks.Store, mgr *session.Manager) *DashboardView {
	return &DashboardView{
		store:   store,
		session: mgr,
		styles:  styles.NewStyles(),
		keys:    keys.DefaultKeyMap(),
	}
}

// Init fetches the task list the counts derive from. Unauthenticated
// visitors land back on the welcome screen.
func (v *DashboardView) Init() tea.Cmd {
	if !v.session.Authenticated() {
		return Navigate(TargetHome)
	}
	return v.loadStats
}

func (v *DashboardView) loadStats() tea.Msg {
	err := v.store.FetchAll(context.Background())
	return statsSyncedMsg{err: err}
}

func (v *DashboardView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		return v, nil

	case statsSyncedMsg:
		v.loaded = true
		if errors.Is(msg.err, session.ErrSessionExpired) {
			return v, Navigate(TargetLogin)
		}
		return v, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, v.keys.Quit):
			return v, tea.Quit
		case key.Matches(msg, v.keys.Back):
			return v, Navigate(TargetHome)
		case msg.String() == "r":
			return v, v.loadStats
		case msg.String() == "t":
			return v, Navigate(TargetTasks)
		}
	}

	return v, nil
}

func (v *DashboardView) View() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	var lines []string
	username := ""
	if user, ok := v.session.User(); ok {
		username = user.Username
	}
	lines = append(lines, s.Title.Render(fmt.Sprintf("%s's Dashboard", username)), "")

	if fetchErr := v.store.FetchErr(); fetchErr != "" {
		lines = append(lines, s.ErrorBanner.Render(fetchErr), "")
	}

	if !v.loaded {
		lines = append(lines, s.TitleMuted.Render("Loading stats..."))
	} else {
		stats := v.store.Stats()
		cards := lipgloss.JoinHorizontal(lipgloss.Top,
			v.renderStatCard("Total", stats.Total, styles.Current.Primary),
			" ",
			v.renderStatCard("Pending", stats.Pending, styles.StatusColor(models.StatusPending)),
			" ",
			v.renderStatCard("In Progress", stats.InProgress, styles.StatusColor(models.StatusInProgress)),
			" ",
			v.renderStatCard("Completed", stats.Completed, styles.StatusColor(models.StatusCompleted)),
		)
		lines = append(lines, cards)
	}

	lines = append(lines, "", s.Help.Render(
		fmt.Sprintf("%s tasks • %s refresh • %s back • %s quit",
			s.HelpKey.Render("t"),
			s.HelpKey.Render("r"),
			s.HelpKey.Render("esc"),
			s.HelpKey.Render("q"),
		),
	))

	content := lipgloss.JoinVertical(lipgloss.Center, lines...)
	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center, content)
	return styles.CenterView(centered, v.width, v.height)
}

func (v *DashboardView) renderStatCard(label string, value int, color lipgloss.Color) string {
	s := v.styles
	return s.StatCard.Render(lipgloss.JoinVertical(lipgloss.Center,
		s.StatValue.Foreground(color).Render(fmt.Sprintf("%d", value)),
		s.TitleMuted.Render(label),
	))
}
