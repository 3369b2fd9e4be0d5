package views

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"taskdeck/internal/session"
	"taskdeck/internal/ui/keys"
	"taskdeck/internal/ui/styles"
)

// HomeView is the landing view: a welcome screen with navigation hints
// and the transient success notice after login/logout.
type HomeView struct {
	session *session.Manager
	styles  *styles.Styles
	keys    keys.KeyMap
	width   int
	height  int
}

// NewHomeView creates the landing view
func NewHomeView(mgr *session.Manager) *HomeView {
	return &HomeView{
		session: mgr,
		styles:  styles.NewStyles(),
		keys:    keys.DefaultKeyMap(),
	}
}

func (v *HomeView) Init() tea.Cmd {
	return nil
}

func (v *HomeView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		return v, nil

	case tea.KeyMsg:
		if key.Matches(msg, v.keys.Quit) {
			return v, tea.Quit
		}

		if v.session.Authenticated() {
			switch msg.String() {
			case "t":
				return v, Navigate(TargetTasks)
			case "d":
				return v, Navigate(TargetDashboard)
			case "a":
				return v, Navigate(TargetAllTasks)
			case "x":
				v.session.Logout()
				return v, nil
			}
		} else {
			switch msg.String() {
			case "l":
				return v, Navigate(TargetLogin)
			case "s":
				return v, Navigate(TargetSignup)
			}
		}
	}

	return v, nil
}

func (v *HomeView) View() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	if v.session.Loading() {
		return styles.CenterView(
			lipgloss.Place(contentWidth, v.height, lipgloss.Center, lipgloss.Center,
				s.TitleMuted.Render("Loading authentication...")),
			v.width, v.height)
	}

	var lines []string
	lines = append(lines, s.Title.Render("Welcome to Your Task Manager"), "")

	if notice := v.session.Notice(); notice != "" {
		lines = append(lines, s.Notice.Render(notice), "")
	}

	if user, ok := v.session.User(); ok {
		lines = append(lines,
			fmt.Sprintf("Hello, %s! Manage your tasks with ease.", user.Username),
			"",
			s.TitleMuted.Render("Jump into your dashboard or tasks to stay on top of your goals."),
		)
	} else {
		lines = append(lines,
			"Stay organized, boost productivity, and manage your tasks with ease.",
			"",
			lipgloss.JoinHorizontal(lipgloss.Center,
				s.ButtonPrimary.Render(" Sign Up "),
				"  ",
				s.Button.Render(" Log In "),
			),
		)
	}

	content := lipgloss.JoinVertical(lipgloss.Center, lines...)
	centered := lipgloss.Place(contentWidth, v.height-3,
		lipgloss.Center, lipgloss.Center,
		content,
	)
	return styles.CenterView(centered+"\n"+v.renderHelp(), v.width, v.height)
}

func (v *HomeView) renderHelp() string {
	s := v.styles
	if v.session.Authenticated() {
		return s.Help.Render(
			fmt.Sprintf("%s tasks • %s dashboard • %s all tasks • %s logout • %s quit",
				s.HelpKey.Render("t"),
				s.HelpKey.Render("d"),
				s.HelpKey.Render("a"),
				s.HelpKey.Render("x"),
				s.HelpKey.Render("q"),
			),
		)
	}
	return s.Help.Render(
		fmt.Sprintf("%s login • %s signup • %s quit",
			s.HelpKey.Render("l"),
			s.HelpKey.Render("s"),
			s.HelpKey.Render("q"),
		),
	)
}
