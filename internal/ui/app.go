// Package ui holds the application shell that routes between views.
package ui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"taskdeck/internal/api"
	"taskdeck/internal/session"
	"taskdeck/internal/store"
	"taskdeck/internal/tasks"
	"taskdeck/internal/ui/views"
)

// noticeTTL is how long the transient login/logout banner stays up
const noticeTTL = 3 * time.Second

type restoredMsg struct{}

type noticeExpiredMsg struct{}

// App is the root model. It owns the session, the two task stores, and
// the currently active view; navigation messages swap views in place.
type App struct {
	api      *api.Client
	session  *session.Manager
	settings *store.Store
	personal *tasks.Store
	global   *tasks.Store

	current       tea.Model
	currentTarget views.Target
	width         int
	height        int

	noticeTimer bool
}

// NewApp wires the application together
func NewApp(client *api.Client, settings *store.Store, mgr *session.Manager) *App {
	return &App{
		api:      client,
		session:  mgr,
		settings: settings,
		personal: tasks.NewStore(client, mgr, tasks.ScopePersonal),
		global:   tasks.NewStore(client, mgr, tasks.ScopeGlobal),
		current:  views.NewHomeView(mgr),
	}
}

// Init restores the persisted session before anything renders; the
// home view shows its loading state until restoredMsg arrives.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		a.current.Init(),
		func() tea.Msg {
			a.session.Restore(context.Background())
			return restoredMsg{}
		},
	)
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height

	case restoredMsg:
		return a, a.open(a.initialTarget())

	case views.NavigateMsg:
		return a, a.open(msg.To)

	case noticeExpiredMsg:
		a.noticeTimer = false
		a.session.ClearNotice()
		return a, nil
	}

	var cmd tea.Cmd
	a.current, cmd = a.current.Update(msg)

	// Arm the banner timer whenever a notice appears
	if !a.noticeTimer && a.session.Notice() != "" {
		a.noticeTimer = true
		tick := tea.Tick(noticeTTL, func(time.Time) tea.Msg { return noticeExpiredMsg{} })
		return a, tea.Batch(cmd, tick)
	}
	return a, cmd
}

func (a *App) View() string {
	return a.current.View()
}

// initialTarget picks the view to show after restore: the last main
// view an authenticated user was on, otherwise the welcome screen.
func (a *App) initialTarget() views.Target {
	if !a.session.Authenticated() {
		return views.TargetHome
	}
	lastView, err := a.settings.Get(store.KeyLastView)
	if err != nil {
		return views.TargetHome
	}
	switch lastView {
	case "tasks":
		return views.TargetTasks
	case "dashboard":
		return views.TargetDashboard
	case "alltasks":
		return views.TargetAllTasks
	}
	return views.TargetHome
}

// open swaps in a fresh view and replays the window size so it lays
// itself out before first render.
func (a *App) open(target views.Target) tea.Cmd {
	a.currentTarget = target
	a.rememberView(target)

	switch target {
	case views.TargetLogin:
		a.current = views.NewLoginView(a.api, a.session)
	case views.TargetSignup:
		a.current = views.NewSignupView(a.api)
	case views.TargetTasks:
		a.current = views.NewTasksView(a.personal, a.session)
	case views.TargetDashboard:
		a.current = views.NewDashboardView(a.personal, a.session)
	case views.TargetAllTasks:
		a.current = views.NewAllTasksView(a.global, a.session)
	default:
		a.current = views.NewHomeView(a.session)
	}

	return tea.Batch(
		a.current.Init(),
		func() tea.Msg {
			return tea.WindowSizeMsg{Width: a.width, Height: a.height}
		},
	)
}

// rememberView persists the main views so the next launch reopens them
func (a *App) rememberView(target views.Target) {
	switch target {
	case views.TargetTasks:
		a.settings.Set(store.KeyLastView, "tasks")
	case views.TargetDashboard:
		a.settings.Set(store.KeyLastView, "dashboard")
	case views.TargetAllTasks:
		a.settings.Set(store.KeyLastView, "alltasks")
	case views.TargetHome:
		a.settings.Set(store.KeyLastView, "")
	}
}
