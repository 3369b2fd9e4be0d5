package views

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"taskdeck/internal/api"
	"taskdeck/internal/ui/keys"
	"taskdeck/internal/ui/styles"
)

// Focus slots on the signup form
const (
	signupFocusUsername = iota
	signupFocusEmail
	signupFocusPassword
	signupFocusSubmit
	signupFocusCount
)

type registeredMsg struct {
	err error
}

// SignupView is the account registration form
type SignupView struct {
	api    *api.Client
	styles *styles.Styles
	keys   keys.KeyMap

	width  int
	height int

	focusIdx int
	busy     bool

	username textinput.Model
	email    textinput.Model
	password textinput.Model

	fieldErrs map[string]string
	submitErr string
}

// NewSignupView creates the registration form
func NewSignupView(client *api.Client) *SignupView {
	username := textinput.New()
	username.Placeholder = "Username"
	username.CharLimit = 150
	username.Focus()

	email := textinput.New()
	email.Placeholder = "Email"
	email.CharLimit = 254

	password := textinput.New()
	password.Placeholder = "Password"
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'

	return &SignupView{
		api:       client,
		styles:    styles.NewStyles(),
		keys:      keys.DefaultKeyMap(),
		username:  username,
		email:     email,
		password:  password,
		fieldErrs: make(map[string]string),
	}
}

func (v *SignupView) Init() tea.Cmd {
	return textinput.Blink
}

func (v *SignupView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		return v, nil

	case registeredMsg:
		v.busy = false
		if msg.err != nil {
			v.submitErr = api.Message(msg.err, "Signup failed. Please try again.")
			return v, nil
		}
		// Account created; the user logs in with the new credentials
		return v, Navigate(TargetLogin)

	case tea.KeyMsg:
		if v.busy {
			return v, nil
		}
		switch {
		case msg.Type == tea.KeyCtrlC:
			return v, tea.Quit

		case key.Matches(msg, v.keys.Back):
			return v, Navigate(TargetHome)

		case key.Matches(msg, v.keys.Tab), msg.Type == tea.KeyShiftTab,
			msg.Type == tea.KeyUp, msg.Type == tea.KeyDown:
			delta := 1
			if msg.Type == tea.KeyShiftTab || msg.Type == tea.KeyUp {
				delta = -1
			}
			return v, v.setFocus((v.focusIdx + delta + signupFocusCount) % signupFocusCount)

		case key.Matches(msg, v.keys.Enter):
			return v.submit()
		}
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	v.username, cmd = v.username.Update(msg)
	cmds = append(cmds, cmd)
	v.email, cmd = v.email.Update(msg)
	cmds = append(cmds, cmd)
	v.password, cmd = v.password.Update(msg)
	cmds = append(cmds, cmd)
	return v, tea.Batch(cmds...)
}

func (v *SignupView) setFocus(idx int) tea.Cmd {
	v.focusIdx = idx
	v.username.Blur()
	v.email.Blur()
	v.password.Blur()
	switch idx {
	case signupFocusUsername:
		return v.username.Focus()
	case signupFocusEmail:
		return v.email.Focus()
	case signupFocusPassword:
		return v.password.Focus()
	}
	return nil
}

func (v *SignupView) submit() (tea.Model, tea.Cmd) {
	if !v.validate() {
		return v, nil
	}
	v.busy = true
	v.submitErr = ""
	username := strings.TrimSpace(v.username.Value())
	email := strings.TrimSpace(v.email.Value())
	password := v.password.Value()
	return v, func() tea.Msg {
		err := v.api.Register(context.Background(), username, email, password)
		return registeredMsg{err: err}
	}
}

func (v *SignupView) validate() bool {
	v.fieldErrs = make(map[string]string)

	if strings.TrimSpace(v.username.Value()) == "" {
		v.fieldErrs["username"] = "Username is required"
	}

	email := strings.TrimSpace(v.email.Value())
	switch {
	case email == "":
		v.fieldErrs["email"] = "Email is required"
	case !validEmail(email):
		v.fieldErrs["email"] = "Enter a valid email address"
	}

	if len(v.password.Value()) < 8 {
		v.fieldErrs["password"] = "Password must be at least 8 characters"
	}
	return len(v.fieldErrs) == 0
}

// validEmail is a cheap shape check; the backend does the real validation
func validEmail(email string) bool {
	at := strings.Index(email, "@")
	if at < 1 {
		return false
	}
	domain := email[at+1:]
	return strings.Contains(domain, ".") && !strings.ContainsAny(email, " \t")
}

func (v *SignupView) View() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	var lines []string
	lines = append(lines, s.Title.Render("Sign Up"), "")

	if v.submitErr != "" {
		lines = append(lines, s.ErrorBanner.Render(v.submitErr), "")
	}

	inputStyle := func(focused bool) lipgloss.Style {
		if focused {
			return s.InputFocused
		}
		return s.Input
	}
	lines = append(lines, inputStyle(v.focusIdx == signupFocusUsername).Render(v.username.View()))
	if msg, ok := v.fieldErrs["username"]; ok {
		lines = append(lines, s.FieldError.Render(msg))
	}
	lines = append(lines, inputStyle(v.focusIdx == signupFocusEmail).Render(v.email.View()))
	if msg, ok := v.fieldErrs["email"]; ok {
		lines = append(lines, s.FieldError.Render(msg))
	}
	lines = append(lines, inputStyle(v.focusIdx == signupFocusPassword).Render(v.password.View()))
	if msg, ok := v.fieldErrs["password"]; ok {
		lines = append(lines, s.FieldError.Render(msg))
	}

	submit := s.Button.Render(" Create Account ")
	if v.focusIdx == signupFocusSubmit {
		submit = s.ButtonFocused.Render(" Create Account ")
	}
	lines = append(lines, "", submit)

	if v.busy {
		lines = append(lines, "", s.TitleMuted.Render("Creating account..."))
	} else {
		lines = append(lines, "", s.Help.Render(
			fmt.Sprintf("%s next field • %s submit • %s back",
				s.HelpKey.Render("tab"), s.HelpKey.Render("↵"), s.HelpKey.Render("esc"))))
	}

	content := lipgloss.JoinVertical(lipgloss.Left, lines...)
	box := s.Box.Width(contentWidth - 4).Render(content)
	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center, box)
	return styles.CenterView(centered, v.width, v.height)
}
