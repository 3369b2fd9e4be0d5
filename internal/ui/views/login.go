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
	"taskdeck/internal/session"
	"taskdeck/internal/ui/keys"
	"taskdeck/internal/ui/styles"
)

// Login steps. The credentials step can hand off to either code step:
// requesting an email code moves to stepOTP, an MFA-enabled account
// moves to stepTOTP after the password check.
const (
	stepCredentials = iota
	stepOTP
	stepTOTP
)

// Focus slots on the credentials step
const (
	loginFocusUsername = iota
	loginFocusPassword
	loginFocusSubmit
	loginFocusEmailCode
	loginFocusCount
)

type passwordLoginMsg struct {
	pair api.TokenPair
	err  error
}

type otpRequestedMsg struct {
	message string
	err     error
}

type codeLoginMsg struct {
	pair api.TokenPair
	err  error
}

type loginDoneMsg struct {
	err error
}

// LoginView handles all three login flows against the backend
type LoginView struct {
	api     *api.Client
	session *session.Manager
	styles  *styles.Styles
	keys    keys.KeyMap

	width  int
	height int

	step     int
	focusIdx int
	busy     bool

	username textinput.Model
	password textinput.Model
	code     textinput.Model

	fieldErrs map[string]string
	submitErr string
	info      string
}

// NewLoginView creates the login view on the credentials step
func NewLoginView(client *api.Client, mgr *session.Manager) *LoginView {
	username := textinput.New()
	username.Placeholder = "Username"
	username.CharLimit = 150
	username.Focus()

	password := textinput.New()
	password.Placeholder = "Password"
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'

	code := textinput.New()
	code.Placeholder = "Code"
	code.CharLimit = 8

	return &LoginView{
		api:       client,
		session:   mgr,
		styles:    styles.NewStyles(),
		keys:      keys.DefaultKeyMap(),
		username:  username,
		password:  password,
		code:      code,
		fieldErrs: make(map[string]string),
	}
}

func (v *LoginView) Init() tea.Cmd {
	return textinput.Blink
}

func (v *LoginView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		return v, nil

	case passwordLoginMsg:
		v.busy = false
		if msg.err != nil {
			if api.IsMFARequired(msg.err) {
				v.step = stepTOTP
				v.submitErr = ""
				v.info = "Enter the code from your authenticator app."
				v.code.SetValue("")
				return v, v.code.Focus()
			}
			v.submitErr = api.Message(msg.err, "Login failed. Please check your credentials.")
			return v, nil
		}
		return v, v.completeLogin(msg.pair)

	case otpRequestedMsg:
		v.busy = false
		if msg.err != nil {
			v.submitErr = api.Message(msg.err, "Failed to send code. Please check your credentials.")
			return v, nil
		}
		v.step = stepOTP
		v.submitErr = ""
		v.info = msg.message
		if v.info == "" {
			v.info = "A one-time code has been sent to your email."
		}
		v.code.SetValue("")
		return v, v.code.Focus()

	case codeLoginMsg:
		v.busy = false
		if msg.err != nil {
			v.submitErr = api.Message(msg.err, "Invalid code. Please try again.")
			return v, nil
		}
		return v, v.completeLogin(msg.pair)

	case loginDoneMsg:
		v.busy = false
		if msg.err != nil {
			v.submitErr = api.Message(msg.err, "Login failed. Please try again.")
			return v, nil
		}
		return v, Navigate(TargetHome)

	case tea.KeyMsg:
		if v.busy {
			return v, nil
		}
		switch {
		case msg.Type == tea.KeyCtrlC:
			return v, tea.Quit

		case key.Matches(msg, v.keys.Back):
			if v.step != stepCredentials {
				v.step = stepCredentials
				v.submitErr = ""
				v.info = ""
				return v, v.setFocus(v.focusIdx)
			}
			return v, Navigate(TargetHome)

		case key.Matches(msg, v.keys.Tab), msg.Type == tea.KeyShiftTab,
			msg.Type == tea.KeyUp, msg.Type == tea.KeyDown:
			if v.step != stepCredentials {
				return v, nil
			}
			delta := 1
			if msg.Type == tea.KeyShiftTab || msg.Type == tea.KeyUp {
				delta = -1
			}
			return v, v.setFocus((v.focusIdx + delta + loginFocusCount) % loginFocusCount)

		case key.Matches(msg, v.keys.Enter):
			return v.submit()
		}
	}

	return v, v.updateInputs(msg)
}

func (v *LoginView) updateInputs(msg tea.Msg) tea.Cmd {
	var cmds []tea.Cmd
	var cmd tea.Cmd
	if v.step == stepCredentials {
		v.username, cmd = v.username.Update(msg)
		cmds = append(cmds, cmd)
		v.password, cmd = v.password.Update(msg)
		cmds = append(cmds, cmd)
	} else {
		v.code, cmd = v.code.Update(msg)
		cmds = append(cmds, cmd)
	}
	return tea.Batch(cmds...)
}

func (v *LoginView) setFocus(idx int) tea.Cmd {
	v.focusIdx = idx
	v.username.Blur()
	v.password.Blur()
	switch idx {
	case loginFocusUsername:
		return v.username.Focus()
	case loginFocusPassword:
		return v.password.Focus()
	}
	return nil
}

func (v *LoginView) submit() (tea.Model, tea.Cmd) {
	// Trim once so all three flows send the same username
	username := strings.TrimSpace(v.username.Value())

	switch v.step {
	case stepOTP:
		if strings.TrimSpace(v.code.Value()) == "" {
			v.submitErr = "Please enter the code from your email."
			return v, nil
		}
		v.busy = true
		password, code := v.password.Value(), strings.TrimSpace(v.code.Value())
		return v, func() tea.Msg {
			pair, err := v.api.LoginOTP(context.Background(), username, password, code)
			return codeLoginMsg{pair: pair, err: err}
		}

	case stepTOTP:
		if strings.TrimSpace(v.code.Value()) == "" {
			v.submitErr = "Please enter your MFA code."
			return v, nil
		}
		v.busy = true
		code := strings.TrimSpace(v.code.Value())
		return v, func() tea.Msg {
			pair, err := v.api.VerifyMFA(context.Background(), username, code)
			return codeLoginMsg{pair: pair, err: err}
		}
	}

	if !v.validateCredentials() {
		return v, nil
	}
	v.busy = true
	v.submitErr = ""
	password := v.password.Value()

	if v.focusIdx == loginFocusEmailCode {
		return v, func() tea.Msg {
			message, err := v.api.RequestOTP(context.Background(), username, password)
			return otpRequestedMsg{message: message, err: err}
		}
	}
	return v, func() tea.Msg {
		pair, err := v.api.Login(context.Background(), username, password)
		return passwordLoginMsg{pair: pair, err: err}
	}
}

func (v *LoginView) validateCredentials() bool {
	v.fieldErrs = make(map[string]string)
	if strings.TrimSpace(v.username.Value()) == "" {
		v.fieldErrs["username"] = "Username is required"
	}
	if v.password.Value() == "" {
		v.fieldErrs["password"] = "Password is required"
	}
	return len(v.fieldErrs) == 0
}

// completeLogin installs the token pair into the session manager
func (v *LoginView) completeLogin(pair api.TokenPair) tea.Cmd {
	v.busy = true
	username := strings.TrimSpace(v.username.Value())
	return func() tea.Msg {
		err := v.session.Login(context.Background(), pair.Access, pair.Refresh, username)
		return loginDoneMsg{err: err}
	}
}

func (v *LoginView) View() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	var lines []string
	lines = append(lines, s.Title.Render("Log In"), "")

	if v.submitErr != "" {
		lines = append(lines, s.ErrorBanner.Render(v.submitErr), "")
	}
	if v.info != "" {
		lines = append(lines, s.TitleMuted.Render(v.info), "")
	}

	switch v.step {
	case stepCredentials:
		lines = append(lines, v.renderCredentials()...)
	default:
		codeStyle := s.InputFocused
		lines = append(lines, codeStyle.Render(v.code.View()), "")
		if v.busy {
			lines = append(lines, s.TitleMuted.Render("Verifying..."))
		} else {
			lines = append(lines, s.Help.Render(
				fmt.Sprintf("%s submit • %s back", s.HelpKey.Render("↵"), s.HelpKey.Render("esc"))))
		}
	}

	content := lipgloss.JoinVertical(lipgloss.Left, lines...)
	box := s.Box.Width(contentWidth - 4).Render(content)
	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center, box)
	return styles.CenterView(centered, v.width, v.height)
}

func (v *LoginView) renderCredentials() []string {
	s := v.styles
	var lines []string

	inputStyle := func(focused bool) lipgloss.Style {
		if focused {
			return s.InputFocused
		}
		return s.Input
	}
	lines = append(lines, inputStyle(v.focusIdx == loginFocusUsername).Render(v.username.View()))
	if msg, ok := v.fieldErrs["username"]; ok {
		lines = append(lines, s.FieldError.Render(msg))
	}
	lines = append(lines, inputStyle(v.focusIdx == loginFocusPassword).Render(v.password.View()))
	if msg, ok := v.fieldErrs["password"]; ok {
		lines = append(lines, s.FieldError.Render(msg))
	}

	submit := s.Button.Render(" Log In ")
	if v.focusIdx == loginFocusSubmit {
		submit = s.ButtonFocused.Render(" Log In ")
	}
	emailCode := s.Button.Render(" Email me a code ")
	if v.focusIdx == loginFocusEmailCode {
		emailCode = s.ButtonFocused.Render(" Email me a code ")
	}
	lines = append(lines, "", lipgloss.JoinHorizontal(lipgloss.Center, submit, "  ", emailCode))

	if v.busy {
		lines = append(lines, "", s.TitleMuted.Render("Logging in..."))
	} else {
		lines = append(lines, "", s.Help.Render(
			fmt.Sprintf("%s next field • %s submit • %s back",
				s.HelpKey.Render("tab"), s.HelpKey.Render("↵"), s.HelpKey.Render("esc"))))
	}
	return lines
}
