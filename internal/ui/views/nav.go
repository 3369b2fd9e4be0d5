package views

import tea "github.com/charmbracelet/bubbletea"

// Target identifies a view the app can switch to
type Target int

const (
	TargetHome Target = iota
	TargetLogin
	TargetSignup
	TargetTasks
	TargetDashboard
	TargetAllTasks
)

// NavigateMsg asks the app to switch views
type NavigateMsg struct {
	To Target
}

// Navigate returns a command that switches to the given view
func Navigate(to Target) tea.Cmd {
	return func() tea.Msg {
		return NavigateMsg{To: to}
	}
}

// clamp returns val clamped between minVal and maxVal
func clamp(val, minVal, maxVal int) int {
	if val < minVal {
		return minVal
	}
	if val > maxVal {
		return maxVal
	}
	return val
}
