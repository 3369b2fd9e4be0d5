package views

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"taskdeck/internal/models"
	"taskdeck/internal/session"
	"taskdeck/internal/tasks"
	"taskdeck/internal/ui/keys"
	"taskdeck/internal/ui/styles"
)

type tasksSyncedMsg struct {
	err error
}

type taskSavedMsg struct {
	err error
}

type taskDeletedMsg struct {
	err error
}

// TasksView lists a task collection with inline create/edit and delete
// confirmation. The same view drives the personal list and the global
// staff list; the store's scope decides which endpoints it hits.
type TasksView struct {
	store   *tasks.Store
	session *session.Manager
	styles  *styles.Styles
	keys    keys.KeyMap

	title     string
	showOwner bool
	canCreate bool

	width  int
	height int

	// List state
	cursor  int
	scrollY int
	loaded  bool

	// Create/edit form
	editing      bool
	editingNew   bool
	editID       int64
	editTitle    textinput.Model
	editDesc     textarea.Model
	statusIdx    int
	editFocusIdx int // 0=title, 1=desc, 2=status, 3=save
	saving       bool
	fieldErr     string

	// Delete confirmation
	confirmingDelete bool
	deleteTargetID   int64
	deleteTarget     string
}

// NewTasksView creates the personal task list view
func NewTasksView(store *tasks.Store, mgr *session.Manager) *TasksView {
	v := newTaskCollectionView(store, mgr)
	v.title = "Your Tasks"
	v.canCreate = true
	return v
}

func newTaskCollectionView(store *tasks.Store, mgr *session.Manager) *TasksView {
	editTitle := textinput.New()
	editTitle.Placeholder = "Task title"
	editTitle.CharLimit = 200

	editDesc := textarea.New()
	editDesc.Placeholder = "Description"
	editDesc.CharLimit = 1000
	editDesc.SetWidth(50)
	editDesc.SetHeight(3)
	editDesc.ShowLineNumbers = false

	return &TasksView{
		store:     store,
		session:   mgr,
		styles:    styles.NewStyles(),
		keys:      keys.DefaultKeyMap(),
		editTitle: editTitle,
		editDesc:  editDesc,
	}
}

// Init kicks off the initial fetch, or bounces to login when there is
// no session to fetch with.
func (v *TasksView) Init() tea.Cmd {
	if !v.session.Authenticated() {
		return Navigate(TargetLogin)
	}
	return v.loadTasks
}

func (v *TasksView) loadTasks() tea.Msg {
	err := v.store.FetchAll(context.Background())
	return tasksSyncedMsg{err: err}
}

func (v *TasksView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		contentWidth := styles.ContentWidth(v.width)
		v.editDesc.SetWidth(clamp(contentWidth-10, 20, 50))
		return v, nil

	case tasksSyncedMsg:
		v.loaded = true
		if errors.Is(msg.err, session.ErrSessionExpired) {
			return v, Navigate(TargetLogin)
		}
		count := len(v.store.Tasks())
		if v.cursor >= count {
			v.cursor = max(0, count-1)
		}
		v.ensureVisible()
		return v, nil

	case taskSavedMsg:
		v.saving = false
		if msg.err == nil {
			v.editing = false
			return v, nil
		}
		if errors.Is(msg.err, session.ErrSessionExpired) {
			return v, Navigate(TargetLogin)
		}
		// Leave the form open; the store's submit banner has the message
		return v, nil

	case taskDeletedMsg:
		if errors.Is(msg.err, session.ErrSessionExpired) {
			return v, Navigate(TargetLogin)
		}
		count := len(v.store.Tasks())
		if v.cursor >= count {
			v.cursor = max(0, count-1)
		}
		v.ensureVisible()
		return v, nil

	case tea.KeyMsg:
		if v.confirmingDelete {
			return v.updateConfirmDelete(msg)
		}
		if v.editing {
			return v.updateEditing(msg)
		}
		return v.updateNormal(msg)
	}

	return v, nil
}

func (v *TasksView) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	list := v.store.Tasks()

	switch {
	case key.Matches(msg, v.keys.Quit):
		return v, tea.Quit

	case key.Matches(msg, v.keys.Back):
		return v, Navigate(TargetHome)

	case key.Matches(msg, v.keys.Up):
		if v.cursor > 0 {
			v.cursor--
			v.ensureVisible()
		}
		return v, nil

	case key.Matches(msg, v.keys.Down):
		if v.cursor < len(list)-1 {
			v.cursor++
			v.ensureVisible()
		}
		return v, nil

	case msg.String() == "r":
		return v, v.loadTasks

	case key.Matches(msg, v.keys.New):
		if v.canCreate {
			v.startNewTask()
			return v, textinput.Blink
		}
		return v, nil

	case key.Matches(msg, v.keys.Edit):
		if len(list) > 0 {
			v.startEditTask(list[v.cursor])
			return v, textinput.Blink
		}
		return v, nil

	case key.Matches(msg, v.keys.Delete):
		if len(list) > 0 {
			v.confirmingDelete = true
			v.deleteTargetID = list[v.cursor].ID
			v.deleteTarget = list[v.cursor].Title
		}
		return v, nil
	}

	return v, nil
}

func (v *TasksView) updateConfirmDelete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		v.confirmingDelete = false
		id := v.deleteTargetID
		return v, func() tea.Msg {
			err := v.store.Delete(context.Background(), id)
			return taskDeletedMsg{err: err}
		}
	case "n", "N", "esc":
		v.confirmingDelete = false
		return v, nil
	}
	return v, nil
}

func (v *TasksView) updateEditing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if v.saving {
		return v, nil
	}

	switch {
	case key.Matches(msg, v.keys.Back):
		v.editing = false
		v.store.ClearSubmitErr()
		return v, nil

	case msg.String() == "ctrl+s":
		return v, v.saveTask()

	case key.Matches(msg, v.keys.Tab):
		v.editFocusIdx = (v.editFocusIdx + 1) % 4
		v.updateEditFocus()
		return v, nil

	case msg.String() == "shift+tab":
		v.editFocusIdx = (v.editFocusIdx + 3) % 4
		v.updateEditFocus()
		return v, nil

	case key.Matches(msg, v.keys.Up), key.Matches(msg, v.keys.Down):
		if v.editFocusIdx == 2 {
			delta := 1
			if key.Matches(msg, v.keys.Up) {
				delta = -1
			}
			n := len(models.StatusOptions)
			v.statusIdx = (v.statusIdx + delta + n) % n
			return v, nil
		}

	case key.Matches(msg, v.keys.Enter):
		switch v.editFocusIdx {
		case 0, 2:
			// Enter on title or status moves on
			v.editFocusIdx++
			v.updateEditFocus()
			return v, nil
		case 3:
			return v, v.saveTask()
		}
		// Enter in the description textarea inserts a newline
	}

	var cmd tea.Cmd
	switch v.editFocusIdx {
	case 0:
		v.editTitle, cmd = v.editTitle.Update(msg)
	case 1:
		v.editDesc, cmd = v.editDesc.Update(msg)
	}
	return v, cmd
}

func (v *TasksView) startNewTask() {
	v.editing = true
	v.editingNew = true
	v.editID = 0
	v.editFocusIdx = 0
	v.statusIdx = 0
	v.fieldErr = ""
	v.editTitle.Reset()
	v.editDesc.Reset()
	v.store.ClearSubmitErr()
	v.updateEditFocus()
}

func (v *TasksView) startEditTask(task models.Task) {
	v.editing = true
	v.editingNew = false
	v.editID = task.ID
	v.editFocusIdx = 0
	v.fieldErr = ""
	v.statusIdx = 0
	for i, status := range models.StatusOptions {
		if status == task.Status {
			v.statusIdx = i
			break
		}
	}
	v.editTitle.SetValue(task.Title)
	v.editDesc.SetValue(task.Description)
	v.store.ClearSubmitErr()
	v.updateEditFocus()
}

func (v *TasksView) updateEditFocus() {
	v.editTitle.Blur()
	v.editDesc.Blur()
	switch v.editFocusIdx {
	case 0:
		v.editTitle.Focus()
	case 1:
		v.editDesc.Focus()
	}
}

func (v *TasksView) saveTask() tea.Cmd {
	title := strings.TrimSpace(v.editTitle.Value())
	if title == "" {
		v.fieldErr = "Title is required"
		return nil
	}
	v.fieldErr = ""
	v.saving = true

	desc := strings.TrimSpace(v.editDesc.Value())
	status := models.StatusOptions[v.statusIdx]
	isNew, id := v.editingNew, v.editID

	return func() tea.Msg {
		var err error
		if isNew {
			err = v.store.Add(context.Background(), title, desc, status)
		} else {
			err = v.store.Update(context.Background(), id, title, desc, status)
		}
		return taskSavedMsg{err: err}
	}
}

func (v *TasksView) ensureVisible() {
	// Each task item is 2 lines + 1 margin = 3 lines
	availableHeight := v.height - 10
	if availableHeight < 3 {
		availableHeight = 3
	}
	visibleItems := availableHeight / 3
	if visibleItems < 1 {
		visibleItems = 1
	}

	if v.cursor < v.scrollY {
		v.scrollY = v.cursor
	} else if v.cursor >= v.scrollY+visibleItems {
		v.scrollY = v.cursor - visibleItems + 1
	}
}

func (v *TasksView) View() string {
	if v.confirmingDelete {
		return v.renderDeleteConfirm()
	}
	if v.editing {
		return v.renderEditForm()
	}

	var b strings.Builder
	s := v.styles

	b.WriteString(s.Title.Render(v.title))
	b.WriteString("\n")

	if fetchErr := v.store.FetchErr(); fetchErr != "" {
		b.WriteString(s.ErrorBanner.Render(fetchErr))
		b.WriteString("\n")
	}
	if submitErr := v.store.SubmitErr(); submitErr != "" {
		b.WriteString(s.ErrorBanner.Render(submitErr))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	b.WriteString(v.renderTaskList())
	b.WriteString("\n")
	b.WriteString(v.renderHelp())

	return styles.CenterView(b.String(), v.width, v.height)
}

func (v *TasksView) renderTaskList() string {
	s := v.styles
	list := v.store.Tasks()

	if !v.loaded {
		return s.TitleMuted.Render("Loading tasks...")
	}
	if len(list) == 0 {
		if v.canCreate {
			return s.TitleMuted.Render("No tasks. Press 'n' to create one.")
		}
		return s.TitleMuted.Render("No tasks.")
	}

	availableHeight := v.height - 10
	if availableHeight < 3 {
		availableHeight = 3
	}
	visibleItems := availableHeight / 3
	if visibleItems < 1 {
		visibleItems = 1
	}

	var items []string
	endIdx := min(v.scrollY+visibleItems, len(list))
	for i := v.scrollY; i < endIdx; i++ {
		items = append(items, v.renderTaskItem(list[i], i == v.cursor))
	}
	return lipgloss.JoinVertical(lipgloss.Left, items...)
}

func (v *TasksView) renderTaskItem(task models.Task, selected bool) string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)
	width := max(contentWidth-4, 20)

	statusBadge := lipgloss.NewStyle().
		Foreground(styles.StatusColor(task.Status)).
		Render("● " + strings.ReplaceAll(task.Status, "_", " "))
	titleLine := task.Title + "  " + statusBadge

	detail := task.Description
	if detail == "" {
		detail = "no description"
	}
	if v.showOwner && task.OwnerUsername != "" {
		detail = task.OwnerUsername + " • " + detail
	}

	itemStyle := s.ListItem.Width(width)
	if selected {
		itemStyle = s.ListSelected.Width(width)
	}

	title := itemStyle.Render(titleLine)
	detailLine := itemStyle.Render(s.TitleMuted.Render(detail))
	return lipgloss.JoinVertical(lipgloss.Left, title, detailLine) + "\n"
}

func (v *TasksView) renderEditForm() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	formTitle := "New Task"
	if !v.editingNew {
		formTitle = "Edit Task"
	}

	titleStyle := s.Input
	descStyle := s.Input
	statusStyle := s.Input
	btnStyle := s.Button
	switch v.editFocusIdx {
	case 0:
		titleStyle = s.InputFocused
	case 1:
		descStyle = s.InputFocused
	case 2:
		statusStyle = s.InputFocused
	case 3:
		btnStyle = s.ButtonFocused
	}

	inputWidth := clamp(contentWidth-6, 20, 50)

	lines := []string{
		s.Title.Render(formTitle),
		"",
	}
	if submitErr := v.store.SubmitErr(); submitErr != "" {
		lines = append(lines, s.ErrorBanner.Render(submitErr), "")
	}
	if v.fieldErr != "" {
		lines = append(lines, s.FieldError.Render(v.fieldErr), "")
	}

	lines = append(lines,
		"Title:",
		titleStyle.Width(inputWidth).Render(v.editTitle.View()),
		"",
		"Description:",
		descStyle.Render(v.editDesc.View()),
		"",
		"Status:",
		statusStyle.Width(inputWidth).Render(v.renderStatusSelector()),
		"",
		btnStyle.Render(" Save "),
	)

	if v.saving {
		lines = append(lines, "", s.TitleMuted.Render("Saving..."))
	} else {
		lines = append(lines, "",
			s.TitleMuted.Render("Tab: next • ↑↓: status • Ctrl+S: save • Esc: cancel"))
	}

	form := lipgloss.JoinVertical(lipgloss.Left, lines...)
	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center, form)
	return styles.CenterView(centered, v.width, v.height)
}

func (v *TasksView) renderStatusSelector() string {
	s := v.styles
	var items []string
	for i, status := range models.StatusOptions {
		marker := "( )"
		if i == v.statusIdx {
			marker = "(•)"
		}
		label := strings.ReplaceAll(status, "_", " ")
		dot := lipgloss.NewStyle().Foreground(styles.StatusColor(status)).Render("●")
		line := marker + " " + dot + " " + label
		if v.editFocusIdx == 2 && i == v.statusIdx {
			items = append(items, s.ListSelected.Render(line))
		} else {
			items = append(items, s.ListItem.Render(line))
		}
	}
	return lipgloss.JoinVertical(lipgloss.Left, items...)
}

func (v *TasksView) renderDeleteConfirm() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	content := lipgloss.JoinVertical(lipgloss.Center,
		s.Title.Foreground(styles.Current.Error).Render("Delete Task?"),
		"",
		s.TitleMuted.Render(v.deleteTarget),
		"",
		lipgloss.JoinHorizontal(lipgloss.Center,
			s.ButtonPrimary.Render(" Y - Yes "),
			"  ",
			s.Button.Render(" N - No "),
		),
	)

	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center, content)
	return styles.CenterView(centered, v.width, v.height)
}

func (v *TasksView) renderHelp() string {
	s := v.styles
	parts := []string{
		fmt.Sprintf("%s edit", s.HelpKey.Render("e")),
		fmt.Sprintf("%s del", s.HelpKey.Render("d")),
		fmt.Sprintf("%s refresh", s.HelpKey.Render("r")),
		fmt.Sprintf("%s back", s.HelpKey.Render("esc")),
		fmt.Sprintf("%s quit", s.HelpKey.Render("q")),
	}
	if v.canCreate {
		parts = append([]string{fmt.Sprintf("%s new", s.HelpKey.Render("n"))}, parts...)
	}
	return s.Help.Render(strings.Join(parts, " • "))
}
