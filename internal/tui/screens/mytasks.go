package screens

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/emilianohg/sitetrack/internal/models"
	"github.com/emilianohg/sitetrack/internal/service"
	"github.com/emilianohg/sitetrack/internal/session"
)

// MyTasks lists every task assigned to the signed-in employee.
type MyTasks struct {
	tracker *service.Tracker
	sess    *session.Session
	width   int
	height  int

	tasks   []models.Task
	status  int
	cursor  int
	dialog  dialog
	loading bool
	err     error
	message string
}

func NewMyTasks(tracker *service.Tracker, sess *session.Session) *MyTasks {
	return &MyTasks{
		tracker: tracker,
		sess:    sess,
	}
}

func (m *MyTasks) SetSize(width, height int) {
	m.width = width
	m.height = height
}

type myTasksDataMsg struct {
	tasks []models.Task
	err   error
}

func (m *MyTasks) Init() tea.Cmd {
	m.loading = true
	m.dialog = dialog{}
	m.message = ""
	return m.loadData
}

func (m *MyTasks) loadData() tea.Msg {
	tasks, err := m.tracker.MyTasks(m.sess, models.TaskStatuses[m.status])
	return myTasksDataMsg{tasks: tasks, err: err}
}

func (m *MyTasks) Update(msg tea.Msg) tea.Cmd {
	if m.dialog.isOpen() {
		saved, message, cmd := m.dialog.update(msg)
		if saved {
			m.message = message
			return m.loadData
		}
		return cmd
	}

	switch msg := msg.(type) {
	case myTasksDataMsg:
		m.loading = false
		m.err = msg.err
		m.tasks = msg.tasks
		m.cursor = clampCursor(m.cursor, len(m.tasks))
		return nil

	case RefreshMsg:
		return m.Init()

	case tea.KeyMsg:
		key := msg.String()
		switch key {
		case "up", "k", "down", "j":
			m.cursor = moveCursor(m.cursor, len(m.tasks), key)
			return nil
		case "f":
			m.status = (m.status + 1) % len(models.TaskStatuses)
			m.cursor = 0
			return m.loadData
		case "o":
			if len(m.tasks) > 0 {
				return NavigateWithProject(ScreenTasks, m.tasks[m.cursor].ProjectID)
			}
			return nil
		case "q", "esc":
			return Navigate(ScreenDashboard)
		}

		if len(m.tasks) == 0 {
			return nil
		}
		cmd, handled := taskKey(m.tracker, m.sess, &m.dialog, m.tasks[m.cursor], key, &m.err, &m.message)
		if handled && cmd == nil && m.err == nil && !m.dialog.isOpen() {
			return m.loadData
		}
		return cmd
	}

	return nil
}

func (m *MyTasks) View() string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render("MY TASKS"))
	b.WriteString("\n")
	b.WriteString(SubtitleStyle.Render(fmt.Sprintf("Showing: %s", models.TaskStatuses[m.status].Label())))
	b.WriteString("\n\n")

	if m.loading {
		b.WriteString("Loading...\n")
		return b.String()
	}

	if m.dialog.isOpen() {
		b.WriteString(m.dialog.View())
		return b.String()
	}

	if m.err != nil {
		b.WriteString(ErrorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		b.WriteString("\n\n")
		m.err = nil
	}

	if m.message != "" {
		b.WriteString(SuccessStyle.Render(m.message))
		b.WriteString("\n\n")
	}

	if len(m.tasks) == 0 {
		b.WriteString(DimStyle.Render("Nothing assigned to you."))
		b.WriteString("\n\n")
	} else {
		today := m.tracker.Today()
		for i, task := range m.tasks {
			renderTask(&b, task, i == m.cursor, today, true)
		}
		b.WriteString("\n")
	}

	b.WriteString(HelpStyle.Render("[space] Toggle done  [m] Comments  [p] Photo  [f] Filter  [o] Open project  [q] Back"))

	return b.String()
}
