package screens

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/emilianohg/sitetrack/internal/models"
	"github.com/emilianohg/sitetrack/internal/service"
)

type Login struct {
	tracker *service.Tracker
	title   string
	width   int
	height  int

	employees []models.Employee
	cursor    int
	entering  bool
	pin       textinput.Model
	loading   bool
	err       error
}

func NewLogin(tracker *service.Tracker, title string) *Login {
	ti := textinput.New()
	ti.Placeholder = "PIN"
	ti.CharLimit = 32
	ti.Width = 12
	ti.EchoMode = textinput.EchoPassword
	ti.EchoCharacter = '•'

	return &Login{
		tracker: tracker,
		title:   title,
		pin:     ti,
	}
}

func (l *Login) SetSize(width, height int) {
	l.width = width
	l.height = height
}

// Entering reports whether the PIN field has focus.
func (l *Login) Entering() bool {
	return l.entering
}

type loginDataMsg struct {
	employees []models.Employee
	err       error
}

func (l *Login) Init() tea.Cmd {
	l.loading = true
	l.entering = false
	l.pin.SetValue("")
	l.pin.Blur()
	return l.loadData
}

func (l *Login) loadData() tea.Msg {
	employees, err := l.tracker.ListEmployees(false)
	return loginDataMsg{employees: employees, err: err}
}

func (l *Login) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case loginDataMsg:
		l.loading = false
		l.err = msg.err
		l.employees = msg.employees
		l.cursor = clampCursor(l.cursor, len(l.employees))
		return nil

	case tea.KeyMsg:
		if l.entering {
			return l.handlePinKey(msg)
		}
		switch msg.String() {
		case "up", "k", "down", "j":
			l.cursor = moveCursor(l.cursor, len(l.employees), msg.String())
		case "enter":
			if len(l.employees) > 0 {
				l.entering = true
				l.err = nil
				l.pin.SetValue("")
				return l.pin.Focus()
			}
		}
		return nil
	}

	if l.entering {
		var cmd tea.Cmd
		l.pin, cmd = l.pin.Update(msg)
		return cmd
	}
	return nil
}

func (l *Login) handlePinKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		l.entering = false
		l.pin.Blur()
		return nil
	case "enter":
		employee := l.employees[l.cursor]
		sess, err := l.tracker.Login(employee.ID, l.pin.Value())
		l.pin.SetValue("")
		if err != nil {
			l.err = err
			return nil
		}
		l.entering = false
		l.pin.Blur()
		return func() tea.Msg { return LoginMsg{Session: sess} }
	}

	var cmd tea.Cmd
	l.pin, cmd = l.pin.Update(msg)
	return cmd
}

func (l *Login) View() string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render(strings.ToUpper(l.title)))
	b.WriteString("\n")
	b.WriteString(SubtitleStyle.Render("Sign in"))
	b.WriteString("\n\n")

	if l.loading {
		b.WriteString("Loading...\n")
		return b.String()
	}

	if l.err != nil {
		b.WriteString(ErrorStyle.Render(fmt.Sprintf("Error: %v", l.err)))
		b.WriteString("\n\n")
	}

	if len(l.employees) == 0 {
		b.WriteString(DimStyle.Render("No active employees. Run 'sitetrack seed' first."))
		b.WriteString("\n")
		b.WriteString(HelpStyle.Render("[q] Quit"))
		return b.String()
	}

	for i, e := range l.employees {
		prefix, style := cursorPrefix(i == l.cursor)
		b.WriteString(style.Render(fmt.Sprintf("%s%s", prefix, e.DisplayName())))
		b.WriteString(DimStyle.Render(fmt.Sprintf("  %s", e.Position)))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if l.entering {
		b.WriteString(fmt.Sprintf("PIN for %s: ", l.employees[l.cursor].DisplayName()))
		b.WriteString(l.pin.View())
		b.WriteString("\n")
		b.WriteString(HelpStyle.Render("[enter] Sign in  [esc] Back"))
		return b.String()
	}

	b.WriteString(HelpStyle.Render("[enter] Select  [q] Quit"))
	return b.String()
}
