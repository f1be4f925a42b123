package screens

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/emilianohg/sitetrack/internal/session"
)

type ScreenID int

const (
	ScreenLogin ScreenID = iota
	ScreenDashboard
	ScreenCompanies
	ScreenProjects
	ScreenTasks
	ScreenMyTasks
	ScreenEmployees
)

func (s ScreenID) String() string {
	switch s {
	case ScreenLogin:
		return "login"
	case ScreenDashboard:
		return "dashboard"
	case ScreenCompanies:
		return "companies"
	case ScreenProjects:
		return "projects"
	case ScreenTasks:
		return "tasks"
	case ScreenMyTasks:
		return "mytasks"
	case ScreenEmployees:
		return "employees"
	}
	return fmt.Sprintf("screen(%d)", int(s))
}

// NavigateMsg is sent when navigation to another screen is requested
type NavigateMsg struct {
	Screen    ScreenID
	CompanyID *int64
	ProjectID *int64
}

func Navigate(screen ScreenID) tea.Cmd {
	return func() tea.Msg {
		return NavigateMsg{Screen: screen}
	}
}

func NavigateWithCompany(screen ScreenID, companyID int64) tea.Cmd {
	return func() tea.Msg {
		return NavigateMsg{Screen: screen, CompanyID: &companyID}
	}
}

func NavigateWithProject(screen ScreenID, projectID int64) tea.Cmd {
	return func() tea.Msg {
		return NavigateMsg{Screen: screen, ProjectID: &projectID}
	}
}

// LoginMsg carries the session opened by the login screen.
type LoginMsg struct {
	Session *session.Session
}

type LogoutMsg struct{}

func Logout() tea.Cmd {
	return func() tea.Msg {
		return LogoutMsg{}
	}
}

// RefreshMsg is sent when data should be refreshed
type RefreshMsg struct{}

func Refresh() tea.Cmd {
	return func() tea.Msg {
		return RefreshMsg{}
	}
}

// Styles
var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205")).
			MarginBottom(1)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			MarginBottom(1)

	HelpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			MarginTop(1)

	SelectedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212"))

	NormalStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	DimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	SuccessStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	WarningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))

	ErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(1, 2)
)

// ProgressBar renders pct (0-100) as a fixed-width bar.
func ProgressBar(pct float64, width int) string {
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	filled := int(pct / 100 * float64(width))
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	style := WarningStyle
	if pct >= 100 {
		style = SuccessStyle
	}
	return style.Render(bar) + fmt.Sprintf(" %5.1f%%", pct)
}

func cursorPrefix(selected bool) (string, lipgloss.Style) {
	if selected {
		return "> ", SelectedStyle
	}
	return "  ", NormalStyle
}

func moveCursor(cursor, n int, key string) int {
	switch key {
	case "up", "k":
		if cursor > 0 {
			cursor--
		}
	case "down", "j":
		if cursor < n-1 {
			cursor++
		}
	}
	return cursor
}

func clampCursor(cursor, n int) int {
	if cursor >= n {
		return max(0, n-1)
	}
	return cursor
}

type fieldKind int

const (
	fieldText fieldKind = iota
	fieldSecret
	fieldChoice
)

// Option is one value of a choice field.
type Option struct {
	Label string
	Value string
}

type field struct {
	label   string
	kind    fieldKind
	input   textinput.Model
	options []Option
	choice  int
}

// Form is a vertical list of labelled inputs. Tab and arrows move between
// fields, left and right cycle choices, enter on the last field submits.
type Form struct {
	title  string
	fields []*field
	focus  int
}

func NewForm(title string) *Form {
	return &Form{title: title}
}

func (f *Form) Text(label, value string, limit int) *Form {
	ti := textinput.New()
	ti.CharLimit = limit
	ti.Width = 40
	ti.SetValue(value)
	f.fields = append(f.fields, &field{label: label, kind: fieldText, input: ti})
	return f
}

func (f *Form) Secret(label string, limit int) *Form {
	ti := textinput.New()
	ti.CharLimit = limit
	ti.Width = 20
	ti.EchoMode = textinput.EchoPassword
	ti.EchoCharacter = '•'
	f.fields = append(f.fields, &field{label: label, kind: fieldSecret, input: ti})
	return f
}

// Choice adds a field cycling through options, starting at the one whose
// Value equals selected.
func (f *Form) Choice(label string, options []Option, selected string) *Form {
	fd := &field{label: label, kind: fieldChoice, options: options}
	for i, o := range options {
		if o.Value == selected {
			fd.choice = i
		}
	}
	f.fields = append(f.fields, fd)
	return f
}

// Focus focuses the first field and returns the cursor blink command.
func (f *Form) Focus() tea.Cmd {
	f.focus = 0
	return f.focusCurrent()
}

func (f *Form) focusCurrent() tea.Cmd {
	var cmd tea.Cmd
	for i, fd := range f.fields {
		if fd.kind == fieldChoice {
			continue
		}
		if i == f.focus {
			cmd = fd.input.Focus()
		} else {
			fd.input.Blur()
		}
	}
	return cmd
}

// Value returns the trimmed text, or the selected option's Value, of the
// field with the given label.
func (f *Form) Value(label string) string {
	for _, fd := range f.fields {
		if fd.label != label {
			continue
		}
		if fd.kind == fieldChoice {
			if len(fd.options) == 0 {
				return ""
			}
			return fd.options[fd.choice].Value
		}
		return strings.TrimSpace(fd.input.Value())
	}
	return ""
}

// Update reports whether the form was submitted or cancelled.
func (f *Form) Update(msg tea.Msg) (submitted, cancelled bool, cmd tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return false, false, f.updateInput(msg)
	}

	current := f.fields[f.focus]
	switch key.String() {
	case "esc":
		return false, true, nil
	case "enter":
		if f.focus == len(f.fields)-1 {
			return true, false, nil
		}
		f.focus++
		return false, false, f.focusCurrent()
	case "tab", "down":
		f.focus = (f.focus + 1) % len(f.fields)
		return false, false, f.focusCurrent()
	case "shift+tab", "up":
		f.focus = (f.focus - 1 + len(f.fields)) % len(f.fields)
		return false, false, f.focusCurrent()
	case "left", "right", " ":
		if current.kind == fieldChoice && len(current.options) > 0 {
			step := 1
			if key.String() == "left" {
				step = len(current.options) - 1
			}
			current.choice = (current.choice + step) % len(current.options)
			return false, false, nil
		}
	}
	return false, false, f.updateInput(msg)
}

func (f *Form) updateInput(msg tea.Msg) tea.Cmd {
	current := f.fields[f.focus]
	if current.kind == fieldChoice {
		return nil
	}
	var cmd tea.Cmd
	current.input, cmd = current.input.Update(msg)
	return cmd
}

func (f *Form) View() string {
	var b strings.Builder

	b.WriteString(SubtitleStyle.Render(f.title))
	b.WriteString("\n")
	for i, fd := range f.fields {
		label := DimStyle.Render(fmt.Sprintf("%-14s", fd.label))
		if i == f.focus {
			label = SelectedStyle.Render(fmt.Sprintf("%-14s", fd.label))
		}
		b.WriteString(label)
		if fd.kind == fieldChoice {
			value := "-"
			if len(fd.options) > 0 {
				value = fd.options[fd.choice].Label
			}
			b.WriteString("‹ " + value + " ›")
		} else {
			b.WriteString(fd.input.View())
		}
		b.WriteString("\n")
	}
	b.WriteString(HelpStyle.Render("[tab] Next field  [←/→] Change choice  [enter] Save  [esc] Cancel"))
	return b.String()
}

// dialog is an open form together with what to do once it is saved.
type dialog struct {
	form   *Form
	submit func(f *Form) (string, error)
	err    error
}

func (d *dialog) open(f *Form, submit func(f *Form) (string, error)) tea.Cmd {
	d.form = f
	d.submit = submit
	d.err = nil
	return f.Focus()
}

func (d *dialog) isOpen() bool {
	return d.form != nil
}

// update feeds msg to the form. saved is true once submit succeeded; a
// failed submit keeps the form open with the error shown.
func (d *dialog) update(msg tea.Msg) (saved bool, message string, cmd tea.Cmd) {
	submitted, cancelled, cmd := d.form.Update(msg)
	switch {
	case cancelled:
		d.form = nil
		return false, "", nil
	case submitted:
		message, err := d.submit(d.form)
		if err != nil {
			d.err = err
			return false, "", nil
		}
		d.form = nil
		return true, message, nil
	}
	return false, "", cmd
}

func (d *dialog) View() string {
	var b strings.Builder
	if d.err != nil {
		b.WriteString(ErrorStyle.Render(fmt.Sprintf("Error: %v", d.err)))
		b.WriteString("\n\n")
	}
	b.WriteString(d.form.View())
	return b.String()
}
