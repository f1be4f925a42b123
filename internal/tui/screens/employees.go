package screens

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/emilianohg/sitetrack/internal/models"
	"github.com/emilianohg/sitetrack/internal/service"
	"github.com/emilianohg/sitetrack/internal/session"
)

var roleOptions = []Option{
	{Label: "Management", Value: string(models.RoleManagement)},
	{Label: "Site", Value: string(models.RoleSite)},
}

type Employees struct {
	tracker *service.Tracker
	sess    *session.Session
	width   int
	height  int

	employees []models.Employee
	cursor    int
	dialog    dialog
	loading   bool
	err       error
	message   string
}

func NewEmployees(tracker *service.Tracker, sess *session.Session) *Employees {
	return &Employees{
		tracker: tracker,
		sess:    sess,
	}
}

func (e *Employees) SetSize(width, height int) {
	e.width = width
	e.height = height
}

type employeesDataMsg struct {
	employees []models.Employee
	err       error
}

func (e *Employees) Init() tea.Cmd {
	e.loading = true
	e.dialog = dialog{}
	e.message = ""
	return e.loadData
}

func (e *Employees) loadData() tea.Msg {
	employees, err := e.tracker.ListEmployees(true)
	return employeesDataMsg{employees: employees, err: err}
}

func (e *Employees) Update(msg tea.Msg) tea.Cmd {
	if e.dialog.isOpen() {
		saved, message, cmd := e.dialog.update(msg)
		if saved {
			e.message = message
			return e.loadData
		}
		return cmd
	}

	switch msg := msg.(type) {
	case employeesDataMsg:
		e.loading = false
		e.err = msg.err
		e.employees = msg.employees
		e.cursor = clampCursor(e.cursor, len(e.employees))
		return nil

	case RefreshMsg:
		return e.Init()

	case tea.KeyMsg:
		return e.handleKey(msg)
	}

	return nil
}

func (e *Employees) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "up", "k", "down", "j":
		e.cursor = moveCursor(e.cursor, len(e.employees), msg.String())
	case "a":
		form := NewForm("New employee").
			Text("Name", "", 100).
			Text("Surname", "", 100).
			Text("Position", "", 100).
			Choice("Role", roleOptions, string(models.RoleSite)).
			Secret("PIN", 32)
		return e.dialog.open(form, func(f *Form) (string, error) {
			emp, err := e.tracker.AddEmployee(e.sess, employeeInput(f))
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("Added employee: %s", emp.DisplayName()), nil
		})
	case "e":
		if len(e.employees) > 0 {
			emp := e.employees[e.cursor]
			form := NewForm(fmt.Sprintf("Edit %s", emp.DisplayName())).
				Text("Name", emp.Name, 100).
				Text("Surname", emp.Surname, 100).
				Text("Position", emp.Position, 100).
				Choice("Role", roleOptions, string(emp.Role)).
				Secret("PIN", 32)
			return e.dialog.open(form, func(f *Form) (string, error) {
				in := employeeInput(f)
				if in.PIN == "" {
					in.PIN = emp.PIN
				}
				if err := e.tracker.UpdateEmployee(e.sess, emp.ID, in); err != nil {
					return "", err
				}
				return fmt.Sprintf("Updated employee: %s %s", in.Name, in.Surname), nil
			})
		}
	case "s":
		if len(e.employees) > 0 {
			emp := e.employees[e.cursor]
			if err := e.tracker.SetEmployeeActive(e.sess, emp.ID, !emp.Active); err != nil {
				e.err = err
				return nil
			}
			if emp.Active {
				e.message = fmt.Sprintf("Deactivated: %s", emp.DisplayName())
			} else {
				e.message = fmt.Sprintf("Activated: %s", emp.DisplayName())
			}
			return e.loadData
		}
	case "q", "esc":
		return Navigate(ScreenDashboard)
	}
	return nil
}

func employeeInput(f *Form) service.EmployeeInput {
	return service.EmployeeInput{
		Name:     f.Value("Name"),
		Surname:  f.Value("Surname"),
		Position: f.Value("Position"),
		Role:     models.Role(f.Value("Role")),
		PIN:      f.Value("PIN"),
	}
}

func (e *Employees) View() string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render("EMPLOYEES"))
	b.WriteString("\n\n")

	if e.loading {
		b.WriteString("Loading...\n")
		return b.String()
	}

	if e.dialog.isOpen() {
		b.WriteString(e.dialog.View())
		return b.String()
	}

	if e.err != nil {
		b.WriteString(ErrorStyle.Render(fmt.Sprintf("Error: %v", e.err)))
		b.WriteString("\n\n")
		e.err = nil
	}

	if e.message != "" {
		b.WriteString(SuccessStyle.Render(e.message))
		b.WriteString("\n\n")
	}

	for i, emp := range e.employees {
		prefix, style := cursorPrefix(i == e.cursor)
		if !emp.Active && i != e.cursor {
			style = DimStyle
		}
		line := fmt.Sprintf("%s%-25s %-20s %s", prefix, emp.DisplayName(), orDash(emp.Position), emp.Role)
		if !emp.Active {
			line += "  (inactive)"
		}
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	b.WriteString(HelpStyle.Render("[a] Add  [e] Edit  [s] Activate/deactivate  [q] Back"))

	return b.String()
}
