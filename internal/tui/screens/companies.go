package screens

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/emilianohg/sitetrack/internal/models"
	"github.com/emilianohg/sitetrack/internal/repository"
	"github.com/emilianohg/sitetrack/internal/service"
	"github.com/emilianohg/sitetrack/internal/session"
)

type Companies struct {
	tracker *service.Tracker
	sess    *session.Session
	width   int
	height  int

	companies       []repository.CompanyWithStats
	representatives []models.Representative
	cursor          int
	dialog          dialog
	loading         bool
	err             error
	message         string
}

func NewCompanies(tracker *service.Tracker, sess *session.Session) *Companies {
	return &Companies{
		tracker: tracker,
		sess:    sess,
	}
}

func (c *Companies) SetSize(width, height int) {
	c.width = width
	c.height = height
}

type companiesDataMsg struct {
	companies []repository.CompanyWithStats
	err       error
}

func (c *Companies) Init() tea.Cmd {
	c.loading = true
	c.dialog = dialog{}
	c.message = ""
	return c.loadData
}

func (c *Companies) loadData() tea.Msg {
	companies, err := c.tracker.ListCompaniesWithStats()
	return companiesDataMsg{companies: companies, err: err}
}

func (c *Companies) loadRepresentatives() {
	c.representatives = nil
	if len(c.companies) == 0 {
		return
	}
	reps, err := c.tracker.ListRepresentatives(c.companies[c.cursor].ID)
	if err != nil {
		c.err = err
		return
	}
	c.representatives = reps
}

func (c *Companies) Update(msg tea.Msg) tea.Cmd {
	if c.dialog.isOpen() {
		saved, message, cmd := c.dialog.update(msg)
		if saved {
			c.message = message
			return c.loadData
		}
		return cmd
	}

	switch msg := msg.(type) {
	case companiesDataMsg:
		c.loading = false
		c.err = msg.err
		c.companies = msg.companies
		c.cursor = clampCursor(c.cursor, len(c.companies))
		c.loadRepresentatives()
		return nil

	case RefreshMsg:
		return c.Init()

	case tea.KeyMsg:
		return c.handleKey(msg)
	}

	return nil
}

func (c *Companies) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "up", "k", "down", "j":
		c.cursor = moveCursor(c.cursor, len(c.companies), msg.String())
		c.loadRepresentatives()
	case "a":
		form := NewForm("New company").
			Text("Name", "", 200).
			Text("Address", "", 500).
			Text("Contact", "", 50)
		return c.dialog.open(form, c.addCompany)
	case "e":
		if len(c.companies) > 0 {
			company := c.companies[c.cursor]
			form := NewForm("Edit company").
				Text("Name", company.Name, 200).
				Text("Address", company.Address, 500).
				Text("Contact", company.ContactNumber, 50)
			return c.dialog.open(form, c.updateCompany(company.ID))
		}
	case "r":
		if len(c.companies) > 0 {
			form := NewForm(fmt.Sprintf("New representative for %s", c.companies[c.cursor].Name)).
				Text("Name", "", 200).
				Text("Position", "", 200)
			return c.dialog.open(form, c.addRepresentative(c.companies[c.cursor].ID))
		}
	case "enter":
		if len(c.companies) > 0 {
			return NavigateWithCompany(ScreenProjects, c.companies[c.cursor].ID)
		}
	case "q", "esc":
		return Navigate(ScreenDashboard)
	}
	return nil
}

func companyInput(f *Form) service.CompanyInput {
	return service.CompanyInput{
		Name:          f.Value("Name"),
		Address:       f.Value("Address"),
		ContactNumber: f.Value("Contact"),
	}
}

func (c *Companies) addCompany(f *Form) (string, error) {
	company, err := c.tracker.AddCompany(c.sess, companyInput(f))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Saved company: %s", company.Name), nil
}

func (c *Companies) updateCompany(id int64) func(f *Form) (string, error) {
	return func(f *Form) (string, error) {
		in := companyInput(f)
		if err := c.tracker.UpdateCompany(c.sess, id, in); err != nil {
			return "", err
		}
		return fmt.Sprintf("Updated company: %s", in.Name), nil
	}
}

func (c *Companies) addRepresentative(companyID int64) func(f *Form) (string, error) {
	return func(f *Form) (string, error) {
		rep, err := c.tracker.AddRepresentative(c.sess, service.RepresentativeInput{
			CompanyID: companyID,
			Name:      f.Value("Name"),
			Position:  f.Value("Position"),
		})
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("Added representative: %s", rep.Name), nil
	}
}

func (c *Companies) View() string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render("COMPANIES"))
	b.WriteString("\n\n")

	if c.loading {
		b.WriteString("Loading...\n")
		return b.String()
	}

	if c.dialog.isOpen() {
		b.WriteString(c.dialog.View())
		return b.String()
	}

	if c.err != nil {
		b.WriteString(ErrorStyle.Render(fmt.Sprintf("Error: %v", c.err)))
		b.WriteString("\n\n")
		c.err = nil
	}

	if c.message != "" {
		b.WriteString(SuccessStyle.Render(c.message))
		b.WriteString("\n\n")
	}

	if len(c.companies) == 0 {
		b.WriteString(DimStyle.Render("No companies yet."))
		b.WriteString("\n\n")
	} else {
		for i, company := range c.companies {
			prefix, style := cursorPrefix(i == c.cursor)
			line := fmt.Sprintf("%s%s (%d projects, %d active, %d tasks)",
				prefix,
				company.Name,
				company.ProjectCount,
				company.ActiveProjectCount,
				company.TaskCount,
			)
			b.WriteString(style.Render(line))
			b.WriteString("\n")
		}
		b.WriteString("\n")
		c.viewDetails(&b)
	}

	help := "[a] Add  [e] Edit  [r] Add representative  [enter] View projects  [q] Back"
	b.WriteString(HelpStyle.Render(help))

	return b.String()
}

func (c *Companies) viewDetails(b *strings.Builder) {
	company := c.companies[c.cursor]

	var details strings.Builder
	details.WriteString(fmt.Sprintf("Address: %s\n", orDash(company.Address)))
	details.WriteString(fmt.Sprintf("Contact: %s\n", orDash(company.ContactNumber)))
	details.WriteString("Representatives:")
	if len(c.representatives) == 0 {
		details.WriteString(" -")
	}
	for _, r := range c.representatives {
		details.WriteString(fmt.Sprintf("\n  %s", r.Name))
		if r.Position != "" {
			details.WriteString(DimStyle.Render(" (" + r.Position + ")"))
		}
	}
	b.WriteString(BoxStyle.Render(details.String()))
	b.WriteString("\n")
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}
