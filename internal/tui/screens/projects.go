package screens

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/emilianohg/sitetrack/internal/models"
	"github.com/emilianohg/sitetrack/internal/service"
	"github.com/emilianohg/sitetrack/internal/session"
)

// Projects lists one company's projects, either the active or the archived
// half.
type Projects struct {
	tracker *service.Tracker
	sess    *session.Session
	width   int
	height  int

	companyID *int64
	company   *models.Company
	projects  []models.Project
	archived  bool
	cursor    int
	dialog    dialog
	loading   bool
	err       error
	message   string
}

func NewProjects(tracker *service.Tracker, sess *session.Session) *Projects {
	return &Projects{
		tracker: tracker,
		sess:    sess,
	}
}

func (p *Projects) SetSize(width, height int) {
	p.width = width
	p.height = height
}

func (p *Projects) SetCompany(companyID *int64) {
	if companyID != nil {
		p.companyID = companyID
	}
}

type projectsDataMsg struct {
	company  *models.Company
	projects []models.Project
	err      error
}

func (p *Projects) Init() tea.Cmd {
	p.loading = true
	p.dialog = dialog{}
	p.message = ""
	return p.loadData
}

func (p *Projects) loadData() tea.Msg {
	if p.companyID == nil {
		return projectsDataMsg{}
	}

	company, err := p.tracker.GetCompany(*p.companyID)
	if err != nil {
		return projectsDataMsg{err: err}
	}

	var projects []models.Project
	if p.archived {
		projects, err = p.tracker.ArchivedProjects(p.sess, *p.companyID)
	} else {
		projects, err = p.tracker.ActiveProjects(p.sess, *p.companyID)
	}
	return projectsDataMsg{company: company, projects: projects, err: err}
}

func (p *Projects) Update(msg tea.Msg) tea.Cmd {
	if p.dialog.isOpen() {
		saved, message, cmd := p.dialog.update(msg)
		if saved {
			p.message = message
			return p.loadData
		}
		return cmd
	}

	switch msg := msg.(type) {
	case projectsDataMsg:
		p.loading = false
		p.err = msg.err
		p.company = msg.company
		p.projects = msg.projects
		p.cursor = clampCursor(p.cursor, len(p.projects))
		return nil

	case RefreshMsg:
		return p.Init()

	case tea.KeyMsg:
		return p.handleKey(msg)
	}

	return nil
}

func (p *Projects) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "up", "k", "down", "j":
		p.cursor = moveCursor(p.cursor, len(p.projects), msg.String())
	case "tab":
		p.archived = !p.archived
		p.cursor = 0
		p.message = ""
		return p.loadData
	case "a":
		if p.sess.IsManagement() && p.companyID != nil {
			return p.openAdd()
		}
	case "e":
		if p.sess.IsManagement() && len(p.projects) > 0 {
			return p.openEdit(p.projects[p.cursor])
		}
	case "c":
		if p.sess.IsManagement() && len(p.projects) > 0 {
			proj := p.projects[p.cursor]
			if err := p.tracker.MarkOverallCompletion(p.sess, proj.ID, !proj.OverallCompletion); err != nil {
				p.err = err
				return nil
			}
			if proj.OverallCompletion {
				p.message = fmt.Sprintf("Reopened: %s", proj.Name)
			} else {
				p.message = fmt.Sprintf("Marked complete: %s", proj.Name)
			}
			return p.loadData
		}
	case "enter":
		if len(p.projects) > 0 {
			return NavigateWithProject(ScreenTasks, p.projects[p.cursor].ID)
		}
	case "q", "esc":
		if p.sess.IsManagement() {
			return Navigate(ScreenCompanies)
		}
		return Navigate(ScreenDashboard)
	}
	return nil
}

func (p *Projects) ownerOptions() ([]Option, error) {
	employees, err := p.tracker.ListEmployees(false)
	if err != nil {
		return nil, err
	}
	options := make([]Option, 0, len(employees))
	for _, e := range employees {
		options = append(options, Option{
			Label: fmt.Sprintf("%s (%s)", e.DisplayName(), e.Role),
			Value: formatID(e.ID),
		})
	}
	return options, nil
}

func (p *Projects) openAdd() tea.Cmd {
	owners, err := p.ownerOptions()
	if err != nil {
		p.err = err
		return nil
	}

	form := NewForm("New project").
		Text("Name", "", 200).
		Text("Description", "", 2000).
		Text("Quote no.", "", 50).
		Text("Project no.", "", 50).
		Choice("Owner", owners, formatID(p.sess.EmployeeID))

	companyID := *p.companyID
	return p.dialog.open(form, func(f *Form) (string, error) {
		ownerID, err := strconv.ParseInt(f.Value("Owner"), 10, 64)
		if err != nil {
			return "", fmt.Errorf("%w: Owner is required", service.ErrInvalidInput)
		}
		proj, err := p.tracker.AddProject(p.sess, service.ProjectInput{
			CompanyID:     companyID,
			Name:          f.Value("Name"),
			Description:   f.Value("Description"),
			QuoteNumber:   f.Value("Quote no."),
			ProjectNumber: f.Value("Project no."),
			OwnerID:       ownerID,
		})
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("Created project: %s", proj.Name), nil
	})
}

func (p *Projects) openEdit(proj models.Project) tea.Cmd {
	form := NewForm("Edit project").
		Text("Name", proj.Name, 200).
		Text("Description", proj.Description, 2000).
		Text("Quote no.", proj.QuoteNumber, 50).
		Text("Project no.", proj.ProjectNumber, 50)

	return p.dialog.open(form, func(f *Form) (string, error) {
		in := service.ProjectDetails{
			Name:          f.Value("Name"),
			Description:   f.Value("Description"),
			QuoteNumber:   f.Value("Quote no."),
			ProjectNumber: f.Value("Project no."),
		}
		if err := p.tracker.UpdateProject(p.sess, proj.ID, in); err != nil {
			return "", err
		}
		return fmt.Sprintf("Updated project: %s", in.Name), nil
	})
}

func (p *Projects) View() string {
	var b strings.Builder

	title := "PROJECTS"
	if p.company != nil {
		title = fmt.Sprintf("PROJECTS - %s", p.company.Name)
	}
	b.WriteString(TitleStyle.Render(title))
	b.WriteString("\n")
	if p.archived {
		b.WriteString(SubtitleStyle.Render("Archived"))
	} else {
		b.WriteString(SubtitleStyle.Render("Active"))
	}
	b.WriteString("\n\n")

	if p.loading {
		b.WriteString("Loading...\n")
		return b.String()
	}

	if p.dialog.isOpen() {
		b.WriteString(p.dialog.View())
		return b.String()
	}

	if p.err != nil {
		b.WriteString(ErrorStyle.Render(fmt.Sprintf("Error: %v", p.err)))
		b.WriteString("\n\n")
		p.err = nil
	}

	if p.message != "" {
		b.WriteString(SuccessStyle.Render(p.message))
		b.WriteString("\n\n")
	}

	if len(p.projects) == 0 {
		b.WriteString(DimStyle.Render("No projects here."))
		b.WriteString("\n\n")
	} else {
		for i, proj := range p.projects {
			prefix, style := cursorPrefix(i == p.cursor)
			b.WriteString(style.Render(fmt.Sprintf("%s%-28s", prefix, proj.Name)))
			b.WriteString(ProgressBar(proj.Progress, 20))

			var flags []string
			if proj.OverallCompletion {
				flags = append(flags, "signed off")
			}
			if proj.NewAssignment {
				flags = append(flags, "new")
			}
			meta := fmt.Sprintf("  owner: %s", orDash(proj.OwnerName))
			if proj.ProjectNumber != "" {
				meta += fmt.Sprintf("  #%s", proj.ProjectNumber)
			}
			if len(flags) > 0 {
				meta += fmt.Sprintf("  [%s]", strings.Join(flags, ", "))
			}
			b.WriteString(DimStyle.Render(meta))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	help := "[enter] Tasks  [tab] Active/archived  [q] Back"
	if p.sess.IsManagement() {
		help = "[a] Add  [e] Edit  [c] Toggle complete  " + help
	}
	b.WriteString(HelpStyle.Render(help))

	return b.String()
}
