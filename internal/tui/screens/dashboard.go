package screens

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/emilianohg/sitetrack/internal/models"
	"github.com/emilianohg/sitetrack/internal/repository"
	"github.com/emilianohg/sitetrack/internal/service"
	"github.com/emilianohg/sitetrack/internal/session"
)

// Dashboard is the landing screen. Management sees new-assignment notices
// and company totals; site users see the projects they own.
type Dashboard struct {
	tracker *service.Tracker
	sess    *session.Session
	title   string
	width   int
	height  int

	notices   []models.Project
	owned     []models.Project
	companies []repository.CompanyWithStats
	cursor    int
	loading   bool
	err       error
	message   string
}

func NewDashboard(tracker *service.Tracker, sess *session.Session, title string) *Dashboard {
	return &Dashboard{
		tracker: tracker,
		sess:    sess,
		title:   title,
		loading: true,
	}
}

func (d *Dashboard) SetSize(width, height int) {
	d.width = width
	d.height = height
}

type dashboardDataMsg struct {
	notices   []models.Project
	owned     []models.Project
	companies []repository.CompanyWithStats
	err       error
}

func (d *Dashboard) Init() tea.Cmd {
	d.loading = true
	return d.loadData
}

func (d *Dashboard) loadData() tea.Msg {
	if !d.sess.IsManagement() {
		owned, err := d.tracker.OwnedProjects(d.sess, models.ProjectsActive)
		return dashboardDataMsg{owned: owned, err: err}
	}

	notices, err := d.tracker.NewAssignments(d.sess)
	if err != nil {
		return dashboardDataMsg{err: err}
	}

	companies, err := d.tracker.ListCompaniesWithStats()
	if err != nil {
		return dashboardDataMsg{err: err}
	}

	return dashboardDataMsg{notices: notices, companies: companies}
}

// list is what the cursor moves over.
func (d *Dashboard) list() []models.Project {
	if d.sess.IsManagement() {
		return d.notices
	}
	return d.owned
}

func (d *Dashboard) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case dashboardDataMsg:
		d.loading = false
		d.err = msg.err
		d.notices = msg.notices
		d.owned = msg.owned
		d.companies = msg.companies
		d.cursor = clampCursor(d.cursor, len(d.list()))
		return nil

	case RefreshMsg:
		return d.Init()

	case tea.KeyMsg:
		return d.handleKey(msg)
	}

	return nil
}

func (d *Dashboard) handleKey(msg tea.KeyMsg) tea.Cmd {
	items := d.list()
	switch msg.String() {
	case "up", "k", "down", "j":
		d.cursor = moveCursor(d.cursor, len(items), msg.String())
	case "enter":
		if len(items) > 0 {
			return NavigateWithProject(ScreenTasks, items[d.cursor].ID)
		}
	case "a":
		if d.sess.IsManagement() && len(items) > 0 {
			p := items[d.cursor]
			if err := d.tracker.AcceptAssignment(d.sess, p.ID); err != nil {
				d.err = err
				return nil
			}
			d.message = fmt.Sprintf("Accepted: %s", p.Name)
			return d.loadData
		}
	case "t":
		return Navigate(ScreenMyTasks)
	case "c":
		return Navigate(ScreenCompanies)
	case "e":
		return Navigate(ScreenEmployees)
	case "l":
		return Logout()
	}
	return nil
}

func (d *Dashboard) View() string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render(strings.ToUpper(d.title)))
	b.WriteString("\n")
	b.WriteString(SubtitleStyle.Render(fmt.Sprintf("Signed in as %s (%s)", d.sess.DisplayName, d.sess.Role)))
	b.WriteString("\n\n")

	if d.loading {
		b.WriteString("Loading...\n")
		return b.String()
	}

	if d.err != nil {
		b.WriteString(ErrorStyle.Render(fmt.Sprintf("Error: %v", d.err)))
		b.WriteString("\n\n")
		d.err = nil
	}

	if d.message != "" {
		b.WriteString(SuccessStyle.Render(d.message))
		b.WriteString("\n\n")
	}

	if d.sess.IsManagement() {
		d.viewManagement(&b)
	} else {
		d.viewSite(&b)
	}

	return b.String()
}

func (d *Dashboard) viewManagement(b *strings.Builder) {
	if len(d.notices) > 0 {
		var notices strings.Builder
		notices.WriteString(WarningStyle.Render(fmt.Sprintf("%d new project assignment(s)", len(d.notices))))
		notices.WriteString("\n")
		for i, p := range d.notices {
			prefix, style := cursorPrefix(i == d.cursor)
			notices.WriteString(style.Render(fmt.Sprintf("%s%s", prefix, p.Name)))
			notices.WriteString(DimStyle.Render(fmt.Sprintf("  %s", p.CompanyName)))
			notices.WriteString("\n")
		}
		b.WriteString(BoxStyle.Render(strings.TrimRight(notices.String(), "\n")))
		b.WriteString("\n\n")
	}

	if len(d.companies) > 0 {
		b.WriteString(SubtitleStyle.Render("Companies"))
		b.WriteString("\n")
		for _, c := range d.companies {
			b.WriteString(fmt.Sprintf("  %s - %d projects (%d active), %d tasks\n",
				NormalStyle.Render(c.Name),
				c.ProjectCount,
				c.ActiveProjectCount,
				c.TaskCount,
			))
		}
	} else {
		b.WriteString(DimStyle.Render("No companies yet. Press 'c' to create one."))
		b.WriteString("\n")
	}

	help := "[c] Companies  [e] Employees  [t] My tasks  [l] Log out  [q] Quit"
	if len(d.notices) > 0 {
		help = "[a] Accept  [enter] Open project  " + help
	}
	b.WriteString(HelpStyle.Render(help))
}

func (d *Dashboard) viewSite(b *strings.Builder) {
	b.WriteString(SubtitleStyle.Render("My projects"))
	b.WriteString("\n")
	if len(d.owned) == 0 {
		b.WriteString(DimStyle.Render("  No projects assigned to you."))
		b.WriteString("\n")
	}
	for i, p := range d.owned {
		prefix, style := cursorPrefix(i == d.cursor)
		b.WriteString(style.Render(fmt.Sprintf("%s%-30s", prefix, p.Name)))
		b.WriteString(ProgressBar(p.Progress, 20))
		b.WriteString("\n")
	}

	b.WriteString(HelpStyle.Render("[enter] Open project  [t] My tasks  [l] Log out  [q] Quit"))
}
