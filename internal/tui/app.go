package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/emilianohg/sitetrack/internal/config"
	"github.com/emilianohg/sitetrack/internal/service"
	"github.com/emilianohg/sitetrack/internal/session"
	"github.com/emilianohg/sitetrack/internal/tui/screens"
)

type screen interface {
	Init() tea.Cmd
	Update(msg tea.Msg) tea.Cmd
	View() string
	SetSize(width, height int)
}

type App struct {
	tracker       *service.Tracker
	cfg           *config.Config
	logger        *zap.Logger
	sess          *session.Session
	currentScreen screens.ScreenID
	width         int
	height        int

	// Screen models
	login     *screens.Login
	dashboard *screens.Dashboard
	companies *screens.Companies
	projects  *screens.Projects
	tasks     *screens.Tasks
	myTasks   *screens.MyTasks
	employees *screens.Employees
}

func NewApp(tracker *service.Tracker, cfg *config.Config, logger *zap.Logger) *App {
	return &App{
		tracker:       tracker,
		cfg:           cfg,
		logger:        logger,
		currentScreen: screens.ScreenLogin,
		login:         screens.NewLogin(tracker, cfg.Title),
	}
}

func (a *App) Init() tea.Cmd {
	return a.login.Init()
}

// startSession builds the signed-in screens around sess.
func (a *App) startSession(sess *session.Session) tea.Cmd {
	a.sess = sess
	a.dashboard = screens.NewDashboard(a.tracker, sess, a.cfg.Title)
	a.companies = screens.NewCompanies(a.tracker, sess)
	a.projects = screens.NewProjects(a.tracker, sess)
	a.tasks = screens.NewTasks(a.tracker, sess)
	a.myTasks = screens.NewMyTasks(a.tracker, sess)
	a.employees = screens.NewEmployees(a.tracker, sess)
	for _, s := range a.sessionScreens() {
		s.SetSize(a.width, a.height)
	}

	a.currentScreen = screens.ScreenDashboard
	return a.dashboard.Init()
}

func (a *App) endSession() tea.Cmd {
	if a.sess != nil {
		a.logger.Info("logged out", zap.Int64("employee_id", a.sess.EmployeeID))
	}
	a.sess = nil
	a.dashboard, a.companies, a.projects = nil, nil, nil
	a.tasks, a.myTasks, a.employees = nil, nil, nil
	a.currentScreen = screens.ScreenLogin
	return a.login.Init()
}

func (a *App) sessionScreens() []screen {
	if a.sess == nil {
		return nil
	}
	return []screen{a.dashboard, a.companies, a.projects, a.tasks, a.myTasks, a.employees}
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return a, tea.Quit
		case "q":
			if a.currentScreen == screens.ScreenDashboard || a.currentScreen == screens.ScreenLogin {
				if !a.login.Entering() {
					return a, tea.Quit
				}
			}
			// Let individual screens handle 'q' for going back
		}

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.login.SetSize(msg.Width, msg.Height)
		for _, s := range a.sessionScreens() {
			s.SetSize(msg.Width, msg.Height)
		}

	case screens.LoginMsg:
		return a, a.startSession(msg.Session)

	case screens.LogoutMsg:
		return a, a.endSession()

	case screens.NavigateMsg:
		return a, a.navigate(msg)
	}

	return a, a.current().Update(msg)
}

// navigate is the only place the current screen changes after login.
func (a *App) navigate(msg screens.NavigateMsg) tea.Cmd {
	if a.sess == nil {
		a.currentScreen = screens.ScreenLogin
		return a.login.Init()
	}

	switch msg.Screen {
	case screens.ScreenDashboard:
		a.sess.ClearSelection()
		a.currentScreen = screens.ScreenDashboard
		return a.dashboard.Init()
	case screens.ScreenCompanies:
		if !a.sess.IsManagement() {
			return nil
		}
		a.currentScreen = screens.ScreenCompanies
		return a.companies.Init()
	case screens.ScreenProjects:
		if msg.CompanyID != nil {
			a.sess.SelectCompany(*msg.CompanyID)
		}
		a.projects.SetCompany(a.sess.CompanyID)
		a.currentScreen = screens.ScreenProjects
		return a.projects.Init()
	case screens.ScreenTasks:
		if msg.ProjectID != nil {
			a.sess.SelectProject(*msg.ProjectID)
		}
		a.tasks.SetProject(a.sess.ProjectID)
		a.currentScreen = screens.ScreenTasks
		return a.tasks.Init()
	case screens.ScreenMyTasks:
		a.currentScreen = screens.ScreenMyTasks
		return a.myTasks.Init()
	case screens.ScreenEmployees:
		if !a.sess.IsManagement() {
			return nil
		}
		a.currentScreen = screens.ScreenEmployees
		return a.employees.Init()
	case screens.ScreenLogin:
		return a.endSession()
	}
	return nil
}

func (a *App) current() screen {
	switch a.currentScreen {
	case screens.ScreenDashboard:
		return a.dashboard
	case screens.ScreenCompanies:
		return a.companies
	case screens.ScreenProjects:
		return a.projects
	case screens.ScreenTasks:
		return a.tasks
	case screens.ScreenMyTasks:
		return a.myTasks
	case screens.ScreenEmployees:
		return a.employees
	}
	return a.login
}

func (a *App) View() string {
	return lipgloss.NewStyle().
		Width(a.width).
		Height(a.height).
		Render(a.current().View())
}

func Run(tracker *service.Tracker, cfg *config.Config, logger *zap.Logger) error {
	app := NewApp(tracker, cfg, logger)
	p := tea.NewProgram(app, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
