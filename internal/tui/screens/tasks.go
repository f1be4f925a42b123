package screens

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/emilianohg/sitetrack/internal/models"
	"github.com/emilianohg/sitetrack/internal/service"
	"github.com/emilianohg/sitetrack/internal/session"
)

type Tasks struct {
	tracker *service.Tracker
	sess    *session.Session
	width   int
	height  int

	projectID *int64
	project   *models.Project
	tasks     []models.Task
	status    int
	cursor    int
	dialog    dialog
	loading   bool
	err       error
	message   string
}

func NewTasks(tracker *service.Tracker, sess *session.Session) *Tasks {
	return &Tasks{
		tracker: tracker,
		sess:    sess,
	}
}

func (t *Tasks) SetSize(width, height int) {
	t.width = width
	t.height = height
}

func (t *Tasks) SetProject(projectID *int64) {
	if projectID != nil {
		t.projectID = projectID
	}
}

func (t *Tasks) filter() models.TaskStatus {
	return models.TaskStatuses[t.status]
}

type tasksDataMsg struct {
	project *models.Project
	tasks   []models.Task
	err     error
}

func (t *Tasks) Init() tea.Cmd {
	t.loading = true
	t.dialog = dialog{}
	t.message = ""
	return t.loadData
}

func (t *Tasks) loadData() tea.Msg {
	if t.projectID == nil {
		return tasksDataMsg{}
	}

	project, err := t.tracker.GetProject(t.sess, *t.projectID)
	if err != nil {
		return tasksDataMsg{err: err}
	}

	tasks, err := t.tracker.ProjectTasks(t.sess, *t.projectID, t.filter())
	return tasksDataMsg{project: project, tasks: tasks, err: err}
}

func (t *Tasks) Update(msg tea.Msg) tea.Cmd {
	if t.dialog.isOpen() {
		saved, message, cmd := t.dialog.update(msg)
		if saved {
			t.message = message
			return t.loadData
		}
		return cmd
	}

	switch msg := msg.(type) {
	case tasksDataMsg:
		t.loading = false
		t.err = msg.err
		t.project = msg.project
		t.tasks = msg.tasks
		t.cursor = clampCursor(t.cursor, len(t.tasks))
		return nil

	case RefreshMsg:
		return t.Init()

	case tea.KeyMsg:
		return t.handleKey(msg)
	}

	return nil
}

func (t *Tasks) handleKey(msg tea.KeyMsg) tea.Cmd {
	key := msg.String()
	switch key {
	case "up", "k", "down", "j":
		t.cursor = moveCursor(t.cursor, len(t.tasks), key)
		return nil
	case "f":
		t.status = (t.status + 1) % len(models.TaskStatuses)
		t.cursor = 0
		return t.loadData
	case "q", "esc":
		if t.sess.IsManagement() && t.project != nil {
			return NavigateWithCompany(ScreenProjects, t.project.CompanyID)
		}
		return Navigate(ScreenDashboard)
	case "a":
		if t.sess.IsManagement() && t.project != nil {
			return t.openAdd()
		}
		return nil
	}

	if len(t.tasks) == 0 {
		return nil
	}
	task := t.tasks[t.cursor]

	if cmd, handled := taskKey(t.tracker, t.sess, &t.dialog, task, key, &t.err, &t.message); handled {
		if cmd == nil && t.err == nil && !t.dialog.isOpen() {
			return t.loadData
		}
		return cmd
	}

	if !t.sess.IsManagement() {
		return nil
	}

	switch key {
	case "w":
		form := NewForm(fmt.Sprintf("Weight for %s", task.MainTask)).
			Text("Weight", strconv.FormatFloat(task.Weight, 'f', -1, 64), 10)
		return t.dialog.open(form, func(f *Form) (string, error) {
			w, err := parseWeight(f.Value("Weight"))
			if err != nil {
				return "", err
			}
			if err := t.tracker.UpdateTaskWeight(t.sess, task.ID, w); err != nil {
				return "", err
			}
			return "Weight updated", nil
		})
	case "d":
		current := ""
		if task.DueDate != nil {
			current = models.FormatDate(*task.DueDate)
		}
		form := NewForm(fmt.Sprintf("Due date for %s (YYYY-MM-DD, empty to clear)", task.MainTask)).
			Text("Due date", current, 10)
		return t.dialog.open(form, func(f *Form) (string, error) {
			due, err := parseDue(f.Value("Due date"))
			if err != nil {
				return "", err
			}
			if err := t.tracker.UpdateTaskDueDate(t.sess, task.ID, due); err != nil {
				return "", err
			}
			return "Due date updated", nil
		})
	case "x":
		if err := t.tracker.ArchiveTask(t.sess, task.ID); err != nil {
			t.err = err
			return nil
		}
		t.message = fmt.Sprintf("Archived: %s", task.MainTask)
		return t.loadData
	}
	return nil
}

// taskKey handles the keys site and management users share. It reports
// whether key was one of them.
func taskKey(tracker *service.Tracker, sess *session.Session, d *dialog, task models.Task, key string, errOut *error, message *string) (tea.Cmd, bool) {
	switch key {
	case " ":
		updated, err := tracker.ToggleTask(sess, task.ID, !task.Completed)
		if err != nil {
			*errOut = err
			return nil, true
		}
		if updated.Completed {
			*message = fmt.Sprintf("Completed: %s", task.MainTask)
		} else {
			*message = fmt.Sprintf("Reopened: %s", task.MainTask)
		}
		return nil, true
	case "m":
		form := NewForm(fmt.Sprintf("Comments for %s", task.MainTask)).
			Text("Comments", task.Comments, 1000)
		return d.open(form, func(f *Form) (string, error) {
			if err := tracker.UpdateTaskComments(sess, task.ID, f.Value("Comments")); err != nil {
				return "", err
			}
			return "Comments saved", nil
		}), true
	case "p":
		form := NewForm(fmt.Sprintf("Photo for %s (jpg or png)", task.MainTask)).
			Text("File", "", 500)
		return d.open(form, func(f *Form) (string, error) {
			path := f.Value("File")
			file, err := os.Open(path)
			if err != nil {
				return "", err
			}
			defer file.Close()

			rel, err := tracker.AttachPhoto(sess, task.ID, path, file)
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("Photo saved to %s", rel), nil
		}), true
	}
	return nil, false
}

func (t *Tasks) openAdd() tea.Cmd {
	employees, err := t.tracker.ListEmployees(false)
	if err != nil {
		t.err = err
		return nil
	}
	assignees := []Option{{Label: "Unassigned", Value: ""}}
	for _, e := range employees {
		assignees = append(assignees, Option{Label: e.DisplayName(), Value: formatID(e.ID)})
	}

	form := NewForm("New task").
		Text("Area", "", 200).
		Text("Equipment", "", 200).
		Text("kW", "", 10).
		Text("Main task", "", 200).
		Text("Sub task", "", 200).
		Choice("Assigned to", assignees, "").
		Text("Due date", "", 10).
		Text("Weight", "1", 10).
		Text("Comments", "", 1000)

	projectID := t.project.ID
	return t.dialog.open(form, func(f *Form) (string, error) {
		in := service.TaskInput{
			ProjectID: projectID,
			Area:      f.Value("Area"),
			Equipment: f.Value("Equipment"),
			MainTask:  f.Value("Main task"),
			SubTask:   f.Value("Sub task"),
			Comments:  f.Value("Comments"),
		}

		if kw := f.Value("kW"); kw != "" {
			v, err := strconv.ParseFloat(kw, 64)
			if err != nil {
				return "", fmt.Errorf("%w: kW must be a number", service.ErrInvalidInput)
			}
			in.KW = v
		}
		if a := f.Value("Assigned to"); a != "" {
			id, err := strconv.ParseInt(a, 10, 64)
			if err != nil {
				return "", err
			}
			in.AssignedTo = &id
		}
		due, err := parseDue(f.Value("Due date"))
		if err != nil {
			return "", err
		}
		in.DueDate = due
		if w := f.Value("Weight"); w != "" {
			v, err := parseWeight(w)
			if err != nil {
				return "", err
			}
			in.Weight = &v
		}

		task, err := t.tracker.AddTask(t.sess, in)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("Added task: %s", task.MainTask), nil
	})
}

func parseWeight(s string) (float64, error) {
	w, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: Weight must be a number", service.ErrInvalidInput)
	}
	return w, nil
}

func parseDue(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	d, err := models.ParseDate(s)
	if err != nil {
		return nil, fmt.Errorf("%w: Due date must be YYYY-MM-DD", service.ErrInvalidInput)
	}
	return &d, nil
}

// renderTask is one task row, shared with the my tasks screen.
func renderTask(b *strings.Builder, task models.Task, selected bool, today time.Time, showProject bool) {
	prefix, style := cursorPrefix(selected)

	check := "[ ]"
	if task.Completed {
		check = "[x]"
	}
	name := task.MainTask
	if task.SubTask != "" {
		name += " / " + task.SubTask
	}
	if showProject {
		name = task.ProjectName + ": " + name
	}
	b.WriteString(style.Render(fmt.Sprintf("%s%s %s", prefix, check, name)))

	var meta []string
	if task.Area != "" {
		meta = append(meta, task.Area)
	}
	if task.Equipment != "" {
		meta = append(meta, task.Equipment)
	}
	if task.KW > 0 {
		meta = append(meta, fmt.Sprintf("%gkW", task.KW))
	}
	if task.AssigneeName != "" && !showProject {
		meta = append(meta, "@"+task.AssigneeName)
	}
	meta = append(meta, fmt.Sprintf("w=%g", task.Weight))
	b.WriteString(DimStyle.Render("  " + strings.Join(meta, "  ")))

	if task.DueDate != nil {
		due := "  due " + models.FormatDate(*task.DueDate)
		if task.Status(today) == models.TaskStatusOverdue {
			b.WriteString(ErrorStyle.Render(due))
		} else {
			b.WriteString(DimStyle.Render(due))
		}
	}
	if task.CompletedDate != nil {
		b.WriteString(SuccessStyle.Render("  done " + models.FormatDate(*task.CompletedDate)))
	}
	if task.PhotoPath != "" {
		b.WriteString(DimStyle.Render("  [photo]"))
	}
	b.WriteString("\n")

	if selected && task.Comments != "" {
		b.WriteString(DimStyle.Render("      " + task.Comments))
		b.WriteString("\n")
	}
}

func (t *Tasks) View() string {
	var b strings.Builder

	title := "TASKS"
	if t.project != nil {
		title = fmt.Sprintf("TASKS - %s", t.project.Name)
	}
	b.WriteString(TitleStyle.Render(title))
	b.WriteString("\n")
	if t.project != nil {
		b.WriteString(ProgressBar(t.project.Progress, 30))
		b.WriteString("\n")
	}
	b.WriteString(SubtitleStyle.Render(fmt.Sprintf("Showing: %s", t.filter().Label())))
	b.WriteString("\n\n")

	if t.loading {
		b.WriteString("Loading...\n")
		return b.String()
	}

	if t.dialog.isOpen() {
		b.WriteString(t.dialog.View())
		return b.String()
	}

	if t.err != nil {
		b.WriteString(ErrorStyle.Render(fmt.Sprintf("Error: %v", t.err)))
		b.WriteString("\n\n")
		t.err = nil
	}

	if t.message != "" {
		b.WriteString(SuccessStyle.Render(t.message))
		b.WriteString("\n\n")
	}

	if len(t.tasks) == 0 {
		b.WriteString(DimStyle.Render("No tasks."))
		b.WriteString("\n\n")
	} else {
		today := t.tracker.Today()
		for i, task := range t.tasks {
			renderTask(&b, task, i == t.cursor, today, false)
		}
		b.WriteString("\n")
	}

	help := "[space] Toggle done  [m] Comments  [p] Photo  [f] Filter  [q] Back"
	if t.sess.IsManagement() {
		help = "[a] Add  [w] Weight  [d] Due date  [x] Archive  " + help
	}
	b.WriteString(HelpStyle.Render(help))

	return b.String()
}
