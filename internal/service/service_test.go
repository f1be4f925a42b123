package service

import (
	"bytes"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emilianohg/sitetrack/internal/models"
	"github.com/emilianohg/sitetrack/internal/session"
	"github.com/emilianohg/sitetrack/internal/storage"
	"github.com/emilianohg/sitetrack/internal/testutil"
)

var today = time.Date(2025, 6, 10, 9, 30, 0, 0, time.Local)

func newTestTracker(t *testing.T) *Tracker {
	t.Helper()

	photos, err := storage.NewPhotoStore(t.TempDir(), "photos")
	require.NoError(t, err)

	tr := New(testutil.SetupTestDB(t), photos, nil, WithClock(func() time.Time { return today }))
	_, err = tr.Seed()
	require.NoError(t, err)
	return tr
}

func findEmployee(t *testing.T, tr *Tracker, name, surname string) models.Employee {
	t.Helper()

	employees, err := tr.ListEmployees(true)
	require.NoError(t, err)
	for _, e := range employees {
		if e.Name == name && e.Surname == surname {
			return e
		}
	}
	t.Fatalf("employee %s %s not found", name, surname)
	return models.Employee{}
}

func loginAs(t *testing.T, tr *Tracker, name, surname, pin string) *session.Session {
	t.Helper()

	sess, err := tr.Login(findEmployee(t, tr, name, surname).ID, pin)
	require.NoError(t, err)
	return sess
}

func jaco(t *testing.T, tr *Tracker) *session.Session {
	return loginAs(t, tr, "Jaco", "Kotze", "1234")
}

func addSiteWorker(t *testing.T, tr *Tracker, mgr *session.Session, name string) *session.Session {
	t.Helper()

	_, err := tr.AddEmployee(mgr, EmployeeInput{
		Name: name, Surname: "Site", Position: "Electrician", Role: models.RoleSite, PIN: "4321",
	})
	require.NoError(t, err)
	return loginAs(t, tr, name, "Site", "4321")
}

func addProject(t *testing.T, tr *Tracker, mgr *session.Session, company, name string, ownerID int64) *models.Project {
	t.Helper()

	c, err := tr.AddCompany(mgr, CompanyInput{Name: company})
	require.NoError(t, err)
	p, err := tr.AddProject(mgr, ProjectInput{CompanyID: c.ID, Name: name, OwnerID: ownerID})
	require.NoError(t, err)
	return p
}

func addTask(t *testing.T, tr *Tracker, mgr *session.Session, in TaskInput) *models.Task {
	t.Helper()

	task, err := tr.AddTask(mgr, in)
	require.NoError(t, err)
	return task
}

func weight(w float64) *float64 { return &w }

func ptr(id int64) *int64 { return &id }

func TestSeed_Idempotent(t *testing.T) {
	tr := newTestTracker(t)

	created, err := tr.Seed()
	require.NoError(t, err)
	assert.Zero(t, created)

	employees, err := tr.ListEmployees(true)
	require.NoError(t, err)
	assert.Len(t, employees, 2)
	for _, e := range employees {
		assert.Equal(t, models.RoleManagement, e.Role)
	}
}

func TestLogin(t *testing.T) {
	tr := newTestTracker(t)
	jacoID := findEmployee(t, tr, "Jaco", "Kotze").ID

	t.Run("correct pin", func(t *testing.T) {
		sess, err := tr.Login(jacoID, "1234")
		require.NoError(t, err)
		assert.Equal(t, jacoID, sess.EmployeeID)
		assert.Equal(t, models.RoleManagement, sess.Role)
		assert.Equal(t, "Jaco Kotze", sess.DisplayName)
	})

	t.Run("wrong pin", func(t *testing.T) {
		sess, err := tr.Login(jacoID, "0000")
		assert.Nil(t, sess)
		assert.ErrorIs(t, err, ErrInvalidCredentials)

		var credErr *CredentialError
		require.ErrorAs(t, err, &credErr)
		assert.Equal(t, WrongPIN, credErr.Reason)
	})

	t.Run("unknown employee", func(t *testing.T) {
		_, err := tr.Login(9999, "1234")
		var credErr *CredentialError
		require.ErrorAs(t, err, &credErr)
		assert.Equal(t, UnknownEmployee, credErr.Reason)
		assert.Equal(t, ErrInvalidCredentials.Error(), err.Error())
	})

	t.Run("inactive employee", func(t *testing.T) {
		mgr, err := tr.Login(jacoID, "1234")
		require.NoError(t, err)
		site := addSiteWorker(t, tr, mgr, "Sipho")
		require.NoError(t, tr.SetEmployeeActive(mgr, site.EmployeeID, false))

		_, err = tr.Login(site.EmployeeID, "4321")
		var credErr *CredentialError
		require.ErrorAs(t, err, &credErr)
		assert.Equal(t, InactiveEmployee, credErr.Reason)
	})
}

func TestAcmeProgress(t *testing.T) {
	tr := newTestTracker(t)
	mgr := jaco(t, tr)
	p := addProject(t, tr, mgr, "Acme", "P1", mgr.EmployeeID)

	t1 := addTask(t, tr, mgr, TaskInput{ProjectID: p.ID, MainTask: "T1", Weight: weight(2)})
	addTask(t, tr, mgr, TaskInput{ProjectID: p.ID, MainTask: "T2", Weight: weight(1)})

	_, err := tr.ToggleTask(mgr, t1.ID, true)
	require.NoError(t, err)

	got, err := tr.GetProject(mgr, p.ID)
	require.NoError(t, err)
	assert.InDelta(t, 66.67, got.Progress, 0.01)

	value, err := tr.RecomputeProgress(p.ID)
	require.NoError(t, err)
	assert.InDelta(t, got.Progress, value, 1e-9)
}

func TestProjectWithoutTasksIsActive(t *testing.T) {
	tr := newTestTracker(t)
	mgr := jaco(t, tr)
	p := addProject(t, tr, mgr, "Acme", "Empty", mgr.EmployeeID)

	assert.Zero(t, p.Progress)

	active, err := tr.ActiveProjects(mgr, p.CompanyID)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, p.ID, active[0].ID)

	// Signing off an empty project does not archive it; it is not 100% done.
	require.NoError(t, tr.MarkOverallCompletion(mgr, p.ID, true))
	archived, err := tr.ArchivedProjects(mgr, p.CompanyID)
	require.NoError(t, err)
	assert.Empty(t, archived)
}

func TestToggleTask_CompletedDate(t *testing.T) {
	tr := newTestTracker(t)
	mgr := jaco(t, tr)
	p := addProject(t, tr, mgr, "Acme", "P1", mgr.EmployeeID)
	task := addTask(t, tr, mgr, TaskInput{ProjectID: p.ID, MainTask: "Wire DB"})

	done, err := tr.ToggleTask(mgr, task.ID, true)
	require.NoError(t, err)
	assert.True(t, done.Completed)
	require.NotNil(t, done.CompletedDate)
	assert.Equal(t, "2025-06-10", models.FormatDate(*done.CompletedDate))

	again, err := tr.ToggleTask(mgr, task.ID, true)
	require.NoError(t, err)
	assert.Equal(t, "2025-06-10", models.FormatDate(*again.CompletedDate))

	reopened, err := tr.ToggleTask(mgr, task.ID, false)
	require.NoError(t, err)
	assert.False(t, reopened.Completed)
	assert.Nil(t, reopened.CompletedDate)

	got, err := tr.GetProject(mgr, p.ID)
	require.NoError(t, err)
	assert.Zero(t, got.Progress)
}

func TestAcceptAssignment(t *testing.T) {
	tr := newTestTracker(t)
	mgr := jaco(t, tr)
	craig := loginAs(t, tr, "Craig", "Brooks", "5678")
	p := addProject(t, tr, mgr, "Acme", "P1", craig.EmployeeID)

	notices, err := tr.NewAssignments(craig)
	require.NoError(t, err)
	require.Len(t, notices, 1)
	assert.Equal(t, p.ID, notices[0].ID)

	err = tr.AcceptAssignment(mgr, p.ID)
	assert.ErrorIs(t, err, ErrPermissionDenied)

	require.NoError(t, tr.AcceptAssignment(craig, p.ID))
	require.NoError(t, tr.AcceptAssignment(craig, p.ID))

	notices, err = tr.NewAssignments(craig)
	require.NoError(t, err)
	assert.Empty(t, notices)

	assert.ErrorIs(t, tr.AcceptAssignment(craig, 9999), ErrNotFound)
}

func TestProjectPartition(t *testing.T) {
	tr := newTestTracker(t)
	mgr := jaco(t, tr)
	c, err := tr.AddCompany(mgr, CompanyInput{Name: "Acme"})
	require.NoError(t, err)

	newProject := func(name string, done, signedOff bool) int64 {
		p, err := tr.AddProject(mgr, ProjectInput{CompanyID: c.ID, Name: name, OwnerID: mgr.EmployeeID})
		require.NoError(t, err)
		task := addTask(t, tr, mgr, TaskInput{ProjectID: p.ID, MainTask: "Only"})
		if done {
			_, err := tr.ToggleTask(mgr, task.ID, true)
			require.NoError(t, err)
		}
		if signedOff {
			require.NoError(t, tr.MarkOverallCompletion(mgr, p.ID, true))
		}
		return p.ID
	}

	openID := newProject("Open", false, false)
	doneID := newProject("Done", true, false)
	signedID := newProject("Signed", false, true)
	closedID := newProject("Closed", true, true)

	active, err := tr.ActiveProjects(mgr, c.ID)
	require.NoError(t, err)
	archived, err := tr.ArchivedProjects(mgr, c.ID)
	require.NoError(t, err)

	ids := func(ps []models.Project) []int64 {
		out := make([]int64, 0, len(ps))
		for _, p := range ps {
			out = append(out, p.ID)
		}
		return out
	}
	assert.ElementsMatch(t, []int64{openID, doneID, signedID}, ids(active))
	assert.ElementsMatch(t, []int64{closedID}, ids(archived))

	require.NoError(t, tr.MarkOverallCompletion(mgr, closedID, false))
	archived, err = tr.ArchivedProjects(mgr, c.ID)
	require.NoError(t, err)
	assert.Empty(t, archived)
}

func TestTaskStatusPartition(t *testing.T) {
	tr := newTestTracker(t)
	mgr := jaco(t, tr)
	p := addProject(t, tr, mgr, "Acme", "P1", mgr.EmployeeID)

	past := today.AddDate(0, 0, -3)
	future := today.AddDate(0, 0, 3)

	noDue := addTask(t, tr, mgr, TaskInput{ProjectID: p.ID, MainTask: "No due"})
	dueToday := addTask(t, tr, mgr, TaskInput{ProjectID: p.ID, MainTask: "Today", DueDate: &today})
	dueSoon := addTask(t, tr, mgr, TaskInput{ProjectID: p.ID, MainTask: "Soon", DueDate: &future})
	late := addTask(t, tr, mgr, TaskInput{ProjectID: p.ID, MainTask: "Late", DueDate: &past})
	lateDone := addTask(t, tr, mgr, TaskInput{ProjectID: p.ID, MainTask: "Late done", DueDate: &past})
	gone := addTask(t, tr, mgr, TaskInput{ProjectID: p.ID, MainTask: "Gone"})

	_, err := tr.ToggleTask(mgr, lateDone.ID, true)
	require.NoError(t, err)
	require.NoError(t, tr.ArchiveTask(mgr, gone.ID))

	list := func(status models.TaskStatus) []int64 {
		tasks, err := tr.ProjectTasks(mgr, p.ID, status)
		require.NoError(t, err)
		out := make([]int64, 0, len(tasks))
		for _, task := range tasks {
			assert.True(t, status == models.TaskStatusAll || task.Status(today) == status)
			out = append(out, task.ID)
		}
		return out
	}

	assert.ElementsMatch(t, []int64{noDue.ID, dueToday.ID, dueSoon.ID}, list(models.TaskStatusActive))
	assert.ElementsMatch(t, []int64{lateDone.ID}, list(models.TaskStatusCompleted))
	assert.ElementsMatch(t, []int64{late.ID}, list(models.TaskStatusOverdue))
	assert.ElementsMatch(t, []int64{noDue.ID, dueToday.ID, dueSoon.ID, late.ID, lateDone.ID}, list(models.TaskStatusAll))
}

func TestSiteUserScope(t *testing.T) {
	tr := newTestTracker(t)
	mgr := jaco(t, tr)
	site := addSiteWorker(t, tr, mgr, "Sipho")
	other := addSiteWorker(t, tr, mgr, "Thabo")
	p := addProject(t, tr, mgr, "Acme", "P1", mgr.EmployeeID)

	mine := addTask(t, tr, mgr, TaskInput{ProjectID: p.ID, MainTask: "Mine", AssignedTo: ptr(site.EmployeeID)})
	theirs := addTask(t, tr, mgr, TaskInput{ProjectID: p.ID, MainTask: "Theirs", AssignedTo: ptr(other.EmployeeID)})
	addTask(t, tr, mgr, TaskInput{ProjectID: p.ID, MainTask: "Nobody's"})

	tasks, err := tr.ProjectTasks(site, p.ID, models.TaskStatusAll)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	for _, task := range tasks {
		assert.True(t, task.IsAssignedTo(site.EmployeeID))
	}

	mineList, err := tr.MyTasks(site, models.TaskStatusAll)
	require.NoError(t, err)
	require.Len(t, mineList, 1)
	assert.Equal(t, mine.ID, mineList[0].ID)

	t.Run("updates own task", func(t *testing.T) {
		_, err := tr.ToggleTask(site, mine.ID, true)
		require.NoError(t, err)
		require.NoError(t, tr.UpdateTaskComments(site, mine.ID, "done, tested"))
	})

	t.Run("cannot touch other tasks", func(t *testing.T) {
		_, err := tr.ToggleTask(site, theirs.ID, true)
		assert.ErrorIs(t, err, ErrPermissionDenied)
		assert.ErrorIs(t, tr.UpdateTaskComments(site, theirs.ID, "x"), ErrPermissionDenied)
	})

	t.Run("management actions denied", func(t *testing.T) {
		_, err := tr.AddTask(site, TaskInput{ProjectID: p.ID, MainTask: "Sneaky"})
		assert.ErrorIs(t, err, ErrPermissionDenied)
		_, err = tr.AddCompany(site, CompanyInput{Name: "Other"})
		assert.ErrorIs(t, err, ErrPermissionDenied)
		assert.ErrorIs(t, tr.UpdateTaskWeight(site, mine.ID, 5), ErrPermissionDenied)
		assert.ErrorIs(t, tr.MarkOverallCompletion(site, p.ID, true), ErrPermissionDenied)
	})

	t.Run("sees only owned projects", func(t *testing.T) {
		active, err := tr.ActiveProjects(site, p.CompanyID)
		require.NoError(t, err)
		assert.Empty(t, active)

		_, err = tr.GetProject(site, p.ID)
		assert.ErrorIs(t, err, ErrPermissionDenied)
	})
}

func TestAddTask_Validation(t *testing.T) {
	tr := newTestTracker(t)
	mgr := jaco(t, tr)
	p := addProject(t, tr, mgr, "Acme", "P1", mgr.EmployeeID)

	tests := []struct {
		name    string
		input   TaskInput
		wantErr error
	}{
		{"unknown project", TaskInput{ProjectID: 9999, MainTask: "x"}, ErrReference},
		{"unknown assignee", TaskInput{ProjectID: p.ID, MainTask: "x", AssignedTo: ptr(9999)}, ErrReference},
		{"negative weight", TaskInput{ProjectID: p.ID, MainTask: "x", Weight: weight(-1)}, ErrInvalidInput},
		{"missing main task", TaskInput{ProjectID: p.ID, MainTask: "  "}, ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tr.AddTask(mgr, tt.input)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	tasks, err := tr.ProjectTasks(mgr, p.ID, models.TaskStatusAll)
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

func TestAddProject_UnknownReferences(t *testing.T) {
	tr := newTestTracker(t)
	mgr := jaco(t, tr)
	c, err := tr.AddCompany(mgr, CompanyInput{Name: "Acme"})
	require.NoError(t, err)

	_, err = tr.AddProject(mgr, ProjectInput{CompanyID: 9999, Name: "P", OwnerID: mgr.EmployeeID})
	assert.ErrorIs(t, err, ErrReference)

	_, err = tr.AddProject(mgr, ProjectInput{CompanyID: c.ID, Name: "P", OwnerID: 9999})
	assert.ErrorIs(t, err, ErrReference)
}

func TestCompanies(t *testing.T) {
	tr := newTestTracker(t)
	mgr := jaco(t, tr)

	first, err := tr.AddCompany(mgr, CompanyInput{Name: "Acme", Address: "1 Main Rd"})
	require.NoError(t, err)
	second, err := tr.AddCompany(mgr, CompanyInput{Name: "Acme", Address: "elsewhere"})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "1 Main Rd", second.Address)

	other, err := tr.AddCompany(mgr, CompanyInput{Name: "Beta"})
	require.NoError(t, err)

	companies, err := tr.ListCompanies()
	require.NoError(t, err)
	assert.Len(t, companies, 2)

	err = tr.UpdateCompany(mgr, other.ID, CompanyInput{Name: "Acme"})
	assert.ErrorIs(t, err, ErrConflict)

	require.NoError(t, tr.UpdateCompany(mgr, other.ID, CompanyInput{Name: "Beta Ltd", ContactNumber: "021 555"}))
	got, err := tr.GetCompany(other.ID)
	require.NoError(t, err)
	assert.Equal(t, "Beta Ltd", got.Name)

	assert.ErrorIs(t, tr.UpdateCompany(mgr, 9999, CompanyInput{Name: "Nope"}), ErrNotFound)

	_, err = tr.AddRepresentative(mgr, RepresentativeInput{CompanyID: first.ID, Name: "Anne", Position: "Buyer"})
	require.NoError(t, err)
	_, err = tr.AddRepresentative(mgr, RepresentativeInput{CompanyID: 9999, Name: "Ghost"})
	assert.ErrorIs(t, err, ErrReference)

	reps, err := tr.ListRepresentatives(first.ID)
	require.NoError(t, err)
	require.Len(t, reps, 1)
	assert.Equal(t, "Anne", reps[0].Name)
}

func TestEmployees(t *testing.T) {
	tr := newTestTracker(t)
	mgr := jaco(t, tr)

	_, err := tr.AddEmployee(mgr, EmployeeInput{Name: "A", Surname: "B", Role: "boss", PIN: "1"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	e, err := tr.AddEmployee(mgr, EmployeeInput{Name: "Lerato", Surname: "Mokoena", Role: models.RoleSite, PIN: "1111"})
	require.NoError(t, err)
	assert.True(t, e.Active)

	require.NoError(t, tr.UpdateEmployee(mgr, e.ID, EmployeeInput{
		Name: "Lerato", Surname: "Mokoena", Position: "Foreman", Role: models.RoleManagement, PIN: "2222",
	}))
	got, err := tr.GetEmployee(e.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RoleManagement, got.Role)
	assert.Equal(t, "Foreman", got.Position)

	assert.ErrorIs(t, tr.SetEmployeeActive(mgr, mgr.EmployeeID, false), ErrInvalidInput)

	require.NoError(t, tr.SetEmployeeActive(mgr, e.ID, false))
	active, err := tr.ListEmployees(false)
	require.NoError(t, err)
	assert.Len(t, active, 2)
}

func TestArchiveAndReweighTask(t *testing.T) {
	tr := newTestTracker(t)
	mgr := jaco(t, tr)
	p := addProject(t, tr, mgr, "Acme", "P1", mgr.EmployeeID)

	done := addTask(t, tr, mgr, TaskInput{ProjectID: p.ID, MainTask: "Done"})
	open := addTask(t, tr, mgr, TaskInput{ProjectID: p.ID, MainTask: "Open"})
	_, err := tr.ToggleTask(mgr, done.ID, true)
	require.NoError(t, err)

	require.NoError(t, tr.UpdateTaskWeight(mgr, open.ID, 3))
	got, err := tr.GetProject(mgr, p.ID)
	require.NoError(t, err)
	assert.InDelta(t, 25.0, got.Progress, 1e-9)

	assert.ErrorIs(t, tr.UpdateTaskWeight(mgr, open.ID, -2), ErrInvalidInput)

	require.NoError(t, tr.ArchiveTask(mgr, open.ID))
	got, err = tr.GetProject(mgr, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 100.0, got.Progress)

	_, err = tr.ToggleTask(mgr, open.ID, true)
	assert.ErrorIs(t, err, ErrNotFound)

	due := today.AddDate(0, 1, 0)
	require.NoError(t, tr.UpdateTaskDueDate(mgr, done.ID, &due))
	require.NoError(t, tr.UpdateTaskDueDate(mgr, done.ID, nil))
}

func TestAttachPhoto(t *testing.T) {
	tr := newTestTracker(t)
	mgr := jaco(t, tr)
	site := addSiteWorker(t, tr, mgr, "Sipho")
	p := addProject(t, tr, mgr, "Acme", "P1", mgr.EmployeeID)
	task := addTask(t, tr, mgr, TaskInput{ProjectID: p.ID, MainTask: "Board", AssignedTo: ptr(site.EmployeeID)})

	rel, err := tr.AttachPhoto(site, task.ID, `C:\Users\sipho\board.PNG`, bytes.NewReader([]byte("png")))
	require.NoError(t, err)
	assert.Equal(t, "photos/task_"+strconv.FormatInt(task.ID, 10)+"_board.PNG", rel)

	tasks, err := tr.MyTasks(site, models.TaskStatusAll)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, rel, tasks[0].PhotoPath)

	_, err = tr.AttachPhoto(site, task.ID, "notes.pdf", bytes.NewReader(nil))
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestNilSession(t *testing.T) {
	tr := newTestTracker(t)

	_, err := tr.AddCompany(nil, CompanyInput{Name: "Acme"})
	assert.ErrorIs(t, err, ErrUnauthorized)
	_, err = tr.MyTasks(nil, models.TaskStatusAll)
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.ErrorIs(t, tr.AcceptAssignment(nil, 1), ErrUnauthorized)
}

func TestRecomputeAll(t *testing.T) {
	tr := newTestTracker(t)
	mgr := jaco(t, tr)
	p := addProject(t, tr, mgr, "Acme", "P1", mgr.EmployeeID)
	task := addTask(t, tr, mgr, TaskInput{ProjectID: p.ID, MainTask: "One"})

	// Simulate drift written behind the tracker's back.
	_, err := tr.db.Exec("UPDATE tasks SET completed = 1 WHERE id = ?", task.ID)
	require.NoError(t, err)

	n, err := tr.RecomputeAll()
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	got, err := tr.GetProject(mgr, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 100.0, got.Progress)

	_, err = tr.RecomputeProgress(9999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateProjectAndOwnership(t *testing.T) {
	tr := newTestTracker(t)
	mgr := jaco(t, tr)
	site := addSiteWorker(t, tr, mgr, "Lindiwe")

	p := addProject(t, tr, mgr, "Karoo Solar", "Array B", site.EmployeeID)

	// Prime the cache so the update has to invalidate it.
	_, err := tr.GetProject(mgr, p.ID)
	require.NoError(t, err)

	err = tr.UpdateProject(mgr, p.ID, ProjectDetails{Name: "  Array B2 ", QuoteNumber: "Q-77"})
	require.NoError(t, err)

	got, err := tr.GetProject(mgr, p.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Array B2", got.Name)
	assert.Equal(t, "Q-77", got.QuoteNumber)
	assert.Equal(t, site.EmployeeID, got.OwnerID)

	err = tr.UpdateProject(site, p.ID, ProjectDetails{Name: "Mine now"})
	assert.ErrorIs(t, err, ErrPermissionDenied)

	err = tr.UpdateProject(mgr, 9999, ProjectDetails{Name: "Ghost"})
	assert.ErrorIs(t, err, ErrNotFound)

	err = tr.UpdateProject(mgr, p.ID, ProjectDetails{Name: "   "})
	assert.ErrorIs(t, err, ErrInvalidInput)

	owned, err := tr.OwnedProjects(site, models.ProjectsActive)
	require.NoError(t, err)
	require.Len(t, owned, 1)
	assert.Equal(t, p.ID, owned[0].ID)

	owned, err = tr.OwnedProjects(mgr, models.ProjectsAll)
	require.NoError(t, err)
	assert.Empty(t, owned)

	stats, err := tr.ListCompaniesWithStats()
	require.NoError(t, err)
	require.Len(t, stats, 1)
	assert.Equal(t, "Karoo Solar", stats[0].Name)
	assert.Equal(t, 1, stats[0].ProjectCount)
	assert.Equal(t, 1, stats[0].ActiveProjectCount)
}

func TestGetProject_ReflectsCompanyAndOwnerRenames(t *testing.T) {
	tr := newTestTracker(t)
	mgr := jaco(t, tr)

	p := addProject(t, tr, mgr, "Acme", "Substation", mgr.EmployeeID)

	got, err := tr.GetProject(mgr, p.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Acme", got.CompanyName)
	assert.Equal(t, "Jaco Kotze", got.OwnerName)

	require.NoError(t, tr.UpdateCompany(mgr, got.CompanyID, CompanyInput{Name: "Acme Renamed"}))
	require.NoError(t, tr.UpdateEmployee(mgr, mgr.EmployeeID, EmployeeInput{
		Name: "Jacob", Surname: "Kotze", Role: models.RoleManagement, PIN: "1234",
	}))

	got, err = tr.GetProject(mgr, p.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Acme Renamed", got.CompanyName)
	assert.Equal(t, "Jacob Kotze", got.OwnerName)
}
