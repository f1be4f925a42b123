// Package access decides which projects and tasks an employee may see and
// which actions their role allows.
package access

import (
	"fmt"

	"github.com/emilianohg/sitetrack/internal/models"
)

type Action string

const (
	ManageCompanies  Action = "companies:manage"
	ManageEmployees  Action = "employees:manage"
	ManageProjects   Action = "projects:manage"
	CompleteProjects Action = "projects:complete"
	BuildTasks       Action = "tasks:build"
	UpdateTasks      Action = "tasks:update"
)

var rolePermissions = map[models.Role][]Action{
	models.RoleManagement: {
		ManageCompanies,
		ManageEmployees,
		ManageProjects,
		CompleteProjects,
		BuildTasks,
		UpdateTasks,
	},
	models.RoleSite: {
		UpdateTasks,
	},
}

// Viewer is the employee a read or write is performed on behalf of.
type Viewer struct {
	EmployeeID int64
	Role       models.Role
}

func (v Viewer) IsManagement() bool {
	return v.Role == models.RoleManagement
}

func (v Viewer) Can(action Action) bool {
	for _, a := range rolePermissions[v.Role] {
		if a == action {
			return true
		}
	}
	return false
}

// Check is Can returning a *DeniedError instead of false.
func (v Viewer) Check(action Action) error {
	if !v.Can(action) {
		return &DeniedError{EmployeeID: v.EmployeeID, Action: action}
	}
	return nil
}

func (v Viewer) CanSeeProject(p models.Project) bool {
	return v.IsManagement() || p.OwnerID == v.EmployeeID
}

// CanSeeTask is per task: site users never see teammates' tasks, even in a
// project they own.
func (v Viewer) CanSeeTask(t models.Task) bool {
	return v.IsManagement() || t.IsAssignedTo(v.EmployeeID)
}

// CanUpdateTask covers completion, comments and photos.
func (v Viewer) CanUpdateTask(t models.Task) bool {
	return v.Can(UpdateTasks) && v.CanSeeTask(t)
}

// ProjectClause returns a SQL condition (prefixed with AND) restricting the
// projects aliased as alias to those the viewer may see.
func (v Viewer) ProjectClause(alias string) (string, []any) {
	if v.IsManagement() {
		return "", nil
	}
	return fmt.Sprintf(" AND %s.owner_id = ?", alias), []any{v.EmployeeID}
}

// TaskClause is ProjectClause for tasks.
func (v Viewer) TaskClause(alias string) (string, []any) {
	if v.IsManagement() {
		return "", nil
	}
	return fmt.Sprintf(" AND %s.assigned_to = ?", alias), []any{v.EmployeeID}
}

type DeniedError struct {
	EmployeeID int64
	Action     Action
}

func (e *DeniedError) Error() string {
	return fmt.Sprintf("employee %d is not allowed to %s", e.EmployeeID, e.Action)
}
