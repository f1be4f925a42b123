// Package session holds the state of one logged-in employee: who they are
// and what they currently have selected. It is passed explicitly to every
// screen and service call.
package session

import (
	"github.com/emilianohg/sitetrack/internal/access"
	"github.com/emilianohg/sitetrack/internal/models"
)

type Session struct {
	EmployeeID  int64
	DisplayName string
	Role        models.Role

	CompanyID *int64
	ProjectID *int64
}

func New(e models.Employee) *Session {
	return &Session{
		EmployeeID:  e.ID,
		DisplayName: e.DisplayName(),
		Role:        e.Role,
	}
}

func (s *Session) Viewer() access.Viewer {
	return access.Viewer{EmployeeID: s.EmployeeID, Role: s.Role}
}

func (s *Session) IsManagement() bool {
	return s.Role == models.RoleManagement
}

// SelectCompany also clears the project selection.
func (s *Session) SelectCompany(id int64) {
	s.CompanyID = &id
	s.ProjectID = nil
}

func (s *Session) SelectProject(id int64) {
	s.ProjectID = &id
}

func (s *Session) ClearSelection() {
	s.CompanyID = nil
	s.ProjectID = nil
}
