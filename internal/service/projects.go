package service

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/emilianohg/sitetrack/internal/access"
	"github.com/emilianohg/sitetrack/internal/models"
	"github.com/emilianohg/sitetrack/internal/progress"
	"github.com/emilianohg/sitetrack/internal/session"
)

type ProjectInput struct {
	CompanyID     int64  `validate:"required"`
	Name          string `validate:"required,max=200"`
	Description   string `validate:"max=2000"`
	QuoteNumber   string `validate:"max=50"`
	ProjectNumber string `validate:"max=50"`
	OwnerID       int64  `validate:"required"`
}

func (in *ProjectInput) trim() {
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)
	in.QuoteNumber = strings.TrimSpace(in.QuoteNumber)
	in.ProjectNumber = strings.TrimSpace(in.ProjectNumber)
}

// ProjectDetails are the fields UpdateProject may change.
type ProjectDetails struct {
	Name          string `validate:"required,max=200"`
	Description   string `validate:"max=2000"`
	QuoteNumber   string `validate:"max=50"`
	ProjectNumber string `validate:"max=50"`
}

func (d *ProjectDetails) trim() {
	d.Name = strings.TrimSpace(d.Name)
	d.Description = strings.TrimSpace(d.Description)
	d.QuoteNumber = strings.TrimSpace(d.QuoteNumber)
	d.ProjectNumber = strings.TrimSpace(d.ProjectNumber)
}

// AddProject creates a project for a company and hands it to its owner as a
// new assignment. The owner must be an active employee.
func (t *Tracker) AddProject(sess *session.Session, in ProjectInput) (*models.Project, error) {
	if err := t.authorize(sess, access.ManageProjects); err != nil {
		return nil, err
	}
	in.trim()
	if err := t.check(in); err != nil {
		return nil, err
	}

	var project *models.Project
	err := t.inTx(func(s stores) error {
		company, err := s.companies.GetByID(in.CompanyID)
		if err != nil {
			return err
		}
		if company == nil {
			return fmt.Errorf("%w: company %d", ErrReference, in.CompanyID)
		}

		owner, err := s.employees.GetByID(in.OwnerID)
		if err != nil {
			return err
		}
		if owner == nil || !owner.Active {
			return fmt.Errorf("%w: employee %d", ErrReference, in.OwnerID)
		}

		project, err = s.projects.Create(models.Project{
			CompanyID:     in.CompanyID,
			Name:          in.Name,
			Description:   in.Description,
			QuoteNumber:   in.QuoteNumber,
			ProjectNumber: in.ProjectNumber,
			OwnerID:       in.OwnerID,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	t.log(sess).Info("project added",
		zap.Int64("project_id", project.ID),
		zap.Int64("company_id", project.CompanyID),
		zap.Int64("owner_id", project.OwnerID),
	)
	return project, nil
}

func (t *Tracker) UpdateProject(sess *session.Session, id int64, in ProjectDetails) error {
	if err := t.authorize(sess, access.ManageProjects); err != nil {
		return err
	}
	in.trim()
	if err := t.check(in); err != nil {
		return err
	}

	err := t.inTx(func(s stores) error {
		existing, err := s.projects.GetByID(id)
		if err != nil {
			return err
		}
		if existing == nil {
			return fmt.Errorf("%w: project %d", ErrNotFound, id)
		}
		return s.projects.UpdateDetails(models.Project{
			ID:            id,
			Name:          in.Name,
			Description:   in.Description,
			QuoteNumber:   in.QuoteNumber,
			ProjectNumber: in.ProjectNumber,
		})
	})
	if err != nil {
		return err
	}

	t.projectCache.Invalidate(id)
	t.log(sess).Info("project updated", zap.Int64("project_id", id))
	return nil
}

// GetProject returns nil when the project does not exist and
// ErrPermissionDenied when the session may not see it.
func (t *Tracker) GetProject(sess *session.Session, id int64) (*models.Project, error) {
	if sess == nil {
		return nil, ErrUnauthorized
	}

	p, ok := t.projectCache.Get(id)
	if !ok {
		loaded, err := t.read.projects.GetByID(id)
		if err != nil || loaded == nil {
			return loaded, err
		}
		p = *loaded
		t.projectCache.Set(id, p)
	}

	if !sess.Viewer().CanSeeProject(p) {
		return nil, fmt.Errorf("%w: project %d", ErrPermissionDenied, id)
	}
	return &p, nil
}

// ActiveProjects lists the company's projects that are not archived.
func (t *Tracker) ActiveProjects(sess *session.Session, companyID int64) ([]models.Project, error) {
	if sess == nil {
		return nil, ErrUnauthorized
	}
	return t.read.projects.ListByCompany(companyID, sess.Viewer(), models.ProjectsActive)
}

func (t *Tracker) ArchivedProjects(sess *session.Session, companyID int64) ([]models.Project, error) {
	if sess == nil {
		return nil, ErrUnauthorized
	}
	return t.read.projects.ListByCompany(companyID, sess.Viewer(), models.ProjectsArchived)
}

// OwnedProjects lists the session's own projects across all companies.
func (t *Tracker) OwnedProjects(sess *session.Session, state models.ProjectState) ([]models.Project, error) {
	if sess == nil {
		return nil, ErrUnauthorized
	}
	return t.read.projects.ListByOwner(sess.EmployeeID, state)
}

// MarkOverallCompletion sets or clears the management sign-off. The project
// moves to the archived listing once it is signed off and fully progressed.
func (t *Tracker) MarkOverallCompletion(sess *session.Session, id int64, completed bool) error {
	if err := t.authorize(sess, access.CompleteProjects); err != nil {
		return err
	}

	err := t.inTx(func(s stores) error {
		existing, err := s.projects.GetByID(id)
		if err != nil {
			return err
		}
		if existing == nil {
			return fmt.Errorf("%w: project %d", ErrNotFound, id)
		}
		return s.projects.SetOverallCompletion(id, completed)
	})
	if err != nil {
		return err
	}

	t.projectCache.Invalidate(id)
	t.log(sess).Info("project completion marked", zap.Int64("project_id", id), zap.Bool("completed", completed))
	return nil
}

// NewAssignments lists projects handed to a management user that they have
// not accepted yet. Site users never get notices.
func (t *Tracker) NewAssignments(sess *session.Session) ([]models.Project, error) {
	if sess == nil {
		return nil, ErrUnauthorized
	}
	if !sess.IsManagement() {
		return nil, nil
	}
	return t.read.projects.NewAssignments(sess.EmployeeID)
}

// AcceptAssignment clears the new-assignment flag. Only the owner may accept
// and accepting twice is a no-op.
func (t *Tracker) AcceptAssignment(sess *session.Session, id int64) error {
	if sess == nil {
		return ErrUnauthorized
	}

	var changed bool
	err := t.inTx(func(s stores) error {
		p, err := s.projects.GetByID(id)
		if err != nil {
			return err
		}
		if p == nil {
			return fmt.Errorf("%w: project %d", ErrNotFound, id)
		}
		if p.OwnerID != sess.EmployeeID {
			return fmt.Errorf("%w: project %d is not assigned to you", ErrPermissionDenied, id)
		}
		changed, err = s.projects.AcceptAssignment(id)
		return err
	})
	if err != nil {
		return err
	}

	if changed {
		t.projectCache.Invalidate(id)
		t.log(sess).Info("assignment accepted", zap.Int64("project_id", id))
	}
	return nil
}

// RecomputeProgress recalculates and stores one project's progress.
func (t *Tracker) RecomputeProgress(projectID int64) (float64, error) {
	var value float64
	err := t.inTx(func(s stores) error {
		p, err := s.projects.GetByID(projectID)
		if err != nil {
			return err
		}
		if p == nil {
			return fmt.Errorf("%w: project %d", ErrNotFound, projectID)
		}
		value, err = t.recompute(s, projectID)
		return err
	})
	if err != nil {
		return 0, err
	}

	t.projectCache.Invalidate(projectID)
	return value, nil
}

// RecomputeAll recalculates every project and returns how many were updated.
func (t *Tracker) RecomputeAll() (int, error) {
	ids, err := t.read.projects.IDs()
	if err != nil {
		return 0, err
	}
	for _, id := range ids {
		if _, err := t.RecomputeProgress(id); err != nil {
			return 0, err
		}
	}
	t.logger.Info("progress recomputed", zap.Int("projects", len(ids)))
	return len(ids), nil
}

// recompute runs inside a write that changed the project's tasks.
func (t *Tracker) recompute(s stores, projectID int64) (float64, error) {
	return progress.Recompute(s.tasks, s.projects, projectID)
}
