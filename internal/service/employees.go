package service

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/emilianohg/sitetrack/internal/access"
	"github.com/emilianohg/sitetrack/internal/models"
	"github.com/emilianohg/sitetrack/internal/session"
)

type EmployeeInput struct {
	Name     string      `validate:"required,max=100"`
	Surname  string      `validate:"required,max=100"`
	Position string      `validate:"max=100"`
	Role     models.Role `validate:"required,oneof=management site"`
	PIN      string      `validate:"required,max=32"`
}

func (in *EmployeeInput) trim() {
	in.Name = strings.TrimSpace(in.Name)
	in.Surname = strings.TrimSpace(in.Surname)
	in.Position = strings.TrimSpace(in.Position)
	in.PIN = strings.TrimSpace(in.PIN)
}

func (in EmployeeInput) employee() models.Employee {
	return models.Employee{
		Name:     in.Name,
		Surname:  in.Surname,
		Position: in.Position,
		Role:     in.Role,
		PIN:      in.PIN,
		Active:   true,
	}
}

func (t *Tracker) AddEmployee(sess *session.Session, in EmployeeInput) (*models.Employee, error) {
	if err := t.authorize(sess, access.ManageEmployees); err != nil {
		return nil, err
	}
	in.trim()
	if err := t.check(in); err != nil {
		return nil, err
	}

	var e *models.Employee
	err := t.inTx(func(s stores) error {
		var err error
		e, err = s.employees.Create(in.employee())
		return err
	})
	if err != nil {
		return nil, err
	}

	t.log(sess).Info("employee added", zap.Int64("new_employee_id", e.ID), zap.String("role", string(e.Role)))
	return e, nil
}

func (t *Tracker) UpdateEmployee(sess *session.Session, id int64, in EmployeeInput) error {
	if err := t.authorize(sess, access.ManageEmployees); err != nil {
		return err
	}
	in.trim()
	if err := t.check(in); err != nil {
		return err
	}

	err := t.inTx(func(s stores) error {
		existing, err := s.employees.GetByID(id)
		if err != nil {
			return err
		}
		if existing == nil {
			return fmt.Errorf("%w: employee %d", ErrNotFound, id)
		}
		updated := in.employee()
		updated.ID = id
		updated.Active = existing.Active
		return s.employees.Update(updated)
	})
	if err != nil {
		return err
	}

	t.employees.Invalidate(id)
	// Cached projects carry the owner name.
	t.projectCache.Clear()
	t.log(sess).Info("employee updated", zap.Int64("target_employee_id", id))
	return nil
}

// SetEmployeeActive enables or disables login for an employee. Employees
// cannot deactivate themselves.
func (t *Tracker) SetEmployeeActive(sess *session.Session, id int64, active bool) error {
	if err := t.authorize(sess, access.ManageEmployees); err != nil {
		return err
	}
	if !active && id == sess.EmployeeID {
		return fmt.Errorf("%w: cannot deactivate yourself", ErrInvalidInput)
	}

	err := t.inTx(func(s stores) error {
		existing, err := s.employees.GetByID(id)
		if err != nil {
			return err
		}
		if existing == nil {
			return fmt.Errorf("%w: employee %d", ErrNotFound, id)
		}
		return s.employees.SetActive(id, active)
	})
	if err != nil {
		return err
	}

	t.employees.Invalidate(id)
	t.log(sess).Info("employee active changed", zap.Int64("target_employee_id", id), zap.Bool("active", active))
	return nil
}

// GetEmployee returns nil when the employee does not exist.
func (t *Tracker) GetEmployee(id int64) (*models.Employee, error) {
	if e, ok := t.employees.Get(id); ok {
		return &e, nil
	}
	e, err := t.read.employees.GetByID(id)
	if err != nil || e == nil {
		return e, err
	}
	t.employees.Set(id, *e)
	return e, nil
}

func (t *Tracker) ListEmployees(includeInactive bool) ([]models.Employee, error) {
	return t.read.employees.GetAll(includeInactive)
}
