package service

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/emilianohg/sitetrack/internal/models"
	"github.com/emilianohg/sitetrack/internal/session"
)

// DefaultEmployees are created on first start so someone can log in.
var DefaultEmployees = []models.Employee{
	{Name: "Jaco", Surname: "Kotze", Position: "Manager", Role: models.RoleManagement, PIN: "1234", Active: true},
	{Name: "Craig", Surname: "Brooks", Position: "Manager", Role: models.RoleManagement, PIN: "5678", Active: true},
}

// Seed creates each default employee unless one with the same name and
// surname already exists. It returns how many were created.
func (t *Tracker) Seed() (int, error) {
	created := 0
	err := t.inTx(func(s stores) error {
		for _, e := range DefaultEmployees {
			existing, err := s.employees.FindByName(e.Name, e.Surname)
			if err != nil {
				return err
			}
			if existing != nil {
				continue
			}
			if _, err := s.employees.Create(e); err != nil {
				return fmt.Errorf("failed to seed %s: %w", e.DisplayName(), err)
			}
			created++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	if created > 0 {
		t.logger.Info("seeded default employees", zap.Int("created", created))
	}
	return created, nil
}

// Login checks the PIN of an active employee and opens a session.
// TODO: PINs are stored and compared in plain text; hash them with bcrypt
// once existing databases can be migrated.
func (t *Tracker) Login(employeeID int64, pin string) (*session.Session, error) {
	e, err := t.read.employees.GetByID(employeeID)
	if err != nil {
		return nil, err
	}

	var reason CredentialFailure
	switch {
	case e == nil:
		reason = UnknownEmployee
	case !e.Active:
		reason = InactiveEmployee
	case pin == "" || e.PIN != pin:
		reason = WrongPIN
	}
	if reason != 0 {
		t.logger.Warn("login failed",
			zap.Int64("employee_id", employeeID),
			zap.Stringer("reason", reason),
		)
		return nil, &CredentialError{Reason: reason}
	}

	sess := session.New(*e)
	t.log(sess).Info("login succeeded")
	return sess, nil
}
