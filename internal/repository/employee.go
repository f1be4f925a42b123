package repository

import (
	"database/sql"

	"github.com/emilianohg/sitetrack/internal/models"
)

const employeeColumns = "id, name, surname, position, role, pin, active"

type EmployeeRepo struct {
	db Querier
}

func NewEmployeeRepo(db Querier) *EmployeeRepo {
	return &EmployeeRepo{db: db}
}

func (r *EmployeeRepo) Create(e models.Employee) (*models.Employee, error) {
	result, err := r.db.Exec(
		"INSERT INTO employees (name, surname, position, role, pin, active) VALUES (?, ?, ?, ?, ?, ?)",
		e.Name, e.Surname, e.Position, string(e.Role), e.PIN, e.Active,
	)
	if err != nil {
		return nil, err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}

	return r.GetByID(id)
}

func (r *EmployeeRepo) GetByID(id int64) (*models.Employee, error) {
	return r.getOne("SELECT "+employeeColumns+" FROM employees WHERE id = ?", id)
}

// FindByName matches name and surname exactly; used for idempotent seeding.
func (r *EmployeeRepo) FindByName(name, surname string) (*models.Employee, error) {
	return r.getOne(
		"SELECT "+employeeColumns+" FROM employees WHERE name = ? AND surname = ? ORDER BY id LIMIT 1",
		name, surname,
	)
}

func (r *EmployeeRepo) getOne(query string, args ...any) (*models.Employee, error) {
	var e models.Employee
	var role string
	err := r.db.QueryRow(query, args...).Scan(
		&e.ID, &e.Name, &e.Surname, &e.Position, &role, &e.PIN, &e.Active,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	e.Role = models.Role(role)
	return &e, nil
}

// GetAll returns employees ordered by name; inactive ones only when asked.
func (r *EmployeeRepo) GetAll(includeInactive bool) ([]models.Employee, error) {
	query := "SELECT " + employeeColumns + " FROM employees"
	if !includeInactive {
		query += " WHERE active = 1"
	}
	query += " ORDER BY name, surname, id"

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var employees []models.Employee
	for rows.Next() {
		var e models.Employee
		var role string
		if err := rows.Scan(&e.ID, &e.Name, &e.Surname, &e.Position, &role, &e.PIN, &e.Active); err != nil {
			return nil, err
		}
		e.Role = models.Role(role)
		employees = append(employees, e)
	}
	return employees, rows.Err()
}

func (r *EmployeeRepo) Update(e models.Employee) error {
	_, err := r.db.Exec(
		"UPDATE employees SET name = ?, surname = ?, position = ?, role = ?, pin = ? WHERE id = ?",
		e.Name, e.Surname, e.Position, string(e.Role), e.PIN, e.ID,
	)
	return err
}

func (r *EmployeeRepo) SetActive(id int64, active bool) error {
	_, err := r.db.Exec("UPDATE employees SET active = ? WHERE id = ?", active, id)
	return err
}
