package repository

import (
	"database/sql"

	"github.com/emilianohg/sitetrack/internal/access"
	"github.com/emilianohg/sitetrack/internal/models"
)

type CompanyRepo struct {
	db Querier
}

func NewCompanyRepo(db Querier) *CompanyRepo {
	return &CompanyRepo{db: db}
}

// Create inserts a company unless one with the same name exists. Either way
// it returns the stored row for that name.
func (r *CompanyRepo) Create(name, address, contactNumber string) (*models.Company, error) {
	_, err := r.db.Exec(
		"INSERT OR IGNORE INTO companies (name, address, contact_number) VALUES (?, ?, ?)",
		name, address, contactNumber,
	)
	if err != nil {
		return nil, err
	}

	return r.GetByName(name)
}

func (r *CompanyRepo) GetByID(id int64) (*models.Company, error) {
	return r.getOne("SELECT id, name, address, contact_number, created_at FROM companies WHERE id = ?", id)
}

func (r *CompanyRepo) GetByName(name string) (*models.Company, error) {
	return r.getOne("SELECT id, name, address, contact_number, created_at FROM companies WHERE name = ?", name)
}

func (r *CompanyRepo) getOne(query string, arg any) (*models.Company, error) {
	var c models.Company
	err := r.db.QueryRow(query, arg).Scan(&c.ID, &c.Name, &c.Address, &c.ContactNumber, &c.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CompanyRepo) GetAll() ([]models.Company, error) {
	rows, err := r.db.Query("SELECT id, name, address, contact_number, created_at FROM companies ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var companies []models.Company
	for rows.Next() {
		var c models.Company
		if err := rows.Scan(&c.ID, &c.Name, &c.Address, &c.ContactNumber, &c.CreatedAt); err != nil {
			return nil, err
		}
		companies = append(companies, c)
	}
	return companies, rows.Err()
}

func (r *CompanyRepo) Update(id int64, name, address, contactNumber string) error {
	_, err := r.db.Exec(
		"UPDATE companies SET name = ?, address = ?, contact_number = ? WHERE id = ?",
		name, address, contactNumber, id,
	)
	return err
}

type CompanyWithStats struct {
	models.Company
	ProjectCount       int
	ActiveProjectCount int
	TaskCount          int
}

func (r *CompanyRepo) GetAllWithStats() ([]CompanyWithStats, error) {
	query := `
		SELECT
			c.id, c.name, c.address, c.contact_number, c.created_at,
			COUNT(DISTINCT p.id) as project_count,
			COUNT(DISTINCT CASE WHEN NOT ` + access.ArchivedCondition("p") + ` THEN p.id END) as active_count,
			COUNT(DISTINCT t.id) as task_count
		FROM companies c
		LEFT JOIN projects p ON p.company_id = c.id
		LEFT JOIN tasks t ON t.project_id = p.id AND t.archived = 0
		GROUP BY c.id
		ORDER BY c.name
	`
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var companies []CompanyWithStats
	for rows.Next() {
		var c CompanyWithStats
		if err := rows.Scan(
			&c.ID, &c.Name, &c.Address, &c.ContactNumber, &c.CreatedAt,
			&c.ProjectCount, &c.ActiveProjectCount, &c.TaskCount,
		); err != nil {
			return nil, err
		}
		companies = append(companies, c)
	}
	return companies, rows.Err()
}
