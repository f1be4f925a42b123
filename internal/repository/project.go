package repository

import (
	"database/sql"

	"github.com/emilianohg/sitetrack/internal/access"
	"github.com/emilianohg/sitetrack/internal/models"
)

const projectSelect = `
	SELECT p.id, p.company_id, p.name, p.description, p.quote_number, p.project_number,
		p.owner_id, p.progress, p.overall_completion, p.archived, p.new_assignment, p.created_at,
		c.name, COALESCE(e.name || ' ' || e.surname, '')
	FROM projects p
	JOIN companies c ON c.id = p.company_id
	LEFT JOIN employees e ON e.id = p.owner_id
`

type ProjectRepo struct {
	db Querier
}

func NewProjectRepo(db Querier) *ProjectRepo {
	return &ProjectRepo{db: db}
}

// Create stores a new project with new_assignment set and zero progress.
func (r *ProjectRepo) Create(p models.Project) (*models.Project, error) {
	result, err := r.db.Exec(`
		INSERT INTO projects (company_id, name, description, quote_number, project_number, owner_id, new_assignment)
		VALUES (?, ?, ?, ?, ?, ?, 1)
	`, p.CompanyID, p.Name, p.Description, p.QuoteNumber, p.ProjectNumber, p.OwnerID)
	if err != nil {
		return nil, err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}

	return r.GetByID(id)
}

func (r *ProjectRepo) GetByID(id int64) (*models.Project, error) {
	p, err := scanProject(r.db.QueryRow(projectSelect+" WHERE p.id = ?", id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// ListByCompany returns the company's projects in the given state that the
// viewer may see.
func (r *ProjectRepo) ListByCompany(companyID int64, viewer access.Viewer, state models.ProjectState) ([]models.Project, error) {
	query := projectSelect + " WHERE p.company_id = ?"
	args := []any{companyID}

	clause, clauseArgs := viewer.ProjectClause("p")
	query += clause + access.ProjectStateClause("p", state)
	args = append(args, clauseArgs...)

	return r.list(query+" ORDER BY p.name", args...)
}

// ListByOwner returns every project owned by ownerID across companies.
func (r *ProjectRepo) ListByOwner(ownerID int64, state models.ProjectState) ([]models.Project, error) {
	query := projectSelect + " WHERE p.owner_id = ?" + access.ProjectStateClause("p", state)
	return r.list(query+" ORDER BY c.name, p.name", ownerID)
}

// NewAssignments returns the owner's projects not yet acknowledged.
func (r *ProjectRepo) NewAssignments(ownerID int64) ([]models.Project, error) {
	return r.list(projectSelect+" WHERE p.owner_id = ? AND p.new_assignment = 1 ORDER BY p.id", ownerID)
}

func (r *ProjectRepo) IDs() ([]int64, error) {
	rows, err := r.db.Query("SELECT id FROM projects ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *ProjectRepo) list(query string, args ...any) ([]models.Project, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var projects []models.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, *p)
	}
	return projects, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProject(row rowScanner) (*models.Project, error) {
	var p models.Project
	err := row.Scan(
		&p.ID, &p.CompanyID, &p.Name, &p.Description, &p.QuoteNumber, &p.ProjectNumber,
		&p.OwnerID, &p.Progress, &p.OverallCompletion, &p.Archived, &p.NewAssignment, &p.CreatedAt,
		&p.CompanyName, &p.OwnerName,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// UpdateDetails changes the descriptive fields. Owner, flags and progress
// have their own writes.
func (r *ProjectRepo) UpdateDetails(p models.Project) error {
	_, err := r.db.Exec(`
		UPDATE projects SET name = ?, description = ?, quote_number = ?, project_number = ?
		WHERE id = ?
	`, p.Name, p.Description, p.QuoteNumber, p.ProjectNumber, p.ID)
	return err
}

// SetOverallCompletion writes overall_completion and archived together.
func (r *ProjectRepo) SetOverallCompletion(id int64, completed bool) error {
	_, err := r.db.Exec(
		"UPDATE projects SET overall_completion = ?, archived = ? WHERE id = ?",
		completed, completed, id,
	)
	return err
}

// AcceptAssignment clears new_assignment. It reports whether the flag was
// still set.
func (r *ProjectRepo) AcceptAssignment(id int64) (bool, error) {
	result, err := r.db.Exec("UPDATE projects SET new_assignment = 0 WHERE id = ? AND new_assignment = 1", id)
	if err != nil {
		return false, err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *ProjectRepo) SetProgress(id int64, progress float64) error {
	_, err := r.db.Exec("UPDATE projects SET progress = ? WHERE id = ?", progress, id)
	return err
}
