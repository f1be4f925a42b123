package repository

import (
	"database/sql"
	"time"

	"github.com/emilianohg/sitetrack/internal/access"
	"github.com/emilianohg/sitetrack/internal/models"
	"github.com/emilianohg/sitetrack/internal/progress"
)

const taskSelect = `
	SELECT t.id, t.project_id, t.area, t.equipment, t.kw, t.main_task, t.sub_task,
		t.assigned_to, t.due_date, t.completed, t.completed_date, t.comments, t.photo_path,
		t.weight, t.archived, t.created_at,
		p.name, COALESCE(e.name || ' ' || e.surname, '')
	FROM tasks t
	JOIN projects p ON p.id = t.project_id
	LEFT JOIN employees e ON e.id = t.assigned_to
`

type TaskRepo struct {
	db Querier
}

func NewTaskRepo(db Querier) *TaskRepo {
	return &TaskRepo{db: db}
}

func (r *TaskRepo) Create(t models.Task) (*models.Task, error) {
	result, err := r.db.Exec(`
		INSERT INTO tasks (
			project_id, area, equipment, kw, main_task, sub_task,
			assigned_to, due_date, weight, comments, photo_path
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		t.ProjectID, t.Area, t.Equipment, t.KW, t.MainTask, t.SubTask,
		nullInt64(t.AssignedTo), nullDate(t.DueDate), t.Weight, t.Comments, t.PhotoPath,
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

func (r *TaskRepo) GetByID(id int64) (*models.Task, error) {
	t, err := scanTask(r.db.QueryRow(taskSelect+" WHERE t.id = ?", id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

// ListByProject returns the project's non-archived tasks with the given
// status that the viewer may see, earliest due first.
func (r *TaskRepo) ListByProject(projectID int64, viewer access.Viewer, status models.TaskStatus, today time.Time) ([]models.Task, error) {
	query := taskSelect + " WHERE t.project_id = ? AND t.archived = 0"
	args := []any{projectID}

	statusClause, statusArgs := access.TaskStatusClause("t", status, today)
	viewerClause, viewerArgs := viewer.TaskClause("t")
	query += statusClause + viewerClause
	args = append(args, statusArgs...)
	args = append(args, viewerArgs...)

	return r.list(query+" ORDER BY t.due_date IS NULL, t.due_date, t.id", args...)
}

// ListByAssignee returns non-archived tasks delegated to employeeID across
// all projects.
func (r *TaskRepo) ListByAssignee(employeeID int64, status models.TaskStatus, today time.Time) ([]models.Task, error) {
	query := taskSelect + " WHERE t.assigned_to = ? AND t.archived = 0"
	args := []any{employeeID}

	statusClause, statusArgs := access.TaskStatusClause("t", status, today)
	query += statusClause
	args = append(args, statusArgs...)

	return r.list(query+" ORDER BY t.due_date IS NULL, t.due_date, p.name, t.id", args...)
}

// Contributions implements progress.Source.
func (r *TaskRepo) Contributions(projectID int64) ([]progress.Contribution, error) {
	rows, err := r.db.Query("SELECT weight, completed FROM tasks WHERE project_id = ? AND archived = 0", projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cs []progress.Contribution
	for rows.Next() {
		var c progress.Contribution
		if err := rows.Scan(&c.Weight, &c.Completed); err != nil {
			return nil, err
		}
		cs = append(cs, c)
	}
	return cs, rows.Err()
}

func (r *TaskRepo) list(query string, args ...any) ([]models.Task, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []models.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *t)
	}
	return tasks, rows.Err()
}

func scanTask(row rowScanner) (*models.Task, error) {
	var t models.Task
	var assignedTo sql.NullInt64
	var dueDate, completedDate sql.NullString

	err := row.Scan(
		&t.ID, &t.ProjectID, &t.Area, &t.Equipment, &t.KW, &t.MainTask, &t.SubTask,
		&assignedTo, &dueDate, &t.Completed, &completedDate, &t.Comments, &t.PhotoPath,
		&t.Weight, &t.Archived, &t.CreatedAt,
		&t.ProjectName, &t.AssigneeName,
	)
	if err != nil {
		return nil, err
	}

	if assignedTo.Valid {
		t.AssignedTo = &assignedTo.Int64
	}
	if t.DueDate, err = parseNullDate(dueDate); err != nil {
		return nil, err
	}
	if t.CompletedDate, err = parseNullDate(completedDate); err != nil {
		return nil, err
	}
	return &t, nil
}

// SetCompleted writes the flag and its date together; completedDate must be
// nil when completed is false.
func (r *TaskRepo) SetCompleted(id int64, completed bool, completedDate *time.Time) error {
	_, err := r.db.Exec(
		"UPDATE tasks SET completed = ?, completed_date = ? WHERE id = ?",
		completed, nullDate(completedDate), id,
	)
	return err
}

func (r *TaskRepo) UpdateComments(id int64, comments string) error {
	_, err := r.db.Exec("UPDATE tasks SET comments = ? WHERE id = ?", comments, id)
	return err
}

func (r *TaskRepo) UpdatePhoto(id int64, photoPath string) error {
	_, err := r.db.Exec("UPDATE tasks SET photo_path = ? WHERE id = ?", photoPath, id)
	return err
}

func (r *TaskRepo) UpdateDueDate(id int64, dueDate *time.Time) error {
	_, err := r.db.Exec("UPDATE tasks SET due_date = ? WHERE id = ?", nullDate(dueDate), id)
	return err
}

func (r *TaskRepo) UpdateWeight(id int64, weight float64) error {
	_, err := r.db.Exec("UPDATE tasks SET weight = ? WHERE id = ?", weight, id)
	return err
}

func (r *TaskRepo) Archive(id int64) error {
	_, err := r.db.Exec("UPDATE tasks SET archived = 1 WHERE id = ?", id)
	return err
}

func nullDate(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: models.FormatDate(*t), Valid: true}
}

func parseNullDate(s sql.NullString) (*time.Time, error) {
	if !s.Valid || s.String == "" {
		return nil, nil
	}
	d, err := models.ParseDate(s.String)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
