package access

import (
	"fmt"
	"time"

	"github.com/emilianohg/sitetrack/internal/models"
)

// ArchivedCondition is the SQL form of models.Project.IsArchived for the
// projects table aliased as alias.
func ArchivedCondition(alias string) string {
	return fmt.Sprintf("(%[1]s.overall_completion = 1 AND %[1]s.progress >= 100)", alias)
}

// ProjectStateClause filters by project state. The active and archived
// clauses are exact complements.
func ProjectStateClause(alias string, state models.ProjectState) string {
	archived := ArchivedCondition(alias)
	switch state {
	case models.ProjectsActive:
		return " AND NOT " + archived
	case models.ProjectsArchived:
		return " AND " + archived
	}
	return ""
}

// TaskStatusClause is the SQL form of models.Task.Status. Dates are stored as
// YYYY-MM-DD text so string comparison orders them.
func TaskStatusClause(alias string, status models.TaskStatus, today time.Time) (string, []any) {
	day := models.FormatDate(today)
	switch status {
	case models.TaskStatusActive:
		return fmt.Sprintf(" AND %[1]s.completed = 0 AND (%[1]s.due_date IS NULL OR %[1]s.due_date >= ?)", alias), []any{day}
	case models.TaskStatusCompleted:
		return fmt.Sprintf(" AND %s.completed = 1", alias), nil
	case models.TaskStatusOverdue:
		return fmt.Sprintf(" AND %[1]s.completed = 0 AND %[1]s.due_date < ?", alias), []any{day}
	}
	return "", nil
}
