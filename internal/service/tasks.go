package service

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/emilianohg/sitetrack/internal/access"
	"github.com/emilianohg/sitetrack/internal/models"
	"github.com/emilianohg/sitetrack/internal/session"
	"github.com/emilianohg/sitetrack/internal/storage"
)

const defaultTaskWeight = 1.0

type TaskInput struct {
	ProjectID  int64   `validate:"required"`
	Area       string  `validate:"max=200"`
	Equipment  string  `validate:"max=200"`
	KW         float64 `validate:"gte=0"`
	MainTask   string  `validate:"required,max=200"`
	SubTask    string  `validate:"max=200"`
	AssignedTo *int64  `validate:"omitempty,gt=0"`
	DueDate    *time.Time
	Weight     *float64 `validate:"omitempty,gte=0"`
	Comments   string
}

func (in *TaskInput) trim() {
	in.Area = strings.TrimSpace(in.Area)
	in.Equipment = strings.TrimSpace(in.Equipment)
	in.MainTask = strings.TrimSpace(in.MainTask)
	in.SubTask = strings.TrimSpace(in.SubTask)
	in.Comments = strings.TrimSpace(in.Comments)
}

// AddTask creates a task and recomputes its project's progress in the same
// transaction. Weight defaults to 1.
func (t *Tracker) AddTask(sess *session.Session, in TaskInput) (*models.Task, error) {
	if err := t.authorize(sess, access.BuildTasks); err != nil {
		return nil, err
	}
	in.trim()
	if err := t.check(in); err != nil {
		return nil, err
	}

	weight := defaultTaskWeight
	if in.Weight != nil {
		weight = *in.Weight
	}

	var task *models.Task
	err := t.inTx(func(s stores) error {
		project, err := s.projects.GetByID(in.ProjectID)
		if err != nil {
			return err
		}
		if project == nil {
			return fmt.Errorf("%w: project %d", ErrReference, in.ProjectID)
		}

		if in.AssignedTo != nil {
			assignee, err := s.employees.GetByID(*in.AssignedTo)
			if err != nil {
				return err
			}
			if assignee == nil || !assignee.Active {
				return fmt.Errorf("%w: employee %d", ErrReference, *in.AssignedTo)
			}
		}

		task, err = s.tasks.Create(models.Task{
			ProjectID:  in.ProjectID,
			Area:       in.Area,
			Equipment:  in.Equipment,
			KW:         in.KW,
			MainTask:   in.MainTask,
			SubTask:    in.SubTask,
			AssignedTo: in.AssignedTo,
			DueDate:    in.DueDate,
			Weight:     weight,
			Comments:   in.Comments,
		})
		if err != nil {
			return err
		}

		_, err = t.recompute(s, in.ProjectID)
		return err
	})
	if err != nil {
		return nil, err
	}

	t.projectCache.Invalidate(task.ProjectID)
	t.log(sess).Info("task added",
		zap.Int64("task_id", task.ID),
		zap.Int64("project_id", task.ProjectID),
		zap.Float64("weight", task.Weight),
	)
	return task, nil
}

// ProjectTasks lists a project's tasks in the given status. Site users only
// get the tasks assigned to them.
func (t *Tracker) ProjectTasks(sess *session.Session, projectID int64, status models.TaskStatus) ([]models.Task, error) {
	if sess == nil {
		return nil, ErrUnauthorized
	}
	return t.read.tasks.ListByProject(projectID, sess.Viewer(), status, t.now())
}

// MyTasks lists the tasks assigned to the session across every project.
func (t *Tracker) MyTasks(sess *session.Session, status models.TaskStatus) ([]models.Task, error) {
	if sess == nil {
		return nil, ErrUnauthorized
	}
	return t.read.tasks.ListByAssignee(sess.EmployeeID, status, t.now())
}

// taskForUpdate loads a live task and checks the session may change it.
func taskForUpdate(s stores, sess *session.Session, id int64) (*models.Task, error) {
	task, err := s.tasks.GetByID(id)
	if err != nil {
		return nil, err
	}
	if task == nil || task.Archived {
		return nil, fmt.Errorf("%w: task %d", ErrNotFound, id)
	}
	if !sess.Viewer().CanUpdateTask(*task) {
		return nil, fmt.Errorf("%w: task %d is not assigned to you", ErrPermissionDenied, id)
	}
	return task, nil
}

// ToggleTask sets the completion flag. Completing stamps today's date and
// reopening clears it; setting the current state again changes nothing.
func (t *Tracker) ToggleTask(sess *session.Session, id int64, completed bool) (*models.Task, error) {
	if err := t.authorize(sess, access.UpdateTasks); err != nil {
		return nil, err
	}

	var (
		task     *models.Task
		progress float64
		changed  bool
	)
	err := t.inTx(func(s stores) error {
		current, err := taskForUpdate(s, sess, id)
		if err != nil {
			return err
		}
		if current.Completed == completed {
			task = current
			return nil
		}

		var date *time.Time
		if completed {
			today := t.now()
			date = &today
		}
		if err := s.tasks.SetCompleted(id, completed, date); err != nil {
			return err
		}
		if progress, err = t.recompute(s, current.ProjectID); err != nil {
			return err
		}
		changed = true

		task, err = s.tasks.GetByID(id)
		return err
	})
	if err != nil {
		return nil, err
	}

	if changed {
		t.projectCache.Invalidate(task.ProjectID)
		t.log(sess).Info("task completion toggled",
			zap.Int64("task_id", id),
			zap.Bool("completed", completed),
			zap.Float64("progress", progress),
		)
	}
	return task, nil
}

func (t *Tracker) UpdateTaskComments(sess *session.Session, id int64, comments string) error {
	if err := t.authorize(sess, access.UpdateTasks); err != nil {
		return err
	}

	err := t.inTx(func(s stores) error {
		if _, err := taskForUpdate(s, sess, id); err != nil {
			return err
		}
		return s.tasks.UpdateComments(id, strings.TrimSpace(comments))
	})
	if err != nil {
		return err
	}

	t.log(sess).Info("task comments updated", zap.Int64("task_id", id))
	return nil
}

// UpdateTaskDueDate sets or, with nil, clears the due date.
func (t *Tracker) UpdateTaskDueDate(sess *session.Session, id int64, due *time.Time) error {
	if err := t.authorize(sess, access.BuildTasks); err != nil {
		return err
	}

	err := t.inTx(func(s stores) error {
		if _, err := taskForUpdate(s, sess, id); err != nil {
			return err
		}
		return s.tasks.UpdateDueDate(id, due)
	})
	if err != nil {
		return err
	}

	t.log(sess).Info("task due date updated", zap.Int64("task_id", id))
	return nil
}

func (t *Tracker) UpdateTaskWeight(sess *session.Session, id int64, weight float64) error {
	if err := t.authorize(sess, access.BuildTasks); err != nil {
		return err
	}
	if err := t.validate.Var(weight, "gte=0"); err != nil {
		return fmt.Errorf("%w: Weight must not be negative", ErrInvalidInput)
	}

	var projectID int64
	err := t.inTx(func(s stores) error {
		task, err := taskForUpdate(s, sess, id)
		if err != nil {
			return err
		}
		projectID = task.ProjectID
		if err := s.tasks.UpdateWeight(id, weight); err != nil {
			return err
		}
		_, err = t.recompute(s, projectID)
		return err
	})
	if err != nil {
		return err
	}

	t.projectCache.Invalidate(projectID)
	t.log(sess).Info("task weight updated", zap.Int64("task_id", id), zap.Float64("weight", weight))
	return nil
}

// ArchiveTask hides a task and drops it from its project's progress.
func (t *Tracker) ArchiveTask(sess *session.Session, id int64) error {
	if err := t.authorize(sess, access.BuildTasks); err != nil {
		return err
	}

	var projectID int64
	err := t.inTx(func(s stores) error {
		task, err := taskForUpdate(s, sess, id)
		if err != nil {
			return err
		}
		projectID = task.ProjectID
		if err := s.tasks.Archive(id); err != nil {
			return err
		}
		_, err = t.recompute(s, projectID)
		return err
	})
	if err != nil {
		return err
	}

	t.projectCache.Invalidate(projectID)
	t.log(sess).Info("task archived", zap.Int64("task_id", id))
	return nil
}

// AttachPhoto stores an uploaded photo for the task and records its relative
// path. Only jpg and png files are accepted.
func (t *Tracker) AttachPhoto(sess *session.Session, id int64, filename string, data io.Reader) (string, error) {
	if err := t.authorize(sess, access.UpdateTasks); err != nil {
		return "", err
	}
	if t.photos == nil {
		return "", errors.New("photo storage is not configured")
	}

	task, err := taskForUpdate(t.read, sess, id)
	if err != nil {
		return "", err
	}

	if _, err := storage.PhotoName(id, filename); err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	rel, err := t.photos.Save(id, filename, data)
	if err != nil {
		return "", err
	}

	err = t.inTx(func(s stores) error {
		return s.tasks.UpdatePhoto(id, rel)
	})
	if err != nil {
		if rel != task.PhotoPath {
			if delErr := t.photos.Delete(rel); delErr != nil {
				t.logger.Error("failed to remove orphaned photo", zap.String("path", rel), zap.Error(delErr))
			}
		}
		return "", err
	}

	t.log(sess).Info("task photo attached", zap.Int64("task_id", id), zap.String("path", rel))
	return rel, nil
}
