package models

import (
	"fmt"
	"strings"
	"time"
)

type TaskStatus string

const (
	TaskStatusAll       TaskStatus = ""
	TaskStatusActive    TaskStatus = "active"
	TaskStatusCompleted TaskStatus = "completed"
	TaskStatusOverdue   TaskStatus = "overdue"
)

// TaskStatuses lists the filters in the order they are cycled through.
var TaskStatuses = []TaskStatus{TaskStatusAll, TaskStatusActive, TaskStatusCompleted, TaskStatusOverdue}

func (s TaskStatus) Label() string {
	if s == TaskStatusAll {
		return "all"
	}
	return string(s)
}

func ParseTaskStatus(s string) (TaskStatus, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all":
		return TaskStatusAll, nil
	case "active":
		return TaskStatusActive, nil
	case "completed":
		return TaskStatusCompleted, nil
	case "overdue":
		return TaskStatusOverdue, nil
	}
	return "", fmt.Errorf("unknown task status: %q", s)
}

// Status classifies a task relative to today. Every task is exactly one of
// active, completed or overdue.
func (t Task) Status(today time.Time) TaskStatus {
	if t.Completed {
		return TaskStatusCompleted
	}
	if t.DueDate != nil && FormatDate(*t.DueDate) < FormatDate(today) {
		return TaskStatusOverdue
	}
	return TaskStatusActive
}

type ProjectState int

const (
	ProjectsAll ProjectState = iota
	ProjectsActive
	ProjectsArchived
)

func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, strings.TrimSpace(s), time.Local)
}
