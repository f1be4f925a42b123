package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(t *testing.T, s string) *time.Time {
	t.Helper()
	d, err := ParseDate(s)
	require.NoError(t, err)
	return &d
}

func TestTaskStatus(t *testing.T) {
	today := *date(t, "2026-03-10")

	tests := []struct {
		name string
		task Task
		want TaskStatus
	}{
		{"no due date", Task{}, TaskStatusActive},
		{"due today", Task{DueDate: date(t, "2026-03-10")}, TaskStatusActive},
		{"due tomorrow", Task{DueDate: date(t, "2026-03-11")}, TaskStatusActive},
		{"due yesterday", Task{DueDate: date(t, "2026-03-09")}, TaskStatusOverdue},
		{"completed late", Task{Completed: true, DueDate: date(t, "2026-01-01")}, TaskStatusCompleted},
		{"completed no due date", Task{Completed: true}, TaskStatusCompleted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.task.Status(today))
		})
	}
}

func TestTaskStatus_TimeOfDayIgnored(t *testing.T) {
	due := time.Date(2026, 3, 10, 0, 0, 0, 0, time.Local)
	late := time.Date(2026, 3, 10, 23, 59, 0, 0, time.Local)
	assert.Equal(t, TaskStatusActive, Task{DueDate: &due}.Status(late))
}

func TestProjectIsArchived(t *testing.T) {
	tests := []struct {
		name    string
		project Project
		want    bool
	}{
		{"fresh", Project{}, false},
		{"complete but not marked", Project{Progress: 100}, false},
		{"marked but unfinished", Project{OverallCompletion: true, Archived: true, Progress: 80}, false},
		{"marked and finished", Project{OverallCompletion: true, Archived: true, Progress: 100}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.project.IsArchived())
		})
	}
}

func TestParseTaskStatus(t *testing.T) {
	for _, s := range TaskStatuses {
		got, err := ParseTaskStatus(s.Label())
		require.NoError(t, err)
		assert.Equal(t, s, got)
	}
	_, err := ParseTaskStatus("late")
	assert.Error(t, err)
}

func TestEmployeeDisplayName(t *testing.T) {
	assert.Equal(t, "Mary Anne Smith", Employee{Name: "Mary Anne", Surname: "Smith"}.DisplayName())
	assert.Equal(t, "Jaco", Employee{Name: "Jaco"}.DisplayName())
}
