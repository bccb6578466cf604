// internal/service/test_helpers.go
package service

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/stretchr/testify/require"

	"github.com/gurkanbulca/taskdeck/internal/engine"
	"github.com/gurkanbulca/taskdeck/internal/models"
	"github.com/gurkanbulca/taskdeck/internal/repository"
	"github.com/gurkanbulca/taskdeck/pkg/clock"
)

// TestHelpers provides common test utilities
type TestHelpers struct {
	t       *testing.T
	Clock   *clock.FakeClock
	Repo    *repository.MemoryTaskRepository
	Service *TaskService
}

// testNow is 2025-06-15 12:00 UTC; tests move the clock from there.
var testNow = time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC)

// NewTestHelpers creates a service over an in-memory store and a fake clock
func NewTestHelpers(t *testing.T) *TestHelpers {
	t.Helper()
	fc := clock.Fake(testNow)
	repo := repository.NewMemoryTaskRepository()
	svc := NewTaskService(repo, Options{
		Clock:      fc,
		Location:   time.UTC,
		Validation: DefaultValidationConfig(),
		Logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	return &TestHelpers{t: t, Clock: fc, Repo: repo, Service: svc}
}

// Today is the current calendar day of the fake clock shifted by offset days.
func (h *TestHelpers) Today(offset int) civil.Date {
	return civil.DateOf(h.Clock.Now()).AddDays(offset)
}

// CreateTask creates a task with only a title
func (h *TestHelpers) CreateTask(title string) models.TaskView {
	h.t.Helper()
	v, err := h.Service.CreateTask(context.Background(), CreateTaskInput{Title: title})
	require.NoError(h.t, err)
	return v
}

// CreateTaskWith creates a task with explicit priority and deadline
func (h *TestHelpers) CreateTaskWith(title string, priority *models.Priority, deadline *civil.Date) models.TaskView {
	h.t.Helper()
	v, err := h.Service.CreateTask(context.Background(), CreateTaskInput{
		Title:    title,
		Priority: priority,
		Deadline: deadline,
	})
	require.NoError(h.t, err)
	return v
}

// Complete marks a task COMPLETED
func (h *TestHelpers) Complete(id string) models.TaskView {
	h.t.Helper()
	completed := models.RawStatusCompleted
	v, err := h.Service.UpdateTask(context.Background(), id, UpdateTaskInput{Status: &completed})
	require.NoError(h.t, err)
	return v
}

// AssertView re-reads a task and checks its derived fields
func (h *TestHelpers) AssertView(id string, status models.Status, urgency models.Urgency) {
	h.t.Helper()
	v, err := h.Service.GetTask(context.Background(), id)
	require.NoError(h.t, err)
	require.Equal(h.t, status, v.Status, "status")
	require.Equal(h.t, urgency, v.Urgency, "urgency")
}

// Titles lists task titles in the order returned for the given sort
func (h *TestHelpers) Titles(sortBy, direction string) []string {
	h.t.Helper()
	key, err := engine.ParseSortKey(sortBy)
	require.NoError(h.t, err)
	dir, err := engine.ParseDirection(direction)
	require.NoError(h.t, err)
	views, err := h.Service.ListTasks(context.Background(), ListTasksInput{SortBy: key, Direction: dir})
	require.NoError(h.t, err)
	titles := make([]string, len(views))
	for i, v := range views {
		titles[i] = v.Title
	}
	return titles
}
