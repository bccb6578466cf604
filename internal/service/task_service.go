// internal/service/task_service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"

	"github.com/gurkanbulca/taskdeck/internal/engine"
	"github.com/gurkanbulca/taskdeck/internal/models"
	"github.com/gurkanbulca/taskdeck/internal/repository"
	"github.com/gurkanbulca/taskdeck/pkg/clock"
)

// Options configures a TaskService. Zero values get defaults.
type Options struct {
	Clock      clock.Clock
	Location   *time.Location
	Validation ValidationConfig
	Logger     *slog.Logger
}

// TaskService applies the task rules around a record store. Effective
// status and urgency are recomputed on every read, never stored.
type TaskService struct {
	repo       repository.TaskRepository
	clock      clock.Clock
	loc        *time.Location
	validation ValidationConfig
	log        *slog.Logger
}

func NewTaskService(repo repository.TaskRepository, opts Options) *TaskService {
	if opts.Clock == nil {
		opts.Clock = clock.Real()
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &TaskService{
		repo:       repo,
		clock:      opts.Clock,
		loc:        opts.Location,
		validation: opts.Validation,
		log:        opts.Logger,
	}
}

// CreateTaskInput carries a new task. Nil Status means ACTIVE; nil
// Priority or Deadline may be filled from title macros.
type CreateTaskInput struct {
	Title       string
	Description string
	Status      *models.RawStatus
	Priority    *models.Priority
	Deadline    *civil.Date
}

// UpdateTaskInput carries an edit. Nil pointers and unset patches leave the
// field untouched. Title macros are not evaluated on edit.
type UpdateTaskInput struct {
	Title       *string
	Description *string
	Status      *models.RawStatus
	Priority    models.Patch[models.Priority]
	Deadline    models.Patch[civil.Date]
}

// ListTasksInput selects the list order.
type ListTasksInput struct {
	SortBy    engine.SortKey
	Direction engine.Direction
}

// now is the instant used for derivations, in the configured zone.
func (s *TaskService) now() time.Time {
	return s.clock.Now().In(s.loc)
}

// stamp is the form timestamps are persisted in.
func (s *TaskService) stamp() time.Time {
	return s.clock.Now().UTC().Truncate(time.Microsecond)
}

// CreateTask creates a new task
func (s *TaskService) CreateTask(ctx context.Context, in CreateTaskInput) (models.TaskView, error) {
	if err := s.validation.validateTitle(in.Title); err != nil {
		return models.TaskView{}, err
	}
	if err := s.validation.validateDescription(in.Description); err != nil {
		return models.TaskView{}, err
	}
	status := models.RawStatusActive
	if in.Status != nil {
		status = *in.Status
	}
	if err := validateStatus(status); err != nil {
		return models.TaskView{}, err
	}
	if err := validatePriority(in.Priority); err != nil {
		return models.TaskView{}, err
	}

	priority, deadline := engine.ApplyMacros(in.Title, in.Priority, in.Deadline)

	id, err := uuid.NewV7()
	if err != nil {
		return models.TaskView{}, fmt.Errorf("generate task id: %w", err)
	}
	stamp := s.stamp()
	task := &models.Task{
		ID:          id.String(),
		Title:       in.Title,
		Description: in.Description,
		RawStatus:   status,
		Priority:    priority,
		Deadline:    deadline,
		CreatedAt:   stamp,
		UpdatedAt:   stamp,
	}

	if err := s.repo.Create(ctx, task); err != nil {
		return models.TaskView{}, fmt.Errorf("failed to create task: %w", err)
	}

	s.log.Info("task created", "id", task.ID)
	return engine.View(task, s.now()), nil
}

// GetTask retrieves a task by ID
func (s *TaskService) GetTask(ctx context.Context, id string) (models.TaskView, error) {
	task, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return models.TaskView{}, s.translate("get", id, err)
	}
	return engine.View(task, s.now()), nil
}

// ListTasks returns every task as a view, ordered as requested. Equal keys
// keep creation order.
func (s *TaskService) ListTasks(ctx context.Context, in ListTasksInput) ([]models.TaskView, error) {
	tasks, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	now := s.now()
	views := make([]models.TaskView, len(tasks))
	for i, t := range tasks {
		views[i] = engine.View(t, now)
	}

	dir := in.Direction
	if dir == "" {
		dir = engine.Ascending
	}
	engine.Sort(views, in.SortBy, dir)
	return views, nil
}

// UpdateTask applies the explicit fields of in to the task.
func (s *TaskService) UpdateTask(ctx context.Context, id string, in UpdateTaskInput) (models.TaskView, error) {
	if in.Title != nil {
		if err := s.validation.validateTitle(*in.Title); err != nil {
			return models.TaskView{}, err
		}
	}
	if in.Description != nil {
		if err := s.validation.validateDescription(*in.Description); err != nil {
			return models.TaskView{}, err
		}
	}
	if in.Status != nil {
		if err := validateStatus(*in.Status); err != nil {
			return models.TaskView{}, err
		}
	}
	if err := validatePriority(in.Priority.Value); err != nil {
		return models.TaskView{}, err
	}

	stamp := s.stamp()
	task, err := s.repo.Update(ctx, id, func(t *models.Task) error {
		if in.Title != nil {
			t.Title = *in.Title
		}
		if in.Description != nil {
			t.Description = *in.Description
		}
		if in.Status != nil {
			t.RawStatus = *in.Status
		}
		in.Priority.Apply(&t.Priority)
		in.Deadline.Apply(&t.Deadline)
		t.UpdatedAt = stamp
		return nil
	})
	if err != nil {
		return models.TaskView{}, s.translate("update", id, err)
	}

	s.log.Info("task updated", "id", id)
	return engine.View(task, s.now()), nil
}

// DeleteTask deletes a task permanently
func (s *TaskService) DeleteTask(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return s.translate("delete", id, err)
	}
	s.log.Info("task deleted", "id", id)
	return nil
}

// Ping reports whether the record store is reachable.
func (s *TaskService) Ping(ctx context.Context) error {
	return s.repo.Ping(ctx)
}

func (s *TaskService) translate(op, id string, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		s.log.Debug("task not found", "op", op, "id", id)
		return ErrTaskNotFound
	}
	return fmt.Errorf("failed to %s task: %w", op, err)
}
