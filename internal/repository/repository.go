// internal/repository/repository.go
package repository

import (
	"context"
	"errors"

	"github.com/gurkanbulca/taskdeck/internal/models"
)

// ErrNotFound is returned when no record has the requested id.
var ErrNotFound = errors.New("task record not found")

// TaskRepository is the record store the task service runs on. List returns
// records in creation order. Update runs mutate against the current record
// and persists the result; mutations of the same id never interleave.
type TaskRepository interface {
	Create(ctx context.Context, t *models.Task) error
	GetByID(ctx context.Context, id string) (*models.Task, error)
	List(ctx context.Context) ([]*models.Task, error)
	Update(ctx context.Context, id string, mutate func(*models.Task) error) (*models.Task, error)
	Delete(ctx context.Context, id string) error
	Ping(ctx context.Context) error
}
