// internal/repository/sql_task_repository.go
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/civil"
	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"github.com/jmoiron/sqlx"

	"github.com/gurkanbulca/taskdeck/internal/models"
)

const tasksTable = "tasks"

const (
	colID          = "id"
	colTitle       = "title"
	colDescription = "description"
	colStatus      = "status"
	colPriority    = "priority"
	colDeadline    = "deadline"
	colCreatedAt   = "created_at"
	colUpdatedAt   = "updated_at"
)

var taskColumns = []string{
	colID, colTitle, colDescription, colStatus,
	colPriority, colDeadline, colCreatedAt, colUpdatedAt,
}

// taskRow mirrors the tasks table
type taskRow struct {
	ID          string         `db:"id"`
	Title       string         `db:"title"`
	Description string         `db:"description"`
	Status      string         `db:"status"`
	Priority    sql.NullString `db:"priority"`
	Deadline    sql.NullTime   `db:"deadline"`
	CreatedAt   time.Time      `db:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at"`
}

func (r taskRow) toModel() *models.Task {
	t := &models.Task{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description,
		RawStatus:   models.RawStatus(r.Status),
		CreatedAt:   r.CreatedAt.UTC(),
		UpdatedAt:   r.UpdatedAt.UTC(),
	}
	if r.Priority.Valid {
		p := models.Priority(r.Priority.String)
		t.Priority = &p
	}
	if r.Deadline.Valid {
		d := civil.DateOf(r.Deadline.Time)
		t.Deadline = &d
	}
	return t
}

// SQLTaskRepository stores tasks in Postgres or SQLite. Statements are
// built with ent's dialect-aware builder and run through sqlx.
type SQLTaskRepository struct {
	db      *sqlx.DB
	dialect string
}

func NewSQLTaskRepository(db *sqlx.DB) *SQLTaskRepository {
	return &SQLTaskRepository{
		db:      db,
		dialect: db.DriverName(),
	}
}

func (r *SQLTaskRepository) builder() *entsql.DialectBuilder {
	return entsql.Dialect(r.dialect)
}

func (r *SQLTaskRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *SQLTaskRepository) Create(ctx context.Context, t *models.Task) error {
	query, args := r.builder().
		Insert(tasksTable).
		Columns(taskColumns...).
		Values(
			t.ID,
			t.Title,
			t.Description,
			string(t.RawStatus),
			priorityValue(t.Priority),
			deadlineValue(t.Deadline),
			t.CreatedAt,
			t.UpdatedAt,
		).
		Query()

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert task: %w", err)
	}
	return nil
}

func (r *SQLTaskRepository) GetByID(ctx context.Context, id string) (*models.Task, error) {
	query, args := r.selectTasks().Where(entsql.EQ(colID, id)).Query()

	var row taskRow
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get task: %w", err)
	}
	return row.toModel(), nil
}

func (r *SQLTaskRepository) List(ctx context.Context) ([]*models.Task, error) {
	query, args := r.selectTasks().
		OrderBy(entsql.Asc(colCreatedAt), entsql.Asc(colID)).
		Query()

	var rows []taskRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}

	tasks := make([]*models.Task, len(rows))
	for i, row := range rows {
		tasks[i] = row.toModel()
	}
	return tasks, nil
}

// Update locks the row (FOR UPDATE on Postgres; SQLite serializes writers
// on its own) so concurrent edits of one task cannot lose each other.
func (r *SQLTaskRepository) Update(ctx context.Context, id string, mutate func(*models.Task) error) (*models.Task, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("starting transaction: %w", err)
	}

	sel := r.selectTasks().Where(entsql.EQ(colID, id))
	if r.dialect == dialect.Postgres {
		sel = sel.ForUpdate()
	}
	query, args := sel.Query()

	var row taskRow
	if err := tx.GetContext(ctx, &row, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, rollback(tx, ErrNotFound)
		}
		return nil, rollback(tx, fmt.Errorf("load task %s: %w", id, err))
	}

	task := row.toModel()
	if err := mutate(task); err != nil {
		return nil, rollback(tx, err)
	}

	query, args = r.builder().
		Update(tasksTable).
		Set(colTitle, task.Title).
		Set(colDescription, task.Description).
		Set(colStatus, string(task.RawStatus)).
		Set(colPriority, priorityValue(task.Priority)).
		Set(colDeadline, deadlineValue(task.Deadline)).
		Set(colUpdatedAt, task.UpdatedAt).
		Where(entsql.EQ(colID, id)).
		Query()

	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return nil, rollback(tx, fmt.Errorf("update task %s: %w", id, err))
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit task %s: %w", id, err)
	}
	return task, nil
}

func (r *SQLTaskRepository) Delete(ctx context.Context, id string) error {
	query, args := r.builder().
		Delete(tasksTable).
		Where(entsql.EQ(colID, id)).
		Query()

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *SQLTaskRepository) selectTasks() *entsql.Selector {
	return r.builder().
		Select(taskColumns...).
		From(entsql.Table(tasksTable))
}

// Helper function for transaction rollback
func rollback(tx *sqlx.Tx, err error) error {
	if rerr := tx.Rollback(); rerr != nil {
		err = fmt.Errorf("%w: %v", err, rerr)
	}
	return err
}

func priorityValue(p *models.Priority) any {
	if p == nil {
		return nil
	}
	return string(*p)
}

func deadlineValue(d *civil.Date) any {
	if d == nil {
		return nil
	}
	return d.String()
}
