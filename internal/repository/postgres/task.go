package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/innovedge/matchbot/internal/model"
)

var _ model.TaskStore = (*TaskRepository)(nil)

type TaskRepository struct {
	db *Connection
}

func NewTaskRepository(db *Connection) *TaskRepository {
	return &TaskRepository{
		db: db,
	}
}

const taskColumns = `id, owner_id, description, timeframe, reward, categories, created_at`

func (r *TaskRepository) Create(ctx context.Context, task model.Task) (model.Task, error) {
	query := `INSERT INTO tasks (id, owner_id, description, timeframe, reward, categories)
			  VALUES ($1, $2, $3, $4, $5, $6)
			  RETURNING ` + taskColumns

	var saved model.Task
	err := r.db.QueryRow(ctx, query,
		task.ID, task.OwnerID, task.Description, task.Timeframe, task.Reward, task.Categories,
	).Scan(
		&saved.ID, &saved.OwnerID, &saved.Description, &saved.Timeframe,
		&saved.Reward, &saved.Categories, &saved.CreatedAt,
	)
	if err != nil {
		return model.Task{}, fmt.Errorf("failed to create task: %w", err)
	}

	return saved, nil
}

func (r *TaskRepository) GetByID(ctx context.Context, id uuid.UUID) (model.Task, error) {
	var task model.Task
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1`

	err := r.db.QueryRow(ctx, query, id).Scan(
		&task.ID, &task.OwnerID, &task.Description, &task.Timeframe,
		&task.Reward, &task.Categories, &task.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Task{}, model.ErrNotFound
		}
		return model.Task{}, fmt.Errorf("failed to get task by id: %w", err)
	}

	return task, nil
}

func (r *TaskRepository) List(ctx context.Context) ([]model.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks ORDER BY created_at`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []model.Task
	for rows.Next() {
		var task model.Task
		if err := rows.Scan(
			&task.ID, &task.OwnerID, &task.Description, &task.Timeframe,
			&task.Reward, &task.Categories, &task.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate tasks: %w", err)
	}

	return tasks, nil
}
