package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// TaskStore defines persistence operations for tasks.
type TaskStore interface {
	Create(ctx context.Context, task Task) (Task, error)
	GetByID(ctx context.Context, id uuid.UUID) (Task, error)
	List(ctx context.Context) ([]Task, error)
}

// Task represents a unit of work posted by an employer. Tasks are immutable
// once created.
type Task struct {
	ID          uuid.UUID
	OwnerID     uuid.UUID
	Description string
	Timeframe   string
	Reward      string
	Categories  []string
	CreatedAt   time.Time
}
