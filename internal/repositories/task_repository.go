package repository

import (
	"context"
	"errors"

	model "priority-tasks.com/priority-tasks/internal/models"
)

// TaskRepository holds the canonical, insertion-ordered task sequence of a
// single view. Implementations are not required to be safe for concurrent
// use; callers serialize access per view.
type TaskRepository interface {
	Append(ctx context.Context, task model.Task) error
	// Toggle flips the completion flag of the task with the given id and
	// returns the updated task.
	Toggle(ctx context.Context, id string) (*model.Task, error)
	List(ctx context.Context) ([]model.Task, error)
	Count(ctx context.Context) (int, error)
	// Drop discards every task of the view.
	Drop(ctx context.Context) error
}

// Factory builds the repository backing a newly opened view.
type Factory func(viewID string) TaskRepository

var ErrTaskNotFound = errors.New("task not found")
