package repository

import (
	"context"

	model "priority-tasks.com/priority-tasks/internal/models"
)

type MemoryTaskRepository struct {
	tasks []model.Task
}

func NewMemoryTaskRepository() *MemoryTaskRepository {
	return &MemoryTaskRepository{}
}

func MemoryFactory() Factory {
	return func(string) TaskRepository {
		return NewMemoryTaskRepository()
	}
}

func (r *MemoryTaskRepository) Append(_ context.Context, task model.Task) error {
	r.tasks = append(r.tasks, task)
	return nil
}

func (r *MemoryTaskRepository) Toggle(_ context.Context, id string) (*model.Task, error) {
	for i := range r.tasks {
		if r.tasks[i].ID != id {
			continue
		}
		r.tasks[i].Completed = !r.tasks[i].Completed
		task := r.tasks[i]
		return &task, nil
	}
	return nil, ErrTaskNotFound
}

func (r *MemoryTaskRepository) List(_ context.Context) ([]model.Task, error) {
	out := make([]model.Task, len(r.tasks))
	copy(out, r.tasks)
	return out, nil
}

func (r *MemoryTaskRepository) Count(_ context.Context) (int, error) {
	return len(r.tasks), nil
}

func (r *MemoryTaskRepository) Drop(_ context.Context) error {
	r.tasks = nil
	return nil
}
