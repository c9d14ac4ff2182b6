package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"priority-tasks.com/priority-tasks/internal/constants"
	model "priority-tasks.com/priority-tasks/internal/models"
	repository "priority-tasks.com/priority-tasks/internal/repositories"
)

// TaskStore is the state container of one view: the canonical task sequence
// plus the draft of the entry form. All intents run under a single lock, so
// a view has exactly one writer at a time.
type TaskStore struct {
	mu    sync.Mutex
	repo  repository.TaskRepository
	draft model.Draft
	newID func() string
	now   func() time.Time
}

type StoreOption func(*TaskStore)

func WithIDGenerator(fn func() string) StoreOption {
	return func(s *TaskStore) { s.newID = fn }
}

func WithClock(fn func() time.Time) StoreOption {
	return func(s *TaskStore) { s.now = fn }
}

func NewTaskStore(repo repository.TaskRepository, opts ...StoreOption) *TaskStore {
	s := &TaskStore{
		repo:  repo,
		draft: model.NewDraft(),
		newID: uuid.NewString,
		now:   func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Submit appends a task built from text and priority unless text is blank.
// The text is stored as typed. On success the draft text is cleared; the
// draft priority always keeps the submitted value.
func (s *TaskStore) Submit(ctx context.Context, text string, priority constants.Priority) (*model.Task, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.draft = model.Draft{Text: text, Priority: priority}

	if model.IsBlank(text) {
		return nil, false, nil
	}

	task := model.Task{
		ID:        s.newID(),
		Text:      text,
		Completed: false,
		Priority:  priority,
		CreatedAt: s.now(),
	}

	if err := s.repo.Append(ctx, task); err != nil {
		return nil, false, err
	}

	s.draft.Text = ""
	return &task, true, nil
}

// Toggle flips the completion flag of the task with the given id. Unknown ids
// are ignored.
func (s *TaskStore) Toggle(ctx context.Context, id string) (*model.Task, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	task, err := s.repo.Toggle(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			return nil, false, nil
		}
		return nil, false, err
	}

	return task, true, nil
}

func (s *TaskStore) SetDraftText(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draft.Text = text
}

func (s *TaskStore) SetDraftPriority(priority constants.Priority) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draft.Priority = priority
}

// Count reports how many tasks the view holds.
func (s *TaskStore) Count(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.repo.Count(ctx)
}

func (s *TaskStore) Draft() model.Draft {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draft
}

// Tasks returns the canonical, insertion-ordered sequence.
func (s *TaskStore) Tasks(ctx context.Context) ([]model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.repo.List(ctx)
}

// Sorted returns the priority-sorted projection of the current tasks.
func (s *TaskStore) Sorted(ctx context.Context) ([]model.Task, error) {
	tasks, err := s.Tasks(ctx)
	if err != nil {
		return nil, err
	}
	return model.SortByPriority(tasks), nil
}

func (s *TaskStore) Snapshot(ctx context.Context) (model.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tasks, err := s.repo.List(ctx)
	if err != nil {
		return model.Snapshot{}, err
	}
	return model.Snapshot{Tasks: tasks, Draft: s.draft}, nil
}

func (s *TaskStore) close(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.repo.Drop(ctx)
}
