package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"priority-tasks.com/priority-tasks/internal/constants"
	model "priority-tasks.com/priority-tasks/internal/models"
	repository "priority-tasks.com/priority-tasks/internal/repositories"
)

// failingRepository rejects every write.
type failingRepository struct {
	repository.MemoryTaskRepository
	err error
}

func (f *failingRepository) Append(context.Context, model.Task) error {
	return f.err
}

func (f *failingRepository) Toggle(context.Context, string) (*model.Task, error) {
	return nil, f.err
}

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("task-%d", n)
	}
}

func newTestStore() *TaskStore {
	fixed := time.Date(2026, 10, 19, 14, 5, 0, 0, time.UTC)
	return NewTaskStore(
		repository.NewMemoryTaskRepository(),
		WithIDGenerator(sequentialIDs()),
		WithClock(func() time.Time { return fixed }),
	)
}

func TestTaskStore_SubmitAppendsTask(t *testing.T) {
	ctx := context.Background()
	store := newTestStore()

	task, added, err := store.Submit(ctx, "Buy milk", constants.PriorityHigh)
	require.NoError(t, err)
	require.True(t, added)
	assert.Equal(t, "task-1", task.ID)
	assert.Equal(t, "Buy milk", task.Text)
	assert.False(t, task.Completed)
	assert.Equal(t, constants.PriorityHigh, task.Priority)
	assert.Equal(t, time.Date(2026, 10, 19, 14, 5, 0, 0, time.UTC), task.CreatedAt)

	tasks, err := store.Tasks(ctx)
	require.NoError(t, err)
	assert.Len(t, tasks, 1)
}

func TestTaskStore_SubmitClearsDraftTextKeepsPriority(t *testing.T) {
	ctx := context.Background()
	store := newTestStore()

	_, _, err := store.Submit(ctx, "Clean", constants.PriorityLow)
	require.NoError(t, err)

	assert.Equal(t, model.Draft{Text: "", Priority: constants.PriorityLow}, store.Draft())
}

func TestTaskStore_SubmitStoresUntrimmedText(t *testing.T) {
	ctx := context.Background()
	store := newTestStore()

	task, added, err := store.Submit(ctx, "  padded  ", constants.PriorityMedium)
	require.NoError(t, err)
	require.True(t, added)
	assert.Equal(t, "  padded  ", task.Text)
}

func TestTaskStore_SubmitBlankIsNoop(t *testing.T) {
	ctx := context.Background()
	store := newTestStore()

	for _, text := range []string{"", " ", "\t\n  "} {
		task, added, err := store.Submit(ctx, text, constants.PriorityHigh)
		require.NoError(t, err)
		assert.False(t, added)
		assert.Nil(t, task)
	}

	tasks, err := store.Tasks(ctx)
	require.NoError(t, err)
	assert.Empty(t, tasks)
	assert.Equal(t, "\t\n  ", store.Draft().Text)
}

func TestTaskStore_SubmitPropagatesRepositoryError(t *testing.T) {
	boom := errors.New("boom")
	store := NewTaskStore(&failingRepository{err: boom})

	_, added, err := store.Submit(context.Background(), "x", constants.PriorityLow)
	assert.ErrorIs(t, err, boom)
	assert.False(t, added)
	assert.Equal(t, "x", store.Draft().Text)
}

func TestTaskStore_ToggleTwiceRestores(t *testing.T) {
	ctx := context.Background()
	store := newTestStore()
	task, _, _ := store.Submit(ctx, "Buy milk", constants.PriorityHigh)
	other, _, _ := store.Submit(ctx, "Clean", constants.PriorityLow)

	toggled, found, err := store.Toggle(ctx, task.ID)
	require.NoError(t, err)
	require.True(t, found)
	assert.True(t, toggled.Completed)

	toggled, found, err = store.Toggle(ctx, task.ID)
	require.NoError(t, err)
	require.True(t, found)
	assert.False(t, toggled.Completed)

	tasks, _ := store.Tasks(ctx)
	assert.Equal(t, other.ID, tasks[1].ID)
	assert.False(t, tasks[1].Completed)
}

func TestTaskStore_ToggleUnknownIsNoop(t *testing.T) {
	ctx := context.Background()
	store := newTestStore()
	_, _, _ = store.Submit(ctx, "Buy milk", constants.PriorityHigh)

	task, found, err := store.Toggle(ctx, "nope")
	require.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, task)

	tasks, _ := store.Tasks(ctx)
	assert.False(t, tasks[0].Completed)
}

func TestTaskStore_ToggleSurfacesOtherErrors(t *testing.T) {
	boom := errors.New("boom")
	store := NewTaskStore(&failingRepository{err: boom})

	_, found, err := store.Toggle(context.Background(), "x")
	assert.ErrorIs(t, err, boom)
	assert.False(t, found)
}

func TestTaskStore_SortedProjection(t *testing.T) {
	ctx := context.Background()
	store := newTestStore()
	_, _, _ = store.Submit(ctx, "A", constants.PriorityLow)
	_, _, _ = store.Submit(ctx, "B", constants.PriorityHigh)
	_, _, _ = store.Submit(ctx, "C", constants.PriorityHigh)

	sorted, err := store.Sorted(ctx)
	require.NoError(t, err)
	require.Len(t, sorted, 3)
	assert.Equal(t, []string{"B", "C", "A"}, []string{sorted[0].Text, sorted[1].Text, sorted[2].Text})

	canonical, _ := store.Tasks(ctx)
	assert.Equal(t, []string{"A", "B", "C"}, []string{canonical[0].Text, canonical[1].Text, canonical[2].Text})
}

func TestTaskStore_Scenario(t *testing.T) {
	ctx := context.Background()
	store := newTestStore()

	milk, _, _ := store.Submit(ctx, "Buy milk", constants.PriorityHigh)
	_, _, _ = store.Submit(ctx, "Clean", constants.PriorityLow)
	_, _, err := store.Toggle(ctx, milk.ID)
	require.NoError(t, err)

	snap, err := store.Snapshot(ctx)
	require.NoError(t, err)
	require.Len(t, snap.Tasks, 2)
	assert.Equal(t, "Buy milk", snap.Tasks[0].Text)
	assert.True(t, snap.Tasks[0].Completed)
	assert.Equal(t, constants.PriorityHigh, snap.Tasks[0].Priority)
	assert.Equal(t, "Clean", snap.Tasks[1].Text)
	assert.False(t, snap.Tasks[1].Completed)
	assert.Equal(t, constants.PriorityLow, snap.Tasks[1].Priority)

	sorted, _ := store.Sorted(ctx)
	assert.Equal(t, snap.Tasks, sorted)
}

func TestTaskStore_DraftEditing(t *testing.T) {
	store := newTestStore()
	assert.Equal(t, constants.PriorityMedium, store.Draft().Priority)

	store.SetDraftText("half typed")
	store.SetDraftPriority(constants.PriorityHigh)

	assert.Equal(t, model.Draft{Text: "half typed", Priority: constants.PriorityHigh}, store.Draft())
}

func TestTaskStore_Count(t *testing.T) {
	ctx := context.Background()
	store := newTestStore()

	_, _, _ = store.Submit(ctx, "one", constants.PriorityLow)
	_, _, _ = store.Submit(ctx, "", constants.PriorityLow)
	_, _, _ = store.Submit(ctx, "two", constants.PriorityHigh)

	n, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}
