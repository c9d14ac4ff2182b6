package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"priority-tasks.com/priority-tasks/internal/constants"
	model "priority-tasks.com/priority-tasks/internal/models"
)

// TaskRecord is the row layout of the tasks table. Seq preserves insertion
// order independently of clock resolution.
type TaskRecord struct {
	Seq       uint               `gorm:"primaryKey;autoIncrement"`
	ID        string             `gorm:"uniqueIndex;size:36;not null"`
	ViewID    string             `gorm:"index;size:36;not null"`
	Text      string             `gorm:"not null"`
	Completed bool               `gorm:"not null;default:false"`
	Priority  constants.Priority `gorm:"type:varchar(10);not null"`
	CreatedAt time.Time
}

func (TaskRecord) TableName() string {
	return "tasks"
}

func (r TaskRecord) toModel() model.Task {
	return model.Task{
		ID:        r.ID,
		Text:      r.Text,
		Completed: r.Completed,
		Priority:  r.Priority,
		CreatedAt: r.CreatedAt,
	}
}

// GormTaskRepository stores the tasks of one view in a shared database,
// partitioned by view id.
type GormTaskRepository struct {
	db     *gorm.DB
	viewID string
}

func NewGormTaskRepository(db *gorm.DB, viewID string) *GormTaskRepository {
	return &GormTaskRepository{db: db, viewID: viewID}
}

func GormFactory(db *gorm.DB) Factory {
	return func(viewID string) TaskRepository {
		return NewGormTaskRepository(db, viewID)
	}
}

func (r *GormTaskRepository) Append(ctx context.Context, task model.Task) error {
	record := &TaskRecord{
		ID:        task.ID,
		ViewID:    r.viewID,
		Text:      task.Text,
		Completed: task.Completed,
		Priority:  task.Priority,
		CreatedAt: task.CreatedAt,
	}

	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		return fmt.Errorf("insert task %s: %w", task.ID, err)
	}
	return nil
}

func (r *GormTaskRepository) Toggle(ctx context.Context, id string) (*model.Task, error) {
	var task model.Task

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&TaskRecord{}).
			Where("id = ? AND view_id = ?", id, r.viewID).
			Update("completed", gorm.Expr("NOT completed"))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrTaskNotFound
		}

		var record TaskRecord
		if err := tx.First(&record, "id = ? AND view_id = ?", id, r.viewID).Error; err != nil {
			return err
		}
		task = record.toModel()
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &task, nil
}

func (r *GormTaskRepository) List(ctx context.Context) ([]model.Task, error) {
	var records []TaskRecord
	err := r.db.WithContext(ctx).
		Where("view_id = ?", r.viewID).
		Order("seq asc").
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}

	tasks := make([]model.Task, 0, len(records))
	for _, record := range records {
		tasks = append(tasks, record.toModel())
	}
	return tasks, nil
}

func (r *GormTaskRepository) Count(ctx context.Context) (int, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&TaskRecord{}).
		Where("view_id = ?", r.viewID).
		Count(&n).Error
	if err != nil {
		return 0, fmt.Errorf("count tasks: %w", err)
	}
	return int(n), nil
}

func (r *GormTaskRepository) Drop(ctx context.Context) error {
	err := r.db.WithContext(ctx).
		Where("view_id = ?", r.viewID).
		Delete(&TaskRecord{}).Error
	if err != nil {
		return fmt.Errorf("drop view %s: %w", r.viewID, err)
	}
	return nil
}
