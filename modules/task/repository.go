package task

import (
	"context"
	"errors"
	"time"

	domain "github.com/example/tasks-api/domain/task"
	"github.com/example/tasks-api/errs"
	"gorm.io/gorm"
)

// TaskRepository handles task persistence using GORM. Every lookup is scoped
// to the owner, so another user's task reads as missing.
type TaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository.
func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{
		db: db,
	}
}

// Create inserts a new task.
func (r *TaskRepository) Create(ctx context.Context, task *domain.Task) error {
	if err := r.db.WithContext(ctx).Create(task).Error; err != nil {
		return errs.Storage(err)
	}
	return nil
}

// List returns the owner's tasks in insertion order.
func (r *TaskRepository) List(ctx context.Context, ownerID uint, filter domain.Filter) ([]domain.Task, error) {
	query := r.db.WithContext(ctx).Where("owner_id = ?", ownerID)
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}

	tasks := make([]domain.Task, 0)
	result := query.Order("id ASC").Offset(filter.Skip).Limit(filter.Limit).Find(&tasks)
	if result.Error != nil {
		return nil, errs.Storage(result.Error)
	}
	return tasks, nil
}

// FindOwned finds a task by ID for its owner.
func (r *TaskRepository) FindOwned(ctx context.Context, ownerID, taskID uint) (*domain.Task, error) {
	return findOwned(r.db.WithContext(ctx), ownerID, taskID)
}

// Update applies patch to an owned task in one transaction and returns the
// stored row. completed reports whether this update set completed_at.
func (r *TaskRepository) Update(ctx context.Context, ownerID, taskID uint, patch domain.Patch, now time.Time) (task *domain.Task, completed bool, err error) {
	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		current, err := findOwned(tx, ownerID, taskID)
		if err != nil {
			return err
		}

		updates := map[string]any{}
		if patch.Title != nil {
			updates["title"] = *patch.Title
		}
		if patch.Description.Set {
			if patch.Description.Value == nil {
				updates["description"] = nil
			} else {
				updates["description"] = *patch.Description.Value
			}
		}

		status := current.Status
		if patch.Status != nil {
			status = *patch.Status
			updates["status"] = status
		}
		if status == domain.StatusDone {
			// Set once. A concurrent done update cannot overwrite the first value.
			updates["completed_at"] = gorm.Expr("COALESCE(completed_at, ?)", now)
		}

		if len(updates) > 0 {
			result := tx.Model(&domain.Task{}).
				Where("id = ? AND owner_id = ?", taskID, ownerID).
				Updates(updates)
			if result.Error != nil {
				return errs.Storage(result.Error)
			}
		}

		task, err = findOwned(tx, ownerID, taskID)
		if err != nil {
			return err
		}
		completed = current.CompletedAt == nil && task.CompletedAt != nil
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return task, completed, nil
}

// Delete removes an owned task.
func (r *TaskRepository) Delete(ctx context.Context, ownerID, taskID uint) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", taskID, ownerID).
		Delete(&domain.Task{})
	if result.Error != nil {
		return errs.Storage(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrTaskNotFound
	}
	return nil
}

func findOwned(db *gorm.DB, ownerID, taskID uint) (*domain.Task, error) {
	var task domain.Task
	result := db.Where("id = ? AND owner_id = ?", taskID, ownerID).First(&task)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, errs.Storage(result.Error)
	}
	return &task, nil
}
