package task

import (
	"context"
	"strings"
	"time"

	domain "github.com/example/tasks-api/domain/task"
)

// TaskService implements owner-scoped task operations.
type TaskService struct {
	repo         *TaskRepository
	defaultLimit int
	now          func() time.Time
}

// NewTaskService creates a new TaskService. defaultLimit replaces a
// non-positive list limit.
func NewTaskService(repo *TaskRepository, defaultLimit int) *TaskService {
	if defaultLimit < 1 {
		defaultLimit = 10
	}
	return &TaskService{
		repo:         repo,
		defaultLimit: defaultLimit,
		now:          time.Now,
	}
}

// Create adds a pending task for the owner.
func (s *TaskService) Create(ctx context.Context, ownerID uint, title string, description *string) (*domain.Task, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrTitleRequired
	}

	task := &domain.Task{
		Title:       title,
		Description: description,
		Status:      domain.StatusPending,
		CreatedAt:   s.now().UTC(),
		OwnerID:     ownerID,
	}
	if err := s.repo.Create(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

// List returns a page of the owner's tasks.
func (s *TaskService) List(ctx context.Context, ownerID uint, filter domain.Filter) ([]domain.Task, error) {
	if filter.Status != nil && !filter.Status.Valid() {
		return nil, ErrInvalidStatus
	}
	if filter.Skip < 0 {
		filter.Skip = 0
	}
	if filter.Limit < 1 {
		filter.Limit = s.defaultLimit
	}
	return s.repo.List(ctx, ownerID, filter)
}

// Get returns one of the owner's tasks.
func (s *TaskService) Get(ctx context.Context, ownerID, taskID uint) (*domain.Task, error) {
	return s.repo.FindOwned(ctx, ownerID, taskID)
}

// Update applies a partial update. Entering done stamps completed_at once;
// completed reports whether this call did it.
func (s *TaskService) Update(ctx context.Context, ownerID, taskID uint, patch domain.Patch) (task *domain.Task, completed bool, err error) {
	if patch.Empty() {
		task, err = s.repo.FindOwned(ctx, ownerID, taskID)
		return task, false, err
	}
	if patch.Title != nil {
		title := strings.TrimSpace(*patch.Title)
		if title == "" {
			return nil, false, ErrTitleRequired
		}
		patch.Title = &title
	}
	if patch.Status != nil && !patch.Status.Valid() {
		return nil, false, ErrInvalidStatus
	}
	return s.repo.Update(ctx, ownerID, taskID, patch, s.now().UTC())
}

// Delete removes one of the owner's tasks.
func (s *TaskService) Delete(ctx context.Context, ownerID, taskID uint) error {
	return s.repo.Delete(ctx, ownerID, taskID)
}
