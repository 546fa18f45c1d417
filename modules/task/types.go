package task

import (
	"time"

	domain "github.com/example/tasks-api/domain/task"
)

// CreateTaskRequest is the request for creating a task.
type CreateTaskRequest struct {
	OwnerID     uint    `json:"owner_id"`
	Title       string  `json:"title"`
	Description *string `json:"description,omitempty"`
}

// ListTasksRequest is the request for listing tasks.
type ListTasksRequest struct {
	OwnerID uint          `json:"owner_id"`
	Filter  domain.Filter `json:"filter"`
}

// ListTasksResponse is the response for listing tasks.
type ListTasksResponse struct {
	Tasks []TaskResponse `json:"tasks"`
}

// GetTaskRequest is the request for getting a task.
type GetTaskRequest struct {
	OwnerID uint `json:"owner_id"`
	TaskID  uint `json:"task_id"`
}

// UpdateTaskRequest is the request for updating a task.
type UpdateTaskRequest struct {
	OwnerID uint         `json:"owner_id"`
	TaskID  uint         `json:"task_id"`
	Patch   domain.Patch `json:"patch"`
}

// DeleteTaskRequest is the request for deleting a task.
type DeleteTaskRequest struct {
	OwnerID uint `json:"owner_id"`
	TaskID  uint `json:"task_id"`
}

// DeleteTaskResponse is the response for deleting a task.
type DeleteTaskResponse struct {
	Deleted bool `json:"deleted"`
}

// TaskResponse is the transport view of a task.
type TaskResponse struct {
	ID          uint       `json:"id"`
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at"`
	OwnerID     uint       `json:"owner_id"`
}

func toTaskResponse(task *domain.Task) TaskResponse {
	return TaskResponse{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		Status:      string(task.Status),
		CreatedAt:   task.CreatedAt,
		CompletedAt: task.CompletedAt,
		OwnerID:     task.OwnerID,
	}
}
