package task

import (
	"context"
	"encoding/json"
	"fmt"

	domain "github.com/example/tasks-api/domain/task"
	"github.com/example/tasks-api/errs"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// TaskPort defines the task operations other modules may call.
type TaskPort interface {
	CreateTask(ctx context.Context, ownerID uint, title string, description *string) (*TaskResponse, error)
	ListTasks(ctx context.Context, ownerID uint, filter domain.Filter) ([]TaskResponse, error)
	GetTask(ctx context.Context, ownerID, taskID uint) (*TaskResponse, error)
	UpdateTask(ctx context.Context, ownerID, taskID uint, patch domain.Patch) (*TaskResponse, error)
	DeleteTask(ctx context.Context, ownerID, taskID uint) error
}

// taskAdapter wraps ServiceContainer for type-safe cross-module communication.
type taskAdapter struct {
	container mono.ServiceContainer
}

// NewTaskAdapter creates a new adapter for task services.
// container is the ServiceContainer from the task module received via SetDependencyServiceContainer.
func NewTaskAdapter(container mono.ServiceContainer) TaskPort {
	if container == nil {
		panic("task adapter requires non-nil ServiceContainer")
	}
	return &taskAdapter{container: container}
}

// CreateTask creates a task via the create-task service.
func (a *taskAdapter) CreateTask(ctx context.Context, ownerID uint, title string, description *string) (*TaskResponse, error) {
	req := CreateTaskRequest{OwnerID: ownerID, Title: title, Description: description}
	var resp TaskResponse
	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		"create-task",
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		return nil, remoteError("create-task", err)
	}
	return &resp, nil
}

// ListTasks lists the owner's tasks via the list-tasks service.
func (a *taskAdapter) ListTasks(ctx context.Context, ownerID uint, filter domain.Filter) ([]TaskResponse, error) {
	req := ListTasksRequest{OwnerID: ownerID, Filter: filter}
	var resp ListTasksResponse
	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		"list-tasks",
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		return nil, remoteError("list-tasks", err)
	}
	if resp.Tasks == nil {
		resp.Tasks = []TaskResponse{}
	}
	return resp.Tasks, nil
}

// GetTask retrieves a task via the get-task service.
func (a *taskAdapter) GetTask(ctx context.Context, ownerID, taskID uint) (*TaskResponse, error) {
	req := GetTaskRequest{OwnerID: ownerID, TaskID: taskID}
	var resp TaskResponse
	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		"get-task",
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		return nil, remoteError("get-task", err)
	}
	return &resp, nil
}

// UpdateTask applies a partial update via the update-task service.
func (a *taskAdapter) UpdateTask(ctx context.Context, ownerID, taskID uint, patch domain.Patch) (*TaskResponse, error) {
	req := UpdateTaskRequest{OwnerID: ownerID, TaskID: taskID, Patch: patch}
	var resp TaskResponse
	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		"update-task",
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		return nil, remoteError("update-task", err)
	}
	return &resp, nil
}

// DeleteTask removes a task via the delete-task service.
func (a *taskAdapter) DeleteTask(ctx context.Context, ownerID, taskID uint) error {
	req := DeleteTaskRequest{OwnerID: ownerID, TaskID: taskID}
	var resp DeleteTaskResponse
	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		"delete-task",
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		return remoteError("delete-task", err)
	}
	if !resp.Deleted {
		return ErrTaskNotFound
	}
	return nil
}

func remoteError(service string, err error) error {
	return errs.FromRemote(fmt.Errorf("%s service call failed: %w", service, err))
}
