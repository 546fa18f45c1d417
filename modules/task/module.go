package task

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/example/tasks-api/database"
	"github.com/example/tasks-api/errs"
	"github.com/example/tasks-api/events"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
	"github.com/go-monolith/mono/pkg/types"
	"gorm.io/gorm"
)

// TaskModule provides owner-scoped task services.
type TaskModule struct {
	db       *gorm.DB
	service  *TaskService
	eventBus mono.EventBus
	logger   types.Logger
}

var _ mono.Module = (*TaskModule)(nil)
var _ mono.ServiceProviderModule = (*TaskModule)(nil)
var _ mono.EventEmitterModule = (*TaskModule)(nil)
var _ mono.HealthCheckableModule = (*TaskModule)(nil)

// NewModule creates a new TaskModule backed by db.
func NewModule(db *gorm.DB, defaultLimit int, logger types.Logger) *TaskModule {
	m := &TaskModule{
		db:     db,
		logger: logger,
	}
	if db != nil {
		m.service = NewTaskService(NewTaskRepository(db), defaultLimit)
	}
	return m
}

func (m *TaskModule) Name() string {
	return "task"
}

func (m *TaskModule) SetEventBus(bus mono.EventBus) {
	m.eventBus = bus
}

func (m *TaskModule) EmitEvents() []mono.BaseEventDefinition {
	return []mono.BaseEventDefinition{
		events.TaskCreatedV1.ToBase(),
		events.TaskCompletedV1.ToBase(),
		events.TaskDeletedV1.ToBase(),
	}
}

func (m *TaskModule) RegisterServices(container mono.ServiceContainer) error {
	if err := helper.RegisterTypedRequestReplyService(
		container, "create-task", json.Unmarshal, json.Marshal, m.createTask,
	); err != nil {
		return fmt.Errorf("failed to register create-task service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "list-tasks", json.Unmarshal, json.Marshal, m.listTasks,
	); err != nil {
		return fmt.Errorf("failed to register list-tasks service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "get-task", json.Unmarshal, json.Marshal, m.getTask,
	); err != nil {
		return fmt.Errorf("failed to register get-task service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "update-task", json.Unmarshal, json.Marshal, m.updateTask,
	); err != nil {
		return fmt.Errorf("failed to register update-task service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "delete-task", json.Unmarshal, json.Marshal, m.deleteTask,
	); err != nil {
		return fmt.Errorf("failed to register delete-task service: %w", err)
	}

	m.logger.Info("Registered services", "services", "create-task, list-tasks, get-task, update-task, delete-task")
	return nil
}

func (m *TaskModule) Start(_ context.Context) error {
	if m.service == nil {
		return fmt.Errorf("database not set")
	}
	if m.eventBus == nil {
		m.logger.Warn("eventBus not set, events will not be published")
	}
	m.logger.Info("Module started", "default_limit", m.service.defaultLimit)
	return nil
}

func (m *TaskModule) Stop(_ context.Context) error {
	m.logger.Info("Module stopped")
	return nil
}

// Health returns the health status of the module.
func (m *TaskModule) Health(ctx context.Context) mono.HealthStatus {
	if err := database.Ping(ctx, m.db); err != nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: err.Error(),
		}
	}
	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
	}
}

// createTask handles the create-task service request.
func (m *TaskModule) createTask(ctx context.Context, req CreateTaskRequest, _ *mono.Msg) (TaskResponse, error) {
	task, err := m.service.Create(ctx, req.OwnerID, req.Title, req.Description)
	if err != nil {
		return TaskResponse{}, m.failure("create-task", err)
	}

	m.publish("TaskCreated", task.ID, func(bus mono.EventBus) error {
		return events.TaskCreatedV1.Publish(bus, events.TaskCreatedEvent{
			TaskID:    task.ID,
			OwnerID:   task.OwnerID,
			Title:     task.Title,
			CreatedAt: task.CreatedAt,
		}, nil)
	})

	return toTaskResponse(task), nil
}

// listTasks handles the list-tasks service request.
func (m *TaskModule) listTasks(ctx context.Context, req ListTasksRequest, _ *mono.Msg) (ListTasksResponse, error) {
	tasks, err := m.service.List(ctx, req.OwnerID, req.Filter)
	if err != nil {
		return ListTasksResponse{}, m.failure("list-tasks", err)
	}

	response := ListTasksResponse{
		Tasks: make([]TaskResponse, 0, len(tasks)),
	}
	for i := range tasks {
		response.Tasks = append(response.Tasks, toTaskResponse(&tasks[i]))
	}
	return response, nil
}

// getTask handles the get-task service request.
func (m *TaskModule) getTask(ctx context.Context, req GetTaskRequest, _ *mono.Msg) (TaskResponse, error) {
	task, err := m.service.Get(ctx, req.OwnerID, req.TaskID)
	if err != nil {
		return TaskResponse{}, m.failure("get-task", err)
	}
	return toTaskResponse(task), nil
}

// updateTask handles the update-task service request.
func (m *TaskModule) updateTask(ctx context.Context, req UpdateTaskRequest, _ *mono.Msg) (TaskResponse, error) {
	task, completed, err := m.service.Update(ctx, req.OwnerID, req.TaskID, req.Patch)
	if err != nil {
		return TaskResponse{}, m.failure("update-task", err)
	}

	if completed {
		m.publish("TaskCompleted", task.ID, func(bus mono.EventBus) error {
			return events.TaskCompletedV1.Publish(bus, events.TaskCompletedEvent{
				TaskID:      task.ID,
				OwnerID:     task.OwnerID,
				CompletedAt: *task.CompletedAt,
			}, nil)
		})
	}

	return toTaskResponse(task), nil
}

// deleteTask handles the delete-task service request.
func (m *TaskModule) deleteTask(ctx context.Context, req DeleteTaskRequest, _ *mono.Msg) (DeleteTaskResponse, error) {
	if err := m.service.Delete(ctx, req.OwnerID, req.TaskID); err != nil {
		return DeleteTaskResponse{Deleted: false}, m.failure("delete-task", err)
	}

	m.publish("TaskDeleted", req.TaskID, func(bus mono.EventBus) error {
		return events.TaskDeletedV1.Publish(bus, events.TaskDeletedEvent{
			TaskID:    req.TaskID,
			OwnerID:   req.OwnerID,
			DeletedAt: m.service.now().UTC(),
		}, nil)
	})

	return DeleteTaskResponse{Deleted: true}, nil
}

// publish emits an event when a bus is attached. Publishing is best-effort;
// a failure is logged and never fails the operation.
func (m *TaskModule) publish(event string, taskID uint, send func(mono.EventBus) error) {
	if m.eventBus == nil {
		return
	}
	if err := send(m.eventBus); err != nil {
		m.logger.Warn("Failed to publish event", "event", event, "task_id", taskID, "error", err)
	}
}

func (m *TaskModule) failure(op string, err error) error {
	switch errs.KindOf(err) {
	case errs.KindValidation, errs.KindNotFound:
	default:
		m.logger.Error("Request failed", "service", op, "error", err)
	}
	return err
}
