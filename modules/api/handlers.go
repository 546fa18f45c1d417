package api

import (
	"context"
	"time"

	domain "github.com/example/tasks-api/domain/task"
	"github.com/example/tasks-api/modules/auth"
	"github.com/example/tasks-api/modules/task"
	"github.com/go-monolith/mono"
	"github.com/gofiber/fiber/v2"
)

// HealthChecker is implemented by modules that report their health.
type HealthChecker interface {
	Health(ctx context.Context) mono.HealthStatus
}

// Pagination holds the list defaults.
type Pagination struct {
	DefaultPage int
	DefaultSize int
}

// Handlers contains HTTP handlers for the API.
type Handlers struct {
	authPort   auth.AuthPort
	taskPort   task.TaskPort
	validator  *Validator
	pagination Pagination
	checks     map[string]HealthChecker
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(authPort auth.AuthPort, taskPort task.TaskPort, pagination Pagination, checks map[string]HealthChecker) *Handlers {
	if pagination.DefaultPage < 1 {
		pagination.DefaultPage = 1
	}
	if pagination.DefaultSize < 1 {
		pagination.DefaultSize = 10
	}
	return &Handlers{
		authPort:   authPort,
		taskPort:   taskPort,
		validator:  NewValidator(),
		pagination: pagination,
		checks:     checks,
	}
}

// Root handles GET /.
func (h *Handlers) Root(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"service": "tasks-api",
	})
}

// Health handles GET /health.
func (h *Handlers) Health(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
	defer cancel()

	resp := HealthResponse{
		Status:  "healthy",
		Modules: make(map[string]ModuleHealth, len(h.checks)),
	}
	for name, check := range h.checks {
		status := check.Health(ctx)
		resp.Modules[name] = ModuleHealth{Healthy: status.Healthy, Message: status.Message}
		if !status.Healthy {
			resp.Status = "unhealthy"
		}
	}

	if resp.Status != "healthy" {
		return c.Status(fiber.StatusServiceUnavailable).JSON(resp)
	}
	return c.JSON(resp)
}

// Register handles POST /auth/register.
func (h *Handlers) Register(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := h.parseBody(c, &req); err != nil {
		return err
	}

	user, err := h.authPort.Register(c.UserContext(), req.Name, req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(UserResponse{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
	})
}

// Login handles POST /auth/login.
func (h *Handlers) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := h.parseBody(c, &req); err != nil {
		return err
	}

	token, err := h.authPort.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(TokenResponse{
		AccessToken: token.AccessToken,
		TokenType:   token.TokenType,
		ExpiresIn:   token.ExpiresIn,
	})
}

// Me handles GET /auth/me.
func (h *Handlers) Me(c *fiber.Ctx) error {
	current, err := currentUser(c)
	if err != nil {
		return err
	}

	user, err := h.authPort.GetUser(c.UserContext(), current.ID)
	if err != nil {
		return err
	}

	return c.JSON(UserResponse{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
	})
}

// CreateTask handles POST /tasks.
func (h *Handlers) CreateTask(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	var req CreateTaskRequest
	if err := h.parseBody(c, &req); err != nil {
		return err
	}

	created, err := h.taskPort.CreateTask(c.UserContext(), user.ID, req.Title, req.Description)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(toTaskResponse(created))
}

// ListTasks handles GET /tasks.
func (h *Handlers) ListTasks(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	var query ListTasksQuery
	if err := c.QueryParser(&query); err != nil {
		return invalidRequest("Invalid query parameters", nil)
	}
	if fields := h.validator.Struct(&query); fields != nil {
		return invalidRequest("Invalid query parameters", fields)
	}

	tasks, err := h.taskPort.ListTasks(c.UserContext(), user.ID, h.filterFrom(query))
	if err != nil {
		return err
	}

	resp := make([]TaskResponse, 0, len(tasks))
	for i := range tasks {
		resp = append(resp, toTaskResponse(&tasks[i]))
	}
	return c.JSON(resp)
}

// GetTask handles GET /tasks/:id.
func (h *Handlers) GetTask(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	taskID, err := taskIDParam(c)
	if err != nil {
		return err
	}

	found, err := h.taskPort.GetTask(c.UserContext(), user.ID, taskID)
	if err != nil {
		return err
	}
	return c.JSON(toTaskResponse(found))
}

// UpdateTask handles PUT /tasks/:id.
func (h *Handlers) UpdateTask(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	taskID, err := taskIDParam(c)
	if err != nil {
		return err
	}

	var req UpdateTaskRequest
	if err := h.parseBody(c, &req); err != nil {
		return err
	}

	patch := domain.Patch{
		Title:       req.Title,
		Description: req.Description,
	}
	if req.Status != nil {
		status, err := domain.ParseStatus(*req.Status)
		if err != nil {
			return invalidRequest(err.Error(), nil)
		}
		patch.Status = &status
	}

	updated, err := h.taskPort.UpdateTask(c.UserContext(), user.ID, taskID, patch)
	if err != nil {
		return err
	}
	return c.JSON(toTaskResponse(updated))
}

// DeleteTask handles DELETE /tasks/:id.
func (h *Handlers) DeleteTask(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	taskID, err := taskIDParam(c)
	if err != nil {
		return err
	}

	if err := h.taskPort.DeleteTask(c.UserContext(), user.ID, taskID); err != nil {
		return err
	}
	return c.JSON(DetailResponse{Detail: "Task deleted"})
}

// filterFrom resolves pagination: an explicit skip wins, then page, then
// the configured default page.
func (h *Handlers) filterFrom(query ListTasksQuery) domain.Filter {
	limit := h.pagination.DefaultSize
	if query.Limit != nil {
		limit = *query.Limit
	}

	page := h.pagination.DefaultPage
	if query.Page != nil {
		page = *query.Page
	}
	skip := (page - 1) * limit
	if query.Skip != nil {
		skip = *query.Skip
	}

	filter := domain.Filter{Skip: skip, Limit: limit}
	if query.Status != nil {
		// Already checked by the task_status rule.
		status, _ := domain.ParseStatus(*query.Status)
		filter.Status = &status
	}
	return filter
}

// parseBody decodes and validates a JSON body.
func (h *Handlers) parseBody(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return invalidRequest("Invalid request body", nil)
	}
	if fields := h.validator.Struct(out); fields != nil {
		return invalidRequest("Request validation failed", fields)
	}
	return nil
}

func taskIDParam(c *fiber.Ctx) (uint, error) {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return 0, invalidRequest("Invalid task id", []FieldError{{
			Field:   "id",
			Rule:    "numeric",
			Message: "id must be a positive integer",
		}})
	}
	return uint(id), nil
}

func toTaskResponse(t *task.TaskResponse) TaskResponse {
	return TaskResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Status:      t.Status,
		CreatedAt:   t.CreatedAt,
		CompletedAt: t.CompletedAt,
	}
}
