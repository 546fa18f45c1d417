package api

import (
	"time"

	taskdomain "github.com/example/tasks-api/domain/task"
)

// RegisterRequest represents a user registration request.
type RegisterRequest struct {
	Name     string `json:"name" validate:"required,notblank"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

// LoginRequest represents a user login request.
type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// TokenResponse represents an issued access token.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

// UserResponse represents a user response.
type UserResponse struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// CreateTaskRequest represents a task creation request.
type CreateTaskRequest struct {
	Title       string  `json:"title" validate:"required,notblank"`
	Description *string `json:"description"`
}

// UpdateTaskRequest is a partial update. Only keys present in the body are
// applied; "description": null clears the description.
type UpdateTaskRequest struct {
	Title       *string                   `json:"title" validate:"omitnil,notblank"`
	Description taskdomain.NullableString `json:"description"`
	Status      *string                   `json:"status" validate:"omitnil,task_status"`
}

// ListTasksQuery holds the GET /tasks query parameters.
type ListTasksQuery struct {
	Status *string `query:"status" validate:"omitnil,task_status"`
	Skip   *int    `query:"skip" validate:"omitnil,gte=0"`
	Limit  *int    `query:"limit" validate:"omitnil,gte=1"`
	Page   *int    `query:"page" validate:"omitnil,gte=1"`
}

// TaskResponse represents a task response.
type TaskResponse struct {
	ID          uint       `json:"id"`
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at"`
}

// DetailResponse carries a confirmation message.
type DetailResponse struct {
	Detail string `json:"detail"`
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error   string       `json:"error"`
	Message string       `json:"message"`
	Fields  []FieldError `json:"fields,omitempty"`
}

// FieldError describes one failed validation rule.
type FieldError struct {
	Field   string `json:"field"`
	Rule    string `json:"rule"`
	Message string `json:"message"`
}

// HealthResponse summarizes module health.
type HealthResponse struct {
	Status  string                  `json:"status"`
	Modules map[string]ModuleHealth `json:"modules,omitempty"`
}

// ModuleHealth is the health of one module.
type ModuleHealth struct {
	Healthy bool   `json:"healthy"`
	Message string `json:"message"`
}
