package task

import "github.com/example/tasks-api/errs"

var (
	// ErrTaskNotFound is returned when a task does not exist or belongs to
	// another user.
	ErrTaskNotFound = errs.New(errs.KindNotFound, "task not found")
	// ErrTitleRequired is returned when a title is empty after trimming.
	ErrTitleRequired = errs.New(errs.KindValidation, "title is required")
	// ErrInvalidStatus is returned for a status outside the known set.
	ErrInvalidStatus = errs.New(errs.KindValidation, "status must be one of pending, in_progress, done")
)
