package api

import (
	"errors"

	"github.com/example/tasks-api/errs"
	"github.com/go-monolith/mono/pkg/types"
	"github.com/gofiber/fiber/v2"
)

// Error codes returned in ErrorResponse.Error.
const (
	CodeValidation       = "validation_error"
	CodeUnauthorized     = "unauthorized"
	CodeConflict         = "conflict"
	CodeNotFound         = "not_found"
	CodeMethodNotAllowed = "method_not_allowed"
	CodeInternal         = "internal_error"
)

const internalErrorMessage = "An internal error occurred"

// requestError is a request rejected at the HTTP boundary before any
// service was called.
type requestError struct {
	message string
	fields  []FieldError
}

func (e *requestError) Error() string {
	return e.message
}

func invalidRequest(message string, fields []FieldError) error {
	return &requestError{message: message, fields: fields}
}

func unauthorized(message string) error {
	return errs.New(errs.KindUnauthenticated, message)
}

// classify maps an error to its status and body. Each error kind maps to
// exactly one status; anything unclassified is a 500 with a generic message.
func classify(err error) (int, ErrorResponse) {
	var reqErr *requestError
	if errors.As(err, &reqErr) {
		return fiber.StatusUnprocessableEntity, ErrorResponse{
			Error:   CodeValidation,
			Message: reqErr.message,
			Fields:  reqErr.fields,
		}
	}

	message := errs.MessageOf(err)
	switch errs.KindOf(err) {
	case errs.KindValidation:
		return fiber.StatusUnprocessableEntity, ErrorResponse{Error: CodeValidation, Message: message}
	case errs.KindUnauthenticated:
		return fiber.StatusUnauthorized, ErrorResponse{Error: CodeUnauthorized, Message: message}
	case errs.KindConflict:
		return fiber.StatusConflict, ErrorResponse{Error: CodeConflict, Message: message}
	case errs.KindNotFound:
		return fiber.StatusNotFound, ErrorResponse{Error: CodeNotFound, Message: message}
	}

	var fe *fiber.Error
	if errors.As(err, &fe) {
		code := CodeInternal
		switch fe.Code {
		case fiber.StatusNotFound:
			code = CodeNotFound
		case fiber.StatusMethodNotAllowed:
			code = CodeMethodNotAllowed
		case fiber.StatusBadRequest, fiber.StatusUnprocessableEntity, fiber.StatusRequestEntityTooLarge:
			code = CodeValidation
		}
		return fe.Code, ErrorResponse{Error: code, Message: fe.Message}
	}

	return fiber.StatusInternalServerError, ErrorResponse{Error: CodeInternal, Message: internalErrorMessage}
}

// errorHandler renders every error returned from the handler chain.
func errorHandler(logger types.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status, body := classify(err)

		switch status {
		case fiber.StatusInternalServerError:
			logger.Error("Internal error", "method", c.Method(), "path", c.Path(), "error", err)
		case fiber.StatusUnauthorized:
			c.Set(fiber.HeaderWWWAuthenticate, "Bearer")
		}

		return c.Status(status).JSON(body)
	}
}
