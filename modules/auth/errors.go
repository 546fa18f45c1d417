package auth

import (
	"errors"
	"fmt"

	"github.com/example/tasks-api/errs"
)

var (
	// ErrInvalidCredentials is returned by Login for an unknown email or a wrong password.
	ErrInvalidCredentials = errs.New(errs.KindUnauthenticated, "invalid email or password")
	// ErrUnauthenticated is returned when a bearer token cannot be resolved to a user.
	ErrUnauthenticated = errs.New(errs.KindUnauthenticated, "could not validate credentials")
	// ErrEmailTaken is returned when the email is already registered.
	ErrEmailTaken = errs.New(errs.KindConflict, "email already registered")
	// ErrUserNotFound is returned when a user is not found.
	ErrUserNotFound = errs.New(errs.KindNotFound, "user not found")

	ErrNameRequired    = errs.New(errs.KindValidation, "name is required")
	ErrInvalidEmail    = errs.New(errs.KindValidation, "invalid email format")
	ErrWeakPassword    = errs.New(errs.KindValidation, fmt.Sprintf("password must be at least %d characters", MinPasswordLength))
	ErrPasswordTooLong = errs.New(errs.KindValidation, fmt.Sprintf("password must be at most %d characters", MaxPasswordLength))
	// ErrPasswordBytes is returned by bcrypt hashing for input past BcryptMaxBytes.
	ErrPasswordBytes = errs.New(errs.KindValidation, fmt.Sprintf("password must be at most %d bytes", BcryptMaxBytes))
)

var (
	// ErrInvalidToken is returned when a token fails signature, algorithm or claim checks.
	ErrInvalidToken = errors.New("invalid token")
	// ErrExpiredToken is returned when the token has expired. It wraps ErrInvalidToken.
	ErrExpiredToken = fmt.Errorf("%w: token has expired", ErrInvalidToken)
)

// Password length bounds, counted in characters (runes).
const (
	MinPasswordLength = 6
	MaxPasswordLength = 72
)

// BcryptMaxBytes is the longest input bcrypt accepts. Multi-byte passwords
// within MaxPasswordLength can still exceed it.
const BcryptMaxBytes = 72
