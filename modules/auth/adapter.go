package auth

import (
	"context"
	"encoding/json"
	"fmt"

	domain "github.com/example/tasks-api/domain/user"
	"github.com/example/tasks-api/errs"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// AuthPort defines the interface for authentication operations.
// This is the port that other modules use to access auth functionality.
type AuthPort interface {
	Register(ctx context.Context, name, email, password string) (*domain.Public, error)
	Login(ctx context.Context, email, password string) (*domain.Token, error)
	Authenticate(ctx context.Context, token string) (*domain.Public, error)
	GetUser(ctx context.Context, userID uint) (*domain.Public, error)
}

// AuthAdapter implements AuthPort using the service container.
type AuthAdapter struct {
	container mono.ServiceContainer
}

var _ AuthPort = (*AuthAdapter)(nil)

// NewAuthAdapter creates a new AuthAdapter.
func NewAuthAdapter(container mono.ServiceContainer) *AuthAdapter {
	return &AuthAdapter{
		container: container,
	}
}

// Register creates an account.
func (a *AuthAdapter) Register(ctx context.Context, name, email, password string) (*domain.Public, error) {
	req := RegisterRequest{Name: name, Email: email, Password: password}
	var resp UserResponse

	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		"register",
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		return nil, remoteError("register", err)
	}
	return resp.toPublic(), nil
}

// Login exchanges credentials for an access token.
func (a *AuthAdapter) Login(ctx context.Context, email, password string) (*domain.Token, error) {
	req := LoginRequest{Email: email, Password: password}
	var resp LoginResponse

	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		"login",
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		return nil, remoteError("login", err)
	}
	return &domain.Token{
		AccessToken: resp.AccessToken,
		TokenType:   resp.TokenType,
		ExpiresIn:   resp.ExpiresIn,
	}, nil
}

// Authenticate resolves a bearer token to its user.
func (a *AuthAdapter) Authenticate(ctx context.Context, token string) (*domain.Public, error) {
	req := AuthenticateRequest{Token: token}
	var resp UserResponse

	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		"authenticate",
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		return nil, remoteError("authenticate", err)
	}
	return resp.toPublic(), nil
}

// GetUser retrieves a user by ID.
func (a *AuthAdapter) GetUser(ctx context.Context, userID uint) (*domain.Public, error) {
	req := GetUserRequest{UserID: userID}
	var resp UserResponse

	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		"get-user",
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		return nil, remoteError("get-user", err)
	}
	return resp.toPublic(), nil
}

// remoteError restores the error kind lost in transport.
func remoteError(service string, err error) error {
	return errs.FromRemote(fmt.Errorf("%s request failed: %w", service, err))
}

func (r UserResponse) toPublic() *domain.Public {
	return &domain.Public{
		ID:        r.ID,
		Name:      r.Name,
		Email:     r.Email,
		CreatedAt: r.CreatedAt,
	}
}
