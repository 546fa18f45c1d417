package auth

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/example/tasks-api/config"
	"github.com/example/tasks-api/database"
	domain "github.com/example/tasks-api/domain/user"
	"github.com/example/tasks-api/errs"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
	"github.com/go-monolith/mono/pkg/types"
	"gorm.io/gorm"
)

// AuthModule provides account and token services.
type AuthModule struct {
	db      *gorm.DB
	config  config.AuthConfig
	service *AuthService
	logger  types.Logger
}

// Compile-time interface checks.
var _ mono.Module = (*AuthModule)(nil)
var _ mono.ServiceProviderModule = (*AuthModule)(nil)
var _ mono.HealthCheckableModule = (*AuthModule)(nil)

// NewModule creates a new AuthModule backed by db.
func NewModule(db *gorm.DB, cfg config.AuthConfig, logger types.Logger) *AuthModule {
	return &AuthModule{
		db:     db,
		config: cfg,
		logger: logger,
	}
}

// Name returns the module name.
func (m *AuthModule) Name() string {
	return "auth"
}

// Start builds the auth service from configuration.
func (m *AuthModule) Start(_ context.Context) error {
	if m.db == nil {
		return fmt.Errorf("database not set")
	}

	hasher, err := NewPasswordHasher(Scheme(m.config.PasswordScheme))
	if err != nil {
		return err
	}

	jwtManager, err := NewJWTManager(JWTConfig{
		SecretKey: m.config.SecretKey,
		Algorithm: m.config.Algorithm,
		TTL:       m.config.TokenTTL(),
		Issuer:    m.config.Issuer,
	})
	if err != nil {
		return err
	}

	m.service = NewAuthService(NewUserRepository(m.db), hasher, jwtManager)

	m.logger.Info("Module started",
		"password_scheme", m.config.PasswordScheme,
		"algorithm", m.config.Algorithm,
		"token_ttl", m.config.TokenTTL().String())
	return nil
}

// Stop shuts down the module. The database is owned by main.
func (m *AuthModule) Stop(_ context.Context) error {
	m.logger.Info("Module stopped")
	return nil
}

// Health returns the health status of the module.
func (m *AuthModule) Health(ctx context.Context) mono.HealthStatus {
	if err := database.Ping(ctx, m.db); err != nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: err.Error(),
		}
	}

	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: map[string]any{
			"password_scheme": m.config.PasswordScheme,
		},
	}
}

// RegisterServices registers request-reply services in the service container.
func (m *AuthModule) RegisterServices(container mono.ServiceContainer) error {
	if err := helper.RegisterTypedRequestReplyService(
		container, "register", json.Unmarshal, json.Marshal, m.handleRegister,
	); err != nil {
		return fmt.Errorf("failed to register register service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "login", json.Unmarshal, json.Marshal, m.handleLogin,
	); err != nil {
		return fmt.Errorf("failed to register login service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "authenticate", json.Unmarshal, json.Marshal, m.handleAuthenticate,
	); err != nil {
		return fmt.Errorf("failed to register authenticate service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "get-user", json.Unmarshal, json.Marshal, m.handleGetUser,
	); err != nil {
		return fmt.Errorf("failed to register get-user service: %w", err)
	}

	m.logger.Info("Registered services", "services", "register, login, authenticate, get-user")
	return nil
}

func (m *AuthModule) handleRegister(ctx context.Context, req RegisterRequest, _ *mono.Msg) (UserResponse, error) {
	user, err := m.service.Register(ctx, req.Name, req.Email, req.Password)
	if err != nil {
		return UserResponse{}, m.failure("register", err)
	}

	m.logger.Info("User registered", "user_id", user.ID)
	return toUserResponse(user), nil
}

func (m *AuthModule) handleLogin(ctx context.Context, req LoginRequest, _ *mono.Msg) (LoginResponse, error) {
	token, err := m.service.Login(ctx, req.Email, req.Password)
	if err != nil {
		return LoginResponse{}, m.failure("login", err)
	}

	return LoginResponse{
		AccessToken: token.AccessToken,
		TokenType:   token.TokenType,
		ExpiresIn:   token.ExpiresIn,
	}, nil
}

func (m *AuthModule) handleAuthenticate(ctx context.Context, req AuthenticateRequest, _ *mono.Msg) (UserResponse, error) {
	user, err := m.service.Authenticate(ctx, req.Token)
	if err != nil {
		return UserResponse{}, m.failure("authenticate", err)
	}
	return toUserResponse(user), nil
}

func (m *AuthModule) handleGetUser(ctx context.Context, req GetUserRequest, _ *mono.Msg) (UserResponse, error) {
	user, err := m.service.GetUser(ctx, req.UserID)
	if err != nil {
		return UserResponse{}, m.failure("get-user", err)
	}
	return toUserResponse(user), nil
}

// failure logs errors that are not the caller's fault before they cross the
// request-reply boundary as text.
func (m *AuthModule) failure(op string, err error) error {
	switch errs.KindOf(err) {
	case errs.KindValidation, errs.KindUnauthenticated, errs.KindConflict, errs.KindNotFound:
	default:
		m.logger.Error("Request failed", "service", op, "error", err)
	}
	return err
}

func toUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
	}
}
