package auth

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/example/tasks-api/database"
	domain "github.com/example/tasks-api/domain/user"
	"github.com/example/tasks-api/errs"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := database.Open(":memory:", false)
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	t.Cleanup(func() { _ = database.Close(db) })
	return db
}

func newTestService(t *testing.T) *AuthService {
	t.Helper()

	config := testJWTConfig()
	config.TTL = time.Hour
	return NewAuthService(
		NewUserRepository(setupTestDB(t)),
		newTestHasher(SchemeArgon2id),
		newTestJWTManager(t, config),
	)
}

func TestAuthService_Register(t *testing.T) {
	service := newTestService(t)
	ctx := context.Background()

	user, err := service.Register(ctx, "A", "a@x.com", "secret1")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	if user.ID == 0 {
		t.Error("expected generated ID")
	}
	if user.Name != "A" || user.Email != "a@x.com" {
		t.Errorf("user = %+v", user)
	}
	if user.PasswordHash == "secret1" || !strings.HasPrefix(user.PasswordHash, "$argon2id$") {
		t.Errorf("unexpected password hash %q", user.PasswordHash)
	}
	if user.CreatedAt.Location() != time.UTC {
		t.Errorf("CreatedAt location = %v, want UTC", user.CreatedAt.Location())
	}
}

func TestAuthService_Register_Validation(t *testing.T) {
	service := newTestService(t)
	ctx := context.Background()

	tests := []struct {
		name     string
		userName string
		email    string
		password string
		wantErr  error
	}{
		{name: "blank name", userName: "  ", email: "a@x.com", password: "secret1", wantErr: ErrNameRequired},
		{name: "missing @", userName: "A", email: "ax.com", password: "secret1", wantErr: ErrInvalidEmail},
		{name: "missing domain", userName: "A", email: "a@", password: "secret1", wantErr: ErrInvalidEmail},
		{name: "display name form", userName: "A", email: "A <a@x.com>", password: "secret1", wantErr: ErrInvalidEmail},
		{name: "short password", userName: "A", email: "a@x.com", password: "12345", wantErr: ErrWeakPassword},
		{name: "long password", userName: "A", email: "a@x.com", password: strings.Repeat("p", 73), wantErr: ErrPasswordTooLong},
		{name: "short multibyte password", userName: "A", email: "a@x.com", password: strings.Repeat("é", 5), wantErr: ErrWeakPassword},
		{name: "long multibyte password", userName: "A", email: "a@x.com", password: strings.Repeat("é", 73), wantErr: ErrPasswordTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.Register(ctx, tt.userName, tt.email, tt.password)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Register() error = %v, want %v", err, tt.wantErr)
			}
			if !errors.Is(err, errs.ErrValidation) {
				t.Errorf("Register() error kind = %q, want validation", errs.KindOf(err))
			}
		})
	}
}

func TestAuthService_Register_PasswordBounds(t *testing.T) {
	service := newTestService(t)
	ctx := context.Background()

	tests := []struct {
		name     string
		email    string
		password string
	}{
		{name: "six characters", email: "six@x.com", password: "123456"},
		{name: "six multibyte characters", email: "accent@x.com", password: strings.Repeat("é", 6)},
		{name: "max characters", email: "max@x.com", password: strings.Repeat("p", 72)},
		{name: "max multibyte characters", email: "wide@x.com", password: strings.Repeat("é", 72)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := service.Register(ctx, "A", tt.email, tt.password); err != nil {
				t.Errorf("Register(%d chars, %d bytes) error = %v", utf8.RuneCountInString(tt.password), len(tt.password), err)
			}
		})
	}
}

func TestAuthService_Register_BcryptByteLimit(t *testing.T) {
	config := testJWTConfig()
	config.TTL = time.Hour
	service := NewAuthService(
		NewUserRepository(setupTestDB(t)),
		newTestHasher(SchemeBcrypt),
		newTestJWTManager(t, config),
	)
	ctx := context.Background()

	// 40 characters, 80 bytes.
	_, err := service.Register(ctx, "A", "a@x.com", strings.Repeat("é", 40))
	if !errors.Is(err, ErrPasswordBytes) {
		t.Fatalf("Register() error = %v, want ErrPasswordBytes", err)
	}
	if !errors.Is(err, errs.ErrValidation) {
		t.Errorf("Register() error kind = %q, want validation", errs.KindOf(err))
	}

	if _, err := service.Register(ctx, "A", "a@x.com", strings.Repeat("é", 36)); err != nil {
		t.Errorf("72-byte password rejected: %v", err)
	}
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	service := newTestService(t)
	ctx := context.Background()

	first, err := service.Register(ctx, "A", "a@x.com", "secret1")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	_, err = service.Register(ctx, "Other", "a@x.com", "another-secret")
	if !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("second Register() error = %v, want ErrEmailTaken", err)
	}
	if !errors.Is(err, errs.ErrConflict) {
		t.Errorf("expected conflict kind, got %q", errs.KindOf(err))
	}

	// The first account is untouched.
	stored, err := service.GetUser(ctx, first.ID)
	if err != nil {
		t.Fatalf("GetUser() error = %v", err)
	}
	if stored.Name != "A" || stored.PasswordHash != first.PasswordHash {
		t.Errorf("first user changed: %+v", stored)
	}
	if _, err := service.Login(ctx, "a@x.com", "secret1"); err != nil {
		t.Errorf("Login() with original password error = %v", err)
	}
}

func TestAuthService_Register_EmailIsCaseSensitive(t *testing.T) {
	service := newTestService(t)
	ctx := context.Background()

	if _, err := service.Register(ctx, "A", "a@x.com", "secret1"); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if _, err := service.Register(ctx, "A2", "A@x.com", "secret1"); err != nil {
		t.Errorf("Register() with different case error = %v", err)
	}
}

func TestUserRepository_Create_DuplicateKey(t *testing.T) {
	repo := NewUserRepository(setupTestDB(t))
	ctx := context.Background()

	if err := repo.Create(ctx, &domain.User{Name: "A", Email: "a@x.com", PasswordHash: "h"}); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	err := repo.Create(ctx, &domain.User{Name: "B", Email: "a@x.com", PasswordHash: "h"})
	if !errors.Is(err, ErrEmailTaken) {
		t.Errorf("Create() duplicate error = %v, want ErrEmailTaken", err)
	}
}

func TestAuthService_Login(t *testing.T) {
	service := newTestService(t)
	ctx := context.Background()

	user, err := service.Register(ctx, "A", "a@x.com", "secret1")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	token, err := service.Login(ctx, "a@x.com", "secret1")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if token.TokenType != "bearer" {
		t.Errorf("TokenType = %q, want bearer", token.TokenType)
	}
	if token.ExpiresIn != 3600 {
		t.Errorf("ExpiresIn = %d, want 3600", token.ExpiresIn)
	}

	userID, err := service.jwt.Validate(token.AccessToken)
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if userID != user.ID {
		t.Errorf("token subject = %d, want %d", userID, user.ID)
	}
}

func TestAuthService_Login_UniformFailure(t *testing.T) {
	service := newTestService(t)
	ctx := context.Background()

	if _, err := service.Register(ctx, "A", "a@x.com", "secret1"); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	_, wrongPassword := service.Login(ctx, "a@x.com", "wrong-password")
	_, unknownEmail := service.Login(ctx, "nobody@x.com", "secret1")

	for name, err := range map[string]error{"wrong password": wrongPassword, "unknown email": unknownEmail} {
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("%s: error = %v, want ErrInvalidCredentials", name, err)
		}
		if !errors.Is(err, errs.ErrUnauthenticated) {
			t.Errorf("%s: expected unauthenticated kind", name)
		}
	}
	if wrongPassword.Error() != unknownEmail.Error() {
		t.Errorf("failure messages differ: %q vs %q", wrongPassword, unknownEmail)
	}
}

func TestAuthService_Authenticate(t *testing.T) {
	service := newTestService(t)
	ctx := context.Background()

	user, err := service.Register(ctx, "A", "a@x.com", "secret1")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	token, err := service.Login(ctx, "a@x.com", "secret1")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	got, err := service.Authenticate(ctx, token.AccessToken)
	if err != nil {
		t.Fatalf("Authenticate() error = %v", err)
	}
	if got.ID != user.ID {
		t.Errorf("Authenticate() user = %d, want %d", got.ID, user.ID)
	}
}

func TestAuthService_Authenticate_Rejects(t *testing.T) {
	service := newTestService(t)
	ctx := context.Background()

	ghostToken, err := service.jwt.Issue(999)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	issuedAt := time.Now().Add(-2 * time.Hour)
	service.jwt.now = func() time.Time { return issuedAt }
	expiredToken, err := service.jwt.Issue(1)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	service.jwt.now = time.Now

	tests := []struct {
		name  string
		token string
	}{
		{name: "garbage", token: "garbage"},
		{name: "unknown user", token: ghostToken},
		{name: "expired", token: expiredToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.Authenticate(ctx, tt.token)
			if !errors.Is(err, ErrUnauthenticated) {
				t.Errorf("Authenticate() error = %v, want ErrUnauthenticated", err)
			}
		})
	}
}

func TestAuthService_GetUser_NotFound(t *testing.T) {
	service := newTestService(t)

	_, err := service.GetUser(context.Background(), 12345)
	if !errors.Is(err, ErrUserNotFound) {
		t.Errorf("GetUser() error = %v, want ErrUserNotFound", err)
	}
}
