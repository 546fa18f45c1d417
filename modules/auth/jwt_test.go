package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func testJWTConfig() JWTConfig {
	return JWTConfig{
		SecretKey: "test-secret-key",
		Algorithm: "HS256",
		TTL:       time.Minute,
		Issuer:    "test-issuer",
	}
}

func newTestJWTManager(t *testing.T, config JWTConfig) *JWTManager {
	t.Helper()
	manager, err := NewJWTManager(config)
	if err != nil {
		t.Fatalf("NewJWTManager() error = %v", err)
	}
	return manager
}

func TestJWTManager_IssueAndValidate(t *testing.T) {
	manager := newTestJWTManager(t, testJWTConfig())

	token, err := manager.Issue(42)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	if token == "" {
		t.Fatal("Issue() returned empty token")
	}

	userID, err := manager.Validate(token)
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if userID != 42 {
		t.Errorf("Validate() = %d, want 42", userID)
	}
	if manager.ExpiresIn() != 60 {
		t.Errorf("ExpiresIn() = %d, want 60", manager.ExpiresIn())
	}
}

func TestJWTManager_Expiry(t *testing.T) {
	manager := newTestJWTManager(t, testJWTConfig())

	issuedAt := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	current := issuedAt
	manager.now = func() time.Time { return current }

	token, err := manager.Issue(7)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	current = issuedAt.Add(59 * time.Second)
	if _, err := manager.Validate(token); err != nil {
		t.Fatalf("Validate() before expiry error = %v", err)
	}

	current = issuedAt.Add(61 * time.Second)
	_, err = manager.Validate(token)
	if !errors.Is(err, ErrExpiredToken) {
		t.Errorf("Validate() after expiry error = %v, want ErrExpiredToken", err)
	}
	if !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expired token error should also match ErrInvalidToken")
	}
}

func TestJWTManager_RejectsForeignTokens(t *testing.T) {
	config := testJWTConfig()
	manager := newTestJWTManager(t, config)

	otherSecret := config
	otherSecret.SecretKey = "another-secret"

	otherAlg := config
	otherAlg.Algorithm = "HS512"

	otherIssuer := config
	otherIssuer.Issuer = "someone-else"

	now := time.Now()
	noExpiry, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Issuer:   config.Issuer,
		Subject:  "1",
		IssuedAt: jwt.NewNumericDate(now),
	}).SignedString([]byte(config.SecretKey))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Issuer:    config.Issuer,
		Subject:   "1",
		ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("failed to build unsigned token: %v", err)
	}

	badSubject, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Issuer:    config.Issuer,
		Subject:   "alice",
		ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
	}).SignedString([]byte(config.SecretKey))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}

	tests := []struct {
		name  string
		token func(t *testing.T) string
	}{
		{name: "wrong secret", token: func(t *testing.T) string { return issueWith(t, otherSecret) }},
		{name: "wrong algorithm", token: func(t *testing.T) string { return issueWith(t, otherAlg) }},
		{name: "wrong issuer", token: func(t *testing.T) string { return issueWith(t, otherIssuer) }},
		{name: "missing expiry", token: func(*testing.T) string { return noExpiry }},
		{name: "alg none", token: func(*testing.T) string { return unsigned }},
		{name: "non-numeric subject", token: func(*testing.T) string { return badSubject }},
		{name: "garbage", token: func(*testing.T) string { return "not.a.token" }},
		{name: "empty", token: func(*testing.T) string { return "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := manager.Validate(tt.token(t))
			if !errors.Is(err, ErrInvalidToken) {
				t.Errorf("Validate() error = %v, want ErrInvalidToken", err)
			}
		})
	}
}

func issueWith(t *testing.T, config JWTConfig) string {
	t.Helper()
	token, err := newTestJWTManager(t, config).Issue(1)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	return token
}

func TestNewJWTManager_InvalidConfig(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*JWTConfig)
	}{
		{name: "empty secret", mutate: func(c *JWTConfig) { c.SecretKey = "" }},
		{name: "zero ttl", mutate: func(c *JWTConfig) { c.TTL = 0 }},
		{name: "asymmetric algorithm", mutate: func(c *JWTConfig) { c.Algorithm = "RS256" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := testJWTConfig()
			tt.mutate(&config)
			if _, err := NewJWTManager(config); err == nil {
				t.Error("expected error")
			}
		})
	}
}
