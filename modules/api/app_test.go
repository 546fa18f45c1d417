package api

import (
	"context"
	"net/http"
	"strconv"
	"testing"
	"time"

	"github.com/example/tasks-api/config"
	"github.com/example/tasks-api/database"
	"github.com/example/tasks-api/modules/auth"
	"github.com/example/tasks-api/modules/task"
	"github.com/example/tasks-api/modules/telemetry"
	"github.com/go-monolith/mono"
)

// startMonoApp runs the auth, task, telemetry and api modules on an embedded
// in-process NATS server so requests cross the real request-reply services.
func startMonoApp(t *testing.T) *APIModule {
	t.Helper()

	db, err := database.Open(":memory:", false)
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	app, err := mono.NewMonoApplication(
		mono.WithNATSDontListen(),
		mono.WithNATSInProcessConn(),
		mono.WithJetStreamStorageDir(t.TempDir()),
		mono.WithShutdownTimeout(5*time.Second),
		mono.WithLogLevel(mono.LogLevelError),
		mono.WithLogFormat(mono.LogFormatText),
	)
	if err != nil {
		t.Fatalf("NewMonoApplication() error = %v", err)
	}

	authModule := auth.NewModule(db, config.AuthConfig{
		SecretKey:       "app-test-secret",
		TokenTTLMinutes: 60,
		Algorithm:       "HS256",
		Issuer:          "tasks-api",
		PasswordScheme:  "bcrypt",
	}, app.Logger())
	taskModule := task.NewModule(db, 10, app.Logger())
	apiModule := NewModule(
		config.HTTPConfig{Addr: "127.0.0.1:0"},
		config.PaginationConfig{DefaultPage: 1, DefaultSize: 10},
		app.Logger(),
	)
	apiModule.AddHealthCheck(authModule.Name(), authModule)
	apiModule.AddHealthCheck(taskModule.Name(), taskModule)

	for _, module := range []mono.Module{telemetry.NewModule(app.Logger()), authModule, taskModule, apiModule} {
		if err := app.Register(module); err != nil {
			t.Fatalf("Register(%s) error = %v", module.Name(), err)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.Start(ctx); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	t.Cleanup(func() {
		stopCtx, stopCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer stopCancel()
		_ = app.Stop(stopCtx)
		_ = database.Close(db)
	})

	return apiModule
}

func TestMonoApp_CrossModuleErrors(t *testing.T) {
	apiModule := startMonoApp(t)

	alice := &e2eClient{t: t, app: apiModule.app}
	alice.signUp("Alice", "alice@example.com", "secret1")
	bob := &e2eClient{t: t, app: apiModule.app}
	bob.signUp("Bob", "bob@example.com", "secret2")

	var me UserResponse
	if status := alice.do("GET", "/auth/me", "", &me); status != http.StatusOK || me.Email != "alice@example.com" {
		t.Fatalf("me status = %d user = %+v", status, me)
	}

	var created TaskResponse
	if status := alice.do("POST", "/tasks", `{"title":"Private","description":""}`, &created); status != http.StatusCreated {
		t.Fatalf("create status = %d, want 201", status)
	}
	if created.Description == nil || *created.Description != "" {
		t.Errorf("created description = %v, want empty string", created.Description)
	}
	path := "/tasks/" + strconv.FormatUint(uint64(created.ID), 10)

	var cleared TaskResponse
	if status := alice.do("PUT", path, `{"description":null}`, &cleared); status != http.StatusOK {
		t.Fatalf("clear status = %d, want 200", status)
	}
	if cleared.Description != nil {
		t.Errorf("description after null = %q, want nil", *cleared.Description)
	}

	tests := []struct {
		name           string
		token          string
		method         string
		path           string
		body           string
		expectedStatus int
		expectedError  string
	}{
		{
			name:           "duplicate register",
			method:         "POST",
			path:           "/auth/register",
			body:           `{"name":"Alice","email":"alice@example.com","password":"secret1"}`,
			expectedStatus: http.StatusConflict,
			expectedError:  CodeConflict,
		},
		{
			name:           "bad login",
			method:         "POST",
			path:           "/auth/login",
			body:           `{"email":"alice@example.com","password":"wrong-password"}`,
			expectedStatus: http.StatusUnauthorized,
			expectedError:  CodeUnauthorized,
		},
		{
			name:           "foreign task get",
			token:          bob.token,
			method:         "GET",
			path:           path,
			expectedStatus: http.StatusNotFound,
			expectedError:  CodeNotFound,
		},
		{
			name:           "foreign task update",
			token:          bob.token,
			method:         "PUT",
			path:           path,
			body:           `{"title":"Hijacked"}`,
			expectedStatus: http.StatusNotFound,
			expectedError:  CodeNotFound,
		},
		{
			name:           "blank title",
			token:          alice.token,
			method:         "POST",
			path:           "/tasks",
			body:           `{"title":"   "}`,
			expectedStatus: http.StatusUnprocessableEntity,
			expectedError:  CodeValidation,
		},
		{
			name:           "invalid status",
			token:          alice.token,
			method:         "PUT",
			path:           path,
			body:           `{"status":"archived"}`,
			expectedStatus: http.StatusUnprocessableEntity,
			expectedError:  CodeValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &e2eClient{t: t, app: apiModule.app, token: tt.token}
			var resp ErrorResponse
			status := client.do(tt.method, tt.path, tt.body, &resp)
			if status != tt.expectedStatus {
				t.Errorf("status = %d, want %d (%+v)", status, tt.expectedStatus, resp)
			}
			if resp.Error != tt.expectedError {
				t.Errorf("error = %q, want %q", resp.Error, tt.expectedError)
			}
		})
	}
}
