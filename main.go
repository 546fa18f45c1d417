package main

import (
	"context"
	"log"
	"os"

	"github.com/example/tasks-api/config"
	"github.com/example/tasks-api/database"
	"github.com/example/tasks-api/modules/api"
	"github.com/example/tasks-api/modules/auth"
	"github.com/example/tasks-api/modules/task"
	"github.com/example/tasks-api/modules/telemetry"
	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/go-monolith/mono"
)

func main() {
	log.Println("=== Tasks API ===")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Open(cfg.Database.URL, cfg.Database.Debug)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	logLevel := mono.LogLevelInfo
	if cfg.Log.Level == "error" {
		logLevel = mono.LogLevelError
	}

	// Create mono application
	app, err := mono.NewMonoApplication(
		mono.WithShutdownTimeout(cfg.ShutdownTimeout),
		mono.WithLogLevel(logLevel),
		mono.WithLogFormat(mono.LogFormatText),
	)
	if err != nil {
		log.Fatalf("Failed to create application: %v", err)
	}

	authModule := auth.NewModule(db, cfg.Auth, app.Logger())
	taskModule := task.NewModule(db, cfg.Pagination.DefaultSize, app.Logger())
	apiModule := api.NewModule(cfg.HTTP, cfg.Pagination, app.Logger())
	apiModule.AddHealthCheck(authModule.Name(), authModule)
	apiModule.AddHealthCheck(taskModule.Name(), taskModule)

	// Register modules with the framework
	// Order: independent modules first, then dependent modules
	app.Register(telemetry.NewModule(app.Logger())) // Consumes task events
	app.Register(authModule)                        // Provides account and token services
	app.Register(taskModule)                        // Provides task services, emits task events
	app.Register(apiModule)                         // Depends on auth and task

	// Start application
	if err := app.Start(context.Background()); err != nil {
		log.Fatalf("Failed to start application: %v", err)
	}

	printStartupInfo(cfg.HTTP.Addr)

	// Graceful shutdown
	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		cfg.ShutdownTimeout,
		map[string]gfshutdown.Operation{
			"mono-app": func(ctx context.Context) error {
				log.Println("Graceful shutdown initiated...")
				if err := app.Stop(ctx); err != nil {
					return err
				}
				return database.Close(db)
			},
		},
	)

	exitCode := <-wait
	log.Printf("Application exited with code: %d", exitCode)
	os.Exit(exitCode)
}

func printStartupInfo(addr string) {
	log.Println("")
	log.Println("Application started successfully!")
	log.Println("")
	log.Printf("REST API Endpoints (%s):", addr)
	log.Println("")
	log.Println("  Public Endpoints:")
	log.Println("  GET    /                - Service status")
	log.Println("  GET    /health          - Module health")
	log.Println("  GET    /metrics         - Prometheus metrics")
	log.Println("  POST   /auth/register   - Register a new user")
	log.Println("  POST   /auth/login      - Login and get an access token")
	log.Println("")
	log.Println("  Protected Endpoints (require Bearer token):")
	log.Println("  GET    /auth/me         - Current user")
	log.Println("  POST   /tasks           - Create a task")
	log.Println("  GET    /tasks           - List tasks (status, skip, limit, page)")
	log.Println("  GET    /tasks/:id       - Get a task")
	log.Println("  PUT    /tasks/:id       - Update a task")
	log.Println("  DELETE /tasks/:id       - Delete a task")
	log.Println("")
	log.Println("Press Ctrl+C to shutdown gracefully")
}
