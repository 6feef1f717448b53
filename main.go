package main

import (
	"context"
	"log"
	"os"
	"time"

	apimod "github.com/example/todo-api/modules/api"
	authmod "github.com/example/todo-api/modules/auth"
	cachemod "github.com/example/todo-api/modules/cache"
	taskmod "github.com/example/todo-api/modules/task"
	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/go-monolith/mono"
)

const shutdownTimeout = 30 * time.Second

func main() {
	redisAddr := getEnv("REDIS_ADDR", "")
	cacheTTL := getEnvDuration("CACHE_TTL", 5*time.Minute)

	log.Println("=== Todo API ===")

	app, err := mono.NewMonoApplication(
		mono.WithShutdownTimeout(shutdownTimeout),
		mono.WithLogLevel(mono.LogLevelInfo),
		mono.WithLogFormat(mono.LogFormatText),
	)
	if err != nil {
		log.Fatalf("Failed to create application: %v", err)
	}

	taskModule := taskmod.NewModule()

	// The cache is optional: without REDIS_ADDR the task module serves
	// straight from the database. Wiring happens before Start so the task
	// service is built once, cache included, and never swapped under
	// in-flight requests.
	if redisAddr != "" {
		cacheModule := cachemod.NewModule(redisAddr, cacheTTL)
		taskModule.SetCache(cacheModule.GetCache())
		app.Register(cacheModule)
		log.Println("Task read cache enabled")
	}

	// Order: independent modules first, then dependent modules
	app.Register(authmod.NewModule())
	app.Register(taskModule)
	app.Register(apimod.NewModule())

	if err := app.Start(context.Background()); err != nil {
		log.Fatalf("Failed to start application: %v", err)
	}

	printStartupInfo()

	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		shutdownTimeout,
		map[string]gfshutdown.Operation{
			"mono-app": func(ctx context.Context) error {
				log.Println("Graceful shutdown initiated...")
				return app.Stop(ctx)
			},
		},
	)

	exitCode := <-wait
	log.Printf("Application exited with code: %d", exitCode)
	os.Exit(exitCode)
}

func printStartupInfo() {
	log.Println("")
	log.Println("Application started successfully!")
	log.Println("")
	log.Println("REST API Endpoints (http://localhost:3000):")
	log.Println("")
	log.Println("  Public Endpoints:")
	log.Println("  POST   /api/auth/signup        - Register and get a token")
	log.Println("  POST   /api/auth/signin        - Sign in and get a token")
	log.Println("  POST   /api/auth/signout       - Sign out (client drops the token)")
	log.Println("  GET    /api/health             - Health check")
	log.Println("")
	log.Println("  Protected Endpoints (require Bearer token):")
	log.Println("  GET    /api/auth/me            - Current user profile")
	log.Println("  POST   /api/tasks              - Create a task")
	log.Println("  GET    /api/tasks              - List own tasks (?status=&sort=&offset=&limit=)")
	log.Println("  GET    /api/tasks/:id          - Get own task")
	log.Println("  PUT    /api/tasks/:id          - Update own task")
	log.Println("  PATCH  /api/tasks/:id          - Partially update own task")
	log.Println("  PATCH  /api/tasks/:id/complete - Mark own task completed")
	log.Println("  DELETE /api/tasks/:id          - Delete own task")
	log.Println("")
	log.Println("Press Ctrl+C to shutdown gracefully")
}

// getEnv returns environment variable value or default.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvDuration returns environment variable as duration or default.
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
		log.Printf("Warning: invalid duration value for %s: %s, using default: %s", key, value, defaultValue)
	}
	return defaultValue
}
