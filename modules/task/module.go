package task

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"

	domain "github.com/example/todo-api/domain/task"
	"github.com/example/todo-api/modules/cache"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ErrTaskNotFound is the wire-level error for a task that does not exist
// for the calling owner. Missing and not-owned deliberately collapse into
// this one outcome so the existence of other users' tasks never leaks.
var ErrTaskNotFound = errors.New("task not found")

// TaskModule provides owner-scoped task services.
type TaskModule struct {
	db      *gorm.DB
	repo    *Repository
	service *Service
	cache   *cache.Cache
	dbPath  string
}

// Compile-time interface checks.
var _ mono.Module = (*TaskModule)(nil)
var _ mono.ServiceProviderModule = (*TaskModule)(nil)
var _ mono.HealthCheckableModule = (*TaskModule)(nil)

// NewModule creates a new TaskModule.
func NewModule() *TaskModule {
	dbPath := os.Getenv("TASK_DB_PATH")
	if dbPath == "" {
		dbPath = "todo_tasks.db"
	}
	return &TaskModule{
		dbPath: dbPath,
	}
}

// Name returns the module name.
func (m *TaskModule) Name() string {
	return "task"
}

// SetCache wires the optional read cache. Call before Start: the service is
// built exactly once during startup and never swapped while requests may be
// in flight. Without a cache the module serves straight from the database.
func (m *TaskModule) SetCache(c *cache.Cache) {
	m.cache = c
}

// Start initializes the task module.
func (m *TaskModule) Start(_ context.Context) error {
	db, err := gorm.Open(sqlite.Open(m.dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	m.db = db

	if err := db.AutoMigrate(&domain.Task{}); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	m.repo = NewRepository(db)
	m.service = NewService(m.repo, m.cache)

	log.Printf("[task] Module started (database: %s)", m.dbPath)
	return nil
}

// Stop shuts down the module.
func (m *TaskModule) Stop(_ context.Context) error {
	if m.db != nil {
		sqlDB, err := m.db.DB()
		if err == nil {
			sqlDB.Close()
		}
	}
	log.Println("[task] Module stopped")
	return nil
}

// Health returns the health status of the module.
func (m *TaskModule) Health(_ context.Context) mono.HealthStatus {
	if m.db == nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: "database not initialized",
		}
	}

	sqlDB, err := m.db.DB()
	if err != nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: fmt.Sprintf("failed to get database connection: %v", err),
		}
	}

	if err := sqlDB.Ping(); err != nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: fmt.Sprintf("database ping failed: %v", err),
		}
	}

	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: map[string]any{
			"database": m.dbPath,
			"cached":   m.cache != nil,
		},
	}
}

// RegisterServices registers request-reply services in the service container.
func (m *TaskModule) RegisterServices(container mono.ServiceContainer) error {
	services := map[string]func() error{
		"task.create": func() error {
			return helper.RegisterTypedRequestReplyService(
				container, "task.create", json.Unmarshal, json.Marshal, m.createTask)
		},
		"task.list": func() error {
			return helper.RegisterTypedRequestReplyService(
				container, "task.list", json.Unmarshal, json.Marshal, m.listTasks)
		},
		"task.get": func() error {
			return helper.RegisterTypedRequestReplyService(
				container, "task.get", json.Unmarshal, json.Marshal, m.getTask)
		},
		"task.update": func() error {
			return helper.RegisterTypedRequestReplyService(
				container, "task.update", json.Unmarshal, json.Marshal, m.updateTask)
		},
		"task.delete": func() error {
			return helper.RegisterTypedRequestReplyService(
				container, "task.delete", json.Unmarshal, json.Marshal, m.deleteTask)
		},
	}

	for name, register := range services {
		if err := register(); err != nil {
			return fmt.Errorf("failed to register %s service: %w", name, err)
		}
	}

	log.Printf("[task] Registered services: task.create, task.list, task.get, task.update, task.delete")
	return nil
}

// createTask handles the task.create service request.
func (m *TaskModule) createTask(ctx context.Context, req CreateTaskRequest, _ *mono.Msg) (TaskResponse, error) {
	task, err := m.service.Create(ctx, req.OwnerID, req.Title, req.Description, req.Completed)
	if err != nil {
		return TaskResponse{}, err
	}
	return toTaskResponse(task), nil
}

// listTasks handles the task.list service request.
func (m *TaskModule) listTasks(ctx context.Context, req ListTasksRequest, _ *mono.Msg) (ListTasksResponse, error) {
	filter := ListFilter{
		Status: req.Status,
		Sort:   req.Sort,
		Offset: req.Offset,
		Limit:  req.Limit,
	}
	if filter.Limit <= 0 {
		filter.Limit = DefaultListLimit
	}

	items, total, err := m.service.List(ctx, req.OwnerID, filter)
	if err != nil {
		return ListTasksResponse{}, err
	}

	resp := ListTasksResponse{
		Items:  make([]TaskResponse, 0, len(items)),
		Total:  total,
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}
	for i := range items {
		resp.Items = append(resp.Items, toTaskResponse(&items[i]))
	}
	return resp, nil
}

// getTask handles the task.get service request.
func (m *TaskModule) getTask(ctx context.Context, req GetTaskRequest, _ *mono.Msg) (TaskResponse, error) {
	task, err := m.service.Get(ctx, req.OwnerID, req.ID)
	if err != nil {
		return TaskResponse{}, err
	}
	if task == nil {
		return TaskResponse{}, ErrTaskNotFound
	}
	return toTaskResponse(task), nil
}

// updateTask handles the task.update service request.
func (m *TaskModule) updateTask(ctx context.Context, req UpdateTaskRequest, _ *mono.Msg) (TaskResponse, error) {
	task, err := m.service.Update(ctx, req.OwnerID, req.ID, req.Patch)
	if err != nil {
		return TaskResponse{}, err
	}
	if task == nil {
		return TaskResponse{}, ErrTaskNotFound
	}
	return toTaskResponse(task), nil
}

// deleteTask handles the task.delete service request.
func (m *TaskModule) deleteTask(ctx context.Context, req DeleteTaskRequest, _ *mono.Msg) (DeleteTaskResponse, error) {
	deleted, err := m.service.Delete(ctx, req.OwnerID, req.ID)
	if err != nil {
		return DeleteTaskResponse{}, err
	}
	if !deleted {
		return DeleteTaskResponse{Deleted: false, ID: req.ID}, ErrTaskNotFound
	}
	return DeleteTaskResponse{Deleted: true, ID: req.ID}, nil
}

// toTaskResponse converts a Task entity to a TaskResponse.
func toTaskResponse(task *domain.Task) TaskResponse {
	return TaskResponse{
		ID:          task.ID,
		UserID:      task.UserID,
		Title:       task.Title,
		Description: task.Description,
		Completed:   task.Completed,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}
}
