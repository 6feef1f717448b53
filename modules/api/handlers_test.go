package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	domain "github.com/example/todo-api/domain/user"
	"github.com/example/todo-api/modules/task"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// fakeTaskPort is an in-memory task.TaskPort. It reproduces the wire-level
// error messages of the task services, including the collapse of missing
// and not-owned into one "task not found" outcome.
type fakeTaskPort struct {
	store map[string]map[string]task.TaskResponse // owner -> id -> task
	fail  error                                   // when set, every call returns it
}

func newFakeTaskPort() *fakeTaskPort {
	return &fakeTaskPort{store: make(map[string]map[string]task.TaskResponse)}
}

func (f *fakeTaskPort) Create(_ context.Context, req task.CreateTaskRequest) (*task.TaskResponse, error) {
	if f.fail != nil {
		return nil, f.fail
	}
	if strings.TrimSpace(req.Title) == "" {
		return nil, fmt.Errorf("task.create request failed: %w", errors.New("title is required"))
	}

	now := time.Now()
	resp := task.TaskResponse{
		ID:          uuid.New().String(),
		UserID:      req.OwnerID,
		Title:       req.Title,
		Description: req.Description,
		Completed:   req.Completed,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if f.store[req.OwnerID] == nil {
		f.store[req.OwnerID] = make(map[string]task.TaskResponse)
	}
	f.store[req.OwnerID][resp.ID] = resp
	return &resp, nil
}

func (f *fakeTaskPort) List(_ context.Context, req task.ListTasksRequest) (*task.ListTasksResponse, error) {
	if f.fail != nil {
		return nil, f.fail
	}
	switch req.Status {
	case "", task.StatusAll, task.StatusPending, task.StatusCompleted:
	default:
		return nil, fmt.Errorf("task.list request failed: %w", errors.New("status must be one of: all, pending, completed"))
	}

	resp := task.ListTasksResponse{Items: []task.TaskResponse{}, Limit: req.Limit, Offset: req.Offset}
	for _, item := range f.store[req.OwnerID] {
		resp.Items = append(resp.Items, item)
		resp.Total++
	}
	return &resp, nil
}

func (f *fakeTaskPort) Get(_ context.Context, req task.GetTaskRequest) (*task.TaskResponse, error) {
	if f.fail != nil {
		return nil, f.fail
	}
	if found, ok := f.store[req.OwnerID][req.ID]; ok {
		return &found, nil
	}
	return nil, fmt.Errorf("task.get request failed: %w", errors.New("task not found"))
}

func (f *fakeTaskPort) Update(_ context.Context, req task.UpdateTaskRequest) (*task.TaskResponse, error) {
	if f.fail != nil {
		return nil, f.fail
	}
	found, ok := f.store[req.OwnerID][req.ID]
	if !ok {
		return nil, fmt.Errorf("task.update request failed: %w", errors.New("task not found"))
	}
	if req.Patch.Title != nil {
		if strings.TrimSpace(*req.Patch.Title) == "" {
			return nil, fmt.Errorf("task.update request failed: %w", errors.New("title is required"))
		}
		found.Title = *req.Patch.Title
	}
	if req.Patch.Description != nil {
		found.Description = *req.Patch.Description
	}
	if req.Patch.Completed != nil {
		found.Completed = *req.Patch.Completed
	}
	f.store[req.OwnerID][req.ID] = found
	return &found, nil
}

func (f *fakeTaskPort) Delete(_ context.Context, req task.DeleteTaskRequest) (*task.DeleteTaskResponse, error) {
	if f.fail != nil {
		return nil, f.fail
	}
	if _, ok := f.store[req.OwnerID][req.ID]; !ok {
		return nil, fmt.Errorf("task.delete request failed: %w", errors.New("task not found"))
	}
	delete(f.store[req.OwnerID], req.ID)
	return &task.DeleteTaskResponse{Deleted: true, ID: req.ID}, nil
}

// setupTaskApp wires the task routes exactly as the module does, behind an
// auth middleware that resolves test tokens to fixed identities.
func setupTaskApp(t *testing.T, tasks task.TaskPort) *fiber.App {
	t.Helper()

	authPort := &mockAuthPort{
		validateTokenFunc: func(_ context.Context, token string) (*domain.Claims, error) {
			switch token {
			case "token-a":
				return &domain.Claims{UserID: "owner-a", Email: "a@example.com"}, nil
			case "token-b":
				return &domain.Claims{UserID: "owner-b", Email: "b@example.com"}, nil
			}
			return nil, errors.New("invalid token")
		},
	}

	handlers := NewHandlers(nil, tasks, authPort)

	app := fiber.New(fiber.Config{ErrorHandler: customErrorHandler})
	routes := app.Group("/api/tasks")
	routes.Use(AuthMiddleware(authPort))
	routes.Post("/", handlers.CreateTask)
	routes.Get("/", handlers.ListTasks)
	routes.Get("/:id", handlers.GetTask)
	routes.Put("/:id", handlers.UpdateTask)
	routes.Patch("/:id/complete", handlers.CompleteTask)
	routes.Patch("/:id", handlers.UpdateTask)
	routes.Delete("/:id", handlers.DeleteTask)
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, target, token, body string) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test() error = %v", err)
	}
	return resp
}

func decodeTask(t *testing.T, resp *http.Response) task.TaskResponse {
	t.Helper()
	defer resp.Body.Close()

	var got task.TaskResponse
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return got
}

// Full task lifecycle over HTTP: create, read back, cross-owner read,
// delete, read after delete. Statuses follow one rule: writes that land get
// 2xx, anything the owner cannot see is a 404.
func TestTaskRoutes_OwnerLifecycle(t *testing.T) {
	app := setupTaskApp(t, newFakeTaskPort())

	resp := doJSON(t, app, "POST", "/api/tasks/", "token-a", `{"title":"Buy Groceries","description":"milk"}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create status = %d, want %d", resp.StatusCode, http.StatusCreated)
	}
	created := decodeTask(t, resp)
	if created.ID == "" {
		t.Fatal("created task has no id")
	}
	if created.UserID != "owner-a" {
		t.Errorf("created.UserID = %q, want %q", created.UserID, "owner-a")
	}

	resp = doJSON(t, app, "GET", "/api/tasks/"+created.ID, "token-a", "")
	if resp.StatusCode != http.StatusOK {
		t.Errorf("owner get status = %d, want %d", resp.StatusCode, http.StatusOK)
	}
	resp.Body.Close()

	// Another authenticated user with the exact id sees a plain 404.
	resp = doJSON(t, app, "GET", "/api/tasks/"+created.ID, "token-b", "")
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("cross-owner get status = %d, want %d", resp.StatusCode, http.StatusNotFound)
	}
	resp.Body.Close()

	resp = doJSON(t, app, "DELETE", "/api/tasks/"+created.ID, "token-a", "")
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("delete status = %d, want %d", resp.StatusCode, http.StatusNoContent)
	}
	resp.Body.Close()

	resp = doJSON(t, app, "GET", "/api/tasks/"+created.ID, "token-a", "")
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("get after delete status = %d, want %d", resp.StatusCode, http.StatusNotFound)
	}
	resp.Body.Close()
}

func TestTaskRoutes_Validation(t *testing.T) {
	app := setupTaskApp(t, newFakeTaskPort())

	t.Run("empty title", func(t *testing.T) {
		resp := doJSON(t, app, "POST", "/api/tasks/", "token-a", `{"title":"   "}`)
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusBadRequest)
		}
	})

	t.Run("invalid status filter", func(t *testing.T) {
		resp := doJSON(t, app, "GET", "/api/tasks/?status=bogus", "token-a", "")
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusBadRequest)
		}
	})
}

// Unexpected service failures surface as a generic 500 with no internals in
// the body.
func TestTaskRoutes_InternalError(t *testing.T) {
	port := newFakeTaskPort()
	port.fail = errors.New("task.list request failed: connection reset by peer")
	app := setupTaskApp(t, port)

	resp := doJSON(t, app, "GET", "/api/tasks/", "token-a", "")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusInternalServerError {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusInternalServerError)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("io.ReadAll() error = %v", err)
	}
	if strings.Contains(string(body), "connection reset") {
		t.Error("response leaked the underlying failure")
	}
}

func TestHandleTaskError_StatusMapping(t *testing.T) {
	tests := []struct {
		name           string
		err            string
		expectedStatus int
	}{
		{
			name:           "task not found",
			err:            "task.get request failed: task not found",
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "title required",
			err:            "task.create request failed: title is required",
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "invalid status filter",
			err:            "task.list request failed: status must be one of: all, pending, completed",
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "anything else",
			err:            "task.get request failed: nats timeout",
			expectedStatus: http.StatusInternalServerError,
		},
	}

	h := &Handlers{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			app.Get("/x", func(c *fiber.Ctx) error {
				return h.handleTaskError(c, errors.New(tt.err))
			})

			resp, err := app.Test(httptest.NewRequest("GET", "/x", nil), -1)
			if err != nil {
				t.Fatalf("app.Test() error = %v", err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != tt.expectedStatus {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.expectedStatus)
			}
		})
	}
}

func TestHandleAuthError_StatusMapping(t *testing.T) {
	tests := []struct {
		name           string
		err            string
		expectedStatus int
	}{
		{
			name:           "bad credentials",
			err:            "signin request failed: invalid email or password",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "duplicate email",
			err:            "signup request failed: user with this email already exists",
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "malformed email",
			err:            "signup request failed: invalid email format",
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "password too short",
			err:            "signup request failed: password must be at least 8 characters",
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "password too long",
			err:            "signup request failed: password must be at most 72 characters",
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "anything else",
			err:            "signup request failed: database locked",
			expectedStatus: http.StatusInternalServerError,
		},
	}

	h := &Handlers{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			app.Get("/x", func(c *fiber.Ctx) error {
				return h.handleAuthError(c, errors.New(tt.err))
			})

			resp, err := app.Test(httptest.NewRequest("GET", "/x", nil), -1)
			if err != nil {
				t.Fatalf("app.Test() error = %v", err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != tt.expectedStatus {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.expectedStatus)
			}
		})
	}
}
