package api

import (
	"encoding/json"
	"log"
	"strconv"
	"strings"

	domain "github.com/example/todo-api/domain/user"
	"github.com/example/todo-api/modules/auth"
	"github.com/example/todo-api/modules/task"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
	"github.com/gofiber/fiber/v2"
)

// Handlers contains HTTP handlers for the API. Each handler obtains the
// owner identity from the verified claims placed in the context by the auth
// middleware, invokes exactly one task or auth service, and translates the
// outcome into a transport status.
type Handlers struct {
	authContainer mono.ServiceContainer
	tasks         task.TaskPort
	authAdapter   auth.AuthPort
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(authContainer mono.ServiceContainer, tasks task.TaskPort, authAdapter auth.AuthPort) *Handlers {
	return &Handlers{
		authContainer: authContainer,
		tasks:         tasks,
		authAdapter:   authAdapter,
	}
}

// Signup handles user registration.
func (h *Handlers) Signup(c *fiber.Ctx) error {
	var body SignupBody
	if err := c.BodyParser(&body); err != nil {
		return badRequest(c, "Invalid request body")
	}

	if body.Email == "" || body.Password == "" {
		return badRequest(c, "Email and password are required")
	}

	req := auth.SignupRequest{
		Email:    body.Email,
		Name:     body.Name,
		Password: body.Password,
	}
	var resp auth.TokenResponse

	if err := helper.CallRequestReplyService(
		c.UserContext(),
		h.authContainer,
		"signup",
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		return h.handleAuthError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(resp)
}

// Signin handles user signin.
func (h *Handlers) Signin(c *fiber.Ctx) error {
	var body SigninBody
	if err := c.BodyParser(&body); err != nil {
		return badRequest(c, "Invalid request body")
	}

	if body.Email == "" || body.Password == "" {
		return badRequest(c, "Email and password are required")
	}

	req := auth.SigninRequest{
		Email:    body.Email,
		Password: body.Password,
	}
	var resp auth.TokenResponse

	if err := helper.CallRequestReplyService(
		c.UserContext(),
		h.authContainer,
		"signin",
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		return h.handleAuthError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(resp)
}

// Me returns the authenticated user's profile.
func (h *Handlers) Me(c *fiber.Ctx) error {
	claims, ok := claimsFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	user, err := h.authAdapter.GetUser(c.UserContext(), claims.UserID)
	if err != nil {
		log.Printf("[api] Failed to load profile: %v", err)
		return internalError(c)
	}

	return c.Status(fiber.StatusOK).JSON(auth.UserPayload{
		ID:        user.ID,
		Email:     user.Email,
		Name:      user.Name,
		CreatedAt: user.CreatedAt,
	})
}

// Signout acknowledges a signout. Tokens are stateless, so there is nothing
// to revoke server-side; clients drop the token.
func (h *Handlers) Signout(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status":  "success",
		"message": "Signed out successfully",
	})
}

// CreateTask handles POST /api/tasks.
func (h *Handlers) CreateTask(c *fiber.Ctx) error {
	claims, ok := claimsFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	var body CreateTaskBody
	if err := c.BodyParser(&body); err != nil {
		return badRequest(c, "Invalid request body")
	}

	resp, err := h.tasks.Create(c.UserContext(), task.CreateTaskRequest{
		OwnerID:     claims.UserID,
		Title:       body.Title,
		Description: body.Description,
		Completed:   body.Completed,
	})
	if err != nil {
		return h.handleTaskError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(resp)
}

// ListTasks handles GET /api/tasks.
func (h *Handlers) ListTasks(c *fiber.Ctx) error {
	claims, ok := claimsFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	resp, err := h.tasks.List(c.UserContext(), task.ListTasksRequest{
		OwnerID: claims.UserID,
		Status:  c.Query("status", task.StatusAll),
		Sort:    c.Query("sort", task.SortCreated),
		Offset:  queryInt(c, "offset", 0),
		Limit:   queryInt(c, "limit", task.DefaultListLimit),
	})
	if err != nil {
		return h.handleTaskError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(resp)
}

// GetTask handles GET /api/tasks/:id.
func (h *Handlers) GetTask(c *fiber.Ctx) error {
	claims, ok := claimsFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	resp, err := h.tasks.Get(c.UserContext(), task.GetTaskRequest{
		OwnerID: claims.UserID,
		ID:      c.Params("id"),
	})
	if err != nil {
		return h.handleTaskError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(resp)
}

// UpdateTask handles PUT and PATCH /api/tasks/:id.
func (h *Handlers) UpdateTask(c *fiber.Ctx) error {
	claims, ok := claimsFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	var body UpdateTaskBody
	if err := c.BodyParser(&body); err != nil {
		return badRequest(c, "Invalid request body")
	}

	resp, err := h.tasks.Update(c.UserContext(), task.UpdateTaskRequest{
		OwnerID: claims.UserID,
		ID:      c.Params("id"),
		Patch: task.Patch{
			Title:       body.Title,
			Description: body.Description,
			Completed:   body.Completed,
		},
	})
	if err != nil {
		return h.handleTaskError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(resp)
}

// CompleteTask handles PATCH /api/tasks/:id/complete.
func (h *Handlers) CompleteTask(c *fiber.Ctx) error {
	claims, ok := claimsFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	completed := true
	resp, err := h.tasks.Update(c.UserContext(), task.UpdateTaskRequest{
		OwnerID: claims.UserID,
		ID:      c.Params("id"),
		Patch: task.Patch{
			Completed: &completed,
		},
	})
	if err != nil {
		return h.handleTaskError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(resp)
}

// DeleteTask handles DELETE /api/tasks/:id.
func (h *Handlers) DeleteTask(c *fiber.Ctx) error {
	claims, ok := claimsFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	_, err := h.tasks.Delete(c.UserContext(), task.DeleteTaskRequest{
		OwnerID: claims.UserID,
		ID:      c.Params("id"),
	})
	if err != nil {
		return h.handleTaskError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// handleAuthError translates auth service failures into responses without
// exposing internals.
func (h *Handlers) handleAuthError(c *fiber.Ctx, err error) error {
	errStr := err.Error()

	switch {
	case strings.Contains(errStr, "invalid email or password"):
		return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
			Error:   "unauthorized",
			Message: "Invalid email or password",
		})
	case strings.Contains(errStr, "user with this email already exists"):
		return badRequest(c, "Email already registered")
	case strings.Contains(errStr, "invalid email format"):
		return badRequest(c, "Invalid email format")
	case strings.Contains(errStr, "password must be at least"):
		return badRequest(c, "Password must be at least 8 characters")
	case strings.Contains(errStr, "password must be at most"):
		return badRequest(c, "Password must be at most 72 characters")
	default:
		log.Printf("[api] Internal error: %v", err)
		return internalError(c)
	}
}

// handleTaskError translates task service failures into responses. Status
// mapping lives only here so it stays testable in one place.
func (h *Handlers) handleTaskError(c *fiber.Ctx, err error) error {
	errStr := err.Error()

	switch {
	case strings.Contains(errStr, "task not found"):
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{
			Error:   "not_found",
			Message: "Task not found",
		})
	case strings.Contains(errStr, "title is required"):
		return badRequest(c, "Title is required")
	case strings.Contains(errStr, "status must be one of"):
		return badRequest(c, "Status must be one of: all, pending, completed")
	default:
		log.Printf("[api] Internal error: %v", err)
		return internalError(c)
	}
}

// claimsFromContext returns the verified claims stored by the auth
// middleware.
func claimsFromContext(c *fiber.Ctx) (*domain.Claims, bool) {
	claims, ok := c.Locals(UserContextKey).(*domain.Claims)
	return claims, ok
}

// queryInt parses an integer query parameter with a fallback.
func queryInt(c *fiber.Ctx, key string, fallback int) int {
	value := c.Query(key)
	if value == "" {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return n
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
		Error:   "bad_request",
		Message: message,
	})
}

func internalError(c *fiber.Ctx) error {
	return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
		Error:   "internal_error",
		Message: "An internal error occurred",
	})
}
