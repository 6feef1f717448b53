package task

import (
	"time"
)

// Status filter values accepted by the list operation.
const (
	StatusAll       = "all"
	StatusPending   = "pending"
	StatusCompleted = "completed"
)

// Sort orders accepted by the list operation.
const (
	SortCreated = "created"
	SortUpdated = "updated"
	SortTitle   = "title"
)

// DefaultListLimit is used when a list request does not specify a limit.
const DefaultListLimit = 100

// ListFilter narrows and pages a list query. The owner is not part of the
// filter: it is a mandatory separate parameter on every operation.
type ListFilter struct {
	Status string
	Sort   string
	Offset int
	Limit  int
}

// Patch holds the fields an update may change. Nil fields are left
// untouched. The task id and owner are deliberately absent: they are
// immutable.
type Patch struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Completed   *bool   `json:"completed"`
}

// CreateTaskRequest represents a task.create service request.
type CreateTaskRequest struct {
	OwnerID     string `json:"owner_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Completed   bool   `json:"completed"`
}

// TaskResponse represents a single task over the service boundary.
type TaskResponse struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Completed   bool      `json:"completed"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ListTasksRequest represents a task.list service request.
type ListTasksRequest struct {
	OwnerID string `json:"owner_id"`
	Status  string `json:"status"`
	Sort    string `json:"sort"`
	Offset  int    `json:"offset"`
	Limit   int    `json:"limit"`
}

// ListTasksResponse represents a task.list service response. Total is the
// owner-scoped task count before the status filter.
type ListTasksResponse struct {
	Items  []TaskResponse `json:"items"`
	Total  int64          `json:"total"`
	Limit  int            `json:"limit"`
	Offset int            `json:"offset"`
}

// GetTaskRequest represents a task.get service request.
type GetTaskRequest struct {
	OwnerID string `json:"owner_id"`
	ID      string `json:"id"`
}

// UpdateTaskRequest represents a task.update service request.
type UpdateTaskRequest struct {
	OwnerID string `json:"owner_id"`
	ID      string `json:"id"`
	Patch   Patch  `json:"patch"`
}

// DeleteTaskRequest represents a task.delete service request.
type DeleteTaskRequest struct {
	OwnerID string `json:"owner_id"`
	ID      string `json:"id"`
}

// DeleteTaskResponse represents a task.delete service response.
type DeleteTaskResponse struct {
	Deleted bool   `json:"deleted"`
	ID      string `json:"id"`
}
