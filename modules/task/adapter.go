package task

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// TaskPort is the contract other modules program against to reach task
// operations. Consumers depend on this interface, never on the task
// module's internals, so tests can substitute their own implementation.
type TaskPort interface {
	Create(ctx context.Context, req CreateTaskRequest) (*TaskResponse, error)
	List(ctx context.Context, req ListTasksRequest) (*ListTasksResponse, error)
	Get(ctx context.Context, req GetTaskRequest) (*TaskResponse, error)
	Update(ctx context.Context, req UpdateTaskRequest) (*TaskResponse, error)
	Delete(ctx context.Context, req DeleteTaskRequest) (*DeleteTaskResponse, error)
}

// TaskAdapter satisfies TaskPort by calling the services the task module
// registered in its container.
type TaskAdapter struct {
	container mono.ServiceContainer
}

// NewTaskAdapter creates an adapter over the task service container.
func NewTaskAdapter(container mono.ServiceContainer) *TaskAdapter {
	return &TaskAdapter{container: container}
}

// call performs one request-reply round trip against a named task service.
func call[Req any, Resp any](ctx context.Context, a *TaskAdapter, service string, req Req, resp *Resp) error {
	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		service,
		json.Marshal,
		json.Unmarshal,
		req,
		resp,
	); err != nil {
		return fmt.Errorf("%s request failed: %w", service, err)
	}
	return nil
}

// Create creates a task for the owner carried in the request.
func (a *TaskAdapter) Create(ctx context.Context, req CreateTaskRequest) (*TaskResponse, error) {
	var resp TaskResponse
	if err := call(ctx, a, "task.create", &req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// List returns the owner's tasks for the given filter.
func (a *TaskAdapter) List(ctx context.Context, req ListTasksRequest) (*ListTasksResponse, error) {
	var resp ListTasksResponse
	if err := call(ctx, a, "task.list", &req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Get returns one of the owner's tasks by id.
func (a *TaskAdapter) Get(ctx context.Context, req GetTaskRequest) (*TaskResponse, error) {
	var resp TaskResponse
	if err := call(ctx, a, "task.get", &req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Update patches one of the owner's tasks.
func (a *TaskAdapter) Update(ctx context.Context, req UpdateTaskRequest) (*TaskResponse, error) {
	var resp TaskResponse
	if err := call(ctx, a, "task.update", &req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Delete removes one of the owner's tasks.
func (a *TaskAdapter) Delete(ctx context.Context, req DeleteTaskRequest) (*DeleteTaskResponse, error) {
	var resp DeleteTaskResponse
	if err := call(ctx, a, "task.delete", &req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
