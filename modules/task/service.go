package task

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	domain "github.com/example/todo-api/domain/task"
	"github.com/example/todo-api/modules/cache"
	"github.com/google/uuid"
)

var (
	// ErrTitleRequired is returned when a task is created or patched with an
	// empty title.
	ErrTitleRequired = errors.New("title is required")
	// ErrInvalidStatus is returned when the list status filter is not one of
	// all, pending or completed.
	ErrInvalidStatus = errors.New("status must be one of: all, pending, completed")
)

// Service is the only code path allowed to touch the task store. Every
// operation takes the owner identity as an explicit parameter; callers must
// derive it from a verified token, never from request input. A single
// instance serves all requests concurrently and holds no per-request state.
type Service struct {
	repo  *Repository
	cache *cache.Cache // optional; nil disables caching
}

// NewService creates a new task service. cache may be nil.
func NewService(repo *Repository, c *cache.Cache) *Service {
	return &Service{
		repo:  repo,
		cache: c,
	}
}

// Create inserts a new task owned by ownerID. The owner is always stamped
// from the parameter regardless of anything else in the request.
func (s *Service) Create(ctx context.Context, ownerID, title, description string, completed bool) (*domain.Task, error) {
	if strings.TrimSpace(title) == "" {
		return nil, ErrTitleRequired
	}

	now := time.Now()
	task := &domain.Task{
		ID:          uuid.New().String(),
		UserID:      ownerID,
		Title:       title,
		Description: description,
		Completed:   completed,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, task); err != nil {
		return nil, err
	}

	s.invalidateOwner(ctx, ownerID)
	return task, nil
}

// List returns the owner's tasks for the given filter plus the owner's
// total task count (before the status filter).
func (s *Service) List(ctx context.Context, ownerID string, filter ListFilter) ([]domain.Task, int64, error) {
	switch filter.Status {
	case "", StatusAll:
		filter.Status = StatusAll
	case StatusPending, StatusCompleted:
	default:
		return nil, 0, ErrInvalidStatus
	}

	switch filter.Sort {
	case SortUpdated, SortTitle:
	default:
		filter.Sort = SortCreated
	}

	if filter.Limit <= 0 {
		filter.Limit = DefaultListLimit
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	type cachedList struct {
		Items []domain.Task `json:"items"`
		Total int64         `json:"total"`
	}

	key := fmt.Sprintf("%s:list:%s:%s:%d:%d", ownerID, filter.Status, filter.Sort, filter.Offset, filter.Limit)
	if s.cache != nil {
		var cached cachedList
		hit, err := s.cache.Get(ctx, key, &cached)
		if err != nil {
			log.Printf("[task] cache get failed: %v", err)
		} else if hit {
			return cached.Items, cached.Total, nil
		}
	}

	items, total, err := s.repo.List(ctx, ownerID, filter)
	if err != nil {
		return nil, 0, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, cachedList{Items: items, Total: total}); err != nil {
			log.Printf("[task] cache set failed: %v", err)
		}
	}

	return items, total, nil
}

// Get returns the owner's task with the given id, or (nil, nil) when no
// such task exists for this owner. Absence is indistinguishable from a task
// owned by someone else.
func (s *Service) Get(ctx context.Context, ownerID, id string) (*domain.Task, error) {
	key := ownerID + ":id:" + id
	if s.cache != nil {
		var cached domain.Task
		hit, err := s.cache.Get(ctx, key, &cached)
		if err != nil {
			log.Printf("[task] cache get failed: %v", err)
		} else if hit {
			return &cached, nil
		}
	}

	task, err := s.repo.GetByID(ctx, ownerID, id)
	if err != nil || task == nil {
		return task, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, task); err != nil {
			log.Printf("[task] cache set failed: %v", err)
		}
	}

	return task, nil
}

// Update applies the patch to the owner's task with the given id. Only
// non-nil patch fields are changed; owner and id are never mutable. Returns
// (nil, nil) when no owner-scoped task matched.
func (s *Service) Update(ctx context.Context, ownerID, id string, patch Patch) (*domain.Task, error) {
	changes := make(map[string]any)
	if patch.Title != nil {
		if strings.TrimSpace(*patch.Title) == "" {
			return nil, ErrTitleRequired
		}
		changes["title"] = *patch.Title
	}
	if patch.Description != nil {
		changes["description"] = *patch.Description
	}
	if patch.Completed != nil {
		changes["completed"] = *patch.Completed
	}

	if len(changes) == 0 {
		// Nothing to change; still an ownership-scoped lookup.
		return s.repo.GetByID(ctx, ownerID, id)
	}
	changes["updated_at"] = time.Now()

	task, err := s.repo.Update(ctx, ownerID, id, changes)
	if err != nil || task == nil {
		return task, err
	}

	s.invalidateOwner(ctx, ownerID)
	return task, nil
}

// Delete removes the owner's task with the given id. Returns false when no
// owner-scoped task matched; no error, no side effect in that case.
func (s *Service) Delete(ctx context.Context, ownerID, id string) (bool, error) {
	deleted, err := s.repo.Delete(ctx, ownerID, id)
	if err != nil {
		return false, err
	}
	if deleted {
		s.invalidateOwner(ctx, ownerID)
	}
	return deleted, nil
}

// invalidateOwner drops every cached entry belonging to the owner after a
// write. Cache failures are logged, never surfaced: the store is the source
// of truth.
func (s *Service) invalidateOwner(ctx context.Context, ownerID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeletePattern(ctx, ownerID+":*"); err != nil {
		log.Printf("[task] cache invalidation failed: %v", err)
	}
}
