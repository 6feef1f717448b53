package task

import (
	"context"
	"errors"
	"fmt"

	domain "github.com/example/todo-api/domain/task"
	"gorm.io/gorm"
)

// Repository provides database operations for tasks.
//
// Every query and mutation is conjunctive on the owner: the predicate is
// always (user_id = owner AND ...), never the task id alone. Ownership is
// therefore checked by the store atomically with the read or write, and a
// task belonging to another user is indistinguishable from one that does
// not exist.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new task repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new task.
func (r *Repository) Create(ctx context.Context, task *domain.Task) error {
	if err := r.db.WithContext(ctx).Create(task).Error; err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}
	return nil
}

// GetByID retrieves the task with the given id owned by ownerID.
// Returns (nil, nil) when no such task exists for this owner.
func (r *Repository) GetByID(ctx context.Context, ownerID, id string) (*domain.Task, error) {
	var task domain.Task
	err := r.db.WithContext(ctx).First(&task, "id = ? AND user_id = ?", id, ownerID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get task: %w", err)
	}
	return &task, nil
}

// List retrieves the owner's tasks matching the filter, plus the owner's
// total task count. The owner predicate is applied first; the status filter
// narrows within that set. The returned total is the owner-scoped count
// before the status filter, so pagination UIs can show "N of M".
func (r *Repository) List(ctx context.Context, ownerID string, filter ListFilter) ([]domain.Task, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&domain.Task{}).
		Where("user_id = ?", ownerID).
		Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count tasks: %w", err)
	}

	query := r.db.WithContext(ctx).Where("user_id = ?", ownerID)

	switch filter.Status {
	case StatusCompleted:
		query = query.Where("completed = ?", true)
	case StatusPending:
		query = query.Where("completed = ?", false)
	}

	switch filter.Sort {
	case SortTitle:
		query = query.Order("title ASC")
	case SortUpdated:
		query = query.Order("updated_at DESC")
	default:
		query = query.Order("created_at DESC")
	}

	if filter.Limit > 0 {
		query = query.Offset(filter.Offset).Limit(filter.Limit)
	}

	tasks := make([]domain.Task, 0)
	if err := query.Find(&tasks).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list tasks: %w", err)
	}

	return tasks, total, nil
}

// Update applies the given column changes to the task with the given id
// owned by ownerID, as a single conditional UPDATE statement. Returns the
// fresh row, or (nil, nil) when no owner-scoped row matched.
func (r *Repository) Update(ctx context.Context, ownerID, id string, changes map[string]any) (*domain.Task, error) {
	result := r.db.WithContext(ctx).Model(&domain.Task{}).
		Where("id = ? AND user_id = ?", id, ownerID).
		Updates(changes)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to update task: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, nil
	}

	return r.GetByID(ctx, ownerID, id)
}

// Delete removes the task with the given id owned by ownerID. Returns false
// when no owner-scoped row matched; deleting twice is a no-op the second
// time.
func (r *Repository) Delete(ctx context.Context, ownerID, id string) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, ownerID).
		Delete(&domain.Task{})
	if result.Error != nil {
		return false, fmt.Errorf("failed to delete task: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

// Migrate runs database migrations for the task table.
func (r *Repository) Migrate() error {
	return r.db.AutoMigrate(&domain.Task{})
}
