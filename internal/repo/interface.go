package repo

import (
	"context"

	"todo-sheets/internal/model"
)

// TaskRepository is the surface the view layer consumes.
type TaskRepository interface {
	ListAll(ctx context.Context) ([]model.Task, error)
	ListFiltered(ctx context.Context, filter model.StatusFilter) ([]model.Task, error)
	Add(ctx context.Context, title, content, dueDate string, priority model.Priority) (model.Task, error)
	Update(ctx context.Context, row int, title, content, dueDate string, priority model.Priority) error
	Complete(ctx context.Context, row int) error
	Delete(ctx context.Context, row int) error
}
