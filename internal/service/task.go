package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"todo-sheets/internal/model"
	"todo-sheets/internal/repo"
)

var (
	ErrValidation = errors.New("validation error")
)

// Empty due dates sort last under SortByDueDate.
const dueDateSentinel = "9999-12-31"

// SortOrder names one of the two listing sort orders.
type SortOrder string

const (
	SortByPriority SortOrder = "priority"
	SortByDueDate  SortOrder = "due_date"
)

func ParseSortOrder(s string) SortOrder {
	if SortOrder(s) == SortByDueDate {
		return SortByDueDate
	}
	return SortByPriority
}

// DueFilter buckets tasks by due date relative to today.
type DueFilter string

const (
	DueAll       DueFilter = "all"
	DueToday     DueFilter = "today"
	DueThisWeek  DueFilter = "this-week"
	DueThisMonth DueFilter = "this-month"
	DueOverdue   DueFilter = "overdue"
	DueUnset     DueFilter = "unset"
)

func ParseDueFilter(s string) DueFilter {
	switch DueFilter(s) {
	case DueToday, DueThisWeek, DueThisMonth, DueOverdue, DueUnset:
		return DueFilter(s)
	default:
		return DueAll
	}
}

// PriorityFilter is either an exact priority or "all".
type PriorityFilter string

const PriorityAll PriorityFilter = "all"

func ParsePriorityFilter(s string) PriorityFilter {
	switch model.Priority(s) {
	case model.PriorityHigh, model.PriorityMedium, model.PriorityLow:
		return PriorityFilter(s)
	default:
		return PriorityAll
	}
}

// ListQuery carries the listing view's filter and sort parameters.
type ListQuery struct {
	Status   model.StatusFilter
	Priority PriorityFilter
	Due      DueFilter
	Sort     SortOrder
}

type TaskService struct {
	repo repo.TaskRepository
	now  func() time.Time
}

func NewTaskService(repo repo.TaskRepository) *TaskService {
	return &TaskService{repo: repo, now: time.Now}
}

// ListPage returns the tasks for one listing view: status filter via
// the repository, then priority and due-date filters, then sorting.
func (s *TaskService) ListPage(ctx context.Context, q ListQuery) ([]model.Task, error) {
	tasks, err := s.repo.ListFiltered(ctx, q.Status)
	if err != nil {
		return nil, err
	}

	tasks = filterByPriority(tasks, q.Priority)
	tasks = s.filterByDue(tasks, q.Due)
	sortTasks(tasks, q.Sort)
	return tasks, nil
}

// Get finds a task by its row handle, searching all tasks regardless
// of status.
func (s *TaskService) Get(ctx context.Context, row int) (model.Task, error) {
	tasks, err := s.repo.ListFiltered(ctx, model.FilterAll)
	if err != nil {
		return model.Task{}, err
	}
	for _, t := range tasks {
		if t.Row == row {
			return t, nil
		}
	}
	return model.Task{}, repo.ErrTaskNotFound
}

func (s *TaskService) Add(ctx context.Context, title, content, dueDate, priority string) (model.Task, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return model.Task{}, ErrValidation
	}
	return s.repo.Add(ctx, title, strings.TrimSpace(content), strings.TrimSpace(dueDate), model.ParsePriority(priority))
}

func (s *TaskService) Update(ctx context.Context, row int, title, content, dueDate, priority string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return ErrValidation
	}
	return s.repo.Update(ctx, row, title, strings.TrimSpace(content), strings.TrimSpace(dueDate), model.ParsePriority(priority))
}

func (s *TaskService) Complete(ctx context.Context, row int) error {
	return s.repo.Complete(ctx, row)
}

func (s *TaskService) Delete(ctx context.Context, row int) error {
	return s.repo.Delete(ctx, row)
}

func filterByPriority(tasks []model.Task, f PriorityFilter) []model.Task {
	if f == PriorityAll {
		return tasks
	}
	out := tasks[:0]
	for _, t := range tasks {
		if t.Priority == model.Priority(f) {
			out = append(out, t)
		}
	}
	return out
}

// filterByDue keeps tasks in the requested bucket. Comparisons are
// lexical on YYYY-MM-DD strings.
func (s *TaskService) filterByDue(tasks []model.Task, f DueFilter) []model.Task {
	if f == DueAll {
		return tasks
	}

	today := s.now().Format("2006-01-02")
	weekEnd := s.now().AddDate(0, 0, 7).Format("2006-01-02")
	monthEnd := s.now().AddDate(0, 0, 30).Format("2006-01-02")

	out := tasks[:0]
	for _, t := range tasks {
		keep := false
		switch f {
		case DueToday:
			keep = t.DueDate == today
		case DueThisWeek:
			keep = t.DueDate != "" && t.DueDate >= today && t.DueDate <= weekEnd
		case DueThisMonth:
			keep = t.DueDate != "" && t.DueDate >= today && t.DueDate <= monthEnd
		case DueOverdue:
			keep = t.DueDate != "" && t.DueDate < today
		case DueUnset:
			keep = t.DueDate == ""
		}
		if keep {
			out = append(out, t)
		}
	}
	return out
}

func sortTasks(tasks []model.Task, order SortOrder) {
	switch order {
	case SortByDueDate:
		// earliest first, empty dates last, ties high priority first
		sort.SliceStable(tasks, func(i, j int) bool {
			di, dj := tasks[i].DueDate, tasks[j].DueDate
			if di == "" {
				di = dueDateSentinel
			}
			if dj == "" {
				dj = dueDateSentinel
			}
			if di != dj {
				return di < dj
			}
			return tasks[i].Priority.Rank() > tasks[j].Priority.Rank()
		})
	default:
		// high priority first, ties latest due date first
		sort.SliceStable(tasks, func(i, j int) bool {
			ri, rj := tasks[i].Priority.Rank(), tasks[j].Priority.Rank()
			if ri != rj {
				return ri > rj
			}
			return tasks[i].DueDate > tasks[j].DueDate
		})
	}
}
