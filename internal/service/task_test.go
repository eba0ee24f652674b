package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"todo-sheets/internal/model"
	"todo-sheets/internal/repo"
)

type MockTaskRepository struct {
	mock.Mock
}

func (m *MockTaskRepository) ListAll(ctx context.Context) ([]model.Task, error) {
	args := m.Called(ctx)
	return args.Get(0).([]model.Task), args.Error(1)
}

func (m *MockTaskRepository) ListFiltered(ctx context.Context, filter model.StatusFilter) ([]model.Task, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]model.Task), args.Error(1)
}

func (m *MockTaskRepository) Add(ctx context.Context, title, content, dueDate string, priority model.Priority) (model.Task, error) {
	args := m.Called(ctx, title, content, dueDate, priority)
	return args.Get(0).(model.Task), args.Error(1)
}

func (m *MockTaskRepository) Update(ctx context.Context, row int, title, content, dueDate string, priority model.Priority) error {
	args := m.Called(ctx, row, title, content, dueDate, priority)
	return args.Error(0)
}

func (m *MockTaskRepository) Complete(ctx context.Context, row int) error {
	args := m.Called(ctx, row)
	return args.Error(0)
}

func (m *MockTaskRepository) Delete(ctx context.Context, row int) error {
	args := m.Called(ctx, row)
	return args.Error(0)
}

func fixedService(m *MockTaskRepository, now time.Time) *TaskService {
	s := NewTaskService(m)
	s.now = func() time.Time { return now }
	return s
}

func TestTaskService_AddValidation(t *testing.T) {
	tests := []struct {
		name      string
		title     string
		priority  string
		setupMock func(*MockTaskRepository)
		wantErr   error
	}{
		{
			name:     "valid task",
			title:    "  Buy milk  ",
			priority: "high",
			setupMock: func(m *MockTaskRepository) {
				m.On("Add", mock.Anything, "Buy milk", "", "", model.PriorityHigh).
					Return(model.Task{ID: "1", Title: "Buy milk"}, nil)
			},
		},
		{
			name:      "empty title",
			title:     "",
			priority:  "high",
			setupMock: func(m *MockTaskRepository) {},
			wantErr:   ErrValidation,
		},
		{
			name:      "whitespace title",
			title:     "   ",
			priority:  "high",
			setupMock: func(m *MockTaskRepository) {},
			wantErr:   ErrValidation,
		},
		{
			name:     "unknown priority defaults to medium",
			title:    "Task",
			priority: "urgent",
			setupMock: func(m *MockTaskRepository) {
				m.On("Add", mock.Anything, "Task", "", "", model.PriorityMedium).
					Return(model.Task{ID: "1", Title: "Task"}, nil)
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			mockRepo := new(MockTaskRepository)
			tc.setupMock(mockRepo)
			svc := NewTaskService(mockRepo)

			_, err := svc.Add(context.Background(), tc.title, "", "", tc.priority)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
			} else {
				assert.NoError(t, err)
			}
			mockRepo.AssertExpectations(t)
		})
	}
}

func TestTaskService_UpdateValidation(t *testing.T) {
	mockRepo := new(MockTaskRepository)
	svc := NewTaskService(mockRepo)

	err := svc.Update(context.Background(), 2, "  ", "content", "", "low")
	assert.ErrorIs(t, err, ErrValidation)
	mockRepo.AssertNotCalled(t, "Update")
}

func TestTaskService_ListPagePriorityFilter(t *testing.T) {
	mockRepo := new(MockTaskRepository)
	mockRepo.On("ListFiltered", mock.Anything, model.FilterOpen).Return([]model.Task{
		{ID: "1", Title: "High", Priority: model.PriorityHigh},
		{ID: "2", Title: "Low", Priority: model.PriorityLow},
		{ID: "3", Title: "Medium", Priority: model.PriorityMedium},
	}, nil)

	svc := NewTaskService(mockRepo)
	got, err := svc.ListPage(context.Background(), ListQuery{
		Status:   model.FilterOpen,
		Priority: ParsePriorityFilter("low"),
		Due:      DueAll,
		Sort:     SortByPriority,
	})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Low", got[0].Title)
}

func TestTaskService_ListPageDueBuckets(t *testing.T) {
	now := time.Date(2025, 1, 7, 12, 0, 0, 0, time.UTC)
	tasks := []model.Task{
		{ID: "1", Title: "today", DueDate: "2025-01-07"},
		{ID: "2", Title: "in three days", DueDate: "2025-01-10"},
		{ID: "3", Title: "in three weeks", DueDate: "2025-01-28"},
		{ID: "4", Title: "overdue", DueDate: "2025-01-01"},
		{ID: "5", Title: "unset"},
	}

	cases := []struct {
		due  string
		want []string
	}{
		{"today", []string{"today"}},
		{"this-week", []string{"today", "in three days"}},
		{"this-month", []string{"today", "in three days", "in three weeks"}},
		{"overdue", []string{"overdue"}},
		{"unset", []string{"unset"}},
		{"all", []string{"today", "in three days", "in three weeks", "overdue", "unset"}},
	}

	for _, tc := range cases {
		t.Run(tc.due, func(t *testing.T) {
			mockRepo := new(MockTaskRepository)
			mockRepo.On("ListFiltered", mock.Anything, model.FilterAll).
				Return(append([]model.Task(nil), tasks...), nil)

			svc := fixedService(mockRepo, now)
			got, err := svc.ListPage(context.Background(), ListQuery{
				Status:   model.FilterAll,
				Priority: PriorityAll,
				Due:      ParseDueFilter(tc.due),
				Sort:     SortByDueDate,
			})
			require.NoError(t, err)

			titles := make([]string, 0, len(got))
			for _, task := range got {
				titles = append(titles, task.Title)
			}
			assert.ElementsMatch(t, tc.want, titles)
		})
	}
}

func TestTaskService_SortOrders(t *testing.T) {
	buyMilk := model.Task{ID: "1", Title: "Buy milk", DueDate: "2025-01-10", Priority: model.PriorityHigh}
	writeReport := model.Task{ID: "2", Title: "Write report", DueDate: "2025-01-05", Priority: model.PriorityLow}
	noDue := model.Task{ID: "3", Title: "No due date", Priority: model.PriorityMedium}

	t.Run("priority descending, due date breaks ties", func(t *testing.T) {
		mockRepo := new(MockTaskRepository)
		mockRepo.On("ListFiltered", mock.Anything, model.FilterAll).
			Return([]model.Task{writeReport, noDue, buyMilk}, nil)

		svc := NewTaskService(mockRepo)
		got, err := svc.ListPage(context.Background(), ListQuery{
			Status: model.FilterAll, Priority: PriorityAll, Due: DueAll, Sort: SortByPriority,
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"Buy milk", "No due date", "Write report"}, titlesOf(got))
	})

	t.Run("due date ascending, empty dates last", func(t *testing.T) {
		mockRepo := new(MockTaskRepository)
		mockRepo.On("ListFiltered", mock.Anything, model.FilterAll).
			Return([]model.Task{noDue, buyMilk, writeReport}, nil)

		svc := NewTaskService(mockRepo)
		got, err := svc.ListPage(context.Background(), ListQuery{
			Status: model.FilterAll, Priority: PriorityAll, Due: DueAll, Sort: SortByDueDate,
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"Write report", "Buy milk", "No due date"}, titlesOf(got))
	})

	t.Run("same due date sorts high priority first", func(t *testing.T) {
		low := model.Task{ID: "1", Title: "low", DueDate: "2025-01-10", Priority: model.PriorityLow}
		high := model.Task{ID: "2", Title: "high", DueDate: "2025-01-10", Priority: model.PriorityHigh}

		mockRepo := new(MockTaskRepository)
		mockRepo.On("ListFiltered", mock.Anything, model.FilterAll).
			Return([]model.Task{low, high}, nil)

		svc := NewTaskService(mockRepo)
		got, err := svc.ListPage(context.Background(), ListQuery{
			Status: model.FilterAll, Priority: PriorityAll, Due: DueAll, Sort: SortByDueDate,
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"high", "low"}, titlesOf(got))
	})
}

func TestTaskService_Get(t *testing.T) {
	mockRepo := new(MockTaskRepository)
	mockRepo.On("ListFiltered", mock.Anything, model.FilterAll).Return([]model.Task{
		{ID: "1", Row: 2, Title: "First"},
		{ID: "2", Row: 3, Title: "Second"},
	}, nil)

	svc := NewTaskService(mockRepo)

	task, err := svc.Get(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, "Second", task.Title)

	_, err = svc.Get(context.Background(), 99)
	assert.ErrorIs(t, err, repo.ErrTaskNotFound)
}

func titlesOf(tasks []model.Task) []string {
	out := make([]string, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, t.Title)
	}
	return out
}
