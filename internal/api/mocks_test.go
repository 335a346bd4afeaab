package api

import (
	"context"

	"github.com/phrazzld/task-api/internal/domain"
	"github.com/phrazzld/task-api/internal/service"
	"github.com/stretchr/testify/mock"
)

// MockTaskService mocks the service.TaskService interface
type MockTaskService struct {
	mock.Mock
}

var _ service.TaskService = (*MockTaskService)(nil)

func (m *MockTaskService) RegisterTask(
	ctx context.Context,
	input service.RegisterTaskInput,
) (*domain.Task, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Task), args.Error(1)
}

func (m *MockTaskService) FindTask(ctx context.Context) ([]*domain.Task, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Task), args.Error(1)
}

func (m *MockTaskService) FindTaskPage(ctx context.Context, page, size int) (*service.TaskPage, error) {
	args := m.Called(ctx, page, size)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.TaskPage), args.Error(1)
}

func (m *MockTaskService) DetailTaskByID(ctx context.Context, id int64) (*domain.Task, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Task), args.Error(1)
}

func (m *MockTaskService) UpdateTaskDetails(
	ctx context.Context,
	id int64,
	input service.UpdateTaskInput,
) (*domain.Task, error) {
	args := m.Called(ctx, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Task), args.Error(1)
}

func (m *MockTaskService) UpdateTaskBulkCompleted(
	ctx context.Context,
	input service.UpdateTaskBulkCompletedInput,
) error {
	args := m.Called(ctx, input)
	return args.Error(0)
}

func (m *MockTaskService) DeleteTaskBulk(ctx context.Context, input service.DeleteTaskBulkInput) error {
	args := m.Called(ctx, input)
	return args.Error(0)
}

// MockHealthService mocks the service.HealthService interface
type MockHealthService struct {
	mock.Mock
}

func (m *MockHealthService) CheckUpTime(ctx context.Context) (service.HealthStatus, error) {
	args := m.Called(ctx)
	return args.Get(0).(service.HealthStatus), args.Error(1)
}
