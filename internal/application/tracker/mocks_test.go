package tracker

import (
	"context"

	"github.com/hexlet/taskmanager/internal/domain/identity"
	"github.com/hexlet/taskmanager/internal/domain/tracker"
	"github.com/stretchr/testify/mock"
)

// MockTaskStatusRepository is a mock implementation of tracker.TaskStatusRepository
type MockTaskStatusRepository struct {
	mock.Mock
}

func (m *MockTaskStatusRepository) Create(ctx context.Context, status *tracker.TaskStatus) error {
	return m.Called(ctx, status).Error(0)
}

func (m *MockTaskStatusRepository) Update(ctx context.Context, status *tracker.TaskStatus) error {
	return m.Called(ctx, status).Error(0)
}

func (m *MockTaskStatusRepository) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockTaskStatusRepository) FindByID(ctx context.Context, id int64) (*tracker.TaskStatus, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tracker.TaskStatus), args.Error(1)
}

func (m *MockTaskStatusRepository) FindBySlug(ctx context.Context, slug string) (*tracker.TaskStatus, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tracker.TaskStatus), args.Error(1)
}

func (m *MockTaskStatusRepository) FindAll(ctx context.Context) ([]*tracker.TaskStatus, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*tracker.TaskStatus), args.Error(1)
}

func (m *MockTaskStatusRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	args := m.Called(ctx, name)
	return args.Bool(0), args.Error(1)
}

func (m *MockTaskStatusRepository) ExistsBySlug(ctx context.Context, slug string) (bool, error) {
	args := m.Called(ctx, slug)
	return args.Bool(0), args.Error(1)
}

func (m *MockTaskStatusRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// MockLabelRepository is a mock implementation of tracker.LabelRepository
type MockLabelRepository struct {
	mock.Mock
}

func (m *MockLabelRepository) Create(ctx context.Context, label *tracker.Label) error {
	return m.Called(ctx, label).Error(0)
}

func (m *MockLabelRepository) Update(ctx context.Context, label *tracker.Label) error {
	return m.Called(ctx, label).Error(0)
}

func (m *MockLabelRepository) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockLabelRepository) FindByID(ctx context.Context, id int64) (*tracker.Label, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tracker.Label), args.Error(1)
}

func (m *MockLabelRepository) FindByIDs(ctx context.Context, ids []int64) ([]*tracker.Label, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*tracker.Label), args.Error(1)
}

func (m *MockLabelRepository) FindAll(ctx context.Context) ([]*tracker.Label, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*tracker.Label), args.Error(1)
}

func (m *MockLabelRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	args := m.Called(ctx, name)
	return args.Bool(0), args.Error(1)
}

func (m *MockLabelRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// MockTaskRepository is a mock implementation of tracker.TaskRepository
type MockTaskRepository struct {
	mock.Mock
}

func (m *MockTaskRepository) Create(ctx context.Context, task *tracker.Task) error {
	return m.Called(ctx, task).Error(0)
}

func (m *MockTaskRepository) Update(ctx context.Context, task *tracker.Task) error {
	return m.Called(ctx, task).Error(0)
}

func (m *MockTaskRepository) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockTaskRepository) FindByID(ctx context.Context, id int64) (*tracker.Task, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tracker.Task), args.Error(1)
}

func (m *MockTaskRepository) FindAll(ctx context.Context, filter tracker.TaskFilter) ([]*tracker.Task, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*tracker.Task), args.Error(1)
}

func (m *MockTaskRepository) ExistsByIndex(ctx context.Context, index int64, excludeID int64) (bool, error) {
	args := m.Called(ctx, index, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockTaskRepository) CountByStatus(ctx context.Context, statusID int64) (int64, error) {
	args := m.Called(ctx, statusID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTaskRepository) CountByAssignee(ctx context.Context, userID int64) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTaskRepository) CountByLabel(ctx context.Context, labelID int64) (int64, error) {
	args := m.Called(ctx, labelID)
	return args.Get(0).(int64), args.Error(1)
}

// MockUserFinder is a mock implementation of UserFinder
type MockUserFinder struct {
	mock.Mock
}

func (m *MockUserFinder) FindByID(ctx context.Context, id int64) (*identity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

var (
	_ tracker.TaskStatusRepository = (*MockTaskStatusRepository)(nil)
	_ tracker.LabelRepository      = (*MockLabelRepository)(nil)
	_ tracker.TaskRepository       = (*MockTaskRepository)(nil)
	_ UserFinder                   = (*MockUserFinder)(nil)
)

func persistedStatus(id int64, name, slug string) *tracker.TaskStatus {
	status, err := tracker.NewTaskStatus(name, slug)
	if err != nil {
		panic(err)
	}
	status.ID = id
	return status
}

func persistedLabel(id int64, name string) *tracker.Label {
	label, err := tracker.NewLabel(name)
	if err != nil {
		panic(err)
	}
	label.ID = id
	return label
}

func persistedTask(id int64, title string, status *tracker.TaskStatus) *tracker.Task {
	task, err := tracker.NewTask(title, status)
	if err != nil {
		panic(err)
	}
	task.ID = id
	return task
}

func ptr[T any](v T) *T { return &v }
