package tracker

import (
	"context"
	"errors"
	"testing"

	"github.com/hexlet/taskmanager/internal/domain/shared"
	"github.com/hexlet/taskmanager/internal/domain/tracker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func createLabelService() (*LabelService, *MockLabelRepository, *MockTaskRepository) {
	labelRepo := new(MockLabelRepository)
	taskRepo := new(MockTaskRepository)
	return NewLabelService(labelRepo, taskRepo, zap.NewNop()), labelRepo, taskRepo
}

func TestLabelService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		service, labelRepo, _ := createLabelService()
		labelRepo.On("ExistsByName", ctx, "feature").Return(false, nil)
		labelRepo.On("Create", ctx, mock.AnythingOfType("*tracker.Label")).
			Run(func(args mock.Arguments) { args.Get(1).(*tracker.Label).ID = 3 }).
			Return(nil)

		result, err := service.Create(ctx, CreateLabelInput{Name: "feature"})

		require.NoError(t, err)
		assert.Equal(t, int64(3), result.ID)
		assert.Equal(t, "feature", result.Name)
	})

	t.Run("too short", func(t *testing.T) {
		service, labelRepo, _ := createLabelService()

		_, err := service.Create(ctx, CreateLabelInput{Name: "ab"})

		var domainErr *shared.DomainError
		require.True(t, errors.As(err, &domainErr))
		assert.Equal(t, shared.CodeValidation, domainErr.Code)
		labelRepo.AssertNotCalled(t, "ExistsByName", mock.Anything, mock.Anything)
	})

	t.Run("duplicate", func(t *testing.T) {
		service, labelRepo, _ := createLabelService()
		labelRepo.On("ExistsByName", ctx, "bug").Return(true, nil)

		_, err := service.Create(ctx, CreateLabelInput{Name: "bug"})
		assert.True(t, errors.Is(err, shared.ErrAlreadyExists))
	})
}

func TestLabelService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("rename", func(t *testing.T) {
		service, labelRepo, _ := createLabelService()
		label := persistedLabel(1, "bug")
		labelRepo.On("FindByID", ctx, int64(1)).Return(label, nil)
		labelRepo.On("ExistsByName", ctx, "defect").Return(false, nil)
		labelRepo.On("Update", ctx, label).Return(nil)

		result, err := service.Update(ctx, UpdateLabelInput{ID: 1, Name: ptr("defect")})

		require.NoError(t, err)
		assert.Equal(t, "defect", result.Name)
	})

	t.Run("empty body keeps the label", func(t *testing.T) {
		service, labelRepo, _ := createLabelService()
		label := persistedLabel(1, "bug")
		labelRepo.On("FindByID", ctx, int64(1)).Return(label, nil)
		labelRepo.On("Update", ctx, label).Return(nil)

		result, err := service.Update(ctx, UpdateLabelInput{ID: 1})

		require.NoError(t, err)
		assert.Equal(t, "bug", result.Name)
	})

	t.Run("missing", func(t *testing.T) {
		service, labelRepo, _ := createLabelService()
		labelRepo.On("FindByID", ctx, int64(5)).Return(nil, shared.ErrNotFound)

		_, err := service.Update(ctx, UpdateLabelInput{ID: 5, Name: ptr("defect")})
		assert.True(t, errors.Is(err, shared.ErrNotFound))
	})
}

func TestLabelService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("unused", func(t *testing.T) {
		service, labelRepo, taskRepo := createLabelService()
		labelRepo.On("FindByID", ctx, int64(1)).Return(persistedLabel(1, "bug"), nil)
		taskRepo.On("CountByLabel", ctx, int64(1)).Return(int64(0), nil)
		labelRepo.On("Delete", ctx, int64(1)).Return(nil)

		require.NoError(t, service.Delete(ctx, 1))
	})

	t.Run("in use", func(t *testing.T) {
		service, labelRepo, taskRepo := createLabelService()
		labelRepo.On("FindByID", ctx, int64(1)).Return(persistedLabel(1, "bug"), nil)
		taskRepo.On("CountByLabel", ctx, int64(1)).Return(int64(1), nil)

		assert.True(t, errors.Is(service.Delete(ctx, 1), shared.ErrResourceInUse))
		labelRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("missing", func(t *testing.T) {
		service, labelRepo, _ := createLabelService()
		labelRepo.On("FindByID", ctx, int64(5)).Return(nil, shared.ErrNotFound)

		assert.True(t, errors.Is(service.Delete(ctx, 5), shared.ErrNotFound))
	})
}

func TestLabelService_GetByID(t *testing.T) {
	ctx := context.Background()
	service, labelRepo, _ := createLabelService()
	labelRepo.On("FindByID", ctx, int64(2)).Return(persistedLabel(2, "feature"), nil)

	result, err := service.GetByID(ctx, 2)

	require.NoError(t, err)
	assert.Equal(t, "feature", result.Name)
}
