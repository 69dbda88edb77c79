// file: internal/services/completion_service_test.go
package services

import (
	"context"
	"testing"

	"skillbridge/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestRecomputeReturnsAggregate(t *testing.T) {
	repo := &mockEnrollmentRepo{
		enrollment: &models.Enrollment{
			UserID:      7,
			CourseID:    10,
			Progress:    66.7,
			IsCompleted: false,
		},
	}
	service := NewCompletionService(repo, zap.NewNop())

	enrollment, err := service.Recompute(context.Background(), 7, 10)
	require.NoError(t, err)
	assert.InDelta(t, 66.7, enrollment.Progress, 0.001)
	assert.False(t, enrollment.IsCompleted)
}

func TestRecomputeMissingEnrollment(t *testing.T) {
	service := NewCompletionService(&mockEnrollmentRepo{}, zap.NewNop())

	_, err := service.Recompute(context.Background(), 7, 10)
	require.Error(t, err)
	assert.True(t, IsNotFoundError(err))
}

func TestRecomputeInputGuards(t *testing.T) {
	service := NewCompletionService(&mockEnrollmentRepo{}, zap.NewNop())

	_, err := service.Recompute(context.Background(), 0, 10)
	assert.True(t, IsValidationError(err))

	_, err = service.Recompute(context.Background(), 7, 0)
	assert.True(t, IsValidationError(err))
}
