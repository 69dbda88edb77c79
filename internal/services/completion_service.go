// file: internal/services/completion_service.go
package services

import (
	"context"
	"database/sql"
	"errors"

	"skillbridge/internal/models"
	"skillbridge/internal/repositories"

	"go.uber.org/zap"
)

// completionService implements CompletionService. The percentage math and
// the one-time completed_date stamp live in the repository's transactional
// recompute; this layer owns validation, error mapping and logging.
type completionService struct {
	enrollmentRepo repositories.EnrollmentRepository
	logger         *zap.Logger
}

// NewCompletionService creates a new instance of CompletionService
func NewCompletionService(enrollmentRepo repositories.EnrollmentRepository, logger *zap.Logger) CompletionService {
	return &completionService{
		enrollmentRepo: enrollmentRepo,
		logger:         logger,
	}
}

// Recompute recalculates one enrollment's percentage from lesson progress
func (s *completionService) Recompute(ctx context.Context, userID, courseID int64) (*models.Enrollment, error) {
	if userID <= 0 {
		return nil, InvalidInputError("user_id", "must be positive")
	}
	if courseID <= 0 {
		return nil, InvalidInputError("course_id", "must be positive")
	}

	enrollment, err := s.enrollmentRepo.Recompute(ctx, userID, courseID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, EntityNotFoundError("enrollment", courseID)
		}
		return nil, NewInternalError("failed to recompute enrollment")
	}

	if enrollment.IsCompleted {
		s.logger.Info("🎓 Course completed",
			zap.Int64("user_id", userID),
			zap.Int64("course_id", courseID),
			zap.Float64("progress", enrollment.Progress),
		)
	}

	return enrollment, nil
}
