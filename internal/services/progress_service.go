// file: internal/services/progress_service.go
package services

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"skillbridge/internal/models"
	"skillbridge/internal/repositories"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// CompletionThreshold is the fraction of a lesson's duration that must be
// watched before the lesson counts as completed.
const CompletionThreshold = 0.95

// progressService implements ProgressService and drives the watch-event
// pipeline: record progress, recompute the enrollment on a completion
// transition, then evaluate badges. Each stage only ever sees state the
// previous stage has already committed.
type progressService struct {
	lessonRepo     repositories.LessonRepository
	progressRepo   repositories.ProgressRepository
	enrollmentRepo repositories.EnrollmentRepository
	activityRepo   repositories.ActivityRepository
	completion     CompletionService
	badges         BadgeService
	validate       *validator.Validate
	logger         *zap.Logger
}

// NewProgressService creates a new instance of ProgressService
func NewProgressService(
	lessonRepo repositories.LessonRepository,
	progressRepo repositories.ProgressRepository,
	enrollmentRepo repositories.EnrollmentRepository,
	activityRepo repositories.ActivityRepository,
	completion CompletionService,
	badges BadgeService,
	validate *validator.Validate,
	logger *zap.Logger,
) ProgressService {
	return &progressService{
		lessonRepo:     lessonRepo,
		progressRepo:   progressRepo,
		enrollmentRepo: enrollmentRepo,
		activityRepo:   activityRepo,
		completion:     completion,
		badges:         badges,
		validate:       validate,
		logger:         logger,
	}
}

// RecordWatch records one watch event and runs the downstream pipeline.
// Validation and the lesson lookup happen before any write; a lesson with a
// NULL or zero duration accumulates watch time but never completes.
func (s *progressService) RecordWatch(ctx context.Context, req *RecordWatchRequest) (*WatchResult, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, NewValidationError("invalid watch event", err)
	}

	lesson, err := s.lessonRepo.GetByID(ctx, req.LessonID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, EntityNotFoundError("lesson", req.LessonID)
		}
		return nil, NewInternalError("failed to load lesson")
	}

	now := time.Now().UTC()
	completed := lesson.Duration != nil && *lesson.Duration > 0 &&
		float64(req.WatchedDuration) >= CompletionThreshold*float64(*lesson.Duration)

	record, transitioned, err := s.progressRepo.UpsertWatch(ctx, &repositories.WatchUpsert{
		UserID:          req.UserID,
		LessonID:        req.LessonID,
		WatchedDuration: req.WatchedDuration,
		Completed:       completed,
		WatchedAt:       now,
	})
	if err != nil {
		return nil, NewInternalError("failed to record watch event")
	}

	// Daily-activity tracking feeds streak badges; losing one row only
	// delays a streak badge until the next event, so don't fail the event.
	if err := s.activityRepo.RecordActivityDay(ctx, req.UserID, now); err != nil {
		s.logger.Warn("Failed to record activity day",
			zap.Error(err),
			zap.Int64("user_id", req.UserID),
		)
	}

	result := &WatchResult{Progress: record}

	if transitioned {
		s.logger.Info("Lesson completed",
			zap.Int64("user_id", req.UserID),
			zap.Int64("lesson_id", req.LessonID),
			zap.Int64("course_id", lesson.CourseID),
		)

		enrollment, err := s.completion.Recompute(ctx, req.UserID, lesson.CourseID)
		switch {
		case err == nil:
			result.Enrollment = enrollment
		case IsNotFoundError(err):
			// Watch events from users who never enrolled (instructors
			// previewing their own content) have no aggregate to update.
			s.logger.Warn("Watch event without enrollment",
				zap.Int64("user_id", req.UserID),
				zap.Int64("course_id", lesson.CourseID),
			)
		default:
			return nil, err
		}
	}

	awarded, err := s.badges.EvaluateAndAward(ctx, req.UserID)
	if err != nil {
		return nil, err
	}
	result.AwardedBadges = awarded

	return result, nil
}

// GetUserProgress retrieves every progress record of a user
func (s *progressService) GetUserProgress(ctx context.Context, userID int64) ([]*models.LessonProgress, error) {
	if userID <= 0 {
		return nil, InvalidInputError("user_id", "must be positive")
	}

	records, err := s.progressRepo.GetByUser(ctx, userID)
	if err != nil {
		return nil, NewInternalError("failed to load progress")
	}

	return records, nil
}

// GetCourseProgress retrieves the enrollment aggregate and per-lesson records
// for one course
func (s *progressService) GetCourseProgress(ctx context.Context, userID, courseID int64) (*models.CourseProgressDetail, error) {
	if userID <= 0 {
		return nil, InvalidInputError("user_id", "must be positive")
	}
	if courseID <= 0 {
		return nil, InvalidInputError("course_id", "must be positive")
	}

	enrollment, err := s.enrollmentRepo.GetByUserAndCourse(ctx, userID, courseID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, EntityNotFoundError("enrollment", courseID)
		}
		return nil, NewInternalError("failed to load enrollment")
	}

	lessons, err := s.progressRepo.GetByUserAndCourse(ctx, userID, courseID)
	if err != nil {
		return nil, NewInternalError("failed to load course progress")
	}

	return &models.CourseProgressDetail{
		Enrollment: enrollment,
		Lessons:    lessons,
	}, nil
}

// AcknowledgeCelebration clears the completion celebration flag. This is the
// only enrollment mutation exposed outside the recompute path.
func (s *progressService) AcknowledgeCelebration(ctx context.Context, userID, courseID int64) error {
	if userID <= 0 {
		return InvalidInputError("user_id", "must be positive")
	}
	if courseID <= 0 {
		return InvalidInputError("course_id", "must be positive")
	}

	if err := s.enrollmentRepo.AcknowledgeCelebration(ctx, userID, courseID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return EntityNotFoundError("enrollment", courseID)
		}
		return NewInternalError("failed to acknowledge celebration")
	}

	return nil
}
