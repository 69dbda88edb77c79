// file: internal/services/progress_service_test.go
package services

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"skillbridge/internal/models"
	"skillbridge/internal/repositories"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func intPtr(v int) *int { return &v }

type mockLessonRepo struct {
	lesson *models.Lesson
}

func (m *mockLessonRepo) GetByID(ctx context.Context, id int64) (*models.Lesson, error) {
	if m.lesson == nil {
		return nil, sql.ErrNoRows
	}
	return m.lesson, nil
}

func (m *mockLessonRepo) GetByCourseID(ctx context.Context, courseID int64) ([]*models.Lesson, error) {
	return nil, nil
}

func (m *mockLessonRepo) CountByCourseID(ctx context.Context, courseID int64) (int, error) {
	return 0, nil
}

type mockProgressRepo struct {
	lastUpsert   *repositories.WatchUpsert
	transitioned bool
	records      []*models.LessonProgress
}

func (m *mockProgressRepo) UpsertWatch(ctx context.Context, up *repositories.WatchUpsert) (*models.LessonProgress, bool, error) {
	m.lastUpsert = up
	return &models.LessonProgress{
		UserID:          up.UserID,
		LessonID:        up.LessonID,
		WatchedDuration: up.WatchedDuration,
		IsCompleted:     up.Completed,
	}, m.transitioned, nil
}

func (m *mockProgressRepo) GetByUser(ctx context.Context, userID int64) ([]*models.LessonProgress, error) {
	return m.records, nil
}

func (m *mockProgressRepo) GetByUserAndCourse(ctx context.Context, userID, courseID int64) ([]*models.LessonProgress, error) {
	return m.records, nil
}

func (m *mockProgressRepo) CountCompletedInCourse(ctx context.Context, userID, courseID int64) (int, error) {
	return 0, nil
}

type mockEnrollmentRepo struct {
	enrollment *models.Enrollment
	ackErr     error
}

func (m *mockEnrollmentRepo) GetByUserAndCourse(ctx context.Context, userID, courseID int64) (*models.Enrollment, error) {
	if m.enrollment == nil {
		return nil, sql.ErrNoRows
	}
	return m.enrollment, nil
}

func (m *mockEnrollmentRepo) GetByUser(ctx context.Context, userID int64) ([]*models.Enrollment, error) {
	return nil, nil
}

func (m *mockEnrollmentRepo) Recompute(ctx context.Context, userID, courseID int64) (*models.Enrollment, error) {
	if m.enrollment == nil {
		return nil, sql.ErrNoRows
	}
	return m.enrollment, nil
}

func (m *mockEnrollmentRepo) AcknowledgeCelebration(ctx context.Context, userID, courseID int64) error {
	return m.ackErr
}

type mockCompletionService struct {
	enrollment *models.Enrollment
	calls      int
}

func (m *mockCompletionService) Recompute(ctx context.Context, userID, courseID int64) (*models.Enrollment, error) {
	m.calls++
	if m.enrollment == nil {
		return nil, EntityNotFoundError("enrollment", courseID)
	}
	return m.enrollment, nil
}

type mockBadgeEvaluator struct {
	awarded []*models.Badge
	err     error
	calls   int
}

func (m *mockBadgeEvaluator) EvaluateAndAward(ctx context.Context, userID int64) ([]*models.Badge, error) {
	m.calls++
	return m.awarded, m.err
}

func (m *mockBadgeEvaluator) ListCatalog(ctx context.Context) ([]*models.Badge, error) {
	return nil, nil
}

func (m *mockBadgeEvaluator) GetUserBadges(ctx context.Context, userID int64) ([]*models.UserBadge, error) {
	return nil, nil
}

func (m *mockBadgeEvaluator) MarkNotificationShown(ctx context.Context, userID, badgeID int64) error {
	return nil
}

type progressFixture struct {
	lessonRepo     *mockLessonRepo
	progressRepo   *mockProgressRepo
	enrollmentRepo *mockEnrollmentRepo
	activityRepo   *mockActivityRepo
	completion     *mockCompletionService
	badges         *mockBadgeEvaluator
	service        ProgressService
}

func newProgressFixture() *progressFixture {
	f := &progressFixture{
		lessonRepo:     &mockLessonRepo{lesson: &models.Lesson{ID: 1, CourseID: 10, Duration: intPtr(600)}},
		progressRepo:   &mockProgressRepo{},
		enrollmentRepo: &mockEnrollmentRepo{},
		activityRepo:   &mockActivityRepo{},
		completion:     &mockCompletionService{},
		badges:         &mockBadgeEvaluator{},
	}
	f.service = NewProgressService(
		f.lessonRepo,
		f.progressRepo,
		f.enrollmentRepo,
		f.activityRepo,
		f.completion,
		f.badges,
		validator.New(),
		zap.NewNop(),
	)
	return f
}

func TestRecordWatchMarksCompletedAtThreshold(t *testing.T) {
	f := newProgressFixture()

	// 570 of 600 seconds is exactly 95%
	result, err := f.service.RecordWatch(context.Background(), &RecordWatchRequest{
		UserID:          7,
		LessonID:        1,
		WatchedDuration: 570,
	})
	require.NoError(t, err)
	require.NotNil(t, f.progressRepo.lastUpsert)
	assert.True(t, f.progressRepo.lastUpsert.Completed)
	assert.True(t, result.Progress.IsCompleted)
}

func TestRecordWatchBelowThresholdStaysIncomplete(t *testing.T) {
	f := newProgressFixture()

	result, err := f.service.RecordWatch(context.Background(), &RecordWatchRequest{
		UserID:          7,
		LessonID:        1,
		WatchedDuration: 569,
	})
	require.NoError(t, err)
	assert.False(t, f.progressRepo.lastUpsert.Completed)
	assert.False(t, result.Progress.IsCompleted)
	assert.Zero(t, f.completion.calls, "no transition means no recompute")
}

func TestRecordWatchNilDurationNeverCompletes(t *testing.T) {
	f := newProgressFixture()
	f.lessonRepo.lesson.Duration = nil

	_, err := f.service.RecordWatch(context.Background(), &RecordWatchRequest{
		UserID:          7,
		LessonID:        1,
		WatchedDuration: 100000,
	})
	require.NoError(t, err)
	assert.False(t, f.progressRepo.lastUpsert.Completed)
}

func TestRecordWatchTransitionDrivesRecompute(t *testing.T) {
	f := newProgressFixture()
	f.progressRepo.transitioned = true
	f.completion.enrollment = &models.Enrollment{
		UserID:   7,
		CourseID: 10,
		Progress: 100,
	}

	result, err := f.service.RecordWatch(context.Background(), &RecordWatchRequest{
		UserID:          7,
		LessonID:        1,
		WatchedDuration: 600,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, f.completion.calls)
	require.NotNil(t, result.Enrollment)
	assert.Equal(t, float64(100), result.Enrollment.Progress)
	assert.Equal(t, 1, f.badges.calls, "evaluation runs on every watch event")
}

func TestRecordWatchMissingEnrollmentIsSkipped(t *testing.T) {
	f := newProgressFixture()
	f.progressRepo.transitioned = true
	f.completion.enrollment = nil // instructor previewing their own lesson

	result, err := f.service.RecordWatch(context.Background(), &RecordWatchRequest{
		UserID:          7,
		LessonID:        1,
		WatchedDuration: 600,
	})
	require.NoError(t, err)
	assert.Nil(t, result.Enrollment)
	assert.Equal(t, 1, f.badges.calls, "evaluation still runs without an enrollment")
}

func TestRecordWatchEvaluatesBadgesWithoutTransition(t *testing.T) {
	f := newProgressFixture()
	f.badges.awarded = []*models.Badge{{ID: 3, Name: "100 Club"}}

	result, err := f.service.RecordWatch(context.Background(), &RecordWatchRequest{
		UserID:          7,
		LessonID:        1,
		WatchedDuration: 60,
	})
	require.NoError(t, err)
	require.Len(t, result.AwardedBadges, 1)
	assert.Equal(t, "100 Club", result.AwardedBadges[0].Name)
}

func TestRecordWatchValidation(t *testing.T) {
	f := newProgressFixture()

	tests := []struct {
		name string
		req  *RecordWatchRequest
	}{
		{"missing user", &RecordWatchRequest{LessonID: 1, WatchedDuration: 10}},
		{"missing lesson", &RecordWatchRequest{UserID: 7, WatchedDuration: 10}},
		{"negative duration", &RecordWatchRequest{UserID: 7, LessonID: 1, WatchedDuration: -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.service.RecordWatch(context.Background(), tt.req)
			require.Error(t, err)
			assert.True(t, IsValidationError(err))
		})
	}
}

func TestRecordWatchUnknownLesson(t *testing.T) {
	f := newProgressFixture()
	f.lessonRepo.lesson = nil

	_, err := f.service.RecordWatch(context.Background(), &RecordWatchRequest{
		UserID:          7,
		LessonID:        42,
		WatchedDuration: 10,
	})
	require.Error(t, err)
	assert.True(t, IsNotFoundError(err))
	assert.Zero(t, f.badges.calls, "pipeline must not run for unknown lessons")
}

func TestRecordWatchZeroDurationEventIsRecorded(t *testing.T) {
	f := newProgressFixture()

	_, err := f.service.RecordWatch(context.Background(), &RecordWatchRequest{
		UserID:          7,
		LessonID:        1,
		WatchedDuration: 0,
	})
	require.NoError(t, err)
	require.NotNil(t, f.progressRepo.lastUpsert)
	assert.Equal(t, 0, f.progressRepo.lastUpsert.WatchedDuration)
	assert.WithinDuration(t, time.Now().UTC(), f.progressRepo.lastUpsert.WatchedAt, time.Minute)
}

func TestGetCourseProgressMissingEnrollment(t *testing.T) {
	f := newProgressFixture()

	_, err := f.service.GetCourseProgress(context.Background(), 7, 10)
	require.Error(t, err)
	assert.True(t, IsNotFoundError(err))
}

func TestAcknowledgeCelebrationNotFound(t *testing.T) {
	f := newProgressFixture()
	f.enrollmentRepo.ackErr = sql.ErrNoRows

	err := f.service.AcknowledgeCelebration(context.Background(), 7, 10)
	require.Error(t, err)
	assert.True(t, IsNotFoundError(err))
}
