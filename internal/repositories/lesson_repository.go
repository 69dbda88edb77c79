// file: internal/repositories/lesson_repository.go
package repositories

import (
	"context"
	"fmt"

	"skillbridge/internal/database"
	"skillbridge/internal/models"

	"go.uber.org/zap"
)

// lessonRepository implements LessonRepository. Lessons and courses are
// authored through the main platform service; the engine reads them to judge
// watch events and to recompute enrollment percentages.
type lessonRepository struct {
	*BaseRepository
}

// NewLessonRepository creates a new instance of LessonRepository
func NewLessonRepository(db *database.Manager, logger *zap.Logger) LessonRepository {
	return &lessonRepository{
		BaseRepository: NewBaseRepository(db, logger),
	}
}

// GetByID retrieves a lesson by ID
func (r *lessonRepository) GetByID(ctx context.Context, id int64) (*models.Lesson, error) {
	query := `
		SELECT id, course_id, title, description, video_url, duration, lesson_order
		FROM lessons
		WHERE id = $1`

	var lesson models.Lesson
	err := r.QueryRowContext(ctx, query, id).Scan(
		&lesson.ID, &lesson.CourseID, &lesson.Title, &lesson.Description,
		&lesson.VideoURL, &lesson.Duration, &lesson.LessonOrder,
	)
	if err != nil {
		if r.IsNotFound(err) {
			return nil, err
		}
		r.GetLogger().Error("Failed to get lesson",
			zap.Error(err),
			zap.Int64("lesson_id", id),
		)
		return nil, fmt.Errorf("failed to get lesson: %w", err)
	}

	return &lesson, nil
}

// GetByCourseID retrieves all lessons of a course in lesson order
func (r *lessonRepository) GetByCourseID(ctx context.Context, courseID int64) ([]*models.Lesson, error) {
	query := `
		SELECT id, course_id, title, description, video_url, duration, lesson_order
		FROM lessons
		WHERE course_id = $1
		ORDER BY lesson_order ASC, id ASC`

	rows, err := r.QueryContext(ctx, query, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to list lessons: %w", err)
	}
	defer rows.Close()

	var lessons []*models.Lesson
	for rows.Next() {
		var lesson models.Lesson
		if err := rows.Scan(
			&lesson.ID, &lesson.CourseID, &lesson.Title, &lesson.Description,
			&lesson.VideoURL, &lesson.Duration, &lesson.LessonOrder,
		); err != nil {
			return nil, fmt.Errorf("failed to scan lesson: %w", err)
		}
		lessons = append(lessons, &lesson)
	}

	return lessons, rows.Err()
}

// CountByCourseID counts the lessons of a course
func (r *lessonRepository) CountByCourseID(ctx context.Context, courseID int64) (int, error) {
	return r.scanCount(ctx, `SELECT COUNT(*) FROM lessons WHERE course_id = $1`, courseID)
}
