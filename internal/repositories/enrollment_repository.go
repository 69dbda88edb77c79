// file: internal/repositories/enrollment_repository.go
package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"skillbridge/internal/database"
	"skillbridge/internal/models"

	"go.uber.org/zap"
)

// enrollmentRepository implements EnrollmentRepository. Enrollment rows are
// created by the main platform when a user joins a course; this engine owns
// their aggregated completion state.
type enrollmentRepository struct {
	*BaseRepository
}

// NewEnrollmentRepository creates a new instance of EnrollmentRepository
func NewEnrollmentRepository(db *database.Manager, logger *zap.Logger) EnrollmentRepository {
	return &enrollmentRepository{
		BaseRepository: NewBaseRepository(db, logger),
	}
}

const enrollmentColumns = `
	id, user_id, course_id, enrollment_date, progress,
	is_completed, completed_date, show_celebration`

// GetByUserAndCourse retrieves one enrollment
func (r *enrollmentRepository) GetByUserAndCourse(ctx context.Context, userID, courseID int64) (*models.Enrollment, error) {
	query := `SELECT` + enrollmentColumns + `
		FROM enrollments
		WHERE user_id = $1 AND course_id = $2`

	var e models.Enrollment
	err := r.QueryRowContext(ctx, query, userID, courseID).Scan(
		&e.ID, &e.UserID, &e.CourseID, &e.EnrollmentDate, &e.Progress,
		&e.IsCompleted, &e.CompletedDate, &e.ShowCelebration,
	)
	if err != nil {
		if r.IsNotFound(err) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get enrollment: %w", err)
	}

	return &e, nil
}

// GetByUser retrieves all enrollments of a user with course titles
func (r *enrollmentRepository) GetByUser(ctx context.Context, userID int64) ([]*models.Enrollment, error) {
	query := `
		SELECT
			e.id, e.user_id, e.course_id, e.enrollment_date, e.progress,
			e.is_completed, e.completed_date, e.show_celebration,
			c.title
		FROM enrollments e
		INNER JOIN courses c ON e.course_id = c.id
		WHERE e.user_id = $1
		ORDER BY e.enrollment_date DESC`

	rows, err := r.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list enrollments: %w", err)
	}
	defer rows.Close()

	var enrollments []*models.Enrollment
	for rows.Next() {
		var e models.Enrollment
		if err := rows.Scan(
			&e.ID, &e.UserID, &e.CourseID, &e.EnrollmentDate, &e.Progress,
			&e.IsCompleted, &e.CompletedDate, &e.ShowCelebration,
			&e.CourseTitle,
		); err != nil {
			return nil, fmt.Errorf("failed to scan enrollment: %w", err)
		}
		enrollments = append(enrollments, &e)
	}

	return enrollments, rows.Err()
}

// Recompute recalculates the enrollment percentage from committed lesson
// progress. The enrollment row is locked FOR UPDATE for the duration of the
// transaction so two concurrent recomputes serialize instead of writing
// interleaved percentages. completed_date is stamped through a CASE
// expression that only fires while the column is still NULL, making the
// first completion timestamp permanent.
func (r *enrollmentRepository) Recompute(ctx context.Context, userID, courseID int64) (*models.Enrollment, error) {
	var result models.Enrollment

	err := r.WithTransaction(ctx, func(tx *sql.Tx) error {
		var enrollmentID int64
		err := tx.QueryRowContext(ctx,
			`SELECT id FROM enrollments WHERE user_id = $1 AND course_id = $2 FOR UPDATE`,
			userID, courseID,
		).Scan(&enrollmentID)
		if err != nil {
			return err
		}

		var totalLessons, completedLessons int
		err = tx.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM lessons WHERE course_id = $1`, courseID,
		).Scan(&totalLessons)
		if err != nil {
			return fmt.Errorf("failed to count lessons: %w", err)
		}

		err = tx.QueryRowContext(ctx, `
			SELECT COUNT(*)
			FROM lesson_progress lp
			INNER JOIN lessons l ON lp.lesson_id = l.id
			WHERE lp.user_id = $1 AND l.course_id = $2 AND lp.is_completed`,
			userID, courseID,
		).Scan(&completedLessons)
		if err != nil {
			return fmt.Errorf("failed to count completed lessons: %w", err)
		}

		// A course with no lessons stays at 0% and is never completed.
		var progress float64
		completed := false
		if totalLessons > 0 {
			progress = float64(completedLessons) / float64(totalLessons) * 100
			completed = completedLessons == totalLessons
		}

		query := `
			UPDATE enrollments SET
				progress         = $2,
				is_completed     = $3,
				completed_date   = CASE WHEN $3 AND completed_date IS NULL THEN NOW() ELSE completed_date END,
				show_celebration = CASE WHEN $3 AND completed_date IS NULL THEN TRUE ELSE show_celebration END
			WHERE id = $1
			RETURNING` + enrollmentColumns

		return tx.QueryRowContext(ctx, query, enrollmentID, progress, completed).Scan(
			&result.ID, &result.UserID, &result.CourseID, &result.EnrollmentDate, &result.Progress,
			&result.IsCompleted, &result.CompletedDate, &result.ShowCelebration,
		)
	})
	if err != nil {
		if r.IsNotFound(err) {
			return nil, err
		}
		r.GetLogger().Error("Failed to recompute enrollment",
			zap.Error(err),
			zap.Int64("user_id", userID),
			zap.Int64("course_id", courseID),
		)
		return nil, err
	}

	return &result, nil
}

// AcknowledgeCelebration clears the show_celebration flag
func (r *enrollmentRepository) AcknowledgeCelebration(ctx context.Context, userID, courseID int64) error {
	result, err := r.ExecContext(ctx,
		`UPDATE enrollments SET show_celebration = FALSE WHERE user_id = $1 AND course_id = $2`,
		userID, courseID,
	)
	if err != nil {
		return fmt.Errorf("failed to acknowledge celebration: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}

	return nil
}
