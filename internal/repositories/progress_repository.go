// file: internal/repositories/progress_repository.go
package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"skillbridge/internal/database"
	"skillbridge/internal/models"

	"go.uber.org/zap"
)

// progressRepository implements ProgressRepository over the lesson_progress
// table. The table carries a UNIQUE(user_id, lesson_id) constraint, so every
// watch event is an upsert against at most one row.
type progressRepository struct {
	*BaseRepository
}

// NewProgressRepository creates a new instance of ProgressRepository
func NewProgressRepository(db *database.Manager, logger *zap.Logger) ProgressRepository {
	return &progressRepository{
		BaseRepository: NewBaseRepository(db, logger),
	}
}

// UpsertWatch records one watch event. The watched duration always reflects
// the latest event, while is_completed only ever moves forward: the ON
// CONFLICT clause ORs the stored flag with the incoming one, so a racing
// writer reporting a lower duration can never un-complete the lesson.
func (r *progressRepository) UpsertWatch(ctx context.Context, up *WatchUpsert) (*models.LessonProgress, bool, error) {
	var record models.LessonProgress
	var transitioned bool

	err := r.WithTransaction(ctx, func(tx *sql.Tx) error {
		// Look at the current completion state first so we can tell whether
		// this event is the one that completed the lesson.
		var wasCompleted bool
		err := tx.QueryRowContext(ctx,
			`SELECT is_completed FROM lesson_progress WHERE user_id = $1 AND lesson_id = $2`,
			up.UserID, up.LessonID,
		).Scan(&wasCompleted)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("failed to read existing progress: %w", err)
		}

		query := `
			INSERT INTO lesson_progress (user_id, lesson_id, watched_duration, is_completed, last_watched_date)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (user_id, lesson_id) DO UPDATE SET
				watched_duration  = EXCLUDED.watched_duration,
				is_completed      = lesson_progress.is_completed OR EXCLUDED.is_completed,
				last_watched_date = EXCLUDED.last_watched_date
			RETURNING id, user_id, lesson_id, watched_duration, is_completed, last_watched_date`

		err = tx.QueryRowContext(ctx, query,
			up.UserID, up.LessonID, up.WatchedDuration, up.Completed, up.WatchedAt,
		).Scan(
			&record.ID, &record.UserID, &record.LessonID,
			&record.WatchedDuration, &record.IsCompleted, &record.LastWatchedDate,
		)
		if err != nil {
			return fmt.Errorf("failed to upsert lesson progress: %w", err)
		}

		transitioned = !wasCompleted && record.IsCompleted
		return nil
	})
	if err != nil {
		r.GetLogger().Error("Failed to record watch event",
			zap.Error(err),
			zap.Int64("user_id", up.UserID),
			zap.Int64("lesson_id", up.LessonID),
		)
		return nil, false, err
	}

	return &record, transitioned, nil
}

// GetByUser retrieves every progress record of a user with lesson context
func (r *progressRepository) GetByUser(ctx context.Context, userID int64) ([]*models.LessonProgress, error) {
	query := `
		SELECT
			lp.id, lp.user_id, lp.lesson_id, lp.watched_duration,
			lp.is_completed, lp.last_watched_date,
			l.title, l.course_id
		FROM lesson_progress lp
		INNER JOIN lessons l ON lp.lesson_id = l.id
		WHERE lp.user_id = $1
		ORDER BY lp.last_watched_date DESC NULLS LAST, lp.id ASC`

	return r.queryProgress(ctx, query, userID)
}

// GetByUserAndCourse retrieves a user's progress records for one course
func (r *progressRepository) GetByUserAndCourse(ctx context.Context, userID, courseID int64) ([]*models.LessonProgress, error) {
	query := `
		SELECT
			lp.id, lp.user_id, lp.lesson_id, lp.watched_duration,
			lp.is_completed, lp.last_watched_date,
			l.title, l.course_id
		FROM lesson_progress lp
		INNER JOIN lessons l ON lp.lesson_id = l.id
		WHERE lp.user_id = $1 AND l.course_id = $2
		ORDER BY l.lesson_order ASC, l.id ASC`

	return r.queryProgress(ctx, query, userID, courseID)
}

// CountCompletedInCourse counts a user's completed lessons within a course
func (r *progressRepository) CountCompletedInCourse(ctx context.Context, userID, courseID int64) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM lesson_progress lp
		INNER JOIN lessons l ON lp.lesson_id = l.id
		WHERE lp.user_id = $1 AND l.course_id = $2 AND lp.is_completed`

	return r.scanCount(ctx, query, userID, courseID)
}

func (r *progressRepository) queryProgress(ctx context.Context, query string, args ...interface{}) ([]*models.LessonProgress, error) {
	rows, err := r.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query lesson progress: %w", err)
	}
	defer rows.Close()

	var records []*models.LessonProgress
	for rows.Next() {
		var record models.LessonProgress
		if err := rows.Scan(
			&record.ID, &record.UserID, &record.LessonID, &record.WatchedDuration,
			&record.IsCompleted, &record.LastWatchedDate,
			&record.LessonTitle, &record.CourseID,
		); err != nil {
			return nil, fmt.Errorf("failed to scan lesson progress: %w", err)
		}
		records = append(records, &record)
	}

	return records, rows.Err()
}
