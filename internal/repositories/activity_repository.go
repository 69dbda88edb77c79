// file: internal/repositories/activity_repository.go
package repositories

import (
	"context"
	"fmt"
	"time"

	"skillbridge/internal/database"
	"skillbridge/internal/models"

	"go.uber.org/zap"
)

// activityRepository implements ActivityRepository: daily activity rows, the
// evaluator's aggregated snapshot and the XP leaderboard.
type activityRepository struct {
	*BaseRepository
}

// NewActivityRepository creates a new instance of ActivityRepository
func NewActivityRepository(db *database.Manager, logger *zap.Logger) ActivityRepository {
	return &activityRepository{
		BaseRepository: NewBaseRepository(db, logger),
	}
}

// RecordActivityDay upserts one row per (user, calendar day). ON CONFLICT DO
// NOTHING keeps repeated events on the same day idempotent.
func (r *activityRepository) RecordActivityDay(ctx context.Context, userID int64, day time.Time) error {
	_, err := r.ExecContext(ctx, `
		INSERT INTO user_activity_days (user_id, activity_date)
		VALUES ($1, $2)
		ON CONFLICT (user_id, activity_date) DO NOTHING`,
		userID, day.Format("2006-01-02"),
	)
	if err != nil {
		return fmt.Errorf("failed to record activity day: %w", err)
	}
	return nil
}

// Snapshot gathers every counter the badge evaluator judges against. The
// queries all run against committed state from the same pool; the evaluator
// tolerates the snapshot being momentarily stale because grants are
// monotonic and re-evaluated on the next event.
func (r *activityRepository) Snapshot(ctx context.Context, userID int64) (*models.ActivitySnapshot, error) {
	snapshot := &models.ActivitySnapshot{UserID: userID}

	err := r.QueryRowContext(ctx, `
		SELECT
			COUNT(*) FILTER (WHERE is_completed),
			COALESCE(SUM(watched_duration), 0),
			COALESCE(BOOL_OR(last_watched_date IS NOT NULL AND EXTRACT(HOUR FROM last_watched_date) < 5), FALSE)
		FROM lesson_progress
		WHERE user_id = $1`,
		userID,
	).Scan(&snapshot.CompletedLessons, &snapshot.TotalWatchedSeconds, &snapshot.HasNightActivity)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate lesson progress: %w", err)
	}

	err = r.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM enrollments WHERE user_id = $1 AND is_completed`,
		userID,
	).Scan(&snapshot.CompletedCourses)
	if err != nil {
		return nil, fmt.Errorf("failed to count completed courses: %w", err)
	}

	err = r.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM discussions WHERE user_id = $1),
			(SELECT COUNT(*) FROM comments WHERE user_id = $1),
			(SELECT COUNT(*)
			 FROM comments c
			 INNER JOIN discussions d ON c.discussion_id = d.id
			 WHERE c.user_id = $1 AND d.user_id <> $1)`,
		userID,
	).Scan(&snapshot.DiscussionsStarted, &snapshot.CommentsWritten, &snapshot.AnswersGiven)
	if err != nil {
		return nil, fmt.Errorf("failed to count discussion activity: %w", err)
	}

	err = r.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(b.xp_value), 0)
		FROM user_badges ub
		INNER JOIN badges b ON ub.badge_id = b.id
		WHERE ub.user_id = $1`,
		userID,
	).Scan(&snapshot.TotalXP)
	if err != nil {
		return nil, fmt.Errorf("failed to sum badge XP: %w", err)
	}

	days, err := r.recentActivityDays(ctx, userID)
	if err != nil {
		return nil, err
	}
	snapshot.LoginStreakDays = ComputeStreak(days, time.Now().UTC())

	return snapshot, nil
}

// recentActivityDays loads up to a year of activity days, newest first
func (r *activityRepository) recentActivityDays(ctx context.Context, userID int64) ([]time.Time, error) {
	rows, err := r.QueryContext(ctx, `
		SELECT activity_date
		FROM user_activity_days
		WHERE user_id = $1
		ORDER BY activity_date DESC
		LIMIT 366`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load activity days: %w", err)
	}
	defer rows.Close()

	var days []time.Time
	for rows.Next() {
		var day time.Time
		if err := rows.Scan(&day); err != nil {
			return nil, fmt.Errorf("failed to scan activity day: %w", err)
		}
		days = append(days, day)
	}

	return days, rows.Err()
}

// ComputeStreak counts consecutive activity days ending today or yesterday.
// days must be sorted newest first. A streak broken before yesterday counts
// as zero: the user has to be currently on a run for streak badges.
func ComputeStreak(days []time.Time, now time.Time) int {
	if len(days) == 0 {
		return 0
	}

	today := now.Truncate(24 * time.Hour)
	latest := days[0].Truncate(24 * time.Hour)

	gap := int(today.Sub(latest).Hours() / 24)
	if gap > 1 {
		return 0
	}

	streak := 1
	prev := latest
	for _, day := range days[1:] {
		day = day.Truncate(24 * time.Hour)
		diff := int(prev.Sub(day).Hours() / 24)
		if diff == 0 {
			continue // duplicate day
		}
		if diff != 1 {
			break
		}
		streak++
		prev = day
	}

	return streak
}

// Leaderboard ranks users by total XP from granted badges. Ordering is total
// XP descending with user ID ascending as the tie-break, so two runs over the
// same data always produce the same ranking.
func (r *activityRepository) Leaderboard(ctx context.Context, role string, limit int) ([]*models.LeaderboardEntry, error) {
	query := `
		SELECT
			u.id, u.username, u.first_name, u.last_name, u.role,
			COALESCE(SUM(b.xp_value), 0) AS total_xp,
			COUNT(ub.id) AS badge_count
		FROM users u
		LEFT JOIN user_badges ub ON ub.user_id = u.id
		LEFT JOIN badges b ON b.id = ub.badge_id
		WHERE ($1 = '' OR u.role = $1)
		GROUP BY u.id, u.username, u.first_name, u.last_name, u.role
		ORDER BY total_xp DESC, u.id ASC
		LIMIT $2`

	rows, err := r.QueryContext(ctx, query, role, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query leaderboard: %w", err)
	}
	defer rows.Close()

	var entries []*models.LeaderboardEntry
	for rows.Next() {
		var entry models.LeaderboardEntry
		var firstName, lastName string
		if err := rows.Scan(
			&entry.UserID, &entry.Username, &firstName, &lastName, &entry.Role,
			&entry.TotalXP, &entry.BadgeCount,
		); err != nil {
			return nil, fmt.Errorf("failed to scan leaderboard entry: %w", err)
		}

		user := models.User{Username: entry.Username, FirstName: firstName, LastName: lastName}
		entry.DisplayName = user.DisplayName()
		entry.Rank = len(entries) + 1
		entries = append(entries, &entry)
	}

	return entries, rows.Err()
}
