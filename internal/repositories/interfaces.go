// file: internal/repositories/interfaces.go
package repositories

import (
	"context"
	"time"

	"skillbridge/internal/models"
)

// ===============================
// CORE REPOSITORY INTERFACES
// ===============================

// UserRepository defines the read contract for user data. User CRUD is owned
// by the main platform service; the engine only reads.
type UserRepository interface {
	GetByID(ctx context.Context, id int64) (*models.User, error)
	Exists(ctx context.Context, id int64) (bool, error)
}

// LessonRepository defines the read contract for course content
type LessonRepository interface {
	GetByID(ctx context.Context, id int64) (*models.Lesson, error)
	GetByCourseID(ctx context.Context, courseID int64) ([]*models.Lesson, error)
	CountByCourseID(ctx context.Context, courseID int64) (int, error)
}

// WatchUpsert carries the computed values of one watch event into the
// lesson_progress upsert.
type WatchUpsert struct {
	UserID          int64
	LessonID        int64
	WatchedDuration int
	Completed       bool
	WatchedAt       time.Time
}

// ProgressRepository defines the contract for per-lesson progress records
type ProgressRepository interface {
	// UpsertWatch inserts or updates the (user, lesson) progress row in a
	// single transaction. The returned transitioned flag is true only when
	// this event moved the row from incomplete to complete. The SQL keeps
	// is_completed monotonic even under concurrent writers.
	UpsertWatch(ctx context.Context, up *WatchUpsert) (record *models.LessonProgress, transitioned bool, err error)

	// Read operations
	GetByUser(ctx context.Context, userID int64) ([]*models.LessonProgress, error)
	GetByUserAndCourse(ctx context.Context, userID, courseID int64) ([]*models.LessonProgress, error)
	CountCompletedInCourse(ctx context.Context, userID, courseID int64) (int, error)
}

// EnrollmentRepository defines the contract for enrollment aggregates
type EnrollmentRepository interface {
	GetByUserAndCourse(ctx context.Context, userID, courseID int64) (*models.Enrollment, error)
	GetByUser(ctx context.Context, userID int64) ([]*models.Enrollment, error)

	// Recompute recalculates the enrollment percentage from lesson progress
	// inside a transaction, locking the enrollment row so concurrent
	// recomputes serialize. completed_date is stamped at most once.
	Recompute(ctx context.Context, userID, courseID int64) (*models.Enrollment, error)

	// AcknowledgeCelebration clears the show_celebration flag. This is the
	// only enrollment field writable outside Recompute.
	AcknowledgeCelebration(ctx context.Context, userID, courseID int64) error
}

// BadgeRepository defines the contract for the badge catalog and the grant
// ledger
type BadgeRepository interface {
	// Catalog
	ListCatalog(ctx context.Context, includeHidden bool) ([]*models.Badge, error)

	// Grants
	GetGrantedBadgeIDs(ctx context.Context, userID int64) (map[int64]bool, error)
	GetUserBadges(ctx context.Context, userID int64) ([]*models.UserBadge, error)

	// InsertGrant awards a badge. Returns granted=false with a nil error if
	// the (user, badge) pair already exists: the unique constraint is the
	// at-most-once guarantee, not application state.
	InsertGrant(ctx context.Context, userID, badgeID int64) (granted bool, err error)

	// MarkNotificationShown flips the notification flag on a grant
	MarkNotificationShown(ctx context.Context, userID, badgeID int64) error
}

// ActivityRepository defines the contract for aggregated user activity:
// the evaluator's snapshot, daily-activity tracking and the leaderboard.
type ActivityRepository interface {
	// RecordActivityDay upserts one row per (user, calendar day); duplicate
	// days are ignored. Backs the login_streak criterion.
	RecordActivityDay(ctx context.Context, userID int64, day time.Time) error

	// Snapshot gathers every counter the badge evaluator judges against
	Snapshot(ctx context.Context, userID int64) (*models.ActivitySnapshot, error)

	// Leaderboard returns users ranked by total XP from granted badges.
	// Ordering is total XP descending, then user ID ascending, so equal
	// scores always rank the same way.
	Leaderboard(ctx context.Context, role string, limit int) ([]*models.LeaderboardEntry, error)
}
