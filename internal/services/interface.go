// file: internal/services/interface.go
package services

import (
	"context"

	"skillbridge/internal/models"
)

// ===============================
// CORE SERVICE INTERFACES
// ===============================

// ProgressService owns per-lesson watch tracking. RecordWatch is the entry
// point of the whole pipeline: it persists the watch event and, on a
// completion transition, drives the enrollment recompute and the badge
// evaluation in sequence.
type ProgressService interface {
	RecordWatch(ctx context.Context, req *RecordWatchRequest) (*WatchResult, error)
	GetUserProgress(ctx context.Context, userID int64) ([]*models.LessonProgress, error)
	GetCourseProgress(ctx context.Context, userID, courseID int64) (*models.CourseProgressDetail, error)
	AcknowledgeCelebration(ctx context.Context, userID, courseID int64) error
}

// CompletionService recomputes enrollment aggregates from lesson progress
type CompletionService interface {
	Recompute(ctx context.Context, userID, courseID int64) (*models.Enrollment, error)
}

// BadgeService evaluates badge criteria and owns the grant ledger
type BadgeService interface {
	// EvaluateAndAward runs the full criteria table against the user's
	// activity snapshot and grants every newly-eligible badge. Returns the
	// badges granted by this call only.
	EvaluateAndAward(ctx context.Context, userID int64) ([]*models.Badge, error)

	// Catalog and grants
	ListCatalog(ctx context.Context) ([]*models.Badge, error)
	GetUserBadges(ctx context.Context, userID int64) ([]*models.UserBadge, error)
	MarkNotificationShown(ctx context.Context, userID, badgeID int64) error
}

// LeaderboardService ranks users by total XP from granted badges
type LeaderboardService interface {
	GetLeaderboard(ctx context.Context, req *LeaderboardRequest) ([]*models.LeaderboardEntry, error)
	InvalidateCache(ctx context.Context)
}

// EmailService is the boundary to the external mail collaborator. Badge
// notifications are fire-and-forget: failures are logged, never surfaced.
type EmailService interface {
	SendBadgeAwarded(ctx context.Context, user *models.User, badge *models.Badge) error
}

// ===============================
// REQUEST / RESPONSE TYPES
// ===============================

// RecordWatchRequest is one watch event reported by the video player
type RecordWatchRequest struct {
	UserID          int64 `json:"user_id" validate:"required,gt=0"`
	LessonID        int64 `json:"lesson_id" validate:"required,gt=0"`
	WatchedDuration int   `json:"watched_duration" validate:"gte=0"`
}

// WatchResult is the outcome of one watch event: the updated progress record
// plus whatever the downstream pipeline produced.
type WatchResult struct {
	Progress      *models.LessonProgress `json:"progress"`
	Enrollment    *models.Enrollment     `json:"enrollment,omitempty"`
	AwardedBadges []*models.Badge        `json:"awarded_badges,omitempty"`
}

// LeaderboardRequest filters and sizes the leaderboard query
type LeaderboardRequest struct {
	Role  string `json:"role" validate:"omitempty,oneof=student instructor admin"`
	Limit int    `json:"limit" validate:"gte=0,lte=100"`
}
