package models

import "time"

// CriteriaType identifies which activity counter a badge is judged against.
// The evaluator refuses to run with a type outside this set: a new criteria
// type requires both a catalog entry and an evaluation rule.
type CriteriaType string

const (
	CriteriaVideoWatched           CriteriaType = "video_watched"
	CriteriaVideosCompleted        CriteriaType = "videos_completed"
	CriteriaMinutesWatched         CriteriaType = "minutes_watched"
	CriteriaModuleCompleted        CriteriaType = "module_completed"
	CriteriaCourseCompleted        CriteriaType = "course_completed"
	CriteriaQuestionAsked          CriteriaType = "question_asked"
	CriteriaQuestionAnswered       CriteriaType = "question_answered"
	CriteriaDiscussionParticipated CriteriaType = "discussion_participated"
	CriteriaLoginStreak            CriteriaType = "login_streak"
	CriteriaNightActivity          CriteriaType = "night_activity"
	CriteriaLevelReached           CriteriaType = "level_reached"
)

// AllCriteriaTypes lists every recognized criteria type.
var AllCriteriaTypes = []CriteriaType{
	CriteriaVideoWatched,
	CriteriaVideosCompleted,
	CriteriaMinutesWatched,
	CriteriaModuleCompleted,
	CriteriaCourseCompleted,
	CriteriaQuestionAsked,
	CriteriaQuestionAnswered,
	CriteriaDiscussionParticipated,
	CriteriaLoginStreak,
	CriteriaNightActivity,
	CriteriaLevelReached,
}

// IsValid reports whether the criteria type is part of the recognized set
func (c CriteriaType) IsValid() bool {
	for _, t := range AllCriteriaTypes {
		if c == t {
			return true
		}
	}
	return false
}

// Badge represents an achievement badge that users can earn
// by reaching certain milestones or completing specific actions.
type Badge struct {
	ID            int64        `json:"id" db:"id"`
	Emoji         string       `json:"emoji" db:"emoji"`
	Name          string       `json:"name" db:"name"`
	Description   string       `json:"description" db:"description"`
	CriteriaType  CriteriaType `json:"criteria_type" db:"criteria_type"`
	CriteriaValue int          `json:"criteria_value" db:"criteria_value"`
	Tier          string       `json:"tier" db:"tier"`
	XPValue       int          `json:"xp_value" db:"xp_value"`
	IsHidden      bool         `json:"is_hidden" db:"is_hidden"`
	CreatedDate   time.Time    `json:"created_date" db:"created_date"`
}

// UserBadge is a grant of a badge to a user. The (user_id, badge_id) pair is
// unique at the database level, which is what makes awarding at-most-once.
type UserBadge struct {
	ID                int64     `json:"id" db:"id"`
	UserID            int64     `json:"user_id" db:"user_id"`
	BadgeID           int64     `json:"badge_id" db:"badge_id"`
	EarnedDate        time.Time `json:"earned_date" db:"earned_date"`
	NotificationShown bool      `json:"notification_shown" db:"notification_shown"`

	// Joined badge details, populated on read paths
	Badge *Badge `json:"badge,omitempty" db:"-"`
}
