// file: internal/models/models.go
package models

import "time"

// ===============================
// CORE ENTITIES
// ===============================

// User is a platform account. Account CRUD and authentication live in the
// main platform service; this engine only reads users for display names,
// role filtering and notification addresses.
type User struct {
	ID                int64      `json:"id" db:"id"`
	Username          string     `json:"username" db:"username"`
	Email             string     `json:"email" db:"email"`
	FirstName         string     `json:"first_name" db:"first_name"`
	LastName          string     `json:"last_name" db:"last_name"`
	ProfilePictureURL *string    `json:"profile_picture_url,omitempty" db:"profile_picture_url"`
	Bio               *string    `json:"bio,omitempty" db:"bio"`
	Role              string     `json:"role" db:"role"`
	RegistrationDate  time.Time  `json:"registration_date" db:"registration_date"`
	LastLoginDate     *time.Time `json:"last_login_date,omitempty" db:"last_login_date"`
}

// DisplayName returns the user's full name, falling back to the username.
func (u *User) DisplayName() string {
	switch {
	case u.FirstName != "" && u.LastName != "":
		return u.FirstName + " " + u.LastName
	case u.FirstName != "":
		return u.FirstName
	case u.LastName != "":
		return u.LastName
	default:
		return u.Username
	}
}

// Course groups lessons under an instructor. Read-only here.
type Course struct {
	ID             int64     `json:"id" db:"id"`
	InstructorID   int64     `json:"instructor_id" db:"instructor_id"`
	Title          string    `json:"title" db:"title"`
	Description    string    `json:"description" db:"description"`
	Category       string    `json:"category" db:"category"`
	CourseImageURL *string   `json:"course_image_url,omitempty" db:"course_image_url"`
	IsPublished    bool      `json:"is_published" db:"is_published"`
	CreationDate   time.Time `json:"creation_date" db:"creation_date"`
	LastUpdate     time.Time `json:"last_update" db:"last_update"`
}

// Lesson is a single video unit inside a course. Duration is in seconds and
// may be null for lessons whose video has not been processed yet; such
// lessons can accumulate watch time but can never be marked completed.
type Lesson struct {
	ID          int64  `json:"id" db:"id"`
	CourseID    int64  `json:"course_id" db:"course_id"`
	Title       string `json:"title" db:"title"`
	Description string `json:"description" db:"description"`
	VideoURL    string `json:"video_url" db:"video_url"`
	Duration    *int   `json:"duration,omitempty" db:"duration"`
	LessonOrder int    `json:"lesson_order" db:"lesson_order"`
}

// Enrollment links a user to a course and carries the aggregated completion
// state. Progress is a 0-100 percentage recomputed from lesson progress.
// CompletedDate is stamped once, the first time the course reaches 100%, and
// never overwritten afterwards.
type Enrollment struct {
	ID              int64      `json:"id" db:"id"`
	UserID          int64      `json:"user_id" db:"user_id"`
	CourseID        int64      `json:"course_id" db:"course_id"`
	EnrollmentDate  time.Time  `json:"enrollment_date" db:"enrollment_date"`
	Progress        float64    `json:"progress" db:"progress"`
	IsCompleted     bool       `json:"is_completed" db:"is_completed"`
	CompletedDate   *time.Time `json:"completed_date,omitempty" db:"completed_date"`
	ShowCelebration bool       `json:"show_celebration" db:"show_celebration"`

	// Joined course details, populated on read paths
	CourseTitle string `json:"course_title,omitempty" db:"-"`
}

// LessonProgress is the per-user, per-lesson watch record. IsCompleted is
// monotonic: once a lesson is completed it stays completed no matter what
// watched duration later events report.
type LessonProgress struct {
	ID              int64      `json:"id" db:"id"`
	UserID          int64      `json:"user_id" db:"user_id"`
	LessonID        int64      `json:"lesson_id" db:"lesson_id"`
	WatchedDuration int        `json:"watched_duration" db:"watched_duration"`
	IsCompleted     bool       `json:"is_completed" db:"is_completed"`
	LastWatchedDate *time.Time `json:"last_watched_date,omitempty" db:"last_watched_date"`

	// Joined lesson details, populated on read paths
	LessonTitle string `json:"lesson_title,omitempty" db:"-"`
	CourseID    int64  `json:"course_id,omitempty" db:"-"`
}

// Discussion is a question thread started by a user. Thread CRUD is owned by
// the main platform; the engine only counts authored rows for badge criteria.
type Discussion struct {
	ID          int64     `json:"id" db:"id"`
	UserID      int64     `json:"user_id" db:"user_id"`
	CourseID    int64     `json:"course_id" db:"course_id"`
	Title       string    `json:"title" db:"title"`
	Content     string    `json:"content" db:"content"`
	CreatedDate time.Time `json:"created_date" db:"created_date"`
}

// Comment is a reply inside a discussion thread.
type Comment struct {
	ID           int64     `json:"id" db:"id"`
	DiscussionID int64     `json:"discussion_id" db:"discussion_id"`
	UserID       int64     `json:"user_id" db:"user_id"`
	Content      string    `json:"content" db:"content"`
	CreatedDate  time.Time `json:"created_date" db:"created_date"`
}

// ===============================
// AGGREGATE VIEWS
// ===============================

// ActivitySnapshot is everything the badge evaluator needs to judge one user,
// collected in a single round of queries so all criteria see the same state.
type ActivitySnapshot struct {
	UserID              int64 `json:"user_id"`
	CompletedLessons    int   `json:"completed_lessons"`
	TotalWatchedSeconds int   `json:"total_watched_seconds"`
	CompletedCourses    int   `json:"completed_courses"`
	DiscussionsStarted  int   `json:"discussions_started"`
	CommentsWritten     int   `json:"comments_written"`
	AnswersGiven        int   `json:"answers_given"`
	LoginStreakDays     int   `json:"login_streak_days"`
	HasNightActivity    bool  `json:"has_night_activity"`
	TotalXP             int   `json:"total_xp"`
}

// MinutesWatched returns whole minutes of accumulated watch time.
func (s *ActivitySnapshot) MinutesWatched() int {
	return s.TotalWatchedSeconds / 60
}

// Level derives the user's level from accumulated XP: 100 XP per level,
// starting at level 1.
func (s *ActivitySnapshot) Level() int {
	return s.TotalXP/100 + 1
}

// LeaderboardEntry is one ranked row of the XP leaderboard.
type LeaderboardEntry struct {
	Rank        int    `json:"rank"`
	UserID      int64  `json:"user_id" db:"user_id"`
	Username    string `json:"username" db:"username"`
	DisplayName string `json:"display_name" db:"display_name"`
	Role        string `json:"role" db:"role"`
	TotalXP     int    `json:"total_xp" db:"total_xp"`
	BadgeCount  int    `json:"badge_count" db:"badge_count"`
}

// CourseProgressDetail is the per-course progress view: the enrollment
// aggregate plus each lesson's individual record.
type CourseProgressDetail struct {
	Enrollment *Enrollment       `json:"enrollment"`
	Lessons    []*LessonProgress `json:"lessons"`
}
