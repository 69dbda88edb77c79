// file: internal/services/badge_service_test.go
package services

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"skillbridge/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// mockBadgeRepo is a simplified mock implementation for testing
type mockBadgeRepo struct {
	catalog       []*models.Badge
	granted       map[int64]bool
	inserted      []int64
	duplicateIDs  map[int64]bool
	insertErr     error
	markShownErr  error
	grants        []*models.UserBadge
}

func (m *mockBadgeRepo) ListCatalog(ctx context.Context, includeHidden bool) ([]*models.Badge, error) {
	return m.catalog, nil
}

func (m *mockBadgeRepo) GetGrantedBadgeIDs(ctx context.Context, userID int64) (map[int64]bool, error) {
	if m.granted == nil {
		return map[int64]bool{}, nil
	}
	return m.granted, nil
}

func (m *mockBadgeRepo) GetUserBadges(ctx context.Context, userID int64) ([]*models.UserBadge, error) {
	return m.grants, nil
}

func (m *mockBadgeRepo) InsertGrant(ctx context.Context, userID, badgeID int64) (bool, error) {
	if m.insertErr != nil {
		return false, m.insertErr
	}
	if m.duplicateIDs[badgeID] {
		return false, nil
	}
	m.inserted = append(m.inserted, badgeID)
	return true, nil
}

func (m *mockBadgeRepo) MarkNotificationShown(ctx context.Context, userID, badgeID int64) error {
	return m.markShownErr
}

type mockActivityRepo struct {
	snapshot    *models.ActivitySnapshot
	leaderboard []*models.LeaderboardEntry
	calls       int
}

func (m *mockActivityRepo) RecordActivityDay(ctx context.Context, userID int64, day time.Time) error {
	return nil
}

func (m *mockActivityRepo) Snapshot(ctx context.Context, userID int64) (*models.ActivitySnapshot, error) {
	if m.snapshot == nil {
		return &models.ActivitySnapshot{UserID: userID}, nil
	}
	return m.snapshot, nil
}

func (m *mockActivityRepo) Leaderboard(ctx context.Context, role string, limit int) ([]*models.LeaderboardEntry, error) {
	m.calls++
	return m.leaderboard, nil
}

type mockUserRepo struct {
	user *models.User
}

func (m *mockUserRepo) GetByID(ctx context.Context, id int64) (*models.User, error) {
	if m.user == nil {
		return nil, sql.ErrNoRows
	}
	return m.user, nil
}

func (m *mockUserRepo) Exists(ctx context.Context, id int64) (bool, error) {
	return m.user != nil, nil
}

type mockEmailService struct {
	sent int
}

func (m *mockEmailService) SendBadgeAwarded(ctx context.Context, user *models.User, badge *models.Badge) error {
	m.sent++
	return nil
}

type mockLeaderboardService struct {
	invalidated int
}

func (m *mockLeaderboardService) GetLeaderboard(ctx context.Context, req *LeaderboardRequest) ([]*models.LeaderboardEntry, error) {
	return nil, nil
}

func (m *mockLeaderboardService) InvalidateCache(ctx context.Context) {
	m.invalidated++
}

func newTestBadgeService(badgeRepo *mockBadgeRepo, activityRepo *mockActivityRepo, leaderboard *mockLeaderboardService) BadgeService {
	logger := zap.NewNop()
	return NewBadgeService(
		badgeRepo,
		activityRepo,
		&mockUserRepo{},
		&mockEmailService{},
		leaderboard,
		time.Second,
		logger,
	)
}

func testBadge(id int64, criteriaType models.CriteriaType, threshold int) *models.Badge {
	return &models.Badge{
		ID:            id,
		Name:          "Test Badge",
		CriteriaType:  criteriaType,
		CriteriaValue: threshold,
		XPValue:       10,
	}
}

func TestEvaluateAndAwardGrantsEligibleBadge(t *testing.T) {
	badgeRepo := &mockBadgeRepo{
		catalog: []*models.Badge{testBadge(1, models.CriteriaVideoWatched, 1)},
	}
	activityRepo := &mockActivityRepo{
		snapshot: &models.ActivitySnapshot{UserID: 7, CompletedLessons: 1},
	}
	leaderboard := &mockLeaderboardService{}
	service := newTestBadgeService(badgeRepo, activityRepo, leaderboard)

	awarded, err := service.EvaluateAndAward(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, awarded, 1)
	assert.Equal(t, int64(1), awarded[0].ID)
	assert.Equal(t, []int64{1}, badgeRepo.inserted)
	assert.Equal(t, 1, leaderboard.invalidated, "cache should be invalidated after a grant")
}

func TestEvaluateAndAwardSkipsAlreadyGranted(t *testing.T) {
	badgeRepo := &mockBadgeRepo{
		catalog: []*models.Badge{testBadge(1, models.CriteriaVideoWatched, 1)},
		granted: map[int64]bool{1: true},
	}
	activityRepo := &mockActivityRepo{
		snapshot: &models.ActivitySnapshot{UserID: 7, CompletedLessons: 5},
	}
	leaderboard := &mockLeaderboardService{}
	service := newTestBadgeService(badgeRepo, activityRepo, leaderboard)

	awarded, err := service.EvaluateAndAward(context.Background(), 7)
	require.NoError(t, err)
	assert.Empty(t, awarded)
	assert.Empty(t, badgeRepo.inserted)
	assert.Zero(t, leaderboard.invalidated)
}

func TestEvaluateAndAwardSwallowsConcurrentDuplicate(t *testing.T) {
	badgeRepo := &mockBadgeRepo{
		catalog:      []*models.Badge{testBadge(1, models.CriteriaVideoWatched, 1)},
		duplicateIDs: map[int64]bool{1: true},
	}
	activityRepo := &mockActivityRepo{
		snapshot: &models.ActivitySnapshot{UserID: 7, CompletedLessons: 1},
	}
	service := newTestBadgeService(badgeRepo, activityRepo, &mockLeaderboardService{})

	awarded, err := service.EvaluateAndAward(context.Background(), 7)
	require.NoError(t, err)
	assert.Empty(t, awarded, "a duplicate insert is not a new award")
}

func TestEvaluateAndAwardUnknownCriteriaType(t *testing.T) {
	badgeRepo := &mockBadgeRepo{
		catalog: []*models.Badge{
			testBadge(1, models.CriteriaVideoWatched, 1),
			testBadge(2, models.CriteriaType("perfect_score"), 1),
		},
	}
	activityRepo := &mockActivityRepo{
		snapshot: &models.ActivitySnapshot{UserID: 7, CompletedLessons: 10},
	}
	service := newTestBadgeService(badgeRepo, activityRepo, &mockLeaderboardService{})

	awarded, err := service.EvaluateAndAward(context.Background(), 7)
	require.Error(t, err)
	assert.True(t, IsConfigurationError(err))
	assert.Empty(t, awarded, "no grants may be written when the catalog is misconfigured")
	assert.Empty(t, badgeRepo.inserted)
}

func TestEvaluateAndAwardBelowThreshold(t *testing.T) {
	badgeRepo := &mockBadgeRepo{
		catalog: []*models.Badge{testBadge(1, models.CriteriaVideosCompleted, 10)},
	}
	activityRepo := &mockActivityRepo{
		snapshot: &models.ActivitySnapshot{UserID: 7, CompletedLessons: 9},
	}
	service := newTestBadgeService(badgeRepo, activityRepo, &mockLeaderboardService{})

	awarded, err := service.EvaluateAndAward(context.Background(), 7)
	require.NoError(t, err)
	assert.Empty(t, awarded)
}

func TestEvaluateAndAwardInvalidUserID(t *testing.T) {
	service := newTestBadgeService(&mockBadgeRepo{}, &mockActivityRepo{}, &mockLeaderboardService{})

	_, err := service.EvaluateAndAward(context.Background(), 0)
	require.Error(t, err)
	assert.True(t, IsValidationError(err))
}

func TestCriteriaRules(t *testing.T) {
	rules := buildCriteriaRules()
	require.Len(t, rules, len(models.AllCriteriaTypes), "every declared criteria type needs a rule")

	snapshot := &models.ActivitySnapshot{
		CompletedLessons:    12,
		TotalWatchedSeconds: 6000, // 100 minutes
		CompletedCourses:    1,
		DiscussionsStarted:  2,
		CommentsWritten:     4,
		AnswersGiven:        1,
		LoginStreakDays:     7,
		HasNightActivity:    true,
		TotalXP:             430, // level 5
	}

	tests := []struct {
		criteria  models.CriteriaType
		threshold int
		want      bool
	}{
		{models.CriteriaVideoWatched, 1, true},
		{models.CriteriaVideosCompleted, 10, true},
		{models.CriteriaVideosCompleted, 13, false},
		{models.CriteriaMinutesWatched, 100, true},
		{models.CriteriaMinutesWatched, 101, false},
		{models.CriteriaModuleCompleted, 1, true},
		{models.CriteriaCourseCompleted, 1, true},
		{models.CriteriaCourseCompleted, 2, false},
		{models.CriteriaQuestionAsked, 1, true},
		{models.CriteriaQuestionAnswered, 1, true},
		{models.CriteriaQuestionAnswered, 2, false},
		{models.CriteriaDiscussionParticipated, 1, true},
		{models.CriteriaLoginStreak, 7, true},
		{models.CriteriaLoginStreak, 8, false},
		{models.CriteriaNightActivity, 1, true},
		{models.CriteriaLevelReached, 5, true},
		{models.CriteriaLevelReached, 6, false},
	}

	for _, tt := range tests {
		rule, ok := rules[tt.criteria]
		require.True(t, ok, "missing rule for %s", tt.criteria)
		assert.Equal(t, tt.want, rule(snapshot, tt.threshold),
			"criteria %s threshold %d", tt.criteria, tt.threshold)
	}
}

func TestCriteriaRulesNightActivityFalse(t *testing.T) {
	rules := buildCriteriaRules()
	snapshot := &models.ActivitySnapshot{HasNightActivity: false}
	assert.False(t, rules[models.CriteriaNightActivity](snapshot, 1))
}

func TestMarkNotificationShownNotFound(t *testing.T) {
	badgeRepo := &mockBadgeRepo{markShownErr: sql.ErrNoRows}
	service := newTestBadgeService(badgeRepo, &mockActivityRepo{}, &mockLeaderboardService{})

	err := service.MarkNotificationShown(context.Background(), 7, 99)
	require.Error(t, err)
	assert.True(t, IsNotFoundError(err))
}
