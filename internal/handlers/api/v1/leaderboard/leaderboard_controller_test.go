package leaderboard

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"skillbridge/internal/models"
	"skillbridge/internal/response"
	"skillbridge/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// mockLeaderboardService is a simplified mock implementation for testing
type mockLeaderboardService struct {
	lastReq *services.LeaderboardRequest
	entries []*models.LeaderboardEntry
	err     error
}

func (m *mockLeaderboardService) GetLeaderboard(ctx context.Context, req *services.LeaderboardRequest) ([]*models.LeaderboardEntry, error) {
	m.lastReq = req
	if m.err != nil {
		return nil, m.err
	}
	return m.entries, nil
}

func (m *mockLeaderboardService) InvalidateCache(ctx context.Context) {}

func newTestController(mock *mockLeaderboardService) *LeaderboardController {
	logger := zap.NewNop()
	collection := &services.ServiceCollection{Leaderboard: mock}
	return NewLeaderboardController(collection, logger, response.NewBuilder(logger))
}

func TestGetLeaderboard(t *testing.T) {
	mock := &mockLeaderboardService{
		entries: []*models.LeaderboardEntry{
			{Rank: 1, UserID: 2, Username: "ada", TotalXP: 150, BadgeCount: 3},
			{Rank: 2, UserID: 5, Username: "grace", TotalXP: 75, BadgeCount: 1},
		},
	}
	controller := newTestController(mock)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/leaderboard?role=student&limit=25", nil)
	rec := httptest.NewRecorder()
	controller.GetLeaderboard(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, mock.lastReq)
	assert.Equal(t, "student", mock.lastReq.Role)
	assert.Equal(t, 25, mock.lastReq.Limit)

	var body struct {
		Success bool                       `json:"success"`
		Data    []*models.LeaderboardEntry `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Success)
	require.Len(t, body.Data, 2)
	assert.Equal(t, "ada", body.Data[0].Username)
}

func TestGetLeaderboardInvalidLimit(t *testing.T) {
	controller := newTestController(&mockLeaderboardService{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/leaderboard?limit=abc", nil)
	rec := httptest.NewRecorder()
	controller.GetLeaderboard(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetLeaderboardServiceError(t *testing.T) {
	mock := &mockLeaderboardService{err: services.NewInternalError("boom")}
	controller := newTestController(mock)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/leaderboard", nil)
	rec := httptest.NewRecorder()
	controller.GetLeaderboard(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var body struct {
		Success bool `json:"success"`
		Error   struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.False(t, body.Success)
	assert.Equal(t, "An internal error occurred", body.Error.Message, "internals must be masked")
}
