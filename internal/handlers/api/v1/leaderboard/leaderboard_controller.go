// ===============================
// FILE: internal/handlers/api/v1/leaderboard/leaderboard_controller.go
// ===============================

package leaderboard

import (
	"net/http"
	"strconv"

	"skillbridge/internal/response"
	"skillbridge/internal/services"

	"go.uber.org/zap"
)

// LeaderboardController handles the XP ranking endpoint
type LeaderboardController struct {
	serviceCollection *services.ServiceCollection
	logger            *zap.Logger
	responseBuilder   *response.Builder
}

// NewLeaderboardController creates a new leaderboard controller
func NewLeaderboardController(
	serviceCollection *services.ServiceCollection,
	logger *zap.Logger,
	responseBuilder *response.Builder,
) *LeaderboardController {
	return &LeaderboardController{
		serviceCollection: serviceCollection,
		logger:            logger,
		responseBuilder:   responseBuilder,
	}
}

// GetLeaderboard handles GET /api/v1/leaderboard?role=student&limit=25
func (c *LeaderboardController) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	req := &services.LeaderboardRequest{
		Role: r.URL.Query().Get("role"),
	}
	if rawLimit := r.URL.Query().Get("limit"); rawLimit != "" {
		limit, err := strconv.Atoi(rawLimit)
		if err != nil {
			c.responseBuilder.WriteBadRequest(ctx, w, "invalid limit")
			return
		}
		req.Limit = limit
	}

	entries, err := c.serviceCollection.Leaderboard.GetLeaderboard(ctx, req)
	if err != nil {
		c.responseBuilder.WriteError(ctx, w, err)
		return
	}

	c.responseBuilder.WriteSuccess(ctx, w, entries)
}
