package router

import (
	"encoding/json"
	"net/http"
	"time"

	"skillbridge/internal/handlers/api/v1/badges"
	"skillbridge/internal/handlers/api/v1/leaderboard"
	"skillbridge/internal/handlers/api/v1/progress"
	"skillbridge/internal/middleware"
	"skillbridge/internal/response"
	"skillbridge/internal/services"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// SetupRouter configures all HTTP routes and returns the main handler
func SetupRouter(
	serviceCollection *services.ServiceCollection,
	authMiddleware *middleware.AuthMiddleware,
	responseBuilder *response.Builder,
	logger *zap.Logger,
) http.Handler {
	r := mux.NewRouter()

	// Ambient middleware wraps everything, including the health probe
	r.Use(middleware.RequestID(logger))
	r.Use(middleware.StructuredLogging(logger, nil))
	r.Use(middleware.Recovery(logger))

	r.HandleFunc("/health", healthHandler(serviceCollection)).Methods(http.MethodGet)

	// Controllers
	progressController := progress.NewProgressController(serviceCollection, logger, responseBuilder)
	badgeController := badges.NewBadgeController(serviceCollection, logger, responseBuilder)
	leaderboardController := leaderboard.NewLeaderboardController(serviceCollection, logger, responseBuilder)

	api := r.PathPrefix("/api/v1").Subrouter()

	// Public catalog and rankings
	api.HandleFunc("/badges", badgeController.ListCatalog).Methods(http.MethodGet)
	api.HandleFunc("/leaderboard", leaderboardController.GetLeaderboard).Methods(http.MethodGet)

	// Authenticated surface
	authed := api.NewRoute().Subrouter()
	authed.Use(authMiddleware.RequireAuth)

	authed.HandleFunc("/progress/watch", progressController.RecordWatch).Methods(http.MethodPost)
	authed.HandleFunc("/progress", progressController.GetMyProgress).Methods(http.MethodGet)
	authed.HandleFunc("/progress/courses/{courseID:[0-9]+}", progressController.GetCourseProgress).Methods(http.MethodGet)
	authed.HandleFunc("/enrollments/{courseID:[0-9]+}/celebration", progressController.AcknowledgeCelebration).Methods(http.MethodPost)

	authed.HandleFunc("/badges/mine", badgeController.GetMyBadges).Methods(http.MethodGet)
	authed.HandleFunc("/badges/mine/{badgeID:[0-9]+}/seen", badgeController.MarkSeen).Methods(http.MethodPost)
	authed.HandleFunc("/badges/evaluate", badgeController.Evaluate).Methods(http.MethodPost)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		responseBuilder.WriteNotFound(req.Context(), w, "route not found")
	})

	logger.Info("✅ Router configured")
	return r
}

// healthHandler reports process and dependency health for load balancers
func healthHandler(serviceCollection *services.ServiceCollection) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		dbHealth := serviceCollection.Repositories.GetDB().Health(r.Context())

		status := http.StatusOK
		overall := "healthy"
		if dbHealth.Status != "healthy" {
			status = http.StatusServiceUnavailable
			overall = "unhealthy"
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"status":    overall,
			"timestamp": time.Now().UTC(),
			"checks":    map[string]interface{}{"database": dbHealth},
		})
	}
}
