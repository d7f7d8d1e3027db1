package api

import (
	"net/http"

	"github.com/2beens/liftledger/internal/middleware"

	"github.com/gorilla/mux"
)

// SetupRoutes registers the workout routes on r. Logging a workout is rate
// limited per user when rateLimiter is set.
func (h *Handler) SetupRoutes(r *mux.Router, rateLimiter middleware.RequestRateLimiter, logsAllowedPerMin int) {
	var logHandler http.Handler = http.HandlerFunc(h.HandleLog)
	if rateLimiter != nil {
		logHandler = middleware.RateLimit(rateLimiter, h.metricsManager, "log-workout", logsAllowedPerMin)(logHandler)
	}

	r.HandleFunc("/ping", h.HandlePing).Methods("GET").Name("ping")
	r.HandleFunc("/modes", h.HandleModes).Methods("GET", "OPTIONS").Name("modes")
	r.HandleFunc("/modes/suggest", h.HandleSuggestMode).Methods("GET", "OPTIONS").Name("suggest-mode")

	r.Handle("/workouts", logHandler).Methods("POST", "OPTIONS").Name("log-workout")
	r.HandleFunc("/workouts", h.HandleList).Methods("GET", "OPTIONS").Name("list-workouts")
	r.HandleFunc("/workouts/stats", h.HandleStats).Methods("GET", "OPTIONS").Name("workout-stats")
	r.HandleFunc("/workouts/{sessionId}", h.HandleDetails).Methods("GET", "OPTIONS").Name("workout-details")
	r.HandleFunc("/workouts/{sessionId}", h.HandleDeleteSession).Methods("DELETE", "OPTIONS").Name("delete-workout")
	r.HandleFunc("/workouts/{sessionId}/exercises/{exerciseId}", h.HandleDeleteExercise).Methods("DELETE", "OPTIONS").Name("delete-exercise")
	r.HandleFunc("/sets/{setId}", h.HandleDeleteSet).Methods("DELETE", "OPTIONS").Name("delete-set")
	r.HandleFunc("/exercises/{exerciseId}/record", h.HandleRecord).Methods("GET", "OPTIONS").Name("exercise-record")

	if h.streaks != nil {
		r.HandleFunc("/streak", h.HandleStreak).Methods("GET", "OPTIONS").Name("streak")
	}
}
