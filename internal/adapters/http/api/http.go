// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/okian/savor/internal/adapters/leaderboard"
	"github.com/okian/savor/internal/adapters/record"
	service "github.com/okian/savor/internal/app"
)

// View shapes mirrored from the service layer.
type (
	Restaurant = service.RestaurantView
	Review     = service.ReviewView
	Ranked     = service.RankedRestaurant
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	ListRestaurants(ctx context.Context) ([]Restaurant, error)
	CreateRestaurant(ctx context.Context, name, location string) (Restaurant, error)
	DeleteRestaurant(ctx context.Context, id string) error

	// AddReview returns the created review and whether the leaderboard
	// index was updated alongside the primary write.
	AddReview(ctx context.Context, restaurantID, text string) (Review, bool, error)

	Leaderboard(ctx context.Context) ([]Ranked, error)
	TopN(ctx context.Context, n int) ([]Ranked, error)
	BottomN(ctx context.Context, n int) ([]Ranked, error)
}

// Server wires HTTP routes for the business API.
type Server struct {
	homeHandler        *HomeHandler
	healthHandler      *HealthHandler
	statsHandler       *StatsHandler
	restaurantsHandler *RestaurantsHandler
	reviewsHandler     *ReviewsHandler
	leaderboardHandler *LeaderboardHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, maxLimit int) *Server {
	return &Server{
		homeHandler:        NewHomeHandler(),
		healthHandler:      NewHealthHandler(),
		statsHandler:       NewStatsHandler(statsProvider),
		restaurantsHandler: NewRestaurantsHandler(deps),
		reviewsHandler:     NewReviewsHandler(deps),
		leaderboardHandler: NewLeaderboardHandler(deps, maxLimit),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	// Specific paths first (most specific to least specific)
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/restaurants", MetricsMiddleware(s.restaurantsHandler.HandleRestaurants, "restaurants"))
	mux.HandleFunc("/restaurants/", MetricsMiddleware(s.restaurantsHandler.HandleRestaurantByID, "restaurant"))
	mux.HandleFunc("/reviews", MetricsMiddleware(s.reviewsHandler.HandlePostReview, "reviews"))
	mux.HandleFunc("/leaderboard", MetricsMiddleware(s.leaderboardHandler.HandleGetLeaderboard, "leaderboard"))
	mux.HandleFunc("/leaderboard/top/", MetricsMiddleware(s.leaderboardHandler.HandleGetTop, "leaderboard_top"))
	mux.HandleFunc("/leaderboard/bottom/", MetricsMiddleware(s.leaderboardHandler.HandleGetBottom, "leaderboard_bottom"))
	mux.HandleFunc("/", s.homeHandler.HandleHome)
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeDomainError translates service-layer sentinels to HTTP statuses.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrValidation):
		writeError(w, http.StatusBadRequest, "bad_request", err)
	case errors.Is(err, record.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", err)
	case errors.Is(err, leaderboard.ErrInvalidRange):
		writeError(w, http.StatusBadRequest, "bad_request", err)
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err)
	}
}
