// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"net/http"
)

// ReviewsHandler handles review creation requests.
type ReviewsHandler struct {
	deps Dependencies
}

// NewReviewsHandler creates a new reviews handler.
func NewReviewsHandler(deps Dependencies) *ReviewsHandler {
	return &ReviewsHandler{deps: deps}
}

// createReviewRequest mirrors the POST /reviews body.
type createReviewRequest struct {
	RestaurantID string `json:"restaurant_id"`
	Text         string `json:"text"`
}

// createReviewResponse carries the created review plus the degradation
// flag for the secondary index write.
type createReviewResponse struct {
	Review             Review `json:"review"`
	LeaderboardUpdated bool   `json:"leaderboard_updated"`
}

// HandlePostReview handles POST /reviews requests.
func (h *ReviewsHandler) HandlePostReview(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req createReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	review, updated, err := h.deps.AddReview(r.Context(), req.RestaurantID, req.Text)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, createReviewResponse{
		Review:             review,
		LeaderboardUpdated: updated,
	})
}
