// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"
	"strconv"
	"strings"
)

// LeaderboardHandler handles leaderboard requests.
type LeaderboardHandler struct {
	deps     Dependencies
	maxLimit int
}

// NewLeaderboardHandler creates a new leaderboard handler.
func NewLeaderboardHandler(deps Dependencies, maxLimit int) *LeaderboardHandler {
	return &LeaderboardHandler{
		deps:     deps,
		maxLimit: maxLimit,
	}
}

type leaderboardResponse struct {
	Leaderboard []Ranked `json:"leaderboard"`
}

// HandleGetLeaderboard handles GET /leaderboard requests.
func (h *LeaderboardHandler) HandleGetLeaderboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	entries, err := h.deps.Leaderboard(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	h.write(w, entries)
}

// HandleGetTop handles GET /leaderboard/top/{n} requests.
func (h *LeaderboardHandler) HandleGetTop(w http.ResponseWriter, r *http.Request) {
	n, ok := h.limitParam(w, r, "/leaderboard/top/")
	if !ok {
		return
	}
	entries, err := h.deps.TopN(r.Context(), n)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	h.write(w, entries)
}

// HandleGetBottom handles GET /leaderboard/bottom/{n} requests.
func (h *LeaderboardHandler) HandleGetBottom(w http.ResponseWriter, r *http.Request) {
	n, ok := h.limitParam(w, r, "/leaderboard/bottom/")
	if !ok {
		return
	}
	entries, err := h.deps.BottomN(r.Context(), n)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	h.write(w, entries)
}

// limitParam extracts and validates the path count parameter.
func (h *LeaderboardHandler) limitParam(w http.ResponseWriter, r *http.Request, prefix string) (int, bool) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return 0, false
	}
	raw := strings.TrimPrefix(r.URL.Path, prefix)
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return 0, false
	}
	if n > h.maxLimit {
		writeError(w, http.StatusBadRequest, "limit_exceeded", ErrBadRequest)
		return 0, false
	}
	return n, true
}

func (h *LeaderboardHandler) write(w http.ResponseWriter, entries []Ranked) {
	if entries == nil {
		entries = []Ranked{}
	}
	writeJSON(w, http.StatusOK, leaderboardResponse{Leaderboard: entries})
}
