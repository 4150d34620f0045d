// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"net/http"
	"strings"
)

// RestaurantsHandler handles restaurant collection and item requests.
type RestaurantsHandler struct {
	deps Dependencies
}

// NewRestaurantsHandler creates a new restaurants handler.
func NewRestaurantsHandler(deps Dependencies) *RestaurantsHandler {
	return &RestaurantsHandler{deps: deps}
}

// createRestaurantRequest mirrors the POST /restaurants body.
type createRestaurantRequest struct {
	Name     string `json:"name"`
	Location string `json:"location"`
}

type restaurantListResponse struct {
	Restaurants []Restaurant `json:"restaurants"`
}

type deleteResponse struct {
	Status string `json:"status"`
}

// HandleRestaurants handles GET /restaurants and POST /restaurants.
func (h *RestaurantsHandler) HandleRestaurants(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.handleList(w, r)
	case http.MethodPost:
		h.handleCreate(w, r)
	default:
		http.NotFound(w, r)
	}
}

func (h *RestaurantsHandler) handleList(w http.ResponseWriter, r *http.Request) {
	restaurants, err := h.deps.ListRestaurants(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if restaurants == nil {
		restaurants = []Restaurant{}
	}
	writeJSON(w, http.StatusOK, restaurantListResponse{Restaurants: restaurants})
}

func (h *RestaurantsHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req createRestaurantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	created, err := h.deps.CreateRestaurant(r.Context(), req.Name, req.Location)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// HandleRestaurantByID handles DELETE /restaurants/{id}.
func (h *RestaurantsHandler) HandleRestaurantByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		http.NotFound(w, r)
		return
	}
	id := strings.TrimPrefix(r.URL.Path, "/restaurants/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	if err := h.deps.DeleteRestaurant(r.Context(), id); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, deleteResponse{Status: "deleted"})
}
