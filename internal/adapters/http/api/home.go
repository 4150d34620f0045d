// Package api declares HTTP contracts and route registration helpers.
package api

import "net/http"

// HomeHandler answers the root path with a service banner.
type HomeHandler struct{}

// NewHomeHandler creates a new home handler.
func NewHomeHandler() *HomeHandler {
	return &HomeHandler{}
}

type homeResponse struct {
	Message string `json:"message"`
}

// HandleHome handles GET / requests. Any other path falling through the
// mux is a 404.
func (h *HomeHandler) HandleHome(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, homeResponse{Message: "Restaurant Review API is running!"})
}
