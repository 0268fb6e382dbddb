package handlers

import (
	"net/http"

	"bawabati-api/internal/middleware"

	"github.com/rs/zerolog"
)

// DashboardHandler serves the landing payload of each role console. The
// interesting part is the gating in front of these routes, not the payloads.
type DashboardHandler struct {
	logger zerolog.Logger
}

func NewDashboardHandler(logger zerolog.Logger) *DashboardHandler {
	return &DashboardHandler{logger: logger}
}

func (h *DashboardHandler) Landing(area string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, _ := middleware.GetUserID(r)
		role, _ := middleware.GetUserRole(r)

		respondWithJSON(w, http.StatusOK, map[string]interface{}{
			"area":    area,
			"user_id": userID,
			"role":    role,
		})
	}
}
