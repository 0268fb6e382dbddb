package handlers

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"strconv"

	"bawabati-api/internal/middleware"
	"bawabati-api/internal/models"
	"bawabati-api/internal/services"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
)

type UserHandler struct {
	userService *services.UserService
	logger      zerolog.Logger
}

func NewUserHandler(db *sql.DB, logger zerolog.Logger) *UserHandler {
	return &UserHandler{
		userService: services.NewUserService(db, logger),
		logger:      logger,
	}
}

func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "unauthorized", "User not authenticated")
		return
	}

	user, err := h.userService.GetUserByID(userID)
	if err != nil {
		respondWithError(w, http.StatusNotFound, "user_not_found", "User not found")
		return
	}

	respondWithJSON(w, http.StatusOK, user)
}

func (h *UserHandler) GetUsers(w http.ResponseWriter, r *http.Request) {
	limit := 50
	offset := 0
	if l, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && l > 0 {
		limit = l
	}
	if o, err := strconv.Atoi(r.URL.Query().Get("offset")); err == nil && o >= 0 {
		offset = o
	}

	users, err := h.userService.GetUsers(limit, offset)
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to fetch users")
		respondWithError(w, http.StatusInternalServerError, "fetch_failed", "Failed to fetch users")
		return
	}

	respondWithJSON(w, http.StatusOK, users)
}

// UpdateRole changes another user's role. The route is admin-gated; this
// handler only validates the payload.
func (h *UserHandler) UpdateRole(w http.ResponseWriter, r *http.Request) {
	targetID, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid_id", "Invalid user id")
		return
	}

	var req models.UpdateRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}

	user, err := h.userService.UpdateRole(targetID, req.Role)
	if err != nil {
		h.logger.Error().Err(err).Int("user_id", targetID).Msg("Failed to update role")
		respondWithError(w, http.StatusBadRequest, "update_failed", err.Error())
		return
	}

	respondWithJSON(w, http.StatusOK, user)
}
