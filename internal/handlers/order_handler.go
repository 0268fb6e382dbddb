package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"bawabati-api/internal/middleware"
	"bawabati-api/internal/models"
	"bawabati-api/internal/services"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
)

type OrderHandler struct {
	orderService *services.OrderService
	logger       zerolog.Logger
}

func NewOrderHandler(orderService *services.OrderService, logger zerolog.Logger) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
		logger:       logger,
	}
}

func (h *OrderHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	customerID, ok := middleware.GetUserID(r)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "unauthorized", "User not authenticated")
		return
	}

	var req models.CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}

	order, err := h.orderService.CreateOrder(customerID, &req)
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to create order")
		respondWithError(w, http.StatusBadRequest, "order_failed", err.Error())
		return
	}

	respondWithJSON(w, http.StatusCreated, order)
}

func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	orderID, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid_id", "Invalid order id")
		return
	}

	order, err := h.orderService.GetOrder(orderID)
	if err == services.ErrOrderNotFound {
		respondWithError(w, http.StatusNotFound, "not_found", "Order not found")
		return
	}
	if err != nil {
		h.logger.Error().Err(err).Int("order_id", orderID).Msg("Failed to fetch order")
		respondWithError(w, http.StatusInternalServerError, "fetch_failed", "Failed to fetch order")
		return
	}

	userID, _ := middleware.GetUserID(r)
	role, _ := middleware.GetUserRole(r)
	if !canSeeOrder(order, userID, role) {
		respondWithError(w, http.StatusForbidden, "forbidden", "Not allowed to view this order")
		return
	}

	respondWithJSON(w, http.StatusOK, order)
}

func (h *OrderHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "unauthorized", "User not authenticated")
		return
	}
	role, _ := middleware.GetUserRole(r)

	limit := 50
	offset := 0
	if l, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && l > 0 {
		limit = l
	}
	if o, err := strconv.Atoi(r.URL.Query().Get("offset")); err == nil && o >= 0 {
		offset = o
	}

	orders, err := h.orderService.ListOrders(userID, role, limit, offset)
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to list orders")
		respondWithError(w, http.StatusInternalServerError, "fetch_failed", "Failed to fetch orders")
		return
	}

	respondWithJSON(w, http.StatusOK, orders)
}

func canSeeOrder(order *models.Order, userID int, role string) bool {
	if role == string(models.RoleAdmin) {
		return true
	}
	if order.CustomerID == userID || order.VendorID == userID {
		return true
	}
	if order.DriverID != nil && *order.DriverID == userID {
		return true
	}
	return false
}
