package handlers

import (
	"encoding/json"
	"net/http"

	"bawabati-api/internal/models"
	"bawabati-api/internal/services"

	"github.com/rs/zerolog"
)

type DeliveryHandler struct {
	deliveryService *services.DeliveryService
	logger          zerolog.Logger
}

func NewDeliveryHandler(deliveryService *services.DeliveryService, logger zerolog.Logger) *DeliveryHandler {
	return &DeliveryHandler{
		deliveryService: deliveryService,
		logger:          logger,
	}
}

func (h *DeliveryHandler) Quote(w http.ResponseWriter, r *http.Request) {
	var req models.DeliveryQuoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}

	quote, err := h.deliveryService.Quote(req.Origin, req.Destination, req.Shipping, req.Subtotal)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid_quote_request", err.Error())
		return
	}

	respondWithJSON(w, http.StatusOK, quote)
}
