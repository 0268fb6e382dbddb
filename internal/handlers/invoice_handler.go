package handlers

import (
	"net/http"
	"strconv"

	"bawabati-api/internal/services"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
)

type InvoiceHandler struct {
	orderService   *services.OrderService
	invoiceService *services.InvoiceService
	logger         zerolog.Logger
}

func NewInvoiceHandler(orderService *services.OrderService, invoiceService *services.InvoiceService, logger zerolog.Logger) *InvoiceHandler {
	return &InvoiceHandler{
		orderService:   orderService,
		invoiceService: invoiceService,
		logger:         logger,
	}
}

// GetInvoice serves the printable invoice for an order as HTML. Missing
// orders return a JSON 404; any other failure is a JSON 500.
func (h *InvoiceHandler) GetInvoice(w http.ResponseWriter, r *http.Request) {
	orderID, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid_id", "Invalid order id")
		return
	}

	data, err := h.orderService.GetInvoiceData(orderID)
	if err == services.ErrOrderNotFound {
		respondWithError(w, http.StatusNotFound, "not_found", "Order not found")
		return
	}
	if err != nil {
		h.logger.Error().Err(err).Int("order_id", orderID).Msg("Failed to load invoice data")
		respondWithError(w, http.StatusInternalServerError, "internal_error", "Failed to generate invoice")
		return
	}

	html, err := h.invoiceService.Render(r.Context(), data)
	if err != nil {
		h.logger.Error().Err(err).Int("order_id", orderID).Msg("Failed to render invoice")
		respondWithError(w, http.StatusInternalServerError, "internal_error", "Failed to generate invoice")
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(html)
}
