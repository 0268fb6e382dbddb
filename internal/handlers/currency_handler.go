package handlers

import (
	"net/http"
	"strconv"

	"bawabati-api/internal/models"
	"bawabati-api/internal/services"

	"github.com/rs/zerolog"
)

type CurrencyHandler struct {
	currencyService *services.CurrencyService
	logger          zerolog.Logger
}

func NewCurrencyHandler(currencyService *services.CurrencyService, logger zerolog.Logger) *CurrencyHandler {
	return &CurrencyHandler{
		currencyService: currencyService,
		logger:          logger,
	}
}

func (h *CurrencyHandler) GetCurrencies(w http.ResponseWriter, r *http.Request) {
	currencies := h.currencyService.GetCurrencies(r.Context())
	respondWithJSON(w, http.StatusOK, currencies)
}

// Convert handles GET /currencies/convert?amount=&from=&to=.
func (h *CurrencyHandler) Convert(w http.ResponseWriter, r *http.Request) {
	amountStr := r.URL.Query().Get("amount")
	from := r.URL.Query().Get("from")
	to := r.URL.Query().Get("to")

	if amountStr == "" || from == "" || to == "" {
		respondWithError(w, http.StatusBadRequest, "missing_parameter", "amount, from and to are required")
		return
	}

	amount, err := strconv.ParseFloat(amountStr, 64)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid_amount", "amount must be a number")
		return
	}

	converted := h.currencyService.ConvertPrice(r.Context(), amount, from, to)

	respondWithJSON(w, http.StatusOK, models.ConversionResponse{
		Amount:    amount,
		From:      from,
		To:        to,
		Converted: converted,
		Formatted: h.currencyService.FormatPrice(r.Context(), converted, to),
	})
}
