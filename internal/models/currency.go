package models

import "time"

type Currency struct {
	Code          string `json:"code"`
	NameEN        string `json:"name_en"`
	NameAR        string `json:"name_ar"`
	Symbol        string `json:"symbol"`
	Flag          string `json:"flag"`
	DecimalPlaces int    `json:"decimal_places"`
	IsActive      bool   `json:"is_active"`
	DisplayOrder  int    `json:"display_order"`
}

type ExchangeRate struct {
	BaseCurrency   string    `json:"base_currency"`
	TargetCurrency string    `json:"target_currency"`
	Rate           float64   `json:"rate"`
	LastUpdated    time.Time `json:"last_updated"`
}

type ConversionResponse struct {
	Amount    float64 `json:"amount"`
	From      string  `json:"from"`
	To        string  `json:"to"`
	Converted float64 `json:"converted"`
	Formatted string  `json:"formatted"`
}
