package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/rs/zerolog"
)

// RateProvider fetches a USD-based exchange-rate table from a public feed.
type RateProvider interface {
	Name() string
	FetchUSDRates(ctx context.Context) (map[string]float64, error)
}

type ratesPayload struct {
	Rates map[string]float64 `json:"rates"`
}

func fetchRates(ctx context.Context, client *http.Client, url string) (map[string]float64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	var payload ratesPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}
	if len(payload.Rates) == 0 {
		return nil, errors.New("empty rates table")
	}

	return payload.Rates, nil
}

// ExchangeRateAPIProvider consumes an ExchangeRate-API style feed:
// GET {base}/USD -> { "rates": { "SAR": 3.75, ... } }.
type ExchangeRateAPIProvider struct {
	BaseURL string
	Client  *http.Client
}

func (p *ExchangeRateAPIProvider) Name() string { return "exchangerate-api" }

func (p *ExchangeRateAPIProvider) FetchUSDRates(ctx context.Context) (map[string]float64, error) {
	rates, err := fetchRates(ctx, p.Client, p.BaseURL+"/USD")
	if err != nil {
		return nil, err
	}
	rates["USD"] = 1.0
	return rates, nil
}

// FrankfurterProvider consumes a Frankfurter style feed:
// GET {base}?from=USD -> { "rates": { "SAR": 3.75, ... } }.
type FrankfurterProvider struct {
	BaseURL string
	Client  *http.Client
}

func (p *FrankfurterProvider) Name() string { return "frankfurter" }

func (p *FrankfurterProvider) FetchUSDRates(ctx context.Context) (map[string]float64, error) {
	rates, err := fetchRates(ctx, p.Client, p.BaseURL+"?from=USD")
	if err != nil {
		return nil, err
	}
	rates["USD"] = 1.0
	return rates, nil
}

// fallbackUSDRates is the last resort when every provider and the database
// are unavailable. Values are units of currency per 1 USD.
var fallbackUSDRates = map[string]float64{
	"USD": 1.0,
	"SAR": 3.75,
	"ILS": 3.70,
	"JOD": 0.709,
	"EGP": 48.50,
	"AED": 3.6725,
	"KWD": 0.306,
	"QAR": 3.64,
	"BHD": 0.376,
	"OMR": 0.3845,
}

// ResolveUSDRates walks the provider chain in order and returns the first
// table that loads, falling back to the static table when every provider
// fails. The static fallback never errors.
func ResolveUSDRates(ctx context.Context, providers []RateProvider, logger zerolog.Logger) (map[string]float64, string) {
	for _, p := range providers {
		rates, err := p.FetchUSDRates(ctx)
		if err != nil {
			logger.Warn().Err(err).Str("provider", p.Name()).Msg("Rate provider failed")
			continue
		}
		return rates, p.Name()
	}

	logger.Warn().Msg("All rate providers failed, using static fallback rates")
	static := make(map[string]float64, len(fallbackUSDRates))
	for code, rate := range fallbackUSDRates {
		static[code] = rate
	}
	return static, "fallback"
}
