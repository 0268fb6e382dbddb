package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"bawabati-api/internal/cache"
	"bawabati-api/internal/models"

	"github.com/rs/zerolog"
)

const (
	currenciesCacheKey = "currencies"
	ratesCacheKey      = "exchange_rates:usd"

	// rateStaleness is how old the freshest stored rate may be before a
	// provider refresh is attempted.
	rateStaleness = 24 * time.Hour

	// refreshBackoff keeps a stale-but-unreachable feed from being hit on
	// every conversion.
	refreshBackoff = time.Minute
)

// CurrencyService converts and formats monetary amounts. Every failure mode
// degrades: missing rates fall back to the static USD table or to the
// unconverted amount, and lookups never surface an error to the caller.
type CurrencyService struct {
	store     CurrencyStore
	cache     *cache.Cache
	providers []RateProvider
	logger    zerolog.Logger
	now       func() time.Time

	mu          sync.RWMutex
	currencies  []models.Currency
	byCode      map[string]models.Currency
	direct      map[string]map[string]float64
	usdRates    map[string]float64
	lastUpdated time.Time
	lastAttempt time.Time
}

func NewCurrencyService(store CurrencyStore, c *cache.Cache, providers []RateProvider, logger zerolog.Logger) *CurrencyService {
	return &CurrencyService{
		store:     store,
		cache:     c,
		providers: providers,
		logger:    logger,
		now:       time.Now,
	}
}

// GetCurrencies returns the active currencies ordered for display. On any
// data-access failure it logs and returns an empty slice; the storefront
// renders without a currency switcher rather than erroring.
func (s *CurrencyService) GetCurrencies(ctx context.Context) []models.Currency {
	s.mu.RLock()
	if s.currencies != nil {
		defer s.mu.RUnlock()
		return s.currencies
	}
	s.mu.RUnlock()

	var currencies []models.Currency
	if err := s.cache.Get(ctx, currenciesCacheKey, &currencies); err != nil || len(currencies) == 0 {
		var storeErr error
		currencies, storeErr = s.store.Currencies(ctx)
		if storeErr != nil {
			s.logger.Warn().Err(storeErr).Msg("Failed to load currencies")
			return []models.Currency{}
		}
		if err := s.cache.Set(ctx, currenciesCacheKey, currencies); err != nil {
			s.logger.Warn().Err(err).Msg("Failed to cache currencies")
		}
	}

	byCode := make(map[string]models.Currency, len(currencies))
	for _, c := range currencies {
		byCode[c.Code] = c
	}

	s.mu.Lock()
	s.currencies = currencies
	s.byCode = byCode
	s.mu.Unlock()

	return currencies
}

// ConvertPrice converts amount from one currency code to another. Identity
// conversions and unknown pairs return the amount unchanged; the latter is
// logged at warning level.
func (s *CurrencyService) ConvertPrice(ctx context.Context, amount float64, from, to string) float64 {
	if from == to {
		return amount
	}

	s.ensureRates(ctx)

	rate, ok := s.rateFor(from, to)
	if !ok {
		s.logger.Warn().Str("from", from).Str("to", to).Msg("No exchange rate found, returning unconverted amount")
		return amount
	}

	return amount * rate
}

// FormatPrice renders amount with the currency's decimal places and a
// trailing symbol, e.g. "123.40 ر.س". Unknown codes format with two decimal
// places and the code itself.
func (s *CurrencyService) FormatPrice(ctx context.Context, amount float64, code string) string {
	s.GetCurrencies(ctx)

	decimals := 2
	symbol := code

	s.mu.RLock()
	if c, ok := s.byCode[code]; ok {
		decimals = c.DecimalPlaces
		symbol = c.Symbol
	}
	s.mu.RUnlock()

	return fmt.Sprintf("%.*f %s", decimals, amount, symbol)
}

// LastRateUpdate reports when the loaded rate table was last refreshed.
func (s *CurrencyService) LastRateUpdate() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastUpdated
}

// rateFor resolves the rate mapping from -> to: a direct stored pair first,
// then a cross rate through USD, then the static fallback table.
func (s *CurrencyService) rateFor(from, to string) (float64, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if targets, ok := s.direct[from]; ok {
		if rate, ok := targets[to]; ok {
			return rate, true
		}
	}

	if rate, ok := crossRate(s.usdRates, from, to); ok {
		return rate, true
	}

	return crossRate(fallbackUSDRates, from, to)
}

// crossRate derives from -> to by dividing through the USD pivot.
func crossRate(usdRates map[string]float64, from, to string) (float64, bool) {
	fromRate, okFrom := usdRates[from]
	toRate, okTo := usdRates[to]
	if !okFrom || !okTo || fromRate == 0 {
		return 0, false
	}
	return toRate / fromRate, true
}

// ensureRates loads the stored rate table on first use and refreshes it from
// the provider chain when it is older than the staleness threshold.
func (s *CurrencyService) ensureRates(ctx context.Context) {
	s.mu.RLock()
	loaded := s.direct != nil
	lastUpdated := s.lastUpdated
	lastAttempt := s.lastAttempt
	s.mu.RUnlock()

	if !loaded {
		s.loadStoredRates(ctx)
		s.mu.RLock()
		lastUpdated = s.lastUpdated
		lastAttempt = s.lastAttempt
		s.mu.RUnlock()
	}

	now := s.now()
	if now.Sub(lastUpdated) <= rateStaleness {
		return
	}
	if now.Sub(lastAttempt) < refreshBackoff {
		return
	}

	s.refresh(ctx)
}

func (s *CurrencyService) loadStoredRates(ctx context.Context) {
	var stored []models.ExchangeRate
	if err := s.cache.Get(ctx, ratesCacheKey, &stored); err != nil || len(stored) == 0 {
		var storeErr error
		stored, storeErr = s.store.Rates(ctx)
		if storeErr != nil {
			s.logger.Warn().Err(storeErr).Msg("Failed to load exchange rates")
		}
	}

	direct := make(map[string]map[string]float64)
	usdRates := make(map[string]float64)
	var lastUpdated time.Time

	for _, r := range stored {
		if direct[r.BaseCurrency] == nil {
			direct[r.BaseCurrency] = make(map[string]float64)
		}
		direct[r.BaseCurrency][r.TargetCurrency] = r.Rate
		if r.BaseCurrency == "USD" {
			usdRates[r.TargetCurrency] = r.Rate
		}
		if r.LastUpdated.After(lastUpdated) {
			lastUpdated = r.LastUpdated
		}
	}
	if len(usdRates) > 0 {
		usdRates["USD"] = 1.0
	}

	s.mu.Lock()
	s.direct = direct
	s.usdRates = usdRates
	s.lastUpdated = lastUpdated
	s.mu.Unlock()
}

// refresh pulls a fresh USD table from the provider chain. Provider results
// are persisted and cached; the static fallback is held in memory only.
func (s *CurrencyService) refresh(ctx context.Context) {
	now := s.now()

	s.mu.Lock()
	s.lastAttempt = now
	s.mu.Unlock()

	usdRates, source := ResolveUSDRates(ctx, s.providers, s.logger)

	if source != "fallback" {
		if err := s.store.UpsertUSDRates(ctx, usdRates, now); err != nil {
			s.logger.Warn().Err(err).Str("provider", source).Msg("Failed to persist refreshed rates")
		}
		stored := make([]models.ExchangeRate, 0, len(usdRates))
		for target, rate := range usdRates {
			stored = append(stored, models.ExchangeRate{
				BaseCurrency:   "USD",
				TargetCurrency: target,
				Rate:           rate,
				LastUpdated:    now,
			})
		}
		if err := s.cache.Set(ctx, ratesCacheKey, stored); err != nil {
			s.logger.Warn().Err(err).Msg("Failed to cache refreshed rates")
		}
	}

	direct := map[string]map[string]float64{"USD": {}}
	for target, rate := range usdRates {
		direct["USD"][target] = rate
	}

	s.mu.Lock()
	s.direct = direct
	s.usdRates = usdRates
	if source != "fallback" {
		// Fallback rates do not advance freshness; the providers are
		// retried once the backoff expires.
		s.lastUpdated = now
	}
	s.mu.Unlock()

	s.logger.Info().Str("source", source).Int("rates", len(usdRates)).Msg("Exchange rates refreshed")
}
