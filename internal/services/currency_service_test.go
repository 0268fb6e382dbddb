package services

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"bawabati-api/internal/models"

	"github.com/rs/zerolog"
)

type stubCurrencyStore struct {
	currencies    []models.Currency
	rates         []models.ExchangeRate
	currenciesErr error
	ratesErr      error
	upserted      map[string]float64
}

func (s *stubCurrencyStore) Currencies(ctx context.Context) ([]models.Currency, error) {
	return s.currencies, s.currenciesErr
}

func (s *stubCurrencyStore) Rates(ctx context.Context) ([]models.ExchangeRate, error) {
	return s.rates, s.ratesErr
}

func (s *stubCurrencyStore) UpsertUSDRates(ctx context.Context, rates map[string]float64, updatedAt time.Time) error {
	s.upserted = rates
	return nil
}

type stubProvider struct {
	name  string
	rates map[string]float64
	err   error
	calls int
}

func (p *stubProvider) Name() string { return p.name }

func (p *stubProvider) FetchUSDRates(ctx context.Context) (map[string]float64, error) {
	p.calls++
	if p.err != nil {
		return nil, p.err
	}
	return p.rates, nil
}

func testCurrencies() []models.Currency {
	return []models.Currency{
		{Code: "SAR", NameEN: "Saudi Riyal", NameAR: "ريال سعودي", Symbol: "ر.س", DecimalPlaces: 2, IsActive: true, DisplayOrder: 1},
		{Code: "USD", NameEN: "US Dollar", NameAR: "دولار أمريكي", Symbol: "$", DecimalPlaces: 2, IsActive: true, DisplayOrder: 2},
		{Code: "JOD", NameEN: "Jordanian Dinar", NameAR: "دينار أردني", Symbol: "د.ا", DecimalPlaces: 3, IsActive: true, DisplayOrder: 3},
	}
}

func freshUSDRates(at time.Time) []models.ExchangeRate {
	return []models.ExchangeRate{
		{BaseCurrency: "USD", TargetCurrency: "SAR", Rate: 3.75, LastUpdated: at},
		{BaseCurrency: "USD", TargetCurrency: "JOD", Rate: 0.709, LastUpdated: at},
		{BaseCurrency: "USD", TargetCurrency: "ILS", Rate: 3.70, LastUpdated: at},
	}
}

func newTestCurrencyService(store CurrencyStore, providers ...RateProvider) *CurrencyService {
	return NewCurrencyService(store, nil, providers, zerolog.Nop())
}

func TestConvertPriceIdentity(t *testing.T) {
	store := &stubCurrencyStore{rates: freshUSDRates(time.Now())}
	svc := newTestCurrencyService(store)

	for _, code := range []string{"USD", "SAR", "JOD", "XXX"} {
		if got := svc.ConvertPrice(context.Background(), 42.5, code, code); got != 42.5 {
			t.Errorf("ConvertPrice(42.5, %s, %s) = %v, want 42.5", code, code, got)
		}
	}
}

func TestConvertPriceRoundTrip(t *testing.T) {
	store := &stubCurrencyStore{rates: freshUSDRates(time.Now())}
	svc := newTestCurrencyService(store)
	ctx := context.Background()

	pairs := [][2]string{
		{"USD", "SAR"},
		{"SAR", "JOD"},
		{"JOD", "ILS"},
	}

	for _, pair := range pairs {
		from, to := pair[0], pair[1]
		converted := svc.ConvertPrice(ctx, 100, from, to)
		back := svc.ConvertPrice(ctx, converted, to, from)
		if math.Abs(back-100) > 0.01 {
			t.Errorf("round trip %s->%s->%s: got %v, want about 100", from, to, from, back)
		}
	}
}

func TestConvertPriceCrossRateThroughUSD(t *testing.T) {
	store := &stubCurrencyStore{rates: freshUSDRates(time.Now())}
	svc := newTestCurrencyService(store)

	// SAR -> JOD has no direct pair; it must derive via USD.
	got := svc.ConvertPrice(context.Background(), 100, "SAR", "JOD")
	want := 100 * (0.709 / 3.75)
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("ConvertPrice(100, SAR, JOD) = %v, want %v", got, want)
	}
}

func TestConvertPriceUnknownCurrencyPassesThrough(t *testing.T) {
	store := &stubCurrencyStore{rates: freshUSDRates(time.Now())}
	svc := newTestCurrencyService(store)

	if got := svc.ConvertPrice(context.Background(), 75, "XXX", "SAR"); got != 75 {
		t.Errorf("ConvertPrice with unknown currency = %v, want unconverted 75", got)
	}
}

func TestConvertPriceFallbackWhenStoreEmpty(t *testing.T) {
	store := &stubCurrencyStore{ratesErr: errors.New("connection refused")}
	failing := &stubProvider{name: "a", err: errors.New("unreachable")}
	svc := newTestCurrencyService(store, failing)

	got := svc.ConvertPrice(context.Background(), 100, "USD", "SAR")
	want := 100 * fallbackUSDRates["SAR"]
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("ConvertPrice via fallback = %v, want %v", got, want)
	}
}

func TestStaleRatesTriggerRefresh(t *testing.T) {
	stale := time.Now().Add(-25 * time.Hour)
	store := &stubCurrencyStore{rates: freshUSDRates(stale)}
	provider := &stubProvider{name: "a", rates: map[string]float64{"USD": 1, "SAR": 3.80, "JOD": 0.71}}
	svc := newTestCurrencyService(store, provider)

	got := svc.ConvertPrice(context.Background(), 10, "USD", "SAR")

	if provider.calls == 0 {
		t.Fatal("expected a provider refresh for stale rates")
	}
	if math.Abs(got-38.0) > 1e-9 {
		t.Errorf("ConvertPrice after refresh = %v, want 38.0", got)
	}
	if store.upserted == nil {
		t.Error("refreshed rates were not persisted")
	}
	if time.Since(svc.LastRateUpdate()) > time.Minute {
		t.Errorf("LastRateUpdate not advanced: %v", svc.LastRateUpdate())
	}
}

func TestFreshRatesSkipRefresh(t *testing.T) {
	store := &stubCurrencyStore{rates: freshUSDRates(time.Now())}
	provider := &stubProvider{name: "a", rates: map[string]float64{"USD": 1, "SAR": 9.99}}
	svc := newTestCurrencyService(store, provider)

	svc.ConvertPrice(context.Background(), 10, "USD", "SAR")

	if provider.calls != 0 {
		t.Errorf("provider called %d times for fresh rates, want 0", provider.calls)
	}
}

func TestFallbackRefreshDoesNotAdvanceFreshness(t *testing.T) {
	stale := time.Now().Add(-25 * time.Hour)
	store := &stubCurrencyStore{rates: freshUSDRates(stale)}
	failing := &stubProvider{name: "a", err: errors.New("unreachable")}
	svc := newTestCurrencyService(store, failing)

	svc.ConvertPrice(context.Background(), 10, "USD", "SAR")

	if got := svc.LastRateUpdate(); !got.Equal(stale) {
		t.Errorf("LastRateUpdate = %v, want unchanged %v after fallback-only refresh", got, stale)
	}
	if store.upserted != nil {
		t.Error("fallback rates must not be persisted")
	}
}

func TestGetCurrencies(t *testing.T) {
	store := &stubCurrencyStore{currencies: testCurrencies()}
	svc := newTestCurrencyService(store)

	currencies := svc.GetCurrencies(context.Background())
	if len(currencies) != 3 {
		t.Fatalf("GetCurrencies() returned %d currencies, want 3", len(currencies))
	}
	for i := 1; i < len(currencies); i++ {
		if currencies[i].DisplayOrder < currencies[i-1].DisplayOrder {
			t.Error("currencies not ordered by display order")
		}
	}
}

func TestGetCurrenciesFailureReturnsEmpty(t *testing.T) {
	store := &stubCurrencyStore{currenciesErr: errors.New("connection refused")}
	svc := newTestCurrencyService(store)

	currencies := svc.GetCurrencies(context.Background())
	if currencies == nil || len(currencies) != 0 {
		t.Errorf("GetCurrencies() on failure = %v, want empty slice", currencies)
	}
}

func TestFormatPrice(t *testing.T) {
	store := &stubCurrencyStore{currencies: testCurrencies()}
	svc := newTestCurrencyService(store)
	ctx := context.Background()

	tests := []struct {
		amount float64
		code   string
		want   string
	}{
		{123.4, "SAR", "123.40 ر.س"},
		{99.999, "USD", "100.00 $"},
		{5, "JOD", "5.000 د.ا"},
		{7.5, "XXX", "7.50 XXX"},
	}

	for _, tt := range tests {
		if got := svc.FormatPrice(ctx, tt.amount, tt.code); got != tt.want {
			t.Errorf("FormatPrice(%v, %s) = %q, want %q", tt.amount, tt.code, got, tt.want)
		}
	}
}
