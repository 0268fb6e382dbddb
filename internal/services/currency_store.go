package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"bawabati-api/internal/models"
)

// CurrencyStore is the persistence boundary of the currency service. The
// production implementation sits on Postgres; tests substitute a stub.
type CurrencyStore interface {
	Currencies(ctx context.Context) ([]models.Currency, error)
	Rates(ctx context.Context) ([]models.ExchangeRate, error)
	UpsertUSDRates(ctx context.Context, rates map[string]float64, updatedAt time.Time) error
}

type sqlCurrencyStore struct {
	db *sql.DB
}

func NewCurrencyStore(db *sql.DB) CurrencyStore {
	return &sqlCurrencyStore{db: db}
}

func (s *sqlCurrencyStore) Currencies(ctx context.Context) ([]models.Currency, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT code, name_en, name_ar, symbol, COALESCE(flag, ''), decimal_places, is_active, display_order
		 FROM currencies
		 WHERE is_active = TRUE
		 ORDER BY display_order`,
	)
	if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	defer rows.Close()

	var currencies []models.Currency
	for rows.Next() {
		var c models.Currency
		if err := rows.Scan(&c.Code, &c.NameEN, &c.NameAR, &c.Symbol, &c.Flag, &c.DecimalPlaces, &c.IsActive, &c.DisplayOrder); err != nil {
			return nil, fmt.Errorf("error scanning currency: %w", err)
		}
		currencies = append(currencies, c)
	}

	return currencies, rows.Err()
}

func (s *sqlCurrencyStore) Rates(ctx context.Context) ([]models.ExchangeRate, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT base_currency, target_currency, rate, last_updated FROM exchange_rates",
	)
	if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	defer rows.Close()

	var rates []models.ExchangeRate
	for rows.Next() {
		var r models.ExchangeRate
		if err := rows.Scan(&r.BaseCurrency, &r.TargetCurrency, &r.Rate, &r.LastUpdated); err != nil {
			return nil, fmt.Errorf("error scanning exchange rate: %w", err)
		}
		rates = append(rates, r)
	}

	return rates, rows.Err()
}

// UpsertUSDRates replaces the USD-based rate rows in a single transaction so
// readers never observe a half-written refresh.
func (s *sqlCurrencyStore) UpsertUSDRates(ctx context.Context, rates map[string]float64, updatedAt time.Time) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	for target, rate := range rates {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO exchange_rates (base_currency, target_currency, rate, last_updated)
			 VALUES ('USD', $1, $2, $3)
			 ON CONFLICT (base_currency, target_currency)
			 DO UPDATE SET rate = EXCLUDED.rate, last_updated = EXCLUDED.last_updated`,
			target, rate, updatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to upsert rate for %s: %w", target, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit rate refresh: %w", err)
	}

	return nil
}
