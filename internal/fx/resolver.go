package fx

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/moneta-dev/moneta/internal/model"
)

// NoApplicableRateError means no rate for the currency is valid on or
// before the query date. It is user-actionable: add a rate.
type NoApplicableRateError struct {
	Currency string
	Date     time.Time
}

func (e *NoApplicableRateError) Error() string {
	return fmt.Sprintf("no applicable %s rate on or before %s", e.Currency, e.Date.Format("2006-01-02"))
}

// RateSource loads the persisted rates for one user and currency.
type RateSource interface {
	LoadFXRates(ctx context.Context, userID int64, currency string) ([]model.FXRate, error)
}

// Resolver finds the rate-to-base effective on a given date. Resolution is
// a pure read of the current persisted state; no caching.
type Resolver struct {
	source RateSource
	base   string
}

// NewResolver creates a Resolver for the given base currency.
func NewResolver(source RateSource, baseCurrency string) *Resolver {
	return &Resolver{source: source, base: Normalize(baseCurrency)}
}

// Base returns the configured base currency.
func (r *Resolver) Base() string { return r.base }

// Resolve returns the rate-to-base for currency effective on date: the rate
// with the largest valid_from that is <= date. The base currency always
// resolves to 1 without a lookup.
func (r *Resolver) Resolve(ctx context.Context, userID int64, currency string, date time.Time) (decimal.Decimal, error) {
	code := Normalize(currency)
	if code == r.base {
		return decimal.NewFromInt(1), nil
	}

	rates, err := r.source.LoadFXRates(ctx, userID, code)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("loading %s rates: %w", code, err)
	}

	rate, ok := Effective(rates, date)
	if !ok {
		return decimal.Decimal{}, &NoApplicableRateError{Currency: code, Date: date}
	}
	return rate.Rate, nil
}

// Convert resolves the rate for currency on date and applies it to amount.
func (r *Resolver) Convert(ctx context.Context, userID int64, amount decimal.Decimal, currency string, date time.Time) (decimal.Decimal, error) {
	rate, err := r.Resolve(ctx, userID, currency, date)
	if err != nil {
		return decimal.Decimal{}, err
	}
	return amount.Mul(rate), nil
}

// Effective picks the rate with the largest ValidFrom <= date from rates.
// The second return is false when no rate applies.
func Effective(rates []model.FXRate, date time.Time) (model.FXRate, bool) {
	sorted := append([]model.FXRate(nil), rates...)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].ValidFrom.Before(sorted[j].ValidFrom)
	})

	var best model.FXRate
	found := false
	for _, rate := range sorted {
		if rate.ValidFrom.After(date) {
			break
		}
		best = rate
		found = true
	}
	return best, found
}
