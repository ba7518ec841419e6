package fx

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moneta-dev/moneta/internal/model"
)

// fakeRates serves rates from memory, keyed by currency.
type fakeRates struct {
	rates map[string][]model.FXRate
}

func (f *fakeRates) LoadFXRates(_ context.Context, _ int64, currency string) ([]model.FXRate, error) {
	return f.rates[currency], nil
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func usdRates() *fakeRates {
	return &fakeRates{rates: map[string][]model.FXRate{
		"USD": {
			{Currency: "USD", Rate: dec("0.95"), ValidFrom: date(2024, 2, 15)},
			{Currency: "USD", Rate: dec("0.90"), ValidFrom: date(2024, 1, 1)},
		},
	}}
}

func TestResolve_LatestRateAtOrBeforeDate(t *testing.T) {
	r := NewResolver(usdRates(), "EUR")

	// Transaction date precedes the later rate's valid_from: earlier rate applies.
	rate, err := r.Resolve(context.Background(), 1, "USD", date(2024, 2, 1))
	require.NoError(t, err)
	assert.True(t, rate.Equal(dec("0.90")))

	rate, err = r.Resolve(context.Background(), 1, "USD", date(2024, 2, 15))
	require.NoError(t, err)
	assert.True(t, rate.Equal(dec("0.95")))

	rate, err = r.Resolve(context.Background(), 1, "USD", date(2024, 6, 1))
	require.NoError(t, err)
	assert.True(t, rate.Equal(dec("0.95")))
}

func TestResolve_NoApplicableRate(t *testing.T) {
	r := NewResolver(usdRates(), "EUR")

	_, err := r.Resolve(context.Background(), 1, "USD", date(2023, 12, 31))
	require.Error(t, err)

	var noRate *NoApplicableRateError
	require.ErrorAs(t, err, &noRate)
	assert.Equal(t, "USD", noRate.Currency)

	// Unknown currency fails the same distinct way.
	_, err = r.Resolve(context.Background(), 1, "XXY", date(2024, 6, 1))
	assert.True(t, errors.As(err, &noRate))
}

func TestResolve_BaseCurrencyIsOne(t *testing.T) {
	// No rates at all: base still resolves without a lookup.
	r := NewResolver(&fakeRates{rates: map[string][]model.FXRate{}}, "EUR")

	rate, err := r.Resolve(context.Background(), 1, "eur", date(2024, 1, 1))
	require.NoError(t, err)
	assert.True(t, rate.Equal(decimal.NewFromInt(1)))
}

func TestConvert(t *testing.T) {
	r := NewResolver(usdRates(), "EUR")

	// 100 USD on 2024-02-01 converts at the 0.90 rate.
	got, err := r.Convert(context.Background(), 1, dec("100"), "USD", date(2024, 2, 1))
	require.NoError(t, err)
	assert.Equal(t, "90.00", got.StringFixed(2))
}

func TestEffective_UnsortedInput(t *testing.T) {
	rates := []model.FXRate{
		{Rate: dec("0.95"), ValidFrom: date(2024, 2, 15)},
		{Rate: dec("0.90"), ValidFrom: date(2024, 1, 1)},
		{Rate: dec("0.92"), ValidFrom: date(2024, 1, 20)},
	}

	rate, ok := Effective(rates, date(2024, 2, 1))
	require.True(t, ok)
	assert.True(t, rate.Rate.Equal(dec("0.92")))

	_, ok = Effective(rates, date(2023, 1, 1))
	assert.False(t, ok)
}

func TestValidCodeAndKnown(t *testing.T) {
	assert.True(t, ValidCode(" usd "))
	assert.True(t, ValidCode("XXY"))
	assert.False(t, ValidCode("EURO"))
	assert.False(t, ValidCode("E1R"))
	assert.False(t, ValidCode(""))

	assert.True(t, Known("usd"))
	assert.False(t, Known("XXY"))
}
