package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// FXRate is a user-entered conversion rate from Currency to the base
// currency, effective from ValidFrom onward until a newer rate applies.
type FXRate struct {
	ID        int64
	UserID    int64
	Currency  string
	Rate      decimal.Decimal // multiply a Currency amount by Rate to get base
	ValidFrom time.Time
}
