package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Timeframe is a bounded, inclusive date range budgets and reports run against.
type Timeframe struct {
	Start time.Time
	End   time.Time
}

// MonthOf returns the timeframe covering one calendar month.
func MonthOf(year int, month time.Month) Timeframe {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return Timeframe{Start: start, End: start.AddDate(0, 1, -1)}
}

// QuarterOf returns the timeframe covering one calendar quarter (1-4).
func QuarterOf(year, quarter int) Timeframe {
	start := time.Date(year, time.Month((quarter-1)*3+1), 1, 0, 0, 0, 0, time.UTC)
	return Timeframe{Start: start, End: start.AddDate(0, 3, -1)}
}

// YearOf returns the timeframe covering one calendar year.
func YearOf(year int) Timeframe {
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	return Timeframe{Start: start, End: start.AddDate(1, 0, -1)}
}

// Contains reports whether d falls inside the timeframe (inclusive).
func (tf Timeframe) Contains(d time.Time) bool {
	return !d.Before(tf.Start) && !d.After(tf.End)
}

// Overlaps reports whether the two timeframes share at least one day.
func (tf Timeframe) Overlaps(other Timeframe) bool {
	return !tf.End.Before(other.Start) && !other.End.Before(tf.Start)
}

// String formats the timeframe as "2006-01-02..2006-01-02".
func (tf Timeframe) String() string {
	return tf.Start.Format("2006-01-02") + ".." + tf.End.Format("2006-01-02")
}

// Budget is a planned amount for a (type, category, subcategory) key over a
// timeframe. At most one budget may exist per key and overlapping timeframe.
type Budget struct {
	ID          int64
	UserID      int64
	Type        TxnType
	Category    string
	Subcategory string // empty = whole category
	Timeframe   Timeframe
	Amount      decimal.Decimal
	Currency    string
}
