// Package period works with accounting periods: YYYYMM integers and the
// "MM/YY" form users type on the command line.
package period

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/moneta-dev/moneta/internal/model"
)

// YMFromDate converts a date to a YYYYMM integer. 2025-01-15 -> 202501.
func YMFromDate(d time.Time) int {
	return d.Year()*100 + int(d.Month())
}

// ParseMMYY parses "MM/YY" into a YYYYMM integer. "01/25" -> 202501.
// Two-digit years map to 2000-2099.
func ParseMMYY(s string) (int, error) {
	parts := strings.Split(strings.TrimSpace(s), "/")
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid period %q: expected MM/YY", s)
	}
	mm, yy := strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])
	if len(mm) != 2 || len(yy) != 2 {
		return 0, fmt.Errorf("invalid period %q: use two digits each, e.g. 01/25", s)
	}
	m, err := strconv.Atoi(mm)
	if err != nil || m < 1 || m > 12 {
		return 0, fmt.Errorf("invalid period %q: month must be 01-12", s)
	}
	y, err := strconv.Atoi(yy)
	if err != nil {
		return 0, fmt.Errorf("invalid period %q: bad year", s)
	}
	return (2000+y)*100 + m, nil
}

// FormatYM renders a YYYYMM integer as "MM/YY". 202501 -> "01/25".
func FormatYM(ym int) string {
	return fmt.Sprintf("%02d/%02d", ym%100, (ym/100)%100)
}

// IsMMYY reports whether s parses as "MM/YY".
func IsMMYY(s string) bool {
	_, err := ParseMMYY(s)
	return err == nil
}

// TimeframeFromYM returns the calendar-month timeframe for a YYYYMM integer.
func TimeframeFromYM(ym int) (model.Timeframe, error) {
	year, month := ym/100, ym%100
	if month < 1 || month > 12 {
		return model.Timeframe{}, fmt.Errorf("invalid ym %d: month out of range", ym)
	}
	return model.MonthOf(year, time.Month(month)), nil
}
