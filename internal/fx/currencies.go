// Package fx resolves user-maintained exchange rates to the base currency.
package fx

import (
	"regexp"
	"strings"
)

// codePattern is the shape of an ISO-4217-like currency code.
var codePattern = regexp.MustCompile(`^[A-Z]{3}$`)

// knownCodes lists the ISO 4217 codes the tracker recognizes out of the box.
// Codes outside this set are still importable; they are flagged so the user
// knows an FX rate will be needed.
var knownCodes = map[string]bool{
	"AUD": true, "BRL": true, "CAD": true, "CHF": true, "CNY": true,
	"CZK": true, "DKK": true, "EUR": true, "GBP": true, "HKD": true,
	"HUF": true, "INR": true, "JPY": true, "KRW": true, "MXN": true,
	"NOK": true, "NZD": true, "PLN": true, "RON": true, "SEK": true,
	"SGD": true, "TRY": true, "USD": true, "ZAR": true,
}

// Normalize trims and upper-cases a currency code.
func Normalize(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// ValidCode reports whether code (after normalization) looks like a
// 3-letter currency code.
func ValidCode(code string) bool {
	return codePattern.MatchString(Normalize(code))
}

// Known reports whether code is a recognized ISO 4217 code.
func Known(code string) bool {
	return knownCodes[Normalize(code)]
}
