package importer

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/moneta-dev/moneta/internal/fx"
	"github.com/moneta-dev/moneta/internal/model"
)

// Reason classifies a row-level validation failure.
type Reason string

const (
	ReasonMissingField    Reason = "missing_field"
	ReasonInvalidDate     Reason = "invalid_date"
	ReasonInvalidAmount   Reason = "invalid_amount"
	ReasonZeroAmount      Reason = "zero_amount"
	ReasonInvalidCurrency Reason = "invalid_currency"
	ReasonInvalidType     Reason = "invalid_type"
)

// RowError describes why one data row was rejected. Row errors never abort
// the batch; they are collected alongside accepted rows.
type RowError struct {
	Row     int      `json:"row_number"` // 1-based file line; header is row 1
	Raw     []string `json:"raw_values"`
	Field   Field    `json:"field"`
	Reason  Reason   `json:"-"`
	Message string   `json:"message"`
}

func (e RowError) Error() string {
	return fmt.Sprintf("row %d [%s]: %s", e.Row, e.Field, e.Message)
}

// Draft is a validated transaction ready for persistence.
type Draft struct {
	Row         int // source file line for user cross-reference
	Date        time.Time
	Type        model.TxnType
	Category    string
	Subcategory string
	Amount      decimal.Decimal // always positive
	Currency    string
	Note        string
	// CurrencyKnown is false when the code is well-formed but not a
	// recognized ISO 4217 code; the row is still accepted, the user may
	// add an FX rate later.
	CurrencyKnown bool
}

// RowOutcome is the result of validating one data row: exactly one of
// Draft or Err is set.
type RowOutcome struct {
	Draft *Draft
	Err   *RowError
}

// Accepted reports whether the row validated cleanly.
func (o RowOutcome) Accepted() bool { return o.Draft != nil }

// Validator checks and coerces mapped rows into transaction drafts.
type Validator struct {
	cols        ColumnMap
	dateFormats []string
}

// NewValidator creates a Validator for a mapped header and the accepted
// date layouts.
func NewValidator(cols ColumnMap, dateFormats []string) *Validator {
	return &Validator{cols: cols, dateFormats: dateFormats}
}

// ValidateRow validates one raw data row. Checks run in a fixed order and
// the first failure wins; a row is never partially accepted. rowNum is the
// 1-based file line of the row.
func (v *Validator) ValidateRow(rowNum int, raw []string) RowOutcome {
	fail := func(field Field, reason Reason, format string, args ...any) RowOutcome {
		return RowOutcome{Err: &RowError{
			Row:     rowNum,
			Raw:     append([]string(nil), raw...),
			Field:   field,
			Reason:  reason,
			Message: fmt.Sprintf(format, args...),
		}}
	}

	// 1. Required fields present and non-empty.
	for _, field := range requiredFields {
		if strings.TrimSpace(v.cell(raw, field)) == "" {
			return fail(field, ReasonMissingField, "%s is required", field)
		}
	}

	// 2. Date parses against the accepted layouts.
	rawDate := strings.TrimSpace(v.cell(raw, FieldDate))
	date, ok := v.parseDate(rawDate)
	if !ok {
		return fail(FieldDate, ReasonInvalidDate, "unparseable date %q", rawDate)
	}

	// 3. Exact decimal amount; zero is meaningless and rejected.
	rawAmount := strings.TrimSpace(v.cell(raw, FieldAmount))
	amount, err := decimal.NewFromString(rawAmount)
	if err != nil {
		return fail(FieldAmount, ReasonInvalidAmount, "unparseable amount %q", rawAmount)
	}
	if amount.IsZero() {
		return fail(FieldAmount, ReasonZeroAmount, "zero amount carries no meaning")
	}

	// 4. Currency: must look like a 3-letter code; unknown codes are
	// accepted but flagged so the user can add a rate later.
	currency := fx.Normalize(v.cell(raw, FieldCurrency))
	if !fx.ValidCode(currency) {
		return fail(FieldCurrency, ReasonInvalidCurrency, "currency %q is not a 3-letter code", currency)
	}

	// 5. Category and subcategory normalization.
	category := strings.TrimSpace(v.cell(raw, FieldCategory))
	subcategory := strings.TrimSpace(v.cell(raw, FieldSubcategory))

	// Type: explicit column wins; otherwise derived from amount sign.
	txnType := model.TypeFromSign(amount)
	if v.cols.HasType() {
		if rawType := strings.TrimSpace(v.cell(raw, FieldType)); rawType != "" {
			txnType = model.TxnType(strings.ToLower(rawType))
			if !txnType.Valid() {
				return fail(FieldType, ReasonInvalidType, "type %q must be income or expense", rawType)
			}
		}
	}

	return RowOutcome{Draft: &Draft{
		Row:           rowNum,
		Date:          date,
		Type:          txnType,
		Category:      category,
		Subcategory:   subcategory,
		Amount:        amount.Abs(),
		Currency:      currency,
		Note:          strings.TrimSpace(v.cell(raw, FieldNotes)),
		CurrencyKnown: fx.Known(currency),
	}}
}

// cell returns the raw value for a mapped field, or "" when the field is
// unmapped or the row is short.
func (v *Validator) cell(raw []string, field Field) string {
	idx, ok := v.cols[field]
	if !ok || idx >= len(raw) {
		return ""
	}
	return raw[idx]
}

func (v *Validator) parseDate(s string) (time.Time, bool) {
	for _, layout := range v.dateFormats {
		if d, err := time.Parse(layout, s); err == nil {
			return d, true
		}
	}
	return time.Time{}, false
}
