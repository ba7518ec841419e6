package importer

import (
	"fmt"
	"sort"
	"strings"
)

// Field names a canonical transaction column.
type Field string

const (
	FieldDate        Field = "date"
	FieldAmount      Field = "amount"
	FieldCurrency    Field = "currency"
	FieldCategory    Field = "category"
	FieldSubcategory Field = "subcategory"
	FieldNotes       Field = "notes"
	FieldType        Field = "type"
)

// requiredFields must all be mappable for an import to proceed.
var requiredFields = []Field{FieldDate, FieldAmount, FieldCurrency, FieldCategory}

// optionalFields may be absent; FieldType absence switches on sign derivation.
var optionalFields = []Field{FieldSubcategory, FieldNotes, FieldType}

// ColumnMap maps canonical fields to their column index in the source file.
type ColumnMap map[Field]int

// HasType reports whether the source file carries an explicit type column.
// Without one, the transaction type is derived from the amount sign
// (positive = income, negative = expense).
func (m ColumnMap) HasType() bool {
	_, ok := m[FieldType]
	return ok
}

// UnmappableHeaderError means required columns could not be matched.
// It is fatal to the whole import.
type UnmappableHeaderError struct {
	Missing []Field
}

func (e *UnmappableHeaderError) Error() string {
	names := make([]string, len(e.Missing))
	for i, f := range e.Missing {
		names[i] = string(f)
	}
	return "unmappable header: no column for required field(s) " + strings.Join(names, ", ")
}

// MapHeader matches a CSV header row against per-field alias lists and
// returns the positional column map. Matching is case-insensitive and
// ignores surrounding whitespace. Pure function of header + aliases.
func MapHeader(header []string, aliases map[Field][]string) (ColumnMap, error) {
	byAlias := make(map[string]Field)
	for field, names := range aliases {
		for _, name := range names {
			byAlias[normalizeHeader(name)] = field
		}
	}

	cols := make(ColumnMap)
	for i, cell := range header {
		field, ok := byAlias[normalizeHeader(cell)]
		if !ok {
			continue
		}
		if _, dup := cols[field]; dup {
			return nil, fmt.Errorf("duplicate column for field %q at index %d", field, i)
		}
		cols[field] = i
	}

	var missing []Field
	for _, f := range requiredFields {
		if _, ok := cols[f]; !ok {
			missing = append(missing, f)
		}
	}
	if len(missing) > 0 {
		sort.Slice(missing, func(i, j int) bool { return missing[i] < missing[j] })
		return nil, &UnmappableHeaderError{Missing: missing}
	}
	return cols, nil
}

func normalizeHeader(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
