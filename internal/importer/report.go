package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

// errorHeader is the fixed prefix of the error report CSV; the original
// raw cells of each rejected row follow as extra columns.
var errorHeader = []string{"row_number", "field", "message"}

// WriteErrorReport writes rejected rows as a downloadable CSV: the fixed
// columns row_number, field, message followed by the row's original raw
// values. Row order matches the source file.
func WriteErrorReport(w io.Writer, errs []RowError) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(errorHeader); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for _, e := range errs {
		row := append([]string{strconv.Itoa(e.Row), string(e.Field), e.Message}, e.Raw...)
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing row %d: %w", e.Row, err)
		}
	}
	return cw.Error()
}

// ReadErrorReport parses a CSV previously written by WriteErrorReport.
func ReadErrorReport(r io.Reader) ([]RowError, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading error report: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	var errs []RowError
	for i, rec := range records[1:] {
		if len(rec) < len(errorHeader) {
			return nil, fmt.Errorf("row %d: expected at least %d fields, got %d", i+2, len(errorHeader), len(rec))
		}
		rowNum, err := strconv.Atoi(rec[0])
		if err != nil {
			return nil, fmt.Errorf("row %d: parsing row_number %q: %w", i+2, rec[0], err)
		}
		errs = append(errs, RowError{
			Row:     rowNum,
			Field:   Field(rec[1]),
			Message: rec[2],
			Raw:     append([]string(nil), rec[3:]...),
		})
	}
	return errs, nil
}
