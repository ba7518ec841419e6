package importer

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"

	"github.com/google/uuid"

	"github.com/moneta-dev/moneta/internal/model"
)

// TooLargeError rejects a whole file before any row is processed.
type TooLargeError struct {
	Rows int
	Max  int
}

func (e *TooLargeError) Error() string {
	return fmt.Sprintf("import too large: %d rows exceeds limit of %d", e.Rows, e.Max)
}

// TransactionStore persists an accepted batch. InsertTransactions must be
// atomic: on failure no rows may remain committed.
type TransactionStore interface {
	InsertTransactions(ctx context.Context, userID int64, txns []model.Transaction) error
}

// CurrencyWarning flags an accepted row whose currency code is well-formed
// but not recognized.
type CurrencyWarning struct {
	Row      int
	Currency string
}

// Batch is the outcome of processing one import file. It is ephemeral:
// it lives for the duration of a dry-run review and commit, then is
// discarded. Accepted and Errors together cover every data row exactly
// once, in source order.
type Batch struct {
	ID       uuid.UUID
	Accepted []Draft
	Errors   []RowError
	Warnings []CurrencyWarning
}

// Rows returns the total number of data rows in the batch.
func (b *Batch) Rows() int { return len(b.Accepted) + len(b.Errors) }

// Options configure a Processor. All knobs come from explicit config, not
// ambient state, so tests can vary them per case.
type Options struct {
	Aliases     map[Field][]string
	DateFormats []string
	MaxRows     int // 0 = unlimited
}

// Processor orchestrates dry-run and commit of a whole CSV file.
type Processor struct {
	opts Options
}

// NewProcessor creates a Processor.
func NewProcessor(opts Options) *Processor {
	return &Processor{opts: opts}
}

// DryRun parses and validates the whole file without persisting anything.
// Header-level failures (UnmappableHeaderError, TooLargeError, malformed
// CSV) abort the import; row-level failures are collected into the batch.
func (p *Processor) DryRun(r io.Reader) (*Batch, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // rows may have trailing empty columns cut off

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("empty file: no header row")
	}

	header, rows := records[0], records[1:]
	if p.opts.MaxRows > 0 && len(rows) > p.opts.MaxRows {
		return nil, &TooLargeError{Rows: len(rows), Max: p.opts.MaxRows}
	}

	cols, err := MapHeader(header, p.opts.Aliases)
	if err != nil {
		return nil, err
	}

	v := NewValidator(cols, p.opts.DateFormats)
	batch := &Batch{ID: uuid.New()}
	for i, raw := range rows {
		rowNum := i + 2 // header is file line 1
		outcome := v.ValidateRow(rowNum, raw)
		if !outcome.Accepted() {
			batch.Errors = append(batch.Errors, *outcome.Err)
			continue
		}
		batch.Accepted = append(batch.Accepted, *outcome.Draft)
		if !outcome.Draft.CurrencyKnown {
			batch.Warnings = append(batch.Warnings, CurrencyWarning{
				Row:      outcome.Draft.Row,
				Currency: outcome.Draft.Currency,
			})
		}
	}
	return batch, nil
}

// Commit re-runs the same validation (validation is idempotent and
// side-effect free) and persists all accepted rows in a single atomic
// unit. Rows that failed validation are never persisted regardless of
// commit outcome.
func (p *Processor) Commit(ctx context.Context, r io.Reader, store TransactionStore, userID int64) (*Batch, error) {
	batch, err := p.DryRun(r)
	if err != nil {
		return nil, err
	}

	if len(batch.Accepted) > 0 {
		txns := make([]model.Transaction, len(batch.Accepted))
		for i, d := range batch.Accepted {
			txns[i] = d.Transaction(userID)
		}
		if err := store.InsertTransactions(ctx, userID, txns); err != nil {
			return nil, fmt.Errorf("persisting batch %s: %w", batch.ID, err)
		}
	}
	return batch, nil
}

// Transaction converts a validated draft into a persistable Transaction.
func (d Draft) Transaction(userID int64) model.Transaction {
	return model.Transaction{
		UserID:      userID,
		Type:        d.Type,
		Category:    d.Category,
		Subcategory: d.Subcategory,
		Date:        d.Date,
		Amount:      d.Amount,
		Currency:    d.Currency,
		Note:        d.Note,
	}
}
