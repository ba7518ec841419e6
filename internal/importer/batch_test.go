package importer

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moneta-dev/moneta/internal/model"
)

const sampleCSV = `Datum,Betrag,Währung,Kategorie
2024-01-05,-42.50,EUR,Groceries
2024-01-06,0,EUR,Groceries
2024-01-07,1000,USD,Salary
2024-01-08,-3.20,XXY,Coffee
NOTADATE,-1.00,EUR,Groceries
`

func testProcessor(maxRows int) *Processor {
	return NewProcessor(Options{
		Aliases:     dinProfile().Aliases,
		DateFormats: []string{"2006-01-02"},
		MaxRows:     maxRows,
	})
}

// fakeStore records inserts and can be told to fail.
type fakeStore struct {
	inserted []model.Transaction
	fail     bool
}

func (s *fakeStore) InsertTransactions(_ context.Context, _ int64, txns []model.Transaction) error {
	if s.fail {
		return errors.New("disk full")
	}
	s.inserted = append(s.inserted, txns...)
	return nil
}

func TestDryRun_PartitionAndOrder(t *testing.T) {
	batch, err := testProcessor(0).DryRun(strings.NewReader(sampleCSV))
	require.NoError(t, err)

	// Every data row lands in exactly one of accepted/errors.
	assert.Equal(t, 5, batch.Rows())
	require.Len(t, batch.Accepted, 3)
	require.Len(t, batch.Errors, 2)

	// Source order and file line numbers survive in both sequences.
	assert.Equal(t, []int{2, 4, 5}, []int{batch.Accepted[0].Row, batch.Accepted[1].Row, batch.Accepted[2].Row})
	assert.Equal(t, []int{3, 6}, []int{batch.Errors[0].Row, batch.Errors[1].Row})

	assert.Equal(t, ReasonZeroAmount, batch.Errors[0].Reason)
	assert.Equal(t, []string{"2024-01-06", "0", "EUR", "Groceries"}, batch.Errors[0].Raw)
	assert.Equal(t, ReasonInvalidDate, batch.Errors[1].Reason)
}

func TestDryRun_CurrencyWarnings(t *testing.T) {
	batch, err := testProcessor(0).DryRun(strings.NewReader(sampleCSV))
	require.NoError(t, err)

	require.Len(t, batch.Warnings, 1)
	assert.Equal(t, 5, batch.Warnings[0].Row)
	assert.Equal(t, "XXY", batch.Warnings[0].Currency)
}

func TestDryRun_UnmappableHeader(t *testing.T) {
	csv := "Datum,Betrag\n2024-01-05,-1.00\n"
	_, err := testProcessor(0).DryRun(strings.NewReader(csv))

	var unmappable *UnmappableHeaderError
	require.ErrorAs(t, err, &unmappable)
}

func TestDryRun_TooLarge(t *testing.T) {
	_, err := testProcessor(2).DryRun(strings.NewReader(sampleCSV))

	var tooLarge *TooLargeError
	require.ErrorAs(t, err, &tooLarge)
	assert.Equal(t, 5, tooLarge.Rows)
	assert.Equal(t, 2, tooLarge.Max)
}

func TestDryRun_EmptyFile(t *testing.T) {
	_, err := testProcessor(0).DryRun(strings.NewReader(""))
	assert.Error(t, err)
}

func TestCommit_MatchesDryRun(t *testing.T) {
	p := testProcessor(0)

	dry, err := p.DryRun(strings.NewReader(sampleCSV))
	require.NoError(t, err)

	store := &fakeStore{}
	committed, err := p.Commit(context.Background(), strings.NewReader(sampleCSV), store, 1)
	require.NoError(t, err)

	// Same accepted/error partition on unmodified data.
	assert.Equal(t, len(dry.Accepted), len(committed.Accepted))
	assert.Equal(t, len(dry.Errors), len(committed.Errors))

	// Only accepted rows were persisted, in source order.
	require.Len(t, store.inserted, 3)
	assert.Equal(t, "Groceries", store.inserted[0].Category)
	assert.Equal(t, model.TypeExpense, store.inserted[0].Type)
	assert.Equal(t, "Salary", store.inserted[1].Category)
	assert.Equal(t, model.TypeIncome, store.inserted[1].Type)
	assert.Equal(t, int64(1), store.inserted[0].UserID)
}

func TestCommit_StoreFailure(t *testing.T) {
	store := &fakeStore{fail: true}
	_, err := testProcessor(0).Commit(context.Background(), strings.NewReader(sampleCSV), store, 1)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	assert.Empty(t, store.inserted)
}

func TestCommit_NothingAccepted(t *testing.T) {
	csv := "Datum,Betrag,Währung,Kategorie\n2024-01-06,0,EUR,Groceries\n"
	store := &fakeStore{fail: true} // would error if called
	batch, err := testProcessor(0).Commit(context.Background(), strings.NewReader(csv), store, 1)

	require.NoError(t, err)
	assert.Empty(t, batch.Accepted)
	assert.Len(t, batch.Errors, 1)
}

func TestErrorReport_RoundTrip(t *testing.T) {
	batch, err := testProcessor(0).DryRun(strings.NewReader(sampleCSV))
	require.NoError(t, err)

	var buf strings.Builder
	require.NoError(t, WriteErrorReport(&buf, batch.Errors))

	got, err := ReadErrorReport(strings.NewReader(buf.String()))
	require.NoError(t, err)
	require.Len(t, got, len(batch.Errors))
	for i, e := range batch.Errors {
		assert.Equal(t, e.Row, got[i].Row)
		assert.Equal(t, e.Field, got[i].Field)
		assert.Equal(t, e.Message, got[i].Message)
		assert.Equal(t, e.Raw, got[i].Raw)
	}
}
