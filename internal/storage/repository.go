// Package storage persists users, transactions, budgets and FX rates in a
// local sqlite database.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"

	"github.com/moneta-dev/moneta/internal/model"
	"github.com/moneta-dev/moneta/internal/period"
)

const dateLayout = "2006-01-02"

// ErrBudgetOverlap is returned when a new budget's timeframe overlaps an
// existing budget for the same (user, type, category, subcategory) key.
var ErrBudgetOverlap = errors.New("budget overlaps an existing budget for the same key")

// Repository is a sqlite-backed store. Safe for concurrent readers via the
// database/sql pool; the batch insert is the only multi-statement write and
// runs inside a single transaction.
type Repository struct {
	db *sql.DB
}

// Open opens (creating if needed) the sqlite database at dbPath and runs
// pending migrations.
func Open(dbPath string) (*Repository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Repository{db: db}, nil
}

// Close closes the underlying pool.
func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// EnsureUser returns the id for name, creating the user on first use.
func (r *Repository) EnsureUser(ctx context.Context, name string) (int64, error) {
	var id int64
	err := r.db.QueryRowContext(ctx, `SELECT id FROM users WHERE name = ?`, name).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("looking up user %q: %w", name, err)
	}

	res, err := r.db.ExecContext(ctx, `INSERT INTO users (name) VALUES (?)`, name)
	if err != nil {
		return 0, fmt.Errorf("creating user %q: %w", name, err)
	}
	id, err = res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("creating user %q: %w", name, err)
	}
	slog.InfoContext(ctx, "user created", "name", name, "id", id)
	return id, nil
}

// InsertTransactions persists a whole import batch atomically: if any row
// fails, the transaction rolls back and nothing is committed.
func (r *Repository) InsertTransactions(ctx context.Context, userID int64, txns []model.Transaction) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin batch insert: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO transactions (user_id, type, category, subcategory, txn_date, ym, amount, currency, note)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare batch insert: %w", err)
	}
	defer stmt.Close()

	for _, t := range txns {
		if _, err := stmt.ExecContext(ctx,
			userID, string(t.Type), t.Category, t.Subcategory,
			t.Date.Format(dateLayout), period.YMFromDate(t.Date),
			t.Amount.String(), t.Currency, t.Note,
		); err != nil {
			return fmt.Errorf("inserting transaction dated %s: %w", t.Date.Format(dateLayout), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit batch insert: %w", err)
	}
	slog.InfoContext(ctx, "batch committed", "user_id", userID, "rows", len(txns))
	return nil
}

// InsertTransaction persists one manually entered transaction.
func (r *Repository) InsertTransaction(ctx context.Context, t model.Transaction) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO transactions (user_id, type, category, subcategory, txn_date, ym, amount, currency, note)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.UserID, string(t.Type), t.Category, t.Subcategory,
		t.Date.Format(dateLayout), period.YMFromDate(t.Date),
		t.Amount.String(), t.Currency, t.Note,
	)
	if err != nil {
		return 0, fmt.Errorf("inserting transaction: %w", err)
	}
	return res.LastInsertId()
}

// LoadTransactions returns the user's transactions within the timeframe,
// ordered by date then id.
func (r *Repository) LoadTransactions(ctx context.Context, userID int64, tf model.Timeframe) ([]model.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, type, category, subcategory, txn_date, amount, currency, note
		FROM transactions
		WHERE user_id = ? AND txn_date >= ? AND txn_date <= ?
		ORDER BY txn_date, id`,
		userID, tf.Start.Format(dateLayout), tf.End.Format(dateLayout))
	if err != nil {
		return nil, fmt.Errorf("loading transactions: %w", err)
	}
	defer rows.Close()

	var txns []model.Transaction
	for rows.Next() {
		var t model.Transaction
		var typ, rawDate, rawAmount string
		if err := rows.Scan(&t.ID, &t.UserID, &typ, &t.Category, &t.Subcategory, &rawDate, &rawAmount, &t.Currency, &t.Note); err != nil {
			return nil, fmt.Errorf("scanning transaction: %w", err)
		}
		t.Type = model.TxnType(typ)
		if t.Date, err = time.Parse(dateLayout, rawDate); err != nil {
			return nil, fmt.Errorf("parsing txn_date %q: %w", rawDate, err)
		}
		if t.Amount, err = decimal.NewFromString(rawAmount); err != nil {
			return nil, fmt.Errorf("parsing amount %q: %w", rawAmount, err)
		}
		txns = append(txns, t)
	}
	return txns, rows.Err()
}

// DeleteTransaction removes one transaction owned by userID.
func (r *Repository) DeleteTransaction(ctx context.Context, userID, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("deleting transaction %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting transaction %d: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("transaction %d not found", id)
	}
	return nil
}

// InsertBudget persists a budget after rejecting overlaps: at most one
// budget may exist per (user, type, category, subcategory) and overlapping
// timeframe. The check and insert share one transaction.
func (r *Repository) InsertBudget(ctx context.Context, b model.Budget) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin budget insert: %w", err)
	}
	defer tx.Rollback()

	var overlapping int
	err = tx.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM budgets
		WHERE user_id = ? AND type = ? AND category = ? AND subcategory = ?
		  AND start_date <= ? AND end_date >= ?`,
		b.UserID, string(b.Type), b.Category, b.Subcategory,
		b.Timeframe.End.Format(dateLayout), b.Timeframe.Start.Format(dateLayout),
	).Scan(&overlapping)
	if err != nil {
		return 0, fmt.Errorf("checking budget overlap: %w", err)
	}
	if overlapping > 0 {
		return 0, ErrBudgetOverlap
	}

	res, err := tx.ExecContext(ctx, `
		INSERT INTO budgets (user_id, type, category, subcategory, start_date, end_date, amount, currency)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		b.UserID, string(b.Type), b.Category, b.Subcategory,
		b.Timeframe.Start.Format(dateLayout), b.Timeframe.End.Format(dateLayout),
		b.Amount.String(), b.Currency,
	)
	if err != nil {
		return 0, fmt.Errorf("inserting budget: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("inserting budget: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit budget insert: %w", err)
	}
	return id, nil
}

// LoadBudgets returns the user's budgets whose timeframe overlaps tf.
func (r *Repository) LoadBudgets(ctx context.Context, userID int64, tf model.Timeframe) ([]model.Budget, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, type, category, subcategory, start_date, end_date, amount, currency
		FROM budgets
		WHERE user_id = ? AND start_date <= ? AND end_date >= ?
		ORDER BY type, category, subcategory`,
		userID, tf.End.Format(dateLayout), tf.Start.Format(dateLayout))
	if err != nil {
		return nil, fmt.Errorf("loading budgets: %w", err)
	}
	defer rows.Close()

	var budgets []model.Budget
	for rows.Next() {
		var b model.Budget
		var typ, rawStart, rawEnd, rawAmount string
		if err := rows.Scan(&b.ID, &b.UserID, &typ, &b.Category, &b.Subcategory, &rawStart, &rawEnd, &rawAmount, &b.Currency); err != nil {
			return nil, fmt.Errorf("scanning budget: %w", err)
		}
		b.Type = model.TxnType(typ)
		if b.Timeframe.Start, err = time.Parse(dateLayout, rawStart); err != nil {
			return nil, fmt.Errorf("parsing start_date %q: %w", rawStart, err)
		}
		if b.Timeframe.End, err = time.Parse(dateLayout, rawEnd); err != nil {
			return nil, fmt.Errorf("parsing end_date %q: %w", rawEnd, err)
		}
		if b.Amount, err = decimal.NewFromString(rawAmount); err != nil {
			return nil, fmt.Errorf("parsing amount %q: %w", rawAmount, err)
		}
		budgets = append(budgets, b)
	}
	return budgets, rows.Err()
}

// UpsertRate inserts or replaces the rate for (user, currency, valid_from).
func (r *Repository) UpsertRate(ctx context.Context, rate model.FXRate) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO fx_rates (user_id, currency, rate, valid_from)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (user_id, currency, valid_from) DO UPDATE SET rate = excluded.rate`,
		rate.UserID, rate.Currency, rate.Rate.String(), rate.ValidFrom.Format(dateLayout))
	if err != nil {
		return fmt.Errorf("upserting %s rate: %w", rate.Currency, err)
	}
	return nil
}

// LoadFXRates returns the user's rates for one currency ordered by
// valid_from. Implements fx.RateSource.
func (r *Repository) LoadFXRates(ctx context.Context, userID int64, currency string) ([]model.FXRate, error) {
	return r.queryRates(ctx, `
		SELECT id, user_id, currency, rate, valid_from
		FROM fx_rates
		WHERE user_id = ? AND currency = ?
		ORDER BY valid_from`, userID, currency)
}

// ListRates returns all of the user's rates ordered by currency then
// valid_from.
func (r *Repository) ListRates(ctx context.Context, userID int64) ([]model.FXRate, error) {
	return r.queryRates(ctx, `
		SELECT id, user_id, currency, rate, valid_from
		FROM fx_rates
		WHERE user_id = ?
		ORDER BY currency, valid_from`, userID)
}

func (r *Repository) queryRates(ctx context.Context, query string, args ...any) ([]model.FXRate, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("loading fx rates: %w", err)
	}
	defer rows.Close()

	var rates []model.FXRate
	for rows.Next() {
		var rate model.FXRate
		var rawRate, rawFrom string
		if err := rows.Scan(&rate.ID, &rate.UserID, &rate.Currency, &rawRate, &rawFrom); err != nil {
			return nil, fmt.Errorf("scanning fx rate: %w", err)
		}
		if rate.Rate, err = decimal.NewFromString(rawRate); err != nil {
			return nil, fmt.Errorf("parsing rate %q: %w", rawRate, err)
		}
		if rate.ValidFrom, err = time.Parse(dateLayout, rawFrom); err != nil {
			return nil, fmt.Errorf("parsing valid_from %q: %w", rawFrom, err)
		}
		rates = append(rates, rate)
	}
	return rates, rows.Err()
}
