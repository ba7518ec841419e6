// Package report aggregates transactions and budgets into a budget-vs-actual
// breakdown for the dashboard.
package report

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/moneta-dev/moneta/internal/fx"
	"github.com/moneta-dev/moneta/internal/model"
)

// Key identifies one breakdown line. Subcategory is empty on category
// roll-up lines.
type Key struct {
	Type        model.TxnType
	Category    string
	Subcategory string
}

// Line is one row of the breakdown, all amounts in base currency.
// Delta is actual minus budget: negative means under budget.
type Line struct {
	Key
	Actual decimal.Decimal
	Budget decimal.Decimal
	Delta  decimal.Decimal
}

// UnconvertedTransaction flags a transaction excluded from the sums
// because its currency has no applicable rate. A warning, not an error.
type UnconvertedTransaction struct {
	Transaction model.Transaction
	Reason      string
}

// UnconvertedBudget flags a budget excluded from the budget column for the
// same reason.
type UnconvertedBudget struct {
	Budget model.Budget
	Reason string
}

// Breakdown is the dashboard view model: category roll-ups plus a
// subcategory-level breakdown, produced in one pass.
type Breakdown struct {
	Timeframe     model.Timeframe
	BaseCurrency  string
	Categories    []Line
	Subcategories []Line
	Unconverted   []UnconvertedTransaction
	SkippedBudget []UnconvertedBudget
}

// Incomplete reports whether any amount was excluded from the totals.
func (b *Breakdown) Incomplete() bool {
	return len(b.Unconverted) > 0 || len(b.SkippedBudget) > 0
}

// Engine converts and aggregates a user's transactions and budgets.
type Engine struct {
	resolver *fx.Resolver
}

// NewEngine creates an aggregation Engine.
func NewEngine(resolver *fx.Resolver) *Engine {
	return &Engine{resolver: resolver}
}

// Build aggregates the given transactions and budgets over the timeframe.
// Each transaction converts at the rate valid on its own date, never the
// aggregation date. Budgets convert at their timeframe's start date.
func (e *Engine) Build(ctx context.Context, userID int64, tf model.Timeframe, txns []model.Transaction, budgets []model.Budget) (*Breakdown, error) {
	b := &Breakdown{Timeframe: tf, BaseCurrency: e.resolver.Base()}

	actuals := make(map[Key]decimal.Decimal)
	planned := make(map[Key]decimal.Decimal)

	for _, txn := range txns {
		if !tf.Contains(txn.Date) {
			continue
		}
		converted, err := e.resolver.Convert(ctx, userID, txn.Amount, txn.Currency, txn.Date)
		var noRate *fx.NoApplicableRateError
		if errors.As(err, &noRate) {
			b.Unconverted = append(b.Unconverted, UnconvertedTransaction{
				Transaction: txn,
				Reason:      noRate.Error(),
			})
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("converting transaction %d: %w", txn.ID, err)
		}

		sub := Key{Type: txn.Type, Category: txn.Category, Subcategory: txn.Subcategory}
		cat := Key{Type: txn.Type, Category: txn.Category}
		actuals[sub] = actuals[sub].Add(converted)
		if sub != cat {
			actuals[cat] = actuals[cat].Add(converted)
		}
	}

	for _, bud := range budgets {
		if !bud.Timeframe.Overlaps(tf) {
			continue
		}
		converted, err := e.resolver.Convert(ctx, userID, bud.Amount, bud.Currency, bud.Timeframe.Start)
		var noRate *fx.NoApplicableRateError
		if errors.As(err, &noRate) {
			b.SkippedBudget = append(b.SkippedBudget, UnconvertedBudget{
				Budget: bud,
				Reason: noRate.Error(),
			})
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("converting budget %d: %w", bud.ID, err)
		}

		sub := Key{Type: bud.Type, Category: bud.Category, Subcategory: bud.Subcategory}
		cat := Key{Type: bud.Type, Category: bud.Category}
		planned[sub] = planned[sub].Add(converted)
		if sub != cat {
			// Subcategory budgets roll up into the category line so
			// category deltas stay consistent with their children.
			planned[cat] = planned[cat].Add(converted)
		}
	}

	for key := range planned {
		if _, ok := actuals[key]; !ok {
			actuals[key] = decimal.Zero
		}
	}

	for key, actual := range actuals {
		line := Line{
			Key:    key,
			Actual: actual,
			Budget: planned[key],
			Delta:  actual.Sub(planned[key]),
		}
		if key.Subcategory == "" {
			b.Categories = append(b.Categories, line)
		} else {
			b.Subcategories = append(b.Subcategories, line)
		}
	}

	sortLines(b.Categories)
	sortLines(b.Subcategories)
	return b, nil
}

func sortLines(lines []Line) {
	sort.Slice(lines, func(i, j int) bool {
		a, b := lines[i], lines[j]
		if a.Type != b.Type {
			return a.Type < b.Type
		}
		if a.Category != b.Category {
			return a.Category < b.Category
		}
		return a.Subcategory < b.Subcategory
	})
}
