package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// TxnType classifies a transaction as money in or money out.
type TxnType string

const (
	TypeIncome  TxnType = "income"
	TypeExpense TxnType = "expense"
)

// Valid reports whether t is one of the known transaction types.
func (t TxnType) Valid() bool {
	return t == TypeIncome || t == TypeExpense
}

// TypeFromSign derives a transaction type from the sign of an amount:
// negative = expense, positive = income.
func TypeFromSign(amount decimal.Decimal) TxnType {
	if amount.IsNegative() {
		return TypeExpense
	}
	return TypeIncome
}

// Transaction is a single recorded income or expense.
// Amount is always positive; direction is carried by Type.
type Transaction struct {
	ID          int64
	UserID      int64
	Type        TxnType
	Category    string
	Subcategory string // empty = no subcategory
	Date        time.Time
	Amount      decimal.Decimal
	Currency    string // ISO-4217-like code, e.g. "EUR"
	Note        string
}

// Signed returns the amount with direction applied:
// expenses negative, income positive.
func (t Transaction) Signed() decimal.Decimal {
	if t.Type == TypeExpense {
		return t.Amount.Neg()
	}
	return t.Amount
}
