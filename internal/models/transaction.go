package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Kind is the direction of a transaction.
type Kind string

const (
	KindIncome  Kind = "income"
	KindExpense Kind = "expense"
)

// Valid reports whether k is one of the two supported kinds.
func (k Kind) Valid() bool {
	return k == KindIncome || k == KindExpense
}

// DateLayout is the calendar-date format used for Transaction.Date.
const DateLayout = "2006-01-02"

// Transaction is a single income or expense owned by one user.
type Transaction struct {
	ID          int64           `json:"id"`
	UserID      int64           `json:"user_id"`
	Kind        Kind            `json:"kind"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Date        string          `json:"date"`
	CreatedAt   time.Time       `json:"created_at"`
}

// TransactionInput carries the fields accepted when creating a transaction.
type TransactionInput struct {
	Kind        Kind
	Amount      decimal.Decimal
	Description string
	Category    string
	Date        string
}

// TransactionUpdate carries the mutable fields of a transaction. Kind is fixed at creation.
type TransactionUpdate struct {
	Amount      decimal.Decimal
	Description string
	Category    string
	Date        string
}

// SuggestedCategories lists the category labels offered to clients per kind.
// They are advisory: any non-empty category is accepted on write.
var SuggestedCategories = map[Kind][]string{
	KindIncome:  {"Salário", "Freelance", "Investimentos", "Outros"},
	KindExpense: {"Moradia", "Alimentação", "Transporte", "Lazer", "Saúde", "Outros"},
}
