package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/hongminglow/finance-tracker/internal/models"
)

// TransactionRequest is the body of create and update calls. Amount accepts
// a JSON number or a numeric string. Kind is ignored on update.
type TransactionRequest struct {
	Kind        models.Kind     `json:"kind"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Date        string          `json:"date"`
}

func (r TransactionRequest) Input() models.TransactionInput {
	return models.TransactionInput{
		Kind:        r.Kind,
		Amount:      r.Amount,
		Description: r.Description,
		Category:    r.Category,
		Date:        r.Date,
	}
}

func (r TransactionRequest) Update() models.TransactionUpdate {
	return models.TransactionUpdate{
		Amount:      r.Amount,
		Description: r.Description,
		Category:    r.Category,
		Date:        r.Date,
	}
}

type TransactionResponse struct {
	ID          int64       `json:"id"`
	Kind        models.Kind `json:"kind"`
	Amount      float64     `json:"amount"`
	Description string      `json:"description"`
	Category    string      `json:"category"`
	Date        string      `json:"date"`
	CreatedAt   time.Time   `json:"created_at"`
}

// Money rounds an amount to cents for display. Aggregation never goes through here.
func Money(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}

func NewTransactionResponse(t models.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:          t.ID,
		Kind:        t.Kind,
		Amount:      Money(t.Amount),
		Description: t.Description,
		Category:    t.Category,
		Date:        t.Date,
		CreatedAt:   t.CreatedAt,
	}
}

func NewTransactionList(txs []models.Transaction) []TransactionResponse {
	out := make([]TransactionResponse, 0, len(txs))
	for _, t := range txs {
		out = append(out, NewTransactionResponse(t))
	}
	return out
}

type CategoriesResponse struct {
	Income  []string `json:"income"`
	Expense []string `json:"expense"`
}
