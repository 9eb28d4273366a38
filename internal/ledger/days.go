package ledger

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/hongminglow/finance-tracker/internal/models"
)

// DayGroup holds the transactions of one calendar date.
type DayGroup struct {
	Date         string
	Income       decimal.Decimal
	Expense      decimal.Decimal
	Transactions []models.Transaction
}

// GroupByDay buckets transactions by exact Date string. Groups are ordered by
// date descending; inside a group the input order is kept.
func GroupByDay(txs []models.Transaction) []DayGroup {
	index := make(map[string]int)
	var groups []DayGroup
	for _, tx := range txs {
		i, ok := index[tx.Date]
		if !ok {
			i = len(groups)
			index[tx.Date] = i
			groups = append(groups, DayGroup{Date: tx.Date, Income: decimal.Zero, Expense: decimal.Zero})
		}
		g := &groups[i]
		g.Transactions = append(g.Transactions, tx)
		switch tx.Kind {
		case models.KindIncome:
			g.Income = g.Income.Add(tx.Amount)
		case models.KindExpense:
			g.Expense = g.Expense.Add(tx.Amount)
		}
	}
	sort.SliceStable(groups, func(i, j int) bool { return groups[i].Date > groups[j].Date })
	return groups
}

// FilterPeriod keeps the transactions whose date falls inside p, preserving order.
func FilterPeriod(txs []models.Transaction, p Period) []models.Transaction {
	out := make([]models.Transaction, 0, len(txs))
	for _, tx := range txs {
		if p.Contains(tx.Date) {
			out = append(out, tx)
		}
	}
	return out
}
