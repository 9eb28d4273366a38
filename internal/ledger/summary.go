// Package ledger reduces a user's transactions into the figures shown on the
// dashboard: totals, balance, category rollups, the overspend alert and the
// per-day listing.
package ledger

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/hongminglow/finance-tracker/internal/models"
)

// ErrMalformedTransaction is wrapped by MalformedError.
var ErrMalformedTransaction = errors.New("malformed transaction")

// MalformedError identifies a record that should never have passed the write boundary.
type MalformedError struct {
	TransactionID int64
	Reason        string
}

func (e *MalformedError) Error() string {
	return fmt.Sprintf("transaction %d: %s", e.TransactionID, e.Reason)
}

func (e *MalformedError) Unwrap() error {
	return ErrMalformedTransaction
}

// Overspend fires when expenses reach OverspendNumerator/OverspendDenominator of income.
const (
	OverspendNumerator   = 3
	OverspendDenominator = 4
)

// CategoryTotal is the summed amount of one category.
type CategoryTotal struct {
	Category string
	Total    decimal.Decimal
	Count    int
}

// Summary is the aggregate over a set of transactions.
type Summary struct {
	TotalIncome       decimal.Decimal
	TotalExpense      decimal.Decimal
	Balance           decimal.Decimal
	CategoryBreakdown []CategoryTotal
	IncomeBreakdown   []CategoryTotal
	OverspendFlag     bool
	TransactionCount  int
	Skipped           int
}

// ExpenseRatio returns expense/income, or zero when there is no income.
// Presentation only; the overspend decision does not divide.
func (s Summary) ExpenseRatio() decimal.Decimal {
	if !s.TotalIncome.IsPositive() {
		return decimal.Zero
	}
	return s.TotalExpense.DivRound(s.TotalIncome, 4)
}

// Aggregator computes summaries. The zero value is lenient and silent.
type Aggregator struct {
	strict bool
	logger *slog.Logger
}

// Option configures an Aggregator.
type Option func(*Aggregator)

// WithStrict makes Summarize fail on the first malformed record instead of skipping it.
func WithStrict(strict bool) Option {
	return func(a *Aggregator) { a.strict = strict }
}

// WithLogger sets the logger that reports skipped records.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Aggregator) { a.logger = logger }
}

// NewAggregator builds an Aggregator.
func NewAggregator(opts ...Option) *Aggregator {
	a := &Aggregator{}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// ComputeSummary aggregates txs, skipping malformed records.
func ComputeSummary(txs []models.Transaction) Summary {
	s, _ := (&Aggregator{}).Summarize(txs)
	return s
}

// Summarize aggregates txs. It only returns an error in strict mode.
func (a *Aggregator) Summarize(txs []models.Transaction) (Summary, error) {
	income := newRollup()
	expense := newRollup()
	skipped := 0

	for _, tx := range txs {
		if reason := malformed(tx); reason != "" {
			if a.strict {
				return Summary{}, &MalformedError{TransactionID: tx.ID, Reason: reason}
			}
			if a.logger != nil {
				a.logger.Warn("skipping malformed transaction",
					"transaction_id", tx.ID,
					"user_id", tx.UserID,
					"reason", reason,
				)
			}
			skipped++
			continue
		}
		if tx.Kind == models.KindIncome {
			income.add(tx)
		} else {
			expense.add(tx)
		}
	}

	return Summary{
		TotalIncome:       income.total,
		TotalExpense:      expense.total,
		Balance:           income.total.Sub(expense.total),
		CategoryBreakdown: expense.sorted(),
		IncomeBreakdown:   income.sorted(),
		OverspendFlag:     overspent(income.total, expense.total),
		TransactionCount:  len(txs) - skipped,
		Skipped:           skipped,
	}, nil
}

func malformed(tx models.Transaction) string {
	switch {
	case !tx.Kind.Valid():
		return fmt.Sprintf("unknown kind %q", tx.Kind)
	case !tx.Amount.IsPositive():
		return fmt.Sprintf("non-positive amount %s", tx.Amount)
	}
	return ""
}

// overspent reports expense/income >= 3/4 without dividing.
func overspent(income, expense decimal.Decimal) bool {
	if !income.IsPositive() {
		return false
	}
	lhs := expense.Mul(decimal.NewFromInt(OverspendDenominator))
	rhs := income.Mul(decimal.NewFromInt(OverspendNumerator))
	return lhs.GreaterThanOrEqual(rhs)
}

// rollup sums amounts per category, remembering first-seen order.
type rollup struct {
	total  decimal.Decimal
	order  []string
	totals map[string]*CategoryTotal
}

func newRollup() *rollup {
	return &rollup{total: decimal.Zero, totals: make(map[string]*CategoryTotal)}
}

func (r *rollup) add(tx models.Transaction) {
	r.total = r.total.Add(tx.Amount)
	ct, ok := r.totals[tx.Category]
	if !ok {
		ct = &CategoryTotal{Category: tx.Category, Total: decimal.Zero}
		r.totals[tx.Category] = ct
		r.order = append(r.order, tx.Category)
	}
	ct.Total = ct.Total.Add(tx.Amount)
	ct.Count++
}

// sorted returns totals by amount descending; ties keep first-seen order.
func (r *rollup) sorted() []CategoryTotal {
	out := make([]CategoryTotal, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, *r.totals[name])
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Total.GreaterThan(out[j].Total)
	})
	return out
}
