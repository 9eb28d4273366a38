package dto

import (
	"github.com/hongminglow/finance-tracker/internal/ledger"
)

type CategoryTotal struct {
	Category string  `json:"category"`
	Total    float64 `json:"total"`
	Count    int     `json:"count"`
}

type SummaryResponse struct {
	TotalIncome       float64         `json:"totalIncome"`
	TotalExpense      float64         `json:"totalExpense"`
	Balance           float64         `json:"balance"`
	CategoryBreakdown []CategoryTotal `json:"categoryBreakdown"`
	IncomeBreakdown   []CategoryTotal `json:"incomeBreakdown"`
	OverspendFlag     bool            `json:"overspendFlag"`
	ExpenseRatio      float64         `json:"expenseRatio"`
	TransactionCount  int             `json:"transactionCount"`
}

type DayGroup struct {
	Date         string                `json:"date"`
	Income       float64               `json:"income"`
	Expense      float64               `json:"expense"`
	Transactions []TransactionResponse `json:"transactions"`
}

// DashboardResponse is the payload of the monthly dashboard feed.
type DashboardResponse struct {
	Period  string          `json:"period"`
	Start   string          `json:"start"`
	End     string          `json:"end"`
	Prev    string          `json:"prev"`
	Next    string          `json:"next"`
	Summary SummaryResponse `json:"summary"`
	Days    []DayGroup      `json:"days"`
}

func NewSummaryResponse(s ledger.Summary) SummaryResponse {
	return SummaryResponse{
		TotalIncome:       Money(s.TotalIncome),
		TotalExpense:      Money(s.TotalExpense),
		Balance:           Money(s.Balance),
		CategoryBreakdown: categoryTotals(s.CategoryBreakdown),
		IncomeBreakdown:   categoryTotals(s.IncomeBreakdown),
		OverspendFlag:     s.OverspendFlag,
		ExpenseRatio:      s.ExpenseRatio().InexactFloat64(),
		TransactionCount:  s.TransactionCount,
	}
}

func NewDashboardResponse(p ledger.Period, s ledger.Summary, days []ledger.DayGroup) DashboardResponse {
	start, end := p.Bounds()
	out := DashboardResponse{
		Period:  p.String(),
		Start:   start,
		End:     end,
		Prev:    p.Prev().String(),
		Next:    p.Next().String(),
		Summary: NewSummaryResponse(s),
		Days:    make([]DayGroup, 0, len(days)),
	}
	for _, d := range days {
		out.Days = append(out.Days, DayGroup{
			Date:         d.Date,
			Income:       Money(d.Income),
			Expense:      Money(d.Expense),
			Transactions: NewTransactionList(d.Transactions),
		})
	}
	return out
}

func categoryTotals(in []ledger.CategoryTotal) []CategoryTotal {
	out := make([]CategoryTotal, 0, len(in))
	for _, ct := range in {
		out = append(out, CategoryTotal{Category: ct.Category, Total: Money(ct.Total), Count: ct.Count})
	}
	return out
}
