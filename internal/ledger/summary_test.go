package ledger

import (
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hongminglow/finance-tracker/internal/models"
)

func tx(id int64, kind models.Kind, amount, category, date string) models.Transaction {
	return models.Transaction{
		ID:       id,
		UserID:   1,
		Kind:     kind,
		Amount:   decimal.RequireFromString(amount),
		Category: category,
		Date:     date,
	}
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestComputeSummaryExample(t *testing.T) {
	txs := []models.Transaction{
		tx(1, models.KindIncome, "1000", "Salário", "2024-05-01"),
		tx(2, models.KindExpense, "300", "Moradia", "2024-05-02"),
		tx(3, models.KindExpense, "200", "Lazer", "2024-05-03"),
	}

	s := ComputeSummary(txs)

	assert.True(t, s.TotalIncome.Equal(dec("1000")))
	assert.True(t, s.TotalExpense.Equal(dec("500")))
	assert.True(t, s.Balance.Equal(dec("500")))
	assert.False(t, s.OverspendFlag)
	require.Len(t, s.CategoryBreakdown, 2)
	assert.Equal(t, "Moradia", s.CategoryBreakdown[0].Category)
	assert.True(t, s.CategoryBreakdown[0].Total.Equal(dec("300")))
	assert.Equal(t, "Lazer", s.CategoryBreakdown[1].Category)
	assert.True(t, s.CategoryBreakdown[1].Total.Equal(dec("200")))
	require.Len(t, s.IncomeBreakdown, 1)
	assert.Equal(t, "Salário", s.IncomeBreakdown[0].Category)
	assert.Equal(t, 3, s.TransactionCount)
}

func TestComputeSummaryEmpty(t *testing.T) {
	s := ComputeSummary(nil)

	assert.True(t, s.TotalIncome.IsZero())
	assert.True(t, s.TotalExpense.IsZero())
	assert.True(t, s.Balance.IsZero())
	assert.NotNil(t, s.CategoryBreakdown)
	assert.Empty(t, s.CategoryBreakdown)
	assert.Empty(t, s.IncomeBreakdown)
	assert.False(t, s.OverspendFlag)
	assert.Zero(t, s.TransactionCount)
}

func TestComputeSummaryOverspendThreshold(t *testing.T) {
	tests := []struct {
		name    string
		income  string
		expense string
		want    bool
	}{
		{"exactly three quarters", "1000", "750", true},
		{"one cent below", "1000", "749.99", false},
		{"above income", "1000", "1200", true},
		{"fractional income", "0.04", "0.03", true},
		{"no expense", "1000", "", false},
		{"expense without income", "", "50", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var txs []models.Transaction
			if tt.income != "" {
				txs = append(txs, tx(1, models.KindIncome, tt.income, "Salário", "2024-05-01"))
			}
			if tt.expense != "" {
				txs = append(txs, tx(2, models.KindExpense, tt.expense, "Moradia", "2024-05-02"))
			}
			assert.Equal(t, tt.want, ComputeSummary(txs).OverspendFlag)
		})
	}
}

func TestComputeSummaryKeepsFullPrecision(t *testing.T) {
	var txs []models.Transaction
	for i := 0; i < 10; i++ {
		txs = append(txs, tx(int64(i), models.KindExpense, "0.1", "Alimentação", "2024-05-02"))
	}
	txs = append(txs, tx(99, models.KindIncome, "0.001", "Outros", "2024-05-02"))

	s := ComputeSummary(txs)

	assert.Equal(t, "1", s.TotalExpense.String())
	assert.Equal(t, "0.001", s.TotalIncome.String())
	assert.Equal(t, "-0.999", s.Balance.String())
}

func TestComputeSummaryBreakdownOrdering(t *testing.T) {
	txs := []models.Transaction{
		tx(1, models.KindExpense, "50", "Transporte", "2024-05-01"),
		tx(2, models.KindExpense, "80", "Lazer", "2024-05-01"),
		tx(3, models.KindExpense, "30", "Saúde", "2024-05-02"),
		tx(4, models.KindExpense, "30", "Transporte", "2024-05-03"),
		tx(5, models.KindExpense, "80", "Moradia", "2024-05-04"),
		tx(6, models.KindIncome, "500", "Salário", "2024-05-04"),
	}

	s := ComputeSummary(txs)

	var names []string
	sum := decimal.Zero
	for i, ct := range s.CategoryBreakdown {
		names = append(names, ct.Category)
		sum = sum.Add(ct.Total)
		if i > 0 {
			assert.True(t, s.CategoryBreakdown[i-1].Total.GreaterThanOrEqual(ct.Total), "breakdown must be non-increasing")
		}
	}
	// Transporte (80) was seen first, then Lazer (80), then Moradia (80).
	assert.Equal(t, []string{"Transporte", "Lazer", "Moradia", "Saúde"}, names)
	assert.Equal(t, 2, s.CategoryBreakdown[0].Count)
	assert.True(t, sum.Equal(s.TotalExpense))
	assert.True(t, s.Balance.Equal(s.TotalIncome.Sub(s.TotalExpense)))
}

func TestComputeSummaryIsDeterministic(t *testing.T) {
	txs := []models.Transaction{
		tx(1, models.KindExpense, "10.10", "A", "2024-05-01"),
		tx(2, models.KindExpense, "10.10", "B", "2024-05-01"),
		tx(3, models.KindIncome, "20", "C", "2024-05-01"),
		tx(4, models.KindExpense, "3.333", "A", "2024-05-02"),
	}

	first := ComputeSummary(txs)
	second := ComputeSummary(txs)

	assert.Equal(t, first, second)
}

func TestAggregatorMalformedRecords(t *testing.T) {
	txs := []models.Transaction{
		tx(1, models.KindIncome, "100", "Salário", "2024-05-01"),
		{ID: 2, Kind: models.KindExpense, Amount: decimal.Zero, Category: "Lazer", Date: "2024-05-01"},
		{ID: 3, Kind: "transfer", Amount: dec("5"), Category: "Lazer", Date: "2024-05-01"},
		tx(4, models.KindExpense, "40", "Moradia", "2024-05-02"),
	}

	t.Run("lenient skips", func(t *testing.T) {
		agg := NewAggregator(WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
		s, err := agg.Summarize(txs)
		require.NoError(t, err)
		assert.Equal(t, 2, s.Skipped)
		assert.Equal(t, 2, s.TransactionCount)
		assert.True(t, s.TotalExpense.Equal(dec("40")))
	})

	t.Run("strict fails fast", func(t *testing.T) {
		_, err := NewAggregator(WithStrict(true)).Summarize(txs)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrMalformedTransaction))
		var merr *MalformedError
		require.True(t, errors.As(err, &merr))
		assert.Equal(t, int64(2), merr.TransactionID)
	})
}

func TestSummaryExpenseRatio(t *testing.T) {
	s := ComputeSummary([]models.Transaction{
		tx(1, models.KindIncome, "3", "Salário", "2024-05-01"),
		tx(2, models.KindExpense, "1", "Lazer", "2024-05-01"),
	})
	assert.Equal(t, "0.3333", s.ExpenseRatio().String())
	assert.True(t, ComputeSummary(nil).ExpenseRatio().IsZero())
}
