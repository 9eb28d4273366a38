package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hongminglow/finance-tracker/internal/auth"
	"github.com/hongminglow/finance-tracker/internal/ledger"
	"github.com/hongminglow/finance-tracker/internal/models"
	"github.com/hongminglow/finance-tracker/internal/storage"
)

// fakeStore records the range it was asked for and returns canned rows.
type fakeStore struct {
	storage.TransactionStore
	rows     []models.Transaction
	err      error
	gotUser  int64
	gotStart string
	gotEnd   string
}

func (f *fakeStore) ListByUserAndRange(_ context.Context, userID int64, start, end string) ([]models.Transaction, error) {
	f.gotUser, f.gotStart, f.gotEnd = userID, start, end
	return f.rows, f.err
}

func serveSummary(t *testing.T, h *SummaryHandler, target string, withSession bool) *httptest.ResponseRecorder {
	t.Helper()
	mux := http.NewServeMux()
	h.Register(mux)
	req := httptest.NewRequest(http.MethodGet, target, http.NoBody)
	if withSession {
		req = req.WithContext(auth.WithSession(req.Context(), auth.Session{UserID: 9}))
	}
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	return w
}

func TestSummaryDefaultsToCurrentMonth(t *testing.T) {
	store := &fakeStore{}
	h := NewSummaryHandler(store, ledger.NewAggregator())
	h.now = func() time.Time { return time.Date(2024, time.February, 10, 9, 0, 0, 0, time.UTC) }

	w := serveSummary(t, h, "/api/summary", true)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(9), store.gotUser)
	assert.Equal(t, "2024-02-01", store.gotStart)
	assert.Equal(t, "2024-02-31", store.gotEnd)

	var env struct {
		Data struct {
			Summary struct {
				CategoryBreakdown []any `json:"categoryBreakdown"`
			} `json:"summary"`
			Days []any `json:"days"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	assert.NotNil(t, env.Data.Summary.CategoryBreakdown)
	assert.NotNil(t, env.Data.Days)
}

func TestSummaryFailures(t *testing.T) {
	bad := []models.Transaction{{ID: 1, Kind: models.KindExpense, Amount: decimal.Zero, Category: "x", Date: "2024-05-01"}}

	tests := []struct {
		name    string
		store   *fakeStore
		agg     *ledger.Aggregator
		target  string
		session bool
		want    int
	}{
		{"no session", &fakeStore{}, ledger.NewAggregator(), "/api/summary", false, http.StatusUnauthorized},
		{"bad month", &fakeStore{}, ledger.NewAggregator(), "/api/summary?month=May", true, http.StatusBadRequest},
		{"store error", &fakeStore{err: errors.New("boom")}, ledger.NewAggregator(), "/api/summary?month=2024-05", true, http.StatusInternalServerError},
		{"strict rejects malformed", &fakeStore{rows: bad}, ledger.NewAggregator(ledger.WithStrict(true)), "/api/summary?month=2024-05", true, http.StatusInternalServerError},
		{"lenient skips malformed", &fakeStore{rows: bad}, ledger.NewAggregator(), "/api/summary?month=2024-05", true, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serveSummary(t, NewSummaryHandler(tt.store, tt.agg), tt.target, tt.session)
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestSummaryIgnoresRowsOutsidePeriod(t *testing.T) {
	store := &fakeStore{rows: []models.Transaction{
		{ID: 1, Kind: models.KindIncome, Amount: decimal.NewFromInt(100), Category: "Salário", Date: "2024-05-01"},
		{ID: 2, Kind: models.KindExpense, Amount: decimal.NewFromInt(90), Category: "Lazer", Date: "2024-06-01"},
	}}

	w := serveSummary(t, NewSummaryHandler(store, ledger.NewAggregator(ledger.WithStrict(true))), "/api/summary?month=2024-05", true)
	require.Equal(t, http.StatusOK, w.Code)

	var env struct {
		Data struct {
			Summary struct {
				TotalExpense  float64 `json:"totalExpense"`
				OverspendFlag bool    `json:"overspendFlag"`
			} `json:"summary"`
			Days []struct {
				Date string `json:"date"`
			} `json:"days"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	assert.Zero(t, env.Data.Summary.TotalExpense)
	assert.False(t, env.Data.Summary.OverspendFlag)
	require.Len(t, env.Data.Days, 1)
	assert.Equal(t, "2024-05-01", env.Data.Days[0].Date)
}
