package handlers

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/hongminglow/finance-tracker/internal/http/respond"
	"github.com/hongminglow/finance-tracker/internal/ledger"
	"github.com/hongminglow/finance-tracker/internal/models/dto"
	"github.com/hongminglow/finance-tracker/internal/storage"
)

// SummaryHandler serves the monthly dashboard feed.
type SummaryHandler struct {
	store      storage.TransactionStore
	aggregator *ledger.Aggregator
	now        func() time.Time
}

// NewSummaryHandler constructs the handler.
func NewSummaryHandler(store storage.TransactionStore, aggregator *ledger.Aggregator) *SummaryHandler {
	return &SummaryHandler{store: store, aggregator: aggregator, now: time.Now}
}

// Register attaches the summary route. It expects an authenticated session.
func (h *SummaryHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/summary", h.handleSummary)
}

func (h *SummaryHandler) handleSummary(w http.ResponseWriter, r *http.Request) {
	session, ok := sessionOrAbort(w, r)
	if !ok {
		return
	}

	period := ledger.CurrentPeriod(h.now())
	if month := strings.TrimSpace(r.URL.Query().Get("month")); month != "" {
		p, err := ledger.ParsePeriod(month)
		if err != nil {
			respond.Error(w, http.StatusBadRequest, err.Error())
			return
		}
		period = p
	}

	start, end := period.Bounds()
	txs, err := h.store.ListByUserAndRange(r.Context(), session.UserID, start, end)
	if err != nil {
		slog.ErrorContext(r.Context(), "summary: list transactions", "user_id", session.UserID, "period", period.String(), "error", err)
		respond.Error(w, http.StatusInternalServerError, "failed to fetch transactions")
		return
	}

	if inPeriod := ledger.FilterPeriod(txs, period); len(inPeriod) != len(txs) {
		slog.WarnContext(r.Context(), "summary: store returned rows outside period",
			"user_id", session.UserID, "period", period.String(), "dropped", len(txs)-len(inPeriod))
		txs = inPeriod
	}

	summary, err := h.aggregator.Summarize(txs)
	if err != nil {
		slog.ErrorContext(r.Context(), "summary: aggregate", "user_id", session.UserID, "period", period.String(), "error", err)
		respond.Error(w, http.StatusInternalServerError, "failed to summarize transactions")
		return
	}

	respond.JSON(w, http.StatusOK, "summary", dto.NewDashboardResponse(period, summary, ledger.GroupByDay(txs)))
}
