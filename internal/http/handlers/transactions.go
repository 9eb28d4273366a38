package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/hongminglow/finance-tracker/internal/http/respond"
	"github.com/hongminglow/finance-tracker/internal/ledger"
	"github.com/hongminglow/finance-tracker/internal/models"
	"github.com/hongminglow/finance-tracker/internal/models/dto"
	"github.com/hongminglow/finance-tracker/internal/storage"
)

// TransactionHandler serves the caller's transactions.
type TransactionHandler struct {
	store storage.TransactionStore
}

// NewTransactionHandler constructs the handler.
func NewTransactionHandler(store storage.TransactionStore) *TransactionHandler {
	return &TransactionHandler{store: store}
}

// Register attaches transaction and category routes. They expect an authenticated session.
func (h *TransactionHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/categories", h.handleCategories)
	mux.HandleFunc("GET /api/transactions", h.handleList)
	mux.HandleFunc("POST /api/transactions", h.handleCreate)
	mux.HandleFunc("PUT /api/transactions/{id}", h.handleUpdate)
	mux.HandleFunc("DELETE /api/transactions/{id}", h.handleDelete)
}

func (h *TransactionHandler) handleCategories(w http.ResponseWriter, r *http.Request) {
	respond.JSON(w, http.StatusOK, "categories", dto.CategoriesResponse{
		Income:  models.SuggestedCategories[models.KindIncome],
		Expense: models.SuggestedCategories[models.KindExpense],
	})
}

// handleList filters by startDate&endDate, or by month, or returns everything.
func (h *TransactionHandler) handleList(w http.ResponseWriter, r *http.Request) {
	session, ok := sessionOrAbort(w, r)
	if !ok {
		return
	}
	q := r.URL.Query()
	start, end := strings.TrimSpace(q.Get("startDate")), strings.TrimSpace(q.Get("endDate"))
	if month := strings.TrimSpace(q.Get("month")); month != "" {
		p, err := ledger.ParsePeriod(month)
		if err != nil {
			respond.Error(w, http.StatusBadRequest, err.Error())
			return
		}
		start, end = p.Bounds()
	}
	if start != "" && end != "" && (!ledger.ValidBound(start) || !ledger.ValidBound(end)) {
		respond.Error(w, http.StatusBadRequest, "startDate and endDate must be YYYY-MM-DD")
		return
	}

	var (
		txs []models.Transaction
		err error
	)
	if start != "" && end != "" {
		txs, err = h.store.ListByUserAndRange(r.Context(), session.UserID, start, end)
	} else {
		txs, err = h.store.ListByUser(r.Context(), session.UserID)
	}
	if err != nil {
		slog.ErrorContext(r.Context(), "list transactions", "user_id", session.UserID, "error", err)
		respond.Error(w, http.StatusInternalServerError, "failed to fetch transactions")
		return
	}
	respond.JSON(w, http.StatusOK, "transactions", dto.NewTransactionList(txs))
}

func (h *TransactionHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	session, ok := sessionOrAbort(w, r)
	if !ok {
		return
	}
	var req dto.TransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	created, err := h.store.Create(r.Context(), session.UserID, req.Input())
	if err != nil {
		writeStoreError(w, r, "create transaction", err)
		return
	}
	respond.JSON(w, http.StatusCreated, "transaction ("+string(created.Kind)+") created", dto.NewTransactionResponse(created))
}

func (h *TransactionHandler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	session, ok := sessionOrAbort(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req dto.TransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	updated, err := h.store.Update(r.Context(), session.UserID, id, req.Update())
	if err != nil {
		writeStoreError(w, r, "update transaction", err)
		return
	}
	respond.JSON(w, http.StatusOK, "transaction updated", dto.NewTransactionResponse(updated))
}

func (h *TransactionHandler) handleDelete(w http.ResponseWriter, r *http.Request) {
	session, ok := sessionOrAbort(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.store.Delete(r.Context(), session.UserID, id); err != nil {
		writeStoreError(w, r, "delete transaction", err)
		return
	}
	respond.JSON(w, http.StatusOK, "transaction deleted", nil)
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		// Not a valid id, so it cannot name one of the caller's rows.
		respond.Error(w, http.StatusNotFound, "transaction not found")
		return 0, false
	}
	return id, true
}

func writeStoreError(w http.ResponseWriter, r *http.Request, op string, err error) {
	var verr *models.ValidationError
	switch {
	case errors.As(err, &verr):
		respond.Error(w, http.StatusBadRequest, verr.Error())
	case errors.Is(err, storage.ErrNotFound):
		respond.Error(w, http.StatusNotFound, "transaction not found")
	default:
		slog.ErrorContext(r.Context(), op, "error", err)
		respond.Error(w, http.StatusInternalServerError, "failed to "+op)
	}
}
