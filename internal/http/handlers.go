package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"hesab/internal/core"
	"hesab/internal/ledger"
)

// flexString accepts both JSON strings and bare JSON numbers, so clients may
// send `"amount": "۵۰۰۰"` as well as `"amount": 5000`.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	*f = flexString(data)
	return nil
}

type transactionRequest struct {
	Amount      flexString `json:"amount"`
	Description string     `json:"description"`
	Date        string     `json:"date"`
	Type        string     `json:"type"`
}

type balanceRequest struct {
	Value flexString `json:"value"`
}

type transactionResponse struct {
	ID          string          `json:"id"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	Date        string          `json:"date"`
	Type        string          `json:"type"`
	CreatedAt   int64           `json:"createdAt"`
}

type summaryResponse struct {
	TotalIncome    decimal.Decimal `json:"totalIncome"`
	TotalExpense   decimal.Decimal `json:"totalExpense"`
	Balance        decimal.Decimal `json:"balance"`
	InitialBalance decimal.Decimal `json:"initialBalance"`
}

func toResponse(t core.Transaction) transactionResponse {
	return transactionResponse{
		ID:          t.ID,
		Amount:      t.Amount,
		Description: t.Description,
		Date:        string(t.Date),
		Type:        string(t.Type),
		CreatedAt:   t.CreatedAt,
	}
}

// parseAmount normalizes localized numerals and parses a canonical decimal.
func parseAmount(raw flexString) (decimal.Decimal, error) {
	s := normalizeDigits(string(raw))
	if s == "" {
		return decimal.Zero, fmt.Errorf("%w: empty amount", core.ErrValidation)
	}
	v, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q is not a number", core.ErrValidation, string(raw))
	}
	return v, nil
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, core.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, ledger.ErrNotFound):
		status = http.StatusNotFound
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	list := s.store.Transactions()
	out := make([]transactionResponse, len(list))
	for i, t := range list {
		out[i] = toResponse(t)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleAddTransaction(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, fmt.Errorf("%w: malformed request body", core.ErrValidation))
		return
	}

	amount, err := parseAmount(req.Amount)
	if err != nil {
		writeError(w, err)
		return
	}

	tx, err := s.store.AddTransaction(r.Context(), amount, req.Description,
		core.Date(req.Date), core.TransactionType(req.Type))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toResponse(tx))
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, fmt.Errorf("%w: malformed request body", core.ErrValidation))
		return
	}

	amount, err := parseAmount(req.Amount)
	if err != nil {
		writeError(w, err)
		return
	}

	tx, err := s.store.UpdateTransaction(r.Context(), r.PathValue("id"), amount,
		req.Description, core.Date(req.Date), core.TransactionType(req.Type))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toResponse(tx))
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	s.store.DeleteTransaction(r.Context(), r.PathValue("id"))
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	stats := s.store.Stats()
	writeJSON(w, http.StatusOK, summaryResponse{
		TotalIncome:    stats.TotalIncome,
		TotalExpense:   stats.TotalExpense,
		Balance:        stats.Balance,
		InitialBalance: s.store.InitialBalance(),
	})
}

func (s *Server) handleSetBalance(w http.ResponseWriter, r *http.Request) {
	var req balanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, fmt.Errorf("%w: malformed request body", core.ErrValidation))
		return
	}

	// Unlike amounts, the starting balance may be negative.
	value, err := parseAmount(req.Value)
	if err != nil {
		writeError(w, err)
		return
	}

	s.store.SetInitialBalance(r.Context(), value)
	writeJSON(w, http.StatusOK, map[string]decimal.Decimal{"initialBalance": value})
}
