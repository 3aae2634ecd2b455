package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"

	"hesab/internal/core"
)

// Adapter serializes ledger state to and from a KV byte store. Load is
// deliberately forgiving: a missing or corrupt entry degrades to that
// piece's default instead of failing, so one bad key never discards the
// other piece's data.
type Adapter struct {
	kv KV
}

func NewAdapter(kv KV) *Adapter {
	return &Adapter{kv: kv}
}

// wireTransaction is the stored form of a transaction. Amount travels as a
// JSON number rendered from its exact decimal text so it round-trips without
// binary float drift.
type wireTransaction struct {
	ID          string      `json:"id"`
	Amount      json.Number `json:"amount"`
	Description string      `json:"description"`
	Date        string      `json:"date"`
	Type        string      `json:"type"`
	CreatedAt   int64       `json:"createdAt"`
}

// Load reads both keys and reconstructs a ledger. It never fails; read or
// parse problems are logged and the affected piece falls back to its default.
func (a *Adapter) Load(ctx context.Context) core.Ledger {
	ledger := core.Ledger{InitialBalance: decimal.Zero}

	raw, found, err := a.kv.Get(ctx, KeyTransactions)
	switch {
	case err != nil:
		slog.ErrorContext(ctx, "Failed to read transactions, starting empty",
			"key", KeyTransactions, "error", err)
	case found:
		txs, err := decodeTransactions(raw)
		if err != nil {
			slog.ErrorContext(ctx, "Failed to parse stored transactions, starting empty",
				"key", KeyTransactions, "error", err)
		} else {
			ledger.Transactions = txs
		}
	}

	raw, found, err = a.kv.Get(ctx, KeyInitialBalance)
	switch {
	case err != nil:
		slog.ErrorContext(ctx, "Failed to read initial balance, defaulting to zero",
			"key", KeyInitialBalance, "error", err)
	case found:
		balance, err := decimal.NewFromString(strings.TrimSpace(string(raw)))
		if err != nil {
			slog.ErrorContext(ctx, "Failed to parse stored initial balance, defaulting to zero",
				"key", KeyInitialBalance, "error", err)
		} else {
			ledger.InitialBalance = balance
		}
	}

	slog.InfoContext(ctx, "Ledger loaded",
		"transactions", len(ledger.Transactions),
		"initial_balance", ledger.InitialBalance.String())

	return ledger
}

// Save writes both pieces under their keys. The first failed write aborts
// the flush; the caller decides whether that is fatal.
func (a *Adapter) Save(ctx context.Context, ledger core.Ledger) error {
	data, err := encodeTransactions(ledger.Transactions)
	if err != nil {
		return fmt.Errorf("encode transactions: %w", err)
	}
	if err := a.kv.Set(ctx, KeyTransactions, data); err != nil {
		return fmt.Errorf("write transactions: %w", err)
	}
	if err := a.kv.Set(ctx, KeyInitialBalance, []byte(ledger.InitialBalance.String())); err != nil {
		return fmt.Errorf("write initial balance: %w", err)
	}
	return nil
}

func encodeTransactions(txs []core.Transaction) ([]byte, error) {
	wire := make([]wireTransaction, len(txs))
	for i, t := range txs {
		wire[i] = wireTransaction{
			ID:          t.ID,
			Amount:      json.Number(t.Amount.String()),
			Description: t.Description,
			Date:        string(t.Date),
			Type:        string(t.Type),
			CreatedAt:   t.CreatedAt,
		}
	}
	return json.Marshal(wire)
}

func decodeTransactions(raw []byte) ([]core.Transaction, error) {
	var wire []wireTransaction
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&wire); err != nil {
		return nil, err
	}

	txs := make([]core.Transaction, len(wire))
	for i, w := range wire {
		amount, err := decimal.NewFromString(w.Amount.String())
		if err != nil {
			return nil, fmt.Errorf("record %d: bad amount %q: %w", i, w.Amount, err)
		}
		txs[i] = core.Transaction{
			ID:          w.ID,
			Amount:      amount,
			Description: w.Description,
			Date:        core.Date(w.Date),
			Type:        core.TransactionType(w.Type),
			CreatedAt:   w.CreatedAt,
		}
	}
	return txs, nil
}
