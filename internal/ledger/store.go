package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"hesab/internal/core"
)

// ErrNotFound signals a stale transaction reference, e.g. the record was
// deleted by another operation in the same session.
var ErrNotFound = errors.New("transaction not found")

// Persister is the outbound port the store flushes through.
type Persister interface {
	Load(ctx context.Context) core.Ledger
	Save(ctx context.Context, ledger core.Ledger) error
}

// Store owns the in-memory ledger: the transaction collection and the
// initial balance. Every successful mutation flushes the full state through
// the persister. Flushing is best-effort; a failed flush is logged but the
// in-memory state stays authoritative for the session.
type Store struct {
	mu             sync.Mutex
	transactions   []core.Transaction
	initialBalance decimal.Decimal
	persister      Persister

	now func() int64 // Unix milliseconds
}

// New builds a store seeded from whatever the persister can recover.
func New(ctx context.Context, p Persister) *Store {
	loaded := p.Load(ctx)
	return &Store{
		transactions:   loaded.Transactions,
		initialBalance: loaded.InitialBalance,
		persister:      p,
		now:            func() int64 { return time.Now().UnixMilli() },
	}
}

// AddTransaction validates the input, assigns a fresh id and creation
// timestamp, and prepends the new record.
func (s *Store) AddTransaction(ctx context.Context, amount decimal.Decimal, description string, date core.Date, typ core.TransactionType) (core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := core.Transaction{
		ID:          core.NewID(),
		Amount:      amount,
		Description: description,
		Date:        date,
		Type:        typ,
		CreatedAt:   s.now(),
	}
	if err := tx.Validate(); err != nil {
		return core.Transaction{}, fmt.Errorf("add transaction: %w", err)
	}

	s.transactions = append([]core.Transaction{tx}, s.transactions...)
	s.flush(ctx)

	slog.InfoContext(ctx, "Transaction added",
		"id", tx.ID,
		"type", tx.Type,
		"amount", tx.Amount.String(),
		"date", tx.Date)

	return tx, nil
}

// UpdateTransaction replaces the mutable fields of the record with the given
// id, preserving its id and original creation timestamp.
func (s *Store) UpdateTransaction(ctx context.Context, id string, amount decimal.Decimal, description string, date core.Date, typ core.TransactionType) (core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i, t := range s.transactions {
		if t.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return core.Transaction{}, fmt.Errorf("update transaction %s: %w", id, ErrNotFound)
	}

	updated := core.Transaction{
		ID:          id,
		Amount:      amount,
		Description: description,
		Date:        date,
		Type:        typ,
		CreatedAt:   s.transactions[idx].CreatedAt,
	}
	if err := updated.Validate(); err != nil {
		return core.Transaction{}, fmt.Errorf("update transaction %s: %w", id, err)
	}

	s.transactions[idx] = updated
	s.flush(ctx)

	slog.InfoContext(ctx, "Transaction updated",
		"id", id,
		"type", updated.Type,
		"amount", updated.Amount.String(),
		"date", updated.Date)

	return updated, nil
}

// DeleteTransaction removes the record with the given id. Deleting an
// unknown id is a no-op, which keeps double deletes from the presentation
// layer harmless.
func (s *Store) DeleteTransaction(ctx context.Context, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, t := range s.transactions {
		if t.ID == id {
			s.transactions = append(s.transactions[:i], s.transactions[i+1:]...)
			s.flush(ctx)
			slog.InfoContext(ctx, "Transaction deleted", "id", id)
			return
		}
	}
	slog.DebugContext(ctx, "Delete of unknown transaction ignored", "id", id)
}

// SetInitialBalance replaces the starting balance. Any sign is valid.
func (s *Store) SetInitialBalance(ctx context.Context, value decimal.Decimal) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.initialBalance = value
	s.flush(ctx)

	slog.InfoContext(ctx, "Initial balance updated", "balance", value.String())
}

// Transactions returns a snapshot sorted by date descending, most recently
// created first within a date. Mutating the result does not touch the store.
func (s *Store) Transactions() []core.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := append([]core.Transaction(nil), s.transactions...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date > out[j].Date
		}
		return out[i].CreatedAt > out[j].CreatedAt
	})
	return out
}

// InitialBalance returns the current starting balance.
func (s *Store) InitialBalance() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.initialBalance
}

// Stats recomputes summary statistics from the current state.
func (s *Store) Stats() core.SummaryStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return core.ComputeStats(s.transactions, s.initialBalance)
}

// Flush persists the current state, surfacing the error to the caller.
// Used at shutdown, where a failure should be visible.
func (s *Store) Flush(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.persister.Save(ctx, s.snapshotLocked())
}

// flush persists the current state best-effort. Runs under the store lock,
// so successive persisted states are monotonic. Failures are logged only;
// silent data loss on the next load is the consequence worth reporting.
func (s *Store) flush(ctx context.Context) {
	if err := s.persister.Save(ctx, s.snapshotLocked()); err != nil {
		slog.ErrorContext(ctx, "Failed to persist ledger",
			"error", err,
			"transactions", len(s.transactions))
	}
}

func (s *Store) snapshotLocked() core.Ledger {
	return core.Ledger{
		Transactions:   append([]core.Transaction(nil), s.transactions...),
		InitialBalance: s.initialBalance,
	}
}
