package ledger

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hesab/internal/core"
	"hesab/internal/storage"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s := New(context.Background(), storage.NewAdapter(storage.NewMemoryKV()))
	// deterministic, strictly increasing creation timestamps
	var tick int64
	s.now = func() int64 {
		tick++
		return tick
	}
	return s
}

func d(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func TestAddTransaction(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	tx, err := s.AddTransaction(ctx, d(50000), "salary", "2024-01-01", core.Income)
	require.NoError(t, err)
	assert.NotEmpty(t, tx.ID)
	assert.NotZero(t, tx.CreatedAt)
	assert.Equal(t, core.Income, tx.Type)
	assert.True(t, tx.Amount.Equal(d(50000)))

	list := s.Transactions()
	require.Len(t, list, 1)
	assert.Equal(t, tx, list[0])
}

func TestAddTransactionValidation(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	cases := []struct {
		name   string
		amount decimal.Decimal
		date   core.Date
		typ    core.TransactionType
		want   error
	}{
		{"zero amount", d(0), "2024-01-01", core.Income, core.ErrInvalidAmount},
		{"negative amount", d(-10), "2024-01-01", core.Expense, core.ErrInvalidAmount},
		{"empty date", d(10), "", core.Income, core.ErrInvalidDate},
		{"garbage date", d(10), "not-a-date", core.Income, core.ErrInvalidDate},
		{"bad type", d(10), "2024-01-01", "transfer", core.ErrInvalidType},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := s.AddTransaction(ctx, tc.amount, "", tc.date, tc.typ)
			require.ErrorIs(t, err, tc.want)
			require.ErrorIs(t, err, core.ErrValidation)
			assert.Empty(t, s.Transactions(), "failed add must not mutate the ledger")
		})
	}
}

func TestAddTransactionUniqueIDs(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	seen := make(map[string]struct{})
	for i := 0; i < 200; i++ {
		tx, err := s.AddTransaction(ctx, d(1), "", "2024-01-01", core.Income)
		require.NoError(t, err)
		_, dup := seen[tx.ID]
		require.False(t, dup, "duplicate id %s", tx.ID)
		seen[tx.ID] = struct{}{}
	}
}

func TestUpdateTransaction(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	tx, err := s.AddTransaction(ctx, d(20000), "groceries", "2024-01-02", core.Expense)
	require.NoError(t, err)

	updated, err := s.UpdateTransaction(ctx, tx.ID, d(5000), "fixed", "2024-01-02", core.Expense)
	require.NoError(t, err)
	assert.Equal(t, tx.ID, updated.ID)
	assert.Equal(t, tx.CreatedAt, updated.CreatedAt)
	assert.Equal(t, "fixed", updated.Description)
	assert.True(t, updated.Amount.Equal(d(5000)))

	list := s.Transactions()
	require.Len(t, list, 1)
	assert.Equal(t, updated, list[0])
}

func TestUpdateTransactionNotFound(t *testing.T) {
	s := newTestStore(t)
	_, err := s.UpdateTransaction(context.Background(), "missing", d(1), "", "2024-01-01", core.Income)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateTransactionValidation(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	tx, err := s.AddTransaction(ctx, d(100), "", "2024-01-01", core.Income)
	require.NoError(t, err)

	_, err = s.UpdateTransaction(ctx, tx.ID, d(-1), "", "2024-01-01", core.Income)
	require.ErrorIs(t, err, core.ErrInvalidAmount)

	list := s.Transactions()
	require.Len(t, list, 1)
	assert.Equal(t, tx, list[0], "failed update must leave the record untouched")
}

func TestDeleteTransactionIdempotent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	tx, err := s.AddTransaction(ctx, d(10), "", "2024-01-01", core.Income)
	require.NoError(t, err)

	s.DeleteTransaction(ctx, tx.ID)
	assert.Empty(t, s.Transactions())

	// second delete and unknown id are both harmless no-ops
	s.DeleteTransaction(ctx, tx.ID)
	s.DeleteTransaction(ctx, "never-existed")
	assert.Empty(t, s.Transactions())
}

func TestTransactionsOrdering(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	older, err := s.AddTransaction(ctx, d(1), "older", "2024-01-01", core.Income)
	require.NoError(t, err)
	sameDayFirst, err := s.AddTransaction(ctx, d(2), "same day, entered first", "2024-02-01", core.Expense)
	require.NoError(t, err)
	sameDaySecond, err := s.AddTransaction(ctx, d(3), "same day, entered second", "2024-02-01", core.Income)
	require.NoError(t, err)

	list := s.Transactions()
	require.Len(t, list, 3)
	assert.Equal(t, sameDaySecond.ID, list[0].ID)
	assert.Equal(t, sameDayFirst.ID, list[1].ID)
	assert.Equal(t, older.ID, list[2].ID)
}

func TestTransactionsReturnsSnapshot(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.AddTransaction(ctx, d(10), "", "2024-01-01", core.Income)
	require.NoError(t, err)

	list := s.Transactions()
	list[0].Description = "mutated copy"

	assert.Empty(t, s.Transactions()[0].Description)
}

func TestStatsScenarios(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	// income then expense from an empty ledger
	income, err := s.AddTransaction(ctx, d(50000), "", "2024-01-01", core.Income)
	require.NoError(t, err)

	stats := s.Stats()
	assert.True(t, stats.TotalIncome.Equal(d(50000)))
	assert.True(t, stats.TotalExpense.Equal(d(0)))
	assert.True(t, stats.Balance.Equal(d(50000)))

	expense, err := s.AddTransaction(ctx, d(20000), "", "2024-01-02", core.Expense)
	require.NoError(t, err)

	stats = s.Stats()
	assert.True(t, stats.TotalIncome.Equal(d(50000)))
	assert.True(t, stats.TotalExpense.Equal(d(20000)))
	assert.True(t, stats.Balance.Equal(d(30000)))

	// raising the initial balance shifts only the balance
	s.SetInitialBalance(ctx, d(100000))
	stats = s.Stats()
	assert.True(t, stats.TotalIncome.Equal(d(50000)))
	assert.True(t, stats.TotalExpense.Equal(d(20000)))
	assert.True(t, stats.Balance.Equal(d(130000)))

	// shrinking the expense
	_, err = s.UpdateTransaction(ctx, expense.ID, d(5000), "fixed", "2024-01-02", core.Expense)
	require.NoError(t, err)
	stats = s.Stats()
	assert.True(t, stats.TotalIncome.Equal(d(50000)))
	assert.True(t, stats.TotalExpense.Equal(d(5000)))
	assert.True(t, stats.Balance.Equal(d(145000)))

	// dropping the income entirely
	s.DeleteTransaction(ctx, income.ID)
	stats = s.Stats()
	assert.True(t, stats.TotalIncome.Equal(d(0)))
	assert.True(t, stats.TotalExpense.Equal(d(5000)))
	assert.True(t, stats.Balance.Equal(d(95000)))
}

type failingPersister struct {
	saves int
}

func (f *failingPersister) Load(context.Context) core.Ledger { return core.Ledger{} }

func (f *failingPersister) Save(context.Context, core.Ledger) error {
	f.saves++
	return errors.New("disk full")
}

func TestFlushFailureDoesNotSurface(t *testing.T) {
	p := &failingPersister{}
	s := New(context.Background(), p)
	ctx := context.Background()

	tx, err := s.AddTransaction(ctx, d(42), "", "2024-01-01", core.Income)
	require.NoError(t, err, "persistence failure must not fail the mutation")
	assert.Equal(t, 1, p.saves)

	// in-memory state stays authoritative
	list := s.Transactions()
	require.Len(t, list, 1)
	assert.Equal(t, tx.ID, list[0].ID)

	// the explicit shutdown flush does surface the error
	require.Error(t, s.Flush(ctx))
}

func TestNewLoadsPersistedState(t *testing.T) {
	kv := storage.NewMemoryKV()
	ctx := context.Background()

	first := New(ctx, storage.NewAdapter(kv))
	_, err := first.AddTransaction(ctx, d(123), "carried over", "2024-05-05", core.Expense)
	require.NoError(t, err)
	first.SetInitialBalance(ctx, d(999))

	second := New(ctx, storage.NewAdapter(kv))
	list := second.Transactions()
	require.Len(t, list, 1)
	assert.Equal(t, "carried over", list[0].Description)
	assert.True(t, second.InitialBalance().Equal(d(999)))
}
