package storage

import "context"

// Durable storage keys. The adapter writes each ledger piece under its own
// key so one corrupt entry cannot take the other down with it.
const (
	KeyTransactions   = "finance_app_transactions_v2"
	KeyInitialBalance = "finance_app_initial_balance_v1"
)

// KV is the durable key-value byte store the persistence adapter writes
// through. Get reports found=false for a missing key without error.
type KV interface {
	Get(ctx context.Context, key string) (value []byte, found bool, err error)
	Set(ctx context.Context, key string, value []byte) error
}
