package core

import "github.com/google/uuid"

// NewID returns an opaque identifier for a new transaction. Collisions are
// negligible for any realistic ledger size, within a process and across
// restarts of the same store.
func NewID() string {
	return uuid.NewString()
}
