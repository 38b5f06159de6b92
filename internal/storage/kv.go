// Package storage persists the ledger as three independently keyed values in
// a durable key-value medium.
package storage

import "context"

// Storage keys.
const (
	KeyIncome     = "income"
	KeyExpenses   = "expenses"
	KeyBudgetGoal = "budgetGoal"
)

// Keys lists every key the adapter reads and writes.
var Keys = []string{KeyIncome, KeyExpenses, KeyBudgetGoal}

// KV is a durable string key-value store.
type KV interface {
	// Get returns ok=false when the key has never been written.
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Close() error
}
