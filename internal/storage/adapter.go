package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"budget/internal/core"
	"budget/internal/log"
)

// Adapter maps a core.Ledger onto a KV.
type Adapter struct {
	kv     KV
	logger *log.Logger
}

func NewAdapter(kv KV, logger *log.Logger) *Adapter {
	if logger == nil {
		logger = log.Discard()
	}
	return &Adapter{kv: kv, logger: logger.WithComponent(log.ComponentStorage)}
}

// Load reads the three keys independently. Whatever cannot be read or decoded
// falls back to its empty default without affecting the other keys.
func (a *Adapter) Load(ctx context.Context) core.Ledger {
	return core.Ledger{
		Income:     a.loadEntries(ctx, KeyIncome),
		Expenses:   a.loadEntries(ctx, KeyExpenses),
		BudgetGoal: a.loadBudgetGoal(ctx),
	}
}

func (a *Adapter) loadEntries(ctx context.Context, key string) []core.Entry {
	raw, ok := a.read(ctx, key)
	if !ok {
		return []core.Entry{}
	}
	entries, dropped, err := DecodeEntries(raw)
	if err != nil {
		a.logger.WarnContext(ctx, "Corrupt stored value, using empty default",
			log.FieldKey, key, log.FieldOperation, log.OpLoad, log.FieldError, err)
		return []core.Entry{}
	}
	if dropped > 0 {
		a.logger.WarnContext(ctx, "Dropped invalid stored entries",
			log.FieldKey, key, "dropped", dropped)
	}
	return entries
}

func (a *Adapter) loadBudgetGoal(ctx context.Context) decimal.Decimal {
	raw, ok := a.read(ctx, KeyBudgetGoal)
	if !ok {
		return decimal.Zero
	}
	goal, err := DecodeBudgetGoal(raw)
	if err != nil {
		a.logger.WarnContext(ctx, "Corrupt stored value, using empty default",
			log.FieldKey, KeyBudgetGoal, log.FieldOperation, log.OpLoad, log.FieldError, err)
		return decimal.Zero
	}
	return goal
}

func (a *Adapter) read(ctx context.Context, key string) (string, bool) {
	raw, ok, err := a.kv.Get(ctx, key)
	if err != nil {
		a.logger.WarnContext(ctx, "Failed reading stored value, using empty default",
			log.FieldKey, key, log.FieldOperation, log.OpLoad, log.FieldError, err)
		return "", false
	}
	return raw, ok
}

// Save writes all three keys. Every key is attempted; failures are joined.
func (a *Adapter) Save(ctx context.Context, l core.Ledger) error {
	var errs []error

	write := func(key, value string) {
		if err := a.kv.Set(ctx, key, value); err != nil {
			errs = append(errs, fmt.Errorf("write %s: %w", key, err))
		}
	}

	income, err := EncodeEntries(l.Income)
	if err != nil {
		errs = append(errs, err)
	} else {
		write(KeyIncome, income)
	}

	expenses, err := EncodeEntries(l.Expenses)
	if err != nil {
		errs = append(errs, err)
	} else {
		write(KeyExpenses, expenses)
	}

	write(KeyBudgetGoal, EncodeBudgetGoal(l.BudgetGoal))

	if len(errs) > 0 {
		return fmt.Errorf("save ledger: %w", errors.Join(errs...))
	}
	return nil
}
