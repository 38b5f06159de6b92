// Package ledger owns the budgeting state. Every mutation is validated,
// written through to storage and answered with freshly derived aggregates.
package ledger

import (
	"context"
	"fmt"
	"sync"
	"time"

	"budget/internal/aggregate"
	"budget/internal/chart"
	"budget/internal/core"
	"budget/internal/log"
)

// Persister loads and saves the whole ledger. storage.Adapter implements it.
type Persister interface {
	Load(ctx context.Context) core.Ledger
	Save(ctx context.Context, l core.Ledger) error
}

// Result reports the outcome of a mutation. Applied is false when the input
// was rejected; Summary always reflects the state after the call.
type Result struct {
	Applied bool
	Entry   *core.Entry
	Summary core.Summary
}

type Store struct {
	mu         sync.Mutex
	ledger     core.Ledger
	persister  Persister
	summarizer aggregate.Summarizer
	ids        *idGenerator
	now        func() time.Time
	logger     *log.Logger
	events     *log.StructuredLogger
}

type Option func(*Store)

func WithSummarizer(s aggregate.Summarizer) Option {
	return func(st *Store) {
		if s != nil {
			st.summarizer = s
		}
	}
}

// WithClock replaces the clock used for entry ids.
func WithClock(now func() time.Time) Option {
	return func(st *Store) {
		if now != nil {
			st.now = now
		}
	}
}

func WithLogger(l *log.Logger) Option {
	return func(st *Store) {
		if l != nil {
			st.logger = l
		}
	}
}

// Open loads the persisted ledger once and returns a Store owning it.
func Open(ctx context.Context, p Persister, opts ...Option) *Store {
	s := &Store{
		persister:  p,
		summarizer: aggregate.Pure{},
		now:        time.Now,
		logger:     log.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.WithComponent(log.ComponentLedger)
	s.events = log.NewStructuredLogger(s.logger)

	s.ledger = p.Load(ctx).Clone()
	s.ids = newIDGenerator(s.now, s.ledger.MaxID())

	s.logger.InfoContext(ctx, "Ledger loaded",
		log.FieldOperation, log.OpLoad,
		"income_entries", len(s.ledger.Income),
		"expense_entries", len(s.ledger.Expenses),
		log.FieldBudgetGoal, s.ledger.BudgetGoal.String())

	return s
}

func (s *Store) AddIncome(ctx context.Context, amount, category string) (Result, error) {
	return s.add(ctx, core.Income, amount, category)
}

func (s *Store) AddExpense(ctx context.Context, amount, category string) (Result, error) {
	return s.add(ctx, core.Expense, amount, category)
}

func (s *Store) add(ctx context.Context, kind core.Kind, rawAmount, category string) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	amount, err := core.ParseAmount(rawAmount)
	if err != nil || !core.IsValidCategory(kind, category) {
		s.logger.DebugContext(ctx, "Rejected entry",
			log.FieldKind, kind.String(), log.FieldAmount, rawAmount, log.FieldCategory, category)
		return s.rejected(), nil
	}

	entry := core.Entry{ID: s.ids.next(), Amount: amount, Category: category}
	next := s.ledger.Clone()
	if kind == core.Income {
		next.Income = append(next.Income, entry)
	} else {
		next.Expenses = append(next.Expenses, entry)
	}

	if err := s.commit(ctx, next, log.OpCreate); err != nil {
		return s.rejected(), err
	}

	s.events.LogEntryChange(ctx, log.OpCreate, kind.String(), entry.ID, entry.Amount.String(), entry.Category)
	return Result{Applied: true, Entry: &entry, Summary: s.summary()}, nil
}

// SetBudgetGoal replaces the goal. Zero is accepted and disables the
// over-budget check.
func (s *Store) SetBudgetGoal(ctx context.Context, raw string) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	goal, err := core.ParseBudgetGoal(raw)
	if err != nil {
		s.logger.DebugContext(ctx, "Rejected budget goal", log.FieldBudgetGoal, raw)
		return s.rejected(), nil
	}

	next := s.ledger.Clone()
	next.BudgetGoal = goal
	if err := s.commit(ctx, next, log.OpUpdate); err != nil {
		return s.rejected(), err
	}

	s.logger.InfoContext(ctx, "Budget goal set",
		log.FieldOperation, log.OpUpdate, log.FieldBudgetGoal, goal.String())
	return Result{Applied: true, Summary: s.summary()}, nil
}

// DeleteEntry removes the entry with id from the kind's collection. An
// unknown id is a no-op and nothing is written.
func (s *Store) DeleteEntry(ctx context.Context, kind core.Kind, id int64) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !kind.Valid() {
		return s.rejected(), nil
	}

	entries := s.ledger.Entries(kind)
	idx := -1
	for i, e := range entries {
		if e.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return s.rejected(), nil
	}

	removed := entries[idx]
	next := s.ledger.Clone()
	if kind == core.Income {
		next.Income = append(next.Income[:idx], next.Income[idx+1:]...)
	} else {
		next.Expenses = append(next.Expenses[:idx], next.Expenses[idx+1:]...)
	}

	if err := s.commit(ctx, next, log.OpDelete); err != nil {
		return s.rejected(), err
	}

	s.events.LogEntryChange(ctx, log.OpDelete, kind.String(), removed.ID, removed.Amount.String(), removed.Category)
	return Result{Applied: true, Entry: &removed, Summary: s.summary()}, nil
}

// commit persists next and only then makes it current, so a failed write
// leaves the previous state in place.
func (s *Store) commit(ctx context.Context, next core.Ledger, op string) error {
	if err := s.persister.Save(ctx, next); err != nil {
		s.events.LogError(ctx, "Failed to persist ledger", err, op, nil)
		return fmt.Errorf("persist ledger: %w", err)
	}
	s.ledger = next
	return nil
}

func (s *Store) rejected() Result {
	return Result{Summary: s.summary()}
}

func (s *Store) summary() core.Summary {
	return s.summarizer.Summarize(s.ledger)
}

// Snapshot returns a deep copy of the current ledger.
func (s *Store) Snapshot() core.Ledger {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.Clone()
}

func (s *Store) Summary() core.Summary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.summary()
}

// Chart projects the expense collection for rendering.
func (s *Store) Chart() chart.Series {
	s.mu.Lock()
	defer s.mu.Unlock()
	return chart.Project(s.ledger.Expenses)
}
