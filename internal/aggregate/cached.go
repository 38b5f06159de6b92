package aggregate

import (
	"strconv"

	"github.com/mitchellh/hashstructure/v2"

	"budget/internal/cache"
	"budget/internal/core"
	"budget/internal/log"
)

// Cached memoizes summaries by a content hash of the ledger. Any change to an
// entry or the goal changes the hash, so a mutated ledger is never served a
// stale summary.
type Cached struct {
	cache  cache.Cache[core.Summary]
	logger *log.Logger
}

// NewCached wraps c. A nil logger discards hash failures silently.
func NewCached(c cache.Cache[core.Summary], logger *log.Logger) *Cached {
	if logger == nil {
		logger = log.Discard()
	}
	return &Cached{cache: c, logger: logger.WithComponent(log.ComponentCache)}
}

func (c *Cached) Summarize(l core.Ledger) core.Summary {
	key, err := ContentHash(l)
	if err != nil {
		c.logger.Warn("Ledger hash failed, computing summary uncached", log.FieldError, err)
		return Summarize(l)
	}
	if s, ok := c.cache.Get(key); ok {
		return cloneSummary(s)
	}
	s := Summarize(l)
	c.cache.Set(key, cloneSummary(s))
	return s
}

// hashable mirrors the ledger with decimals rendered as text; hashstructure
// skips unexported fields, which is all decimal.Decimal has.
type hashable struct {
	Income     []hashableEntry
	Expenses   []hashableEntry
	BudgetGoal string
}

type hashableEntry struct {
	ID       int64
	Amount   string
	Category string
}

// ContentHash returns a stable key for the ledger's observable content.
func ContentHash(l core.Ledger) (string, error) {
	h := hashable{
		Income:     toHashable(l.Income),
		Expenses:   toHashable(l.Expenses),
		BudgetGoal: l.BudgetGoal.String(),
	}
	sum, err := hashstructure.Hash(h, hashstructure.FormatV2, nil)
	if err != nil {
		return "", err
	}
	return strconv.FormatUint(sum, 16), nil
}

func toHashable(entries []core.Entry) []hashableEntry {
	out := make([]hashableEntry, len(entries))
	for i, e := range entries {
		out[i] = hashableEntry{ID: e.ID, Amount: e.Amount.String(), Category: e.Category}
	}
	return out
}

func cloneSummary(s core.Summary) core.Summary {
	breakdown := make([]core.CategoryAmount, len(s.Breakdown))
	copy(breakdown, s.Breakdown)
	s.Breakdown = breakdown
	return s
}
