package storage

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"budget/internal/core"
)

// wireEntry is the persisted shape of an entry: {"id":..,"amount":..,"category":..}.
type wireEntry struct {
	ID       int64       `json:"id"`
	Amount   json.Number `json:"amount"`
	Category string      `json:"category"`
}

// EncodeEntries serializes entries as a JSON array, amounts as JSON numbers.
func EncodeEntries(entries []core.Entry) (string, error) {
	out := make([]wireEntry, len(entries))
	for i, e := range entries {
		out[i] = wireEntry{
			ID:       e.ID,
			Amount:   json.Number(e.Amount.String()),
			Category: e.Category,
		}
	}
	b, err := json.Marshal(out)
	if err != nil {
		return "", fmt.Errorf("encode entries: %w", err)
	}
	return string(b), nil
}

// DecodeEntries parses a persisted collection. Records that break an entry
// invariant (null, bad amount, empty category, repeated id) are skipped and
// counted in dropped; a malformed document is an error.
func DecodeEntries(s string) (entries []core.Entry, dropped int, err error) {
	var raw []*wireEntry
	if err := json.Unmarshal([]byte(s), &raw); err != nil {
		return nil, 0, fmt.Errorf("decode entries: %w", err)
	}

	entries = make([]core.Entry, 0, len(raw))
	seen := make(map[int64]struct{}, len(raw))
	for _, w := range raw {
		if w == nil {
			dropped++
			continue
		}
		amount, err := decimal.NewFromString(w.Amount.String())
		if err != nil {
			dropped++
			continue
		}
		e := core.Entry{ID: w.ID, Amount: amount, Category: w.Category}
		if err := e.Validate(); err != nil {
			dropped++
			continue
		}
		if _, dup := seen[e.ID]; dup {
			dropped++
			continue
		}
		seen[e.ID] = struct{}{}
		entries = append(entries, e)
	}
	return entries, dropped, nil
}

// EncodeBudgetGoal renders the goal as plain decimal text.
func EncodeBudgetGoal(d decimal.Decimal) string {
	return d.String()
}

// DecodeBudgetGoal parses plain decimal text; a JSON-quoted value is tolerated.
func DecodeBudgetGoal(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if unq, err := strconv.Unquote(s); err == nil {
		s = strings.TrimSpace(unq)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("decode budget goal: %w", err)
	}
	if err := core.ValidateBudgetGoal(d); err != nil {
		return decimal.Zero, fmt.Errorf("decode budget goal: %w", err)
	}
	return d, nil
}
